package processor

import (
	"image"
	"io"
	"strconv"
	"strings"

	"github.com/disintegration/gift"
	exif "github.com/dsoprea/go-exif/v3"
)

const orientationTagID = 0x0112

// Orientation is the EXIF orientation value, 1 through 8.
type Orientation int

const OrientationNormal Orientation = 1

// swapsAxes reports whether displaying the image upright exchanges width and height.
func (o Orientation) swapsAxes() bool {
	return o >= 5 && o <= 8
}

// readOrientation returns the EXIF orientation of rs. Missing or unreadable
// EXIF data is not an error; the image is treated as upright.
func readOrientation(rs io.ReadSeeker) Orientation {
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return OrientationNormal
	}

	tags, _, err := exif.GetFlatExifDataUniversalSearchWithReadSeeker(rs, nil, true)
	if err != nil {
		return OrientationNormal
	}

	for _, tag := range tags {
		if tag.TagId != orientationTagID || tag.IfdPath == "IFD1" {
			continue
		}
		if o, ok := orientationValue(tag.Value, tag.FormattedFirst); ok {
			return o
		}
	}
	return OrientationNormal
}

func orientationValue(value interface{}, formatted string) (Orientation, bool) {
	var n int
	switch v := value.(type) {
	case []uint16:
		if len(v) == 0 {
			return 0, false
		}
		n = int(v[0])
	case uint16:
		n = int(v)
	default:
		parsed, err := strconv.Atoi(strings.TrimSpace(formatted))
		if err != nil {
			return 0, false
		}
		n = parsed
	}
	if n < 1 || n > 8 {
		return 0, false
	}
	return Orientation(n), true
}

func orientationFilter(o Orientation) gift.Filter {
	switch o {
	case 2:
		return gift.FlipHorizontal()
	case 3:
		return gift.Rotate180()
	case 4:
		return gift.FlipVertical()
	case 5:
		return gift.Transpose()
	case 6:
		return gift.Rotate270()
	case 7:
		return gift.Transverse()
	case 8:
		return gift.Rotate90()
	default:
		return nil
	}
}

// applyOrientation returns img rotated/flipped so that it displays upright
// without the EXIF tag, which the WebP output does not carry.
func applyOrientation(img image.Image, o Orientation) image.Image {
	filter := orientationFilter(o)
	if filter == nil {
		return img
	}
	g := gift.New(filter)
	dst := image.NewNRGBA(g.Bounds(img.Bounds()))
	g.Draw(dst, img)
	return dst
}

package imgutil

import (
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/kolesa-team/go-webp/encoder"
	"github.com/kolesa-team/go-webp/webp"
	_ "golang.org/x/image/webp"
)

// DecodeConfig reads only the header of an image and reports its dimensions.
func DecodeConfig(r io.Reader) (image.Config, error) {
	cfg, _, err := image.DecodeConfig(r)
	return cfg, err
}

// Decode reads a full image of any registered format.
func Decode(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	return img, err
}

// EncodeWebP writes img as lossy WebP. quality is 0-100; method is the
// libwebp speed/size tradeoff, 0 (fast) to 6 (smallest).
func EncodeWebP(w io.Writer, img image.Image, quality, method int) error {
	opts, err := encoder.NewLossyEncoderOptions(encoder.PresetDefault, float32(quality))
	if err != nil {
		return err
	}
	opts.Method = method
	return webp.Encode(w, img, opts)
}

package processor

import (
	"errors"
	"fmt"
	"image"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/nfnt/resize"

	"optimg/pkg/imgutil"
)

// OutputPath returns path with its extension replaced by the target extension.
func OutputPath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + TargetExt
}

// Optimize converts a single image according to opts and reports what
// happened. It never returns an error: failures are carried in the Outcome.
func Optimize(path string, opts Options) Outcome {
	out := OutputPath(path)

	if strings.EqualFold(filepath.Ext(path), TargetExt) && exists(out) {
		return skipped(path, out)
	}

	srcInfo, err := os.Stat(path)
	if err != nil {
		return failed(path, fileErr(StageIO, path, err))
	}

	file, err := os.Open(path)
	if err != nil {
		return failed(path, fileErr(StageIO, path, err))
	}
	defer file.Close()

	kind, err := imgutil.SniffReader(file)
	if err != nil {
		return failed(path, fileErr(StageDecode, path, err))
	}
	if kind == imgutil.KindUnknown {
		return failed(path, fileErr(StageDecode, path, fmt.Errorf("%w: %s content", ErrUnsupportedFormat, kind)))
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return failed(path, fileErr(StageIO, path, err))
	}
	cfg, err := imgutil.DecodeConfig(file)
	if err != nil {
		return failed(path, fileErr(StageDecode, path, err))
	}

	orientation := OrientationNormal
	if kind == imgutil.KindJPEG {
		orientation = readOrientation(file)
	}

	width, height := cfg.Width, cfg.Height
	if orientation.swapsAxes() {
		width, height = height, width
	}
	doResize := shouldResize(path, width, opts)
	outW, outH := width, height
	if doResize {
		outW, outH = fitWidth(width, height, opts.MaxWidth)
	}

	if opts.DryRun {
		return Outcome{
			Status:       StatusPlanned,
			Path:         path,
			OutputPath:   out,
			OriginalSize: srcInfo.Size(),
			Resized:      doResize,
			Width:        outW,
			Height:       outH,
		}
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return failed(path, fileErr(StageIO, path, err))
	}
	img, err := imgutil.Decode(file)
	if err != nil {
		return failed(path, fileErr(StageDecode, path, err))
	}
	img = applyOrientation(img, orientation)

	if doResize {
		img, err = downscale(img, opts.MaxWidth)
		if err != nil {
			return failed(path, fileErr(StageResize, path, err))
		}
	}

	if err := writeWebP(img, out, opts); err != nil {
		return failed(path, err)
	}

	outInfo, err := os.Stat(out)
	if err != nil {
		return failed(path, fileErr(StageIO, out, err))
	}

	bounds := img.Bounds()
	return Outcome{
		Status:         StatusOptimized,
		Path:           path,
		OutputPath:     out,
		OriginalSize:   srcInfo.Size(),
		NewSize:        outInfo.Size(),
		SavingsPercent: SavingsPercent(srcInfo.Size(), outInfo.Size()),
		Resized:        doResize,
		Width:          bounds.Dx(),
		Height:         bounds.Dy(),
	}
}

// shouldResize applies the downscale policy: only images wider than
// MaxWidth, and never paths carrying the logo marker below opts.Root.
func shouldResize(path string, width int, opts Options) bool {
	if width <= opts.MaxWidth {
		return false
	}
	if opts.LogoMarker != "" && strings.Contains(strings.ToLower(markerPath(path, opts.Root)), strings.ToLower(opts.LogoMarker)) {
		return false
	}
	return true
}

// markerPath returns path relative to root, or path itself when root is
// unset or path is not below it.
func markerPath(path, root string) string {
	if root == "" {
		return path
	}
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return rel
}

// fitWidth scales (w, h) so the width equals maxWidth, keeping aspect ratio.
func fitWidth(w, h, maxWidth int) (int, int) {
	if w <= maxWidth || w == 0 {
		return w, h
	}
	nh := int(math.Round(float64(h) * float64(maxWidth) / float64(w)))
	if nh < 1 {
		nh = 1
	}
	return maxWidth, nh
}

func downscale(img image.Image, maxWidth int) (image.Image, error) {
	b := img.Bounds()
	w, h := fitWidth(b.Dx(), b.Dy(), maxWidth)
	if w == b.Dx() {
		return img, nil
	}
	resized := resize.Resize(uint(w), uint(h), img, resize.Lanczos3)
	if resized.Bounds().Dx() != w {
		return nil, fmt.Errorf("resize produced width %d, want %d", resized.Bounds().Dx(), w)
	}
	return resized, nil
}

// writeWebP encodes into a temp file beside dest and renames it into place,
// so a failed encode never leaves a partial output behind.
func writeWebP(img image.Image, dest string, opts Options) error {
	dir := filepath.Dir(dest)
	tmpFile, err := os.CreateTemp(dir, ".optimg-*.tmp")
	if err != nil {
		return fileErr(StageIO, dest, err)
	}
	defer os.Remove(tmpFile.Name())

	if err := imgutil.EncodeWebP(tmpFile, img, opts.Quality, opts.Method); err != nil {
		_ = tmpFile.Close()
		return fileErr(StageEncode, dest, err)
	}
	if err := tmpFile.Sync(); err != nil {
		_ = tmpFile.Close()
		return fileErr(StageIO, dest, err)
	}
	if err := tmpFile.Close(); err != nil {
		return fileErr(StageIO, dest, err)
	}
	if err := os.Chmod(tmpFile.Name(), 0o644); err != nil {
		return fileErr(StageIO, dest, err)
	}

	if err := replaceFile(tmpFile.Name(), dest); err != nil {
		return fileErr(StageIO, dest, err)
	}
	return nil
}

// SavingsPercent is (original-new)/original*100 rounded to one decimal.
// Negative values mean the output grew. A zero original yields 0.
func SavingsPercent(original, updated int64) float64 {
	if original <= 0 {
		return 0
	}
	pct := float64(original-updated) / float64(original) * 100
	return math.Round(pct*10) / 10
}

func replaceFile(tmpPath, destPath string) error {
	if err := os.Rename(tmpPath, destPath); err == nil {
		return nil
	}
	if err := os.Remove(destPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return os.Rename(tmpPath, destPath)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

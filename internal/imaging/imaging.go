// Package imaging sniffs and shrinks uploaded photos before they are sent to
// the image host. Phone cameras produce multi-megabyte JPEGs of shelf labels
// and bills; downscaling them to a sane size keeps the store cheap.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/image/draw"
)

var (
	// ErrNotImage is returned when the payload is not an image.
	ErrNotImage = errors.New("imaging: not an image")
	// ErrTooLarge is returned when even the fallback pass exceeds MaxBytes,
	// or when the image has more pixels than MaxPixels.
	ErrTooLarge = errors.New("imaging: image too large")
)

// DefaultMaxPixels bounds width*height of images that get decoded.
const DefaultMaxPixels = 40_000_000

// Options controls Compress.
type Options struct {
	MaxDimension int // longest side, px
	Quality      int // JPEG quality 1..100
	// MaxBytes, when positive, triggers a second, harsher pass with the
	// fallback settings and rejects the image if that is still too big.
	MaxBytes          int
	FallbackDimension int
	FallbackQuality   int
	// MaxPixels caps width*height read from the header before decoding;
	// zero means DefaultMaxPixels.
	MaxPixels int
}

// DefaultOptions mirrors the browser-side compression of the web client.
func DefaultOptions() Options {
	return Options{
		MaxDimension:      1920,
		Quality:           80,
		MaxBytes:          4 << 20,
		FallbackDimension: 1280,
		FallbackQuality:   60,
		MaxPixels:         DefaultMaxPixels,
	}
}

// Result is the processed image.
type Result struct {
	Data    []byte
	MIME    string
	Resized bool
}

// Detect returns the sniffed MIME type of data.
func Detect(data []byte) string {
	return mimetype.Detect(data).String()
}

// IsImage reports whether data sniffs as image/*.
func IsImage(data []byte) bool {
	return strings.HasPrefix(Detect(data), "image/")
}

// Compress validates data as an image and downscales/re-encodes JPEG and
// PNG input. Other image formats pass through untouched.
func Compress(data []byte, opts Options) (*Result, error) {
	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return nil, ErrNotImage
	}
	mime := mt.String()
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = mime[:i]
	}

	var (
		res *Result
		err error
	)
	switch {
	case mt.Is("image/jpeg"), mt.Is("image/png"):
		if err := checkPixels(data, mime, opts.MaxPixels); err != nil {
			return nil, err
		}
		res, err = shrink(data, mime, opts.MaxDimension, opts.Quality)
		if err != nil {
			return nil, err
		}
		if opts.MaxBytes > 0 && len(res.Data) > opts.MaxBytes && opts.FallbackDimension > 0 {
			res, err = shrink(data, mime, opts.FallbackDimension, opts.FallbackQuality)
			if err != nil {
				return nil, err
			}
		}
	default:
		res = &Result{Data: data, MIME: mime}
	}

	if opts.MaxBytes > 0 && len(res.Data) > opts.MaxBytes {
		return nil, ErrTooLarge
	}
	return res, nil
}

// checkPixels reads only the header, so an oversized image is refused before
// the decoder allocates its pixel buffer.
func checkPixels(data []byte, mime string, maxPixels int) error {
	if maxPixels <= 0 {
		maxPixels = DefaultMaxPixels
	}
	var (
		cfg image.Config
		err error
	)
	if mime == "image/png" {
		cfg, err = png.DecodeConfig(bytes.NewReader(data))
	} else {
		cfg, err = jpeg.DecodeConfig(bytes.NewReader(data))
	}
	if err != nil {
		return fmt.Errorf("imaging: decode %s header: %w", mime, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("imaging: empty %s image", mime)
	}
	if int64(cfg.Width)*int64(cfg.Height) > int64(maxPixels) {
		return fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrTooLarge, cfg.Width, cfg.Height, maxPixels)
	}
	return nil
}

func shrink(data []byte, mime string, maxDim, quality int) (*Result, error) {
	var (
		img image.Image
		err error
	)
	if mime == "image/png" {
		img, err = png.Decode(bytes.NewReader(data))
	} else {
		img, err = jpeg.Decode(bytes.NewReader(data))
	}
	if err != nil {
		return nil, fmt.Errorf("imaging: decode %s: %w", mime, err)
	}

	scaled, resized := downscale(img, maxDim)

	var buf bytes.Buffer
	if mime == "image/png" {
		enc := png.Encoder{CompressionLevel: png.BestCompression}
		err = enc.Encode(&buf, scaled)
	} else {
		if quality < 1 || quality > 100 {
			quality = jpeg.DefaultQuality
		}
		err = jpeg.Encode(&buf, scaled, &jpeg.Options{Quality: quality})
	}
	if err != nil {
		return nil, fmt.Errorf("imaging: encode %s: %w", mime, err)
	}

	// Re-encoding an already small file can grow it; keep the original then.
	if !resized && buf.Len() >= len(data) {
		return &Result{Data: data, MIME: mime}, nil
	}
	return &Result{Data: buf.Bytes(), MIME: mime, Resized: resized}, nil
}

// downscale resizes img so neither side exceeds maxDim, preserving aspect
// ratio, using Catmull-Rom interpolation.
func downscale(img image.Image, maxDim int) (image.Image, bool) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if maxDim <= 0 || (w <= maxDim && h <= maxDim) {
		return img, false
	}

	newW, newH := w, h
	if w > h {
		newW = maxDim
		newH = int(float64(h) * float64(maxDim) / float64(w))
	} else {
		newH = maxDim
		newW = int(float64(w) * float64(maxDim) / float64(h))
	}
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst, true
}

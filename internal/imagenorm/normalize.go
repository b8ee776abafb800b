// Package imagenorm prepares uploaded photos for the vision model: intact
// images in a common web format pass through untouched, everything else is
// decoded and re-encoded as JPEG, and oversized images are scaled down.
package imagenorm

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io/fs"
	"math"
	"os"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"crayon/internal/domain"
)

const (
	DefaultMaxSide   = 1024
	DefaultQuality   = 85
	DefaultMaxPixels = 50_000_000
)

// standard lists the formats sent as-is, keyed by image.Decode format name.
var standard = map[string]string{
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"webp": "image/webp",
}

// Image is a normalized image ready for upload.
type Image struct {
	Data       []byte
	MIME       string
	Format     string
	Width      int
	Height     int
	Transcoded bool
}

// DataURI renders the image as a base64 data URI.
func (i Image) DataURI() string {
	return "data:" + i.MIME + ";base64," + base64.StdEncoding.EncodeToString(i.Data)
}

type Options struct {
	// MaxSide caps the longer edge in pixels; <= 0 disables scaling.
	MaxSide int
	// Quality is the JPEG quality used when re-encoding.
	Quality int
	// MaxPixels rejects images whose declared canvas is larger before any
	// pixel data is decoded; <= 0 uses DefaultMaxPixels.
	MaxPixels int
}

type Normalizer struct {
	maxSide   int
	quality   int
	maxPixels int
}

func New(opts Options) *Normalizer {
	if opts.Quality <= 0 || opts.Quality > 100 {
		opts.Quality = DefaultQuality
	}
	if opts.MaxPixels <= 0 {
		opts.MaxPixels = DefaultMaxPixels
	}
	return &Normalizer{maxSide: opts.MaxSide, quality: opts.Quality, maxPixels: opts.MaxPixels}
}

// NormalizeFile reads and normalizes the image at path.
func (n *Normalizer) NormalizeFile(path string) (Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Image{}, fmt.Errorf("%w: %s", domain.ErrNotFound, path)
		}
		return Image{}, fmt.Errorf("imagenorm: read %s: %w", path, err)
	}
	img, err := n.Normalize(data)
	if err != nil {
		return Image{}, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

// Normalize returns data unchanged when it fully decodes as a standard format
// within the size cap. Otherwise the decoded image is re-encoded as JPEG.
// The header is checked against the pixel budget first, since decoders
// allocate the full canvas up front.
func (n *Normalizer) Normalize(data []byte) (Image, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Image{}, fmt.Errorf("%w: %v", domain.ErrDecode, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > int64(n.maxPixels) {
		return Image{}, fmt.Errorf("%w: %dx%d exceeds the %d pixel limit", domain.ErrDecode, cfg.Width, cfg.Height, n.maxPixels)
	}

	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Image{}, fmt.Errorf("%w: %v", domain.ErrDecode, err)
	}
	bounds := src.Bounds()
	if mime, ok := standard[format]; ok && !n.oversized(bounds.Dx(), bounds.Dy()) {
		return Image{
			Data:   data,
			MIME:   mime,
			Format: format,
			Width:  bounds.Dx(),
			Height: bounds.Dy(),
		}, nil
	}
	return n.transcode(src)
}

func (n *Normalizer) oversized(w, h int) bool {
	return n.maxSide > 0 && max(w, h) > n.maxSide
}

func (n *Normalizer) transcode(src image.Image) (Image, error) {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if n.oversized(w, h) {
		scale := float64(n.maxSide) / float64(max(w, h))
		w = max(1, int(math.Round(float64(w)*scale)))
		h = max(1, int(math.Round(float64(h)*scale)))
	}

	// JPEG has no alpha; flatten onto white.
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	if w == bounds.Dx() && h == bounds.Dy() {
		draw.Draw(dst, dst.Bounds(), src, bounds.Min, draw.Over)
	} else {
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: n.quality}); err != nil {
		return Image{}, fmt.Errorf("imagenorm: encode jpeg: %w", err)
	}
	return Image{
		Data:       buf.Bytes(),
		MIME:       "image/jpeg",
		Format:     "jpeg",
		Width:      w,
		Height:     h,
		Transcoded: true,
	}, nil
}

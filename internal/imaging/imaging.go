// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package imaging generates bounded thumbnails for uploaded images. The
// thumbnail keeps the source format: JPEG stays JPEG, PNG keeps its alpha
// channel and GIF keeps its palette (including the transparent index).
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"math"

	"golang.org/x/image/draw"
)

const (
	// MaxPixels caps the decoded size of a source image to prevent memory
	// bombs. 10000x10000 = 100 million pixels, ~400 MB decoded in RGBA.
	MaxPixels = 100_000_000

	// JPEGQuality is used when re-encoding JPEG thumbnails.
	JPEGQuality = 85
)

var (
	ErrTooManyPixels     = errors.New("image has too many pixels")
	ErrUnsupportedFormat = errors.New("unsupported image format")
)

// FitWithin returns the size of a w×h image scaled to fit inside
// maxW×maxH with its aspect ratio kept. Images are never enlarged, and
// each side is at least one pixel.
func FitWithin(w, h, maxW, maxH int) (int, int) {
	if w <= 0 || h <= 0 {
		return 0, 0
	}
	ratio := math.Min(math.Min(float64(maxW)/float64(w), float64(maxH)/float64(h)), 1)
	nw := int(math.Round(float64(w) * ratio))
	nh := int(math.Round(float64(h) * ratio))
	return max(nw, 1), max(nh, 1)
}

// Thumbnail decodes data and returns it scaled to fit maxW×maxH, encoded
// in the same format as the source. The format name ("jpeg", "png" or
// "gif") is returned alongside the encoded bytes.
func Thumbnail(data []byte, maxW, maxH int) ([]byte, string, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("decode config: %w", err)
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return nil, format, fmt.Errorf("%w: %dx%d", ErrTooManyPixels, cfg.Width, cfg.Height)
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, format, fmt.Errorf("decode image: %w", err)
	}

	bounds := src.Bounds()
	w, h := FitWithin(bounds.Dx(), bounds.Dy(), maxW, maxH)
	rect := image.Rect(0, 0, w, h)

	var buf bytes.Buffer
	switch format {
	case "jpeg":
		dst := image.NewRGBA(rect)
		draw.CatmullRom.Scale(dst, rect, src, bounds, draw.Src, nil)
		err = jpeg.Encode(&buf, dst, &jpeg.Options{Quality: JPEGQuality})
	case "png":
		dst := image.NewNRGBA(rect)
		draw.CatmullRom.Scale(dst, rect, src, bounds, draw.Src, nil)
		err = png.Encode(&buf, dst)
	case "gif":
		err = encodeGIF(&buf, src, bounds, rect)
	default:
		return nil, format, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, format, fmt.Errorf("encode %s thumbnail: %w", format, err)
	}
	return buf.Bytes(), format, nil
}

// encodeGIF scales a GIF frame with nearest-neighbour sampling so every
// output pixel keeps an exact palette index, transparency included.
func encodeGIF(buf *bytes.Buffer, src image.Image, bounds, rect image.Rectangle) error {
	pal, ok := src.(*image.Paletted)
	if !ok {
		dst := image.NewRGBA(rect)
		draw.CatmullRom.Scale(dst, rect, src, bounds, draw.Src, nil)
		return gif.Encode(buf, dst, nil)
	}
	dst := image.NewPaletted(rect, pal.Palette)
	draw.NearestNeighbor.Scale(dst, rect, pal, bounds, draw.Src, nil)
	return gif.Encode(buf, dst, &gif.Options{NumColors: len(pal.Palette)})
}

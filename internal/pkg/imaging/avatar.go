package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"

	"golang.org/x/image/draw"
)

const (
	DefaultMaxSide = 400
	JPEGQuality    = 70
)

var ErrUnsupportedFormat = errors.New("unsupported image format")

// Result is a re-encoded image ready to be stored.
type Result struct {
	Data   []byte
	Format string
	Ext    string
	Width  int
	Height int
}

// Thumbnail decodes a JPEG or PNG, shrinks it to fit inside maxSide x maxSide
// keeping its aspect ratio, and re-encodes it in the same format. JPEG output
// uses quality 70 and PNG output uses best compression.
func Thumbnail(r io.Reader, maxSide int) (*Result, error) {
	if maxSide <= 0 {
		maxSide = DefaultMaxSide
	}

	src, format, err := image.Decode(r)
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, ErrUnsupportedFormat
		}
		return nil, fmt.Errorf("decode image: %w", err)
	}
	if format != "jpeg" && format != "png" {
		return nil, ErrUnsupportedFormat
	}

	dst := fit(src, maxSide)

	var buf bytes.Buffer
	res := &Result{Format: format, Width: dst.Bounds().Dx(), Height: dst.Bounds().Dy()}
	switch format {
	case "jpeg":
		res.Ext = ".jpg"
		err = jpeg.Encode(&buf, dst, &jpeg.Options{Quality: JPEGQuality})
	case "png":
		res.Ext = ".png"
		enc := png.Encoder{CompressionLevel: png.BestCompression}
		err = enc.Encode(&buf, dst)
	}
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", format, err)
	}

	res.Data = buf.Bytes()
	return res, nil
}

func fit(src image.Image, maxSide int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxSide && h <= maxSide {
		return src
	}

	nw, nh := maxSide, maxSide
	if w > h {
		nh = h * maxSide / w
	} else {
		nw = w * maxSide / h
	}
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}

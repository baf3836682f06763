package vision

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"math"

	// Formats accepted from cameras and file pickers.
	_ "image/gif"
	_ "image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// Image defaults.
const (
	DefaultMaxEdge     = 1024
	DefaultJPEGQuality = 80
)

// FitWithin scales w x h so that the longer edge is at most maxEdge.
// Images that already fit are returned unchanged.
func FitWithin(w, h, maxEdge int) (int, int) {
	if maxEdge <= 0 || w <= 0 || h <= 0 {
		return w, h
	}
	if w > h {
		if w > maxEdge {
			h = scaleEdge(h, maxEdge, w)
			w = maxEdge
		}
	} else if h > maxEdge {
		w = scaleEdge(w, maxEdge, h)
		h = maxEdge
	}
	return w, h
}

func scaleEdge(edge, num, den int) int {
	v := int(math.Round(float64(edge) * float64(num) / float64(den)))
	if v < 1 {
		return 1
	}
	return v
}

// PrepareImage decodes a photo, shrinks it to maxEdge and re-encodes it as
// JPEG at the given quality.
func PrepareImage(data []byte, maxEdge, quality int) ([]byte, error) {
	if maxEdge <= 0 {
		maxEdge = DefaultMaxEdge
	}
	if quality <= 0 || quality > 100 {
		quality = DefaultJPEGQuality
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &Error{Kind: KindImage, Err: fmt.Errorf("decode image: %w", err)}
	}

	bounds := src.Bounds()
	w, h := FitWithin(bounds.Dx(), bounds.Dy(), maxEdge)

	var out image.Image = src
	if w != bounds.Dx() || h != bounds.Dy() {
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
		out = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, out, &jpeg.Options{Quality: quality}); err != nil {
		return nil, &Error{Kind: KindImage, Err: fmt.Errorf("encode jpeg: %w", err)}
	}
	return buf.Bytes(), nil
}

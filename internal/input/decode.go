package input

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"linux-shadertoy/internal/convert"
	"linux-shadertoy/internal/gfx"

	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// DecodeImage decodes png, jpeg, gif, webp, bmp or .tex data into RGBA.
func DecodeImage(data []byte) (*image.RGBA, error) {
	if convert.IsTex(data) {
		return convert.DecodeTex(data)
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("input: decode image: %w", err)
	}

	if rgba, ok := src.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) {
		return rgba, nil
	}

	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(dst, dst.Bounds(), src, b.Min, xdraw.Src)
	return dst, nil
}

// toImage packs an RGBA image into a texture payload, optionally flipping rows so
// that the first row in memory is the bottom of the picture.
func toImage(img *image.RGBA, flipY bool) gfx.Image {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	pix := make([]byte, w*h*4)
	for y := 0; y < h; y++ {
		srcRow := y
		if flipY {
			srcRow = h - 1 - y
		}
		start := img.PixOffset(img.Rect.Min.X, img.Rect.Min.Y+srcRow)
		copy(pix[y*w*4:(y+1)*w*4], img.Pix[start:start+w*4])
	}
	return gfx.Image{
		Format:          gfx.FormatRGBA8,
		Width:           w,
		Height:          h,
		Depth:           1,
		Pixels:          pix,
		UnpackAlignment: 4,
	}
}

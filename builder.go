package avifpix

import (
	"fmt"
	"image"
)

// ImageObjectBuilder turns a completely filled buffer into a displayable image.
// Build takes ownership of the buffer.
type ImageObjectBuilder interface {
	Build(buf *PixelBuffer) (image.Image, error)
}

// ImageObjectBuilderFunc adapts a function to ImageObjectBuilder.
type ImageObjectBuilderFunc func(buf *PixelBuffer) (image.Image, error)

// Build calls f(buf).
func (f ImageObjectBuilderFunc) Build(buf *PixelBuffer) (image.Image, error) {
	return f(buf)
}

// StdImageBuilder wraps buffers into image package types.
//
// RGBA layouts share memory with the buffer, BGRA layouts are copied with
// swapped channels.
type StdImageBuilder struct{}

// Build implements ImageObjectBuilder.
func (StdImageBuilder) Build(buf *PixelBuffer) (image.Image, error) {
	rect := image.Rect(0, 0, buf.Width, buf.Height)

	switch buf.Format {
	case FormatRGBA8:
		return &image.NRGBA{Pix: buf.Pix, Stride: buf.Stride, Rect: rect}, nil
	case FormatRGBA8Premul:
		return &image.RGBA{Pix: buf.Pix, Stride: buf.Stride, Rect: rect}, nil
	case FormatRGBA16:
		return &image.NRGBA64{Pix: buf.Pix, Stride: buf.Stride, Rect: rect}, nil
	case FormatRGBA16Premul:
		return &image.RGBA64{Pix: buf.Pix, Stride: buf.Stride, Rect: rect}, nil
	case FormatBGRA8:
		img := image.NewNRGBA(rect)
		swizzleBGRA(img.Pix, img.Stride, buf)
		return img, nil
	case FormatBGRA8Premul:
		img := image.NewRGBA(rect)
		swizzleBGRA(img.Pix, img.Stride, buf)
		return img, nil
	default:
		return nil, fmt.Errorf("%w: cannot build image from %s", ErrFormatMismatch, buf.Format)
	}
}

func swizzleBGRA(dst []byte, dstStride int, buf *PixelBuffer) {
	for y := 0; y < buf.Height; y++ {
		src := buf.Row(y)
		row := dst[y*dstStride : y*dstStride+len(src)]
		for i := 0; i < len(src); i += 4 {
			row[i] = src[i+2]
			row[i+1] = src[i+1]
			row[i+2] = src[i]
			row[i+3] = src[i+3]
		}
	}
}

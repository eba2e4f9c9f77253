package avifpix

import (
	"fmt"
	"math"
)

// PixelFormat is the layout of a destination buffer.
type PixelFormat uint8

const (
	// FormatRGBA8 is 8-bit RGBA with straight alpha.
	FormatRGBA8 PixelFormat = iota

	// FormatRGBA8Premul is 8-bit RGBA with premultiplied alpha, the default.
	FormatRGBA8Premul

	// FormatBGRA8 is 8-bit BGRA with straight alpha.
	FormatBGRA8

	// FormatBGRA8Premul is 8-bit BGRA with premultiplied alpha.
	FormatBGRA8Premul

	// FormatRGBA16 is 16-bit big-endian RGBA with straight alpha.
	FormatRGBA16

	// FormatRGBA16Premul is 16-bit big-endian RGBA with premultiplied alpha.
	FormatRGBA16Premul

	formatCount
)

// ChannelOrder is the order of color channels in memory, alpha is always last.
type ChannelOrder uint8

const (
	OrderRGBA ChannelOrder = iota
	OrderBGRA
)

// FormatInfo contains metadata about a pixel format.
type FormatInfo struct {
	BytesPerPixel  int
	BitsPerChannel int
	Order          ChannelOrder
	Premultiplied  bool
}

var formatInfoTable = [formatCount]FormatInfo{
	FormatRGBA8:        {BytesPerPixel: 4, BitsPerChannel: 8, Order: OrderRGBA},
	FormatRGBA8Premul:  {BytesPerPixel: 4, BitsPerChannel: 8, Order: OrderRGBA, Premultiplied: true},
	FormatBGRA8:        {BytesPerPixel: 4, BitsPerChannel: 8, Order: OrderBGRA},
	FormatBGRA8Premul:  {BytesPerPixel: 4, BitsPerChannel: 8, Order: OrderBGRA, Premultiplied: true},
	FormatRGBA16:       {BytesPerPixel: 8, BitsPerChannel: 16, Order: OrderRGBA},
	FormatRGBA16Premul: {BytesPerPixel: 8, BitsPerChannel: 16, Order: OrderRGBA, Premultiplied: true},
}

// Info returns the FormatInfo for this format, zero for unknown formats.
func (f PixelFormat) Info() FormatInfo {
	if f >= formatCount {
		return FormatInfo{}
	}
	return formatInfoTable[f]
}

// IsValid reports whether f is a known format.
func (f PixelFormat) IsValid() bool {
	return f < formatCount
}

// BytesPerPixel returns the number of bytes per pixel.
func (f PixelFormat) BytesPerPixel() int {
	return f.Info().BytesPerPixel
}

// IsPremultiplied reports whether color channels are multiplied by alpha.
func (f PixelFormat) IsPremultiplied() bool {
	return f.Info().Premultiplied
}

// RowBytes returns the number of meaningful bytes in a row of the given width.
func (f PixelFormat) RowBytes(width int) int {
	return width * f.BytesPerPixel()
}

func (f PixelFormat) String() string {
	switch f {
	case FormatRGBA8:
		return "RGBA8"
	case FormatRGBA8Premul:
		return "RGBA8Premul"
	case FormatBGRA8:
		return "BGRA8"
	case FormatBGRA8Premul:
		return "BGRA8Premul"
	case FormatRGBA16:
		return "RGBA16"
	case FormatRGBA16Premul:
		return "RGBA16Premul"
	default:
		return fmt.Sprintf("PixelFormat(%d)", int(f))
	}
}

// PixelBuffer is an interleaved destination buffer.
type PixelBuffer struct {
	Pix    []byte
	Stride int
	Width  int
	Height int
	Format PixelFormat
}

// NewPixelBuffer allocates a buffer with stride aligned to rowAlignment bytes.
// Allocations above maxBytes fail with ErrAllocationFailure, maxBytes <= 0 means no limit.
func NewPixelBuffer(width, height int, format PixelFormat, rowAlignment, maxBytes int) (*PixelBuffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	if !format.IsValid() {
		return nil, fmt.Errorf("%w: unknown pixel format %s", ErrFormatMismatch, format)
	}
	if rowAlignment <= 0 {
		rowAlignment = 1
	}

	bpp := format.BytesPerPixel()
	if width > (math.MaxInt-rowAlignment)/bpp {
		return nil, fmt.Errorf("%w: row of %d pixels overflows", ErrAllocationFailure, width)
	}
	stride := (width*bpp + rowAlignment - 1) / rowAlignment * rowAlignment
	if height > math.MaxInt/stride {
		return nil, fmt.Errorf("%w: %dx%d overflows", ErrAllocationFailure, width, height)
	}
	size := stride * height
	if maxBytes > 0 && size > maxBytes {
		return nil, fmt.Errorf("%w: %d bytes requested, limit %d", ErrAllocationFailure, size, maxBytes)
	}

	pix, err := allocate(size)
	if err != nil {
		return nil, err
	}

	return &PixelBuffer{
		Pix:    pix,
		Stride: stride,
		Width:  width,
		Height: height,
		Format: format,
	}, nil
}

func allocate(size int) (pix []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			pix = nil
			err = fmt.Errorf("%w: %v", ErrAllocationFailure, r)
		}
	}()

	return make([]byte, size), nil
}

// Validate checks that b can receive a width x height image.
func (b *PixelBuffer) Validate(width, height int) error {
	if b == nil {
		return fmt.Errorf("%w: nil buffer", ErrInvalidDimensions)
	}
	if !b.Format.IsValid() {
		return fmt.Errorf("%w: unknown pixel format %s", ErrFormatMismatch, b.Format)
	}
	if width <= 0 || height <= 0 || b.Width != width || b.Height != height {
		return fmt.Errorf("%w: buffer %dx%d, image %dx%d", ErrInvalidDimensions, b.Width, b.Height, width, height)
	}

	rowBytes := b.Format.RowBytes(width)
	if b.Stride < rowBytes {
		return fmt.Errorf("%w: stride %d is less than %d", ErrInvalidDimensions, b.Stride, rowBytes)
	}
	if len(b.Pix) < b.Stride*(height-1)+rowBytes {
		return fmt.Errorf("%w: buffer of %d bytes is too small", ErrInvalidDimensions, len(b.Pix))
	}

	return nil
}

// Row returns the meaningful bytes of row y.
func (b *PixelBuffer) Row(y int) []byte {
	o := y * b.Stride
	return b.Pix[o : o+b.Format.RowBytes(b.Width)]
}

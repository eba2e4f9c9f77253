// Package rawyuv reads planar YUV frames as written by decoders and ffmpeg
// (-f rawvideo), optionally zstd compressed.
package rawyuv

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
)

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// ErrShortFrame is returned when input ends before a complete frame.
var ErrShortFrame = errors.New("rawyuv: short frame")

// Layout describes frame geometry.
type Layout struct {
	Width, Height int
	// Depth is sample bit depth, samples above 8 bits take two bytes, little-endian.
	Depth int
	// ShiftX and ShiftY are chroma subsampling shifts, 1 halves the dimension.
	ShiftX, ShiftY int
	Monochrome     bool
}

// BytesPerSample returns storage size of a sample.
func (l Layout) BytesPerSample() int {
	if l.Depth > 8 {
		return 2
	}
	return 1
}

// ChromaSize returns chroma plane dimensions, zero for monochrome layouts.
func (l Layout) ChromaSize() (w, h int) {
	if l.Monochrome {
		return 0, 0
	}
	return (l.Width + 1<<l.ShiftX - 1) >> l.ShiftX, (l.Height + 1<<l.ShiftY - 1) >> l.ShiftY
}

// FrameSize returns the number of bytes in a frame.
func (l Layout) FrameSize() int {
	cw, ch := l.ChromaSize()
	return (l.Width*l.Height + 2*cw*ch) * l.BytesPerSample()
}

// Frame holds tightly packed planes.
type Frame struct {
	Layout Layout

	Y, U, V []byte
	YStride int
	CStride int
}

// NewReader returns r, decompressing it if it starts with a zstd frame.
func NewReader(r io.Reader) (io.ReadCloser, error) {
	br := bufio.NewReader(r)

	head, err := br.Peek(len(zstdMagic))
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if !bytes.Equal(head, zstdMagic) {
		return io.NopCloser(br), nil
	}

	dec, err := zstd.NewReader(br, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, fmt.Errorf("zstd: %w", err)
	}

	return dec.IOReadCloser(), nil
}

// Read reads one frame from r.
func Read(r io.Reader, l Layout) (*Frame, error) {
	if l.Width <= 0 || l.Height <= 0 {
		return nil, fmt.Errorf("rawyuv: invalid dimensions %dx%d", l.Width, l.Height)
	}
	if l.Depth < 8 || l.Depth > 16 {
		return nil, fmt.Errorf("rawyuv: invalid depth %d", l.Depth)
	}

	buf := make([]byte, l.FrameSize())
	if _, err := io.ReadFull(r, buf); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: %d bytes expected", ErrShortFrame, len(buf))
		}
		return nil, err
	}

	bps := l.BytesPerSample()
	cw, ch := l.ChromaSize()
	ySize := l.Width * l.Height * bps
	cSize := cw * ch * bps

	return &Frame{
		Layout:  l,
		Y:       buf[:ySize],
		U:       buf[ySize : ySize+cSize],
		V:       buf[ySize+cSize:],
		YStride: l.Width * bps,
		CStride: cw * bps,
	}, nil
}

// ReadFile reads the first frame of a raw or zstd compressed file.
func ReadFile(name string, l Layout) (*Frame, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()

	r, err := NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	defer func() {
		_ = r.Close()
	}()

	fr, err := Read(r, l)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	return fr, nil
}

// ReadPlaneFile reads a single full resolution plane, e.g. alpha.
func ReadPlaneFile(name string, width, height, depth int) ([]byte, error) {
	fr, err := ReadFile(name, Layout{Width: width, Height: height, Depth: depth, Monochrome: true})
	if err != nil {
		return nil, err
	}

	return fr.Y, nil
}

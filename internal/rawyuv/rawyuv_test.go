package rawyuv

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"
)

func frameBytes(l Layout) []byte {
	b := make([]byte, l.FrameSize())
	for i := range b {
		b[i] = byte(i)
	}
	return b
}

func TestLayout(t *testing.T) {
	cases := []struct {
		l      Layout
		cw, ch int
		size   int
	}{
		{l: Layout{Width: 5, Height: 3, Depth: 8, ShiftX: 1, ShiftY: 1}, cw: 3, ch: 2, size: 15 + 12},
		{l: Layout{Width: 5, Height: 3, Depth: 10, ShiftX: 1}, cw: 3, ch: 3, size: (15 + 18) * 2},
		{l: Layout{Width: 5, Height: 3, Depth: 12}, cw: 5, ch: 3, size: 45 * 2},
		{l: Layout{Width: 5, Height: 3, Depth: 8, Monochrome: true}, cw: 0, ch: 0, size: 15},
	}

	for _, c := range cases {
		cw, ch := c.l.ChromaSize()
		if cw != c.cw || ch != c.ch || c.l.FrameSize() != c.size {
			t.Fatalf("%+v: chroma %dx%d, size %d", c.l, cw, ch, c.l.FrameSize())
		}
	}
}

func TestRead(t *testing.T) {
	l := Layout{Width: 4, Height: 2, Depth: 10, ShiftX: 1, ShiftY: 1}
	raw := frameBytes(l)

	fr, err := Read(bytes.NewReader(raw), l)
	if err != nil {
		t.Fatal(err)
	}
	if len(fr.Y) != 16 || len(fr.U) != 4 || len(fr.V) != 4 || fr.YStride != 8 || fr.CStride != 4 {
		t.Fatalf("unexpected planes: %d %d %d, strides %d %d", len(fr.Y), len(fr.U), len(fr.V), fr.YStride, fr.CStride)
	}
	if fr.U[0] != 16 || fr.V[0] != 20 {
		t.Fatalf("unexpected plane offsets: %d %d", fr.U[0], fr.V[0])
	}

	if _, err := Read(bytes.NewReader(raw[:10]), l); !errors.Is(err, ErrShortFrame) {
		t.Fatalf("expected short frame, got %v", err)
	}
	if _, err := Read(bytes.NewReader(raw), Layout{Width: 0, Height: 2, Depth: 8}); err == nil {
		t.Fatal("error expected for zero width")
	}
}

func TestReadFile_zstd(t *testing.T) {
	l := Layout{Width: 7, Height: 5, Depth: 8, ShiftX: 1, ShiftY: 1}
	raw := frameBytes(l)

	var compressed bytes.Buffer
	enc, err := zstd.NewWriter(&compressed)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := enc.Write(raw); err != nil {
		t.Fatal(err)
	}
	if err := enc.Close(); err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	plain := filepath.Join(dir, "frame.yuv")
	packed := filepath.Join(dir, "frame.yuv.zst")
	if err := os.WriteFile(plain, raw, 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(packed, compressed.Bytes(), 0o600); err != nil {
		t.Fatal(err)
	}

	a, err := ReadFile(plain, l)
	if err != nil {
		t.Fatal(err)
	}
	b, err := ReadFile(packed, l)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a.Y, b.Y) || !bytes.Equal(a.U, b.U) || !bytes.Equal(a.V, b.V) {
		t.Fatal("compressed frame differs")
	}

	alpha, err := ReadPlaneFile(plain, 7, 5, 8)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(alpha, raw[:35]) {
		t.Fatal("unexpected alpha plane")
	}
}

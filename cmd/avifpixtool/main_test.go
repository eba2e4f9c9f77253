package main

import (
	"bytes"
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/vearutop/avifpix"
)

func TestLookup(t *testing.T) {
	m, err := lookup("matrix", matrixNames, "BT2020")
	if err != nil || m != avifpix.MatrixBT2020NCL {
		t.Fatalf("unexpected %v, %v", m, err)
	}

	_, err = lookup("format", formatNames, "rgb565")
	if err == nil || !strings.Contains(err.Error(), "bgra8, bgra8p, rgba16") {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestPrintCurve(t *testing.T) {
	var out bytes.Buffer
	if err := printCurve(&out, avifpix.TransferPQ, avifpix.PrimariesBT2020, 203, 1000, 5); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 6 || !strings.HasPrefix(lines[0], "# pq-to-sdr") {
		t.Fatalf("unexpected output:\n%s", out.String())
	}
	if !strings.HasPrefix(lines[1], "0.0000\t0.0000") {
		t.Fatalf("black does not map to black: %q", lines[1])
	}

	if err := printCurve(&out, avifpix.TransferPQ, avifpix.PrimariesBT2020, 0, 0, 1); err == nil {
		t.Fatal("error expected for 1 step")
	}
}

func TestRunConvert(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "frame.yuv")

	// 4x2 4:2:0, gray luma with neutral chroma.
	frame := append(bytes.Repeat([]byte{128}, 8), bytes.Repeat([]byte{128}, 4)...)
	if err := os.WriteFile(in, frame, 0o600); err != nil {
		t.Fatal(err)
	}

	c := convertFlags{
		in: in, width: 4, height: 2, depth: 8,
		subsampling: "420", matrix: "bt709", transfer: "srgb", primaries: "bt709", colorRange: "full",
		format: "rgba8", upsample: "bilinear",
	}

	for _, name := range []string{"out.png", "out.tiff"} {
		c.out = filepath.Join(dir, name)
		if err := runConvert(c); err != nil {
			t.Fatal(err)
		}

		img, err := imaging.Open(c.out)
		if err != nil {
			t.Fatal(err)
		}
		if img.Bounds() != image.Rect(0, 0, 4, 2) {
			t.Fatalf("%s: unexpected bounds %v", name, img.Bounds())
		}
		r, g, b, a := img.At(1, 1).RGBA()
		if r>>8 != 128 || g>>8 != 128 || b>>8 != 128 || a>>8 != 255 {
			t.Fatalf("%s: unexpected pixel %d %d %d %d", name, r>>8, g>>8, b>>8, a>>8)
		}
	}

	c.out = filepath.Join(dir, "small.png")
	c.maxWidth = 2
	if err := runConvert(c); err != nil {
		t.Fatal(err)
	}
	img, err := imaging.Open(c.out)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 2 || img.Bounds().Dy() != 1 {
		t.Fatalf("unexpected thumbnail bounds %v", img.Bounds())
	}

	c.out = ""
	if err := runConvert(c); err == nil {
		t.Fatal("error expected without output")
	}
}

func TestPixelDigest(t *testing.T) {
	a, err := avifpix.NewPixelBuffer(3, 2, avifpix.FormatRGBA8, 16, 0)
	if err != nil {
		t.Fatal(err)
	}
	b, err := avifpix.NewPixelBuffer(3, 2, avifpix.FormatRGBA8, 64, 0)
	if err != nil {
		t.Fatal(err)
	}

	for i := range b.Pix {
		b.Pix[i] = 0xff
	}
	for y := 0; y < 2; y++ {
		copy(b.Row(y), a.Row(y))
	}

	if pixelDigest(a) != pixelDigest(b) {
		t.Fatal("row padding affects digest")
	}
}

package avifpix

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/vearutop/avifpix/internal/transfer"
)

func toneMapperFor(t *testing.T, tc TransferCharacteristics, p ColorPrimaries, opts ...func(o *ConvertOptions)) ToneMapper {
	t.Helper()

	img := &DecodedImage{Transfer: tc, Primaries: p}
	c, err := NewToneMapContext(img, newConvertOptions(opts))
	if err != nil {
		t.Fatalf("tone map context: %v", err)
	}

	return NewToneMapper(c)
}

func TestNewToneMapper_kinds(t *testing.T) {
	cases := []struct {
		transfer TransferCharacteristics
		kind     ToneMapKind
	}{
		{transfer: TransferBT709, kind: ToneMapPassthrough},
		{transfer: TransferSRGB, kind: ToneMapPassthrough},
		{transfer: TransferUnspecified, kind: ToneMapPassthrough},
		{transfer: TransferBT2020_10, kind: ToneMapPassthrough},
		{transfer: TransferLinear, kind: ToneMapLinearToSDR},
		{transfer: TransferPQ, kind: ToneMapPQToSDR},
		{transfer: TransferHLG, kind: ToneMapHLGToSDR},
	}

	for _, c := range cases {
		tm := toneMapperFor(t, c.transfer, PrimariesBT709)
		if tm.Kind() != c.kind {
			t.Fatalf("%s: got %s, want %s", c.transfer, tm.Kind(), c.kind)
		}
	}
}

func TestNewToneMapContext_unsupported(t *testing.T) {
	cases := []DecodedImage{
		{Transfer: TransferLog100, Primaries: PrimariesBT709},
		{Transfer: TransferSMPTE428, Primaries: PrimariesBT709},
		{Transfer: TransferPQ, Primaries: PrimariesXYZ},
		{Transfer: TransferSRGB, Primaries: PrimariesSMPTE431},
	}

	for _, img := range cases {
		_, err := NewToneMapContext(&img, newConvertOptions(nil))
		if !errors.Is(err, ErrUnsupportedColorSpace) {
			t.Fatalf("%s/%s: expected unsupported color space, got %v", img.Transfer, img.Primaries, err)
		}
	}
}

func TestNewToneMapContext_peaks(t *testing.T) {
	img := &DecodedImage{Transfer: TransferPQ, Primaries: PrimariesBT2020}

	c, err := NewToneMapContext(img, newConvertOptions(nil))
	if err != nil {
		t.Fatal(err)
	}
	if c.TargetPeakNits != 203 || c.ContentPeakNits != 1000 {
		t.Fatalf("unexpected defaults: %+v", c)
	}

	img.MaxCLL = 4000
	c, err = NewToneMapContext(img, newConvertOptions(nil))
	if err != nil {
		t.Fatal(err)
	}
	if c.ContentPeakNits != 4000 {
		t.Fatalf("max cll ignored: %v", c.ContentPeakNits)
	}

	c, err = NewToneMapContext(img, newConvertOptions([]func(o *ConvertOptions){func(o *ConvertOptions) {
		o.ContentPeakNits = 600
		o.TargetPeakNits = 1000
	}}))
	if err != nil {
		t.Fatal(err)
	}
	if c.ContentPeakNits != 600 || c.TargetPeakNits != 1000 {
		t.Fatalf("options ignored: %+v", c)
	}

	img.Transfer = TransferHLG
	c, err = NewToneMapContext(img, newConvertOptions([]func(o *ConvertOptions){func(o *ConvertOptions) {
		o.TargetPeakNits = 1000
	}}))
	if err != nil {
		t.Fatal(err)
	}
	if !near(c.HLGGamma, 1.2, 1e-6) {
		t.Fatalf("unexpected HLG gamma %v", c.HLGGamma)
	}
}

func TestToneMapper_passthrough(t *testing.T) {
	tm := toneMapperFor(t, TransferSRGB, PrimariesBT2020)

	got := tm.Map(RGB{R: 0.25, G: -1, B: 2})
	if got != (RGB{R: 0.25, G: 0, B: 1}) {
		t.Fatalf("unexpected %+v", got)
	}
}

func TestToneMapper_linear(t *testing.T) {
	tm := toneMapperFor(t, TransferLinear, PrimariesBT709)

	got := tm.Map(RGB{R: 0.5, G: 0, B: 1})
	if !near(got.R, 0.7354, 1e-3) || got.G != 0 || !near(got.B, 1, 1e-6) {
		t.Fatalf("unexpected %+v", got)
	}
}

func TestToneMapper_contentPeakIsWhite(t *testing.T) {
	pq := toneMapperFor(t, TransferPQ, PrimariesBT709)
	e := transfer.PQInverseEOTF(1000.0 / 10000)
	if got := pq.Map(RGB{R: e, G: e, B: e}); !near(got.G, 1, 1e-3) {
		t.Fatalf("pq content peak maps to %+v", got)
	}

	hlg := toneMapperFor(t, TransferHLG, PrimariesBT709)
	if got := hlg.Map(RGB{R: 1, G: 1, B: 1}); !near(got.G, 1, 1e-3) {
		t.Fatalf("hlg peak maps to %+v", got)
	}

	if got := pq.Map(RGB{}); got != (RGB{}) {
		t.Fatalf("pq black maps to %+v", got)
	}
	if got := hlg.Map(RGB{}); got != (RGB{}) {
		t.Fatalf("hlg black maps to %+v", got)
	}
}

func TestToneMapper_monotonic(t *testing.T) {
	for _, tc := range []TransferCharacteristics{TransferPQ, TransferHLG, TransferLinear} {
		for _, p := range []ColorPrimaries{PrimariesBT709, PrimariesBT2020} {
			tm := toneMapperFor(t, tc, p)

			var prev RGB
			for i := 0; i <= 1024; i++ {
				v := float32(i) / 1024
				got := tm.Map(RGB{R: v, G: v, B: v})
				if got.R < prev.R || got.G < prev.G || got.B < prev.B {
					t.Fatalf("%s/%s: gray %v maps to %+v, darker than %+v", tc, p, v, got, prev)
				}
				for _, c := range []float32{got.R, got.G, got.B} {
					if c < 0 || c > 1 {
						t.Fatalf("%s/%s: %v out of range", tc, p, c)
					}
				}
				prev = got
			}
		}

		// Channels are independent without gamut conversion.
		tm := toneMapperFor(t, tc, PrimariesBT709)
		prev := float32(-1)
		for i := 0; i <= 1024; i++ {
			v := float32(i) / 1024
			got := tm.Map(RGB{R: v, G: 0.3, B: 0.6})
			if got.R < prev {
				t.Fatalf("%s: red %v maps to %v, darker than %v", tc, v, got.R, prev)
			}
			prev = got.R
		}
	}
}

func TestToneMapper_batchMatchesScalar(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))

	for _, tc := range []TransferCharacteristics{TransferSRGB, TransferLinear, TransferPQ, TransferHLG} {
		for _, p := range []ColorPrimaries{PrimariesBT709, PrimariesBT2020, PrimariesDisplayP3} {
			for _, target := range []float32{203, 400} {
				tm := toneMapperFor(t, tc, p, func(o *ConvertOptions) {
					o.ContentPeakNits = 4000
					o.TargetPeakNits = target
				})

				for n := 0; n < 128; n++ {
					var (
						b  Batch
						in [batchSize]RGB
					)
					for i := range in {
						in[i] = RGB{R: rnd.Float32(), G: rnd.Float32(), B: rnd.Float32()}
						b.R[i], b.G[i], b.B[i] = in[i].R, in[i].G, in[i].B
					}

					tm.MapBatch(&b)

					for i, c := range in {
						want := tm.Map(c)
						if !near(b.R[i], want.R, 1e-4) || !near(b.G[i], want.G, 1e-4) || !near(b.B[i], want.B, 1e-4) {
							t.Fatalf("%s/%s/%v: lane %d of %+v: batch (%v %v %v), scalar %+v",
								tc, p, target, i, c, b.R[i], b.G[i], b.B[i], want)
						}
					}
				}
			}
		}
	}
}

func TestToneMapper_batchNearPQPeak(t *testing.T) {
	tm := toneMapperFor(t, TransferPQ, PrimariesBT2020, func(o *ConvertOptions) {
		o.ContentPeakNits = 4000
	})

	in := [batchSize]RGB{
		{R: 0.8266, G: 0.9327, B: 0.7646},
		{R: 0.95, G: 0.99, B: 0.9},
		{R: 1, G: 1, B: 1},
		{R: 0.9327, G: 0.7646, B: 0.8266},
	}

	var b Batch
	for i, c := range in {
		b.R[i], b.G[i], b.B[i] = c.R, c.G, c.B
	}
	tm.MapBatch(&b)

	for i, c := range in {
		want := tm.Map(c)
		if !near(b.R[i], want.R, 1e-4) || !near(b.G[i], want.G, 1e-4) || !near(b.B[i], want.B, 1e-4) {
			t.Fatalf("%+v: batch (%v %v %v), scalar %+v", c, b.R[i], b.G[i], b.B[i], want)
		}
	}
}

func BenchmarkToneMapper(b *testing.B) {
	img := &DecodedImage{Transfer: TransferPQ, Primaries: PrimariesBT2020}
	c, err := NewToneMapContext(img, newConvertOptions(nil))
	if err != nil {
		b.Fatal(err)
	}
	tm := NewToneMapper(c)

	b.Run("scalar", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			for j := 0; j < batchSize; j++ {
				_ = tm.Map(RGB{R: 0.5, G: 0.6, B: 0.7})
			}
		}
	})

	b.Run("batch", func(b *testing.B) {
		b.ReportAllocs()
		batch := Batch{}
		for i := 0; i < b.N; i++ {
			batch.R = [batchSize]float32{0.5, 0.5, 0.5, 0.5}
			batch.G = [batchSize]float32{0.6, 0.6, 0.6, 0.6}
			batch.B = [batchSize]float32{0.7, 0.7, 0.7, 0.7}
			tm.MapBatch(&batch)
		}
	})
}

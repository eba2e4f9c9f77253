package avifpix

import "testing"

func TestChromaSize(t *testing.T) {
	cases := []struct {
		w, h   int
		s      Subsampling
		cw, ch int
	}{
		{w: 5, h: 3, s: Subsampling444, cw: 5, ch: 3},
		{w: 5, h: 3, s: Subsampling422, cw: 3, ch: 3},
		{w: 5, h: 3, s: Subsampling420, cw: 3, ch: 2},
		{w: 1, h: 1, s: Subsampling420, cw: 1, ch: 1},
		{w: 5, h: 3, s: Subsampling400, cw: 0, ch: 0},
	}

	for _, c := range cases {
		cw, ch := chromaSize(c.w, c.h, c.s)
		if cw != c.cw || ch != c.ch {
			t.Fatalf("%dx%d %s: got %dx%d, want %dx%d", c.w, c.h, c.s, cw, ch, c.cw, c.ch)
		}
	}
}

func TestChromaTaps(t *testing.T) {
	nearest := chromaTaps(5, 1, UpsampleNearest)
	for i, tap := range nearest {
		if tap.i0 != i/2 || tap.i1 != i/2 || tap.f != 0 {
			t.Fatalf("nearest tap %d: %+v", i, tap)
		}
	}

	bilinear := chromaTaps(5, 1, UpsampleBilinear)
	want := []chromaTap{
		{i0: 0, i1: 0, f: 0},
		{i0: 0, i1: 1, f: 0.25},
		{i0: 0, i1: 1, f: 0.75},
		{i0: 1, i1: 2, f: 0.25},
		{i0: 1, i1: 2, f: 0.75},
	}
	for i, tap := range bilinear {
		if tap != want[i] {
			t.Fatalf("bilinear tap %d: got %+v, want %+v", i, tap, want[i])
		}
	}

	for i, tap := range chromaTaps(3, 0, UpsampleBilinear) {
		if tap.i0 != i || tap.i1 != i || tap.f != 0 {
			t.Fatalf("full resolution tap %d: %+v", i, tap)
		}
	}
}

func TestChromaAt(t *testing.T) {
	p := newPlaneReader(newPlane(2, 2, 10, 0, func(x, y int) int { return 100*x + 400*y }), 10)

	got := chromaAt(p, chromaTap{i0: 0, i1: 1, f: 0.25}, chromaTap{i0: 0, i1: 1, f: 0.5})
	if !near(got, 25+200, 1e-4) {
		t.Fatalf("unexpected %v", got)
	}
	if got := chromaAt(p, chromaTap{i0: 1, i1: 1}, chromaTap{i0: 1, i1: 1}); got != 500 {
		t.Fatalf("unexpected %v", got)
	}
}

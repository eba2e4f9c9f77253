package avifpix

import "encoding/binary"

// planeReader reads samples of one plane as float32 code values.
type planeReader struct {
	data   []byte
	stride int
	wide   bool
}

func newPlaneReader(p Plane, depth int) planeReader {
	return planeReader{data: p.Data, stride: p.Stride, wide: depth > 8}
}

func (p planeReader) at(x, y int) float32 {
	if p.wide {
		return float32(binary.LittleEndian.Uint16(p.data[y*p.stride+2*x:]))
	}
	return float32(p.data[y*p.stride+x])
}

// bytesPerSample returns the storage size of a sample of the given depth.
func bytesPerSample(depth int) int {
	if depth > 8 {
		return 2
	}
	return 1
}

// chromaSize returns chroma plane dimensions of a w x h image.
func chromaSize(w, h int, s Subsampling) (cw, ch int) {
	switch s {
	case Subsampling444:
		return w, h
	case Subsampling422:
		return (w + 1) / 2, h
	case Subsampling420:
		return (w + 1) / 2, (h + 1) / 2
	default:
		return 0, 0
	}
}

// chromaTap locates a chroma sample for one luma coordinate,
// the value is c[i0]*(1-f) + c[i1]*f.
type chromaTap struct {
	i0, i1 int
	f      float32
}

// chromaTaps precomputes taps along one axis of n luma samples.
func chromaTaps(n, shift int, policy ChromaUpsampling) []chromaTap {
	taps := make([]chromaTap, n)
	if shift == 0 {
		for i := range taps {
			taps[i] = chromaTap{i0: i, i1: i}
		}
		return taps
	}

	cn := (n + 1<<shift - 1) >> shift
	for i := range taps {
		if policy != UpsampleBilinear {
			c := i >> shift
			taps[i] = chromaTap{i0: c, i1: c}
			continue
		}

		// Chroma is center-sited between two luma samples.
		pos := (float32(i)+0.5)/2 - 0.5
		i0 := int(pos)
		if pos < 0 {
			i0 = -1
		}
		f := pos - float32(i0)
		i1 := i0 + 1
		if i0 < 0 {
			i0, f = 0, 0
		}
		if i1 > cn-1 {
			i1 = cn - 1
		}
		if i0 > cn-1 {
			i0 = cn - 1
		}
		taps[i] = chromaTap{i0: i0, i1: i1, f: f}
	}
	return taps
}

// chromaAt samples a chroma plane with precomputed taps.
func chromaAt(p planeReader, tx, ty chromaTap) float32 {
	v := p.at(tx.i0, ty.i0)
	if tx.f != 0 {
		v += (p.at(tx.i1, ty.i0) - v) * tx.f
	}
	if ty.f == 0 {
		return v
	}

	w := p.at(tx.i0, ty.i1)
	if tx.f != 0 {
		w += (p.at(tx.i1, ty.i1) - w) * tx.f
	}
	return v + (w-v)*ty.f
}

package avifpix

import (
	"fmt"

	"github.com/vearutop/avifpix/internal/transfer"
)

// ColorTransform maps YUV (or gray) code values of one image to nonlinear RGB in [0, 1].
// It is immutable and safe for concurrent use.
type ColorTransform struct {
	matrix MatrixCoefficients
	depth  int
	full   bool

	yOffset, yScale float32
	cOffset, cScale float32

	crToR, cbToG, crToG, cbToB float32

	identity   bool
	monochrome bool
	hdr        bool
}

func lumaCoefficients(m MatrixCoefficients) (kr, kb float32, err error) {
	switch m {
	case MatrixBT709:
		return 0.2126, 0.0722, nil
	case MatrixFCC:
		return 0.30, 0.11, nil
	case MatrixBT470BG, MatrixBT601, MatrixUnspecified:
		return 0.299, 0.114, nil
	case MatrixSMPTE240:
		return 0.212, 0.087, nil
	case MatrixBT2020NCL:
		return 0.2627, 0.0593, nil
	default:
		return 0, 0, fmt.Errorf("%w: matrix coefficients %s", ErrUnsupportedColorSpace, m)
	}
}

func checkDepth(depth int) error {
	switch depth {
	case 8, 10, 12:
		return nil
	default:
		return fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, depth)
	}
}

// NewColorTransform resolves coefficients for img from its matrix, range and depth.
func NewColorTransform(img *DecodedImage) (*ColorTransform, error) {
	if err := checkDepth(img.Depth); err != nil {
		return nil, err
	}

	t := &ColorTransform{
		matrix:     img.Matrix,
		depth:      img.Depth,
		full:       img.Range == RangeFull,
		monochrome: img.Subsampling == Subsampling400,
		hdr:        img.Transfer.IsHDR(),
	}

	maxValue := float32(int(1)<<img.Depth - 1)
	shift := float32(int(1) << (img.Depth - 8))
	if t.full {
		t.yOffset, t.yScale = 0, 1/maxValue
		t.cOffset, t.cScale = float32(int(1)<<(img.Depth-1)), 1/maxValue
	} else {
		t.yOffset, t.yScale = 16*shift, 1/(219*shift)
		t.cOffset, t.cScale = 128*shift, 1/(224*shift)
	}

	if t.monochrome {
		return t, nil
	}

	if img.Matrix == MatrixIdentity {
		if img.Subsampling != Subsampling444 {
			return nil, fmt.Errorf("%w: identity matrix with %s subsampling", ErrUnsupportedColorSpace, img.Subsampling)
		}
		t.identity = true
		return t, nil
	}

	kr, kb, err := lumaCoefficients(img.Matrix)
	if err != nil {
		return nil, err
	}
	kg := 1 - kr - kb
	t.crToR = 2 * (1 - kr)
	t.cbToB = 2 * (1 - kb)
	t.cbToG = -2 * kb * (1 - kb) / kg
	t.crToG = -2 * kr * (1 - kr) / kg

	return t, nil
}

// Depth returns the source bit depth.
func (t *ColorTransform) Depth() int { return t.depth }

// IsHDR reports whether samples carry PQ or HLG signals.
func (t *ColorTransform) IsHDR() bool { return t.hdr }

// Monochrome reports whether chroma is ignored.
func (t *ColorTransform) Monochrome() bool { return t.monochrome }

func (t *ColorTransform) luma(v float32) float32 {
	return (v - t.yOffset) * t.yScale
}

// Apply converts one sample triplet, u and v are ignored for monochrome images.
func (t *ColorTransform) Apply(y, u, v float32) RGB {
	l := t.luma(y)
	if t.monochrome {
		l = transfer.Clamp01(l)
		return RGB{R: l, G: l, B: l}
	}

	if t.identity {
		// Planes carry G, B, R in Y, U, V order.
		return RGB{R: transfer.Clamp01(t.luma(v)), G: transfer.Clamp01(l), B: transfer.Clamp01(t.luma(u))}
	}

	cb := (u - t.cOffset) * t.cScale
	cr := (v - t.cOffset) * t.cScale

	return RGB{
		R: transfer.Clamp01(l + t.crToR*cr),
		G: transfer.Clamp01(l + t.cbToG*cb + t.crToG*cr),
		B: transfer.Clamp01(l + t.cbToB*cb),
	}
}

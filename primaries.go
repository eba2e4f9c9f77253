package avifpix

import "fmt"

type xy struct {
	x, y float64
}

type chromaticities struct {
	red, green, blue, white xy
}

var whiteD65 = xy{0.3127, 0.3290}

func primariesChromaticities(p ColorPrimaries) (chromaticities, error) {
	switch p {
	case PrimariesBT709, PrimariesUnspecified:
		return chromaticities{xy{0.640, 0.330}, xy{0.300, 0.600}, xy{0.150, 0.060}, whiteD65}, nil
	case PrimariesBT470BG:
		return chromaticities{xy{0.640, 0.330}, xy{0.290, 0.600}, xy{0.150, 0.060}, whiteD65}, nil
	case PrimariesBT601, PrimariesSMPTE240:
		return chromaticities{xy{0.630, 0.340}, xy{0.310, 0.595}, xy{0.155, 0.070}, whiteD65}, nil
	case PrimariesBT2020:
		return chromaticities{xy{0.708, 0.292}, xy{0.170, 0.797}, xy{0.131, 0.046}, whiteD65}, nil
	case PrimariesDisplayP3:
		return chromaticities{xy{0.680, 0.320}, xy{0.265, 0.690}, xy{0.150, 0.060}, whiteD65}, nil
	default:
		return chromaticities{}, fmt.Errorf("%w: primaries %s", ErrUnsupportedColorSpace, p)
	}
}

// mat3 is a row-major 3x3 matrix.
type mat3 [9]float64

func (m mat3) mul(n mat3) mat3 {
	var out mat3
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			out[r*3+c] = m[r*3]*n[c] + m[r*3+1]*n[3+c] + m[r*3+2]*n[6+c]
		}
	}
	return out
}

func (m mat3) inverse() (mat3, bool) {
	a, b, c := m[0], m[1], m[2]
	d, e, f := m[3], m[4], m[5]
	g, h, i := m[6], m[7], m[8]

	det := a*(e*i-f*h) - b*(d*i-f*g) + c*(d*h-e*g)
	if det == 0 {
		return mat3{}, false
	}
	inv := 1 / det
	return mat3{
		(e*i - f*h) * inv, (c*h - b*i) * inv, (b*f - c*e) * inv,
		(f*g - d*i) * inv, (a*i - c*g) * inv, (c*d - a*f) * inv,
		(d*h - e*g) * inv, (b*g - a*h) * inv, (a*e - b*d) * inv,
	}, true
}

// rgbToXYZ builds the normalized primary matrix for linear RGB to CIE XYZ.
func (c chromaticities) rgbToXYZ() (mat3, error) {
	col := func(p xy) (float64, float64, float64) {
		return p.x / p.y, 1, (1 - p.x - p.y) / p.y
	}
	rx, ry, rz := col(c.red)
	gx, gy, gz := col(c.green)
	bx, by, bz := col(c.blue)
	p := mat3{
		rx, gx, bx,
		ry, gy, by,
		rz, gz, bz,
	}
	pInv, ok := p.inverse()
	if !ok {
		return mat3{}, fmt.Errorf("%w: degenerate primaries", ErrUnsupportedColorSpace)
	}
	wx, wy, wz := col(c.white)
	sr := pInv[0]*wx + pInv[1]*wy + pInv[2]*wz
	sg := pInv[3]*wx + pInv[4]*wy + pInv[5]*wz
	sb := pInv[6]*wx + pInv[7]*wy + pInv[8]*wz
	return mat3{
		rx * sr, gx * sg, bx * sb,
		ry * sr, gy * sg, by * sb,
		rz * sr, gz * sg, bz * sb,
	}, nil
}

// gamutMatrix is a linear-light conversion between two sets of primaries.
type gamutMatrix [9]float32

// apply rounds every product before summing, as the lane-wise path does.
func (m *gamutMatrix) apply(c RGB) RGB {
	return RGB{
		R: float32(m[0]*c.R) + float32(m[1]*c.G) + float32(m[2]*c.B),
		G: float32(m[3]*c.R) + float32(m[4]*c.G) + float32(m[5]*c.B),
		B: float32(m[6]*c.R) + float32(m[7]*c.G) + float32(m[8]*c.B),
	}
}

// newGamutMatrix returns nil when both primaries share chromaticities.
func newGamutMatrix(from, to ColorPrimaries) (*gamutMatrix, error) {
	src, err := primariesChromaticities(from)
	if err != nil {
		return nil, err
	}
	dst, err := primariesChromaticities(to)
	if err != nil {
		return nil, err
	}
	if src == dst {
		return nil, nil
	}

	srcToXYZ, err := src.rgbToXYZ()
	if err != nil {
		return nil, err
	}
	dstToXYZ, err := dst.rgbToXYZ()
	if err != nil {
		return nil, err
	}
	xyzToDst, ok := dstToXYZ.inverse()
	if !ok {
		return nil, fmt.Errorf("%w: degenerate primaries %s", ErrUnsupportedColorSpace, to)
	}

	m := xyzToDst.mul(srcToXYZ)
	var out gamutMatrix
	for i, v := range m {
		out[i] = float32(v)
	}
	return &out, nil
}

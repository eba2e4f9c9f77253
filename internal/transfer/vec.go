package transfer

import (
	"math"

	"github.com/ajroetker/go-highway/hwy"
)

// Vec is a lane vector of float32 samples.
type Vec = hwy.Vec[float32]

func splat(v float32) Vec { return hwy.Set(v) }

// Curve constants are splatted once, lane count is fixed after hwy dispatch.
var (
	vZero = hwy.Zero[float32]()
	vOne  = splat(1)

	vSRGBCut   = splat(0.0031308)
	vSRGBSlope = splat(12.92)
	vSRGBGain  = splat(1.055)
	vSRGBExp   = splat(1 / 2.4)
	vSRGBOff   = splat(0.055)

	vPQInvM2 = splat(1 / pqM2)
	vPQInvM1 = splat(1 / pqM1)
	vPQC1    = splat(pqC1)
	vPQC2    = splat(pqC2)
	vPQC3    = splat(pqC3)

	vHLGA   = splat(hlgA)
	vHLGB   = splat(hlgB)
	vHLGC   = splat(hlgC)
	vE      = splat(math.E)
	vHalf   = splat(0.5)
	vThree  = splat(3)
	vTwelve = splat(12)
)

// Clamp0Vec replaces negative lanes with 0.
func Clamp0Vec(v Vec) Vec {
	return hwy.Max(v, vZero)
}

// Clamp01Vec limits every lane to [0, 1].
func Clamp01Vec(v Vec) Vec {
	return hwy.Min(hwy.Max(v, vZero), vOne)
}

// SRGBOETFVec is the lane-wise SRGBOETF.
func SRGBOETFVec(v Vec) Vec {
	v = hwy.Max(v, vZero)
	lin := hwy.Mul(v, vSRGBSlope)
	curve := hwy.Sub(hwy.Mul(vSRGBGain, hwy.Pow(v, vSRGBExp)), vSRGBOff)
	return hwy.IfThenElse(hwy.LessEqual(v, vSRGBCut), lin, curve)
}

// PQEOTFVec is the lane-wise PQEOTF.
func PQEOTFVec(e Vec) Vec {
	e = hwy.Max(e, vZero)
	ep := hwy.Pow(e, vPQInvM2)
	num := hwy.Max(hwy.Sub(ep, vPQC1), vZero)
	den := hwy.Sub(vPQC2, hwy.Mul(vPQC3, ep))
	return hwy.Pow(hwy.Div(num, den), vPQInvM1)
}

// HLGInverseOETFVec is the lane-wise HLGInverseOETF.
func HLGInverseOETFVec(e Vec) Vec {
	e = hwy.Max(e, vZero)
	low := hwy.Div(hwy.Mul(e, e), vThree)
	// exp(x) as e^x keeps to core ops.
	x := hwy.Div(hwy.Sub(e, vHLGC), vHLGA)
	high := hwy.Div(hwy.Add(hwy.Pow(vE, x), vHLGB), vTwelve)
	return hwy.IfThenElse(hwy.LessEqual(e, vHalf), low, high)
}

// PowVec raises every lane of v (clamped at 0) to p.
func PowVec(v Vec, p float32) Vec {
	return hwy.Pow(hwy.Max(v, vZero), splat(p))
}

// Reinhard is ExtendedReinhardVec with the white point splatted once.
type Reinhard struct {
	identity bool
	invW2    Vec
}

// NewReinhard prepares highlight compression mapping w to 1.
func NewReinhard(w float32) Reinhard {
	if w <= 1 {
		return Reinhard{identity: true}
	}
	return Reinhard{invW2: splat(1 / (w * w))}
}

// Apply compresses every lane of x.
func (r Reinhard) Apply(x Vec) Vec {
	if r.identity {
		return x
	}
	x = hwy.Max(x, vZero)
	num := hwy.Mul(x, hwy.Add(vOne, hwy.Mul(x, r.invW2)))
	return hwy.Div(num, hwy.Add(vOne, x))
}

// ExtendedReinhardVec is the lane-wise ExtendedReinhard for non-negative lanes.
func ExtendedReinhardVec(x Vec, w float32) Vec {
	return NewReinhard(w).Apply(x)
}

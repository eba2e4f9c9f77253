// Package transfer implements transfer functions and highlight compression
// in scalar and vector (go-highway) forms.
package transfer

import "math"

// SMPTE ST 2084 constants.
const (
	pqM1 = 2610.0 / 16384
	pqM2 = 2523.0 / 4096 * 128
	pqC1 = 3424.0 / 4096
	pqC2 = 2413.0 / 4096 * 32
	pqC3 = 2392.0 / 4096 * 32
)

// BT.2100 HLG constants.
const (
	hlgA = 0.17883277
	hlgB = 0.28466892
	hlgC = 0.55991073
)

// Clamp01 limits v to [0, 1], NaN becomes 0.
func Clamp01(v float32) float32 {
	if !(v > 0) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Pow raises v (clamped at 0) to p in single precision.
func Pow(v, p float32) float32 {
	return float32(math.Pow(float64(max(v, 0)), float64(p)))
}

// The curves below evaluate in float32 with the same steps as their Vec
// counterparts, so batches and single pixels round identically. Explicit
// conversions keep products from being fused into the following add.

// SRGBOETF encodes linear light with the sRGB curve.
func SRGBOETF(v float32) float32 {
	if v <= 0 {
		return 0
	}
	if v <= 0.0031308 {
		return v * 12.92
	}
	return float32(1.055*Pow(v, 1/2.4)) - 0.055
}

// SRGBEOTF decodes an sRGB encoded value to linear light.
func SRGBEOTF(v float32) float32 {
	if v <= 0.04045 {
		return v / 12.92
	}
	return float32(math.Pow((float64(v)+0.055)/1.055, 2.4))
}

// PQEOTF decodes a PQ signal to linear light normalized to 10000 nits.
func PQEOTF(e float32) float32 {
	if e <= 0 {
		return 0
	}
	ep := Pow(e, 1/pqM2)
	num := max(ep-pqC1, 0)
	den := pqC2 - float32(pqC3*ep)
	return Pow(num/den, 1/pqM1)
}

// PQInverseEOTF encodes linear light normalized to 10000 nits as a PQ signal.
func PQInverseEOTF(l float32) float32 {
	if l <= 0 {
		return float32(math.Pow(pqC1, pqM2))
	}
	lm := math.Pow(float64(l), pqM1)
	return float32(math.Pow((pqC1+pqC2*lm)/(1+pqC3*lm), pqM2))
}

// HLGInverseOETF decodes an HLG signal to normalized scene light.
func HLGInverseOETF(e float32) float32 {
	if e <= 0 {
		return 0
	}
	if e <= 0.5 {
		return e * e / 3
	}
	return (Pow(math.E, (e-hlgC)/hlgA) + hlgB) / 12
}

// HLGOETF encodes normalized scene light as an HLG signal.
func HLGOETF(l float32) float32 {
	if l <= 0 {
		return 0
	}
	if l <= 1.0/12 {
		return float32(math.Sqrt(3 * float64(l)))
	}
	return float32(hlgA*math.Log(12*float64(l)-hlgB) + hlgC)
}

// HLGSystemGamma returns the OOTF exponent for a display of peak nits,
// limited to [1.0, 1.5].
func HLGSystemGamma(peakNits float32) float32 {
	g := 1.2 + 0.42*math.Log10(float64(peakNits)/1000)
	return float32(math.Min(math.Max(g, 1.0), 1.5))
}

// ExtendedReinhard compresses highlights so that w maps to 1.
// It is the identity for w <= 1, negative x maps to 0 otherwise.
func ExtendedReinhard(x, w float32) float32 {
	if w <= 1 {
		return x
	}
	if x <= 0 {
		return 0
	}
	return x * (1 + float32(x*(1/(w*w)))) / (1 + x)
}

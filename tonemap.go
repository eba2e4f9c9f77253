package avifpix

import (
	"fmt"

	"github.com/ajroetker/go-highway/hwy"
	"github.com/vearutop/avifpix/internal/transfer"
)

// ToneMapKind names a tone mapping strategy.
type ToneMapKind int

const (
	// ToneMapPassthrough keeps SDR samples as they are.
	ToneMapPassthrough ToneMapKind = iota
	// ToneMapLinearToSDR encodes linear light with the sRGB curve.
	ToneMapLinearToSDR
	// ToneMapPQToSDR compresses SMPTE ST 2084 content into SDR.
	ToneMapPQToSDR
	// ToneMapHLGToSDR compresses BT.2100 HLG content into SDR.
	ToneMapHLGToSDR
)

func (k ToneMapKind) String() string {
	switch k {
	case ToneMapPassthrough:
		return "passthrough"
	case ToneMapLinearToSDR:
		return "linear-to-sdr"
	case ToneMapPQToSDR:
		return "pq-to-sdr"
	case ToneMapHLGToSDR:
		return "hlg-to-sdr"
	default:
		return fmt.Sprintf("tonemap(%d)", int(k))
	}
}

// ToneMapper maps nonlinear source RGB to display-ready RGB in [0, 1].
//
// MapBatch must agree with four Map calls up to float rounding.
type ToneMapper interface {
	Map(c RGB) RGB
	MapBatch(b *Batch)
	Kind() ToneMapKind
}

// ToneMapContext holds per-image tone mapping parameters. It is immutable
// once built and shared by all tiles.
type ToneMapContext struct {
	Kind            ToneMapKind
	Transfer        TransferCharacteristics
	TargetPeakNits  float32
	ContentPeakNits float32

	// HLGGamma is the OOTF system gamma, 1 for other transfers.
	HLGGamma float32

	// whitePoint is content peak relative to target peak.
	whitePoint float32
	gamut      *gamutMatrix
}

func toneMapKind(t TransferCharacteristics) (ToneMapKind, error) {
	switch t {
	case TransferBT709, TransferUnspecified, TransferBT470M, TransferBT470BG, TransferBT601,
		TransferSMPTE240, TransferSRGB, TransferBT2020_10, TransferBT2020_12:
		return ToneMapPassthrough, nil
	case TransferLinear:
		return ToneMapLinearToSDR, nil
	case TransferPQ:
		return ToneMapPQToSDR, nil
	case TransferHLG:
		return ToneMapHLGToSDR, nil
	default:
		return 0, fmt.Errorf("%w: transfer characteristics %s", ErrUnsupportedColorSpace, t)
	}
}

// NewToneMapContext resolves tone mapping parameters of img for the given options.
func NewToneMapContext(img *DecodedImage, o ConvertOptions) (*ToneMapContext, error) {
	kind, err := toneMapKind(img.Transfer)
	if err != nil {
		return nil, err
	}

	if o.TargetPeakNits <= 0 {
		o.TargetPeakNits = defaultTargetPeakNits
	}
	if o.TargetPrimaries == 0 {
		o.TargetPrimaries = PrimariesBT709
	}

	c := &ToneMapContext{
		Kind:            kind,
		Transfer:        img.Transfer,
		TargetPeakNits:  o.TargetPeakNits,
		ContentPeakNits: o.ContentPeakNits,
		HLGGamma:        1,
	}

	if c.ContentPeakNits <= 0 {
		c.ContentPeakNits = img.MaxCLL
	}
	if c.ContentPeakNits <= 0 {
		c.ContentPeakNits = defaultContentPeakNits
	}

	c.whitePoint = c.ContentPeakNits / c.TargetPeakNits
	if kind == ToneMapHLGToSDR {
		c.HLGGamma = transfer.HLGSystemGamma(c.TargetPeakNits)
	}

	if kind == ToneMapPassthrough {
		// Samples are left untouched, primaries only need to be known.
		if _, err := primariesChromaticities(img.Primaries); err != nil {
			return nil, err
		}
		return c, nil
	}

	c.gamut, err = newGamutMatrix(img.Primaries, o.TargetPrimaries)
	if err != nil {
		return nil, err
	}

	return c, nil
}

// NewToneMapper returns the strategy selected by c.Kind.
func NewToneMapper(c *ToneMapContext) ToneMapper {
	switch c.Kind {
	case ToneMapLinearToSDR:
		return linearToSDR{c: c, l: newToneLanes(c, 1)}
	case ToneMapPQToSDR:
		return pqToSDR{c: c, l: newToneLanes(c, pqMaxNits/c.TargetPeakNits)}
	case ToneMapHLGToSDR:
		return hlgToSDR{c: c, l: newToneLanes(c, c.ContentPeakNits/c.TargetPeakNits)}
	default:
		return passthrough{}
	}
}

type passthrough struct{}

func (passthrough) Kind() ToneMapKind { return ToneMapPassthrough }

func (passthrough) Map(c RGB) RGB {
	return RGB{R: transfer.Clamp01(c.R), G: transfer.Clamp01(c.G), B: transfer.Clamp01(c.B)}
}

func (passthrough) MapBatch(b *Batch) {
	for i := 0; i < batchSize; i++ {
		b.R[i] = transfer.Clamp01(b.R[i])
		b.G[i] = transfer.Clamp01(b.G[i])
		b.B[i] = transfer.Clamp01(b.B[i])
	}
}

// toneLanes holds per-image constants of the batch path, splatted once.
type toneLanes struct {
	scale    transfer.Vec
	gamut    *[9]transfer.Vec
	reinhard transfer.Reinhard
}

func newToneLanes(c *ToneMapContext, scale float32) *toneLanes {
	l := &toneLanes{
		scale:    hwy.Set(scale),
		reinhard: transfer.NewReinhard(c.whitePoint),
	}
	if c.gamut != nil {
		l.gamut = new([9]transfer.Vec)
		for i, v := range c.gamut {
			l.gamut[i] = hwy.Set(v)
		}
	}
	return l
}

type linearToSDR struct {
	c *ToneMapContext
	l *toneLanes
}

func (linearToSDR) Kind() ToneMapKind { return ToneMapLinearToSDR }

func (m linearToSDR) Map(c RGB) RGB {
	if m.c.gamut != nil {
		c = m.c.gamut.apply(c)
	}
	return RGB{
		R: transfer.SRGBOETF(transfer.Clamp01(c.R)),
		G: transfer.SRGBOETF(transfer.Clamp01(c.G)),
		B: transfer.SRGBOETF(transfer.Clamp01(c.B)),
	}
}

func (m linearToSDR) MapBatch(b *Batch) {
	r, g, bl := loadBatch(b)
	r, g, bl = m.l.gamutVec(r, g, bl)
	storeBatch(b,
		transfer.SRGBOETFVec(transfer.Clamp01Vec(r)),
		transfer.SRGBOETFVec(transfer.Clamp01Vec(g)),
		transfer.SRGBOETFVec(transfer.Clamp01Vec(bl)),
	)
}

type pqToSDR struct {
	c *ToneMapContext
	l *toneLanes
}

func (pqToSDR) Kind() ToneMapKind { return ToneMapPQToSDR }

func (m pqToSDR) Map(c RGB) RGB {
	// Linear light relative to target white.
	scale := pqMaxNits / m.c.TargetPeakNits
	c = RGB{
		R: transfer.PQEOTF(c.R) * scale,
		G: transfer.PQEOTF(c.G) * scale,
		B: transfer.PQEOTF(c.B) * scale,
	}
	return m.c.compress(c)
}

func (m pqToSDR) MapBatch(b *Batch) {
	r, g, bl := loadBatch(b)
	r = hwy.Mul(transfer.PQEOTFVec(r), m.l.scale)
	g = hwy.Mul(transfer.PQEOTFVec(g), m.l.scale)
	bl = hwy.Mul(transfer.PQEOTFVec(bl), m.l.scale)
	r, g, bl = m.l.compressVec(r, g, bl)
	storeBatch(b, r, g, bl)
}

type hlgToSDR struct {
	c *ToneMapContext
	l *toneLanes
}

func (hlgToSDR) Kind() ToneMapKind { return ToneMapHLGToSDR }

// BT.2100 luma weights used by the HLG OOTF.
const (
	hlgLumaR = 0.2627
	hlgLumaG = 0.6780
	hlgLumaB = 0.0593
)

var (
	hlgLumaRVec = hwy.Set[float32](hlgLumaR)
	hlgLumaGVec = hwy.Set[float32](hlgLumaG)
	hlgLumaBVec = hwy.Set[float32](hlgLumaB)
)

func (m hlgToSDR) Map(c RGB) RGB {
	c = RGB{
		R: transfer.HLGInverseOETF(c.R),
		G: transfer.HLGInverseOETF(c.G),
		B: transfer.HLGInverseOETF(c.B),
	}

	scale := m.c.ContentPeakNits / m.c.TargetPeakNits
	if m.c.HLGGamma != 1 {
		ys := float32(hlgLumaR*c.R) + float32(hlgLumaG*c.G) + float32(hlgLumaB*c.B)
		scale *= transfer.Pow(ys, m.c.HLGGamma-1)
	}

	c = RGB{R: c.R * scale, G: c.G * scale, B: c.B * scale}
	return m.c.compress(c)
}

func (m hlgToSDR) MapBatch(b *Batch) {
	r, g, bl := loadBatch(b)
	r = transfer.HLGInverseOETFVec(r)
	g = transfer.HLGInverseOETFVec(g)
	bl = transfer.HLGInverseOETFVec(bl)

	scale := m.l.scale
	if m.c.HLGGamma != 1 {
		ys := hwy.Add(hwy.Add(
			hwy.Mul(r, hlgLumaRVec),
			hwy.Mul(g, hlgLumaGVec)),
			hwy.Mul(bl, hlgLumaBVec))
		scale = hwy.Mul(scale, transfer.PowVec(ys, m.c.HLGGamma-1))
	}

	r, g, bl = m.l.compressVec(hwy.Mul(r, scale), hwy.Mul(g, scale), hwy.Mul(bl, scale))
	storeBatch(b, r, g, bl)
}

// compress takes linear light relative to target white to encoded SDR.
func (c *ToneMapContext) compress(v RGB) RGB {
	if c.gamut != nil {
		v = c.gamut.apply(v)
	}
	return RGB{
		R: c.encode(v.R),
		G: c.encode(v.G),
		B: c.encode(v.B),
	}
}

func (c *ToneMapContext) encode(v float32) float32 {
	if v < 0 {
		v = 0
	}
	return transfer.SRGBOETF(transfer.Clamp01(transfer.ExtendedReinhard(v, c.whitePoint)))
}

func (l *toneLanes) compressVec(r, g, b transfer.Vec) (transfer.Vec, transfer.Vec, transfer.Vec) {
	r, g, b = l.gamutVec(r, g, b)
	return l.encodeVec(r), l.encodeVec(g), l.encodeVec(b)
}

func (l *toneLanes) encodeVec(v transfer.Vec) transfer.Vec {
	return transfer.SRGBOETFVec(transfer.Clamp01Vec(l.reinhard.Apply(transfer.Clamp0Vec(v))))
}

func (l *toneLanes) gamutVec(r, g, b transfer.Vec) (transfer.Vec, transfer.Vec, transfer.Vec) {
	m := l.gamut
	if m == nil {
		return r, g, b
	}
	row := func(i int) transfer.Vec {
		return hwy.Add(hwy.Add(
			hwy.Mul(r, m[i]),
			hwy.Mul(g, m[i+1])),
			hwy.Mul(b, m[i+2]))
	}
	return row(0), row(3), row(6)
}

func loadBatch(b *Batch) (r, g, bl transfer.Vec) {
	return hwy.Load(b.R[:]), hwy.Load(b.G[:]), hwy.Load(b.B[:])
}

func storeBatch(b *Batch, r, g, bl transfer.Vec) {
	hwy.Store(r, b.R[:])
	hwy.Store(g, b.G[:])
	hwy.Store(bl, b.B[:])
}

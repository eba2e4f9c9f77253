package avifpix

import "fmt"

// MatrixCoefficients identifies the YUV to RGB matrix (ISO/IEC 23091-2 code points).
type MatrixCoefficients int

const (
	MatrixIdentity    MatrixCoefficients = 0
	MatrixBT709       MatrixCoefficients = 1
	MatrixUnspecified MatrixCoefficients = 2
	MatrixFCC         MatrixCoefficients = 4
	MatrixBT470BG     MatrixCoefficients = 5
	MatrixBT601       MatrixCoefficients = 6
	MatrixSMPTE240    MatrixCoefficients = 7
	MatrixYCgCo       MatrixCoefficients = 8
	MatrixBT2020NCL   MatrixCoefficients = 9
	MatrixBT2020CL    MatrixCoefficients = 10
	MatrixICtCp       MatrixCoefficients = 14
)

func (m MatrixCoefficients) String() string {
	switch m {
	case MatrixIdentity:
		return "identity"
	case MatrixBT709:
		return "bt709"
	case MatrixUnspecified:
		return "unspecified"
	case MatrixFCC:
		return "fcc"
	case MatrixBT470BG:
		return "bt470bg"
	case MatrixBT601:
		return "bt601"
	case MatrixSMPTE240:
		return "smpte240"
	case MatrixYCgCo:
		return "ycgco"
	case MatrixBT2020NCL:
		return "bt2020ncl"
	case MatrixBT2020CL:
		return "bt2020cl"
	case MatrixICtCp:
		return "ictcp"
	default:
		return fmt.Sprintf("matrix(%d)", int(m))
	}
}

// TransferCharacteristics identifies the transfer function (ISO/IEC 23091-2 code points).
type TransferCharacteristics int

const (
	TransferBT709       TransferCharacteristics = 1
	TransferUnspecified TransferCharacteristics = 2
	TransferBT470M      TransferCharacteristics = 4
	TransferBT470BG     TransferCharacteristics = 5
	TransferBT601       TransferCharacteristics = 6
	TransferSMPTE240    TransferCharacteristics = 7
	TransferLinear      TransferCharacteristics = 8
	TransferLog100      TransferCharacteristics = 9
	TransferSRGB        TransferCharacteristics = 13
	TransferBT2020_10   TransferCharacteristics = 14
	TransferBT2020_12   TransferCharacteristics = 15
	TransferPQ          TransferCharacteristics = 16
	TransferSMPTE428    TransferCharacteristics = 17
	TransferHLG         TransferCharacteristics = 18
)

func (t TransferCharacteristics) String() string {
	switch t {
	case TransferBT709:
		return "bt709"
	case TransferUnspecified:
		return "unspecified"
	case TransferBT470M:
		return "bt470m"
	case TransferBT470BG:
		return "bt470bg"
	case TransferBT601:
		return "bt601"
	case TransferSMPTE240:
		return "smpte240"
	case TransferLinear:
		return "linear"
	case TransferLog100:
		return "log100"
	case TransferSRGB:
		return "srgb"
	case TransferBT2020_10:
		return "bt2020-10"
	case TransferBT2020_12:
		return "bt2020-12"
	case TransferPQ:
		return "pq"
	case TransferSMPTE428:
		return "smpte428"
	case TransferHLG:
		return "hlg"
	default:
		return fmt.Sprintf("transfer(%d)", int(t))
	}
}

// IsHDR reports whether samples are PQ or HLG encoded.
func (t TransferCharacteristics) IsHDR() bool {
	return t == TransferPQ || t == TransferHLG
}

// ColorPrimaries identifies the chromaticities of the RGB primaries (ISO/IEC 23091-2 code points).
type ColorPrimaries int

const (
	PrimariesBT709       ColorPrimaries = 1
	PrimariesUnspecified ColorPrimaries = 2
	PrimariesBT470M      ColorPrimaries = 4
	PrimariesBT470BG     ColorPrimaries = 5
	PrimariesBT601       ColorPrimaries = 6
	PrimariesSMPTE240    ColorPrimaries = 7
	PrimariesBT2020      ColorPrimaries = 9
	PrimariesXYZ         ColorPrimaries = 10
	PrimariesSMPTE431    ColorPrimaries = 11
	PrimariesDisplayP3   ColorPrimaries = 12
)

func (p ColorPrimaries) String() string {
	switch p {
	case PrimariesBT709:
		return "bt709"
	case PrimariesUnspecified:
		return "unspecified"
	case PrimariesBT470M:
		return "bt470m"
	case PrimariesBT470BG:
		return "bt470bg"
	case PrimariesBT601:
		return "bt601"
	case PrimariesSMPTE240:
		return "smpte240"
	case PrimariesBT2020:
		return "bt2020"
	case PrimariesXYZ:
		return "xyz"
	case PrimariesSMPTE431:
		return "smpte431"
	case PrimariesDisplayP3:
		return "display-p3"
	default:
		return fmt.Sprintf("primaries(%d)", int(p))
	}
}

// Range tells whether samples use the full code range or the limited (studio) range.
type Range int

const (
	RangeLimited Range = iota
	RangeFull
)

func (r Range) String() string {
	if r == RangeFull {
		return "full"
	}
	return "limited"
}

// Subsampling is the chroma subsampling layout of a decoded image.
type Subsampling int

const (
	Subsampling444 Subsampling = iota
	Subsampling422
	Subsampling420
	// Subsampling400 is monochrome, U and V planes are absent.
	Subsampling400
)

func (s Subsampling) String() string {
	switch s {
	case Subsampling444:
		return "444"
	case Subsampling422:
		return "422"
	case Subsampling420:
		return "420"
	case Subsampling400:
		return "400"
	default:
		return fmt.Sprintf("subsampling(%d)", int(s))
	}
}

// shift returns horizontal and vertical chroma shifts.
func (s Subsampling) shift() (sx, sy int) {
	switch s {
	case Subsampling422:
		return 1, 0
	case Subsampling420:
		return 1, 1
	default:
		return 0, 0
	}
}

// Plane is a single sample plane. Stride is in bytes. Samples deeper than
// 8 bits occupy two bytes, little-endian.
type Plane struct {
	Data   []byte
	Stride int
}

// DecodedImage describes a decoded AVIF picture. It is owned by the decoder
// and never modified by this package.
type DecodedImage struct {
	Width       int
	Height      int
	Depth       int // 8, 10 or 12
	Subsampling Subsampling

	Y, U, V Plane
	// Alpha is full resolution with the same depth as color planes, nil Data means opaque.
	Alpha Plane

	Matrix    MatrixCoefficients
	Transfer  TransferCharacteristics
	Primaries ColorPrimaries
	Range     Range

	// AlphaPremultiplied is set when color planes are already multiplied by alpha.
	AlphaPremultiplied bool

	// MaxCLL is the maximum content light level in nits, 0 if unknown.
	MaxCLL float32
}

// HasAlpha reports whether the image carries an alpha plane.
func (img *DecodedImage) HasAlpha() bool {
	return len(img.Alpha.Data) > 0
}

// RGB is a color triplet, components are normalized to [0, 1] unless stated otherwise.
type RGB struct {
	R, G, B float32
}

// Batch holds four pixels in planar layout for vectorized tone mapping.
type Batch struct {
	R, G, B [batchSize]float32
}

package avifpix

import (
	"context"
	"runtime"
)

// ChromaUpsampling selects how subsampled chroma is reconstructed. The policy
// is fixed for a whole image.
type ChromaUpsampling int

const (
	// UpsampleNearest replicates the chroma sample covering the pixel.
	UpsampleNearest ChromaUpsampling = iota
	// UpsampleBilinear interpolates center-sited chroma samples.
	UpsampleBilinear
)

// ConvertOptions controls conversion.
type ConvertOptions struct {
	// Format of the destination buffer allocated by Convert and
	// ConvertDecodedImageToNativeImage, FormatRGBA8Premul by default.
	Format PixelFormat

	// TargetPeakNits is the luminance of display white for tone mapping, 203 by default.
	TargetPeakNits float32
	// ContentPeakNits overrides DecodedImage.MaxCLL, 1000 is used if both are unset.
	ContentPeakNits float32
	// TargetPrimaries is the gamut HDR and linear content is converted to, BT.709 by default.
	TargetPrimaries ColorPrimaries

	ChromaUpsampling ChromaUpsampling

	// Workers limits parallel tiles, GOMAXPROCS by default.
	Workers int
	// TileRows is the height of a row tile, 16 by default.
	TileRows int
	// RowAlignment is the stride alignment in bytes of allocated buffers, 16 by default.
	RowAlignment int
	// MaxBufferBytes caps a single allocation, 1 GiB by default.
	MaxBufferBytes int

	// SIMD tone maps four-pixel batches on hwy vectors. Portable hwy vectors
	// allocate per operation, so the scalar path is the default.
	// HWY_NO_SIMD env keeps the scalar path regardless.
	SIMD bool

	// Context is checked between tiles, a cancelled conversion returns its error.
	Context context.Context
}

func newConvertOptions(opts []func(o *ConvertOptions)) ConvertOptions {
	o := ConvertOptions{
		Format:          FormatRGBA8Premul,
		TargetPeakNits:  defaultTargetPeakNits,
		TargetPrimaries: PrimariesBT709,
		TileRows:        defaultTileRows,
		RowAlignment:    defaultRowAlignment,
		MaxBufferBytes:  defaultMaxBufferBytes,
	}

	for _, applyOpt := range opts {
		applyOpt(&o)
	}

	if o.TargetPeakNits <= 0 {
		o.TargetPeakNits = defaultTargetPeakNits
	}
	if o.TargetPrimaries == PrimariesUnspecified || o.TargetPrimaries == 0 {
		o.TargetPrimaries = PrimariesBT709
	}
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	if o.TileRows <= 0 {
		o.TileRows = defaultTileRows
	}
	if o.RowAlignment <= 0 {
		o.RowAlignment = 1
	}
	if o.MaxBufferBytes <= 0 {
		o.MaxBufferBytes = defaultMaxBufferBytes
	}
	if o.Context == nil {
		o.Context = context.Background()
	}

	return o
}

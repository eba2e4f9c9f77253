package avifpix

const (
	sdrWhiteNits = 203.0
	pqMaxNits    = 10000.0
	hlgMaxNits   = 1000.0
)

const (
	defaultTargetPeakNits  = sdrWhiteNits
	defaultContentPeakNits = hlgMaxNits
	defaultTileRows        = 16
	defaultRowAlignment    = 16
	defaultMaxBufferBytes  = 1 << 30
)

// batchSize is the number of pixels handled by one ToneMapper.MapBatch call.
const batchSize = 4

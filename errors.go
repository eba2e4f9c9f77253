package avifpix

import "errors"

// Errors reported by conversion, check with errors.Is.
var (
	ErrUnsupportedBitDepth   = errors.New("avifpix: unsupported bit depth")
	ErrUnsupportedColorSpace = errors.New("avifpix: unsupported color space")
	ErrInvalidDimensions     = errors.New("avifpix: invalid dimensions")
	ErrAllocationFailure     = errors.New("avifpix: buffer allocation failed")
	ErrFormatMismatch        = errors.New("avifpix: destination format mismatch")
)

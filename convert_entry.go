package avifpix

import (
	"fmt"
	"image"
)

// Convert converts img into a newly allocated buffer of format ConvertOptions.Format.
func Convert(img *DecodedImage, opts ...func(o *ConvertOptions)) (*PixelBuffer, error) {
	o := newConvertOptions(opts)

	ct, tm, err := prepare(img, o)
	if err != nil {
		return nil, fail(err)
	}
	if img.HasAlpha() && img.AlphaPremultiplied && !o.Format.IsPremultiplied() {
		return nil, fail(fmt.Errorf("%w: premultiplied source into %s", ErrFormatMismatch, o.Format))
	}

	buf, err := NewPixelBuffer(img.Width, img.Height, o.Format, o.RowAlignment, o.MaxBufferBytes)
	if err != nil {
		return nil, fail(err)
	}

	if err := run(img, ct, tm, buf, o); err != nil {
		return nil, fail(err)
	}

	return buf, nil
}

// ConvertDecodedImageToNativeImage allocates a buffer, converts img into it and
// hands it to b, StdImageBuilder is used if b is nil.
//
// A failure at any stage returns a nil image and the error.
func ConvertDecodedImageToNativeImage(img *DecodedImage, b ImageObjectBuilder, opts ...func(o *ConvertOptions)) (image.Image, error) {
	buf, err := Convert(img, opts...)
	if err != nil {
		return nil, err
	}

	return build(b, buf)
}

// ConvertDecodedImageIntoBuffer converts img into caller provided dst and hands it to b.
// The format of dst takes precedence over ConvertOptions.Format.
func ConvertDecodedImageIntoBuffer(img *DecodedImage, dst *PixelBuffer, b ImageObjectBuilder, opts ...func(o *ConvertOptions)) (image.Image, error) {
	o := newConvertOptions(opts)

	ct, tm, err := prepare(img, o)
	if err != nil {
		return nil, fail(err)
	}
	if err := dst.Validate(img.Width, img.Height); err != nil {
		return nil, fail(err)
	}

	if err := run(img, ct, tm, dst, o); err != nil {
		return nil, fail(err)
	}

	return build(b, dst)
}

func prepare(img *DecodedImage, o ConvertOptions) (*ColorTransform, ToneMapper, error) {
	if img == nil {
		return nil, nil, fmt.Errorf("%w: nil image", ErrInvalidDimensions)
	}
	if err := validateImage(img); err != nil {
		return nil, nil, err
	}

	ct, err := NewColorTransform(img)
	if err != nil {
		return nil, nil, err
	}

	tc, err := NewToneMapContext(img, o)
	if err != nil {
		return nil, nil, err
	}

	return ct, NewToneMapper(tc), nil
}

func run(img *DecodedImage, ct *ColorTransform, tm ToneMapper, dst *PixelBuffer, o ConvertOptions) error {
	pc, err := NewPixelConverter(img, ct, tm, dst, o)
	if err != nil {
		return err
	}

	Logger().Debug("avifpix: converting",
		"width", img.Width,
		"height", img.Height,
		"depth", ct.Depth(),
		"hdr", ct.IsHDR(),
		"subsampling", img.Subsampling.String(),
		"matrix", img.Matrix.String(),
		"transfer", img.Transfer.String(),
		"tonemap", tm.Kind().String(),
		"format", dst.Format.String(),
		"vector", pc.Vector(),
		"workers", o.Workers,
	)

	return pc.Run(o.Context, o.Workers, o.TileRows)
}

func build(b ImageObjectBuilder, buf *PixelBuffer) (image.Image, error) {
	if b == nil {
		b = StdImageBuilder{}
	}

	img, err := b.Build(buf)
	if err != nil {
		return nil, fail(fmt.Errorf("build image: %w", err))
	}
	if img == nil {
		return nil, fail(fmt.Errorf("build image: %w: builder returned nil", ErrAllocationFailure))
	}

	return img, nil
}

func fail(err error) error {
	Logger().Debug("avifpix: conversion failed", "error", err)
	return err
}

func validateImage(img *DecodedImage) error {
	if img.Width <= 0 || img.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, img.Width, img.Height)
	}
	if err := checkDepth(img.Depth); err != nil {
		return err
	}

	bps := bytesPerSample(img.Depth)
	if err := validatePlane("Y", img.Y, img.Width, img.Height, bps); err != nil {
		return err
	}

	switch img.Subsampling {
	case Subsampling400:
	case Subsampling444, Subsampling422, Subsampling420:
		cw, ch := chromaSize(img.Width, img.Height, img.Subsampling)
		if err := validatePlane("U", img.U, cw, ch, bps); err != nil {
			return err
		}
		if err := validatePlane("V", img.V, cw, ch, bps); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedColorSpace, img.Subsampling)
	}

	if img.HasAlpha() {
		if err := validatePlane("alpha", img.Alpha, img.Width, img.Height, bps); err != nil {
			return err
		}
	}

	return nil
}

func validatePlane(name string, p Plane, w, h, bps int) error {
	rowBytes := w * bps
	if p.Stride < rowBytes {
		return fmt.Errorf("%w: %s stride %d is less than %d", ErrInvalidDimensions, name, p.Stride, rowBytes)
	}
	if len(p.Data) < p.Stride*(h-1)+rowBytes {
		return fmt.Errorf("%w: %s plane of %d bytes is too small", ErrInvalidDimensions, name, len(p.Data))
	}

	return nil
}

package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vearutop/avifpix"
)

var (
	matrixNames = map[string]avifpix.MatrixCoefficients{
		"identity": avifpix.MatrixIdentity,
		"bt709":    avifpix.MatrixBT709,
		"fcc":      avifpix.MatrixFCC,
		"bt470bg":  avifpix.MatrixBT470BG,
		"bt601":    avifpix.MatrixBT601,
		"smpte240": avifpix.MatrixSMPTE240,
		"bt2020":   avifpix.MatrixBT2020NCL,
	}

	transferNames = map[string]avifpix.TransferCharacteristics{
		"bt709":  avifpix.TransferBT709,
		"bt601":  avifpix.TransferBT601,
		"srgb":   avifpix.TransferSRGB,
		"linear": avifpix.TransferLinear,
		"pq":     avifpix.TransferPQ,
		"hlg":    avifpix.TransferHLG,
	}

	primariesNames = map[string]avifpix.ColorPrimaries{
		"bt709":  avifpix.PrimariesBT709,
		"bt601":  avifpix.PrimariesBT601,
		"bt2020": avifpix.PrimariesBT2020,
		"p3":     avifpix.PrimariesDisplayP3,
	}

	rangeNames = map[string]avifpix.Range{
		"full":    avifpix.RangeFull,
		"limited": avifpix.RangeLimited,
	}

	subsamplingNames = map[string]avifpix.Subsampling{
		"444": avifpix.Subsampling444,
		"422": avifpix.Subsampling422,
		"420": avifpix.Subsampling420,
		"400": avifpix.Subsampling400,
	}

	formatNames = map[string]avifpix.PixelFormat{
		"rgba8":   avifpix.FormatRGBA8,
		"rgba8p":  avifpix.FormatRGBA8Premul,
		"bgra8":   avifpix.FormatBGRA8,
		"bgra8p":  avifpix.FormatBGRA8Premul,
		"rgba16":  avifpix.FormatRGBA16,
		"rgba16p": avifpix.FormatRGBA16Premul,
	}

	upsamplingNames = map[string]avifpix.ChromaUpsampling{
		"nearest":  avifpix.UpsampleNearest,
		"bilinear": avifpix.UpsampleBilinear,
	}
)

func lookup[T any](kind string, names map[string]T, name string) (T, error) {
	if v, ok := names[strings.ToLower(name)]; ok {
		return v, nil
	}

	known := make([]string, 0, len(names))
	for k := range names {
		known = append(known, k)
	}
	sort.Strings(known)

	var zero T
	return zero, fmt.Errorf("unknown %s %q, expected one of %s", kind, name, strings.Join(known, ", "))
}

package main

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"
	"github.com/spf13/cobra"
	"github.com/vearutop/avifpix"
	"github.com/vearutop/avifpix/internal/rawyuv"
	"golang.org/x/image/tiff"
)

type convertFlags struct {
	in, alpha, out string

	width, height, depth int
	subsampling          string
	matrix, transfer     string
	primaries            string
	colorRange           string
	premultiplied        bool
	maxCLL               float64

	format     string
	targetNits float64
	upsample   string
	simd       bool
	workers    int

	maxWidth, maxHeight int
	digest              bool
}

var cf convertFlags

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a raw YUV frame to an image file",
	Example: `  avifpixtool convert -i frame.yuv -W 1920 -H 1080 -d 10 --transfer pq --primaries bt2020 --matrix bt2020 -o out.png
  avifpixtool convert -i frame.yuv.zst -W 640 -H 480 --alpha alpha.yuv --format rgba16 -o out.tiff`,
	RunE: func(*cobra.Command, []string) error {
		return runConvert(cf)
	},
}

func init() {
	f := convertCmd.Flags()

	f.StringVarP(&cf.in, "in", "i", "", "raw planar YUV input, zstd compressed input is detected")
	f.StringVar(&cf.alpha, "alpha", "", "optional raw alpha plane, same size and depth as luma")
	f.StringVarP(&cf.out, "out", "o", "", "output image, format by extension (png, jpg, bmp, gif, tif)")

	f.IntVarP(&cf.width, "width", "W", 0, "frame width")
	f.IntVarP(&cf.height, "height", "H", 0, "frame height")
	f.IntVarP(&cf.depth, "depth", "d", 8, "sample bit depth: 8, 10 or 12")
	f.StringVarP(&cf.subsampling, "subsampling", "s", "420", "chroma subsampling: 444, 422, 420, 400")
	f.StringVar(&cf.matrix, "matrix", "bt601", "matrix coefficients")
	f.StringVar(&cf.transfer, "transfer", "srgb", "transfer characteristics")
	f.StringVar(&cf.primaries, "primaries", "bt709", "color primaries")
	f.StringVar(&cf.colorRange, "range", "full", "sample range: full, limited")
	f.BoolVar(&cf.premultiplied, "alpha-premultiplied", false, "color planes are premultiplied by alpha")
	f.Float64Var(&cf.maxCLL, "max-cll", 0, "content light level in nits, 0 if unknown")

	f.StringVarP(&cf.format, "format", "f", "rgba8", "pixel format: rgba8, rgba8p, bgra8, bgra8p, rgba16, rgba16p")
	f.Float64Var(&cf.targetNits, "target-nits", 0, "display white luminance, 203 if not set")
	f.StringVar(&cf.upsample, "upsample", "nearest", "chroma upsampling: nearest, bilinear")
	f.BoolVar(&cf.simd, "simd", false, "tone map pixel batches on hwy vectors")
	f.IntVar(&cf.workers, "workers", 0, "parallel workers, GOMAXPROCS if not set")

	f.IntVar(&cf.maxWidth, "max-width", 0, "downscale output to fit width, preserving aspect ratio")
	f.IntVar(&cf.maxHeight, "max-height", 0, "downscale output to fit height, preserving aspect ratio")
	f.BoolVar(&cf.digest, "digest", false, "print xxhash of converted pixels")

	_ = convertCmd.MarkFlagRequired("in")
	_ = convertCmd.MarkFlagRequired("width")
	_ = convertCmd.MarkFlagRequired("height")

	rootCmd.AddCommand(convertCmd)
}

func runConvert(c convertFlags) error {
	if c.out == "" && !c.digest {
		return errors.New("either --out or --digest is required")
	}

	img, err := c.decodedImage()
	if err != nil {
		return err
	}

	format, err := lookup("format", formatNames, c.format)
	if err != nil {
		return err
	}
	upsampling, err := lookup("upsampling", upsamplingNames, c.upsample)
	if err != nil {
		return err
	}

	var b avifpix.ImageObjectBuilder = avifpix.StdImageBuilder{}
	if c.digest {
		b = avifpix.ImageObjectBuilderFunc(func(buf *avifpix.PixelBuffer) (image.Image, error) {
			fmt.Printf("%016x\n", pixelDigest(buf))
			return avifpix.StdImageBuilder{}.Build(buf)
		})
	}

	start := time.Now()
	out, err := avifpix.ConvertDecodedImageToNativeImage(img, b, func(o *avifpix.ConvertOptions) {
		o.Format = format
		o.TargetPeakNits = float32(c.targetNits)
		o.ChromaUpsampling = upsampling
		o.SIMD = c.simd
		o.Workers = c.workers
	})
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "converted %dx%d %s in %s\n", img.Width, img.Height, format, time.Since(start))
	}

	if c.out == "" {
		return nil
	}

	if c.maxWidth > 0 || c.maxHeight > 0 {
		mw, mh := c.maxWidth, c.maxHeight
		if mw <= 0 {
			mw = img.Width
		}
		if mh <= 0 {
			mh = img.Height
		}
		out = resize.Thumbnail(uint(mw), uint(mh), out, resize.Lanczos3)
	}

	return save(out, c.out)
}

func (c convertFlags) decodedImage() (*avifpix.DecodedImage, error) {
	subsampling, err := lookup("subsampling", subsamplingNames, c.subsampling)
	if err != nil {
		return nil, err
	}
	matrix, err := lookup("matrix", matrixNames, c.matrix)
	if err != nil {
		return nil, err
	}
	tc, err := lookup("transfer", transferNames, c.transfer)
	if err != nil {
		return nil, err
	}
	primaries, err := lookup("primaries", primariesNames, c.primaries)
	if err != nil {
		return nil, err
	}
	colorRange, err := lookup("range", rangeNames, c.colorRange)
	if err != nil {
		return nil, err
	}

	l := rawyuv.Layout{Width: c.width, Height: c.height, Depth: c.depth}
	switch subsampling {
	case avifpix.Subsampling422:
		l.ShiftX = 1
	case avifpix.Subsampling420:
		l.ShiftX, l.ShiftY = 1, 1
	case avifpix.Subsampling400:
		l.Monochrome = true
	}

	fr, err := rawyuv.ReadFile(filepath.Clean(c.in), l)
	if err != nil {
		return nil, err
	}

	img := &avifpix.DecodedImage{
		Width:              c.width,
		Height:             c.height,
		Depth:              c.depth,
		Subsampling:        subsampling,
		Y:                  avifpix.Plane{Data: fr.Y, Stride: fr.YStride},
		U:                  avifpix.Plane{Data: fr.U, Stride: fr.CStride},
		V:                  avifpix.Plane{Data: fr.V, Stride: fr.CStride},
		Matrix:             matrix,
		Transfer:           tc,
		Primaries:          primaries,
		Range:              colorRange,
		AlphaPremultiplied: c.premultiplied,
		MaxCLL:             float32(c.maxCLL),
	}
	if c.alpha != "" {
		a, err := rawyuv.ReadPlaneFile(filepath.Clean(c.alpha), c.width, c.height, c.depth)
		if err != nil {
			return nil, err
		}
		img.Alpha = avifpix.Plane{Data: a, Stride: fr.YStride}
	}

	return img, nil
}

// pixelDigest hashes visible pixels, row padding is skipped.
func pixelDigest(buf *avifpix.PixelBuffer) uint64 {
	h := xxhash.New()

	for y := 0; y < buf.Height; y++ {
		_, _ = h.Write(buf.Row(y))
	}

	return h.Sum64()
}

func save(img image.Image, name string) error {
	name = filepath.Clean(name)

	switch strings.ToLower(filepath.Ext(name)) {
	case ".tif", ".tiff":
		f, err := os.Create(name)
		if err != nil {
			return err
		}

		if err := tiff.Encode(f, img, &tiff.Options{Compression: tiff.Deflate}); err != nil {
			_ = f.Close()
			return err
		}

		return f.Close()
	default:
		return imaging.Save(img, name)
	}
}

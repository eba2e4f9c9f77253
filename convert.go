package avifpix

import (
	"context"
	"encoding/binary"
	"fmt"
	"sync/atomic"

	"github.com/ajroetker/go-highway/hwy"
	"github.com/ajroetker/go-highway/hwy/contrib/workerpool"
	"github.com/vearutop/avifpix/internal/transfer"
)

// PixelConverter writes interleaved pixels of one image into a buffer.
// Rows are independent, so tiles of rows may run concurrently.
type PixelConverter struct {
	img *DecodedImage
	ct  *ColorTransform
	tm  ToneMapper
	dst *PixelBuffer

	info FormatInfo
	// premultiply is set when straight source alpha has to be applied to colors.
	premultiply bool
	vector      bool

	y, u, v, a   planeReader
	tapsX, tapsY []chromaTap
	alphaScale   float32
}

// NewPixelConverter prepares conversion of img into dst, which must be validated already.
func NewPixelConverter(img *DecodedImage, ct *ColorTransform, tm ToneMapper, dst *PixelBuffer, o ConvertOptions) (*PixelConverter, error) {
	info := dst.Format.Info()
	if img.HasAlpha() && img.AlphaPremultiplied && !info.Premultiplied {
		return nil, fmt.Errorf("%w: premultiplied source into %s", ErrFormatMismatch, dst.Format)
	}

	c := &PixelConverter{
		img:         img,
		ct:          ct,
		tm:          tm,
		dst:         dst,
		info:        info,
		premultiply: img.HasAlpha() && !img.AlphaPremultiplied && info.Premultiplied,
		vector:      o.SIMD && !noSIMD(),
		y:           newPlaneReader(img.Y, img.Depth),
		alphaScale:  1 / float32(int(1)<<img.Depth-1),
	}

	if img.HasAlpha() {
		c.a = newPlaneReader(img.Alpha, img.Depth)
	}

	if !ct.Monochrome() {
		c.u = newPlaneReader(img.U, img.Depth)
		c.v = newPlaneReader(img.V, img.Depth)
		sx, sy := img.Subsampling.shift()
		c.tapsX = chromaTaps(img.Width, sx, o.ChromaUpsampling)
		c.tapsY = chromaTaps(img.Height, sy, o.ChromaUpsampling)
	}

	return c, nil
}

// Vector reports whether tone mapping runs on batches.
func (c *PixelConverter) Vector() bool { return c.vector }

// Run converts all rows in tiles of tileRows on workers goroutines.
// It returns ctx error if cancelled, the buffer content is undefined then.
func (c *PixelConverter) Run(ctx context.Context, workers, tileRows int) error {
	if tileRows <= 0 {
		tileRows = defaultTileRows
	}

	var cancelled atomic.Bool

	tile := func(start, end int) {
		// A single worker may receive several tiles at once.
		for y0 := start; y0 < end; y0 += tileRows {
			if cancelled.Load() {
				return
			}
			if ctx.Err() != nil {
				cancelled.Store(true)
				return
			}
			c.convertRows(y0, min(y0+tileRows, end))
		}
	}

	if workers <= 1 || c.img.Height <= tileRows {
		tile(0, c.img.Height)
	} else {
		pool := workerpool.New(workers)
		pool.ParallelForAtomicBatched(c.img.Height, tileRows, tile)
		pool.Close()
	}

	if cancelled.Load() {
		return ctx.Err()
	}
	return nil
}

func (c *PixelConverter) convertRows(y0, y1 int) {
	w := c.img.Width
	for y := y0; y < y1; y++ {
		row := c.dst.Row(y)

		x := 0
		if c.vector {
			x = c.convertBatches(row, y)
		}

		for ; x < w; x++ {
			p, a := c.sample(x, y)
			c.write(row, x, c.tm.Map(p), a)
		}
	}
}

// convertBatches converts whole batches of row y and returns the first pixel left.
func (c *PixelConverter) convertBatches(row []byte, y int) int {
	var (
		alpha [batchSize]float32
		b     Batch
	)

	x := 0
	for ; x+batchSize <= c.img.Width; x += batchSize {
		for i := 0; i < batchSize; i++ {
			var p RGB
			p, alpha[i] = c.sample(x+i, y)
			b.R[i], b.G[i], b.B[i] = p.R, p.G, p.B
		}
		c.tm.MapBatch(&b)
		for i := 0; i < batchSize; i++ {
			c.write(row, x+i, RGB{R: b.R[i], G: b.G[i], B: b.B[i]}, alpha[i])
		}
	}

	return x
}

// sample returns nonlinear RGB and normalized alpha at (x, y).
func (c *PixelConverter) sample(x, y int) (RGB, float32) {
	a := float32(1)
	if c.a.data != nil {
		a = transfer.Clamp01(c.a.at(x, y) * c.alphaScale)
	}

	l := c.y.at(x, y)
	if c.ct.Monochrome() {
		return c.ct.Apply(l, 0, 0), a
	}

	tx, ty := c.tapsX[x], c.tapsY[y]
	return c.ct.Apply(l, chromaAt(c.u, tx, ty), chromaAt(c.v, tx, ty)), a
}

func (c *PixelConverter) write(row []byte, x int, p RGB, a float32) {
	if c.premultiply {
		p.R *= a
		p.G *= a
		p.B *= a
	}

	r, b := p.R, p.B
	if c.info.Order == OrderBGRA {
		r, b = b, r
	}

	if c.info.BitsPerChannel == 16 {
		o := x * 8
		binary.BigEndian.PutUint16(row[o:], quantize16(r))
		binary.BigEndian.PutUint16(row[o+2:], quantize16(p.G))
		binary.BigEndian.PutUint16(row[o+4:], quantize16(b))
		binary.BigEndian.PutUint16(row[o+6:], quantize16(a))
		return
	}

	o := x * 4
	row[o] = quantize8(r)
	row[o+1] = quantize8(p.G)
	row[o+2] = quantize8(b)
	row[o+3] = quantize8(a)
}

// quantize8 rounds v in [0, 1] to the nearest 8-bit code.
func quantize8(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

func quantize16(v float32) uint16 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 65535
	}
	return uint16(v*65535 + 0.5)
}

func noSIMD() bool {
	return hwy.NoSimdEnv()
}

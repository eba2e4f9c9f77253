// Package avifpix converts decoded AVIF pictures into packed, display-ready pixel buffers.
//
// The input is a fully decoded image (planar YUV or monochrome samples at 8/10/12 bits with
// an optional alpha plane and CICP color metadata) as produced by an external AV1 decoder.
// The output is an interleaved RGBA/BGRA buffer, premultiplied where the destination format
// asks for it, with PQ, HLG and linear content tone mapped down to SDR.
//
// Bitstream decoding and file I/O are left to the caller, the final buffer is handed to an
// injected ImageObjectBuilder.
package avifpix

// Package hevcenc provides a pure Go encoder that compresses an 8-bit
// monochrome raster into a standalone H.265/HEVC Main-profile, intra-only
// bitstream.
//
// The encoder implements a single fixed coding configuration: one CTU size
// (32x32), one picture format (4:2:0 with flat, residual-free chroma
// carrying the monochrome input as luma), and one still-image slice per
// call. A single quantization knob, QPd6, selects among five
// supported quantization-parameter values. There is no inter prediction,
// no loop filtering, and no rate control — the whole library is the
// intra-frame coding tools of HEVC, run once per image.
//
// Basic usage:
//
//	enc := hevcenc.NewEncoder()
//	bitstream, pw, ph, err := enc.Encode(gray, width, height, nil, hevcenc.DefaultOptions(2))
package hevcenc

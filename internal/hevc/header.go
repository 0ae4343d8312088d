package hevc

import "github.com/deepteams/hevcenc/internal/bitio"

// Fixed VPS/SPS/PPS NAL units and the 5 possible slice headers (one per
// qpd6 value 0..4), each already carrying the emulation-prevention bytes
// their particular field values require. This encoder targets a single
// fixed coding configuration (8-bit 4:2:0 with flat chroma, I-frame-only,
// one CTU size),
// so these headers never need to be assembled field-by-field: they are
// constants of the format, the way a fixed container profile's boxes
// would be.
var vpsNAL = []byte{0x00, 0x00, 0x01, 0x40, 0x01, 0x0C, 0x01, 0xFF, 0xFF, 0x03, 0x10, 0x00, 0x00, 0x03, 0x00, 0x00, 0x03, 0x00, 0x00, 0x03, 0x00, 0x00, 0x03, 0x00, 0xB4, 0xF0, 0x24}
var spsNAL = []byte{0x00, 0x00, 0x01, 0x42, 0x01, 0x01, 0x03, 0x10, 0x00, 0x00, 0x03, 0x00, 0x00, 0x03, 0x00, 0x00, 0x03, 0x00, 0x00, 0x03, 0x00, 0xB4}
var ppsNAL = []byte{0x00, 0x00, 0x01, 0x44, 0x01, 0xC0, 0x90, 0x91, 0x81, 0xD9, 0x20}

var sliceHeaderNAL = [5][8]byte{
	{0x00, 0x00, 0x01, 0x26, 0x01, 0xAC, 0x16, 0xDE},
	{0x00, 0x00, 0x01, 0x26, 0x01, 0xAC, 0x10, 0xDE},
	{0x00, 0x00, 0x01, 0x26, 0x01, 0xAC, 0x2B, 0x78},
	{0x00, 0x00, 0x01, 0x26, 0x01, 0xAC, 0x4D, 0xE0},
	{0x00, 0x00, 0x01, 0x26, 0x01, 0xAC, 0x97, 0x80},
}

// putHeader writes the VPS, SPS (with its variable picture-size fields
// patched in), PPS, and the qpd6-selected slice header, ahead of the
// CABAC-coded slice data.
func putHeader(nal *bitio.NalWriter, qpd6, paddedHeight, paddedWidth int) {
	nal.PutBytes(vpsNAL)
	nal.PutBytes(spsNAL)
	nal.PutBits(0x0A, 4)
	nal.PutUE(paddedWidth)
	nal.PutUE(paddedHeight)
	nal.PutBits(0x197EE4, 22)
	nal.PutBits(0x681ED1, 24) // max_transform_hierarchy_depth_intra = 1
	nal.AlignToByte()
	nal.PutBytes(ppsNAL)
	nal.PutBytes(sliceHeaderNAL[qpd6][:])
}

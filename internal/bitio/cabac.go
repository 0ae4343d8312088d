package bitio

// CabacWriter implements the HEVC context-adaptive binary arithmetic coder
// (CABAC), as specified in H.265 clause 9.3.4.
//
// It is the regular-bin/bypass-bin/terminate-bin engine that backs the
// syntax writer: symbols are encoded by narrowing a range register and
// emitting bytes as the range shrinks below the renormalisation threshold,
// with start-code emulation prevention applied to every emitted byte.
//
// The state layout (range, low, nbits, a pending-byte run for carry
// propagation) mirrors a VP8 boolean arithmetic coder (BoolWriter in the
// WebP encoder this module grew from), adapted from binary-probability bins to HEVC's explicit context
// variables and from VP8's implicit RIFF byte stream to HEVC's
// Annex-B/NAL emulation-prevention rule.
type CabacWriter struct {
	buf     []byte
	count00 int // consecutive 0x00 bytes emitted, for emulation-prevention

	rng     int32
	low     int32
	nbits   int32
	nbytes  int32
	bufbyte int32
}

// NewCabacWriter creates a CabacWriter with its arithmetic-coder registers
// at their per-slice initial values (clause 9.3.2.2) and a buffer sized
// for expectedSize bytes.
func NewCabacWriter(expectedSize int) *CabacWriter {
	if expectedSize < 256 {
		expectedSize = 256
	}
	return &CabacWriter{
		buf:     make([]byte, 0, expectedSize),
		rng:     510,
		low:     0,
		nbits:   23,
		nbytes:  0,
		bufbyte: 0xFF,
	}
}

// Reset reinitialises the writer for a new slice, keeping the buffer's
// backing array when it is large enough to avoid reallocation.
func (w *CabacWriter) Reset(expectedSize int) {
	if expectedSize < 256 {
		expectedSize = 256
	}
	if cap(w.buf) >= expectedSize {
		w.buf = w.buf[:0]
	} else {
		w.buf = make([]byte, 0, expectedSize)
	}
	w.count00 = 0
	w.rng = 510
	w.low = 0
	w.nbits = 23
	w.nbytes = 0
	w.bufbyte = 0xFF
}

// cabacLPSRange holds codIRangeLPS, indexed [pStateIdx][(range>>6)&3]
// (clause 9.3.4.3.2.2, table 9-46).
var cabacLPSRange = [64][4]uint8{
	{128, 176, 208, 240}, {128, 167, 197, 227}, {128, 158, 187, 216}, {123, 150, 178, 205},
	{116, 142, 169, 195}, {111, 135, 160, 185}, {105, 128, 152, 175}, {100, 122, 144, 166},
	{95, 116, 137, 158}, {90, 110, 130, 150}, {85, 104, 123, 142}, {81, 99, 117, 135},
	{77, 94, 111, 128}, {73, 89, 105, 122}, {69, 85, 100, 116}, {66, 80, 95, 110},
	{62, 76, 90, 104}, {59, 72, 86, 99}, {56, 69, 81, 94}, {53, 65, 77, 89},
	{51, 62, 73, 85}, {48, 59, 69, 80}, {46, 56, 66, 76}, {43, 53, 63, 72},
	{41, 50, 59, 69}, {39, 48, 56, 65}, {37, 45, 54, 62}, {35, 43, 51, 59},
	{33, 41, 48, 56}, {32, 39, 46, 53}, {30, 37, 43, 50}, {29, 35, 41, 48},
	{27, 33, 39, 45}, {26, 31, 37, 43}, {24, 30, 35, 41}, {23, 28, 33, 39},
	{22, 27, 32, 37}, {21, 26, 30, 35}, {20, 24, 29, 33}, {19, 23, 27, 31},
	{18, 22, 26, 30}, {17, 21, 25, 28}, {16, 20, 23, 27}, {15, 19, 22, 25},
	{14, 18, 21, 24}, {14, 17, 20, 23}, {13, 16, 19, 22}, {12, 15, 18, 21},
	{12, 14, 17, 20}, {11, 14, 16, 19}, {11, 13, 15, 18}, {10, 12, 15, 17},
	{10, 12, 14, 16}, {9, 11, 13, 15}, {9, 11, 12, 14}, {8, 10, 12, 14},
	{8, 9, 11, 13}, {7, 9, 11, 12}, {7, 9, 10, 12}, {7, 8, 10, 11},
	{6, 8, 9, 11}, {6, 7, 9, 10}, {6, 7, 8, 9}, {2, 2, 2, 2},
}

// cabacRenorm maps codIRangeLPS>>3 to the renormalisation shift count
// (clause 9.3.4.3.2.2, table 9-46).
var cabacRenorm = [32]uint8{
	6, 5, 4, 4, 3, 3, 3, 3, 2, 2, 2, 2, 2, 2, 2, 2,
	1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1,
}

// cabacNextStateMPS/cabacNextStateLPS advance a packed context value
// (state<<1 | MPS) after coding its MPS/LPS symbol (clause 9.3.4.3.2.1
// table 9-45, reindexed onto the packed representation).
var cabacNextStateMPS = [128]uint8{
	2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17,
	18, 19, 20, 21, 22, 23, 24, 25, 26, 27, 28, 29, 30, 31, 32, 33,
	34, 35, 36, 37, 38, 39, 40, 41, 42, 43, 44, 45, 46, 47, 48, 49,
	50, 51, 52, 53, 54, 55, 56, 57, 58, 59, 60, 61, 62, 63, 64, 65,
	66, 67, 68, 69, 70, 71, 72, 73, 74, 75, 76, 77, 78, 79, 80, 81,
	82, 83, 84, 85, 86, 87, 88, 89, 90, 91, 92, 93, 94, 95, 96, 97,
	98, 99, 100, 101, 102, 103, 104, 105, 106, 107, 108, 109, 110, 111, 112, 113,
	114, 115, 116, 117, 118, 119, 120, 121, 122, 123, 124, 125, 124, 125, 126, 127,
}

var cabacNextStateLPS = [128]uint8{
	1, 0, 0, 1, 2, 3, 4, 5, 4, 5, 8, 9, 8, 9, 10, 11,
	12, 13, 14, 15, 16, 17, 18, 19, 18, 19, 22, 23, 22, 23, 24, 25,
	26, 27, 26, 27, 30, 31, 30, 31, 32, 33, 32, 33, 36, 37, 36, 37,
	38, 39, 38, 39, 42, 43, 42, 43, 44, 45, 44, 45, 46, 47, 48, 49,
	48, 49, 50, 51, 52, 53, 52, 53, 54, 55, 54, 55, 56, 57, 58, 59,
	58, 59, 60, 61, 60, 61, 60, 61, 62, 63, 64, 65, 64, 65, 66, 67,
	66, 67, 66, 67, 68, 69, 68, 69, 70, 71, 70, 71, 70, 71, 72, 73,
	72, 73, 72, 73, 74, 75, 74, 75, 74, 75, 76, 77, 76, 77, 126, 127,
}

// InitContextValue derives a packed per-context initial state from a
// normative init_value (clause 9.3.2.2) and the slice QP, matching
// initContextValue's fixed-point formula exactly.
func InitContextValue(initVal uint8, qp int32) uint8 {
	slope := int32(initVal>>4)*5 - 45
	offset := int32(initVal&15) << 3
	state := ((slope * qp) >> 4) + offset - 16
	if state < 1 {
		state = 1
	} else if state > 126 {
		state = 126
	}
	if state >= 64 {
		return uint8((state-64)<<1 | 1)
	}
	return uint8((63 - state) << 1)
}

func ctxState(v uint8) int32 { return int32(v >> 1) }
func ctxMPS(v uint8) int32   { return int32(v & 1) }

// PutBin codes one regular bin against the context variable *ctx,
// updating it in place (clause 9.3.4.3.2).
func (w *CabacWriter) PutBin(bit int, ctx *uint8) {
	lps := int32(cabacLPSRange[ctxState(*ctx)][(w.rng>>6)&3])
	nbit := int32(cabacRenorm[lps>>3])
	w.rng -= lps
	if int32(boolToInt(bit != 0)) != ctxMPS(*ctx) {
		*ctx = cabacNextStateLPS[*ctx]
		w.low = (w.low + w.rng) << uint(nbit)
		w.rng = lps << uint(nbit)
		w.nbits -= nbit
	} else {
		*ctx = cabacNextStateMPS[*ctx]
		if w.rng < 256 {
			w.low <<= 1
			w.rng <<= 1
			w.nbits--
		}
	}
	w.update()
}

// PutBypassBins codes length bins (MSB first) without a context model,
// each at probability 1/2 (clause 9.3.4.3.4).
func (w *CabacWriter) PutBypassBins(bins int32, length int) {
	bins &= (1 << uint(length)) - 1
	for length > 0 {
		curr := length
		if curr > 8 {
			curr = 8
		}
		length -= curr
		chunk := (bins >> uint(length)) & ((1 << uint(curr)) - 1)
		w.low <<= uint(curr)
		w.low += w.rng * chunk
		w.nbits -= int32(curr)
		w.update()
	}
}

// PutTerminateBin codes the end-of-slice-segment termination bin
// (clause 9.3.4.3.5).
func (w *CabacWriter) PutTerminateBin(bit int) {
	w.rng -= 2
	if bit != 0 {
		w.low += w.rng
		w.low <<= 7
		w.rng = 2 << 7
		w.nbits -= 7
	} else if w.rng < 256 {
		w.low <<= 1
		w.rng <<= 1
		w.nbits--
	}
	w.update()
}

// Len returns the number of bits written so far, counting the bits still
// held in the low/nbits registers — used by the R-D search to measure
// exact bit cost of a trial without flushing.
func (w *CabacWriter) Len() int32 {
	return 8*(int32(len(w.buf))+w.nbytes) + 23 - w.nbits
}

// Finish flushes the remaining low-register bits, terminating the
// arithmetic codeword (clause 9.3.4.3.5, "TerminateSlice"-adjacent flush).
func (w *CabacWriter) Finish() {
	tail := int32(0x00)
	if (w.low >> uint(32-w.nbits)) > 0 {
		w.put(int(w.bufbyte + 1))
		w.low -= 1 << uint(32-w.nbits)
	} else {
		if w.nbytes > 0 {
			w.put(int(w.bufbyte))
		}
		tail = 0xff
	}
	for ; w.nbytes > 1; w.nbytes-- {
		w.put(int(tail))
	}
	flushed := (w.low >> 8) << uint(w.nbits)
	w.put(int(flushed >> 16))
	w.put(int(flushed >> 8))
	w.put(int(flushed))
}

// Bytes returns the bytes written so far.
func (w *CabacWriter) Bytes() []byte { return w.buf }

func (w *CabacWriter) update() {
	if w.nbits >= 12 {
		return
	}
	lead := w.low >> uint(24-w.nbits)
	w.nbits += 8
	w.low &= int32(uint32(0xFFFFFFFF) >> uint(w.nbits))
	switch {
	case lead == 0xFF:
		w.nbytes++
	case w.nbytes > 0:
		carry := lead >> 8
		w.put(int(carry + w.bufbyte))
		w.bufbyte = lead & 0xFF
		fill := (0xFF + carry) & 0xFF
		for ; w.nbytes > 1; w.nbytes-- {
			w.put(int(fill))
		}
	default:
		w.nbytes = 1
		w.bufbyte = lead
	}
}

// put appends one raw byte to the output, inserting an emulation-prevention
// 0x03 byte whenever the last two emitted bytes were 0x00 and this byte
// would otherwise complete a start-code-like sequence (Annex B clause
// 7.4.2).
func (w *CabacWriter) put(b int) {
	v := byte(b)
	if w.count00 >= 2 && v <= 0x03 {
		w.buf = append(w.buf, 0x03)
		w.count00 = 0
	}
	w.buf = append(w.buf, v)
	if v == 0x00 {
		w.count00++
	} else {
		w.count00 = 0
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

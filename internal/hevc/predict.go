package hevc

// Prediction mode numbering (clause 8.4.2): 0 = planar, 1 = DC, 2..34 =
// angular, with 10/26 the pure horizontal/vertical angles.
const (
	PModePlanar = 0
	PModeDC     = 1
	PModeHor    = 10
	PModeDeg135 = 18
	PModeVer    = 26
	PModeCount  = 35
)

const pixMiddle = 128

func pixClip(x int32) uint8 {
	switch {
	case x < 0:
		return 0
	case x > 255:
		return 255
	default:
		return uint8(x)
	}
}

// border holds the left/above reference samples built for one prediction
// trial: the single left-above corner pixel, and two runs of 2*sz samples
// each (left+left-below, above+above-right), in both their raw
// ("unfiltered") and smoothed ("filtered") forms.
type border struct {
	ubla int32
	ublb [CTUSize * 2]int32
	ubar [CTUSize * 2]int32
	fbla int32
	fblb [CTUSize * 2]int32
	fbar [CTUSize * 2]int32
}

// recon is an index/stride view onto a shared reconstruction plane
// (either the full padded image, for the top level, or a CTU/CU
// sub-region sharing the same backing array, for recursive calls) — the
// idiomatic replacement for the original's raw-pointer "pointer shake"
// into a local border-padded block.
type recon struct {
	buf    []uint8
	stride int
	y0, x0 int
}

func (r recon) at(dy, dx int) uint8        { return r.buf[(r.y0+dy)*r.stride+r.x0+dx] }
func (r recon) set(dy, dx int, v uint8)    { r.buf[(r.y0+dy)*r.stride+r.x0+dx] = v }
func (r recon) sub(dy, dx int) recon       { return recon{r.buf, r.stride, r.y0 + dy, r.x0 + dx} }

// getBorder constructs the left-above/left/above-right reference samples
// for a sz-by-sz block from its already-reconstructed neighbours,
// substituting the documented fallback values where a neighbour does not
// exist, then derives the 3-tap smoothed variant (clause 8.4.4.2.3).
func getBorder(sz int, blLeft, blLeftBelow, blAbove, blAboveRight bool, r recon) border {
	var b border

	switch {
	case blLeft && blAbove:
		b.ubla = int32(r.at(-1, -1))
	case blLeft:
		b.ubla = int32(r.at(0, -1))
	case blAbove:
		b.ubla = int32(r.at(-1, 0))
	default:
		b.ubla = pixMiddle
	}

	for i := 0; i < sz; i++ {
		if blLeft {
			b.ublb[i] = int32(r.at(i, -1))
		} else {
			b.ublb[i] = b.ubla
		}
	}
	for i := sz; i < sz*2; i++ {
		if blLeftBelow {
			b.ublb[i] = int32(r.at(i, -1))
		} else {
			b.ublb[i] = b.ublb[sz-1]
		}
	}
	for i := 0; i < sz; i++ {
		if blAbove {
			b.ubar[i] = int32(r.at(-1, i))
		} else {
			b.ubar[i] = b.ubla
		}
	}
	for i := sz; i < sz*2; i++ {
		if blAboveRight {
			b.ubar[i] = int32(r.at(-1, i))
		} else {
			b.ubar[i] = b.ubar[sz-1]
		}
	}

	b.fbla = (2 + b.ublb[0] + b.ubar[0] + 2*b.ubla) >> 2
	b.fblb[0] = (2 + 2*b.ublb[0] + b.ublb[1] + b.ubla) >> 2
	b.fbar[0] = (2 + 2*b.ubar[0] + b.ubar[1] + b.ubla) >> 2
	for i := 1; i < sz*2-1; i++ {
		b.fblb[i] = (2 + 2*b.ublb[i] + b.ublb[i-1] + b.ublb[i+1]) >> 2
		b.fbar[i] = (2 + 2*b.ubar[i] + b.ubar[i-1] + b.ubar[i+1]) >> 2
	}
	b.fblb[sz*2-1] = b.ublb[sz*2-1]
	b.fbar[sz*2-1] = b.ubar[sz*2-1]

	return b
}

// whetherFilterBorderForY tells, per luma block size and mode, whether
// the smoothing filter is applied to the reference samples (clause
// 8.4.4.2.3, table 8-3).
var whetherFilterBorderForY = [5][35]bool{
	4 / 8: {},
	8 / 8: {
		true, false, true, false, false, false, false, false, false, false,
		false, false, false, false, false, false, false, false, true, false,
		false, false, false, false, false, false, false, false, false, false,
		false, false, false, false, true,
	},
	16 / 8: {
		true, false, true, true, true, true, true, true, true, false,
		false, false, true, true, true, true, true, true, true, true,
		true, true, true, true, true, false, false, false, true, true,
		true, true, true, true, true,
	},
	32 / 8: {
		true, false, true, true, true, true, true, true, true, true,
		false, true, true, true, true, true, true, true, true, true,
		true, true, true, true, true, true, false, true, true, true,
		true, true, true, true, true,
	},
}

var angleTable = [35]int32{
	0, 0, 32, 26, 21, 17, 13, 9, 5, 2, 0, -2, -5, -9, -13, -17, -21, -26, -32,
	-26, -21, -17, -13, -9, -5, -2, 0, 2, 5, 9, 13, 17, 21, 26, 32,
}

var absInvAngleTable = [35]int32{
	0, 0, 256, 315, 390, 482, 630, 910, 1638, 4096, 0, 4096, 1638, 910, 630,
	482, 390, 315, 256, 315, 390, 482, 630, 910, 1638, 4096, 0, 4096, 1638,
	910, 630, 482, 390, 315, 256,
}

// predictBlock fills dst[0:sz][0:sz] with the intra-predicted samples for
// pmode, following clause 8.4.4.2 exactly, including the edge filters
// applied only to luma blocks up to 16x16 (isLuma / sz<=16).
func predictBlock(sz int, isLuma bool, pmode int, b border, dst *[32][32]uint8) {
	whetherFilterEdge := isLuma && sz <= 16
	whetherFilterBorder := isLuma && whetherFilterBorderForY[sz/8][pmode]

	bla := b.ubla
	blb := &b.ublb
	bar := &b.ubar
	if whetherFilterBorder {
		bla = b.fbla
		blb = &b.fblb
		bar = &b.fbar
	}

	switch {
	case pmode == PModePlanar:
		for i := 0; i < sz; i++ {
			for j := 0; j < sz; j++ {
				horPred := int32(sz-j-1)*blb[i] + int32(j+1)*bar[sz]
				verPred := int32(sz-i-1)*bar[j] + int32(i+1)*blb[sz]
				dst[i][j] = uint8((int32(sz) + horPred + verPred) / int32(sz*2))
			}
		}

	case pmode == PModeDC:
		dc := int32(sz)
		for i := 0; i < sz; i++ {
			dc += blb[i] + bar[i]
		}
		dc /= int32(sz * 2)
		for i := 0; i < sz; i++ {
			for j := 0; j < sz; j++ {
				dst[i][j] = uint8(dc)
			}
		}
		if whetherFilterEdge {
			dst[0][0] = uint8((2 + 2*dc + blb[0] + bar[0]) >> 2)
			for i := 1; i < sz; i++ {
				dst[0][i] = uint8((2 + 3*dc + bar[i]) >> 2)
				dst[i][0] = uint8((2 + 3*dc + blb[i]) >> 2)
			}
		}

	case pmode == PModeHor:
		for i := 0; i < sz; i++ {
			for j := 0; j < sz; j++ {
				dst[i][j] = uint8(blb[i])
			}
		}
		if whetherFilterEdge {
			for j := 0; j < sz; j++ {
				bias := (bar[j] - bla) >> 1
				dst[0][j] = pixClip(bias + int32(dst[0][j]))
			}
		}

	case pmode == PModeVer:
		for i := 0; i < sz; i++ {
			for j := 0; j < sz; j++ {
				dst[i][j] = uint8(bar[j])
			}
		}
		if whetherFilterEdge {
			for i := 0; i < sz; i++ {
				bias := (blb[i] - bla) >> 1
				dst[i][0] = pixClip(bias + int32(dst[i][0]))
			}
		}

	default:
		isHorizontal := pmode < PModeDeg135
		angle := angleTable[pmode]
		absInvAngle := absInvAngleTable[pmode]

		bmain, bside := blb, bar
		if !isHorizontal {
			bmain, bside = bar, blb
		}

		// refBuf is indexed from -CTUSize*2 to CTUSize*2+1 inclusive (the
		// original's pointer walks both ways from a middle anchor); Go
		// slices can't take negative indices, so refAt/refSet rebase onto
		// a plain array. The last entry is never set: only a 32x32 block
		// at angle 32 reads it, and then with a zero interpolation weight.
		var refBufArr [CTUSize*4 + 2]int32
		const refBase = CTUSize * 2
		refAt := func(i int) int32 { return refBufArr[refBase+i] }
		refSet := func(i int, v int32) { refBufArr[refBase+i] = v }

		refSet(0, bla)
		for i := 0; i < sz*2; i++ {
			refSet(1+i, bside[i])
		}
		for i := -1; i > (sz*int(angle))>>5; i-- {
			j := int((128 - absInvAngle*int32(i)) >> 8)
			refSet(i, refAt(j))
		}
		for i := 0; i < sz*2; i++ {
			refSet(1+i, bmain[i])
		}

		for i := 0; i < sz; i++ {
			offset := angle * int32(i+1)
			offsetI := int(offset >> 5)
			offsetF := offset & 0x1f
			for j := 0; j < sz; j++ {
				pix1 := refAt(offsetI + j + 1)
				pix2 := refAt(offsetI + j + 2)
				pix := uint8(((32-offsetF)*pix1 + offsetF*pix2 + 16) >> 5)
				if isHorizontal {
					dst[j][i] = pix
				} else {
					dst[i][j] = pix
				}
			}
		}
	}
}

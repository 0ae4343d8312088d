package hevc

import "github.com/deepteams/hevcenc/internal/bitio"

// channel distinguishes luma from chroma for the handful of syntax
// elements whose context selection depends on it. This encoder only
// ever drives chY: chroma prediction/residual is never transmitted
// (clause 8.4.2 applies a fixed DC/zero-residual UV encoding,
// see putUVpmode).
type channel int

const (
	chY channel = iota
	chUV
)

// putSplitCUflag signals whether a CU further splits into 4 sub-CUs;
// only CUs of 16x16 or larger can split (clause 7.3.8.4).
func putSplitCUflag(cb *bitio.CabacWriter, ctx *contextSet, sz int, splitCUFlag, largerThanLeftCU, largerThanAboveCU bool) {
	if sz < 16 {
		return
	}
	idx := boolToInt(largerThanLeftCU) + boolToInt(largerThanAboveCU)
	cb.PutBin(boolToInt(splitCUFlag), &ctx.splitCUFlag[idx])
}

// putPartSize signals 2Nx2N vs NxN partitioning; only 8x8 CUs can
// split into 4 PUs (clause 7.3.8.5).
func putPartSize(cb *bitio.CabacWriter, ctx *contextSet, sz int, partNxN bool) {
	if sz != 8 {
		return
	}
	cb.PutBin(boolToInt(!partNxN), &ctx.partSize)
}

// getProbablePmodes derives the 3 most-probable intra modes from the
// left and above neighbours' modes (clause 8.4.2, derivation of
// candModeList).
func getProbablePmodes(pmodeLeft, pmodeAbove int) [3]int {
	var p [3]int
	switch {
	case pmodeLeft != pmodeAbove:
		p[0] = pmodeLeft
		p[1] = pmodeAbove
		switch {
		case pmodeLeft != PModePlanar && pmodeAbove != PModePlanar:
			p[2] = PModePlanar
		case pmodeLeft+pmodeAbove < 2:
			p[2] = PModeVer
		default:
			p[2] = PModeDC
		}
	case pmodeLeft > PModeDC:
		p[0] = pmodeLeft
		p[1] = ((pmodeLeft + 29) % 32) + 2
		p[2] = ((pmodeLeft - 1) % 32) + 2
	default:
		p[0] = PModePlanar
		p[1] = PModeDC
		p[2] = PModeVer
	}
	return p
}

// putYpmode encodes 1 (part2Nx2N) or 4 (partNxN) luma prediction modes
// against their MPM candidate lists (clause 7.3.8.5 / 9.3.3.8).
func putYpmode(cb *bitio.CabacWriter, ctx *contextSet, partNxN bool, pmode, pmodeLeft, pmodeAbove []int) {
	partCount := 1
	if partNxN {
		partCount = 4
	}
	var probable [4][3]int
	hitIndex := [4]int{-1, -1, -1, -1}

	for i := 0; i < partCount; i++ {
		probable[i] = getProbablePmodes(pmodeLeft[i], pmodeAbove[i])
		for j := 0; j < 3; j++ {
			if probable[i][j] == pmode[i] {
				hitIndex[i] = j
			}
		}
		cb.PutBin(boolToInt(hitIndex[i] >= 0), &ctx.yPMode)
	}

	for i := 0; i < partCount; i++ {
		j := hitIndex[i]
		if j >= 0 {
			cb.PutBypassBins(int32(boolToInt(j > 0)), 1)
			if j > 0 {
				cb.PutBypassBins(int32(j-1), 1)
			}
			continue
		}
		pm := probable[i]
		if pm[0] < pm[1] {
			pm[0], pm[1] = pm[1], pm[0]
		}
		if pm[1] < pm[2] {
			pm[1], pm[2] = pm[2], pm[1]
		}
		if pm[0] < pm[1] {
			pm[0], pm[1] = pm[1], pm[0]
		}
		tmp := pmode[i]
		for j := 0; j < 3; j++ {
			if tmp > pm[j] {
				tmp--
			}
		}
		cb.PutBypassBins(int32(tmp), 5)
	}
}

// putUVpmode writes the single UV-prediction-mode bit. This design
// targets 8-bit monochrome rasters, so chroma always decodes to a flat
// 0x80 plane: the bit is always 0 (DM mode, i.e. "same as luma"), and
// the matching chroma residual is never signalled.
func putUVpmode(cb *bitio.CabacWriter, ctx *contextSet) {
	cb.PutBin(0, &ctx.uvPMode)
}

// putSplitTUflag signals a TU quad-split; only 32/16/8-sized TUs carry
// this flag (the RQT bottoms out at 4x4, clause 7.3.8.8).
func putSplitTUflag(cb *bitio.CabacWriter, ctx *contextSet, sz int, splitTUFlag bool) {
	switch sz {
	case 32:
		cb.PutBin(boolToInt(splitTUFlag), &ctx.splitTUFlag[0])
	case 16:
		cb.PutBin(boolToInt(splitTUFlag), &ctx.splitTUFlag[1])
	case 8:
		cb.PutBin(boolToInt(splitTUFlag), &ctx.splitTUFlag[2])
	}
}

// putQtCbf signals whether a TU's coefficient block is entirely zero.
// tuDepthInCU is the TU's depth relative to its owning CU (e.g. an 8x8
// TU split from a 16x16 CU has depth 1).
func putQtCbf(cb *bitio.CabacWriter, ctx *contextSet, tuDepthInCU int, ch channel, cbf bool) {
	if ch == chY {
		idx := 0
		if tuDepthInCU == 0 {
			idx = 1
		}
		cb.PutBin(boolToInt(cbf), &ctx.yQtCbf[idx])
	} else {
		cb.PutBin(boolToInt(cbf), &ctx.uvQtCbf[tuDepthInCU])
	}
}

var groupIndexTable = [32]uint8{0, 1, 2, 3, 4, 4, 5, 5, 6, 6, 6, 6, 7, 7, 7, 7, 8, 8, 8, 8, 8, 8, 8, 8, 9, 9, 9, 9, 9, 9, 9, 9}
var minInGroupTable = [10]uint8{0, 1, 2, 3, 4, 6, 8, 12, 16, 24}

// addr/sft tables indexed [ch!=chY][sz/8], mapping the last-significant
// coefficient's position group to a last_x/last_y context row and a
// context-sharing shift (clause 9.3.4.2.3).
var lastXYAddrTable = [2][5]int{{0, 1, 2, 0, 3}, {4, 4, 4, 0, 4}}
var lastXYSftTable = [2][5]int{{0, 1, 1, 0, 1}, {0, 1, 2, 0, 3}}

// putLastSignificantXY writes the position of the last non-zero
// coefficient in scan order (clause 7.3.8.11).
func putLastSignificantXY(cb *bitio.CabacWriter, ctx *contextSet, sz int, ch channel, st scanType, y, x int) {
	chIdx := 0
	if ch != chY {
		chIdx = 1
	}
	addr := lastXYAddrTable[chIdx][sz/8]
	sft := lastXYSftTable[chIdx][sz/8]

	ty, tx := y, x
	if st == scanVer {
		ty, tx = x, y
	}
	gy := int(groupIndexTable[ty])
	gx := int(groupIndexTable[tx])

	for i := 0; i < gx; i++ {
		cb.PutBin(1, &ctx.lastX[addr][i>>uint(sft)])
	}
	if gx < int(groupIndexTable[sz-1]) {
		cb.PutBin(0, &ctx.lastX[addr][gx>>uint(sft)])
	}
	for i := 0; i < gy; i++ {
		cb.PutBin(1, &ctx.lastY[addr][i>>uint(sft)])
	}
	if gy < int(groupIndexTable[sz-1]) {
		cb.PutBin(0, &ctx.lastY[addr][gy>>uint(sft)])
	}

	if gx > 3 {
		tx -= int(minInGroupTable[gx])
		for i := ((gx - 2) >> 1) - 1; i >= 0; i-- {
			cb.PutBypassBins(int32((tx>>uint(i))&1), 1)
		}
	}
	if gy > 3 {
		ty -= int(minInGroupTable[gy])
		for i := ((gy - 2) >> 1) - 1; i >= 0; i-- {
			cb.PutBypassBins(int32((ty>>uint(i))&1), 1)
		}
	}
}

var ctxOffset4x4Table = [4][4]int{{0, 1, 4, 5}, {2, 3, 4, 5}, {6, 6, 8, 8}, {7, 7, 8, 8}}
var ctxOffsetPosition = [7]int{2, 1, 1, 0, 0, 0, 0}

// getSigCtxIdx derives the significance-map context index for one
// coefficient position (clause 9.3.4.2.5).
func getSigCtxIdx(sz int, ch channel, st scanType, y, x, sigCtx int) int {
	ctxIdx := 0
	if ch != chY {
		ctxIdx = 28
	}

	if y == 0 && x == 0 {
		return ctxIdx
	}
	if sz == 4 {
		return ctxIdx + ctxOffset4x4Table[y][x]
	}

	ctxIdx += 9
	if ch == chY {
		if sz >= 16 {
			ctxIdx += 12
		}
		if sz == 8 && st != scanDiag {
			ctxIdx += 6
		}
		if !(y/4 == 0 && x/4 == 0) {
			ctxIdx += 3
		}
	} else if sz >= 16 {
		ctxIdx += 3
	}

	switch sigCtx {
	case 0:
		return ctxIdx + ctxOffsetPosition[(y%4)+(x%4)]
	case 1:
		return ctxIdx + ctxOffsetPosition[(y%4)<<1]
	case 2:
		return ctxIdx + ctxOffsetPosition[(x%4)<<1]
	default:
		return ctxIdx + 2
	}
}

// putRemainExGolomb writes the escape-coded remainder of a coefficient
// magnitude using a concatenated Rice/k-th order Exp-Golomb code
// (clause 9.3.3.3).
func putRemainExGolomb(cb *bitio.CabacWriter, value, rparam int32) {
	if value < (3 << uint(rparam)) {
		length := value >> uint(rparam)
		cb.PutBypassBins((int32(1)<<uint(length+1))-2, int(length+1))
		cb.PutBypassBins(value%(int32(1)<<uint(rparam)), int(rparam))
		return
	}
	length := rparam
	value -= 3 << uint(rparam)
	for value >= (int32(1) << uint(length)) {
		value -= int32(1) << uint(length)
		length++
	}
	tmp := 4 + length - rparam
	cb.PutBypassBins((int32(1)<<uint(tmp))-2, int(tmp))
	cb.PutBypassBins(value, int(length))
}

// minInt returns the smaller of a, b.
func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// putCoef writes one sz-by-sz transform block's quantized residual
// using the 4x4 coefficient-group scheme (clause 7.3.8.11).
func putCoef(cb *bitio.CabacWriter, ctx *contextSet, sz int, ch channel, pmode int, blk *[32][32]int32) {
	st, scan := getScanOrder(sz, pmode)

	var sigMap [8][8]bool
	iLast := 0
	for i := 0; i < sz*sz; i++ {
		y, x := int(scan[i].y), int(scan[i].x)
		if blk[y][x] != 0 {
			sigMap[y/4][x/4] = true
			iLast = i
		}
	}

	putLastSignificantXY(cb, ctx, sz, ch, st, int(scan[iLast].y), int(scan[iLast].x))

	c1 := 1
	jNz := 0
	signs := int32(0)
	sigCtx := 0
	var arrAbsNz [16]int32

	for i := iLast; i >= 0; i-- {
		y, x := int(scan[i].y), int(scan[i].x)
		yCG, xCG := y/4, x/4
		sigCG := sigMap[yCG][xCG]
		sig := blk[y][x] != 0
		sign := blk[y][x] < 0
		isFinal := i == iLast
		isFirstCG := yCG == 0 && xCG == 0
		isFirstInCG := i%16 == 0
		isFinalInCG := i%16 == 15 || isFinal

		if isFinalInCG {
			sigCGRight := xCG < (sz/4)-1 && sigMap[yCG][xCG+1]
			sigCGBelow := yCG < (sz/4)-1 && sigMap[yCG+1][xCG]
			sigCtx = boolToInt(sigCGBelow)<<1 | boolToInt(sigCGRight)
			jNz = 0
			signs = 0
			if !isFirstCG && !isFinal {
				idx := 0
				if sigCtx != 0 {
					idx = 1
				}
				cb.PutBin(boolToInt(sigCG), &ctx.sigMap[idx])
			}
		}

		if !isFinal && (isFirstCG || (sigCG && (!isFirstInCG || jNz > 0))) {
			ctxIdx := getSigCtxIdx(sz, ch, st, y, x, sigCtx)
			cb.PutBin(boolToInt(sig), &ctx.sigSC[ctxIdx])
		}

		if sig {
			v := blk[y][x]
			if v < 0 {
				v = -v
			}
			arrAbsNz[jNz] = v
			jNz++
			signs = (signs << 1) | int32(boolToInt(sign))
		}

		if isFirstInCG && jNz > 0 {
			ctxSet := 0
			if ch != chY {
				ctxSet = 4
			}
			if ch == chY && !isFirstCG {
				ctxSet += 2
			}
			if c1 == 0 {
				ctxSet++
			}
			escapeFlag := jNz > 8
			c2Flag := -1
			c1 = 1

			limit := minInt(8, jNz)
			for j := 0; j < limit; j++ {
				gt1 := arrAbsNz[j] > 1
				cb.PutBin(boolToInt(gt1), &ctx.oneSC[4*ctxSet+c1])
				if gt1 {
					c1 = 0
					if c2Flag < 0 {
						c2Flag = boolToInt(arrAbsNz[j] > 2)
					} else {
						escapeFlag = true
					}
				} else if c1 > 0 && c1 < 3 {
					c1++
				}
			}

			if c1 == 0 && c2Flag >= 0 {
				cb.PutBin(c2Flag, &ctx.absSC[ctxSet])
				escapeFlag = escapeFlag || c2Flag != 0
			}

			cb.PutBypassBins(signs, jNz)

			if escapeFlag {
				firstCoeff2 := int32(3)
				goriceParam := int32(0)
				for j := 0; j < jNz; j++ {
					limit := int32(1)
					if j < 8 {
						limit = firstCoeff2
					}
					escapeValue := arrAbsNz[j] - limit
					if escapeValue >= 0 {
						putRemainExGolomb(cb, escapeValue, goriceParam)
						if arrAbsNz[j] > (3 << uint(goriceParam)) {
							goriceParam++
							if goriceParam > 4 {
								goriceParam = 4
							}
						}
					}
					if arrAbsNz[j] >= 2 {
						firstCoeff2 = 2
					}
				}
			}
		}
	}
}

// putCUPart2Nx2NNoTUsplit writes a 2Nx2N CU whose single TU carries the
// whole residual block (clause 7.3.8.5, part_mode=PART_2Nx2N, no RQT
// split).
func putCUPart2Nx2NNoTUsplit(cb *bitio.CabacWriter, ctx *contextSet, sz, pmode, pmodeLeft, pmodeAbove int, blk *[32][32]int32) {
	ycbf := blkNotAllZero(sz, blk)
	putPartSize(cb, ctx, sz, false)
	putYpmode(cb, ctx, false, []int{pmode}, []int{pmodeLeft}, []int{pmodeAbove})
	putUVpmode(cb, ctx)
	putSplitTUflag(cb, ctx, sz, false)
	putQtCbf(cb, ctx, 0, chUV, false)
	putQtCbf(cb, ctx, 0, chUV, false)
	putQtCbf(cb, ctx, 0, chY, ycbf)
	if ycbf {
		putCoef(cb, ctx, sz, chY, pmode, blk)
	}
}

// putCUPart2Nx2NTUsplit writes a 2Nx2N CU whose residual is split into
// 4 sz/2 TUs (clause 7.3.8.8, RQT split at depth 1).
func putCUPart2Nx2NTUsplit(cb *bitio.CabacWriter, ctx *contextSet, sz, pmode, pmodeLeft, pmodeAbove int, subBlk *[4][32][32]int32) {
	putPartSize(cb, ctx, sz, false)
	putYpmode(cb, ctx, false, []int{pmode}, []int{pmodeLeft}, []int{pmodeAbove})
	putUVpmode(cb, ctx)
	putSplitTUflag(cb, ctx, sz, true)
	putQtCbf(cb, ctx, 0, chUV, false)
	putQtCbf(cb, ctx, 0, chUV, false)
	for isub := 0; isub < 4; isub++ {
		ycbf := blkNotAllZero(sz/2, &subBlk[isub])
		putQtCbf(cb, ctx, 1, chY, ycbf)
		if ycbf {
			putCoef(cb, ctx, sz/2, chY, pmode, &subBlk[isub])
		}
	}
}

// putCUPartNxN writes an 8x8 CU split into 4 PUs, each with its own
// prediction mode and its own sz/2 TU (clause 7.3.8.5, part_mode=PART_NxN).
func putCUPartNxN(cb *bitio.CabacWriter, ctx *contextSet, sz int, pmodes, pmodesLeft, pmodesAbove [4]int, subBlk *[4][32][32]int32) {
	putPartSize(cb, ctx, sz, true)
	putYpmode(cb, ctx, true, pmodes[:], pmodesLeft[:], pmodesAbove[:])
	putUVpmode(cb, ctx)
	putQtCbf(cb, ctx, 0, chUV, false)
	putQtCbf(cb, ctx, 0, chUV, false)
	for isub := 0; isub < 4; isub++ {
		ycbf := blkNotAllZero(sz/2, &subBlk[isub])
		putQtCbf(cb, ctx, 1, chY, ycbf)
		if ycbf {
			putCoef(cb, ctx, sz/2, chY, pmodes[isub], &subBlk[isub])
		}
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

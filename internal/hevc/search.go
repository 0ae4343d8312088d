package hevc

import "github.com/deepteams/hevcenc/internal/bitio"

const minCUSize = 8

const maxRDCost = int32(0x7fffffff)

// setRegion fills an n-by-n region of a context map (CU-size or
// prediction-mode map, addressed in minimal-TU units) with one value,
// giving later CUs the context they need (clause 8.4.2's neighbouring
// block derivation).
func setRegion(m recon, n int, v uint8) {
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			m.set(i, j, v)
		}
	}
}

// processCURecurs is the recursive CU-level rate-distortion search: it
// tries splitting into 4 sub-CUs, 2Nx2N without TU split, 2Nx2N with a
// 4-way TU split, and (at the minimum CU size) 4-way NxN partitioning,
// keeping whichever gives the lowest Lagrangian cost and committing its
// bits to cb/ctx.
//
// blkOrig and blkRcon are index/stride views sharing their backing
// arrays with the caller's views at the corresponding sub-region: a
// write through a sub-view of blkRcon is visible through blkRcon
// itself and through any other view the caller holds over the same
// pixels, which is exactly what lets the TU-split and NxN trials below
// measure their own just-written reconstruction without copying it
// anywhere first.
func processCURecurs(qpd6 int, cb *bitio.CabacWriter, ctx *contextSet, blkOrig, blkRcon, mapCUSize, mapPMode recon, sz int, bllExist, blbExist, baaExist, barExist bool) {
	oCABAC := *cb
	oCtxs := *ctx

	nTU := sz / 4

	largerThanLeftCU := sz > int(mapCUSize.at(0, -1))
	largerThanAboveCU := sz > int(mapCUSize.at(-1, 0))
	pmodeLeft := int(mapPMode.at(0, -1))
	pmodeAbove := int(mapPMode.at(-1, 0))

	subBllExist := [4]bool{bllExist, true, bllExist, true}
	subBlbExist := [4]bool{blbExist, false, blbExist, false}
	subBaaExist := [4]bool{baaExist, baaExist, true, true}
	subBarExist := [4]bool{baaExist, barExist, true, false}

	h := sz / 2
	subBlkOrig := [4]recon{blkOrig.sub(0, 0), blkOrig.sub(0, h), blkOrig.sub(h, 0), blkOrig.sub(h, h)}
	subBlkRcon := [4]recon{blkRcon.sub(0, 0), blkRcon.sub(0, h), blkRcon.sub(h, 0), blkRcon.sub(h, h)}
	tu2 := nTU / 2
	subMapCUSize := [4]recon{mapCUSize.sub(0, 0), mapCUSize.sub(0, tu2), mapCUSize.sub(tu2, 0), mapCUSize.sub(tu2, tu2)}
	subMapPMode := [4]recon{mapPMode.sub(0, 0), mapPMode.sub(0, tu2), mapPMode.sub(tu2, 0), mapPMode.sub(tu2, tu2)}

	var blkTmp1 [32][32]uint8
	var blkTmp2 [32][32]int32
	var blkQuat [32][32]int32
	var subBlkQuat [4][32][32]int32
	var bestRcon [32][32]uint8

	rdcostBest := maxRDCost

	// step 1: try splitting to 4 sub-CUs
	if sz > minCUSize {
		putSplitCUflag(cb, ctx, sz, true, largerThanLeftCU, largerThanAboveCU)

		for isub := 0; isub < 4; isub++ {
			processCURecurs(qpd6, cb, ctx, subBlkOrig[isub], subBlkRcon[isub], subMapCUSize[isub], subMapPMode[isub],
				h, subBllExist[isub], subBlbExist[isub], subBaaExist[isub], subBarExist[isub])
		}

		distortion := calcBlkSSE(sz, reconGetter(blkOrig), reconGetter(blkRcon))
		rdcostBest = calcRDcost(qpd6, distortion, cb.Len()-oCABAC.Len())

		blkCopyFromRecon(sz, blkRcon, &bestRcon)
	}

	// step 2: try 2Nx2N, no TU split, every prediction mode
	b := getBorder(sz, bllExist, blbExist, baaExist, barExist, blkRcon)

	for pmode := 0; pmode < PModeCount; pmode++ {
		tCABAC := oCABAC
		tCtxs := oCtxs

		predictBlock(sz, true, pmode, b, &blkTmp1)
		blkSub(sz, blkOrig, &blkTmp1, &blkTmp2)
		transformBlock(sz, false, &blkTmp2, &blkTmp2)
		quantizeBlock(qpd6, sz, &blkTmp2, &blkQuat)
		dequantizeBlock(qpd6, sz, &blkQuat, &blkTmp2)
		transformBlock(sz, true, &blkTmp2, &blkTmp2)
		blkAddClipToPix(sz, &blkTmp2, &blkTmp1, &blkTmp1)

		putSplitCUflag(&tCABAC, &tCtxs, sz, false, largerThanLeftCU, largerThanAboveCU)
		putCUPart2Nx2NNoTUsplit(&tCABAC, &tCtxs, sz, pmode, pmodeLeft, pmodeAbove, &blkQuat)

		distortion := calcBlkSSE(sz, reconGetter(blkOrig), arrGetter(&blkTmp1))
		rdcost := calcRDcost(qpd6, distortion, tCABAC.Len()-oCABAC.Len())

		if rdcostBest >= rdcost {
			rdcostBest = rdcost
			*cb = tCABAC
			*ctx = tCtxs
			bestRcon = blkTmp1
			setRegion(mapCUSize, nTU, uint8(sz))
			setRegion(mapPMode, nTU, uint8(pmode))
		}
	}

	// step 3: try 2Nx2N, split into 4 TUs, every prediction mode
	for pmode := 0; pmode < PModeCount; pmode++ {
		tCABAC := oCABAC
		tCtxs := oCtxs

		for isub := 0; isub < 4; isub++ {
			sb := getBorder(h, subBllExist[isub], subBlbExist[isub], subBaaExist[isub], subBarExist[isub], subBlkRcon[isub])
			predictBlock(h, true, pmode, sb, &blkTmp1)
			blkSub(h, subBlkOrig[isub], &blkTmp1, &blkTmp2)
			transformBlock(h, false, &blkTmp2, &blkTmp2)
			quantizeBlock(qpd6, h, &blkTmp2, &subBlkQuat[isub])
			dequantizeBlock(qpd6, h, &subBlkQuat[isub], &blkTmp2)
			transformBlock(h, true, &blkTmp2, &blkTmp2)
			blkAddClipToRecon(h, &blkTmp2, &blkTmp1, subBlkRcon[isub])
		}

		putSplitCUflag(&tCABAC, &tCtxs, sz, false, largerThanLeftCU, largerThanAboveCU)
		putCUPart2Nx2NTUsplit(&tCABAC, &tCtxs, sz, pmode, pmodeLeft, pmodeAbove, &subBlkQuat)

		distortion := calcBlkSSE(sz, reconGetter(blkOrig), reconGetter(blkRcon))
		rdcost := calcRDcost(qpd6, distortion, tCABAC.Len()-oCABAC.Len())

		if rdcostBest >= rdcost {
			rdcostBest = rdcost
			*cb = tCABAC
			*ctx = tCtxs
			blkCopyFromRecon(sz, blkRcon, &bestRcon)
			setRegion(mapCUSize, nTU, uint8(sz))
			setRegion(mapPMode, nTU, uint8(pmode))
		}
	}

	// step 4: try NxN (4 independent PUs), only at the minimum CU size
	if sz == minCUSize {
		tCABAC := oCABAC
		tCtxs := oCtxs

		subPmodes := [4]int{-1, -1, -1, -1}
		var subPmodesLeft, subPmodesAbove [4]int

		for isub := 0; isub < 4; isub++ {
			rdcostSubBest := maxRDCost
			sb := getBorder(h, subBllExist[isub], subBlbExist[isub], subBaaExist[isub], subBarExist[isub], subBlkRcon[isub])

			for pmode := 0; pmode < PModeCount; pmode++ {
				nCABAC := *bitio.NewCabacWriter(64)
				nCtxs := newContextSet(qpd6)

				predictBlock(h, true, pmode, sb, &blkTmp1)
				blkSub(h, subBlkOrig[isub], &blkTmp1, &blkTmp2)
				transformBlock(h, false, &blkTmp2, &blkTmp2)
				quantizeBlock(qpd6, h, &blkTmp2, &blkQuat)
				dequantizeBlock(qpd6, h, &blkQuat, &blkTmp2)
				transformBlock(h, true, &blkTmp2, &blkTmp2)
				blkAddClipToPix(h, &blkTmp2, &blkTmp1, &blkTmp1)

				putCoef(&nCABAC, &nCtxs, h, chY, pmode, &blkQuat)

				distortion := calcBlkSSE(h, reconGetter(subBlkOrig[isub]), arrGetter(&blkTmp1))
				rdcost := calcRDcost(qpd6, distortion, nCABAC.Len())

				if rdcostSubBest >= rdcost {
					rdcostSubBest = rdcost
					subPmodes[isub] = pmode
					subBlkQuat[isub] = blkQuat
					blkCopyToRecon(h, &blkTmp1, subBlkRcon[isub])
				}
			}
		}

		subPmodesLeft[0] = pmodeLeft
		subPmodesAbove[0] = pmodeAbove
		subPmodesLeft[1] = subPmodes[0]
		subPmodesAbove[1] = int(subMapPMode[1].at(-1, 0))
		subPmodesLeft[2] = int(subMapPMode[2].at(0, -1))
		subPmodesAbove[2] = subPmodes[0]
		subPmodesLeft[3] = subPmodes[2]
		subPmodesAbove[3] = subPmodes[1]

		putSplitCUflag(&tCABAC, &tCtxs, sz, false, largerThanLeftCU, largerThanAboveCU)
		putCUPartNxN(&tCABAC, &tCtxs, sz, subPmodes, subPmodesLeft, subPmodesAbove, &subBlkQuat)

		distortion := calcBlkSSE(sz, reconGetter(blkOrig), reconGetter(blkRcon))
		rdcost := calcRDcost(qpd6, distortion, tCABAC.Len()-oCABAC.Len())

		if rdcostBest >= rdcost {
			*cb = tCABAC
			*ctx = tCtxs
			setRegion(mapCUSize, nTU, uint8(sz))
			setRegion(subMapPMode[0], nTU/2, uint8(subPmodes[0]))
			setRegion(subMapPMode[1], nTU/2, uint8(subPmodes[1]))
			setRegion(subMapPMode[2], nTU/2, uint8(subPmodes[2]))
			setRegion(subMapPMode[3], nTU/2, uint8(subPmodes[3]))
			return
		}
	}

	blkCopyToRecon(sz, &bestRcon, blkRcon)
}

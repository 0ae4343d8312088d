package hevc

// pixGetter reads one sample of a sz-by-sz block, abstracting over the
// two concrete sources processCURecurs compares against each other: a
// recon view (aliased, shared backing array) and a plain local array
// (an independent "trial" buffer).
type pixGetter func(i, j int) int32

func reconGetter(r recon) pixGetter {
	return func(i, j int) int32 { return int32(r.at(i, j)) }
}

func arrGetter(a *[32][32]uint8) pixGetter {
	return func(i, j int) int32 { return int32(a[i][j]) }
}

// blkNotAllZero reports whether any coefficient in the sz-by-sz block
// is non-zero (used to derive a TU's cbf flag).
func blkNotAllZero(sz int, blk *[32][32]int32) bool {
	for i := 0; i < sz; i++ {
		for j := 0; j < sz; j++ {
			if blk[i][j] != 0 {
				return true
			}
		}
	}
	return false
}

// calcBlkSSE sums squared per-sample error between two sz-by-sz
// sources, used as the distortion term of the R-D cost.
func calcBlkSSE(sz int, a, b pixGetter) int32 {
	var sse int32
	for i := 0; i < sz; i++ {
		for j := 0; j < sz; j++ {
			diff := a(i, j) - b(i, j)
			if diff < 0 {
				diff = -diff
			}
			sse += diff * diff
		}
	}
	return sse
}

// blkSub computes dst = src1 - src2 over a sz-by-sz region, src1 being
// 8-bit samples and src2 a predicted 8-bit block, producing a residual.
func blkSub(sz int, src1 recon, src2 *[32][32]uint8, dst *[32][32]int32) {
	for i := 0; i < sz; i++ {
		for j := 0; j < sz; j++ {
			dst[i][j] = int32(src1.at(i, j)) - int32(src2[i][j])
		}
	}
}

// blkAddClipToPix adds a residual block to a prediction and clips to
// pixel range, writing the result into dst (which may be the same array
// as pred, reconstructing in place).
func blkAddClipToPix(sz int, residual *[32][32]int32, pred *[32][32]uint8, dst *[32][32]uint8) {
	for i := 0; i < sz; i++ {
		for j := 0; j < sz; j++ {
			dst[i][j] = pixClip(residual[i][j] + int32(pred[i][j]))
		}
	}
}

func blkAddClipToRecon(sz int, residual *[32][32]int32, pred *[32][32]uint8, dst recon) {
	for i := 0; i < sz; i++ {
		for j := 0; j < sz; j++ {
			dst.set(i, j, pixClip(residual[i][j]+int32(pred[i][j])))
		}
	}
}

func blkCopyToRecon(sz int, src *[32][32]uint8, dst recon) {
	for i := 0; i < sz; i++ {
		for j := 0; j < sz; j++ {
			dst.set(i, j, src[i][j])
		}
	}
}

func blkCopyFromRecon(sz int, src recon, dst *[32][32]uint8) {
	for i := 0; i < sz; i++ {
		for j := 0; j < sz; j++ {
			dst[i][j] = src.at(i, j)
		}
	}
}

func blkCopyRecons(sz int, src, dst recon) {
	for i := 0; i < sz; i++ {
		for j := 0; j < sz; j++ {
			dst.set(i, j, src.at(i, j))
		}
	}
}

// borderFromRecon builds the border samples for predicting the sz-by-sz
// block anchored at r, given which neighbours actually exist.
func borderFromRecon(sz int, bllExist, blbExist, baaExist, barExist bool, r recon) border {
	return getBorder(sz, bllExist, blbExist, baaExist, barExist, r)
}

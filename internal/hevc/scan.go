package hevc

// scanType enumerates the three coefficient-group scan orders (clause
// 7.4.9.11).
type scanType int

const (
	scanDiag scanType = iota
	scanHor
	scanVer
)

type scanPos struct{ y, x uint8 }

var scanHor8x8 = [64]scanPos{
	{0, 0}, {0, 1}, {0, 2}, {0, 3}, {1, 0}, {1, 1}, {1, 2}, {1, 3},
	{2, 0}, {2, 1}, {2, 2}, {2, 3}, {3, 0}, {3, 1}, {3, 2}, {3, 3},
	{0, 4}, {0, 5}, {0, 6}, {0, 7}, {1, 4}, {1, 5}, {1, 6}, {1, 7},
	{2, 4}, {2, 5}, {2, 6}, {2, 7}, {3, 4}, {3, 5}, {3, 6}, {3, 7},
	{4, 0}, {4, 1}, {4, 2}, {4, 3}, {5, 0}, {5, 1}, {5, 2}, {5, 3},
	{6, 0}, {6, 1}, {6, 2}, {6, 3}, {7, 0}, {7, 1}, {7, 2}, {7, 3},
	{4, 4}, {4, 5}, {4, 6}, {4, 7}, {5, 4}, {5, 5}, {5, 6}, {5, 7},
	{6, 4}, {6, 5}, {6, 6}, {6, 7}, {7, 4}, {7, 5}, {7, 6}, {7, 7},
}

var scanVer8x8 = [64]scanPos{
	{0, 0}, {1, 0}, {2, 0}, {3, 0}, {0, 1}, {1, 1}, {2, 1}, {3, 1},
	{0, 2}, {1, 2}, {2, 2}, {3, 2}, {0, 3}, {1, 3}, {2, 3}, {3, 3},
	{4, 0}, {5, 0}, {6, 0}, {7, 0}, {4, 1}, {5, 1}, {6, 1}, {7, 1},
	{4, 2}, {5, 2}, {6, 2}, {7, 2}, {4, 3}, {5, 3}, {6, 3}, {7, 3},
	{0, 4}, {1, 4}, {2, 4}, {3, 4}, {0, 5}, {1, 5}, {2, 5}, {3, 5},
	{0, 6}, {1, 6}, {2, 6}, {3, 6}, {0, 7}, {1, 7}, {2, 7}, {3, 7},
	{4, 4}, {5, 4}, {6, 4}, {7, 4}, {4, 5}, {5, 5}, {6, 5}, {7, 5},
	{4, 6}, {5, 6}, {6, 6}, {7, 6}, {4, 7}, {5, 7}, {6, 7}, {7, 7},
}

var scanDiag8x8 = [64]scanPos{
	{0, 0}, {1, 0}, {0, 1}, {2, 0}, {1, 1}, {0, 2}, {3, 0}, {2, 1},
	{1, 2}, {0, 3}, {3, 1}, {2, 2}, {1, 3}, {3, 2}, {2, 3}, {3, 3},
	{4, 0}, {5, 0}, {4, 1}, {6, 0}, {5, 1}, {4, 2}, {7, 0}, {6, 1},
	{5, 2}, {4, 3}, {7, 1}, {6, 2}, {5, 3}, {7, 2}, {6, 3}, {7, 3},
	{0, 4}, {1, 4}, {0, 5}, {2, 4}, {1, 5}, {0, 6}, {3, 4}, {2, 5},
	{1, 6}, {0, 7}, {3, 5}, {2, 6}, {1, 7}, {3, 6}, {2, 7}, {3, 7},
	{4, 4}, {5, 4}, {4, 5}, {6, 4}, {5, 5}, {4, 6}, {7, 4}, {6, 5},
	{5, 6}, {4, 7}, {7, 5}, {6, 6}, {5, 7}, {7, 6}, {6, 7}, {7, 7},
}

// diagOrderNxN generates the up-right diagonal visiting order over an
// NxN grid of coordinates: increasing diagonal index y+x, and within a
// diagonal, decreasing y (clause 6.5.3's up-right diagonal scan order).
// Applied at the 4x4 granularity this is exactly scanDiag8x8's first 16
// entries; applied at the coefficient-group granularity it is how larger
// transform blocks order their groups.
func diagOrderNxN(n int) []scanPos {
	out := make([]scanPos, 0, n*n)
	for d := 0; d < 2*n-1; d++ {
		for y := n - 1; y >= 0; y-- {
			x := d - y
			if x < 0 || x >= n {
				continue
			}
			out = append(out, scanPos{uint8(y), uint8(x)})
		}
	}
	return out
}

// buildDiagScan constructs the diagonal scan for an sz-by-sz block (sz =
// nCG*4) as a flat diagonal order over its nCG-by-nCG grid of 4x4
// coefficient groups, each group internally diagonal-scanned the same
// way — reproducing the original's literal scanDiag16x16/scanDiag32x32
// tables without transcribing them by hand.
func buildDiagScan(nCG int) []scanPos {
	local := diagOrderNxN(4)
	cgOrder := diagOrderNxN(nCG)
	out := make([]scanPos, 0, nCG*nCG*16)
	for _, cg := range cgOrder {
		cy, cx := int(cg.y), int(cg.x)
		for _, p := range local {
			out = append(out, scanPos{uint8(cy*4 + int(p.y)), uint8(cx*4 + int(p.x))})
		}
	}
	return out
}

var scanDiag16x16 = buildDiagScan(4)
var scanDiag32x32 = buildDiagScan(8)

// getScanOrder selects the coefficient scan for a transform block: near-
// vertical/near-horizontal intra modes use a horizontal/vertical scan
// for 4x4 and 8x8 luma blocks, everything else (and chroma, and larger
// blocks) uses the diagonal scan (clause 7.4.9.11).
func getScanOrder(sz, pmode int) (scanType, []scanPos) {
	if sz <= 8 {
		switch {
		case abs32(int32(pmode-PModeVer)) <= 4:
			return scanHor, scanHor8x8[:]
		case abs32(int32(pmode-PModeHor)) <= 4:
			return scanVer, scanVer8x8[:]
		}
	}
	switch sz {
	case 4, 8:
		return scanDiag, scanDiag8x8[:]
	case 16:
		return scanDiag, scanDiag16x16
	case 32:
		return scanDiag, scanDiag32x32
	}
	panic("hevc: invalid scan block size")
}

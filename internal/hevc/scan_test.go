package hevc

import "testing"

func checkPermutation(t *testing.T, name string, n int, order []scanPos) {
	t.Helper()
	if len(order) != n*n {
		t.Fatalf("%s: got %d positions, want %d", name, len(order), n*n)
	}
	seen := make(map[[2]uint8]bool, n*n)
	for _, p := range order {
		if p.y >= uint8(n) || p.x >= uint8(n) {
			t.Fatalf("%s: position (%d,%d) out of [0,%d) range", name, p.y, p.x, n)
		}
		key := [2]uint8{p.y, p.x}
		if seen[key] {
			t.Fatalf("%s: position (%d,%d) visited more than once", name, p.y, p.x)
		}
		seen[key] = true
	}
	if len(seen) != n*n {
		t.Fatalf("%s: only %d distinct positions visited, want %d", name, len(seen), n*n)
	}
}

func TestDiagOrderNxNIsPermutation(t *testing.T) {
	for _, n := range []int{2, 4, 8} {
		checkPermutation(t, "diagOrderNxN", n, diagOrderNxN(n))
	}
}

func TestDiagOrderNxNStartsAndEndsAtCorners(t *testing.T) {
	for _, n := range []int{2, 4, 8} {
		order := diagOrderNxN(n)
		if order[0] != (scanPos{0, 0}) {
			t.Fatalf("n=%d: first position = %+v, want (0,0)", n, order[0])
		}
		last := order[len(order)-1]
		if last != (scanPos{uint8(n - 1), uint8(n - 1)}) {
			t.Fatalf("n=%d: last position = %+v, want (%d,%d)", n, last, n-1, n-1)
		}
	}
}

func TestDiagOrderNxNDescendingWithinDiagonal(t *testing.T) {
	order := diagOrderNxN(4)
	prevDiag := -1
	prevY := -1
	for _, p := range order {
		d := int(p.y) + int(p.x)
		if d != prevDiag {
			prevDiag = d
			prevY = int(p.y) + 1
		}
		if int(p.y) >= prevY {
			t.Fatalf("diagonal %d: y=%d did not descend from previous %d", d, p.y, prevY-1)
		}
		prevY = int(p.y)
	}
}

func TestBuildDiagScanMatchesLiteralScanDiag8x8(t *testing.T) {
	built := buildDiagScan(2)
	if len(built) != len(scanDiag8x8) {
		t.Fatalf("buildDiagScan(2) has %d entries, want %d", len(built), len(scanDiag8x8))
	}
	for i := range built {
		if built[i] != scanDiag8x8[i] {
			t.Fatalf("entry %d: got %+v, want %+v", i, built[i], scanDiag8x8[i])
		}
	}
}

func TestScanDiag16x16IsPermutation(t *testing.T) {
	checkPermutation(t, "scanDiag16x16", 16, scanDiag16x16)
}

func TestScanDiag32x32IsPermutation(t *testing.T) {
	checkPermutation(t, "scanDiag32x32", 32, scanDiag32x32)
}

func TestScanDiag16x16NestsFirstCGLikeScanDiag8x8(t *testing.T) {
	// The first 16 entries of scanDiag16x16 are the top-left 4x4 coefficient
	// group, scanned the same diagonal way as all of scanDiag8x8's first CG.
	for i := 0; i < 16; i++ {
		if scanDiag16x16[i] != scanDiag8x8[i] {
			t.Fatalf("entry %d: got %+v, want %+v", i, scanDiag16x16[i], scanDiag8x8[i])
		}
	}
}

func TestScanHorAndScanVerArePermutations(t *testing.T) {
	checkPermutation(t, "scanHor8x8", 8, scanHor8x8[:])
	checkPermutation(t, "scanVer8x8", 8, scanVer8x8[:])
}

func TestGetScanOrderSelectsHorVerNearDiagonalModes(t *testing.T) {
	typ, order := getScanOrder(4, PModeVer)
	if typ != scanHor || len(order) != 64 {
		t.Fatalf("sz=4 pmode=Ver: got type %v len %d, want scanHor/64", typ, len(order))
	}
	typ, order = getScanOrder(8, PModeHor)
	if typ != scanVer || len(order) != 64 {
		t.Fatalf("sz=8 pmode=Hor: got type %v len %d, want scanVer/64", typ, len(order))
	}
}

func TestGetScanOrderFallsBackToDiagForLargeBlocks(t *testing.T) {
	typ, order := getScanOrder(16, PModeVer)
	if typ != scanDiag || len(order) != 256 {
		t.Fatalf("sz=16: got type %v len %d, want scanDiag/256", typ, len(order))
	}
	typ, order = getScanOrder(32, PModeDC)
	if typ != scanDiag || len(order) != 1024 {
		t.Fatalf("sz=32: got type %v len %d, want scanDiag/1024", typ, len(order))
	}
}

func TestGetScanOrderDiagForDistantModes(t *testing.T) {
	typ, order := getScanOrder(8, PModeDC)
	if typ != scanDiag || len(order) != 64 {
		t.Fatalf("sz=8 pmode=DC: got type %v len %d, want scanDiag/64", typ, len(order))
	}
}

package hevc

import (
	"testing"

	"github.com/deepteams/hevcenc/internal/bitio"
)

func TestBoolToInt(t *testing.T) {
	if boolToInt(true) != 1 {
		t.Fatal("boolToInt(true) != 1")
	}
	if boolToInt(false) != 0 {
		t.Fatal("boolToInt(false) != 0")
	}
}

func TestGetProbablePmodesDistinctNonPlanarNeighbours(t *testing.T) {
	p := getProbablePmodes(10, 26)
	want := [3]int{10, 26, PModePlanar}
	if p != want {
		t.Fatalf("getProbablePmodes(10,26) = %v, want %v", p, want)
	}
}

func TestGetProbablePmodesDistinctWithPlanarLowSum(t *testing.T) {
	// pmodeLeft=Planar(0), pmodeAbove=DC(1): sum=1 < 2 -> candidate fills with Ver.
	p := getProbablePmodes(PModePlanar, PModeDC)
	want := [3]int{PModePlanar, PModeDC, PModeVer}
	if p != want {
		t.Fatalf("getProbablePmodes(Planar,DC) = %v, want %v", p, want)
	}
}

func TestGetProbablePmodesDistinctWithPlanarHighSum(t *testing.T) {
	// pmodeLeft=Planar(0), pmodeAbove=5: sum=5 >= 2 -> candidate fills with DC.
	p := getProbablePmodes(PModePlanar, 5)
	want := [3]int{PModePlanar, 5, PModeDC}
	if p != want {
		t.Fatalf("getProbablePmodes(Planar,5) = %v, want %v", p, want)
	}
}

func TestGetProbablePmodesEqualAngularNeighbours(t *testing.T) {
	p := getProbablePmodes(10, 10)
	want := [3]int{10, 9, 11}
	if p != want {
		t.Fatalf("getProbablePmodes(10,10) = %v, want %v", p, want)
	}
}

func TestGetProbablePmodesEqualNonAngularNeighbours(t *testing.T) {
	for _, m := range []int{PModePlanar, PModeDC} {
		p := getProbablePmodes(m, m)
		want := [3]int{PModePlanar, PModeDC, PModeVer}
		if p != want {
			t.Fatalf("getProbablePmodes(%d,%d) = %v, want %v", m, m, p, want)
		}
	}
}

func TestGetProbablePmodesAlwaysDistinctEntries(t *testing.T) {
	for left := 0; left < PModeCount; left++ {
		for above := 0; above < PModeCount; above++ {
			p := getProbablePmodes(left, above)
			if p[0] == p[1] || p[1] == p[2] || p[0] == p[2] {
				t.Fatalf("getProbablePmodes(%d,%d) = %v has duplicate entries", left, above, p)
			}
		}
	}
}

func TestPutRemainExGolombConsumesExpectedBitsBelowEscape(t *testing.T) {
	// value < 3<<rparam takes exactly (value>>rparam)+1 unary-prefix bits
	// plus rparam remainder bits.
	w := bitio.NewCabacWriter(64)
	before := w.Len()
	putRemainExGolomb(w, 2, 0)
	after := w.Len()
	if after-before != 3 {
		t.Fatalf("putRemainExGolomb(2,0): consumed %d bits, want 3", after-before)
	}
}

func TestPutRemainExGolombConsumesExpectedBitsAboveEscape(t *testing.T) {
	w := bitio.NewCabacWriter(64)
	before := w.Len()
	putRemainExGolomb(w, 10, 0)
	after := w.Len()
	// value=10 >= 3<<0=3: length starts at rparam=0, subtract 3 -> 7;
	// 7 >= 1<<0 -> subtract 1, length=1 (value=6); 6 >= 1<<1 -> subtract 2,
	// length=2 (value=4); 4 >= 1<<2 -> subtract 4, length=3 (value=0);
	// 0 < 1<<3 stop. tmp = 4+3-0 = 7 prefix bits, 3 remainder bits = 10 bits.
	if after-before != 10 {
		t.Fatalf("putRemainExGolomb(10,0): consumed %d bits, want 10", after-before)
	}
}

package hevc

import "testing"

func TestCalcRDcostSaturates(t *testing.T) {
	cost := calcRDcost(0, 0x7fffffff, 0x7fffffff)
	if cost != 0x7fffffff {
		t.Fatalf("calcRDcost with huge inputs = %d, want saturated max int32", cost)
	}
}

func TestCalcRDcostMonotonicInDistortion(t *testing.T) {
	low := calcRDcost(2, 100, 1000)
	high := calcRDcost(2, 10000, 1000)
	if high <= low {
		t.Fatalf("calcRDcost should increase with distortion: low=%d high=%d", low, high)
	}
}

func TestQuantizeZeroBlockStaysZero(t *testing.T) {
	for _, sz := range []int{4, 8, 16, 32} {
		var src, dst [32][32]int32
		quantizeBlock(2, sz, &src, &dst)
		for i := 0; i < sz; i++ {
			for j := 0; j < sz; j++ {
				if dst[i][j] != 0 {
					t.Fatalf("sz=%d quantizing an all-zero block produced nonzero level at (%d,%d)", sz, i, j)
				}
			}
		}
	}
}

// TestQuantDequantZeroLevelsDequantizeToZero quantizes small residuals
// and checks that every coefficient whose quantized level is zero
// dequantizes to exactly zero.
func TestQuantDequantZeroLevelsDequantizeToZero(t *testing.T) {
	for qpd6 := 0; qpd6 < 5; qpd6++ {
		for _, sz := range []int{4, 8, 16, 32} {
			var src, levels, dequant [32][32]int32
			for i := 0; i < sz; i++ {
				for j := 0; j < sz; j++ {
					src[i][j] = int32((i + j) % 7)
				}
			}
			quantizeBlock(qpd6, sz, &src, &levels)
			dequantizeBlock(qpd6, sz, &levels, &dequant)

			for i := 0; i < sz; i++ {
				for j := 0; j < sz; j++ {
					if levels[i][j] > 3 || levels[i][j] < -3 {
						continue
					}
					if levels[i][j] == 0 && dequant[i][j] != 0 {
						t.Fatalf("qpd6=%d sz=%d (%d,%d): zero level dequantized to nonzero %d", qpd6, sz, i, j, dequant[i][j])
					}
				}
			}
		}
	}
}

func TestDequantizeScalesWithQP(t *testing.T) {
	var levels, lowQP, highQP [32][32]int32
	levels[0][0] = 4
	dequantizeBlock(0, 8, &levels, &lowQP)
	dequantizeBlock(4, 8, &levels, &highQP)
	if highQP[0][0] <= lowQP[0][0] {
		t.Fatalf("dequantize at higher qpd6 should scale coefficients up more: low=%d high=%d", lowQP[0][0], highQP[0][0])
	}
}

func TestEstimateCoeffRateIncreasesWithLevel(t *testing.T) {
	prev := estimateCoeffRate(0)
	for level := int32(1); level < 20; level++ {
		cur := estimateCoeffRate(level)
		if cur < prev {
			t.Fatalf("estimateCoeffRate(%d)=%d is less than estimateCoeffRate(%d)=%d", level, cur, level-1, prev)
		}
		prev = cur
	}
}

package hevc

// rdCostWeightDist/rdCostWeightBits hold the per-qpd6 Lagrangian weights
// used to fold SSE distortion and bit count into one comparable cost.
var rdCostWeightDist = [5]int32{11, 11, 11, 5, 1}
var rdCostWeightBits = [5]int32{1, 4, 16, 29, 23}

// calcRDcost computes a saturating Lagrangian rate-distortion cost,
// weight1*dist + weight2*bits, avoiding 32-bit overflow at every step by
// clamping to math.MaxInt32 the moment a multiply or add would exceed it
// (clause 9 of the design notes: overflow saturates, it is never an
// error).
func calcRDcost(qpd6 int, dist, bits int32) int32 {
	const i32max = int32(0x7fffffff)
	w1 := rdCostWeightDist[qpd6]
	w2 := rdCostWeightBits[qpd6]

	cost1 := i32max
	if i32max/w1 > dist {
		cost1 = w1 * dist
	}
	cost2 := i32max
	if i32max/w2 > bits {
		cost2 = w2 * bits
	}
	if i32max-cost1 <= cost2 {
		return i32max
	}
	return cost1 + cost2
}

// levelRateTable holds estimateCoeffRate's small-level lookup.
var levelRateTable = [6]int32{0, 70000, 90000, 92000, 157536, 190304}

// estimateCoeffRate approximates the bit cost of coding one coefficient
// level, used only to steer RDOQ's level choice — not an exact CABAC bit
// count.
func estimateCoeffRate(level int32) int32 {
	if level < 6 {
		return levelRateTable[level]
	}
	level -= 6
	i := int32(0)
	for (int32(1) << uint(i)) <= level {
		level -= int32(1) << uint(i)
		i++
	}
	return 92000 + ((3 + i*2 + 1) << 15)
}

var distShiftTable = map[int]int32{4: 8, 8: 7, 16: 6, 32: 5}
var levelShiftTable = map[int]int32{4: 19, 8: 18, 16: 17, 32: 16}
var qShiftTable = map[int]int32{4: 5, 8: 4, 16: 3, 32: 2}

func abs32(x int32) int32 {
	if x < 0 {
		return -x
	}
	return x
}

// quantizeBlock runs the simplified per-CG rate-distortion-optimized
// quantizer: each coefficient's level is chosen from a small candidate
// window around the naive rounded level by minimizing calcRDcost, then
// an entire coefficient group is zeroed outright if its accumulated
// (clipped) magnitude falls below a QP-derived threshold.
func quantizeBlock(qpd6, sz int, src, dst *[32][32]int32) {
	distSft := distShiftTable[sz]
	sft := levelShiftTable[sz] + int32(qpd6)
	add := int32(1) << uint(sft) >> 1
	maxDLevel := int32(0x7fffffff) - add
	cgDLevelThreshold := int32(9) << uint(sft) >> 2

	for yc := 0; yc < sz; yc += 4 {
		for xc := 0; xc < sz; xc += 4 {
			cgSumDLevel := int32(0)

			for y := yc; y < yc+4; y++ {
				for x := xc; x < xc+4; x++ {
					absval := abs32(src[y][x])
					var dLevel int32
					if absval > 0x1ffff {
						dLevel = maxDLevel
					} else {
						dLevel = (absval & 0x1ffff) << 14
						if dLevel > maxDLevel {
							dLevel = maxDLevel
						}
					}
					level := coefClip((dLevel + add) >> uint(sft))
					minLevel := level - 2
					if minLevel < 0 {
						minLevel = 0
					}
					bestCost := int32(0x7fffffff)

					for ; level >= minLevel; level-- {
						dist1 := abs32(dLevel-(level<<uint(sft))) >> uint(distSft)
						var dist int32
						if dist1 < 46340 {
							dist = (dist1 * dist1) >> 7
						} else {
							dist = int32(0x7fffffff) >> 7
						}
						cost := calcRDcost(qpd6, dist, estimateCoeffRate(level))
						if cost < bestCost {
							bestCost = cost
							dst[y][x] = level
						}
					}

					if src[y][x] < 0 {
						dst[y][x] = -dst[y][x]
					}

					clipped := dLevel
					if clipped > cgDLevelThreshold {
						clipped = cgDLevelThreshold
					}
					cgSumDLevel += clipped
				}
			}

			if cgSumDLevel < cgDLevelThreshold {
				for y := yc; y < yc+4; y++ {
					for x := xc; x < xc+4; x++ {
						dst[y][x] = 0
					}
				}
			}
		}
	}
}

// dequantizeBlock restores the transform-domain magnitude of a quantized
// coefficient block (clause 8.6.3, scaling process).
func dequantizeBlock(qpd6, sz int, src, dst *[32][32]int32) {
	qSft := qShiftTable[sz] + int32(qpd6)
	for i := 0; i < sz; i++ {
		for j := 0; j < sz; j++ {
			dst[i][j] = coefClip(src[i][j] << uint(qSft))
		}
	}
}

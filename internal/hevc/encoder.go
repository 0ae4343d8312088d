package hevc

import (
	"github.com/deepteams/hevcenc/internal/bitio"
	"github.com/deepteams/hevcenc/internal/pool"
)

const (
	maxYSize  = 8192
	maxXSize  = 8192
	nTUinCTU  = CTUSize / 4
	minTUSize = 4
)

func ceilToMultiple(v, m int) int {
	return (v + m - 1) / m * m
}

func minInt2(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func clip(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// buildPaddedOriginal samples the source raster into out, a
// paddedHeight-by-paddedWidth plane, replicating the nearest edge pixel
// beyond the source's actual bounds (the same GET2D clamped-index policy
// the original uses for every out-of-range sample of the source image).
func buildPaddedOriginal(out, gray []byte, width, height, paddedWidth, paddedHeight int) {
	for y := 0; y < paddedHeight; y++ {
		sy := clip(y, 0, height-1)
		for x := 0; x < paddedWidth; x++ {
			sx := clip(x, 0, width-1)
			out[y*paddedWidth+x] = gray[sy*width+sx]
		}
	}
}

// DebugMaps exposes the per-TU CU-size and prediction-mode decisions
// from the last CTU row processCURecurs committed, for tests that need
// to check what the search actually chose without decoding the
// bitstream. CUSize and PMode are Rows-by-Cols, row-major, in 4x4 TU
// units; because the underlying context maps are reused across CTU
// rows, only the last row's decisions survive to be read back, so this
// is only a full picture of the image for inputs exactly one CTU row
// tall.
type DebugMaps struct {
	Rows, Cols int
	CUSize     []uint8
	PMode      []uint8
}

// extractMap copies the top-left rows-by-cols region of a context map
// (addressed in minimal-TU units, see mapCUSizeFull/mapPModeFull below)
// into a flat, row-major slice.
func extractMap(full recon, rows, cols int) []uint8 {
	out := make([]uint8, rows*cols)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			out[y*cols+x] = full.at(y, x)
		}
	}
	return out
}

// Encode runs the whole still-image encode: pads the source to a
// multiple of the CTU size (clipped to the maximum supported raster
// dimensions), then walks the CTU grid running processCURecurs on each
// CTU in turn, writing its CABAC-coded bits and a per-CTU terminate bin
// (clause 7.3.8.1's end_of_slice_segment_flag, one per coding unit
// address here since this encoder emits a single slice per image).
//
// recon, if non-nil and large enough (paddedWidth*paddedHeight bytes),
// receives the reconstructed raster; it may be shared or reused across
// calls by the caller.
//
// debug, if non-nil, is filled in with the final CU-size/pmode context
// maps (see DebugMaps); pass nil in normal use.
func Encode(qpd6 int, gray []byte, width, height int, reconOut []byte, debug *DebugMaps) (bitstream []byte, paddedWidth, paddedHeight int) {
	paddedHeight = ceilToMultiple(minInt2(height, maxYSize), CTUSize)
	paddedWidth = ceilToMultiple(minInt2(width, maxXSize), CTUSize)

	planeSize := paddedWidth * paddedHeight
	origPlane := pool.Get(planeSize)
	reconPlane := pool.Get(planeSize)
	defer pool.Put(origPlane)
	defer pool.Put(reconPlane)
	buildPaddedOriginal(origPlane, gray, width, height, paddedWidth, paddedHeight)
	for i := range reconPlane {
		reconPlane[i] = 0
	}

	origView := recon{buf: origPlane, stride: paddedWidth}
	reconView := recon{buf: reconPlane, stride: paddedWidth}

	xTUCount := paddedWidth / minTUSize
	mapCUSizeBuf := make([]uint8, (nTUinCTU+1)*(xTUCount+1))
	mapPModeBuf := make([]uint8, (nTUinCTU+1)*(xTUCount+1))
	for i := range mapCUSizeBuf {
		mapCUSizeBuf[i] = CTUSize
		mapPModeBuf[i] = PModeDC
	}
	mapCUSizeFull := recon{buf: mapCUSizeBuf, stride: xTUCount + 1, y0: 1, x0: 1}
	mapPModeFull := recon{buf: mapPModeBuf, stride: xTUCount + 1, y0: 1, x0: 1}

	cb := bitio.NewCabacWriter(paddedWidth * paddedHeight / 2)
	ctx := newContextSet(qpd6)

	nal := bitio.NewNalWriter(64)
	putHeader(nal, qpd6, paddedHeight, paddedWidth)

	for y := 0; y < paddedHeight; y += CTUSize {
		for x := 0; x < paddedWidth; x += CTUSize {
			bllExist := x > 0
			blbExist := false
			baaExist := y > 0
			barExist := baaExist && (x+CTUSize < paddedWidth)

			mapCUSize := mapCUSizeFull.sub(0, x/minTUSize)
			mapPMode := mapPModeFull.sub(0, x/minTUSize)

			processCURecurs(qpd6, cb, &ctx, origView.sub(y, x), reconView.sub(y, x), mapCUSize, mapPMode,
				CTUSize, bllExist, blbExist, baaExist, barExist)

			isLastCTU := y+CTUSize >= paddedHeight && x+CTUSize >= paddedWidth
			cb.PutTerminateBin(boolToInt(isLastCTU))
		}

		// map_cu_sz scrolls: the last TU-row of this CTU row becomes the
		// "above" context row for the next. map_pmode deliberately does
		// not scroll, so every CTU row past the first sees a constant
		// PModeDC as its above-context rather than the row actually
		// above it.
		for dx := 0; dx < xTUCount; dx++ {
			mapCUSizeFull.set(-1, dx, mapCUSizeFull.at(nTUinCTU-1, dx))
		}
	}

	cb.Finish()

	bitstream = append(nal.Bytes(), cb.Bytes()...)

	if reconOut != nil {
		copy(reconOut, reconPlane)
	}

	if debug != nil {
		debug.Rows = nTUinCTU
		debug.Cols = xTUCount
		debug.CUSize = extractMap(mapCUSizeFull, nTUinCTU, xTUCount)
		debug.PMode = extractMap(mapPModeFull, nTUinCTU, xTUCount)
	}

	return bitstream, paddedWidth, paddedHeight
}

// WorstCaseSize bounds the encoded size of an image of the given
// dimensions as 2*(width+32)*(height+32) + 65536 bytes.
func WorstCaseSize(width, height int) int {
	return 2*(width+32)*(height+32) + 65536
}

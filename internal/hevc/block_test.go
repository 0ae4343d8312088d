package hevc

import "testing"

func TestBlkNotAllZero(t *testing.T) {
	var blk [32][32]int32
	if blkNotAllZero(8, &blk) {
		t.Fatal("all-zero block reported non-zero")
	}
	blk[3][5] = -1
	if !blkNotAllZero(8, &blk) {
		t.Fatal("block with a non-zero coefficient reported all-zero")
	}
}

func TestCalcBlkSSEZeroForIdenticalSources(t *testing.T) {
	var a [32][32]uint8
	for i := 0; i < 8; i++ {
		for j := 0; j < 8; j++ {
			a[i][j] = uint8(i*8 + j)
		}
	}
	sse := calcBlkSSE(8, arrGetter(&a), arrGetter(&a))
	if sse != 0 {
		t.Fatalf("SSE of a block against itself = %d, want 0", sse)
	}
}

func TestCalcBlkSSEAccumulatesSquaredDiff(t *testing.T) {
	var a, b [32][32]uint8
	a[0][0] = 10
	b[0][0] = 13
	sse := calcBlkSSE(4, arrGetter(&a), arrGetter(&b))
	if sse != 9 {
		t.Fatalf("calcBlkSSE = %d, want 9 (diff 3 squared)", sse)
	}
}

func TestBlkSubAndAddClipRoundTrip(t *testing.T) {
	stride := 16
	buf := make([]uint8, stride*stride)
	for i := 0; i < 8; i++ {
		for j := 0; j < 8; j++ {
			buf[i*stride+j] = uint8(100 + i + j)
		}
	}
	src1 := recon{buf: buf, stride: stride}

	var pred [32][32]uint8
	for i := 0; i < 8; i++ {
		for j := 0; j < 8; j++ {
			pred[i][j] = 90
		}
	}

	var residual [32][32]int32
	blkSub(8, src1, &pred, &residual)

	var out [32][32]uint8
	blkAddClipToPix(8, &residual, &pred, &out)

	for i := 0; i < 8; i++ {
		for j := 0; j < 8; j++ {
			if out[i][j] != src1.at(i, j) {
				t.Fatalf("(%d,%d): round trip = %d, want %d", i, j, out[i][j], src1.at(i, j))
			}
		}
	}
}

func TestBlkAddClipToPixSaturates(t *testing.T) {
	var residual [32][32]int32
	var pred [32][32]uint8
	residual[0][0] = 1000
	pred[0][0] = 200
	residual[1][1] = -1000
	pred[1][1] = 50

	var out [32][32]uint8
	blkAddClipToPix(4, &residual, &pred, &out)
	if out[0][0] != 255 {
		t.Fatalf("out[0][0] = %d, want 255 (saturated)", out[0][0])
	}
	if out[1][1] != 0 {
		t.Fatalf("out[1][1] = %d, want 0 (saturated)", out[1][1])
	}
}

func TestBlkAddClipToReconWritesThroughView(t *testing.T) {
	stride := 16
	buf := make([]uint8, stride*stride)
	dst := recon{buf: buf, stride: stride, y0: 2, x0: 2}

	var residual [32][32]int32
	var pred [32][32]uint8
	residual[0][0] = 5
	pred[0][0] = 100

	blkAddClipToRecon(4, &residual, &pred, dst)
	if dst.at(0, 0) != 105 {
		t.Fatalf("dst.at(0,0) = %d, want 105", dst.at(0, 0))
	}
	if buf[2*stride+2] != 105 {
		t.Fatalf("underlying buffer not updated through the view: got %d", buf[2*stride+2])
	}
}

func TestBlkCopyToFromReconRoundTrip(t *testing.T) {
	stride := 16
	buf := make([]uint8, stride*stride)
	r := recon{buf: buf, stride: stride, y0: 1, x0: 1}

	var src [32][32]uint8
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			src[i][j] = uint8(i*4 + j + 1)
		}
	}
	blkCopyToRecon(4, &src, r)

	var dst [32][32]uint8
	blkCopyFromRecon(4, r, &dst)
	if src != dst {
		t.Fatal("blkCopyToRecon/blkCopyFromRecon did not round trip")
	}
}

func TestBlkCopyReconsCopiesBetweenViews(t *testing.T) {
	stride := 16
	srcBuf := make([]uint8, stride*stride)
	dstBuf := make([]uint8, stride*stride)
	src := recon{buf: srcBuf, stride: stride}
	dst := recon{buf: dstBuf, stride: stride}
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			src.set(i, j, uint8(i+j+1))
		}
	}
	blkCopyRecons(4, src, dst)
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			if dst.at(i, j) != src.at(i, j) {
				t.Fatalf("(%d,%d): dst=%d src=%d", i, j, dst.at(i, j), src.at(i, j))
			}
		}
	}
}

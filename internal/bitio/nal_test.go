package bitio

import (
	"bytes"
	"testing"
)

func TestNalWriterPutBits(t *testing.T) {
	w := NewNalWriter(16)
	w.PutBits(0b101, 3)
	w.PutBits(0b1, 1)
	w.PutBits(0b0000, 4)
	got := w.Bytes()
	want := []byte{0b10110000}
	if !bytes.Equal(got, want) {
		t.Fatalf("got %08b, want %08b", got, want)
	}
}

func TestNalWriterPutBitsAcrossByteBoundary(t *testing.T) {
	w := NewNalWriter(16)
	w.PutBits(0xFF, 8)
	w.PutBits(0b11, 2)
	got := w.Bytes()
	want := []byte{0xFF, 0b11000000}
	if !bytes.Equal(got, want) {
		t.Fatalf("got %08b, want %08b", got, want)
	}
}

func TestNalWriterPutBytes(t *testing.T) {
	w := NewNalWriter(16)
	w.PutBytes([]byte{0xDE, 0xAD, 0xBE, 0xEF})
	got := w.Bytes()
	want := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	if !bytes.Equal(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestNalWriterAlignToByte(t *testing.T) {
	w := NewNalWriter(16)
	w.PutBits(0b101, 3)
	w.AlignToByte()
	if w.bitPos != 7 {
		t.Fatalf("bitPos after AlignToByte = %d, want 7", w.bitPos)
	}
	w.PutBits(0xFF, 8)
	got := w.Bytes()
	want := []byte{0b10100000, 0xFF}
	if !bytes.Equal(got, want) {
		t.Fatalf("got %08b, want %08b", got, want)
	}
}

// PutUE exercises the ue(v) binarization for the first several values:
// codeNum = val+1 written in binary, preceded by one fewer leading zero
// than its bit length.
func TestNalWriterPutUE(t *testing.T) {
	cases := []struct {
		val  int
		bits string
	}{
		{0, "1"},
		{1, "010"},
		{2, "011"},
		{3, "00100"},
		{4, "00101"},
		{5, "00110"},
		{6, "00111"},
	}
	for _, c := range cases {
		w := NewNalWriter(16)
		w.PutUE(c.val)
		got := bitsToString(w.buf, len(c.bits))
		if got != c.bits {
			t.Errorf("PutUE(%d): got bits %q, want %q", c.val, got, c.bits)
		}
	}
}

func bitsToString(buf []byte, n int) string {
	out := make([]byte, 0, n)
	for i := 0; i < n; i++ {
		byteIdx := i / 8
		bitIdx := 7 - (i % 8)
		if byteIdx >= len(buf) {
			out = append(out, '0')
			continue
		}
		if buf[byteIdx]&(1<<uint(bitIdx)) != 0 {
			out = append(out, '1')
		} else {
			out = append(out, '0')
		}
	}
	return string(out)
}

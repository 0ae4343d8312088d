package hevcenc

import (
	"fmt"

	"github.com/deepteams/hevcenc/internal/hevc"
)

// Options controls the one real encoding knob this codec exposes.
type Options struct {
	// QPd6 selects the quantization parameter as QP = 6*QPd6 + 4. Valid
	// range is 0..4.
	QPd6 int

	// debugMaps, when set, receives the encoder's internal per-TU
	// CU-size/pmode decisions. Unexported: only this package's own
	// white-box tests can reach it.
	debugMaps *hevc.DebugMaps
}

// DefaultOptions returns Options with the given QPd6 value.
func DefaultOptions(qpd6 int) Options {
	return Options{QPd6: qpd6}
}

func (o Options) validate() error {
	if o.QPd6 < 0 || o.QPd6 > 4 {
		return fmt.Errorf("hevcenc: QPd6 %d out of range [0,4]", o.QPd6)
	}
	return nil
}

// Encoder runs the HEVC intra still-image encode. It carries no state
// between calls beyond its zero value; a single Encoder may be reused
// across calls (but not concurrently) purely to avoid callers needing to
// construct one per image.
type Encoder struct{}

// NewEncoder returns a ready-to-use Encoder.
func NewEncoder() *Encoder {
	return &Encoder{}
}

// Encode compresses gray (row-major, stride==width, len==width*height)
// into a standalone Annex-B HEVC byte stream. recon, if non-nil, must be
// exactly paddedWidth*paddedHeight bytes (see WorstCaseSize) and is
// overwritten with the reconstructed plane; pass nil to skip this.
// Returns the padded dimensions (multiples of 32, capped at 8192) that
// were actually encoded — these equal width/height only when both are
// already a multiple of 32 and no smaller than the source.
func (e *Encoder) Encode(gray []byte, width, height int, recon []byte, opts Options) (bitstream []byte, paddedWidth, paddedHeight int, err error) {
	if err := opts.validate(); err != nil {
		return nil, 0, 0, err
	}
	if width <= 0 || height <= 0 {
		return nil, 0, 0, fmt.Errorf("hevcenc: invalid dimensions %dx%d", width, height)
	}
	if len(gray) < width*height {
		return nil, 0, 0, fmt.Errorf("hevcenc: gray buffer too small: got %d bytes, need %d", len(gray), width*height)
	}

	bitstream, paddedWidth, paddedHeight = hevc.Encode(opts.QPd6, gray, width, height, recon, opts.debugMaps)
	return bitstream, paddedWidth, paddedHeight, nil
}

// WorstCaseSize upper-bounds the encoded size, in bytes, of an image with
// the given dimensions — enough to size a reusable output buffer ahead of
// time, though Encode always returns a freshly allocated, exactly-sized
// slice of its own.
func WorstCaseSize(width, height int) int {
	return hevc.WorstCaseSize(width, height)
}

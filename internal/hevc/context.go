package hevc

import "github.com/deepteams/hevcenc/internal/bitio"

// contextSet holds every CABAC context variable used by this encoder's
// subset of HEVC syntax, laid out by syntax element the way the
// normative context-index tables group them (clause 9.3.2.2).
type contextSet struct {
	splitCUFlag [3]uint8
	partSize    uint8
	yPMode      uint8
	uvPMode     uint8
	splitTUFlag [3]uint8
	yQtCbf      [2]uint8
	uvQtCbf     [5]uint8
	lastX       [5][5]uint8
	lastY       [5][5]uint8
	sigMap      [2]uint8
	sigSC       [44]uint8
	oneSC       [24]uint8
	absSC       [6]uint8
}

// newContextSet builds the initial context set for a slice at the given
// qpd6, running every context's normative init_value through
// bitio.InitContextValue at QP = 6*qpd6+4 (clause 9.3.2.2).
func newContextSet(qpd6 int) contextSet {
	qp := int32(qpd6)*6 + 4
	c := contextSet{
		splitCUFlag: [3]uint8{139, 141, 157},
		partSize:    184,
		yPMode:      184,
		uvPMode:     63,
		splitTUFlag: [3]uint8{153, 138, 138},
		yQtCbf:      [2]uint8{111, 141},
		uvQtCbf:     [5]uint8{94, 138, 182, 154, 154},
		lastX: [5][5]uint8{
			{110, 110, 124},
			{125, 140, 153},
			{125, 127, 140, 109},
			{111, 143, 127, 111, 79},
			{108, 123, 63, 154},
		},
		lastY: [5][5]uint8{
			{110, 110, 124},
			{125, 140, 153},
			{125, 127, 140, 109},
			{111, 143, 127, 111, 79},
			{108, 123, 63, 154},
		},
		sigMap: [2]uint8{91, 171},
		sigSC: [44]uint8{
			111, 111, 125, 110, 110, 94, 124, 108, 124, 107, 125, 141, 179, 153,
			125, 107, 125, 141, 179, 153, 125, 107, 125, 141, 179, 153, 125, 141,
			140, 139, 182, 182, 152, 136, 152, 136, 153, 136, 139, 111, 136, 139,
			111, 111,
		},
		oneSC: [24]uint8{
			140, 92, 137, 138, 140, 152, 138, 139, 153, 74, 149, 92, 139, 107,
			122, 152, 140, 179, 166, 182, 140, 227, 122, 197,
		},
		absSC: [6]uint8{138, 153, 136, 167, 152, 152},
	}
	for i := range c.splitCUFlag {
		c.splitCUFlag[i] = bitio.InitContextValue(c.splitCUFlag[i], qp)
	}
	c.partSize = bitio.InitContextValue(c.partSize, qp)
	c.yPMode = bitio.InitContextValue(c.yPMode, qp)
	c.uvPMode = bitio.InitContextValue(c.uvPMode, qp)
	for i := range c.splitTUFlag {
		c.splitTUFlag[i] = bitio.InitContextValue(c.splitTUFlag[i], qp)
	}
	for i := range c.yQtCbf {
		c.yQtCbf[i] = bitio.InitContextValue(c.yQtCbf[i], qp)
	}
	for i := range c.uvQtCbf {
		c.uvQtCbf[i] = bitio.InitContextValue(c.uvQtCbf[i], qp)
	}
	for i := range c.lastX {
		for j := range c.lastX[i] {
			c.lastX[i][j] = bitio.InitContextValue(c.lastX[i][j], qp)
		}
	}
	for i := range c.lastY {
		for j := range c.lastY[i] {
			c.lastY[i][j] = bitio.InitContextValue(c.lastY[i][j], qp)
		}
	}
	for i := range c.sigMap {
		c.sigMap[i] = bitio.InitContextValue(c.sigMap[i], qp)
	}
	for i := range c.sigSC {
		c.sigSC[i] = bitio.InitContextValue(c.sigSC[i], qp)
	}
	for i := range c.oneSC {
		c.oneSC[i] = bitio.InitContextValue(c.oneSC[i], qp)
	}
	for i := range c.absSC {
		c.absSC[i] = bitio.InitContextValue(c.absSC[i], qp)
	}
	return c
}

package hevc

import "testing"

func TestNewContextSetPackedStatesInRange(t *testing.T) {
	for qpd6 := 0; qpd6 < 5; qpd6++ {
		c := newContextSet(qpd6)
		check := func(name string, vals ...uint8) {
			for _, v := range vals {
				if v > 127 {
					t.Errorf("qpd6=%d %s: packed state %d exceeds byte range", qpd6, name, v)
				}
			}
		}
		check("splitCUFlag", c.splitCUFlag[:]...)
		check("partSize", c.partSize)
		check("yPMode", c.yPMode)
		check("uvPMode", c.uvPMode)
		check("splitTUFlag", c.splitTUFlag[:]...)
		check("yQtCbf", c.yQtCbf[:]...)
		check("uvQtCbf", c.uvQtCbf[:]...)
		check("sigMap", c.sigMap[:]...)
		check("sigSC", c.sigSC[:]...)
		check("oneSC", c.oneSC[:]...)
		check("absSC", c.absSC[:]...)
	}
}

// TestNewContextSetRecomputesFromQP checks that contexts are actually a
// function of qpd6 (not memoized from a stale value) by confirming at
// least one context differs between two different QP settings.
func TestNewContextSetRecomputesFromQP(t *testing.T) {
	c0 := newContextSet(0)
	c4 := newContextSet(4)
	if c0.splitCUFlag == c4.splitCUFlag &&
		c0.partSize == c4.partSize &&
		c0.sigSC == c4.sigSC {
		t.Fatal("newContextSet(0) and newContextSet(4) produced identical contexts")
	}
}

func TestNewContextSetDeterministic(t *testing.T) {
	a := newContextSet(2)
	b := newContextSet(2)
	if a != b {
		t.Fatal("newContextSet(2) is not deterministic across calls")
	}
}

package hwio

import "testing"

func TestReg16(t *testing.T) {
	r := Reg16{Value: 0x1111, RoMask: 0xF000}

	if got := r.Read16(0, false); got != 0x1111 {
		t.Errorf("invalid read: %x", got)
	}

	r.Write16(0, 0x7777, MaskWord)
	if r.Value != 0x1777 {
		t.Errorf("romask not respected: %x", r.Value)
	}

	r.Write16(0, 0x0088, MaskLow)
	if r.Value != 0x1788 {
		t.Errorf("lane mask not respected: %x", r.Value)
	}

	var gotOld, gotNew uint16
	r.WriteCb = func(old, val uint16) { gotOld, gotNew = old, val }
	r.Write16(0, 0x4400, MaskHigh)
	if gotOld != 0x1788 || gotNew != 0x1488 {
		t.Errorf("write callback got (%04x,%04x), want (1788,1488)", gotOld, gotNew)
	}
}

func TestCombine(t *testing.T) {
	tests := []struct {
		old, val, mask, want uint16
	}{
		{0x1234, 0xABCD, MaskWord, 0xABCD},
		{0x1234, 0xABCD, MaskHigh, 0xAB34},
		{0x1234, 0xABCD, MaskLow, 0x12CD},
		{0x1234, 0xABCD, 0, 0x1234},
	}
	for _, tt := range tests {
		if got := Combine(tt.old, tt.val, tt.mask); got != tt.want {
			t.Errorf("Combine(%04x,%04x,%04x) = %04x, want %04x", tt.old, tt.val, tt.mask, got, tt.want)
		}
	}
}

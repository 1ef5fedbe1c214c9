package hwio

// Bit helpers on 16-bit registers.

func GetBit16(v uint16, n uint) bool {
	return v>>n&1 != 0
}

func SetBit16(v *uint16, n uint) {
	*v |= 1 << n
}

func ClearBit16(v *uint16, n uint) {
	*v &^= 1 << n
}

// RisingEdge reports whether bit n went from 0 to 1 between old and cur.
func RisingEdge(old, cur uint16, n uint) bool {
	return !GetBit16(old, n) && GetBit16(cur, n)
}

// FallingEdge reports whether bit n went from 1 to 0 between old and cur.
func FallingEdge(old, cur uint16, n uint) bool {
	return GetBit16(old, n) && !GetBit16(cur, n)
}

// Changed reports whether any bit in mask differs between old and cur.
func Changed(old, cur, mask uint16) bool {
	return (old^cur)&mask != 0
}

// SignExtend sign-extends the low bits of v.
func SignExtend(v uint32, bits uint) int {
	shift := 32 - bits
	return int(int32(v<<shift) >> shift)
}

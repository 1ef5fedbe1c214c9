package hwio

// Byte lanes of a 16-bit bus access. Bit set means the lane is driven.
const (
	MaskWord uint16 = 0xFFFF
	MaskHigh uint16 = 0xFF00 // even address, upper byte
	MaskLow  uint16 = 0x00FF // odd address, lower byte
)

// Combine merges val into old, only on the lanes enabled by mask.
func Combine(old, val, mask uint16) uint16 {
	return old&^mask | val&mask
}

// LaneMask returns the mask for a byte access at addr.
func LaneMask(addr uint32) uint16 {
	if addr&1 == 0 {
		return MaskHigh
	}
	return MaskLow
}

// ReadWord reads a big-endian word at the even offset containing off.
func ReadWord(buf []byte, off uint32) uint16 {
	off &^= 1
	return uint16(buf[off])<<8 | uint16(buf[off+1])
}

// WriteWord stores a big-endian word at the even offset containing off.
func WriteWord(buf []byte, off uint32, val uint16) {
	off &^= 1
	buf[off] = uint8(val >> 8)
	buf[off+1] = uint8(val)
}

// WriteWordMasked merges val into the word at off and returns the previous
// and the new content.
func WriteWordMasked(buf []byte, off uint32, val, mask uint16) (old, cur uint16) {
	old = ReadWord(buf, off)
	cur = Combine(old, val, mask)
	WriteWord(buf, off, cur)
	return old, cur
}

// Words returns the number of 16-bit words in buf.
func Words(buf []byte) int {
	return len(buf) / 2
}

package jsa

import "fmt"

const (
	adpcmRegion = 0x100000
	adpcmROM    = 0x20000
	adpcmBank   = 0x40000
)

// ExpandADPCM rearranges the sample region of a JSA III so that each of the
// four 256K OKI banks is contiguous. The region holds four 128K ROMs at
// 0x80000, 0xa0000, 0xc0000 and 0xe0000; the first one is the common low
// half of every bank, and bank n uses ROM n as its upper half.
func ExpandADPCM(region []byte) error {
	if len(region) != adpcmRegion {
		return fmt.Errorf("adpcm region is %#x bytes, want %#x", len(region), adpcmRegion)
	}
	roms := make([]byte, 4*adpcmROM)
	copy(roms, region[0x80000:])

	common := roms[:adpcmROM]
	for n := range 4 {
		base := n * adpcmBank
		copy(region[base:], common)
		copy(region[base+adpcmROM:], roms[n*adpcmROM:(n+1)*adpcmROM])
	}
	return nil
}

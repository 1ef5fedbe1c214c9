package hwdefs

import "strings"

// CPU identifies a processor of the board.
type CPU int

const (
	MainCPU  CPU = iota // 68000
	AudioCPU            // 6502 on the JSA board
	ExtraCPU            // second 68000 (EPRoM only)
)

func (c CPU) String() string {
	switch c {
	case MainCPU:
		return "main"
	case AudioCPU:
		return "audio"
	case ExtraCPU:
		return "extra"
	}
	return "cpu?"
}

// LineState is the state of an input line of a CPU.
type LineState uint8

const (
	ClearLine LineState = iota
	AssertLine
	PulseLine // assert then clear, used for reset
)

func (s LineState) String() string {
	switch s {
	case ClearLine:
		return "clear"
	case AssertLine:
		return "assert"
	case PulseLine:
		return "pulse"
	}
	return "?"
}

// IRQSource is a set of pending interrupt sources.
type IRQSource uint8

const (
	ScanlineIRQ IRQSource = 1 << iota
	SoundIRQ
	VideoIRQ

	numSources = 3
)

var irqSrcNames = [numSources]string{
	"scanline",
	"sound",
	"video",
}

func (irq IRQSource) String() string {
	var names []string
	for i := range numSources {
		if irq&(1<<i) != 0 {
			names = append(names, irqSrcNames[i])
		}
	}
	return strings.Join(names, "|")
}

// Has reports whether all sources in s are pending.
func (irq IRQSource) Has(s IRQSource) bool {
	return irq&s == s
}

// AllIRQSources lists every combination of sources.
func AllIRQSources() []IRQSource {
	all := make([]IRQSource, 1<<numSources)
	for i := range all {
		all[i] = IRQSource(i)
	}
	return all
}

// NoIRQ is the level cleared when a CPU has no pending interrupt. The 68000
// has 7 levels, clearing level 7 releases all of them.
const NoIRQ = 7

const (
	SoftReset = true
	HardReset = false
)

// Sound chips found on the JSA boards.
type Chip int

const (
	YM2151 Chip = iota
	POKEY
	TMS5220
	OKI6295
	OKI6295B // second OKI of the JSA IIIS

	NumChips
)

var chipNames = [NumChips]string{"ym2151", "pokey", "tms5220", "oki6295", "oki6295b"}

func (c Chip) String() string {
	if c >= 0 && c < NumChips {
		return chipNames[c]
	}
	return "chip?"
}

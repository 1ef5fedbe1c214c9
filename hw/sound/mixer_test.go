package sound

import (
	"testing"

	"atarihw/hw/hwdefs"
)

type capture struct{ frames [][]int16 }

func (c *capture) QueueSamples(s []int16) {
	c.frames = append(c.frames, append([]int16(nil), s...))
}

func peak(s []int16) int {
	p := 0
	for _, v := range s {
		p = max(p, abs(int(v)))
	}
	return p
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// square feeds a square wave of the given amplitude to a chip for a frame.
func square(am *Mixer, chip hwdefs.Chip, amp int16) {
	const period = 4000
	level := int16(0)
	for t := uint32(0); t < ClockRate/60; t += period / 2 {
		next := amp
		if level == amp {
			next = -amp
		}
		am.AddDelta(chip, t, next-level)
		level = next
	}
	am.AddDelta(chip, ClockRate/60-1, -level)
}

func TestMixerVolume(t *testing.T) {
	tests := []struct {
		name   string
		volume int
		silent bool
	}{
		{"full", 100, false},
		{"half", 50, false},
		{"muted", 0, true},
	}

	peaks := map[int]int{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &capture{}
			am := NewMixer(48000, c)
			am.SetChipVolume(hwdefs.YM2151, tt.volume)

			square(am, hwdefs.YM2151, 8000)
			n := am.EndFrame(ClockRate / 60)
			if n < 795 || n > 805 {
				t.Errorf("EndFrame produced %d samples, want ~800", n)
			}
			if len(c.frames) != 1 || len(c.frames[0]) != n {
				t.Fatalf("sink got %d frames", len(c.frames))
			}
			p := peak(c.frames[0])
			if (p == 0) != tt.silent {
				t.Errorf("peak = %d, silent = %t", p, tt.silent)
			}
			peaks[tt.volume] = p
		})
	}
	if peaks[50] >= peaks[100] {
		t.Errorf("half volume peak %d >= full volume peak %d", peaks[50], peaks[100])
	}
}

func TestMixerChipsIndependent(t *testing.T) {
	am := NewMixer(48000, nil)
	am.SetChipVolume(hwdefs.YM2151, 0)
	am.SetChipVolume(hwdefs.OKI6295, 100)

	square(am, hwdefs.YM2151, 8000)
	n := am.EndFrame(ClockRate / 60)
	if p := peak(am.Samples(n)); p != 0 {
		t.Errorf("muted chip audible: peak %d", p)
	}

	square(am, hwdefs.OKI6295, 8000)
	n = am.EndFrame(ClockRate / 60)
	if p := peak(am.Samples(n)); p == 0 {
		t.Errorf("unmuted chip silent")
	}
}

func TestMixerClamp(t *testing.T) {
	am := NewMixer(48000, nil)
	am.SetChipVolume(hwdefs.POKEY, 250)
	if v := am.Volume(hwdefs.POKEY); v != 100 {
		t.Errorf("volume = %d, want 100", v)
	}
	am.SetChipVolume(hwdefs.POKEY, -3)
	if v := am.Volume(hwdefs.POKEY); v != 0 {
		t.Errorf("volume = %d, want 0", v)
	}

	// deltas past the end of the frame buffer are dropped
	am.AddDelta(hwdefs.POKEY, cycleLength, 100)
	if len(am.timestamps) != 0 {
		t.Errorf("out of range delta recorded")
	}
}

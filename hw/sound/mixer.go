// Package sound mixes the output of the audio board chips into a single
// band-limited sample stream.
package sound

import (
	"slices"

	"github.com/arl/blip"

	"atarihw/emu/log"
	"atarihw/hw/hwdefs"
)

const (
	// ClockRate is the time base of the deltas fed to the mixer: the JSA
	// master clock.
	ClockRate = 3579545

	MaxSampleRate = 96000

	// x2 to absorb frames stretched by the scheduler.
	maxSamplesPerFrame = MaxSampleRate / 60 * 2
	cycleLength        = ClockRate / 60 * 2
)

// Sink receives the mono 16-bit samples of every frame.
type Sink interface {
	QueueSamples(samples []int16)
}

// Mixer accumulates per-chip output deltas, scales each chip by the volume
// set by the audio board, and resamples the sum with a blip buffer.
type Mixer struct {
	outbuf [maxSamplesPerFrame]int16
	buf    *blip.Buffer

	prevOut int32

	volumes [hwdefs.NumChips]int

	timestamps []uint32
	chanoutput [hwdefs.NumChips][]int16
	curOutput  [hwdefs.NumChips]int16

	sampleRate uint32
	sink       Sink
}

// NewMixer returns a mixer producing samples at sampleRate. sink may be nil,
// in which case samples are dropped once resampled.
func NewMixer(sampleRate uint32, sink Sink) *Mixer {
	if sampleRate == 0 || sampleRate > MaxSampleRate {
		sampleRate = MaxSampleRate
	}
	am := &Mixer{
		buf:        blip.NewBuffer(maxSamplesPerFrame),
		sampleRate: sampleRate,
		sink:       sink,
	}
	for i := range am.chanoutput {
		am.chanoutput[i] = make([]int16, cycleLength)
	}
	am.Reset()
	return am
}

func (am *Mixer) Reset() {
	am.prevOut = 0
	am.buf.Clear()
	am.buf.SetRates(ClockRate, float64(am.sampleRate))
	am.timestamps = am.timestamps[:0]

	for i := range am.volumes {
		am.volumes[i] = 100
		clear(am.chanoutput[i])
	}
	clear(am.curOutput[:])
}

// SetChipVolume implements the volume sink of the audio board.
func (am *Mixer) SetChipVolume(chip hwdefs.Chip, volume int) {
	if chip >= hwdefs.NumChips {
		return
	}
	am.volumes[chip] = min(max(volume, 0), 100)
	log.ModSound.DebugZ("chip volume").Stringer("chip", chip).Int("vol", am.volumes[chip]).End()
}

// Volume returns the current volume of a chip.
func (am *Mixer) Volume(chip hwdefs.Chip) int {
	return am.volumes[chip]
}

// AddDelta records a change of the output level of a chip at the given
// clock of the current frame.
func (am *Mixer) AddDelta(chip hwdefs.Chip, time uint32, delta int16) {
	if delta == 0 {
		return
	}
	if int(time) >= cycleLength {
		log.ModSound.DebugZ("delta past end of frame").Stringer("chip", chip).Uint32("time", time).End()
		return
	}
	am.timestamps = append(am.timestamps, time)
	am.chanoutput[chip][time] += delta
}

func (am *Mixer) output() int32 {
	var out int32
	for chip := range hwdefs.NumChips {
		out += int32(am.curOutput[chip]) * int32(am.volumes[chip]) / 100
	}
	return out
}

// EndFrame closes the frame at the given clock, resamples it and hands the
// samples to the sink. It returns the number of samples produced.
func (am *Mixer) EndFrame(time uint32) int {
	slices.Sort(am.timestamps)
	am.timestamps = slices.Compact(am.timestamps)

	for _, stamp := range am.timestamps {
		for chip := range hwdefs.NumChips {
			am.curOutput[chip] += am.chanoutput[chip][stamp]
		}
		out := am.output()
		am.buf.AddDelta(uint64(stamp), out-am.prevOut)
		am.prevOut = out
	}
	am.buf.EndFrame(int(time))

	am.timestamps = am.timestamps[:0]
	for i := range am.chanoutput {
		clear(am.chanoutput[i])
	}

	n := am.buf.ReadSamples(am.outbuf[:], maxSamplesPerFrame, blip.Mono)
	if am.sink != nil && n > 0 {
		am.sink.QueueSamples(am.outbuf[:n])
	}
	return n
}

// Samples returns the samples produced by the last EndFrame call, valid
// until the next one.
func (am *Mixer) Samples(n int) []int16 {
	return am.outbuf[:n]
}

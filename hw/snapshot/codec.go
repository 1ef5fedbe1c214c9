package snapshot

import (
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/go-faster/jx"

	"atarihw/hw/hwdefs"
)

// Encode writes st as a JSON document. Buffers are base64 strings and map
// keys are sorted, so equal states give equal documents.
func (st *State) Encode(e *jx.Encoder) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("version", func(e *jx.Encoder) { e.Int(st.Version) })
		e.Field("game", func(e *jx.Encoder) { e.Str(st.Game) })
		e.Field("frame", func(e *jx.Encoder) { e.UInt64(st.Frame) })
		e.Field("eeprom", func(e *jx.Encoder) {
			e.Obj(func(e *jx.Encoder) {
				e.Field("data", func(e *jx.Encoder) { e.Base64(st.EEPROM.Data) })
				e.Field("unlocked", func(e *jx.Encoder) { e.Bool(st.EEPROM.Unlocked) })
			})
		})
		e.Field("sound", st.Sound.encode)
		e.Field("irq", func(e *jx.Encoder) { e.UInt8(uint8(st.IRQ)) })
		e.Field("jsa", st.JSA.encode)
		e.Field("mems", func(e *jx.Encoder) {
			e.Obj(func(e *jx.Encoder) {
				for _, k := range sortedKeys(st.Mems) {
					e.Field(k, func(e *jx.Encoder) { e.Base64(st.Mems[k]) })
				}
			})
		})
		e.Field("latches", func(e *jx.Encoder) {
			e.Obj(func(e *jx.Encoder) {
				for _, k := range sortedKeys(st.Latches) {
					e.Field(k, func(e *jx.Encoder) { e.Int(st.Latches[k]) })
				}
			})
		})
	})
}

func (s *Sound) encode(e *jx.Encoder) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("cpu_to_sound", func(e *jx.Encoder) { e.UInt8(s.CPUToSound) })
		e.Field("cpu_to_sound_ready", func(e *jx.Encoder) { e.Bool(s.CPUToSoundReady) })
		e.Field("sound_to_cpu", func(e *jx.Encoder) { e.UInt8(s.SoundToCPU) })
		e.Field("sound_to_cpu_ready", func(e *jx.Encoder) { e.Bool(s.SoundToCPUReady) })
		e.Field("timed_int", func(e *jx.Encoder) { e.Bool(s.TimedInt) })
		e.Field("ym2151_int", func(e *jx.Encoder) { e.Bool(s.YM2151Int) })
	})
}

func (j *JSA) encode(e *jx.Encoder) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("ram", func(e *jx.Encoder) { e.Base64(j.RAM) })
		e.Field("bank", func(e *jx.Encoder) { e.Int(j.Bank) })
		e.Field("overall", func(e *jx.Encoder) { e.Int(j.Overall) })
		e.Field("volumes", func(e *jx.Encoder) { encodeInts(e, j.Volumes) })
		e.Field("oki_bank_base", func(e *jx.Encoder) { encodeInts(e, j.OKIBankBase) })
		e.Field("speech_data", func(e *jx.Encoder) { e.UInt8(j.SpeechData) })
		e.Field("last_ctl", func(e *jx.Encoder) { e.UInt8(j.LastCtl) })
		e.Field("coin_counters", func(e *jx.Encoder) { encodeInts(e, j.CoinCounters) })
	})
}

func encodeInts(e *jx.Encoder, v []int) {
	e.Arr(func(e *jx.Encoder) {
		for _, n := range v {
			e.Int(n)
		}
	})
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}

// Decode reads a document written by Encode. Unknown fields are skipped.
func (st *State) Decode(d *jx.Decoder) error {
	return d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "version":
			st.Version, err = d.Int()
		case "game":
			st.Game, err = d.Str()
		case "frame":
			st.Frame, err = d.UInt64()
		case "eeprom":
			err = d.Obj(func(d *jx.Decoder, key string) error {
				var err error
				switch key {
				case "data":
					st.EEPROM.Data, err = d.Base64()
				case "unlocked":
					st.EEPROM.Unlocked, err = d.Bool()
				default:
					err = d.Skip()
				}
				return err
			})
		case "sound":
			err = st.Sound.decode(d)
		case "irq":
			var v uint8
			v, err = d.UInt8()
			st.IRQ = hwdefs.IRQSource(v)
		case "jsa":
			err = st.JSA.decode(d)
		case "mems":
			st.Mems = make(map[string][]byte)
			err = d.Obj(func(d *jx.Decoder, key string) error {
				b, err := d.Base64()
				st.Mems[key] = b
				return err
			})
		case "latches":
			st.Latches = make(map[string]int)
			err = d.Obj(func(d *jx.Decoder, key string) error {
				v, err := d.Int()
				st.Latches[key] = v
				return err
			})
		default:
			err = d.Skip()
		}
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		return nil
	})
}

func (s *Sound) decode(d *jx.Decoder) error {
	return d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "cpu_to_sound":
			s.CPUToSound, err = d.UInt8()
		case "cpu_to_sound_ready":
			s.CPUToSoundReady, err = d.Bool()
		case "sound_to_cpu":
			s.SoundToCPU, err = d.UInt8()
		case "sound_to_cpu_ready":
			s.SoundToCPUReady, err = d.Bool()
		case "timed_int":
			s.TimedInt, err = d.Bool()
		case "ym2151_int":
			s.YM2151Int, err = d.Bool()
		default:
			err = d.Skip()
		}
		return err
	})
}

func (j *JSA) decode(d *jx.Decoder) error {
	return d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "ram":
			j.RAM, err = d.Base64()
		case "bank":
			j.Bank, err = d.Int()
		case "overall":
			j.Overall, err = d.Int()
		case "volumes":
			j.Volumes, err = decodeInts(d)
		case "oki_bank_base":
			j.OKIBankBase, err = decodeInts(d)
		case "speech_data":
			j.SpeechData, err = d.UInt8()
		case "last_ctl":
			j.LastCtl, err = d.UInt8()
		case "coin_counters":
			j.CoinCounters, err = decodeInts(d)
		default:
			err = d.Skip()
		}
		return err
	})
}

func decodeInts(d *jx.Decoder) ([]int, error) {
	var v []int
	err := d.Arr(func(d *jx.Decoder) error {
		n, err := d.Int()
		v = append(v, n)
		return err
	})
	return v, err
}

// Write encodes st to w.
func Write(w io.Writer, st *State) error {
	var e jx.Encoder
	st.Encode(&e)
	if _, err := w.Write(e.Bytes()); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// Read decodes a snapshot from r.
func Read(r io.Reader) (*State, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	st := &State{}
	if err := st.Decode(jx.DecodeBytes(buf)); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return st, nil
}

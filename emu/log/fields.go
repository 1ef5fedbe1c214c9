package log

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"time"
)

type FieldType int

const (
	FieldTypeUnknown FieldType = iota
	FieldTypeBool
	FieldTypeString
	FieldTypeHex8
	FieldTypeHex16
	FieldTypeHex32
	FieldTypeHex64
	FieldTypeInt
	FieldTypeUint
	FieldTypeError
	FieldTypeDuration
	FieldTypeStringer
	FieldTypeBlob
)

// ZField is a single typed field of an EntryZ. Only the member matching Type
// is populated.
type ZField struct {
	Type FieldType
	Key  string

	String    string
	Integer   uint64
	Duration  time.Duration
	Error     error
	Interface any
	Boolean   bool
	Blob      []byte
}

func (f *ZField) Value() string {
	switch f.Type {
	case FieldTypeBool:
		if f.Boolean {
			return "true"
		}
		return "false"
	case FieldTypeString:
		return f.String
	case FieldTypeUint:
		return strconv.FormatUint(f.Integer, 10)
	case FieldTypeInt:
		return strconv.FormatInt(int64(f.Integer), 10)
	case FieldTypeHex8:
		return hexPad(f.Integer, 2)
	case FieldTypeHex16:
		return hexPad(f.Integer, 4)
	case FieldTypeHex32:
		return hexPad(f.Integer, 6)
	case FieldTypeHex64:
		return hexPad(f.Integer, 16)
	case FieldTypeError:
		if f.Error == nil {
			return "<nil>"
		}
		return f.Error.Error()
	case FieldTypeDuration:
		return f.Duration.String()
	case FieldTypeStringer:
		if f.Interface == nil {
			return "<nil>"
		}
		return f.Interface.(fmt.Stringer).String()
	case FieldTypeBlob:
		if len(f.Blob) > 64 {
			return hex.EncodeToString(f.Blob[:64]) + "..."
		}
		return hex.EncodeToString(f.Blob)
	}
	return ""
}

// hexPad formats v in hexadecimal, zero-padded to at least n digits. 32-bit
// values use 6 digits since bus addresses are 24 bits wide.
func hexPad(v uint64, n int) string {
	return fmt.Sprintf("%0*x", n, v)
}

package log

import "gopkg.in/Sirupsen/logrus.v0"

// Level mirrors logrus levels: lower values are more severe.
type Level uint8

const (
	PanicLevel Level = iota
	FatalLevel
	ErrorLevel
	WarnLevel
	InfoLevel
	DebugLevel
)

func (l Level) logrus() logrus.Level {
	return logrus.Level(l)
}

func (l Level) String() string {
	return l.logrus().String()
}

// SetOutputLevel sets the level of the underlying logrus logger. Module
// filtering happens before, so this only matters for enabled modules.
func SetOutputLevel(l Level) {
	logrus.SetLevel(l.logrus())
}

// Context is implemented by components that want to attach their state (a
// program counter, a scanline) to every log line.
type Context interface {
	AddLogContext(z *EntryZ)
}

var contexts []Context

func AddContext(c Context) {
	contexts = append(contexts, c)
}

func ResetContexts() {
	contexts = nil
}

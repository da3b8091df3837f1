package logger

import (
	"io"
	"os"
	"sort"

	"github.com/rs/zerolog"
)

// ZerologAdapter satisfies Logger on top of zerolog. Fields are written in
// key order so console lines for the same event always read the same.
type ZerologAdapter struct {
	zl zerolog.Logger
}

func NewZerolog(w io.Writer, level LogLevel) *ZerologAdapter {
	return &ZerologAdapter{
		zl: zerolog.New(w).Level(level.zerolog()).With().Timestamp().Logger(),
	}
}

// NewConsoleLogger writes human-readable lines to stderr so stdout stays
// free for command output.
func NewConsoleLogger(level LogLevel) *ZerologAdapter {
	return NewZerolog(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}, level)
}

// NewNop discards everything.
func NewNop() *ZerologAdapter {
	return &ZerologAdapter{zl: zerolog.Nop()}
}

func (z *ZerologAdapter) Debug(component, message string, fields map[string]interface{}) {
	send(z.zl.Debug(), component, fields, message)
}

func (z *ZerologAdapter) Info(component, message string, fields map[string]interface{}) {
	send(z.zl.Info(), component, fields, message)
}

func (z *ZerologAdapter) Warning(component, message string, fields map[string]interface{}) {
	send(z.zl.Warn(), component, fields, message)
}

func (z *ZerologAdapter) Error(component string, err error, fields map[string]interface{}) {
	send(z.zl.Error().Err(err), component, fields, "operation failed")
}

func send(ev *zerolog.Event, component string, fields map[string]interface{}, message string) {
	if ev == nil {
		return
	}
	ev = ev.Str("component", component)

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		ev = ev.Interface(k, fields[k])
	}
	ev.Msg(message)
}

package logger

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

type LogLevel int

const (
	DebugLevel LogLevel = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

// Logger is the component-tagged logging contract shared by the pipeline,
// the CLI and the GUI.
type Logger interface {
	Debug(component, message string, fields map[string]interface{})
	Info(component, message string, fields map[string]interface{})
	Warning(component, message string, fields map[string]interface{})
	Error(component string, err error, fields map[string]interface{})
}

func (l LogLevel) String() string {
	switch l {
	case DebugLevel:
		return "debug"
	case InfoLevel:
		return "info"
	case WarnLevel:
		return "warn"
	case ErrorLevel:
		return "error"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

func (l LogLevel) zerolog() zerolog.Level {
	switch l {
	case DebugLevel:
		return zerolog.DebugLevel
	case WarnLevel:
		return zerolog.WarnLevel
	case ErrorLevel:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// ParseLevel accepts debug, info, warn/warning and error.
func ParseLevel(s string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DebugLevel, nil
	case "info", "":
		return InfoLevel, nil
	case "warn", "warning":
		return WarnLevel, nil
	case "error":
		return ErrorLevel, nil
	default:
		return InfoLevel, fmt.Errorf("unknown log level %q", s)
	}
}

// LevelFromEnv reads LOG_LEVEL, falling back to DEBUG=1.
func LevelFromEnv() LogLevel {
	if raw := os.Getenv("LOG_LEVEL"); raw != "" {
		if level, err := ParseLevel(raw); err == nil {
			return level
		}
	}
	if os.Getenv("DEBUG") == "1" {
		return DebugLevel
	}
	return InfoLevel
}

// LevelForFlags maps the CLI verbosity switches onto a level.
func LevelForFlags(verbose, quiet bool) (LogLevel, error) {
	switch {
	case verbose && quiet:
		return InfoLevel, fmt.Errorf("cannot use both --verbose and --quiet")
	case verbose:
		return DebugLevel, nil
	case quiet:
		return WarnLevel, nil
	default:
		return LevelFromEnv(), nil
	}
}

package log

import (
	"errors"
	"strings"
)

// Level is the severity of an entry. Higher is more severe.
type Level int

const (
	Trace Level = iota
	Debug
	Info
	Warn
	Error
	Fatal
)

var levelNames = map[Level]string{
	Trace: "TRACE",
	Debug: "DEBUG",
	Info:  "INFO",
	Warn:  "WARN",
	Error: "ERROR",
	Fatal: "FATAL",
}

// ErrInvalidLevel is returned by ParseLevel for unrecognised names.
var ErrInvalidLevel = errors.New("invalid log level")

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return "UNKNOWN"
}

// ParseLevel accepts level names case-insensitively, plus "warning".
// Unknown names yield Info and ErrInvalidLevel.
func ParseLevel(s string) (Level, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	if name == "WARNING" {
		return Warn, nil
	}
	for lvl, n := range levelNames {
		if n == name {
			return lvl, nil
		}
	}
	return Info, ErrInvalidLevel
}

// Enables reports whether a logger at l emits entries at target.
func (l Level) Enables(target Level) bool {
	return target >= l
}

// Package logger provides leveled logging for the run. Console report
// output goes to stdout through the reporter; diagnostics land here, on
// stderr, so the two streams can be separated.
package logger

import (
	"fmt"
	"log"
	"os"
	"strings"
)

// Level represents a logging level.
type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

func parseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "debug":
		return DebugLevel
	case "warn":
		return WarnLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

var (
	level Level = InfoLevel
	out         = log.New(os.Stderr, "", log.LstdFlags)
)

// Init configures the package logger. The "text" format adds caller
// locations; any other format keeps plain timestamped lines.
func Init(levelName, format string) {
	level = parseLevel(levelName)
	flags := log.LstdFlags | log.Lmicroseconds
	if strings.ToLower(format) == "text" {
		flags |= log.Lshortfile
	}
	out = log.New(os.Stderr, "", flags)
}

func emit(l Level, tag, format string, args ...any) {
	if level > l {
		return
	}
	_ = out.Output(3, fmt.Sprintf(tag+" "+format, args...))
}

func Debug(format string, args ...any) { emit(DebugLevel, "[DEBUG]", format, args...) }

func Info(format string, args ...any) { emit(InfoLevel, "[INFO]", format, args...) }

func Warn(format string, args ...any) { emit(WarnLevel, "[WARN]", format, args...) }

func Error(format string, args ...any) { emit(ErrorLevel, "[ERROR]", format, args...) }

// Fatal logs at error level and exits with status 1.
func Fatal(format string, args ...any) {
	_ = out.Output(2, fmt.Sprintf("[FATAL] "+format, args...))
	os.Exit(1)
}

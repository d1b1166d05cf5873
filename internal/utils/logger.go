package utils

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

var (
	CurrentLevel   LogLevel = LevelWarn
	ShowRaylibInfo bool
	ShowDebugUI    bool
	SilentMode     bool
)

// Filled in by the engine once a GL context exists.
var (
	GPURenderer string
	GPUVendor   string
	GLVersion   string
)

var std = log.New(os.Stderr, "", log.LstdFlags)

// SetOutput redirects every logger.
func SetOutput(w io.Writer) {
	std.SetOutput(w)
}

func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	}
	return "UNKNOWN"
}

func (l LogLevel) color() string {
	switch l {
	case LevelDebug:
		return "\033[36m"
	case LevelInfo:
		return "\033[34m"
	case LevelWarn:
		return "\033[33m"
	case LevelError:
		return "\033[31m"
	}
	return ""
}

// ParseLevel maps a level name ("debug", "info", "warn", "error") to a LogLevel.
func ParseLevel(name string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelWarn, fmt.Errorf("unknown log level %q", name)
}

// Logger prefixes every line with the component that wrote it ("Material: ...").
type Logger struct {
	Component string
}

func NewLogger(component string) Logger {
	return Logger{Component: component}
}

func (l Logger) Debug(format string, v ...any) { l.print(LevelDebug, format, v...) }
func (l Logger) Info(format string, v ...any)  { l.print(LevelInfo, format, v...) }
func (l Logger) Warn(format string, v ...any)  { l.print(LevelWarn, format, v...) }
func (l Logger) Error(format string, v ...any) { l.print(LevelError, format, v...) }

func (l Logger) print(level LogLevel, format string, v ...any) {
	if level >= CurrentLevel {
		l.write(level, format, v...)
	}
}

func (l Logger) write(level LogLevel, format string, v ...any) {
	const colorReset = "\033[0m"

	var b strings.Builder
	b.WriteString(level.color())
	b.WriteString("[" + level.String() + "]")
	b.WriteString(colorReset)
	b.WriteByte(' ')
	if l.Component != "" {
		b.WriteString(l.Component)
		b.WriteString(": ")
	}
	fmt.Fprintf(&b, format, v...)
	std.Print(b.String())
}

var defaultLogger Logger

func Info(format string, v ...any)  { defaultLogger.Info(format, v...) }
func Debug(format string, v ...any) { defaultLogger.Debug(format, v...) }
func Warn(format string, v ...any)  { defaultLogger.Warn(format, v...) }
func Error(format string, v ...any) { defaultLogger.Error(format, v...) }

var raylibLog = NewLogger("\033[35mRaylib\033[0m")

// RaylibLogCallback forwards raylib trace output into the leveled logger.
// Shader compile errors arrive here as warnings.
func RaylibLogCallback(level int, text string) {
	switch level {
	case 1, 2: // LOG_TRACE, LOG_DEBUG
		raylibLog.Debug("%s", text)
	case 3: // LOG_INFO
		if ShowRaylibInfo {
			raylibLog.write(LevelInfo, "%s", text)
			return
		}
		raylibLog.Info("%s", text)
	case 4: // LOG_WARNING
		raylibLog.Warn("%s", text)
	case 5, 6: // LOG_ERROR, LOG_FATAL
		raylibLog.Error("%s", text)
	}
}

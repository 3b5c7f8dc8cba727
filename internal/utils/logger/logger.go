package logger

import (
	"fmt"
	"path/filepath"
	"runtime"
	"time"

	"github.com/fatih/color"
)

// Logger prints leveled, colored console lines tagged with a component name
// and the call site. One instance per component, created at package init.
type Logger struct {
	component string
}

const (
	infoEmoji    = "ℹ️ "
	successEmoji = "✅ "
	warnEmoji    = "⚠️ "
	errorEmoji   = "❌ "
	debugEmoji   = "🔍 "
)

func New(component string) *Logger {
	return &Logger{component: component}
}

// format assembles one output line. Caller depth 2 points at the exported
// method's caller.
func (l *Logger) format(level, emoji, msg string) string {
	_, file, line, _ := runtime.Caller(2)
	return fmt.Sprintf("%s | %s | %s | %s:%d | %s | %s",
		emoji,
		time.Now().Format("2006-01-02 15:04:05"),
		level,
		filepath.Base(file),
		line,
		l.component,
		msg,
	)
}

func (l *Logger) Info(msg string, args ...interface{}) {
	color.Cyan(l.format("INFO", infoEmoji, fmt.Sprintf(msg, args...)))
}

func (l *Logger) Success(msg string, args ...interface{}) {
	color.Green(l.format("SUCCESS", successEmoji, fmt.Sprintf(msg, args...)))
}

func (l *Logger) Warn(msg string, args ...interface{}) {
	color.Yellow(l.format("WARN", warnEmoji, fmt.Sprintf(msg, args...)))
}

// Error logs and returns the message wrapped around err, so call sites can
// `return log.Error(...)` in one line.
func (l *Logger) Error(msg string, err error, args ...interface{}) error {
	args = append(args, err)
	color.Red(l.format("ERROR", errorEmoji, fmt.Sprintf(msg, args...)))
	return fmt.Errorf("%s: %w", msg, err)
}

func (l *Logger) Debug(msg string, args ...interface{}) {
	color.Magenta(l.format("DEBUG", debugEmoji, fmt.Sprintf(msg, args...)))
}

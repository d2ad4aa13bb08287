package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

var (
	debugPrefix = color.New(color.FgHiBlack).Sprint("[DEBUG] ")
	infoPrefix  = color.New(color.FgBlue).Sprint("[INFO] ")
	warnPrefix  = color.New(color.FgYellow).Sprint("[WARN] ")
	errorPrefix = color.New(color.FgRed).Sprint("[ERROR] ")
)

type Logger struct {
	Debug bool
	Out   io.Writer
}

func NewLogger(debug bool) *Logger {
	return &Logger{Debug: debug, Out: os.Stderr}
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return &Logger{Out: io.Discard}
}

func (l *Logger) Debugf(format string, args ...any) {
	if l.Debug {
		l.printf(debugPrefix, format, args...)
	}
}

func (l *Logger) Infof(format string, args ...any) {
	l.printf(infoPrefix, format, args...)
}

func (l *Logger) Warnf(format string, args ...any) {
	l.printf(warnPrefix, format, args...)
}

func (l *Logger) Errorf(format string, args ...any) {
	l.printf(errorPrefix, format, args...)
}

func (l *Logger) printf(prefix, format string, args ...any) {
	out := l.Out
	if out == nil {
		out = os.Stderr
	}
	_, _ = fmt.Fprintf(out, prefix+format, args...)
}

// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/apex/log"
)

// LevelEnv names the environment variable holding the log level.
const LevelEnv = "LORECTL_LOG"

var traceEnabled bool

// InitLogger installs the single-line handler and sets the level from
// LORECTL_LOG. Unknown or empty levels mean error.
func InitLogger() {
	level, trace := ParseLevel(os.Getenv(LevelEnv))
	traceEnabled = trace
	log.SetHandler(NewHandler(os.Stderr))
	log.SetLevel(level)
}

// ParseLevel maps a level name to an apex level. trace is reported
// separately because apex has no level below debug.
func ParseLevel(s string) (level log.Level, trace bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return log.DebugLevel, true
	case "debug":
		return log.DebugLevel, false
	case "info":
		return log.InfoLevel, false
	case "warn":
		return log.WarnLevel, false
	case "fatal":
		return log.FatalLevel, false
	default:
		return log.ErrorLevel, false
	}
}

// Handler writes "timestamp level message fields" lines.
type Handler struct {
	mu  sync.Mutex
	w   io.Writer
	now func() time.Time
}

// NewHandler returns a Handler writing to w.
func NewHandler(w io.Writer) *Handler {
	return &Handler{w: w, now: time.Now}
}

// HandleLog implements log.Handler.
func (h *Handler) HandleLog(e *log.Entry) error {
	message := e.Message
	level := "?"
	if strings.HasPrefix(message, "TRACE: ") {
		level = "T"
		message = message[7:]
	} else {
		switch e.Level {
		case log.DebugLevel:
			level = "D"
		case log.InfoLevel:
			level = "I"
		case log.WarnLevel:
			level = "W"
		case log.ErrorLevel:
			level = "E"
		case log.FatalLevel:
			level = "F"
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s %s", h.now().Format("2006-01-02 15:04:05"), level, message)
	for _, name := range e.Fields.Names() {
		fmt.Fprintf(&b, " %s=%v", name, e.Fields.Get(name))
	}
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

// Tracef logs at Trace level (below Debug).
func Tracef(format string, args ...interface{}) {
	if traceEnabled {
		log.Debug("TRACE: " + fmt.Sprintf(format, args...))
	}
}

// Debugf logs at Debug level.
func Debugf(format string, args ...interface{}) {
	log.Debugf(format, args...)
}

// Infof logs at Info level.
func Infof(format string, args ...interface{}) {
	log.Infof(format, args...)
}

// Warnf logs at Warn level.
func Warnf(format string, args ...interface{}) {
	log.Warnf(format, args...)
}

// Errorf logs at Error level.
func Errorf(format string, args ...interface{}) {
	log.Errorf(format, args...)
}

// WithError returns an entry with error.
func WithError(err error) *log.Entry {
	return log.WithError(err)
}

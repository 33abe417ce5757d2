// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package log

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/apex/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in    string
		level log.Level
		trace bool
	}{
		{"", log.ErrorLevel, false},
		{"bogus", log.ErrorLevel, false},
		{"trace", log.DebugLevel, true},
		{"DEBUG", log.DebugLevel, false},
		{" info ", log.InfoLevel, false},
		{"warn", log.WarnLevel, false},
		{"error", log.ErrorLevel, false},
		{"fatal", log.FatalLevel, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			level, trace := ParseLevel(tt.in)
			assert.Equal(t, tt.level, level)
			assert.Equal(t, tt.trace, trace)
		})
	}
}

func TestHandler(t *testing.T) {
	var b bytes.Buffer
	h := NewHandler(&b)
	h.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

	logger := &log.Logger{Handler: h, Level: log.DebugLevel}

	logger.Warnf("refresh failed for %s", "v2")
	logger.WithError(errors.New("boom")).Error("load")
	logger.Debug("TRACE: deep")

	lines := bytes.Split(bytes.TrimSpace(b.Bytes()), []byte("\n"))
	require.Len(t, lines, 3)
	assert.Equal(t, "2026-01-02 03:04:05 W refresh failed for v2", string(lines[0]))
	assert.Equal(t, "2026-01-02 03:04:05 E load error=boom", string(lines[1]))
	assert.Equal(t, "2026-01-02 03:04:05 T deep", string(lines[2]))
}

package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		level string
		want  logrus.Level
	}{
		{level: "DEBUG", want: logrus.DebugLevel},
		{level: "warn", want: logrus.WarnLevel},
		{level: "error", want: logrus.ErrorLevel},
		{level: "bogus", want: logrus.InfoLevel},
		{level: "", want: logrus.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger := NewLogger(tt.level, "json")
			assert.Equal(t, tt.want, logger.GetLevel())
		})
	}
}

func TestNewLoggerJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "info", "json")

	logger.WithField("months", 360).Info("schedule calculated")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "schedule calculated", entry["msg"])
	assert.Equal(t, float64(360), entry["months"])
	assert.Equal(t, "info", entry["level"])
}

func TestNewLoggerTextFormat(t *testing.T) {
	logger := NewLogger("info", "TEXT")
	_, ok := logger.Formatter.(*logrus.TextFormatter)
	assert.True(t, ok)
}

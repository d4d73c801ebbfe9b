package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"", LevelInfo, false},
		{"warning", LevelWarn, false},
		{"error", LevelError, false},
		{"loud", LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelWarn, Output: &buf})

	logger.Info("hidden")
	logger.Warn("shown", "module", "com.x:app")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "module=com.x:app")
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{JSON: true, Output: &buf})

	logger.Info("mapped", "version", "1.0")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "mapped", entry["msg"])
	assert.Equal(t, "1.0", entry["version"])
}

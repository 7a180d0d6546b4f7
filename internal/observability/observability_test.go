package observability

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/draogmims2caom2/internal/config"
)

func TestNewMetrics_Independent(t *testing.T) {
	first := NewMetrics()
	second := NewMetrics()

	first.FilesProcessed.Inc()

	assert.Equal(t, 1.0, testutil.ToFloat64(first.FilesProcessed))
	assert.Equal(t, 0.0, testutil.ToFloat64(second.FilesProcessed))
}

func TestWriteTextfile(t *testing.T) {
	m := NewMetrics()
	m.FilesProcessed.Inc()
	m.FilesFailed.WithLabelValues("read").Inc()

	path := filepath.Join(t.TempDir(), "gmims.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "draogmims2caom2_files_processed_total 1")
	assert.Contains(t, string(data), `draogmims2caom2_files_failed_total{stage="read"} 1`)
}

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, &config.Config{LogLevel: "info", LogFormat: "json"})

	logger.Debug("hidden")
	logger.Info("visible", "obs_id", "Drao_60Rad.mod")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "visible", line["msg"])
	assert.Equal(t, "draogmims2caom2", line["app"])
	assert.Equal(t, "Drao_60Rad.mod", line["obs_id"])
}

func TestNewLogger_TextDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, &config.Config{LogLevel: "debug", LogFormat: "text"})

	logger.Debug("begin update")
	assert.Contains(t, buf.String(), "level=DEBUG")
	assert.Contains(t, buf.String(), `msg="begin update"`)
}

func TestNewLogger_SharedLevels(t *testing.T) {
	tests := []struct {
		level   string
		visible []string
		hidden  []string
	}{
		{"debug", []string{"debug-line", "info-line"}, nil},
		{"info", []string{"info-line", "warn-line"}, []string{"debug-line"}},
		{"warning", []string{"warn-line", "error-line"}, []string{"info-line"}},
		{"error", []string{"error-line"}, []string{"warn-line"}},
		{"unknown", []string{"info-line"}, []string{"debug-line"}},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			logger := newLogger(&buf, &config.Config{LogLevel: tt.level, LogFormat: "text"})

			logger.Debug("debug-line")
			logger.Info("info-line")
			logger.Warn("warn-line")
			logger.Error("error-line")

			for _, msg := range tt.visible {
				assert.Contains(t, buf.String(), msg)
			}
			for _, msg := range tt.hidden {
				assert.NotContains(t, buf.String(), msg)
			}
		})
	}
}

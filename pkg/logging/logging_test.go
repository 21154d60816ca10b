package logging

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestSetupLogger(t *testing.T) {
	tests := []struct {
		name      string
		verbosity int
		wantLevel zerolog.Level
	}{
		{"default_warn_level", 0, zerolog.WarnLevel},
		{"info_level", 1, zerolog.InfoLevel},
		{"debug_level", 2, zerolog.DebugLevel},
		{"trace_level", 3, zerolog.TraceLevel},
		{"high_verbosity_defaults_to_trace", 5, zerolog.TraceLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			SetupLogger(tt.verbosity)
			assert.Equal(t, tt.wantLevel, zerolog.GlobalLevel())
		})
	}
}

func TestGetLogger(t *testing.T) {
	SetupLogger(0)
	logger := GetLogger("assets")
	// A component logger must be usable without further setup.
	logger.Warn().Msg("component logger smoke test")
}

func TestSetupLogFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "glyphkit.log")

	f, err := setupLogFile(path)
	assert.NoError(t, err)
	assert.NotNil(t, f)
	_ = f.Close()

	// Append mode: opening again must not fail.
	f2, err := setupLogFile(path)
	assert.NoError(t, err)
	_ = f2.Close()
}

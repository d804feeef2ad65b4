package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitLogger(t *testing.T) {
	saved := Logger
	defer func() { Logger = saved }()
	{ // Bad level
		cfg := DefaultConfig()
		cfg.Level = "loud"
		assert.Error(t, InitLogger(cfg))
	}
	{ // Entries reach the rotated file
		cfg := DefaultConfig()
		cfg.Level = "warn"
		cfg.File = filepath.Join(t.TempDir(), "gopipe.log")
		require.NoError(t, InitLogger(cfg))
		Logger.Infow("dropped")
		Logger.Warnw("bracket not found", "attempts", 6)
		Sync()
		b, err := os.ReadFile(cfg.File)
		require.NoError(t, err)
		assert.Contains(t, string(b), "bracket not found")
		assert.NotContains(t, string(b), "dropped")
	}
}

package configwatcher

import (
	"context"
	"lxp_backend/internal/config"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, path, model string) {
	t.Helper()
	content := []byte(fmtConfig(model))
	require.NoError(t, os.WriteFile(path, content, 0o644))
}

func fmtConfig(model string) string {
	return "database:\n  driver: sqlite\nredis:\n  enabled: false\nai:\n  model: " + model + "\n"
}

func TestWatch_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeConfig(t, path, "first-model")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan *config.Config, 4)
	require.NoError(t, Watch(ctx, path, func(cfg *config.Config) { reloaded <- cfg }))

	writeConfig(t, path, "second-model")

	select {
	case cfg := <-reloaded:
		assert.Equal(t, "second-model", cfg.AI.Model)
	case <-time.After(5 * time.Second):
		t.Fatal("config was not reloaded")
	}
}

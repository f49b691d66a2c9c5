package logger

import (
	"lxp_backend/internal/config"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestLevel(t *testing.T) {
	cfg := &config.Config{}
	cfg.Server.Mode = "debug"
	assert.Equal(t, zap.DebugLevel, Level(cfg))

	cfg.Server.Mode = "release"
	assert.Equal(t, zap.InfoLevel, Level(cfg))

	cfg.Log.Level = "warn"
	assert.Equal(t, zap.WarnLevel, Level(cfg))

	cfg.Log.Level = "loud"
	assert.Equal(t, zap.InfoLevel, Level(cfg))
}

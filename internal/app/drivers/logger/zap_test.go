package logger

import (
	"clinic-portal-service/internal/app/config"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestBuildConfig(t *testing.T) {
	t.Run("Production Writes To Files", func(t *testing.T) {
		cfg := buildConfig(
			&config.DriverConfig{Logger: config.Logger{Level: "warn", OutputFileName: "app.log", OutputErrorFileName: "err.log"}},
			&config.InternalConfig{App: config.App{Env: "production"}},
		)

		assert.Equal(t, zap.WarnLevel, cfg.Level.Level())
		assert.Equal(t, []string{"stdout", "app.log"}, cfg.OutputPaths)
		assert.Equal(t, []string{"stderr", "err.log"}, cfg.ErrorOutputPaths)
		assert.False(t, cfg.Development)
	})

	t.Run("Unknown Level Defaults To Info", func(t *testing.T) {
		cfg := buildConfig(
			&config.DriverConfig{Logger: config.Logger{Level: "loud"}},
			&config.InternalConfig{App: config.App{Env: "development"}},
		)

		assert.Equal(t, zap.InfoLevel, cfg.Level.Level())
		assert.Equal(t, []string{"stdout"}, cfg.OutputPaths)
		assert.True(t, cfg.Development)
	})
}

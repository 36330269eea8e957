package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *Config
		wantErr bool
	}{
		{"empty config", &Config{}, false},
		{"valid levels", &Config{Level: LevelDebug}, false},
		{"valid format", &Config{Format: FormatConsole}, false},
		{"invalid level", &Config{Level: "verbose"}, true},
		{"invalid format", &Config{Format: "xml"}, true},
		{"nil config", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				var ce *ConfigError
				assert.ErrorAs(t, err, &ce)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfigApplyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.ApplyDefaults()

	assert.Equal(t, LevelInfo, cfg.Level)
	assert.Equal(t, FormatJSON, cfg.Format)

	// 已有值不被覆盖
	cfg = &Config{Level: LevelDebug, Format: FormatConsole}
	cfg.ApplyDefaults()
	assert.Equal(t, LevelDebug, cfg.Level)
	assert.Equal(t, FormatConsole, cfg.Format)
}

func TestNew(t *testing.T) {
	log, err := New(&Config{ServiceName: "test", Level: LevelDebug})
	require.NoError(t, err)
	require.NotNil(t, log)

	log.Debug("debug message", String("key", "value"))
	log.Info("info message", Int("count", 3))

	_, err = New(&Config{Level: "verbose"})
	assert.Error(t, err)
}

func TestNewNilConfig(t *testing.T) {
	log, err := New(nil)
	require.NoError(t, err)
	assert.NotNil(t, log)
}

func TestNop(t *testing.T) {
	log := Nop()

	log.Debug("ignored")
	log.Info("ignored")
	log.Warn("ignored")
	log.Error("ignored")
	assert.NoError(t, log.Sync())
	assert.NotNil(t, log.With(String("k", "v")))
	assert.NotNil(t, log.WithContext(context.Background()))
}

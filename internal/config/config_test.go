package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sybersc/cyberbot/internal/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

const minimalConfig = `
telegram:
  token: "123:abc"
  admin_id: 42
gemini:
  api_key: "test-key"
`

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, minimalConfig)

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Log.Level != config.DefaultLogLevel {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, config.DefaultLogLevel)
	}
	if cfg.Telegram.ChannelHandle != config.DefaultChannelHandle {
		t.Errorf("ChannelHandle = %q, want %q", cfg.Telegram.ChannelHandle, config.DefaultChannelHandle)
	}
	if cfg.Telegram.GroupTrigger != config.DefaultGroupTrigger {
		t.Errorf("GroupTrigger = %q, want %q", cfg.Telegram.GroupTrigger, config.DefaultGroupTrigger)
	}
	if cfg.Telegram.Messages.ResetButton != config.DefaultMessages.ResetButton {
		t.Errorf("ResetButton = %q, want default", cfg.Telegram.Messages.ResetButton)
	}
	if cfg.Gemini.TimeoutSeconds != config.DefaultTimeoutSeconds {
		t.Errorf("TimeoutSeconds = %d, want %d", cfg.Gemini.TimeoutSeconds, config.DefaultTimeoutSeconds)
	}
	if cfg.Store.RetentionDays != config.DefaultRetentionDays {
		t.Errorf("RetentionDays = %d, want %d", cfg.Store.RetentionDays, config.DefaultRetentionDays)
	}
	if len(cfg.Scheduler.Tasks) == 0 {
		t.Error("Scheduler.Tasks is empty, want default task table")
	}
}

func TestLoadOverridesFromFile(t *testing.T) {
	path := writeConfig(t, minimalConfig+`
log:
  level: debug
store:
  path: /tmp/custom.json
  retention_days: 7
`)

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
	if cfg.Store.Path != "/tmp/custom.json" {
		t.Errorf("Store.Path = %q", cfg.Store.Path)
	}
	if cfg.Store.RetentionDays != 7 {
		t.Errorf("Store.RetentionDays = %d, want 7", cfg.Store.RetentionDays)
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "missing telegram token",
			content: "gemini:\n  api_key: k\ntelegram:\n  admin_id: 42\n",
		},
		{
			name:    "missing gemini key",
			content: "telegram:\n  token: t\n  admin_id: 42\n",
		},
		{
			name:    "admin id not positive",
			content: "telegram:\n  token: t\n  admin_id: -1\ngemini:\n  api_key: k\n",
		},
		{
			name:    "channel handle without at sign",
			content: "telegram:\n  token: t\n  admin_id: 42\n  channel_handle: SyberSc71\ngemini:\n  api_key: k\n",
		},
		{
			name:    "bad log level",
			content: minimalConfig + "log:\n  level: loud\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)
			if _, err := config.Load(path); err == nil {
				t.Error("Load() succeeded, want validation error")
			}
		})
	}
}

func TestLoadMissingFileUsesDefaultsAndEnv(t *testing.T) {
	t.Setenv("BOT_TELEGRAM_TOKEN", "123:abc")
	t.Setenv("BOT_TELEGRAM_ADMIN_ID", "42")
	t.Setenv("BOT_GEMINI_API_KEY", "test-key")

	cfg, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Telegram.Token != "123:abc" {
		t.Errorf("Telegram.Token = %q", cfg.Telegram.Token)
	}
	if cfg.Telegram.AdminID != 42 {
		t.Errorf("Telegram.AdminID = %d", cfg.Telegram.AdminID)
	}
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/viper"
)

// ErrConfiguration wraps every error returned by Load.
var ErrConfiguration = errors.New("configuration error")

// Load loads and validates configuration from:
// 1. Default values
// 2. the given YAML file (optional)
// 3. BOT_* environment variables
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetEnvPrefix("BOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Missing config file is fine, defaults and env vars still apply.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: failed to read config file: %v", ErrConfiguration, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrConfiguration, err)
	}

	if cfg.Scheduler.Tasks == nil {
		cfg.Scheduler.Tasks = DefaultTasks
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.format", DefaultLogFormat)

	v.SetDefault("telegram.channel_handle", DefaultChannelHandle)
	v.SetDefault("telegram.channel_url", DefaultChannelURL)
	v.SetDefault("telegram.premium_url", DefaultPremiumURL)
	v.SetDefault("telegram.group_trigger", DefaultGroupTrigger)

	v.SetDefault("telegram.messages.welcome", DefaultMessages.Welcome)
	v.SetDefault("telegram.messages.join_prompt", DefaultMessages.JoinPrompt)
	v.SetDefault("telegram.messages.join_button", DefaultMessages.JoinButton)
	v.SetDefault("telegram.messages.verify_button", DefaultMessages.VerifyButton)
	v.SetDefault("telegram.messages.banned", DefaultMessages.Banned)
	v.SetDefault("telegram.messages.history_reset", DefaultMessages.HistoryReset)
	v.SetDefault("telegram.messages.reset_button", DefaultMessages.ResetButton)
	v.SetDefault("telegram.messages.quota_exceeded", DefaultMessages.QuotaExceeded)
	v.SetDefault("telegram.messages.premium_button", DefaultMessages.PremiumButton)
	v.SetDefault("telegram.messages.contact_admin_button", DefaultMessages.ContactAdminButton)
	v.SetDefault("telegram.messages.network_error", DefaultMessages.NetworkError)
	v.SetDefault("telegram.messages.general_error", DefaultMessages.GeneralError)
	v.SetDefault("telegram.messages.not_authorized", DefaultMessages.NotAuthorized)
	v.SetDefault("telegram.messages.processing_image", DefaultMessages.ProcessingImage)
	v.SetDefault("telegram.messages.default_image_prompt", DefaultMessages.DefaultImagePrompt)
	v.SetDefault("telegram.messages.image_prompt_suffix", DefaultMessages.ImagePromptSuffix)
	v.SetDefault("telegram.messages.signature", DefaultMessages.Signature)

	v.SetDefault("gemini.model", DefaultGeminiModel)
	v.SetDefault("gemini.vision_model", DefaultGeminiVisionModel)
	v.SetDefault("gemini.max_retries", DefaultMaxRetries)
	v.SetDefault("gemini.retry_delay_seconds", DefaultRetryDelaySeconds)
	v.SetDefault("gemini.timeout_seconds", DefaultTimeoutSeconds)

	v.SetDefault("store.path", DefaultStorePath)
	v.SetDefault("store.retention_days", DefaultRetentionDays)
}

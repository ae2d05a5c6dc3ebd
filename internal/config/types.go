// Package config manages application configuration from environment variables,
// config files, and default values.
package config

import "github.com/go-telegram/bot/models"

// Config defines the application configuration. Values can be set via
// environment variables prefixed with BOT_ (e.g., BOT_TELEGRAM_TOKEN) or
// through config.yaml.
type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Gemini    GeminiConfig    `mapstructure:"gemini"`
	Store     StoreConfig     `mapstructure:"store"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"  validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=json text"`
}

// TelegramConfig holds bot transport settings and the channel the
// subscription gate enforces.
type TelegramConfig struct {
	Token         string   `mapstructure:"token"          validate:"required"`
	AdminID       int64    `mapstructure:"admin_id"       validate:"required,gt=0"`
	ChannelHandle string   `mapstructure:"channel_handle" validate:"required,startswith=@"`
	ChannelURL    string   `mapstructure:"channel_url"    validate:"required,url"`
	PremiumURL    string   `mapstructure:"premium_url"    validate:"required,url"`
	GroupTrigger  string   `mapstructure:"group_trigger"  validate:"required"`
	Messages      Messages `mapstructure:"messages"`

	// BotInfo is filled at startup from GetMe, not from configuration.
	BotInfo *models.User `mapstructure:"-" validate:"-"`
}

// Messages holds every user-facing string the bot sends.
type Messages struct {
	Welcome            string `mapstructure:"welcome"              validate:"required"`
	JoinPrompt         string `mapstructure:"join_prompt"          validate:"required"`
	JoinButton         string `mapstructure:"join_button"          validate:"required"`
	VerifyButton       string `mapstructure:"verify_button"        validate:"required"`
	Banned             string `mapstructure:"banned"               validate:"required"`
	HistoryReset       string `mapstructure:"history_reset"        validate:"required"`
	ResetButton        string `mapstructure:"reset_button"         validate:"required"`
	QuotaExceeded      string `mapstructure:"quota_exceeded"       validate:"required"`
	PremiumButton      string `mapstructure:"premium_button"       validate:"required"`
	ContactAdminButton string `mapstructure:"contact_admin_button" validate:"required"`
	NetworkError       string `mapstructure:"network_error"        validate:"required"`
	GeneralError       string `mapstructure:"general_error"        validate:"required"`
	NotAuthorized      string `mapstructure:"not_authorized"       validate:"required"`
	ProcessingImage    string `mapstructure:"processing_image"     validate:"required"`
	DefaultImagePrompt string `mapstructure:"default_image_prompt" validate:"required"`
	ImagePromptSuffix  string `mapstructure:"image_prompt_suffix"`
	Signature          string `mapstructure:"signature"`
}

// GeminiConfig holds AI service settings.
type GeminiConfig struct {
	APIKey            string `mapstructure:"api_key"             validate:"required"`
	Model             string `mapstructure:"model"               validate:"required"`
	VisionModel       string `mapstructure:"vision_model"        validate:"required"`
	MaxRetries        int    `mapstructure:"max_retries"         validate:"min=0,max=10"`
	RetryDelaySeconds int    `mapstructure:"retry_delay_seconds" validate:"min=1,max=60"`
	TimeoutSeconds    int    `mapstructure:"timeout_seconds"     validate:"min=1,max=600"`
	SystemInstruction string `mapstructure:"system_instruction"`
}

// StoreConfig holds persistence settings.
type StoreConfig struct {
	Path          string `mapstructure:"path"           validate:"required"`
	RetentionDays int    `mapstructure:"retention_days" validate:"min=1,max=365"`
}

// SchedulerConfig holds the background task table.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks"`
}

// TaskConfig controls a single scheduled task.
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule" validate:"required_if=Enabled true"`
}

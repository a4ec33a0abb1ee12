// Package config provides configuration loading and validation for the
// relay bot. Values come from defaults, an optional YAML file, and BOT_*
// environment variables, in that order of precedence.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config is the full application configuration.
type Config struct {
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Log       LogConfig       `mapstructure:"log"`
	Messages  MessagesConfig  `mapstructure:"messages"`
}

// TelegramConfig holds the transport settings. AdminID is the single
// operator every user message is relayed to.
type TelegramConfig struct {
	Token   string `mapstructure:"token"    validate:"required"`
	AdminID int64  `mapstructure:"admin_id" validate:"required,gt=0"`
}

// StorageConfig points at the primary JSON document and the backup
// directory.
type StorageConfig struct {
	DataFile  string `mapstructure:"data_file"  validate:"required"`
	BackupDir string `mapstructure:"backup_dir" validate:"required"`
}

// TaskConfig enables one scheduled task and sets its cron schedule.
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}

// SchedulerConfig maps task names to their schedules.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks"`
}

// LogConfig controls log verbosity and output format.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// MessagesConfig holds the canned user-facing texts so deployments can
// localize them without a rebuild.
type MessagesConfig struct {
	Welcome         string `mapstructure:"welcome"           validate:"required"`
	WelcomeAdmin    string `mapstructure:"welcome_admin"     validate:"required"`
	HelpUser        string `mapstructure:"help_user"         validate:"required"`
	HelpAdmin       string `mapstructure:"help_admin"        validate:"required"`
	Received        string `mapstructure:"received"          validate:"required"`
	NotAuthorized   string `mapstructure:"not_authorized"    validate:"required"`
	GeneralError    string `mapstructure:"general_error"     validate:"required"`
	UserNotFound    string `mapstructure:"user_not_found"    validate:"required"`
	UserBlocked     string `mapstructure:"user_blocked"      validate:"required"`
	ReplyUsage      string `mapstructure:"reply_usage"       validate:"required"`
	ReplySent       string `mapstructure:"reply_sent"        validate:"required"`
	ReplyFailed     string `mapstructure:"reply_failed"      validate:"required"`
	NoSearchResults string `mapstructure:"no_search_results" validate:"required"`
	NoMessages      string `mapstructure:"no_messages"       validate:"required"`
	BackupCreated   string `mapstructure:"backup_created"    validate:"required"`
	BackupFailed    string `mapstructure:"backup_failed"     validate:"required"`
	AdminReplyHint  string `mapstructure:"admin_reply_hint"  validate:"required"`
}

// Load reads configuration from the given YAML file, overlays BOT_*
// environment variables, and validates the result. A missing config file is
// not an error; defaults and environment variables still apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetEnvPrefix("BOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// With SetConfigFile a missing file surfaces as the underlying path
	// error, not viper's ConfigFileNotFoundError.
	if err := v.ReadInConfig(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	// Registering empty defaults makes the keys visible to Unmarshal even
	// when they arrive only via environment variables.
	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.admin_id", 0)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", true)

	v.SetDefault("storage.data_file", "data/messages.json")
	v.SetDefault("storage.backup_dir", "backup")

	v.SetDefault("scheduler.tasks.auto_backup.enabled", true)
	// Six-field cron with a leading seconds field: daily at midnight.
	v.SetDefault("scheduler.tasks.auto_backup.schedule", "0 0 0 * * *")

	v.SetDefault("messages.welcome", defaultWelcome)
	v.SetDefault("messages.welcome_admin", defaultWelcomeAdmin)
	v.SetDefault("messages.help_user", defaultHelpUser)
	v.SetDefault("messages.help_admin", defaultHelpAdmin)
	v.SetDefault("messages.received", "✅ Your message has been received! You will get a reply soon.")
	v.SetDefault("messages.not_authorized", "❌ This command is for the administrator only.")
	v.SetDefault("messages.general_error", "❌ An unexpected error occurred. Please try again.")
	v.SetDefault("messages.user_not_found", "❌ No such user.")
	v.SetDefault("messages.user_blocked", "⚠️ This user is blocked.")
	v.SetDefault("messages.reply_usage", "Usage: /reply <user_id> [message]")
	v.SetDefault("messages.reply_sent", "✅ Reply delivered.")
	v.SetDefault("messages.reply_failed", "❌ Failed to deliver the reply.")
	v.SetDefault("messages.no_search_results", "🔍 No results found.")
	v.SetDefault("messages.no_messages", "📭 No messages yet.")
	v.SetDefault("messages.backup_created", "💾 Backup created.")
	v.SetDefault("messages.backup_failed", "❌ Backup failed.")
	v.SetDefault("messages.admin_reply_hint", "Send /reply <user_id> first, then your next message is relayed to that user.")
}

const defaultWelcome = `🤖 <b>Hello!</b>

Send me a question, a message, or a file and the administrator will see it
and reply to you here. Photos, videos, audio, documents, stickers,
locations, contacts and polls are all accepted.`

const defaultWelcomeAdmin = `🔧 <b>Admin panel</b>

• /messages — list all conversations
• /stats — bot statistics
• /search &lt;query&gt; — search messages
• /reply &lt;user_id&gt; [message] — reply to a user
• /block &lt;user_id&gt; / /unblock &lt;user_id&gt;
• /backup — snapshot the data file`

const defaultHelpUser = `📚 <b>How this works</b>

1. Send me your message or file.
2. The administrator sees it.
3. You receive the reply right here.

Commands: /start, /help`

const defaultHelpAdmin = `🔧 <b>Admin commands</b>

• /messages — list conversations with unread markers
• /stats — totals, active users, top senders
• /reply &lt;user_id&gt; &lt;text&gt; — quick text reply
• /reply &lt;user_id&gt; — arm reply mode; your next message (text or media) is relayed
• /search &lt;query&gt; — case-insensitive message search
• /block &lt;user_id&gt;, /unblock &lt;user_id&gt;
• /backup — write a timestamped backup`

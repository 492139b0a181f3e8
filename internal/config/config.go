// Package config provides configuration loading and validation for the
// bot. Values come from defaults, an optional YAML file, and BOT_*
// environment variables, in that order of precedence.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config defines the application configuration for all components.
type Config struct {
	Logger    LoggerConfig    `mapstructure:"logger"`
	Database  DatabaseConfig  `mapstructure:"database"`
	LINE      LINEConfig      `mapstructure:"line"`
	Schedule  ScheduleConfig  `mapstructure:"schedule"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Server    ServerConfig    `mapstructure:"server"`
}

// LoggerConfig controls log level and output format.
type LoggerConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// DatabaseConfig locates the SQLite database file.
type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// LINEConfig holds the Messaging API credentials and the single
// recipient of reminder pushes.
type LINEConfig struct {
	ChannelSecret      string `mapstructure:"channel_secret"       validate:"required"`
	ChannelAccessToken string `mapstructure:"channel_access_token" validate:"required"`
	UserID             string `mapstructure:"user_id"              validate:"required"`
	APIBaseURL         string `mapstructure:"api_base_url"         validate:"required,url"`
}

// ScheduleConfig fixes the civil day used for weekday indexing. The
// default of +9 is JST; the host timezone never enters the computation.
type ScheduleConfig struct {
	UTCOffsetHours int `mapstructure:"utc_offset_hours" validate:"min=-12,max=14"`
}

// TaskConfig enables and schedules one named task.
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}

// SchedulerConfig maps task names to their cron configuration.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	ListenAddr      string        `mapstructure:"listen_addr"      validate:"required"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"min=1s"`
}

// LoadConfig loads configuration from the given YAML file (which may be
// absent), overlays BOT_* environment variables, and validates the
// result.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetEnvPrefix("BOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine: defaults plus environment
		// variables may form a complete configuration.
		if _, statErr := os.Stat(path); statErr == nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setDefaults registers a default for every known key. Keys must be
// known to viper for environment overrides to reach Unmarshal, so the
// required secrets default to empty strings and validation rejects the
// config when nothing fills them in.
func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.json", true)

	v.SetDefault("database.path", "./gomibot.db")

	v.SetDefault("line.channel_secret", "")
	v.SetDefault("line.channel_access_token", "")
	v.SetDefault("line.user_id", "")
	v.SetDefault("line.api_base_url", "https://api.line.me")

	v.SetDefault("schedule.utc_offset_hours", 9)

	// Evening reminder window: four runs at half-hour spacing. The cron
	// specs include a seconds field and are evaluated in server local
	// time, which deployments keep aligned with the schedule offset.
	v.SetDefault("scheduler.tasks.garbage_reminder.enabled", true)
	v.SetDefault("scheduler.tasks.garbage_reminder.schedule", "0 0,30 19-20 * * *")
	v.SetDefault("scheduler.tasks.sql_maintenance.enabled", true)
	v.SetDefault("scheduler.tasks.sql_maintenance.schedule", "0 0 4 * * 1")

	v.SetDefault("server.listen_addr", ":8080")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
}

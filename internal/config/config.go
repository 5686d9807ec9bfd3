// Package config loads the tool configuration from file, environment and defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/naka-gawa/gh-activity/internal/domain"
)

const (
	configName = ".gh-activity"
	configType = "yaml"
	envPrefix  = "GH_ACTIVITY"
)

// Default configuration values.
const (
	DefaultAuthMode                = "basic"
	DefaultPerPage                 = 100
	DefaultRateLimitFloor          = 2
	DefaultRateLimitRetries        = 3
	DefaultSecondarySleepLimit     = time.Hour
	DefaultMaxLinesOfWork          = 500
	DefaultCommitDetailConcurrency = 10
	DefaultCommentBucketDivisor    = 4
	DefaultStatsRetries            = 3
	DefaultStatsRetryDelay         = 2 * time.Second
)

// DefaultIgnoreFiles are the metadata files whose sole change does not count as work.
var DefaultIgnoreFiles = []string{"changelog.txt", "package.json"}

// Config holds all configuration for the tool.
type Config struct {
	API          APIConfig          `mapstructure:"api"`
	Commits      CommitsConfig      `mapstructure:"commits"`
	Comments     CommentsConfig     `mapstructure:"comments"`
	Contributors ContributorsConfig `mapstructure:"contributors"`
}

// APIConfig holds GitHub API settings.
type APIConfig struct {
	BaseURL             string        `mapstructure:"base_url" validate:"omitempty,url"`
	GraphQLURL          string        `mapstructure:"graphql_url" validate:"omitempty,url"`
	AuthMode            string        `mapstructure:"auth_mode" validate:"oneof=basic bearer"`
	PerPage             int           `mapstructure:"per_page" validate:"min=1,max=100"`
	RateLimitFloor      int           `mapstructure:"rate_limit_floor" validate:"min=1"`
	RateLimitRetries    int           `mapstructure:"rate_limit_retries" validate:"min=1"`
	SecondarySleepLimit time.Duration `mapstructure:"secondary_sleep_limit" validate:"gt=0"`
}

// CommitsConfig holds commit filtering settings.
type CommitsConfig struct {
	MaxLinesOfWork    int      `mapstructure:"max_lines_of_work" validate:"min=1"`
	IgnoreFiles       []string `mapstructure:"ignore_files"`
	DetailConcurrency int      `mapstructure:"detail_concurrency" validate:"min=0"`
}

// CommentsConfig holds comment fetching settings.
type CommentsConfig struct {
	BucketDivisor int `mapstructure:"bucket_divisor" validate:"min=1"`
}

// ContributorsConfig holds contributor statistics settings.
type ContributorsConfig struct {
	StatsRetries    int           `mapstructure:"stats_retries" validate:"min=0"`
	StatsRetryDelay time.Duration `mapstructure:"stats_retry_delay" validate:"gte=0"`
}

// LoadConfig reads the configuration. An explicit configPath must exist;
// otherwise .gh-activity.yaml is looked up in the working directory and then
// $HOME, and running without any file uses the defaults.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType(configType)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName(configName)
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the struct tags of the configuration.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return domain.NewError(domain.KindValidation, "validate config", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	defaults := map[string]any{
		"api.base_url":                   "",
		"api.graphql_url":                "",
		"api.auth_mode":                  DefaultAuthMode,
		"api.per_page":                   DefaultPerPage,
		"api.rate_limit_floor":           DefaultRateLimitFloor,
		"api.rate_limit_retries":         DefaultRateLimitRetries,
		"api.secondary_sleep_limit":      DefaultSecondarySleepLimit,
		"commits.max_lines_of_work":      DefaultMaxLinesOfWork,
		"commits.ignore_files":           DefaultIgnoreFiles,
		"commits.detail_concurrency":     DefaultCommitDetailConcurrency,
		"comments.bucket_divisor":        DefaultCommentBucketDivisor,
		"contributors.stats_retries":     DefaultStatsRetries,
		"contributors.stats_retry_delay": DefaultStatsRetryDelay,
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
}

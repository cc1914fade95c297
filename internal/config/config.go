package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all server configuration
type Config struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`

	StorageType string `mapstructure:"storage_type"`
	RedisURL    string `mapstructure:"redis_url"`

	DictionaryPath string `mapstructure:"dictionary_path"`

	// AcceptAllWords disables dictionary validation of guesses
	AcceptAllWords bool `mapstructure:"accept_all_words"`

	// ChallengeWindow is how long a challenge stays fresh and how long
	// duplicate re-sends are suppressed
	ChallengeWindow time.Duration `mapstructure:"challenge_window"`

	// GuessDedupWindow is how long an identical re-submitted guess is
	// treated as a client retry
	GuessDedupWindow time.Duration `mapstructure:"guess_dedup_window"`

	LogLevel string `mapstructure:"log_level"`
}

// Load reads configuration from an optional config file and WORDDUEL_*
// environment variables, with env taking precedence over the file.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("host", "")
	v.SetDefault("port", 8080)
	v.SetDefault("storage_type", "memory")
	v.SetDefault("redis_url", "redis://localhost:6379")
	v.SetDefault("dictionary_path", "data/words.txt")
	v.SetDefault("accept_all_words", false)
	v.SetDefault("challenge_window", time.Minute)
	v.SetDefault("guess_dedup_window", 3*time.Second)
	v.SetDefault("log_level", "info")

	v.SetEnvPrefix("WORDDUEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

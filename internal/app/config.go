package app

import "time"

// TokenEnv overrides the stored session token when set.
const TokenEnv = "HIREMATCH_TOKEN"

// Config is decoded from viper; keys match the CLI flags and config file.
type Config struct {
	APIBaseURL string        `mapstructure:"api-base-url"`
	TokenFile  string        `mapstructure:"token-file"`
	StorePath  string        `mapstructure:"store-path"`
	UserAgent  string        `mapstructure:"user-agent"`
	Timeout    time.Duration `mapstructure:"timeout"`
	Color      bool          `mapstructure:"color"`
	Cache      CacheConfig   `mapstructure:"cache"`
	AI         AIConfig      `mapstructure:"ai"`
	Filters    FiltersConfig `mapstructure:"filters"`
}

type CacheConfig struct {
	// Backend is "memory" or "redis".
	Backend  string `mapstructure:"backend"`
	RedisURL string `mapstructure:"redis-url"`
	Prefix   string `mapstructure:"prefix"`
}

type AIConfig struct {
	Enabled bool         `mapstructure:"enabled"`
	Gemini  GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	Model        string `mapstructure:"model"`
	APIKey       string `mapstructure:"api-key"`
	APIKeyFile   string `mapstructure:"api-key-file"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

// FiltersConfig holds the persistent parts of the recommendation filters.
type FiltersConfig struct {
	Companies   []string `mapstructure:"companies"`
	ExcludeFile string   `mapstructure:"exclude-file"`
}

const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

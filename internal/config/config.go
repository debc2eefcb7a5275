package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App       App       `mapstructure:"app"`
	AI        AI        `mapstructure:"ai"`
	Server    Server    `mapstructure:"server"`
	Scheduler Scheduler `mapstructure:"scheduler"`
	Twitter   Twitter   `mapstructure:"twitter"`
}

// App holds general application configuration
type App struct {
	DataDir  string `mapstructure:"data_dir"`
	LogLevel string `mapstructure:"log_level"`
}

// AI holds LLM provider and orchestration configuration
type AI struct {
	OpenAI      OpenAIConfig    `mapstructure:"openai"`
	Anthropic   AnthropicConfig `mapstructure:"anthropic"`
	CacheTTL    time.Duration   `mapstructure:"cache_ttl"`
	MaxRetries  int             `mapstructure:"max_retries"`
	Timeout     time.Duration   `mapstructure:"timeout"`
	Temperature float64         `mapstructure:"temperature"`
	MaxTokens   int             `mapstructure:"max_tokens"`
}

// OpenAIConfig holds OpenAI provider configuration
type OpenAIConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// AnthropicConfig holds Anthropic provider configuration
type AnthropicConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// Server holds HTTP server configuration
type Server struct {
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
}

// Scheduler holds the daily generation schedule configuration
type Scheduler struct {
	Enabled bool   `mapstructure:"enabled"`
	Hours   string `mapstructure:"hours"` // comma-separated hours of day, e.g. "9,15,21"
}

// Twitter holds the tweet source configuration
type Twitter struct {
	BearerToken string `mapstructure:"bearer_token"`
}

var globalConfig *Config

// Load reads configuration from an optional config file, .env, and the
// environment, and returns the merged result.
func Load(configFile string) (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			fmt.Printf("Warning: Error loading .env file: %v\n", err)
		}
	}

	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
		viper.SetConfigName(".trendpulse")
		viper.SetConfigType("yaml")
	}

	setDefaults()
	bindEnvironmentVariables()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, err
	}

	globalConfig = config
	return config, nil
}

// Get returns the global configuration, loading it if necessary
func Get() *Config {
	if globalConfig == nil {
		config, err := Load("")
		if err != nil {
			panic(fmt.Sprintf("Failed to load configuration: %v", err))
		}
		return config
	}
	return globalConfig
}

// setDefaults sets default configuration values
func setDefaults() {
	viper.SetDefault("app.data_dir", ".trendpulse")
	viper.SetDefault("app.log_level", "info")

	viper.SetDefault("ai.openai.model", "gpt-4o-mini")
	viper.SetDefault("ai.anthropic.model", "claude-3-5-sonnet-20241022")
	viper.SetDefault("ai.cache_ttl", "3600s")
	viper.SetDefault("ai.max_retries", 3)
	viper.SetDefault("ai.timeout", "30s")
	viper.SetDefault("ai.temperature", 0.7)
	viper.SetDefault("ai.max_tokens", 2000)

	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8000)
	viper.SetDefault("server.read_timeout", "15s")
	viper.SetDefault("server.write_timeout", "30s")
	viper.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	viper.SetDefault("scheduler.enabled", true)
	viper.SetDefault("scheduler.hours", "9,15,21")
}

// bindEnvironmentVariables sets up flexible environment variable binding
func bindEnvironmentVariables() {
	bindEnvKeys("ai.openai.api_key", []string{"OPENAI_API_KEY"})
	bindEnvKeys("ai.anthropic.api_key", []string{"ANTHROPIC_API_KEY", "CLAUDE_API_KEY"})
	bindEnvKeys("twitter.bearer_token", []string{"TWITTER_BEARER_TOKEN"})
}

// bindEnvKeys binds a config key to the first matching environment variable
func bindEnvKeys(configKey string, envKeys []string) {
	for _, envKey := range envKeys {
		if value := os.Getenv(envKey); value != "" {
			viper.Set(configKey, value)
			return
		}
	}
}

// validateConfig performs sanity checks on the loaded configuration
func validateConfig(config *Config) error {
	if config.AI.MaxRetries < 1 {
		return fmt.Errorf("ai.max_retries must be at least 1, got %d", config.AI.MaxRetries)
	}
	if config.AI.Timeout <= 0 {
		return fmt.Errorf("ai.timeout must be positive, got %s", config.AI.Timeout)
	}
	if config.AI.Temperature < 0 || config.AI.Temperature > 1 {
		return fmt.Errorf("ai.temperature must be in [0,1], got %f", config.AI.Temperature)
	}
	if config.Server.Port < 1 || config.Server.Port > 65535 {
		return fmt.Errorf("server.port must be a valid port, got %d", config.Server.Port)
	}
	for _, field := range strings.Split(config.Scheduler.Hours, ",") {
		hour := strings.TrimSpace(field)
		if hour == "" {
			return fmt.Errorf("scheduler.hours contains an empty entry: %q", config.Scheduler.Hours)
		}
		for _, r := range hour {
			if r < '0' || r > '9' {
				return fmt.Errorf("scheduler.hours must be comma-separated hours, got %q", config.Scheduler.Hours)
			}
		}
	}
	return nil
}

package config

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Log      LogConfig
	CORS     CORSConfig
	Pipeline PipelineConfig
	Vision   ProviderSet
	Analysis ProviderSet
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// PipelineConfig holds extraction pipeline settings.
type PipelineConfig struct {
	PageWorkers   int   `mapstructure:"page_workers"`
	RenderDPI     int   `mapstructure:"render_dpi"`
	MaxFileSizeMB int64 `mapstructure:"max_file_size_mb"`
}

// ProviderConfig holds settings for a single AI provider slot.
type ProviderConfig struct {
	Provider         string        `mapstructure:"provider"`
	APIKey           string        `mapstructure:"api_key"`
	Model            string        `mapstructure:"model"`
	BaseURL          string        `mapstructure:"base_url"`
	MaxTokens        int           `mapstructure:"max_tokens"`
	Temperature      float64       `mapstructure:"temperature"`
	TimeoutSecs      int           `mapstructure:"timeout_secs"`
	MaxRetryAttempts int           `mapstructure:"max_retry_attempts"`
	RetryDelay       time.Duration `mapstructure:"retry_delay"`
}

// ProviderSet holds the ordered provider slots for one pipeline phase.
// The primary slot is always tried first; secondary and tertiary are the
// fallback alternatives, in that order.
type ProviderSet struct {
	Primary   ProviderConfig `mapstructure:"primary"`
	Secondary ProviderConfig `mapstructure:"secondary"`
	Tertiary  ProviderConfig `mapstructure:"tertiary"`
}

// Slots returns the configured provider slots in registration order,
// skipping empty ones.
func (s *ProviderSet) Slots() []ProviderConfig {
	var out []ProviderConfig
	for _, cfg := range []ProviderConfig{s.Primary, s.Secondary, s.Tertiary} {
		if cfg.Provider != "" {
			out = append(out, cfg)
		}
	}
	return out
}

// PrimaryName returns the provider name of the primary slot.
func (s *ProviderSet) PrimaryName() string {
	return s.Primary.Provider
}

// Load reads configuration from environment variables with the VERIDOC_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("VERIDOC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "300s")
	v.SetDefault("server.environment", "development")

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Pipeline defaults
	v.SetDefault("pipeline.page_workers", 4)
	v.SetDefault("pipeline.render_dpi", 300)
	v.SetDefault("pipeline.max_file_size_mb", 25)

	for _, phase := range []string{"vision", "analysis"} {
		for _, slot := range []string{"primary", "secondary", "tertiary"} {
			p := phase + "." + slot + "."
			v.SetDefault(p+"provider", "")
			v.SetDefault(p+"api_key", "")
			v.SetDefault(p+"model", "")
			v.SetDefault(p+"base_url", "")
			v.SetDefault(p+"max_tokens", 16384)
			v.SetDefault(p+"temperature", 0.0)
			v.SetDefault(p+"timeout_secs", 120)
			v.SetDefault(p+"max_retry_attempts", 2)
			v.SetDefault(p+"retry_delay", "2s")
		}
	}
	v.SetDefault("vision.primary.provider", "openai")
	v.SetDefault("analysis.primary.provider", "openai")

	// Bind environment variables explicitly for nested keys
	keys := []string{
		"server.port", "server.read_timeout", "server.write_timeout", "server.environment",
		"log.level", "log.format",
		"cors.allowed_origins",
		"pipeline.page_workers", "pipeline.render_dpi", "pipeline.max_file_size_mb",
	}
	providerKeys := []string{
		"provider", "api_key", "model", "base_url",
		"max_tokens", "temperature", "timeout_secs", "max_retry_attempts", "retry_delay",
	}
	for _, phase := range []string{"vision", "analysis"} {
		for _, slot := range []string{"primary", "secondary", "tertiary"} {
			for _, k := range providerKeys {
				keys = append(keys, phase+"."+slot+"."+k)
			}
		}
	}
	for _, key := range keys {
		env := "VERIDOC_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if VERIDOC_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("VERIDOC_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{AllowedOrigins: corsOrigins}

	cfg.Pipeline = PipelineConfig{
		PageWorkers:   v.GetInt("pipeline.page_workers"),
		RenderDPI:     v.GetInt("pipeline.render_dpi"),
		MaxFileSizeMB: v.GetInt64("pipeline.max_file_size_mb"),
	}

	cfg.Vision = loadProviderSet(v, "vision")
	cfg.Analysis = loadProviderSet(v, "analysis")

	return cfg, nil
}

func loadProviderSet(v *viper.Viper, phase string) ProviderSet {
	load := func(slot string) ProviderConfig {
		p := phase + "." + slot + "."
		return ProviderConfig{
			Provider:         v.GetString(p + "provider"),
			APIKey:           v.GetString(p + "api_key"),
			Model:            v.GetString(p + "model"),
			BaseURL:          v.GetString(p + "base_url"),
			MaxTokens:        v.GetInt(p + "max_tokens"),
			Temperature:      v.GetFloat64(p + "temperature"),
			TimeoutSecs:      v.GetInt(p + "timeout_secs"),
			MaxRetryAttempts: v.GetInt(p + "max_retry_attempts"),
			RetryDelay:       v.GetDuration(p + "retry_delay"),
		}
	}
	return ProviderSet{
		Primary:   load("primary"),
		Secondary: load("secondary"),
		Tertiary:  load("tertiary"),
	}
}

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	FileName    = "config.json"
	EnvFileName = "config.env"

	EngineOllama = "ollama"
)

type Config struct {
	Engine  string `mapstructure:"engine"`
	APIBase string `mapstructure:"api_base" validate:"omitempty,url"`
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model" validate:"required"`
	Stream  bool   `mapstructure:"stream"`

	Concurrency           int    `mapstructure:"concurrency" validate:"gte=0"`
	HostedConcurrency     int    `mapstructure:"hosted_concurrency" validate:"gte=1"`
	SoftLimit             int    `mapstructure:"soft_limit" validate:"gte=1"`
	RequestTimeoutSeconds int    `mapstructure:"request_timeout_seconds" validate:"gte=1"`
	LogLevel              string `mapstructure:"log_level" validate:"omitempty,oneof=debug info warn error"`
	AuditPostgresURL      string `mapstructure:"audit_postgres_url"`
	TemporalAddress       string `mapstructure:"temporal_address"`
	TemporalTaskQueue     string `mapstructure:"temporal_task_queue"`
}

// IsLocal reports whether the engine is the self-hosted generation server.
// Every other engine value means a hosted chat-completion API.
func (c Config) IsLocal() bool {
	return c.Engine == EngineOllama
}

// Load reads config.json from dir, falling back to config.env and then to
// defaults when neither file exists.
func Load(dir string) (Config, error) {
	jsonPath := filepath.Join(dir, FileName)
	if exists(jsonPath) {
		return LoadFile(jsonPath)
	}
	envPath := filepath.Join(dir, EnvFileName)
	if exists(envPath) {
		return LoadFile(envPath)
	}
	return finish(newViper())
}

// LoadFile reads a JSON config, or a dotenv-format one when the name ends in .env.
func LoadFile(path string) (Config, error) {
	v := newViper()
	if strings.EqualFold(filepath.Ext(path), ".env") {
		values, err := godotenv.Read(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		for k, val := range values {
			v.Set(strings.ToLower(strings.TrimSpace(k)), val)
		}
		return finish(v)
	}

	v.SetConfigFile(path)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	return finish(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("engine", EngineOllama)
	v.SetDefault("api_base", "")
	v.SetDefault("api_key", "")
	v.SetDefault("model", "llama3.2:3b")
	v.SetDefault("stream", false)
	v.SetDefault("concurrency", 1)
	v.SetDefault("hosted_concurrency", 5)
	v.SetDefault("soft_limit", 500)
	v.SetDefault("request_timeout_seconds", 120)
	v.SetDefault("log_level", "info")
	v.SetDefault("audit_postgres_url", "")
	v.SetDefault("temporal_address", "localhost:7233")
	v.SetDefault("temporal_task_queue", "squish")
	return v
}

func finish(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.Engine = strings.TrimSpace(cfg.Engine)
	cfg.APIBase = strings.TrimRight(strings.TrimSpace(cfg.APIBase), "/")
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func Validate(cfg Config) error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("invalid config field %s: failed %q", verrs[0].Field(), verrs[0].Tag())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func exists(path string) bool {
	st, err := os.Stat(path)
	return err == nil && !st.IsDir()
}

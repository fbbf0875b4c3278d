package infra

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"clob_go/internal/domain"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultUserAgent is sent on every request unless overridden
	DefaultUserAgent = "py_clob_client"

	DefaultClobURL = "https://clob.polymarket.com"
	DefaultDataURL = "https://data-api.polymarket.com"
)

// Config holds all application settings.
// After LoadConfig reads the file, environment variables override endpoints.
type Config struct {
	App struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"app"`

	API struct {
		Clob struct {
			RestURL   string `yaml:"rest_url" validate:"required,http_url"`
			UserAgent string `yaml:"user_agent"`
			TimeoutMS int    `yaml:"timeout_ms" validate:"min=0"` // 0 = no client timeout
		} `yaml:"clob"`
		Data struct {
			RestURL string `yaml:"rest_url" validate:"omitempty,http_url"`
		} `yaml:"data"`
	} `yaml:"api"`

	Quote struct {
		Tokens          []string        `yaml:"tokens" validate:"dive,required"`
		DefaultAmount   decimal.Decimal `yaml:"default_amount"`
		PollIntervalSec int             `yaml:"poll_interval_sec" validate:"min=0"`
	} `yaml:"quote"`

	Storage struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"` // empty = OS config dir
	} `yaml:"storage"`

	Logging struct {
		Level string `yaml:"level" validate:"oneof=debug info warn error"`
		Dir   string `yaml:"dir"`
	} `yaml:"logging"`
}

// DefaultConfig returns a Config usable without a file.
func DefaultConfig() *Config {
	var cfg Config
	applyDefaults(&cfg)
	return &cfg
}

// LoadConfig reads and parses the config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrConfigNotFound, path)
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)
	cfg.ApplyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

var validate = newValidator()

// newValidator reports fields by their yaml path.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks configuration validity
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) || len(verrs) == 0 {
			return &domain.ConfigError{Field: "config", Err: err}
		}
		fe := verrs[0]
		field := strings.TrimPrefix(fe.Namespace(), "Config.")
		return &domain.ConfigError{Field: field, Err: fmt.Errorf("value %v failed %q", fe.Value(), fe.Tag())}
	}

	// decimal.Decimal has no exported fields for tags to check
	if c.Quote.DefaultAmount.IsNegative() {
		return &domain.ConfigError{Field: "quote.default_amount", Err: errors.New("must not be negative")}
	}

	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "clob_go"
	}
	if cfg.API.Clob.RestURL == "" {
		cfg.API.Clob.RestURL = DefaultClobURL
	}
	if cfg.API.Clob.UserAgent == "" {
		cfg.API.Clob.UserAgent = DefaultUserAgent
	}
	if cfg.API.Data.RestURL == "" {
		cfg.API.Data.RestURL = DefaultDataURL
	}
	if cfg.Quote.DefaultAmount.IsZero() {
		cfg.Quote.DefaultAmount = decimal.NewFromInt(100)
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Dir == "" {
		cfg.Logging.Dir = "logs"
	}
}

// LoadDotEnv exports the variables of a .env file into the process
// environment without overriding ones already set. A missing file is not an
// error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// ApplyEnv replaces settings with environment variables when set.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("CLOB_REST_URL"); v != "" {
		c.API.Clob.RestURL = v
	}
	if v := os.Getenv("CLOB_DATA_URL"); v != "" {
		c.API.Data.RestURL = v
	}
	if v := os.Getenv("CLOB_USER_AGENT"); v != "" {
		c.API.Clob.UserAgent = v
	}
	if v := os.Getenv("CLOB_LOG_LEVEL"); v != "" {
		c.Logging.Level = strings.ToLower(v)
	}
}

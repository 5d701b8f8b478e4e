package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. FFCALC_SERVER_ADDR.
const EnvPrefix = "FFCALC"

// Settings configures the CLI and the HTTP server. Scenario inputs live in Input.
type Settings struct {
	Log        LogSettings        `mapstructure:"log"`
	Server     ServerSettings     `mapstructure:"server"`
	Simulation SimulationSettings `mapstructure:"simulation"`
}

// LogSettings selects the log level and output format.
type LogSettings struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=text json"`
}

// ServerSettings configures the projection API.
type ServerSettings struct {
	Addr            string        `mapstructure:"addr" validate:"required"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" validate:"gt=0"`
	MaxBodyBytes    int           `mapstructure:"max_body_bytes" validate:"gte=1024"`
	SessionTTL      time.Duration `mapstructure:"session_ttl" validate:"gt=0"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval" validate:"gt=0"`
	RateLimit       float64       `mapstructure:"rate_limit" validate:"gt=0"`
	RateBurst       int           `mapstructure:"rate_burst" validate:"gte=1"`
}

// SimulationSettings bounds the work a single request may ask for.
type SimulationSettings struct {
	MaxYears              int `mapstructure:"max_years" validate:"gte=1,lte=500"`
	MonteCarloSimulations int `mapstructure:"monte_carlo_simulations" validate:"gte=1,lte=100000"`
	MonteCarloConcurrency int `mapstructure:"monte_carlo_concurrency" validate:"gte=1,lte=256"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.max_body_bytes", 1<<20)
	v.SetDefault("server.session_ttl", 30*time.Minute)
	v.SetDefault("server.cleanup_interval", 5*time.Minute)
	v.SetDefault("server.rate_limit", 20.0)
	v.SetDefault("server.rate_burst", 40)

	v.SetDefault("simulation.max_years", 120)
	v.SetDefault("simulation.monte_carlo_simulations", 1000)
	v.SetDefault("simulation.monte_carlo_concurrency", 10)
}

// LoadSettings reads settings from an optional YAML file, FFCALC_* environment variables
// and defaults, in that order of precedence (environment first). ${VAR} placeholders in
// the file are expanded. An empty path skips the file.
func LoadSettings(path string) (*Settings, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read settings file: %w", err)
		}
		expanded := os.ExpandEnv(string(data))
		if err := v.ReadConfig(bytes.NewBufferString(expanded)); err != nil {
			return nil, fmt.Errorf("failed to parse settings file: %w", err)
		}
	}

	settings := &Settings{}
	if err := v.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal settings: %w", err)
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

// Validate checks every settings field.
func (s *Settings) Validate() error {
	if err := validator.New().Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return formatValidationErrors(verrs)
		}
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}

// formatValidationErrors formats validation errors into a readable message
func formatValidationErrors(errs validator.ValidationErrors) error {
	var messages []string
	for _, err := range errs {
		field := err.Namespace()
		switch err.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required", field))
		case "oneof":
			messages = append(messages, fmt.Sprintf("%s must be one of [%s]", field, err.Param()))
		case "gt", "gte", "lte":
			messages = append(messages, fmt.Sprintf("%s fails %s=%s (got %v)", field, err.Tag(), err.Param(), err.Value()))
		default:
			messages = append(messages, fmt.Sprintf("%s failed validation: %s", field, err.Tag()))
		}
	}
	return fmt.Errorf("invalid settings: %s", strings.Join(messages, "; "))
}

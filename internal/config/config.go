package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Config stores environment-driven settings for the deployment run.
type Config struct {
	// LogLevel sets the logger level.
	LogLevel string `env:"CRAWLER_INIT_LOG_LEVEL" envDefault:"info"`
	// LogFormat selects the log handler ("text" or "json").
	LogFormat string `env:"CRAWLER_INIT_LOG_FORMAT" envDefault:"text"`
	// Lang selects message language for console output.
	Lang string `env:"CRAWLER_INIT_LANG" envDefault:"en"`
	// Workdir is the Compose project directory.
	Workdir string `env:"CRAWLER_INIT_WORKDIR" envDefault:"."`
	// OverlayFile is the generated overlay path, relative to Workdir.
	OverlayFile string `env:"CRAWLER_INIT_OVERLAY_FILE" envDefault:"compose.override.yaml"`
	// ServicePrefix prefixes the position in generated service names.
	ServicePrefix string `env:"CRAWLER_INIT_SERVICE_PREFIX" envDefault:"video-recorder"`
	// BaseService is the service every generated block extends.
	BaseService string `env:"CRAWLER_INIT_BASE_SERVICE" envDefault:"video-recorder"`
	// BaseFile is the Compose file declaring BaseService.
	BaseFile string `env:"CRAWLER_INIT_BASE_FILE" envDefault:"common-services.yaml"`
	// ComposeFile is the base Compose file, passed with -f when the overlay
	// is not discoverable as compose.override.yaml in Workdir.
	ComposeFile string `env:"CRAWLER_INIT_COMPOSE_FILE" envDefault:"compose.yaml"`
	// ComposeCommand is the Compose entry point.
	ComposeCommand []string `env:"CRAWLER_INIT_COMPOSE_COMMAND" envDefault:"docker compose" envSeparator:" "`
	// ComposeEnv adds variables to the Compose process environment.
	ComposeEnv map[string]string `env:"CRAWLER_INIT_COMPOSE_ENV"`
}

// Load parses environment variables into Config.
func Load() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// LoadFrom parses Config from the given variables instead of the process environment.
func LoadFrom(environ map[string]string) (Config, error) {
	cfg, err := env.ParseAsWithOptions[Config](env.Options{Environment: environ})
	if err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// Validate verifies required fields.
func (c Config) Validate() error {
	if strings.TrimSpace(c.OverlayFile) == "" {
		return fmt.Errorf("CRAWLER_INIT_OVERLAY_FILE is required")
	}
	if strings.TrimSpace(c.ComposeFile) == "" {
		return fmt.Errorf("CRAWLER_INIT_COMPOSE_FILE is required")
	}
	if len(c.ComposeCommand) == 0 || strings.TrimSpace(c.ComposeCommand[0]) == "" {
		return fmt.Errorf("CRAWLER_INIT_COMPOSE_COMMAND is required")
	}
	switch strings.ToLower(strings.TrimSpace(c.LogFormat)) {
	case "text", "json":
	default:
		return fmt.Errorf("CRAWLER_INIT_LOG_FORMAT must be text or json")
	}
	return nil
}

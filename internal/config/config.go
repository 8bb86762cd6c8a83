// Package config loads routectl settings from defaults, routectl.yaml,
// ROUTECTL_ environment variables and command line flags, in rising priority.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	env "github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/toyz/routectl/internal/registry"
)

const (
	// DefaultFile is read from the working directory when no file is given
	DefaultFile = "routectl.yaml"
	// EnvPrefix marks the environment variables that override settings
	EnvPrefix = "ROUTECTL_"
)

// Config holds the settings of one routectl run
type Config struct {
	Module   string         `koanf:"module"`
	Output   OutputConfig   `koanf:"output"`
	Log      LogConfig      `koanf:"log"`
	Features FeaturesConfig `koanf:"features"`
	Verbose  bool           `koanf:"verbose"`
	Quiet    bool           `koanf:"quiet" validate:"excluded_if=Verbose true"`
}

// OutputConfig controls the generated file
type OutputConfig struct {
	Filename string `koanf:"filename" validate:"required,endswith=.go,excludesall=/\\"`
}

// LogConfig controls the pass trace logger
type LogConfig struct {
	Level  string `koanf:"level" validate:"omitempty,oneof=trace debug info warn error disabled"`
	Pretty bool   `koanf:"pretty"`
}

// FeaturesConfig toggles the host capabilities context extractors rely on
type FeaturesConfig struct {
	Headers  bool `koanf:"headers"`
	Cookies  bool `koanf:"cookies"`
	Sessions bool `koanf:"sessions"`
}

// Capabilities returns the enabled host capabilities
func (c *Config) Capabilities() registry.Capabilities {
	return registry.Capabilities{
		Headers:  c.Features.Headers,
		Cookies:  c.Features.Cookies,
		Sessions: c.Features.Sessions,
	}
}

// Options select the sources Load reads
type Options struct {
	// File is the YAML file to read. An empty value reads DefaultFile if present;
	// an explicit file must exist.
	File string
	// Flags are dotted keys set on the command line
	Flags map[string]any
	// Environ replaces os.Environ, for tests
	Environ func() []string
}

// Load builds the configuration from all sources and validates it
func Load(opts Options) (*Config, error) {
	k := koanf.New(".")

	if err := loadDefaults(k); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if err := loadFile(k, opts.File); err != nil {
		return nil, err
	}

	environ := opts.Environ
	if environ == nil {
		environ = os.Environ
	}
	if err := k.Load(env.Provider(".", env.Opt{
		Prefix:        EnvPrefix,
		TransformFunc: transformEnv,
		EnvironFunc:   environ,
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if len(opts.Flags) > 0 {
		if err := k.Load(confmap.Provider(opts.Flags, "."), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func loadDefaults(k *koanf.Koanf) error {
	caps := registry.DefaultCapabilities()
	defaults := map[string]any{
		"module":            "",
		"output.filename":   "autogen_routes.go",
		"log.level":         "warn",
		"log.pretty":        false,
		"features.headers":  caps.Headers,
		"features.cookies":  caps.Cookies,
		"features.sessions": caps.Sessions,
		"verbose":           false,
		"quiet":             false,
	}
	return k.Load(confmap.Provider(defaults, "."), nil)
}

func loadFile(k *koanf.Koanf, path string) error {
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	if _, err := os.Stat(path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("failed to load config file %s: %w", path, err)
	}
	return nil
}

// transformEnv maps ROUTECTL_OUTPUT_FILENAME to output.filename
func transformEnv(key, value string) (string, any) {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	return strings.ReplaceAll(key, "_", "."), value
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the struct constraints of cfg
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fieldMessage(fe))
			}
			return errors.New(strings.Join(msgs, "; "))
		}
		return err
	}
	return nil
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.ToLower(strings.TrimPrefix(fe.Namespace(), "Config."))
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "endswith":
		return fmt.Sprintf("%s must end with %s", field, fe.Param())
	case "excludesall":
		return fmt.Sprintf("%s must be a file name, not a path", field)
	case "excluded_if":
		return "quiet and verbose cannot both be set"
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

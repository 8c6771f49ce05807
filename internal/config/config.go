// Package config loads objreloc settings from an optional JSON file and the
// environment.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Config represents configuration for the objreloc tool
type Config struct {
	Objdump string `json:"objdump,omitempty" jsonschema:"title=Objdump,description=objdump binary used to disassemble object files,default=gobjdump"`
	Section string `json:"section,omitempty" jsonschema:"title=Section,description=Section whose relocation records are listed,default=.text"`
	Verbose bool   `json:"verbose,omitempty" jsonschema:"title=Verbose,description=Prefix printed fields with their labels"`
	Debug   bool   `json:"debug,omitempty" jsonschema:"title=Debug,description=Enable debug logging"`
	NoColor bool   `json:"noColor,omitempty" jsonschema:"title=No Color,description=Disable colored output"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Objdump: "gobjdump",
		Section: ".text",
	}
}

// Load reads path over the defaults, then applies environment overrides.
// An empty path falls back to OBJRELOC_CONFIG; if that is unset too only
// defaults and environment apply.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = os.Getenv("OBJRELOC_CONFIG")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := json.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if v := os.Getenv("OBJRELOC_OBJDUMP"); v != "" {
		cfg.Objdump = v
	}
	if os.Getenv("OBJRELOC_NO_COLOR") != "" {
		cfg.NoColor = true
	}
	return cfg, cfg.Validate()
}

// Validate checks that required settings are present.
func (c Config) Validate() error {
	var errs []error
	if c.Objdump == "" {
		errs = append(errs, errors.New("objdump must not be empty"))
	}
	if c.Section == "" {
		errs = append(errs, errors.New("section must not be empty"))
	}
	return errors.Join(errs...)
}

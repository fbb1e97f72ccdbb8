package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"

	"github.com/zephyrtronium/knight"
)

// Config holds the interpreter settings read from the config file.
type Config struct {
	// MaxDepth limits the nesting of expressions.
	MaxDepth int `yaml:"max_depth"`
	// Seed seeds RANDOM. Zero selects a seed from the clock.
	Seed int64 `yaml:"seed"`
	// Checked makes arithmetic overflow an error.
	Checked bool `yaml:"checked"`
	// Shell is the shell that runs commands for `.
	Shell string `yaml:"shell"`
	// Encoding is the character encoding of programs and input.
	Encoding string `yaml:"encoding"`
	// History is the file holding REPL history. Empty disables history.
	History string `yaml:"history"`
	// Prompt is the REPL prompt.
	Prompt string `yaml:"prompt"`
	// LogLevel is the minimum level of diagnostics to log.
	LogLevel string `yaml:"log_level"`
	// TimeFormat is the strftime format of log timestamps.
	TimeFormat string `yaml:"time_format"`
	// Trace logs every function application.
	Trace bool `yaml:"trace"`
}

// DefaultConfig returns the settings used when no config file exists.
func DefaultConfig() Config {
	c := Config{
		MaxDepth:   knight.DefaultMaxDepth,
		Shell:      "sh",
		Encoding:   "utf8",
		Prompt:     "knight> ",
		LogLevel:   "warn",
		TimeFormat: "%Y-%m-%d %H:%M:%S",
	}
	if home, err := os.UserHomeDir(); err == nil {
		c.History = filepath.Join(home, ".knight_history")
	}
	return c
}

// defaultConfigPath returns the config file used when none is named.
func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".knight.yaml")
}

// LoadConfig reads the config file at path over the defaults. If the file
// does not exist and required is false, the defaults are returned.
func LoadConfig(path string, required bool) (Config, error) {
	c := DefaultConfig()
	if path == "" {
		return c, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			return c, nil
		}
		return c, err
	}
	if err := yaml.UnmarshalStrict(b, &c); err != nil {
		return c, fmt.Errorf("config %s: %w", path, err)
	}
	if c.MaxDepth <= 0 {
		return c, fmt.Errorf("config %s: max_depth must be positive, not %d", path, c.MaxDepth)
	}
	return c, nil
}

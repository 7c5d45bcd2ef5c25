// Package config provides centralized configuration management using Viper.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DefaultAPIURL is the hosted quiz backend.
const DefaultAPIURL = "https://personalityquizbackend.vercel.app"

// Config holds all configuration values for persona.
type Config struct {
	APIURL         string        `mapstructure:"api_url" yaml:"api_url"`
	SettleDuration time.Duration `mapstructure:"settle_duration" yaml:"settle_duration"`
	WheelThreshold float64       `mapstructure:"wheel_threshold" yaml:"wheel_threshold"`
	WheelDebounce  time.Duration `mapstructure:"wheel_debounce" yaml:"wheel_debounce"`
	WheelTickDelta float64       `mapstructure:"wheel_tick_delta" yaml:"wheel_tick_delta"`
	SwipeDistance  float64       `mapstructure:"swipe_distance" yaml:"swipe_distance"`
	CellHeight     float64       `mapstructure:"cell_height" yaml:"cell_height"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" yaml:"request_timeout"`
	ResultTemplate string        `mapstructure:"result_template" yaml:"result_template"`
	LogLevel       string        `mapstructure:"log_level" yaml:"log_level"`
	LogFile        string        `mapstructure:"log_file" yaml:"log_file"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		APIURL:         DefaultAPIURL,
		SettleDuration: 600 * time.Millisecond,
		WheelThreshold: 100,
		WheelDebounce:  50 * time.Millisecond,
		WheelTickDelta: 40,
		SwipeDistance:  50,
		CellHeight:     16,
		RequestTimeout: 15 * time.Second,
		ResultTemplate: "",
		LogLevel:       "info",
		LogFile:        "",
	}
}

// keys lists every config key; each is bound to PERSONA_<KEY>.
var keys = []string{
	"api_url",
	"settle_duration",
	"wheel_threshold",
	"wheel_debounce",
	"wheel_tick_delta",
	"swipe_distance",
	"cell_height",
	"request_timeout",
	"result_template",
	"log_level",
	"log_file",
}

// Load loads configuration with full precedence:
// CLI flags > ENV vars > project config > XDG global config > defaults
// Flags are applied by the caller on the returned value.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigName("persona")

	d := Default()
	v.SetDefault("api_url", d.APIURL)
	v.SetDefault("settle_duration", d.SettleDuration)
	v.SetDefault("wheel_threshold", d.WheelThreshold)
	v.SetDefault("wheel_debounce", d.WheelDebounce)
	v.SetDefault("wheel_tick_delta", d.WheelTickDelta)
	v.SetDefault("swipe_distance", d.SwipeDistance)
	v.SetDefault("cell_height", d.CellHeight)
	v.SetDefault("request_timeout", d.RequestTimeout)
	v.SetDefault("result_template", d.ResultTemplate)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_file", d.LogFile)

	// Setup ENV binding with PERSONA_ prefix
	v.SetEnvPrefix("PERSONA")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Explicit ENV bindings so Unmarshal sees env-only keys
	for _, key := range keys {
		if err := v.BindEnv(key, "PERSONA_"+strings.ToUpper(key)); err != nil {
			return nil, fmt.Errorf("binding %s env: %w", key, err)
		}
	}

	// Load global config first (if exists)
	globalPath := GlobalPath()
	if fileExists(globalPath) {
		v.SetConfigFile(globalPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading global config: %w", err)
		}
	}

	// Merge project config on top (if exists)
	projectPath := ProjectPath()
	if fileExists(projectPath) {
		v.SetConfigFile(projectPath)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("merging project config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	var errs []error

	u, err := url.Parse(c.APIURL)
	if c.APIURL == "" || err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("api_url must be an absolute URL, got %q", c.APIURL))
	}
	if c.SettleDuration <= 0 {
		errs = append(errs, errors.New("settle_duration must be positive"))
	}
	if c.WheelDebounce <= 0 {
		errs = append(errs, errors.New("wheel_debounce must be positive"))
	}
	if c.WheelThreshold <= 0 {
		errs = append(errs, errors.New("wheel_threshold must be positive"))
	}
	if c.WheelTickDelta <= 0 {
		errs = append(errs, errors.New("wheel_tick_delta must be positive"))
	}
	if c.SwipeDistance <= 0 {
		errs = append(errs, errors.New("swipe_distance must be positive"))
	}
	if c.CellHeight <= 0 {
		errs = append(errs, errors.New("cell_height must be positive"))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, errors.New("request_timeout must be positive"))
	}
	return errors.Join(errs...)
}

// Exists returns true if any config file exists (global or project).
func Exists() bool {
	return fileExists(GlobalPath()) || fileExists(ProjectPath())
}

// GlobalPath returns the XDG global config path.
// Returns ~/.config/persona/persona.yml or $XDG_CONFIG_HOME/persona/persona.yml.
func GlobalPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "persona", "persona.yml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "persona", "persona.yml")
}

// ProjectPath returns the project-local config path.
func ProjectPath() string {
	return "persona.yml"
}

// WriteGlobal writes the config to the XDG global location.
func WriteGlobal(cfg *Config) error {
	path := GlobalPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	return write(path, cfg)
}

// WriteProject writes the config to the project-local location.
func WriteProject(cfg *Config) error {
	return write(ProjectPath(), cfg)
}

func write(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// fileExists checks if a file exists.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Package config loads runner settings from a YAML file.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"simonwaldherr.de/go/nanotoy/interp"
)

// Config is the resolved runner configuration.
type Config struct {
	Entry        string
	ReturnMode   interp.ReturnMode
	MaxCallDepth int
	Timeout      time.Duration
	LogLevel     string
}

// Default returns the settings used when no file is given. A zero Timeout
// leaves evaluation unbounded, since input() may wait on the user.
func Default() Config {
	return Config{
		Entry:        interp.DefaultEntry,
		ReturnMode:   interp.ReturnSentinel,
		MaxCallDepth: interp.DefaultMaxCallDepth,
		LogLevel:     "info",
	}
}

type configDisk struct {
	Entry        string `yaml:"entry"`
	ReturnMode   string `yaml:"return_mode"`
	MaxCallDepth *int   `yaml:"max_call_depth"`
	Timeout      string `yaml:"timeout"`
	LogLevel     string `yaml:"log_level"`
}

// Load reads path and overlays it on Default.
func Load(path string) (Config, error) {
	if path == "" {
		return Config{}, fmt.Errorf("config: empty path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: resolve %s: %w", path, err)
	}
	file, err := os.Open(abs)
	if err != nil {
		return Config{}, err
	}
	defer file.Close()
	cfg, err := Decode(file)
	if err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", abs, err)
	}
	return cfg, nil
}

// Decode parses YAML from r. Unknown keys are rejected.
func Decode(r io.Reader) (Config, error) {
	var raw configDisk
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, err
	}
	return raw.toConfig()
}

func (d configDisk) toConfig() (Config, error) {
	cfg := Default()
	if s := strings.TrimSpace(d.Entry); s != "" {
		cfg.Entry = s
	}
	mode, ok := interp.ParseReturnMode(strings.TrimSpace(d.ReturnMode))
	if !ok {
		return Config{}, fmt.Errorf("return_mode: want sentinel or signal, got %q", d.ReturnMode)
	}
	cfg.ReturnMode = mode
	if d.MaxCallDepth != nil {
		cfg.MaxCallDepth = *d.MaxCallDepth
	}
	if s := strings.TrimSpace(d.Timeout); s != "" {
		t, err := time.ParseDuration(s)
		if err != nil {
			return Config{}, fmt.Errorf("timeout: %w", err)
		}
		cfg.Timeout = t
	}
	if s := strings.TrimSpace(d.LogLevel); s != "" {
		cfg.LogLevel = s
	}
	return cfg, nil
}

// Options converts the configuration into interpreter options.
func (c Config) Options() []interp.Option {
	return []interp.Option{
		interp.WithEntry(c.Entry),
		interp.WithReturnMode(c.ReturnMode),
		interp.WithMaxCallDepth(c.MaxCallDepth),
	}
}

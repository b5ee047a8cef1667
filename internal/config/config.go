// Package config loads analyzer configuration from an optional YAML
// file. Missing file means defaults; tool selection never comes from
// ambient process environment.
package config

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"

	"socheck/internal/tool"
)

// Tools configures external tool resolution.
type Tools struct {
	// UseBundled prefers the NDK's llvm tools over system ones.
	UseBundled bool `yaml:"use_bundled"`
	// NDKRoot is the NDK installation to take bundled tools from.
	NDKRoot string `yaml:"ndk_root"`
	// Platform names the prebuilt directory (linux-x86_64, ...).
	// Empty means the host platform.
	Platform string `yaml:"platform"`
	// TimeoutSeconds bounds each tool invocation. Zero means the
	// default (30s).
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// Logging configures the zerolog logger.
type Logging struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// Config is the full analyzer configuration.
type Config struct {
	Tools   Tools   `yaml:"tools"`
	Logging Logging `yaml:"logging"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Tools: Tools{
			TimeoutSeconds: 30,
		},
		Logging: Logging{
			Level:  "info",
			Pretty: true,
		},
	}
}

// Load reads a YAML config file, filling unset fields with defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: read: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if cfg.Tools.TimeoutSeconds <= 0 {
		cfg.Tools.TimeoutSeconds = 30
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	return cfg, nil
}

// Timeout returns the per-tool invocation bound.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.Tools.TimeoutSeconds) * time.Second
}

// Resolver builds the tool resolver from the configuration.
func (c Config) Resolver() tool.Resolver {
	platform := tool.Platform(c.Tools.Platform)
	if platform == "" {
		platform = hostPlatform()
	}
	return tool.Resolver{
		UseBundled: c.Tools.UseBundled,
		RootPath:   c.Tools.NDKRoot,
		Platform:   platform,
	}
}

func hostPlatform() tool.Platform {
	switch runtime.GOOS {
	case "darwin":
		return tool.PlatformDarwin
	case "windows":
		return tool.PlatformWindows
	default:
		return tool.PlatformLinux
	}
}

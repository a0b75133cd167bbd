package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"faleproxy/pkg/rewriter"
)

// Config holds the runtime settings. Precedence: CLI flags > environment >
// config file > defaults.
type Config struct {
	Port           string                 `yaml:"port"`
	UserAgent      string                 `yaml:"user-agent"`
	Timeout        int                    `yaml:"timeout"` // seconds; 0 keeps the HTTP client's default
	AllowedDomains []string               `yaml:"allowed-domains"`
	ExposeRuleset  bool                   `yaml:"expose-ruleset"`
	Rules          []rewriter.Replacement `yaml:"rules"`
}

// Default returns the configuration used when no file or environment
// overrides are present. The zero timeout and empty allowlist preserve the
// pass-through fetch behavior; the empty rule list means the built-in
// replacements apply.
func Default() Config {
	return Config{
		Port:          "3001",
		UserAgent:     "",
		Timeout:       0,
		ExposeRuleset: true,
	}
}

// Load reads the optional YAML config file at path and applies environment
// overrides on top. An empty path skips the file entirely.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file '%s': %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("syntax error in config file '%s': %w", path, err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Port = getenv("PORT", c.Port)
	c.UserAgent = getenv("USER_AGENT", c.UserAgent)

	if timeoutStr := os.Getenv("HTTP_TIMEOUT"); timeoutStr != "" {
		if timeout, err := strconv.Atoi(timeoutStr); err == nil {
			c.Timeout = timeout
		}
	}

	if domains := os.Getenv("ALLOWED_DOMAINS"); domains != "" {
		c.AllowedDomains = nil
		for _, domain := range strings.Split(domains, ",") {
			if trimmed := strings.TrimSpace(domain); trimmed != "" {
				c.AllowedDomains = append(c.AllowedDomains, trimmed)
			}
		}
	}

	if os.Getenv("EXPOSE_RULESET") == "false" {
		c.ExposeRuleset = false
	}
}

func getenv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

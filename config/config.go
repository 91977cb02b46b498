/**
 * Copyright (c) 2019, The Artemis Authors.
 *
 * Permission to use, copy, modify, and/or distribute this software for any
 * purpose with or without fee is hereby granted, provided that the above
 * copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES
 * WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF
 * MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR
 * ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES
 * WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN
 * ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF
 * OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

// Package config loads the gateway configuration. Values are layered: built-in defaults, then the
// YAML file (with ${VAR} expansion), then environment variables. Command line flags are applied by
// the caller on top before calling Validate.
package config

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Environment variables that override the configuration file.
const (
	EnvPort        = "PORT"
	EnvUpstreamURL = "PLACEHOLDER_UPSTREAM_URL"
	EnvLogLevel    = "PLACEHOLDER_LOG_LEVEL"
)

// Config is the configuration of the gateway.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Upstream UpstreamConfig `yaml:"upstream"`
	Executor ExecutorConfig `yaml:"executor"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port            int           `yaml:"port"`
	Path            string        `yaml:"path"`
	Explorer        bool          `yaml:"explorer"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	CORSOrigins     []string      `yaml:"cors_origins"`
}

// Addr returns the address to listen on.
func (c ServerConfig) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

// UpstreamConfig configures the REST client.
type UpstreamConfig struct {
	BaseURL              string        `yaml:"base_url"`
	Timeout              time.Duration `yaml:"timeout"`
	MaxRetries           int           `yaml:"max_retries"`
	RetryInitialInterval time.Duration `yaml:"retry_initial_interval"`
	RetryMaxInterval     time.Duration `yaml:"retry_max_interval"`
	MaxConcurrency       int           `yaml:"max_concurrency"`
}

// ExecutorConfig configures query preparation and fetch memoization.
type ExecutorConfig struct {
	// Number of prepared documents kept in cache. Zero disables the cache.
	OperationCacheSize int  `yaml:"operation_cache_size"`
	DedupeFetches      bool `yaml:"dedupe_fetches"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when nothing is specified.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            3000,
			Path:            "/graphql",
			Explorer:        true,
			ShutdownTimeout: 30 * time.Second,
			CORSOrigins:     []string{"*"},
		},
		Upstream: UpstreamConfig{
			BaseURL:              "https://jsonplaceholder.typicode.com",
			Timeout:              10 * time.Second,
			MaxRetries:           2,
			RetryInitialInterval: 100 * time.Millisecond,
			RetryMaxInterval:     2 * time.Second,
			MaxConcurrency:       16,
		},
		Executor: ExecutorConfig{
			OperationCacheSize: 512,
			DedupeFetches:      true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// LoadDotEnv loads variables from the given .env files (".env" if none) into the process
// environment. Variables that are already set are kept. Missing files are ignored.
func LoadDotEnv(filenames ...string) error {
	if len(filenames) == 0 {
		filenames = []string{".env"}
	}
	for _, filename := range filenames {
		if _, err := os.Stat(filename); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(filename); err != nil {
			return errors.Wrapf(err, "load %s", filename)
		}
	}
	return nil
}

// Load builds the configuration from defaults, the YAML file at path (skipped when empty) and the
// environment. The result is not validated.
func Load(path string) (*Config, error) {
	config := Default()

	if len(path) > 0 {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, "failed to read config file")
		}
		if err := config.Parse(data); err != nil {
			return nil, errors.Wrapf(err, "failed to parse config file %s", path)
		}
	}

	if err := config.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	return config, nil
}

// Parse expands ${VAR} references in data with environment variables and decodes the YAML document
// over the current values. Unknown keys are rejected.
func (config *Config) Parse(data []byte) error {
	expanded := os.Expand(string(data), os.Getenv)

	decoder := yaml.NewDecoder(strings.NewReader(expanded))
	decoder.KnownFields(true)
	if err := decoder.Decode(config); err != nil {
		// An empty document leaves every value unchanged.
		if err == io.EOF {
			return nil
		}
		return err
	}
	return nil
}

// ApplyEnv overrides values with the environment variables found by lookup.
func (config *Config) ApplyEnv(lookup func(key string) (string, bool)) error {
	if value, ok := lookup(EnvPort); ok && len(value) > 0 {
		port, err := strconv.Atoi(value)
		if err != nil {
			return errors.Wrapf(err, "invalid %s", EnvPort)
		}
		config.Server.Port = port
	}

	if value, ok := lookup(EnvUpstreamURL); ok && len(value) > 0 {
		config.Upstream.BaseURL = value
	}

	if value, ok := lookup(EnvLogLevel); ok && len(value) > 0 {
		config.Log.Level = value
	}

	return nil
}

// ValidationError reports an invalid configuration value.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements Go's error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is the list of problems found by Validate.
type ValidationErrors []ValidationError

// Error implements Go's error interface.
func (errs ValidationErrors) Error() string {
	messages := make([]string, len(errs))
	for i, err := range errs {
		messages[i] = err.Error()
	}
	return "invalid configuration: " + strings.Join(messages, "; ")
}

// Validate checks every value and returns ValidationErrors listing all problems.
func (config *Config) Validate() error {
	var errs ValidationErrors
	invalid := func(field string, format string, args ...interface{}) {
		errs = append(errs, ValidationError{
			Field:   field,
			Message: fmt.Sprintf(format, args...),
		})
	}

	server := &config.Server
	if server.Port < 1 || server.Port > 65535 {
		invalid("server.port", "must be between 1 and 65535, got %d", server.Port)
	}
	if !strings.HasPrefix(server.Path, "/") {
		invalid("server.path", `must start with "/", got "%s"`, server.Path)
	} else if server.Path == "/healthz" || server.Path == "/metrics" {
		invalid("server.path", `"%s" is reserved`, server.Path)
	}
	if server.ShutdownTimeout <= 0 {
		invalid("server.shutdown_timeout", "must be positive")
	}

	upstream := &config.Upstream
	if u, err := url.Parse(upstream.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || len(u.Host) == 0 {
		invalid("upstream.base_url", `must be an absolute http or https URL, got "%s"`, upstream.BaseURL)
	}
	if upstream.Timeout <= 0 {
		invalid("upstream.timeout", "must be positive")
	}
	if upstream.MaxRetries < 0 {
		invalid("upstream.max_retries", "must not be negative")
	}
	if upstream.RetryInitialInterval <= 0 {
		invalid("upstream.retry_initial_interval", "must be positive")
	}
	if upstream.RetryMaxInterval < upstream.RetryInitialInterval {
		invalid("upstream.retry_max_interval", "must not be less than retry_initial_interval")
	}
	if upstream.MaxConcurrency < 1 {
		invalid("upstream.max_concurrency", "must be at least 1")
	}

	if config.Executor.OperationCacheSize < 0 {
		invalid("executor.operation_cache_size", "must not be negative")
	}

	switch config.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		invalid("log.level", `must be one of debug, info, warn or error, got "%s"`, config.Log.Level)
	}
	switch config.Log.Format {
	case "json", "console":
	default:
		invalid("log.format", `must be json or console, got "%s"`, config.Log.Format)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

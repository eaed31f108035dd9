// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package assess

import "strings"

// Config holds configuration for LLM-backed assessors.
type Config struct {
	// Host is the base URL for the scoring service API.
	// Example: "http://localhost:11434/v1" for local OpenAI-compatible server
	Host string

	// Model is the model identifier to use for scoring.
	// Example: "qwen2.5:3b", "gpt-4o-mini"
	Model string

	// MaxContentChars caps how much of each item's content is sent to
	// the model. Content beyond the cap is truncated, not rejected.
	// Default: 2000
	MaxContentChars int
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithHost sets the scoring service host URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.Host = host
	}
}

// WithModel sets the scoring model identifier.
func WithModel(model string) ConfigOption {
	return func(c *Config) {
		c.Model = model
	}
}

// WithMaxContentChars sets the content truncation cap.
func WithMaxContentChars(n int) ConfigOption {
	return func(c *Config) {
		c.MaxContentChars = n
	}
}

// DefaultConfig returns a Config with sensible defaults for local
// OpenAI-compatible services.
func DefaultConfig() *Config {
	return &Config{
		Host:            "http://localhost:11434/v1",
		Model:           "qwen2.5:3b",
		MaxContentChars: 2000,
	}
}

// NewConfig creates a Config with the default values and applies the
// provided options.
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
// It automatically adds the /v1 suffix to the host if missing, which is
// required by most OpenAI-compatible APIs (Ollama, LocalAI, vLLM, etc).
func (c *Config) Normalize() {
	if c.Host != "" && !strings.HasSuffix(c.Host, "/v1") {
		c.Host = strings.TrimSuffix(c.Host, "/")
		c.Host = c.Host + "/v1"
	}
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.Host == "" {
		return ErrMissingHost
	}
	if c.Model == "" {
		return ErrMissingModel
	}
	if c.MaxContentChars < 1 {
		return ErrInvalidContentCap
	}
	return nil
}

// Copyright 2026 Teradata
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"github.com/zalando/go-keyring"

	"github.com/teradata-labs/vizc/pkg/compiler"
	vizconfig "github.com/teradata-labs/vizc/pkg/config"
	"github.com/teradata-labs/vizc/pkg/llmspec"
	"github.com/teradata-labs/vizc/pkg/render"
)

const (
	// ServiceName for keyring storage
	ServiceName = "vizc"
	// DefaultConfigFileName is the name of the config file
	DefaultConfigFileName = "vizc"
)

// Config holds all configuration for the CLI.
// Priority: CLI flags > env vars > config file > defaults
type Config struct {
	// DataDir is computed from VIZC_DATA_DIR or ~/.vizc and never read from
	// the config file.
	DataDir string `mapstructure:"-"`

	Compiler CompilerConfig `mapstructure:"compiler"`
	Render   RenderConfig   `mapstructure:"render"`
	Batch    BatchConfig    `mapstructure:"batch"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// CompilerConfig configures the figure compiler.
type CompilerConfig struct {
	MaxTraces   int  `mapstructure:"max_traces"`
	CoerceDates bool `mapstructure:"coerce_dates"`
}

// RenderConfig selects and tunes the output renderer.
type RenderConfig struct {
	Renderer    string `mapstructure:"renderer"`
	Theme       string `mapstructure:"theme"`
	Pretty      bool   `mapstructure:"pretty"`
	PlotlyJSURL string `mapstructure:"plotly_js_url"`
}

// BatchConfig configures manifest runs.
type BatchConfig struct {
	Concurrency int `mapstructure:"concurrency"`
}

// LLMConfig configures spec generation.
type LLMConfig struct {
	// Provider is "anthropic" or "bedrock".
	Provider        string  `mapstructure:"provider"`
	AnthropicAPIKey string  `mapstructure:"anthropic_api_key"`
	AnthropicModel  string  `mapstructure:"anthropic_model"`
	BaseURL         string  `mapstructure:"base_url"`
	Temperature     float64 `mapstructure:"temperature"`
	MaxTokens       int     `mapstructure:"max_tokens"`
	MaxAttempts     int     `mapstructure:"max_attempts"`

	BedrockRegion  string `mapstructure:"bedrock_region"`
	BedrockProfile string `mapstructure:"bedrock_profile"`
	BedrockModelID string `mapstructure:"bedrock_model_id"`
}

// DatabaseConfig is the SQL source used by --query.
type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

// LoggingConfig configures the process logger.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

// LoadConfig merges defaults, the config file, environment and bound flags.
func LoadConfig(cfgFile string) (*Config, error) {
	setDefaults()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(vizconfig.GetDataDir())
		viper.AddConfigPath(".")
		viper.AddConfigPath("/etc/vizc/")
		viper.SetConfigName(DefaultConfigFileName)
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file %s: %w", viper.ConfigFileUsed(), err)
		}
	}

	// VIZC_LLM_ANTHROPIC_API_KEY maps to llm.anthropic_api_key.
	viper.SetEnvPrefix("VIZC")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	config.DataDir = vizconfig.GetDataDir()

	// Keyring may be unavailable; secrets can still come from flags or env.
	_ = loadSecretsFromKeyring(&config)

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("compiler.max_traces", compiler.DefaultMaxTraces)
	viper.SetDefault("compiler.coerce_dates", true)

	viper.SetDefault("render.renderer", "plotly-json")
	viper.SetDefault("render.theme", "dark")
	viper.SetDefault("render.pretty", false)
	viper.SetDefault("render.plotly_js_url", render.DefaultPlotlyJSURL)

	viper.SetDefault("batch.concurrency", 0)

	// Empty defaults make the keys visible to AutomaticEnv during Unmarshal.
	viper.SetDefault("llm.provider", "anthropic")
	viper.SetDefault("llm.anthropic_api_key", "")
	viper.SetDefault("llm.base_url", "")
	viper.SetDefault("llm.anthropic_model", llmspec.DefaultModel)
	viper.SetDefault("llm.temperature", 0.0)
	viper.SetDefault("llm.max_tokens", llmspec.DefaultMaxTokens)
	viper.SetDefault("llm.max_attempts", llmspec.DefaultMaxAttempts)
	viper.SetDefault("llm.bedrock_region", "")
	viper.SetDefault("llm.bedrock_profile", "")
	viper.SetDefault("llm.bedrock_model_id", llmspec.DefaultBedrockModelID)

	viper.SetDefault("database.driver", "sqlite")
	viper.SetDefault("database.dsn", "")

	viper.SetDefault("logging.level", "warn")
	viper.SetDefault("logging.format", "text")
	viper.SetDefault("logging.file", "")
}

// SecretMapping ties a keyring entry to a Config field.
type SecretMapping struct {
	KeyringKey string
	Setter     func(*Config, string)
	IsSet      func(*Config) bool
}

// GetSecretMappings returns every secret the keyring may supply.
func GetSecretMappings() []SecretMapping {
	return []SecretMapping{
		{
			KeyringKey: "anthropic_api_key",
			Setter:     func(c *Config, val string) { c.LLM.AnthropicAPIKey = val },
			IsSet:      func(c *Config) bool { return c.LLM.AnthropicAPIKey != "" },
		},
		{
			KeyringKey: "database_dsn",
			Setter:     func(c *Config, val string) { c.Database.DSN = val },
			IsSet:      func(c *Config) bool { return c.Database.DSN != "" },
		},
	}
}

func loadSecretsFromKeyring(config *Config) error {
	for _, mapping := range GetSecretMappings() {
		if mapping.IsSet(config) {
			continue
		}
		value, err := GetSecretFromKeyring(mapping.KeyringKey)
		if err == nil && value != "" {
			mapping.Setter(config, value)
		}
	}
	return nil
}

// GetSecretFromKeyring retrieves a secret from the system keyring.
func GetSecretFromKeyring(key string) (string, error) {
	return keyring.Get(ServiceName, key)
}

// SaveSecretToKeyring saves a secret to the system keyring.
func SaveSecretToKeyring(key, value string) error {
	return keyring.Set(ServiceName, key, value)
}

// DeleteSecretFromKeyring removes a secret from the system keyring.
func DeleteSecretFromKeyring(key string) error {
	return keyring.Delete(ServiceName, key)
}

// ListAvailableSecretKeys returns the keyring key names.
func ListAvailableSecretKeys() []string {
	mappings := GetSecretMappings()
	keys := make([]string, len(mappings))
	for i, mapping := range mappings {
		keys[i] = mapping.KeyringKey
	}
	return keys
}

func maskSecret(secret string) string {
	if len(secret) <= 8 {
		return strings.Repeat("*", len(secret))
	}
	return secret[:4] + strings.Repeat("*", len(secret)-8) + secret[len(secret)-4:]
}

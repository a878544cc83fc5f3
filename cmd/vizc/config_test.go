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
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"github.com/teradata-labs/vizc/pkg/compiler"
	"github.com/teradata-labs/vizc/pkg/llmspec"
)

// isolateConfig resets viper, points the data directory at a temp dir and
// swaps the keyring for an in-memory mock.
func isolateConfig(t *testing.T) string {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
	keyring.MockInit()
	dir := t.TempDir()
	t.Setenv("VIZC_DATA_DIR", dir)
	return dir
}

func TestLoadConfig_Defaults(t *testing.T) {
	dir := isolateConfig(t)

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.DataDir)
	assert.Equal(t, compiler.DefaultMaxTraces, cfg.Compiler.MaxTraces)
	assert.True(t, cfg.Compiler.CoerceDates)
	assert.Equal(t, "plotly-json", cfg.Render.Renderer)
	assert.Equal(t, "dark", cfg.Render.Theme)
	assert.Equal(t, llmspec.DefaultModel, cfg.LLM.AnthropicModel)
	assert.Equal(t, llmspec.DefaultMaxAttempts, cfg.LLM.MaxAttempts)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Empty(t, cfg.LLM.AnthropicAPIKey)
	assert.Equal(t, "anthropic", cfg.LLM.Provider)
	assert.Equal(t, llmspec.DefaultBedrockModelID, cfg.LLM.BedrockModelID)
}

func TestLoadConfig_File(t *testing.T) {
	isolateConfig(t)
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
compiler:
  max_traces: 12
  coerce_dates: false
render:
  renderer: plotly-html
  theme: light
database:
  driver: postgres
  dsn: postgres://localhost/sales
`), 0600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 12, cfg.Compiler.MaxTraces)
	assert.False(t, cfg.Compiler.CoerceDates)
	assert.Equal(t, "plotly-html", cfg.Render.Renderer)
	assert.Equal(t, "light", cfg.Render.Theme)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "postgres://localhost/sales", cfg.Database.DSN)
}

func TestLoadConfig_DataDirFile(t *testing.T) {
	dir := isolateConfig(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "vizc.yaml"), []byte("batch:\n  concurrency: 3\n"), 0600))

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Batch.Concurrency)
}

func TestLoadConfig_BadFile(t *testing.T) {
	isolateConfig(t)
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("compiler: [unterminated"), 0600))

	_, err := LoadConfig(path)
	require.Error(t, err)
}

func TestLoadConfig_Env(t *testing.T) {
	isolateConfig(t)
	t.Setenv("VIZC_LLM_ANTHROPIC_MODEL", "claude-test")
	t.Setenv("VIZC_COMPILER_MAX_TRACES", "7")
	t.Setenv("VIZC_LLM_PROVIDER", "bedrock")
	t.Setenv("VIZC_LLM_BEDROCK_REGION", "eu-west-1")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "bedrock", cfg.LLM.Provider)
	assert.Equal(t, "eu-west-1", cfg.LLM.BedrockRegion)
	assert.Equal(t, "claude-test", cfg.LLM.AnthropicModel)
	assert.Equal(t, 7, cfg.Compiler.MaxTraces)
}

func TestLoadConfig_Keyring(t *testing.T) {
	isolateConfig(t)
	require.NoError(t, SaveSecretToKeyring("anthropic_api_key", "sk-ant-from-keyring"))

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "sk-ant-from-keyring", cfg.LLM.AnthropicAPIKey)

	// Env wins over keyring.
	viper.Reset()
	t.Setenv("VIZC_LLM_ANTHROPIC_API_KEY", "sk-ant-from-env")
	cfg, err = LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "sk-ant-from-env", cfg.LLM.AnthropicAPIKey)

	require.NoError(t, DeleteSecretFromKeyring("anthropic_api_key"))
	_, err = GetSecretFromKeyring("anthropic_api_key")
	assert.Error(t, err)
}

func TestListAvailableSecretKeys(t *testing.T) {
	keys := ListAvailableSecretKeys()
	assert.Contains(t, keys, "anthropic_api_key")
	assert.Contains(t, keys, "database_dsn")
	assert.True(t, isSecretKey("anthropic_api_key"))
	assert.False(t, isSecretKey("nope"))
}

func TestMaskSecret(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"short", "*****"},
		{"sk-ant-1234567890", "sk-a*********7890"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, maskSecret(tt.in), tt.in)
	}
	assert.Equal(t, "(not set)", displaySecret(""))
}

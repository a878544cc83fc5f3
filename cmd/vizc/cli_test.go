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
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teradata-labs/vizc/pkg/compiler"
	"github.com/teradata-labs/vizc/pkg/llmspec"
)

const salesCSV = `date,region,revenue
2024-01-01,East,100
2024-01-01,West,80
2024-02-01,East,120
2024-02-01,West,95
`

const lineSpec = `{"chart": {"type": "line"}, "data": {"x": "date", "y": "revenue", "series": {"by": "region"}}}`

// useConfig installs a freshly loaded config for the duration of the test.
func useConfig(t *testing.T, mutate func(*Config)) {
	t.Helper()
	isolateConfig(t)
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	if mutate != nil {
		mutate(cfg)
	}
	prev := config
	config = cfg
	t.Cleanup(func() { config = prev })
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func setCompileFlags(t *testing.T, src sourceFlags, spec, output string) {
	t.Helper()
	compileSource, compileSpec, compileOutput = src, spec, output
	compileCmd.SetContext(context.Background())
	t.Cleanup(func() {
		compileSource, compileSpec, compileOutput = sourceFlags{}, "", "-"
	})
}

func TestCompile_ToFile(t *testing.T) {
	useConfig(t, nil)
	dir := t.TempDir()
	data := writeFile(t, dir, "sales.csv", salesCSV)
	spec := writeFile(t, dir, "spec.json", lineSpec)
	out := filepath.Join(dir, "out", "figure.json")
	setCompileFlags(t, sourceFlags{data: data}, spec, out)

	require.NoError(t, runCompile(compileCmd, nil))

	payload, err := compiler.LoadPayload(out)
	require.NoError(t, err)
	require.Len(t, payload.Figure.Data, 2)
	assert.Equal(t, "East", payload.Figure.Data[0].Name)
	assert.Equal(t, "West", payload.Figure.Data[1].Name)
}

func TestCompile_YAMLSpecGzipHTML(t *testing.T) {
	useConfig(t, func(c *Config) { c.Render.Renderer = "plotly-html" })
	dir := t.TempDir()
	data := writeFile(t, dir, "sales.csv", salesCSV)
	spec := writeFile(t, dir, "spec.yaml", `
chart:
  type: bar
  barmode: stack
data:
  x: region
  y: revenue
layout:
  title: Revenue by region
`)
	out := filepath.Join(dir, "figure.html.gz")
	setCompileFlags(t, sourceFlags{data: data}, spec, out)

	require.NoError(t, runCompile(compileCmd, nil))

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	zr, err := gzip.NewReader(f)
	require.NoError(t, err)
	page, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Contains(t, string(page), "<title>Revenue by region</title>")
	assert.Contains(t, string(page), "Plotly.newPlot")
}

func TestCompile_Query(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "sales.db")
	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE sales (region TEXT, revenue INTEGER);
		INSERT INTO sales VALUES ('East', 100), ('West', 80), ('North', 60);`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	useConfig(t, func(c *Config) {
		c.Database = DatabaseConfig{Driver: "sqlite", DSN: dbPath}
	})
	spec := writeFile(t, dir, "pie.json", `{"chart": {"type": "pie"}, "data": {"x": "region", "y": "revenue"}}`)
	out := filepath.Join(dir, "pie.json.out")
	setCompileFlags(t, sourceFlags{query: "SELECT region, revenue FROM sales ORDER BY revenue DESC"}, spec, out)

	require.NoError(t, runCompile(compileCmd, nil))

	payload, err := compiler.LoadPayload(out)
	require.NoError(t, err)
	require.Len(t, payload.Figure.Data, 1)
	assert.Equal(t, "pie", payload.Figure.Data[0].Type)
}

func TestCompile_Errors(t *testing.T) {
	useConfig(t, nil)
	dir := t.TempDir()
	data := writeFile(t, dir, "sales.csv", salesCSV)

	t.Run("missing column", func(t *testing.T) {
		spec := writeFile(t, dir, "bad.json", `{"chart": {"type": "bar"}, "data": {"x": "Region", "y": "revenue"}}`)
		setCompileFlags(t, sourceFlags{data: data}, spec, filepath.Join(dir, "x.json"))
		err := runCompile(compileCmd, nil)
		require.ErrorIs(t, err, compiler.ErrMissingColumns)
		assert.Contains(t, err.Error(), "Region -> region")
	})

	t.Run("no table", func(t *testing.T) {
		spec := writeFile(t, dir, "ok.json", lineSpec)
		setCompileFlags(t, sourceFlags{}, spec, filepath.Join(dir, "x.json"))
		assert.ErrorContains(t, runCompile(compileCmd, nil), "no table")
	})

	t.Run("both sources", func(t *testing.T) {
		spec := writeFile(t, dir, "ok.json", lineSpec)
		setCompileFlags(t, sourceFlags{data: data, query: "SELECT 1"}, spec, filepath.Join(dir, "x.json"))
		assert.ErrorContains(t, runCompile(compileCmd, nil), "mutually exclusive")
	})

	t.Run("query without dsn", func(t *testing.T) {
		spec := writeFile(t, dir, "ok.json", lineSpec)
		setCompileFlags(t, sourceFlags{query: "SELECT 1"}, spec, filepath.Join(dir, "x.json"))
		assert.ErrorContains(t, runCompile(compileCmd, nil), "data source name")
	})
}

func TestValidate(t *testing.T) {
	useConfig(t, nil)
	dir := t.TempDir()
	good := writeFile(t, dir, "good.json", lineSpec)
	bad := writeFile(t, dir, "bad.json", `{"chart": {"type": "area", "mode": "markers"}, "data": {"x": "a", "y": "b"}}`)

	var out bytes.Buffer
	validateCmd.SetOut(&out)
	t.Cleanup(func() { validateCmd.SetOut(nil) })

	err := runValidate(validateCmd, []string{good, bad})
	require.ErrorContains(t, err, "1 of 2 specs invalid")
	assert.Contains(t, out.String(), good+": ok")
	assert.Contains(t, out.String(), bad+": semantic validation failed")
	assert.Contains(t, out.String(), "chart.mode")
}

func TestRender_EChartsFromPayload(t *testing.T) {
	useConfig(t, func(c *Config) { c.Render.Renderer = "echarts-json" })
	dir := t.TempDir()
	data := writeFile(t, dir, "sales.csv", salesCSV)
	spec := writeFile(t, dir, "spec.json", lineSpec)
	payloadPath := filepath.Join(dir, "figure.json")

	config.Render.Renderer = "plotly-json"
	setCompileFlags(t, sourceFlags{data: data}, spec, payloadPath)
	require.NoError(t, runCompile(compileCmd, nil))

	config.Render.Renderer = "echarts-json"
	renderOutput = filepath.Join(dir, "option.json")
	t.Cleanup(func() { renderOutput = "-" })
	require.NoError(t, runRender(renderCmd, []string{payloadPath}))

	raw, err := os.ReadFile(renderOutput)
	require.NoError(t, err)
	var option map[string]any
	require.NoError(t, json.Unmarshal(raw, &option))
	series, ok := option["series"].([]any)
	require.True(t, ok)
	assert.Len(t, series, 2)
}

func TestDiff(t *testing.T) {
	useConfig(t, nil)
	dir := t.TempDir()
	data := writeFile(t, dir, "sales.csv", salesCSV)
	spec := writeFile(t, dir, "spec.json", lineSpec)
	goldenPath := filepath.Join(dir, "golden", "line.json")

	diffSource, diffSpec, diffGolden, diffThreshold = sourceFlags{data: data}, spec, goldenPath, 1.0
	diffCmd.SetContext(context.Background())
	var out bytes.Buffer
	diffCmd.SetOut(&out)
	t.Cleanup(func() {
		diffSource, diffSpec, diffGolden, diffThreshold, diffUpdate = sourceFlags{}, "", "", 1.0, false
		diffCmd.SetOut(nil)
	})

	// Missing golden file is a mismatch.
	require.ErrorContains(t, runDiff(diffCmd, nil), "golden mismatch")

	diffUpdate = true
	require.NoError(t, runDiff(diffCmd, nil))
	assert.FileExists(t, goldenPath)

	diffUpdate = false
	out.Reset()
	require.NoError(t, runDiff(diffCmd, nil))
	assert.Contains(t, out.String(), "match (similarity 1.000)")

	// A different spec no longer matches exactly.
	diffSpec = writeFile(t, dir, "bar.json", `{"chart": {"type": "bar"}, "data": {"x": "region", "y": "revenue"}}`)
	require.ErrorContains(t, runDiff(diffCmd, nil), "golden mismatch")
}

func TestBatch(t *testing.T) {
	useConfig(t, nil)
	dir := t.TempDir()
	writeFile(t, dir, "data/sales.csv", salesCSV)
	writeFile(t, dir, "specs/line.json", lineSpec)
	writeFile(t, dir, "specs/bar.yaml", "chart:\n  type: bar\ndata:\n  x: region\n  y: revenue\n")
	writeFile(t, dir, "specs/broken.json", `{"chart": {"type": "bar"}, "data": {"x": "store", "y": "revenue"}}`)
	manifest := writeFile(t, dir, "manifest.yaml", `
renderer: plotly-json
output_dir: out
jobs:
  - id: line
    data: data/sales.csv
    spec: specs/line.json
    output: out/line.json
  - id: bar.json
    data: data/sales.csv
    spec: specs/bar.yaml
  - id: broken
    data: data/sales.csv
    spec: specs/broken.json
    output: out/broken.json
`)

	var out, errOut bytes.Buffer
	batchCmd.SetOut(&out)
	batchCmd.SetErr(&errOut)
	batchCmd.SetContext(context.Background())
	t.Cleanup(func() {
		batchCmd.SetOut(nil)
		batchCmd.SetErr(nil)
	})

	err := runBatch(batchCmd, []string{manifest})
	require.ErrorContains(t, err, "1 of 3 jobs failed")
	assert.Contains(t, out.String(), "2 succeeded, 1 failed")
	assert.Contains(t, errOut.String(), "FAIL broken")

	for _, name := range []string{"line.json", "bar.json"} {
		payload, err := compiler.LoadPayload(filepath.Join(dir, "out", name))
		require.NoError(t, err, name)
		assert.NotEmpty(t, payload.Figure.Data)
	}
	assert.NoFileExists(t, filepath.Join(dir, "out", "broken.json"))
}

func TestRenderersAndSchema(t *testing.T) {
	useConfig(t, nil)

	var out bytes.Buffer
	renderersCmd.SetOut(&out)
	t.Cleanup(func() { renderersCmd.SetOut(nil) })
	require.NoError(t, renderersCmd.RunE(renderersCmd, nil))
	assert.Contains(t, out.String(), "plotly-json (default)")
	assert.Contains(t, out.String(), "plotly-html")
	assert.Contains(t, out.String(), "echarts-json")

	var schema bytes.Buffer
	require.NoError(t, printHighlighted(&schema, `{"a": 1}`, "json"))
	assert.Equal(t, "{\"a\": 1}\n", schema.String())
}

func TestGenerate_RequiresKey(t *testing.T) {
	useConfig(t, nil)
	generateCmd.SetContext(context.Background())
	assert.ErrorContains(t, runGenerate(generateCmd, []string{"revenue by region"}), "no Anthropic API key")
}

func TestNewLLMClient(t *testing.T) {
	t.Setenv("AWS_CONFIG_FILE", filepath.Join(t.TempDir(), "config"))
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", filepath.Join(t.TempDir(), "credentials"))

	tests := []struct {
		name      string
		cfg       LLMConfig
		wantErr   string
		wantModel string
	}{
		{name: "anthropic without key", cfg: LLMConfig{Provider: "anthropic"}, wantErr: "no Anthropic API key"},
		{name: "anthropic", cfg: LLMConfig{AnthropicAPIKey: "sk-test", AnthropicModel: "claude-test"}, wantModel: "claude-test"},
		{name: "bedrock", cfg: LLMConfig{Provider: "Bedrock", BedrockRegion: "us-east-1", BedrockModelID: "us.anthropic.test"}, wantModel: "us.anthropic.test"},
		{name: "bedrock unknown profile", cfg: LLMConfig{Provider: "bedrock", BedrockProfile: "no-such-profile"}, wantErr: "failed to load AWS config"},
		{name: "unknown provider", cfg: LLMConfig{Provider: "openai"}, wantErr: "unknown LLM provider"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := newLLMClient(context.Background(), tt.cfg)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			modeler, ok := client.(interface{ Model() string })
			require.True(t, ok)
			assert.Equal(t, tt.wantModel, modeler.Model())
			assert.Equal(t, tt.wantModel, llmModel(tt.cfg))
		})
	}

	bedrock, err := newLLMClient(context.Background(), LLMConfig{Provider: "bedrock", BedrockRegion: "ap-south-1"})
	require.NoError(t, err)
	assert.Equal(t, "ap-south-1", bedrock.(*llmspec.BedrockClient).Region())
}

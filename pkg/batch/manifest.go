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

package batch

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/teradata-labs/vizc/pkg/table"
)

// Manifest lists batch jobs in a YAML file. Relative paths are resolved
// against the manifest's directory.
//
//	renderer: plotly-html
//	output_dir: out
//	jobs:
//	  - id: revenue
//	    data: data/revenue.csv
//	    spec: specs/revenue.yaml
type Manifest struct {
	Renderer  string        `yaml:"renderer"`
	OutputDir string        `yaml:"output_dir"`
	Jobs      []ManifestJob `yaml:"jobs"`

	dir string
}

// ManifestJob is one manifest entry.
type ManifestJob struct {
	ID     string `yaml:"id"`
	Data   string `yaml:"data"`
	Sheet  string `yaml:"sheet"`
	Spec   string `yaml:"spec"`
	Output string `yaml:"output"`
}

// LoadManifest reads and checks a manifest.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- manifest path chosen by the caller
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}
	if len(m.Jobs) == 0 {
		return nil, fmt.Errorf("manifest %s has no jobs", path)
	}
	for i, j := range m.Jobs {
		if j.Data == "" || j.Spec == "" {
			return nil, fmt.Errorf("manifest job %d: data and spec are required", i)
		}
	}
	m.dir = filepath.Dir(path)
	return &m, nil
}

func (m *Manifest) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(m.dir, path)
}

// BuildJobs loads every job's table and spec document. Unreadable inputs fail
// the whole manifest; specs are not validated here, so a bad spec fails only
// its own job when run.
func (m *Manifest) BuildJobs() ([]Job, error) {
	jobs := make([]Job, 0, len(m.Jobs))
	for i, mj := range m.Jobs {
		tbl, err := table.Load(m.resolve(mj.Data), table.LoadOptions{
			XLSX: table.XLSXOptions{Sheet: mj.Sheet},
		})
		if err != nil {
			return nil, fmt.Errorf("manifest job %d: %w", i, err)
		}
		spec, err := readSpecDocument(m.resolve(mj.Spec))
		if err != nil {
			return nil, fmt.Errorf("manifest job %d: %w", i, err)
		}

		output := m.resolve(mj.Output)
		if output == "" && m.OutputDir != "" && mj.ID != "" {
			output = filepath.Join(m.resolve(m.OutputDir), mj.ID)
		}
		jobs = append(jobs, Job{ID: mj.ID, Table: tbl, Spec: spec, Output: output})
	}
	return jobs, nil
}

// readSpecDocument returns a spec file as raw JSON, or as a decoded map for
// YAML files.
func readSpecDocument(path string) (any, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- spec path from the manifest
	if err != nil {
		return nil, fmt.Errorf("failed to read spec: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var doc map[string]any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse spec %s: %w", path, err)
		}
		return doc, nil
	default:
		return json.RawMessage(data), nil
	}
}

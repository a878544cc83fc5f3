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

// Package render turns compiled payloads into output documents. Renderers are
// looked up by name in a Registry so hosts can add their own.
package render

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/teradata-labs/vizc/pkg/compiler"
)

var (
	// ErrUnknownRenderer is returned by Get for an unregistered name.
	ErrUnknownRenderer = errors.New("unknown renderer")

	// ErrUnsupportedTrace is returned when a renderer cannot express a trace type.
	ErrUnsupportedTrace = errors.New("trace type not supported by renderer")
)

// Renderer writes a payload in one output format.
type Renderer interface {
	Name() string
	ContentType() string
	Render(w io.Writer, p *compiler.Payload) error
}

// Registry holds renderers by name. Safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	renderers map[string]Renderer
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{renderers: make(map[string]Renderer)}
}

// Options configures the built-in renderers.
type Options struct {
	// Pretty indents JSON output.
	Pretty bool
	// PlotlyJSURL is the script URL the HTML renderer loads.
	PlotlyJSURL string
	// Style themes the ECharts renderer; nil uses DefaultStyleConfig.
	Style *StyleConfig
}

// NewDefaultRegistry returns a registry holding plotly-json, plotly-html and
// echarts-json.
func NewDefaultRegistry(opts Options) *Registry {
	r := NewRegistry()
	for _, rr := range []Renderer{
		&JSONRenderer{Pretty: opts.Pretty},
		&HTMLRenderer{PlotlyJSURL: opts.PlotlyJSURL},
		NewEChartsRenderer(opts.Style, opts.Pretty),
	} {
		// Names are distinct, so registration cannot fail.
		_ = r.Register(rr)
	}
	return r
}

// Register adds a renderer. Names must be unique.
func (r *Registry) Register(rr Renderer) error {
	if rr == nil {
		return fmt.Errorf("renderer cannot be nil")
	}
	name := rr.Name()
	if name == "" {
		return fmt.Errorf("renderer name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.renderers[name]; exists {
		return fmt.Errorf("renderer already registered: %s", name)
	}
	r.renderers[name] = rr
	return nil
}

// Get looks up a renderer by name.
func (r *Registry) Get(name string) (Renderer, error) {
	r.mu.RLock()
	rr, ok := r.renderers[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknownRenderer, name, strings.Join(r.Names(), ", "))
	}
	return rr, nil
}

// Names returns registered renderer names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.renderers))
	for name := range r.renderers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Render renders p with the named renderer.
func (r *Registry) Render(name string, w io.Writer, p *compiler.Payload) error {
	rr, err := r.Get(name)
	if err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("payload cannot be nil")
	}
	return rr.Render(w, p)
}

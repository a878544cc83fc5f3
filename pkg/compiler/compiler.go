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

// Package compiler turns a validated VizSpec and a table into a Plotly figure
// payload.
//
// Compilation is deterministic and runs in a fixed order: validate, bind
// columns, group series, build traces, assemble layout, apply bar mode, guard
// the trace count, check serialization. It performs no I/O, holds no shared
// mutable state and never modifies its inputs, so a single Compiler may be
// used from many goroutines.
package compiler

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/teradata-labs/vizc/pkg/table"
	"github.com/teradata-labs/vizc/pkg/vizspec"
)

// Compiler compiles VizSpecs. The zero value is not usable; call New.
type Compiler struct {
	maxTraces   int
	coerceDates bool
	logger      *zap.Logger
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithMaxTraces sets the trace ceiling. Non-positive values keep the default.
func WithMaxTraces(n int) Option {
	return func(c *Compiler) {
		if n > 0 {
			c.maxTraces = n
		}
	}
}

// WithDateCoercion toggles best-effort date parsing of scatter-family x values.
func WithDateCoercion(enabled bool) Option {
	return func(c *Compiler) {
		c.coerceDates = enabled
	}
}

// WithLogger sets the logger. Compilation logs at debug level only.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Compiler) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New returns a Compiler.
func New(opts ...Option) *Compiler {
	c := &Compiler{
		maxTraces:   DefaultMaxTraces,
		coerceDates: true,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// MaxTraces returns the configured trace ceiling.
func (c *Compiler) MaxTraces() int {
	return c.maxTraces
}

// CallOption overrides a policy for a single Compile call.
type CallOption func(*Resolvers)

// WithNameResolver replaces the default trace naming.
func WithNameResolver(r NameResolver) CallOption {
	return func(res *Resolvers) {
		if r != nil {
			res.Names = r
		}
	}
}

// WithColorResolver replaces the default color lookup.
func WithColorResolver(r ColorResolver) CallOption {
	return func(res *Resolvers) {
		if r != nil {
			res.Colors = r
		}
	}
}

// WithAxisRouter replaces the default secondary-axis routing.
func WithAxisRouter(r AxisRouter) CallOption {
	return func(res *Resolvers) {
		if r != nil {
			res.Axes = r
		}
	}
}

// CompileRaw parses raw (see vizspec.Parse) and compiles it.
func (c *Compiler) CompileRaw(tbl *table.Table, raw any, opts ...CallOption) (*Payload, error) {
	spec, err := vizspec.Parse(raw)
	if err != nil {
		return nil, err
	}
	return c.compileValid(tbl, spec, opts)
}

// Compile validates spec and compiles it against tbl. Failures are one of
// *vizspec.SpecParseError, *vizspec.SpecValidationError or *CompileError;
// no partial payload is ever returned.
func (c *Compiler) Compile(tbl *table.Table, spec *vizspec.VizSpec, opts ...CallOption) (*Payload, error) {
	valid, err := vizspec.Parse(spec)
	if err != nil {
		return nil, err
	}
	return c.compileValid(tbl, valid, opts)
}

func (c *Compiler) compileValid(tbl *table.Table, spec *vizspec.VizSpec, opts []CallOption) (*Payload, error) {
	if tbl == nil {
		cols := spec.ReferencedColumns()
		err := newError(KindMissingBinding, "no table supplied to bind columns %v", cols)
		err.Columns = cols
		return nil, err
	}

	build, ok := builders[spec.Chart.Type]
	if !ok {
		return nil, newError(KindUnsupportedChart, "unsupported chart type %q", spec.Chart.Type)
	}

	// A pre-shaped matrix has no named columns to bind.
	matrixHeatmap := spec.Chart.Type == vizspec.ChartHeatmap && tbl.IsMatrix()
	if !matrixHeatmap {
		if err := EnsureColumns(tbl, spec.ReferencedColumns()); err != nil {
			return nil, err
		}
	}

	var series []Series
	if !matrixHeatmap {
		series = GroupSeries(tbl, spec.YColumns(), spec.Data.Y.IsList(), spec.SeriesBy())
	}

	resolvers := DefaultResolvers(spec)
	for _, opt := range opts {
		opt(&resolvers)
	}

	traces, err := build(&buildInput{
		table:       tbl,
		spec:        spec,
		series:      series,
		resolvers:   resolvers,
		coerceDates: c.coerceDates,
		logger:      c.logger,
	})
	if err != nil {
		return nil, err
	}

	fig := Figure{Data: traces}
	fig.Layout = AssembleLayout(spec.Layout, fig.UsesSecondaryAxis())
	applyBarMode(&fig.Layout, spec.Chart)

	if err := CheckLimits(len(fig.Data), c.maxTraces); err != nil {
		return nil, err
	}

	payload := &Payload{
		Figure:         fig,
		PlotlyConfig:   renderConfig(spec.PlotlyConfig),
		VizSpecVersion: spec.Version,
	}
	encoded, err := checkSerializable(payload)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("compiled figure",
		zap.String("chart", string(spec.Chart.Type)),
		zap.Int("traces", len(fig.Data)),
		zap.Int("bytes", len(encoded)))
	return payload, nil
}

// String describes the compiler configuration.
func (c *Compiler) String() string {
	return fmt.Sprintf("compiler(max_traces=%d, coerce_dates=%t)", c.maxTraces, c.coerceDates)
}

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

package llmspec

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MakeNowJust/heredoc"
	"go.uber.org/zap"

	"github.com/teradata-labs/vizc/pkg/compiler"
	"github.com/teradata-labs/vizc/pkg/table"
	"github.com/teradata-labs/vizc/pkg/vizspec"
)

// DefaultMaxAttempts is how many replies Generate will try.
const DefaultMaxAttempts = 3

// sampleRows is how many rows the table description includes.
const sampleRows = 5

// Request asks for a chart.
type Request struct {
	Prompt string
	// Table, when set, is described to the model and the spec is compiled
	// against it before being accepted.
	Table *table.Table
}

// Result is an accepted spec.
type Result struct {
	Spec *vizspec.VizSpec
	// Payload is set when the request carried a table.
	Payload  *compiler.Payload
	Attempts int
	// Reply is the raw model text of the accepted attempt.
	Reply string
}

// Generator drives the prompt, parse, compile and re-prompt loop.
type Generator struct {
	client      Client
	compiler    *compiler.Compiler
	maxAttempts int
	logger      *zap.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithMaxAttempts bounds the number of model replies. Non-positive values
// keep the default.
func WithMaxAttempts(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.maxAttempts = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// NewGenerator creates a Generator. A nil compiler uses compiler.New().
func NewGenerator(client Client, c *compiler.Compiler, opts ...Option) *Generator {
	if c == nil {
		c = compiler.New()
	}
	g := &Generator{
		client:      client,
		compiler:    c,
		maxAttempts: DefaultMaxAttempts,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate asks the model for a spec. Replies that fail to parse, validate or
// compile are answered with the structured failure and retried. Client and
// context errors end the loop at once. When all attempts fail the last spec
// error is returned wrapped, so errors.As still finds it.
func (g *Generator) Generate(ctx context.Context, req Request) (*Result, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, fmt.Errorf("prompt cannot be empty")
	}

	system := SystemPrompt()
	msgs := []Message{{Role: RoleUser, Content: userPrompt(req)}}

	var lastErr error
	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		start := time.Now()
		reply, err := g.client.Complete(ctx, system, msgs)
		if err != nil {
			return nil, fmt.Errorf("attempt %d: %w", attempt, err)
		}

		result, err := g.accept(reply, req.Table)
		if err == nil {
			result.Attempts = attempt
			g.logger.Info("spec accepted",
				zap.Int("attempt", attempt),
				zap.Duration("duration", time.Since(start)))
			return result, nil
		}

		g.logger.Warn("spec rejected",
			zap.Int("attempt", attempt),
			zap.Error(err))
		lastErr = err
		msgs = append(msgs,
			Message{Role: RoleAssistant, Content: reply},
			Message{Role: RoleUser, Content: Feedback(err)})
	}
	return nil, fmt.Errorf("no usable spec after %d attempts: %w", g.maxAttempts, lastErr)
}

func (g *Generator) accept(reply string, tbl *table.Table) (*Result, error) {
	doc, err := ExtractJSON(reply)
	if err != nil {
		return nil, &vizspec.SpecParseError{Err: err}
	}
	spec, err := vizspec.Parse(doc)
	if err != nil {
		return nil, err
	}
	res := &Result{Spec: spec, Reply: reply}
	if tbl != nil {
		payload, err := g.compiler.Compile(tbl, spec)
		if err != nil {
			return nil, err
		}
		res.Payload = payload
	}
	return res, nil
}

// feedbackDoc is the JSON shape of a rejection sent back to the model.
type feedbackDoc struct {
	Error       string            `json:"error"`
	Stage       vizspec.Stage     `json:"stage,omitempty"`
	Kind        string            `json:"kind,omitempty"`
	Message     string            `json:"message,omitempty"`
	Issues      []vizspec.Issue   `json:"issues,omitempty"`
	Columns     []string          `json:"columns,omitempty"`
	Suggestions map[string]string `json:"suggestions,omitempty"`
}

// Feedback renders a rejection as a message asking for a corrected spec.
func Feedback(err error) string {
	doc := feedbackDoc{Error: "unknown", Message: err.Error()}

	var perr *vizspec.SpecParseError
	var verr *vizspec.SpecValidationError
	var cerr *compiler.CompileError
	switch {
	case errors.As(err, &perr):
		doc.Error = "parse"
	case errors.As(err, &verr):
		doc.Error = "validation"
		doc.Stage = verr.Stage
		doc.Issues = verr.Issues
		doc.Message = ""
	case errors.As(err, &cerr):
		doc.Error = "compile"
		doc.Kind = string(cerr.Kind)
		doc.Message = cerr.Message
		doc.Columns = cerr.Columns
		doc.Suggestions = cerr.Suggestions
	}

	data, _ := json.MarshalIndent(doc, "", "  ")
	return "The spec was rejected:\n\n" + string(data) +
		"\n\nReply with a corrected VizSpec as a single JSON object."
}

// SystemPrompt instructs the model and embeds the VizSpec JSON Schema.
func SystemPrompt() string {
	return heredoc.Doc(`
		You write VizSpec documents: declarative chart specifications that are
		compiled into Plotly figures. Reply with exactly one JSON object that
		conforms to the schema below. Do not aggregate or transform data; bind
		existing column names only. Heatmaps need x, y and z. Pie charts need x
		(labels) and y (values). Do not combine a list-valued y with series.by.

		JSON Schema:
	`) + string(vizspec.Schema())
}

func userPrompt(req Request) string {
	var sb strings.Builder
	sb.WriteString(req.Prompt)
	if req.Table != nil {
		sb.WriteString("\n\n")
		sb.WriteString(DescribeTable(req.Table))
	}
	return sb.String()
}

// DescribeTable summarizes columns, their kinds and a few sample rows.
func DescribeTable(tbl *table.Table) string {
	var sb strings.Builder
	if tbl.IsMatrix() {
		m, xs, ys := tbl.Matrix()
		width := 0
		if len(m) > 0 {
			width = len(m[0])
		}
		fmt.Fprintf(&sb, "Data: a %dx%d numeric matrix for a heatmap", len(m), width)
		if len(xs) > 0 || len(ys) > 0 {
			fmt.Fprintf(&sb, " with %d column labels and %d row labels", len(xs), len(ys))
		}
		sb.WriteString(".\n")
		return sb.String()
	}

	fmt.Fprintf(&sb, "Data: %d rows with columns:\n", tbl.Len())
	for _, name := range tbl.Columns() {
		values, _ := tbl.Column(name)
		fmt.Fprintf(&sb, "- %s (%s)\n", name, columnKind(values))
	}

	n := min(tbl.Len(), sampleRows)
	if n == 0 {
		return sb.String()
	}
	sb.WriteString("Sample rows:\n")
	sb.WriteString(strings.Join(tbl.Columns(), " | "))
	sb.WriteString("\n")
	for r := 0; r < n; r++ {
		cells := make([]string, 0, len(tbl.Columns()))
		for _, name := range tbl.Columns() {
			cells = append(cells, table.FormatValue(tbl.Value(r, name)))
		}
		sb.WriteString(strings.Join(cells, " | "))
		sb.WriteString("\n")
	}
	return sb.String()
}

// columnKind names the type of the first non-null value.
func columnKind(values []any) string {
	for _, v := range values {
		switch v.(type) {
		case nil:
			continue
		case int64, float64:
			return "number"
		case bool:
			return "boolean"
		case time.Time:
			return "datetime"
		case string:
			return "string"
		default:
			return fmt.Sprintf("%T", v)
		}
	}
	return "empty"
}

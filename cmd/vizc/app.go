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
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	vlog "github.com/teradata-labs/vizc/internal/log"
	"github.com/teradata-labs/vizc/internal/sqldriver"
	"github.com/teradata-labs/vizc/pkg/compiler"
	"github.com/teradata-labs/vizc/pkg/render"
	"github.com/teradata-labs/vizc/pkg/table"
)

// sourceFlags selects the table a command compiles against.
type sourceFlags struct {
	data  string
	sheet string
	query string
}

func (s *sourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&s.data, "data", "d", "", "Table file (.csv, .tsv, .xlsx, .json)")
	cmd.Flags().StringVar(&s.sheet, "sheet", "", "XLSX worksheet (default: first sheet)")
	cmd.Flags().StringVarP(&s.query, "query", "q", "", "SQL query run against --driver/--dsn")
}

func (s *sourceFlags) set() bool {
	return s.data != "" || s.query != ""
}

func (s *sourceFlags) load(ctx context.Context) (*table.Table, error) {
	switch {
	case s.data != "" && s.query != "":
		return nil, fmt.Errorf("--data and --query are mutually exclusive")
	case s.data != "":
		return table.Load(s.data, table.LoadOptions{XLSX: table.XLSXOptions{Sheet: s.sheet}})
	case s.query != "":
		return queryTable(ctx, config.Database, s.query)
	default:
		return nil, fmt.Errorf("no table: pass --data or --query")
	}
}

func queryTable(ctx context.Context, cfg DatabaseConfig, query string) (*table.Table, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("--query needs a data source name (--dsn or database.dsn)")
	}
	driver, err := sqldriver.Name(cfg.Driver)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", cfg.Driver, err)
	}
	defer func() { _ = db.Close() }()
	return table.Query(ctx, db, query)
}

func newCompiler() *compiler.Compiler {
	return compiler.New(
		compiler.WithMaxTraces(config.Compiler.MaxTraces),
		compiler.WithDateCoercion(config.Compiler.CoerceDates),
		compiler.WithLogger(vlog.Logger()),
	)
}

func newRegistry() (*render.Registry, error) {
	style, err := render.StyleForTheme(config.Render.Theme)
	if err != nil {
		return nil, err
	}
	return render.NewDefaultRegistry(render.Options{
		Pretty:      config.Render.Pretty,
		PlotlyJSURL: config.Render.PlotlyJSURL,
		Style:       style,
	}), nil
}

// writePayload renders p to path ("-" or empty for stdout). JSON written to a
// terminal is syntax highlighted.
func writePayload(reg *render.Registry, name, path string, p *compiler.Payload) error {
	renderer, err := reg.Get(name)
	if err != nil {
		return err
	}

	if isStdout(path) {
		var buf bytes.Buffer
		if err := renderer.Render(&buf, p); err != nil {
			return err
		}
		lexer := ""
		if strings.Contains(renderer.ContentType(), "json") {
			lexer = "json"
		}
		return printHighlighted(os.Stdout, buf.String(), lexer)
	}

	out, err := render.CreateOutput(path)
	if err != nil {
		return err
	}
	if err := renderer.Render(out, p); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

func isStdout(path string) bool {
	return path == "" || path == "-"
}

// printHighlighted writes source, colorized when w is an interactive terminal
// and lexer is known.
func printHighlighted(w io.Writer, source, lexer string) error {
	if f, ok := w.(*os.File); ok && lexer != "" && term.IsTerminal(int(f.Fd())) {
		if err := quick.Highlight(w, source, lexer, "terminal256", "monokai"); err == nil {
			if !strings.HasSuffix(source, "\n") {
				_, _ = fmt.Fprintln(w)
			}
			return nil
		}
	}
	_, err := io.WriteString(w, source)
	if err == nil && !strings.HasSuffix(source, "\n") {
		_, err = fmt.Fprintln(w)
	}
	return err
}

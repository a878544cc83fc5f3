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
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	vlog "github.com/teradata-labs/vizc/internal/log"
	"github.com/teradata-labs/vizc/pkg/compiler"
	"github.com/teradata-labs/vizc/pkg/vizspec"
)

var (
	compileSource sourceFlags
	compileSpec   string
	compileOutput string
)

var compileCmd = &cobra.Command{
	Use:   "compile",
	Short: "Compile a spec against a table",
	Long: heredoc.Doc(`
		Compile a VizSpec against a table and write the rendered figure.

		The spec may be JSON or YAML (by extension); "-" reads JSON from stdin.
		Output goes to stdout unless -o is given; paths ending in .gz are
		gzip-compressed.
	`),
	Example: heredoc.Doc(`
		vizc compile --spec sales.json --data sales.csv
		vizc compile --spec sales.yaml --data sales.xlsx --sheet Q1 -r plotly-html -o sales.html
		vizc compile --spec s.json --query "SELECT * FROM sales" --driver postgres --dsn "$DSN"
	`),
	Args: cobra.NoArgs,
	RunE: runCompile,
}

var validateCmd = &cobra.Command{
	Use:   "validate SPEC...",
	Short: "Validate spec files without compiling",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runValidate,
}

var renderCmd = &cobra.Command{
	Use:   "render PAYLOAD",
	Short: "Re-render a compiled figure payload",
	Long: heredoc.Doc(`
		Read a payload previously written by the plotly-json renderer and
		render it again, for example as HTML or as an ECharts option.
	`),
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

var renderOutput string

func init() {
	compileSource.register(compileCmd)
	compileCmd.Flags().StringVarP(&compileSpec, "spec", "s", "", "VizSpec file (.json, .yaml) or - for stdin")
	compileCmd.Flags().StringVarP(&compileOutput, "output", "o", "-", "Output path")
	_ = compileCmd.MarkFlagRequired("spec")

	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "-", "Output path")

	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(renderCmd)
}

func runCompile(cmd *cobra.Command, args []string) error {
	spec, err := readSpec(compileSpec)
	if err != nil {
		return err
	}
	tbl, err := compileSource.load(cmd.Context())
	if err != nil {
		return err
	}
	reg, err := newRegistry()
	if err != nil {
		return err
	}

	payload, err := newCompiler().Compile(tbl, spec)
	if err != nil {
		return err
	}
	vlog.Info("compiled",
		zap.String("chart", string(spec.Chart.Type)),
		zap.Int("traces", len(payload.Figure.Data)),
		zap.String("renderer", config.Render.Renderer))
	return writePayload(reg, config.Render.Renderer, compileOutput, payload)
}

// readSpec parses a spec file; "-" reads JSON from stdin.
func readSpec(path string) (*vizspec.VizSpec, error) {
	if isStdout(path) {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read spec from stdin: %w", err)
		}
		return vizspec.Parse(data)
	}
	return vizspec.ParseFile(path)
}

func runValidate(cmd *cobra.Command, args []string) error {
	failed := 0
	for _, path := range args {
		_, err := vizspec.ParseFile(path)
		if err == nil {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", path)
			continue
		}
		failed++

		var verr *vizspec.SpecValidationError
		if errors.As(err, &verr) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s validation failed\n", path, verr.Stage)
			for _, issue := range verr.Issues {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", issue)
			}
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %v\n", path, err)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d specs invalid", failed, len(args))
	}
	return nil
}

func runRender(cmd *cobra.Command, args []string) error {
	payload, err := compiler.LoadPayload(args[0])
	if err != nil {
		return err
	}
	reg, err := newRegistry()
	if err != nil {
		return err
	}
	return writePayload(reg, config.Render.Renderer, renderOutput, payload)
}

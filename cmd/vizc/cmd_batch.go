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
	"time"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	vlog "github.com/teradata-labs/vizc/internal/log"
	"github.com/teradata-labs/vizc/pkg/batch"
)

var batchCmd = &cobra.Command{
	Use:   "batch MANIFEST",
	Short: "Compile every job in a manifest concurrently",
	Long: heredoc.Doc(`
		Compile the jobs listed in a YAML manifest. Relative paths resolve
		against the manifest's directory. A failing job does not stop the
		others; the command exits non-zero if any job failed.
	`),
	Example: heredoc.Doc(`
		# manifest.yaml
		renderer: plotly-html
		output_dir: out
		jobs:
		  - id: revenue
		    data: data/sales.csv
		    spec: specs/revenue.json
		    output: revenue.html

		vizc batch manifest.yaml --concurrency 4
	`),
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	manifest, err := batch.LoadManifest(args[0])
	if err != nil {
		return err
	}
	jobs, err := manifest.BuildJobs()
	if err != nil {
		return err
	}
	reg, err := newRegistry()
	if err != nil {
		return err
	}
	rendererName := config.Render.Renderer
	if manifest.Renderer != "" {
		rendererName = manifest.Renderer
	}
	if _, err := reg.Get(rendererName); err != nil {
		return err
	}

	start := time.Now()
	results := batch.Run(cmd.Context(), newCompiler(), jobs, config.Batch.Concurrency,
		batch.WithLogger(vlog.Logger()))

	for i := range results {
		r := &results[i]
		if r.Err == nil {
			if r.Output == "" {
				r.Err = fmt.Errorf("no output path")
			} else {
				r.Err = writePayload(reg, rendererName, r.Output, r.Payload)
			}
		}
		if r.Err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "FAIL %s: %v\n", r.ID, r.Err)
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "ok   %s -> %s (%s)\n", r.ID, r.Output, r.Duration.Round(time.Millisecond))
	}

	ok, failed := batch.Summary(results)
	vlog.Info("batch finished",
		zap.Int("ok", ok),
		zap.Int("failed", failed),
		zap.Duration("elapsed", time.Since(start)))
	fmt.Fprintf(cmd.OutOrStdout(), "%d succeeded, %d failed\n", ok, failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d jobs failed", failed, len(results))
	}
	return nil
}

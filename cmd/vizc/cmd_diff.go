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
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teradata-labs/vizc/pkg/golden"
)

var (
	diffSource    sourceFlags
	diffSpec      string
	diffGolden    string
	diffThreshold float64
	diffUpdate    bool
)

var diffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Compare a compiled figure with a golden file",
	Long: `Compile a spec and compare the canonical JSON payload with a golden
file. Exits non-zero when similarity falls below --threshold. With --update
the golden file is rewritten instead.`,
	Args: cobra.NoArgs,
	RunE: runDiff,
}

func init() {
	diffSource.register(diffCmd)
	diffCmd.Flags().StringVarP(&diffSpec, "spec", "s", "", "VizSpec file (.json, .yaml)")
	diffCmd.Flags().StringVarP(&diffGolden, "golden", "g", "", "Golden payload file")
	diffCmd.Flags().Float64Var(&diffThreshold, "threshold", 1.0, "Minimum similarity (0.0-1.0)")
	diffCmd.Flags().BoolVar(&diffUpdate, "update", false, "Rewrite the golden file")
	_ = diffCmd.MarkFlagRequired("spec")
	_ = diffCmd.MarkFlagRequired("golden")

	rootCmd.AddCommand(diffCmd)
}

func runDiff(cmd *cobra.Command, args []string) error {
	spec, err := readSpec(diffSpec)
	if err != nil {
		return err
	}
	tbl, err := diffSource.load(cmd.Context())
	if err != nil {
		return err
	}
	payload, err := newCompiler().Compile(tbl, spec)
	if err != nil {
		return err
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}
	actual, err := golden.CanonicalJSON(data)
	if err != nil {
		return err
	}

	if diffUpdate {
		if err := golden.Update(diffGolden, actual); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "updated %s\n", diffGolden)
		return nil
	}

	res, err := golden.Compare(diffGolden, actual, diffThreshold)
	if err != nil {
		return err
	}
	if res.Matched {
		fmt.Fprintf(cmd.OutOrStdout(), "match (similarity %.3f)\n", res.Similarity)
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), res.Diff)
	return fmt.Errorf("golden mismatch: similarity %.3f below %.3f", res.Similarity, diffThreshold)
}

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
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/teradata-labs/vizc/pkg/vizspec"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the VizSpec JSON Schema",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printHighlighted(os.Stdout, string(vizspec.Schema()), "json")
	},
}

var renderersCmd = &cobra.Command{
	Use:   "renderers",
	Short: "List available output renderers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := newRegistry()
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tCONTENT TYPE")
		for _, name := range reg.Names() {
			r, err := reg.Get(name)
			if err != nil {
				return err
			}
			marker := ""
			if name == config.Render.Renderer {
				marker = " (default)"
			}
			fmt.Fprintf(w, "%s%s\t%s\n", name, marker, r.ContentType())
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(renderersCmd)
}

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
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"

	vlog "github.com/teradata-labs/vizc/internal/log"
	"github.com/teradata-labs/vizc/pkg/llmspec"
	"github.com/teradata-labs/vizc/pkg/table"
)

var (
	generateSource  sourceFlags
	generateSpecOut string
	generateFigure  string
)

var generateCmd = &cobra.Command{
	Use:   "generate PROMPT",
	Short: "Ask an LLM to write a spec for a table",
	Long: heredoc.Doc(`
		Ask Claude to write a VizSpec from a natural-language request. When a
		table is given, its columns and a few rows are shown to the model and
		every candidate spec is compiled against it; failures are sent back
		as structured feedback until a spec compiles or attempts run out.

		With --provider anthropic (the default) the API key comes from
		--anthropic-key, VIZC_LLM_ANTHROPIC_API_KEY or the system keyring
		('vizc config set-key anthropic_api_key'). With --provider bedrock,
		Claude is reached through AWS Bedrock using the standard AWS
		credential chain or --bedrock-profile.
	`),
	Example: heredoc.Doc(`
		vizc generate "monthly revenue by region as lines" --data sales.csv -o revenue.json
		vizc generate "revenue share by store" --data sales.csv --figure share.html -r plotly-html
		vizc generate "units per month" --data sales.csv --provider bedrock --bedrock-region us-east-1
	`),
	Args: cobra.MinimumNArgs(1),
	RunE: runGenerate,
}

func init() {
	generateSource.register(generateCmd)
	generateCmd.Flags().StringVarP(&generateSpecOut, "output", "o", "-", "Where to write the generated spec")
	generateCmd.Flags().StringVar(&generateFigure, "figure", "", "Also render the compiled figure to this path")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if generateFigure != "" && !generateSource.set() {
		return fmt.Errorf("--figure needs a table (--data or --query)")
	}

	var tbl *table.Table
	if generateSource.set() {
		var err error
		if tbl, err = generateSource.load(cmd.Context()); err != nil {
			return err
		}
	}

	client, err := newLLMClient(cmd.Context(), config.LLM)
	if err != nil {
		return err
	}
	gen := llmspec.NewGenerator(client, newCompiler(),
		llmspec.WithMaxAttempts(config.LLM.MaxAttempts),
		llmspec.WithLogger(vlog.Logger()))

	res, err := gen.Generate(cmd.Context(), llmspec.Request{
		Prompt: strings.Join(args, " "),
		Table:  tbl,
	})
	if err != nil {
		return err
	}

	spec, err := res.Spec.Canonical()
	if err != nil {
		return err
	}
	if isStdout(generateSpecOut) {
		if err := printHighlighted(os.Stdout, string(spec), "json"); err != nil {
			return err
		}
	} else if err := os.WriteFile(generateSpecOut, append(spec, '\n'), 0600); err != nil {
		return fmt.Errorf("failed to write spec: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "spec accepted after %d attempt(s)\n", res.Attempts)

	if generateFigure != "" && res.Payload != nil {
		reg, err := newRegistry()
		if err != nil {
			return err
		}
		return writePayload(reg, config.Render.Renderer, generateFigure, res.Payload)
	}
	return nil
}

// newLLMClient builds the client for the configured provider.
func newLLMClient(ctx context.Context, cfg LLMConfig) (llmspec.Client, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", "anthropic":
		if cfg.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("no Anthropic API key: set --anthropic-key, VIZC_LLM_ANTHROPIC_API_KEY or run 'vizc config set-key anthropic_api_key'")
		}
		return llmspec.NewAnthropicClient(llmspec.AnthropicConfig{
			APIKey:      cfg.AnthropicAPIKey,
			Model:       cfg.AnthropicModel,
			MaxTokens:   cfg.MaxTokens,
			Temperature: cfg.Temperature,
			BaseURL:     cfg.BaseURL,
		})
	case "bedrock":
		return llmspec.NewBedrockClient(ctx, llmspec.BedrockConfig{
			Region:      cfg.BedrockRegion,
			Profile:     cfg.BedrockProfile,
			ModelID:     cfg.BedrockModelID,
			MaxTokens:   cfg.MaxTokens,
			Temperature: cfg.Temperature,
			BaseURL:     cfg.BaseURL,
		})
	default:
		return nil, fmt.Errorf("unknown LLM provider %q (expected anthropic or bedrock)", cfg.Provider)
	}
}

func llmModel(cfg LLMConfig) string {
	if strings.EqualFold(cfg.Provider, "bedrock") {
		return cfg.BedrockModelID
	}
	return cfg.AnthropicModel
}

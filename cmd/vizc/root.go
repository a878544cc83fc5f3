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
	"os/signal"
	"syscall"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	vlog "github.com/teradata-labs/vizc/internal/log"
	"github.com/teradata-labs/vizc/internal/version"
	"github.com/teradata-labs/vizc/pkg/compiler"
	"github.com/teradata-labs/vizc/pkg/llmspec"
)

var (
	cfgFile string
	config  *Config
)

var rootCmd = &cobra.Command{
	Use:   "vizc",
	Short: "Compile declarative chart specs into Plotly figures",
	Long: heredoc.Doc(`
		vizc compiles a VizSpec, a small declarative JSON or YAML chart
		description, against a table of data and emits a ready-to-render
		Plotly figure.

		Tables are read from CSV, TSV, XLSX or JSON record files, or from a
		SQL query against sqlite, postgres or mysql.
	`),
	Version:       version.Get(),
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	_ = vlog.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $VIZC_DATA_DIR/vizc.yaml)")

	// Compiler flags
	rootCmd.PersistentFlags().Int("max-traces", compiler.DefaultMaxTraces, "Maximum traces per figure")
	rootCmd.PersistentFlags().Bool("coerce-dates", true, "Parse date-like x values on scatter-family charts")

	// Render flags
	rootCmd.PersistentFlags().StringP("renderer", "r", "plotly-json", "Output renderer (see 'vizc renderers')")
	rootCmd.PersistentFlags().String("theme", "dark", "ECharts theme (dark, light)")
	rootCmd.PersistentFlags().Bool("pretty", false, "Indent JSON output")

	// Batch flags
	rootCmd.PersistentFlags().Int("concurrency", 0, "Concurrent batch jobs (0 = number of CPUs)")

	// LLM flags
	rootCmd.PersistentFlags().String("provider", "anthropic", "LLM provider (anthropic, bedrock)")
	rootCmd.PersistentFlags().String("anthropic-key", "", "Anthropic API key (or use keyring/env)")
	rootCmd.PersistentFlags().String("anthropic-model", llmspec.DefaultModel, "Anthropic model")
	rootCmd.PersistentFlags().Float64("temperature", 0, "LLM temperature")
	rootCmd.PersistentFlags().Int("max-tokens", llmspec.DefaultMaxTokens, "Maximum tokens per request")
	rootCmd.PersistentFlags().String("bedrock-region", "", "AWS region for Bedrock (default from AWS config)")
	rootCmd.PersistentFlags().String("bedrock-profile", "", "AWS shared config profile for Bedrock")
	rootCmd.PersistentFlags().String("bedrock-model", llmspec.DefaultBedrockModelID, "Bedrock model or inference profile ID")

	// Database flags
	rootCmd.PersistentFlags().String("driver", "sqlite", "SQL driver for --query (sqlite, postgres, mysql)")
	rootCmd.PersistentFlags().String("dsn", "", "SQL data source name for --query")

	// Logging flags
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format (text, json)")

	_ = viper.BindPFlag("compiler.max_traces", rootCmd.PersistentFlags().Lookup("max-traces"))
	_ = viper.BindPFlag("compiler.coerce_dates", rootCmd.PersistentFlags().Lookup("coerce-dates"))

	_ = viper.BindPFlag("render.renderer", rootCmd.PersistentFlags().Lookup("renderer"))
	_ = viper.BindPFlag("render.theme", rootCmd.PersistentFlags().Lookup("theme"))
	_ = viper.BindPFlag("render.pretty", rootCmd.PersistentFlags().Lookup("pretty"))

	_ = viper.BindPFlag("batch.concurrency", rootCmd.PersistentFlags().Lookup("concurrency"))

	_ = viper.BindPFlag("llm.provider", rootCmd.PersistentFlags().Lookup("provider"))
	_ = viper.BindPFlag("llm.anthropic_api_key", rootCmd.PersistentFlags().Lookup("anthropic-key"))
	_ = viper.BindPFlag("llm.anthropic_model", rootCmd.PersistentFlags().Lookup("anthropic-model"))
	_ = viper.BindPFlag("llm.temperature", rootCmd.PersistentFlags().Lookup("temperature"))
	_ = viper.BindPFlag("llm.max_tokens", rootCmd.PersistentFlags().Lookup("max-tokens"))
	_ = viper.BindPFlag("llm.bedrock_region", rootCmd.PersistentFlags().Lookup("bedrock-region"))
	_ = viper.BindPFlag("llm.bedrock_profile", rootCmd.PersistentFlags().Lookup("bedrock-profile"))
	_ = viper.BindPFlag("llm.bedrock_model_id", rootCmd.PersistentFlags().Lookup("bedrock-model"))

	_ = viper.BindPFlag("database.driver", rootCmd.PersistentFlags().Lookup("driver"))
	_ = viper.BindPFlag("database.dsn", rootCmd.PersistentFlags().Lookup("dsn"))

	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("logging.format", rootCmd.PersistentFlags().Lookup("log-format"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	var err error
	config, err = LoadConfig(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	logger, err := vlog.New(config.Logging.Level, config.Logging.Format, config.Logging.File)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	vlog.SetLogger(logger)
	vlog.Debug("configuration loaded", zap.String("file", viper.ConfigFileUsed()))
}

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

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage vizc configuration and secrets",
}

var configSetKeyCmd = &cobra.Command{
	Use:   "set-key [key-name]",
	Short: "Save a secret to the system keyring",
	Long: `Save a secret to the system keyring.

Run 'vizc config list-keys' to see available key names.`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigSetKey,
}

var configGetKeyCmd = &cobra.Command{
	Use:   "get-key [key-name]",
	Short: "Show a masked secret from the system keyring",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGetKey,
}

var configDeleteKeyCmd = &cobra.Command{
	Use:   "delete-key [key-name]",
	Short: "Delete a secret from the system keyring",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := DeleteSecretFromKeyring(args[0]); err != nil {
			return fmt.Errorf("error deleting key: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s from system keyring\n", args[0])
		return nil
	},
}

var configListKeysCmd = &cobra.Command{
	Use:   "list-keys",
	Short: "List secret key names",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		for _, k := range ListAvailableSecretKeys() {
			fmt.Fprintln(cmd.OutOrStdout(), k)
		}
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the merged configuration",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		if f := viper.ConfigFileUsed(); f != "" {
			fmt.Fprintf(out, "Config file: %s\n", f)
		}
		fmt.Fprintf(out, "Data dir: %s\n\n", config.DataDir)
		fmt.Fprintf(out, "Compiler:\n  Max traces: %d\n  Coerce dates: %t\n\n",
			config.Compiler.MaxTraces, config.Compiler.CoerceDates)
		fmt.Fprintf(out, "Render:\n  Renderer: %s\n  Theme: %s\n  Pretty: %t\n\n",
			config.Render.Renderer, config.Render.Theme, config.Render.Pretty)
		fmt.Fprintf(out, "LLM:\n  Provider: %s\n  Model: %s\n  API key: %s\n  Max attempts: %d\n\n",
			config.LLM.Provider, llmModel(config.LLM), displaySecret(config.LLM.AnthropicAPIKey), config.LLM.MaxAttempts)
		fmt.Fprintf(out, "Database:\n  Driver: %s\n  DSN: %s\n\n",
			config.Database.Driver, displaySecret(config.Database.DSN))
		fmt.Fprintf(out, "Logging:\n  Level: %s\n  Format: %s\n", config.Logging.Level, config.Logging.Format)
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configSetKeyCmd)
	configCmd.AddCommand(configGetKeyCmd)
	configCmd.AddCommand(configDeleteKeyCmd)
	configCmd.AddCommand(configListKeysCmd)
	configCmd.AddCommand(configShowCmd)
}

func isSecretKey(name string) bool {
	for _, k := range ListAvailableSecretKeys() {
		if k == name {
			return true
		}
	}
	return false
}

func runConfigSetKey(cmd *cobra.Command, args []string) error {
	keyName := args[0]
	if !isSecretKey(keyName) {
		return fmt.Errorf("invalid key name %q (available: %v)", keyName, ListAvailableSecretKeys())
	}

	fmt.Printf("Enter %s (input hidden): ", keyName)
	secretBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("error reading input: %w", err)
	}
	if len(secretBytes) == 0 {
		return fmt.Errorf("secret cannot be empty")
	}

	if err := SaveSecretToKeyring(keyName, string(secretBytes)); err != nil {
		return fmt.Errorf("error saving to keyring: %w", err)
	}
	fmt.Printf("Saved %s to system keyring\n", keyName)
	return nil
}

func runConfigGetKey(cmd *cobra.Command, args []string) error {
	keyName := args[0]
	secret, err := GetSecretFromKeyring(keyName)
	if err != nil {
		return fmt.Errorf("key not found in keyring, set it with: vizc config set-key %s", keyName)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", keyName, maskSecret(secret))
	return nil
}

func displaySecret(s string) string {
	if s == "" {
		return "(not set)"
	}
	return maskSecret(s)
}

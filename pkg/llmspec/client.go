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

// Package llmspec asks a language model for a VizSpec and re-prompts with
// machine-readable feedback until the spec parses, validates and compiles.
package llmspec

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const (
	// DefaultModel is the Anthropic model used when none is configured.
	DefaultModel = "claude-sonnet-4-5-20250929"

	// DefaultMaxTokens bounds a single reply.
	DefaultMaxTokens = 4096
)

// Role is a conversation role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one conversation turn.
type Message struct {
	Role    Role
	Content string
}

// Client completes a conversation with a single text reply.
type Client interface {
	Complete(ctx context.Context, system string, msgs []Message) (string, error)
}

// AnthropicConfig configures AnthropicClient.
type AnthropicConfig struct {
	APIKey      string
	Model       string  // Default: DefaultModel
	MaxTokens   int     // Default: DefaultMaxTokens
	Temperature float64 // Default: 0
	// BaseURL overrides the API endpoint.
	BaseURL string
}

// AnthropicClient is a Client backed by the Anthropic Messages API.
type AnthropicClient struct {
	messagesAPI
}

// NewAnthropicClient creates a client. The API key is required.
func NewAnthropicClient(cfg AnthropicConfig) (*AnthropicClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("anthropic API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}

	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &AnthropicClient{messagesAPI{
		client:      anthropic.NewClient(opts...),
		provider:    "anthropic",
		model:       cfg.Model,
		maxTokens:   int64(cfg.MaxTokens),
		temperature: cfg.Temperature,
	}}, nil
}

// messagesAPI holds the Messages API call shared by every provider that
// speaks it.
type messagesAPI struct {
	client      anthropic.Client
	provider    string
	model       string
	maxTokens   int64
	temperature float64
}

// Model returns the model identifier.
func (c *messagesAPI) Model() string {
	return c.model
}

// Complete sends the conversation and returns the concatenated text blocks of
// the reply.
func (c *messagesAPI) Complete(ctx context.Context, system string, msgs []Message) (string, error) {
	if len(msgs) == 0 {
		return "", fmt.Errorf("no messages to send")
	}

	sdkMessages := make([]anthropic.MessageParam, 0, len(msgs))
	for _, m := range msgs {
		block := anthropic.NewTextBlock(m.Content)
		if m.Role == RoleAssistant {
			sdkMessages = append(sdkMessages, anthropic.NewAssistantMessage(block))
		} else {
			sdkMessages = append(sdkMessages, anthropic.NewUserMessage(block))
		}
	}

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		Messages:    sdkMessages,
		MaxTokens:   c.maxTokens,
		Temperature: anthropic.Float(c.temperature),
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}

	message, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("%s request failed: %w", c.provider, err)
	}

	var sb strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return sb.String(), nil
}

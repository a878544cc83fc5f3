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
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/bedrock"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
)

// Default Bedrock configuration values.
const (
	// DefaultBedrockModelID is a cross-region inference profile for Claude Sonnet 4.5.
	DefaultBedrockModelID = "us.anthropic.claude-sonnet-4-5-20250929-v1:0"
	DefaultBedrockRegion  = "us-west-2"
)

// BedrockConfig configures BedrockClient. Credentials resolve in order:
// explicit keys, a named profile, then the default AWS chain.
type BedrockConfig struct {
	Region          string // Default: AWS_REGION, then DefaultBedrockRegion
	Profile         string
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string

	ModelID     string  // Default: DefaultBedrockModelID
	MaxTokens   int     // Default: DefaultMaxTokens
	Temperature float64 // Default: 0
	// BaseURL overrides the regional Bedrock runtime endpoint.
	BaseURL string
}

// BedrockClient is a Client backed by Claude on AWS Bedrock. Requests are
// signed with SigV4 by the SDK's Bedrock adapter.
type BedrockClient struct {
	messagesAPI
	region string
}

// NewBedrockClient loads AWS configuration and creates a client.
func NewBedrockClient(ctx context.Context, cfg BedrockConfig) (*BedrockClient, error) {
	if (cfg.AccessKeyID == "") != (cfg.SecretAccessKey == "") {
		return nil, fmt.Errorf("bedrock access key id and secret access key must be set together")
	}
	if cfg.ModelID == "" {
		cfg.ModelID = DefaultBedrockModelID
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}

	awsCfg, err := loadAWSConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	opts := []option.RequestOption{bedrock.WithConfig(awsCfg)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &BedrockClient{
		messagesAPI: messagesAPI{
			client:      anthropic.NewClient(opts...),
			provider:    "bedrock",
			model:       cfg.ModelID,
			maxTokens:   int64(cfg.MaxTokens),
			temperature: cfg.Temperature,
		},
		region: awsCfg.Region,
	}, nil
}

// Region returns the AWS region requests are signed for.
func (c *BedrockClient) Region() string {
	return c.region
}

func loadAWSConfig(ctx context.Context, cfg BedrockConfig) (aws.Config, error) {
	var loadOpts []func(*config.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(cfg.Region))
	}
	switch {
	case cfg.AccessKeyID != "":
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, cfg.SessionToken)))
	case cfg.Profile != "":
		loadOpts = append(loadOpts, config.WithSharedConfigProfile(cfg.Profile))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}
	if awsCfg.Region == "" {
		awsCfg.Region = DefaultBedrockRegion
	}
	return awsCfg, nil
}

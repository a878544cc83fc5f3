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

// Package batch compiles many independent (table, spec) jobs concurrently.
package batch

import (
	"context"
	"runtime"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/teradata-labs/vizc/pkg/compiler"
	"github.com/teradata-labs/vizc/pkg/table"
)

// Job is one compilation. Spec is anything compiler.CompileRaw accepts.
type Job struct {
	ID     string
	Table  *table.Table
	Spec   any
	Output string
}

// Result is the outcome of one job. Exactly one of Payload and Err is set.
type Result struct {
	ID       string
	Output   string
	Payload  *compiler.Payload
	Err      error
	Duration time.Duration
}

// Option configures Run.
type Option func(*runConfig)

type runConfig struct {
	logger *zap.Logger
}

// WithLogger logs each finished job at debug level.
func WithLogger(logger *zap.Logger) Option {
	return func(c *runConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Run compiles jobs with at most concurrency in flight (NumCPU when
// non-positive). Results are in job order. A failed job never stops the
// others; jobs not started before ctx is done get ctx.Err(). Jobs without an
// ID are assigned a random one.
func Run(ctx context.Context, c *compiler.Compiler, jobs []Job, concurrency int, opts ...Option) []Result {
	cfg := runConfig{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&cfg)
	}
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
	}

	results := make([]Result, len(jobs))
	var g errgroup.Group
	g.SetLimit(concurrency)

	for i, job := range jobs {
		id := job.ID
		if id == "" {
			id = uuid.NewString()
		}
		results[i] = Result{ID: id, Output: job.Output}

		if err := ctx.Err(); err != nil {
			results[i].Err = err
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			start := time.Now()
			payload, err := c.CompileRaw(job.Table, job.Spec)
			results[i].Payload, results[i].Err = payload, err
			results[i].Duration = time.Since(start)

			cfg.logger.Debug("batch job finished",
				zap.String("id", id),
				zap.Duration("duration", results[i].Duration),
				zap.Error(err))
			return nil
		})
	}
	// Job errors live in results; the group itself never fails.
	_ = g.Wait()
	return results
}

// Summary counts successful and failed results.
func Summary(results []Result) (ok, failed int) {
	for _, r := range results {
		if r.Err != nil {
			failed++
		} else {
			ok++
		}
	}
	return ok, failed
}

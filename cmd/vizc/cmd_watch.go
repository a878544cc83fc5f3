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
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	vlog "github.com/teradata-labs/vizc/internal/log"
)

var (
	watchSource   sourceFlags
	watchSpec     string
	watchOutput   string
	watchDebounce time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Recompile whenever the spec or data file changes",
	Long: `Compile once, then watch the spec file (and the --data file, if any)
and recompile on every write. Compile errors are reported and the watch
continues. Stop with Ctrl-C.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchSource.register(watchCmd)
	watchCmd.Flags().StringVarP(&watchSpec, "spec", "s", "", "VizSpec file (.json, .yaml)")
	watchCmd.Flags().StringVarP(&watchOutput, "output", "o", "", "Output path")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 300*time.Millisecond, "Quiet period before recompiling")
	_ = watchCmd.MarkFlagRequired("spec")
	_ = watchCmd.MarkFlagRequired("output")

	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	reg, err := newRegistry()
	if err != nil {
		return err
	}

	build := func() {
		spec, err := readSpec(watchSpec)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "%v\n", err)
			return
		}
		tbl, err := watchSource.load(ctx)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "%v\n", err)
			return
		}
		payload, err := newCompiler().Compile(tbl, spec)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "%v\n", err)
			return
		}
		if err := writePayload(reg, config.Render.Renderer, watchOutput, payload); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "%v\n", err)
			return
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s wrote %s (%d traces)\n",
			time.Now().Format("15:04:05"), watchOutput, len(payload.Figure.Data))
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Editors often replace files on save, so watch the parent directories
	// and filter by name.
	watched := map[string]bool{}
	for _, path := range []string{watchSpec, watchSource.data} {
		if path == "" {
			continue
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		watched[abs] = true
		if err := watcher.Add(filepath.Dir(abs)); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
	}

	build()

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			abs, _ := filepath.Abs(event.Name)
			if !watched[abs] {
				continue
			}
			vlog.Debug("change detected", zap.String("file", event.Name), zap.String("op", event.Op.String()))
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(watchDebounce)
			fire = timer.C

		case <-fire:
			fire = nil
			build()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			vlog.Error("file watcher error", zap.Error(err))

		case <-ctx.Done():
			return nil
		}
	}
}

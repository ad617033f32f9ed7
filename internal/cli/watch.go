package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounce absorbs the burst of events editors produce on save.
const debounce = 150 * time.Millisecond

// RunWatch solves once, then again every time the task or config file
// changes, until ctx is done.
func RunWatch(ctx context.Context, opts SolveOptions, out io.Writer) error {
	logger := CreateLogger(opts.Log)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer watcher.Close()

	// Watch directories: editors often replace files by rename.
	watched := map[string]bool{}
	for _, p := range []string{opts.TaskPath, opts.ConfigPath} {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return &InputError{Err: err}
		}
		watched[abs] = true
		if err := watcher.Add(filepath.Dir(abs)); err != nil {
			return fmt.Errorf("failed to watch %s: %w", p, err)
		}
	}

	solveOnce := func() {
		if _, err := RunSolve(ctx, opts, out); err != nil && ctx.Err() == nil {
			printSystemMessage(out, "Solve failed: %v", err)
		}
		printSystemMessage(out, "Waiting for changes...")
	}
	solveOnce()

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			abs, _ := filepath.Abs(ev.Name)
			if !watched[abs] || ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			logger.Info("change detected", "file", ev.Name, "op", ev.Op.String())
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "err", err)
		case <-fire:
			fire = nil
			printSystemMessage(out, "Change detected, solving again.")
			solveOnce()
		}
	}
}

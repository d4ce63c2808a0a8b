// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package batch

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is how long watch mode waits for writes to settle.
const DefaultDebounce = 500 * time.Millisecond

// Watch reprocesses documents under the configured oracle directory each
// time they are written, until ctx is cancelled. Events are collected for
// debounce and flushed as one RunAll call.
func (r *Runner) Watch(ctx context.Context, debounce time.Duration, w io.Writer) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	root := r.cfg.OracleDir

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fsw.Close()

	if err := addDirs(fsw, root); err != nil {
		return err
	}
	r.logger.Info("watching oracle documents",
		zap.String("dir", root),
		zap.String("pattern", r.cfg.Pattern),
		zap.Duration("debounce", debounce))

	ticker := time.NewTicker(debounce)
	defer ticker.Stop()

	pending := make(map[string]bool)
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			r.handleEvent(fsw, ev, pending)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			r.logger.Error("watcher error", zap.Error(err))

		case <-ticker.C:
			if len(pending) == 0 {
				continue
			}
			docs := make([]string, 0, len(pending))
			for p := range pending {
				docs = append(docs, p)
			}
			sort.Strings(docs)
			clear(pending)

			if _, err := r.RunAll(ctx, docs, w); err != nil && ctx.Err() == nil {
				r.logger.Error("watch batch failed", zap.Error(err))
			}
		}
	}
}

func (r *Runner) handleEvent(fsw *fsnotify.Watcher, ev fsnotify.Event, pending map[string]bool) {
	if ev.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			if err := addDirs(fsw, ev.Name); err != nil {
				r.logger.Warn("failed to watch new directory", zap.String("path", ev.Name), zap.Error(err))
			}
			return
		}
	}
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
		return
	}
	if !r.matches(ev.Name) {
		return
	}
	r.logger.Debug("document change detected", zap.String("path", ev.Name), zap.String("op", ev.Op.String()))
	pending[ev.Name] = true
}

// matches reports whether path falls under the oracle directory and matches
// the document pattern.
func (r *Runner) matches(path string) bool {
	rel, err := filepath.Rel(r.cfg.OracleDir, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return false
	}
	ok, err := doublestar.Match(r.cfg.Pattern, filepath.ToSlash(rel))
	return err == nil && ok
}

func addDirs(fsw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if base := d.Name(); path != root && strings.HasPrefix(base, ".") {
			return filepath.SkipDir
		}
		if err := fsw.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
}

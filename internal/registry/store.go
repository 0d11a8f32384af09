package registry

import (
	"context"
	"fmt"
	"path/filepath"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/chatops/internal/command"
	"github.com/fyrsmithlabs/chatops/internal/logging"
)

// Store holds the current registry snapshot for long-running processes.
//
// Readers always see a complete snapshot. A failed reload keeps the previous
// snapshot in place.
type Store struct {
	path    string
	current atomic.Pointer[command.Registry]
	reloads atomic.Int64
}

// NewStore loads path and returns a store serving it.
func NewStore(path string) (*Store, error) {
	s := &Store{path: path}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the registry file path.
func (s *Store) Path() string {
	return s.path
}

// Registry returns the current snapshot.
func (s *Store) Registry() *command.Registry {
	return s.current.Load()
}

// Reloads returns the number of successful loads, including the initial one.
func (s *Store) Reloads() int64 {
	return s.reloads.Load()
}

// Reload re-reads the registry file and swaps the snapshot on success.
func (s *Store) Reload() error {
	reg, err := Load(s.path)
	if err != nil {
		return err
	}
	s.current.Store(reg)
	s.reloads.Add(1)
	return nil
}

// Watch reloads the registry whenever the file changes. It blocks until ctx
// is canceled.
//
// The parent directory is watched rather than the file itself so that
// editors and checkouts that replace the file are still observed.
func (s *Store) Watch(ctx context.Context, logger *logging.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating registry watcher: %w", err)
	}
	defer watcher.Close()

	target, err := filepath.Abs(s.path)
	if err != nil {
		return fmt.Errorf("resolving registry path: %w", err)
	}
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(target), err)
	}

	logger.Info(ctx, "watching command registry", zap.String("path", target))

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}

			if err := s.Reload(); err != nil {
				logger.Error(ctx, "registry reload failed, keeping previous commands",
					zap.String("path", target),
					zap.Error(err),
				)
				continue
			}
			logger.Info(ctx, "command registry reloaded",
				zap.String("path", target),
				zap.Int("commands", s.Registry().Len()),
			)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn(ctx, "registry watcher error", zap.Error(err))
		}
	}
}

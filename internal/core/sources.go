package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Source is a PDF on disk served under a plan name.
type Source struct {
	Name string
	Path string
}

// ParseSources reads "name=path" or bare "path" entries. A bare path is
// named after its file name without extension.
func ParseSources(entries []string) ([]Source, error) {
	var sources []Source
	seen := make(map[string]bool)
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		name, path, ok := strings.Cut(entry, "=")
		if !ok {
			path = entry
			name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		}
		name, path = strings.TrimSpace(name), strings.TrimSpace(path)
		if name == "" || path == "" {
			return nil, fmt.Errorf("invalid schedule source %q", entry)
		}
		if seen[name] {
			return nil, fmt.Errorf("duplicate schedule source name %q", name)
		}
		seen[name] = true
		sources = append(sources, Source{Name: name, Path: path})
	}
	return sources, nil
}

type fileStamp struct {
	modTime time.Time
	size    int64
}

// LoadSources parses every source concurrently, bounded by the configured
// worker count. A failing source does not stop the others; all failures are
// returned joined.
func (s *Service) LoadSources(ctx context.Context, sources []Source) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.LoadWorkers)

	var (
		mu   sync.Mutex
		errs []error
	)
	for _, src := range sources {
		g.Go(func() error {
			if err := s.loadSource(ctx, src); err != nil {
				slog.Error("load schedule source failed", "plan", src.Name, "path", src.Path, "error", err)
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", src.Name, err))
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	return errors.Join(errs...)
}

func (s *Service) loadSource(ctx context.Context, src Source) error {
	info, err := os.Stat(src.Path)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(src.Path)
	if err != nil {
		return err
	}
	if _, err := s.Activate(ctx, src.Name, filepath.Base(src.Path), data); err != nil {
		return err
	}

	s.mu.Lock()
	s.stamps[src.Path] = fileStamp{modTime: info.ModTime(), size: info.Size()}
	s.mu.Unlock()
	return nil
}

// changed reports whether the file differs from the last loaded version.
func (s *Service) changed(src Source) (bool, error) {
	info, err := os.Stat(src.Path)
	if err != nil {
		return false, err
	}
	s.mu.RLock()
	prev, ok := s.stamps[src.Path]
	s.mu.RUnlock()
	return !ok || !prev.modTime.Equal(info.ModTime()) || prev.size != info.Size(), nil
}

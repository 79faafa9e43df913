// Package app wires the parser, index, resolver, and persistence into the
// analysis service the CLI runs.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"inscope/internal/core/config"
	"inscope/internal/core/errors"
	"inscope/internal/core/watcher"
	"inscope/internal/diag"
	"inscope/internal/engine/index"
	"inscope/internal/engine/parser"
	"inscope/internal/engine/resolver"
	"inscope/internal/shared/observability"
	"inscope/internal/shared/util"
)

type Service struct {
	Config   *config.Config
	Index    *index.Index
	Resolver *resolver.Resolver

	store       *index.SQLiteClauseStore
	watcher     *watcher.Watcher
	logger      *slog.Logger
	syncLimiter *util.Limiter
}

func New(cfg *config.Config, logger *slog.Logger) (*Service, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	ix := index.New()
	s := &Service{
		Config:   cfg,
		Index:    ix,
		Resolver: resolver.New(ix, cfg.Resolver.MaxAliasDepth, diag.NewLogSink(logger)),
		logger:   logger,
		// Bursty edit streams collapse into at most one store sync per
		// second.
		syncLimiter: util.NewLimiter(1, 1),
	}

	if cfg.DB.Enabled {
		store, err := index.OpenSQLiteClauseStore(cfg.DB.Path, cfg.DB.ProjectKey)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeInternal, "open clause store")
		}
		s.store = store
	}

	return s, nil
}

// InitialScan parses every source file under the configured watch paths and
// persists the resulting clause signatures.
func (s *Service) InitialScan(ctx context.Context) error {
	ctx, span := observability.Tracer.Start(ctx, "Service.InitialScan")
	defer span.End()

	start := time.Now()
	defer func() {
		observability.AnalysisDuration.WithLabelValues("initial_scan").Observe(time.Since(start).Seconds())
	}()

	if err := ctx.Err(); err != nil {
		return err
	}

	files, err := s.ScanDirectories(s.Config.WatchPaths, s.Config.Exclude.Dirs, s.Config.Exclude.Files)
	if err != nil {
		return errors.AddContext(err, errors.CtxOperation, "scan_directories")
	}

	for _, filePath := range files {
		if err := s.ProcessFile(filePath); err != nil {
			s.logger.Warn("failed to process file", "path", filePath, "error", err)
		}
	}

	s.syncStore(true)
	s.logger.Info("initial scan complete",
		"files", s.Index.FileCount(),
		"containers", s.Index.ContainerCount())
	return nil
}

// ProcessFile parses one source file into the index. Reader errors inside
// the file are tolerated; the partial parse still contributes.
func (s *Service) ProcessFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return errors.AddContext(
			errors.Wrap(err, errors.CodeNotFound, "read source file"),
			errors.CtxPath, path)
	}

	file := parser.Parse(path, content)
	for _, perr := range file.Errors {
		s.logger.Debug("reader error", "path", path, "error", perr.Error())
	}
	s.Index.AddFile(file)
	return nil
}

// ApplyChanges reindexes a batch of changed paths. Deleted files drop their
// contribution.
func (s *Service) ApplyChanges(paths []string) {
	start := time.Now()
	defer func() {
		observability.AnalysisDuration.WithLabelValues("apply_changes").Observe(time.Since(start).Seconds())
	}()

	for _, path := range paths {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			s.Index.RemoveFile(path)
			continue
		}
		if err := s.ProcessFile(path); err != nil {
			s.logger.Warn("failed to process file", "path", path, "error", err)
		}
	}

	s.syncStore(false)
}

// Watch starts watch mode: every debounced change batch is reanalyzed.
func (s *Service) Watch(ctx context.Context) error {
	w, err := watcher.NewWatcher(
		s.Config.Watch.Debounce,
		s.Config.Source.Extensions,
		s.Config.Exclude.Dirs,
		s.Config.Exclude.Files,
		func(paths []string) {
			s.logger.Info("change detected", "files", len(paths))
			s.ApplyChanges(paths)
		},
	)
	if err != nil {
		return errors.Wrap(err, errors.CodeInternal, "create watcher")
	}
	if err := w.Watch(s.Config.WatchPaths); err != nil {
		_ = w.Close()
		return errors.AddContext(
			errors.Wrap(err, errors.CodeInternal, "start watcher"),
			errors.CtxOperation, "watch")
	}

	s.watcher = w

	<-ctx.Done()
	return ctx.Err()
}

// syncStore persists the index. Watch-mode syncs go through the limiter;
// forced syncs (initial scan, shutdown) always run.
func (s *Service) syncStore(force bool) {
	if s.store == nil {
		return
	}
	if !force && !s.syncLimiter.Allow(1) {
		return
	}
	if err := s.store.SyncFromIndex(s.Index); err != nil {
		s.logger.Warn("failed to persist clause signatures", "error", err)
	}
}

func (s *Service) Close(ctx context.Context) error {
	if s == nil {
		return nil
	}
	if s.watcher != nil {
		_ = s.watcher.Close()
	}
	if s.store != nil {
		s.syncStore(true)
		return s.store.Close()
	}
	return nil
}

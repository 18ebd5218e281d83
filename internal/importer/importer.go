// Package importer ingests poem files dropped into the import
// directory and publishes them. Each file holds one poem as JSON;
// processed files are moved aside so the directory stays a queue.
package importer

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/poezjaapp/poezja-server/internal/service"
	"github.com/poezjaapp/poezja-server/internal/watcher"
)

const (
	doneDir   = "imported"
	failedDir = "failed"
)

// poemFile is the on-disk import format.
type poemFile struct {
	Title     string `json:"title"`
	Body      string `json:"body"`
	CreatedAt string `json:"created_at"` // local YYYY-MM-DDTHH:MM, optional
	Tags      string `json:"tags"`       // comma-separated, optional
}

// Importer watches the import directory and publishes dropped poems.
type Importer struct {
	dir     string
	poems   *service.PoemService
	watcher *watcher.Watcher
	logger  *slog.Logger
}

// New creates an importer over dir. The done and failed subdirectories
// are created up front so processed files always have somewhere to go.
func New(dir string, poems *service.PoemService, logger *slog.Logger) (*Importer, error) {
	for _, sub := range []string{"", doneDir, failedDir} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			return nil, fmt.Errorf("create import dir: %w", err)
		}
	}

	w, err := watcher.New(logger, watcher.Options{})
	if err != nil {
		return nil, err
	}

	return &Importer{
		dir:     dir,
		poems:   poems,
		watcher: w,
		logger:  logger,
	}, nil
}

// Run watches the import directory until the context is cancelled.
func (im *Importer) Run(ctx context.Context) error {
	if err := im.watcher.Watch(im.dir); err != nil {
		return err
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-im.watcher.Events():
				if !ok {
					return
				}
				im.process(ctx, ev.Path)
			case err, ok := <-im.watcher.Errors():
				if !ok {
					return
				}
				im.logger.Error("Import watch error", "error", err)
			}
		}
	}()

	err := im.watcher.Start(ctx)
	im.watcher.Stop()
	return err
}

// process imports one file and files it under imported/ or failed/.
func (im *Importer) process(ctx context.Context, path string) {
	if !strings.EqualFold(filepath.Ext(path), ".json") {
		im.logger.Warn("Skipping non-JSON file in import directory", "path", path)
		return
	}

	if err := im.importFile(ctx, path); err != nil {
		im.logger.Error("Poem import failed", "path", path, "error", err)
		im.archive(path, failedDir)
		return
	}

	im.logger.Info("Poem imported", "path", path)
	im.archive(path, doneDir)
}

func (im *Importer) importFile(ctx context.Context, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read import file: %w", err)
	}

	var pf poemFile
	if err := json.Unmarshal(raw, &pf); err != nil {
		return fmt.Errorf("parse import file: %w", err)
	}

	_, err = im.poems.CreatePoem(ctx, service.CreatePoemRequest{
		Title:     pf.Title,
		Body:      pf.Body,
		CreatedAt: pf.CreatedAt,
		Tags:      pf.Tags,
	})
	return err
}

// archive moves a processed file into a subdirectory. A name clash
// gets a numeric suffix rather than overwriting the earlier file.
func (im *Importer) archive(path, sub string) {
	base := filepath.Base(path)
	target := filepath.Join(im.dir, sub, base)

	for i := 1; ; i++ {
		if _, err := os.Stat(target); os.IsNotExist(err) {
			break
		}
		ext := filepath.Ext(base)
		stem := strings.TrimSuffix(base, ext)
		target = filepath.Join(im.dir, sub, fmt.Sprintf("%s.%d%s", stem, i, ext))
	}

	if err := os.Rename(path, target); err != nil {
		im.logger.Error("Failed to archive import file", "path", path, "error", err)
	}
}

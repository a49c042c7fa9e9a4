// Package pageservice coordinates scanning, parsing, and persistence of
// prompt files.
package pageservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/starford/promptdeck/internal/apperr"
	"github.com/starford/promptdeck/internal/index"
	"github.com/starford/promptdeck/internal/models"
	"github.com/starford/promptdeck/internal/storage"
)

// SeedResult describes what one file produced during a reseed.
type SeedResult struct {
	File   string `json:"file"`
	Type   string `json:"type"`
	Target string `json:"target"`
}

// PageDetail joins a page with the master prompt covering its target, if any.
type PageDetail struct {
	models.Page
	MasterPrompt *models.MasterPrompt `json:"master_prompt,omitempty"`
}

// Service coordinates storage and index operations.
type Service struct {
	store  storage.Provider
	db     *index.DB
	logger *slog.Logger
}

// NewService creates a new page service.
func NewService(store storage.Provider, db *index.DB, logger *slog.Logger) *Service {
	return &Service{store: store, db: db, logger: logger}
}

// Reseed scans the codebase and re-ingests every candidate file,
// replacing each page wholesale. Zero-section files are skipped from the
// results. A missing codebase root surfaces as apperr.ErrNotFound; any
// other failure aborts the run with already-processed files persisted.
func (s *Service) Reseed(_ context.Context) ([]SeedResult, error) {
	metas, err := s.store.List("")
	if err != nil {
		return nil, err
	}

	results := []SeedResult{}
	for _, m := range metas {
		data, err := s.store.Read(m.Path)
		if err != nil {
			return nil, fmt.Errorf("reseed: read %s: %w", m.Path, err)
		}
		res, err := index.IngestFile(s.db, m.Path, data)
		if err != nil {
			return nil, fmt.Errorf("reseed: ingest %s: %w", m.Path, err)
		}
		if res.Type == index.FileTypeSkipped {
			s.logger.Debug("reseed: not a prompt file", slog.String("path", m.Path))
			continue
		}
		results = append(results, SeedResult{File: m.Path, Type: res.Type, Target: res.Target})
	}

	s.logger.Info("reseed complete", slog.Int("files", len(results)))
	return results, nil
}

// Pages returns all pages joined with the master prompts covering their
// targets.
func (s *Service) Pages(_ context.Context) ([]PageDetail, error) {
	pages, err := s.db.ListPages()
	if err != nil {
		return nil, err
	}
	masters, err := s.db.ListMasterPrompts()
	if err != nil {
		return nil, err
	}
	byTarget := make(map[string]models.MasterPrompt, len(masters))
	for _, mp := range masters {
		byTarget[mp.PageFilePath] = mp
	}

	out := make([]PageDetail, len(pages))
	for i, p := range pages {
		out[i] = PageDetail{Page: p}
		if mp, ok := byTarget[p.TargetFile]; ok {
			cp := mp
			out[i].MasterPrompt = &cp
		}
	}
	return out, nil
}

// Page returns one page by its prompt file path.
func (s *Service) Page(_ context.Context, path string) (*PageDetail, error) {
	p, err := s.db.GetPage(path)
	if err != nil {
		return nil, err
	}
	detail := &PageDetail{Page: *p}
	masters, err := s.db.ListMasterPrompts()
	if err != nil {
		return nil, err
	}
	for _, mp := range masters {
		if mp.PageFilePath == p.TargetFile {
			cp := mp
			detail.MasterPrompt = &cp
			break
		}
	}
	return detail, nil
}

// MasterPrompts returns all stored master prompts.
func (s *Service) MasterPrompts(_ context.Context) ([]models.MasterPrompt, error) {
	return s.db.ListMasterPrompts()
}

// SaveFile rewrites a prompt file's raw text on disk. It does not
// re-parse; callers trigger a reseed (or rely on the watcher) to refresh
// the index. The file must already exist and be a .txt file.
func (s *Service) SaveFile(_ context.Context, path, content string) error {
	if !strings.HasSuffix(path, ".txt") {
		return fmt.Errorf("save: %s is not a prompt file: %w", path, apperr.ErrConflict)
	}
	if _, err := s.store.Read(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("save: %s: %w", path, apperr.ErrNotFound)
		}
		return err
	}
	return s.store.Write(path, []byte(content))
}

// Search delegates full-text search to the index.
func (s *Service) Search(_ context.Context, query string, limit int) ([]index.SearchResult, error) {
	return s.db.Search(query, limit)
}

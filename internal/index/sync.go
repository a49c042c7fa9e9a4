package index

import (
	"log/slog"

	"github.com/starford/promptdeck/internal/storage"
)

// Sync walks the codebase and brings the index up to date:
//   - new/changed prompt files are parsed and persisted
//   - files removed from disk have their records deleted
//
// Unchanged files (matching checksum) are skipped. A forced reseed that
// re-parses everything is the service layer's job; Sync keeps the watcher
// and startup paths cheap.
func Sync(db *DB, store storage.Provider, logger *slog.Logger) error {
	metas, err := store.List("")
	if err != nil {
		return err
	}

	checksums, err := db.AllChecksums()
	if err != nil {
		return err
	}

	disk := make(map[string]struct{}, len(metas))
	for _, m := range metas {
		disk[m.Path] = struct{}{}

		if checksums[m.Path] == m.Checksum {
			continue
		}

		data, err := store.Read(m.Path)
		if err != nil {
			logger.Warn("sync: read failed", slog.String("path", m.Path), slog.String("error", err.Error()))
			continue
		}
		if _, err := IngestFile(db, m.Path, data); err != nil {
			logger.Warn("sync: ingest failed", slog.String("path", m.Path), slog.String("error", err.Error()))
		} else {
			logger.Debug("sync: ingested", slog.String("path", m.Path))
		}
	}

	// Remove records for files no longer on disk.
	for p := range checksums {
		if _, ok := disk[p]; !ok {
			if err := db.DeleteFile(p); err != nil {
				logger.Warn("sync: delete failed", slog.String("path", p), slog.String("error", err.Error()))
			} else {
				logger.Debug("sync: removed stale", slog.String("path", p))
			}
		}
	}

	return nil
}

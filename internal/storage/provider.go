// Package storage defines the codebase file-system abstraction.
package storage

import "github.com/starford/promptdeck/internal/models"

// Provider is the interface for codebase file operations.
type Provider interface {
	// List returns metadata for every candidate .txt file under dir
	// (relative to the codebase root), sorted by path. A missing root
	// yields an error wrapping apperr.ErrNotFound.
	List(dir string) ([]models.FileMetadata, error)
	// Read returns the raw bytes of the file at path (relative to root).
	Read(path string) ([]byte, error)
	// Write atomically writes content to path (relative to root).
	Write(path string, content []byte) error
}

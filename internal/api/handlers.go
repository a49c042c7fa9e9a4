package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/promptdeck/internal/apperr"
	"github.com/starford/promptdeck/internal/index"
	"github.com/starford/promptdeck/internal/pageservice"
)

// Handler holds API route handlers.
type Handler struct {
	svc *pageservice.Service
	// onSeed, if non-nil, is called after a successful reseed with the
	// number of ingested files (SSE notification hook).
	onSeed func(files int)
}

// NewHandler creates a new Handler.
func NewHandler(svc *pageservice.Service, onSeed func(files int)) *Handler {
	return &Handler{svc: svc, onSeed: onSeed}
}

// pagePath extracts the page path from the URL (everything after /pages/).
// Supports encoded slashes (e.g. app%2Fa.txt).
func pagePath(r *http.Request) string {
	raw := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	if raw == "" {
		return ""
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// Seed handles POST /seed: scan, parse, and persist all prompt files.
func (h *Handler) Seed(w http.ResponseWriter, r *http.Request) {
	results, err := h.svc.Reseed(r.Context())
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("codebase directory not found"))
			return
		}
		slog.Error("reseed failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("reseed failed"))
		return
	}
	if h.onSeed != nil {
		h.onSeed(len(results))
	}
	writeJSON(w, http.StatusOK, SeedResponse{Results: results})
}

// ListPages handles GET /pages.
func (h *Handler) ListPages(w http.ResponseWriter, r *http.Request) {
	pages, err := h.svc.Pages(r.Context())
	if err != nil {
		slog.Error("list pages failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, PagesResponse{Pages: pages})
}

// GetPage handles GET /pages/*.
func (h *Handler) GetPage(w http.ResponseWriter, r *http.Request) {
	path := pagePath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	page, err := h.svc.Page(r.Context(), path)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("get page failed", slog.String("path", path), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// Save handles POST /save: rewrite a prompt file's raw text on disk.
// The index is not refreshed here; clients reseed (or the watcher
// catches the write).
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	var req SaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	// Empty content is a legitimate save (clearing a file); only the
	// path is required.
	if req.Path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}

	if err := h.svc.SaveFile(r.Context(), req.Path, req.Content); err != nil {
		switch {
		case errors.Is(err, apperr.ErrNotFound):
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		case errors.Is(err, apperr.ErrConflict):
			writeJSON(w, http.StatusBadRequest, errorBody("not a prompt file"))
		default:
			slog.Error("save failed", slog.String("path", req.Path), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Search handles GET /search.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	results, err := h.svc.Search(r.Context(), q, limit)
	if err != nil {
		slog.Error("search failed", slog.String("query", q), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if results == nil {
		results = []index.SearchResult{}
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: results})
}

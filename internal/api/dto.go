package api

import (
	"github.com/starford/promptdeck/internal/index"
	"github.com/starford/promptdeck/internal/pageservice"
)

// LoginRequest is the request body for POST /auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RefreshRequest is the request body for POST /auth/refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// SaveRequest is the request body for POST /save.
type SaveRequest struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// SeedResponse wraps a reseed outcome.
type SeedResponse struct {
	Results []pageservice.SeedResult `json:"results"`
}

// PagesResponse wraps the full page listing.
type PagesResponse struct {
	Pages []pageservice.PageDetail `json:"pages"`
}

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []index.SearchResult `json:"results"`
}

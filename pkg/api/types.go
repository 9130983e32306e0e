package api

import (
	"github.com/ssargent/smbreplay/pkg/storage"
)

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ImportResponse is returned after a replay is added to the library
type ImportResponse struct {
	ID     string `json:"id"`
	Format string `json:"format"`
}

// ListResponse wraps the library listing
type ListResponse struct {
	Replays []storage.Entry `json:"replays"`
	Count   int             `json:"count"`
}

// ServerConfig holds configuration for the API server
type ServerConfig struct {
	Bind         string
	Port         int
	APIKey       string // empty disables authentication
	MaxBodyBytes int64
}

// DefaultMaxBodyBytes bounds uploaded replays. A structured text replay is
// a few megabytes at most.
const DefaultMaxBodyBytes = 16 << 20

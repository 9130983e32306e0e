// Package api provides factory implementations for dependency injection
package api

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/ssargent/smbreplay/pkg/convert"
	"github.com/ssargent/smbreplay/pkg/storage"
)

// LibraryDirName is the pebble directory created under the data dir
const LibraryDirName = "library"

// DefaultLibraryFactory is the default implementation of LibraryFactory
type DefaultLibraryFactory struct{}

// NewLibraryFactory creates a new library factory
func NewLibraryFactory() LibraryFactory {
	return &DefaultLibraryFactory{}
}

// OpenLibrary opens the pebble backed library under dataDir, creating it if needed
func (f *DefaultLibraryFactory) OpenLibrary(dataDir string) (ReplayLibrary, error) {
	if err := os.MkdirAll(dataDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}
	lib, err := storage.Open(filepath.Join(dataDir, LibraryDirName))
	if err != nil {
		return nil, err
	}
	return lib, nil
}

// DefaultServerFactory is the default implementation of ServerFactory
type DefaultServerFactory struct{}

// NewServerFactory creates a new server factory
func NewServerFactory() ServerFactory {
	return &DefaultServerFactory{}
}

// CreateServer builds a server with its own metrics registry and a converter
// that reports to it
func (f *DefaultServerFactory) CreateServer(library ReplayLibrary, config ServerConfig, logger *slog.Logger) ServerStarter {
	metrics := NewMetrics(prometheus.NewRegistry())
	converter := convert.New(convert.WithObserver(metrics), convert.WithLogger(logger))
	return NewServer(library, converter, config, metrics, logger)
}

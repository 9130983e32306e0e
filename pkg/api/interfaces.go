// Package api provides interfaces for dependency injection
package api

import (
	"context"
	"log/slog"

	"github.com/segmentio/ksuid"
	"github.com/ssargent/smbreplay/pkg/convert"
	"github.com/ssargent/smbreplay/pkg/replay"
	"github.com/ssargent/smbreplay/pkg/storage"
)

// ReplayLibrary defines the replay store operations the server needs
type ReplayLibrary interface {
	Put(r *replay.Record) (ksuid.KSUID, error)
	Get(id ksuid.KSUID) (*replay.Record, error)
	Delete(id ksuid.KSUID) error
	List() ([]storage.Entry, error)
	Count() (int, error)
	Close() error
}

// ReplayConverter moves replays between formats
type ReplayConverter interface {
	Decode(data []byte, f convert.Format) (*replay.Record, error)
	Encode(r *replay.Record, f convert.Format) ([]byte, error)
	Convert(data []byte, from, to convert.Format) ([]byte, error)
}

// LibraryFactory opens replay libraries
type LibraryFactory interface {
	// OpenLibrary opens the library kept under dataDir
	OpenLibrary(dataDir string) (ReplayLibrary, error)
}

// ServerStarter runs the API server until its context is cancelled
type ServerStarter interface {
	Start(ctx context.Context) error
}

// ServerFactory creates server instances
type ServerFactory interface {
	// CreateServer wires a server around an open library
	CreateServer(library ReplayLibrary, config ServerConfig, logger *slog.Logger) ServerStarter
}

package di

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/ssargent/smbreplay/pkg/api"
	"github.com/ssargent/smbreplay/pkg/convert"
	"github.com/ssargent/smbreplay/pkg/gci"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubServerFactory struct {
	config api.ServerConfig
}

func (f *stubServerFactory) CreateServer(_ api.ReplayLibrary, config api.ServerConfig, _ *slog.Logger) api.ServerStarter {
	f.config = config
	return stubStarter{}
}

type stubStarter struct{}

func (stubStarter) Start(context.Context) error { return nil }

func TestNewContainer_Defaults(t *testing.T) {
	c := NewContainer()

	assert.IsType(t, &api.DefaultLibraryFactory{}, c.GetLibraryFactory())
	assert.IsType(t, &api.DefaultServerFactory{}, c.GetServerFactory())
	assert.NotNil(t, c.NewConverter())
}

func TestContainer_OpensLibrary(t *testing.T) {
	c := NewContainer()

	lib, err := c.GetLibraryFactory().OpenLibrary(filepath.Join(t.TempDir(), "data"))
	require.NoError(t, err)
	defer lib.Close()

	n, err := lib.Count()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestContainer_Overrides(t *testing.T) {
	c := NewContainer()

	servers := &stubServerFactory{}
	c.SetServerFactory(servers)
	starter := c.GetServerFactory().CreateServer(nil, api.ServerConfig{Port: 1234}, nil)
	require.NoError(t, starter.Start(context.Background()))
	assert.Equal(t, 1234, servers.config.Port)

	var built int
	c.SetConverterFactory(func(opts ...convert.Option) *convert.Converter {
		built++
		clock := func() time.Time { return time.UnixMilli(0) }
		return convert.New(append(opts, convert.WithPackager(gci.NewPackagerWithClock(clock)))...)
	})
	assert.NotNil(t, c.NewConverter())
	assert.Equal(t, 1, built)

	c.SetLibraryFactory(nil)
	assert.Nil(t, c.GetLibraryFactory())
}

package config

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerGet(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 7000
`)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	mgr, err := NewManager(path, logger)
	require.NoError(t, err)
	defer mgr.Close()

	assert.Equal(t, 7000, mgr.Get().Server.Port)
}

func TestManagerReloadOnChange(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 7000
`)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	mgr, err := NewManager(path, logger)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, mgr.Watch(ctx))

	changed := make(chan *Config, 1)
	mgr.OnChange(func(cfg *Config) {
		select {
		case changed <- cfg:
		default:
		}
	})

	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 7001
`), 0o600))

	select {
	case cfg := <-changed:
		assert.Equal(t, 7001, cfg.Server.Port)
		assert.Equal(t, 7001, mgr.Get().Server.Port)
	case <-time.After(5 * time.Second):
		t.Fatal("config reload not observed")
	}
}

func TestManagerKeepsCurrentOnBadReload(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 7000
`)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	mgr, err := NewManager(path, logger)
	require.NoError(t, err)
	defer mgr.Close()

	require.NoError(t, os.WriteFile(path, []byte(`server: [`), 0o600))
	mgr.reload()

	assert.Equal(t, 7000, mgr.Get().Server.Port)
}

package app

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"watch/internal/config"
	"watch/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenStore_MemoryWithoutDSN(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	store, err := openStore(context.Background(), config.DatabaseConfig{}, log)

	require.NoError(t, err)
	defer store.Close()
	assert.IsType(t, &storage.MemorySubscriptionStore{}, store)
}

func TestOpenStore_InvalidDSN(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	store, err := openStore(context.Background(), config.DatabaseConfig{DSN: "::not a dsn::"}, log)

	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestNew_WiresComponents(t *testing.T) {
	cfg := config.New()
	cfg.Port = 0
	cfg.Logger.File = t.TempDir() + "/app.log"
	cfg.Logger.ErrorFile = t.TempDir() + "/error.log"

	application, err := New(cfg)

	require.NoError(t, err)
	assert.Equal(t, ":0", application.server.Addr)
	assert.Equal(t, cfg.Notify.Interval, application.worker.Interval())
	assert.NotNil(t, application.server.Handler)
	application.store.Close()
}

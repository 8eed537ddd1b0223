package persistence

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-reminder/internal/config"
)

func TestMigrationFilesOrdersSQLOnly(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"002_b.sql", "001_a.sql", "README.md"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("--"), 0o600))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o700))

	files, err := migrationFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"001_a.sql", "002_b.sql"}, files)
}

func TestMigrationFilesMissingDir(t *testing.T) {
	_, err := migrationFiles(filepath.Join(t.TempDir(), "absent"))
	assert.Error(t, err)
}

func TestRunMigrationsWithoutPool(t *testing.T) {
	assert.NoError(t, RunMigrations(context.Background(), nil, "", zap.NewNop()))
}

func TestDisabledBackends(t *testing.T) {
	ctx := context.Background()

	pg, err := NewPostgres(ctx, config.PostgresConfig{}, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, pg.Enabled())
	assert.Error(t, pg.Ping(ctx))
	pg.Close()

	rdb := NewRedis(ctx, config.RedisConfig{}, zap.NewNop())
	assert.Nil(t, rdb)

	var dest string
	assert.ErrorIs(t, rdb.Get(ctx, "k", &dest), redis.Nil)
	assert.Error(t, rdb.Set(ctx, "k", "v", 0))
	assert.Error(t, rdb.Ping(ctx))
	rdb.Close()
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 1789, cfg.Server.Port)
	assert.Equal(t, 1024, cfg.Server.MaxConnections)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Game.MinPlayers)
	assert.Equal(t, 8, cfg.Game.MaxPlayers)
	assert.Equal(t, 7, cfg.Game.StartingHand)
	assert.False(t, cfg.Game.SkipDisconnected)
	assert.Equal(t, 30*time.Minute, cfg.Game.RoomTimeoutDuration())

	// The admin channel stays closed unless a token is configured
	assert.Empty(t, cfg.Admin.Token)
}

func TestLoad(t *testing.T) {
	content := `
server:
  host: "127.0.0.1"
  port: 9000
game:
  min_players: 3
  skip_disconnected: true
admin:
  token: "secret"
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 3, cfg.Game.MinPlayers)
	assert.True(t, cfg.Game.SkipDisconnected)
	assert.Equal(t, "secret", cfg.Admin.Token)

	// Omitted keys fall back to defaults
	assert.Equal(t, 8, cfg.Game.MaxPlayers)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "LOG_LEVEL", "DATABASE_URL", "ROOM_WIDTH", "MAX_ROOMS", "DRAW_GRID", "GRID_COLUMNS"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Equal(t, 20.0, cfg.RoomWidth)
	assert.Equal(t, 20, cfg.MaxRooms)
	assert.True(t, cfg.DrawGrid)
	assert.Equal(t, 5, cfg.GridColumns)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("ROOM_WIDTH", "12.5")
	t.Setenv("MAX_ROOMS", "64")
	t.Setenv("DRAW_GRID", "false")
	t.Setenv("CATALOG_PATH", "/etc/rooms.json")

	cfg := Load()
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, 12.5, cfg.RoomWidth)
	assert.Equal(t, 64, cfg.MaxRooms)
	assert.False(t, cfg.DrawGrid)
	assert.Equal(t, "/etc/rooms.json", cfg.CatalogPath)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("PORT", "not-a-port")
	t.Setenv("ROOM_HEIGHT", "tall")
	t.Setenv("DRAW_GRID", "maybe")

	cfg := Load()
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 20.0, cfg.RoomHeight)
	assert.True(t, cfg.DrawGrid)
}

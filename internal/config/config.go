package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port        int
	LogLevel    string
	LogFormat   string
	DatabaseURL string // empty = in-memory store

	// Generator
	CatalogPath string // empty = built-in room set
	RoomWidth   float64
	RoomHeight  float64
	MaxRooms    int

	// Debug grid overlay
	DrawGrid    bool
	GridColumns int
	GridRows    int
	BoxWidth    float64
	BoxHeight   float64
}

func Load() *Config {
	return &Config{
		Port:        getEnvInt("PORT", 8080),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "text"),
		DatabaseURL: getEnv("DATABASE_URL", ""),

		CatalogPath: getEnv("CATALOG_PATH", ""),
		RoomWidth:   getEnvFloat("ROOM_WIDTH", 20),
		RoomHeight:  getEnvFloat("ROOM_HEIGHT", 20),
		MaxRooms:    getEnvInt("MAX_ROOMS", 20),

		DrawGrid:    getEnvBool("DRAW_GRID", true),
		GridColumns: getEnvInt("GRID_COLUMNS", 5),
		GridRows:    getEnvInt("GRID_ROWS", 5),
		BoxWidth:    getEnvFloat("BOX_WIDTH", 20),
		BoxHeight:   getEnvFloat("BOX_HEIGHT", 20),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

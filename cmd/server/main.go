package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ugaemi/facilitygen/internal/catalog"
	"github.com/ugaemi/facilitygen/internal/config"
	"github.com/ugaemi/facilitygen/internal/handler"
	"github.com/ugaemi/facilitygen/internal/store"
	"github.com/ugaemi/facilitygen/internal/ws"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

func main() {
	cfg := config.Load()
	setupLogger(cfg)

	lib, err := loadCatalog(cfg)
	if err != nil {
		slog.Error("failed to load room catalog", "path", cfg.CatalogPath, "error", err)
		os.Exit(1)
	}
	slog.Info("room catalog loaded", "name", lib.Name, "templates", len(lib.Templates()))

	blueprints, err := openStore(cfg)
	if err != nil {
		slog.Error("failed to open blueprint store", "error", err)
		os.Exit(1)
	}
	defer blueprints.Close()

	hub := ws.NewHub()
	maps := handler.NewMapHandler(lib, blueprints, hub, handler.GeneratorSettings{
		CellWidth:  cfg.RoomWidth,
		CellHeight: cfg.RoomHeight,
		MaxRooms:   cfg.MaxRooms,
	})
	router := handler.NewRouter(maps)

	hub.OnMessage = router.HandleMessage
	hub.OnDisconnect = router.HandleDisconnect

	go hub.Run()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", handleHealth)
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		handleWebSocket(hub, w, r)
	})
	if cfg.DrawGrid {
		overlays := handler.NewOverlayHandler(blueprints, handler.GridSettings{
			Columns:   cfg.GridColumns,
			Rows:      cfg.GridRows,
			BoxWidth:  cfg.BoxWidth,
			BoxHeight: cfg.BoxHeight,
		})
		mux.Handle("GET /maps/{code}/overlay", overlays)
		mux.HandleFunc("GET /maps/{code}/grid", overlays.ServeGrid)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	slog.Info("server starting", "addr", addr, "max_rooms", cfg.MaxRooms,
		"cell", fmt.Sprintf("%gx%g", cfg.RoomWidth, cfg.RoomHeight))
	if err := http.ListenAndServe(addr, mux); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func loadCatalog(cfg *config.Config) (*catalog.Library, error) {
	if cfg.CatalogPath == "" {
		return catalog.Default(), nil
	}
	return catalog.LoadFile(cfg.CatalogPath)
}

func openStore(cfg *config.Config) (store.BlueprintStore, error) {
	if cfg.DatabaseURL == "" {
		slog.Warn("DATABASE_URL not set, blueprints are kept in memory")
		return store.NewMemoryStore(), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return store.NewPostgresStore(ctx, cfg.DatabaseURL)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func handleWebSocket(hub *ws.Hub, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("websocket upgrade failed", "error", err)
		return
	}

	client := ws.NewClient(fmt.Sprintf("client-%d", hub.NextClientID()), hub, conn)
	hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}

func setupLogger(cfg *config.Config) {
	var h slog.Handler
	opts := &slog.HandlerOptions{}

	switch cfg.LogLevel {
	case "debug":
		opts.Level = slog.LevelDebug
	case "warn":
		opts.Level = slog.LevelWarn
	case "error":
		opts.Level = slog.LevelError
	default:
		opts.Level = slog.LevelInfo
	}

	switch cfg.LogFormat {
	case "json":
		h = slog.NewJSONHandler(os.Stdout, opts)
	default:
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(h))
}

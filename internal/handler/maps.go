package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/ugaemi/facilitygen/internal/blueprint"
	"github.com/ugaemi/facilitygen/internal/catalog"
	"github.com/ugaemi/facilitygen/internal/geom"
	"github.com/ugaemi/facilitygen/internal/mapgen"
	"github.com/ugaemi/facilitygen/internal/store"
	"github.com/ugaemi/facilitygen/internal/ws"
)

const storeTimeout = 5 * time.Second

// Broadcaster sends a message to every connected client.
type Broadcaster interface {
	Broadcast(msg ws.Message)
}

// GeneratorSettings are the server-side generation parameters.
type GeneratorSettings struct {
	CellWidth  float64
	CellHeight float64
	MaxRooms   int // default and upper bound for requests
}

// MapHandler handles blueprint generation and lookup messages.
type MapHandler struct {
	catalog  mapgen.Catalog
	store    store.BlueprintStore
	hub      Broadcaster
	settings GeneratorSettings

	// seedFunc picks a seed when the client does not send one.
	seedFunc func() int64
}

// NewMapHandler creates a new map handler. hub may be nil.
func NewMapHandler(c mapgen.Catalog, s store.BlueprintStore, hub Broadcaster, settings GeneratorSettings) *MapHandler {
	return &MapHandler{
		catalog:  c,
		store:    s,
		hub:      hub,
		settings: settings,
		seedFunc: func() int64 { return time.Now().UnixNano() },
	}
}

// GenerateRequest is the payload of a generate_map message.
type GenerateRequest struct {
	Seed     int64      `json:"seed"`
	MaxRooms int        `json:"max_rooms"`
	Start    *geom.Vec3 `json:"start,omitempty"`
}

type mapGeneratedResponse struct {
	Blueprint *blueprint.Blueprint `json:"blueprint"`
	Connected bool                 `json:"connected"`
}

type mapSummary struct {
	ID         string            `json:"id"`
	Code       string            `json:"code"`
	Seed       int64             `json:"seed"`
	Rooms      int               `json:"rooms"`
	StopReason mapgen.StopReason `json:"stop_reason"`
	CreatedAt  time.Time         `json:"created_at"`
}

func summarize(bp *blueprint.Blueprint) mapSummary {
	return mapSummary{
		ID:         bp.ID,
		Code:       bp.Code,
		Seed:       bp.Seed,
		Rooms:      len(bp.Rooms),
		StopReason: bp.StopReason,
		CreatedAt:  bp.CreatedAt,
	}
}

// errInvalidRequest marks errors caused by the request rather than the server.
var errInvalidRequest = errors.New("invalid request")

// Generate runs one fill with the request parameters and stores the result.
func (h *MapHandler) Generate(ctx context.Context, req GenerateRequest) (*blueprint.Blueprint, *mapgen.Layout, error) {
	maxRooms := req.MaxRooms
	if maxRooms == 0 {
		maxRooms = h.settings.MaxRooms
	}
	if maxRooms < 1 || maxRooms > h.settings.MaxRooms {
		return nil, nil, fmt.Errorf("%w: max_rooms must be between 1 and %d", errInvalidRequest, h.settings.MaxRooms)
	}

	seed := req.Seed
	if seed == 0 {
		seed = h.seedFunc()
	}
	start := geom.Zero
	if req.Start != nil {
		start = *req.Start
	}

	gen := mapgen.NewGenerator(h.catalog, catalog.NewTemplateSpawner(), mapgen.Config{
		CellWidth:  h.settings.CellWidth,
		CellHeight: h.settings.CellHeight,
		Seed:       seed,
	})
	layout, err := gen.GenerateMap(start, maxRooms)
	if err != nil {
		return nil, nil, err
	}

	codes, err := h.store.Codes(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load share codes: %w", err)
	}
	bp := blueprint.New(layout, seed, blueprint.GenerateCode(rand.New(rand.NewSource(seed)), codes))
	if err := h.store.Create(ctx, bp); err != nil {
		return nil, nil, fmt.Errorf("store blueprint: %w", err)
	}
	return bp, layout, nil
}

// HandleGenerateMap handles a generation request.
func (h *MapHandler) HandleGenerateMap(client *ws.Client, msg ws.Message) {
	var req GenerateRequest
	if len(msg.Data) > 0 {
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			client.SendMessage(ws.NewErrorMessage("invalid generation request"))
			return
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	bp, layout, err := h.Generate(ctx, req)
	if err != nil {
		h.sendGenerateError(client, err)
		return
	}

	client.Reply(ws.TypeMapGenerated, mapGeneratedResponse{
		Blueprint: bp,
		Connected: layout.Connected(),
	})

	if h.hub != nil {
		if announce, err := ws.NewMessage(ws.TypeMapPublished, summarize(bp)); err == nil {
			h.hub.Broadcast(announce)
		}
	}

	slog.Info("map generated", "client", client.ID, "code", bp.Code, "rooms", len(bp.Rooms),
		"seed", bp.Seed, "reason", string(bp.StopReason))
}

func (h *MapHandler) sendGenerateError(client *ws.Client, err error) {
	switch {
	case errors.Is(err, errInvalidRequest):
		client.SendMessage(ws.NewErrorMessage(err.Error()))
	case errors.Is(err, mapgen.ErrNoTemplates):
		slog.Error("generation failed", "error", err)
		client.SendMessage(ws.NewErrorMessage("no room templates"))
	case errors.Is(err, mapgen.ErrConfiguration):
		slog.Error("generation failed", "error", err)
		client.SendMessage(ws.NewErrorMessage("invalid generation parameters"))
	case errors.Is(err, mapgen.ErrStartRoom):
		slog.Error("generation failed", "error", err)
		client.SendMessage(ws.NewErrorMessage("start room could not be placed"))
	default:
		slog.Error("generation failed", "error", err)
		client.SendMessage(ws.NewErrorMessage("internal error"))
	}
}

type getMapRequest struct {
	ID   string `json:"id,omitempty"`
	Code string `json:"code,omitempty"`
}

// HandleGetMap looks up a blueprint by ID or share code.
func (h *MapHandler) HandleGetMap(client *ws.Client, msg ws.Message) {
	var req getMapRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil || (req.ID == "" && req.Code == "") {
		client.SendMessage(ws.NewErrorMessage("id or code is required"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	var (
		bp  *blueprint.Blueprint
		err error
	)
	if req.ID != "" {
		bp, err = h.store.FindByID(ctx, req.ID)
	} else {
		bp, err = h.store.FindByCode(ctx, req.Code)
	}
	if err != nil {
		slog.Error("failed to find blueprint", "error", err)
		client.SendMessage(ws.NewErrorMessage("internal error"))
		return
	}
	if bp == nil {
		client.SendMessage(ws.NewErrorMessage("map not found"))
		return
	}

	client.Reply(ws.TypeMapInfo, bp)
}

type listMapsRequest struct {
	Limit int `json:"limit"`
}

type mapListResponse struct {
	Maps []mapSummary `json:"maps"`
}

// HandleListMaps lists the most recent blueprints.
func (h *MapHandler) HandleListMaps(client *ws.Client, msg ws.Message) {
	var req listMapsRequest
	if len(msg.Data) > 0 {
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			client.SendMessage(ws.NewErrorMessage("invalid list request"))
			return
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	list, err := h.store.List(ctx, req.Limit)
	if err != nil {
		slog.Error("failed to list blueprints", "error", err)
		client.SendMessage(ws.NewErrorMessage("internal error"))
		return
	}

	resp := mapListResponse{Maps: make([]mapSummary, 0, len(list))}
	for _, bp := range list {
		resp.Maps = append(resp.Maps, summarize(bp))
	}
	client.Reply(ws.TypeMapList, resp)
}

type deleteMapRequest struct {
	ID string `json:"id"`
}

type mapDeletedResponse struct {
	ID string `json:"id"`
}

// HandleDeleteMap removes a stored blueprint.
func (h *MapHandler) HandleDeleteMap(client *ws.Client, msg ws.Message) {
	var req deleteMapRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil || req.ID == "" {
		client.SendMessage(ws.NewErrorMessage("id is required"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	ok, err := h.store.Delete(ctx, req.ID)
	if err != nil {
		slog.Error("failed to delete blueprint", "error", err)
		client.SendMessage(ws.NewErrorMessage("internal error"))
		return
	}
	if !ok {
		client.SendMessage(ws.NewErrorMessage("map not found"))
		return
	}

	client.Reply(ws.TypeMapDeleted, mapDeletedResponse{ID: req.ID})
	slog.Info("map deleted", "client", client.ID, "id", req.ID)
}

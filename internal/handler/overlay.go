package handler

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ugaemi/facilitygen/internal/blueprint"
	"github.com/ugaemi/facilitygen/internal/geom"
	"github.com/ugaemi/facilitygen/internal/overlay"
	"github.com/ugaemi/facilitygen/internal/store"
)

// GridSettings sizes the debug grid.
type GridSettings struct {
	Columns   int
	Rows      int
	BoxWidth  float64
	BoxHeight float64
}

// OverlayHandler serves debug views of stored blueprints. ServeHTTP writes
// the ASCII overlay for GET /maps/{code}/overlay; with ?grid=1 the view is
// clipped to the debug grid instead of the blueprint's extent. ServeGrid
// writes the grid box outlines as JSON.
type OverlayHandler struct {
	store store.BlueprintStore
	grid  GridSettings
}

// NewOverlayHandler creates an overlay handler.
func NewOverlayHandler(s store.BlueprintStore, grid GridSettings) *OverlayHandler {
	return &OverlayHandler{store: s, grid: grid}
}

type gridBox struct {
	Center  geom.Vec3    `json:"center"`
	Corners [4]geom.Vec3 `json:"corners"`
}

type gridResponse struct {
	Code    string    `json:"code"`
	Columns int       `json:"columns"`
	Rows    int       `json:"rows"`
	Boxes   []gridBox `json:"boxes"`
}

// lookup resolves the {code} path value, writing an error response when the
// blueprint cannot be served.
func (h *OverlayHandler) lookup(w http.ResponseWriter, r *http.Request) *blueprint.Blueprint {
	code := strings.ToUpper(r.PathValue("code"))
	if !blueprint.ValidCode(code) {
		http.Error(w, "invalid map code", http.StatusBadRequest)
		return nil
	}

	bp, err := h.store.FindByCode(r.Context(), code)
	if err != nil {
		slog.Error("failed to find blueprint", "code", code, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return nil
	}
	if bp == nil {
		http.Error(w, "map not found", http.StatusNotFound)
		return nil
	}
	return bp
}

func (h *OverlayHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	bp := h.lookup(w, r)
	if bp == nil {
		return
	}

	win := overlay.Bounds(bp)
	if r.URL.Query().Get("grid") == "1" {
		win = overlay.GridWindow(h.grid.Columns, h.grid.Rows)
	}

	var buf bytes.Buffer
	if err := overlay.Render(&buf, bp, win); err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// ServeGrid handles GET /maps/{code}/grid.
func (h *OverlayHandler) ServeGrid(w http.ResponseWriter, r *http.Request) {
	bp := h.lookup(w, r)
	if bp == nil {
		return
	}

	boxes := overlay.Boxes(bp.Origin, h.grid.Columns, h.grid.Rows, h.grid.BoxWidth, h.grid.BoxHeight)
	resp := gridResponse{
		Code:    bp.Code,
		Columns: h.grid.Columns,
		Rows:    h.grid.Rows,
		Boxes:   make([]gridBox, 0, len(boxes)),
	}
	for _, b := range boxes {
		resp.Boxes = append(resp.Boxes, gridBox{Center: b.Center, Corners: b.Corners()})
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to write grid", "code", bp.Code, "error", err)
	}
}

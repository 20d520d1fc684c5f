package handler

import (
	"encoding/json"
	"log/slog"

	"github.com/ugaemi/facilitygen/internal/ws"
)

// Router dispatches incoming messages to the appropriate handler.
type Router struct {
	maps *MapHandler
}

// NewRouter creates a new message router.
func NewRouter(maps *MapHandler) *Router {
	return &Router{maps: maps}
}

// HandleMessage parses and routes an incoming client message.
func (r *Router) HandleMessage(cm *ws.ClientMessage) {
	var msg ws.Message
	if err := json.Unmarshal(cm.Data, &msg); err != nil {
		slog.Warn("invalid message format", "client", cm.Client.ID, "error", err)
		cm.Client.SendMessage(ws.NewErrorMessage("invalid message format"))
		return
	}

	switch msg.Type {
	case ws.TypeGenerateMap:
		r.maps.HandleGenerateMap(cm.Client, msg)
	case ws.TypeGetMap:
		r.maps.HandleGetMap(cm.Client, msg)
	case ws.TypeListMaps:
		r.maps.HandleListMaps(cm.Client, msg)
	case ws.TypeDeleteMap:
		r.maps.HandleDeleteMap(cm.Client, msg)

	default:
		slog.Warn("unknown message type", "type", msg.Type, "client", cm.Client.ID)
		cm.Client.SendMessage(ws.NewErrorMessage("unknown message type: " + msg.Type))
	}
}

// HandleDisconnect handles client disconnection.
func (r *Router) HandleDisconnect(client *ws.Client) {
	slog.Debug("router: client gone", "client", client.ID)
}

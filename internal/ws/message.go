package ws

import "encoding/json"

// Message represents a WebSocket message with type-based routing.
type Message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Message types - Client requests
const (
	TypeGenerateMap = "generate_map"
	TypeGetMap      = "get_map"
	TypeListMaps    = "list_maps"
	TypeDeleteMap   = "delete_map"
)

// Message types - Server responses
const (
	TypeMapGenerated = "map_generated"
	TypeMapInfo      = "map_info"
	TypeMapList      = "map_list"
	TypeMapDeleted   = "map_deleted"
	TypeMapPublished = "map_published" // broadcast to every client
)

// Message types - System
const (
	TypeError = "error"
)

// ErrorMessage is sent when an error occurs.
type ErrorMessage struct {
	Message string `json:"message"`
}

// NewErrorMessage creates a Message with an error payload.
func NewErrorMessage(msg string) Message {
	data, _ := json.Marshal(ErrorMessage{Message: msg})
	return Message{Type: TypeError, Data: data}
}

// NewMessage creates a Message with a typed payload.
func NewMessage(msgType string, payload any) (Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{Type: msgType, Data: data}, nil
}

package models

import "encoding/json"

// ClientMessage is one inbound frame from a player connection.
// The session identity is NOT part of the frame: it is attached by the
// WebSocket layer from the authenticated connection, so a client can never
// act as someone else by forging a field.
type ClientMessage struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// ServerMessage is one outbound frame.
type ServerMessage struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

// Inbound payloads.

type CreateRoomData struct {
	Name         string `json:"name"`
	Category     string `json:"category"`
	Mode         string `json:"mode"`
	TurnDuration int    `json:"turnDuration"` // seconds, lanjut mode only
	KeepHistory  bool   `json:"keepHistory"`
}

type JoinRoomData struct {
	Name   string `json:"name"`
	RoomID string `json:"roomId"`
}

// QuickMatchData joins the first waiting room of the same mode, creating a
// fresh one when nothing is open.
type QuickMatchData struct {
	Name         string `json:"name"`
	Category     string `json:"category"`
	Mode         string `json:"mode"`
	TurnDuration int    `json:"turnDuration"`
	KeepHistory  bool   `json:"keepHistory"`
}

type PickLetterData struct {
	Type   string `json:"type"` // "start" | "end"
	Letter string `json:"letter"`
}

type SubmitWordData struct {
	Word string `json:"word"`
}

type TypingStatusData struct {
	IsTyping bool `json:"isTyping"`
}

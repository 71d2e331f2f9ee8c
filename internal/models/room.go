package models

import "time"

// RoomSummary is one entry of the public room directory (rooms_update).
// Only waiting rooms are listed.
type RoomSummary struct {
	ID           string `json:"id"`
	Host         string `json:"host"`
	Category     string `json:"category"`
	Mode         string `json:"mode"`
	Players      int    `json:"players"`
	TurnDuration int    `json:"turnDuration,omitempty"`
}

// HistoryEntry is an immutable record of one settled turn or round.
type HistoryEntry struct {
	Word   string    `json:"word"`
	Player string    `json:"player"` // display name
	Reason string    `json:"reason"`
	At     time.Time `json:"at"`
}

// PickerRoles maps the two constraint slots to the session ids that own them.
type PickerRoles struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// RoomSnapshot is the full room state replayed to a reconnecting session.
// Letters are withheld while the room is still in the blind-pick phase:
// each side only ever learns its own pick until the reveal.
type RoomSnapshot struct {
	RoomID       string            `json:"roomId"`
	Mode         string            `json:"mode"`
	Category     string            `json:"category"`
	Status       string            `json:"status"`
	Players      map[string]string `json:"players"` // session id -> display name
	PickerRoles  *PickerRoles      `json:"pickerRoles,omitempty"`
	Letters      *Letters          `json:"letters,omitempty"`
	Scores       map[string]int    `json:"scores"`
	Streaks      map[string]int    `json:"streaks,omitempty"`
	History      []HistoryEntry    `json:"history"`
	CurrentTurn  string            `json:"currentTurn,omitempty"`
	LastWord     string            `json:"lastWord,omitempty"`
	Deadline     int64             `json:"deadline,omitempty"` // unix millis
	TurnDuration int               `json:"turnDuration,omitempty"`
	RoundsPlayed int               `json:"roundsPlayed"`
}

type Letters struct {
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
}

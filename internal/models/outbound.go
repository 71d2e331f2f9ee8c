package models

// Outbound payloads. Field names follow the wire format the web client
// already speaks (camelCase).

type JoinedRoomData struct {
	RoomID       string `json:"roomId"`
	Role         string `json:"role"` // "host" | "guest"
	Category     string `json:"category"`
	Mode         string `json:"mode"`
	TurnDuration int    `json:"turnDuration,omitempty"`
}

type GameStartData struct {
	RoomID       string            `json:"roomId"`
	Players      map[string]string `json:"players"`
	PickerRoles  *PickerRoles      `json:"pickerRoles,omitempty"`
	Category     string            `json:"category"`
	Mode         string            `json:"mode"`
	Scores       map[string]int    `json:"scores"`
	Streaks      map[string]int    `json:"streaks,omitempty"`
	CurrentTurn  string            `json:"currentTurn,omitempty"`
	TurnDuration int               `json:"turnDuration,omitempty"`
}

type LetterPickedData struct {
	Type   string `json:"type"`
	Letter string `json:"letter"`
}

type OpponentPickedData struct {
	Type string `json:"type"`
}

type RaceStartData struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type RoundOverData struct {
	Winner          string         `json:"winner"` // display name
	WinnerSessionID string         `json:"winnerSessionId"`
	Word            string         `json:"word,omitempty"`
	Reason          string         `json:"reason"`
	Scores          map[string]int `json:"scores"`
	Streaks         map[string]int `json:"streaks,omitempty"`
	History         []HistoryEntry `json:"history"`
	PointsAdded     int            `json:"pointsAdded"`
}

type ValidationFailData struct {
	Reason string `json:"reason"`
}

type NextRoundData struct {
	PickerRoles  PickerRoles       `json:"pickerRoles"`
	Players      map[string]string `json:"players"`
	Scores       map[string]int    `json:"scores"`
	Streaks      map[string]int    `json:"streaks"`
	History      []HistoryEntry    `json:"history"`
	RoundsPlayed int               `json:"roundsPlayed"`
}

type SkipUpdateData struct {
	Votes int    `json:"votes"`
	Voter string `json:"voter"` // session id of who just voted
}

type RoundSkippedData struct {
	PickerRoles PickerRoles `json:"pickerRoles"`
}

type OpponentStatusData struct {
	Online bool `json:"online"`
}

type TurnUpdateData struct {
	CurrentTurn string `json:"currentTurn"`
	Deadline    int64  `json:"deadline"` // unix millis
}

type WordAcceptedData struct {
	Word        string         `json:"word"`
	Player      string         `json:"player"` // session id of the submitter
	History     []HistoryEntry `json:"history"`
	Scores      map[string]int `json:"scores"`
	PointsAdded int            `json:"pointsAdded"`
}

type GameStartLanjutData struct {
	CurrentTurn string            `json:"currentTurn"`
	LastWord    string            `json:"lastWord"`
	Players     map[string]string `json:"players"`
	Scores      map[string]int    `json:"scores"`
	Status      string            `json:"status"`
	History     []HistoryEntry    `json:"history"`
}

type ReconnectSuccessData struct {
	RoomID   string       `json:"roomId"`
	RoomData RoomSnapshot `json:"roomData"`
}

type ErrorData struct {
	Message string `json:"message"`
}

package gamehub

import (
	"encoding/json"

	"github.com/bimantaraz/game-kata/internal/wordcheck"
)

// Inbound action names. These are the events the web client emits.
const (
	EvtCreateRoom       = "create_room"
	EvtJoinRoom         = "join_room"
	EvtJoinGame         = "join_game" // quick match
	EvtPickLetter       = "pick_letter"
	EvtTypingStatus     = "typing_status"
	EvtSubmitWord       = "submit_word"
	EvtSubmitWordLanjut = "submit_word_lanjut"
	EvtVoteSkip         = "vote_skip"
	EvtNextRound        = "request_next_round"
)

// Outbound event names.
const (
	EvtRoomsUpdate      = "rooms_update"
	EvtJoinedRoom       = "joined_room"
	EvtGameStart        = "game_start"
	EvtLetterPicked     = "letter_picked"
	EvtOpponentPicked   = "opponent_picked"
	EvtRaceStart        = "race_start"
	EvtOpponentTyping   = "opponent_typing"
	EvtRoundOver        = "round_over"
	EvtValidationFail   = "validation_fail"
	EvtNextRoundStarted = "next_round_started"
	EvtSkipUpdate       = "skip_update"
	EvtRoundSkipped     = "round_skipped"
	EvtOpponentStatus   = "opponent_status"
	EvtTurnUpdate       = "turn_update"
	EvtWordAccepted     = "word_accepted"
	EvtRoundOverLanjut  = "round_over_lanjut"
	EvtGameStartLanjut  = "game_start_lanjut"
	EvtReconnectSuccess = "reconnect_success"
	EvtPlayerLeft       = "player_left"
	EvtError            = "error"
)

// ActionEnvelope is one inbound action with the session token the WebSocket
// layer resolved for the connection. The token never comes from the payload.
type ActionEnvelope struct {
	Token string
	Event string
	Data  json.RawMessage
}

// turnExpiry is posted into the hub loop when an armed turn timer fires.
// Seq lets the handler drop a fire that lost the race against an accepted
// word (the room has moved on to a newer turn by then).
type turnExpiry struct {
	RoomID string
	Seq    uint64
}

// oracleVerdict carries the validation gateway's decision back into the hub
// loop. The room state must be re-checked against it: the room may have
// been torn down or the round resolved while the oracle call was in flight.
type oracleVerdict struct {
	RoomID  string
	Token   string
	Word    string
	Seq     uint64 // TurnSeq (chain) or RoundSeq (race) at submission time
	Mode    GameMode
	Verdict wordcheck.Verdict
}

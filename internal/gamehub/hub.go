package gamehub

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/bimantaraz/game-kata/internal/config"
	"github.com/bimantaraz/game-kata/internal/models"
	"github.com/bimantaraz/game-kata/internal/obslog"
	"github.com/bimantaraz/game-kata/internal/wordcheck"
)

// Hub owns the session and room tables. A single Run loop processes every
// inbound action, timer fire, and oracle verdict, so at most one event
// mutates a room at any instant; concurrency exists across the suspended
// oracle calls, whose results re-enter the loop and are re-checked against
// current state.
type Hub struct {
	cfg       *config.AppConfig
	validator wordcheck.Validator

	Sessions map[string]*Session
	Rooms    map[string]*Room

	RegisterCh   chan Client
	UnregisterCh chan Client
	IncomingCh   chan ActionEnvelope

	turnExpiredCh  chan turnExpiry
	cleanupFiredCh chan string
	verdictCh      chan oracleVerdict
	directoryReqCh chan chan []models.RoomSummary
	syncCh         chan func()

	turnTimers    *Scheduler
	cleanupTimers *Scheduler
}

func NewHub(cfg *config.AppConfig, validator wordcheck.Validator) *Hub {
	return &Hub{
		cfg:            cfg,
		validator:      validator,
		Sessions:       make(map[string]*Session),
		Rooms:          make(map[string]*Room),
		RegisterCh:     make(chan Client),
		UnregisterCh:   make(chan Client),
		IncomingCh:     make(chan ActionEnvelope, 256),
		turnExpiredCh:  make(chan turnExpiry, 64),
		cleanupFiredCh: make(chan string, 64),
		verdictCh:      make(chan oracleVerdict, 64),
		directoryReqCh: make(chan chan []models.RoomSummary, 16),
		syncCh:         make(chan func()),
		turnTimers:     NewScheduler(),
		cleanupTimers:  NewScheduler(),
	}
}

// Run is the hub's single event loop.
func (h *Hub) Run() {
	obslog.L().Info("hub_started")
	for {
		select {
		case client := <-h.RegisterCh:
			h.handleRegister(client)
		case client := <-h.UnregisterCh:
			h.handleUnregister(client)
		case env := <-h.IncomingCh:
			h.dispatch(env)
		case exp := <-h.turnExpiredCh:
			h.handleTurnExpiry(exp)
		case token := <-h.cleanupFiredCh:
			h.handleSessionExpiry(token)
		case ov := <-h.verdictCh:
			h.handleVerdict(ov)
		case respCh := <-h.directoryReqCh:
			respCh <- h.waitingRooms()
		case fn := <-h.syncCh:
			fn()
		}
	}
}

// Directory returns the current public room listing, answered by the loop.
func (h *Hub) Directory(ctx context.Context) []models.RoomSummary {
	respCh := make(chan []models.RoomSummary, 1)
	select {
	case h.directoryReqCh <- respCh:
	case <-ctx.Done():
		return nil
	}
	select {
	case list := <-respCh:
		return list
	case <-ctx.Done():
		return nil
	}
}

// Sync runs fn inside the hub loop and returns once it completes. Callers
// that need a consistent read of the session or room tables go through here
// instead of touching the maps from their own goroutine.
func (h *Hub) Sync(fn func()) {
	done := make(chan struct{})
	h.syncCh <- func() {
		fn()
		close(done)
	}
	<-done
}

// dispatch routes one inbound action to the owning room's operation. Wrong
// mode, wrong status, or wrong turn are answered with scoped rejections or
// dropped; nothing here may take the process down.
func (h *Hub) dispatch(env ActionEnvelope) {
	sess, ok := h.Sessions[env.Token]
	if !ok {
		obslog.L().Debug("action_without_session", zap.String("event", env.Event))
		return
	}

	switch env.Event {
	case EvtCreateRoom:
		var data models.CreateRoomData
		if json.Unmarshal(env.Data, &data) != nil {
			return
		}
		h.handleCreateRoom(sess, data)
	case EvtJoinRoom:
		var data models.JoinRoomData
		if json.Unmarshal(env.Data, &data) != nil {
			return
		}
		h.handleJoinRoom(sess, data)
	case EvtJoinGame:
		var data models.QuickMatchData
		if json.Unmarshal(env.Data, &data) != nil {
			return
		}
		h.handleQuickMatch(sess, data)
	case EvtPickLetter:
		var data models.PickLetterData
		if json.Unmarshal(env.Data, &data) != nil {
			return
		}
		h.handlePickLetter(sess, data)
	case EvtTypingStatus:
		var data models.TypingStatusData
		if json.Unmarshal(env.Data, &data) != nil {
			return
		}
		if room, ok := h.roomOf(sess); ok {
			h.notifyPeer(room, sess.Token, EvtOpponentTyping, data)
		}
	case EvtSubmitWord:
		var data models.SubmitWordData
		if json.Unmarshal(env.Data, &data) != nil {
			return
		}
		h.handleSubmitRace(sess, data)
	case EvtSubmitWordLanjut:
		var data models.SubmitWordData
		if json.Unmarshal(env.Data, &data) != nil {
			return
		}
		h.handleSubmitChain(sess, data)
	case EvtVoteSkip:
		h.handleVoteSkip(sess)
	case EvtNextRound:
		h.handleNextRound(sess)
	default:
		obslog.L().Debug("unknown_event", zap.String("event", env.Event))
	}
}

// --- room creation and joining ---

func (h *Hub) handleCreateRoom(sess *Session, data models.CreateRoomData) {
	if sess.RoomID != "" {
		h.sendTo(sess.Token, EvtError, models.ErrorData{Message: "Kamu masih berada di room lain."})
		return
	}
	sess.Name = displayName(data.Name)

	room := NewRoom(
		h.newRoomCode(),
		ParseGameMode(data.Mode),
		data.Category,
		h.cfg.ClampTurnDuration(data.TurnDuration),
		data.KeepHistory,
		sess.Token, sess.Name,
	)
	h.Rooms[room.ID] = room
	sess.RoomID = room.ID

	h.sendTo(sess.Token, EvtJoinedRoom, models.JoinedRoomData{
		RoomID:       room.ID,
		Role:         "host",
		Category:     room.Category,
		Mode:         string(room.Mode),
		TurnDuration: int(room.TurnDuration / time.Second),
	})
	h.broadcastRooms()
	obslog.L().Info("room_created",
		zap.String("room", room.ID),
		zap.String("mode", string(room.Mode)),
		zap.String("category", room.Category),
		zap.String("host", sess.Token),
	)
}

func (h *Hub) handleJoinRoom(sess *Session, data models.JoinRoomData) {
	if sess.RoomID != "" {
		h.sendTo(sess.Token, EvtError, models.ErrorData{Message: "Kamu masih berada di room lain."})
		return
	}

	room, ok := h.Rooms[data.RoomID]
	if !ok || !room.CanJoin(sess.Token) {
		h.sendTo(sess.Token, EvtError, models.ErrorData{Message: "Room not found or full"})
		return
	}

	sess.Name = displayName(data.Name)
	h.joinRoom(room, sess)
}

// handleQuickMatch pairs the player with the first open room of the same
// mode, creating a fresh one when nothing is waiting.
func (h *Hub) handleQuickMatch(sess *Session, data models.QuickMatchData) {
	if sess.RoomID != "" {
		h.sendTo(sess.Token, EvtError, models.ErrorData{Message: "Kamu masih berada di room lain."})
		return
	}

	mode := ParseGameMode(data.Mode)
	for _, room := range h.Rooms {
		if room.Mode == mode && room.CanJoin(sess.Token) {
			sess.Name = displayName(data.Name)
			h.joinRoom(room, sess)
			return
		}
	}

	h.handleCreateRoom(sess, models.CreateRoomData{
		Name:         data.Name,
		Category:     data.Category,
		Mode:         data.Mode,
		TurnDuration: data.TurnDuration,
		KeepHistory:  data.KeepHistory,
	})
}

func (h *Hub) joinRoom(room *Room, sess *Session) {
	room.AddMember(sess.Token, sess.Name)
	sess.RoomID = room.ID

	h.sendTo(sess.Token, EvtJoinedRoom, models.JoinedRoomData{
		RoomID:       room.ID,
		Role:         "guest",
		Category:     room.Category,
		Mode:         string(room.Mode),
		TurnDuration: int(room.TurnDuration / time.Second),
	})
	h.startMatch(room)
	h.broadcastRooms()
	obslog.L().Info("room_joined", zap.String("room", room.ID), zap.String("guest", sess.Token))
}

// startMatch begins the mode-specific play phase the moment the room fills.
func (h *Hub) startMatch(room *Room) {
	start := models.GameStartData{
		RoomID:   room.ID,
		Players:  room.Names,
		Category: room.Category,
		Mode:     string(room.Mode),
		Scores:   room.Scores,
		Streaks:  room.Streaks,
	}

	switch room.Mode {
	case ModeRace:
		room.Status = StatusPicking
		room.AssignRoles(h.raceOrientation(room))
		roles := room.Roles
		start.PickerRoles = &roles
		h.broadcastRoom(room, EvtGameStart, start)
	case ModeLanjut:
		room.Status = StatusPlaying
		room.CurrentTurn = room.Host()
		start.CurrentTurn = room.CurrentTurn
		start.TurnDuration = int(room.TurnDuration / time.Second)
		h.broadcastRoom(room, EvtGameStart, start)
		h.armTurnTimer(room)
	}
}

// --- race mode ---

func (h *Hub) handlePickLetter(sess *Session, data models.PickLetterData) {
	room, ok := h.roomOf(sess)
	if !ok || room.Mode != ModeRace {
		return
	}

	applied, bothSet := room.PickLetter(sess.Token, data.Type, data.Letter)
	if !applied {
		return
	}

	// Blind pick: the value echoes only to the picker, the opponent just
	// learns that the slot was filled.
	h.sendTo(sess.Token, EvtLetterPicked, models.LetterPickedData{Type: data.Type, Letter: letterFor(room, data.Type)})
	h.notifyPeer(room, sess.Token, EvtOpponentPicked, models.OpponentPickedData{Type: data.Type})

	if bothSet {
		room.Status = StatusPlaying
		h.broadcastRoom(room, EvtRaceStart, models.RaceStartData{Start: room.StartLetter, End: room.EndLetter})
		h.broadcastRooms()
	}
}

func (h *Hub) handleSubmitRace(sess *Session, data models.SubmitWordData) {
	room, ok := h.roomOf(sess)
	if !ok || room.Mode != ModeRace || room.Status != StatusPlaying {
		return
	}
	if room.Checking {
		h.sendTo(sess.Token, EvtValidationFail, models.ValidationFailData{Reason: "Sabar, kata sebelumnya masih diperiksa."})
		return
	}

	word := NormalizeWord(data.Word)
	if word == "" {
		h.sendTo(sess.Token, EvtValidationFail, models.ValidationFailData{Reason: "Kata kosong."})
		return
	}

	room.Checking = true
	h.spawnValidate(room, sess.Token, word, room.StartLetter, room.EndLetter, room.RoundSeq)
}

func (h *Hub) handleVoteSkip(sess *Session) {
	room, ok := h.roomOf(sess)
	if !ok || room.Mode != ModeRace {
		return
	}
	if room.Status != StatusPicking && room.Status != StatusPlaying {
		return
	}

	votes, reset := room.VoteSkip(sess.Token)
	if !reset {
		h.broadcastRoom(room, EvtSkipUpdate, models.SkipUpdateData{Votes: votes, Voter: sess.Token})
		return
	}

	room.ResetSkipped()
	h.broadcastRoom(room, EvtRoundSkipped, models.RoundSkippedData{PickerRoles: room.Roles})
	h.broadcastRooms()
	obslog.L().Info("round_skipped", zap.String("room", room.ID))
}

// --- lanjut mode ---

func (h *Hub) handleSubmitChain(sess *Session, data models.SubmitWordData) {
	room, ok := h.roomOf(sess)
	if !ok || room.Mode != ModeLanjut || room.Status != StatusPlaying {
		return
	}
	if room.Checking {
		h.sendTo(sess.Token, EvtValidationFail, models.ValidationFailData{Reason: "Sabar, kata sebelumnya masih diperiksa."})
		return
	}

	word := NormalizeWord(data.Word)
	if reason := room.ChainCheck(sess.Token, word); reason != "" {
		// Local rule broken: rejected before the oracle is ever consulted.
		h.sendTo(sess.Token, EvtValidationFail, models.ValidationFailData{Reason: reason})
		return
	}

	room.Checking = true
	h.spawnValidate(room, sess.Token, word, room.RequiredStart(), "", room.TurnSeq)
}

func (h *Hub) handleTurnExpiry(exp turnExpiry) {
	room, ok := h.Rooms[exp.RoomID]
	if !ok {
		return
	}
	// A word may have been accepted moments before the timer fired; the
	// sequence check makes expiry a no-op in that case.
	if room.Mode != ModeLanjut || room.Status != StatusPlaying || room.TurnSeq != exp.Seq {
		return
	}

	loser := room.CurrentTurn
	winner := room.ChainTimeout()
	h.broadcastRoom(room, EvtRoundOverLanjut, models.RoundOverData{
		Winner:          room.Names[winner],
		WinnerSessionID: winner,
		Reason:          room.Names[loser] + " kehabisan waktu!",
		Scores:          room.Scores,
		History:         room.History,
		PointsAdded:     1,
	})
	h.broadcastRooms()
	obslog.L().Info("turn_timeout", zap.String("room", room.ID), zap.String("loser", loser))
}

// --- next round ---

func (h *Hub) handleNextRound(sess *Session) {
	room, ok := h.roomOf(sess)
	if !ok || room.Status != StatusFinished {
		return
	}

	switch room.Mode {
	case ModeRace:
		room.ResetRace(h.raceOrientation(room))
		h.broadcastRoom(room, EvtNextRoundStarted, models.NextRoundData{
			PickerRoles:  room.Roles,
			Players:      room.Names,
			Scores:       room.Scores,
			Streaks:      room.Streaks,
			History:      room.History,
			RoundsPlayed: room.RoundsPlayed,
		})
	case ModeLanjut:
		room.ResetChain(h.cfg.RotateChainTurn)
		h.broadcastRoom(room, EvtGameStartLanjut, models.GameStartLanjutData{
			CurrentTurn: room.CurrentTurn,
			Players:     room.Names,
			Scores:      room.Scores,
			Status:      string(room.Status),
			History:     room.History,
		})
		h.armTurnTimer(room)
	}
	h.broadcastRooms()
}

// raceOrientation swaps the picker roles every RolesSwapEvery completed
// rounds instead of every round: floor(roundsPlayed / N) mod 2.
func (h *Hub) raceOrientation(room *Room) int {
	return (room.RoundsPlayed / h.cfg.RolesSwapEvery) % 2
}

// --- oracle plumbing ---

// spawnValidate runs the gateway call off-loop and posts the verdict back
// in. The loop stays free for other rooms while this room's call is
// outstanding.
func (h *Hub) spawnValidate(room *Room, token, word, startLetter, endLetter string, seq uint64) {
	roomID, category, mode := room.ID, room.Category, room.Mode
	timeout := h.cfg.OracleTimeout

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		verdict := h.validator.Validate(ctx, word, startLetter, endLetter, category)
		h.verdictCh <- oracleVerdict{
			RoomID:  roomID,
			Token:   token,
			Word:    word,
			Seq:     seq,
			Mode:    mode,
			Verdict: verdict,
		}
	}()
}

func (h *Hub) handleVerdict(ov oracleVerdict) {
	room, ok := h.Rooms[ov.RoomID]
	if !ok {
		return // room torn down while the oracle was thinking
	}
	switch ov.Mode {
	case ModeRace:
		if room.RoundSeq != ov.Seq {
			return // round was skipped or reset while the oracle was thinking
		}
		room.Checking = false
		if room.Status != StatusPlaying {
			return // round already resolved during the wait
		}
		if !ov.Verdict.IsValid {
			h.sendTo(ov.Token, EvtValidationFail, models.ValidationFailData{Reason: ov.Verdict.Reason})
			return
		}
		points := room.RaceWin(ov.Token, ov.Word, ov.Verdict.Reason, h.cfg.StreakBonusAt)
		h.broadcastRoom(room, EvtRoundOver, models.RoundOverData{
			Winner:          room.Names[ov.Token],
			WinnerSessionID: ov.Token,
			Word:            ov.Word,
			Reason:          ov.Verdict.Reason,
			Scores:          room.Scores,
			Streaks:         room.Streaks,
			History:         room.History,
			PointsAdded:     points,
		})
		h.broadcastRooms()
		obslog.L().Info("race_won",
			zap.String("room", room.ID),
			zap.String("winner", ov.Token),
			zap.String("word", ov.Word),
		)

	case ModeLanjut:
		if room.TurnSeq != ov.Seq {
			return // the chain moved on, a newer submission owns the flag
		}
		room.Checking = false
		if room.Status != StatusPlaying || room.CurrentTurn != ov.Token {
			return // timeout or teardown raced the oracle and won
		}
		if !ov.Verdict.IsValid {
			h.sendTo(ov.Token, EvtValidationFail, models.ValidationFailData{Reason: ov.Verdict.Reason})
			return
		}
		points := room.ChainAccept(ov.Token, ov.Word, ov.Verdict.Reason)
		h.broadcastRoom(room, EvtWordAccepted, models.WordAcceptedData{
			Word:        ov.Word,
			Player:      ov.Token,
			History:     room.History,
			Scores:      room.Scores,
			PointsAdded: points,
		})
		h.armTurnTimer(room)
	}
}

// armTurnTimer starts a fresh countdown for the room's current turn,
// replacing any previous one, and tells both members who is on the clock.
func (h *Hub) armTurnTimer(room *Room) {
	room.TurnSeq++
	room.Deadline = time.Now().Add(room.TurnDuration)

	roomID, seq := room.ID, room.TurnSeq
	h.turnTimers.Arm(roomID, room.TurnDuration, func() {
		h.turnExpiredCh <- turnExpiry{RoomID: roomID, Seq: seq}
	})

	h.broadcastRoom(room, EvtTurnUpdate, models.TurnUpdateData{
		CurrentTurn: room.CurrentTurn,
		Deadline:    room.Deadline.UnixMilli(),
	})
}

// --- fan-out helpers ---

func (h *Hub) roomOf(sess *Session) (*Room, bool) {
	if sess.RoomID == "" {
		return nil, false
	}
	room, ok := h.Rooms[sess.RoomID]
	return room, ok
}

// sendTo delivers one message to a session's live connection, dropping it
// when the session is offline or its send buffer is full. A slow client
// loses messages, it never stalls the loop.
func (h *Hub) sendTo(token, event string, data any) {
	sess, ok := h.Sessions[token]
	if !ok || sess.client == nil {
		return
	}
	select {
	case sess.client.GetSendChannel() <- models.ServerMessage{Event: event, Data: data}:
	default:
		obslog.L().Warn("send_buffer_full", zap.String("session", token), zap.String("event", event))
	}
}

func (h *Hub) notifyPeer(room *Room, token, event string, data any) {
	if peer := room.Opponent(token); peer != "" {
		h.sendTo(peer, event, data)
	}
}

func (h *Hub) broadcastRoom(room *Room, event string, data any) {
	for _, member := range room.Members {
		h.sendTo(member, event, data)
	}
}

// waitingRooms derives the public directory from the room table.
func (h *Hub) waitingRooms() []models.RoomSummary {
	list := make([]models.RoomSummary, 0, len(h.Rooms))
	for _, room := range h.Rooms {
		if room.Status == StatusWaiting {
			list = append(list, room.Summary())
		}
	}
	return list
}

// broadcastRooms pushes the directory to every connected session.
func (h *Hub) broadcastRooms() {
	list := h.waitingRooms()
	for token, sess := range h.Sessions {
		if sess.Connected {
			h.sendTo(token, EvtRoomsUpdate, list)
		}
	}
}

// --- small helpers ---

const roomCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// newRoomCode allocates a short joinable code, retrying on collision.
func (h *Hub) newRoomCode() string {
	for {
		buf := make([]byte, 5)
		if _, err := rand.Read(buf); err != nil {
			panic(err) // crypto/rand failure is unrecoverable
		}
		for i, b := range buf {
			buf[i] = roomCodeAlphabet[int(b)%len(roomCodeAlphabet)]
		}
		code := string(buf)
		if _, taken := h.Rooms[code]; !taken {
			return code
		}
	}
}

func displayName(name string) string {
	if runes := []rune(name); len(runes) > 32 {
		name = string(runes[:32])
	}
	if name == "" {
		return "Anon"
	}
	return name
}

func letterFor(room *Room, slot string) string {
	if slot == "start" {
		return room.StartLetter
	}
	return room.EndLetter
}

package gamehub

import (
	"strings"
	"time"
	"unicode"

	"github.com/bimantaraz/game-kata/internal/models"
)

type GameMode string

const (
	// ModeRace: both players pick one blind letter constraint each, then
	// race to submit a valid word bounded by them ("Tebak Kata").
	ModeRace GameMode = "race"
	// ModeLanjut: alternating turns, each word must start with the last
	// letter of the previous one ("Lanjut Kata").
	ModeLanjut GameMode = "lanjut"
)

func ParseGameMode(s string) GameMode {
	if strings.ToLower(strings.TrimSpace(s)) == string(ModeLanjut) {
		return ModeLanjut
	}
	return ModeRace
}

type RoomStatus string

const (
	StatusWaiting  RoomStatus = "waiting"
	StatusPicking  RoomStatus = "picking"
	StatusPlaying  RoomStatus = "playing"
	StatusFinished RoomStatus = "finished"
)

// Room is one isolated two-player game. All mutation happens inside the hub
// loop, one event at a time, so the struct carries no locks.
type Room struct {
	ID       string
	Mode     GameMode
	Category string
	Status   RoomStatus

	Members []string          // session tokens, host first
	Names   map[string]string // token -> display name

	// race state
	StartLetter  string
	EndLetter    string
	Roles        models.PickerRoles // tokens owning the start/end slots
	SkipVotes    map[string]bool
	RoundsPlayed int
	// RoundSeq bumps on every race-round reset. An oracle verdict stamped
	// with an older value belongs to a round that no longer exists and is
	// dropped on arrival.
	RoundSeq uint64

	// lanjut state
	CurrentTurn  string
	LastWord     string
	UsedWords    map[string]bool
	TurnDuration time.Duration
	TurnSeq      uint64
	Deadline     time.Time

	Scores  map[string]int
	Streaks map[string]int
	History []models.HistoryEntry

	// KeepHistory preserves the move history across next-round resets.
	KeepHistory bool

	// Checking is set while an oracle call for this room is outstanding;
	// no other submission is accepted as authoritative until it resolves.
	Checking bool
}

func NewRoom(id string, mode GameMode, category string, turnDuration time.Duration, keepHistory bool, hostToken, hostName string) *Room {
	r := &Room{
		ID:           id,
		Mode:         mode,
		Category:     category,
		Status:       StatusWaiting,
		Members:      []string{hostToken},
		Names:        map[string]string{hostToken: hostName},
		SkipVotes:    make(map[string]bool),
		UsedWords:    make(map[string]bool),
		TurnDuration: turnDuration,
		Scores:       map[string]int{hostToken: 0},
		Streaks:      map[string]int{hostToken: 0},
		KeepHistory:  keepHistory,
	}
	if category == "" {
		r.Category = "General"
	}
	return r
}

// CanJoin reports whether token may enter: only a waiting room with a
// single member, and never the member itself twice.
func (r *Room) CanJoin(token string) bool {
	return r.Status == StatusWaiting && len(r.Members) == 1 && !r.IsMember(token)
}

func (r *Room) AddMember(token, name string) {
	r.Members = append(r.Members, token)
	r.Names[token] = name
	r.Scores[token] = 0
	r.Streaks[token] = 0
}

func (r *Room) IsMember(token string) bool {
	for _, m := range r.Members {
		if m == token {
			return true
		}
	}
	return false
}

func (r *Room) Host() string { return r.Members[0] }

// Opponent returns the other member's token, or "" while waiting.
func (r *Room) Opponent(token string) string {
	for _, m := range r.Members {
		if m != token {
			return m
		}
	}
	return ""
}

// AssignRoles sets the blind-pick slot owners. Orientation 0 gives the host
// the start slot; 1 swaps. The next-round pacing policy derives orientation
// from floor(roundsPlayed / swapEvery) mod 2.
func (r *Room) AssignRoles(orientation int) {
	host, guest := r.Members[0], r.Members[1]
	if orientation%2 == 0 {
		r.Roles = models.PickerRoles{Start: host, End: guest}
	} else {
		r.Roles = models.PickerRoles{Start: guest, End: host}
	}
}

// SwapRoles flips the slot owners from the immediately preceding assignment.
func (r *Room) SwapRoles() {
	r.Roles.Start, r.Roles.End = r.Roles.End, r.Roles.Start
}

// PickLetter records a blind pick. Only the member assigned to the slot may
// fill it; the value stays hidden from the opponent until both slots are
// set. Returns whether the pick was applied and whether both slots are now
// filled (the reveal condition).
func (r *Room) PickLetter(token, slot, letter string) (applied, bothSet bool) {
	if r.Status != StatusPicking {
		return false, false
	}
	l := normalizeLetter(letter)
	if l == "" {
		return false, false
	}

	switch slot {
	case "start":
		if r.Roles.Start != token {
			return false, false
		}
		r.StartLetter = l
	case "end":
		if r.Roles.End != token {
			return false, false
		}
		r.EndLetter = l
	default:
		return false, false
	}

	return true, r.StartLetter != "" && r.EndLetter != ""
}

// RaceWin settles a race round for the submitter: streak-scaled scoring
// (base 1, +1 once the winner's streak reaches bonusAt), loser streak
// reset, history append.
func (r *Room) RaceWin(token, word, reason string, bonusAt int) (points int) {
	r.Status = StatusFinished
	r.RoundsPlayed++

	r.Streaks[token]++
	if loser := r.Opponent(token); loser != "" {
		r.Streaks[loser] = 0
	}

	points = 1
	if r.Streaks[token] >= bonusAt {
		points = 2
	}
	r.Scores[token] += points

	r.History = append(r.History, models.HistoryEntry{
		Word:   word,
		Player: r.Names[token],
		Reason: reason,
		At:     time.Now(),
	})
	return points
}

// RequiredStart returns the letter the next chain word must begin with, or
// "" when the chain is empty.
func (r *Room) RequiredStart() string {
	if r.LastWord == "" {
		return ""
	}
	runes := []rune(r.LastWord)
	return strings.ToUpper(string(runes[len(runes)-1]))
}

// ChainCheck applies the local chain rules before any oracle call: correct
// turn, chain-letter continuity, and no reuse within the round. A non-empty
// return is the rejection reason.
func (r *Room) ChainCheck(token, word string) string {
	if token != r.CurrentTurn {
		return "Bukan giliranmu!"
	}
	if word == "" {
		return "Kata kosong."
	}
	if req := r.RequiredStart(); req != "" && !strings.HasPrefix(word, req) {
		return "Kata harus diawali huruf " + req + "!"
	}
	if r.UsedWords[word] {
		return "Kata " + word + " sudah dipakai di ronde ini."
	}
	return ""
}

// ChainAccept records an accepted chain word and passes the turn.
func (r *Room) ChainAccept(token, word, reason string) (points int) {
	r.LastWord = word
	r.UsedWords[word] = true
	r.CurrentTurn = r.Opponent(token)

	points = 1
	r.Scores[token] += points

	r.History = append(r.History, models.HistoryEntry{
		Word:   word,
		Player: r.Names[token],
		Reason: reason,
		At:     time.Now(),
	})
	return points
}

// ChainTimeout settles the round as a loss for the player on the clock.
func (r *Room) ChainTimeout() (winner string) {
	loser := r.CurrentTurn
	winner = r.Opponent(loser)

	r.Status = StatusFinished
	r.RoundsPlayed++
	r.Scores[winner]++

	r.History = append(r.History, models.HistoryEntry{
		Player: r.Names[winner],
		Reason: r.Names[loser] + " kehabisan waktu!",
		At:     time.Now(),
	})
	return winner
}

// VoteSkip registers one abandon vote. The reset only triggers once both
// distinct members have voted.
func (r *Room) VoteSkip(token string) (votes int, reset bool) {
	if r.SkipVotes[token] {
		return len(r.SkipVotes), false
	}
	r.SkipVotes[token] = true
	return len(r.SkipVotes), len(r.SkipVotes) >= 2
}

// ResetSkipped aborts the current race round: constraints cleared, back to
// picking, slot owners swapped from the preceding assignment. Any oracle
// call still in flight for the aborted round is orphaned here.
func (r *Room) ResetSkipped() {
	r.StartLetter, r.EndLetter = "", ""
	r.SkipVotes = make(map[string]bool)
	r.SwapRoles()
	r.RoundSeq++
	r.Checking = false
	r.Status = StatusPicking
}

// ResetRace prepares the next race round with the given role orientation.
func (r *Room) ResetRace(orientation int) {
	r.StartLetter, r.EndLetter = "", ""
	r.SkipVotes = make(map[string]bool)
	r.AssignRoles(orientation)
	r.RoundSeq++
	r.Checking = false
	if !r.KeepHistory {
		r.History = nil
	}
	r.Status = StatusPicking
}

// ResetChain re-seeds the chain state for the next round. The turn holder
// persists unless rotation is configured.
func (r *Room) ResetChain(rotateTurn bool) {
	r.LastWord = ""
	r.UsedWords = make(map[string]bool)
	r.Checking = false
	if !r.KeepHistory {
		r.History = nil
	}
	if rotateTurn {
		r.CurrentTurn = r.Opponent(r.CurrentTurn)
	}
	r.Status = StatusPlaying
}

// Summary is the public directory entry for this room.
func (r *Room) Summary() models.RoomSummary {
	s := models.RoomSummary{
		ID:       r.ID,
		Host:     r.Names[r.Host()],
		Category: r.Category,
		Mode:     string(r.Mode),
		Players:  len(r.Members),
	}
	if r.Mode == ModeLanjut {
		s.TurnDuration = int(r.TurnDuration / time.Second)
	}
	return s
}

// Snapshot renders the full room state for the given viewer, replayed on
// reconnection. While the blind pick is still open, each viewer only sees
// the slot value they picked themselves.
func (r *Room) Snapshot(viewer string) models.RoomSnapshot {
	snap := models.RoomSnapshot{
		RoomID:       r.ID,
		Mode:         string(r.Mode),
		Category:     r.Category,
		Status:       string(r.Status),
		Players:      r.Names,
		Scores:       r.Scores,
		History:      r.History,
		RoundsPlayed: r.RoundsPlayed,
	}

	switch r.Mode {
	case ModeRace:
		snap.Streaks = r.Streaks
		roles := r.Roles
		snap.PickerRoles = &roles
		letters := models.Letters{Start: r.StartLetter, End: r.EndLetter}
		if r.Status == StatusPicking {
			if r.Roles.Start != viewer {
				letters.Start = ""
			}
			if r.Roles.End != viewer {
				letters.End = ""
			}
		}
		snap.Letters = &letters
	case ModeLanjut:
		snap.CurrentTurn = r.CurrentTurn
		snap.LastWord = r.LastWord
		snap.TurnDuration = int(r.TurnDuration / time.Second)
		if r.Status == StatusPlaying && !r.Deadline.IsZero() {
			snap.Deadline = r.Deadline.UnixMilli()
		}
	}
	return snap
}

// NormalizeWord upper-cases and trims a submission; all chain bookkeeping
// and constraint checks operate on this form.
func NormalizeWord(word string) string {
	return strings.ToUpper(strings.TrimSpace(word))
}

// normalizeLetter accepts exactly one letter and upper-cases it.
func normalizeLetter(s string) string {
	runes := []rune(strings.TrimSpace(s))
	if len(runes) != 1 || !unicode.IsLetter(runes[0]) {
		return ""
	}
	return strings.ToUpper(string(runes[0]))
}

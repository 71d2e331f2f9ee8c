package gamehub_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bimantaraz/game-kata/internal/gamehub"
)

func newTestRoom(mode gamehub.GameMode) *gamehub.Room {
	r := gamehub.NewRoom("ROOM1", mode, "General", 10*time.Second, false, "host-token", "Andi")
	r.AddMember("guest-token", "Budi")
	return r
}

func TestRoom_CanJoin(t *testing.T) {
	r := gamehub.NewRoom("ROOM1", gamehub.ModeRace, "", 10*time.Second, false, "host-token", "Andi")

	assert.True(t, r.CanJoin("guest-token"))
	assert.False(t, r.CanJoin("host-token"), "host must not join its own room twice")

	r.AddMember("guest-token", "Budi")
	assert.False(t, r.CanJoin("third-token"), "full room rejects a third member")

	assert.Equal(t, "General", r.Category, "empty category defaults")
}

func TestRoom_PickLetter_RoleEnforcement(t *testing.T) {
	r := newTestRoom(gamehub.ModeRace)
	r.Status = gamehub.StatusPicking
	r.AssignRoles(0) // host owns start

	applied, _ := r.PickLetter("guest-token", "start", "A")
	assert.False(t, applied, "guest cannot fill the host's slot")

	applied, bothSet := r.PickLetter("host-token", "start", "a")
	assert.True(t, applied)
	assert.False(t, bothSet)
	assert.Equal(t, "A", r.StartLetter, "letters are upper-cased")

	applied, _ = r.PickLetter("guest-token", "end", "xy")
	assert.False(t, applied, "multi-rune pick is rejected")

	applied, bothSet = r.PickLetter("guest-token", "end", "l")
	assert.True(t, applied)
	assert.True(t, bothSet, "second pick completes the pair")
	assert.Equal(t, "L", r.EndLetter)
}

func TestRoom_RaceWin_StreakScoring(t *testing.T) {
	r := newTestRoom(gamehub.ModeRace)
	r.Status = gamehub.StatusPlaying

	points := r.RaceWin("host-token", "APEL", "Kata valid!", 3)
	assert.Equal(t, 1, points)
	assert.Equal(t, 1, r.Scores["host-token"])
	assert.Equal(t, gamehub.StatusFinished, r.Status)
	assert.Equal(t, 1, r.RoundsPlayed)

	r.Status = gamehub.StatusPlaying
	points = r.RaceWin("host-token", "BOLA", "Kata valid!", 3)
	assert.Equal(t, 1, points, "streak 2 is still base points")

	r.Status = gamehub.StatusPlaying
	points = r.RaceWin("host-token", "CACING", "Kata valid!", 3)
	assert.Equal(t, 2, points, "streak 3 earns the bonus")
	assert.Equal(t, 4, r.Scores["host-token"])

	r.Status = gamehub.StatusPlaying
	r.RaceWin("guest-token", "DADU", "Kata valid!", 3)
	assert.Equal(t, 0, r.Streaks["host-token"], "a loss resets the streak")
	assert.Equal(t, 1, r.Streaks["guest-token"])
}

func TestRoom_ChainCheck(t *testing.T) {
	r := newTestRoom(gamehub.ModeLanjut)
	r.Status = gamehub.StatusPlaying
	r.CurrentTurn = "host-token"

	assert.Equal(t, "Bukan giliranmu!", r.ChainCheck("guest-token", "APEL"))
	assert.Equal(t, "Kata kosong.", r.ChainCheck("host-token", ""))
	assert.Empty(t, r.ChainCheck("host-token", "APEL"), "first word has no chain constraint")

	r.ChainAccept("host-token", "APEL", "Kata valid!")
	assert.Equal(t, "guest-token", r.CurrentTurn, "turn passes on accept")

	assert.Equal(t, "Kata harus diawali huruf L!", r.ChainCheck("guest-token", "MOBIL"))
	assert.Equal(t, "Kata APEL sudah dipakai di ronde ini.", r.ChainCheck("guest-token", "APEL"))
	assert.Empty(t, r.ChainCheck("guest-token", "LARI"))
}

func TestRoom_ChainTimeout(t *testing.T) {
	r := newTestRoom(gamehub.ModeLanjut)
	r.Status = gamehub.StatusPlaying
	r.CurrentTurn = "host-token"

	winner := r.ChainTimeout()
	assert.Equal(t, "guest-token", winner)
	assert.Equal(t, gamehub.StatusFinished, r.Status)
	assert.Equal(t, 1, r.Scores["guest-token"])
	assert.Equal(t, 1, r.RoundsPlayed)
	if assert.Len(t, r.History, 1) {
		assert.Contains(t, r.History[0].Reason, "kehabisan waktu")
	}
}

func TestRoom_VoteSkip(t *testing.T) {
	r := newTestRoom(gamehub.ModeRace)
	r.Status = gamehub.StatusPicking
	r.AssignRoles(0)

	votes, reset := r.VoteSkip("host-token")
	assert.Equal(t, 1, votes)
	assert.False(t, reset)

	votes, reset = r.VoteSkip("host-token")
	assert.Equal(t, 1, votes, "double vote from one member is a no-op")
	assert.False(t, reset)

	_, reset = r.VoteSkip("guest-token")
	assert.True(t, reset, "both members voting triggers the reset")

	startOwner := r.Roles.Start
	r.Checking = true
	seq := r.RoundSeq
	r.ResetSkipped()
	assert.Equal(t, gamehub.StatusPicking, r.Status)
	assert.Empty(t, r.StartLetter)
	assert.NotEqual(t, startOwner, r.Roles.Start, "skip swaps the slot owners")
	assert.Equal(t, seq+1, r.RoundSeq, "reset invalidates any in-flight verdict")
	assert.False(t, r.Checking)
	_, reset = r.VoteSkip("host-token")
	assert.False(t, reset, "votes are cleared by the reset")
}

func TestRoom_ResetChain_TurnRotation(t *testing.T) {
	r := newTestRoom(gamehub.ModeLanjut)
	r.Status = gamehub.StatusFinished
	r.CurrentTurn = "host-token"
	r.LastWord = "APEL"
	r.UsedWords["APEL"] = true

	r.Checking = true
	r.ResetChain(false)
	assert.Equal(t, "host-token", r.CurrentTurn, "holder persists by default")
	assert.Empty(t, r.LastWord)
	assert.False(t, r.Checking, "reset releases an outstanding check")
	assert.Empty(t, r.ChainCheck("host-token", "APEL"), "used words are cleared")
	assert.Equal(t, gamehub.StatusPlaying, r.Status)

	r.Status = gamehub.StatusFinished
	r.ResetChain(true)
	assert.Equal(t, "guest-token", r.CurrentTurn, "rotation flips the holder")
}

func TestRoom_KeepHistory(t *testing.T) {
	r := gamehub.NewRoom("ROOM1", gamehub.ModeRace, "General", 10*time.Second, true, "host-token", "Andi")
	r.AddMember("guest-token", "Budi")
	r.Status = gamehub.StatusPlaying
	r.RaceWin("host-token", "APEL", "Kata valid!", 3)

	r.ResetRace(1)
	assert.Len(t, r.History, 1, "keepHistory preserves entries across rounds")

	r.KeepHistory = false
	r.ResetRace(0)
	assert.Empty(t, r.History)
}

func TestRoom_Snapshot_HidesOpponentLetterWhilePicking(t *testing.T) {
	r := newTestRoom(gamehub.ModeRace)
	r.Status = gamehub.StatusPicking
	r.AssignRoles(0)
	r.PickLetter("host-token", "start", "A")
	r.PickLetter("guest-token", "end", "L")

	// Both picked but not yet revealed: a reconnecting host sees only its own
	// slot.
	r.Status = gamehub.StatusPicking
	snap := r.Snapshot("host-token")
	if assert.NotNil(t, snap.Letters) {
		assert.Equal(t, "A", snap.Letters.Start)
		assert.Empty(t, snap.Letters.End)
	}

	r.Status = gamehub.StatusPlaying
	snap = r.Snapshot("host-token")
	if assert.NotNil(t, snap.Letters) {
		assert.Equal(t, "L", snap.Letters.End, "reveal once playing")
	}
}

func TestNormalizeWord(t *testing.T) {
	assert.Equal(t, "APEL", gamehub.NormalizeWord("  apel "))
	assert.Equal(t, "", gamehub.NormalizeWord("   "))
}

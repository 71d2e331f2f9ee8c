package gamehub

import (
	"go.uber.org/zap"

	"github.com/bimantaraz/game-kata/internal/models"
	"github.com/bimantaraz/game-kata/internal/obslog"
)

// Session is one durable logical player, decoupled from any single live
// connection. The record survives transient disconnects: reconnection
// mutates it in place, it is never duplicated for the same token.
type Session struct {
	Token     string
	Name      string
	RoomID    string
	Connected bool

	client Client // nil while disconnected
}

// resolveSession maps an arriving connection to its session. A previously
// unseen token gets a fresh record; a known token has its pending cleanup
// cancelled and its connection handle swapped in. Returns whether the
// token was new.
func (h *Hub) resolveSession(client Client) (*Session, bool) {
	token := client.GetSessionID()

	sess, ok := h.Sessions[token]
	if !ok {
		sess = &Session{Token: token, Connected: true, client: client}
		h.Sessions[token] = sess
		return sess, true
	}

	h.cleanupTimers.Cancel(token)
	if sess.client != nil && sess.client != client {
		// A second connection for the same session supersedes the first.
		sess.client.Close()
	}
	sess.client = client
	sess.Connected = true
	return sess, false
}

func (h *Hub) handleRegister(client Client) {
	sess, isNew := h.resolveSession(client)

	if !isNew && sess.RoomID != "" {
		if room, ok := h.Rooms[sess.RoomID]; ok {
			h.sendTo(sess.Token, EvtReconnectSuccess, models.ReconnectSuccessData{
				RoomID:   room.ID,
				RoomData: room.Snapshot(sess.Token),
			})
			h.notifyPeer(room, sess.Token, EvtOpponentStatus, models.OpponentStatusData{Online: true})
			obslog.L().Info("session_resumed",
				zap.String("session", sess.Token),
				zap.String("room", room.ID),
			)
		} else {
			// Room died while we were away.
			sess.RoomID = ""
			h.sendTo(sess.Token, EvtPlayerLeft, nil)
		}
	}

	h.sendTo(sess.Token, EvtRoomsUpdate, h.waitingRooms())
}

// handleUnregister marks the session disconnected and arms its cleanup
// timer. The room is NOT destroyed here: the player gets a grace period to
// come back before handleSessionExpiry pulls the plug.
func (h *Hub) handleUnregister(client Client) {
	sess, ok := h.Sessions[client.GetSessionID()]
	if !ok || sess.client != client {
		// Stale unregister from a superseded connection.
		return
	}

	sess.client = nil
	sess.Connected = false

	grace := h.cfg.GraceIdle
	if sess.RoomID != "" {
		grace = h.cfg.GraceInRoom
		if room, ok := h.Rooms[sess.RoomID]; ok {
			h.notifyPeer(room, sess.Token, EvtOpponentStatus, models.OpponentStatusData{Online: false})
		}
	}

	token := sess.Token
	h.cleanupTimers.Arm(token, grace, func() {
		h.cleanupFiredCh <- token
	})
	obslog.L().Info("session_disconnected",
		zap.String("session", token),
		zap.Duration("grace", grace),
	)
}

// handleSessionExpiry runs when a cleanup timer fires. Reconnection may
// have beaten the timer to the lock, so connectivity is re-checked before
// anything is destroyed. This is a 1:1 game: one permanent departure ends
// the room.
func (h *Hub) handleSessionExpiry(token string) {
	sess, ok := h.Sessions[token]
	if !ok || sess.Connected {
		return
	}

	if sess.RoomID != "" {
		if room, ok := h.Rooms[sess.RoomID]; ok {
			h.teardownRoom(room, token)
		}
	}

	delete(h.Sessions, token)
	obslog.L().Info("session_expired", zap.String("session", token))
}

// teardownRoom destroys a room after leaver departed for good, releasing
// the other member back to the lobby.
func (h *Hub) teardownRoom(room *Room, leaver string) {
	h.turnTimers.Cancel(room.ID)

	if peer := room.Opponent(leaver); peer != "" {
		if peerSess, ok := h.Sessions[peer]; ok {
			peerSess.RoomID = ""
		}
		h.sendTo(peer, EvtPlayerLeft, nil)
	}

	delete(h.Rooms, room.ID)
	h.broadcastRooms()
	obslog.L().Info("room_destroyed",
		zap.String("room", room.ID),
		zap.String("leaver", leaver),
	)
}

package gamehub

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/bimantaraz/game-kata/internal/models"
	"github.com/bimantaraz/game-kata/internal/obslog"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1024
)

// WebSocketClient implements Client on top of gorilla/websocket.
type WebSocketClient struct {
	Token string
	Conn  *websocket.Conn
	Hub   *Hub
	Send  chan models.ServerMessage
}

func (c *WebSocketClient) GetSessionID() string                        { return c.Token }
func (c *WebSocketClient) GetSendChannel() chan<- models.ServerMessage { return c.Send }

// Run starts the read and write pumps.
func (c *WebSocketClient) Run() {
	go c.writePump()
	go c.readPump()
}

// Close shuts down the Send channel, which stops writePump and with it the
// connection. readPump exits when the connection closes.
func (c *WebSocketClient) Close() {
	close(c.Send)
}

func (c *WebSocketClient) readPump() {
	defer func() {
		c.Hub.UnregisterCh <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				obslog.L().Debug("ws_read_error", zap.String("session", c.Token), zap.Error(err))
			}
			break
		}

		var msg models.ClientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			obslog.L().Debug("ws_bad_frame", zap.String("session", c.Token), zap.Error(err))
			continue
		}
		if msg.Event == "" {
			continue
		}

		// Identity comes from the authenticated connection, never the frame.
		c.Hub.IncomingCh <- ActionEnvelope{Token: c.Token, Event: msg.Event, Data: msg.Data}
	}
}

func (c *WebSocketClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			data, err := json.Marshal(message)
			if err != nil {
				obslog.L().Warn("ws_encode_error", zap.String("session", c.Token), zap.Error(err))
				continue
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

package gamehub

import "github.com/bimantaraz/game-kata/internal/models"

// Client is the interface for one live player connection. It abstracts the
// underlying transport so the hub can manage connections uniformly (and so
// tests can drive the hub without sockets).
type Client interface {
	// GetSessionID returns the durable session id resolved for this
	// connection during the handshake.
	GetSessionID() string

	// GetSendChannel returns the channel the hub writes outbound messages
	// to for this specific connection.
	GetSendChannel() chan<- models.ServerMessage

	// Run starts the client's read and write pumps.
	Run()

	// Close shuts the connection down and releases its channels.
	Close()
}

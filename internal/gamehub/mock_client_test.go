package gamehub_test

import (
	"sync/atomic"

	"github.com/bimantaraz/game-kata/internal/models"
)

type MockClient struct {
	token       string
	closed      atomic.Bool
	RecvChannel chan models.ServerMessage
}

func newMockClient(token string) *MockClient {
	return &MockClient{
		token:       token,
		RecvChannel: make(chan models.ServerMessage, 64),
	}
}

func (c *MockClient) GetSessionID() string {
	return c.token
}

func (c *MockClient) GetSendChannel() chan<- models.ServerMessage {
	return c.RecvChannel
}

func (c *MockClient) Run() {
	// Not needed for testing
}

func (c *MockClient) Close() {
	c.closed.Store(true)
}

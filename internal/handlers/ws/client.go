package ws

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const writeTimeout = 5 * time.Second

// client wraps one websocket connection. It implements game.Sink so the
// directory can hold it as an opaque outbound channel.
type client struct {
	id   string
	conn *websocket.Conn

	// gorilla connections allow one concurrent writer; mu serializes the
	// read-loop replies, broadcasts and ticker pushes.
	mu sync.Mutex

	playerName string
	inLobby    bool
}

// Send marshals and writes one event to the connection
func (c *client) Send(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	return c.conn.WriteJSON(v)
}

func (c *client) close() {
	c.conn.Close()
}

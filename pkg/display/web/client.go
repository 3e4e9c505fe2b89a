package web

import (
	"time"

	"github.com/gorilla/websocket"
)

// Client is one websocket viewer. Outgoing messages are queued on Send
// and written by WritePump; ReadPump forwards incoming key presses to
// the hub's input channel.
type Client struct {
	hub  *hub
	conn *websocket.Conn
	Send chan []byte

	RemoteAddr  string
	connectedAt time.Time
}

func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			return // connection closed
		}
		if len(message) == 0 {
			continue
		}

		switch message[0] {
		case Closing:
			return
		default:
			select {
			case c.hub.input <- rune(message[0]):
			default:
				// One character is consumed per frame; drop the backlog.
			}
		}
	}
}

func (c *Client) WritePump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.WriteMessage(websocket.CloseMessage, []byte{})
	}()

	for message := range c.Send {
		if err := c.conn.WriteMessage(websocket.BinaryMessage, message); err != nil {
			return
		}
	}
}

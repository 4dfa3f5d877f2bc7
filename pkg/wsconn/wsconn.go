package wsconn

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Conn serializes data writes on a websocket connection. The underlying
// connection supports one concurrent writer, while a session's own acks
// and fan-out from other sessions both target the same socket; every
// data write must go through WriteJSON here.
type Conn struct {
	ws *websocket.Conn
	mu sync.Mutex
}

func New(ws *websocket.Conn) *Conn {
	return &Conn{ws: ws}
}

func (c *Conn) WriteJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.ws.WriteJSON(v)
}

// Ping sends a ping control frame. Control frames may be written
// concurrently with a data write, so no lock is taken.
func (c *Conn) Ping(deadline time.Time) error {
	return c.ws.WriteControl(websocket.PingMessage, nil, deadline)
}

func (c *Conn) ReadMessage() (int, []byte, error) {
	return c.ws.ReadMessage()
}

func (c *Conn) SetReadLimit(limit int64) {
	c.ws.SetReadLimit(limit)
}

func (c *Conn) SetReadDeadline(t time.Time) error {
	return c.ws.SetReadDeadline(t)
}

func (c *Conn) SetPongHandler(h func(appData string) error) {
	c.ws.SetPongHandler(h)
}

func (c *Conn) Close() error {
	return c.ws.Close()
}

package ws

import (
	"sync"

	socketio "github.com/googollee/go-socket.io"
)

// Gateway delivers engine notifications over socket.io. Room broadcasts go
// through socket.io rooms keyed by the game room key; direct sends look the
// connection up by id.
type Gateway struct {
	io *socketio.Server

	mu    sync.RWMutex
	conns map[string]emitter // socketID -> conn
}

type emitter interface {
	Emit(eventName string, v ...interface{})
}

func NewGateway(io *socketio.Server) *Gateway {
	return &Gateway{io: io, conns: make(map[string]emitter)}
}

func (g *Gateway) Broadcast(room, event string, payload any) {
	g.io.BroadcastToRoom("/", room, event, payload)
}

func (g *Gateway) Send(connID, event string, payload any) {
	g.mu.RLock()
	c := g.conns[connID]
	g.mu.RUnlock()
	if c != nil {
		c.Emit(event, payload)
	}
}

func (g *Gateway) track(id string, c emitter) {
	g.mu.Lock()
	g.conns[id] = c
	g.mu.Unlock()
}

func (g *Gateway) untrack(id string) {
	g.mu.Lock()
	delete(g.conns, id)
	g.mu.Unlock()
}

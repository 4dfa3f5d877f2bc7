package wsrouter

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/watchparty/server/pkg/wsconn"
)

type envelope struct {
	Event string `json:"event"`
}

// HandlerFunc receives the raw frame the envelope was decoded from, so a
// handler can unmarshal the fields its event carries.
type HandlerFunc func(ctx context.Context, conn *wsconn.Conn, frame json.RawMessage) error

type WSRouter struct {
	routes map[string]HandlerFunc
	logger *slog.Logger
}

func New(logger *slog.Logger) *WSRouter {
	return &WSRouter{
		routes: make(map[string]HandlerFunc),
		logger: logger,
	}
}

func (r *WSRouter) Handle(event string, handler HandlerFunc) {
	r.routes[event] = handler
}

// ServeConn reads frames from the connection until it fails, dispatching
// each one by its event tag. Malformed frames and unknown events are
// dropped; a handler error never tears the connection down.
func (r *WSRouter) ServeConn(ctx context.Context, conn *wsconn.Conn) error {
	for {
		_, frame, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		var env envelope
		if err := json.Unmarshal(frame, &env); err != nil {
			r.logger.DebugContext(ctx, "dropping malformed frame", "error", err)
			continue
		}

		handler, exists := r.routes[env.Event]
		if !exists {
			r.logger.InfoContext(ctx, "dropping unknown event", "event", env.Event)
			continue
		}

		if err := handler(ctx, conn, frame); err != nil {
			r.logger.InfoContext(ctx, "handler failed", "event", env.Event, "error", err)
		}
	}
}

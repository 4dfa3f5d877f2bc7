package controller

import (
	"context"

	"github.com/watchparty/server/pkg/wsconn"
)

func (c *controller) writeToConn(ctx context.Context, conn *wsconn.Conn, output *Output) error {
	if err := conn.WriteJSON(output); err != nil {
		c.logger.DebugContext(ctx, "failed to write to conn", "error", err)
		return err
	}

	return nil
}

// broadcast delivers output to every connection, best effort. A dead peer
// is skipped; its membership is cleaned up by its own close event.
func (c *controller) broadcast(ctx context.Context, conns []*wsconn.Conn, output *Output) {
	for _, conn := range conns {
		if err := conn.WriteJSON(output); err != nil {
			c.logger.DebugContext(ctx, "skipping unwritable peer", "error", err)
		}
	}
}

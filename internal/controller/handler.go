package controller

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/watchparty/server/internal/service/room"
	"github.com/watchparty/server/pkg/ctxlogger"
	"github.com/watchparty/server/pkg/wsconn"
)

const (
	writeWait = 5 * time.Second

	// maxFrameBytes bounds an inbound frame. The largest legal message is
	// a join with a room id and a seconds string, well under this.
	maxFrameBytes = 4096
)

// ws upgrades the request, binds the verified token claims to the new
// session and serves its read loop. Claims live in the session's context,
// never in shared state.
func (c *controller) ws(w http.ResponseWriter, r *http.Request) {
	claims, err := c.tokens.Verify(r.URL.Query().Get("token"))
	if err != nil {
		c.logger.DebugContext(r.Context(), "rejecting connection", "error", err)
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	ws, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		c.logger.WarnContext(r.Context(), "failed to upgrade to websocket", "error", err)
		return
	}

	conn := wsconn.New(ws)
	defer conn.Close()

	memberId := uuid.NewString()
	ctx := ctxlogger.AppendCtx(r.Context(), slog.String("member_id", memberId))
	ctx = context.WithValue(ctx, memberIdCtxKey, memberId)
	ctx = context.WithValue(ctx, claimsCtxKey, claims)

	if err := c.roomService.ConnectMember(ctx, &room.ConnectMemberParams{
		Conn:     conn,
		MemberId: memberId,
	}); err != nil {
		c.logger.WarnContext(ctx, "failed to connect member", "error", err)
		return
	}
	defer c.disconnect(ctx, conn)

	if err := c.writeToConn(ctx, conn, &Output{Msg: "Connected to the ws successfully"}); err != nil {
		return
	}

	conn.SetReadLimit(maxFrameBytes)
	conn.SetReadDeadline(time.Now().Add(c.pongTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(c.pongTimeout))
	})

	pingCtx, cancelPing := context.WithCancel(ctx)
	defer cancelPing()
	go c.pingLoop(pingCtx, conn)

	if err := c.wsmux.ServeConn(ctx, conn); err != nil {
		c.logger.DebugContext(ctx, "connection closed", "error", err)
	}
}

// disconnect runs the same cleanup as an explicit leave. The service call
// is idempotent, so a session that already left is a no-op.
func (c *controller) disconnect(ctx context.Context, conn *wsconn.Conn) {
	resp, err := c.roomService.DisconnectMember(ctx, &room.DisconnectMemberParams{Conn: conn})
	if err != nil {
		if !errors.Is(err, room.ErrNotJoined) {
			c.logger.InfoContext(ctx, "failed to disconnect member", "error", err)
		}
		return
	}

	if resp.WasHost {
		c.broadcast(ctx, resp.Conns, &Output{Msg: "Host left the room"})
	}
}

// pingLoop keeps the peer's liveness checked. A peer that stops answering
// pongs trips the read deadline and takes the normal close path.
func (c *controller) pingLoop(ctx context.Context, conn *wsconn.Conn) {
	ticker := time.NewTicker(c.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.Ping(time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

package controller

import (
	"github.com/watchparty/server/pkg/wsrouter"
)

func (c *controller) getWSRouter() *wsrouter.WSRouter {
	mux := wsrouter.New(c.logger)

	mux.Handle("Join_room", c.handleJoinRoom)
	mux.Handle("Leave_room", c.handleLeaveRoom)
	mux.Handle("RoomEvent", c.handleRoomEvent)

	return mux
}

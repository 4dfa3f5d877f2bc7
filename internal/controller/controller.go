package controller

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/watchparty/server/internal/service/room"
	"github.com/watchparty/server/pkg/token"
	"github.com/watchparty/server/pkg/validator"
	"github.com/watchparty/server/pkg/wsrouter"
)

type iRoomService interface {
	ConnectMember(context.Context, *room.ConnectMemberParams) error
	JoinRoom(context.Context, *room.JoinRoomParams) (room.JoinRoomResponse, error)
	LeaveRoom(context.Context, *room.LeaveRoomParams) (room.LeaveRoomResponse, error)
	DisconnectMember(context.Context, *room.DisconnectMemberParams) (room.DisconnectMemberResponse, error)
	ApplyRoomEvent(context.Context, *room.ApplyRoomEventParams) (room.ApplyRoomEventResponse, error)
}

type Config struct {
	PingInterval time.Duration
	PongTimeout  time.Duration
}

type controller struct {
	roomService  iRoomService
	tokens       *token.Verifier
	upgrader     websocket.Upgrader
	validate     *validator.Validator
	wsmux        *wsrouter.WSRouter
	logger       *slog.Logger
	pingInterval time.Duration
	pongTimeout  time.Duration
}

func NewController(roomService iRoomService, tokens *token.Verifier, cfg *Config, logger *slog.Logger) *controller {
	c := &controller{
		roomService: roomService,
		tokens:      tokens,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		validate:     validator.NewValidator(),
		logger:       logger,
		pingInterval: cfg.PingInterval,
		pongTimeout:  cfg.PongTimeout,
	}
	c.wsmux = c.getWSRouter()

	return c
}

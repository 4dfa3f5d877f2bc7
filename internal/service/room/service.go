package room

import (
	"context"
	"errors"
	"log/slog"

	"github.com/watchparty/server/internal/repository/room"
	"github.com/watchparty/server/pkg/wsconn"
)

var (
	ErrPermissionDenied    = errors.New("permission denied")
	ErrAwaitingHost        = errors.New("awaiting host")
	ErrVideoIdRequired     = errors.New("video id required")
	ErrRoomOccupied        = errors.New("room already has a host")
	ErrAlreadyJoined       = errors.New("already joined")
	ErrNotJoined           = errors.New("not joined")
	ErrMembersLimitReached = errors.New("members limit reached")
)

type iRoomRepo interface {
	CreateRoom(context.Context, *room.CreateRoomParams) error
	AddMember(context.Context, *room.AddMemberParams) error
	RemoveMember(context.Context, *room.RemoveMemberParams) error
	RemoveRoom(ctx context.Context, roomId string) error
	IsEmpty(ctx context.Context, roomId string) (bool, error)
	GetVideoId(ctx context.Context, roomId string) (string, error)
	GetMemberIds(ctx context.Context, roomId string) ([]string, error)
	GetMember(context.Context, *room.GetMemberParams) (room.Member, error)
	GetMemberRoomId(ctx context.Context, memberId string) (string, error)
	IsMemberAdmin(context.Context, *room.GetMemberParams) (bool, error)
	GetPlayer(ctx context.Context, roomId string) (room.Player, error)
	UpdatePlayerState(context.Context, *room.UpdatePlayerStateParams) error
}

type iConnRepo interface {
	Add(conn *wsconn.Conn, memberId string) error
	RemoveByConn(conn *wsconn.Conn) (string, error)
	GetConn(memberId string) (*wsconn.Conn, error)
}

type service struct {
	roomRepo     iRoomRepo
	connRepo     iConnRepo
	membersLimit int
	logger       *slog.Logger
}

func NewService(roomRepo iRoomRepo, connRepo iConnRepo, membersLimit int, logger *slog.Logger) *service {
	return &service{
		roomRepo:     roomRepo,
		connRepo:     connRepo,
		membersLimit: membersLimit,
		logger:       logger,
	}
}

package room

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	connInmemory "github.com/watchparty/server/internal/repository/connection/inmemory"
	roomInmemory "github.com/watchparty/server/internal/repository/room/inmemory"
	"github.com/watchparty/server/pkg/token"
	"github.com/watchparty/server/pkg/wsconn"
)

func newTestService(t *testing.T) *service {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	roomRepo := roomInmemory.NewRepo(logger)
	connRepo := connInmemory.NewRepo(logger)
	return NewService(roomRepo, connRepo, 9, logger)
}

func TestJoinLeaveFlow(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	hostConn := wsconn.New(nil)
	viewerConn := wsconn.New(nil)

	// host connects and joins with a bound video
	err := service.ConnectMember(ctx, &ConnectMemberParams{Conn: hostConn, MemberId: "host"})
	require.NoError(t, err)

	hostJoinResp, err := service.JoinRoom(ctx, &JoinRoomParams{
		MemberId:     "host",
		RoomId:       "abc",
		VideoSeconds: "12.5",
		Claims:       token.Claims{UserId: "u1", IsAdmin: true, RoomId: "abc", VideoId: "v1"},
	})
	require.NoError(t, err)
	assert.True(t, hostJoinResp.IsAdmin)
	assert.Equal(t, "v1", hostJoinResp.VideoId, "video id is not equal")
	assert.Equal(t, "12.5", hostJoinResp.VideoSeconds, "video seconds is not equal")
	t.Log("host joined")

	// viewer connects and joins the same room
	err = service.ConnectMember(ctx, &ConnectMemberParams{Conn: viewerConn, MemberId: "viewer"})
	require.NoError(t, err)

	viewerJoinResp, err := service.JoinRoom(ctx, &JoinRoomParams{
		MemberId: "viewer",
		RoomId:   "abc",
		Claims:   token.Claims{UserId: "u2", RoomId: "abc"},
	})
	require.NoError(t, err)
	assert.False(t, viewerJoinResp.IsAdmin)
	assert.Equal(t, "v1", viewerJoinResp.VideoId, "viewer must see the host's video")
	assert.Equal(t, "12.5", viewerJoinResp.VideoSeconds, "viewer must get the current position")
	t.Log("viewer joined")

	// host event fans out to the viewer only
	applyResp, err := service.ApplyRoomEvent(ctx, &ApplyRoomEventParams{
		SenderId: "host",
		RoomId:   "abc",
		Event:    PlayedEvent{},
	})
	require.NoError(t, err)
	require.Len(t, applyResp.Conns, 1, "fan-out must exclude the sender")
	assert.Same(t, viewerConn, applyResp.Conns[0])

	// viewer events are rejected and not forwarded
	_, err = service.ApplyRoomEvent(ctx, &ApplyRoomEventParams{
		SenderId: "viewer",
		RoomId:   "abc",
		Event:    PausedEvent{},
	})
	assert.ErrorIs(t, err, ErrPermissionDenied)

	// host leaves: room torn down, viewer connection returned for notice
	leaveResp, err := service.LeaveRoom(ctx, &LeaveRoomParams{MemberId: "host"})
	require.NoError(t, err)
	assert.True(t, leaveResp.WasHost)
	require.Len(t, leaveResp.Conns, 1)
	assert.Same(t, viewerConn, leaveResp.Conns[0])

	// room id is reusable by a new host
	err = service.ConnectMember(ctx, &ConnectMemberParams{Conn: wsconn.New(nil), MemberId: "host2"})
	require.NoError(t, err)
	_, err = service.JoinRoom(ctx, &JoinRoomParams{
		MemberId: "host2",
		RoomId:   "abc",
		Claims:   token.Claims{UserId: "u3", IsAdmin: true, RoomId: "abc", VideoId: "v2"},
	})
	require.NoError(t, err)
}

func TestJoinRoomRejections(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	err := service.ConnectMember(ctx, &ConnectMemberParams{Conn: wsconn.New(nil), MemberId: "m1"})
	require.NoError(t, err)

	t.Run("viewer without host", func(t *testing.T) {
		_, err := service.JoinRoom(ctx, &JoinRoomParams{
			MemberId: "m1",
			RoomId:   "xyz",
			Claims:   token.Claims{UserId: "u1", RoomId: "xyz"},
		})
		assert.ErrorIs(t, err, ErrAwaitingHost)

		// no membership was granted
		_, err = service.roomRepo.GetMemberRoomId(ctx, "m1")
		assert.Error(t, err)
	})

	t.Run("host without video id", func(t *testing.T) {
		_, err := service.JoinRoom(ctx, &JoinRoomParams{
			MemberId: "m1",
			RoomId:   "xyz",
			Claims:   token.Claims{UserId: "u1", IsAdmin: true, RoomId: "xyz"},
		})
		assert.ErrorIs(t, err, ErrVideoIdRequired)
	})

	t.Run("room other than the bound one", func(t *testing.T) {
		_, err := service.JoinRoom(ctx, &JoinRoomParams{
			MemberId: "m1",
			RoomId:   "other",
			Claims:   token.Claims{UserId: "u1", RoomId: "xyz"},
		})
		assert.ErrorIs(t, err, ErrPermissionDenied)
	})

	t.Run("second host for a live room", func(t *testing.T) {
		err := service.ConnectMember(ctx, &ConnectMemberParams{Conn: wsconn.New(nil), MemberId: "h1"})
		require.NoError(t, err)
		_, err = service.JoinRoom(ctx, &JoinRoomParams{
			MemberId: "h1",
			RoomId:   "dup",
			Claims:   token.Claims{UserId: "u2", IsAdmin: true, RoomId: "dup", VideoId: "v1"},
		})
		require.NoError(t, err)

		err = service.ConnectMember(ctx, &ConnectMemberParams{Conn: wsconn.New(nil), MemberId: "h2"})
		require.NoError(t, err)
		_, err = service.JoinRoom(ctx, &JoinRoomParams{
			MemberId: "h2",
			RoomId:   "dup",
			Claims:   token.Claims{UserId: "u3", IsAdmin: true, RoomId: "dup", VideoId: "v9"},
		})
		assert.ErrorIs(t, err, ErrRoomOccupied)
	})

	t.Run("joining twice", func(t *testing.T) {
		err := service.ConnectMember(ctx, &ConnectMemberParams{Conn: wsconn.New(nil), MemberId: "h3"})
		require.NoError(t, err)
		_, err = service.JoinRoom(ctx, &JoinRoomParams{
			MemberId: "h3",
			RoomId:   "twice",
			Claims:   token.Claims{UserId: "u4", IsAdmin: true, RoomId: "twice", VideoId: "v1"},
		})
		require.NoError(t, err)

		_, err = service.JoinRoom(ctx, &JoinRoomParams{
			MemberId: "h3",
			RoomId:   "twice",
			Claims:   token.Claims{UserId: "u4", IsAdmin: true, RoomId: "twice", VideoId: "v1"},
		})
		assert.ErrorIs(t, err, ErrAlreadyJoined)
	})
}

func TestMembersLimit(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	roomRepo := roomInmemory.NewRepo(logger)
	connRepo := connInmemory.NewRepo(logger)
	service := NewService(roomRepo, connRepo, 2, logger)
	ctx := context.Background()

	require.NoError(t, service.ConnectMember(ctx, &ConnectMemberParams{Conn: wsconn.New(nil), MemberId: "host"}))
	_, err := service.JoinRoom(ctx, &JoinRoomParams{
		MemberId: "host",
		RoomId:   "abc",
		Claims:   token.Claims{UserId: "u1", IsAdmin: true, RoomId: "abc", VideoId: "v1"},
	})
	require.NoError(t, err)

	require.NoError(t, service.ConnectMember(ctx, &ConnectMemberParams{Conn: wsconn.New(nil), MemberId: "v1"}))
	_, err = service.JoinRoom(ctx, &JoinRoomParams{
		MemberId: "v1",
		RoomId:   "abc",
		Claims:   token.Claims{UserId: "u2", RoomId: "abc"},
	})
	require.NoError(t, err)

	require.NoError(t, service.ConnectMember(ctx, &ConnectMemberParams{Conn: wsconn.New(nil), MemberId: "v2"}))
	_, err = service.JoinRoom(ctx, &JoinRoomParams{
		MemberId: "v2",
		RoomId:   "abc",
		Claims:   token.Claims{UserId: "u3", RoomId: "abc"},
	})
	assert.ErrorIs(t, err, ErrMembersLimitReached)
}

func TestDisconnectMember(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	hostConn := wsconn.New(nil)
	viewerConn := wsconn.New(nil)

	require.NoError(t, service.ConnectMember(ctx, &ConnectMemberParams{Conn: hostConn, MemberId: "host"}))
	_, err := service.JoinRoom(ctx, &JoinRoomParams{
		MemberId: "host",
		RoomId:   "abc",
		Claims:   token.Claims{UserId: "u1", IsAdmin: true, RoomId: "abc", VideoId: "v1"},
	})
	require.NoError(t, err)

	require.NoError(t, service.ConnectMember(ctx, &ConnectMemberParams{Conn: viewerConn, MemberId: "viewer"}))
	_, err = service.JoinRoom(ctx, &JoinRoomParams{
		MemberId: "viewer",
		RoomId:   "abc",
		Claims:   token.Claims{UserId: "u2", RoomId: "abc"},
	})
	require.NoError(t, err)

	// abrupt host disconnect behaves like an explicit leave
	disconnectResp, err := service.DisconnectMember(ctx, &DisconnectMemberParams{Conn: hostConn})
	require.NoError(t, err)
	assert.True(t, disconnectResp.WasHost)
	require.Len(t, disconnectResp.Conns, 1)
	assert.Same(t, viewerConn, disconnectResp.Conns[0])

	// cleanup is idempotent
	_, err = service.DisconnectMember(ctx, &DisconnectMemberParams{Conn: hostConn})
	assert.ErrorIs(t, err, ErrNotJoined)

	// the evicted viewer's socket binding survives for a rejoin
	_, err = service.JoinRoom(ctx, &JoinRoomParams{
		MemberId: "viewer",
		RoomId:   "abc",
		Claims:   token.Claims{UserId: "u2", RoomId: "abc"},
	})
	assert.ErrorIs(t, err, ErrAwaitingHost)
}

package room

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/watchparty/server/internal/repository/room"
	"github.com/watchparty/server/pkg/token"
	"github.com/watchparty/server/pkg/wsconn"
)

type ConnectMemberParams struct {
	Conn     *wsconn.Conn
	MemberId string
}

// ConnectMember binds a freshly upgraded socket to its member id. The
// member holds no room membership until it joins.
func (s service) ConnectMember(ctx context.Context, params *ConnectMemberParams) error {
	if err := s.connRepo.Add(params.Conn, params.MemberId); err != nil {
		s.logger.InfoContext(ctx, "failed to connect member", "error", err)
		return err
	}

	return nil
}

type JoinRoomParams struct {
	MemberId     string
	RoomId       string
	VideoSeconds string
	Claims       token.Claims
}

type JoinRoomResponse struct {
	IsAdmin      bool
	VideoId      string
	VideoSeconds string
}

// JoinRoom promotes an awaiting session into a room. A host claims the
// room id and pins its video; a viewer attaches to a live room. The room's
// video id is set exactly once, when the host claims the room.
func (s service) JoinRoom(ctx context.Context, params *JoinRoomParams) (JoinRoomResponse, error) {
	if _, err := s.roomRepo.GetMemberRoomId(ctx, params.MemberId); err == nil {
		return JoinRoomResponse{}, ErrAlreadyJoined
	}

	// the token pins which room this session may join
	if params.Claims.RoomId != "" && params.Claims.RoomId != params.RoomId {
		return JoinRoomResponse{}, ErrPermissionDenied
	}

	if params.Claims.IsAdmin {
		return s.joinAsHost(ctx, params)
	}

	return s.joinAsViewer(ctx, params)
}

func (s service) joinAsHost(ctx context.Context, params *JoinRoomParams) (JoinRoomResponse, error) {
	if params.Claims.VideoId == "" {
		return JoinRoomResponse{}, ErrVideoIdRequired
	}

	seconds, err := parseSeconds(params.VideoSeconds)
	if err != nil {
		return JoinRoomResponse{}, fmt.Errorf("failed to parse video seconds: %w", err)
	}

	if err := s.roomRepo.CreateRoom(ctx, &room.CreateRoomParams{
		RoomId:  params.RoomId,
		VideoId: params.Claims.VideoId,
		HostId:  params.MemberId,
		Host: room.Member{
			UserId:  params.Claims.UserId,
			IsAdmin: true,
		},
		CurrentTime: seconds,
		CreatedAt:   time.Now().Unix(),
	}); err != nil {
		if errors.Is(err, room.ErrRoomAlreadyExists) {
			return JoinRoomResponse{}, ErrRoomOccupied
		}

		return JoinRoomResponse{}, fmt.Errorf("failed to create room: %w", err)
	}

	return JoinRoomResponse{
		IsAdmin:      true,
		VideoId:      params.Claims.VideoId,
		VideoSeconds: formatSeconds(seconds),
	}, nil
}

func (s service) joinAsViewer(ctx context.Context, params *JoinRoomParams) (JoinRoomResponse, error) {
	videoId, err := s.roomRepo.GetVideoId(ctx, params.RoomId)
	if err != nil {
		if errors.Is(err, room.ErrRoomNotFound) {
			return JoinRoomResponse{}, ErrAwaitingHost
		}

		return JoinRoomResponse{}, fmt.Errorf("failed to get video id: %w", err)
	}

	memberIds, err := s.roomRepo.GetMemberIds(ctx, params.RoomId)
	if err != nil {
		return JoinRoomResponse{}, fmt.Errorf("failed to get member ids: %w", err)
	}
	if len(memberIds) >= s.membersLimit {
		return JoinRoomResponse{}, ErrMembersLimitReached
	}

	if err := s.roomRepo.AddMember(ctx, &room.AddMemberParams{
		RoomId:   params.RoomId,
		MemberId: params.MemberId,
		Member: room.Member{
			UserId:  params.Claims.UserId,
			IsAdmin: false,
		},
	}); err != nil {
		// the host may have torn the room down between lookups
		if errors.Is(err, room.ErrRoomNotFound) {
			return JoinRoomResponse{}, ErrAwaitingHost
		}

		return JoinRoomResponse{}, fmt.Errorf("failed to add member: %w", err)
	}

	player, err := s.roomRepo.GetPlayer(ctx, params.RoomId)
	if err != nil {
		s.logger.InfoContext(ctx, "failed to get player", "error", err)
	}

	return JoinRoomResponse{
		IsAdmin:      false,
		VideoId:      videoId,
		VideoSeconds: formatSeconds(player.CurrentTime),
	}, nil
}

type LeaveRoomParams struct {
	MemberId string
}

type LeaveRoomResponse struct {
	RoomId  string
	WasHost bool
	Conns   []*wsconn.Conn
}

// LeaveRoom removes the member from its room. If the member was the host
// the whole room is torn down and the remaining members' connections are
// returned so the caller can notify them. The socket binding stays alive;
// the session drops back to awaiting a join.
func (s service) LeaveRoom(ctx context.Context, params *LeaveRoomParams) (LeaveRoomResponse, error) {
	return s.removeMember(ctx, params.MemberId)
}

type DisconnectMemberParams struct {
	Conn *wsconn.Conn
}

type DisconnectMemberResponse struct {
	RoomId  string
	WasHost bool
	Conns   []*wsconn.Conn
}

// DisconnectMember performs the same cleanup as LeaveRoom for a closed
// socket and drops the connection binding. Idempotent: a session that
// already left yields ErrNotJoined and no further action.
func (s service) DisconnectMember(ctx context.Context, params *DisconnectMemberParams) (DisconnectMemberResponse, error) {
	memberId, err := s.connRepo.RemoveByConn(params.Conn)
	if err != nil {
		return DisconnectMemberResponse{}, ErrNotJoined
	}

	resp, err := s.removeMember(ctx, memberId)
	if err != nil {
		return DisconnectMemberResponse{}, err
	}

	return DisconnectMemberResponse{
		RoomId:  resp.RoomId,
		WasHost: resp.WasHost,
		Conns:   resp.Conns,
	}, nil
}

func (s service) removeMember(ctx context.Context, memberId string) (LeaveRoomResponse, error) {
	roomId, err := s.roomRepo.GetMemberRoomId(ctx, memberId)
	if err != nil {
		return LeaveRoomResponse{}, ErrNotJoined
	}

	member, err := s.roomRepo.GetMember(ctx, &room.GetMemberParams{
		RoomId:   roomId,
		MemberId: memberId,
	})
	if err != nil {
		return LeaveRoomResponse{}, fmt.Errorf("failed to get member: %w", err)
	}

	if member.IsAdmin {
		// a room without a host is not serviceable: snapshot the viewers
		// to notify, then tear the room down
		conns, err := s.getConnsByRoomId(ctx, roomId, memberId)
		if err != nil {
			s.logger.InfoContext(ctx, "failed to get conns", "error", err)
		}

		if err := s.roomRepo.RemoveRoom(ctx, roomId); err != nil {
			return LeaveRoomResponse{}, fmt.Errorf("failed to remove room: %w", err)
		}

		return LeaveRoomResponse{
			RoomId:  roomId,
			WasHost: true,
			Conns:   conns,
		}, nil
	}

	if err := s.roomRepo.RemoveMember(ctx, &room.RemoveMemberParams{
		RoomId:   roomId,
		MemberId: memberId,
	}); err != nil {
		return LeaveRoomResponse{}, fmt.Errorf("failed to remove member: %w", err)
	}

	// the host is always a member, so a room only drains empty here if the
	// registry lost its host out of band
	if empty, err := s.roomRepo.IsEmpty(ctx, roomId); err == nil && empty {
		if err := s.roomRepo.RemoveRoom(ctx, roomId); err != nil {
			s.logger.InfoContext(ctx, "failed to remove empty room", "error", err)
		}
	}

	return LeaveRoomResponse{
		RoomId:  roomId,
		WasHost: false,
	}, nil
}

package inmemory

import (
	"context"
	"log/slog"
	"sync"

	"github.com/watchparty/server/internal/repository/room"
)

type roomState struct {
	videoId   string
	player    room.Player
	memberIds []string
	members   map[string]room.Member
}

// repo is the process-wide room registry. A single mutex covers every
// room; mutations never hold it across a socket write.
type repo struct {
	logger      *slog.Logger
	mu          sync.RWMutex
	rooms       map[string]*roomState
	memberRooms map[string]string
}

func NewRepo(logger *slog.Logger) *repo {
	return &repo{
		logger:      logger,
		rooms:       make(map[string]*roomState),
		memberRooms: make(map[string]string),
	}
}

// CreateRoom claims the room id for the given host. Exactly one of two
// racing hosts wins; the loser gets ErrRoomAlreadyExists.
func (r *repo) CreateRoom(ctx context.Context, params *room.CreateRoomParams) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rooms[params.RoomId]; ok {
		return room.ErrRoomAlreadyExists
	}

	r.rooms[params.RoomId] = &roomState{
		videoId: params.VideoId,
		player: room.Player{
			IsPlaying:   false,
			CurrentTime: params.CurrentTime,
			UpdatedAt:   params.CreatedAt,
		},
		memberIds: []string{params.HostId},
		members:   map[string]room.Member{params.HostId: params.Host},
	}
	r.memberRooms[params.HostId] = params.RoomId

	r.logger.DebugContext(ctx, "room created", "room_id", params.RoomId, "video_id", params.VideoId)
	return nil
}

func (r *repo) AddMember(ctx context.Context, params *room.AddMemberParams) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, ok := r.rooms[params.RoomId]
	if !ok {
		return room.ErrRoomNotFound
	}

	if _, ok := state.members[params.MemberId]; ok {
		return room.ErrMemberAlreadyExists
	}

	// host membership is only ever granted through CreateRoom
	if params.Member.IsAdmin {
		return room.ErrHostAlreadyExists
	}

	state.memberIds = append(state.memberIds, params.MemberId)
	state.members[params.MemberId] = params.Member
	r.memberRooms[params.MemberId] = params.RoomId

	r.logger.DebugContext(ctx, "member added", "room_id", params.RoomId, "member_id", params.MemberId)
	return nil
}

func (r *repo) RemoveMember(ctx context.Context, params *room.RemoveMemberParams) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, ok := r.rooms[params.RoomId]
	if !ok {
		return room.ErrRoomNotFound
	}

	if _, ok := state.members[params.MemberId]; !ok {
		return room.ErrMemberNotFound
	}

	delete(state.members, params.MemberId)
	delete(r.memberRooms, params.MemberId)
	for i, id := range state.memberIds {
		if id == params.MemberId {
			state.memberIds = append(state.memberIds[:i], state.memberIds[i+1:]...)
			break
		}
	}

	r.logger.DebugContext(ctx, "member removed", "room_id", params.RoomId, "member_id", params.MemberId)
	return nil
}

// RemoveRoom tears the room down and drops every remaining membership.
func (r *repo) RemoveRoom(ctx context.Context, roomId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, ok := r.rooms[roomId]
	if !ok {
		return room.ErrRoomNotFound
	}

	for memberId := range state.members {
		delete(r.memberRooms, memberId)
	}
	delete(r.rooms, roomId)

	r.logger.DebugContext(ctx, "room removed", "room_id", roomId)
	return nil
}

func (r *repo) IsEmpty(ctx context.Context, roomId string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	state, ok := r.rooms[roomId]
	if !ok {
		return false, room.ErrRoomNotFound
	}

	return len(state.memberIds) == 0, nil
}

func (r *repo) GetVideoId(ctx context.Context, roomId string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	state, ok := r.rooms[roomId]
	if !ok {
		return "", room.ErrRoomNotFound
	}

	return state.videoId, nil
}

// GetMemberIds returns the member ids in join order.
func (r *repo) GetMemberIds(ctx context.Context, roomId string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	state, ok := r.rooms[roomId]
	if !ok {
		return nil, room.ErrRoomNotFound
	}

	memberIds := make([]string, len(state.memberIds))
	copy(memberIds, state.memberIds)

	return memberIds, nil
}

func (r *repo) GetMember(ctx context.Context, params *room.GetMemberParams) (room.Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	state, ok := r.rooms[params.RoomId]
	if !ok {
		return room.Member{}, room.ErrRoomNotFound
	}

	member, ok := state.members[params.MemberId]
	if !ok {
		return room.Member{}, room.ErrMemberNotFound
	}

	return member, nil
}

func (r *repo) GetMemberRoomId(ctx context.Context, memberId string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	roomId, ok := r.memberRooms[memberId]
	if !ok {
		return "", room.ErrMemberNotFound
	}

	return roomId, nil
}

func (r *repo) IsMemberAdmin(ctx context.Context, params *room.GetMemberParams) (bool, error) {
	member, err := r.GetMember(ctx, params)
	if err != nil {
		return false, err
	}

	return member.IsAdmin, nil
}

func (r *repo) GetPlayer(ctx context.Context, roomId string) (room.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	state, ok := r.rooms[roomId]
	if !ok {
		return room.Player{}, room.ErrRoomNotFound
	}

	return state.player, nil
}

func (r *repo) UpdatePlayerState(ctx context.Context, params *room.UpdatePlayerStateParams) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, ok := r.rooms[params.RoomId]
	if !ok {
		return room.ErrRoomNotFound
	}

	state.player = room.Player{
		IsPlaying:   params.IsPlaying,
		CurrentTime: params.CurrentTime,
		UpdatedAt:   params.UpdatedAt,
	}

	return nil
}

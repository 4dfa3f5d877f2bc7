package room

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/watchparty/server/internal/repository/room"
	"github.com/watchparty/server/pkg/wsconn"
)

type RoomEventKind string

const (
	VideoPlayed         RoomEventKind = "Video_Played"
	VideoPaused         RoomEventKind = "Video_Paused"
	SeekVideo           RoomEventKind = "Seek_Video"
	CurrentVideoSeconds RoomEventKind = "Current_Video_Seconds"
	Emoji               RoomEventKind = "Emoji"
)

var ErrUnknownRoomEvent = errors.New("unknown room event")

// RoomEvent is a closed set of host commands. Each variant carries exactly
// the fields its kind needs.
type RoomEvent interface {
	Kind() RoomEventKind
}

type PlayedEvent struct{}

func (PlayedEvent) Kind() RoomEventKind { return VideoPlayed }

type PausedEvent struct{}

func (PausedEvent) Kind() RoomEventKind { return VideoPaused }

type SeekEvent struct {
	Seconds float64
}

func (SeekEvent) Kind() RoomEventKind { return SeekVideo }

type ProgressEvent struct {
	Seconds float64
}

func (ProgressEvent) Kind() RoomEventKind { return CurrentVideoSeconds }

type EmojiData struct {
	Emoji string `json:"emoji"`
	Index int    `json:"index"`
}

type EmojiEvent struct {
	Data EmojiData
}

func (EmojiEvent) Kind() RoomEventKind { return Emoji }

// ParseRoomEvent decodes a wire-level roomEvent tag and its optional
// payload fields into a typed event. Unknown tags and missing payloads
// are errors; the caller drops the message.
func ParseRoomEvent(kind string, videoSeconds string, emojiData *EmojiData) (RoomEvent, error) {
	switch RoomEventKind(kind) {
	case VideoPlayed:
		return PlayedEvent{}, nil
	case VideoPaused:
		return PausedEvent{}, nil
	case SeekVideo:
		seconds, err := parseSeconds(videoSeconds)
		if err != nil {
			return nil, fmt.Errorf("failed to parse video seconds: %w", err)
		}
		return SeekEvent{Seconds: seconds}, nil
	case CurrentVideoSeconds:
		seconds, err := parseSeconds(videoSeconds)
		if err != nil {
			return nil, fmt.Errorf("failed to parse video seconds: %w", err)
		}
		return ProgressEvent{Seconds: seconds}, nil
	case Emoji:
		if emojiData == nil {
			return nil, errors.New("missing emoji data")
		}
		return EmojiEvent{Data: *emojiData}, nil
	default:
		return nil, ErrUnknownRoomEvent
	}
}

type ApplyRoomEventParams struct {
	SenderId string
	RoomId   string
	Event    RoomEvent
}

type ApplyRoomEventResponse struct {
	Conns []*wsconn.Conn
}

// ApplyRoomEvent validates that the sender is the room's host, folds the
// event into the room's playback state and returns the connections the
// event is to be fanned out to. The sender is always excluded.
func (s service) ApplyRoomEvent(ctx context.Context, params *ApplyRoomEventParams) (ApplyRoomEventResponse, error) {
	roomId, err := s.roomRepo.GetMemberRoomId(ctx, params.SenderId)
	if err != nil || roomId != params.RoomId {
		return ApplyRoomEventResponse{}, ErrPermissionDenied
	}

	isAdmin, err := s.roomRepo.IsMemberAdmin(ctx, &room.GetMemberParams{
		RoomId:   roomId,
		MemberId: params.SenderId,
	})
	if err != nil {
		return ApplyRoomEventResponse{}, fmt.Errorf("failed to get member: %w", err)
	}
	if !isAdmin {
		return ApplyRoomEventResponse{}, ErrPermissionDenied
	}

	player, err := s.roomRepo.GetPlayer(ctx, roomId)
	if err != nil {
		return ApplyRoomEventResponse{}, fmt.Errorf("failed to get player: %w", err)
	}

	state := PlayerState{
		IsPlaying:   player.IsPlaying,
		CurrentTime: player.CurrentTime,
	}
	if state.Apply(params.Event) {
		if err := s.roomRepo.UpdatePlayerState(ctx, &room.UpdatePlayerStateParams{
			RoomId:      roomId,
			IsPlaying:   state.IsPlaying,
			CurrentTime: state.CurrentTime,
			UpdatedAt:   time.Now().Unix(),
		}); err != nil {
			s.logger.InfoContext(ctx, "failed to update player state", "error", err)
		}
	}

	conns, err := s.getConnsByRoomId(ctx, roomId, params.SenderId)
	if err != nil {
		return ApplyRoomEventResponse{}, fmt.Errorf("failed to get conns: %w", err)
	}

	return ApplyRoomEventResponse{Conns: conns}, nil
}

package controller

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"

	"github.com/watchparty/server/internal/service/room"
	"github.com/watchparty/server/pkg/wsconn"
)

// Output is the server-to-client acknowledgement envelope.
type Output struct {
	Msg   string `json:"msg,omitempty"`
	Event string `json:"event,omitempty"`
	Data  any    `json:"data,omitempty"`
}

type joinRoomData struct {
	VideoId      string `json:"videoId"`
	VideoSeconds string `json:"videoSeconds"`
}

type videoSecondsData struct {
	VideoSeconds string `json:"videoSeconds"`
}

type JoinRoomInput struct {
	RoomId       string `json:"roomId" validate:"required"`
	VideoSeconds string `json:"videoSeconds" validate:"omitempty,numeric"`
}

func (c *controller) handleJoinRoom(ctx context.Context, conn *wsconn.Conn, frame json.RawMessage) error {
	var input JoinRoomInput
	if err := json.Unmarshal(frame, &input); err != nil {
		c.logger.DebugContext(ctx, "dropping malformed join", "error", err)
		return nil
	}

	if validationErrors, ok := c.validate.Validate(input); !ok {
		return c.writeToConn(ctx, conn, &Output{
			Msg:  "Invalid join request",
			Data: map[string]any{"errors": validationErrors},
		})
	}

	joinRoomResp, err := c.roomService.JoinRoom(ctx, &room.JoinRoomParams{
		MemberId:     c.getMemberIdFromCtx(ctx),
		RoomId:       input.RoomId,
		VideoSeconds: input.VideoSeconds,
		Claims:       c.getClaimsFromCtx(ctx),
	})
	if err != nil {
		c.logger.DebugContext(ctx, "join rejected", "error", err)
		return c.writeToConn(ctx, conn, &Output{Msg: noticeForError(err)})
	}

	msg := "You joined the room successfully"
	if joinRoomResp.IsAdmin {
		msg = "Host joined the meeting successfully"
	}

	return c.writeToConn(ctx, conn, &Output{
		Msg:   msg,
		Event: "Join_room_successfully",
		Data: joinRoomData{
			VideoId:      joinRoomResp.VideoId,
			VideoSeconds: joinRoomResp.VideoSeconds,
		},
	})
}

func (c *controller) handleLeaveRoom(ctx context.Context, conn *wsconn.Conn, frame json.RawMessage) error {
	leaveRoomResp, err := c.roomService.LeaveRoom(ctx, &room.LeaveRoomParams{
		MemberId: c.getMemberIdFromCtx(ctx),
	})
	if err != nil {
		c.logger.DebugContext(ctx, "leave rejected", "error", err)
		return c.writeToConn(ctx, conn, &Output{Msg: noticeForError(err)})
	}

	msg := "You left the room successfully"
	if leaveRoomResp.WasHost {
		msg = "You (Host) left the meeting successfully"
		c.broadcast(ctx, leaveRoomResp.Conns, &Output{Msg: "Host left the room"})
	}

	return c.writeToConn(ctx, conn, &Output{
		Msg:   msg,
		Event: "Leave_room_successfully",
	})
}

type RoomEventInput struct {
	RoomId       string          `json:"roomId" validate:"required"`
	RoomEvent    string          `json:"roomEvent" validate:"required"`
	VideoSeconds string          `json:"videoSeconds" validate:"omitempty,numeric"`
	EmojiData    *room.EmojiData `json:"emojiData"`
}

func (c *controller) handleRoomEvent(ctx context.Context, conn *wsconn.Conn, frame json.RawMessage) error {
	var input RoomEventInput
	if err := json.Unmarshal(frame, &input); err != nil {
		c.logger.DebugContext(ctx, "dropping malformed room event", "error", err)
		return nil
	}

	if validationErrors, ok := c.validate.Validate(input); !ok {
		c.logger.DebugContext(ctx, "dropping invalid room event", "errors", validationErrors)
		return nil
	}

	event, err := room.ParseRoomEvent(input.RoomEvent, input.VideoSeconds, input.EmojiData)
	if err != nil {
		c.logger.InfoContext(ctx, "dropping room event", "room_event", input.RoomEvent, "error", err)
		return nil
	}

	applyResp, err := c.roomService.ApplyRoomEvent(ctx, &room.ApplyRoomEventParams{
		SenderId: c.getMemberIdFromCtx(ctx),
		RoomId:   input.RoomId,
		Event:    event,
	})
	if err != nil {
		c.logger.DebugContext(ctx, "room event rejected", "error", err)
		return c.writeToConn(ctx, conn, &Output{Msg: noticeForError(err)})
	}

	c.broadcast(ctx, applyResp.Conns, &Output{
		Event: string(event.Kind()),
		Data:  roomEventPayload(event),
	})

	return nil
}

// roomEventPayload picks the broadcast payload for an event kind. Play and
// pause carry nothing beyond the tag.
func roomEventPayload(event room.RoomEvent) any {
	switch ev := event.(type) {
	case room.SeekEvent:
		return videoSecondsData{VideoSeconds: strconv.FormatFloat(ev.Seconds, 'f', -1, 64)}
	case room.ProgressEvent:
		return videoSecondsData{VideoSeconds: strconv.FormatFloat(ev.Seconds, 'f', -1, 64)}
	case room.EmojiEvent:
		return ev.Data
	default:
		return nil
	}
}

func noticeForError(err error) string {
	switch {
	case errors.Is(err, room.ErrPermissionDenied):
		return "You are not allowed to perform this action"
	case errors.Is(err, room.ErrAwaitingHost):
		return "Please wait for the host to join the room"
	case errors.Is(err, room.ErrVideoIdRequired):
		return "Please provide a video Id"
	case errors.Is(err, room.ErrRoomOccupied):
		return "Room already has a host"
	case errors.Is(err, room.ErrAlreadyJoined):
		return "You are already in a room"
	case errors.Is(err, room.ErrNotJoined):
		return "You are not in a room"
	case errors.Is(err, room.ErrMembersLimitReached):
		return "Room is full"
	default:
		return "Something went wrong"
	}
}

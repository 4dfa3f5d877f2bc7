package room

import (
	"context"
	"strconv"

	"github.com/watchparty/server/pkg/wsconn"
)

// getConnsByRoomId snapshots the writable sockets of a room's members in
// join order, skipping excludeMemberId and members with no live binding.
func (s service) getConnsByRoomId(ctx context.Context, roomId, excludeMemberId string) ([]*wsconn.Conn, error) {
	memberIds, err := s.roomRepo.GetMemberIds(ctx, roomId)
	if err != nil {
		return nil, err
	}

	conns := make([]*wsconn.Conn, 0, len(memberIds))
	for _, memberId := range memberIds {
		if memberId == excludeMemberId {
			continue
		}

		conn, err := s.connRepo.GetConn(memberId)
		if err != nil {
			s.logger.DebugContext(ctx, "skipping member without connection", "member_id", memberId)
			continue
		}

		conns = append(conns, conn)
	}

	return conns, nil
}

func parseSeconds(raw string) (float64, error) {
	if raw == "" {
		return 0, nil
	}

	return strconv.ParseFloat(raw, 64)
}

func formatSeconds(seconds float64) string {
	return strconv.FormatFloat(seconds, 'f', -1, 64)
}

package room

type CreateRoomParams struct {
	RoomId      string
	VideoId     string
	HostId      string
	Host        Member
	CurrentTime float64
	CreatedAt   int64
}

type AddMemberParams struct {
	RoomId   string
	MemberId string
	Member   Member
}

type RemoveMemberParams struct {
	RoomId   string
	MemberId string
}

type GetMemberParams struct {
	RoomId   string
	MemberId string
}

type UpdatePlayerStateParams struct {
	RoomId      string
	IsPlaying   bool
	CurrentTime float64
	UpdatedAt   int64
}

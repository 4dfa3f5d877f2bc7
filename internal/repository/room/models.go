package room

// Member is one live connection's membership record. At most one member
// per room has IsAdmin set.
type Member struct {
	UserId  string `json:"user_id"`
	IsAdmin bool   `json:"is_admin"`
}

// Player is the room's reconciled playback state, maintained from the
// host's commands and handed to late joiners.
type Player struct {
	IsPlaying   bool    `json:"is_playing"`
	CurrentTime float64 `json:"current_time"`
	UpdatedAt   int64   `json:"updated_at"`
}

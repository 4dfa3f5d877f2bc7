package room

import "math"

// DriftTolerance is how far, in seconds, a position may drift from an
// announced heartbeat before a correcting seek is applied. Heartbeats
// inside the tolerance are no-ops so viewers don't micro-seek.
const DriftTolerance = 0.5

func NeedsCorrection(localSeconds, announcedSeconds float64) bool {
	return math.Abs(localSeconds-announcedSeconds) > DriftTolerance
}

// PlayerState is the reconciled playback position a receiver maintains
// from the host's command stream.
type PlayerState struct {
	IsPlaying   bool
	CurrentTime float64
}

// Apply folds one host event into the state and reports whether anything
// changed. Seeks are unconditional; progress heartbeats correct the
// position only beyond DriftTolerance; emoji reactions carry no state.
func (p *PlayerState) Apply(event RoomEvent) bool {
	switch ev := event.(type) {
	case PlayedEvent:
		if p.IsPlaying {
			return false
		}
		p.IsPlaying = true
		return true
	case PausedEvent:
		if !p.IsPlaying {
			return false
		}
		p.IsPlaying = false
		return true
	case SeekEvent:
		p.CurrentTime = ev.Seconds
		return true
	case ProgressEvent:
		if !NeedsCorrection(p.CurrentTime, ev.Seconds) {
			return false
		}
		p.CurrentTime = ev.Seconds
		return true
	case EmojiEvent:
		return false
	default:
		return false
	}
}

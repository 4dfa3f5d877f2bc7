package room

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNeedsCorrection(t *testing.T) {
	assert.False(t, NeedsCorrection(10, 10))
	assert.False(t, NeedsCorrection(10, 10.5))
	assert.False(t, NeedsCorrection(10.5, 10))
	assert.True(t, NeedsCorrection(10, 10.6))
	assert.True(t, NeedsCorrection(10.6, 10))
}

func TestPlayerStateApply(t *testing.T) {
	t.Run("play and pause", func(t *testing.T) {
		state := PlayerState{}
		assert.True(t, state.Apply(PlayedEvent{}))
		assert.True(t, state.IsPlaying)
		assert.False(t, state.Apply(PlayedEvent{}), "replayed play must be a no-op")
		assert.True(t, state.Apply(PausedEvent{}))
		assert.False(t, state.IsPlaying)
	})

	t.Run("seek is unconditional", func(t *testing.T) {
		state := PlayerState{CurrentTime: 100}
		assert.True(t, state.Apply(SeekEvent{Seconds: 100.1}))
		assert.Equal(t, 100.1, state.CurrentTime)
	})

	t.Run("heartbeat inside tolerance is a no-op", func(t *testing.T) {
		state := PlayerState{CurrentTime: 100}
		assert.False(t, state.Apply(ProgressEvent{Seconds: 100.4}))
		assert.Equal(t, float64(100), state.CurrentTime)
	})

	t.Run("heartbeat beyond tolerance corrects", func(t *testing.T) {
		state := PlayerState{CurrentTime: 100}
		assert.True(t, state.Apply(ProgressEvent{Seconds: 103}))
		assert.Equal(t, float64(103), state.CurrentTime)
	})

	t.Run("emoji carries no state", func(t *testing.T) {
		state := PlayerState{IsPlaying: true, CurrentTime: 42}
		assert.False(t, state.Apply(EmojiEvent{Data: EmojiData{Emoji: "🔥", Index: 2}}))
		assert.Equal(t, PlayerState{IsPlaying: true, CurrentTime: 42}, state)
	})
}

func TestParseRoomEvent(t *testing.T) {
	event, err := ParseRoomEvent("Seek_Video", "42.5", nil)
	require.NoError(t, err)
	assert.Equal(t, SeekEvent{Seconds: 42.5}, event)

	event, err = ParseRoomEvent("Current_Video_Seconds", "10", nil)
	require.NoError(t, err)
	assert.Equal(t, ProgressEvent{Seconds: 10}, event)

	event, err = ParseRoomEvent("Video_Played", "", nil)
	require.NoError(t, err)
	assert.Equal(t, VideoPlayed, event.Kind())

	event, err = ParseRoomEvent("Emoji", "", &EmojiData{Emoji: "👍", Index: 1})
	require.NoError(t, err)
	assert.Equal(t, EmojiEvent{Data: EmojiData{Emoji: "👍", Index: 1}}, event)

	_, err = ParseRoomEvent("Emoji", "", nil)
	assert.Error(t, err, "emoji without payload must be rejected")

	_, err = ParseRoomEvent("Seek_Video", "not-a-number", nil)
	assert.Error(t, err)

	_, err = ParseRoomEvent("Explode_Video", "", nil)
	assert.ErrorIs(t, err, ErrUnknownRoomEvent)
}

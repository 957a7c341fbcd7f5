package player

// BackendState is a playback state as reported by the embedded player.
type BackendState int

const (
	BackendPlaying BackendState = iota
	BackendPaused
	BackendEnded
)

// Backend abstracts the embeddable media player the coordinator drives.
// Positions and durations are expressed in milliseconds, volume as a
// 0-100 percentage. The backend's host is expected to forward the
// player's ready, state-change and error callbacks to the matching
// Coordinator.OnReady, OnStateChange and OnError entry points, which
// are the only paths allowed to drive state machine transitions.
type Backend interface {
	Load(id string) error
	Play() error
	Pause() error
	Seek(position int) error
	SetVolume(percent int) error
	Mute() error
	Unmute() error
	CurrentTime() int
	Duration() int
	Ready() bool
}

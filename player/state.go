package player

// State is the coordinator's playback state.
type State int

const (
	// StateIdle means no current track
	StateIdle State = iota
	// StateLoading means a track got handed to the backend but
	// playback is not confirmed yet
	StateLoading
	StatePlaying
	StatePaused
)

func (state State) String() string {
	switch state {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	default:
		return "unknown"
	}
}

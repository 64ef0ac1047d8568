package timeline

// PlaybackState is the playback state of an Engine: Idle, Playing, Paused
// or Stopped.
type PlaybackState int

const (
	Idle PlaybackState = iota
	Playing
	Paused
	Stopped
)

// String returns the state name.
func (s PlaybackState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

package timeline

import (
	"math"
	"time"
)

// DefaultFrameRate is used whenever the configured frame rate is missing or
// unusable.
const DefaultFrameRate = 24.0

// Options configures an Engine.
type Options struct {
	// FramesPerSecond sets the tick rate. Non-positive or non-finite values
	// fall back to DefaultFrameRate.
	FramesPerSecond float64

	// TotalDuration, when set, spreads playback of the whole sequence across
	// this duration and takes precedence over FramesPerSecond.
	TotalDuration time.Duration

	// Loop wraps playback back to frame 0 after the last frame.
	Loop bool

	// AutoStart plays as soon as the engine has a non-empty frame list.
	AutoStart bool

	// InitialFrame is clamped into the valid range at construction.
	InitialFrame int

	// OnFrame is invoked with the new index on every committed frame change.
	// It runs on the engine's goroutine and must not call back into the
	// engine.
	OnFrame func(frame int)

	// OnState is invoked with the new state on every committed state change,
	// under the same rules as OnFrame.
	OnState func(state PlaybackState)
}

// DefaultOptions returns the options an Engine uses when the caller leaves
// them unset: 24 fps, looping, auto-starting, from frame 0.
func DefaultOptions() Options {
	return Options{
		FramesPerSecond: DefaultFrameRate,
		Loop:            true,
		AutoStart:       true,
	}
}

// tickInterval derives the delay between frame advances. A total duration
// takes precedence over the frame rate; a bad frame rate falls back to the
// default rather than producing a zero or negative interval.
func tickInterval(opts Options, frameCount int) time.Duration {
	if opts.TotalDuration > 0 && frameCount > 0 {
		return opts.TotalDuration / time.Duration(frameCount)
	}

	fps := opts.FramesPerSecond
	if fps <= 0 || math.IsNaN(fps) || math.IsInf(fps, 0) {
		fps = DefaultFrameRate
	}
	return time.Duration(float64(time.Second) / fps)
}

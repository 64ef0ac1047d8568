package stream

import (
	"time"

	"github.com/matt-g-everett/seqtx/timeline"
)

type Config struct {
	Mqtt struct {
		URL      string `yaml:"url"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		Topics   struct {
			Stream  string `yaml:"stream"`
			Command string `yaml:"command"`
			State   string `yaml:"state"`
		} `yaml:"topics"`
	} `yaml:"mqtt"`

	Playback struct {
		FrameRate    float64 `yaml:"frameRate"`
		DurationMs   int64   `yaml:"durationMs"`
		Loop         *bool   `yaml:"loop"`
		AutoStart    *bool   `yaml:"autoStart"`
		Preload      bool    `yaml:"preload"`
		InitialFrame int     `yaml:"initialFrame"`
	} `yaml:"playback"`

	Sequence struct {
		Images             []string `yaml:"images"`
		Pixels             int      `yaml:"pixels"`
		TransitionTimeSecs float64  `yaml:"transitionTimeSecs"`
	} `yaml:"sequence"`

	Api struct {
		Addr string `yaml:"addr"`
	} `yaml:"api"`
}

// PlaybackOptions maps the yaml playback section onto engine options,
// leaving the engine defaults in place for absent keys.
func (c Config) PlaybackOptions() timeline.Options {
	opts := timeline.DefaultOptions()
	if c.Playback.FrameRate > 0 {
		opts.FramesPerSecond = c.Playback.FrameRate
	}
	if c.Playback.DurationMs > 0 {
		opts.TotalDuration = time.Duration(c.Playback.DurationMs) * time.Millisecond
	}
	if c.Playback.Loop != nil {
		opts.Loop = *c.Playback.Loop
	}
	if c.Playback.AutoStart != nil {
		opts.AutoStart = *c.Playback.AutoStart
	}
	opts.InitialFrame = c.Playback.InitialFrame
	return opts
}

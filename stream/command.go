package stream

import (
	"log"

	"github.com/matt-g-everett/seqtx/timeline"
)

// Command is a remote playback instruction, received as JSON on the command
// topic.
type Command struct {
	Type  string `json:"type"`
	Frame *int   `json:"frame,omitempty"`
	Pause bool   `json:"pause,omitempty"`
}

// Apply routes the command to an engine. Unknown types are ignored.
func (c Command) Apply(e *timeline.Engine) {
	switch c.Type {
	case "play":
		if c.Frame != nil {
			e.PlayTo(*c.Frame)
		} else {
			e.Play()
		}
	case "pause":
		e.Pause()
	case "stop":
		e.Stop()
	case "restart":
		e.Restart()
	case "goto":
		if c.Frame != nil {
			e.GoToFrame(*c.Frame, c.Pause)
		}
	default:
		log.Printf("Unknown command type %q", c.Type)
	}
}

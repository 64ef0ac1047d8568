package stream

import (
	"encoding/json"
	"testing"

	"github.com/matt-g-everett/seqtx/timeline"
)

func newCommandEngine(frameCount int) *timeline.Engine {
	opts := timeline.DefaultOptions()
	opts.FramesPerSecond = 0.0001 // the ticker must not fire mid-test
	opts.AutoStart = false
	return timeline.NewEngine(opts, frameCount)
}

func intp(i int) *int { return &i }

func TestCommandApply(t *testing.T) {
	tests := []struct {
		name      string
		commands  []Command
		wantFrame int
		wantState timeline.PlaybackState
	}{
		{"play", []Command{{Type: "play"}}, 0, timeline.Playing},
		{"play to frame", []Command{{Type: "play", Frame: intp(3)}}, 0, timeline.Playing},
		{"pause", []Command{{Type: "play"}, {Type: "pause"}}, 0, timeline.Paused},
		{"stop", []Command{{Type: "goto", Frame: intp(4)}, {Type: "stop"}}, 0, timeline.Stopped},
		{"restart", []Command{{Type: "goto", Frame: intp(4)}, {Type: "restart"}}, 0, timeline.Playing},
		{"goto", []Command{{Type: "goto", Frame: intp(5)}}, 5, timeline.Idle},
		{"goto with pause", []Command{{Type: "goto", Frame: intp(5), Pause: true}}, 5, timeline.Paused},
		{"goto clamps", []Command{{Type: "goto", Frame: intp(99)}}, 9, timeline.Idle},
		{"goto without frame ignored", []Command{{Type: "goto"}}, 0, timeline.Idle},
		{"unknown ignored", []Command{{Type: "shuffle"}}, 0, timeline.Idle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newCommandEngine(10)
			defer e.Close()

			for _, c := range tt.commands {
				c.Apply(e)
			}

			if got := e.CurrentFrame(); got != tt.wantFrame {
				t.Errorf("CurrentFrame() = %d, want %d", got, tt.wantFrame)
			}
			if got := e.State(); got != tt.wantState {
				t.Errorf("State() = %v, want %v", got, tt.wantState)
			}
		})
	}
}

func TestCommandUnmarshal(t *testing.T) {
	var c Command
	if err := json.Unmarshal([]byte(`{"type":"goto","frame":7,"pause":true}`), &c); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if c.Type != "goto" || c.Frame == nil || *c.Frame != 7 || !c.Pause {
		t.Errorf("Command = %+v, want goto frame 7 pause", c)
	}

	c = Command{}
	if err := json.Unmarshal([]byte(`{"type":"play"}`), &c); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if c.Frame != nil {
		t.Error("absent frame should unmarshal to nil")
	}
}

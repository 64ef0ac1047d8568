package stream

import (
	"encoding/json"
	"log"
	"os"
	"sync"
	"time"

	"github.com/eclipse/paho.mqtt.golang"
	"github.com/fogleman/ease"

	"github.com/matt-g-everett/seqtx/timeline"
)

// publishInterval is the rate frames go out to the ledrx device, independent
// of the engine's tick rate.
const publishInterval = 33 * time.Millisecond

// Streamer renders the engine's current frame to an ledrx device over MQTT.
// It tracks the engine through its frame-change notifications, cross-fading
// from the previously displayed frame to the new one, and relays playback
// commands arriving on the command topic.
type Streamer struct {
	config Config
	client mqtt.Client
	engine *timeline.Engine
	loader *SequenceLoader

	mu                  sync.Mutex
	current             *Frame
	target              *Frame
	transition          float64
	transitionIncrement float64
	stop                chan struct{}
}

// NewStreamer creates an instance of a Streamer.
func NewStreamer(config Config, client mqtt.Client, loader *SequenceLoader) *Streamer {
	s := new(Streamer)
	s.config = config
	s.client = client
	s.loader = loader
	s.stop = make(chan struct{})

	transitionTime := config.Sequence.TransitionTimeSecs
	if transitionTime > 0 {
		publishRate := float64(time.Second) / float64(publishInterval)
		s.transitionIncrement = 1.0 / (publishRate * transitionTime)
	} else {
		s.transitionIncrement = 1.0
	}

	return s
}

// SetEngine attaches the engine the command topic drives.
func (s *Streamer) SetEngine(engine *timeline.Engine) {
	s.engine = engine
}

// ShowFrame makes the given frame index the cross-fade target. Wire it to
// the engine's frame-change notification.
func (s *Streamer) ShowFrame(index int) {
	f, err := s.loader.Frame(index)
	if err != nil {
		log.Printf("frame %d unavailable: %v", index, err)
		f = NewFrame(s.loader.pixels)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.target != nil {
		// Mid-fade; freeze the blend as the new fade's starting point.
		s.current = s.current.InterpolateFrame(s.target, ease.InOutQuad(s.transition))
	}
	s.target = f
	s.transition = 0
}

// PublishState reports a playback state change on the state topic. Wire it
// to the engine's state-change notification.
func (s *Streamer) PublishState(state timeline.PlaybackState) {
	b, _ := json.Marshal(map[string]string{"state": state.String()})
	s.client.Publish(s.config.Mqtt.Topics.State, 1, true, b)
}

// SendFrame sends the current blend as binary over MQTT to an ledrx device.
func (s *Streamer) SendFrame() {
	f := s.renderFrame()
	b, _ := f.MarshalBinary()
	token := s.client.Publish(s.config.Mqtt.Topics.Stream, 2, false, b)
	token.Wait()
}

// renderFrame produces the frame to publish this cycle, advancing the
// cross-fade one step.
func (s *Streamer) renderFrame() *Frame {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.target == nil {
		if s.current == nil {
			return NewFrame(s.loader.pixels)
		}
		return s.current
	}

	if s.current == nil {
		s.current = s.target
		s.target = nil
		return s.current
	}

	s.transition += s.transitionIncrement
	if s.transition >= 1.0 {
		s.current = s.target
		s.target = nil
		s.transition = 0
		return s.current
	}

	return s.current.InterpolateFrame(s.target, ease.InOutQuad(s.transition))
}

// Subscribe registers for playback commands on the command topic.
func (s *Streamer) Subscribe() {
	topic := s.config.Mqtt.Topics.Command
	if token := s.client.Subscribe(topic, 0, s.handleCommandMessage); token.Wait() && token.Error() != nil {
		log.Println(token.Error())
		os.Exit(1)
	}
}

func (s *Streamer) handleCommandMessage(client mqtt.Client, msg mqtt.Message) {
	log.Printf("Received msg %d on %s: %s", msg.MessageID(), msg.Topic(), msg.Payload())

	var command Command
	if err := json.Unmarshal(msg.Payload(), &command); err != nil {
		log.Printf("Bad command: %v", err)
		return
	}
	command.Apply(s.engine)
}

// Run causes the Streamer to send Frames continuously until Close.
func (s *Streamer) Run() {
	publishTimer := time.NewTicker(publishInterval)
	defer publishTimer.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-publishTimer.C:
			s.SendFrame()
		}
	}
}

// Close stops the publish loop.
func (s *Streamer) Close() {
	close(s.stop)
}

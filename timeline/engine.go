package timeline

import (
	"sync"
	"time"

	"github.com/matt-g-everett/seqtx/util"
)

// An Engine drives timed playback over an ordered frame list. It owns the
// current frame index, the playback state and a single recurring ticker,
// and reports every committed change through the Options callbacks.
//
// The engine only ever reads the frame list's length; resolving an index to
// an actual image is the renderer's job.
//
// All methods are safe for concurrent use; the public operations and the
// tick serialise on one mutex, so an observer never sees a frame index past
// a stop target while the state still reads Playing.
type Engine struct {
	mu         sync.Mutex
	opts       Options
	frameCount int
	index      int
	state      PlaybackState
	stopAt     int // target frame for the current run, -1 when unset
	ticker     *time.Ticker
	done       chan struct{}
	closed     bool
}

// NewEngine creates an Engine over a frame list of the given length. When
// AutoStart is set and the list is non-empty, playback begins immediately.
func NewEngine(opts Options, frameCount int) *Engine {
	if frameCount < 0 {
		frameCount = 0
	}

	e := new(Engine)
	e.opts = opts
	e.frameCount = frameCount
	e.index = clampFrame(opts.InitialFrame, frameCount)
	e.state = Idle
	e.stopAt = -1

	if opts.AutoStart && frameCount > 0 {
		e.mu.Lock()
		e.playLocked()
		e.mu.Unlock()
	}

	return e
}

// Play starts or resumes playback, clearing any previous stop target. A
// no-op when the frame list is empty. Calling Play while already playing
// re-arms the ticker at the current interval.
func (e *Engine) Play() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.frameCount == 0 {
		return
	}
	e.stopAt = -1
	e.playLocked()
}

// PlayTo plays until the given frame is reached, then pauses there. The
// target is clamped into the valid range and overrides looping for this
// run. A no-op when the frame list is empty.
func (e *Engine) PlayTo(stopAt int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.frameCount == 0 {
		return
	}
	e.stopAt = clampFrame(stopAt, e.frameCount)
	e.playLocked()
}

// Pause disarms the ticker and leaves the frame index where it is.
// Idempotent.
func (e *Engine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.frameCount == 0 {
		return
	}
	e.disarmLocked()
	e.setStateLocked(Paused)
}

// Stop disarms the ticker, rewinds to frame 0 and clears any stop target.
// Idempotent; the rewind applies even when the frame list is empty.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.stopLocked()
}

// Restart rewinds to frame 0 and plays from there with no stop target.
func (e *Engine) Restart() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.frameCount == 0 {
		return
	}
	e.setIndexLocked(0)
	e.stopAt = -1
	e.playLocked()
}

// GoToFrame jumps to the given frame, clamped into the valid range. When
// pause is set the engine additionally pauses; otherwise the playback state
// is untouched. A no-op when the frame list is empty.
func (e *Engine) GoToFrame(frame int, pause bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.frameCount == 0 {
		return
	}
	e.setIndexLocked(clampFrame(frame, e.frameCount))
	if pause {
		e.disarmLocked()
		e.setStateLocked(Paused)
	}
}

// SetFrameCount tells the engine the frame list changed. The index is
// re-clamped into the new range; an empty list forces a stop-reset, and a
// list going from empty to non-empty plays when AutoStart is set.
func (e *Engine) SetFrameCount(frameCount int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if frameCount < 0 {
		frameCount = 0
	}

	wasEmpty := e.frameCount == 0
	e.frameCount = frameCount

	if frameCount == 0 {
		e.stopLocked()
		return
	}

	e.setIndexLocked(clampFrame(e.index, frameCount))
	if e.stopAt >= 0 {
		e.stopAt = clampFrame(e.stopAt, frameCount)
	}

	if wasEmpty && e.opts.AutoStart && !e.closed {
		e.stopAt = -1
		e.playLocked()
	} else if e.state == Playing {
		// Re-arm; the interval may depend on the frame count.
		e.playLocked()
	}
}

// CurrentFrame returns the current frame index.
func (e *Engine) CurrentFrame() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.index
}

// State returns the playback state.
func (e *Engine) State() PlaybackState {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.state
}

// Close releases the ticker. The engine makes no further callbacks and
// ignores subsequent play requests.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.disarmLocked()
	e.closed = true
}

// playLocked arms the ticker, replacing any previous arming so only one
// ticker runs per engine. Keeps the current stop target.
func (e *Engine) playLocked() {
	if e.closed || e.frameCount == 0 {
		return
	}

	e.disarmLocked()
	e.setStateLocked(Playing)
	e.ticker = time.NewTicker(tickInterval(e.opts, e.frameCount))
	e.done = make(chan struct{})
	go e.run(e.ticker, e.done)
}

func (e *Engine) disarmLocked() {
	if e.done != nil {
		e.ticker.Stop()
		close(e.done)
		e.ticker = nil
		e.done = nil
	}
}

func (e *Engine) stopLocked() {
	e.disarmLocked()
	e.stopAt = -1
	e.setIndexLocked(0)
	e.setStateLocked(Stopped)
}

func (e *Engine) run(ticker *time.Ticker, done chan struct{}) {
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if !e.handleTick(done) {
				return
			}
		}
	}
}

// handleTick runs one tick under the lock, reporting whether this arming is
// still live. A tick left queued from before a disarm or re-arm is dropped.
func (e *Engine) handleTick(done chan struct{}) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.done != done {
		return false
	}
	e.advanceLocked()
	return e.done == done
}

// advanceLocked applies the tick policy: compute the next index first, then
// decide whether this tick ends the run. Deciding afterwards means playback
// always lands exactly on the stop target or the last frame instead of
// overshooting by one tick.
func (e *Engine) advanceLocked() {
	if e.frameCount == 0 {
		return
	}

	last := e.frameCount - 1
	next := e.index + 1
	halt := Playing
	if e.stopAt >= 0 && next >= e.stopAt {
		next = clampFrame(e.stopAt, e.frameCount)
		e.stopAt = -1
		halt = Paused
	} else if next > last {
		if e.opts.Loop {
			next = 0
		} else {
			next = last
			halt = Stopped
		}
	}

	e.setIndexLocked(next)
	if halt != Playing {
		e.disarmLocked()
		e.setStateLocked(halt)
	}
}

func (e *Engine) setIndexLocked(index int) {
	if index == e.index {
		return
	}
	e.index = index
	if e.opts.OnFrame != nil {
		e.opts.OnFrame(index)
	}
}

func (e *Engine) setStateLocked(state PlaybackState) {
	if state == e.state {
		return
	}
	e.state = state
	if e.opts.OnState != nil {
		e.opts.OnState(state)
	}
}

func clampFrame(frame int, frameCount int) int {
	if frameCount == 0 {
		return 0
	}
	return util.Clamp(frame, 0, frameCount-1)
}

package api

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"

	"github.com/matt-g-everett/seqtx/timeline"
)

// Event is a change notification pushed to websocket subscribers. Every
// event carries the last known frame and state so subscribers never have to
// query back.
type Event struct {
	Type  string `json:"type"` // "frame" or "state"
	Frame int    `json:"frame"`
	State string `json:"state"`
}

// Server exposes the playback engine over HTTP: a command/query API under
// /api/playback and a websocket change feed on /ws.
type Server struct {
	addr     string
	engine   *timeline.Engine
	upgrader websocket.Upgrader

	mu        sync.Mutex
	subs      map[chan Event]struct{}
	lastFrame int
	lastState timeline.PlaybackState
}

// NewServer creates a Server for the given engine.
func NewServer(addr string, engine *timeline.Engine) *Server {
	if addr == "" {
		addr = ":3000"
	}

	s := new(Server)
	s.addr = addr
	s.engine = engine
	s.upgrader = websocket.Upgrader{
		CheckOrigin: func(*http.Request) bool { return true },
	}
	s.subs = make(map[chan Event]struct{})
	s.lastFrame = engine.CurrentFrame()
	s.lastState = engine.State()
	return s
}

// NotifyFrame fans a frame change out to websocket subscribers. Wire it to
// the engine's frame-change notification.
func (s *Server) NotifyFrame(frame int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastFrame = frame
	s.broadcastLocked(Event{Type: "frame", Frame: frame, State: s.lastState.String()})
}

// NotifyState fans a state change out to websocket subscribers. Wire it to
// the engine's state-change notification.
func (s *Server) NotifyState(state timeline.PlaybackState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastState = state
	s.broadcastLocked(Event{Type: "state", Frame: s.lastFrame, State: state.String()})
}

// broadcastLocked delivers best-effort; a subscriber that cannot keep up
// loses events rather than stalling the engine.
func (s *Server) broadcastLocked(ev Event) {
	for ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Router builds the HTTP handler, CORS-wrapped for browser clients.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()
	r.Use(loggingMiddleware)

	r.HandleFunc("/api/playback/play", s.handlePlay).Methods("POST")
	r.HandleFunc("/api/playback/pause", s.handlePause).Methods("POST")
	r.HandleFunc("/api/playback/stop", s.handleStop).Methods("POST")
	r.HandleFunc("/api/playback/restart", s.handleRestart).Methods("POST")
	r.HandleFunc("/api/playback/goto", s.handleGoto).Methods("POST")
	r.HandleFunc("/api/playback/state", s.handleState).Methods("GET")
	r.HandleFunc("/ws", s.handleWebsocket)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	})
	return corsHandler.Handler(r)
}

// Serve listens on the configured address until the process exits.
func (s *Server) Serve() {
	log.Printf("Listening on %s...", s.addr)
	if err := http.ListenAndServe(s.addr, s.Router()); err != nil {
		log.Fatal(err)
	}
}

func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	var body struct {
		StopAt *int `json:"stopAt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	if body.StopAt != nil {
		s.engine.PlayTo(*body.StopAt)
	} else {
		s.engine.Play()
	}
	s.writeState(w)
}

func (s *Server) handlePause(w http.ResponseWriter, r *http.Request) {
	s.engine.Pause()
	s.writeState(w)
}

func (s *Server) handleStop(w http.ResponseWriter, r *http.Request) {
	s.engine.Stop()
	s.writeState(w)
}

func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	s.engine.Restart()
	s.writeState(w)
}

func (s *Server) handleGoto(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Frame *int `json:"frame"`
		Pause bool `json:"pause"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Frame == nil {
		http.Error(w, "frame required", http.StatusBadRequest)
		return
	}

	s.engine.GoToFrame(*body.Frame, body.Pause)
	s.writeState(w)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.writeState(w)
}

func (s *Server) writeState(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"frame": s.engine.CurrentFrame(),
		"state": s.engine.State().String(),
	})
}

func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Websocket upgrade failed: %v", err)
		return
	}

	ch := s.subscribe()
	defer conn.Close()
	defer s.unsubscribe(ch)

	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				s.unsubscribe(ch)
				return
			}
		}
	}()

	for ev := range ch {
		if err := conn.WriteJSON(ev); err != nil {
			return
		}
	}
}

func (s *Server) subscribe() chan Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan Event, 16)
	s.subs[ch] = struct{}{}
	// Opening snapshot so subscribers render without waiting for a change.
	ch <- Event{Type: "state", Frame: s.lastFrame, State: s.lastState.String()}
	return ch
}

func (s *Server) unsubscribe(ch chan Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.subs[ch]; ok {
		delete(s.subs, ch)
		close(ch)
	}
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s (%v)", r.Method, r.URL.Path, time.Since(start))
	})
}

package web

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"agentdesk/internal/call"
	"agentdesk/internal/catalog"
	"agentdesk/internal/db"
	"agentdesk/internal/sim"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Localhost console only; the server binds to an ephemeral local port.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsInbound is a client -> server message on the role-play socket.
type wsInbound struct {
	Type      string `json:"type"` // start, speak, mute, end
	AgentID   string `json:"agent_id,omitempty"`
	PersonaID string `json:"persona_id,omitempty"`
	Number    string `json:"number,omitempty"`
	Text      string `json:"text,omitempty"`
	Target    string `json:"target,omitempty"` // mic or audio
	Save      bool   `json:"save,omitempty"`
	Train     bool   `json:"train,omitempty"`
}

// wsOutbound is a server -> client message on the role-play socket.
type wsOutbound struct {
	Type      string       `json:"type"` // status, line, tick, recording, error
	Status    string       `json:"status,omitempty"`
	Speaker   string       `json:"speaker,omitempty"`
	Text      string       `json:"text,omitempty"`
	Seconds   int          `json:"seconds,omitempty"`
	Duration  string       `json:"duration,omitempty"`
	Recording *wsRecording `json:"recording,omitempty"`
	Error     string       `json:"error,omitempty"`
}

// wsRecording is the recording payload sent when a session ends.
type wsRecording struct {
	ID         string      `json:"id"`
	Title      string      `json:"title"`
	Duration   string      `json:"duration"`
	Kind       string      `json:"kind"`
	Transcript []call.Line `json:"transcript"`
	Saved      bool        `json:"saved"`
}

// tickerGuard hands the duration ticker from the connect goroutine to the
// read loop without a race. Stopping an unset guard is a no-op; a ticker set
// after the session ended exits on its own at the next status check.
type tickerGuard struct {
	mu sync.Mutex
	t  *call.Ticker
}

func (g *tickerGuard) set(t *call.Ticker) {
	g.mu.Lock()
	g.t = t
	g.mu.Unlock()
}

func (g *tickerGuard) stop() {
	g.mu.Lock()
	if g.t != nil {
		g.t.Stop()
	}
	g.mu.Unlock()
}

// wsConn wraps one role-play socket. All writes go through the send channel
// so the ticker goroutine and the read loop never interleave frames.
type wsConn struct {
	conn *websocket.Conn
	send chan wsOutbound
	done chan struct{}
}

func newWSConn(conn *websocket.Conn) *wsConn {
	return &wsConn{
		conn: conn,
		send: make(chan wsOutbound, 32),
		done: make(chan struct{}),
	}
}

// writer is the single goroutine allowed to write to the socket.
func (c *wsConn) writer() {
	for {
		select {
		case msg := <-c.send:
			if err := c.conn.WriteJSON(msg); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}

// push queues a message, dropping it if the client has stalled.
func (c *wsConn) push(msg wsOutbound) {
	select {
	case c.send <- msg:
	case <-c.done:
	default:
	}
}

// handleRoleplayWS runs one live session over a websocket. The browser sends
// start/speak/mute/end; the server owns the session state machine, the
// duration ticker and the simulated partner.
func (s *Server) handleRoleplayWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ws := newWSConn(conn)
	go ws.writer()
	defer close(ws.done)

	// A slot must be free before the session may start.
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	err = s.a.Sessions().Acquire(ctx)
	cancel()
	if err != nil {
		ws.push(wsOutbound{Type: "error", Error: "no session slot available"})
		return
	}
	defer s.a.Sessions().Release()

	var (
		session *call.Session
		ticker  tickerGuard
		persona *catalog.Persona
		agentID string
		turn    int
	)
	defer func() {
		ticker.stop()
		if session != nil {
			session.End()
			s.hub.emitJSON(eventCallEnded, map[string]string{"session_id": session.ID()})
		}
	}()

	for {
		var msg wsInbound
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}

		switch msg.Type {
		case "start":
			if session != nil {
				ws.push(wsOutbound{Type: "error", Error: "session already started"})
				continue
			}
			if _, err := s.a.DB().GetAgent(r.Context(), msg.AgentID); err != nil {
				ws.push(wsOutbound{Type: "error", Error: "unknown agent"})
				continue
			}

			kind := call.KindCall
			partner := msg.Number
			if msg.PersonaID != "" {
				p, ok := catalog.PersonaByID(msg.PersonaID)
				if !ok {
					ws.push(wsOutbound{Type: "error", Error: "unknown persona"})
					continue
				}
				persona = &p
				kind = call.KindRoleplay
				partner = p.Name
			} else if !call.ValidNumber(msg.Number) {
				ws.push(wsOutbound{Type: "error", Error: "invalid number"})
				continue
			}

			agentID = msg.AgentID
			session = call.New(kind, partner, msg.PersonaID)
			ws.push(wsOutbound{Type: "status", Status: session.Status().String()})
			s.hub.emitJSON(eventCallStarted, map[string]string{
				"session_id": session.ID(),
				"agent_id":   agentID,
			})
			if logger, lerr := s.a.Logs().CallLogger(session.ID()); lerr == nil {
				logger.Info("ws session %s connecting to %s", session.ID(), partner)
			}

			go s.connectSession(ws, session, persona, msg.Number, &ticker)

		case "speak":
			if session == nil || session.Status() != call.StatusActive {
				ws.push(wsOutbound{Type: "error", Error: "no active session"})
				continue
			}
			text := msg.Text
			if text == "" {
				text = sim.CallerLine(turn)
			}
			turn++
			if err := session.Append("You", text); err != nil {
				ws.push(wsOutbound{Type: "error", Error: err.Error()})
				continue
			}
			ws.push(wsOutbound{Type: "line", Speaker: "You", Text: text})
			go s.partnerReply(ws, session, persona)

		case "mute":
			if session == nil {
				continue
			}
			if msg.Target == "audio" {
				session.ToggleAudio()
			} else {
				session.ToggleMic()
			}

		case "end":
			if session == nil {
				return
			}
			ticker.stop()
			rec, err := session.End()
			if err != nil {
				ws.push(wsOutbound{Type: "error", Error: err.Error()})
				return
			}
			if rec == nil {
				return
			}
			saved := false
			if msg.Save {
				saved = s.persistRecording(r.Context(), ws, agentID, rec, msg.Train)
			}
			ws.push(wsOutbound{Type: "recording", Recording: &wsRecording{
				ID:         rec.ID,
				Title:      rec.Title,
				Duration:   rec.Duration,
				Kind:       string(rec.Kind),
				Transcript: rec.Transcript,
				Saved:      saved,
			}})
			ws.push(wsOutbound{Type: "status", Status: call.StatusEnded.String()})
			return

		default:
			ws.push(wsOutbound{Type: "error", Error: fmt.Sprintf("unknown message type %q", msg.Type)})
		}
	}
}

// connectSession waits out the simulated connect delay, activates the
// session and starts the duration ticker. Runs in its own goroutine; if the
// session was ended while connecting, Activate fails and nothing starts.
func (s *Server) connectSession(ws *wsConn, session *call.Session, persona *catalog.Persona, number string, ticker *tickerGuard) {
	delay := sim.ConnectDelay
	if ms := s.a.Config().Call.ConnectDelayMS; ms > 0 {
		delay = time.Duration(ms) * time.Millisecond
	}
	time.Sleep(delay)

	speaker, text := sim.OpeningLine(persona, number)
	if err := session.Activate(call.Line{Speaker: speaker, Text: text}); err != nil {
		return
	}

	ws.push(wsOutbound{Type: "status", Status: session.Status().String()})
	ws.push(wsOutbound{Type: "line", Speaker: speaker, Text: text})

	ticker.set(call.StartTicker(session, time.Second, func(seconds int) {
		ws.push(wsOutbound{
			Type:     "tick",
			Seconds:  seconds,
			Duration: call.FormatDuration(seconds),
		})
	}))
}

// partnerReply waits out the turn-taking delay and appends the simulated
// partner's next line.
func (s *Server) partnerReply(ws *wsConn, session *call.Session, persona *catalog.Persona) {
	delay := sim.ReplyDelay
	if ms := s.a.Config().Call.ReplyDelayMS; ms > 0 {
		delay = time.Duration(ms) * time.Millisecond
	}
	time.Sleep(delay)

	if session.Status() != call.StatusActive {
		return
	}

	p := catalog.Persona{Name: session.Partner()}
	if persona != nil {
		p = *persona
	}

	var transcript []string
	for _, l := range session.Transcript() {
		transcript = append(transcript, l.Speaker+": "+l.Text)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	text, err := s.a.Responder().Respond(ctx, p, transcript)
	if err != nil {
		ws.push(wsOutbound{Type: "error", Error: err.Error()})
		return
	}
	if err := session.Append(p.Name, text); err != nil {
		return
	}
	ws.push(wsOutbound{Type: "line", Speaker: p.Name, Text: text})
}

// persistRecording stores the finished session's recording and announces it.
func (s *Server) persistRecording(ctx context.Context, ws *wsConn, agentID string, rec *call.Recording, train bool) bool {
	var transcript []string
	for _, l := range rec.Transcript {
		transcript = append(transcript, l.Speaker+": "+l.Text)
	}

	stored, err := s.a.DB().InsertRecording(ctx, db.Recording{
		ID:         rec.ID,
		AgentID:    agentID,
		Title:      rec.Title,
		Duration:   rec.Duration,
		Kind:       string(rec.Kind),
		Transcript: transcript,
		Training:   train,
	})
	if err != nil {
		ws.push(wsOutbound{Type: "error", Error: fmt.Sprintf("save recording: %s", err)})
		return false
	}

	s.hub.emitJSON(eventRecordingSaved, map[string]string{
		"id":       stored.ID,
		"agent_id": agentID,
	})
	return true
}

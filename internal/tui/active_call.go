package tui

import (
	"context"
	"fmt"
	"time"

	"agentdesk/internal/app"
	"agentdesk/internal/call"
	"agentdesk/internal/catalog"
	"agentdesk/internal/sim"
	"agentdesk/internal/theme"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Local messages for the active-call screen. Every timer message carries the
// seq captured when it was scheduled; ticks from an earlier session are
// discarded on arrival.
type (
	sessionAcquiredMsg struct{ seq int }
	connectTickMsg     struct{ seq int }
	durationTickMsg    struct{ seq int }
	partnerReplyMsg    struct {
		seq  int
		text string
		err  error
	}
)

// ActiveCallScreen drives one live session: connecting spinner, duration
// timer, transcript, speak turns and mute toggles.
type ActiveCallScreen struct {
	app    *app.App
	styles theme.Styles

	setup   callStartData
	persona *catalog.Persona
	session *call.Session
	spin    spinner.Model

	seq          int  // invalidates in-flight ticks across sessions
	acquired     bool // holding a limiter slot
	callerTurn   int
	replyPending bool
}

// NewActiveCallScreen creates the active-call screen.
func NewActiveCallScreen(a *app.App, styles theme.Styles) ActiveCallScreen {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.ColorPrimary)
	return ActiveCallScreen{app: a, styles: styles, spin: sp}
}

// Start begins a new session from the setup data. The previous session, if
// any, was already torn down by the navigation path.
func (a *ActiveCallScreen) Start(data callStartData) tea.Cmd {
	a.setup = data
	a.persona = nil
	a.callerTurn = 0
	a.replyPending = false
	a.seq++
	seq := a.seq

	kind := call.KindCall
	partner := data.Number
	if data.PersonaID != "" {
		if p, ok := catalog.PersonaByID(data.PersonaID); ok {
			a.persona = &p
			kind = call.KindRoleplay
			partner = p.Name
		}
	}

	a.session = call.New(kind, partner, data.PersonaID)
	a.acquired = false

	sessions := a.app.Sessions()
	acquire := func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := sessions.Acquire(ctx); err != nil {
			return ErrorMsg{Err: fmt.Errorf("no session slot available: %w", err)}
		}
		return sessionAcquiredMsg{seq: seq}
	}

	return tea.Batch(acquire, a.spin.Tick)
}

// teardown ends the session and releases every owned resource. Safe to call
// multiple times; navigation and quit paths both go through here.
func (a *ActiveCallScreen) teardown() {
	a.seq++ // any in-flight tick is now stale
	if a.session != nil {
		// Discards the recording; explicit end-call goes through endCall.
		a.session.End()
	}
	if a.acquired {
		a.app.Sessions().Release()
		a.acquired = false
	}
}

func (a *ActiveCallScreen) connectDelay() time.Duration {
	if ms := a.app.Config().Call.ConnectDelayMS; ms > 0 {
		return time.Duration(ms) * time.Millisecond
	}
	return sim.ConnectDelay
}

func (a *ActiveCallScreen) replyDelay() time.Duration {
	if ms := a.app.Config().Call.ReplyDelayMS; ms > 0 {
		return time.Duration(ms) * time.Millisecond
	}
	return sim.ReplyDelay
}

// Update handles messages for the active-call screen.
func (a *ActiveCallScreen) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case sessionAcquiredMsg:
		if msg.seq != a.seq {
			// A stale acquire from a session we already tore down; the
			// slot must not leak.
			a.app.Sessions().Release()
			return nil
		}
		a.acquired = true
		seq := a.seq
		if logger, err := a.app.Logs().CallLogger(a.session.ID()); err == nil {
			logger.Info("session %s connecting to %s", a.session.ID(), a.session.Partner())
		}
		return tea.Tick(a.connectDelay(), func(time.Time) tea.Msg {
			return connectTickMsg{seq: seq}
		})

	case connectTickMsg:
		if msg.seq != a.seq || a.session == nil {
			return nil
		}
		speaker, text := sim.OpeningLine(a.persona, a.setup.Number)
		if err := a.session.Activate(call.Line{Speaker: speaker, Text: text}); err != nil {
			// The session was aborted while connecting; nothing to run.
			return nil
		}
		seq := a.seq
		return tea.Tick(time.Second, func(time.Time) tea.Msg {
			return durationTickMsg{seq: seq}
		})

	case durationTickMsg:
		if msg.seq != a.seq || a.session == nil {
			return nil
		}
		a.session.Tick()
		if a.session.Status() != call.StatusActive {
			return nil
		}
		seq := a.seq
		return tea.Tick(time.Second, func(time.Time) tea.Msg {
			return durationTickMsg{seq: seq}
		})

	case partnerReplyMsg:
		if msg.seq != a.seq || a.session == nil {
			// A reply from a torn-down session; the current session's
			// pending turn, if any, is still in flight.
			return nil
		}
		a.replyPending = false
		if msg.err != nil {
			return func() tea.Msg { return ErrorMsg{Err: msg.err} }
		}
		speaker := a.session.Partner()
		a.session.Append(speaker, msg.text)
		return nil

	case spinner.TickMsg:
		if a.session != nil && a.session.Status() == call.StatusConnecting {
			var cmd tea.Cmd
			a.spin, cmd = a.spin.Update(msg)
			return cmd
		}
		return nil

	case tea.KeyMsg:
		return a.handleKey(msg)
	}
	return nil
}

func (a *ActiveCallScreen) handleKey(msg tea.KeyMsg) tea.Cmd {
	if a.session == nil {
		if msg.String() == "esc" {
			return func() tea.Msg { return NavigateBackMsg{} }
		}
		return nil
	}

	switch msg.String() {
	case "esc":
		// Abort: connecting or active, the session ends and nothing is kept.
		return func() tea.Msg { return NavigateBackMsg{} }

	case "e":
		return a.endCall()

	case "m":
		muted := a.session.ToggleMic()
		return muteNotice("Microphone", muted)

	case "o":
		muted := a.session.ToggleAudio()
		return muteNotice("Audio", muted)

	case "s":
		return a.speak()
	}
	return nil
}

// speak appends the operator's next canned line and schedules the partner's
// reply one turn later. Turns do not stack: speaking again while a reply is
// pending is ignored.
func (a *ActiveCallScreen) speak() tea.Cmd {
	if a.session.Status() != call.StatusActive || a.replyPending {
		return nil
	}

	line := sim.CallerLine(a.callerTurn)
	a.callerTurn++
	if err := a.session.Append("You", line); err != nil {
		return nil
	}

	a.replyPending = true
	seq := a.seq
	session := a.session
	responder := a.app.Responder()
	persona := catalog.Persona{Name: session.Partner()}
	if a.persona != nil {
		persona = *a.persona
	}
	delay := a.replyDelay()

	return func() tea.Msg {
		time.Sleep(delay)
		var transcript []string
		for _, l := range session.Transcript() {
			transcript = append(transcript, l.Speaker+": "+l.Text)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		text, err := responder.Respond(ctx, persona, transcript)
		return partnerReplyMsg{seq: seq, text: text, err: err}
	}
}

// endCall finishes the session, writes the transcript artifact and moves to
// the review screen with the synthesized recording.
func (a *ActiveCallScreen) endCall() tea.Cmd {
	rec, err := a.session.End()
	if err != nil {
		return func() tea.Msg { return ErrorMsg{Err: err} }
	}
	if rec == nil {
		// Already ended elsewhere; just leave.
		return func() tea.Msg { return NavigateBackMsg{} }
	}

	if logger, lerr := a.app.Logs().CallLogger(a.session.ID()); lerr == nil {
		logger.Info("session %s ended after %s with %d lines",
			a.session.ID(), rec.Duration, len(rec.Transcript))
	}
	var lines []string
	for _, l := range rec.Transcript {
		lines = append(lines, l.Speaker+": "+l.Text)
	}
	if werr := a.app.Logs().WriteTranscript(a.session.ID(), lines); werr != nil {
		a.app.Logs().System.Warn("transcript write failed: %v", werr)
	}

	data := reviewData{AgentID: a.setup.AgentID, Recording: rec, Setup: a.setup}
	return func() tea.Msg {
		return NavigateMsg{Screen: ScreenReview, Data: data}
	}
}

func muteNotice(what string, muted bool) tea.Cmd {
	state := "unmuted"
	if muted {
		state = "muted"
	}
	return func() tea.Msg { return StatusMsg(fmt.Sprintf("%s %s", what, state)) }
}

// View renders the live call.
func (a *ActiveCallScreen) View(width, height int) string {
	if a.session == nil {
		return a.styles.ListItem.Render("No active session.")
	}

	status := a.session.Status()

	var badge string
	switch status {
	case call.StatusActive:
		badge = a.styles.BadgeLive.Render("LIVE")
	case call.StatusEnded:
		badge = a.styles.BadgePaused.Render("ENDED")
	default:
		badge = a.styles.BadgeDraft.Render("CONNECTING")
	}

	header := a.styles.Header.Width(width).Render(
		fmt.Sprintf("%s  %s  %s", a.session.Partner(), badge,
			call.FormatDuration(a.session.Seconds())))

	if status == call.StatusConnecting {
		body := fmt.Sprintf("%s Connecting to %s...", a.spin.View(), a.session.Partner())
		footer := lipgloss.NewStyle().
			Foreground(theme.ColorTextSecondary).
			Render("esc abort")
		return lipgloss.JoinVertical(lipgloss.Left, header, "",
			a.styles.ListItem.Render(body), "", footer)
	}

	var mutes []string
	if a.session.MicMuted() {
		mutes = append(mutes, a.styles.BadgePaused.Render("MIC MUTED"))
	}
	if a.session.AudioMuted() {
		mutes = append(mutes, a.styles.BadgePaused.Render("AUDIO MUTED"))
	}
	muteLine := ""
	if len(mutes) > 0 {
		muteLine = lipgloss.JoinHorizontal(lipgloss.Top, mutes...)
	}

	transcript := a.renderTranscript(width, height-8)

	waiting := ""
	if a.replyPending {
		waiting = lipgloss.NewStyle().
			Foreground(theme.ColorTextSecondary).
			Italic(true).
			Render(a.session.Partner() + " is replying...")
	}

	footer := lipgloss.NewStyle().
		Foreground(theme.ColorTextSecondary).
		Render("s speak · m mic · o audio · e end call · esc abort")

	sections := []string{header}
	if muteLine != "" {
		sections = append(sections, muteLine)
	}
	sections = append(sections, "", transcript)
	if waiting != "" {
		sections = append(sections, waiting)
	}
	sections = append(sections, "", footer)
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderTranscript shows the most recent lines that fit.
func (a *ActiveCallScreen) renderTranscript(width, maxLines int) string {
	lines := a.session.Transcript()
	if maxLines < 3 {
		maxLines = 3
	}
	if len(lines) > maxLines {
		lines = lines[len(lines)-maxLines:]
	}

	var rows []string
	for _, l := range lines {
		rows = append(rows, a.renderLine(l, width))
	}
	if len(rows) == 0 {
		rows = append(rows, a.styles.TranscriptSystem.Render("(no transcript yet)"))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (a *ActiveCallScreen) renderLine(l call.Line, width int) string {
	var style lipgloss.Style
	switch l.Speaker {
	case "You":
		style = a.styles.TranscriptYou
	case "system":
		style = a.styles.TranscriptSystem
	default:
		style = a.styles.TranscriptPartner
	}
	text := fmt.Sprintf("%s: %s", l.Speaker, l.Text)
	return style.Render(truncate(text, max(20, width-4)))
}

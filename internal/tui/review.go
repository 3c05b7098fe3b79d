package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"agentdesk/internal/app"
	"agentdesk/internal/call"
	"agentdesk/internal/db"
	"agentdesk/internal/theme"
	"agentdesk/internal/training"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Review action buttons, in tab order.
const (
	reviewSaveTrain = iota
	reviewSave
	reviewRetake
	reviewDiscard
	reviewActionCount
)

// playTickMsg advances the simulated playback head. Seq-guarded like the
// call timers so pausing and replaying never double-advances.
type playTickMsg struct{ seq int }

// recordingSavedMsg reports a persisted recording.
type recordingSavedMsg struct{ trained bool }

// ReviewScreen shows the finished session's recording with simulated
// playback and decides its fate: train on it, keep it, redo it, or drop it.
type ReviewScreen struct {
	app    *app.App
	styles theme.Styles

	data      reviewData
	totalSecs int

	playing bool
	playPos int
	playSeq int

	action int
	saving bool
}

// NewReviewScreen creates the review screen.
func NewReviewScreen(a *app.App, styles theme.Styles) ReviewScreen {
	return ReviewScreen{app: a, styles: styles}
}

// SetRecording loads the recording under review.
func (r *ReviewScreen) SetRecording(data reviewData) {
	r.data = data
	r.playing = false
	r.playPos = 0
	r.playSeq++
	r.action = reviewSaveTrain
	r.saving = false

	r.totalSecs = 0
	if data.Recording != nil {
		if secs, err := training.ParseDuration(data.Recording.Duration); err == nil {
			r.totalSecs = secs
		}
	}
}

// Update handles messages for the review screen.
func (r *ReviewScreen) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case playTickMsg:
		if msg.seq != r.playSeq || !r.playing {
			return nil
		}
		r.playPos++
		if r.playPos >= r.totalSecs {
			r.playPos = r.totalSecs
			r.playing = false
			return nil
		}
		seq := r.playSeq
		return tea.Tick(time.Second, func(time.Time) tea.Msg {
			return playTickMsg{seq: seq}
		})

	case recordingSavedMsg:
		r.saving = false
		note := "Recording saved"
		if msg.trained {
			note = "Recording saved and added to training"
		}
		agentID := r.data.AgentID
		return tea.Batch(
			func() tea.Msg { return StatusMsg(note) },
			func() tea.Msg { return NavigateMsg{Screen: ScreenAgentDetail, Data: agentID} },
		)

	case ErrorMsg:
		r.saving = false
		return nil

	case tea.KeyMsg:
		return r.handleKey(msg)
	}
	return nil
}

func (r *ReviewScreen) handleKey(msg tea.KeyMsg) tea.Cmd {
	if r.data.Recording == nil {
		if msg.String() == "esc" {
			return func() tea.Msg { return NavigateBackMsg{} }
		}
		return nil
	}
	if r.saving {
		return nil
	}

	switch msg.String() {
	case "esc":
		// Leaving without choosing keeps nothing.
		return r.discard()

	case " ":
		return r.togglePlay()

	case "left", "h", "shift+tab":
		r.action = (r.action + reviewActionCount - 1) % reviewActionCount
		return nil

	case "right", "l", "tab":
		r.action = (r.action + 1) % reviewActionCount
		return nil

	case "y":
		return r.copyTranscript()

	case "enter":
		switch r.action {
		case reviewSaveTrain:
			return r.save(true)
		case reviewSave:
			return r.save(false)
		case reviewRetake:
			return r.retake()
		default:
			return r.discard()
		}
	}
	return nil
}

// togglePlay starts or pauses the simulated playback.
func (r *ReviewScreen) togglePlay() tea.Cmd {
	if r.totalSecs == 0 {
		return nil
	}
	if r.playing {
		r.playing = false
		r.playSeq++
		return nil
	}
	if r.playPos >= r.totalSecs {
		r.playPos = 0
	}
	r.playing = true
	r.playSeq++
	seq := r.playSeq
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return playTickMsg{seq: seq}
	})
}

// save persists the recording, optionally flagged for training.
func (r *ReviewScreen) save(train bool) tea.Cmd {
	r.saving = true
	rec := r.data.Recording

	var transcript []string
	for _, l := range rec.Transcript {
		transcript = append(transcript, l.Speaker+": "+l.Text)
	}

	record := db.Recording{
		ID:         rec.ID,
		AgentID:    r.data.AgentID,
		Title:      rec.Title,
		Duration:   rec.Duration,
		Kind:       string(rec.Kind),
		Transcript: transcript,
		Training:   train,
	}

	store := r.app.DB()
	return func() tea.Msg {
		if _, err := store.InsertRecording(context.Background(), record); err != nil {
			return ErrorMsg{Err: err}
		}
		return recordingSavedMsg{trained: train}
	}
}

// retake drops the recording and restarts a session with the same setup.
// The recording is cleared here so no path back to this screen can save it.
func (r *ReviewScreen) retake() tea.Cmd {
	setup := r.data.Setup
	r.data.Recording = nil
	return func() tea.Msg {
		return NavigateMsg{Screen: ScreenActiveCall, Data: setup}
	}
}

// discard drops the recording and returns to the agent.
func (r *ReviewScreen) discard() tea.Cmd {
	agentID := r.data.AgentID
	return tea.Batch(
		func() tea.Msg { return StatusMsg("Recording discarded") },
		func() tea.Msg { return NavigateMsg{Screen: ScreenAgentDetail, Data: agentID} },
	)
}

// copyTranscript puts the plain-text transcript on the system clipboard.
func (r *ReviewScreen) copyTranscript() tea.Cmd {
	var b strings.Builder
	for _, l := range r.data.Recording.Transcript {
		fmt.Fprintf(&b, "%s: %s\n", l.Speaker, l.Text)
	}
	text := b.String()
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			return ErrorMsg{Err: fmt.Errorf("copy transcript: %w", err)}
		}
		return StatusMsg("Transcript copied to clipboard")
	}
}

// View renders the review screen.
func (r *ReviewScreen) View(width, height int) string {
	rec := r.data.Recording
	if rec == nil {
		return r.styles.ListItem.Render("Nothing to review.")
	}

	header := r.styles.Header.Width(width).Render("Review — " + rec.Title)

	playhead := r.renderPlayhead(width - 6)

	transcript := r.renderTranscript(rec, width, height-14)

	buttons := r.renderButtons()

	footer := lipgloss.NewStyle().
		Foreground(theme.ColorTextSecondary).
		Render("space play/pause · ◂ ▸ choose action · enter confirm · y copy transcript")

	note := ""
	if r.saving {
		note = lipgloss.NewStyle().Foreground(theme.ColorWarning).Render("Saving...")
	}

	sections := []string{header, "", playhead, "", transcript, "", buttons}
	if note != "" {
		sections = append(sections, note)
	}
	sections = append(sections, "", footer)
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderPlayhead draws the simulated playback bar.
func (r *ReviewScreen) renderPlayhead(width int) string {
	if width < 20 {
		width = 20
	}
	barWidth := width - 16

	filled := 0
	if r.totalSecs > 0 {
		filled = r.playPos * barWidth / r.totalSecs
	}
	if filled > barWidth {
		filled = barWidth
	}

	bar := lipgloss.NewStyle().Foreground(theme.ColorPrimary).
		Render(strings.Repeat("━", filled)) +
		lipgloss.NewStyle().Foreground(theme.ColorBorderSoft).
			Render(strings.Repeat("─", barWidth-filled))

	icon := "▶"
	if r.playing {
		icon = "⏸"
	}

	return fmt.Sprintf(" %s %s %s / %s", icon, bar,
		call.FormatDuration(r.playPos), r.data.Recording.Duration)
}

func (r *ReviewScreen) renderTranscript(rec *call.Recording, width, maxLines int) string {
	if maxLines < 3 {
		maxLines = 3
	}
	lines := rec.Transcript
	if len(lines) > maxLines {
		lines = lines[:maxLines]
	}

	var rows []string
	for _, l := range lines {
		style := r.styles.TranscriptPartner
		switch l.Speaker {
		case "You":
			style = r.styles.TranscriptYou
		case "system":
			style = r.styles.TranscriptSystem
		}
		rows = append(rows, style.Render(truncate(l.Speaker+": "+l.Text, max(20, width-4))))
	}
	if len(rec.Transcript) > maxLines {
		rows = append(rows, r.styles.TranscriptSystem.Render(
			fmt.Sprintf("... %d more lines", len(rec.Transcript)-maxLines)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (r *ReviewScreen) renderButtons() string {
	labels := [reviewActionCount]string{"Save & train", "Save", "Retake", "Discard"}

	var buttons []string
	for i, label := range labels {
		style := r.styles.Button
		if i == r.action {
			style = r.styles.ButtonFocused
			if i == reviewDiscard {
				style = r.styles.ButtonDanger
			}
		}
		buttons = append(buttons, style.Render(label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, buttons...)
}

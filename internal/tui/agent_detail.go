package tui

import (
	"context"
	"fmt"

	"agentdesk/internal/app"
	"agentdesk/internal/db"
	"agentdesk/internal/theme"
	"agentdesk/internal/training"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

// wizardCard is one entry in the agent setup checklist.
type wizardCard struct {
	title  string
	phase  string
	detail string
	target Screen
}

// AgentDetailScreen shows one agent: status, setup wizard cards and the
// recording list, with shortcuts into settings, channels and analytics.
type AgentDetailScreen struct {
	app    *app.App
	styles theme.Styles

	agentID    string
	agent      *db.Agent
	channels   []db.ChannelConfig
	recordings []db.Recording
	cards      []wizardCard
	cursor     int
	loading    bool
}

// NewAgentDetailScreen creates the agent detail screen.
func NewAgentDetailScreen(a *app.App, styles theme.Styles) AgentDetailScreen {
	return AgentDetailScreen{app: a, styles: styles}
}

// SetAgentID points the screen at an agent and triggers a load.
func (s *AgentDetailScreen) SetAgentID(id string) tea.Cmd {
	s.agentID = id
	s.cursor = 0
	return s.Reload()
}

// Reload refreshes the current agent from the store.
func (s *AgentDetailScreen) Reload() tea.Cmd {
	if s.agentID == "" {
		return nil
	}
	s.loading = true
	store := s.app.DB()
	id := s.agentID
	return func() tea.Msg {
		ctx := context.Background()
		agent, err := store.GetAgent(ctx, id)
		if err != nil {
			return ErrorMsg{Err: err}
		}
		channels, err := store.ListChannels(ctx, id)
		if err != nil {
			return ErrorMsg{Err: err}
		}
		recordings, err := store.ListRecordings(ctx, id)
		if err != nil {
			return ErrorMsg{Err: err}
		}
		return AgentLoadedMsg{Agent: agent, Channels: channels, Recordings: recordings}
	}
}

// Update handles messages for the agent detail screen.
func (s *AgentDetailScreen) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case AgentLoadedMsg:
		s.loading = false
		s.agent = msg.Agent
		s.channels = msg.Channels
		s.recordings = msg.Recordings
		s.rebuildCards()
		return nil

	case AgentSavedMsg:
		s.agent = msg.Agent
		s.rebuildCards()
		return nil

	case tea.KeyMsg:
		if s.agent == nil {
			if msg.String() == "esc" {
				return func() tea.Msg { return NavigateBackMsg{} }
			}
			return nil
		}

		switch msg.String() {
		case "esc":
			return func() tea.Msg { return NavigateBackMsg{} }
		case "up", "k":
			if s.cursor > 0 {
				s.cursor--
			}
		case "down", "j":
			if s.cursor < len(s.cards)-1 {
				s.cursor++
			}
		case "enter":
			if s.cursor < len(s.cards) {
				target := s.cards[s.cursor].target
				id := s.agentID
				return func() tea.Msg {
					return NavigateMsg{Screen: target, Data: id}
				}
			}
		case "s":
			id := s.agentID
			return func() tea.Msg { return NavigateMsg{Screen: ScreenSettings, Data: id} }
		case "c":
			id := s.agentID
			return func() tea.Msg { return NavigateMsg{Screen: ScreenChannels, Data: id} }
		case "a":
			id := s.agentID
			return func() tea.Msg { return NavigateMsg{Screen: ScreenAnalytics, Data: id} }
		case "p":
			id := s.agentID
			return func() tea.Msg { return NavigateMsg{Screen: ScreenRoleplayMode, Data: id} }
		case "t":
			return s.cycleStatus()
		case "r":
			return s.Reload()
		}
	}
	return nil
}

// cycleStatus advances draft -> active -> paused -> draft and persists.
func (s *AgentDetailScreen) cycleStatus() tea.Cmd {
	if s.agent == nil {
		return nil
	}
	next := db.AgentStatusDraft
	switch s.agent.Status {
	case db.AgentStatusDraft:
		next = db.AgentStatusActive
	case db.AgentStatusActive:
		next = db.AgentStatusPaused
	}

	updated := *s.agent
	updated.Status = next
	store := s.app.DB()
	return func() tea.Msg {
		saved, err := store.UpdateAgent(context.Background(), updated)
		if err != nil {
			return ErrorMsg{Err: err}
		}
		return AgentSavedMsg{Agent: saved}
	}
}

// rebuildCards recomputes wizard card phases from the loaded data.
func (s *AgentDetailScreen) rebuildCards() {
	if s.agent == nil {
		s.cards = nil
		return
	}

	trainingCard := s.trainingCard()

	profilePhase := training.PhaseNotStarted
	if s.agent.Name != "" && s.agent.Industry != "" && s.agent.Function != "" {
		profilePhase = training.PhaseCompleted
	} else if s.agent.Name != "" {
		profilePhase = training.PhaseInProgress
	}

	promptPhase := training.PhaseNotStarted
	if s.agent.SystemPrompt != "" {
		promptPhase = training.PhaseCompleted
	}

	voicePhase := training.PhaseNotStarted
	if s.agent.VoiceProvider != "" && s.agent.VoiceName != "" {
		voicePhase = training.PhaseCompleted
	} else if s.agent.VoiceProvider != "" {
		voicePhase = training.PhaseInProgress
	}

	enabled := 0
	for _, cc := range s.channels {
		if cc.Enabled {
			enabled++
		}
	}
	channelPhase := training.PhaseNotStarted
	if enabled > 0 {
		channelPhase = training.PhaseCompleted
	}

	roleplays := 0
	for _, r := range s.recordings {
		if r.Kind == db.RecordingKindRoleplay {
			roleplays++
		}
	}
	personaPhase := training.PhaseNotStarted
	if roleplays > 0 {
		personaPhase = training.PhaseCompleted
	}

	workflowPhase := training.PhaseNotStarted
	if s.agent.Status != db.AgentStatusDraft {
		workflowPhase = training.PhaseCompleted
	} else if s.agent.Model != "" && s.agent.SystemPrompt != "" {
		workflowPhase = training.PhaseInProgress
	}

	simPhase := training.PhaseNotStarted
	if len(s.recordings) > 0 {
		simPhase = training.PhaseCompleted
	}

	s.cards = []wizardCard{
		{
			title:  "Profile",
			phase:  profilePhase,
			detail: "Name, industry and function",
			target: ScreenSettings,
		},
		{
			title:  "Knowledge base",
			phase:  promptPhase,
			detail: "System prompt and behaviour",
			target: ScreenSettings,
		},
		{
			title:  "Voice",
			phase:  voicePhase,
			detail: voiceDetail(s.agent),
			target: ScreenSettings,
		},
		{
			title:  "Channels",
			phase:  channelPhase,
			detail: fmt.Sprintf("%d of %d enabled", enabled, len(db.Channels)),
			target: ScreenChannels,
		},
		{
			title:  "Personas",
			phase:  personaPhase,
			detail: personaCardDetail(roleplays),
			target: ScreenPersonas,
		},
		{
			title:  "Workflow",
			phase:  workflowPhase,
			detail: workflowDetail(s.agent),
			target: ScreenSettings,
		},
		trainingCard,
		{
			title:  "Simulation",
			phase:  simPhase,
			detail: fmt.Sprintf("%d recorded sessions", len(s.recordings)),
			target: ScreenRoleplayMode,
		},
	}
}

// personaCardDetail summarizes role-play activity for the personas card.
func personaCardDetail(roleplays int) string {
	if roleplays == 0 {
		return "No role-plays run yet"
	}
	if roleplays == 1 {
		return "1 role-play recorded"
	}
	return fmt.Sprintf("%d role-plays recorded", roleplays)
}

// workflowDetail summarizes activation readiness for the workflow card.
func workflowDetail(a *db.Agent) string {
	if a.Status != db.AgentStatusDraft {
		return "Agent is " + a.Status
	}
	if a.Model == "" || a.SystemPrompt == "" {
		return "Pick a model and prompt, then activate"
	}
	return "Ready to activate (press t)"
}

// trainingCard aggregates training minutes over recordings flagged for
// training and derives the card phase from the configured target.
func (s *AgentDetailScreen) trainingCard() wizardCard {
	target := s.app.Config().Call.TargetTrainingMinutes
	if target <= 0 {
		target = training.DefaultTargetMinutes
	}

	var durations []string
	for _, r := range s.recordings {
		if r.Training {
			durations = append(durations, r.Duration)
		}
	}
	total, skipped := training.TotalMinutes(durations)
	phase := training.PhaseFor(total, len(durations), target)

	detail := fmt.Sprintf("%.1f of %.0f minutes recorded", total, target)
	if skipped > 0 {
		detail += fmt.Sprintf(" (%d unreadable)", skipped)
	}

	return wizardCard{
		title:  "Training",
		phase:  phase,
		detail: detail,
		target: ScreenRoleplayMode,
	}
}

// View renders the agent detail screen.
func (s *AgentDetailScreen) View(width, height int) string {
	if s.loading || s.agent == nil {
		return s.styles.ListItem.Render("Loading agent...")
	}

	badge := statusBadge(s.styles, s.agent.Status)
	header := s.styles.Header.Width(width).Render(
		fmt.Sprintf("%s  %s", s.agent.Name, badge))

	meta := lipgloss.NewStyle().Foreground(theme.ColorTextSecondary).Render(
		fmt.Sprintf("%s · %s · created %s",
			orDash(s.agent.Industry), orDash(s.agent.Model),
			humanize.Time(s.agent.CreatedAt)))

	var cards []string
	for i, c := range s.cards {
		cards = append(cards, s.renderCard(c, i == s.cursor, width))
	}

	recLine := lipgloss.NewStyle().Foreground(theme.ColorTextSecondary).Render(
		fmt.Sprintf("%d recordings", len(s.recordings)))
	if len(s.recordings) > 0 {
		latest := s.recordings[0]
		recLine += lipgloss.NewStyle().Foreground(theme.ColorTextSecondary).Render(
			fmt.Sprintf(" · latest %q %s", truncate(latest.Title, 28), humanize.Time(latest.CreatedAt)))
	}

	footer := lipgloss.NewStyle().
		Foreground(theme.ColorTextSecondary).
		Render("enter open card · s settings · c channels · a analytics · p role-play · t status · esc back")

	sections := []string{header, "", meta, ""}
	sections = append(sections, cards...)
	sections = append(sections, "", recLine, "", footer)
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (s *AgentDetailScreen) renderCard(c wizardCard, selected bool, width int) string {
	badge := s.phaseBadge(c.phase)
	line := fmt.Sprintf("%-18s %s  %s", c.title, badge,
		lipgloss.NewStyle().Foreground(theme.ColorTextSecondary).Render(c.detail))

	style := s.styles.Panel
	if selected {
		style = s.styles.PanelFocused
	}
	w := width - 4
	if w < 20 {
		w = 20
	}
	return style.Width(w).Render(line)
}

func (s *AgentDetailScreen) phaseBadge(phase string) string {
	switch phase {
	case training.PhaseCompleted:
		return s.styles.BadgeActive.Render("DONE")
	case training.PhaseInProgress:
		return s.styles.BadgeDraft.Render("IN PROGRESS")
	default:
		return s.styles.BadgePaused.Render("NOT STARTED")
	}
}

// statusBadge renders the shared agent status badge.
func statusBadge(styles theme.Styles, status string) string {
	switch status {
	case db.AgentStatusActive:
		return styles.BadgeActive.Render("ACTIVE")
	case db.AgentStatusPaused:
		return styles.BadgePaused.Render("PAUSED")
	default:
		return styles.BadgeDraft.Render("DRAFT")
	}
}

// voiceDetail summarizes the voice selection for the wizard card.
func voiceDetail(a *db.Agent) string {
	if a.VoiceProvider == "" {
		return "No voice selected"
	}
	if a.VoiceName == "" {
		return a.VoiceProvider + " (no voice picked)"
	}
	return fmt.Sprintf("%s / %s", a.VoiceProvider, a.VoiceName)
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}

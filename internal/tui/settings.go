package tui

import (
	"context"
	"fmt"
	"time"

	"agentdesk/internal/app"
	"agentdesk/internal/catalog"
	"agentdesk/internal/db"
	"agentdesk/internal/theme"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Form focus slots, in tab order.
const (
	fieldName = iota
	fieldDescription
	fieldIndustry
	fieldFunction
	fieldModel
	fieldProvider
	fieldVoice
	fieldPrompt
	fieldCount
)

// settingsLoadedMsg carries the agent being edited.
type settingsLoadedMsg struct{ agent *db.Agent }

// autosaveTickMsg fires when the autosave debounce window elapses. The seq
// guard discards ticks scheduled before the most recent edit.
type autosaveTickMsg struct{ seq int }

// SettingsScreen edits one agent's profile, model, voice and system prompt.
// Edits save automatically after a short idle period; the form never blocks
// on persistence and keeps the local values even when a save fails.
type SettingsScreen struct {
	app    *app.App
	styles theme.Styles

	agentID string
	agent   *db.Agent
	loading bool

	inputs [5]textinput.Model // name, description, industry, function, model
	prompt textarea.Model

	providers   []string
	providerIdx int
	voices      []catalog.Voice
	voiceIdx    int

	focus       int
	dirty       bool
	autosaveSeq int
	saving      bool
}

// NewSettingsScreen creates the settings screen.
func NewSettingsScreen(a *app.App, styles theme.Styles) SettingsScreen {
	s := SettingsScreen{
		app:       a,
		styles:    styles,
		providers: catalog.Providers(),
	}

	labels := [5]string{"Agent name", "Description", "Industry", "Function", "Model"}
	for i := range s.inputs {
		in := textinput.New()
		in.Placeholder = labels[i]
		in.CharLimit = 200
		in.Width = 48
		s.inputs[i] = in
	}

	prompt := textarea.New()
	prompt.Placeholder = "System prompt..."
	prompt.SetWidth(64)
	prompt.SetHeight(5)
	prompt.CharLimit = 4000
	s.prompt = prompt

	return s
}

// SetAgentID points the form at an agent and loads it.
func (s *SettingsScreen) SetAgentID(id string) tea.Cmd {
	s.agentID = id
	s.loading = true
	s.dirty = false
	s.saving = false
	s.focus = fieldName
	store := s.app.DB()
	return func() tea.Msg {
		agent, err := store.GetAgent(context.Background(), id)
		if err != nil {
			return ErrorMsg{Err: err}
		}
		return settingsLoadedMsg{agent: agent}
	}
}

// populate copies the loaded agent into the form widgets.
func (s *SettingsScreen) populate(a *db.Agent) {
	s.agent = a
	s.inputs[0].SetValue(a.Name)
	s.inputs[1].SetValue(a.Description)
	s.inputs[2].SetValue(a.Industry)
	s.inputs[3].SetValue(a.Function)
	s.inputs[4].SetValue(a.Model)
	s.prompt.SetValue(a.SystemPrompt)

	s.providerIdx = 0
	for i, p := range s.providers {
		if p == a.VoiceProvider {
			s.providerIdx = i
			break
		}
	}
	s.reloadVoices(a.VoiceName)
	s.applyFocus()
}

// reloadVoices refreshes the voice list for the selected provider, keeping
// the named voice selected when it still exists.
func (s *SettingsScreen) reloadVoices(keep string) {
	if len(s.providers) == 0 {
		s.voices = nil
		s.voiceIdx = 0
		return
	}
	s.voices = catalog.VoicesFor(s.providers[s.providerIdx])
	s.voiceIdx = 0
	for i, v := range s.voices {
		if v.Name == keep {
			s.voiceIdx = i
			break
		}
	}
}

// applyFocus focuses the widget under the cursor and blurs the rest.
func (s *SettingsScreen) applyFocus() {
	for i := range s.inputs {
		if s.focus == i {
			s.inputs[i].Focus()
		} else {
			s.inputs[i].Blur()
		}
	}
	if s.focus == fieldPrompt {
		s.prompt.Focus()
	} else {
		s.prompt.Blur()
	}
}

// markDirty records an edit and schedules a debounced autosave.
func (s *SettingsScreen) markDirty() tea.Cmd {
	s.dirty = true
	s.autosaveSeq++
	seq := s.autosaveSeq
	delay := time.Duration(s.app.Config().Call.AutosaveDelayMS) * time.Millisecond
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return autosaveTickMsg{seq: seq}
	})
}

// formAgent builds the agent record from the current form values.
func (s *SettingsScreen) formAgent() db.Agent {
	a := *s.agent
	a.Name = s.inputs[0].Value()
	a.Description = s.inputs[1].Value()
	a.Industry = s.inputs[2].Value()
	a.Function = s.inputs[3].Value()
	a.Model = s.inputs[4].Value()
	a.SystemPrompt = s.prompt.Value()
	if len(s.providers) > 0 {
		a.VoiceProvider = s.providers[s.providerIdx]
	}
	if s.voiceIdx < len(s.voices) {
		a.VoiceName = s.voices[s.voiceIdx].Name
	}
	return a
}

// save persists the form. The form stays editable and keeps its values
// regardless of the outcome; a failure only surfaces in the status bar.
func (s *SettingsScreen) save() tea.Cmd {
	if s.agent == nil {
		return nil
	}
	s.dirty = false
	s.saving = true
	record := s.formAgent()
	store := s.app.DB()
	return func() tea.Msg {
		saved, err := store.UpdateAgent(context.Background(), record)
		if err != nil {
			return ErrorMsg{Err: err}
		}
		return AgentSavedMsg{Agent: saved}
	}
}

// Update handles messages for the settings screen.
func (s *SettingsScreen) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case settingsLoadedMsg:
		s.loading = false
		s.populate(msg.agent)
		return nil

	case autosaveTickMsg:
		if msg.seq != s.autosaveSeq || !s.dirty {
			return nil
		}
		return s.save()

	case AgentSavedMsg:
		s.saving = false
		s.agent = msg.Agent
		return func() tea.Msg { return StatusMsg("Saved") }

	case ErrorMsg:
		s.saving = false
		return nil

	case tea.KeyMsg:
		if s.agent == nil {
			if msg.String() == "esc" {
				return func() tea.Msg { return NavigateBackMsg{} }
			}
			return nil
		}
		return s.handleKey(msg)
	}
	return nil
}

func (s *SettingsScreen) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		// Flush any pending edit before leaving.
		var cmds []tea.Cmd
		if s.dirty {
			cmds = append(cmds, s.save())
		}
		cmds = append(cmds, func() tea.Msg { return NavigateBackMsg{} })
		return tea.Batch(cmds...)

	case "tab":
		s.focus = (s.focus + 1) % fieldCount
		s.applyFocus()
		return nil

	case "shift+tab":
		s.focus = (s.focus + fieldCount - 1) % fieldCount
		s.applyFocus()
		return nil
	}

	switch s.focus {
	case fieldProvider:
		switch msg.String() {
		case "left", "h":
			if s.providerIdx > 0 {
				s.providerIdx--
				s.reloadVoices("")
				return s.markDirty()
			}
		case "right", "l", "enter":
			if s.providerIdx < len(s.providers)-1 {
				s.providerIdx++
				s.reloadVoices("")
				return s.markDirty()
			}
		}
		return nil

	case fieldVoice:
		switch msg.String() {
		case "left", "h", "up", "k":
			if s.voiceIdx > 0 {
				s.voiceIdx--
				return s.markDirty()
			}
		case "right", "l", "down", "j", "enter":
			if s.voiceIdx < len(s.voices)-1 {
				s.voiceIdx++
				return s.markDirty()
			}
		}
		return nil

	case fieldPrompt:
		before := s.prompt.Value()
		var cmd tea.Cmd
		s.prompt, cmd = s.prompt.Update(msg)
		if s.prompt.Value() != before {
			return tea.Batch(cmd, s.markDirty())
		}
		return cmd

	default:
		before := s.inputs[s.focus].Value()
		var cmd tea.Cmd
		s.inputs[s.focus], cmd = s.inputs[s.focus].Update(msg)
		if s.inputs[s.focus].Value() != before {
			return tea.Batch(cmd, s.markDirty())
		}
		return cmd
	}
}

// View renders the settings form.
func (s *SettingsScreen) View(width, height int) string {
	if s.loading || s.agent == nil {
		return s.styles.ListItem.Render("Loading settings...")
	}

	header := s.styles.Header.Width(width).Render("Settings — " + s.agent.Name)

	labels := [5]string{"Name", "Description", "Industry", "Function", "Model"}
	var rows []string
	for i := range s.inputs {
		rows = append(rows, s.renderField(labels[i], s.inputs[i].View(), s.focus == i))
	}

	provider := "—"
	if len(s.providers) > 0 {
		provider = s.providers[s.providerIdx]
	}
	rows = append(rows, s.renderField("Voice provider", "◂ "+provider+" ▸", s.focus == fieldProvider))

	voice := "—"
	preview := ""
	if s.voiceIdx < len(s.voices) {
		v := s.voices[s.voiceIdx]
		voice = fmt.Sprintf("◂ %s (%s, %s) ▸", v.Name, v.Gender, v.Tone)
		preview = v.Preview
	}
	rows = append(rows, s.renderField("Voice", voice, s.focus == fieldVoice))
	if preview != "" {
		rows = append(rows, lipgloss.NewStyle().
			Foreground(theme.ColorTextSecondary).
			Italic(true).
			PaddingLeft(18).
			Render("“"+preview+"”"))
	}

	rows = append(rows, s.renderField("System prompt", s.prompt.View(), s.focus == fieldPrompt))

	saveNote := ""
	switch {
	case s.saving:
		saveNote = lipgloss.NewStyle().Foreground(theme.ColorWarning).Render("Saving...")
	case s.dirty:
		saveNote = lipgloss.NewStyle().Foreground(theme.ColorTextSecondary).Render("Unsaved changes")
	default:
		saveNote = lipgloss.NewStyle().Foreground(theme.ColorSuccess).Render("All changes saved")
	}

	footer := lipgloss.NewStyle().
		Foreground(theme.ColorTextSecondary).
		Render("tab next field · ◂ ▸ change selection · esc back")

	sections := []string{header, ""}
	sections = append(sections, rows...)
	sections = append(sections, "", saveNote, footer)
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (s *SettingsScreen) renderField(label, value string, focused bool) string {
	l := s.styles.FieldLabel.Width(16).Render(label)
	if focused {
		l = s.styles.FieldLabel.Width(16).Foreground(theme.ColorPrimary).Render(label)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, l, "  ", value)
}

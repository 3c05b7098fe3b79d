package tui

import (
	"context"
	"fmt"

	"agentdesk/internal/app"
	"agentdesk/internal/audio"
	"agentdesk/internal/call"
	"agentdesk/internal/catalog"
	"agentdesk/internal/theme"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Setup focus slots, in tab order.
const (
	setupNumber = iota
	setupMic
	setupSpeaker
	setupStart
	setupCount
)

// CallSetupScreen gathers everything needed before a session starts: the
// dialed number (direct calls only), and microphone/speaker selection.
// Device enumeration failure degrades to empty pickers.
type CallSetupScreen struct {
	app    *app.App
	styles theme.Styles

	agentID string
	persona *catalog.Persona

	number    textinput.Model
	numberErr string

	mics        []audio.Device
	speakers    []audio.Device
	micIdx      int
	speakerIdx  int
	enumerating bool
	deviceNote  string

	focus int
}

// NewCallSetupScreen creates the call setup screen.
func NewCallSetupScreen(a *app.App, styles theme.Styles) CallSetupScreen {
	number := textinput.New()
	number.Placeholder = "+14155550123"
	number.CharLimit = 20
	number.Width = 24

	return CallSetupScreen{app: a, styles: styles, number: number}
}

// Set points the screen at an agent and, for role-plays, a persona, then
// kicks off device enumeration.
func (c *CallSetupScreen) Set(agentID, personaID string) tea.Cmd {
	c.agentID = agentID
	c.persona = nil
	if personaID != "" {
		if p, ok := catalog.PersonaByID(personaID); ok {
			c.persona = &p
		}
	}

	c.number.SetValue("")
	c.numberErr = ""
	c.deviceNote = ""
	c.micIdx = 0
	c.speakerIdx = 0

	if c.persona != nil {
		c.focus = setupMic
		c.number.Blur()
	} else {
		c.focus = setupNumber
		c.number.Focus()
	}

	return c.enumerate()
}

// enumerate re-runs device discovery.
func (c *CallSetupScreen) enumerate() tea.Cmd {
	c.enumerating = true
	source := c.app.Devices()
	return func() tea.Msg {
		devices, err := source.Devices(context.Background())
		return DevicesLoadedMsg{Devices: devices, Err: err}
	}
}

// Update handles messages for the call setup screen.
func (c *CallSetupScreen) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case DevicesLoadedMsg:
		c.enumerating = false
		c.mics = audio.Inputs(msg.Devices)
		c.speakers = audio.Outputs(msg.Devices)
		if c.micIdx >= len(c.mics) {
			c.micIdx = 0
		}
		if c.speakerIdx >= len(c.speakers) {
			c.speakerIdx = 0
		}
		if msg.Err != nil {
			// The call can still start; audio selection is cosmetic here.
			c.deviceNote = fmt.Sprintf("Device enumeration failed: %v", msg.Err)
		} else {
			c.deviceNote = ""
		}
		return nil

	case tea.KeyMsg:
		return c.handleKey(msg)
	}
	return nil
}

func (c *CallSetupScreen) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		return func() tea.Msg { return NavigateBackMsg{} }
	case "tab":
		c.moveFocus(1)
		return nil
	case "shift+tab":
		c.moveFocus(-1)
		return nil
	case "ctrl+r":
		return c.enumerate()
	}

	switch c.focus {
	case setupNumber:
		switch msg.String() {
		case "enter":
			return c.start()
		default:
			var cmd tea.Cmd
			before := c.number.Value()
			c.number, cmd = c.number.Update(msg)
			if c.number.Value() != before {
				// Any edit clears the previous validation error.
				c.numberErr = ""
			}
			return cmd
		}

	case setupMic:
		switch msg.String() {
		case "left", "h", "up", "k":
			if c.micIdx > 0 {
				c.micIdx--
			}
		case "right", "l", "down", "j":
			if c.micIdx < len(c.mics)-1 {
				c.micIdx++
			}
		case "enter":
			return c.start()
		}

	case setupSpeaker:
		switch msg.String() {
		case "left", "h", "up", "k":
			if c.speakerIdx > 0 {
				c.speakerIdx--
			}
		case "right", "l", "down", "j":
			if c.speakerIdx < len(c.speakers)-1 {
				c.speakerIdx++
			}
		case "enter":
			return c.start()
		}

	case setupStart:
		if msg.String() == "enter" {
			return c.start()
		}
	}
	return nil
}

func (c *CallSetupScreen) moveFocus(delta int) {
	for {
		c.focus = (c.focus + delta + setupCount) % setupCount
		// Role-plays have no number field.
		if c.focus == setupNumber && c.persona != nil {
			continue
		}
		break
	}
	if c.focus == setupNumber {
		c.number.Focus()
	} else {
		c.number.Blur()
	}
}

// start validates and hands off to the active-call screen.
func (c *CallSetupScreen) start() tea.Cmd {
	data := callStartData{AgentID: c.agentID}

	if c.persona != nil {
		data.PersonaID = c.persona.ID
	} else {
		number := c.number.Value()
		if !call.ValidNumber(number) {
			c.numberErr = "Enter a number in E.164 form, e.g. +14155550123"
			return nil
		}
		data.Number = number
	}

	if c.micIdx < len(c.mics) {
		data.MicID = c.mics[c.micIdx].ID
	}
	if c.speakerIdx < len(c.speakers) {
		data.SpeakerID = c.speakers[c.speakerIdx].ID
	}

	return func() tea.Msg {
		return NavigateMsg{Screen: ScreenActiveCall, Data: data}
	}
}

// View renders the setup form.
func (c *CallSetupScreen) View(width, height int) string {
	title := "Call setup"
	if c.persona != nil {
		title = "Role-play setup — " + c.persona.Name
	}
	header := c.styles.Header.Width(width).Render(title)

	var rows []string

	if c.persona != nil {
		rows = append(rows, lipgloss.NewStyle().
			Foreground(theme.ColorTextSecondary).
			Render(c.persona.Scenario))
		rows = append(rows, "")
	} else {
		rows = append(rows, c.renderRow("Number", c.number.View(), c.focus == setupNumber))
		if c.numberErr != "" {
			rows = append(rows, c.styles.FieldError.PaddingLeft(18).Render(c.numberErr))
		}
	}

	rows = append(rows, c.renderRow("Microphone",
		devicePick(c.mics, c.micIdx, c.enumerating), c.focus == setupMic))
	rows = append(rows, c.renderRow("Speaker",
		devicePick(c.speakers, c.speakerIdx, c.enumerating), c.focus == setupSpeaker))

	if c.deviceNote != "" {
		rows = append(rows, lipgloss.NewStyle().
			Foreground(theme.ColorWarning).
			Render(c.deviceNote))
	}

	startStyle := c.styles.Button
	if c.focus == setupStart {
		startStyle = c.styles.ButtonFocused
	}
	rows = append(rows, "", startStyle.Render("Start call"))

	footer := lipgloss.NewStyle().
		Foreground(theme.ColorTextSecondary).
		Render("tab next · ◂ ▸ change device · ctrl+r re-scan devices · enter start · esc back")

	sections := []string{header, ""}
	sections = append(sections, rows...)
	sections = append(sections, "", footer)
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (c *CallSetupScreen) renderRow(label, value string, focused bool) string {
	l := c.styles.FieldLabel.Width(16).Render(label)
	if focused {
		l = c.styles.FieldLabel.Width(16).Foreground(theme.ColorPrimary).Render(label)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, l, "  ", value)
}

// devicePick renders the current selection of a device picker.
func devicePick(devices []audio.Device, idx int, enumerating bool) string {
	if enumerating {
		return "scanning..."
	}
	if len(devices) == 0 {
		return "no devices found"
	}
	if idx >= len(devices) {
		idx = 0
	}
	return fmt.Sprintf("◂ %s ▸ (%d of %d)", devices[idx].Name, idx+1, len(devices))
}

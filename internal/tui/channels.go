package tui

import (
	"context"
	"fmt"
	"strings"

	"agentdesk/internal/app"
	"agentdesk/internal/catalog"
	"agentdesk/internal/db"
	"agentdesk/internal/theme"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// channelsLoadedMsg carries the channel configs for the current agent.
type channelsLoadedMsg struct{ channels []db.ChannelConfig }

// channelSavedMsg reports one persisted channel config.
type channelSavedMsg struct{ channel string }

// channelsMode selects which pane of the channels screen has control.
type channelsMode int

const (
	channelsList channelsMode = iota
	channelsEdit   // free-form details for non-voice channels
	channelsPicker // number picker for the voice channel
)

// ChannelsScreen manages the per-channel enable flags and details. The voice
// channel gets a searchable number picker; picks are staged and only persist
// on save.
type ChannelsScreen struct {
	app    *app.App
	styles theme.Styles

	agentID  string
	channels []db.ChannelConfig
	cursor   int
	loading  bool
	mode     channelsMode

	details textinput.Model

	picker       textinput.Model
	filter       catalog.NumberFilter
	options      []catalog.NumberOption
	pickerCursor int
	staged       string // picked number, not yet saved
}

// NewChannelsScreen creates the channels screen.
func NewChannelsScreen(a *app.App, styles theme.Styles) ChannelsScreen {
	details := textinput.New()
	details.Placeholder = "Channel details..."
	details.CharLimit = 200
	details.Width = 48

	picker := textinput.New()
	picker.Placeholder = "Search numbers..."
	picker.Prompt = "/ "
	picker.CharLimit = 32

	return ChannelsScreen{
		app:     a,
		styles:  styles,
		details: details,
		picker:  picker,
	}
}

// SetAgentID points the screen at an agent and loads its channels.
func (c *ChannelsScreen) SetAgentID(id string) tea.Cmd {
	c.agentID = id
	c.cursor = 0
	c.mode = channelsList
	c.loading = true
	return c.reload()
}

// reload refreshes the channel list without disturbing the cursor, so a
// toggle does not jump the selection.
func (c *ChannelsScreen) reload() tea.Cmd {
	store := c.app.DB()
	id := c.agentID
	return func() tea.Msg {
		channels, err := store.ListChannels(context.Background(), id)
		if err != nil {
			return ErrorMsg{Err: err}
		}
		return channelsLoadedMsg{channels: channels}
	}
}

// put persists one channel config.
func (c *ChannelsScreen) put(cc db.ChannelConfig) tea.Cmd {
	store := c.app.DB()
	return func() tea.Msg {
		if err := store.PutChannel(context.Background(), cc); err != nil {
			return ErrorMsg{Err: err}
		}
		return channelSavedMsg{channel: cc.Channel}
	}
}

// Update handles messages for the channels screen.
func (c *ChannelsScreen) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case channelsLoadedMsg:
		c.loading = false
		c.channels = msg.channels
		if c.cursor >= len(c.channels) {
			c.cursor = 0
		}
		return nil

	case channelSavedMsg:
		return tea.Batch(
			c.reload(),
			func() tea.Msg { return StatusMsg(fmt.Sprintf("Channel %s saved", msg.channel)) },
		)

	case tea.KeyMsg:
		switch c.mode {
		case channelsEdit:
			return c.updateEdit(msg)
		case channelsPicker:
			return c.updatePicker(msg)
		default:
			return c.updateList(msg)
		}
	}
	return nil
}

func (c *ChannelsScreen) updateList(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		return func() tea.Msg { return NavigateBackMsg{} }
	case "up", "k":
		if c.cursor > 0 {
			c.cursor--
		}
	case "down", "j":
		if c.cursor < len(c.channels)-1 {
			c.cursor++
		}
	case " ":
		// Toggling flips enabled only; details survive the round trip.
		if c.cursor < len(c.channels) {
			cc := c.channels[c.cursor]
			cc.Enabled = !cc.Enabled
			return c.put(cc)
		}
	case "enter":
		if c.cursor >= len(c.channels) {
			return nil
		}
		cc := c.channels[c.cursor]
		if cc.Channel == db.ChannelVoice {
			c.mode = channelsPicker
			c.staged = cc.Details
			if c.staged == "" {
				// A pick saved in an earlier run preseeds the dialog.
				c.staged = c.app.State().SelectedItems[stagedNumberKey(c.agentID)]
			}
			c.filter = catalog.NumberFilter{}
			c.picker.SetValue("")
			c.picker.Focus()
			c.refreshOptions()
			return textinput.Blink
		}
		c.mode = channelsEdit
		c.details.SetValue(cc.Details)
		c.details.Focus()
		return textinput.Blink
	case "r":
		return c.reload()
	}
	return nil
}

func (c *ChannelsScreen) updateEdit(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		c.mode = channelsList
		c.details.Blur()
		return nil
	case "enter":
		c.mode = channelsList
		c.details.Blur()
		cc := c.channels[c.cursor]
		cc.Details = c.details.Value()
		return c.put(cc)
	default:
		var cmd tea.Cmd
		c.details, cmd = c.details.Update(msg)
		return cmd
	}
}

func (c *ChannelsScreen) updatePicker(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		// Abandon the staged pick; the stored number is untouched.
		c.mode = channelsList
		c.picker.Blur()
		return nil
	case "up":
		if c.pickerCursor > 0 {
			c.pickerCursor--
		}
		return nil
	case "down":
		if c.pickerCursor < len(c.options)-1 {
			c.pickerCursor++
		}
		return nil
	case "enter":
		if c.pickerCursor < len(c.options) && c.options[c.pickerCursor].Available {
			c.staged = c.options[c.pickerCursor].Number
		}
		return nil
	case "ctrl+s":
		c.mode = channelsList
		c.picker.Blur()
		cc := c.channels[c.cursor]
		cc.Details = c.staged
		if c.staged != "" {
			c.app.State().SelectedItems[stagedNumberKey(c.agentID)] = c.staged
		}
		return c.put(cc)
	case "ctrl+t":
		c.filter.TollFreeOnly = !c.filter.TollFreeOnly
		if c.filter.TollFreeOnly {
			c.filter.LocalOnly = false
		}
		c.refreshOptions()
		return nil
	case "ctrl+l":
		c.filter.LocalOnly = !c.filter.LocalOnly
		if c.filter.LocalOnly {
			c.filter.TollFreeOnly = false
		}
		c.refreshOptions()
		return nil
	default:
		var cmd tea.Cmd
		c.picker, cmd = c.picker.Update(msg)
		c.filter.Query = c.picker.Value()
		c.refreshOptions()
		return cmd
	}
}

// stagedNumberKey is the UI-state key remembering the last number picked
// for an agent's voice channel.
func stagedNumberKey(agentID string) string { return "voice-number:" + agentID }

// refreshOptions reapplies the filter and clamps the cursor.
func (c *ChannelsScreen) refreshOptions() {
	c.options = catalog.FilterNumbers(c.filter)
	if c.pickerCursor >= len(c.options) {
		c.pickerCursor = max(0, len(c.options)-1)
	}
}

// View renders the channels screen.
func (c *ChannelsScreen) View(width, height int) string {
	header := c.styles.Header.Width(width).Render("Channels")

	if c.loading {
		return lipgloss.JoinVertical(lipgloss.Left, header, "",
			c.styles.ListItem.Render("Loading channels..."))
	}

	switch c.mode {
	case channelsPicker:
		return c.viewPicker(width, header)
	case channelsEdit:
		return c.viewEdit(width, header)
	}

	var rows []string
	for i, cc := range c.channels {
		rows = append(rows, c.renderChannelRow(cc, i == c.cursor))
	}

	footer := lipgloss.NewStyle().
		Foreground(theme.ColorTextSecondary).
		Render("space toggle · enter details · r refresh · esc back")

	sections := []string{header, ""}
	sections = append(sections, rows...)
	sections = append(sections, "", footer)
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (c *ChannelsScreen) renderChannelRow(cc db.ChannelConfig, selected bool) string {
	state := "[ ]"
	if cc.Enabled {
		state = "[x]"
	}

	detail := cc.Details
	if detail == "" {
		detail = "not configured"
	}

	line := fmt.Sprintf("%s %-10s %s", state, cc.Channel,
		lipgloss.NewStyle().Foreground(theme.ColorTextSecondary).Render(detail))

	if selected {
		return c.styles.ListItemSelected.Render(line)
	}
	return c.styles.ListItem.Render(line)
}

func (c *ChannelsScreen) viewEdit(width int, header string) string {
	cc := c.channels[c.cursor]
	label := c.styles.FieldLabel.Render(fmt.Sprintf("Details for %s", cc.Channel))
	footer := lipgloss.NewStyle().
		Foreground(theme.ColorTextSecondary).
		Render("enter save · esc cancel")
	return lipgloss.JoinVertical(lipgloss.Left,
		header, "", label, c.styles.InputFocused.Render(c.details.View()), "", footer)
}

func (c *ChannelsScreen) viewPicker(width int, header string) string {
	title := c.styles.FieldLabel.Render("Pick a phone number for the voice channel")

	var flags []string
	if c.filter.TollFreeOnly {
		flags = append(flags, "toll-free only")
	}
	if c.filter.LocalOnly {
		flags = append(flags, "local only")
	}
	flagLine := "all numbers"
	if len(flags) > 0 {
		flagLine = strings.Join(flags, ", ")
	}

	var rows []string
	if len(c.options) == 0 {
		rows = append(rows, c.styles.ListItem.Render("No numbers match."))
	}
	for i, n := range c.options {
		marker := "  "
		if n.Number == c.staged {
			marker = "● "
		}
		avail := ""
		if !n.Available {
			avail = lipgloss.NewStyle().Foreground(theme.ColorAccent).Render("  taken")
		}
		line := fmt.Sprintf("%s%-22s %-10s %s%s", marker, n.Number, n.Type,
			lipgloss.NewStyle().Foreground(theme.ColorTextSecondary).Render(n.Price), avail)
		if i == c.pickerCursor {
			rows = append(rows, c.styles.ListItemSelected.Render(line))
		} else {
			rows = append(rows, c.styles.ListItem.Render(line))
		}
	}

	staged := "none staged"
	if c.staged != "" {
		staged = "staged: " + c.staged
	}

	footer := lipgloss.NewStyle().
		Foreground(theme.ColorTextSecondary).
		Render("enter stage · ctrl+s save · ctrl+t toll-free · ctrl+l local · esc cancel")

	sections := []string{header, "", title,
		c.styles.InputFocused.Render(c.picker.View()),
		lipgloss.NewStyle().Foreground(theme.ColorTextSecondary).Render(flagLine), ""}
	sections = append(sections, rows...)
	sections = append(sections, "",
		lipgloss.NewStyle().Foreground(theme.ColorPrimary).Render(staged), footer)
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

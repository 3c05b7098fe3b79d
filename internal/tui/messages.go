package tui

import (
	"agentdesk/internal/audio"
	"agentdesk/internal/call"
	"agentdesk/internal/db"
)

// Screen identifies which screen the TUI is currently showing.
type Screen int

const (
	ScreenHome Screen = iota
	ScreenAgentDetail
	ScreenSettings
	ScreenChannels
	ScreenAnalytics
	ScreenRoleplayMode
	ScreenPersonas
	ScreenCallSetup
	ScreenActiveCall
	ScreenReview
)

// ---------------------------------------------------------------------------
// Navigation
// ---------------------------------------------------------------------------

// NavigateMsg tells the main model to switch to a different screen.
// Data carries optional context for the target screen.
type NavigateMsg struct {
	Screen Screen
	Data   any
}

// NavigateBackMsg tells the main model to go back to the previous screen.
type NavigateBackMsg struct{}

// ---------------------------------------------------------------------------
// Status and errors
// ---------------------------------------------------------------------------

// ErrorMsg carries an error to be displayed in the status bar.
type ErrorMsg struct{ Err error }

// StatusMsg carries a status string to be displayed in the status bar.
type StatusMsg string

// ---------------------------------------------------------------------------
// Data refresh
// ---------------------------------------------------------------------------

// AgentsLoadedMsg carries a freshly loaded list of agents.
type AgentsLoadedMsg struct{ Agents []db.Agent }

// AgentLoadedMsg carries one agent with its channels and recordings.
type AgentLoadedMsg struct {
	Agent      *db.Agent
	Channels   []db.ChannelConfig
	Recordings []db.Recording
}

// AgentSavedMsg is sent after an agent update has been persisted.
type AgentSavedMsg struct{ Agent *db.Agent }

// RecordingsLoadedMsg carries a freshly loaded recording list.
type RecordingsLoadedMsg struct{ Recordings []db.Recording }

// DevicesLoadedMsg carries the result of an audio device enumeration.
// Err is non-nil when enumeration failed; the flow degrades to empty lists.
type DevicesLoadedMsg struct {
	Devices []audio.Device
	Err     error
}

// ---------------------------------------------------------------------------
// Call flow
// ---------------------------------------------------------------------------

// callSetupData is the context handed to the call-setup screen when a
// persona was already chosen. A bare agent id means a direct dial.
type callSetupData struct {
	AgentID   string
	PersonaID string
}

// callStartData is the context handed to the active-call screen: exactly one
// of Persona (role-play) or Number (direct call) drives the session.
type callStartData struct {
	AgentID   string
	PersonaID string
	Number    string
	MicID     string
	SpeakerID string
}

// reviewData is the context handed to the review screen after a call ends.
type reviewData struct {
	AgentID   string
	Recording *call.Recording
	Setup     callStartData
}

package db

import "time"

// ---------------------------------------------------------------------------
// Agent status constants
// ---------------------------------------------------------------------------

const (
	AgentStatusDraft  = "draft"
	AgentStatusActive = "active"
	AgentStatusPaused = "paused"
)

// validAgentStatuses is the set of allowed agent status values.
var validAgentStatuses = map[string]bool{
	AgentStatusDraft:  true,
	AgentStatusActive: true,
	AgentStatusPaused: true,
}

// ValidAgentStatus reports whether s is an allowed agent status value.
func ValidAgentStatus(s string) bool { return validAgentStatuses[s] }

// ---------------------------------------------------------------------------
// Channel constants
// ---------------------------------------------------------------------------

const (
	ChannelVoice    = "voice"
	ChannelChat     = "chat"
	ChannelSMS      = "sms"
	ChannelEmail    = "email"
	ChannelWhatsApp = "whatsapp"
)

// Channels is the fixed channel enum in presentation order.
var Channels = []string{ChannelVoice, ChannelChat, ChannelSMS, ChannelEmail, ChannelWhatsApp}

// validChannels is the set of allowed channel names.
var validChannels = map[string]bool{
	ChannelVoice:    true,
	ChannelChat:     true,
	ChannelSMS:      true,
	ChannelEmail:    true,
	ChannelWhatsApp: true,
}

// ValidChannel reports whether s is an allowed channel name.
func ValidChannel(s string) bool { return validChannels[s] }

// ---------------------------------------------------------------------------
// Recording kind constants
// ---------------------------------------------------------------------------

const (
	RecordingKindCall     = "call"
	RecordingKindRoleplay = "roleplay"
)

// validRecordingKinds is the set of allowed recording kinds.
var validRecordingKinds = map[string]bool{
	RecordingKindCall:     true,
	RecordingKindRoleplay: true,
}

// ValidRecordingKind reports whether s is an allowed recording kind.
func ValidRecordingKind(s string) bool { return validRecordingKinds[s] }

// Agent is one configurable conversational agent.
type Agent struct {
	ID            string
	Name          string
	Description   string
	Industry      string
	Function      string
	Model         string
	VoiceProvider string
	VoiceName     string
	SystemPrompt  string
	Status        string // draft, active, paused
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ChannelConfig is one channel's configuration for an agent. A channel with
// no stored row reads as disabled with empty details; disabling a channel
// preserves its details.
type ChannelConfig struct {
	AgentID   string
	Channel   string // voice, chat, sms, email, whatsapp
	Enabled   bool
	Details   string
	UpdatedAt time.Time
}

// Recording is a persisted training recording produced by a completed call
// or role-play session. Immutable after creation except for deletion.
type Recording struct {
	ID         string
	AgentID    string
	Title      string
	Duration   string // mm:ss
	Kind       string // call, roleplay
	Transcript []string
	Training   bool
	CreatedAt  time.Time
}

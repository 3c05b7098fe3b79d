// Package call implements the role-play call session state machine:
// connecting -> active -> ended, with a single owned duration ticker and
// transcript accumulation.
package call

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a call session.
type Status int

const (
	StatusConnecting Status = iota
	StatusActive
	StatusEnded
)

// String returns the wire/storage name for the status.
func (s Status) String() string {
	switch s {
	case StatusConnecting:
		return "connecting"
	case StatusActive:
		return "active"
	case StatusEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Kind distinguishes direct calls from persona role-plays.
type Kind string

const (
	KindCall     Kind = "call"
	KindRoleplay Kind = "roleplay"
)

// ValidKind reports whether k is an allowed session kind.
func ValidKind(k Kind) bool { return k == KindCall || k == KindRoleplay }

// ErrInvalidTransition is returned when a session method is called in a
// state that does not permit it.
var ErrInvalidTransition = errors.New("call: invalid session transition")

// validTransitions is the exhaustive transition table. The only legal moves
// are connecting->active, connecting->ended (abort) and active->ended.
var validTransitions = map[Status]map[Status]bool{
	StatusConnecting: {StatusActive: true, StatusEnded: true},
	StatusActive:     {StatusEnded: true},
	StatusEnded:      {},
}

// Line is one ordered transcript entry.
type Line struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
}

// Recording is the immutable artifact synthesized exactly once when a
// session ends. It is handed to the owner, which decides whether to persist.
type Recording struct {
	ID         string
	Title      string
	CreatedAt  time.Time
	Duration   string // formatted mm:ss
	Kind       Kind
	Transcript []Line
}

// Session is a single simulated call. All methods are safe for concurrent
// use; the TUI drives it from the event loop while the web layer drives it
// from handler goroutines.
type Session struct {
	mu sync.Mutex

	id        string
	kind      Kind
	partner   string // persona name or dialed number
	personaID string

	status     Status
	startedAt  time.Time
	seconds    int
	micMuted   bool
	audioMuted bool
	lines      []Line

	completed bool // recording already synthesized
}

// New creates a session in the connecting state. partner is the persona name
// for role-plays or the dialed number for direct calls. Unknown kinds are
// treated as direct calls.
func New(kind Kind, partner, personaID string) *Session {
	if !ValidKind(kind) {
		kind = KindCall
	}
	return &Session{
		id:        uuid.NewString(),
		kind:      kind,
		partner:   partner,
		personaID: personaID,
		status:    StatusConnecting,
	}
}

// ID returns the session's unique identifier.
func (s *Session) ID() string { return s.id }

// Kind returns the session kind.
func (s *Session) Kind() Kind { return s.kind }

// Partner returns the persona name or dialed number.
func (s *Session) Partner() string { return s.partner }

// PersonaID returns the persona id, empty for direct calls.
func (s *Session) PersonaID() string { return s.personaID }

// Status returns the current lifecycle state.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// transition enforces the transition table. Must be called with s.mu held.
func (s *Session) transition(to Status) error {
	if !validTransitions[s.status][to] {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.status, to)
	}
	s.status = to
	return nil
}

// Activate moves the session from connecting to active, records the start
// time, and seeds the transcript with exactly one opening line.
func (s *Session) Activate(opening Line) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.transition(StatusActive); err != nil {
		return err
	}
	s.startedAt = time.Now()
	s.lines = append(s.lines, opening)
	return nil
}

// Tick advances the duration by one second. It is a no-op unless the session
// is active, so a stale timer firing after end-call cannot corrupt duration.
// Returns the accumulated seconds.
func (s *Session) Tick() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status == StatusActive {
		s.seconds++
	}
	return s.seconds
}

// Seconds returns the accumulated call duration in seconds.
func (s *Session) Seconds() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seconds
}

// Append adds a transcript line. Lines are only accepted while active.
func (s *Session) Append(speaker, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusActive {
		return fmt.Errorf("%w: append in %s", ErrInvalidTransition, s.status)
	}
	s.lines = append(s.lines, Line{Speaker: speaker, Text: text})
	return nil
}

// ToggleMic flips the microphone mute flag and returns the new value.
// Muting is cosmetic: it never affects transcript generation.
func (s *Session) ToggleMic() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.micMuted = !s.micMuted
	return s.micMuted
}

// ToggleAudio flips the speaker mute flag and returns the new value.
func (s *Session) ToggleAudio() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.audioMuted = !s.audioMuted
	return s.audioMuted
}

// MicMuted reports the microphone mute flag.
func (s *Session) MicMuted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.micMuted
}

// AudioMuted reports the speaker mute flag.
func (s *Session) AudioMuted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.audioMuted
}

// Transcript returns a copy of the transcript so far.
func (s *Session) Transcript() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

// End terminates the session from either connecting or active. The first
// call synthesizes the Recording; subsequent calls return (nil, nil) so the
// completion callback fires at most once no matter how many teardown paths
// run (end key, screen close, program shutdown).
func (s *Session) End() (*Recording, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusEnded {
		if err := s.transition(StatusEnded); err != nil {
			return nil, err
		}
	}
	if s.completed {
		return nil, nil
	}
	s.completed = true

	title := "Call with " + s.partner
	if s.kind == KindRoleplay {
		title = "Role-play with " + s.partner
	}

	lines := make([]Line, len(s.lines))
	copy(lines, s.lines)

	return &Recording{
		ID:         uuid.NewString(),
		Title:      title,
		CreatedAt:  time.Now(),
		Duration:   FormatDuration(s.seconds),
		Kind:       s.kind,
		Transcript: lines,
	}, nil
}

// FormatDuration renders whole seconds as a zero-padded mm:ss string,
// e.g. 125 -> "02:05".
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

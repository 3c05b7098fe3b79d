// Package sim isolates everything that fabricates data in place of real
// telephony, ASR and analytics backends. UI code depends only on the
// interfaces here, so a real integration can be swapped in without touching
// screen logic.
package sim

import (
	"context"
	"time"

	"agentdesk/internal/catalog"
)

// Simulated latency constants. ConnectDelay is the time a new call spends
// in the connecting state; ReplyDelay is the turn-taking gap before the
// partner's synthetic response.
const (
	ConnectDelay = 1500 * time.Millisecond
	ReplyDelay   = 3 * time.Second
)

// Responder produces the simulated partner's next line given the persona
// and the transcript so far (as "speaker: text" strings).
type Responder interface {
	Respond(ctx context.Context, persona catalog.Persona, transcript []string) (string, error)
}

// OpeningLine returns the single line that seeds a transcript on
// activation: the persona's greeting for role-plays, a system notice for
// direct calls.
func OpeningLine(persona *catalog.Persona, number string) (speaker, text string) {
	if persona != nil {
		return persona.Name, persona.Greeting
	}
	return "system", "Connected to " + number
}

// CallerLines are the canned utterances cycled through when the operator
// presses speak during a simulated call.
var CallerLines = []string{
	"Thanks for calling, how can I help you today?",
	"I understand, let me look into that for you.",
	"Could you confirm the account email on file?",
	"I've applied that change — anything else I can do?",
	"Let me read that back to make sure I have it right.",
}

// CallerLine returns the nth canned caller utterance, cycling.
func CallerLine(n int) string {
	if len(CallerLines) == 0 {
		return ""
	}
	return CallerLines[n%len(CallerLines)]
}

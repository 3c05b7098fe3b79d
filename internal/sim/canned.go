package sim

import (
	"context"
	"sync"

	"agentdesk/internal/catalog"
)

// repliesByKind holds the deterministic reply pools the canned responder
// cycles through, flavored by persona kind.
var repliesByKind = map[catalog.PersonaKind][]string{
	catalog.PersonaCustomer: {
		"Okay, but I was told something different last time I called.",
		"That makes sense. How long is that going to take?",
		"Can you put that in writing? I want a confirmation email.",
		"Alright. And there won't be any extra charges for that?",
		"Fine, let's do that then.",
	},
	catalog.PersonaAgent: {
		"Right, the case number is on the shared queue, ticket 4417.",
		"The customer already verified identity on my end.",
		"I'll stay on for the warm transfer if you need context.",
		"Got it, I'll note the handover in the case log.",
	},
	catalog.PersonaBot: {
		"I'm sorry, I didn't catch that. Please say 'billing', 'support', or 'sales'.",
		"You said 'support'. Is that correct? Say yes or no.",
		"Please hold while I connect you to the next available agent.",
	},
}

// defaultReplies is used when a persona kind has no pool.
var defaultReplies = []string{
	"I see. Could you tell me a little more about that?",
	"Understood. What would you suggest we do next?",
	"Okay, that works for me.",
}

// CannedResponder cycles a fixed, persona-flavored reply pool. It is the
// default partner for role-play calls and never fails.
type CannedResponder struct {
	mu   sync.Mutex
	next map[string]int // persona id -> cursor
}

// NewCannedResponder returns a ready responder.
func NewCannedResponder() *CannedResponder {
	return &CannedResponder{next: make(map[string]int)}
}

// Respond returns the persona's next scripted reply. The transcript is
// ignored; ordering depends only on how many turns this persona has had.
func (r *CannedResponder) Respond(_ context.Context, persona catalog.Persona, _ []string) (string, error) {
	pool := repliesByKind[persona.Kind]
	if len(pool) == 0 {
		pool = defaultReplies
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.next[persona.ID]
	r.next[persona.ID] = i + 1
	return pool[i%len(pool)], nil
}

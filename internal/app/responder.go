package app

import (
	"context"

	"agentdesk/internal/catalog"
	"agentdesk/internal/logging"
	"agentdesk/internal/sim"
)

// fallbackResponder tries the primary responder and silently degrades to
// the backup on any error, so a flaky or unreachable model never blocks a
// role-play session.
type fallbackResponder struct {
	primary sim.Responder
	backup  sim.Responder
	logs    *logging.Manager
}

func (f *fallbackResponder) Respond(ctx context.Context, persona catalog.Persona, transcript []string) (string, error) {
	reply, err := f.primary.Respond(ctx, persona, transcript)
	if err == nil {
		return reply, nil
	}
	if f.logs != nil {
		f.logs.System.Warn("responder fallback: %v", err)
	}
	return f.backup.Respond(ctx, persona, transcript)
}

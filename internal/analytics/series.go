// Package analytics fabricates the time series behind the dashboard's
// analytics tab. Like internal/sim, it exists so a real metrics backend can
// replace it without touching any screen.
package analytics

import (
	"hash/fnv"
	"math/rand"
	"time"
)

// Point is one day of simulated call activity.
type Point struct {
	Day        time.Time `json:"day"`
	Calls      int       `json:"calls"`
	Minutes    float64   `json:"minutes"`
	Resolved   int       `json:"resolved"`
	Escalated  int       `json:"escalated"`
}

// Series generates days points ending today, seeded so the same agent shows
// the same chart across renders and restarts.
func Series(days int, seed int64) []Point {
	if days <= 0 {
		return nil
	}
	rng := rand.New(rand.NewSource(seed))
	// Midnight-aligned so repeated calls on the same day yield identical
	// points.
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	start := today.AddDate(0, 0, -(days - 1))

	out := make([]Point, days)
	for i := range out {
		calls := 5 + rng.Intn(40)
		resolved := int(float64(calls) * (0.6 + rng.Float64()*0.35))
		if resolved > calls {
			resolved = calls
		}
		out[i] = Point{
			Day:       start.AddDate(0, 0, i),
			Calls:     calls,
			Minutes:   float64(calls) * (1.5 + rng.Float64()*4),
			Resolved:  resolved,
			Escalated: calls - resolved,
		}
	}
	return out
}

// SeedFor derives a stable series seed from an agent id, so each agent
// shows the same chart across renders and restarts.
func SeedFor(agentID string) int64 {
	h := fnv.New64a()
	h.Write([]byte(agentID))
	return int64(h.Sum64())
}

// MaxCalls returns the largest call count in the series, minimum 1 so bar
// scaling never divides by zero.
func MaxCalls(series []Point) int {
	max := 1
	for _, p := range series {
		if p.Calls > max {
			max = p.Calls
		}
	}
	return max
}

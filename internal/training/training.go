// Package training computes aggregate progress over recorded call sessions.
package training

import (
	"fmt"
	"regexp"
	"strconv"
)

// Phase constants shared by the setup wizard cards.
const (
	PhaseNotStarted = "not-started"
	PhaseInProgress = "in-progress"
	PhaseCompleted  = "completed"
)

// DefaultTargetMinutes is the amount of recorded audio needed before the
// training card flips to completed.
const DefaultTargetMinutes = 10.0

// durationRE matches the stored mm:ss duration format. Minutes may exceed
// two digits for long sessions; seconds are always 00-59.
var durationRE = regexp.MustCompile(`^(\d{1,4}):([0-5]\d)$`)

// ParseDuration converts an mm:ss string into total seconds.
func ParseDuration(s string) (int, error) {
	m := durationRE.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("training: malformed duration %q", s)
	}
	mins, _ := strconv.Atoi(m[1])
	secs, _ := strconv.Atoi(m[2])
	return mins*60 + secs, nil
}

// TotalMinutes sums the given mm:ss durations as fractional minutes.
// Malformed entries are skipped; the count of skipped entries is returned
// so callers can surface a warning.
func TotalMinutes(durations []string) (total float64, skipped int) {
	for _, d := range durations {
		secs, err := ParseDuration(d)
		if err != nil {
			skipped++
			continue
		}
		total += float64(secs) / 60.0
	}
	return total, skipped
}

// PhaseFor derives the card phase from the current aggregate. It must be
// re-evaluated after every add or remove: dropping below target reverts a
// completed card to in-progress.
func PhaseFor(totalMinutes float64, count int, targetMinutes float64) string {
	if count == 0 {
		return PhaseNotStarted
	}
	if totalMinutes >= targetMinutes {
		return PhaseCompleted
	}
	return PhaseInProgress
}

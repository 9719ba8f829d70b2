package verify

import (
	"context"
	"time"

	"github.com/credlens/credlens/internal/candidate"
)

// Verdict is the immutable outcome of one verification attempt. A retried
// attempt produces a fresh verdict; nothing mutates one after construction.
type Verdict struct {
	Valid   bool             `json:"is_valid" mapstructure:"is_valid"`
	Source  candidate.Source `json:"source" mapstructure:"source"`
	Details string           `json:"details" mapstructure:"details"`
	// CheckedAt is RFC3339 so reports sort lexicographically by time.
	CheckedAt  string  `json:"checked_at" mapstructure:"checked_at"`
	Confidence float64 `json:"confidence" mapstructure:"confidence"`
}

// Verifier checks one claim against its authoritative source. Verify never
// fails hard: every fetch or parse problem becomes an invalid verdict with a
// human-readable reason.
type Verifier interface {
	Source() candidate.Source
	Verify(ctx context.Context, claim candidate.Claim) Verdict
}

var now = time.Now

func timestamp() string {
	return now().UTC().Format(time.RFC3339)
}

func valid(source candidate.Source, details string, confidence float64) Verdict {
	return Verdict{
		Valid:      true,
		Source:     source,
		Details:    details,
		CheckedAt:  timestamp(),
		Confidence: clamp01(confidence),
	}
}

func invalid(source candidate.Source, details string) Verdict {
	return invalidWithConfidence(source, details, 0)
}

// invalidWithConfidence covers the reachable-but-unverifiable case where
// partial evidence justifies a small nonzero confidence.
func invalidWithConfidence(source candidate.Source, details string, confidence float64) Verdict {
	if details == "" {
		details = "Verification failed"
	}
	return Verdict{
		Valid:      false,
		Source:     source,
		Details:    details,
		CheckedAt:  timestamp(),
		Confidence: clamp01(confidence),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

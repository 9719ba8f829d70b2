package ai

import (
	"context"

	"github.com/credlens/credlens/internal/score"
	"github.com/credlens/credlens/internal/verify"
)

// Explanation is a human-readable narrative of an analysis run.
type Explanation struct {
	Summary string
	Raw     string
}

// Explainer turns a verification report and its aggregate scores into a
// short narrative for a human reviewer. Explanations are advisory: a failed
// explanation never affects the report or the scores.
type Explainer interface {
	Explain(ctx context.Context, report *verify.Report, credibility *score.CredibilityResult, composite *score.CompositeResult) (*Explanation, error)
}

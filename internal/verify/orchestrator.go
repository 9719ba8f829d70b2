package verify

import (
	"context"
	"fmt"
	"time"

	"github.com/credlens/credlens/internal/candidate"
	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Report collects the verdicts of one verification run. Slots are fixed by
// source kind, never by completion order, so the report shape is
// deterministic regardless of which source resolves first. Absent sources
// leave their slot nil.
type Report struct {
	Github       *Verdict  `json:"github_verification,omitempty" mapstructure:"github_verification,omitempty"`
	Linkedin     *Verdict  `json:"linkedin_verification,omitempty" mapstructure:"linkedin_verification,omitempty"`
	Leetcode     *Verdict  `json:"leetcode_verification,omitempty" mapstructure:"leetcode_verification,omitempty"`
	Certificates []Verdict `json:"certificate_verifications,omitempty" mapstructure:"certificate_verifications,omitempty"`

	CheckedAt string `json:"verification_timestamp" mapstructure:"verification_timestamp"`
}

// Verdicts returns the singular-source verdicts keyed by source. Certificate
// verdicts are a list and stay on the report itself.
func (r *Report) Verdicts() map[candidate.Source]*Verdict {
	verdicts := make(map[candidate.Source]*Verdict)
	if r.Github != nil {
		verdicts[candidate.SourceGitHub] = r.Github
	}
	if r.Linkedin != nil {
		verdicts[candidate.SourceLinkedIn] = r.Linkedin
	}
	if r.Leetcode != nil {
		verdicts[candidate.SourceLeetCode] = r.Leetcode
	}
	return verdicts
}

// Flatten renders the report as nested maps of primitives so the reporting
// layer can consume it without importing this package's types.
func (r *Report) Flatten() (map[string]any, error) {
	out := make(map[string]any)
	if err := mapstructure.Decode(r, &out); err != nil {
		return nil, fmt.Errorf("flatten report: %w", err)
	}
	return out, nil
}

// Orchestrator fans one verification task per claim out to the verifiers and
// joins the results. A slow or failing source never blocks or cancels the
// others; the run completes when every dispatched verification has returned
// a verdict.
type Orchestrator struct {
	verifiers map[candidate.Source]Verifier
	// timeout bounds the whole run when positive. Verifications still
	// running at the deadline resolve to invalid timeout verdicts through
	// their fetch errors; completed verdicts are kept untouched.
	timeout time.Duration
	logger  *zap.Logger
}

func NewOrchestrator(logger *zap.Logger, timeout time.Duration, verifiers ...Verifier) *Orchestrator {
	bysource := make(map[candidate.Source]Verifier, len(verifiers))
	for _, v := range verifiers {
		bysource[v.Source()] = v
	}

	return &Orchestrator{
		verifiers: bysource,
		timeout:   timeout,
		logger:    logger,
	}
}

// VerifyAll verifies every claim derivable from the candidate record
// concurrently and returns a complete report. It never fails: individual
// source failures surface as invalid verdicts inside the report.
func (o *Orchestrator) VerifyAll(ctx context.Context, cand *candidate.Candidate) *Report {
	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	claims := cand.Claims()
	report := &Report{}

	certCount := 0
	for _, claim := range claims {
		if claim.Source == candidate.SourceCertificate {
			certCount++
		}
	}
	report.Certificates = make([]Verdict, certCount)

	o.logger.Debug("dispatching verifications",
		zap.Int("claims", len(claims)),
		zap.Int("certificates", certCount),
	)

	g, ctx := errgroup.WithContext(ctx)

	certIdx := 0
	for _, claim := range claims {
		verifier, ok := o.verifiers[claim.Source]
		if !ok {
			o.logger.Warn("no verifier registered for source", zap.String("source", string(claim.Source)))
			continue
		}

		// Each goroutine writes to its own fixed slot, so no locking is
		// needed at the join point.
		var slot *Verdict
		switch claim.Source {
		case candidate.SourceCertificate:
			slot = &report.Certificates[certIdx]
			certIdx++
		case candidate.SourceGitHub:
			report.Github = &Verdict{}
			slot = report.Github
		case candidate.SourceLinkedIn:
			report.Linkedin = &Verdict{}
			slot = report.Linkedin
		case candidate.SourceLeetCode:
			report.Leetcode = &Verdict{}
			slot = report.Leetcode
		}

		claim := claim
		g.Go(func() error {
			verdict := verifier.Verify(ctx, claim)

			o.logger.Debug("verification finished",
				zap.String("source", string(verdict.Source)),
				zap.Bool("is_valid", verdict.Valid),
				zap.Float64("confidence", verdict.Confidence),
				zap.String("details", verdict.Details),
			)

			*slot = verdict
			return nil
		})
	}

	// Verifiers convert every failure into a verdict, so Wait only joins.
	_ = g.Wait()

	report.CheckedAt = timestamp()

	return report
}

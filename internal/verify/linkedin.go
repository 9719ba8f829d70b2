package verify

import (
	"context"
	"fmt"

	"github.com/credlens/credlens/internal/candidate"
	"github.com/credlens/credlens/internal/fetch"
	"go.uber.org/zap"
)

// linkedinConfidence is fixed: the platform exposes no structured public API,
// so verification is a reachability probe, not a content assertion. A 200
// only proves the profile page exists. This is a known weak verification and
// the reason the confidence never reaches 1.0 here.
const linkedinConfidence = 0.8

// LinkedinVerifier probes the profile URL for public reachability.
type LinkedinVerifier struct {
	client *fetch.Client
	retry  fetch.RetryConfig
	logger *zap.Logger
}

func NewLinkedinVerifier(client *fetch.Client, retry fetch.RetryConfig, logger *zap.Logger) *LinkedinVerifier {
	return &LinkedinVerifier{client: client, retry: retry, logger: logger}
}

func (v *LinkedinVerifier) Source() candidate.Source { return candidate.SourceLinkedIn }

func (v *LinkedinVerifier) Verify(ctx context.Context, claim candidate.Claim) Verdict {
	if claim.URL == "" {
		return invalid(v.Source(), "No LinkedIn URL provided")
	}

	err := fetch.Retry(ctx, v.retry, v.logger, func(ctx context.Context) error {
		_, err := v.client.Get(ctx, claim.URL)
		return err
	})
	if err != nil {
		v.logger.Debug("linkedin probe failed", zap.String("url", claim.URL), zap.Error(err))
		return invalid(v.Source(), fmt.Sprintf("Profile not accessible: %v", err))
	}

	return valid(v.Source(), "Profile verified", linkedinConfidence)
}

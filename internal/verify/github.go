package verify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/credlens/credlens/internal/candidate"
	"github.com/credlens/credlens/internal/fetch"
	"go.uber.org/zap"
)

const defaultGithubAPIURL = "https://api.github.com"

// githubProfile is the subset of the public users API payload the scorer
// needs.
type githubProfile struct {
	Login       string    `json:"login"`
	PublicRepos int       `json:"public_repos"`
	Followers   int       `json:"followers"`
	CreatedAt   time.Time `json:"created_at"`
}

// GithubVerifier resolves a profile through the public users API and scores
// activity. A profile that resolves is always valid; low activity only lowers
// the confidence, it never invalidates the claim.
type GithubVerifier struct {
	APIURL string

	client *fetch.Client
	retry  fetch.RetryConfig
	logger *zap.Logger
}

func NewGithubVerifier(client *fetch.Client, retry fetch.RetryConfig, logger *zap.Logger) *GithubVerifier {
	return &GithubVerifier{
		APIURL: defaultGithubAPIURL,
		client: client,
		retry:  retry,
		logger: logger,
	}
}

func (v *GithubVerifier) Source() candidate.Source { return candidate.SourceGitHub }

func (v *GithubVerifier) Verify(ctx context.Context, claim candidate.Claim) Verdict {
	if claim.URL == "" {
		return invalid(v.Source(), "No GitHub URL provided")
	}

	username := lastPathSegment(claim.URL)
	if username == "" {
		return invalid(v.Source(), fmt.Sprintf("Unable to derive username from %s", claim.URL))
	}

	apiURL := fmt.Sprintf("%s/users/%s", v.APIURL, username)

	var profile githubProfile
	err := fetch.Retry(ctx, v.retry, v.logger, func(ctx context.Context) error {
		return v.client.GetJSON(ctx, apiURL, &profile)
	})
	if err != nil {
		return githubFailure(v.Source(), err)
	}

	accountAge := int(now().Sub(profile.CreatedAt).Hours() / 24)
	confidence := githubConfidence(profile.PublicRepos, profile.Followers, accountAge)

	v.logger.Debug("github profile resolved",
		zap.String("username", username),
		zap.Int("public_repos", profile.PublicRepos),
		zap.Int("followers", profile.Followers),
		zap.Int("account_age_days", accountAge),
		zap.Float64("confidence", confidence),
	)

	details := fmt.Sprintf("Active profile with %d repos, %d followers", profile.PublicRepos, profile.Followers)

	return valid(v.Source(), details, confidence)
}

// githubConfidence saturates at 10 repositories, 50 followers and one year of
// account age.
func githubConfidence(repos, followers, accountAgeDays int) float64 {
	repoScore := min(float64(repos)/10, 1.0)
	followerScore := min(float64(followers)/50, 1.0)
	ageScore := min(float64(accountAgeDays)/365, 1.0)

	return repoScore*0.4 + followerScore*0.3 + ageScore*0.3
}

func githubFailure(source candidate.Source, err error) Verdict {
	var fetchErr *fetch.Error
	if errors.As(err, &fetchErr) && fetchErr.Kind == fetch.KindHTTPStatus && fetchErr.Status == http.StatusNotFound {
		return invalid(source, "Profile not found")
	}
	return invalid(source, fmt.Sprintf("Verification failed: %v", err))
}

// lastPathSegment extracts the trailing path segment of a profile URL, the
// platform username.
func lastPathSegment(rawURL string) string {
	trimmed := strings.TrimRight(strings.TrimSpace(rawURL), "/")
	idx := strings.LastIndex(trimmed, "/")
	if idx < 0 {
		return trimmed
	}
	return trimmed[idx+1:]
}

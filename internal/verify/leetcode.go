package verify

import (
	"context"
	"fmt"

	"github.com/credlens/credlens/internal/candidate"
	"github.com/credlens/credlens/internal/fetch"
	"go.uber.org/zap"
)

const (
	defaultLeetcodeAPIURL = "https://leetcode.com/graphql"

	// leetcodeConfidence is fixed: a parseable submit-stats response proves
	// the account exists and is active, nothing more.
	leetcodeConfidence = 0.8

	leetcodeProfileQuery = `
		query getUserProfile($username: String!) {
			matchedUser(username: $username) {
				submitStats {
					acSubmissionNum {
						difficulty
						count
					}
				}
			}
		}`
)

type leetcodeResponse struct {
	Data struct {
		MatchedUser *struct {
			SubmitStats struct {
				ACSubmissionNum []struct {
					Difficulty string `json:"difficulty"`
					Count      int    `json:"count"`
				} `json:"acSubmissionNum"`
			} `json:"submitStats"`
		} `json:"matchedUser"`
	} `json:"data"`
}

// LeetcodeVerifier queries submission statistics over the public GraphQL
// endpoint.
type LeetcodeVerifier struct {
	APIURL string

	client *fetch.Client
	retry  fetch.RetryConfig
	logger *zap.Logger
}

func NewLeetcodeVerifier(client *fetch.Client, retry fetch.RetryConfig, logger *zap.Logger) *LeetcodeVerifier {
	return &LeetcodeVerifier{
		APIURL: defaultLeetcodeAPIURL,
		client: client,
		retry:  retry,
		logger: logger,
	}
}

func (v *LeetcodeVerifier) Source() candidate.Source { return candidate.SourceLeetCode }

func (v *LeetcodeVerifier) Verify(ctx context.Context, claim candidate.Claim) Verdict {
	if claim.URL == "" {
		return invalid(v.Source(), "No LeetCode URL provided")
	}

	username := lastPathSegment(claim.URL)
	if username == "" {
		return invalid(v.Source(), fmt.Sprintf("Unable to derive username from %s", claim.URL))
	}

	payload := map[string]any{
		"query":     leetcodeProfileQuery,
		"variables": map[string]string{"username": username},
	}

	var response leetcodeResponse
	err := fetch.Retry(ctx, v.retry, v.logger, func(ctx context.Context) error {
		return v.client.PostJSON(ctx, v.APIURL, payload, &response)
	})
	if err != nil {
		return invalid(v.Source(), fmt.Sprintf("Verification failed: %v", err))
	}

	if response.Data.MatchedUser == nil {
		return invalid(v.Source(), "Profile not found")
	}

	solved := 0
	for _, stat := range response.Data.MatchedUser.SubmitStats.ACSubmissionNum {
		if stat.Difficulty == "All" {
			solved = stat.Count
		}
	}

	v.logger.Debug("leetcode profile resolved",
		zap.String("username", username),
		zap.Int("problems_solved", solved),
	)

	details := "Active LeetCode profile verified"
	if solved > 0 {
		details = fmt.Sprintf("Active LeetCode profile verified, %d problems solved", solved)
	}

	return valid(v.Source(), details, leetcodeConfidence)
}

package candidate

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Source identifies a platform a credential claim can be checked against.
type Source string

const (
	SourceGitHub      Source = "github"
	SourceLinkedIn    Source = "linkedin"
	SourceLeetCode    Source = "leetcode"
	SourceCertificate Source = "certificate"
)

// Sources lists every recognized source in report order.
func Sources() []Source {
	return []Source{SourceGitHub, SourceLinkedIn, SourceLeetCode, SourceCertificate}
}

// Certificate is one certificate entry from the candidate record.
type Certificate struct {
	Name            string `json:"name"`
	VerificationURL string `json:"verification_url"`
}

// Candidate is the record produced by the extraction layer. Any field may be
// empty; an empty field simply means the source is not present for this
// candidate.
type Candidate struct {
	Name         string        `json:"name,omitempty"`
	GithubURL    string        `json:"github_url,omitempty"`
	LinkedinURL  string        `json:"linkedin_url,omitempty"`
	LeetcodeURL  string        `json:"leetcode_url,omitempty"`
	Certificates []Certificate `json:"certificates,omitempty"`

	// ComponentScores carries raw per-component scores (0-100) computed by
	// upstream heuristics. When present the composite scoring mode is
	// available in addition to the credibility mode.
	ComponentScores map[string]float64 `json:"component_scores,omitempty"`
}

// Claim is a single verifiable assertion derived from the candidate record.
// It is read-only input to the verification engine.
type Claim struct {
	Source Source
	// URL is the profile or verification URL. Empty when the candidate
	// record carries no link for this source.
	URL string
	// Name holds extra claim metadata, currently only the certificate name.
	Name string
}

// Claims derives at most one claim per singular source plus one claim per
// certificate. Sources absent from the record yield no claim at all, so they
// never reach a verifier and never weigh into the aggregate score.
func (c *Candidate) Claims() []Claim {
	var claims []Claim

	if url := strings.TrimSpace(c.GithubURL); url != "" {
		claims = append(claims, Claim{Source: SourceGitHub, URL: url})
	}
	if url := strings.TrimSpace(c.LinkedinURL); url != "" {
		claims = append(claims, Claim{Source: SourceLinkedIn, URL: url})
	}
	if url := strings.TrimSpace(c.LeetcodeURL); url != "" {
		claims = append(claims, Claim{Source: SourceLeetCode, URL: url})
	}

	for _, cert := range c.Certificates {
		claims = append(claims, Claim{
			Source: SourceCertificate,
			URL:    strings.TrimSpace(cert.VerificationURL),
			Name:   strings.TrimSpace(cert.Name),
		})
	}

	return claims
}

// HasSource reports whether the candidate record carries anything verifiable
// for the given source.
func (c *Candidate) HasSource(s Source) bool {
	switch s {
	case SourceGitHub:
		return strings.TrimSpace(c.GithubURL) != ""
	case SourceLinkedIn:
		return strings.TrimSpace(c.LinkedinURL) != ""
	case SourceLeetCode:
		return strings.TrimSpace(c.LeetcodeURL) != ""
	case SourceCertificate:
		return len(c.Certificates) > 0
	}
	return false
}

// FromFile loads a candidate record from a JSON file.
func FromFile(path string) (*Candidate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading candidate file %q: %w", path, err)
	}

	var cand Candidate
	if err := json.Unmarshal(data, &cand); err != nil {
		return nil, fmt.Errorf("parsing candidate file %q: %w", path, err)
	}

	return &cand, nil
}

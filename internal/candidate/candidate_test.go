package candidate

import (
	"os"
	"path/filepath"
	"testing"
)

func TestClaimsFullRecord(t *testing.T) {
	cand := &Candidate{
		GithubURL:   "https://github.com/alice",
		LinkedinURL: "https://linkedin.com/in/alice",
		LeetcodeURL: "https://leetcode.com/alice",
		Certificates: []Certificate{
			{Name: "AWS Cloud Practitioner", VerificationURL: "https://aws.amazon.com/verification/AWS-01-1111"},
			{Name: "Coursera ML", VerificationURL: "https://www.coursera.org/verify/ABCDEFGH12"},
		},
	}

	claims := cand.Claims()
	if len(claims) != 5 {
		t.Fatalf("expected 5 claims, got %d", len(claims))
	}

	counts := make(map[Source]int)
	for _, claim := range claims {
		counts[claim.Source]++
	}
	if counts[SourceCertificate] != 2 {
		t.Fatalf("expected 2 certificate claims, got %d", counts[SourceCertificate])
	}
}

func TestClaimsAbsentSourcesYieldNothing(t *testing.T) {
	cand := &Candidate{GithubURL: "  https://github.com/alice  "}

	claims := cand.Claims()
	if len(claims) != 1 {
		t.Fatalf("expected exactly 1 claim, got %+v", claims)
	}
	if claims[0].Source != SourceGitHub {
		t.Fatalf("unexpected source %q", claims[0].Source)
	}
	if claims[0].URL != "https://github.com/alice" {
		t.Fatalf("expected trimmed URL, got %q", claims[0].URL)
	}
}

func TestClaimsEmptyRecord(t *testing.T) {
	if claims := (&Candidate{}).Claims(); len(claims) != 0 {
		t.Fatalf("expected no claims from an empty record, got %+v", claims)
	}
}

func TestHasSource(t *testing.T) {
	cand := &Candidate{
		LeetcodeURL:  "https://leetcode.com/alice",
		Certificates: []Certificate{{Name: "cert"}},
	}

	tests := []struct {
		source Source
		expect bool
	}{
		{SourceGitHub, false},
		{SourceLinkedIn, false},
		{SourceLeetCode, true},
		{SourceCertificate, true},
	}

	for _, tt := range tests {
		if got := cand.HasSource(tt.source); got != tt.expect {
			t.Fatalf("HasSource(%q) = %v, expected %v", tt.source, got, tt.expect)
		}
	}
}

func TestFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "candidate.json")
	record := `{
		"name": "Alice",
		"github_url": "https://github.com/alice",
		"certificates": [
			{"name": "AWS Cloud Practitioner", "verification_url": "https://aws.amazon.com/verification/AWS-01-1111"}
		],
		"component_scores": {"github": 85, "resume": 70}
	}`
	if err := os.WriteFile(path, []byte(record), 0o600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	cand, err := FromFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cand.Name != "Alice" || cand.GithubURL != "https://github.com/alice" {
		t.Fatalf("unexpected candidate: %+v", cand)
	}
	if len(cand.Certificates) != 1 || cand.Certificates[0].Name != "AWS Cloud Practitioner" {
		t.Fatalf("unexpected certificates: %+v", cand.Certificates)
	}
	if cand.ComponentScores["github"] != 85 {
		t.Fatalf("unexpected component scores: %+v", cand.ComponentScores)
	}
}

func TestFromFileMissing(t *testing.T) {
	if _, err := FromFile(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatalf("expected an error for a missing file")
	}
}

func TestFromFileMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "candidate.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	if _, err := FromFile(path); err == nil {
		t.Fatalf("expected an error for malformed JSON")
	}
}

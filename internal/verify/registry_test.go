package verify

import (
	"testing"
)

func TestDefaultRegistryMatch(t *testing.T) {
	registry := DefaultRegistry()

	tests := []struct {
		name     string
		certName string
		certURL  string
		expect   string
	}{
		{"by name", "Microsoft Azure Fundamentals", "", "microsoft"},
		{"by url", "", "https://aws.amazon.com/verification/AWS-01-12345", "aws"},
		{"case insensitive", "COURSERA Machine Learning", "", "coursera"},
		{"no match", "Random Bootcamp", "https://bootcamp.example/cert/1", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := registry.Match(tt.certName, tt.certURL)
			if tt.expect == "" {
				if provider != nil {
					t.Fatalf("expected no match, got %q", provider.Name)
				}
				return
			}
			if provider == nil || provider.Name != tt.expect {
				t.Fatalf("expected provider %q, got %+v", tt.expect, provider)
			}
		})
	}
}

func TestRegistryFromConfig(t *testing.T) {
	registry, err := RegistryFromConfig(map[string]any{
		"Acme": map[string]any{
			"verify-url": "https://certs.acme.example/check/",
			"pattern":    `ACME-\d+`,
			"fields": map[string]any{
				"title": "h1.title",
			},
			"active-status": "Valid",
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	provider := registry.Match("Acme Cloud Associate", "")
	if provider == nil {
		t.Fatalf("expected configured provider to match")
	}
	if provider.Name != "acme" {
		t.Fatalf("expected lowercased name, got %q", provider.Name)
	}
	if got := provider.Pattern.FindString("see ACME-991 here"); got != "ACME-991" {
		t.Fatalf("pattern not compiled correctly, matched %q", got)
	}
	if provider.ActiveStatus != "Valid" {
		t.Fatalf("unexpected active status %q", provider.ActiveStatus)
	}
}

func TestRegistryFromConfigEmptyFallsBack(t *testing.T) {
	registry, err := RegistryFromConfig(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if registry.Match("microsoft", "") == nil {
		t.Fatalf("expected built-in providers when config is empty")
	}
}

func TestRegistryFromConfigInvalidPattern(t *testing.T) {
	_, err := RegistryFromConfig(map[string]any{
		"acme": map[string]any{
			"verify-url": "https://certs.acme.example/check/",
			"pattern":    `ACME-[`,
			"fields":     map[string]any{"title": "h1"},
		},
	})
	if err == nil {
		t.Fatalf("expected an error for an invalid pattern")
	}
}

func TestRegistryFromConfigMissingVerifyURL(t *testing.T) {
	_, err := RegistryFromConfig(map[string]any{
		"acme": map[string]any{
			"pattern": `ACME-\d+`,
			"fields":  map[string]any{"title": "h1"},
		},
	})
	if err == nil {
		t.Fatalf("expected an error for a missing verify-url")
	}
}

func TestRegistryNames(t *testing.T) {
	names := DefaultRegistry().Names()
	if len(names) != 3 {
		t.Fatalf("expected 3 built-in providers, got %v", names)
	}
}

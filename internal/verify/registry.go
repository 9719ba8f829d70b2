package verify

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// FieldSelectors maps certificate page fields to CSS selectors. Empty
// selectors are simply not extracted.
type FieldSelectors struct {
	Title  string `mapstructure:"title"`
	Date   string `mapstructure:"date"`
	Status string `mapstructure:"status"`
}

// ProviderSpec describes one certificate issuer: where to verify and how to
// read the verification page. Specs are data, not code, so adding an issuer
// is a configuration change.
type ProviderSpec struct {
	Name string `mapstructure:"-"`
	// VerifyURL is the verification endpoint prefix; the certificate ID is
	// appended to it.
	VerifyURL string `mapstructure:"verify-url"`
	// Pattern extracts the certificate ID from the claim URL.
	Pattern *regexp.Regexp `mapstructure:"pattern"`
	Fields  FieldSelectors `mapstructure:"fields"`
	// ActiveStatus is the status text that counts as an active certificate.
	ActiveStatus string `mapstructure:"active-status"`
}

// Registry is the immutable provider table, built once at startup and shared
// read-only by all concurrent verifications.
type Registry struct {
	providers []ProviderSpec
}

// DefaultRegistry returns the built-in issuer table.
func DefaultRegistry() *Registry {
	return &Registry{providers: []ProviderSpec{
		{
			Name:      "microsoft",
			VerifyURL: "https://learn.microsoft.com/en-us/users/validate-certification/",
			Pattern:   regexp.MustCompile(`MS-\d{3,}`),
			Fields: FieldSelectors{
				Title:  ".certification-title",
				Date:   ".certification-date",
				Status: ".certification-status",
			},
			ActiveStatus: "Active",
		},
		{
			Name:      "aws",
			VerifyURL: "https://aws.amazon.com/verification/",
			Pattern:   regexp.MustCompile(`AWS-\d{2,}-\d{4,}`),
			Fields: FieldSelectors{
				Title:  ".credential-title",
				Date:   ".credential-issue-date",
				Status: ".credential-status",
			},
			ActiveStatus: "Active",
		},
		{
			Name:      "coursera",
			VerifyURL: "https://www.coursera.org/verify/",
			Pattern:   regexp.MustCompile(`[A-Z0-9]{10,}`),
			Fields: FieldSelectors{
				Title:  "h1",
				Date:   ".completion-date",
				Status: ".verification-status",
			},
			ActiveStatus: "Verified",
		},
	}}
}

// RegistryFromConfig decodes a provider table from raw configuration, e.g.
// viper's `providers` key. Patterns arrive as strings and are compiled by a
// decode hook; an invalid pattern fails startup, not a verification run.
func RegistryFromConfig(raw map[string]any) (*Registry, error) {
	if len(raw) == 0 {
		return DefaultRegistry(), nil
	}

	providers := make([]ProviderSpec, 0, len(raw))
	for name, entry := range raw {
		var spec ProviderSpec

		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			DecodeHook: regexpDecodeHook,
			Result:     &spec,
		})
		if err != nil {
			return nil, fmt.Errorf("provider %q: %w", name, err)
		}

		if err := decoder.Decode(entry); err != nil {
			return nil, fmt.Errorf("provider %q: %w", name, err)
		}

		spec.Name = strings.ToLower(strings.TrimSpace(name))
		if err := spec.validate(); err != nil {
			return nil, fmt.Errorf("provider %q: %w", name, err)
		}

		providers = append(providers, spec)
	}

	return &Registry{providers: providers}, nil
}

func (s *ProviderSpec) validate() error {
	if s.Name == "" {
		return fmt.Errorf("provider name is required")
	}
	if strings.TrimSpace(s.VerifyURL) == "" {
		return fmt.Errorf("verify-url is required")
	}
	if s.Pattern == nil {
		return fmt.Errorf("pattern is required")
	}
	if s.Fields == (FieldSelectors{}) {
		return fmt.Errorf("at least one field selector is required")
	}
	return nil
}

// Match identifies the issuing provider by substring match against the
// certificate name or verification URL. Returns nil when no provider matches.
func (r *Registry) Match(certName, certURL string) *ProviderSpec {
	name := strings.ToLower(certName)
	url := strings.ToLower(certURL)

	for i := range r.providers {
		p := &r.providers[i]
		if strings.Contains(name, p.Name) || strings.Contains(url, p.Name) {
			return p
		}
	}
	return nil
}

// Names returns the configured provider names, for logging.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for _, p := range r.providers {
		names = append(names, p.Name)
	}
	return names
}

// regexpDecodeHook compiles string values into *regexp.Regexp targets.
func regexpDecodeHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to != reflect.TypeOf(&regexp.Regexp{}) {
		return data, nil
	}

	pattern, ok := data.(string)
	if !ok || strings.TrimSpace(pattern) == "" {
		return nil, fmt.Errorf("pattern must be a non-empty string")
	}

	compiled, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compiling pattern %q: %w", pattern, err)
	}

	return compiled, nil
}

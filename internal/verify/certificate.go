package verify

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/credlens/credlens/internal/candidate"
	"github.com/credlens/credlens/internal/fetch"
	"go.uber.org/zap"
)

// Confidence increments per parsed certificate field.
const (
	certTitleWeight  = 0.4
	certDateWeight   = 0.3
	certStatusWeight = 0.3

	// certUnparseableConfidence applies when the verification page is
	// reachable but none of the expected fields can be extracted. Partial
	// evidence: the page exists, the certificate may too.
	certUnparseableConfidence = 0.1
)

// certificateDetails holds the fields extracted from a verification page.
type certificateDetails struct {
	Title  string
	Date   string
	Status string
}

func (d certificateDetails) empty() bool {
	return d.Title == "" && d.Date == "" && d.Status == ""
}

// CertificateVerifier resolves an issuer from the registry, extracts the
// certificate ID and parses the issuer's verification page.
type CertificateVerifier struct {
	registry *Registry
	client   *fetch.Client
	retry    fetch.RetryConfig
	logger   *zap.Logger
}

func NewCertificateVerifier(registry *Registry, client *fetch.Client, retry fetch.RetryConfig, logger *zap.Logger) *CertificateVerifier {
	if registry == nil {
		registry = DefaultRegistry()
	}
	return &CertificateVerifier{
		registry: registry,
		client:   client,
		retry:    retry,
		logger:   logger,
	}
}

func (v *CertificateVerifier) Source() candidate.Source { return candidate.SourceCertificate }

func (v *CertificateVerifier) Verify(ctx context.Context, claim candidate.Claim) Verdict {
	if claim.URL == "" && claim.Name == "" {
		return invalid(v.Source(), "No certificate URL provided")
	}

	provider := v.registry.Match(claim.Name, claim.URL)
	if provider == nil {
		return invalid(v.Source(), "Unable to identify certificate provider")
	}

	certID := provider.Pattern.FindString(claim.URL)
	if certID == "" {
		return invalid(v.Source(), "Certificate ID not found or invalid format")
	}

	verifyURL := provider.VerifyURL + certID

	var page []byte
	err := fetch.Retry(ctx, v.retry, v.logger, func(ctx context.Context) error {
		resp, err := v.client.Get(ctx, verifyURL)
		if err != nil {
			return err
		}
		page = resp.Body
		return nil
	})
	if err != nil {
		return invalid(v.Source(), fmt.Sprintf("Certificate verification failed: %v", err))
	}

	details, err := parseCertificatePage(page, provider)
	if err != nil {
		return invalid(v.Source(), fmt.Sprintf("Certificate verification failed: %v", err))
	}

	if details.empty() {
		v.logger.Debug("certificate page reachable but unparseable",
			zap.String("provider", provider.Name),
			zap.String("url", verifyURL),
		)
		return invalidWithConfidence(v.Source(),
			"Certificate page reachable but no verification details found",
			certUnparseableConfidence,
		)
	}

	confidence := certificateConfidence(details, provider.ActiveStatus)

	v.logger.Debug("certificate verified",
		zap.String("provider", provider.Name),
		zap.String("certificate_id", certID),
		zap.String("status", details.Status),
		zap.Float64("confidence", confidence),
	)

	return valid(v.Source(), formatCertificateDetails(provider.Name, details), confidence)
}

func parseCertificatePage(page []byte, provider *ProviderSpec) (certificateDetails, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return certificateDetails{}, &fetch.Error{Kind: fetch.KindParse, URL: provider.VerifyURL, Err: err}
	}

	return certificateDetails{
		Title:  selectText(doc, provider.Fields.Title),
		Date:   selectText(doc, provider.Fields.Date),
		Status: selectText(doc, provider.Fields.Status),
	}, nil
}

func selectText(doc *goquery.Document, selector string) string {
	if selector == "" {
		return ""
	}
	return strings.TrimSpace(doc.Find(selector).First().Text())
}

func certificateConfidence(details certificateDetails, activeStatus string) float64 {
	score := 0.0
	if details.Title != "" {
		score += certTitleWeight
	}
	if details.Date != "" {
		score += certDateWeight
	}
	if details.Status == activeStatus {
		score += certStatusWeight
	}
	return score
}

func formatCertificateDetails(provider string, details certificateDetails) string {
	title := details.Title
	if title == "" {
		title = "Unknown"
	}
	status := details.Status
	if status == "" {
		status = "Unknown"
	}
	return fmt.Sprintf("Verified %s certification: %s (Status: %s)", capitalize(provider), title, status)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/credlens/credlens/internal/ai"
	"github.com/credlens/credlens/internal/score"
	"github.com/credlens/credlens/internal/utils"
	"github.com/credlens/credlens/internal/verify"
	"go.uber.org/zap"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

//go:embed prompt.md
var promptTemplate string

const defaultMaxLogLength = 200

// Explainer renders an analysis run into a recruiter-facing narrative via
// Gemini.
type Explainer struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

func NewExplainer(generator contentGenerator, logger *zap.Logger, maxLogLength int) *Explainer {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Explainer{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

func (e *Explainer) Explain(ctx context.Context, report *verify.Report, credibility *score.CredibilityResult, composite *score.CompositeResult) (*ai.Explanation, error) {
	if report == nil {
		return nil, fmt.Errorf("verification report is required")
	}

	reportJSON, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal report payload: %w", err)
	}

	scores := map[string]any{}
	if credibility != nil {
		scores["credibility"] = credibility
	}
	if composite != nil {
		scores["composite"] = composite
	}

	scoresJSON, err := json.MarshalIndent(scores, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal scores payload: %w", err)
	}

	prompt := buildPrompt(string(reportJSON), string(scoresJSON))

	e.logger.Debug("gemini explain request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, e.maxLogLen)),
	)

	raw, err := e.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("gemini explain response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, e.maxLogLen)),
	)

	summary := strings.TrimSpace(raw)
	if summary == "" {
		return nil, fmt.Errorf("gemini returned an empty narrative")
	}

	return &ai.Explanation{Summary: summary, Raw: raw}, nil
}

func buildPrompt(reportJSON, scoresJSON string) string {
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Report:\n{{REPORT_JSON}}\n\nScores:\n{{SCORES_JSON}}\n\nNarrative:"
	}
	prompt := strings.ReplaceAll(template, "{{REPORT_JSON}}", reportJSON)
	prompt = strings.ReplaceAll(prompt, "{{SCORES_JSON}}", scoresJSON)
	return prompt
}

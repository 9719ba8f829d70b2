// Package score combines per-source verification verdicts and upstream
// heuristic scores into a single bounded, explainable number.
//
// Two aggregation modes exist and both are supported:
//
//   - credibility mode weighs verification confidences and renormalizes over
//     the sources actually present in the candidate record, so a thin record
//     narrows the evidence but does not zero out the achievable score;
//   - composite mode is a fixed linear combination of six raw component
//     scores where a missing component simply scores zero.
//
// Which mode is authoritative is a product decision; the engine exposes both.
package score

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/credlens/credlens/internal/candidate"
	"github.com/credlens/credlens/internal/verify"
)

// ComponentWeight is static, read-only configuration for one scored
// component.
type ComponentWeight struct {
	Weight      float64 `json:"weight" mapstructure:"weight"`
	Description string  `json:"description" mapstructure:"description"`
	Importance  string  `json:"importance" mapstructure:"importance"`
}

// weightSumTolerance absorbs float drift when validating that weights sum
// to 1.
const weightSumTolerance = 1e-6

// Composite mode component names.
const (
	ComponentGithub         = "github"
	ComponentLeetcode       = "leetcode"
	ComponentCertifications = "certifications"
	ComponentDesign         = "design"
	ComponentResume         = "resume"
	ComponentLinkedin       = "linkedin"
)

// CredibilityWeights returns the default verdict-weighted mode weights.
func CredibilityWeights() map[candidate.Source]ComponentWeight {
	return map[candidate.Source]ComponentWeight{
		candidate.SourceGitHub:      {Weight: 0.3, Description: "Code hosting activity", Importance: "Critical"},
		candidate.SourceLinkedIn:    {Weight: 0.2, Description: "Professional network presence", Importance: "Medium"},
		candidate.SourceCertificate: {Weight: 0.3, Description: "Certified qualifications", Importance: "High"},
		candidate.SourceLeetCode:    {Weight: 0.2, Description: "Competitive programming activity", Importance: "High"},
	}
}

// CompositeWeights returns the default score-weighted mode weights across the
// six components. They sum to 1 and are not renormalized for missing
// components.
func CompositeWeights() map[string]ComponentWeight {
	return map[string]ComponentWeight{
		ComponentGithub:         {Weight: 0.3, Description: "Technical implementation skills", Importance: "Critical"},
		ComponentLeetcode:       {Weight: 0.2, Description: "Algorithmic problem-solving", Importance: "High"},
		ComponentCertifications: {Weight: 0.2, Description: "Professional qualifications", Importance: "High"},
		ComponentDesign:         {Weight: 0.1, Description: "Creative capabilities", Importance: "Medium"},
		ComponentResume:         {Weight: 0.1, Description: "Professional presentation", Importance: "Medium"},
		ComponentLinkedin:       {Weight: 0.1, Description: "Professional networking", Importance: "Medium"},
	}
}

// ValidateWeights rejects broken weight tables at startup: every weight must
// be positive and the table must sum to 1. A record-analysis run never fails
// on weights; only configuration can.
func ValidateWeights[K comparable](weights map[K]ComponentWeight) error {
	if len(weights) == 0 {
		return fmt.Errorf("no component weights configured")
	}

	sum := 0.0
	for name, w := range weights {
		if w.Weight <= 0 {
			return fmt.Errorf("weight for %v must be positive, got %v", name, w.Weight)
		}
		sum += w.Weight
	}

	if math.Abs(sum-1) > weightSumTolerance {
		return fmt.Errorf("component weights must sum to 1.0, got %v", sum)
	}

	return nil
}

// CredibilityResult is the outcome of the verdict-weighted aggregation.
type CredibilityResult struct {
	// FinalScore is in [0,100]. Zero by convention when no verifiable
	// source was present.
	FinalScore float64 `json:"final_score" mapstructure:"final_score"`
	// Components holds the per-source confidence that entered the score.
	Components map[string]float64 `json:"component_scores" mapstructure:"component_scores"`
	// WeightsUsed lists only the sources present in the record, for audit.
	WeightsUsed map[string]float64 `json:"weights_used" mapstructure:"weights_used"`
}

// Credibility computes the verdict-weighted score. Certificates contribute
// the mean confidence across all certificate verdicts and are skipped when
// the list is empty. Sources absent from the report contribute to neither
// numerator nor denominator.
func Credibility(report *verify.Report, weights map[candidate.Source]ComponentWeight) *CredibilityResult {
	result := &CredibilityResult{
		Components:  make(map[string]float64),
		WeightsUsed: make(map[string]float64),
	}

	totalScore := 0.0
	totalWeight := 0.0

	for source, verdict := range report.Verdicts() {
		w, ok := weights[source]
		if !ok {
			continue
		}
		confidence := clamp01(verdict.Confidence)

		result.Components[string(source)] = confidence
		result.WeightsUsed[string(source)] = w.Weight
		totalScore += confidence * w.Weight
		totalWeight += w.Weight
	}

	if len(report.Certificates) > 0 {
		w, ok := weights[candidate.SourceCertificate]
		if ok {
			mean := 0.0
			for _, verdict := range report.Certificates {
				mean += clamp01(verdict.Confidence)
			}
			mean /= float64(len(report.Certificates))

			result.Components[string(candidate.SourceCertificate)] = mean
			result.WeightsUsed[string(candidate.SourceCertificate)] = w.Weight
			totalScore += mean * w.Weight
			totalWeight += w.Weight
		}
	}

	if totalWeight == 0 {
		return result
	}

	result.FinalScore = round2(totalScore / totalWeight * 100)

	return result
}

// CompositeResult is the outcome of the score-weighted aggregation.
type CompositeResult struct {
	FinalScore       float64 `json:"final_score" mapstructure:"final_score"`
	Grade            Grade   `json:"grade" mapstructure:"grade"`
	GradeDescription string  `json:"grade_description" mapstructure:"grade_description"`

	ComponentScores map[string]float64 `json:"component_scores" mapstructure:"component_scores"`
	WeightsUsed     map[string]float64 `json:"weights_used" mapstructure:"weights_used"`

	Strengths    []string `json:"strengths,omitempty" mapstructure:"strengths,omitempty"`
	Improvements []string `json:"areas_for_improvement,omitempty" mapstructure:"areas_for_improvement,omitempty"`
}

// Thresholds for the strengths / improvements lists.
const (
	strengthThreshold    = 80.0
	improvementThreshold = 70.0
)

// Composite computes the score-weighted aggregation over the fixed component
// table. Every input is clamped to [0,100] first; a missing component scores
// zero rather than being excluded.
func Composite(scores map[string]float64, weights map[string]ComponentWeight) *CompositeResult {
	result := &CompositeResult{
		ComponentScores: make(map[string]float64, len(weights)),
		WeightsUsed:     make(map[string]float64, len(weights)),
	}

	components := make([]string, 0, len(weights))
	for component := range weights {
		components = append(components, component)
	}
	sort.Strings(components)

	final := 0.0
	for _, component := range components {
		w := weights[component]
		value := clamp100(scores[component])

		result.ComponentScores[component] = value
		result.WeightsUsed[component] = w.Weight
		final += value * w.Weight

		if value >= strengthThreshold {
			result.Strengths = append(result.Strengths,
				fmt.Sprintf("Strong %s (%.1f/100)", strings.ToLower(w.Description), value))
		} else if value < improvementThreshold {
			result.Improvements = append(result.Improvements,
				fmt.Sprintf("Improve %s (currently %.1f/100)", strings.ToLower(w.Description), value))
		}
	}

	result.FinalScore = round2(final)
	result.Grade, result.GradeDescription = GradeFor(result.FinalScore)

	return result
}

func clamp01(v float64) float64 {
	return math.Min(math.Max(v, 0), 1)
}

func clamp100(v float64) float64 {
	return math.Min(math.Max(v, 0), 100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

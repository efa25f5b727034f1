// Package ai defines the contract between the recommendation pipeline and the
// external text-generation oracle.
package ai

import (
	"context"
	"errors"

	"github.com/bridgeskills/bridgeskills/internal/profile"
)

var (
	// ErrUnavailable marks an oracle call that failed in transport.
	ErrUnavailable = errors.New("recommendation oracle unavailable")
	// ErrAllChunksFailed is returned when no chunk of a long resume could be
	// processed.
	ErrAllChunksFailed = errors.New("all resume chunks failed")
)

type MatchPercentages struct {
	SkillMatch      float64 `json:"skillMatch"`
	ExperienceMatch float64 `json:"experienceMatch"`
	MOSMatch        float64 `json:"mosMatch"`
	TechnicalMatch  float64 `json:"technicalMatch"`
	OverallMatch    float64 `json:"overallMatch"`
}

// RawRecommendation is one career suggestion as reported by the oracle, with
// its self-assessed match percentages.
type RawRecommendation struct {
	Title                     string           `json:"title"`
	MatchPercentages          MatchPercentages `json:"matchPercentages"`
	ReasonForMatch            string           `json:"reasonForMatch"`
	RequiredSkills            []string         `json:"requiredSkills"`
	SuggestedIndustries       []string         `json:"suggestedIndustries"`
	RecommendedCertifications []string         `json:"recommendedCertifications"`
	CareerProgression         string           `json:"careerProgression"`
}

type ParseKind int

const (
	// ParseFailed means neither the JSON nor the text recovery path produced
	// anything.
	ParseFailed ParseKind = iota
	// ParseStructured means the response was schema-valid JSON.
	ParseStructured
	// ParseRecovered means recommendations were salvaged from free text.
	ParseRecovered
)

func (k ParseKind) String() string {
	switch k {
	case ParseStructured:
		return "structured"
	case ParseRecovered:
		return "recovered"
	default:
		return "failed"
	}
}

type ParseResult struct {
	Kind            ParseKind
	Recommendations []RawRecommendation
	// Err explains a failed parse.
	Err error
}

func Structured(recs []RawRecommendation) ParseResult {
	return ParseResult{Kind: ParseStructured, Recommendations: recs}
}

func Recovered(recs []RawRecommendation) ParseResult {
	return ParseResult{Kind: ParseRecovered, Recommendations: recs}
}

func Failed(err error) ParseResult {
	return ParseResult{Kind: ParseFailed, Err: err}
}

// Outcome is the result of asking the oracle for recommendations. An
// unavailable outcome is distinct from an available one with no
// recommendations: only the former triggers static fallbacks.
type Outcome struct {
	Recommendations []RawRecommendation
	Parse           ParseKind
	Unavailable     bool
	Err             error
}

func Available(result ParseResult) Outcome {
	return Outcome{Recommendations: result.Recommendations, Parse: result.Kind, Err: result.Err}
}

func Unavailable(err error) Outcome {
	if err == nil {
		err = ErrUnavailable
	} else if !errors.Is(err, ErrUnavailable) {
		err = errors.Join(ErrUnavailable, err)
	}
	return Outcome{Unavailable: true, Parse: ParseFailed, Err: err}
}

// Oracle turns a candidate background into civilian career suggestions. It
// never returns an error: failures are reported through Outcome.
type Oracle interface {
	Recommend(ctx context.Context, data profile.ExtractedData) Outcome
	Provider() string
	Model() string
}

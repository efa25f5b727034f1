// Package recommend turns a candidate background into the recommendation
// response envelope: oracle call, salary enrichment, optional re-scoring and
// aggregation.
package recommend

import (
	"time"

	"github.com/bridgeskills/bridgeskills/internal/market"
	"github.com/bridgeskills/bridgeskills/internal/profile"
)

const (
	DemandHigh   = "High"
	DemandMedium = "Medium"
	DemandLow    = "Low"
)

// MatchDetails holds sub-scores in [0,100].
type MatchDetails struct {
	SkillMatch      int `json:"skillMatch"`
	ExperienceMatch int `json:"experienceMatch"`
	MOSMatch        int `json:"mosMatch"`
	TechnicalMatch  int `json:"technicalMatch"`
}

type SalaryInsights struct {
	Median       int                           `json:"median"`
	ByExperience market.ExperienceRanges       `json:"byExperience"`
	ByLocation   map[string]market.SalaryRange `json:"byLocation"`
	ByIndustry   map[string]market.SalaryRange `json:"byIndustry"`
}

type JobRecommendation struct {
	ID                        string         `json:"id"`
	Title                     string         `json:"title"`
	Description               string         `json:"description"`
	SalaryRange               string         `json:"salaryRange"`
	SalaryInsights            SalaryInsights `json:"salaryInsights"`
	RequiredSkills            []string       `json:"requiredSkills"`
	DemandTrend               string         `json:"demandTrend"`
	Industries                []string       `json:"industries"`
	MatchReason               string         `json:"matchReason"`
	MatchScore                int            `json:"matchScore"`
	MatchDetails              MatchDetails   `json:"matchDetails"`
	RecommendedCertifications []string       `json:"recommendedCertifications"`
	CareerProgression         string         `json:"careerProgression"`
}

type MarketInsights struct {
	IndustryGrowth string   `json:"industryGrowth"`
	TopLocations   []string `json:"topLocations"`
	KeyTrends      []string `json:"keyTrends"`
}

// Response is the envelope returned to every caller, including on failure.
type Response struct {
	Recommendations []JobRecommendation  `json:"recommendations"`
	MarketInsights  MarketInsights       `json:"marketInsights"`
	Timestamp       time.Time            `json:"timestamp"`
	Error           string               `json:"error,omitempty"`
	Fields          []profile.FieldError `json:"fields,omitempty"`
}

// DemandTrend derives the demand label from a match score.
func DemandTrend(score int) string {
	switch {
	case score > 80:
		return DemandHigh
	case score > 60:
		return DemandMedium
	default:
		return DemandLow
	}
}

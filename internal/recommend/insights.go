package recommend

import (
	"fmt"
	"strings"
	"time"

	"github.com/bridgeskills/bridgeskills/internal/profile"
)

const (
	maxTopLocations = 3
	maxKeyTrends    = 4

	trendClearance   = "Security clearance highly valued in private sector"
	trendLeadership  = "Growing demand for veterans in leadership roles"
	trendRemoteTech  = "Increased remote work opportunities in tech sector"
	trendCyberDemand = "Rising demand for cybersecurity professionals with military background"

	failureMessage = "Failed to generate recommendations"
)

// GenericTrends are reported when there is nothing to derive trends from.
var GenericTrends = []string{
	"Growing demand for veterans in tech roles",
	"Increased focus on cybersecurity expertise",
	"Remote work opportunities expanding",
}

// Insights summarizes a non-empty result set. skills are the candidate's own
// skills and only influence the trend list.
func Insights(recs []JobRecommendation, skills []string) MarketInsights {
	if len(recs) == 0 {
		return EmptyInsights()
	}
	return MarketInsights{
		IndustryGrowth: fmt.Sprintf("%d relevant positions found", len(recs)),
		TopLocations:   topIndustries(recs),
		KeyTrends:      keyTrends(recs, skills),
	}
}

// EmptyInsights is reported when no recommendation survived.
func EmptyInsights() MarketInsights {
	return MarketInsights{
		IndustryGrowth: "No matching positions found",
		TopLocations:   []string{},
		KeyTrends:      append([]string(nil), GenericTrends...),
	}
}

// FailureResponse is the envelope sent with a 500.
func FailureResponse(now time.Time) Response {
	return Response{
		Recommendations: []JobRecommendation{},
		MarketInsights: MarketInsights{
			IndustryGrowth: "Data not available",
			TopLocations:   []string{},
			KeyTrends:      []string{},
		},
		Timestamp: now.UTC(),
		Error:     failureMessage,
	}
}

// InvalidResponse is the failure envelope for a rejected request, carrying
// the reason and the offending fields.
func InvalidResponse(now time.Time, msg string, fields []profile.FieldError) Response {
	resp := FailureResponse(now)
	resp.Error = msg
	resp.Fields = fields
	return resp
}

func topIndustries(recs []JobRecommendation) []string {
	out := []string{}
	seen := map[string]struct{}{}
	for _, r := range recs {
		for _, industry := range r.Industries {
			if _, ok := seen[industry]; ok || industry == "" {
				continue
			}
			seen[industry] = struct{}{}
			out = append(out, industry)
			if len(out) == maxTopLocations {
				return out
			}
		}
	}
	return out
}

func keyTrends(recs []JobRecommendation, skills []string) []string {
	var trends []string

	for _, r := range recs {
		if strings.Contains(strings.ToLower(r.Title), "security") || strings.Contains(strings.ToLower(r.Description), "security") {
			trends = append(trends, trendClearance)
			break
		}
	}

	trends = append(trends, trendLeadership, trendRemoteTech)

	for _, s := range skills {
		if strings.Contains(strings.ToLower(s), "cyber") {
			trends = append(trends, trendCyberDemand)
			break
		}
	}

	return dedupeStrings(trends, maxKeyTrends)
}

func dedupeStrings(values []string, limit int) []string {
	out := make([]string, 0, len(values))
	seen := map[string]struct{}{}
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

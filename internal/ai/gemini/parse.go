package gemini

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/bridgeskills/bridgeskills/internal/ai"
)

var errNoRecommendations = errors.New("response contains no recommendations")

// parseResponse decodes an oracle answer. Schema-valid JSON is the primary
// path; only text that is not JSON at all goes through heuristic recovery.
func parseResponse(raw string) ai.ParseResult {
	cleaned := extractJSON(raw)
	if cleaned == "" {
		return ai.Failed(errNoRecommendations)
	}

	var decoded any
	if err := json.Unmarshal([]byte(cleaned), &decoded); err != nil {
		return recoverFromText(cleaned)
	}

	items, err := recommendationItems(decoded)
	if err != nil {
		return ai.Failed(err)
	}

	recs := make([]ai.RawRecommendation, 0, len(items))
	var invalid []error
	for i, item := range items {
		if err := validateRecommendation(item); err != nil {
			invalid = append(invalid, fmt.Errorf("item %d: %w", i, err))
			continue
		}
		recs = append(recs, toRecommendation(item.(map[string]any)))
	}

	if len(recs) == 0 {
		if len(invalid) > 0 {
			return ai.Failed(errors.Join(invalid...))
		}
		return ai.Failed(errNoRecommendations)
	}
	return ai.Structured(recs)
}

// recommendationItems accepts a bare array or a {"recommendations": [...]}
// envelope.
func recommendationItems(decoded any) ([]any, error) {
	switch v := decoded.(type) {
	case []any:
		return v, nil
	case map[string]any:
		if list, ok := v["recommendations"].([]any); ok {
			return list, nil
		}
		return nil, errors.New("response object has no recommendations array")
	default:
		return nil, fmt.Errorf("unexpected response type %T", decoded)
	}
}

func toRecommendation(m map[string]any) ai.RawRecommendation {
	rec := ai.RawRecommendation{
		Title:                     coerceString(m["title"]),
		ReasonForMatch:            coerceString(m["reasonForMatch"]),
		RequiredSkills:            coerceStrings(m["requiredSkills"]),
		SuggestedIndustries:       coerceStrings(m["suggestedIndustries"]),
		RecommendedCertifications: coerceStrings(m["recommendedCertifications"]),
		CareerProgression:         coerceString(m["careerProgression"]),
	}

	pct, _ := m["matchPercentages"].(map[string]any)
	rec.MatchPercentages = ai.MatchPercentages{
		SkillMatch:      percentage(pct["skillMatch"]),
		ExperienceMatch: percentage(pct["experienceMatch"]),
		MOSMatch:        percentage(pct["mosMatch"]),
		TechnicalMatch:  percentage(pct["technicalMatch"]),
		OverallMatch:    percentage(pct["overallMatch"]),
	}
	return rec
}

// extractJSON strips markdown code fences around the payload.
func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```JSON")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

// percentage coerces a loosely typed value into [0,100]; missing or garbage
// values become 0.
func percentage(v any) float64 {
	f := coerceFloat(v)
	if math.IsNaN(f) || f < 0 {
		return 0
	}
	if f > 100 {
		return 100
	}
	return f
}

func coerceFloat(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case int:
		return float64(val)
	case string:
		trimmed := strings.TrimSuffix(strings.TrimSpace(val), "%")
		if trimmed == "" {
			return math.NaN()
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(trimmed), 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case nil:
		return ""
	default:
		bytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(bytes)
	}
}

func coerceStrings(v any) []string {
	list, ok := v.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		if s := coerceString(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}

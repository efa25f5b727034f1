package gemini

import (
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// recommendationSchema accepts loosely typed percentages; they are coerced
// after validation.
const recommendationSchema = `{
  "type": "object",
  "required": ["title"],
  "properties": {
    "title": {"type": "string", "minLength": 1, "pattern": "\\S"},
    "matchPercentages": {
      "type": "object",
      "properties": {
        "skillMatch": {"type": ["number", "string"]},
        "experienceMatch": {"type": ["number", "string"]},
        "mosMatch": {"type": ["number", "string"]},
        "technicalMatch": {"type": ["number", "string"]},
        "overallMatch": {"type": ["number", "string"]}
      }
    },
    "reasonForMatch": {"type": "string"},
    "requiredSkills": {"type": "array", "items": {"type": "string"}},
    "suggestedIndustries": {"type": "array", "items": {"type": "string"}},
    "recommendedCertifications": {"type": "array", "items": {"type": "string"}},
    "careerProgression": {"type": "string"}
  }
}`

var (
	schemaOnce sync.Once
	schema     *gojsonschema.Schema
	schemaErr  error
)

func recommendationValidator() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(recommendationSchema))
	})
	return schema, schemaErr
}

// validateRecommendation checks one decoded recommendation object.
func validateRecommendation(item any) error {
	s, err := recommendationValidator()
	if err != nil {
		return fmt.Errorf("load recommendation schema: %w", err)
	}

	result, err := s.Validate(gojsonschema.NewGoLoader(item))
	if err != nil {
		return fmt.Errorf("validate recommendation: %w", err)
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("recommendation does not match schema: %s", strings.Join(msgs, "; "))
}

package gemini

import (
	"encoding/json"
	"fmt"

	"github.com/bridgeskills/bridgeskills/internal/profile"
	"github.com/mitchellh/mapstructure"
)

// decodeExtracted reads a model-produced background record. Models often quote
// numbers or booleans, so decoding is weakly typed.
func decodeExtracted(raw string) (profile.ExtractedData, error) {
	var generic map[string]any
	if err := json.Unmarshal([]byte(raw), &generic); err != nil {
		return profile.ExtractedData{}, fmt.Errorf("parse extracted data: %w", err)
	}

	var data profile.ExtractedData
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
		Result:           &data,
	})
	if err != nil {
		return profile.ExtractedData{}, fmt.Errorf("create decoder: %w", err)
	}
	if err := decoder.Decode(generic); err != nil {
		return profile.ExtractedData{}, fmt.Errorf("decode extracted data: %w", err)
	}

	// resume text is never taken from the model
	data.ResumeText = ""
	return data, nil
}

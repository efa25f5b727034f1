package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const (
	defaultModel           = "gemini-2.5-flash"
	defaultMaxOutputTokens = 4096

	// DefaultTemperature keeps answers stable across identical requests.
	DefaultTemperature = 0.2
	minTemperature     = 0.1

	jsonMIMEType = "application/json"
)

// GeneratorConfig tunes every request sent by a Generator.
type GeneratorConfig struct {
	APIKey          string
	Model           string
	Temperature     float32
	MaxOutputTokens int32
	// SystemInstruction is sent with every request when set.
	SystemInstruction string
	// JSONResponse asks the model for an application/json response body.
	JSONResponse bool
}

// Generator wraps the Google GenAI client to provide simple prompt-based interactions.
type Generator struct {
	client    *genai.Client
	modelName string
	config    *genai.GenerateContentConfig
}

// NewGenerator creates a new Generator configured for the Gemini API backend.
func NewGenerator(ctx context.Context, cfg GeneratorConfig) (*Generator, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}

	return &Generator{client: client, modelName: model, config: contentConfig(cfg)}, nil
}

func contentConfig(cfg GeneratorConfig) *genai.GenerateContentConfig {
	// the request temperature stays within [minTemperature, DefaultTemperature]
	temperature := cfg.Temperature
	switch {
	case temperature <= 0 || temperature > DefaultTemperature:
		temperature = DefaultTemperature
	case temperature < minTemperature:
		temperature = minTemperature
	}
	maxTokens := cfg.MaxOutputTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxOutputTokens
	}

	out := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: maxTokens,
	}
	if cfg.JSONResponse {
		out.ResponseMIMEType = jsonMIMEType
	}
	if instruction := strings.TrimSpace(cfg.SystemInstruction); instruction != "" {
		out.SystemInstruction = genai.NewContentFromText(instruction, genai.RoleUser)
	}
	return out
}

// GenerateContent sends the prompt to Gemini and returns the textual response.
func (g *Generator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	if g == nil || g.client == nil {
		return "", errors.New("gemini generator is not initialized")
	}

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("prompt must not be empty")
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(prompt), g.config)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	output := strings.TrimSpace(builder.String())
	if output == "" {
		return "", errors.New("gemini api returned empty response")
	}

	return output, nil
}

func (g *Generator) Model() string {
	if g == nil {
		return ""
	}
	return g.modelName
}

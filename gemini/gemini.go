// Package gemini adapts a genai.Client to the LLMGenerator interface.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/tokenbench/tokeneval/api"
)

// Generator wraps a genai.Client to implement the LLMGenerator interface
type Generator struct {
	client    *genai.Client
	modelName string
}

// NewGenerator creates a new Gemini generator
// client: genai.Client from google.golang.org/genai
// modelName: the model to use (e.g., "gemini-2.5-flash")
func NewGenerator(client *genai.Client, modelName string) *Generator {
	return &Generator{
		client:    client,
		modelName: modelName,
	}
}

// Generate implements LLMGenerator.Generate
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	return g.generate(ctx, prompt, &genai.GenerateContentConfig{})
}

// StructuredGenerate implements LLMGenerator.StructuredGenerate. The
// schema is described in the prompt and JSON output is requested from
// the model; the reply must decode to a JSON object.
func (g *Generator) StructuredGenerate(ctx context.Context, prompt string, schema map[string]interface{}) (map[string]interface{}, error) {
	schemaJSON, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}

	full := fmt.Sprintf("%s\n\nRespond with a single JSON object matching this schema:\n%s", prompt, schemaJSON)
	reply, err := g.generate(ctx, full, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return nil, err
	}

	var result map[string]interface{}
	if err := json.Unmarshal([]byte(stripFence(reply)), &result); err != nil {
		return nil, fmt.Errorf("%w: failed to parse structured response: %v", api.ErrInvalidVerdict, err)
	}
	return result, nil
}

func (g *Generator) generate(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (string, error) {
	content := &genai.Content{
		Role: "user",
		Parts: []*genai.Part{
			{Text: prompt},
		},
	}

	resp, err := g.client.Models.GenerateContent(
		ctx,
		g.modelName,
		[]*genai.Content{content},
		config,
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", api.ErrLLMGenerationFailed, err)
	}

	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no candidates returned", api.ErrLLMGenerationFailed)
	}

	if len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: no parts in response", api.ErrLLMGenerationFailed)
	}

	return resp.Candidates[0].Content.Parts[0].Text, nil
}

func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = s[len("```json"):]
	} else if strings.HasPrefix(s, "```") {
		s = s[len("```"):]
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))
}

// Verify that Generator implements LLMGenerator
var _ api.LLMGenerator = (*Generator)(nil)

package summarizer

import (
	"SecondBrain/internal/models"
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiSummarizer produces entity summaries with the Gemini API. It is
// optional: the service layer falls back to TemplateSummary whenever it
// returns an error, so a knowledge query never fails because of it.
type GeminiSummarizer struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGeminiSummarizer creates a Gemini client for the given model.
func NewGeminiSummarizer(ctx context.Context, model, apiKey string) (*GeminiSummarizer, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GeminiSummarizer{
		client: client,
		model:  client.GenerativeModel(model),
	}, nil
}

// Summarize asks the model for a short summary of the entity built from its
// recorded mentions.
func (s *GeminiSummarizer) Summarize(ctx context.Context, entityName string, mentions []models.Mention) (string, error) {
	if len(mentions) == 0 {
		return TemplateSummary(entityName, mentions), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Summarize in a few sentences what the following notes say about %q. Mention how often it comes up.\n\n", entityName)
	for _, mention := range mentions {
		sb.WriteString("- ")
		sb.WriteString(mention.Content)
		sb.WriteString("\n")
	}

	resp, err := s.model.GenerateContent(ctx, genai.Text(sb.String()))
	if err != nil {
		return "", fmt.Errorf("failed to generate summary: %w", err)
	}

	var out strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				out.WriteString(string(text))
			}
		}
		break
	}
	if out.Len() == 0 {
		return "", fmt.Errorf("model returned no text")
	}
	return out.String(), nil
}

// Close releases the underlying GenAI client.
func (s *GeminiSummarizer) Close() error {
	return s.client.Close()
}

var _ Summarizer = (*GeminiSummarizer)(nil)

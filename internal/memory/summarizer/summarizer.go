package summarizer

import (
	"SecondBrain/internal/models"
	"context"
	"fmt"
	"strings"
)

// NoInformationFound is the summary returned when no knowledge record matches
// a query. It is a sentinel value, not an error.
const NoInformationFound = "No information found"

// summaryContentLimit caps how much aggregated mention text goes into the
// template summary.
const summaryContentLimit = 500

// Summarizer produces a human-readable summary of an entity from its
// mentions. Implementations may fail (e.g. a remote model); callers must fall
// back to TemplateSummary so a knowledge query always yields some text.
type Summarizer interface {
	Summarize(ctx context.Context, entityName string, mentions []models.Mention) (string, error)
}

// TemplateSummary is the deterministic default summary: mention contents
// joined with spaces, truncated, behind a fixed template naming the entity
// and its mention count.
func TemplateSummary(entityName string, mentions []models.Mention) string {
	if len(mentions) == 0 {
		return fmt.Sprintf("No information available about %s", entityName)
	}

	contents := make([]string, 0, len(mentions))
	for _, mention := range mentions {
		contents = append(contents, mention.Content)
	}
	combined := strings.Join(contents, " ")
	if runes := []rune(combined); len(runes) > summaryContentLimit {
		combined = string(runes[:summaryContentLimit])
	}

	return fmt.Sprintf("Based on %d mentions, here's what I know about %s: %s...", len(mentions), entityName, combined)
}

// TemplateSummarizer is the Summarizer wrapping TemplateSummary. It never
// fails.
type TemplateSummarizer struct{}

// NewTemplateSummarizer creates a new TemplateSummarizer.
func NewTemplateSummarizer() *TemplateSummarizer {
	return &TemplateSummarizer{}
}

// Summarize returns the deterministic template summary.
func (s *TemplateSummarizer) Summarize(ctx context.Context, entityName string, mentions []models.Mention) (string, error) {
	return TemplateSummary(entityName, mentions), nil
}

var _ Summarizer = (*TemplateSummarizer)(nil)

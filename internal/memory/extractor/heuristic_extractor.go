package extractor

import (
	"SecondBrain/internal/models"
	"regexp"
	"strings"
)

const (
	personConfidence       = 0.7
	organizationConfidence = 0.8
	locationConfidence     = 0.6
)

var (
	// A maximal run of capitalized words. Runs of more than three words are
	// discarded entirely rather than truncated.
	personPattern = regexp.MustCompile(`\b[A-Z][a-z]+(?:\s+[A-Z][a-z]+)*\b`)

	// Capitalized words ending in a company-style suffix.
	organizationPattern = regexp.MustCompile(`\b[A-Z][a-zA-Z\s]*(?:Inc|LLC|Corp|Company|Organization)\b`)

	// "<word> <Keyword>" for each location keyword, matched case-insensitively.
	locationKeywords = []string{"City", "State", "Country", "Street", "Avenue", "Road"}
	locationPatterns = func() map[string]*regexp.Regexp {
		patterns := make(map[string]*regexp.Regexp, len(locationKeywords))
		for _, keyword := range locationKeywords {
			patterns[keyword] = regexp.MustCompile(`(?i)\b\w+\s+` + keyword + `\b`)
		}
		return patterns
	}()
)

// HeuristicExtractor proposes entities using fixed regular-expression passes.
// It deliberately over-generates: sentence-initial capitals become person
// candidates and the same substring may be emitted under several types. That
// is the documented behavior, not something to filter here. A model-backed
// Extractor can replace it behind the same interface.
type HeuristicExtractor struct{}

// NewHeuristicExtractor creates a new HeuristicExtractor.
func NewHeuristicExtractor() *HeuristicExtractor {
	return &HeuristicExtractor{}
}

// Extract scans text with three independent passes and concatenates the
// results in the order person, organization, location. It is a pure function
// of its input and never returns an error.
func (e *HeuristicExtractor) Extract(text string) ([]models.ExtractedEntity, error) {
	if strings.TrimSpace(text) == "" {
		return []models.ExtractedEntity{}, nil
	}

	entities := []models.ExtractedEntity{}

	for _, name := range personPattern.FindAllString(text, -1) {
		if len(strings.Fields(name)) <= 3 {
			entities = append(entities, models.ExtractedEntity{
				Name:       name,
				Type:       models.EntityPerson,
				Confidence: personConfidence,
			})
		}
	}

	for _, name := range organizationPattern.FindAllString(text, -1) {
		entities = append(entities, models.ExtractedEntity{
			Name:       name,
			Type:       models.EntityOrganization,
			Confidence: organizationConfidence,
		})
	}

	lowered := strings.ToLower(text)
	for _, keyword := range locationKeywords {
		if !strings.Contains(lowered, strings.ToLower(keyword)) {
			continue
		}
		for _, name := range locationPatterns[keyword].FindAllString(text, -1) {
			entities = append(entities, models.ExtractedEntity{
				Name:       name,
				Type:       models.EntityLocation,
				Confidence: locationConfidence,
			})
		}
	}

	return entities, nil
}

var _ Extractor = (*HeuristicExtractor)(nil)

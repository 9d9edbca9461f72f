package extractor

import "SecondBrain/internal/models"

// Extractor defines the interface for proposing candidate entities from free
// text. Implementations may be fallible (an NER model, an LLM); callers treat
// an error as "zero entities extracted" and never surface it.
type Extractor interface {
	Extract(text string) ([]models.ExtractedEntity, error)
}

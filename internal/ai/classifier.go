package ai

import (
	"context"
	"errors"
)

// Recognized intent categories. The classifier is an open string in practice,
// so anything outside this set is normalized to IntentUnknown.
const (
	IntentTechnical        = "technical"
	IntentBilling          = "billing"
	IntentGeneral          = "general"
	IntentSensitive        = "sensitive"
	IntentComplexTechnical = "complex_technical"
	IntentUnknown          = "unknown"
)

// Recognized priorities.
const (
	PriorityLow      = "low"
	PriorityMedium   = "medium"
	PriorityHigh     = "high"
	PriorityCritical = "critical"
)

var (
	// ErrClassification is returned when the model times out or produces
	// output that cannot be parsed as a classification.
	ErrClassification = errors.New("intent classification failed")

	// ErrGeneration is returned when reply drafting fails.
	ErrGeneration = errors.New("response generation failed")
)

// Classification is the normalized result of classifying a piece of
// customer text.
type Classification struct {
	Intent           string   `json:"intent"`
	Confidence       float64  `json:"confidence"`
	Priority         string   `json:"priority"`
	Summary          string   `json:"summary"`
	SuggestedActions []string `json:"suggestedActions,omitempty"`
}

// Classifier is the port to the external language model: label free text
// with an intent, and draft a reply given that label. Both calls enforce
// their own timeout and fail rather than hang.
type Classifier interface {
	ClassifyIntent(ctx context.Context, text string) (Classification, error)
	GenerateReply(ctx context.Context, text string, cls Classification) (string, error)
}

var knownIntents = map[string]bool{
	IntentTechnical:        true,
	IntentBilling:          true,
	IntentGeneral:          true,
	IntentSensitive:        true,
	IntentComplexTechnical: true,
}

var knownPriorities = map[string]bool{
	PriorityLow:      true,
	PriorityMedium:   true,
	PriorityHigh:     true,
	PriorityCritical: true,
}

// Normalize validates the raw model output in place: confidence is clamped
// to [0,1], unrecognized intents become IntentUnknown and unrecognized
// priorities fall back to medium.
func (c *Classification) Normalize() {
	if c.Confidence < 0 {
		c.Confidence = 0
	}
	if c.Confidence > 1 {
		c.Confidence = 1
	}
	if !knownIntents[c.Intent] {
		c.Intent = IntentUnknown
	}
	if !knownPriorities[c.Priority] {
		c.Priority = PriorityMedium
	}
}

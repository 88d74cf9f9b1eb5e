package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeClampsConfidence(t *testing.T) {
	cls := Classification{Intent: IntentGeneral, Confidence: 1.4, Priority: PriorityLow}
	cls.Normalize()
	assert.Equal(t, 1.0, cls.Confidence)

	cls = Classification{Intent: IntentGeneral, Confidence: -0.2, Priority: PriorityLow}
	cls.Normalize()
	assert.Equal(t, 0.0, cls.Confidence)
}

func TestNormalizeUnknownIntent(t *testing.T) {
	cls := Classification{Intent: "chitchat", Confidence: 0.8, Priority: PriorityMedium}
	cls.Normalize()
	assert.Equal(t, IntentUnknown, cls.Intent)
}

func TestNormalizeBadPriorityFallsBackToMedium(t *testing.T) {
	cls := Classification{Intent: IntentBilling, Confidence: 0.8, Priority: "urgent"}
	cls.Normalize()
	assert.Equal(t, PriorityMedium, cls.Priority)
}

func TestNormalizeKeepsValidValues(t *testing.T) {
	cls := Classification{Intent: IntentComplexTechnical, Confidence: 0.72, Priority: PriorityCritical}
	cls.Normalize()
	assert.Equal(t, IntentComplexTechnical, cls.Intent)
	assert.Equal(t, 0.72, cls.Confidence)
	assert.Equal(t, PriorityCritical, cls.Priority)
}

package ai

import (
	"context"
	"fmt"

	"support-ops-dashboard/backend/pkg/logger"
	"support-ops-dashboard/backend/pkg/resilience"
)

// ResilientClassifier wraps a Classifier with circuit breakers so that a
// hard-down model endpoint fails fast instead of eating a timeout per
// message. Callers see the same error taxonomy either way.
type ResilientClassifier struct {
	inner    Classifier
	classify *resilience.CircuitBreaker
	generate *resilience.CircuitBreaker
}

func NewResilientClassifier(inner Classifier, log *logger.Logger) *ResilientClassifier {
	return &ResilientClassifier{
		inner:    inner,
		classify: resilience.NewCircuitBreaker(resilience.DefaultConfig("classifier.classify"), log),
		generate: resilience.NewCircuitBreaker(resilience.DefaultConfig("classifier.generate"), log),
	}
}

func (c *ResilientClassifier) ClassifyIntent(ctx context.Context, text string) (Classification, error) {
	var cls Classification
	err := c.classify.Execute(func() error {
		var innerErr error
		cls, innerErr = c.inner.ClassifyIntent(ctx, text)
		return innerErr
	})
	if err != nil {
		if err == resilience.ErrCircuitOpen {
			return Classification{}, fmt.Errorf("%w: %v", ErrClassification, err)
		}
		return Classification{}, err
	}
	return cls, nil
}

func (c *ResilientClassifier) GenerateReply(ctx context.Context, text string, cls Classification) (string, error) {
	var reply string
	err := c.generate.Execute(func() error {
		var innerErr error
		reply, innerErr = c.inner.GenerateReply(ctx, text, cls)
		return innerErr
	})
	if err != nil {
		if err == resilience.ErrCircuitOpen {
			return "", fmt.Errorf("%w: %v", ErrGeneration, err)
		}
		return "", err
	}
	return reply, nil
}

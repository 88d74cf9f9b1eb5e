package ai

import (
	"context"
	"errors"
	"io"
	"testing"

	"support-ops-dashboard/backend/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubClassifier struct {
	err   error
	calls int
}

func (s *stubClassifier) ClassifyIntent(ctx context.Context, text string) (Classification, error) {
	s.calls++
	if s.err != nil {
		return Classification{}, s.err
	}
	return Classification{Intent: IntentGeneral, Confidence: 0.9, Priority: PriorityLow}, nil
}

func (s *stubClassifier) GenerateReply(ctx context.Context, text string, cls Classification) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return "ok", nil
}

func TestResilientClassifierPassesThrough(t *testing.T) {
	log := logger.New(logger.Config{Level: "error", Output: io.Discard})
	stub := &stubClassifier{}
	rc := NewResilientClassifier(stub, log)

	cls, err := rc.ClassifyIntent(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, IntentGeneral, cls.Intent)

	reply, err := rc.GenerateReply(context.Background(), "hello", cls)
	require.NoError(t, err)
	assert.Equal(t, "ok", reply)
}

func TestResilientClassifierOpensAfterRepeatedFailures(t *testing.T) {
	log := logger.New(logger.Config{Level: "error", Output: io.Discard})
	stub := &stubClassifier{err: errors.New("connection refused")}
	rc := NewResilientClassifier(stub, log)

	for i := 0; i < 5; i++ {
		_, err := rc.ClassifyIntent(context.Background(), "hello")
		require.Error(t, err)
	}
	callsBeforeOpen := stub.calls

	// Breaker is open now: the downstream is no longer invoked and the error
	// keeps the classification taxonomy.
	_, err := rc.ClassifyIntent(context.Background(), "hello")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrClassification)
	assert.Equal(t, callsBeforeOpen, stub.calls)
}

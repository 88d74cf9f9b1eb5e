package ws

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"support-ops-dashboard/backend/internal/ai"
	"support-ops-dashboard/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClassifier scripts the AI pipeline. The default script is a confident
// general-intent classification with an echo reply.
type fakeClassifier struct {
	mu            sync.Mutex
	classifyFn    func(text string) (ai.Classification, error)
	replyFn       func(text string) (string, error)
	classifyCalls int
}

func (f *fakeClassifier) ClassifyIntent(ctx context.Context, text string) (ai.Classification, error) {
	f.mu.Lock()
	f.classifyCalls++
	fn := f.classifyFn
	f.mu.Unlock()
	if fn != nil {
		return fn(text)
	}
	return ai.Classification{Intent: ai.IntentGeneral, Confidence: 0.95, Priority: ai.PriorityLow}, nil
}

func (f *fakeClassifier) GenerateReply(ctx context.Context, text string, cls ai.Classification) (string, error) {
	f.mu.Lock()
	fn := f.replyFn
	f.mu.Unlock()
	if fn != nil {
		return fn(text)
	}
	return "echo: " + text, nil
}

func (f *fakeClassifier) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.classifyCalls
}

func classification(intent string, confidence float64, priority string) ai.Classification {
	return ai.Classification{Intent: intent, Confidence: confidence, Priority: priority}
}

func newTestEscalator(store *fakeStore, clf ai.Classifier, sink Broadcaster) *Escalator {
	return NewEscalator(store, clf, sink, EscalatorConfig{
		AgentName:     "Sarah Chen",
		GreetingDelay: 10 * time.Millisecond,
	}, testLogger())
}

func TestConfidentMessageGetsAIReply(t *testing.T) {
	store := newFakeStore()
	store.addSession(1, true)
	sink := &recordingBroadcaster{}
	e := newTestEscalator(store, &fakeClassifier{}, sink)
	defer e.Shutdown()

	e.Enqueue(1, "how do I export a report?")

	assert.Eventually(t, func() bool {
		return len(store.messagesFor(1)) == 1
	}, time.Second, 5*time.Millisecond)

	msgs := store.messagesFor(1)
	assert.Equal(t, models.SenderAI, msgs[0].Sender)
	assert.Equal(t, "echo: how do I export a report?", msgs[0].Message)
	require.NotNil(t, msgs[0].AIMetadata)
	assert.Equal(t, ai.IntentGeneral, msgs[0].AIMetadata.Intent)

	// No handoff: the AI stays on the session.
	assert.True(t, store.session(1).IsAIActive)
	assert.Empty(t, store.session(1).AssignedAgent)
}

func TestEscalationSequence(t *testing.T) {
	cases := []struct {
		name string
		cls  ai.Classification
	}{
		{"sensitive intent", classification(ai.IntentSensitive, 0.95, ai.PriorityLow)},
		{"complex technical intent", classification(ai.IntentComplexTechnical, 0.9, ai.PriorityMedium)},
		{"high priority", classification(ai.IntentGeneral, 0.95, ai.PriorityHigh)},
		{"critical priority", classification(ai.IntentBilling, 0.9, ai.PriorityCritical)},
		{"low confidence", classification(ai.IntentGeneral, 0.69, ai.PriorityLow)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := newFakeStore()
			store.addSession(42, true)
			sink := &recordingBroadcaster{}
			clf := &fakeClassifier{classifyFn: func(string) (ai.Classification, error) {
				return tc.cls, nil
			}}
			e := newTestEscalator(store, clf, sink)
			defer e.Shutdown()

			e.Enqueue(42, "please look at this")

			assert.Eventually(t, func() bool {
				return len(store.messagesFor(42)) == 3
			}, time.Second, 5*time.Millisecond)

			msgs := store.messagesFor(42)
			// Acknowledgement first, then the handoff announcement, then the
			// delayed agent greeting.
			assert.Equal(t, models.SenderAI, msgs[0].Sender)
			assert.Contains(t, msgs[0].Message, "connect you with")
			require.NotNil(t, msgs[0].AIMetadata)

			assert.Equal(t, models.SenderSystem, msgs[1].Sender)
			assert.Equal(t, models.MessageSystem, msgs[1].MessageType)
			assert.Contains(t, msgs[1].Message, "Sarah Chen (Technical Support) has joined")

			assert.Equal(t, models.SenderAgent, msgs[2].Sender)
			assert.Equal(t, "Sarah Chen", msgs[2].SenderName)
			assert.Contains(t, msgs[2].Message, "Hi! I'm Sarah")

			sess := store.session(42)
			assert.False(t, sess.IsAIActive)
			assert.Equal(t, "Sarah Chen", sess.AssignedAgent)

			// Every persisted message was also delivered, in the same order.
			events := sink.all()
			require.Len(t, events, 3)
			for i, evt := range events {
				assert.Equal(t, EventNewMessage, evt.Type)
				assert.Equal(t, msgs[i].ID, evt.Message.ID)
			}
		})
	}
}

func TestClassifierFailureDegradesToEscalation(t *testing.T) {
	store := newFakeStore()
	store.addSession(2, true)
	sink := &recordingBroadcaster{}
	clf := &fakeClassifier{classifyFn: func(string) (ai.Classification, error) {
		return ai.Classification{}, errors.New("model timeout")
	}}
	e := newTestEscalator(store, clf, sink)
	defer e.Shutdown()

	e.Enqueue(2, "anything")

	assert.Eventually(t, func() bool {
		return len(store.messagesFor(2)) == 3
	}, time.Second, 5*time.Millisecond)

	msgs := store.messagesFor(2)
	assert.Equal(t, models.SenderAI, msgs[0].Sender)
	assert.Contains(t, msgs[0].Message, "having trouble processing")
	assert.Nil(t, msgs[0].AIMetadata)
	assert.False(t, store.session(2).IsAIActive)
}

func TestReplyFailureDegradesToEscalation(t *testing.T) {
	store := newFakeStore()
	store.addSession(3, true)
	sink := &recordingBroadcaster{}
	clf := &fakeClassifier{replyFn: func(string) (string, error) {
		return "", errors.New("model timeout")
	}}
	e := newTestEscalator(store, clf, sink)
	defer e.Shutdown()

	e.Enqueue(3, "anything")

	assert.Eventually(t, func() bool {
		return len(store.messagesFor(3)) == 3
	}, time.Second, 5*time.Millisecond)

	msgs := store.messagesFor(3)
	assert.Contains(t, msgs[0].Message, "having trouble processing")
	// Classification succeeded, so the fallback keeps its metadata.
	require.NotNil(t, msgs[0].AIMetadata)
	assert.False(t, store.session(3).IsAIActive)
}

func TestEscalationIsSticky(t *testing.T) {
	store := newFakeStore()
	store.addSession(4, false) // already handed to a human
	sink := &recordingBroadcaster{}
	clf := &fakeClassifier{}
	e := newTestEscalator(store, clf, sink)
	defer e.Shutdown()

	e.Enqueue(4, "still broken")

	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, clf.calls())
	assert.Empty(t, store.messagesFor(4))
	assert.Empty(t, sink.all())
}

func TestRepliesKeepArrivalOrderPerSession(t *testing.T) {
	store := newFakeStore()
	store.addSession(5, true)
	sink := &recordingBroadcaster{}
	e := newTestEscalator(store, &fakeClassifier{}, sink)
	defer e.Shutdown()

	for i := 1; i <= 5; i++ {
		e.Enqueue(5, fmt.Sprintf("message %d", i))
	}

	assert.Eventually(t, func() bool {
		return len(store.messagesFor(5)) == 5
	}, 2*time.Second, 5*time.Millisecond)

	msgs := store.messagesFor(5)
	for i, msg := range msgs {
		assert.Equal(t, fmt.Sprintf("echo: message %d", i+1), msg.Message)
	}
}

func TestCancelPendingGreeting(t *testing.T) {
	store := newFakeStore()
	store.addSession(6, true)
	sink := &recordingBroadcaster{}
	clf := &fakeClassifier{classifyFn: func(string) (ai.Classification, error) {
		return classification(ai.IntentSensitive, 0.9, ai.PriorityLow), nil
	}}
	e := NewEscalator(store, clf, sink, EscalatorConfig{
		AgentName:     "Sarah Chen",
		GreetingDelay: time.Hour, // never fires on its own
	}, testLogger())
	defer e.Shutdown()

	e.Enqueue(6, "delete my account")

	// Ack plus handoff announcement, greeting still pending.
	assert.Eventually(t, func() bool {
		return len(store.messagesFor(6)) == 2
	}, time.Second, 5*time.Millisecond)

	assert.True(t, e.CancelPendingGreeting(6))
	assert.False(t, e.CancelPendingGreeting(6))

	time.Sleep(50 * time.Millisecond)
	assert.Len(t, store.messagesFor(6), 2)
}

package ws

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"support-ops-dashboard/backend/internal/ai"
	"support-ops-dashboard/backend/internal/models"
	"support-ops-dashboard/backend/pkg/logger"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// Escalation decision constants. These are fixed properties of the design,
// not tenant configuration.
const (
	confidenceThreshold = 0.7

	defaultAgentName   = "Sarah Chen"
	agentTitle         = "Technical Support"
	aiSenderName       = "AI Assistant"
	defaultGreetDelay  = time.Second
	systemSenderName   = "System"
	fallbackAIMessage  = "I'm having trouble processing your request right now. Let me connect you with a human agent who can help you immediately."
	escalationAckReply = "I understand this is an important issue. Let me connect you with one of our technical specialists who can provide detailed assistance."
)

// shouldEscalate applies the classification-only decision: hand off for
// sensitive or deeply technical intents, for high/critical priority, or when
// the classifier is not confident enough to keep the automated agent on.
func shouldEscalate(cls ai.Classification) bool {
	switch cls.Intent {
	case ai.IntentSensitive, ai.IntentComplexTechnical:
		return true
	}
	switch cls.Priority {
	case ai.PriorityHigh, ai.PriorityCritical:
		return true
	}
	return cls.Confidence < confidenceThreshold
}

func greetingFor(agent string) string {
	first := agent
	if fields := strings.Fields(agent); len(fields) > 0 {
		first = fields[0]
	}
	return fmt.Sprintf("Hi! I'm %s from our technical team. I can see the AI has identified this as a priority issue. I'm here to help you resolve this. Let me review the details and get back to you with a solution.", first)
}

// Broadcaster delivers outbound events to a session's viewer. Implemented
// by the Relay.
type Broadcaster interface {
	BroadcastToSession(sessionID uint, evt OutboundEvent)
}

// EscalatorConfig tunes the handoff side effects. Zero values pick the
// defaults; tests shorten the greeting delay.
type EscalatorConfig struct {
	AgentName     string
	GreetingDelay time.Duration
}

// Escalator drives the per-message AI pipeline: classify, reply or hand the
// session to a human. The transition Automated -> HumanHandled is
// one-directional; once a session's AI flag is off, later customer messages
// are ignored here.
//
// Work is serialized per session so that replies are persisted in the order
// the triggering messages arrived, while sessions never block each other.
type Escalator struct {
	store       ChatStore
	classifier  ai.Classifier
	broadcaster Broadcaster
	agentName   string
	greetDelay  time.Duration
	log         *logger.Logger

	mu          sync.Mutex
	queues      map[uint]*sessionQueue
	greetTimers map[uint]*time.Timer

	escalations        metric.Int64Counter
	classifierFailures metric.Int64Counter
}

func NewEscalator(store ChatStore, classifier ai.Classifier, broadcaster Broadcaster, cfg EscalatorConfig, log *logger.Logger) *Escalator {
	if cfg.AgentName == "" {
		cfg.AgentName = defaultAgentName
	}
	if cfg.GreetingDelay <= 0 {
		cfg.GreetingDelay = defaultGreetDelay
	}

	meter := otel.Meter("support-ops-dashboard/backend/internal/ws")
	escalations, _ := meter.Int64Counter("chat_escalations_total")
	failures, _ := meter.Int64Counter("chat_classifier_failures_total")

	return &Escalator{
		store:              store,
		classifier:         classifier,
		broadcaster:        broadcaster,
		agentName:          cfg.AgentName,
		greetDelay:         cfg.GreetingDelay,
		log:                log,
		queues:             make(map[uint]*sessionQueue),
		greetTimers:        make(map[uint]*time.Timer),
		escalations:        escalations,
		classifierFailures: failures,
	}
}

// Enqueue schedules AI processing for a customer message. Returns
// immediately; tasks for the same session run one at a time, in order.
func (e *Escalator) Enqueue(sessionID uint, text string) {
	e.mu.Lock()
	q := e.queues[sessionID]
	if q == nil {
		q = &sessionQueue{}
		e.queues[sessionID] = q
	}
	e.mu.Unlock()

	q.push(func() { e.process(sessionID, text) })
}

func (e *Escalator) process(sessionID uint, text string) {
	ctx := context.Background()

	// Escalation is sticky: a session already handed to a human never
	// re-triggers the pipeline.
	if sess, err := e.store.GetSession(ctx, sessionID); err != nil {
		e.log.LogError(err, "failed to load session, continuing", "session_id", sessionID)
	} else if sess != nil && !sess.IsAIActive {
		return
	}

	cls, err := e.classifier.ClassifyIntent(ctx, text)
	if err != nil {
		e.classifierFailures.Add(ctx, 1)
		e.log.Warn("intent classification failed, degrading to escalation", "session_id", sessionID, "error", err.Error())
		e.postAIMessage(sessionID, fallbackAIMessage, nil)
		e.escalate(sessionID)
		return
	}

	if shouldEscalate(cls) {
		e.postAIMessage(sessionID, escalationAckReply, &cls)
		e.escalate(sessionID)
		return
	}

	reply, err := e.classifier.GenerateReply(ctx, text, cls)
	if err != nil {
		e.classifierFailures.Add(ctx, 1)
		e.log.Warn("reply generation failed, degrading to escalation", "session_id", sessionID, "error", err.Error())
		e.postAIMessage(sessionID, fallbackAIMessage, &cls)
		e.escalate(sessionID)
		return
	}

	e.postAIMessage(sessionID, reply, &cls)
}

// escalate performs the handoff: flip the session to human-handled, announce
// the agent, then post the agent's greeting after a short scheduled delay.
// The delay never blocks event processing.
func (e *Escalator) escalate(sessionID uint) {
	e.escalations.Add(context.Background(), 1)

	active := false
	agent := e.agentName
	if _, err := e.store.UpdateSession(context.Background(), sessionID, models.ChatSessionUpdate{
		IsAIActive:    &active,
		AssignedAgent: &agent,
	}); err != nil {
		e.log.LogError(err, "failed to update session for escalation", "session_id", sessionID)
		return
	}

	e.postMessage(sessionID, models.SenderSystem, systemSenderName,
		fmt.Sprintf("%s (%s) has joined the conversation", agent, agentTitle),
		models.MessageSystem, nil)

	timer := time.AfterFunc(e.greetDelay, func() {
		e.mu.Lock()
		delete(e.greetTimers, sessionID)
		e.mu.Unlock()
		e.postMessage(sessionID, models.SenderAgent, agent, greetingFor(agent), models.MessageText, nil)
	})

	e.mu.Lock()
	if old := e.greetTimers[sessionID]; old != nil {
		old.Stop()
	}
	e.greetTimers[sessionID] = timer
	e.mu.Unlock()
}

func (e *Escalator) postAIMessage(sessionID uint, body string, cls *ai.Classification) {
	e.postMessage(sessionID, models.SenderAI, aiSenderName, body, models.MessageText, cls)
}

func (e *Escalator) postMessage(sessionID uint, sender, senderName, body, kind string, cls *ai.Classification) {
	msg := &models.ChatMessage{
		SessionID:   sessionID,
		Sender:      sender,
		SenderName:  senderName,
		Message:     body,
		MessageType: kind,
		AIMetadata:  cls,
		Timestamp:   time.Now(),
	}
	if err := e.store.CreateMessage(context.Background(), msg); err != nil {
		e.log.LogError(err, "failed to persist generated message", "session_id", sessionID, "sender", sender)
		return
	}
	e.broadcaster.BroadcastToSession(sessionID, OutboundEvent{Type: EventNewMessage, Message: msg})
}

// CancelPendingGreeting stops a scheduled agent greeting, if one is pending.
// Reports whether a greeting was cancelled.
func (e *Escalator) CancelPendingGreeting(sessionID uint) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	timer := e.greetTimers[sessionID]
	if timer == nil {
		return false
	}
	delete(e.greetTimers, sessionID)
	return timer.Stop()
}

// Shutdown cancels all pending greetings.
func (e *Escalator) Shutdown() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for id, timer := range e.greetTimers {
		timer.Stop()
		delete(e.greetTimers, id)
	}
}

// sessionQueue is a FIFO of tasks drained by at most one goroutine.
type sessionQueue struct {
	mu      sync.Mutex
	tasks   []func()
	running bool
}

func (q *sessionQueue) push(task func()) {
	q.mu.Lock()
	q.tasks = append(q.tasks, task)
	if q.running {
		q.mu.Unlock()
		return
	}
	q.running = true
	q.mu.Unlock()
	go q.drain()
}

func (q *sessionQueue) drain() {
	for {
		q.mu.Lock()
		if len(q.tasks) == 0 {
			q.running = false
			q.mu.Unlock()
			return
		}
		task := q.tasks[0]
		q.tasks = q.tasks[1:]
		q.mu.Unlock()
		task()
	}
}

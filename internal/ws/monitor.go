package ws

import (
	"context"
	"time"

	"support-ops-dashboard/backend/pkg/logger"
)

const defaultMonitorPeriod = 30 * time.Second

// LivenessMonitor periodically sweeps all open connections: a connection
// whose liveness flag is still down from the previous sweep is terminated,
// freeing its registry slot; otherwise the flag is cleared and a ping sent.
// The pong handler restores the flag. This is the only mechanism besides a
// clean close that frees a session slot held by a half-open connection.
type LivenessMonitor struct {
	relay  *Relay
	period time.Duration
	log    *logger.Logger
}

func NewLivenessMonitor(relay *Relay, period time.Duration, log *logger.Logger) *LivenessMonitor {
	if period <= 0 {
		period = defaultMonitorPeriod
	}
	return &LivenessMonitor{relay: relay, period: period, log: log}
}

// Start runs the sweep loop until ctx is cancelled.
func (m *LivenessMonitor) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(m.period)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.sweep()
			}
		}
	}()
}

func (m *LivenessMonitor) sweep() {
	for _, c := range m.relay.Connections() {
		if !c.isAlive() {
			m.log.Info("terminating unresponsive connection", "session_id", c.SessionID())
			c.terminate()
			continue
		}
		c.setAlive(false)
		if err := c.ping(); err != nil {
			m.log.Warn("ping failed, terminating connection", "session_id", c.SessionID(), "error", err.Error())
			c.terminate()
		}
	}
}

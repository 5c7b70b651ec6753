// Package runner drives live sessions in real time and runs periodic maintenance.
package runner

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/wricardo/mcp-training/taxigame/game/engine"
	"github.com/wricardo/mcp-training/taxigame/game/service"
)

// LiveTicker advances every live session by the time since its last frame
type LiveTicker interface {
	TickLive(ctx context.Context, now time.Time) []service.LiveUpdate
}

// Broadcaster pushes tick results to whoever watches a session
type Broadcaster interface {
	HasClients(sessionID string) bool
	BroadcastToSession(sessionID string, snapshot engine.Snapshot, events []engine.Event)
}

// Expirer drops sessions that have been idle for longer than maxAge
type Expirer interface {
	CleanupExpiredSessions(maxAge time.Duration) int
}

// Runner ticks live sessions at a fixed rate
type Runner struct {
	sessions LiveTicker
	out      Broadcaster
	interval time.Duration
}

// New creates a runner. out may be nil.
func New(sessions LiveTicker, out Broadcaster, interval time.Duration) *Runner {
	if interval <= 0 {
		interval = engine.MaxStep
	}
	return &Runner{sessions: sessions, out: out, interval: interval}
}

// Run ticks until ctx is done
func (r *Runner) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	log.Info().Dur("interval", r.interval).Msg("live runner started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("live runner stopped")
			return ctx.Err()
		case now := <-ticker.C:
			r.Step(ctx, now)
		}
	}
}

// Step runs one frame for every live session and returns how many were ticked.
// Only watched sessions are broadcast.
func (r *Runner) Step(ctx context.Context, now time.Time) int {
	updates := r.sessions.TickLive(ctx, now)
	if r.out == nil {
		return len(updates)
	}
	for _, u := range updates {
		if !r.out.HasClients(u.SessionID) {
			continue
		}
		r.out.BroadcastToSession(u.SessionID, u.Result.Snapshot, u.Result.Events)
	}
	return len(updates)
}

// Cleanup removes expired sessions every interval until ctx is done
func Cleanup(ctx context.Context, sessions Expirer, interval, maxAge time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := sessions.CleanupExpiredSessions(maxAge); removed > 0 {
				log.Info().Int("removed", removed).Msg("cleaned up expired sessions")
			}
		}
	}
}

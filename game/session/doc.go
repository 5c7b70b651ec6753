// Package session keeps the in-memory registry of taxi sessions.
//
// Every session owns one engine and one ManualClock. The clock only moves
// when the service ticks the session, so a scheduled respawn fires after the
// simulated delay whether the session is driven in real time by the runner
// or in bursts through the drive endpoint.
//
// IDs are four hex characters drawn from crypto/rand unless the caller picks
// one. Lookups ignore case, so "AB12" and "ab12" name the same taxi.
//
//	manager := session.NewManager(engine.WithLogger(log.Logger))
//	sess, err := manager.Create("", config)
//
// Nothing is persisted. Idle sessions are dropped by CleanupExpiredSessions,
// which the runner calls on a timer.
package session

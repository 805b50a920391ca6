// Package ratelimit implements a sliding-window-log request limiter over a pluggable counter store.
//
// The window is approximate: a client can be admitted up to twice the limit
// across a window boundary.
package ratelimit

import (
	"context"
	"fmt"
	"time"
)

// Result is the outcome of recording one hit.
type Result struct {
	Allowed bool
	// Count is the number of hits inside the window, including this one when allowed.
	Count int
}

// Store records request timestamps per key. Hit must drop timestamps older
// than now-window, reject when max or more remain, and otherwise append now,
// all atomically for a given key.
type Store interface {
	Hit(ctx context.Context, key string, now time.Time, window time.Duration, max int) (Result, error)
}

// Policy configures one protected route.
type Policy struct {
	Max    int
	Window time.Duration
}

// Decision is returned by Limiter.Allow.
type Decision struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// Limiter enforces a Policy for a named route.
type Limiter struct {
	name   string
	policy Policy
	store  Store
	now    func() time.Time
}

// New returns a limiter whose keys are namespaced by name.
func New(name string, policy Policy, store Store) (*Limiter, error) {
	if name == "" {
		return nil, fmt.Errorf("limiter name is required")
	}
	if policy.Max <= 0 || policy.Window <= 0 {
		return nil, fmt.Errorf("limiter %s: max and window must be positive", name)
	}
	if store == nil {
		return nil, fmt.Errorf("limiter %s: store is required", name)
	}
	return &Limiter{name: name, policy: policy, store: store, now: time.Now}, nil
}

// WithClock returns a copy of l that reads time from now.
func (l *Limiter) WithClock(now func() time.Time) *Limiter {
	cp := *l
	cp.now = now
	return &cp
}

// Name identifies the limiter in logs and metrics.
func (l *Limiter) Name() string { return l.name }

// Policy returns the configured policy.
func (l *Limiter) Policy() Policy { return l.policy }

// Allow records a request from clientKey and reports whether it may proceed.
// RetryAfter is always the full window, matching the advertised retry hint.
func (l *Limiter) Allow(ctx context.Context, clientKey string) (Decision, error) {
	res, err := l.store.Hit(ctx, l.name+":"+clientKey, l.now(), l.policy.Window, l.policy.Max)
	if err != nil {
		return Decision{Allowed: true}, fmt.Errorf("rate limit %s: %w", l.name, err)
	}
	if !res.Allowed {
		return Decision{Allowed: false, RetryAfter: l.policy.Window}, nil
	}
	remaining := l.policy.Max - res.Count
	if remaining < 0 {
		remaining = 0
	}
	return Decision{Allowed: true, Remaining: remaining}, nil
}

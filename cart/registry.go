package cart

import (
	"context"
	"sync"
	"time"

	"campuseats/metrics"
	"campuseats/pricing"

	"github.com/rs/zerolog/log"
)

const (
	DefaultMaxSessions = 10000
	DefaultIdleTimeout = 30 * time.Minute
)

type session struct {
	store    *Store
	lastSeen time.Time
}

// Registry owns one Store per session. At most maxSessions carts are held; idle
// carts are dropped by Sweep.
type Registry struct {
	mu          sync.Mutex
	options     *pricing.Catalog
	sessions    map[string]*session
	maxSessions int
	now         func() time.Time
}

// NewRegistry creates a registry holding at most maxSessions carts. A
// non-positive maxSessions uses DefaultMaxSessions.
func NewRegistry(options *pricing.Catalog, maxSessions int) *Registry {
	if maxSessions <= 0 {
		maxSessions = DefaultMaxSessions
	}
	return &Registry{
		options:     options,
		sessions:    make(map[string]*session),
		maxSessions: maxSessions,
		now:         time.Now,
	}
}

// Get returns the session's cart, creating it on first use. It fails with
// ErrTooManySessions when the registry is full.
func (r *Registry) Get(sessionID string) (*Store, error) {
	if sessionID == "" {
		return nil, ErrSessionRequired
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.sessions[sessionID]
	if !ok {
		if len(r.sessions) >= r.maxSessions {
			return nil, ErrTooManySessions
		}
		sess = &session{store: NewStore(sessionID, r.options)}
		r.sessions[sessionID] = sess
		metrics.CartSessions.Set(float64(len(r.sessions)))
	}
	sess.lastSeen = r.now()
	return sess.store, nil
}

// Len reports the number of carts held.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep closes and drops every cart not used for longer than idle. Carts with an
// open stream are kept.
func (r *Registry) Sweep(idle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-idle)
	var evicted int
	for id, sess := range r.sessions {
		if sess.lastSeen.After(cutoff) || sess.store.subscribers() > 0 {
			continue
		}
		sess.store.Close()
		delete(r.sessions, id)
		evicted++
	}
	metrics.CartSessions.Set(float64(len(r.sessions)))
	return evicted
}

// StartSweeper runs Sweep every interval until ctx is cancelled. The returned
// channel is closed when the sweeper exits.
func (r *Registry) StartSweeper(ctx context.Context, interval, idle time.Duration) <-chan struct{} {
	if idle <= 0 {
		idle = DefaultIdleTimeout
	}
	if interval <= 0 {
		interval = idle / 2
	}
	log.Info().Dur("interval", interval).Dur("idle", idle).Msg("Starting cart sweeper")

	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := r.Sweep(idle); n > 0 {
					log.Debug().Int("evicted", n).Int("remaining", r.Len()).Msg("Swept idle carts")
				}
			}
		}
	}()
	return done
}

// Close releases every cart's subscribers.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, sess := range r.sessions {
		sess.store.Close()
	}
}

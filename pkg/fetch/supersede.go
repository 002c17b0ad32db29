package fetch

import (
	"context"
	"sync"
)

type (
	callerKey struct{}
	viewKey   struct{}
)

// WithCaller tags ctx with the identity of whoever is looking at a view, so
// that only that caller's older requests get superseded.
func WithCaller(ctx context.Context, caller string) context.Context {
	return context.WithValue(ctx, callerKey{}, caller)
}

// Caller returns the identity set by WithCaller, or "".
func Caller(ctx context.Context) string {
	caller, _ := ctx.Value(callerKey{}).(string)
	return caller
}

// WithView tags ctx with the screen the caller is loading, e.g.
// "GET /api/v1/summary".
func WithView(ctx context.Context, view string) context.Context {
	return context.WithValue(ctx, viewKey{}, view)
}

// View returns the view set by WithView, or "".
func View(ctx context.Context) string {
	view, _ := ctx.Value(viewKey{}).(string)
	return view
}

// Superseder hands out one live context per view and caller. Starting a
// request cancels the request that was in flight for the same pair.
// Contexts without a view or a caller are never superseded.
type Superseder struct {
	mu       sync.Mutex
	inflight map[string]*slot
}

type slot struct {
	cancel context.CancelFunc
}

func NewSuperseder() *Superseder {
	return &Superseder{inflight: make(map[string]*slot)}
}

// Begin derives a context from parent and cancels the previous one of the
// same view and caller. The returned done func must be called when the
// request finishes.
func (s *Superseder) Begin(parent context.Context) (context.Context, func()) {
	ctx, cancel := context.WithCancel(parent)
	view, caller := View(parent), Caller(parent)
	if view == "" || caller == "" {
		return ctx, cancel
	}

	key := view + "|" + caller
	cur := &slot{cancel: cancel}

	s.mu.Lock()
	if prev, ok := s.inflight[key]; ok {
		prev.cancel()
	}
	s.inflight[key] = cur
	s.mu.Unlock()

	return ctx, func() {
		s.mu.Lock()
		if s.inflight[key] == cur {
			delete(s.inflight, key)
		}
		s.mu.Unlock()
		cancel()
	}
}

// InFlight reports how many view and caller pairs have a running request.
func (s *Superseder) InFlight() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.inflight)
}

package completion

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/oakwood-commons/exprsense/internal/index"
	"github.com/oakwood-commons/exprsense/pkg/logger"
)

// Service hands out sessions over one shared index. The index may still be
// building when the service is created; NewSession waits for it.
type Service struct {
	index    *index.Future
	pageStep int
	runner   Runner

	mu       sync.Mutex
	sessions map[string]*Session
	nextID   int
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithSessionRunner sets the Runner given to every new session.
func WithSessionRunner(r Runner) ServiceOption {
	return func(s *Service) { s.runner = r }
}

// WithSessionPageStep sets the page step given to every new session.
func WithSessionPageStep(n int) ServiceOption {
	return func(s *Service) { s.pageStep = n }
}

// NewService wraps an index future.
func NewService(f *index.Future, opts ...ServiceOption) *Service {
	s := &Service{
		index:    f,
		pageStep: DefaultPageStep,
		sessions: make(map[string]*Session),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SessionConfig is the per-editor scope.
type SessionConfig struct {
	Imports []string
	Locals  []Local
	// Runner overrides the service runner for this session. Hosts with
	// their own event loop supply one that delivers on that loop.
	Runner Runner
}

// NewSession waits for the index, layers cfg.Locals over it and starts a
// tracked session driving host. The session leaves the service when closed.
func (s *Service) NewSession(ctx context.Context, host Host, cfg SessionConfig) (*Session, error) {
	base, err := s.index.Wait(ctx)
	if err != nil {
		return nil, fmt.Errorf("index unavailable: %w", err)
	}
	root := Overlay(base, cfg.Locals)

	s.mu.Lock()
	s.nextID++
	id := fmt.Sprintf("editor-%d", s.nextID)
	s.mu.Unlock()

	runner := s.runner
	if cfg.Runner != nil {
		runner = cfg.Runner
	}
	sess := NewSession(ctx, root, cfg.Imports, host,
		WithID(id),
		WithRunner(runner),
		WithPageStep(s.pageStep))

	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()
	sess.OnClose(func() {
		s.mu.Lock()
		delete(s.sessions, id)
		s.mu.Unlock()
	})

	logger.FromContext(ctx).V(1).Info("completion session started",
		logger.SessionKey, id, "imports", len(cfg.Imports), "locals", len(cfg.Locals))
	return sess, nil
}

// Session returns a live session by ID.
func (s *Service) Session(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

// Sessions returns the live sessions ordered by ID.
func (s *Service) Sessions() []*Session {
	s.mu.Lock()
	out := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		out = append(out, sess)
	}
	s.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

// CloseAll closes every live session.
func (s *Service) CloseAll() {
	for _, sess := range s.Sessions() {
		sess.Close()
	}
}

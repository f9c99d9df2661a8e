package storage

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/yndnr/tokclaim-go/internal/core/domain"
	"github.com/yndnr/tokclaim-go/pkg/cmap"
)

// Stats summarizes the store.
type Stats struct {
	Backend string `json:"backend"`
	Allowed int    `json:"allowed"`
	Claimed int    `json:"claimed"`
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Store is the claim store.
//
// Add, Remove and TryClaim are serialized by a single mutation lock held
// across the membership check, the backend write and the in-memory
// publish. Contains and List read the sharded sets directly.
type Store struct {
	backend Backend
	logger  *slog.Logger

	mu      sync.Mutex
	allowed *cmap.Set[domain.Token]
	claimed *cmap.Set[domain.Token]
	closed  atomic.Bool

	persistFailures prometheus.Counter
}

// Open loads both sets from backend and returns a ready store.
// The store takes ownership of backend and closes it on Close.
func Open(ctx context.Context, backend Backend, opts ...Option) (*Store, error) {
	if backend == nil {
		return nil, fmt.Errorf("storage: backend is required")
	}

	s := &Store{
		backend: backend,
		logger:  slog.Default(),
		allowed: cmap.NewSet[domain.Token](),
		claimed: cmap.NewSet[domain.Token](),
	}
	for _, opt := range opts {
		opt(s)
	}

	state, err := backend.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("storage: load %s backend: %w", backend.Name(), err)
	}
	s.allowed.Reset(state.Allowed)
	s.claimed.Reset(state.Claimed)

	s.logger.Info("claim store loaded",
		"backend", backend.Name(),
		"allowed", s.allowed.Len(),
		"claimed", s.claimed.Len())

	return s, nil
}

// TryClaim atomically consumes token.
//
// AlreadyClaimed takes priority over NotAllowed, so a claimed token that
// was later removed from the allow-list still reports AlreadyClaimed.
func (s *Store) TryClaim(ctx context.Context, token domain.Token) (domain.ClaimResult, error) {
	if err := s.lock(ctx, token); err != nil {
		return domain.ClaimUnspecified, err
	}
	defer s.mu.Unlock()

	if s.claimed.Has(token) {
		return domain.AlreadyClaimed, nil
	}
	if !s.allowed.Has(token) {
		return domain.NotAllowed, nil
	}

	if err := s.persist(ctx, Mutation{Op: domain.OpClaim, Token: token}); err != nil {
		return domain.ClaimUnspecified, err
	}
	s.claimed.Add(token)

	return domain.Claimed, nil
}

// Add puts token on the allow-list.
func (s *Store) Add(ctx context.Context, token domain.Token) (domain.AddResult, error) {
	if err := s.lock(ctx, token); err != nil {
		return domain.AddUnspecified, err
	}
	defer s.mu.Unlock()

	if s.allowed.Has(token) {
		return domain.AlreadyPresent, nil
	}

	next := append(s.allowed.Keys(), token)
	sort.Slice(next, func(i, j int) bool { return next[i] < next[j] })

	if err := s.persist(ctx, Mutation{Op: domain.OpAdd, Token: token, AllowList: next}); err != nil {
		return domain.AddUnspecified, err
	}
	s.allowed.Add(token)

	return domain.Added, nil
}

// Remove takes token off the allow-list. The claimed set is never touched.
func (s *Store) Remove(ctx context.Context, token domain.Token) (domain.RemoveResult, error) {
	if err := s.lock(ctx, token); err != nil {
		return domain.RemoveUnspecified, err
	}
	defer s.mu.Unlock()

	if !s.allowed.Has(token) {
		return domain.NotFound, nil
	}

	current := s.allowed.Keys()
	next := make([]domain.Token, 0, len(current))
	for _, t := range current {
		if t != token {
			next = append(next, t)
		}
	}

	if err := s.persist(ctx, Mutation{Op: domain.OpRemove, Token: token, AllowList: next}); err != nil {
		return domain.RemoveUnspecified, err
	}
	s.allowed.Remove(token)

	return domain.Removed, nil
}

// Contains reports whether token is a member of set.
func (s *Store) Contains(set domain.Set, token domain.Token) bool {
	switch set {
	case domain.SetAllowed:
		return s.allowed.Has(token)
	case domain.SetClaimed:
		return s.claimed.Has(token)
	default:
		return false
	}
}

// List returns the members of set in ascending order.
func (s *Store) List(set domain.Set) []domain.Token {
	switch set {
	case domain.SetAllowed:
		return s.allowed.Keys()
	case domain.SetClaimed:
		return s.claimed.Keys()
	default:
		return nil
	}
}

// Stats returns set sizes and the backend name.
func (s *Store) Stats() Stats {
	return Stats{
		Backend: s.backend.Name(),
		Allowed: s.allowed.Len(),
		Claimed: s.claimed.Len(),
	}
}

// Close releases the backend. Mutations after Close fail with
// domain.ErrStoreClosed; reads keep answering from memory.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed.Swap(true) {
		return nil
	}

	s.logger.Info("closing claim store", "backend", s.backend.Name())
	if err := s.backend.Close(); err != nil {
		return fmt.Errorf("storage: close %s backend: %w", s.backend.Name(), err)
	}
	return nil
}

// RegisterMetrics registers set size gauges and the persistence failure
// counter with registry.
func (s *Store) RegisterMetrics(registry prometheus.Registerer) *Store {
	s.persistFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "tokclaim",
		Subsystem: "store",
		Name:      "persistence_failures_total",
		Help:      "Mutations rejected because the backend write failed",
	})

	registry.MustRegister(
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "tokclaim",
			Subsystem: "store",
			Name:      "allowed_tokens",
			Help:      "Number of tokens on the allow-list",
		}, func() float64 { return float64(s.allowed.Len()) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "tokclaim",
			Subsystem: "store",
			Name:      "claimed_tokens",
			Help:      "Number of claimed tokens",
		}, func() float64 { return float64(s.claimed.Len()) }),
		s.persistFailures,
	)

	return s
}

// lock validates token, honours ctx and acquires the mutation lock.
// On success the caller must release s.mu.
func (s *Store) lock(ctx context.Context, token domain.Token) error {
	if err := checkToken(token); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	if s.closed.Load() {
		s.mu.Unlock()
		return domain.ErrStoreClosed
	}
	return nil
}

// persist writes m to the backend. Must be called with s.mu held.
func (s *Store) persist(ctx context.Context, m Mutation) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.backend.Apply(ctx, m); err != nil {
		if s.persistFailures != nil {
			s.persistFailures.Inc()
		}
		s.logger.Error("persist mutation failed",
			"backend", s.backend.Name(),
			"operation", string(m.Op),
			"token", string(m.Token),
			"error", err)
		return domain.ErrPersistenceFailure.WithCause(err)
	}
	return nil
}

// checkToken rejects values that did not come out of domain.Normalize.
func checkToken(token domain.Token) error {
	n, err := domain.Normalize(string(token))
	if err != nil {
		return err
	}
	if n != token {
		return domain.ErrInvalidToken.WithDetails("token is not normalized")
	}
	return nil
}

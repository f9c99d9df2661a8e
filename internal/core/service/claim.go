package service

import (
	"context"
	"strings"

	"github.com/yndnr/tokclaim-go/internal/audit"
	"github.com/yndnr/tokclaim-go/internal/core/domain"
	"github.com/yndnr/tokclaim-go/internal/storage"
	"github.com/yndnr/tokclaim-go/internal/telemetry/logger"
	"github.com/yndnr/tokclaim-go/internal/telemetry/metric"
)

// Audit results for faults, alongside the wire names of the result enums.
const (
	ResultInvalidToken       = "invalid_token"
	ResultRateLimited        = "rate_limited"
	ResultPersistenceFailure = "persistence_failure"
	ResultError              = "error"
)

// ClaimStore is the claim store as seen by the service.
type ClaimStore interface {
	TryClaim(ctx context.Context, token domain.Token) (domain.ClaimResult, error)
	Add(ctx context.Context, token domain.Token) (domain.AddResult, error)
	Remove(ctx context.Context, token domain.Token) (domain.RemoveResult, error)
	Contains(set domain.Set, token domain.Token) bool
	List(set domain.Set) []domain.Token
	Stats() storage.Stats
}

// ClaimService is the single entry point for claim and allow-list
// operations. Every call emits exactly one audit event.
type ClaimService struct {
	store   ClaimStore
	sink    audit.Sink
	limiter *RequesterLimiter
	metrics *metric.Registry
}

// ClaimServiceOption configures a ClaimService.
type ClaimServiceOption func(*ClaimService)

// WithLimiter sets the per-requester claim limiter.
func WithLimiter(l *RequesterLimiter) ClaimServiceOption {
	return func(s *ClaimService) { s.limiter = l }
}

// WithMetrics sets the metrics registry.
func WithMetrics(m *metric.Registry) ClaimServiceOption {
	return func(s *ClaimService) { s.metrics = m }
}

// NewClaimService creates a ClaimService. A nil sink discards events.
func NewClaimService(store ClaimStore, sink audit.Sink, opts ...ClaimServiceOption) *ClaimService {
	if sink == nil {
		sink = audit.Discard
	}
	s := &ClaimService{store: store, sink: sink}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ClaimOutcome is the result of a claim attempt.
type ClaimOutcome struct {
	Token  domain.Token
	Result domain.ClaimResult
}

// Claim normalizes raw and tries to consume it on behalf of requester.
// The caller performs its side effect only when Result is domain.Claimed.
func (s *ClaimService) Claim(ctx context.Context, requester, raw string) (*ClaimOutcome, error) {
	requester = strings.TrimSpace(requester)
	if requester == "" {
		return nil, domain.ErrRequesterRequired
	}

	token, err := domain.Normalize(raw)
	if err != nil {
		s.record(ctx, requester, strings.TrimSpace(raw), domain.OpClaim, ResultInvalidToken)
		return nil, err
	}

	if ok, retryAfter := s.limiter.Allow(requester); !ok {
		if s.metrics != nil {
			s.metrics.RateLimitedTotal.Inc()
		}
		s.record(ctx, requester, token.String(), domain.OpClaim, ResultRateLimited)
		return nil, domain.ErrRateLimited.WithDetails("retry after " + retryAfter.String())
	}

	result, err := s.store.TryClaim(ctx, token)
	if err != nil {
		s.record(ctx, requester, token.String(), domain.OpClaim, faultResult(err))
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.ClaimsTotal.WithLabelValues(result.String()).Inc()
	}
	s.record(ctx, requester, token.String(), domain.OpClaim, result.String())

	logger.L(ctx).Info("claim processed", "requester", requester, "token", token.String(), "result", result.String())

	return &ClaimOutcome{Token: token, Result: result}, nil
}

// AddToken puts raw on the allow-list.
func (s *ClaimService) AddToken(ctx context.Context, requester, raw string) (domain.Token, domain.AddResult, error) {
	token, err := domain.Normalize(raw)
	if err != nil {
		s.record(ctx, requester, strings.TrimSpace(raw), domain.OpAdd, ResultInvalidToken)
		return "", domain.AddUnspecified, err
	}

	result, err := s.store.Add(ctx, token)
	if err != nil {
		s.adminOp(ctx, requester, token, domain.OpAdd, faultResult(err))
		return token, domain.AddUnspecified, err
	}

	s.adminOp(ctx, requester, token, domain.OpAdd, result.String())
	return token, result, nil
}

// RemoveToken takes raw off the allow-list. Claims are never undone.
func (s *ClaimService) RemoveToken(ctx context.Context, requester, raw string) (domain.Token, domain.RemoveResult, error) {
	token, err := domain.Normalize(raw)
	if err != nil {
		s.record(ctx, requester, strings.TrimSpace(raw), domain.OpRemove, ResultInvalidToken)
		return "", domain.RemoveUnspecified, err
	}

	result, err := s.store.Remove(ctx, token)
	if err != nil {
		s.adminOp(ctx, requester, token, domain.OpRemove, faultResult(err))
		return token, domain.RemoveUnspecified, err
	}

	s.adminOp(ctx, requester, token, domain.OpRemove, result.String())
	return token, result, nil
}

// TokenStatus is the membership of a token in both sets.
type TokenStatus struct {
	Token   domain.Token `json:"token"`
	Allowed bool         `json:"allowed"`
	Claimed bool         `json:"claimed"`
}

// Inspect reports set membership for raw without changing anything.
func (s *ClaimService) Inspect(raw string) (*TokenStatus, error) {
	token, err := domain.Normalize(raw)
	if err != nil {
		return nil, err
	}
	return &TokenStatus{
		Token:   token,
		Allowed: s.store.Contains(domain.SetAllowed, token),
		Claimed: s.store.Contains(domain.SetClaimed, token),
	}, nil
}

// List returns the members of set in ascending order.
func (s *ClaimService) List(set domain.Set) []domain.Token {
	return s.store.List(set)
}

// Stats returns the store summary.
func (s *ClaimService) Stats() storage.Stats {
	return s.store.Stats()
}

func (s *ClaimService) adminOp(ctx context.Context, requester string, token domain.Token, op domain.Operation, result string) {
	if s.metrics != nil {
		s.metrics.AdminOpsTotal.WithLabelValues(string(op), result).Inc()
	}
	s.record(ctx, requester, token.String(), op, result)
	logger.L(ctx).Info("allow-list updated", "requester", requester, "operation", string(op), "token", token.String(), "result", result)
}

// record emits an audit event. Sink failures are logged and never fail
// the operation, which has already taken effect.
func (s *ClaimService) record(ctx context.Context, requester, token string, op domain.Operation, result string) {
	ev := audit.NewEvent(requester, token, op, result)
	if err := s.sink.Record(ctx, ev); err != nil {
		logger.L(ctx).Error("audit record failed", "event_id", ev.ID, "error", err)
	}
}

func faultResult(err error) string {
	switch domain.GetErrorCode(err) {
	case domain.ErrPersistenceFailure.Code:
		return ResultPersistenceFailure
	case domain.ErrInvalidToken.Code:
		return ResultInvalidToken
	default:
		return ResultError
	}
}

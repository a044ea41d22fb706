// Package ledger implements the shared-expense ledger: expense mutation,
// the settlement engine that applies payments, payment history and the
// per-member aggregations.
package ledger

import (
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/mmynk/roomledger/internal/errors"
	"github.com/mmynk/roomledger/internal/metrics"
	"github.com/mmynk/roomledger/internal/storage"
)

// DefaultSettlementAttempts bounds how often a settlement re-reads the
// expense after losing a compare-and-swap to another writer.
const DefaultSettlementAttempts = 5

// Service is the ledger's service-level contract.
// It holds no expense state between calls; every operation reads the store.
type Service struct {
	store       storage.Store
	locks       *locker
	now         func() time.Time
	metrics     *metrics.Metrics
	maxAttempts int
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces time.Now, for tests and monthly/yearly anchoring.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithMetrics records settlement outcomes on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithSettlementAttempts overrides DefaultSettlementAttempts. Values below 1 are ignored.
func WithSettlementAttempts(n int) Option {
	return func(s *Service) {
		if n >= 1 {
			s.maxAttempts = n
		}
	}
}

// NewService creates a ledger Service backed by store.
func NewService(store storage.Store, opts ...Option) *Service {
	s := &Service{
		store:       store,
		locks:       newLocker(),
		now:         time.Now,
		maxAttempts: DefaultSettlementAttempts,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) clock() time.Time {
	return s.now().UTC()
}

// notFoundOr converts storage.ErrNotFound into a NotFound domain error
// naming kind and id; any other error becomes Internal with action as context.
func notFoundOr(err error, kind, id, action string) error {
	if errors.Is(err, storage.ErrNotFound) {
		return apperrors.WithMetadata(apperrors.CodeNotFound, kind+" not found",
			map[string]string{headerCase(kind) + "-Id": id})
	}
	return apperrors.Wrap(apperrors.CodeInternal, fmt.Sprintf("failed to %s", action), err)
}

func headerCase(kind string) string {
	if kind == "" {
		return kind
	}
	return strings.ToUpper(kind[:1]) + kind[1:]
}

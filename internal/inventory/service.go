// Package inventory reconciles incoming product records with the store
// and snapshots the store to CSV.
package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rogerio-castellano/inventory-cli/internal/coerce"
	"github.com/rogerio-castellano/inventory-cli/internal/models"
	"github.com/rogerio-castellano/inventory-cli/internal/repo"
	"go.uber.org/zap"
)

// Outcome is the result of reconciling one record.
type Outcome int

const (
	OutcomeInserted Outcome = iota + 1
	OutcomeUpdated
	OutcomeSkipped
)

func (o Outcome) String() string {
	switch o {
	case OutcomeInserted:
		return "inserted"
	case OutcomeUpdated:
		return "updated"
	case OutcomeSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Service owns the product repository for the lifetime of the process.
type Service struct {
	products repo.ProductRepository
	log      *zap.Logger
	now      func() time.Time
}

type Option func(*Service)

// WithClock replaces time.Now, which stamps interactive additions and
// substitutes unparseable CSV dates.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(products repo.ProductRepository, log *zap.Logger, opts ...Option) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Service{products: products, log: log, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Today is the date stamped on interactively added products.
func (s *Service) Today() time.Time {
	return coerce.Today(s.now)
}

// Reconcile inserts p, or on a name conflict overwrites the stored quantity,
// price and date when p is at least as recent as the stored record.
func (s *Service) Reconcile(ctx context.Context, p models.Product) (Outcome, error) {
	p.UpdatedAt = coerce.DateOf(p.UpdatedAt)

	stored, inserted, err := s.products.Insert(ctx, p)
	if err != nil {
		return 0, fmt.Errorf("insert %q: %w", p.Name, err)
	}
	if inserted {
		s.log.Debug("product inserted", zap.Int("id", stored.ID), zap.String("name", stored.Name))
		return OutcomeInserted, nil
	}

	existing, err := s.products.GetByName(ctx, p.Name)
	if err != nil {
		return 0, fmt.Errorf("load existing %q: %w", p.Name, err)
	}
	if !p.NewerOrEqual(existing) {
		s.log.Debug("stored product is newer, keeping it",
			zap.String("name", p.Name),
			zap.Time("stored_updated_at", existing.UpdatedAt),
			zap.Time("incoming_updated_at", p.UpdatedAt),
		)
		return OutcomeSkipped, nil
	}

	existing.Quantity = p.Quantity
	existing.Price = p.Price
	existing.UpdatedAt = p.UpdatedAt
	if _, err := s.products.Update(ctx, existing); err != nil {
		return 0, fmt.Errorf("update %q: %w", p.Name, err)
	}
	s.log.Debug("product updated", zap.Int("id", existing.ID), zap.String("name", existing.Name))
	return OutcomeUpdated, nil
}

// Product looks a product up by id. A miss is reported as repo.ErrProductNotFound.
func (s *Service) Product(ctx context.Context, id int) (models.Product, error) {
	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrProductNotFound) {
			return models.Product{}, err
		}
		return models.Product{}, fmt.Errorf("get product %d: %w", id, err)
	}
	return p, nil
}

package dataprocessing

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	apperrors "orderpulse/internal/errors"
	"orderpulse/internal/infrastructure"
	"orderpulse/pkg/contracts/domain"
)

// Clock returns the current time. Injected so processed_at is testable.
type Clock func() time.Time

// UTCClock is the production clock.
func UTCClock() time.Time {
	return time.Now().UTC()
}

// Transformer enriches orders with order_total and processed_at.
type Transformer struct {
	logger *slog.Logger
	now    Clock
}

// NewTransformer creates a transformer. A nil clock uses UTCClock.
func NewTransformer(logger *slog.Logger, now Clock) *Transformer {
	if logger == nil {
		logger = slog.Default()
	}
	if now == nil {
		now = UTCClock
	}
	return &Transformer{
		logger: infrastructure.WithComponent(logger, "transformer"),
		now:    now,
	}
}

// CalculateOrderTotal returns the exact sum of quantity × unit_price. Any
// negative quantity or unit price is rejected with an InvalidItem error.
func CalculateOrderTotal(orderID domain.OrderID, items []domain.Item) (domain.Money, error) {
	total := decimal.Zero
	for i, item := range items {
		if item.Quantity < 0 {
			return domain.Money{}, apperrors.NewInvalidItemError(orderID.String(), i, "negative quantity")
		}
		if item.UnitPrice.IsNegative() {
			return domain.Money{}, apperrors.NewInvalidItemError(orderID.String(), i, "negative unit price")
		}
		total = total.Add(item.UnitPrice.Decimal.Mul(decimal.NewFromInt(item.Quantity)))
	}
	return domain.NewMoney(total), nil
}

// TransformOrder sets order_total and processed_at on o. Orders that were
// already processed are left untouched.
func (t *Transformer) TransformOrder(o *domain.Order) error {
	if o.IsProcessed() {
		return nil
	}

	total, err := CalculateOrderTotal(o.ID, o.Items)
	if err != nil {
		return err
	}

	processedAt := t.now()
	o.OrderTotal = &total
	o.ProcessedAt = &processedAt
	return nil
}

// Transform enriches every order in place. The first invalid item aborts the
// run; orders before it keep their computed fields.
func (t *Transformer) Transform(ctx context.Context, orders []*domain.Order) error {
	skipped := 0
	for _, o := range orders {
		if o.IsProcessed() {
			skipped++
			continue
		}
		if err := t.TransformOrder(o); err != nil {
			infrastructure.WithError(t.logger, err).ErrorContext(ctx, "invalid order item",
				slog.String("order_id", o.ID.String()))
			return err
		}
	}

	t.logger.DebugContext(ctx, "orders transformed",
		slog.Int("count", len(orders)-skipped),
		slog.Int("already_processed", skipped))
	return nil
}

package dataprocessing

import (
	"orderpulse/pkg/contracts/domain"
)

// Predicate decides whether an order is kept.
type Predicate func(*domain.Order) bool

// ConfirmedOnly keeps orders whose status is exactly "confirmed".
func ConfirmedOnly(o *domain.Order) bool {
	return o.IsConfirmed()
}

// Filter returns the orders matching keep, in input order. The input slice
// and its orders are not modified.
func Filter(orders []*domain.Order, keep Predicate) []*domain.Order {
	kept, _ := partition(orders, keep)
	return kept
}

// partition splits orders into those kept and a count of dropped orders per
// status. A missing or null status is counted under "".
func partition(orders []*domain.Order, keep Predicate) ([]*domain.Order, map[string]int) {
	kept := make([]*domain.Order, 0, len(orders))
	dropped := make(map[string]int)
	for _, o := range orders {
		if keep(o) {
			kept = append(kept, o)
			continue
		}
		dropped[string(o.Status)]++
	}
	return kept, dropped
}

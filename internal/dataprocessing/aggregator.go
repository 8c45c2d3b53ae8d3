package dataprocessing

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	apperrors "orderpulse/internal/errors"
	"orderpulse/pkg/contracts/domain"
)

// MeanPrecision is the number of decimal digits kept when dividing a group
// sum by its count.
const MeanPrecision = 16

// dailyGroup is the running state of one (date, channel) group.
type dailyGroup struct {
	sum       decimal.Decimal
	count     int
	customers map[string]struct{}
}

// DailyAccumulator folds orders into per (date, channel) statistics one at a
// time, so a report can be built without holding the whole order set.
type DailyAccumulator struct {
	groups map[domain.DailyKey]*dailyGroup
}

// NewDailyAccumulator creates an empty accumulator.
func NewDailyAccumulator() *DailyAccumulator {
	return &DailyAccumulator{groups: make(map[domain.DailyKey]*dailyGroup)}
}

// Add folds one processed order into its group.
func (a *DailyAccumulator) Add(o *domain.Order) error {
	date, err := o.OrderDate()
	if err != nil {
		return apperrors.NewParsingError(fmt.Sprintf("order %s: timestamp", o.ID), err).
			WithContext("order_id", o.ID.String())
	}

	key := domain.DailyKey{Date: date, Channel: o.Channel}
	g, ok := a.groups[key]
	if !ok {
		g = &dailyGroup{sum: decimal.Zero, customers: make(map[string]struct{})}
		a.groups[key] = g
	}

	g.sum = g.sum.Add(o.Total().Decimal)
	g.count++
	g.customers[o.CustomerID] = struct{}{}
	return nil
}

// Report returns the statistics accumulated so far.
func (a *DailyAccumulator) Report() *domain.DailyReport {
	report := domain.NewDailyReport()
	for key, g := range a.groups {
		mean := decimal.Zero
		if g.count > 0 {
			mean = g.sum.DivRound(decimal.NewFromInt(int64(g.count)), MeanPrecision)
		}
		report.Stats[key] = domain.DailyStat{
			Date:              key.Date,
			Channel:           key.Channel,
			Sum:               domain.NewMoney(g.sum),
			Count:             g.count,
			Mean:              domain.NewMoney(mean),
			DistinctCustomers: len(g.customers),
		}
	}
	return report
}

// GenerateDailyReport groups orders by calendar date and channel and computes
// sum, count, mean and distinct customers per group. An empty order set
// yields an empty report.
func GenerateDailyReport(orders []*domain.Order) (*domain.DailyReport, error) {
	acc := NewDailyAccumulator()
	for _, o := range orders {
		if err := acc.Add(o); err != nil {
			return nil, err
		}
	}
	return acc.Report(), nil
}

// CustomerAccumulator sums order totals per customer.
type CustomerAccumulator struct {
	totals map[string]*domain.CustomerTotal
}

// NewCustomerAccumulator creates an empty accumulator.
func NewCustomerAccumulator() *CustomerAccumulator {
	return &CustomerAccumulator{totals: make(map[string]*domain.CustomerTotal)}
}

// Add folds one processed order into its customer's total.
func (a *CustomerAccumulator) Add(o *domain.Order) {
	ct, ok := a.totals[o.CustomerID]
	if !ok {
		ct = &domain.CustomerTotal{CustomerID: o.CustomerID}
		a.totals[o.CustomerID] = ct
	}
	ct.Total = domain.NewMoney(ct.Total.Add(o.Total().Decimal))
	ct.OrderCount++
}

// Len returns the number of distinct customers seen.
func (a *CustomerAccumulator) Len() int {
	return len(a.totals)
}

// Top returns up to limit customers by descending total, ties broken by
// ascending customer id.
func (a *CustomerAccumulator) Top(limit int) []domain.CustomerTotal {
	if limit <= 0 {
		return []domain.CustomerTotal{}
	}

	ranked := make([]domain.CustomerTotal, 0, len(a.totals))
	for _, ct := range a.totals {
		ranked = append(ranked, *ct)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if c := ranked[i].Total.Cmp(ranked[j].Total.Decimal); c != 0 {
			return c > 0
		}
		return ranked[i].CustomerID < ranked[j].CustomerID
	})

	if limit < len(ranked) {
		ranked = ranked[:limit]
	}
	return ranked
}

// TopCustomers ranks customers of orders by total spend.
func TopCustomers(orders []*domain.Order, limit int) []domain.CustomerTotal {
	acc := NewCustomerAccumulator()
	for _, o := range orders {
		acc.Add(o)
	}
	return acc.Top(limit)
}

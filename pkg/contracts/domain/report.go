package domain

import (
	"encoding/json"
	"sort"
)

// DefaultTopCustomersLimit is the top-customers size used when none is given.
const DefaultTopCustomersLimit = 10

// DailyKey groups orders by calendar date and sales channel.
type DailyKey struct {
	Date    string `json:"date"`
	Channel string `json:"channel"`
}

// Less orders keys by date, then channel.
func (k DailyKey) Less(other DailyKey) bool {
	if k.Date != other.Date {
		return k.Date < other.Date
	}
	return k.Channel < other.Channel
}

// DailyStat holds the aggregates for one (date, channel) group.
type DailyStat struct {
	Date              string `json:"date" csv:"Date"`
	Channel           string `json:"channel" csv:"Channel"`
	Sum               Money  `json:"sum" csv:"Sum"`
	Count             int    `json:"count" csv:"Count"`
	Mean              Money  `json:"mean" csv:"Mean"`
	DistinctCustomers int    `json:"distinct_customers" csv:"DistinctCustomers"`
}

// Key returns the grouping key of the stat.
func (s DailyStat) Key() DailyKey {
	return DailyKey{Date: s.Date, Channel: s.Channel}
}

// DailyReport maps (date, channel) to its statistics.
type DailyReport struct {
	Stats map[DailyKey]DailyStat `json:"-"`
}

// NewDailyReport creates an empty report.
func NewDailyReport() *DailyReport {
	return &DailyReport{Stats: make(map[DailyKey]DailyStat)}
}

// Len returns the number of groups.
func (r *DailyReport) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Stats)
}

// Get returns the stat for key.
func (r *DailyReport) Get(date, channel string) (DailyStat, bool) {
	if r == nil {
		return DailyStat{}, false
	}
	s, ok := r.Stats[DailyKey{Date: date, Channel: channel}]
	return s, ok
}

// Rows returns all stats sorted by date, then channel.
func (r *DailyReport) Rows() []DailyStat {
	if r == nil {
		return []DailyStat{}
	}
	rows := make([]DailyStat, 0, len(r.Stats))
	for _, s := range r.Stats {
		rows = append(rows, s)
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Key().Less(rows[j].Key())
	})
	return rows
}

// MarshalJSON encodes the report as its sorted rows.
func (r *DailyReport) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Rows())
}

// CustomerTotal is one customer's spend across processed orders.
type CustomerTotal struct {
	CustomerID string `json:"customer_id" csv:"CustomerID"`
	Total      Money  `json:"total" csv:"Total"`
	OrderCount int    `json:"order_count" csv:"OrderCount"`
}

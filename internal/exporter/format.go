package exporter

import (
	"strconv"

	"orderpulse/pkg/contracts/domain"
)

// formatMoney formats an amount for CSV output with exactly 2 decimal places
func formatMoney(m domain.Money) string {
	// 13.4 appears as 13.40
	return m.Fixed(2)
}

// formatInt formats an int value for CSV output
func formatInt(i int) string {
	return strconv.Itoa(i)
}

// dailyHeaders are the column names of the daily report, shared by CSV and XLSX.
var dailyHeaders = []string{"Date", "Channel", "Sum", "Count", "Mean", "DistinctCustomers"}

// customerHeaders are the column names of the top customers report.
var customerHeaders = []string{"Rank", "CustomerID", "Total", "OrderCount"}

func dailyRecord(s domain.DailyStat) []string {
	return []string{
		s.Date,
		s.Channel,
		formatMoney(s.Sum),
		formatInt(s.Count),
		formatMoney(s.Mean),
		formatInt(s.DistinctCustomers),
	}
}

func customerRecord(rank int, c domain.CustomerTotal) []string {
	return []string{
		formatInt(rank),
		c.CustomerID,
		formatMoney(c.Total),
		formatInt(c.OrderCount),
	}
}

package config

import "orderpulse/pkg/contracts"

// Application constants
const (
	AppName    = "orderpulse"
	AppVersion = contracts.Version

	// Pipeline defaults
	DefaultInputFile    = "orders_stream.jsonl"
	DefaultOutputFile   = "processed_orders.json"
	DefaultTopCustomers = 10
	DefaultMaxLineBytes = 10 * 1024 * 1024 // 10MB

	// Output formats for processed orders
	OutputFormatJSON  = "json"
	OutputFormatJSONL = "jsonl"

	// Report artifacts
	DefaultReportsDir     = "reports"
	DailyReportCSVName    = "daily_report.csv"
	TopCustomersCSVName   = "top_customers.csv"
	ReportWorkbookName    = "order_report.xlsx"
	DailyReportSheetName  = "Daily Report"
	TopCustomersSheetName = "Top Customers"

	// Log Settings
	DefaultLogLevel = "info"
	DefaultLogFile  = "logs/orderpipe.log"
)

// Package shared holds helpers used across orderpulse packages that do not
// belong to any single pipeline stage.
//
// # Test Utilities
//
// The testutil subpackage provides:
//
//   - Order fixtures that build NDJSON input lines and files
//   - A buffered slog handler that records log output for assertions
//   - Assertion helpers for log levels, messages and attributes
//
// Example usage:
//
//	func TestLoad(t *testing.T) {
//	    logger, handler := testutil.NewTestLogger(t)
//	    path := testutil.WriteOrdersFile(t, "orders.jsonl", testutil.ExampleOrders(t))
//	    // ...
//	    testutil.AssertNoErrors(t, handler)
//	}
//
// This package should not contain business logic.
package shared

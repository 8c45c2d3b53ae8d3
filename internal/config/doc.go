// Package config provides centralized configuration management for orderpulse.
// It handles loading configuration from multiple sources, validation, and
// resolution of the output paths of a pipeline run.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//  1. Command line flags (applied by the caller)
//  2. Environment variables
//  3. YAML configuration file
//  4. Default values
//
// # Environment Variables
//
// All environment variables follow the pattern ORDERPULSE_<SECTION>_<FIELD>:
//
//	ORDERPULSE_PIPELINE_INPUT_FILE=orders_stream.jsonl
//	ORDERPULSE_PIPELINE_OUTPUT_FORMAT=jsonl
//	ORDERPULSE_PIPELINE_TOP_CUSTOMERS=25
//	ORDERPULSE_REPORTS_DIR=/var/lib/orderpulse/reports
//	ORDERPULSE_LOGGING_LEVEL=debug
//	ORDERPULSE_TELEMETRY_METRICS_FILE=/var/lib/node_exporter/orderpulse.prom
//
// # Usage
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	paths, err := config.NewPaths("", cfg)
package config

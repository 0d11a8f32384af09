// Package telemetry provides OpenTelemetry instrumentation for chatops.
//
// Telemetry is off by default; a GitHub Actions run rarely has a collector
// to talk to. When enabled, New installs global tracer and meter providers
// that export over OTLP (grpc or http/protobuf).
//
// Validator wraps command validation with a span and the
// chatops.validations counter, so the CLI, the webhook and the Temporal
// activity report the same metrics.
//
// Configuration:
//
//	telemetry:
//	  enabled: true
//	  endpoint: "localhost:4317"
//	  service_name: "chatops"
//	  metrics:
//	    enabled: true
//	    export_interval: "15s"
package telemetry

// Package telemetry wires OpenTelemetry tracing and metric instruments for the
// icon service.
//
// It centralises trace provider setup and offers recording helpers that
// attach render attributes (requested and resolved icon counts, grid width,
// theme) so operators can see how composite requests behave.
package telemetry

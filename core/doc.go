// Package core defines the domain model for the log sequence auditor.
//
// The core package provides:
//   - Event, the normalized representation of a single log line
//   - Group, the per-correlation-ID collection of events
//   - StateOrder, the declared allowed state progression
//   - Inconsistency, a classified violation of that progression
//   - A generic worker pool used for parallel per-ID auditing
//
// Types here are built once per audit run and are not mutated afterwards.
// Everything that touches files, flags, or the network lives in other
// packages; core is pure in-memory computation.
package core

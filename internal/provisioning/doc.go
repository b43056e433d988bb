// Package provisioning drives the ordered deployment phases.
//
// A single control goroutine executes phases in a fixed order; a phase is
// either enabled by the plan-derived PhaseSelection or absent from the
// pipeline entirely. Concurrency only ever takes the shape "submit N
// independent external operations, then join all of them" (see the
// diskgroup subpackage).
//
// Failure semantics are fail-fast and forward-only: any external-call
// failure terminates the run, nothing is rolled back, and an idempotent
// re-run is the operator's recovery path. The two deliberate exceptions
// are alarm clearing (best effort per alarm) and planner warnings.
package provisioning

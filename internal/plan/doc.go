// Package plan turns operator input and probed environment facts into an
// immutable DeploymentPlan.
//
// Planning happens exactly once per run, before the confirmation prompt
// and before any mutating operation. Version and topology differences are
// data on the plan, never separate code paths downstream.
package plan

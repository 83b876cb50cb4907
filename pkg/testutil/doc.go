// Package testutil provides utilities for testing agentsmd components.
//
// Key components:
//   - RepoEnv: a throwaway repository tree built on t.TempDir, with optional
//     git initialization and nested-repository markers
//   - ReadTree: a flat snapshot of a directory tree for run-to-run comparisons
//   - Assert* helpers for cases where testify is heavier than needed
//
// Test data should be defined inline, not in external files, and every test
// should be completely isolated with no shared state.
package testutil

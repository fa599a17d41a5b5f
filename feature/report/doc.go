// Package report renders job and reconciliation results as stable,
// line-oriented text for the command surface. It only builds strings;
// callers decide where the output goes.
package report

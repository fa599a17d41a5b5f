// Package reconcile compares two normalized listings and classifies every
// path into a fixed set of discrepancy categories.
//
// The engine answers the question "does the object store's contents match
// what is expected from the local filesystem" for large deliveries without
// holding anything beyond the two in-memory listings.
//
// # Algorithm
//
// Compare builds the union of paths present in either listing and classifies
// each path:
//
//   - only local            -> MISSING_REMOTE
//   - only remote           -> MISSING_LOCAL
//   - both, sizes differ    -> SIZE_MISMATCH
//   - both, checksums differ (when both sides carry one) -> CHECKSUM_MISMATCH
//   - otherwise             -> MATCH
//
// The engine is total (every unique path appears exactly once), deterministic
// (records sorted by path), stateless and side-effect free, so it is safe to
// call in parallel over independent listing pairs.
package reconcile

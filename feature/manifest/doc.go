// Package manifest implements the Manifest Store: the durable record of
// which files constitute a delivery ("Load").
//
// A manifest maps a load_id to an ordered set of file entries (relative
// path, size, optional checksum) plus creation metadata. Manifests are
// immutable after creation; the overwrite policy is an explicit store
// option, not hidden behavior. Manifests are authored from collected local
// listings (EntriesFromListing), keeping manifest content and listing
// normalization bit-identical.
package manifest

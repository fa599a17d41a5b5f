// Package listing produces and persists normalized file listings.
//
// A listing is a snapshot of one side of an upload: either the objects in
// the remote bucket (RemoteProducer) or the files in the local staging tree
// (LocalProducer). Both producers emit the same normalization — forward
// slashes, no leading slash, paths relative to the prefix/root, case
// sensitive — so their outputs are directly comparable by core/reconcile.
//
// # Listing files
//
// Each producer persists its listing to a durable artifact so remote and
// local collection can happen at different times and be compared later.
// The file format is one sorted, tab-separated line per entry
// (path, size, checksum-or-dash), written via temp-file-and-rename so an
// interrupted collection never produces a silently truncated listing.
//
// # Partial failures
//
// Collection over large trees and buckets can be long running. Both
// producers honor context cancellation and return a partial_listing fault
// when interrupted; a nil error is the only complete-enumeration signal.
package listing

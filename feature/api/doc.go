// Package api is the HTTP status surface of the tracker: health, read-only
// manifest and job lookups, and the job completion callback posted by the
// external transfer worker.
package api

package reconcile

// Status classifies one path of the compared listings.
type Status string

const (
	// StatusMatch means the path exists on both sides with equal size (and
	// equal checksum, when both sides have one).
	StatusMatch Status = "MATCH"
	// StatusMissingRemote means the path exists locally but not in the
	// object store.
	StatusMissingRemote Status = "MISSING_REMOTE"
	// StatusMissingLocal means the path exists in the object store but not
	// in the local tree.
	StatusMissingLocal Status = "MISSING_LOCAL"
	// StatusSizeMismatch means both sides have the path with differing sizes.
	StatusSizeMismatch Status = "SIZE_MISMATCH"
	// StatusChecksumMismatch means sizes are equal but the checksums,
	// present on both sides, differ.
	StatusChecksumMismatch Status = "CHECKSUM_MISMATCH"
)

// Record is the reconciliation outcome for a single path.
type Record struct {
	// Path is the normalized relative path.
	Path string `json:"path"`

	// Status is the discrepancy classification.
	Status Status `json:"status"`

	// RemotePresent indicates whether the path exists in the remote listing.
	RemotePresent bool `json:"remote_present"`

	// LocalPresent indicates whether the path exists in the local listing.
	LocalPresent bool `json:"local_present"`

	// RemoteSize is the remote object size; meaningful only when RemotePresent.
	RemoteSize int64 `json:"remote_size"`

	// LocalSize is the local file size; meaningful only when LocalPresent.
	LocalSize int64 `json:"local_size"`

	// RemoteChecksum and LocalChecksum are empty when unavailable.
	RemoteChecksum string `json:"remote_checksum,omitempty"`
	LocalChecksum  string `json:"local_checksum,omitempty"`
}

// Summary provides aggregate counts over a report.
type Summary struct {
	// Total is the number of unique paths across both listings.
	Total int `json:"total"`

	// Matches counts paths present and equal on both sides.
	Matches int `json:"matches"`

	// MissingRemote counts paths present locally but absent remotely.
	MissingRemote int `json:"missing_remote"`

	// MissingLocal counts paths present remotely but absent locally.
	MissingLocal int `json:"missing_local"`

	// SizeMismatches counts paths present on both sides with differing sizes.
	SizeMismatches int `json:"size_mismatches"`

	// ChecksumMismatches counts paths with equal sizes but differing checksums.
	ChecksumMismatches int `json:"checksum_mismatches"`
}

// Report is the ordered set of records for the union of paths across the
// two compared listings, sorted by path.
type Report struct {
	Records []Record `json:"records"`
	Summary Summary  `json:"summary"`
}

// InSync reports whether every path matched.
func (r *Report) InSync() bool {
	return r.Summary.Total == r.Summary.Matches
}

// Discrepancies returns the records that are not matches, preserving order.
func (r *Report) Discrepancies() []Record {
	out := make([]Record, 0, r.Summary.Total-r.Summary.Matches)
	for _, rec := range r.Records {
		if rec.Status != StatusMatch {
			out = append(out, rec)
		}
	}
	return out
}

package reconcile

import (
	"sort"

	"load-manager/core/listing"
)

// Compare reconciles a remote listing against a local listing. It is a pure
// function: no state is read or written, and calling it any number of times
// over the same inputs yields the same report.
//
// The parameter positions assign the roles: entries only in local are
// MISSING_REMOTE, entries only in remote are MISSING_LOCAL. Every unique
// path across both inputs appears exactly once in the report, sorted by
// path for deterministic, diffable output.
func Compare(remote, local listing.Set) *Report {
	union := buildUnion(remote, local)

	records := make([]Record, 0, len(union))
	for key := range union {
		records = append(records, classify(key, remote, local))
	}

	// Sort records by path for deterministic output
	sort.Slice(records, func(i, j int) bool {
		return records[i].Path < records[j].Path
	})

	report := &Report{Records: records}
	for _, rec := range records {
		report.Summary.Total++
		switch rec.Status {
		case StatusMatch:
			report.Summary.Matches++
		case StatusMissingRemote:
			report.Summary.MissingRemote++
		case StatusMissingLocal:
			report.Summary.MissingLocal++
		case StatusSizeMismatch:
			report.Summary.SizeMismatches++
		case StatusChecksumMismatch:
			report.Summary.ChecksumMismatches++
		}
	}

	return report
}

// buildUnion creates a union of all paths from both listings.
func buildUnion(remote, local listing.Set) map[string]struct{} {
	union := make(map[string]struct{}, len(remote))
	for key := range remote {
		union[key] = struct{}{}
	}
	for key := range local {
		union[key] = struct{}{}
	}
	return union
}

// classify builds the Record for a single path.
func classify(key string, remote, local listing.Set) Record {
	remoteEntry, remotePresent := remote[key]
	localEntry, localPresent := local[key]

	rec := Record{
		Path:           key,
		RemotePresent:  remotePresent,
		LocalPresent:   localPresent,
		RemoteSize:     remoteEntry.Size,
		LocalSize:      localEntry.Size,
		RemoteChecksum: remoteEntry.Checksum,
		LocalChecksum:  localEntry.Checksum,
	}

	switch {
	case !remotePresent:
		rec.Status = StatusMissingRemote
	case !localPresent:
		rec.Status = StatusMissingLocal
	case remoteEntry.Size != localEntry.Size:
		// Size difference always wins, independent of checksum availability.
		rec.Status = StatusSizeMismatch
	case remoteEntry.Checksum != "" && localEntry.Checksum != "" && remoteEntry.Checksum != localEntry.Checksum:
		rec.Status = StatusChecksumMismatch
	default:
		rec.Status = StatusMatch
	}

	return rec
}

package listing

import (
	"path"
	"sort"
	"strings"
)

// Entry holds the comparable metadata for one file in a listing.
type Entry struct {
	// Size is the file size in bytes.
	Size int64
	// Checksum is the content checksum when the producer could determine one.
	// Empty means unavailable; comparisons must branch on presence.
	Checksum string
}

// Set is a normalized listing: relative path mapped to its metadata.
// Remote and local producers emit the same normalization, so two Sets are
// directly comparable.
type Set map[string]Entry

// Paths returns the paths of the set sorted ascending.
func (s Set) Paths() []string {
	paths := make([]string, 0, len(s))
	for p := range s {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// TotalBytes returns the sum of all entry sizes.
func (s Set) TotalBytes() int64 {
	var total int64
	for _, e := range s {
		total += e.Size
	}
	return total
}

// NormalizePath converts a raw key or filesystem path to the canonical
// listing form: forward slashes, no leading slash, no "." or ".." segments.
// Paths are case sensitive. Returns "" when nothing remains.
func NormalizePath(raw string) string {
	p := strings.ReplaceAll(raw, "\\", "/")
	p = path.Clean(p)
	p = strings.TrimPrefix(p, "/")
	if p == "." || p == ".." || strings.HasPrefix(p, "../") {
		return ""
	}
	return p
}

// StripPrefix removes the bucket prefix from a normalized key. ok is false
// when the key does not live under the prefix.
func StripPrefix(key, prefix string) (string, bool) {
	prefix = NormalizePath(prefix)
	if prefix == "" {
		return key, true
	}
	if key == prefix {
		return "", false
	}
	if !strings.HasPrefix(key, prefix+"/") {
		return "", false
	}
	return key[len(prefix)+1:], true
}

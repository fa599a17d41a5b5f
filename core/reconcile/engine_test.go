package reconcile

import (
	"testing"

	"load-manager/core/listing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompare_Classification(t *testing.T) {
	remote := listing.Set{
		"a.fits": {Size: 100, Checksum: "aaa"},
		"b.fits": {Size: 150},
		"d.fits": {Size: 70},
		"e.fits": {Size: 40, Checksum: "e-remote"},
		"f.fits": {Size: 10, Checksum: "fff"},
	}
	local := listing.Set{
		"a.fits": {Size: 100, Checksum: "aaa"},
		"b.fits": {Size: 200},
		"c.fits": {Size: 50},
		"e.fits": {Size: 40, Checksum: "e-local"},
		"f.fits": {Size: 10}, // no local checksum: size equality is enough
	}

	report := Compare(remote, local)

	byPath := map[string]Record{}
	for _, rec := range report.Records {
		byPath[rec.Path] = rec
	}

	assert.Equal(t, StatusMatch, byPath["a.fits"].Status)
	assert.Equal(t, StatusSizeMismatch, byPath["b.fits"].Status)
	assert.Equal(t, StatusMissingRemote, byPath["c.fits"].Status)
	assert.Equal(t, StatusMissingLocal, byPath["d.fits"].Status)
	assert.Equal(t, StatusChecksumMismatch, byPath["e.fits"].Status)
	assert.Equal(t, StatusMatch, byPath["f.fits"].Status)

	assert.Equal(t, Summary{
		Total:              6,
		Matches:            2,
		MissingRemote:      1,
		MissingLocal:       1,
		SizeMismatches:     1,
		ChecksumMismatches: 1,
	}, report.Summary)
}

// Manifest scenario: remote has {a:100, b:150}, local has {a:100, b:200, c:50}.
func TestCompare_UploadScenario(t *testing.T) {
	remote := listing.Set{
		"a.fits": {Size: 100},
		"b.fits": {Size: 150},
	}
	local := listing.Set{
		"a.fits": {Size: 100},
		"b.fits": {Size: 200},
		"c.fits": {Size: 50},
	}

	report := Compare(remote, local)

	require.Len(t, report.Records, 3)
	assert.Equal(t, "a.fits", report.Records[0].Path)
	assert.Equal(t, StatusMatch, report.Records[0].Status)
	assert.Equal(t, "b.fits", report.Records[1].Path)
	assert.Equal(t, StatusSizeMismatch, report.Records[1].Status)
	assert.Equal(t, "c.fits", report.Records[2].Path)
	assert.Equal(t, StatusMissingRemote, report.Records[2].Status)
	assert.False(t, report.InSync())
}

func TestCompare_Totality(t *testing.T) {
	remote := listing.Set{"x": {Size: 1}, "y": {Size: 2}, "shared": {Size: 3}}
	local := listing.Set{"z": {Size: 4}, "shared": {Size: 3}}

	report := Compare(remote, local)

	// |Report| = |paths(remote) ∪ paths(local)|
	assert.Equal(t, 4, len(report.Records))
	assert.Equal(t, 4, report.Summary.Total)

	seen := map[string]int{}
	for _, rec := range report.Records {
		seen[rec.Path]++
	}
	for p, n := range seen {
		assert.Equal(t, 1, n, "path %s appears %d times", p, n)
	}
}

// Swapping the arguments swaps the missing roles and keeps everything else.
func TestCompare_Symmetry(t *testing.T) {
	a := listing.Set{
		"only-a": {Size: 1},
		"both":   {Size: 5},
		"sized":  {Size: 9},
	}
	b := listing.Set{
		"only-b": {Size: 2},
		"both":   {Size: 5},
		"sized":  {Size: 11},
	}

	forward := Compare(a, b)
	backward := Compare(b, a)

	require.Equal(t, len(forward.Records), len(backward.Records))
	for i := range forward.Records {
		fw, bw := forward.Records[i], backward.Records[i]
		assert.Equal(t, fw.Path, bw.Path)
		switch fw.Status {
		case StatusMissingRemote:
			assert.Equal(t, StatusMissingLocal, bw.Status)
		case StatusMissingLocal:
			assert.Equal(t, StatusMissingRemote, bw.Status)
		default:
			assert.Equal(t, fw.Status, bw.Status)
		}
	}

	assert.Equal(t, forward.Summary.MissingRemote, backward.Summary.MissingLocal)
	assert.Equal(t, forward.Summary.MissingLocal, backward.Summary.MissingRemote)
	assert.Equal(t, forward.Summary.SizeMismatches, backward.Summary.SizeMismatches)
	assert.Equal(t, forward.Summary.Matches, backward.Summary.Matches)
}

func TestCompare_Deterministic(t *testing.T) {
	remote := listing.Set{"c": {Size: 1}, "a": {Size: 1}, "b": {Size: 1}}
	local := listing.Set{"d": {Size: 1}, "a": {Size: 1}}

	first := Compare(remote, local)
	second := Compare(remote, local)

	require.Equal(t, first, second)
	assert.Equal(t, []string{"a", "b", "c", "d"}, recordPaths(first))
}

func TestCompare_EmptyListings(t *testing.T) {
	report := Compare(listing.Set{}, listing.Set{})
	assert.Empty(t, report.Records)
	assert.True(t, report.InSync())

	report = Compare(listing.Set{}, listing.Set{"a": {Size: 1}})
	require.Len(t, report.Records, 1)
	assert.Equal(t, StatusMissingRemote, report.Records[0].Status)
}

func TestReport_Discrepancies(t *testing.T) {
	remote := listing.Set{"a": {Size: 1}, "b": {Size: 2}}
	local := listing.Set{"a": {Size: 1}, "b": {Size: 3}}

	report := Compare(remote, local)
	disc := report.Discrepancies()

	require.Len(t, disc, 1)
	assert.Equal(t, "b", disc[0].Path)
}

func recordPaths(r *Report) []string {
	paths := make([]string, 0, len(r.Records))
	for _, rec := range r.Records {
		paths = append(paths, rec.Path)
	}
	return paths
}

package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"load-manager/core/reconcile"
	jobmodels "load-manager/feature/job/models"
	manifestmodels "load-manager/feature/manifest/models"
)

const timeLayout = "2006-01-02 15:04:05 MST"

func formatTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format(timeLayout)
}

// RenderJob builds the line-oriented job report block. The layout is stable
// so operators can grep a field by prefix.
func RenderJob(j *jobmodels.Job, m *manifestmodels.Manifest) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Load-ID     : %s\n", j.LoadID)
	fmt.Fprintf(&b, "Total files : %d\n", m.TotalFiles)
	fmt.Fprintf(&b, "Total size  : %s\n", humanize.IBytes(uint64(m.TotalBytes)))
	fmt.Fprintf(&b, "Job ID      : %s\n", j.ID)
	fmt.Fprintf(&b, "Status      : %s\n", j.Status)
	fmt.Fprintf(&b, "Created at  : %s\n", formatTime(&j.CreatedAt))
	fmt.Fprintf(&b, "Started at  : %s\n", formatTime(j.StartedAt))
	fmt.Fprintf(&b, "Ended at    : %s\n", formatTime(j.EndedAt))
	if j.StartedAt != nil {
		fmt.Fprintf(&b, "Elapsed     : %s\n", j.Elapsed().Round(time.Second))
	}
	if j.Status.Terminal() {
		fmt.Fprintf(&b, "Uploaded    : %d files, %s\n",
			j.UploadedFiles, humanize.IBytes(uint64(j.UploadedBytes)))
	}
	if j.Detail != "" {
		fmt.Fprintf(&b, "Detail      : %s\n", j.Detail)
	}

	return b.String()
}

// Options tune reconciliation rendering.
type Options struct {
	// All includes MATCH records alongside the discrepancies.
	All bool
}

// RenderReconciliation builds the comparison report: a summary header
// followed by one line per record, sorted by path. By default only
// discrepancies are listed so a clean run stays short.
func RenderReconciliation(r *reconcile.Report, opts Options) string {
	var b strings.Builder

	s := r.Summary
	fmt.Fprintf(&b, "Total paths       : %d\n", s.Total)
	fmt.Fprintf(&b, "Matches           : %d\n", s.Matches)
	fmt.Fprintf(&b, "Missing remote    : %d\n", s.MissingRemote)
	fmt.Fprintf(&b, "Missing local     : %d\n", s.MissingLocal)
	fmt.Fprintf(&b, "Size mismatches   : %d\n", s.SizeMismatches)
	fmt.Fprintf(&b, "Checksum mismatch : %d\n", s.ChecksumMismatches)

	if r.InSync() {
		b.WriteString("\nListings are in sync.\n")
		if !opts.All {
			return b.String()
		}
	}

	records := r.Discrepancies()
	if opts.All {
		records = r.Records
	}
	if len(records) > 0 {
		b.WriteString("\n")
	}
	for _, rec := range records {
		b.WriteString(renderRecord(rec))
	}

	return b.String()
}

func renderRecord(rec reconcile.Record) string {
	switch rec.Status {
	case reconcile.StatusSizeMismatch:
		return fmt.Sprintf("%-17s  %s  (remote %d, local %d)\n",
			rec.Status, rec.Path, rec.RemoteSize, rec.LocalSize)
	case reconcile.StatusChecksumMismatch:
		return fmt.Sprintf("%-17s  %s  (remote %s, local %s)\n",
			rec.Status, rec.Path, rec.RemoteChecksum, rec.LocalChecksum)
	default:
		return fmt.Sprintf("%-17s  %s\n", rec.Status, rec.Path)
	}
}

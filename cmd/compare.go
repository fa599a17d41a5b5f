package cmd

import (
	"fmt"

	"load-manager/core/listing"
	"load-manager/core/reconcile"
	"load-manager/feature/report"

	"github.com/spf13/cobra"
)

var compareAll bool

var compareCmd = &cobra.Command{
	Use:   "compare REMOTE_LISTING LOCAL_LISTING",
	Short: "Compare a remote listing against a local one",
	Long: `Compare two listing files and report, per path, whether the upload is
in sync: matches, files missing on either side, and size or checksum
mismatches.

Examples:
  load-manager listing remote --output remote.listing
  load-manager listing local --root /staging/qr2 --output local.listing
  load-manager compare remote.listing local.listing`,
	Args: cobra.ExactArgs(2),
	RunE: runCompare,
}

func init() {
	compareCmd.Flags().BoolVar(&compareAll, "all", false, "Include matching paths in the output")
	RootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	remote, err := listing.ReadFile(args[0])
	if err != nil {
		return err
	}
	local, err := listing.ReadFile(args[1])
	if err != nil {
		return err
	}

	result := reconcile.Compare(remote, local)
	fmt.Print(report.RenderReconciliation(result, report.Options{All: compareAll}))
	return nil
}

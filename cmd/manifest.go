package cmd

import (
	"context"
	"fmt"

	"load-manager/core/fault"
	"load-manager/core/listing"
	"load-manager/feature/manifest"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	manifestmodels "load-manager/feature/manifest/models"
)

var (
	manifestLoadID     string
	manifestFromFile   string
	manifestChecksums  bool
	manifestListFilter string
)

// manifestCmd is the parent command for all manifest operations.
var manifestCmd = &cobra.Command{
	Use:   "manifest",
	Short: "Manage upload manifests",
	Long: `A manifest records what a load should upload: the relative path, size
and optional checksum of every file. Manifests are immutable once created;
jobs and comparisons refer back to them.`,
}

var manifestCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a manifest from a listing file",
	Long: `Create a manifest for a load from a previously collected listing file
(see "listing local"). The manifest is rejected when one already exists for
the load unless the overwrite policy is enabled.

Examples:
  # Collect the staging tree, then freeze it into a manifest
  load-manager listing local --root /staging/qr2 --output qr2.listing
  load-manager manifest create --load-id IRSA-qr2-2026_024 --from-listing qr2.listing`,
	RunE: runManifestCreate,
}

var manifestListCmd = &cobra.Command{
	Use:   "list",
	Short: "List manifests",
	RunE:  runManifestList,
}

var manifestGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show one manifest with its file entries",
	RunE:  runManifestGet,
}

func init() {
	manifestCreateCmd.Flags().StringVar(&manifestLoadID, "load-id", "", "Load identifier (required)")
	manifestCreateCmd.Flags().StringVar(&manifestFromFile, "from-listing", "", "Listing file to build the manifest from (required)")
	manifestCreateCmd.Flags().BoolVar(&manifestChecksums, "checksum", false, "Require a checksum on every listing entry")
	_ = manifestCreateCmd.MarkFlagRequired("load-id")
	_ = manifestCreateCmd.MarkFlagRequired("from-listing")

	manifestListCmd.Flags().StringVar(&manifestListFilter, "load-id", "", "Filter by load identifier prefix")

	manifestGetCmd.Flags().StringVar(&manifestLoadID, "load-id", "", "Load identifier (required)")
	_ = manifestGetCmd.MarkFlagRequired("load-id")

	manifestCmd.AddCommand(manifestCreateCmd)
	manifestCmd.AddCommand(manifestListCmd)
	manifestCmd.AddCommand(manifestGetCmd)
	RootCmd.AddCommand(manifestCmd)
}

func runManifestCreate(cmd *cobra.Command, args []string) error {
	rt, err := setup()
	if err != nil {
		return err
	}
	ctx := context.Background()

	set, err := listing.ReadFile(manifestFromFile)
	if err != nil {
		return err
	}

	entries := manifest.EntriesFromListing(set)
	if manifestChecksums {
		for _, e := range entries {
			if e.Checksum == "" {
				return fault.New(fault.KindValidation, "manifest.create", manifestLoadID,
					"entry %q has no checksum", e.Path)
			}
		}
	}

	m, err := rt.manifestStore().Create(ctx, manifestLoadID, entries)
	if err != nil {
		return err
	}

	rt.logger.Info("manifest created",
		zap.String("load_id", m.LoadID),
		zap.String("manifest_id", m.ID),
		zap.Int("total_files", m.TotalFiles),
		zap.String("total_size", humanize.IBytes(uint64(m.TotalBytes))))
	return nil
}

func runManifestList(cmd *cobra.Command, args []string) error {
	rt, err := setup()
	if err != nil {
		return err
	}

	manifests, err := rt.manifestStore().List(context.Background(), manifestListFilter)
	if err != nil {
		return err
	}
	if len(manifests) == 0 {
		fmt.Println("no manifests")
		return nil
	}
	for _, m := range manifests {
		fmt.Printf("%s  files=%d  size=%s  created=%s\n",
			m.LoadID, m.TotalFiles, humanize.IBytes(uint64(m.TotalBytes)),
			m.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}

func runManifestGet(cmd *cobra.Command, args []string) error {
	rt, err := setup()
	if err != nil {
		return err
	}

	m, err := rt.manifestStore().Get(context.Background(), manifestLoadID)
	if err != nil {
		return err
	}

	fmt.Printf("Load-ID     : %s\n", m.LoadID)
	fmt.Printf("Manifest ID : %s\n", m.ID)
	fmt.Printf("Created at  : %s\n", m.CreatedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Printf("Total files : %d\n", m.TotalFiles)
	fmt.Printf("Total size  : %s\n", humanize.IBytes(uint64(m.TotalBytes)))
	fmt.Println()
	for _, e := range m.Entries {
		fmt.Println(formatEntry(e))
	}
	return nil
}

func formatEntry(e manifestmodels.FileEntry) string {
	checksum := e.Checksum
	if checksum == "" {
		checksum = "-"
	}
	return fmt.Sprintf("%12d  %-32s  %s", e.Size, checksum, e.Path)
}

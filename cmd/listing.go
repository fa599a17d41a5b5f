package cmd

import (
	"context"
	"fmt"

	"load-manager/core/listing"
	"load-manager/core/storage"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	listingOutput string
	listingRoot   string
	listingPrefix string
)

// listingCmd is the parent command for the listing collectors.
var listingCmd = &cobra.Command{
	Use:   "listing",
	Short: "Collect file listings",
	Long: `Collect a listing of either the remote bucket or the local staging
tree. Listings are written to a file (one line per entry, sorted by path)
and fed into "compare" to verify an upload.`,
}

var listingRemoteCmd = &cobra.Command{
	Use:   "remote",
	Short: "Collect the remote bucket listing",
	RunE:  runListingRemote,
}

var listingLocalCmd = &cobra.Command{
	Use:   "local",
	Short: "Collect the local staging tree listing",
	RunE:  runListingLocal,
}

func init() {
	listingRemoteCmd.Flags().StringVar(&listingOutput, "output", "", "Listing file to write (required)")
	listingRemoteCmd.Flags().StringVar(&listingPrefix, "prefix", "", "Override the configured bucket prefix")
	_ = listingRemoteCmd.MarkFlagRequired("output")

	listingLocalCmd.Flags().StringVar(&listingOutput, "output", "", "Listing file to write (required)")
	listingLocalCmd.Flags().StringVar(&listingRoot, "root", "", "Override the configured staging root")
	_ = listingLocalCmd.MarkFlagRequired("output")

	listingCmd.AddCommand(listingRemoteCmd)
	listingCmd.AddCommand(listingLocalCmd)
	RootCmd.AddCommand(listingCmd)
}

func runListingRemote(cmd *cobra.Command, args []string) error {
	rt, err := setup()
	if err != nil {
		return err
	}
	ctx := context.Background()

	client, err := storage.NewClient(rt.cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to connect to storage: %w", err)
	}

	prefix := rt.cfg.Storage.Prefix
	if listingPrefix != "" {
		prefix = listingPrefix
	}

	rt.logger.Info("collecting remote listing",
		zap.String("bucket", rt.cfg.Storage.Bucket),
		zap.String("prefix", prefix))

	set, err := listing.NewRemoteProducer(client, rt.cfg.Storage.Bucket, prefix).Collect(ctx)
	if err != nil {
		return err
	}
	return writeListing(rt, set)
}

func runListingLocal(cmd *cobra.Command, args []string) error {
	rt, err := setup()
	if err != nil {
		return err
	}
	ctx := context.Background()

	root := rt.cfg.Staging.Root
	if listingRoot != "" {
		root = listingRoot
	}
	if root == "" {
		return fmt.Errorf("no staging root: set STAGING_ROOT or pass --root")
	}

	rt.logger.Info("collecting local listing",
		zap.String("root", root),
		zap.Bool("follow_symlinks", rt.cfg.Collector.FollowSymlinks))

	set, err := listing.NewLocalProducer(root, rt.cfg.Collector).Collect(ctx)
	if err != nil {
		return err
	}
	return writeListing(rt, set)
}

func writeListing(rt *runtime, set listing.Set) error {
	if err := listing.WriteFile(listingOutput, set); err != nil {
		return err
	}
	rt.logger.Info("listing written",
		zap.String("file", listingOutput),
		zap.Int("entries", len(set)),
		zap.Int64("total_bytes", set.TotalBytes()))
	return nil
}

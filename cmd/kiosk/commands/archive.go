package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Manage stored conversations",
}

var archiveExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Upload every pending conversation to S3",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if !cfg.Archive.S3.Enabled() {
			return fmt.Errorf("archive.s3.bucket is not configured")
		}

		stack, err := openArchive(cfg.Archive)
		if err != nil {
			return err
		}
		defer stack.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
		defer cancel()

		exported, err := stack.batcher.Flush(ctx)
		if err != nil {
			return fmt.Errorf("export: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "exported %d conversations\n", exported)
		return nil
	},
}

var archivePendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "Show how many conversations wait for export",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		stack, err := openArchive(cfg.Archive)
		if err != nil {
			return err
		}
		defer stack.Close()

		count, err := stack.store.Count(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d pending\n", count)
		return nil
	},
}

func init() {
	archiveCmd.AddCommand(archiveExportCmd)
	archiveCmd.AddCommand(archivePendingCmd)
	rootCmd.AddCommand(archiveCmd)
}

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"centavo/internal/cli"
)

func backupCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Write a snapshot of the database to a file",
		Long: `Export the full database image to a single file. The file is a
standard SQLite database and can be inspected with any SQLite tool.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.eng.Initialize(cmd.Context()); err != nil {
				return err
			}

			image, err := a.eng.Export(cmd.Context())
			if err != nil {
				return err
			}

			if output == "" {
				output = fmt.Sprintf("centavo-backup-%s.db", time.Now().Format("2006-01-02"))
			}
			if err := os.WriteFile(output, image, 0o600); err != nil {
				return fmt.Errorf("failed to write backup: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("wrote %d bytes to %s", len(image), output)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "backup file path (default: centavo-backup-<date>.db)")
	return cmd
}

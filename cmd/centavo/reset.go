package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"centavo/internal/cli"
)

func resetCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Erase all data and start over",
		Long: `Drop every table and recreate the empty schema. All users,
transactions, categories and preferences are lost.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !force {
				ok, err := cli.Confirm(os.Stdin, os.Stdout, "This erases ALL data. Continue?")
				if err != nil {
					return err
				}
				if !ok {
					fmt.Println(cli.SubtleStyle.Render("aborted"))
					return nil
				}
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.eng.Reset(cmd.Context()); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess("database reset"))
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "skip the confirmation prompt")
	return cmd
}

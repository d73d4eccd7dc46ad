package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"centavo/internal/cli"
	"centavo/internal/model"
)

func settingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show and change user preferences",
	}

	cmd.AddCommand(showSettingsCmd())
	cmd.AddCommand(setSettingsCmd())
	cmd.AddCommand(resetSettingsCmd())
	return cmd
}

func showSettingsCmd() *cobra.Command {
	var userID int64

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show a user's preferences",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			settings, err := a.repos.Settings.GetOrCreate(cmd.Context(), userID)
			if err != nil {
				return err
			}

			fmt.Println(cli.FormatTitle("Preferences"))
			fmt.Printf("  Currency     %s (%s)\n", settings.Currency, settings.CurrencySymbol)
			fmt.Printf("  Theme        %s\n", settings.Theme)
			fmt.Printf("  Language     %s\n", settings.Language)
			fmt.Printf("  Date format  %s\n", settings.DateFormat)
			return nil
		},
	}

	cmd.Flags().Int64Var(&userID, "user", 1, "user id")
	return cmd
}

func setSettingsCmd() *cobra.Command {
	var (
		userID     int64
		currency   string
		symbol     string
		theme      string
		language   string
		dateFormat string
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change preferences",
		Long:  `Change one or more preferences. Only the flags you pass are updated.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			var data model.UpdateSettings
			if cmd.Flags().Changed("currency") {
				data.Currency = &currency
			}
			if cmd.Flags().Changed("symbol") {
				data.CurrencySymbol = &symbol
			}
			if cmd.Flags().Changed("theme") {
				t := model.Theme(theme)
				data.Theme = &t
			}
			if cmd.Flags().Changed("language") {
				data.Language = &language
			}
			if cmd.Flags().Changed("date-format") {
				data.DateFormat = &dateFormat
			}

			if _, err := a.repos.Settings.UpdateByUser(cmd.Context(), userID, data); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess("preferences updated"))
			return nil
		},
	}

	cmd.Flags().Int64Var(&userID, "user", 1, "user id")
	cmd.Flags().StringVar(&currency, "currency", "", "ISO currency code, e.g. USD")
	cmd.Flags().StringVar(&symbol, "symbol", "", "currency symbol, e.g. $")
	cmd.Flags().StringVar(&theme, "theme", "", "theme (light, dark, system)")
	cmd.Flags().StringVar(&language, "language", "", "interface language code")
	cmd.Flags().StringVar(&dateFormat, "date-format", "", "date display format")
	return cmd
}

func resetSettingsCmd() *cobra.Command {
	var userID int64

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Restore the default preferences",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			if _, err := a.repos.Settings.ResetDefaults(cmd.Context(), userID); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess("preferences reset to defaults"))
			return nil
		},
	}

	cmd.Flags().Int64Var(&userID, "user", 1, "user id")
	return cmd
}

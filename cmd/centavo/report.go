package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"centavo/internal/cli"
	"centavo/internal/model"
)

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summaries and breakdowns of your money",
	}

	cmd.AddCommand(summaryCmd())
	cmd.AddCommand(monthlyCmd())
	cmd.AddCommand(breakdownCmd())
	return cmd
}

func summaryCmd() *cobra.Command {
	var (
		userID int64
		from   string
		to     string
	)

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Income, expense and balance, optionally within a date range",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			summary, err := a.repos.Transactions.GetBalanceSummary(cmd.Context(), userID, from, to)
			if err != nil {
				return err
			}
			settings, err := a.repos.Settings.GetOrCreate(cmd.Context(), userID)
			if err != nil {
				return err
			}

			fmt.Println(cli.FormatTitle("Balance"))
			fmt.Printf("  Income   %s  (%d entries)\n",
				cli.FormatMoney(settings.CurrencySymbol, summary.TotalIncome, true), summary.IncomeCount)
			fmt.Printf("  Expense  %s  (%d entries)\n",
				cli.FormatMoney(settings.CurrencySymbol, summary.TotalExpense, false), summary.ExpenseCount)
			fmt.Printf("  Balance  %s%s\n", settings.CurrencySymbol, summary.Balance.StringFixed(2))
			return nil
		},
	}

	cmd.Flags().Int64Var(&userID, "user", 1, "user id")
	cmd.Flags().StringVar(&from, "from", "", "earliest date, inclusive (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "latest date, inclusive (YYYY-MM-DD)")
	return cmd
}

func monthlyCmd() *cobra.Command {
	var (
		userID int64
		months int
	)

	cmd := &cobra.Command{
		Use:   "monthly",
		Short: "Month-by-month income and expense totals",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			comparison, err := a.repos.Transactions.GetMonthlyComparison(cmd.Context(), userID, months)
			if err != nil {
				return err
			}
			settings, err := a.repos.Settings.GetOrCreate(cmd.Context(), userID)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				cli.HeaderStyle.Render("Month"),
				cli.HeaderStyle.Render("Income"),
				cli.HeaderStyle.Render("Expense"),
				cli.HeaderStyle.Render("Balance"))
			for _, m := range comparison {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s%s\n",
					m.Month,
					cli.FormatMoney(settings.CurrencySymbol, m.Income, true),
					cli.FormatMoney(settings.CurrencySymbol, m.Expense, false),
					settings.CurrencySymbol, m.Balance.StringFixed(2))
			}
			return nil
		},
	}

	cmd.Flags().Int64Var(&userID, "user", 1, "user id")
	cmd.Flags().IntVar(&months, "months", 6, "how many trailing months to include")
	return cmd
}

func breakdownCmd() *cobra.Command {
	var (
		userID   int64
		typeFlag string
		from     string
		to       string
	)

	cmd := &cobra.Command{
		Use:   "breakdown",
		Short: "Per-category share of a type's total",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			breakdown, err := a.repos.Transactions.GetCategoryBreakdown(
				cmd.Context(), userID, model.TransactionType(typeFlag), from, to)
			if err != nil {
				return err
			}
			if len(breakdown) == 0 {
				fmt.Println(cli.SubtleStyle.Render("Nothing to break down."))
				return nil
			}
			settings, err := a.repos.Settings.GetOrCreate(cmd.Context(), userID)
			if err != nil {
				return err
			}

			income := model.TransactionType(typeFlag) == model.TypeIncome
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()
			fmt.Fprintf(w, "%s\t%s\t%s\n",
				cli.HeaderStyle.Render("Category"),
				cli.HeaderStyle.Render("Total"),
				cli.HeaderStyle.Render("Share"))
			for _, b := range breakdown {
				fmt.Fprintf(w, "%s\t%s\t%.1f%%\n",
					b.CategoryName,
					cli.FormatMoney(settings.CurrencySymbol, b.Total, income),
					b.Percentage)
			}
			return nil
		},
	}

	cmd.Flags().Int64Var(&userID, "user", 1, "user id")
	cmd.Flags().StringVar(&typeFlag, "type", "expense", "transaction type (income, expense)")
	cmd.Flags().StringVar(&from, "from", "", "earliest date, inclusive (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "latest date, inclusive (YYYY-MM-DD)")
	return cmd
}

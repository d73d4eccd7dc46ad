package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"centavo/internal/cli"
	"centavo/internal/model"
)

func txCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tx",
		Short: "Record and list transactions",
	}

	cmd.AddCommand(addTxCmd())
	cmd.AddCommand(listTxCmd())
	cmd.AddCommand(deleteTxCmd())
	return cmd
}

func addTxCmd() *cobra.Command {
	var (
		userID      int64
		categoryID  int64
		typeFlag    string
		date        string
		description string
	)

	cmd := &cobra.Command{
		Use:   "add <amount>",
		Short: "Record a transaction",
		Long: `Record an income or expense entry. The amount is a positive decimal
and the category's type must match the transaction's type.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := decimal.NewFromString(args[0])
			if err != nil {
				return fmt.Errorf("invalid amount %q", args[0])
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			if date == "" {
				date = time.Now().Format(model.DateFormat)
			}
			var desc *string
			if description != "" {
				desc = &description
			}

			transaction, err := a.repos.Transactions.Create(cmd.Context(), model.CreateTransaction{
				Amount:      amount,
				Type:        model.TransactionType(typeFlag),
				Description: desc,
				Date:        date,
				CategoryID:  categoryID,
				UserID:      userID,
			})
			if err != nil {
				return err
			}

			settings, err := a.repos.Settings.GetOrCreate(cmd.Context(), userID)
			if err != nil {
				return err
			}

			fmt.Printf("%s %s on %s (id %d)\n",
				cli.FormatSuccess("recorded"),
				cli.FormatMoney(settings.CurrencySymbol, transaction.Amount, transaction.Type == model.TypeIncome),
				transaction.Date, transaction.ID)
			return nil
		},
	}

	cmd.Flags().Int64Var(&userID, "user", 1, "user id")
	cmd.Flags().Int64Var(&categoryID, "category", 0, "category id")
	cmd.Flags().StringVar(&typeFlag, "type", "expense", "transaction type (income, expense)")
	cmd.Flags().StringVar(&date, "date", "", "date as YYYY-MM-DD (default: today)")
	cmd.Flags().StringVar(&description, "description", "", "optional note")
	_ = cmd.MarkFlagRequired("category")
	return cmd
}

func listTxCmd() *cobra.Command {
	var (
		userID   int64
		typeFlag string
		from     string
		to       string
		search   string
		limit    int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions, newest first",
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

			if typeFlag == "" && from == "" && to == "" && search == "" {
				recent, err := a.repos.Transactions.FindRecent(cmd.Context(), userID, limit)
				if err != nil {
					return err
				}
				if len(recent) == 0 {
					fmt.Println(cli.SubtleStyle.Render("No transactions yet."))
					return nil
				}

				w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
				defer func() { _ = w.Flush() }()
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					cli.HeaderStyle.Render("ID"),
					cli.HeaderStyle.Render("Date"),
					cli.HeaderStyle.Render("Amount"),
					cli.HeaderStyle.Render("Category"),
					cli.HeaderStyle.Render("Description"))
				for _, t := range recent {
					desc := ""
					if t.Description != nil {
						desc = *t.Description
					}
					fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
						t.ID, t.Date,
						cli.FormatMoney(settings.CurrencySymbol, t.Amount, t.Type == model.TypeIncome),
						t.CategoryName, desc)
				}
				return nil
			}

			transactions, err := a.repos.Transactions.FindWithFilters(cmd.Context(), userID, model.TransactionFilters{
				Type:      model.TransactionType(typeFlag),
				StartDate: from,
				EndDate:   to,
				Search:    search,
			})
			if err != nil {
				return err
			}
			if len(transactions) == 0 {
				fmt.Println(cli.SubtleStyle.Render("No transactions match."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				cli.HeaderStyle.Render("ID"),
				cli.HeaderStyle.Render("Date"),
				cli.HeaderStyle.Render("Amount"),
				cli.HeaderStyle.Render("Description"))
			for _, t := range transactions {
				desc := ""
				if t.Description != nil {
					desc = *t.Description
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n",
					t.ID, t.Date,
					cli.FormatMoney(settings.CurrencySymbol, t.Amount, t.Type == model.TypeIncome),
					desc)
			}
			return nil
		},
	}

	cmd.Flags().Int64Var(&userID, "user", 1, "user id")
	cmd.Flags().StringVar(&typeFlag, "type", "", "filter by type (income, expense)")
	cmd.Flags().StringVar(&from, "from", "", "earliest date, inclusive (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "latest date, inclusive (YYYY-MM-DD)")
	cmd.Flags().StringVar(&search, "search", "", "match against descriptions")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum rows when no filters are given")
	return cmd
}

func deleteTxCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid transaction id %q", args[0])
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			deleted, err := a.repos.Transactions.Delete(cmd.Context(), id)
			if err != nil {
				return err
			}
			if !deleted {
				fmt.Println(cli.FormatWarning(fmt.Sprintf("transaction %d not found", id)))
				return nil
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("deleted transaction %d", id)))
			return nil
		},
	}
}

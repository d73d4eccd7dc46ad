package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"centavo/internal/cli"
	"centavo/internal/model"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage transaction categories",
	}

	cmd.AddCommand(listCategoriesCmd())
	cmd.AddCommand(addCategoryCmd())
	cmd.AddCommand(editCategoryCmd())
	cmd.AddCommand(deleteCategoryCmd())
	return cmd
}

func listCategoriesCmd() *cobra.Command {
	var (
		userID   int64
		typeFlag string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List categories visible to a user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			var categories []model.Category
			if typeFlag != "" {
				categories, err = a.repos.Categories.FindByType(cmd.Context(), userID, model.TransactionType(typeFlag))
			} else {
				categories, err = a.repos.Categories.FindByUser(cmd.Context(), userID)
			}
			if err != nil {
				return err
			}

			if len(categories) == 0 {
				fmt.Println(cli.SubtleStyle.Render("No categories yet. Use 'centavo categories add' to create one."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				cli.HeaderStyle.Render("ID"),
				cli.HeaderStyle.Render("Name"),
				cli.HeaderStyle.Render("Type"),
				cli.HeaderStyle.Render("Icon"),
				cli.HeaderStyle.Render("Default"))
			for _, c := range categories {
				isDefault := ""
				if c.IsDefault {
					isDefault = "yes"
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", c.ID, c.Name, c.Type, c.Icon, isDefault)
			}
			return nil
		},
	}

	cmd.Flags().Int64Var(&userID, "user", 1, "user id")
	cmd.Flags().StringVar(&typeFlag, "type", "", "filter by type (income, expense)")
	return cmd
}

func addCategoryCmd() *cobra.Command {
	var (
		userID   int64
		typeFlag string
		color    string
		icon     string
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a custom category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			category, err := a.repos.Categories.Create(cmd.Context(), model.CreateCategory{
				Name:   args[0],
				Type:   model.TransactionType(typeFlag),
				Color:  color,
				Icon:   icon,
				UserID: &userID,
			})
			if err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("created category %q (id %d)", category.Name, category.ID)))
			return nil
		},
	}

	cmd.Flags().Int64Var(&userID, "user", 1, "owning user id")
	cmd.Flags().StringVar(&typeFlag, "type", "expense", "category type (income, expense)")
	cmd.Flags().StringVar(&color, "color", "#6B7280", "display color")
	cmd.Flags().StringVar(&icon, "icon", "Package", "display icon")
	return cmd
}

func editCategoryCmd() *cobra.Command {
	var (
		name  string
		color string
		icon  string
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a category's name, color or icon",
		Long: `Edit a category. The type cannot change. Editing a default category
turns it into a custom one.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid category id %q", args[0])
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			var data model.UpdateCategory
			if cmd.Flags().Changed("name") {
				data.Name = &name
			}
			if cmd.Flags().Changed("color") {
				data.Color = &color
			}
			if cmd.Flags().Changed("icon") {
				data.Icon = &icon
			}

			category, err := a.repos.Categories.Update(cmd.Context(), id, data)
			if err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("updated category %q", category.Name)))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&color, "color", "", "new color")
	cmd.Flags().StringVar(&icon, "icon", "", "new icon")
	return cmd
}

func deleteCategoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a category with no transactions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid category id %q", args[0])
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			deleted, err := a.repos.Categories.Delete(cmd.Context(), id)
			if err != nil {
				return err
			}
			if !deleted {
				fmt.Println(cli.FormatWarning(fmt.Sprintf("category %d not found", id)))
				return nil
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("deleted category %d", id)))
			return nil
		},
	}
}

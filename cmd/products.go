package main

import (
	"errors"
	"fmt"

	"product_manager/internal/cli"
	"product_manager/internal/domain"
	"product_manager/internal/usecase"

	"github.com/spf13/cobra"
)

var quietLogs = map[string]string{annotationLogs: logsQuiet}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all products",
	Long: `List every product in the catalog.

Examples:
  product_manager list
  product_manager list --output json`,
	Args:        cobra.NoArgs,
	Annotations: quietLogs,
	RunE:        runList,
}

var searchCmd = &cobra.Command{
	Use:   "search <keyword>",
	Short: "Search products by name or description",
	Long: `Search the catalog. A blank keyword lists everything.

Examples:
  product_manager search "áo thun"
  product_manager search jean --output yaml`,
	Args:        cobra.ExactArgs(1),
	Annotations: quietLogs,
	RunE:        runSearch,
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a product",
	Long: `Add a product. All four fields are required and the price must be a
number.

Examples:
  product_manager add --name "Mũ len" --price 99000 \
      --description "Mũ len ấm" --image https://example.com/mu.jpg`,
	Args:        cobra.NoArgs,
	Annotations: quietLogs,
	RunE:        runAdd,
}

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a product",
	Long: `Edit a product. Fields that are not given keep their current value.

Examples:
  product_manager edit 64f1c2a9e4b0a1b2c3d4e5f6 --price 150000`,
	Args:        cobra.ExactArgs(1),
	Annotations: quietLogs,
	RunE:        runEdit,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a product",
	Long: `Delete a product. On a terminal you are asked to confirm; otherwise
--yes is required.

Examples:
  product_manager delete 64f1c2a9e4b0a1b2c3d4e5f6
  product_manager delete 64f1c2a9e4b0a1b2c3d4e5f6 --yes`,
	Args:        cobra.ExactArgs(1),
	Annotations: quietLogs,
	RunE:        runDelete,
}

var (
	outputFormat string

	formName        string
	formPrice       string
	formDescription string
	formImage       string

	deleteYes bool
)

func init() {
	for _, c := range []*cobra.Command{listCmd, searchCmd} {
		c.Flags().StringVarP(&outputFormat, "output", "o", cli.FormatTable, "output format: table, json or yaml")
	}
	for _, c := range []*cobra.Command{addCmd, editCmd} {
		c.Flags().StringVar(&formName, "name", "", "product name")
		c.Flags().StringVar(&formPrice, "price", "", "price")
		c.Flags().StringVar(&formDescription, "description", "", "description")
		c.Flags().StringVar(&formImage, "image", "", "image URL")
	}
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "delete without asking")

	rootCmd.AddCommand(listCmd, searchCmd, addCmd, editCmd, deleteCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	m := newManager()
	if err := m.Load(cmd.Context()); err != nil {
		return err
	}
	return cli.WriteProducts(cmd.OutOrStdout(), m.Snapshot().Products, outputFormat)
}

func runSearch(cmd *cobra.Command, args []string) error {
	m := newManager()
	m.SetSearch(args[0])
	if err := m.Search(cmd.Context()); err != nil {
		return err
	}
	return cli.WriteProducts(cmd.OutOrStdout(), m.Snapshot().Products, outputFormat)
}

func runAdd(cmd *cobra.Command, args []string) error {
	m := newManager()
	m.SetDraft(domain.ProductForm{
		Name:        formName,
		Price:       formPrice,
		Description: formDescription,
		Image:       formImage,
	})
	if err := m.Create(cmd.Context()); err != nil {
		return submitError(err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", cli.Green("Đã thêm sản phẩm"), formName)
	return nil
}

func runEdit(cmd *cobra.Command, args []string) error {
	id := args[0]
	m := newManager()
	if err := m.Load(cmd.Context()); err != nil {
		return err
	}
	if err := m.StartEdit(id); err != nil {
		if errors.Is(err, usecase.ErrProductNotInList) {
			return fmt.Errorf("product %s not found", id)
		}
		return err
	}

	draft := m.Snapshot().Draft
	flags := cmd.Flags()
	if flags.Changed("name") {
		draft.Name = formName
	}
	if flags.Changed("price") {
		draft.Price = formPrice
	}
	if flags.Changed("description") {
		draft.Description = formDescription
	}
	if flags.Changed("image") {
		draft.Image = formImage
	}
	m.SetDraft(draft)

	if err := m.SaveEdit(cmd.Context()); err != nil {
		return submitError(err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", cli.Green("Đã lưu sản phẩm"), id)
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	id := args[0]
	if !deleteYes {
		if !cli.IsInteractive(cmd.InOrStdin()) {
			return cli.ErrNotInteractive
		}
		ok, err := cli.Confirm(cmd.InOrStdin(), cmd.OutOrStdout(), "Xóa sản phẩm này?")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "Đã hủy.")
			return nil
		}
	}

	if err := newManager().Delete(cmd.Context(), id); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", cli.Green("Đã xóa sản phẩm"), id)
	return nil
}

// submitError shows a blocked submission as its user-facing notice.
func submitError(err error) error {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return fmt.Errorf("%s (%v)", ve.Message, ve.Fields)
	}
	return err
}

package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"

	"github.com/rogerio-castellano/catalog-manager/internal/client"
	"github.com/rogerio-castellano/catalog-manager/internal/export"
	"github.com/rogerio-castellano/catalog-manager/internal/http/handlers"
)

const (
	pageFlag     = "page"
	perPageFlag  = "per-page"
	categoryFlag = "category"
	enabledFlag  = "enabled"

	formatFlag = "format"
	idsFlag    = "ids"
	outputFlag = "output"
)

func newListFlags() flagMap {
	return flagMap{
		pageFlag: &cobraflags.StringFlag{
			Name:  pageFlag,
			Value: "",
			Usage: "Page number, 1 based",
		},
		perPageFlag: &cobraflags.StringFlag{
			Name:  perPageFlag,
			Value: "",
			Usage: "Products per page (server default 10, max 100)",
		},
		categoryFlag: &cobraflags.StringFlag{
			Name:  categoryFlag,
			Value: "",
			Usage: "Only products of this category id",
		},
		enabledFlag: &cobraflags.StringFlag{
			Name:  enabledFlag,
			Value: "",
			Usage: "Only enabled (true) or disabled (false) products",
		},
	}
}

func newExportFlags() flagMap {
	return flagMap{
		formatFlag: &cobraflags.StringFlag{
			Name:  formatFlag,
			Value: string(export.FormatXLSX),
			Usage: "Export format (xlsx, csv, json)",
		},
		idsFlag: &cobraflags.StringFlag{
			Name:  idsFlag,
			Value: "",
			Usage: "Comma separated product ids, all live products when empty",
		},
		outputFlag: &cobraflags.StringFlag{
			Name:  outputFlag,
			Value: "",
			Usage: "Output file, products.<format> when empty, - for stdout",
		},
	}
}

func newProductsCommand(common flagMap) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "List, delete and export products",
	}

	listFlags := newListFlags()
	list := &cobra.Command{
		Use:   "list",
		Short: "Show one page of products",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return listProductsCommand(cmd, common, listFlags)
		},
	}
	cobraflags.RegisterMap(list, listFlags)
	cmd.AddCommand(list)

	cmd.AddCommand(&cobra.Command{
		Use:   "delete ID [ID...]",
		Short: "Soft delete products by id",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return deleteProductsCommand(cmd, common, args)
		},
	})

	exportFlags := newExportFlags()
	exp := &cobra.Command{
		Use:   "export",
		Short: "Download products as a spreadsheet",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return exportProductsCommand(cmd, common, exportFlags)
		},
	}
	cobraflags.RegisterMap(exp, exportFlags)
	cmd.AddCommand(exp)
	return cmd
}

func listParams(flags flagMap) (client.ListParams, error) {
	var params client.ListParams
	var err error

	if params.Page, err = optionalInt(flags[pageFlag].GetString(), pageFlag); err != nil {
		return params, err
	}
	if params.PerPage, err = optionalInt(flags[perPageFlag].GetString(), perPageFlag); err != nil {
		return params, err
	}
	if raw := flags[categoryFlag].GetString(); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			return params, fmt.Errorf("--%s must be an integer", categoryFlag)
		}
		params.CategoryID = &id
	}
	if raw := flags[enabledFlag].GetString(); raw != "" {
		enabled, err := strconv.ParseBool(raw)
		if err != nil {
			return params, fmt.Errorf("--%s must be true or false", enabledFlag)
		}
		params.Enabled = &enabled
	}
	return params, nil
}

func optionalInt(raw, flag string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("--%s must be a positive integer", flag)
	}
	return n, nil
}

func listProductsCommand(cmd *cobra.Command, common, flags flagMap) error {
	params, err := listParams(flags)
	if err != nil {
		return err
	}
	s, err := openSession(common)
	if err != nil {
		return err
	}

	if err := s.ctrl.LoadProducts(cmd.Context(), params); err != nil {
		return err
	}
	printProducts(cmd.OutOrStdout(), *s.ctrl.Store().State().Products)
	return nil
}

func printProducts(out io.Writer, page handlers.ProductsPage) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tPRICE\tSTOCK\tENABLED")
	for _, p := range page.Data {
		category := "No Category"
		if p.Category != nil {
			category = p.Category.Name
		}
		stock := strconv.Itoa(p.Stock)
		if p.LowStock {
			stock += " (low)"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%t\n", p.ID, p.Name, category, p.Price, stock, p.Enabled)
	}
	tw.Flush()
	fmt.Fprintf(out, "page %d of %d, %d products\n", page.CurrentPage, page.LastPage, page.Total)
}

func deleteProductsCommand(cmd *cobra.Command, common flagMap, args []string) error {
	ids, err := parseIDs(strings.Join(args, ","))
	if err != nil {
		return err
	}
	s, err := openSession(common)
	if err != nil {
		return err
	}

	for _, id := range ids {
		s.ctrl.Toggle(id)
	}
	deleted, err := s.ctrl.DeleteSelected(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d product(s)\n", deleted)
	return nil
}

func parseIDs(raw string) ([]int, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var ids []int
	for _, part := range strings.Split(raw, ",") {
		id, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid product id %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func exportProductsCommand(cmd *cobra.Command, common, flags flagMap) error {
	format, err := export.ParseFormat(flags[formatFlag].GetString())
	if err != nil {
		return err
	}
	ids, err := parseIDs(flags[idsFlag].GetString())
	if err != nil {
		return err
	}
	s, err := openSession(common)
	if err != nil {
		return err
	}

	output := flags[outputFlag].GetString()
	if output == "" {
		output = format.Filename()
	}
	if output == "-" {
		return s.api.Export(cmd.Context(), string(format), ids, cmd.OutOrStdout())
	}

	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("create %s: %w", output, err)
	}
	if err := s.api.Export(cmd.Context(), string(format), ids, f); err != nil {
		f.Close()
		os.Remove(output)
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", output, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", output)
	return nil
}

func newCategoriesCommand(common flagMap) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Browse categories",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Show every category",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return listCategoriesCommand(cmd, common)
		},
	})
	return cmd
}

func listCategoriesCommand(cmd *cobra.Command, common flagMap) error {
	s, err := openSession(common)
	if err != nil {
		return err
	}
	if err := s.ctrl.LoadCategories(cmd.Context()); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME")
	for _, c := range s.ctrl.Store().State().Categories {
		fmt.Fprintf(tw, "%d\t%s\n", c.ID, c.Name)
	}
	return tw.Flush()
}

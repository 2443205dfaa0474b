package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"campuseats/menu"
	"campuseats/models"
	"campuseats/pricing"

	"github.com/spf13/cobra"
)

// menuFile is the offline catalog format read by the menu command.
type menuFile struct {
	Canteens []models.Canteen  `json:"canteens"`
	Items    []models.MenuItem `json:"items"`
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "menuctl",
		Short:        "Filter campus menus and price customizations offline",
		SilenceUsage: true,
	}
	root.AddCommand(newMenuCmd(), newPriceCmd())
	return root
}

func newMenuCmd() *cobra.Command {
	var (
		file    string
		filter  models.FilterSpec
		dietary string
		sortKey string
	)

	cmd := &cobra.Command{
		Use:   "menu",
		Short: "List menu items from a JSON catalog file",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(file)
			if err != nil {
				return err
			}
			var mf menuFile
			if err := json.Unmarshal(data, &mf); err != nil {
				return fmt.Errorf("parse %s: %w", file, err)
			}

			for _, d := range strings.Split(dietary, ",") {
				if d = strings.TrimSpace(d); d != "" {
					filter.DietaryOptions = append(filter.DietaryOptions, d)
				}
			}

			items := menu.Process(mf.Items, filter, models.SortKey(sortKey), mf.Canteens)
			return printItems(cmd.OutOrStdout(), items)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "menu.json", "catalog JSON file")
	cmd.Flags().StringVar(&filter.CanteenName, "canteen", "", "canteen name")
	cmd.Flags().StringVar(&filter.Category, "category", "", "exact category")
	cmd.Flags().StringVar(&dietary, "dietary", "", "comma separated dietary options")
	cmd.Flags().BoolVar(&filter.AvailableOnly, "available", false, "only available items")
	cmd.Flags().StringVar(&sortKey, "sort", "", "popularity, priceAsc, priceDesc, rating or name")
	return cmd
}

func printItems(out io.Writer, items []models.MenuItem) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tCANTEEN\tPRICE\tVEG\tAVAILABLE")
	for _, it := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%t\t%t\n",
			it.ID, it.Name, it.Category, it.CanteenID, pricing.FormatPrice(it.Price), it.IsVegetarian, it.IsAvailable)
	}
	return tw.Flush()
}

func newPriceCmd() *cobra.Command {
	var (
		optionsFile string
		c           models.Customization
	)

	cmd := &cobra.Command{
		Use:   "price",
		Short: "Price a customised item",
		RunE: func(cmd *cobra.Command, args []string) error {
			options := pricing.DefaultCatalog()
			if optionsFile != "" {
				var err error
				if options, err = pricing.LoadCatalog(optionsFile); err != nil {
					return err
				}
			}

			q := options.Quote(c)
			out := cmd.OutOrStdout()
			if len(q.Unknown) > 0 {
				fmt.Fprintf(out, "ignored unknown options: %s\n", strings.Join(q.Unknown, ", "))
			}
			fmt.Fprintf(out, "%d x %s = %s\n", q.Quantity, pricing.FormatPrice(q.UnitPrice), q.Display)
			return nil
		},
	}

	cmd.Flags().StringVar(&optionsFile, "options", "", "YAML option catalog (default: built-in)")
	cmd.Flags().Float64Var(&c.BasePrice, "base", 0, "base item price")
	cmd.Flags().StringVar(&c.SizeID, "size", "", "size option id")
	cmd.Flags().StringSliceVar(&c.AddonIDs, "addon", nil, "add-on option id (repeatable)")
	cmd.Flags().StringSliceVar(&c.RemovalIDs, "remove", nil, "removal option id (repeatable)")
	cmd.Flags().IntVar(&c.Quantity, "qty", 1, "quantity")
	return cmd
}

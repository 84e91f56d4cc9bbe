package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"text/tabwriter"

	"billgen/internal/billing"
	"billgen/internal/logger"
	"billgen/internal/profile"
	"billgen/pkg/models"
	"github.com/spf13/cobra"
)

var itemCmd = &cobra.Command{
	Use:   "item",
	Short: "List and edit the line items printed on every bill",
	Long: `List and edit the menu items of a bill profile. Item numbers start at 1.
The amount of an item is always quantity x rate and cannot be set directly.
A profile always keeps at least one item.`,
	Example: `  billgen item list
  billgen item add "FILTER COFFEE" 1 30
  billgen item set 2 quantity 2
  billgen item set 1 rate 175.50
  billgen item remove 2`,
}

var itemListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the items and totals",
	Args:  cobra.NoArgs,
	RunE:  runItemList,
}

var itemAddCmd = &cobra.Command{
	Use:   "add [name] [quantity] [rate]",
	Short: "Append an item (blank item with quantity 1 and rate 0 when no arguments are given)",
	Args:  cobra.MaximumNArgs(3),
	RunE:  runItemAdd,
}

var itemSetCmd = &cobra.Command{
	Use:   "set <item-no> <name|quantity|rate> <value>",
	Short: "Change one field of an item",
	Args:  cobra.ExactArgs(3),
	RunE:  runItemSet,
}

var itemRemoveCmd = &cobra.Command{
	Use:   "remove <item-no>",
	Short: "Remove an item",
	Args:  cobra.ExactArgs(1),
	RunE:  runItemRemove,
}

func init() {
	rootCmd.AddCommand(itemCmd)
	itemCmd.AddCommand(itemListCmd, itemAddCmd, itemSetCmd, itemRemoveCmd)
}

// editProfile loads the profile (or the defaults when it does not exist yet),
// applies edit and saves the result.
func editProfile(cmd *cobra.Command, edit func(models.BillConfiguration) (models.BillConfiguration, error)) error {
	log := logger.WithComponent("item")
	path, _ := profilePath(cmd)

	cfg, err := profile.Load(path)
	if errors.Is(err, profile.ErrNotFound) {
		cfg, err = profile.Load("")
	}
	if err != nil {
		return fmt.Errorf("failed to load bill profile: %w", err)
	}

	next, err := edit(cfg)
	if err != nil {
		return err
	}

	if err := profile.Save(path, next); err != nil {
		return err
	}

	log.Info().Str("profile", path).Int("items", len(next.Items)).Msg("Bill profile updated")
	return printItems(cmd, next)
}

func parseItemNo(arg string, cfg models.BillConfiguration) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > len(cfg.Items) {
		return 0, fmt.Errorf("%w: item number must be between 1 and %d, got %q", billing.ErrItemIndex, len(cfg.Items), arg)
	}
	return n - 1, nil
}

func runItemList(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadProfile(cmd, logger.WithComponent("item"))
	if err != nil {
		return err
	}
	return printItems(cmd, cfg)
}

func runItemAdd(cmd *cobra.Command, args []string) error {
	return editProfile(cmd, func(cfg models.BillConfiguration) (models.BillConfiguration, error) {
		next := billing.AddItem(cfg, billing.BlankLineItem())
		index := len(next.Items) - 1

		fields := []billing.ItemField{billing.FieldName, billing.FieldQuantity, billing.FieldRate}
		for i, value := range args {
			var err error
			next, err = billing.UpdateItem(next, index, fields[i], value)
			if err != nil {
				return cfg, err
			}
		}
		return next, nil
	})
}

func runItemSet(cmd *cobra.Command, args []string) error {
	return editProfile(cmd, func(cfg models.BillConfiguration) (models.BillConfiguration, error) {
		index, err := parseItemNo(args[0], cfg)
		if err != nil {
			return cfg, err
		}
		field, err := billing.ParseItemField(args[1])
		if err != nil {
			return cfg, err
		}
		return billing.UpdateItem(cfg, index, field, args[2])
	})
}

func runItemRemove(cmd *cobra.Command, args []string) error {
	return editProfile(cmd, func(cfg models.BillConfiguration) (models.BillConfiguration, error) {
		index, err := parseItemNo(args[0], cfg)
		if err != nil {
			return cfg, err
		}
		next, err := billing.RemoveItem(cfg, index)
		if errors.Is(err, billing.ErrLastItem) {
			return cfg, fmt.Errorf("cannot remove the last item: %w", err)
		}
		return next, err
	})
}

func printItems(cmd *cobra.Command, cfg models.BillConfiguration) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "#\tItem Name\tQty.\tRate\tAmount\t")
	for i, item := range cfg.Items {
		fmt.Fprintf(w, "%d\t%s\t%d\tRs.%s\tRs.%s\t\n", i+1, item.Name, item.Quantity, item.UnitRate, item.Amount)
	}
	subTotal, gross := billing.Totals(cfg.Items)
	fmt.Fprintf(w, "\tSub Total\t\t\tRs.%s\t\n", subTotal.Fixed())
	fmt.Fprintf(w, "\tGross Amount\t\t\tRs.%s\t\n", gross.Fixed())
	return w.Flush()
}

package cmd

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kilianp07/mealplan/app/plugins"
	"github.com/kilianp07/mealplan/core/model"
)

var catalogCmd = &cobra.Command{
	Use:       "catalog [food-items|cooking-phases|appliances]",
	Short:     "List catalog entries",
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"food-items", "cooking-phases", "appliances"},
	RunE:      runCatalog,
}

func init() {
	rootCmd.AddCommand(catalogCmd)
}

type row struct {
	kind        string
	id          int64
	name        string
	description string
	isDefault   bool
	extra       string
}

type catalogSource struct {
	food   func(context.Context) ([]model.FoodItem, error)
	phases func(context.Context) ([]model.CookingPhase, error)
	apps   func(context.Context) ([]model.Appliance, error)
}

func collect(ctx context.Context, src catalogSource, kinds []string) ([]row, error) {
	var rows []row
	for _, k := range kinds {
		switch k {
		case "food-items":
			items, err := src.food(ctx)
			if err != nil {
				return nil, err
			}
			for _, f := range items {
				rows = append(rows, row{k, f.ID, f.Name, f.Description, f.IsDefault, ""})
			}
		case "cooking-phases":
			items, err := src.phases(ctx)
			if err != nil {
				return nil, err
			}
			for _, c := range items {
				extra := ""
				if c.ApplianceRequired {
					extra = "appliance"
				}
				rows = append(rows, row{k, c.ID, c.Name, c.Description, c.IsDefault, extra})
			}
		case "appliances":
			items, err := src.apps(ctx)
			if err != nil {
				return nil, err
			}
			for _, a := range items {
				rows = append(rows, row{k, a.ID, a.Name, a.Description, a.IsDefault, ""})
			}
		}
	}
	return rows, nil
}

func runCatalog(cmd *cobra.Command, args []string) error {
	kinds := cmd.ValidArgs
	if len(args) == 1 {
		kinds = args
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var src catalogSource
	c, err := remote(cfg)
	if err != nil {
		return err
	}
	if c != nil {
		src = catalogSource{food: c.FoodItems, phases: c.CookingPhases, apps: c.Appliances}
	} else {
		mod := cfg.Storage.Module()
		mod.Conf["save_plans"] = false
		b, err := plugins.NewBackend(mod)
		if err != nil {
			return err
		}
		defer func() { _ = b.Close() }()
		src = catalogSource{food: b.Catalog.ListFoodItems, phases: b.Catalog.ListCookingPhases, apps: b.Catalog.ListAppliances}
	}

	rows, err := collect(ctx, src, kinds)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KIND\tID\tNAME\tDEFAULT\tNEEDS\tDESCRIPTION")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%t\t%s\t%s\n", r.kind, r.id, r.name, r.isDefault, r.extra, r.description)
	}
	return tw.Flush()
}

package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/piwi3910/StripCut/internal/engine"
)

var compareTop int

var compareCmd = &cobra.Command{
	Use:   "compare ITEM",
	Short: "Compare margin and trim scenarios for an item's group",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		repo, closeRepo, err := openCatalog(ctx)
		if err != nil {
			return err
		}
		defer closeRepo()

		item, group, err := itemGroup(ctx, repo, args[0])
		if err != nil {
			return err
		}

		scenarios := engine.BuildDefaultScenarios(config.Settings())
		results := engine.CompareScenarios(ctx, scenarios, group, compareTop, engine.WithLogger(logger))

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("Scenarios for %s (%d parts in group)", item.ItemCode, len(group))))

		rows := make([][]string, len(results))
		for i, r := range results {
			if r.Err != nil {
				rows[i] = []string{r.Scenario.Name, mm(r.UsableWidth), "-", "-", "-", "-", r.Err.Error()}
				continue
			}
			withItem := engine.FilterContaining(r.Patterns, item.ItemCode, 0)
			bestItem := "-"
			if len(withItem) > 0 {
				bestItem = mm(withItem[0].Waste)
			}
			rows[i] = []string{
				r.Scenario.Name, mm(r.UsableWidth), mm(r.BestWaste), pct(r.BestUtilization),
				strconv.Itoa(r.BestPriorityScore), bestItem, strconv.Itoa(len(r.Patterns)),
			}
		}
		renderTable(out,
			[]string{"Scenario", "Usable", "Best waste", "Best util", "Score", "Waste with item", "Patterns"},
			rows,
			nil,
		)
		return nil
	},
}

func init() {
	compareCmd.Flags().IntVar(&compareTop, "top", 100, "Patterns ranked per scenario")
}

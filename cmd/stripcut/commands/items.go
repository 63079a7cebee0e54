package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/piwi3910/StripCut/internal/model"
)

var itemsThickness float64

var itemsCmd = &cobra.Command{
	Use:   "items",
	Short: "List catalog items, urgent items first",
	RunE: func(cmd *cobra.Command, _ []string) error {
		repo, closeRepo, err := openCatalog(cmd.Context())
		if err != nil {
			return err
		}
		defer closeRepo()

		parts, err := repo.All(cmd.Context())
		if err != nil {
			return err
		}

		var rows [][]string
		urgent := 0
		for _, p := range model.SortByPriority(parts) {
			if itemsThickness > 0 && p.Thickness != itemsThickness {
				continue
			}
			if p.Priority() == model.PriorityHigh {
				urgent++
			}
			rows = append(rows, []string{
				p.ItemCode, p.Name, mm(p.Thickness), mm(p.UnrolledLength), mm(p.RawWidth),
				strconv.Itoa(p.CurrentStock), strconv.Itoa(p.MaxStock), strconv.Itoa(p.Demand),
				strconv.Itoa(p.AllowedQuantity()),
			})
		}

		out := cmd.OutOrStdout()
		if len(rows) == 0 {
			fmt.Fprintln(out, mutedStyle.Render("No items."))
			return nil
		}
		renderTable(out,
			[]string{"Code", "Name", "Thick", "Length", "Raw width", "Stock", "Max", "Demand", "Allowed"},
			rows,
			func(row int) bool { return row < urgent },
		)
		fmt.Fprintf(out, "%d items, %s, thicknesses %v\n",
			len(rows), warnStyle.Render(fmt.Sprintf("%d urgent", urgent)), model.Thicknesses(parts))
		return nil
	},
}

func init() {
	itemsCmd.Flags().Float64Var(&itemsThickness, "thickness", 0, "Only list items of this thickness")
}

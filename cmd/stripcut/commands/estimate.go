package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/piwi3910/StripCut/internal/model"
)

var estimateWaste float64

var estimateCmd = &cobra.Command{
	Use:   "estimate",
	Short: "Estimate the sheets needed to cover every shortfall, per group",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		repo, closeRepo, err := openCatalog(ctx)
		if err != nil {
			return err
		}
		defer closeRepo()

		parts, err := repo.All(ctx)
		if err != nil {
			return err
		}

		settings := config.Settings()
		var rows [][]string
		total := 0
		for _, g := range model.GroupBy(parts) {
			est := model.EstimateSheets(g.Parts, settings.UsableWidth(), settings.CutMargin, estimateWaste)
			if est.ShortfallUnits == 0 {
				continue
			}
			total += est.SheetsWithWaste
			rows = append(rows, []string{
				mm(g.Key.Thickness), mm(g.Key.RawWidth), strconv.Itoa(len(g.Parts)),
				strconv.Itoa(est.ShortfallUnits), mm(est.TotalLength),
				fmt.Sprintf("%.2f", est.SheetsNeededExact), strconv.Itoa(est.SheetsWithWaste),
			})
		}

		out := cmd.OutOrStdout()
		if len(rows) == 0 {
			fmt.Fprintln(out, okStyle.Render("Stock covers all demand."))
			return nil
		}
		renderTable(out,
			[]string{"Thick", "Raw width", "Parts", "Short units", "Length", "Sheets", "With waste"},
			rows,
			nil,
		)
		fmt.Fprintf(out, "Usable width %s mm, waste factor %s: %s\n",
			mm(settings.UsableWidth()), pct(estimateWaste), titleStyle.Render(fmt.Sprintf("%d sheets", total)))
		return nil
	},
}

func init() {
	estimateCmd.Flags().Float64Var(&estimateWaste, "waste", 10, "Waste allowance in percent")
}

package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/piwi3910/StripCut/internal/project"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List, show and export saved optimization runs",
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved runs, newest first",
	RunE: func(cmd *cobra.Command, _ []string) error {
		runs, skipped, err := project.ListRuns(project.DefaultRunsDir())
		if err != nil {
			return err
		}
		for _, s := range skipped {
			logger.Warn("Skipped unreadable run", "file", s)
		}

		out := cmd.OutOrStdout()
		if len(runs) == 0 {
			fmt.Fprintln(out, mutedStyle.Render("No saved runs."))
			return nil
		}
		rows := make([][]string, len(runs))
		for i, r := range runs {
			best := "-"
			if p, ok := r.BestPattern(); ok {
				best = mm(p.Waste)
			}
			rows[i] = []string{
				r.ID, r.CreatedAt.Local().Format("2006-01-02 15:04"), r.ItemCode,
				mm(r.Group.Thickness), mm(r.Settings.UsableWidth()),
				strconv.Itoa(len(r.Patterns)), best,
			}
		}
		renderTable(out, []string{"ID", "Created", "Item", "Thick", "Usable", "Patterns", "Best waste"}, rows, nil)
		return nil
	},
}

var runsShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show a saved run and optionally export it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		run, err := project.FindRun(project.DefaultRunsDir(), args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("Run %s  %s", run.ID, run.ItemCode)))
		fmt.Fprintln(out, mutedStyle.Render(fmt.Sprintf("created %s, usable %s mm, margin %s mm",
			run.CreatedAt.Local().Format("2006-01-02 15:04"), mm(run.Settings.UsableWidth()), mm(run.Settings.CutMargin))))
		if len(run.Patterns) > 0 {
			printPatterns(out, run.ItemCode, run.Patterns)
		}
		return exportRun(run)
	},
}

func init() {
	f := runsShowCmd.Flags()
	f.StringVar(&optimizeOpts.pdfPath, "pdf", "", "Write a PDF pattern report to this path")
	f.StringVar(&optimizeOpts.labelPath, "labels", "", "Write a PDF label sheet to this path")
	f.StringVar(&optimizeOpts.xlsxPath, "xlsx", "", "Write an Excel workbook to this path")
	addGCodeFlags(f)

	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
}

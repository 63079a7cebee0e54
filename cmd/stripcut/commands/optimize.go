package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/piwi3910/StripCut/internal/engine"
	"github.com/piwi3910/StripCut/internal/export"
	"github.com/piwi3910/StripCut/internal/gcode"
	"github.com/piwi3910/StripCut/internal/model"
	"github.com/piwi3910/StripCut/internal/project"
)

var optimizeOpts struct {
	top        int
	preset     string
	save       bool
	asJSON     bool
	pdfPath    string
	labelPath  string
	xlsxPath   string
	gcodePath  string
	cutProgram gcode.Settings
}

var optimizeCmd = &cobra.Command{
	Use:   "optimize ITEM",
	Short: "Rank the cutting patterns that include an item",
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

		settings, err := commandSettings()
		if err != nil {
			return err
		}
		if optimizeOpts.top > 0 {
			settings.ItemResultLimit = optimizeOpts.top
		}

		opt, err := engine.New(settings, engine.WithLogger(logger))
		if err != nil {
			return err
		}
		res, err := opt.OptimizeForItem(ctx, group, item.ItemCode)
		if err != nil {
			return err
		}

		run := model.NewRun(item.ItemCode, item.GroupKey(), settings, group, res.Patterns)
		out := cmd.OutOrStdout()

		if optimizeOpts.asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			if err := enc.Encode(res); err != nil {
				return err
			}
		} else {
			printItemResult(out, settings, res)
		}

		if optimizeOpts.save {
			path, err := project.SaveRun(project.DefaultRunsDir(), run)
			if err != nil {
				return err
			}
			logger.Info("Run saved", "id", run.ID, "path", path)
		}
		return exportRun(run)
	},
}

func init() {
	f := optimizeCmd.Flags()
	f.IntVar(&optimizeOpts.top, "top", 0, "Patterns to keep (default from configuration)")
	f.StringVar(&optimizeOpts.preset, "preset", "", "Use the width and trim of a saved sheet preset")
	f.BoolVar(&optimizeOpts.save, "save", false, "Save the run under the data directory")
	f.BoolVar(&optimizeOpts.asJSON, "json", false, "Print the result as JSON")
	f.StringVar(&optimizeOpts.pdfPath, "pdf", "", "Write a PDF pattern report to this path")
	f.StringVar(&optimizeOpts.labelPath, "labels", "", "Write a PDF label sheet to this path")
	f.StringVar(&optimizeOpts.xlsxPath, "xlsx", "", "Write an Excel workbook to this path")
	addGCodeFlags(f)
}

func addGCodeFlags(f *pflag.FlagSet) {
	defaults := gcode.DefaultSettings()
	f.StringVar(&optimizeOpts.gcodePath, "gcode", "", "Write a cut program for the patterns to this path")
	f.StringVar(&optimizeOpts.cutProgram.Profile, "gcode-profile", defaults.Profile,
		fmt.Sprintf("Cut program post-processor (%s)", strings.Join(gcode.ProfileNames(), ", ")))
	f.Float64Var(&optimizeOpts.cutProgram.StripLength, "strip-length", defaults.StripLength, "Length of each cut stroke in mm")
	f.Float64Var(&optimizeOpts.cutProgram.FeedRate, "feed-rate", defaults.FeedRate, "Cutting feed rate in mm/min")
	f.Float64Var(&optimizeOpts.cutProgram.CutDepth, "cut-depth", defaults.CutDepth, "Cut depth below the sheet surface in mm")
	optimizeOpts.cutProgram.PlungeRate = defaults.PlungeRate
	optimizeOpts.cutProgram.SafeZ = defaults.SafeZ
}

// commandSettings returns the configured settings, with the selected preset's
// geometry applied when --preset is given.
func commandSettings() (model.Settings, error) {
	settings := config.Settings()
	if optimizeOpts.preset == "" {
		return settings, nil
	}
	presets, err := project.LoadPresets(project.DefaultPresetsPath())
	if err != nil {
		return settings, err
	}
	p := model.FindPresetByName(presets, optimizeOpts.preset)
	if p == nil {
		return settings, fmt.Errorf("preset %q not found", optimizeOpts.preset)
	}
	p.ApplyToSettings(&settings)
	return settings, nil
}

func exportRun(run model.Run) error {
	exports := []struct {
		path  string
		write func(string, export.Report) error
	}{
		{optimizeOpts.pdfPath, export.ExportPDF},
		{optimizeOpts.labelPath, export.ExportLabels},
		{optimizeOpts.xlsxPath, export.ExportExcel},
	}

	report := export.NewReport(run)
	for _, e := range exports {
		if e.path == "" {
			continue
		}
		if err := e.write(e.path, report); err != nil {
			return fmt.Errorf("export %s: %w", e.path, err)
		}
		logger.Info("Exported", "path", e.path)
	}

	if optimizeOpts.gcodePath != "" {
		g := gcode.New(optimizeOpts.cutProgram)
		if err := g.WriteFile(optimizeOpts.gcodePath, run.Patterns, run.Settings.EdgeTrim); err != nil {
			return err
		}
		logger.Info("Cut program written", "path", optimizeOpts.gcodePath, "profile", optimizeOpts.cutProgram.Profile)
	}
	return nil
}

func printItemResult(w io.Writer, settings model.Settings, res engine.ItemResult) {
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("%s  %s", res.Item.ItemCode, res.Item.Name)))
	fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf(
		"thickness %s mm, raw width %s mm, trim %s mm, usable %s mm, margin %s mm, %d parts in group, %d candidates",
		mm(res.Item.Thickness), mm(settings.RawSheetWidth), mm(settings.EdgeTrim),
		mm(settings.UsableWidth()), mm(settings.CutMargin), res.GroupSize, res.Candidates)))

	if len(res.Patterns) == 0 {
		fmt.Fprintln(w, warnStyle.Render("No pattern can place this item on the sheet."))
		return
	}
	printPatterns(w, res.Item.ItemCode, res.Patterns)
}

func printPatterns(w io.Writer, itemCode string, patterns []model.Pattern) {
	rows := make([][]string, len(patterns))
	for i, p := range patterns {
		qty := ""
		if itemCode != "" {
			qty = strconv.Itoa(p.QuantityOf(itemCode))
		}
		rows[i] = []string{
			strconv.Itoa(i + 1), p.Layout(), qty, strconv.Itoa(p.PartCount()),
			mm(p.UsedSpace), mm(p.Waste), pct(p.UtilizationPct),
			strconv.Itoa(p.PriorityScore), p.Strategy,
		}
	}
	renderTable(w,
		[]string{"#", "Layout", "Item qty", "Units", "Used", "Waste", "Util", "Score", "Strategy"},
		rows,
		func(row int) bool { return row == 0 },
	)
	if best := patterns[0]; best.Waste < model.MinRemnantWidth {
		fmt.Fprintln(w, okStyle.Render(fmt.Sprintf("Best pattern leaves %s mm.", mm(best.Waste))))
	} else {
		fmt.Fprintln(w, warnStyle.Render(fmt.Sprintf("Best pattern leaves a %s mm remnant.", mm(best.Waste))))
	}
}

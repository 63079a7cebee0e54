package commands

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/piwi3910/StripCut/internal/catalog"
	"github.com/piwi3910/StripCut/internal/importer"
	"github.com/piwi3910/StripCut/internal/project"
)

var importOpts struct {
	dxfDir string
	out    string
	force  bool
}

var importCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Import a CSV or Excel catalog into the database or a JSON snapshot",
	Long: `Import reads a CSV or Excel catalog, optionally replaces unrolled lengths
with ones measured from <dxf-dir>/<item code>.dxf, and writes the parts to
the configured database (upserting by item code) or to a JSON snapshot
given with --out.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		var result importer.ImportResult
		switch strings.ToLower(filepath.Ext(path)) {
		case ".xlsx", ".xlsm":
			result = importer.ImportExcel(path)
		default:
			result = importer.ImportCSV(path)
		}

		if importOpts.dxfDir != "" && len(result.Parts) > 0 {
			measured := importer.ApplyDXFLengths(result.Parts, importOpts.dxfDir)
			result.Parts = measured.Parts
			result.Warnings = append(result.Warnings, measured.Warnings...)
			result.Errors = append(result.Errors, measured.Errors...)
		}

		out := cmd.OutOrStdout()
		for _, w := range result.Warnings {
			fmt.Fprintln(out, warnStyle.Render("warning: "+w))
		}
		for _, e := range result.Errors {
			fmt.Fprintln(out, warnStyle.Render("error: "+e))
		}
		if len(result.Errors) > 0 && !importOpts.force {
			return fmt.Errorf("%d rows failed; fix them or pass --force to import the %d valid rows", len(result.Errors), len(result.Parts))
		}
		if len(result.Parts) == 0 {
			return fmt.Errorf("no parts found in %s", path)
		}

		if importOpts.out != "" {
			if err := project.SaveCatalog(importOpts.out, result.Parts); err != nil {
				return err
			}
			fmt.Fprintln(out, okStyle.Render(fmt.Sprintf("Wrote %d parts to %s", len(result.Parts), importOpts.out)))
			return nil
		}

		if config.Database.DSN == "" {
			return fmt.Errorf("no database configured: set --db-dsn or pass --out")
		}
		ctx := cmd.Context()
		repo, err := catalog.OpenSQL(ctx, config.Database.Driver, config.Database.DSN)
		if err != nil {
			return err
		}
		defer repo.Close()

		if err := repo.EnsureSchema(ctx); err != nil {
			return err
		}
		if err := repo.Upsert(ctx, result.Parts); err != nil {
			return err
		}
		fmt.Fprintln(out, okStyle.Render(fmt.Sprintf("Imported %d parts into %s", len(result.Parts), config.Database.Driver)))
		return nil
	},
}

func init() {
	f := importCmd.Flags()
	f.StringVar(&importOpts.dxfDir, "dxf-dir", "", "Directory of <item code>.dxf flat patterns to measure lengths from")
	f.StringVarP(&importOpts.out, "out", "o", "", "Write a JSON catalog snapshot instead of the database")
	f.BoolVar(&importOpts.force, "force", false, "Import the valid rows even when some rows fail")
}

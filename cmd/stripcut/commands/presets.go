package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piwi3910/StripCut/internal/model"
	"github.com/piwi3910/StripCut/internal/project"
)

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "Manage sheet presets",
}

var presetsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List sheet presets",
	RunE: func(cmd *cobra.Command, _ []string) error {
		presets, err := project.LoadPresets(project.DefaultPresetsPath())
		if err != nil {
			return err
		}
		rows := make([][]string, len(presets))
		for i, p := range presets {
			thickness := "any"
			if p.Thickness > 0 {
				thickness = mm(p.Thickness)
			}
			rows[i] = []string{p.ID, p.Name, mm(p.Width), thickness, mm(p.EdgeTrim), mm(p.Width - p.EdgeTrim)}
		}
		renderTable(cmd.OutOrStdout(), []string{"ID", "Name", "Width", "Thick", "Trim", "Usable"}, rows, nil)
		return nil
	},
}

var presetAdd struct {
	width, thickness, trim float64
}

var presetsAddCmd = &cobra.Command{
	Use:   "add NAME",
	Short: "Add a sheet preset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if presetAdd.width <= presetAdd.trim {
			return fmt.Errorf("width %.1f must exceed trim %.1f", presetAdd.width, presetAdd.trim)
		}
		path := project.DefaultPresetsPath()
		presets, err := project.LoadPresets(path)
		if err != nil {
			return err
		}
		if model.FindPresetByName(presets, args[0]) != nil {
			return fmt.Errorf("preset %q already exists", args[0])
		}
		presets = append(presets, model.NewSheetPreset(args[0], presetAdd.width, presetAdd.thickness, presetAdd.trim))
		if err := project.SavePresets(path, presets); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render("Added preset "+args[0]))
		return nil
	},
}

var presetsImportCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Merge presets from a JSON file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := project.DefaultPresetsPath()
		existing, err := project.LoadPresets(path)
		if err != nil {
			return err
		}
		merged, err := project.ImportPresets(args[0], existing)
		if err != nil {
			return err
		}
		if err := project.SavePresets(path, merged); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render(fmt.Sprintf("%d presets", len(merged))))
		return nil
	},
}

func init() {
	f := presetsAddCmd.Flags()
	f.Float64Var(&presetAdd.width, "width", 0, "Raw width in mm")
	f.Float64Var(&presetAdd.thickness, "thickness", 0, "Thickness in mm (0 for any)")
	f.Float64Var(&presetAdd.trim, "trim", 0, "Edge trim in mm")
	_ = presetsAddCmd.MarkFlagRequired("width")

	presetsCmd.AddCommand(presetsListCmd)
	presetsCmd.AddCommand(presetsAddCmd)
	presetsCmd.AddCommand(presetsImportCmd)
}

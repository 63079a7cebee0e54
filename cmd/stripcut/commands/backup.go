package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piwi3910/StripCut/internal/project"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Export or restore presets and saved runs",
}

var backupExportCmd = &cobra.Command{
	Use:   "export FILE",
	Short: "Write presets and saved runs to a backup file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		presets, err := project.LoadPresets(project.DefaultPresetsPath())
		if err != nil {
			return err
		}
		runs, skipped, err := project.ListRuns(project.DefaultRunsDir())
		if err != nil {
			return err
		}
		for _, s := range skipped {
			logger.Warn("Skipped unreadable run", "file", s)
		}
		if err := project.ExportAllData(args[0], presets, runs); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render(fmt.Sprintf("Backed up %d presets and %d runs", len(presets), len(runs))))
		return nil
	},
}

var backupRestoreCmd = &cobra.Command{
	Use:   "restore FILE",
	Short: "Restore presets and runs from a backup file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		backup, err := project.ImportAllData(args[0])
		if err != nil {
			return err
		}
		n, err := project.RestoreBackup(backup, project.DefaultPresetsPath(), project.DefaultRunsDir())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render(fmt.Sprintf("Restored %d presets and %d runs", len(backup.Presets), n)))
		return nil
	},
}

func init() {
	backupCmd.AddCommand(backupExportCmd)
	backupCmd.AddCommand(backupRestoreCmd)
}

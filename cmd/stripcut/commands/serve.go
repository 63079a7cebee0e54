package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/piwi3910/StripCut/internal/project"
	"github.com/piwi3910/StripCut/internal/server"
)

var serveOrigins []string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the catalog and optimizer over HTTP",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		repo, closeRepo, err := openCatalog(ctx)
		if err != nil {
			return err
		}
		defer closeRepo()

		presets, err := project.LoadPresets(project.DefaultPresetsPath())
		if err != nil {
			logger.Warn("Failed to load presets", "error", err)
		}

		srv := server.New(repo, server.Config{
			Defaults:       config.Settings(),
			Presets:        presets,
			AllowedOrigins: serveOrigins,
			RunsDir:        project.DefaultRunsDir(),
		}, logger)
		return srv.ListenAndServe(ctx, fmt.Sprintf(":%d", config.Port))
	},
}

func init() {
	serveCmd.Flags().Int("port", 8080, "Port to listen on")
	serveCmd.Flags().StringSliceVar(&serveOrigins, "cors-origin", nil, "Allowed CORS origins (default any)")
	_ = viper.BindPFlag("port", serveCmd.Flags().Lookup("port"))
}

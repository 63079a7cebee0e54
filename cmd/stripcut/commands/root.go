package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/piwi3910/StripCut/internal/catalog"
	"github.com/piwi3910/StripCut/internal/model"
	"github.com/piwi3910/StripCut/internal/telemetry"
)

// CurrentVersion is overridden at build time with -ldflags.
var CurrentVersion = "v0.1.0"

var (
	cfgFile   string
	configErr error
	config    model.AppConfig
	logger  = slog.New(slog.NewTextHandler(io.Discard, nil))

	shutdownTracing func(context.Context) error
)

var rootCmd = &cobra.Command{
	Use:   "stripcut",
	Short: "Cutting pattern optimizer for sheet metal strips",
	Long: `StripCut - 1D cutting patterns for sheet metal

Ranks the ways a group of parts can be laid across one sheet width,
favouring the parts whose demand is not covered by stock.`,
	Version:           CurrentVersion,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
		if shutdownTracing == nil {
			return nil
		}
		return shutdownTracing(cmd.Context())
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	defaults := model.DefaultAppConfig()
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "Config file (default $HOME/.stripcut.yaml)")
	flags.String("catalog", "", "Catalog file (.csv, .xlsx or .json); overrides the database")
	flags.String("db-driver", defaults.Database.Driver, "Catalog database driver (sqlite or postgres)")
	flags.String("db-dsn", defaults.Database.DSN, "Catalog database DSN or SQLite file path")
	flags.Float64("width", defaults.DefaultSheetWidth, "Raw sheet width in mm")
	flags.Float64("trim", defaults.DefaultEdgeTrim, "Edge trim removed from the raw width in mm")
	flags.Float64("margin", defaults.DefaultCutMargin, "Cut margin added to every unit in mm")
	flags.Bool("parallel", defaults.Parallel, "Run pattern builders concurrently")
	flags.String("log-level", defaults.LogLevel, "Log level (debug, info, warn, error)")
	flags.String("log-format", defaults.LogFormat, "Log format (text or json)")
	flags.String("otel-endpoint", "", "OTLP/HTTP endpoint for traces")

	bindFlags(flags, map[string]string{
		"catalog":         "catalog",
		"database.driver": "db-driver",
		"database.dsn":    "db-dsn",
		"sheet_width":     "width",
		"edge_trim":       "trim",
		"cut_margin":      "margin",
		"parallel":        "parallel",
		"log_level":       "log-level",
		"log_format":      "log-format",
		"otel_endpoint":   "otel-endpoint",
	})

	rootCmd.AddCommand(itemsCmd)
	rootCmd.AddCommand(optimizeCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(estimateCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(presetsCmd)
	rootCmd.AddCommand(backupCmd)
}

func bindFlags(flags *pflag.FlagSet, keys map[string]string) {
	for key, name := range keys {
		if err := viper.BindPFlag(key, flags.Lookup(name)); err != nil {
			panic(fmt.Sprintf("bind flag %s: %v", name, err))
		}
	}
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.SetConfigFile(filepath.Join(home, ".stripcut.yaml"))
			viper.SetConfigType("yaml")
		}
	}

	viper.SetEnvPrefix("STRIPCUT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Variable names used by existing deployments.
	_ = viper.BindEnv("database.dsn", "STRIPCUT_DATABASE_DSN", "DATABASE_PATH")
	_ = viper.BindEnv("port", "STRIPCUT_PORT", "PORT")
	_ = viper.BindEnv("sheet_width", "STRIPCUT_SHEET_WIDTH", "LARGURA_CHAPA_PADRAO")
	_ = viper.BindEnv("cut_margin", "STRIPCUT_CUT_MARGIN", "MARGEM_CORTE")
	_ = viper.BindEnv("debug", "STRIPCUT_DEBUG", "FLASK_DEBUG")

	configErr = readConfig(viper.GetViper(), cfgFile != "")
}

// readConfig loads the config file. A missing or malformed file is only an
// error when it was named with --config.
func readConfig(v *viper.Viper, explicit bool) error {
	err := v.ReadInConfig()
	if err == nil || !explicit {
		return nil
	}
	return fmt.Errorf("failed to read config file %s: %w", v.ConfigFileUsed(), err)
}

// loadConfig merges defaults, config file, environment and flags.
func loadConfig() (model.AppConfig, error) {
	cfg := model.DefaultAppConfig()
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to read configuration: %w", err)
	}
	if debug, _ := strconv.ParseBool(viper.GetString("debug")); debug {
		cfg.LogLevel = "debug"
	}
	return cfg, nil
}

func setup(cmd *cobra.Command, _ []string) error {
	if configErr != nil {
		return configErr
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	config = cfg

	logger, err = newLogger(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	shutdownTracing, err = telemetry.Init(cmd.Context(), CurrentVersion, cfg.OtelEndpoint)
	if err != nil {
		return err
	}
	if used := viper.ConfigFileUsed(); used != "" {
		logger.Debug("Configuration loaded", "file", used)
	}
	return nil
}

func newLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q", level)
	}
	opts := &slog.HandlerOptions{Level: lvl}

	switch strings.ToLower(format) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("invalid log format %q", format)
	}
}

// openCatalog opens the configured catalog source. The caller must call the
// returned close function.
func openCatalog(ctx context.Context) (catalog.Repository, func() error, error) {
	return catalog.Open(ctx, catalog.SourceFromConfig(config), logger)
}

// itemGroup returns the selected item and every part sharing its sheet.
func itemGroup(ctx context.Context, repo catalog.Repository, itemCode string) (model.Part, []model.Part, error) {
	item, err := repo.ByCode(ctx, itemCode)
	if err != nil {
		return model.Part{}, nil, fmt.Errorf("item %s: %w", itemCode, err)
	}
	group, err := repo.ByGroup(ctx, item.GroupKey())
	if err != nil {
		return model.Part{}, nil, err
	}
	return item, group, nil
}

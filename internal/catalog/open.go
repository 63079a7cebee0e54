package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/piwi3910/StripCut/internal/importer"
	"github.com/piwi3910/StripCut/internal/model"
	"github.com/piwi3910/StripCut/internal/project"
)

// Source describes where the catalog is read from. A non-empty Path takes
// precedence over the database.
type Source struct {
	Path     string
	Database model.DatabaseConfig
}

// SourceFromConfig returns the catalog source configured in cfg.
func SourceFromConfig(cfg model.AppConfig) Source {
	return Source{Path: cfg.CatalogPath, Database: cfg.Database}
}

// Open returns a repository for the source together with a function that
// releases it. Files (.csv, .xlsx, .json) are loaded into memory once; import
// warnings are logged and row errors fail the load.
func Open(ctx context.Context, src Source, logger *slog.Logger) (Repository, func() error, error) {
	noop := func() error { return nil }

	if src.Path != "" {
		parts, err := LoadFile(src.Path, logger)
		if err != nil {
			return nil, noop, err
		}
		return NewMemoryRepository(parts), noop, nil
	}

	if src.Database.DSN == "" {
		return nil, noop, fmt.Errorf("no catalog configured: set a catalog file or a database DSN")
	}
	repo, err := OpenSQL(ctx, src.Database.Driver, src.Database.DSN)
	if err != nil {
		return nil, noop, err
	}
	return repo, repo.Close, nil
}

// LoadFile reads a catalog from a CSV, Excel or JSON file.
func LoadFile(path string, logger *slog.Logger) ([]model.Part, error) {
	var result importer.ImportResult
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		parts, err := project.LoadCatalog(path)
		if err != nil {
			return nil, err
		}
		return parts, nil
	case ".xlsx", ".xlsm":
		result = importer.ImportExcel(path)
	case ".csv", ".txt", ".tsv":
		result = importer.ImportCSV(path)
	default:
		return nil, fmt.Errorf("unsupported catalog file type %q", filepath.Ext(path))
	}

	if logger != nil {
		for _, w := range result.Warnings {
			logger.Debug("Catalog import", "path", path, "warning", w)
		}
	}
	if len(result.Errors) > 0 {
		return nil, fmt.Errorf("catalog %s: %d row errors, first: %s", path, len(result.Errors), result.Errors[0])
	}
	return result.Parts, nil
}

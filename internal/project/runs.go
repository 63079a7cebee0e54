package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/piwi3910/StripCut/internal/model"
)

// runFileName returns the file name a run is stored under.
func runFileName(run model.Run) string {
	return run.CreatedAt.Format("20060102-150405") + "-" + run.ID + ".json"
}

// SaveRun writes the run into dir and returns the path of the new file.
func SaveRun(dir string, run model.Run) (string, error) {
	if run.ID == "" {
		return "", fmt.Errorf("run has no ID")
	}
	path := filepath.Join(dir, runFileName(run))
	if err := writeJSON(path, run); err != nil {
		return "", fmt.Errorf("failed to save run %s: %w", run.ID, err)
	}
	return path, nil
}

// LoadRun reads a single run file.
func LoadRun(path string) (model.Run, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Run{}, fmt.Errorf("failed to read run: %w", err)
	}
	var run model.Run
	if err := json.Unmarshal(data, &run); err != nil {
		return model.Run{}, fmt.Errorf("failed to parse run %s: %w", filepath.Base(path), err)
	}
	return run, nil
}

// ListRuns loads every run in dir, newest first. A missing directory yields
// no runs. Files that cannot be parsed are skipped and reported in skipped.
func ListRuns(dir string) (runs []model.Run, skipped []string, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []model.Run{}, nil, nil
		}
		return nil, nil, err
	}

	runs = []model.Run{}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		run, loadErr := LoadRun(filepath.Join(dir, e.Name()))
		if loadErr != nil {
			skipped = append(skipped, e.Name())
			continue
		}
		runs = append(runs, run)
	}

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].CreatedAt.After(runs[j].CreatedAt)
	})
	return runs, skipped, nil
}

// FindRun returns the run whose ID starts with prefix.
func FindRun(dir, prefix string) (model.Run, error) {
	runs, _, err := ListRuns(dir)
	if err != nil {
		return model.Run{}, err
	}
	var match *model.Run
	for i := range runs {
		if strings.HasPrefix(runs[i].ID, prefix) {
			if match != nil {
				return model.Run{}, fmt.Errorf("run prefix %q is ambiguous", prefix)
			}
			match = &runs[i]
		}
	}
	if match == nil {
		return model.Run{}, fmt.Errorf("no run matches %q", prefix)
	}
	return *match, nil
}

// Package export renders ranked cutting patterns into files for the shop
// floor: PDF strip diagrams, QR-coded labels and Excel workbooks.
package export

import (
	"errors"
	"time"

	"github.com/piwi3910/StripCut/internal/model"
)

var ErrNoPatterns = errors.New("no patterns to export")

// Report is the content shared by every export format.
type Report struct {
	Title       string
	ItemCode    string // selected item, empty for whole-group reports
	Group       model.GroupKey
	Settings    model.Settings
	Patterns    []model.Pattern
	GeneratedAt time.Time
}

// NewReport builds a report from a saved run.
func NewReport(run model.Run) Report {
	title := "Cutting Patterns"
	if run.ItemCode != "" {
		title = "Cutting Patterns for " + run.ItemCode
	}
	return Report{
		Title:       title,
		ItemCode:    run.ItemCode,
		Group:       run.Group,
		Settings:    run.Settings,
		Patterns:    run.Patterns,
		GeneratedAt: run.CreatedAt,
	}
}

func (r Report) validate() error {
	if len(r.Patterns) == 0 {
		return ErrNoPatterns
	}
	return nil
}

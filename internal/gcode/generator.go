// Package gcode writes cut programs for patterns: one stroke along the strip
// at every boundary between parts, so a gantry saw, slitter or plasma table
// can split a sheet the way a pattern lays it out.
//
// X runs across the sheet width, Y along the strip.
package gcode

import (
	"fmt"
	"os"
	"strings"

	"github.com/piwi3910/StripCut/internal/model"
)

// Settings controls the motion of the cutting head.
type Settings struct {
	Profile     string  `json:"profile" mapstructure:"profile"`
	StripLength float64 `json:"strip_length" mapstructure:"strip_length"` // mm travelled per cut stroke
	FeedRate    float64 `json:"feed_rate" mapstructure:"feed_rate"`       // mm/min while cutting
	PlungeRate  float64 `json:"plunge_rate" mapstructure:"plunge_rate"`   // mm/min
	ToolSpeed   int     `json:"tool_speed" mapstructure:"tool_speed"`     // spindle RPM, 0 to omit
	SafeZ       float64 `json:"safe_z" mapstructure:"safe_z"`             // mm above the sheet
	CutDepth    float64 `json:"cut_depth" mapstructure:"cut_depth"`       // mm below the sheet surface
}

func DefaultSettings() Settings {
	return Settings{
		Profile:     "Generic",
		StripLength: 2000,
		FeedRate:    1500,
		PlungeRate:  300,
		ToolSpeed:   0,
		SafeZ:       5,
		CutDepth:    3,
	}
}

// Generator produces cut programs from ranked patterns.
type Generator struct {
	Settings Settings
	profile  Profile
}

func New(settings Settings) *Generator {
	return &Generator{
		Settings: settings,
		profile:  GetProfile(settings.Profile),
	}
}

// positionTolerance drops cuts that would fall on the raw sheet edge.
const positionTolerance = 1e-6

// CutPositions returns the X position of every cut for a pattern on a raw
// sheet, in ascending order. The edge trim is split evenly between both
// edges. Each cut is centred on the cut margin that follows a unit; a cut at
// the far raw edge is omitted.
func CutPositions(p model.Pattern, edgeTrim float64) []float64 {
	start := edgeTrim / 2
	rawWidth := p.SheetWidth + edgeTrim

	var cuts []float64
	if start > positionTolerance {
		cuts = append(cuts, start)
	}

	pos := start
	for _, a := range p.Allocations {
		for i := 0; i < a.Quantity; i++ {
			pos += a.Part.UnrolledLength
			cut := pos + p.CutMargin/2
			if cut < rawWidth-positionTolerance {
				cuts = append(cuts, cut)
			}
			pos += p.CutMargin
		}
	}
	return cuts
}

// GeneratePattern produces a complete program for one pattern.
func (g *Generator) GeneratePattern(p model.Pattern, edgeTrim float64, rank int) string {
	var b strings.Builder
	g.writeHeader(&b, 1)
	g.writePattern(&b, p, edgeTrim, rank)
	g.writeFooter(&b)
	return b.String()
}

// GenerateAll produces a single program cutting every pattern in order,
// pausing for a sheet change between them.
func (g *Generator) GenerateAll(patterns []model.Pattern, edgeTrim float64) string {
	var b strings.Builder
	g.writeHeader(&b, len(patterns))
	for i, p := range patterns {
		if i > 0 && g.profile.SheetChange != "" {
			b.WriteString(g.comment("Load next sheet"))
			b.WriteString(g.profile.SheetChange + "\n\n")
		}
		g.writePattern(&b, p, edgeTrim, i+1)
	}
	g.writeFooter(&b)
	return b.String()
}

// WriteFile writes the program for all patterns to path.
func (g *Generator) WriteFile(path string, patterns []model.Pattern, edgeTrim float64) error {
	if len(patterns) == 0 {
		return fmt.Errorf("no patterns to write")
	}
	if err := os.WriteFile(path, []byte(g.GenerateAll(patterns, edgeTrim)), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func (g *Generator) writeHeader(b *strings.Builder, patterns int) {
	p := g.profile

	b.WriteString(g.comment("StripCut cut program"))
	b.WriteString(g.comment(fmt.Sprintf("Patterns: %d, strip length %.1f mm", patterns, g.Settings.StripLength)))
	b.WriteString(g.comment(fmt.Sprintf("Feed %.0f mm/min, plunge %.0f mm/min, depth %.1f mm",
		g.Settings.FeedRate, g.Settings.PlungeRate, g.Settings.CutDepth)))
	b.WriteString(g.comment("Profile: " + p.Name))
	b.WriteString("\n")

	for _, code := range p.StartCode {
		b.WriteString(code + "\n")
	}
	if p.ToolStart != "" && g.Settings.ToolSpeed > 0 {
		b.WriteString(fmt.Sprintf(p.ToolStart+"\n", g.Settings.ToolSpeed))
	}
	b.WriteString(fmt.Sprintf("%s Z%s\n", p.RapidMove, g.format(g.Settings.SafeZ)))
	b.WriteString(fmt.Sprintf("%s X%s Y%s\n", p.RapidMove, g.format(0), g.format(0)))
	b.WriteString("\n")
}

// writePattern emits one stroke per cut, alternating direction so the head
// never travels back empty along the strip.
func (g *Generator) writePattern(b *strings.Builder, p model.Pattern, edgeTrim float64, rank int) {
	prof := g.profile
	cuts := CutPositions(p, edgeTrim)

	b.WriteString(g.comment(fmt.Sprintf("--- Pattern %d: %s ---", rank, p.Layout())))
	b.WriteString(g.comment(fmt.Sprintf("Used %.1f mm, waste %.1f mm, %d cuts", p.UsedSpace, p.Waste, len(cuts))))

	y0, y1 := 0.0, g.Settings.StripLength
	for i, x := range cuts {
		b.WriteString(g.comment(fmt.Sprintf("Cut %d at X=%s", i+1, g.format(x))))
		b.WriteString(fmt.Sprintf("%s X%s Y%s\n", prof.RapidMove, g.format(x), g.format(y0)))
		b.WriteString(fmt.Sprintf("%s Z%s F%s\n", prof.FeedMove, g.format(-g.Settings.CutDepth), g.format(g.Settings.PlungeRate)))
		b.WriteString(fmt.Sprintf("%s Y%s F%s\n", prof.FeedMove, g.format(y1), g.format(g.Settings.FeedRate)))
		b.WriteString(fmt.Sprintf("%s Z%s\n", prof.RapidMove, g.format(g.Settings.SafeZ)))
		y0, y1 = y1, y0
	}
	b.WriteString("\n")
}

func (g *Generator) writeFooter(b *strings.Builder) {
	p := g.profile

	b.WriteString(g.comment("=== Job complete ==="))
	if p.ToolStop != "" && g.Settings.ToolSpeed > 0 {
		b.WriteString(p.ToolStop + "\n")
	}
	for _, code := range p.EndCode {
		b.WriteString(strings.ReplaceAll(code, "[SafeZ]", g.format(g.Settings.SafeZ)) + "\n")
	}
}

func (g *Generator) comment(text string) string {
	return g.profile.CommentStart + " " + text + g.profile.CommentEnd + "\n"
}

// format formats a coordinate according to the profile's decimal places.
func (g *Generator) format(v float64) string {
	return fmt.Sprintf("%.*f", g.profile.DecimalPlaces, v)
}

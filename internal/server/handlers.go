package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/piwi3910/StripCut/internal/catalog"
	"github.com/piwi3910/StripCut/internal/engine"
	"github.com/piwi3910/StripCut/internal/export"
	"github.com/piwi3910/StripCut/internal/gcode"
	"github.com/piwi3910/StripCut/internal/model"
	"github.com/piwi3910/StripCut/internal/project"
)

// writeJSON encodes v before writing the status line.
func writeJSON(w http.ResponseWriter, code int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		slog.Error("Failed to encode response", "error", err)
		code = http.StatusInternalServerError
		body = []byte(`{"error":"failed to encode response"}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(append(body, '\n'))
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type configResponse struct {
	RawSheetWidth   float64 `json:"raw_sheet_width"`
	EdgeTrim        float64 `json:"edge_trim"`
	CutMargin       float64 `json:"cut_margin"`
	UsableWidth     float64 `json:"usable_width"`
	CandidatePool   int     `json:"candidate_pool"`
	ItemResultLimit int     `json:"item_result_limit"`
}

func (s *Server) handleConfig(w http.ResponseWriter, _ *http.Request) {
	d := s.cfg.Defaults
	writeJSON(w, http.StatusOK, configResponse{
		RawSheetWidth:   d.RawSheetWidth,
		EdgeTrim:        d.EdgeTrim,
		CutMargin:       d.CutMargin,
		UsableWidth:     d.UsableWidth(),
		CandidatePool:   d.CandidatePool,
		ItemResultLimit: d.ItemResultLimit,
	})
}

func (s *Server) handlePresets(w http.ResponseWriter, _ *http.Request) {
	presets := s.cfg.Presets
	if presets == nil {
		presets = []model.SheetPreset{}
	}
	writeJSON(w, http.StatusOK, presets)
}

type itemView struct {
	model.Part
	Priority        int `json:"priority"`
	Shortfall       int `json:"shortfall"`
	AllowedQuantity int `json:"allowed_quantity"`
}

func newItemView(p model.Part) itemView {
	return itemView{Part: p, Priority: p.Priority(), Shortfall: p.Shortfall(), AllowedQuantity: p.AllowedQuantity()}
}

type itemsResponse struct {
	Items       []itemView `json:"items"`
	Thicknesses []float64  `json:"thicknesses"`
}

// handleItems lists the catalog with urgent items first.
func (s *Server) handleItems(w http.ResponseWriter, r *http.Request) {
	parts, err := s.repo.All(r.Context())
	if err != nil {
		s.logger.Error("Failed to load catalog", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load catalog")
		return
	}

	resp := itemsResponse{Items: []itemView{}, Thicknesses: model.Thicknesses(parts)}
	if resp.Thicknesses == nil {
		resp.Thicknesses = []float64{}
	}
	for _, p := range model.SortByPriority(parts) {
		resp.Items = append(resp.Items, newItemView(p))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleItem(w http.ResponseWriter, r *http.Request) {
	part, ok := s.lookupItem(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, newItemView(part))
}

func (s *Server) lookupItem(w http.ResponseWriter, r *http.Request) (model.Part, bool) {
	code := chi.URLParam(r, "itemCode")
	part, err := s.repo.ByCode(r.Context(), code)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, fmt.Sprintf("item %s not found", code))
			return model.Part{}, false
		}
		s.logger.Error("Failed to load item", "item", code, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load item")
		return model.Part{}, false
	}
	return part, true
}

// queryFloat returns the named query value, or def when it is missing or
// not a finite number.
func queryFloat(r *http.Request, name string, def float64) float64 {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(strings.Replace(raw, ",", ".", 1), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}
	return v
}

func queryInt(r *http.Request, name string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(r.URL.Query().Get(name)))
	if err != nil || v <= 0 {
		return def
	}
	return v
}

// requestSettings applies the width, trim, margin and top query parameters
// to a copy of the defaults.
func (s *Server) requestSettings(r *http.Request) model.Settings {
	settings := s.cfg.Defaults
	settings.RawSheetWidth = queryFloat(r, "width", settings.RawSheetWidth)
	settings.EdgeTrim = queryFloat(r, "trim", settings.EdgeTrim)
	settings.CutMargin = queryFloat(r, "margin", settings.CutMargin)
	settings.ItemResultLimit = queryInt(r, "top", settings.ItemResultLimit)
	return settings
}

type allocationView struct {
	ItemCode    string  `json:"item_code"`
	Name        string  `json:"name"`
	Quantity    int     `json:"quantity"`
	UnitLength  float64 `json:"unit_length"`
	TotalLength float64 `json:"total_length"`
	Offset      float64 `json:"offset"`
	Priority    int     `json:"priority"`
}

type patternView struct {
	Rank           int              `json:"rank"`
	Layout         string           `json:"layout"`
	Allocations    []allocationView `json:"allocations"`
	UsedSpace      float64          `json:"used_space"`
	Waste          float64          `json:"waste"`
	UtilizationPct float64          `json:"utilization_pct"`
	PriorityScore  int              `json:"priority_score"`
	Strategy       string           `json:"strategy"`
}

func newPatternView(rank int, p model.Pattern) patternView {
	v := patternView{
		Rank:           rank,
		Layout:         p.Layout(),
		UsedSpace:      p.UsedSpace,
		Waste:          p.Waste,
		UtilizationPct: p.UtilizationPct,
		PriorityScore:  p.PriorityScore,
		Strategy:       p.Strategy,
	}
	offsets := p.Offsets()
	for i, a := range p.Allocations {
		v.Allocations = append(v.Allocations, allocationView{
			ItemCode:    a.Part.ItemCode,
			Name:        a.Part.Name,
			Quantity:    a.Quantity,
			UnitLength:  a.Part.UnrolledLength,
			TotalLength: a.Length(p.CutMargin),
			Offset:      offsets[i],
			Priority:    a.Part.Priority(),
		})
	}
	return v
}

type optimizeResponse struct {
	Item        itemView      `json:"item"`
	RawWidth    float64       `json:"raw_width"`
	EdgeTrim    float64       `json:"edge_trim"`
	UsableWidth float64       `json:"usable_width"`
	CutMargin   float64       `json:"cut_margin"`
	GroupSize   int           `json:"group_size"`
	Candidates  int           `json:"candidates"`
	Patterns    []patternView `json:"patterns"`
	RunID       string        `json:"run_id,omitempty"`
}

// optimize runs the item request flow shared by the JSON and export
// handlers. It writes the error response itself and reports false on failure.
func (s *Server) optimize(w http.ResponseWriter, r *http.Request) (model.Run, engine.ItemResult, bool) {
	ctx, span := s.tracer.Start(r.Context(), "server.Optimize", trace.WithAttributes(
		attribute.String("item", chi.URLParam(r, "itemCode")),
	))
	defer span.End()
	r = r.WithContext(ctx)

	settings := s.requestSettings(r)
	if settings.UsableWidth() <= 0 {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("usable width must be positive (width %.1f, trim %.1f)", settings.RawSheetWidth, settings.EdgeTrim))
		return model.Run{}, engine.ItemResult{}, false
	}

	part, ok := s.lookupItem(w, r)
	if !ok {
		return model.Run{}, engine.ItemResult{}, false
	}

	group, err := s.repo.ByGroup(r.Context(), part.GroupKey())
	if err != nil {
		s.logger.Error("Failed to load group", "item", part.ItemCode, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load item group")
		return model.Run{}, engine.ItemResult{}, false
	}

	opt, err := engine.New(settings, engine.WithLogger(s.logger))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return model.Run{}, engine.ItemResult{}, false
	}

	res, err := opt.OptimizeForItem(r.Context(), group, part.ItemCode)
	if err != nil {
		span.RecordError(err)
		s.logger.Error("Optimization failed", "item", part.ItemCode, "error", err)
		writeError(w, http.StatusInternalServerError, "optimization failed")
		return model.Run{}, engine.ItemResult{}, false
	}

	span.SetAttributes(attribute.Int("patterns", len(res.Patterns)))
	run := model.NewRun(part.ItemCode, part.GroupKey(), settings, group, res.Patterns)
	return run, res, true
}

func (s *Server) handleOptimize(w http.ResponseWriter, r *http.Request) {
	run, res, ok := s.optimize(w, r)
	if !ok {
		return
	}

	resp := optimizeResponse{
		Item:        newItemView(res.Item),
		RawWidth:    run.Settings.RawSheetWidth,
		EdgeTrim:    run.Settings.EdgeTrim,
		UsableWidth: run.Settings.UsableWidth(),
		CutMargin:   run.Settings.CutMargin,
		GroupSize:   res.GroupSize,
		Candidates:  res.Candidates,
		Patterns:    []patternView{},
	}
	for i, p := range res.Patterns {
		resp.Patterns = append(resp.Patterns, newPatternView(i+1, p))
	}

	if save, _ := strconv.ParseBool(r.URL.Query().Get("save")); save && s.cfg.RunsDir != "" {
		if _, err := project.SaveRun(s.cfg.RunsDir, run); err != nil {
			s.logger.Error("Failed to save run", "error", err)
		} else {
			resp.RunID = run.ID
		}
	}

	s.logger.Info("Optimized item", "item", run.ItemCode, "group_size", res.GroupSize, "patterns", len(res.Patterns))
	writeJSON(w, http.StatusOK, resp)
}

type exportFormat struct {
	ext         string
	contentType string
	write       func(string, export.Report) error
}

// exportFormat returns the writer for a format name.
func (s *Server) exportFormat(name string) (exportFormat, bool) {
	switch name {
	case "", "pdf":
		return exportFormat{".pdf", "application/pdf", export.ExportPDF}, true
	case "labels":
		return exportFormat{".pdf", "application/pdf", export.ExportLabels}, true
	case "xlsx":
		return exportFormat{".xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", export.ExportExcel}, true
	case "gcode":
		g := gcode.New(s.cfg.CutProgram)
		return exportFormat{".nc", "text/plain; charset=utf-8", func(path string, r export.Report) error {
			return g.WriteFile(path, r.Patterns, r.Settings.EdgeTrim)
		}}, true
	}
	return exportFormat{}, false
}

// handleExport renders the item's patterns as a PDF report, label sheet,
// Excel workbook or cut program.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "pdf"
	}
	f, known := s.exportFormat(format)
	if !known {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown export format %q", format))
		return
	}

	run, _, ok := s.optimize(w, r)
	if !ok {
		return
	}
	if len(run.Patterns) == 0 {
		writeError(w, http.StatusNotFound, "no patterns contain this item")
		return
	}

	dir, err := os.MkdirTemp("", "stripcut-export-")
	if err != nil {
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}
	defer os.RemoveAll(dir)

	name := fmt.Sprintf("%s-%s%s", run.ItemCode, format, f.ext)
	path := filepath.Join(dir, name)
	if err := f.write(path, export.NewReport(run)); err != nil {
		s.logger.Error("Export failed", "format", format, "error", err)
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}

	file, err := os.Open(path)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}
	defer file.Close()

	w.Header().Set("Content-Type", f.contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	http.ServeContent(w, r, name, time.Now(), file)
}

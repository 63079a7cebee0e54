package model

import (
	"math"
	"testing"
)

func TestEstimateSheetsBasic(t *testing.T) {
	parts := []Part{
		{ItemCode: "A", UnrolledLength: 295, CurrentStock: 1, Demand: 5},
		{ItemCode: "B", UnrolledLength: 500, MaxStock: 10},
	}
	est := EstimateSheets(parts, 1000, 5, 10)

	// 4 shortfall units x 300 mm; B has no shortfall
	if est.ShortfallUnits != 4 {
		t.Errorf("expected 4 shortfall units, got %d", est.ShortfallUnits)
	}
	if math.Abs(est.TotalLength-1200) > 1e-9 {
		t.Errorf("expected total length 1200, got %f", est.TotalLength)
	}
	if math.Abs(est.SheetsNeededExact-1.2) > 1e-9 {
		t.Errorf("expected 1.2 sheets, got %f", est.SheetsNeededExact)
	}
	if est.SheetsNeededMin != 2 {
		t.Errorf("expected 2 sheets, got %d", est.SheetsNeededMin)
	}
	if est.SheetsWithWaste != 2 {
		t.Errorf("expected 2 sheets with waste, got %d", est.SheetsWithWaste)
	}
}

func TestEstimateSheetsWasteFactor(t *testing.T) {
	parts := []Part{{ItemCode: "A", UnrolledLength: 1000, Demand: 10}}
	est := EstimateSheets(parts, 1000, 0, 15)

	if est.SheetsNeededMin != 10 {
		t.Errorf("expected 10 sheets, got %d", est.SheetsNeededMin)
	}
	if est.SheetsWithWaste != 12 {
		t.Errorf("expected 12 sheets with waste, got %d", est.SheetsWithWaste)
	}
}

func TestEstimateSheetsZeroWidth(t *testing.T) {
	est := EstimateSheets([]Part{{ItemCode: "A", UnrolledLength: 100, Demand: 1}}, 0, 0, 10)
	if est.SheetsNeededMin != 0 || est.SheetsWithWaste != 0 {
		t.Error("expected no sheets for a zero width")
	}
	if est.TotalLength != 100 {
		t.Errorf("expected total length 100, got %f", est.TotalLength)
	}
}

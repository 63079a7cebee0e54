package gcode

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/piwi3910/StripCut/internal/model"
)

func testPattern(t *testing.T, width, margin float64, allocs ...model.Allocation) model.Pattern {
	t.Helper()
	p, ok := model.NewPattern(allocs, width, margin, "test")
	if !ok {
		t.Fatalf("invalid test pattern")
	}
	return p
}

func part(code string, length float64) model.Part {
	return model.Part{ItemCode: code, UnrolledLength: length, MaxStock: 20}
}

func assertPositions(t *testing.T, got, want []float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %d cuts %v, got %d %v", len(want), want, len(got), got)
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Errorf("cut %d: expected %.3f, got %.3f", i, want[i], got[i])
		}
	}
}

func TestCutPositions_NoTrimNoMargin(t *testing.T) {
	p := testPattern(t, 1000, 0,
		model.Allocation{Part: part("A", 300), Quantity: 2},
		model.Allocation{Part: part("B", 200), Quantity: 2},
	)
	// The last unit ends on the sheet edge, so no cut is needed there.
	assertPositions(t, CutPositions(p, 0), []float64{300, 600, 800})
}

func TestCutPositions_TrimAndMargin(t *testing.T) {
	p := testPattern(t, 1000, 4,
		model.Allocation{Part: part("A", 296), Quantity: 3},
	)
	// Trim 20 leaves 10 mm on each edge; each cut sits in the middle of its margin.
	assertPositions(t, CutPositions(p, 20), []float64{10, 308, 608, 908})
}

func TestGeneratePattern_Structure(t *testing.T) {
	s := DefaultSettings()
	s.ToolSpeed = 3000
	g := New(s)
	p := testPattern(t, 1000, 0, model.Allocation{Part: part("A", 400), Quantity: 2})

	code := g.GeneratePattern(p, 0, 1)

	for _, want := range []string{"G90", "G21", "M3 S3000", "M5", "M2", "Pattern 1: A x2"} {
		if !strings.Contains(code, want) {
			t.Errorf("expected program to contain %q", want)
		}
	}
	if strings.Index(code, "M5") > strings.Index(code, "M2") {
		t.Error("expected the tool to stop before the program ends")
	}
}

func TestGeneratePattern_StrokesMatchCutPositions(t *testing.T) {
	g := New(DefaultSettings())
	p := testPattern(t, 1000, 2,
		model.Allocation{Part: part("A", 298), Quantity: 2},
		model.Allocation{Part: part("B", 148), Quantity: 2},
	)

	strokes := Strokes(Parse(g.GeneratePattern(p, 10, 1)))
	want := CutPositions(p, 10)
	if len(strokes) != len(want) {
		t.Fatalf("expected %d strokes, got %d", len(want), len(strokes))
	}
	for i, s := range strokes {
		if math.Abs(s.X-want[i]) > 0.001 {
			t.Errorf("stroke %d: expected X=%.3f, got %.3f", i, want[i], s.X)
		}
		if s.Depth != g.Settings.CutDepth {
			t.Errorf("stroke %d: expected depth %.1f, got %.1f", i, g.Settings.CutDepth, s.Depth)
		}
	}
	// Strokes alternate direction along the strip.
	if strokes[0].ToY != g.Settings.StripLength || strokes[1].ToY != 0 {
		t.Errorf("expected alternating strokes, got %+v then %+v", strokes[0], strokes[1])
	}
}

func TestGenerateAll_PausesBetweenSheets(t *testing.T) {
	g := New(DefaultSettings())
	a := testPattern(t, 1000, 0, model.Allocation{Part: part("A", 500), Quantity: 2})
	b := testPattern(t, 1000, 0, model.Allocation{Part: part("B", 250), Quantity: 4})

	code := g.GenerateAll([]model.Pattern{a, b}, 0)
	if n := strings.Count(code, "\nM0\n"); n != 1 {
		t.Errorf("expected 1 sheet change, got %d", n)
	}
	if got := len(Strokes(Parse(code))); got != 1+3 {
		t.Errorf("expected 4 strokes, got %d", got)
	}
}

func TestLinuxCNCProfile_ParenComments(t *testing.T) {
	s := DefaultSettings()
	s.Profile = "LinuxCNC"
	g := New(s)
	p := testPattern(t, 1000, 0, model.Allocation{Part: part("A", 300), Quantity: 3})

	code := g.GeneratePattern(p, 0, 1)
	if !strings.Contains(code, "( StripCut cut program)") {
		t.Error("expected parenthesised comments")
	}
	if !strings.Contains(code, "X300.0000") {
		t.Error("expected 4 decimal places")
	}
	if got := len(Strokes(Parse(code))); got != 3 {
		t.Errorf("expected 3 strokes, got %d", got)
	}
}

func TestGetProfile_FallsBackToGeneric(t *testing.T) {
	if got := GetProfile("Unknown").Name; got != "Generic" {
		t.Errorf("expected Generic, got %s", got)
	}
	if len(ProfileNames()) != len(Profiles) {
		t.Error("expected one name per profile")
	}
}

func TestWriteFile(t *testing.T) {
	g := New(DefaultSettings())
	path := filepath.Join(t.TempDir(), "cuts.nc")

	if err := g.WriteFile(path, nil, 0); err == nil {
		t.Error("expected error for no patterns")
	}

	p := testPattern(t, 1000, 0, model.Allocation{Part: part("A", 500), Quantity: 1})
	if err := g.WriteFile(path, []model.Pattern{p}, 0); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "X500.000") {
		t.Error("expected a cut at X=500")
	}
}

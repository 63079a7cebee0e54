package gcode

import (
	"testing"
)

func TestParse_IgnoresCommentsAndOtherCommands(t *testing.T) {
	code := `; header
(parenthetical comment)
G90
M3 S12000
G0 X10 Y20 ; inline comment
`
	moves := Parse(code)
	if len(moves) != 1 {
		t.Fatalf("expected 1 move, got %d", len(moves))
	}
	if moves[0].ToX != 10 || moves[0].ToY != 20 {
		t.Errorf("expected move to (10,20), got (%.3f, %.3f)", moves[0].ToX, moves[0].ToY)
	}
}

func TestParse_Classification(t *testing.T) {
	code := "G0 Z5\nG0 X100 Y0\nG1 Z-3 F300\nG1 Y2000 F1500\nG0 Z5\n"
	want := []MoveType{MoveRetract, MoveRapid, MovePlunge, MoveFeed, MoveRetract}

	moves := Parse(code)
	if len(moves) != len(want) {
		t.Fatalf("expected %d moves, got %d", len(want), len(moves))
	}
	for i, m := range moves {
		if m.Type != want[i] {
			t.Errorf("move %d: expected type %d, got %d", i, want[i], m.Type)
		}
	}
}

func TestParse_StateIsSticky(t *testing.T) {
	moves := Parse("G1 X10 F800\nG1 Y5\n")
	if len(moves) != 2 {
		t.Fatalf("expected 2 moves, got %d", len(moves))
	}
	m := moves[1]
	if m.FromX != 10 || m.ToX != 10 || m.ToY != 5 {
		t.Errorf("expected X to carry over, got from %.1f to (%.1f, %.1f)", m.FromX, m.ToX, m.ToY)
	}
	if m.FeedRate != 800 {
		t.Errorf("expected feed 800 to carry over, got %.1f", m.FeedRate)
	}
}

func TestStrokes(t *testing.T) {
	code := "G0 Z5\nG0 X300 Y0\nG1 Z-3 F300\nG1 Y2000 F1500\nG0 Z5\n" +
		"G0 X500 Y2000\nG1 Z-3 F300\nG1 Y0 F1500\nG0 Z5\n"

	strokes := Strokes(Parse(code))
	if len(strokes) != 2 {
		t.Fatalf("expected 2 strokes, got %d", len(strokes))
	}
	if strokes[0].X != 300 || strokes[0].FromY != 0 || strokes[0].ToY != 2000 {
		t.Errorf("unexpected first stroke %+v", strokes[0])
	}
	if strokes[1].X != 500 || strokes[1].FromY != 2000 || strokes[1].ToY != 0 {
		t.Errorf("unexpected second stroke %+v", strokes[1])
	}
	if strokes[0].Depth != 3 || strokes[0].Feed != 1500 {
		t.Errorf("expected depth 3 at feed 1500, got %+v", strokes[0])
	}
}

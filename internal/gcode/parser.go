package gcode

import (
	"regexp"
	"strconv"
	"strings"
)

var wordRe = regexp.MustCompile(`([XYZF])(-?\d+\.?\d*)`)

// MoveType represents the type of toolpath movement.
type MoveType int

const (
	MoveRapid   MoveType = iota // G0: positioning above the sheet
	MoveFeed                    // G1 with X or Y travel
	MovePlunge                  // G1 straight down into the sheet
	MoveRetract                 // straight up out of the sheet
)

// Move is a single parsed movement.
type Move struct {
	Type     MoveType
	FromX    float64
	FromY    float64
	FromZ    float64
	ToX      float64
	ToY      float64
	ToZ      float64
	FeedRate float64
}

type position struct {
	x, y, z, feed float64
}

// Parse reads a program into structured moves. It tracks absolute position
// and classifies each G0/G1 command as rapid, feed, plunge or retract.
// Other commands and comments are skipped.
func Parse(code string) []Move {
	var moves []Move
	var cur position

	for _, line := range strings.Split(code, "\n") {
		cmd := stripComments(line)
		rapid, ok := motion(cmd)
		if !ok {
			continue
		}

		next := cur
		for _, m := range wordRe.FindAllStringSubmatch(cmd, -1) {
			v, err := strconv.ParseFloat(m[2], 64)
			if err != nil {
				continue
			}
			switch m[1] {
			case "X":
				next.x = v
			case "Y":
				next.y = v
			case "Z":
				next.z = v
			case "F":
				next.feed = v
			}
		}

		moves = append(moves, Move{
			Type:     classifyMove(rapid, cur, next),
			FromX:    cur.x,
			FromY:    cur.y,
			FromZ:    cur.z,
			ToX:      next.x,
			ToY:      next.y,
			ToZ:      next.z,
			FeedRate: next.feed,
		})
		cur = next
	}
	return moves
}

// stripComments removes a trailing ";" comment and the first "(...)" comment.
func stripComments(line string) string {
	if i := strings.Index(line, ";"); i >= 0 {
		line = line[:i]
	}
	if i := strings.Index(line, "("); i >= 0 {
		if j := strings.Index(line[i:], ")"); j >= 0 {
			line = line[:i] + line[i+j+1:]
		}
	}
	return strings.ToUpper(strings.TrimSpace(line))
}

// motion reports whether line is a G0 or G1 command and whether it is rapid.
func motion(line string) (rapid, ok bool) {
	word, _, _ := strings.Cut(line, " ")
	switch word {
	case "G0", "G00":
		return true, true
	case "G1", "G01":
		return false, true
	}
	return false, false
}

func classifyMove(rapid bool, from, to position) MoveType {
	dz := to.z - from.z
	travels := from.x != to.x || from.y != to.y

	switch {
	case rapid && dz > 0:
		return MoveRetract
	case rapid:
		return MoveRapid
	case dz < -0.001 && !travels:
		return MovePlunge
	case dz > 0.001 && !travels:
		return MoveRetract
	default:
		return MoveFeed
	}
}

// Stroke is a cutting move made below the sheet surface.
type Stroke struct {
	X     float64
	FromY float64
	ToY   float64
	Depth float64
	Feed  float64
}

// Strokes returns the feed moves made below Z=0, in program order.
func Strokes(moves []Move) []Stroke {
	var out []Stroke
	for _, m := range moves {
		if m.Type != MoveFeed || m.ToZ >= 0 {
			continue
		}
		out = append(out, Stroke{X: m.ToX, FromY: m.FromY, ToY: m.ToY, Depth: -m.ToZ, Feed: m.FeedRate})
	}
	return out
}

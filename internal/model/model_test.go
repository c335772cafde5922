package model

import (
	"testing"
)

func TestRectIntersectsTouchingEdges(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 100, Height: 100}
	b := Rect{X: 100, Y: 0, Width: 50, Height: 50}
	if a.Intersects(b) {
		t.Error("rectangles sharing an edge should not intersect")
	}
	c := Rect{X: 99, Y: 99, Width: 10, Height: 10}
	if !a.Intersects(c) {
		t.Error("expected overlapping rectangles to intersect")
	}
}

func TestRectContains(t *testing.T) {
	outer := Rect{X: 10, Y: 10, Width: 100, Height: 100}
	if !outer.Contains(Rect{X: 10, Y: 10, Width: 100, Height: 100}) {
		t.Error("rectangle should contain itself")
	}
	if outer.Contains(Rect{X: 9, Y: 10, Width: 10, Height: 10}) {
		t.Error("rectangle left of the origin should not be contained")
	}
	if outer.Contains(Rect{X: 50, Y: 50, Width: 61, Height: 10}) {
		t.Error("rectangle past the right edge should not be contained")
	}
}

func TestRectDegenerateArea(t *testing.T) {
	if (Rect{Width: 0, Height: 10}).Area() != 0 {
		t.Error("zero width should have zero area")
	}
	if (Rect{Width: -5, Height: 10}).Area() != 0 {
		t.Error("negative width should have zero area")
	}
	if !(Rect{Width: 10, Height: -1}).Degenerate() {
		t.Error("negative height should be degenerate")
	}
}

func TestPieceRotatable(t *testing.T) {
	p := NewPiece("p1", "Run", 1000, 600)
	if !p.Rotatable() {
		t.Error("pieces rotate by default")
	}
	p.CanRotate = BoolPtr(false)
	if p.Rotatable() {
		t.Error("canRotate=false should stop rotation")
	}
	p.CanRotate = BoolPtr(true)
	p.NoRotate = true
	if p.Rotatable() {
		t.Error("noRotate overrides canRotate")
	}
}

func TestParseFinishedEdges(t *testing.T) {
	tests := []struct {
		in   string
		want FinishedEdges
	}{
		{"", FinishedEdges{}},
		{"none", FinishedEdges{}},
		{"all", FinishedEdges{Top: true, Bottom: true, Left: true, Right: true}},
		{"T+B", FinishedEdges{Top: true, Bottom: true}},
		{"top, left", FinishedEdges{Top: true, Left: true}},
		{"R", FinishedEdges{Right: true}},
	}
	for _, tt := range tests {
		got, err := ParseFinishedEdges(tt.in)
		if err != nil {
			t.Errorf("ParseFinishedEdges(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFinishedEdges(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}

	if _, err := ParseFinishedEdges("T+X"); err == nil {
		t.Error("expected error for unknown edge")
	}
}

func TestFinishedEdgesString(t *testing.T) {
	f := FinishedEdges{Top: true, Left: true}
	if f.String() != "T+L" {
		t.Errorf("expected T+L, got %s", f.String())
	}
	if f.Count() != 2 {
		t.Errorf("expected 2 edges, got %d", f.Count())
	}
	if (FinishedEdges{}).String() != "none" {
		t.Error("empty edges should print none")
	}
}

func TestPieceEdgeLength(t *testing.T) {
	p := NewPiece("p1", "", 1200, 600)
	if p.EdgeLength(EdgeTop) != 1200 || p.EdgeLength(EdgeBottom) != 1200 {
		t.Error("top and bottom edges run along the width")
	}
	if p.EdgeLength(EdgeLeft) != 600 || p.EdgeLength(EdgeRight) != 600 {
		t.Error("left and right edges run along the height")
	}
	if p.DisplayLabel() != "p1" {
		t.Errorf("expected id fallback, got %s", p.DisplayLabel())
	}
}

func TestOptimizationInputUsable(t *testing.T) {
	in := OptimizationInput{SlabWidth: 3000, SlabHeight: 1400, KerfWidth: 3, EdgeAllowanceMm: 20}
	if in.UsableWidth() != 2960 || in.UsableHeight() != 1360 {
		t.Errorf("unexpected usable size %dx%d", in.UsableWidth(), in.UsableHeight())
	}
	if in.MitreKerf() != 3 {
		t.Errorf("mitre kerf should default to slab kerf, got %d", in.MitreKerf())
	}
	mk := 5
	in.MitreKerfWidth = &mk
	if in.MitreKerf() != 5 {
		t.Errorf("expected explicit mitre kerf 5, got %d", in.MitreKerf())
	}
}

func TestGridSplitPolicyValid(t *testing.T) {
	for _, g := range []GridSplitPolicy{GridSplitRotatableOnly, GridSplitAlways, GridSplitNever} {
		if !g.Valid() {
			t.Errorf("%s should be valid", g)
		}
	}
	if GridSplitPolicy("sometimes").Valid() {
		t.Error("unknown policy should be invalid")
	}
}

func TestWastePercentOf(t *testing.T) {
	if WastePercentOf(0, 0) != 0 {
		t.Error("empty run should report 0% waste")
	}
	if got := WastePercentOf(25, 75); got != 75 {
		t.Errorf("expected 75, got %f", got)
	}
}

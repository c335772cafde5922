package model

import (
	"testing"
)

func TestDetectOffcutsFiltersSmallRegions(t *testing.T) {
	free := []Rect{
		{X: 0, Y: 603, Width: 3000, Height: 797},  // bench-sized remnant
		{X: 2003, Y: 0, Width: 997, Height: 603},  // good
		{X: 0, Y: 1300, Width: 3000, Height: 100}, // too narrow
		{X: 0, Y: 0, Width: 300, Height: 299},     // just under min dimension
		{X: 0, Y: 0, Width: 0, Height: 500},       // degenerate
	}
	offcuts := DetectOffcuts(2, free, 300, 90000)
	if len(offcuts) != 2 {
		t.Fatalf("expected 2 offcuts, got %d", len(offcuts))
	}
	if offcuts[0].Area() < offcuts[1].Area() {
		t.Error("offcuts should be sorted by area descending")
	}
	if offcuts[0].ID != "S3-O1" || offcuts[1].ID != "S3-O2" {
		t.Errorf("unexpected ids %s, %s", offcuts[0].ID, offcuts[1].ID)
	}
	if offcuts[0].SlabIndex != 2 {
		t.Errorf("expected slab index 2, got %d", offcuts[0].SlabIndex)
	}
}

func TestDetectOffcutsMinArea(t *testing.T) {
	// 300 x 300 = 90000 sits exactly on both thresholds.
	free := []Rect{{Width: 300, Height: 300}}
	if got := DetectOffcuts(0, free, 300, 90000); len(got) != 1 {
		t.Errorf("expected boundary remnant to qualify, got %d", len(got))
	}
	if got := DetectOffcuts(0, free, 300, 90001); len(got) != 0 {
		t.Errorf("expected remnant below min area to be dropped, got %d", len(got))
	}
}

func TestTotalOffcutArea(t *testing.T) {
	offcuts := []Offcut{{Width: 100, Height: 100}, {Width: 200, Height: 50}}
	if TotalOffcutArea(offcuts) != 20000 {
		t.Errorf("expected 20000, got %d", TotalOffcutArea(offcuts))
	}
	if offcuts[0].ToPiece().Width != 100 {
		t.Error("offcut piece should keep its width")
	}
}

package model

import (
	"fmt"
	"slices"
)

// Offcut is a usable remnant left on a slab after nesting. Remnants big
// enough to go back into the yard are reported so the shop can re-stock them.
type Offcut struct {
	ID        string `json:"id"`
	SlabIndex int    `json:"slabIndex"`
	X         int    `json:"x"` // raw slab coordinates
	Y         int    `json:"y"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
}

// Area returns the area of the offcut in square mm.
func (o Offcut) Area() int {
	return o.Width * o.Height
}

// Rect returns the offcut footprint.
func (o Offcut) Rect() Rect {
	return Rect{X: o.X, Y: o.Y, Width: o.Width, Height: o.Height}
}

// ToPiece converts an offcut into a piece so it can be fed back in as stock
// for a small job.
func (o Offcut) ToPiece() Piece {
	return NewPiece(o.ID, "Offcut "+o.ID, o.Width, o.Height)
}

// DetectOffcuts picks the free regions of a slab that are worth keeping.
// A region qualifies when both sides are at least minDim and its area is at
// least minArea. The result is sorted by area, largest first; ties keep the
// free-list order so output is stable.
func DetectOffcuts(slabIndex int, free []Rect, minDim, minArea int) []Offcut {
	var offcuts []Offcut
	for _, r := range free {
		if r.Degenerate() {
			continue
		}
		if r.Width < minDim || r.Height < minDim || r.Area() < minArea {
			continue
		}
		offcuts = append(offcuts, Offcut{
			SlabIndex: slabIndex,
			X:         r.X,
			Y:         r.Y,
			Width:     r.Width,
			Height:    r.Height,
		})
	}

	slices.SortStableFunc(offcuts, func(a, b Offcut) int {
		return b.Area() - a.Area()
	})
	for i := range offcuts {
		offcuts[i].ID = fmt.Sprintf("S%d-O%d", slabIndex+1, i+1)
	}
	return offcuts
}

// TotalOffcutArea returns the total area of all offcuts in square mm.
func TotalOffcutArea(offcuts []Offcut) int {
	total := 0
	for _, o := range offcuts {
		total += o.Area()
	}
	return total
}

package engine

import (
	"cmp"
	"slices"

	"github.com/piwi3910/SlabNest/internal/model"
)

// rectState tracks a placeable rectangle through the packer.
type rectState int

const (
	statePending rectState = iota
	statePlaced
	stateUnplaced
)

func (s rectState) String() string {
	switch s {
	case statePlaced:
		return "PLACED"
	case stateUnplaced:
		return "UNPLACED"
	default:
		return "PENDING"
	}
}

// slab is one slab's packing state: its free regions in the order they were
// created. Values are never modified in place; place returns a new slab.
type slab struct {
	index int
	free  []model.Rect
}

// newSlab returns an empty slab whose only free region is the usable area.
func newSlab(index int, usable model.Rect) slab {
	return slab{index: index, free: []model.Rect{usable}}
}

// place tries to put r into the first free region that accepts it, trying
// the given orientation before the turned one. On success it returns the
// updated slab and the placement; the receiver is left untouched.
//
// The consumed region is replaced by at most two guillotine leftovers: the
// strip to the right of the kerfed piece (as tall as the kerfed piece) and
// the strip below it (the full region width).
func (s slab) place(r model.PlaceableRect) (slab, model.Placement, bool) {
	for i, f := range s.free {
		w, h, rotated, ok := accepts(f, r)
		if !ok {
			continue
		}

		pw, ph := w+r.Kerf, h+r.Kerf
		var leftovers []model.Rect
		right := model.Rect{X: f.X + pw, Y: f.Y, Width: f.Width - pw, Height: ph}
		below := model.Rect{X: f.X, Y: f.Y + ph, Width: f.Width, Height: f.Height - ph}
		if !right.Degenerate() {
			leftovers = append(leftovers, right)
		}
		if !below.Degenerate() {
			leftovers = append(leftovers, below)
		}

		next := slab{
			index: s.index,
			free:  slices.Replace(slices.Clone(s.free), i, i+1, leftovers...),
		}
		return next, model.Placement{
			PieceID:   r.PieceID,
			SlabIndex: s.index,
			X:         f.X,
			Y:         f.Y,
			Width:     w,
			Height:    h,
			Rotated:   rotated,
			Label:     r.Label,
			Kerf:      r.Kerf,
			Role:      model.RoleOf(r.Role),
		}, true
	}
	return s, model.Placement{}, false
}

// accepts reports whether free region f can take r, returning the chosen
// oriented size.
func accepts(f model.Rect, r model.PlaceableRect) (w, h int, rotated, ok bool) {
	if r.Width+r.Kerf <= f.Width && r.Height+r.Kerf <= f.Height {
		return r.Width, r.Height, false, true
	}
	if r.Rotatable && r.Width != r.Height &&
		r.Height+r.Kerf <= f.Width && r.Width+r.Kerf <= f.Height {
		return r.Height, r.Width, true, true
	}
	return 0, 0, false, false
}

// packResult is the outcome of one packing pass.
type packResult struct {
	slabs      []slab
	placements []model.Placement
	states     []rectState // indexed like the input rectangles
}

// placementOrder returns rectangle indices sorted by area descending, then
// longest side descending; equal rectangles keep input order.
func placementOrder(rects []model.PlaceableRect) []int {
	order := make([]int, len(rects))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		if c := cmp.Compare(rects[b].Area(), rects[a].Area()); c != 0 {
			return c
		}
		return cmp.Compare(rects[b].MaxSide(), rects[a].MaxSide())
	})
	return order
}

// pack runs first-fit decreasing over every rectangle. Slabs are scanned in
// creation order; a new slab is opened only when none accepts the
// rectangle. A rectangle that does not fit even an empty slab is marked
// unplaced and the run carries on.
func pack(rects []model.PlaceableRect, usable model.Rect) packResult {
	res := packResult{states: make([]rectState, len(rects))}

	for _, idx := range placementOrder(rects) {
		r := rects[idx]
		placed := false
		for si, s := range res.slabs {
			next, p, ok := s.place(r)
			if !ok {
				continue
			}
			res.slabs[si] = next
			res.placements = append(res.placements, p)
			placed = true
			break
		}
		if !placed {
			fresh := newSlab(len(res.slabs), usable)
			if next, p, ok := fresh.place(r); ok {
				res.slabs = append(res.slabs, next)
				res.placements = append(res.placements, p)
				placed = true
			}
		}
		if placed {
			res.states[idx] = statePlaced
		} else {
			res.states[idx] = stateUnplaced
		}
	}
	return res
}

// fitsEmptySlab reports whether r could be placed on a fresh slab.
func fitsEmptySlab(r model.PlaceableRect, usable model.Rect) bool {
	_, _, ok := newSlab(0, usable).place(r)
	return ok
}

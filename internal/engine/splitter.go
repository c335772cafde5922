package engine

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/piwi3910/SlabNest/internal/model"
)

// splitPlan is one way of dividing an oversize piece. Cols divide the piece
// width, rows divide the piece height, both in the piece's own orientation.
type splitPlan struct {
	cols, rows int
	rotated    bool // sized so segments fit the slab when turned
}

func (p splitPlan) total() int { return p.cols * p.rows }

func (p splitPlan) imbalance() int {
	d := p.cols - p.rows
	if d < 0 {
		return -d
	}
	return d
}

func (p splitPlan) grid() bool { return p.cols > 1 && p.rows > 1 }

func (p splitPlan) strategy() model.SplitStrategy {
	switch {
	case p.grid():
		return model.SplitGrid
	case p.cols > 1:
		return model.SplitLengthwise
	default:
		return model.SplitWidthwise
	}
}

// comparePlans orders candidate plans: fewest segments, then the most
// balanced grid, then unrotated before rotated.
func comparePlans(a, b splitPlan) int {
	if c := cmp.Compare(a.total(), b.total()); c != 0 {
		return c
	}
	if c := cmp.Compare(a.imbalance(), b.imbalance()); c != 0 {
		return c
	}
	switch {
	case !a.rotated && b.rotated:
		return -1
	case a.rotated && !b.rotated:
		return 1
	}
	return 0
}

// segmentsNeeded returns how many equal segments of dim fit a slab axis of
// capacity when each segment also reserves kerf. Zero means no segment can
// ever fit.
func segmentsNeeded(dim, capacity, kerf int) int {
	room := capacity - kerf
	if room <= 0 {
		return 0
	}
	return (dim + room - 1) / room
}

// fitsEmpty reports whether w x h (plus kerf) fits the usable area, in
// either orientation when rotatable.
func fitsEmpty(w, h, kerf, usableW, usableH int, rotatable bool) bool {
	if w+kerf <= usableW && h+kerf <= usableH {
		return true
	}
	return rotatable && h+kerf <= usableW && w+kerf <= usableH
}

// splitResult is what the splitter hands back for one piece.
type splitResult struct {
	rects   []model.PlaceableRect
	record  *model.SplitRecord // nil when the piece was not split
	warning string
	reason  string // set when the piece cannot be made placeable
}

// splitPiece expands a piece into its body rectangles: the piece itself
// when it fits an empty slab, or a set of joinable segments when it does
// not.
func (o *Optimizer) splitPiece(p model.Piece, in model.OptimizationInput, rotatable bool) splitResult {
	kerf := in.KerfWidth
	uw, uh := in.UsableWidth(), in.UsableHeight()

	if fitsEmpty(p.Width, p.Height, kerf, uw, uh, rotatable) {
		return splitResult{rects: []model.PlaceableRect{{
			PieceID:   p.ID,
			Label:     p.DisplayLabel(),
			Width:     p.Width,
			Height:    p.Height,
			Kerf:      kerf,
			Rotatable: rotatable,
			Role:      model.MainRole{},
		}}}
	}

	var candidates []splitPlan
	addCandidate := func(cols, rows int, rotated bool) {
		if cols == 0 || rows == 0 {
			return
		}
		candidates = append(candidates, splitPlan{cols: cols, rows: rows, rotated: rotated})
	}
	addCandidate(segmentsNeeded(p.Width, uw, kerf), segmentsNeeded(p.Height, uh, kerf), false)
	if rotatable {
		addCandidate(segmentsNeeded(p.Width, uh, kerf), segmentsNeeded(p.Height, uw, kerf), true)
	}

	var allowed []splitPlan
	for _, c := range candidates {
		if c.grid() && !o.gridAllowed(rotatable) {
			continue
		}
		allowed = append(allowed, c)
	}
	if len(allowed) == 0 {
		if len(candidates) == 0 {
			return splitResult{reason: fmt.Sprintf("kerf %dmm leaves no room on a %dx%d usable slab", kerf, uw, uh)}
		}
		if o.Settings.GridSplit == model.GridSplitNever {
			return splitResult{reason: fmt.Sprintf("%dx%d needs a cross joint on the %dx%d usable slab and grid splits are disabled",
				p.Width, p.Height, uw, uh)}
		}
		return splitResult{reason: fmt.Sprintf("%dx%d exceeds the %dx%d usable slab in both dimensions and cannot be rotated",
			p.Width, p.Height, uw, uh)}
	}

	slices.SortStableFunc(allowed, comparePlans)
	plan := allowed[0]

	rects, rec := buildSegments(p, plan, kerf, rotatable)
	return splitResult{
		rects:   rects,
		record:  &rec,
		warning: splitWarning(p, rec, uw, uh),
	}
}

// gridAllowed applies the configured cross-joint policy.
func (o *Optimizer) gridAllowed(rotatable bool) bool {
	switch o.Settings.GridSplit {
	case model.GridSplitAlways:
		return true
	case model.GridSplitNever:
		return false
	default:
		return rotatable
	}
}

// divide cuts dim into n parts that differ by at most 1mm; the leading parts
// take the remainder. It returns the part sizes and their start offsets.
func divide(dim, n int) (sizes, offsets []int) {
	base, rem := dim/n, dim%n
	sizes = make([]int, n)
	offsets = make([]int, n)
	at := 0
	for i := range n {
		sizes[i] = base
		if i < rem {
			sizes[i]++
		}
		offsets[i] = at
		at += sizes[i]
	}
	return sizes, offsets
}

// buildSegments lays out the segment grid row by row.
func buildSegments(p model.Piece, plan splitPlan, kerf int, rotatable bool) ([]model.PlaceableRect, model.SplitRecord) {
	colW, colX := divide(p.Width, plan.cols)
	rowH, rowY := divide(p.Height, plan.rows)
	total := plan.total()

	rects := make([]model.PlaceableRect, 0, total)
	for r := range plan.rows {
		for c := range plan.cols {
			idx := r*plan.cols + c
			rects = append(rects, model.PlaceableRect{
				PieceID:   p.ID,
				Label:     fmt.Sprintf("%s (%d/%d)", p.DisplayLabel(), idx+1, total),
				Width:     colW[c],
				Height:    rowH[r],
				Kerf:      kerf,
				Rotatable: rotatable,
				Role: model.SegmentRole{
					Index:   idx,
					Total:   total,
					Row:     r,
					Col:     c,
					Rows:    plan.rows,
					Cols:    plan.cols,
					OffsetX: colX[c],
					OffsetY: rowY[r],
				},
			})
		}
	}

	rec := model.SplitRecord{
		PieceID:  p.ID,
		Label:    p.DisplayLabel(),
		Strategy: plan.strategy(),
		Cols:     plan.cols,
		Rows:     plan.rows,
		JoinsX:   colX[1:],
		JoinsY:   rowY[1:],
		Rotated:  plan.rotated,
	}
	if len(rec.JoinsX) == 0 {
		rec.JoinsX = nil
	}
	if len(rec.JoinsY) == 0 {
		rec.JoinsY = nil
	}
	return rects, rec
}

func splitWarning(p model.Piece, rec model.SplitRecord, uw, uh int) string {
	var joins []string
	for _, x := range rec.JoinsX {
		joins = append(joins, fmt.Sprintf("x=%d", x))
	}
	for _, y := range rec.JoinsY {
		joins = append(joins, fmt.Sprintf("y=%d", y))
	}
	return fmt.Sprintf("piece %q (%s) %dx%d exceeds the %dx%d usable slab: %s split into %d segments, joins at %s",
		p.ID, p.DisplayLabel(), p.Width, p.Height, uw, uh,
		rec.Strategy, rec.Segments(), strings.Join(joins, ", "))
}

package engine

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/piwi3910/SlabNest/internal/model"
)

// Optimizer nests stone pieces onto slabs. It holds only read-only settings
// and is safe to share between goroutines.
type Optimizer struct {
	Settings model.NestSettings
	logger   *zap.Logger
}

// New returns an optimizer for the given shop settings. A nil logger
// disables logging.
func New(settings model.NestSettings, logger *zap.Logger) *Optimizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if settings.GridSplit == "" {
		settings.GridSplit = model.GridSplitRotatableOnly
	}
	return &Optimizer{Settings: settings, logger: logger.Named("engine")}
}

// expandedPiece is one input piece after splitting and strip generation.
type expandedPiece struct {
	piece  model.Piece
	rects  []model.PlaceableRect
	split  *model.SplitRecord
	strips []model.StripRecord
}

// Optimize nests every piece of the request. It fails only for an invalid
// request; pieces that cannot be placed are reported in the result.
func (o *Optimizer) Optimize(in model.OptimizationInput) (model.OptimizationResult, error) {
	if err := validateSettings(o.Settings); err != nil {
		return model.OptimizationResult{}, err
	}
	if err := validateInput(in); err != nil {
		return model.OptimizationResult{}, err
	}

	usable := model.Rect{
		X:      in.EdgeAllowanceMm,
		Y:      in.EdgeAllowanceMm,
		Width:  in.UsableWidth(),
		Height: in.UsableHeight(),
	}

	result := model.OptimizationResult{
		Placements:      []model.Placement{},
		Slabs:           []model.SlabResult{},
		UnplacedPieces:  []string{},
		EdgeAllowanceMm: in.EdgeAllowanceMm,
	}

	var (
		rects   []model.PlaceableRect
		parents []model.ParentStrips
	)
	for _, p := range in.Pieces {
		ep, warnings, reason := o.expand(p, in, usable)
		result.Warnings = append(result.Warnings, warnings...)
		if reason != "" {
			o.markUnplaced(&result, p, reason)
			continue
		}
		rects = append(rects, ep.rects...)
		if ep.split != nil {
			result.Splits = append(result.Splits, *ep.split)
		}
		if len(ep.strips) > 0 {
			parents = append(parents, model.ParentStrips{
				ParentPieceID: p.ID,
				Label:         p.DisplayLabel(),
				Strips:        ep.strips,
			})
		}
	}

	packed := pack(rects, usable)

	// Every rectangle was checked against an empty slab, so the packer
	// cannot leave one behind; guard the invariant anyway so a piece is
	// never reported as partly placed.
	lost := make(map[string]bool)
	for i, st := range packed.states {
		if st != statePlaced {
			lost[rects[i].Origin()] = true
		}
	}
	if len(lost) > 0 {
		o.logger.Error("rectangles left unplaced after pre-check", zap.Int("pieces", len(lost)))
		packed = o.repack(rects, usable, lost, &result, in.Pieces)
	}

	result.LaminationSummary = summarizeStrips(filterParents(parents, lost))
	result.AreaLowerBound = model.EstimateSlabs(keepRects(rects, lost), usable.Width, usable.Height, in.KerfWidth).SlabsNeededMin
	o.aggregate(&result, packed, usable)

	o.logger.Debug("optimization complete",
		zap.Int("pieces", len(in.Pieces)),
		zap.Int("rectangles", len(result.Placements)),
		zap.Int("slabs", result.TotalSlabs),
		zap.Int("lower_bound", result.AreaLowerBound),
		zap.Int("unplaced", len(result.UnplacedPieces)),
		zap.Float64("waste_percent", result.WastePercent),
	)
	return result, nil
}

// expand turns one piece into its placeable rectangles. A non-empty reason
// means the piece cannot be cut from this slab size at all.
func (o *Optimizer) expand(p model.Piece, in model.OptimizationInput, usable model.Rect) (expandedPiece, []string, string) {
	rotatable := in.AllowRotation && p.Rotatable()
	ep := expandedPiece{piece: p}
	var warnings []string

	split := o.splitPiece(p, in, rotatable)
	if split.reason != "" {
		return ep, nil, split.reason
	}
	if split.warning != "" {
		warnings = append(warnings, split.warning)
	}

	strips := o.laminationStrips(p, split.rects, in)
	warnings = append(warnings, strips.warnings...)

	ep.rects = append(split.rects, strips.rects...)
	ep.split = split.record
	ep.strips = strips.records

	for _, r := range ep.rects {
		if !fitsEmptySlab(r, usable) {
			return ep, warnings, fmt.Sprintf("%s %dx%d (kerf %d) does not fit an empty %dx%d usable slab",
				model.RoleOf(r.Role).Kind(), r.Width, r.Height, r.Kerf, usable.Width, usable.Height)
		}
	}
	return ep, warnings, ""
}

func (o *Optimizer) markUnplaced(result *model.OptimizationResult, p model.Piece, reason string) {
	result.UnplacedPieces = append(result.UnplacedPieces, p.ID)
	result.UnplacedDetails = append(result.UnplacedDetails, model.UnplacedPiece{
		PieceID: p.ID,
		Label:   p.DisplayLabel(),
		Reason:  reason,
	})
	result.Warnings = append(result.Warnings, fmt.Sprintf("piece %q (%s) unplaced: %s", p.ID, p.DisplayLabel(), reason))
	o.logger.Warn("piece unplaced", zap.String("piece", p.ID), zap.String("reason", reason))
}

// repack drops every rectangle of the given pieces and packs the rest again.
func (o *Optimizer) repack(rects []model.PlaceableRect, usable model.Rect, lost map[string]bool,
	result *model.OptimizationResult, pieces []model.Piece) packResult {
	for _, p := range pieces {
		if lost[p.ID] {
			o.markUnplaced(result, p, "could not be placed")
		}
	}
	return pack(keepRects(rects, lost), usable)
}

func keepRects(rects []model.PlaceableRect, drop map[string]bool) []model.PlaceableRect {
	if len(drop) == 0 {
		return rects
	}
	var out []model.PlaceableRect
	for _, r := range rects {
		if !drop[r.Origin()] {
			out = append(out, r)
		}
	}
	return out
}

func filterParents(parents []model.ParentStrips, drop map[string]bool) []model.ParentStrips {
	if len(drop) == 0 {
		return parents
	}
	var out []model.ParentStrips
	for _, ps := range parents {
		if !drop[ps.ParentPieceID] {
			out = append(out, ps)
		}
	}
	return out
}

// aggregate fills the per-slab and overall statistics.
func (o *Optimizer) aggregate(result *model.OptimizationResult, packed packResult, usable model.Rect) {
	usableArea := usable.Area()
	slabs := make([]model.SlabResult, len(packed.slabs))
	for i, s := range packed.slabs {
		slabs[i] = model.SlabResult{
			SlabIndex:  s.index,
			Width:      usable.Width + 2*usable.X,
			Height:     usable.Height + 2*usable.Y,
			Usable:     usable,
			Placements: []model.Placement{},
			Offcuts: model.DetectOffcuts(s.index, s.free,
				o.Settings.MinOffcutDimension, o.Settings.MinOffcutArea),
		}
	}

	for _, p := range packed.placements {
		sr := &slabs[p.SlabIndex]
		sr.Placements = append(sr.Placements, p)
		sr.UsedArea += p.Area()
	}

	for i := range slabs {
		sr := &slabs[i]
		sr.WasteArea = usableArea - sr.UsedArea
		sr.WastePercent = float64(sr.WasteArea) / float64(usableArea) * 100.0
		result.TotalUsedArea += sr.UsedArea
		result.TotalWasteArea += sr.WasteArea
	}

	result.Slabs = slabs
	result.Placements = append(result.Placements, packed.placements...)
	result.TotalSlabs = len(slabs)
	if result.TotalSlabs > 0 {
		result.WastePercent = float64(result.TotalWasteArea) / float64(result.TotalSlabs*usableArea) * 100.0
	}
}

package engine

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/piwi3910/SlabNest/internal/model"
)

// ClassifyProfile maps an edge type name onto a lamination class using the
// configured keyword lists. Mitre keywords win over laminated ones. Keywords
// of three letters or fewer must match a whole word ("lam" does not match
// "clamp"); longer keywords match anywhere in the name.
func ClassifyProfile(name string, settings model.NestSettings) model.EdgeProfile {
	lower := strings.ToLower(strings.TrimSpace(name))
	if lower == "" {
		return model.ProfileUnknown
	}
	words := strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if matchesKeyword(lower, words, settings.MitreKeywords) {
		return model.ProfileMitre
	}
	if matchesKeyword(lower, words, settings.LaminatedKeywords) {
		return model.ProfileLaminated
	}
	return model.ProfileUnknown
}

func matchesKeyword(name string, words, keywords []string) bool {
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		if len(kw) > 3 {
			if strings.Contains(name, kw) {
				return true
			}
			continue
		}
		for _, w := range words {
			if w == kw {
				return true
			}
		}
	}
	return false
}

// stripResult collects what the strip generator produced for one piece.
type stripResult struct {
	rects    []model.PlaceableRect
	records  []model.StripRecord
	warnings []string
}

// laminationStrips generates the build-up strips for a thick piece. Strips
// are cut per body rectangle so a split piece gets one strip per segment
// edge that lies on the piece's outside edge; that keeps every strip no
// longer than a segment and therefore placeable.
func (o *Optimizer) laminationStrips(p model.Piece, body []model.PlaceableRect, in model.OptimizationInput) stripResult {
	var out stripResult
	if p.Thickness < o.Settings.LaminationThreshold || !p.FinishedEdges.HasAny() {
		return out
	}

	for _, edge := range model.AllEdges {
		if !p.FinishedEdges.Get(edge) {
			continue
		}
		name := p.EdgeTypeNames.Get(edge)
		profile := ClassifyProfile(name, o.Settings)
		if profile == model.ProfileUnknown {
			out.warnings = append(out.warnings, fmt.Sprintf(
				"piece %q (%s): %s edge is finished but profile %q is not a recognised laminated or mitre edge; no strip generated",
				p.ID, p.DisplayLabel(), edge, name))
			continue
		}

		stripW, kerf := o.Settings.LaminationStripWidth, in.KerfWidth
		if profile == model.ProfileMitre {
			stripW, kerf = o.Settings.MitreStripWidth, in.MitreKerf()
		}

		for _, r := range body {
			length, segIdx, onEdge := edgeRun(r, edge)
			if !onEdge {
				continue
			}

			id := fmt.Sprintf("%s-lam-%s", p.ID, edge)
			label := fmt.Sprintf("%s %s strip", p.DisplayLabel(), edge)
			if segIdx != nil {
				id = fmt.Sprintf("%s-s%d", id, *segIdx+1)
				label = fmt.Sprintf("%s %s strip (seg %d)", p.DisplayLabel(), edge, *segIdx+1)
			}

			// Strips run along their edge so a non-rotatable piece keeps its
			// strips in the same grain direction.
			w, h := length, stripW
			if edge == model.EdgeLeft || edge == model.EdgeRight {
				w, h = stripW, length
			}

			out.rects = append(out.rects, model.PlaceableRect{
				PieceID:   id,
				Label:     label,
				Width:     w,
				Height:    h,
				Kerf:      kerf,
				Rotatable: r.Rotatable,
				Role: model.StripRole{
					ParentID:     p.ID,
					Position:     edge,
					Profile:      profile,
					SegmentIndex: segIdx,
				},
			})
			out.records = append(out.records, model.StripRecord{
				PieceID:      id,
				Position:     edge,
				Profile:      profile,
				Length:       length,
				Width:        stripW,
				SegmentIndex: segIdx,
			})
		}
	}
	return out
}

// edgeRun returns the length of a body rectangle's side on the given piece
// edge, or false when that side is an internal join.
func edgeRun(r model.PlaceableRect, edge model.EdgePosition) (int, *int, bool) {
	length := r.Width
	if edge == model.EdgeLeft || edge == model.EdgeRight {
		length = r.Height
	}

	seg, ok := r.Role.(model.SegmentRole)
	if !ok {
		return length, nil, true
	}

	var onEdge bool
	switch edge {
	case model.EdgeTop:
		onEdge = seg.Row == 0
	case model.EdgeBottom:
		onEdge = seg.Row == seg.Rows-1
	case model.EdgeLeft:
		onEdge = seg.Col == 0
	case model.EdgeRight:
		onEdge = seg.Col == seg.Cols-1
	}
	idx := seg.Index
	return length, &idx, onEdge
}

// summarizeStrips folds per-piece strip records into the run summary.
func summarizeStrips(parents []model.ParentStrips) *model.LaminationSummary {
	if len(parents) == 0 {
		return nil
	}
	s := &model.LaminationSummary{StripsByParent: parents}
	for _, ps := range parents {
		for _, st := range ps.Strips {
			s.TotalStrips++
			s.TotalStripArea += st.Length * st.Width
		}
	}
	return s
}

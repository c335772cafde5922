// Package export renders nesting results as shop documents: PDF slab
// sheets, QR part labels, DXF layouts for the saw and an XLSX cut list.
package export

import (
	"errors"
	"strconv"
	"time"

	"github.com/piwi3910/SlabNest/internal/model"
)

// ErrNothingToExport is returned when a document has no slabs.
var ErrNothingToExport = errors.New("no slabs to export")

// Document is everything the exporters need for one job.
type Document struct {
	Title       string
	CompanyName string
	GeneratedAt time.Time
	PlainLabels bool // labels without QR codes
	Groups      []Group
}

// Group is one material's request and result.
type Group struct {
	MaterialID string
	Input      model.OptimizationInput
	Result     model.OptimizationResult
}

// NewDocument pairs each material request with its result. Results without
// a matching request keep an empty input.
func NewDocument(title string, materials []model.MaterialInput, res model.MultiMaterialResult) Document {
	inputs := make(map[string]model.OptimizationInput, len(materials))
	for _, m := range materials {
		inputs[m.MaterialID] = m.Input
	}
	doc := Document{Title: title, GeneratedAt: time.Now()}
	for _, g := range res.Groups {
		doc.Groups = append(doc.Groups, Group{
			MaterialID: g.MaterialID,
			Input:      inputs[g.MaterialID],
			Result:     g.Result,
		})
	}
	return doc
}

// TotalSlabs counts slabs across all groups.
func (d Document) TotalSlabs() int {
	n := 0
	for _, g := range d.Groups {
		n += len(g.Result.Slabs)
	}
	return n
}

// Pieces returns every input piece of the job.
func (d Document) Pieces() []model.Piece {
	var out []model.Piece
	for _, g := range d.Groups {
		out = append(out, g.Input.Pieces...)
	}
	return out
}

// pieceIndex maps piece ids to input pieces for one group.
func (g Group) pieceIndex() map[string]model.Piece {
	idx := make(map[string]model.Piece, len(g.Input.Pieces))
	for _, p := range g.Input.Pieces {
		idx[p.ID] = p
	}
	return idx
}

// roleText is the short role description used on sheets and labels.
func roleText(p model.Placement) string {
	switch r := model.RoleOf(p.Role).(type) {
	case model.SegmentRole:
		return "segment " + strconv.Itoa(r.Index+1) + "/" + strconv.Itoa(r.Total)
	case model.StripRole:
		s := r.Profile.String() + " strip " + r.Position.String()
		if r.SegmentIndex != nil {
			s += " seg " + strconv.Itoa(*r.SegmentIndex+1)
		}
		return s
	default:
		return "main"
	}
}

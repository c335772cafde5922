package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/SlabNest/internal/model"
)

// Sheet names of the cut-list workbook.
const (
	SheetCutList    = "Cut List"
	SheetSlabs      = "Slabs"
	SheetStrips     = "Lamination"
	SheetEdgeFinish = "Edge Finish"
)

var (
	cutListHeader = []any{"Material", "Slab", "Piece ID", "Label", "Role", "X", "Y", "Width", "Height", "Rotated", "Kerf"}
	slabsHeader   = []any{"Material", "Slab", "Width", "Height", "Pieces", "Used m²", "Waste m²", "Waste %", "Offcuts"}
	stripsHeader  = []any{"Material", "Parent", "Label", "Position", "Profile", "Length", "Width", "Segment"}
	edgesHeader   = []any{"Profile", "Edges", "Linear mm", "Linear m"}
)

// ExportXLSX writes the job as a workbook: every placement, per-slab
// statistics, lamination strips and edge finishing totals.
func ExportXLSX(path string, doc Document) error {
	if doc.TotalSlabs() == 0 {
		return ErrNothingToExport
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetCutList); err != nil {
		return err
	}
	for _, name := range []string{SheetSlabs, SheetStrips, SheetEdgeFinish} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	bold, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6E6E6"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	w := sheetWriter{f: f, style: bold}
	w.header(SheetCutList, cutListHeader)
	w.header(SheetSlabs, slabsHeader)
	w.header(SheetStrips, stripsHeader)
	w.header(SheetEdgeFinish, edgesHeader)

	slabNum := 0
	for _, g := range doc.Groups {
		for _, s := range g.Result.Slabs {
			slabNum++
			for _, p := range s.Placements {
				w.row(SheetCutList, []any{
					g.MaterialID, slabNum, p.PieceID, p.Label, roleText(p),
					p.X, p.Y, p.Width, p.Height, yesNo(p.Rotated), p.Kerf,
				})
			}
			w.row(SheetSlabs, []any{
				g.MaterialID, slabNum, s.Width, s.Height, len(s.Placements),
				sqm(s.UsedArea), sqm(s.WasteArea), round1(s.WastePercent), len(s.Offcuts),
			})
		}

		if ls := g.Result.LaminationSummary; ls != nil {
			for _, parent := range ls.StripsByParent {
				for _, st := range parent.Strips {
					seg := ""
					if st.SegmentIndex != nil {
						seg = fmt.Sprintf("%d", *st.SegmentIndex+1)
					}
					w.row(SheetStrips, []any{
						g.MaterialID, parent.ParentPieceID, parent.Label,
						st.Position.String(), st.Profile.String(), st.Length, st.Width, seg,
					})
				}
			}
		}
	}

	edges := model.CalculateEdgeFinish(doc.Pieces())
	for _, l := range edges.Lines {
		w.row(SheetEdgeFinish, []any{l.Profile, l.EdgeCount, l.LinearMM, l.LinearM})
	}
	w.row(SheetEdgeFinish, []any{"Total", edges.EdgeCount, edges.TotalLinearMM, edges.TotalLinearM})

	if w.err != nil {
		return fmt.Errorf("write workbook: %w", w.err)
	}
	if err := f.SetColWidth(SheetCutList, "C", "E", 22); err != nil {
		return err
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// sheetWriter appends rows per sheet and keeps the first error.
type sheetWriter struct {
	f     *excelize.File
	style int
	next  map[string]int
	err   error
}

func (w *sheetWriter) header(sheet string, cells []any) {
	w.row(sheet, cells)
	if w.err != nil {
		return
	}
	last, err := excelize.CoordinatesToCellName(len(cells), 1)
	if err != nil {
		w.err = err
		return
	}
	w.err = w.f.SetCellStyle(sheet, "A1", last, w.style)
}

func (w *sheetWriter) row(sheet string, cells []any) {
	if w.err != nil {
		return
	}
	if w.next == nil {
		w.next = make(map[string]int)
	}
	w.next[sheet]++
	cell, err := excelize.CoordinatesToCellName(1, w.next[sheet])
	if err != nil {
		w.err = err
		return
	}
	w.err = w.f.SetSheetRow(sheet, cell, &cells)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func round1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}

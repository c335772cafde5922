package export

import (
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/SlabNest/internal/model"
)

// partColor represents an RGB color for a placed rectangle.
type partColor struct {
	R, G, B int
}

var partColors = []partColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

// Strips are drawn in one muted tone so they read as offcut-grade work.
var stripColor = partColor{R: 189, G: 189, B: 189}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	statsHeight  = 20.0
	drawAreaTop  = marginTop + headerHeight + 5.0
)

// ExportPDF writes one page per slab followed by a job summary page.
func ExportPDF(path string, doc Document) error {
	if doc.TotalSlabs() == 0 {
		return ErrNothingToExport
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)
	pdf.SetTitle(doc.Title, true)

	sheetNum := 0
	for _, g := range doc.Groups {
		for _, slab := range g.Result.Slabs {
			sheetNum++
			pdf.AddPage()
			renderSlabPage(pdf, g, slab, sheetNum)
			renderFooter(pdf, doc)
		}
	}

	pdf.AddPage()
	renderSummaryPage(pdf, doc)
	renderFooter(pdf, doc)

	return pdf.OutputFileAndClose(path)
}

// renderSlabPage draws one slab with its placements, joins and offcuts.
func renderSlabPage(pdf *fpdf.Fpdf, g Group, slab model.SlabResult, sheetNum int) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Slab %d: %s (%d x %d mm)", sheetNum, g.MaterialID, slab.Width, slab.Height)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Pieces: %d | Used: %.2f m² | Waste: %.1f%% | Kerf: %d mm | Edge allowance: %d mm",
		len(slab.Placements), sqm(slab.UsedArea), slab.WastePercent, g.Input.KerfWidth, slab.Usable.X)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - statsHeight
	scale := math.Min(drawWidth/float64(slab.Width), drawHeight/float64(slab.Height))

	canvasW := float64(slab.Width) * scale
	canvasH := float64(slab.Height) * scale
	offsetX := marginLeft + (drawWidth-canvasW)/2
	offsetY := drawAreaTop

	// Raw slab in stone grey, the edge allowance band hatched.
	pdf.SetFillColor(225, 222, 215)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "FD")
	if slab.Usable.X > 0 {
		drawAllowance(pdf, slab, scale, offsetX, offsetY)
	}

	for _, o := range slab.Offcuts {
		pdf.SetDrawColor(0, 140, 0)
		pdf.SetLineWidth(0.2)
		pdf.SetDashPattern([]float64{1.5, 1}, 0)
		pdf.Rect(offsetX+float64(o.X)*scale, offsetY+float64(o.Y)*scale,
			float64(o.Width)*scale, float64(o.Height)*scale, "D")
		pdf.SetDashPattern([]float64{}, 0)
	}

	for i, p := range slab.Placements {
		col := partColors[i%len(partColors)]
		if p.IsStrip() {
			col = stripColor
		}
		px := offsetX + float64(p.X)*scale
		py := offsetY + float64(p.Y)*scale
		pw := float64(p.Width) * scale
		ph := float64(p.Height) * scale

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.3)
		pdf.Rect(px, py, pw, ph, "FD")

		if pw > 15 && ph > 8 {
			pdf.SetFont("Helvetica", "", labelFontSize(pw, ph))
			pdf.SetTextColor(0, 0, 0)

			label := p.Label
			dims := fmt.Sprintf("%dx%d", p.Width, p.Height)
			labelW := pdf.GetStringWidth(label)
			dimsW := pdf.GetStringWidth(dims)

			if labelW < pw-2 {
				pdf.SetXY(px+(pw-labelW)/2, py+ph/2-4)
				pdf.CellFormat(labelW, 4, label, "", 0, "C", false, 0, "")
			}
			if ph > 14 && dimsW < pw-2 {
				pdf.SetXY(px+(pw-dimsW)/2, py+ph/2)
				pdf.CellFormat(dimsW, 4, dims, "", 0, "C", false, 0, "")
			}
		}
	}

	drawDimensionAnnotations(pdf, slab, offsetX, offsetY, canvasW, canvasH)
	drawPiecesLegend(pdf, slab, offsetY+canvasH+5)
}

// drawAllowance hatches the unusable band around the slab edge.
func drawAllowance(pdf *fpdf.Fpdf, slab model.SlabResult, scale, offsetX, offsetY float64) {
	a := float64(slab.Usable.X) * scale
	w := float64(slab.Width) * scale
	h := float64(slab.Height) * scale
	bands := [][4]float64{
		{0, 0, w, a},
		{0, h - a, w, a},
		{0, a, a, h - 2*a},
		{w - a, a, a, h - 2*a},
	}
	for _, b := range bands {
		drawHatchPattern(pdf, offsetX+b[0], offsetY+b[1], b[2], b[3])
	}
}

// drawHatchPattern draws diagonal lines inside a rectangle.
func drawHatchPattern(pdf *fpdf.Fpdf, x, y, w, h float64) {
	pdf.SetDrawColor(200, 0, 0)
	pdf.SetLineWidth(0.15)

	spacing := 4.0
	for d := spacing; d < w+h; d += spacing {
		x1 := x + math.Max(0, d-h)
		y1 := y + math.Min(h, d)
		x2 := x + math.Min(w, d)
		y2 := y + math.Max(0, d-w)
		pdf.Line(x1, y1, x2, y2)
	}
}

// drawDimensionAnnotations adds width and height labels outside the slab.
func drawDimensionAnnotations(pdf *fpdf.Fpdf, slab model.SlabResult, offsetX, offsetY, canvasW, canvasH float64) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)

	widthLabel := fmt.Sprintf("%d mm", slab.Width)
	wLabelW := pdf.GetStringWidth(widthLabel)
	pdf.SetXY(offsetX+(canvasW-wLabelW)/2, offsetY+canvasH+1)
	pdf.CellFormat(wLabelW, 4, widthLabel, "", 0, "C", false, 0, "")

	heightLabel := fmt.Sprintf("%d mm", slab.Height)
	pdf.TransformBegin()
	pdf.TransformRotate(90, offsetX-3, offsetY+canvasH/2)
	hLabelW := pdf.GetStringWidth(heightLabel)
	pdf.SetXY(offsetX-3-hLabelW/2, offsetY+canvasH/2-2)
	pdf.CellFormat(hLabelW, 4, heightLabel, "", 0, "C", false, 0, "")
	pdf.TransformEnd()

	pdf.SetTextColor(0, 0, 0)
}

// drawPiecesLegend renders a compact legend of the slab's placements.
func drawPiecesLegend(pdf *fpdf.Fpdf, slab model.SlabResult, startY float64) {
	if len(slab.Placements) == 0 {
		return
	}

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, startY)
	pdf.CellFormat(30, 4, "Pieces placed:", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	xPos := marginLeft + 32
	maxX := pageWidth - marginRight

	for i, p := range slab.Placements {
		col := partColors[i%len(partColors)]
		if p.IsStrip() {
			col = stripColor
		}
		label := fmt.Sprintf("%s (%dx%d)", p.Label, p.Width, p.Height)
		if p.Rotated {
			label += " R"
		}
		labelW := pdf.GetStringWidth(label) + 6

		if xPos+labelW > maxX {
			startY += 5
			xPos = marginLeft
		}

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.Rect(xPos, startY+0.5, 3, 3, "F")
		pdf.SetXY(xPos+4, startY)
		pdf.CellFormat(labelW-4, 4, label, "", 0, "L", false, 0, "")

		xPos += labelW + 2
	}
}

// renderSummaryPage draws the job totals, per-slab breakdown, unplaced
// pieces, joins, lamination strips and edge finishing.
func renderSummaryPage(pdf *fpdf.Fpdf, doc Document) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	title := "Slab Nesting Summary"
	if doc.Title != "" {
		title += ": " + doc.Title
	}
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, title, "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18
	y = sectionTitle(pdf, y, "Overall Statistics")

	var used, waste, unplaced, lower int
	for _, g := range doc.Groups {
		used += g.Result.TotalUsedArea
		waste += g.Result.TotalWasteArea
		unplaced += len(g.Result.UnplacedPieces)
		lower += g.Result.AreaLowerBound
	}
	y = keyValues(pdf, y, [][2]string{
		{"Materials", fmt.Sprintf("%d", len(doc.Groups))},
		{"Total Slabs Used", fmt.Sprintf("%d (area bound %d)", doc.TotalSlabs(), lower)},
		{"Overall Waste", fmt.Sprintf("%.1f%%", model.WastePercentOf(used, waste))},
		{"Unplaced Pieces", fmt.Sprintf("%d", unplaced)},
	})

	y += 5
	y = sectionTitle(pdf, y, "Slab Breakdown")
	colWidths := []float64{18, 50, 40, 25, 30, 50, 30}
	headers := []string{"Slab", "Material", "Dimensions", "Pieces", "Waste", "Used / Usable", "Offcuts"}
	y = tableHeader(pdf, y, colWidths, headers)

	pdf.SetFont("Helvetica", "", 9)
	row := 0
	for _, g := range doc.Groups {
		for _, s := range g.Result.Slabs {
			y = tableRow(pdf, y, row, colWidths, []string{
				fmt.Sprintf("%d", row+1),
				g.MaterialID,
				fmt.Sprintf("%d x %d mm", s.Width, s.Height),
				fmt.Sprintf("%d", len(s.Placements)),
				fmt.Sprintf("%.1f%%", s.WastePercent),
				fmt.Sprintf("%.2f / %.2f m²", sqm(s.UsedArea), sqm(s.UsableArea())),
				fmt.Sprintf("%d", len(s.Offcuts)),
			})
			row++
			if y > pageHeight-marginBottom-20 {
				pdf.AddPage()
				y = marginTop
			}
		}
	}

	var lines []string
	for _, g := range doc.Groups {
		for _, u := range g.Result.UnplacedDetails {
			lines = append(lines, fmt.Sprintf("- [%s] %s: %s", g.MaterialID, u.Label, u.Reason))
		}
	}
	if len(lines) > 0 {
		pdf.SetTextColor(200, 0, 0)
		y = bulletSection(pdf, y+8, "WARNING: Unplaced Pieces", lines)
		pdf.SetTextColor(0, 0, 0)
	}

	lines = lines[:0]
	for _, g := range doc.Groups {
		for _, sp := range g.Result.Splits {
			lines = append(lines, fmt.Sprintf("- %s: %s, %d segment(s), joins x=%v y=%v",
				sp.Label, sp.Strategy, sp.Segments(), sp.JoinsX, sp.JoinsY))
		}
	}
	if len(lines) > 0 {
		y = bulletSection(pdf, y+6, "Joins", lines)
	}

	lines = lines[:0]
	for _, g := range doc.Groups {
		if ls := g.Result.LaminationSummary; ls != nil {
			lines = append(lines, fmt.Sprintf("- %s: %d strip(s), %.2f m²", g.MaterialID, ls.TotalStrips, sqm(ls.TotalStripArea)))
		}
	}
	if len(lines) > 0 {
		y = bulletSection(pdf, y+6, "Lamination Strips", lines)
	}

	edges := model.CalculateEdgeFinish(doc.Pieces())
	if len(edges.Lines) > 0 {
		lines = lines[:0]
		for _, l := range edges.Lines {
			lines = append(lines, fmt.Sprintf("- %s: %d edge(s), %.2f m", l.Profile, l.EdgeCount, l.LinearM))
		}
		lines = append(lines, fmt.Sprintf("Total: %.2f m over %d piece(s)", edges.TotalLinearM, edges.PieceCount))
		bulletSection(pdf, y+6, "Edge Finishing", lines)
	}
}

func sectionTitle(pdf *fpdf.Fpdf, y float64, title string) float64 {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, title, "", 0, "L", false, 0, "")
	return y + 9
}

func keyValues(pdf *fpdf.Fpdf, y float64, items [][2]string) float64 {
	pdf.SetFont("Helvetica", "", 10)
	for _, item := range items {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, item[0]+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(80, 6, item[1], "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}
	return y
}

func tableHeader(pdf *fpdf.Fpdf, y float64, widths []float64, headers []string) float64 {
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	x := marginLeft
	for i, h := range headers {
		pdf.SetXY(x, y)
		pdf.CellFormat(widths[i], 6, h, "1", 0, "C", true, 0, "")
		x += widths[i]
	}
	return y + 6
}

func tableRow(pdf *fpdf.Fpdf, y float64, row int, widths []float64, cells []string) float64 {
	if row%2 == 0 {
		pdf.SetFillColor(245, 245, 245)
	} else {
		pdf.SetFillColor(255, 255, 255)
	}
	x := marginLeft
	for i, c := range cells {
		pdf.SetXY(x, y)
		pdf.CellFormat(widths[i], 6, c, "1", 0, "C", true, 0, "")
		x += widths[i]
	}
	return y + 6
}

// bulletSection prints a titled list, continuing on a new page when full.
func bulletSection(pdf *fpdf.Fpdf, y float64, title string, lines []string) float64 {
	if y > pageHeight-marginBottom-20 {
		pdf.AddPage()
		y = marginTop
	}
	y = sectionTitle(pdf, y, title)
	pdf.SetFont("Helvetica", "", 9)
	for _, l := range lines {
		if y > pageHeight-marginBottom-8 {
			pdf.AddPage()
			y = marginTop
		}
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(pageWidth-marginLeft-marginRight-5, 5, l, "", 0, "L", false, 0, "")
		y += 5
	}
	return y
}

func renderFooter(pdf *fpdf.Fpdf, doc Document) {
	footer := "Generated by SlabNest - Stone Slab Nesting"
	if doc.CompanyName != "" {
		footer = doc.CompanyName + " - " + footer
	}
	if !doc.GeneratedAt.IsZero() {
		footer += " - " + doc.GeneratedAt.Format("2006-01-02 15:04")
	}
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, footer, "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

// labelFontSize returns a font size that fits the rectangle.
func labelFontSize(w, h float64) float64 {
	minDim := math.Min(w, h)
	switch {
	case minDim > 40:
		return 8
	case minDim > 20:
		return 7
	default:
		return 6
	}
}

// sqm converts mm² to m².
func sqm(mm2 int) float64 {
	return float64(mm2) / 1e6
}

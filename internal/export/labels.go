package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"
)

// LabelInfo holds the data encoded into each piece label's QR code.
type LabelInfo struct {
	PieceID   string `json:"id"`
	Label     string `json:"label"`
	Material  string `json:"material"`
	Role      string `json:"role"`
	Width     int    `json:"width_mm"`
	Height    int    `json:"height_mm"`
	Thickness int    `json:"thickness_mm,omitempty"`
	SlabIndex int    `json:"slab"` // 1-based across the whole job
	Rotated   bool   `json:"rotated"`
	X         int    `json:"x_mm"`
	Y         int    `json:"y_mm"`
}

// Label layout constants for Avery 5160-compatible labels (3 columns, 10
// rows per page on US Letter).
const (
	labelMarginTop  = 12.7
	labelMarginLeft = 4.8
	labelWidth      = 66.7
	labelHeight     = 25.4
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	qrSize          = 20.0
	labelPadding    = 2.0
)

// CollectLabelInfos returns one label per placement, numbering slabs across
// every material in document order.
func CollectLabelInfos(doc Document) []LabelInfo {
	var labels []LabelInfo
	slabNum := 0
	for _, g := range doc.Groups {
		pieces := g.pieceIndex()
		for _, s := range g.Result.Slabs {
			slabNum++
			for _, p := range s.Placements {
				labels = append(labels, LabelInfo{
					PieceID:   p.PieceID,
					Label:     p.Label,
					Material:  g.MaterialID,
					Role:      roleText(p),
					Width:     p.Width,
					Height:    p.Height,
					Thickness: pieces[p.Origin()].Thickness,
					SlabIndex: slabNum,
					Rotated:   p.Rotated,
					X:         p.X,
					Y:         p.Y,
				})
			}
		}
	}
	return labels
}

// ExportLabels writes a sheet of QR-coded labels, one per placed piece,
// segment and strip, so every cut part can be identified on the bench.
func ExportLabels(path string, doc Document) error {
	labels := CollectLabelInfos(doc)
	if len(labels) == 0 {
		return ErrNothingToExport
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, label := range labels {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}
		pos := i % labelsPerPage
		x := labelMarginLeft + float64(pos%labelCols)*labelWidth
		y := labelMarginTop + float64(pos/labelCols)*labelHeight

		if err := renderLabel(pdf, x, y, i, label, !doc.PlainLabels); err != nil {
			return fmt.Errorf("failed to render label for %q: %w", label.PieceID, err)
		}
	}

	return pdf.OutputFileAndClose(path)
}

// renderLabel draws a single label at the given position.
func renderLabel(pdf *fpdf.Fpdf, x, y float64, n int, info LabelInfo, withQR bool) error {
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	textX := x + labelPadding
	textW := labelWidth - 2*labelPadding

	if withQR {
		qrData, err := json.Marshal(info)
		if err != nil {
			return fmt.Errorf("failed to marshal label info: %w", err)
		}
		qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
		if err != nil {
			return fmt.Errorf("failed to generate QR code: %w", err)
		}

		imgName := fmt.Sprintf("qr_%d", n)
		opts := fpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader(imgName, opts, bytes.NewReader(qrPNG))
		pdf.ImageOptions(imgName, x+labelWidth-qrSize-labelPadding, y+(labelHeight-qrSize)/2,
			qrSize, qrSize, false, opts, 0, "")
		textW -= qrSize + labelPadding
	}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+labelPadding)
	pdf.CellFormat(textW, 4.5, truncate(pdf, info.Label, textW), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(textX, y+labelPadding+5)
	pdf.CellFormat(textW, 3.5, fmt.Sprintf("%d x %d mm  %s", info.Width, info.Height, info.Role), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+labelPadding+9)
	material := info.Material
	if info.Thickness > 0 {
		material = fmt.Sprintf("%s  %dmm", material, info.Thickness)
	}
	pdf.CellFormat(textW, 3, truncate(pdf, material, textW), "", 1, "L", false, 0, "")
	pdf.SetXY(textX, y+labelPadding+12)
	pdf.CellFormat(textW, 3, fmt.Sprintf("Slab %d @ (%d, %d)", info.SlabIndex, info.X, info.Y), "", 1, "L", false, 0, "")

	if info.Rotated {
		pdf.SetXY(textX, y+labelPadding+15.5)
		pdf.SetFont("Helvetica", "I", 6)
		pdf.SetTextColor(150, 100, 0)
		pdf.CellFormat(textW, 3, "Rotated 90\xb0", "", 0, "L", false, 0, "")
	}

	pdf.SetTextColor(0, 0, 0)
	return nil
}

// truncate shortens s with an ellipsis to fit width w in the current font.
func truncate(pdf *fpdf.Fpdf, s string, w float64) string {
	if pdf.GetStringWidth(s) <= w {
		return s
	}
	for len(s) > 0 && pdf.GetStringWidth(s+"...") > w {
		s = s[:len(s)-1]
	}
	return s + "..."
}

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/piwi3910/SlabNest/internal/export"
	"github.com/piwi3910/SlabNest/internal/model"
)

// exportFlags select the shop documents to write.
type exportFlags struct {
	pdf    string
	labels string
	xlsx   string
	dxfDir string
}

func (f *exportFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.pdf, "pdf", "", "write slab sheets and summary to this PDF")
	fs.StringVar(&f.labels, "labels", "", "write QR piece labels to this PDF")
	fs.StringVar(&f.xlsx, "xlsx", "", "write the cut list to this workbook")
	fs.StringVar(&f.dxfDir, "dxf-dir", "", "write one DXF layout per material into this directory")
}

// document wraps a result with the configured export settings.
func (a *app) document(title string, materials []model.MaterialInput, res model.MultiMaterialResult) export.Document {
	doc := export.NewDocument(title, materials, res)
	doc.CompanyName = a.cfg.Export.CompanyName
	doc.PlainLabels = !a.cfg.Export.LabelQR
	return doc
}

func (f *exportFlags) any() bool {
	return f.pdf != "" || f.labels != "" || f.xlsx != "" || f.dxfDir != ""
}

// write produces every requested document and returns the paths written.
func (f *exportFlags) write(doc export.Document, logger *zap.Logger) ([]string, error) {
	var written []string
	if f.pdf != "" {
		if err := export.ExportPDF(f.pdf, doc); err != nil {
			return written, fmt.Errorf("pdf: %w", err)
		}
		written = append(written, f.pdf)
	}
	if f.labels != "" {
		if err := export.ExportLabels(f.labels, doc); err != nil {
			return written, fmt.Errorf("labels: %w", err)
		}
		written = append(written, f.labels)
	}
	if f.xlsx != "" {
		if err := export.ExportXLSX(f.xlsx, doc); err != nil {
			return written, fmt.Errorf("xlsx: %w", err)
		}
		written = append(written, f.xlsx)
	}
	if f.dxfDir != "" {
		if err := os.MkdirAll(f.dxfDir, 0755); err != nil {
			return written, fmt.Errorf("dxf: %w", err)
		}
		for _, g := range doc.Groups {
			if len(g.Result.Slabs) == 0 {
				continue
			}
			path := filepath.Join(f.dxfDir, fileSafe(g.MaterialID)+".dxf")
			if err := export.ExportDXF(path, g); err != nil {
				return written, fmt.Errorf("dxf %s: %w", g.MaterialID, err)
			}
			written = append(written, path)
		}
	}
	for _, p := range written {
		logger.Info("document written", zap.String("path", p))
	}
	return written, nil
}

// fileSafe turns a material name into a file name.
func fileSafe(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "material"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, s)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printResult writes the human-readable run summary.
func printResult(w io.Writer, materials []model.MaterialInput, res model.MultiMaterialResult) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "MATERIAL\tPIECES\tSLABS\tBOUND\tWASTE\tSPLITS\tSTRIPS\tUNPLACED")
	for i, g := range res.Groups {
		r := g.Result
		strips := 0
		if r.LaminationSummary != nil {
			strips = r.LaminationSummary.TotalStrips
		}
		pieces := 0
		if i < len(materials) {
			pieces = len(materials[i].Input.Pieces)
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%.1f%%\t%d\t%d\t%d\n",
			g.MaterialID, pieces, r.TotalSlabs, r.AreaLowerBound, r.WastePercent,
			len(r.Splits), strips, len(r.UnplacedPieces))
	}
	tw.Flush()

	fmt.Fprintf(w, "\nTotal: %d slab(s), %.1f%% waste, %d unplaced\n",
		res.TotalSlabs, res.WastePercent, res.UnplacedCount)

	var pieces []model.Piece
	for _, m := range materials {
		pieces = append(pieces, m.Input.Pieces...)
	}
	if edges := model.CalculateEdgeFinish(pieces); edges.EdgeCount > 0 {
		fmt.Fprintf(w, "Edge finishing: %.2f m over %d edge(s)\n", edges.TotalLinearM, edges.EdgeCount)
		for _, l := range edges.Lines {
			fmt.Fprintf(w, "  %-24s %6.2f m\n", l.Profile, l.LinearM)
		}
	}

	for _, g := range res.Groups {
		for _, warn := range g.Result.Warnings {
			fmt.Fprintf(w, "warning [%s]: %s\n", g.MaterialID, warn)
		}
	}
}

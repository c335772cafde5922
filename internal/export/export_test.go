package export

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"github.com/yofu/dxf"

	"github.com/piwi3910/SlabNest/internal/engine"
	"github.com/piwi3910/SlabNest/internal/model"
)

// buildTestDocument nests a realistic two-material kitchen: a mitred island
// that needs strips, a run longer than the slab that gets a join, and in the
// second material a fixed-orientation piece too big to cut at all.
func buildTestDocument(t *testing.T) Document {
	t.Helper()

	island := model.NewPiece("island", "Island", 2400, 900)
	island.Thickness = 40
	island.FinishedEdges = model.FinishedEdges{Top: true, Left: true}
	island.EdgeTypeNames = model.EdgeTypeNames{Top: "40mm Mitre", Left: "40mm Mitre"}

	run := model.NewPiece("run", "Back Run", 4000, 600)
	run.FinishedEdges = model.FinishedEdges{Bottom: true}
	run.EdgeTypeNames = model.EdgeTypeNames{Bottom: "Pencil Round"}

	vanity := model.NewPiece("vanity", "Vanity", 1000, 550)
	huge := model.NewPiece("huge", "Feature Wall", 5000, 3000)
	huge.NoRotate = true

	base := model.OptimizationInput{SlabWidth: 3000, SlabHeight: 1400, KerfWidth: 3, AllowRotation: true}
	first, second := base, base
	first.Pieces = []model.Piece{island, run, model.NewPiece("splash", "Splash", 1200, 600)}
	second.Pieces = []model.Piece{vanity, huge}
	second.EdgeAllowanceMm = 20

	materials := []model.MaterialInput{
		{MaterialID: "Calacatta", Input: first},
		{MaterialID: "Nero Marquina", Input: second},
	}
	res, err := engine.New(model.DefaultNestSettings(), nil).OptimizeMaterials(context.Background(), materials)
	require.NoError(t, err)
	require.Equal(t, 1, res.UnplacedCount, "fixture expects the feature wall to be unplaced")

	doc := NewDocument("Smith Kitchen", materials, res)
	doc.CompanyName = "Acme Stone"
	doc.GeneratedAt = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	return doc
}

func countPlacements(doc Document) int {
	n := 0
	for _, g := range doc.Groups {
		n += len(g.Result.Placements)
	}
	return n
}

func assertFileNonTrivial(t *testing.T, path string, minSize int64) {
	t.Helper()
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), minSize)
}

// ─── Document Tests ────────────────────────────────────────

func TestNewDocument(t *testing.T) {
	doc := buildTestDocument(t)
	require.Len(t, doc.Groups, 2)
	assert.Equal(t, "Calacatta", doc.Groups[0].MaterialID)
	assert.Equal(t, 3000, doc.Groups[0].Input.SlabWidth)
	assert.Equal(t, 20, doc.Groups[1].Input.EdgeAllowanceMm)
	assert.Len(t, doc.Pieces(), 5)
	assert.Equal(t, doc.Groups[0].Result.TotalSlabs+doc.Groups[1].Result.TotalSlabs, doc.TotalSlabs())
}

func TestRoleText(t *testing.T) {
	seg := 1
	assert.Equal(t, "main", roleText(model.Placement{}))
	assert.Equal(t, "segment 2/3", roleText(model.Placement{Role: model.SegmentRole{Index: 1, Total: 3}}))
	assert.Equal(t, "mitre strip top", roleText(model.Placement{
		Role: model.StripRole{ParentID: "p", Position: model.EdgeTop, Profile: model.ProfileMitre},
	}))
	assert.Equal(t, "laminated strip left seg 2", roleText(model.Placement{
		Role: model.StripRole{ParentID: "p", Position: model.EdgeLeft, Profile: model.ProfileLaminated, SegmentIndex: &seg},
	}))
}

// ─── PDF Tests ─────────────────────────────────────────────

func TestExportPDF_CreatesFile(t *testing.T) {
	doc := buildTestDocument(t)
	path := filepath.Join(t.TempDir(), "job.pdf")

	require.NoError(t, ExportPDF(path, doc))
	assertFileNonTrivial(t, path, 1000)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF"))
}

func TestExportPDF_EmptyDocument(t *testing.T) {
	err := ExportPDF(filepath.Join(t.TempDir(), "empty.pdf"), Document{})
	assert.ErrorIs(t, err, ErrNothingToExport)
}

func TestExportPDF_InvalidPath(t *testing.T) {
	doc := buildTestDocument(t)
	err := ExportPDF(filepath.Join(t.TempDir(), "missing", "dir", "job.pdf"), doc)
	assert.Error(t, err)
}

func TestLabelFontSize(t *testing.T) {
	assert.Equal(t, 8.0, labelFontSize(100, 50))
	assert.Equal(t, 7.0, labelFontSize(100, 30))
	assert.Equal(t, 6.0, labelFontSize(10, 100))
}

// ─── Label Tests ───────────────────────────────────────────

func TestCollectLabelInfos(t *testing.T) {
	doc := buildTestDocument(t)
	labels := CollectLabelInfos(doc)
	require.Len(t, labels, countPlacements(doc))

	firstSlabs := doc.Groups[0].Result.TotalSlabs
	var sawStrip, sawSegment bool
	for _, l := range labels {
		assert.GreaterOrEqual(t, l.SlabIndex, 1)
		if l.Material == "Nero Marquina" {
			assert.Greater(t, l.SlabIndex, firstSlabs, "slab numbers continue across materials")
		}
		sawStrip = sawStrip || strings.Contains(l.Role, "strip")
		if strings.HasPrefix(l.PieceID, "island") {
			assert.Equal(t, 40, l.Thickness, "%s inherits the island thickness", l.PieceID)
		}
		sawSegment = sawSegment || strings.HasPrefix(l.Role, "segment")
	}
	assert.True(t, sawStrip)
	assert.True(t, sawSegment)
}

func TestLabelInfo_QRPayload(t *testing.T) {
	info := LabelInfo{PieceID: "island", Label: "Island", Material: "Calacatta", Role: "main",
		Width: 2400, Height: 900, SlabIndex: 1, X: 0, Y: 0}
	data, err := json.Marshal(info)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "island", decoded["id"])
	assert.Equal(t, float64(2400), decoded["width_mm"])
	assert.Equal(t, float64(1), decoded["slab"])
}

func TestExportLabels_CreatesFile(t *testing.T) {
	doc := buildTestDocument(t)
	path := filepath.Join(t.TempDir(), "labels.pdf")
	require.NoError(t, ExportLabels(path, doc))
	assertFileNonTrivial(t, path, 500)
}

func TestExportLabels_MultiplePages(t *testing.T) {
	var pieces []model.Piece
	for i := range labelsPerPage + 5 {
		pieces = append(pieces, model.NewPiece(string(rune('a'+i%26))+strings.Repeat("x", i/26), "", 300, 200))
	}
	in := model.OptimizationInput{SlabWidth: 3000, SlabHeight: 1400, KerfWidth: 3, Pieces: pieces}
	res, err := engine.New(model.DefaultNestSettings(), nil).Optimize(in)
	require.NoError(t, err)

	doc := Document{Groups: []Group{{MaterialID: "m", Input: in, Result: res}}}
	require.Len(t, CollectLabelInfos(doc), labelsPerPage+5)

	path := filepath.Join(t.TempDir(), "many.pdf")
	require.NoError(t, ExportLabels(path, doc))
	assertFileNonTrivial(t, path, 1000)
}

func TestExportLabels_PlainLabelsSmaller(t *testing.T) {
	doc := buildTestDocument(t)
	dir := t.TempDir()
	withQR := filepath.Join(dir, "qr.pdf")
	plain := filepath.Join(dir, "plain.pdf")

	require.NoError(t, ExportLabels(withQR, doc))
	doc.PlainLabels = true
	require.NoError(t, ExportLabels(plain, doc))

	qrInfo, err := os.Stat(withQR)
	require.NoError(t, err)
	plainInfo, err := os.Stat(plain)
	require.NoError(t, err)
	assert.Less(t, plainInfo.Size(), qrInfo.Size(), "QR images dominate the label file size")
}

func TestExportLabels_EmptyDocument(t *testing.T) {
	err := ExportLabels(filepath.Join(t.TempDir(), "none.pdf"), Document{})
	assert.ErrorIs(t, err, ErrNothingToExport)
}

// ─── DXF Tests ─────────────────────────────────────────────

func TestExportDXF_CreatesReadableDrawing(t *testing.T) {
	doc := buildTestDocument(t)
	path := filepath.Join(t.TempDir(), "calacatta.dxf")
	require.NoError(t, ExportDXF(path, doc.Groups[0]))

	_, err := dxf.Open(path)
	require.NoError(t, err, "written drawing must parse")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	for _, layer := range []string{LayerSlab, LayerPieces, LayerStrips, LayerText} {
		assert.Contains(t, content, layer)
	}
	assert.Contains(t, content, "SLAB 1")
	assert.Contains(t, content, "Island")
}

func TestExportDXF_EdgeAllowanceLayer(t *testing.T) {
	doc := buildTestDocument(t)
	path := filepath.Join(t.TempDir(), "nero.dxf")
	require.NoError(t, ExportDXF(path, doc.Groups[1]))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), LayerUsable)
}

func TestExportDXF_NoSlabs(t *testing.T) {
	err := ExportDXF(filepath.Join(t.TempDir(), "none.dxf"), Group{MaterialID: "m"})
	assert.ErrorIs(t, err, ErrNothingToExport)
}

// ─── XLSX Tests ────────────────────────────────────────────

func TestExportXLSX_Sheets(t *testing.T) {
	doc := buildTestDocument(t)
	path := filepath.Join(t.TempDir(), "cutlist.xlsx")
	require.NoError(t, ExportXLSX(path, doc))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetCutList, SheetSlabs, SheetStrips, SheetEdgeFinish}, f.GetSheetList())

	rows, err := f.GetRows(SheetCutList)
	require.NoError(t, err)
	require.Len(t, rows, countPlacements(doc)+1)
	assert.Equal(t, "Material", rows[0][0])
	assert.Equal(t, "Calacatta", rows[1][0])

	rows, err = f.GetRows(SheetSlabs)
	require.NoError(t, err)
	assert.Len(t, rows, doc.TotalSlabs()+1)

	rows, err = f.GetRows(SheetStrips)
	require.NoError(t, err)
	assert.Len(t, rows, doc.Groups[0].Result.LaminationSummary.TotalStrips+1)

	rows, err = f.GetRows(SheetEdgeFinish)
	require.NoError(t, err)
	require.Len(t, rows, 4, "header, two profiles and the total")
	assert.Equal(t, "40mm Mitre", rows[1][0])
	assert.Equal(t, "Pencil Round", rows[2][0])
	assert.Equal(t, "Total", rows[3][0])
}

func TestExportXLSX_EmptyDocument(t *testing.T) {
	err := ExportXLSX(filepath.Join(t.TempDir(), "none.xlsx"), Document{})
	assert.ErrorIs(t, err, ErrNothingToExport)
}

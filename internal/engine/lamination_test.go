package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/piwi3910/SlabNest/internal/model"
)

func TestClassifyProfile(t *testing.T) {
	s := model.DefaultNestSettings()
	tests := []struct {
		name string
		want model.EdgeProfile
	}{
		{"40mm Mitre", model.ProfileMitre},
		{"Mitred apron", model.ProfileMitre},
		{"miter 45", model.ProfileMitre},
		{"Laminated Pencil Round", model.ProfileLaminated},
		{"LAM square", model.ProfileLaminated},
		{"20mm lam", model.ProfileLaminated},
		{"Clamp edge", model.ProfileUnknown},
		{"Pencil Round", model.ProfileUnknown},
		{"", model.ProfileUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyProfile(tt.name, s), "profile %q", tt.name)
	}
}

func TestClassifyProfile_CustomKeywords(t *testing.T) {
	s := model.DefaultNestSettings()
	s.LaminatedKeywords = append(s.LaminatedKeywords, "build-up")
	assert.Equal(t, model.ProfileLaminated, ClassifyProfile("40mm build-up bullnose", s))
}

func thickPiece(edges model.FinishedEdges, names model.EdgeTypeNames) model.Piece {
	p := model.NewPiece("P", "Bench", 1200, 600)
	p.Thickness = 40
	p.FinishedEdges = edges
	p.EdgeTypeNames = names
	return p
}

func TestLaminationStrips_BelowThreshold(t *testing.T) {
	opt := New(model.DefaultNestSettings(), zaptest.NewLogger(t))
	p := thickPiece(model.FinishedEdges{Top: true}, model.EdgeTypeNames{Top: "Mitre"})
	p.Thickness = 30
	in := standardInput(true, p)

	body := opt.splitPiece(p, in, true).rects
	res := opt.laminationStrips(p, body, in)
	assert.Empty(t, res.rects)
	assert.Empty(t, res.warnings)
}

func TestLaminationStrips_WidthsAndKerfs(t *testing.T) {
	opt := New(model.DefaultNestSettings(), zaptest.NewLogger(t))
	p := thickPiece(
		model.FinishedEdges{Top: true, Left: true},
		model.EdgeTypeNames{Top: "40mm Mitre", Left: "Laminated Square"},
	)
	mk := 6
	in := standardInput(true, p)
	in.MitreKerfWidth = &mk

	body := opt.splitPiece(p, in, true).rects
	res := opt.laminationStrips(p, body, in)
	require.Len(t, res.rects, 2)

	top := res.rects[0]
	assert.Equal(t, "P-lam-top", top.PieceID)
	assert.Equal(t, 1200, top.Width)
	assert.Equal(t, 60, top.Height)
	assert.Equal(t, 6, top.Kerf)

	left := res.rects[1]
	assert.Equal(t, "P-lam-left", left.PieceID)
	assert.Equal(t, 40, left.Width)
	assert.Equal(t, 600, left.Height)
	assert.Equal(t, 3, left.Kerf)

	require.Len(t, res.records, 2)
	assert.Equal(t, 1200, res.records[0].Length)
	assert.Equal(t, 60, res.records[0].Width)
	assert.Equal(t, 600, res.records[1].Length)
	assert.Equal(t, 40, res.records[1].Width)
}

func TestLaminationStrips_UnrecognisedProfileWarns(t *testing.T) {
	opt := New(model.DefaultNestSettings(), zaptest.NewLogger(t))
	p := thickPiece(
		model.FinishedEdges{Top: true, Bottom: true},
		model.EdgeTypeNames{Top: "Pencil Round"},
	)
	in := standardInput(true, p)

	res := opt.laminationStrips(p, opt.splitPiece(p, in, true).rects, in)
	assert.Empty(t, res.rects)
	require.Len(t, res.warnings, 2)
	assert.Contains(t, res.warnings[0], "top edge")
	assert.Contains(t, res.warnings[0], "Pencil Round")
	assert.Contains(t, res.warnings[1], "bottom edge")
}

func TestLaminationStrips_SplitPieceStripsFollowSegments(t *testing.T) {
	opt := New(model.DefaultNestSettings(), zaptest.NewLogger(t))
	p := model.NewPiece("L", "Run", 4000, 600)
	p.Thickness = 60
	p.FinishedEdges = model.FinishedEdges{Top: true, Left: true, Right: true}
	p.EdgeTypeNames = model.EdgeTypeNames{Top: "Laminated", Left: "Laminated", Right: "Laminated"}
	in := standardInput(true, p)

	body := opt.splitPiece(p, in, true).rects
	require.Len(t, body, 2)
	res := opt.laminationStrips(p, body, in)
	require.Len(t, res.rects, 4)

	topLength := 0
	for _, r := range res.rects {
		role := r.Role.(model.StripRole)
		require.NotNil(t, role.SegmentIndex)
		switch role.Position {
		case model.EdgeTop:
			topLength += r.Width
		case model.EdgeLeft:
			assert.Equal(t, 0, *role.SegmentIndex)
			assert.Equal(t, "L-lam-left-s1", r.PieceID)
		case model.EdgeRight:
			assert.Equal(t, 1, *role.SegmentIndex)
			assert.Equal(t, "L-lam-right-s2", r.PieceID)
		}
	}
	assert.Equal(t, 4000, topLength, "top strips cover the whole edge")
}

func TestSummarizeStrips(t *testing.T) {
	assert.Nil(t, summarizeStrips(nil))

	s := summarizeStrips([]model.ParentStrips{
		{ParentPieceID: "a", Strips: []model.StripRecord{{Length: 1000, Width: 40}, {Length: 600, Width: 40}}},
		{ParentPieceID: "b", Strips: []model.StripRecord{{Length: 1200, Width: 60}}},
	})
	assert.Equal(t, 3, s.TotalStrips)
	assert.Equal(t, 1000*40+600*40+1200*60, s.TotalStripArea)
	assert.Len(t, s.StripsByParent, 2)
}

package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlacementJSON_StripFlattened(t *testing.T) {
	seg := 1
	p := Placement{
		PieceID:   "p1-lam-top-s1",
		SlabIndex: 0,
		X:         10, Y: 20, Width: 1200, Height: 60,
		Label: "Island top strip",
		Kerf:  4,
		Role: StripRole{
			ParentID:     "p1",
			Position:     EdgeTop,
			Profile:      ProfileMitre,
			SegmentIndex: &seg,
		},
	}

	data, err := json.Marshal(p)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "LAMINATION_STRIP", raw["role"])
	assert.Equal(t, true, raw["isLaminationStrip"])
	assert.Equal(t, "p1", raw["parentPieceId"])
	assert.Equal(t, "top", raw["stripPosition"])
	assert.Equal(t, "mitre", raw["stripProfile"])
	assert.NotContains(t, raw, "isSegment")

	var back Placement
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, p, back)
	assert.True(t, back.IsStrip())
	assert.Equal(t, "p1", back.Origin())
}

func TestPlacementJSON_SegmentFlattened(t *testing.T) {
	p := Placement{
		PieceID: "bench", Width: 2000, Height: 600, Kerf: 3,
		Role: SegmentRole{Index: 1, Total: 2, Col: 1, Cols: 2, Rows: 1, OffsetX: 2000},
	}
	data, err := json.Marshal(p)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, true, raw["isSegment"])
	assert.EqualValues(t, 1, raw["segmentIndex"])
	assert.EqualValues(t, 2, raw["totalSegments"])
	assert.NotContains(t, raw, "parentPieceId")

	var back Placement
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, p, back)
}

func TestPlacementJSON_InvalidStrip(t *testing.T) {
	var p Placement
	err := json.Unmarshal([]byte(`{"pieceId":"x","role":"LAMINATION_STRIP"}`), &p)
	assert.Error(t, err)
}

func TestPlacementKerfRect(t *testing.T) {
	p := Placement{X: 5, Y: 5, Width: 100, Height: 50, Kerf: 3}
	assert.Equal(t, Rect{X: 5, Y: 5, Width: 103, Height: 53}, p.KerfRect())
	assert.Equal(t, 5000, p.Area())
	assert.Equal(t, "MAIN", RoleOf(p.Role).Kind().String())
}

package engine

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/piwi3910/SlabNest/internal/model"
)

func TestOptimizeMaterials_WeightedWaste(t *testing.T) {
	defer goleak.VerifyNone(t)
	opt := New(model.DefaultNestSettings(), zaptest.NewLogger(t))

	inputs := []model.MaterialInput{
		{MaterialID: "calacatta", Input: standardInput(false, model.NewPiece("A", "", 1000, 500))},
		{MaterialID: "basalt", Input: model.OptimizationInput{
			Pieces:    []model.Piece{model.NewPiece("A", "", 1000, 1000)},
			SlabWidth: 1000, SlabHeight: 1000,
		}},
	}

	res, err := opt.OptimizeMaterials(context.Background(), inputs)
	require.NoError(t, err)

	require.Len(t, res.Groups, 2)
	assert.Equal(t, "calacatta", res.Groups[0].MaterialID)
	assert.Equal(t, "basalt", res.Groups[1].MaterialID)
	assert.Equal(t, 2, res.TotalSlabs)
	assert.Equal(t, 1500000, res.TotalUsedArea)
	assert.Equal(t, 3700000, res.TotalWasteArea)
	assert.InDelta(t, 3700000.0/5200000.0*100, res.WastePercent, 1e-9)
	assert.Equal(t, 0, res.UnplacedCount)

	// Each group numbers its own slabs from zero.
	for _, g := range res.Groups {
		assert.Equal(t, 0, g.Result.Slabs[0].SlabIndex)
	}
	basalt, ok := res.Group("basalt")
	require.True(t, ok)
	assert.Equal(t, 0.0, basalt.WastePercent)
}

func TestOptimizeMaterials_ManyGroupsMatchSequential(t *testing.T) {
	defer goleak.VerifyNone(t)
	settings := model.DefaultNestSettings()
	settings.Workers = 3
	opt := New(settings, zaptest.NewLogger(t))

	var inputs []model.MaterialInput
	for g := range 10 {
		var pieces []model.Piece
		for i := range 12 {
			pieces = append(pieces, model.NewPiece(fmt.Sprintf("p%d", i), "", 400+g*37+i*11, 300+i*23))
		}
		inputs = append(inputs, model.MaterialInput{
			MaterialID: fmt.Sprintf("m%d", g),
			Input:      standardInput(true, pieces...),
		})
	}

	res, err := opt.OptimizeMaterials(context.Background(), inputs)
	require.NoError(t, err)
	require.Len(t, res.Groups, len(inputs))

	for i, in := range inputs {
		want, err := opt.Optimize(in.Input)
		require.NoError(t, err)
		assert.Equal(t, in.MaterialID, res.Groups[i].MaterialID)
		assert.Equal(t, want, res.Groups[i].Result)
	}
}

func TestOptimizeMaterials_InvalidGroupFails(t *testing.T) {
	defer goleak.VerifyNone(t)
	opt := New(model.DefaultNestSettings(), zaptest.NewLogger(t))

	bad := standardInput(true, model.NewPiece("x", "", 0, 100))
	_, err := opt.OptimizeMaterials(context.Background(), []model.MaterialInput{
		{MaterialID: "good", Input: standardInput(true, model.NewPiece("a", "", 100, 100))},
		{MaterialID: "bad", Input: bad},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), `material "bad"`)
}

func TestOptimizeMaterials_MaterialIDs(t *testing.T) {
	opt := New(model.DefaultNestSettings(), nil)
	in := standardInput(true)

	_, err := opt.OptimizeMaterials(context.Background(), []model.MaterialInput{{Input: in}})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = opt.OptimizeMaterials(context.Background(), []model.MaterialInput{
		{MaterialID: "a", Input: in}, {MaterialID: "a", Input: in},
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestOptimizeMaterials_CancelledContext(t *testing.T) {
	defer goleak.VerifyNone(t)
	opt := New(model.DefaultNestSettings(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := opt.OptimizeMaterials(ctx, []model.MaterialInput{
		{MaterialID: "a", Input: standardInput(true, model.NewPiece("a", "", 100, 100))},
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOptimizeMaterials_Empty(t *testing.T) {
	res, err := New(model.DefaultNestSettings(), nil).OptimizeMaterials(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, res.Groups)
	assert.Equal(t, 0.0, res.WastePercent)
}

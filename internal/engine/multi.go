package engine

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/piwi3910/SlabNest/internal/model"
)

// OptimizeMaterials nests each material group independently and reports the
// groups in input order with overall totals. Groups run concurrently on at
// most Settings.Workers goroutines; each group gets its own slabs numbered
// from zero. The first failing group cancels the rest.
func (o *Optimizer) OptimizeMaterials(ctx context.Context, inputs []model.MaterialInput) (model.MultiMaterialResult, error) {
	seen := make(map[string]bool, len(inputs))
	for i, mi := range inputs {
		if mi.MaterialID == "" {
			return model.MultiMaterialResult{}, invalid("material group %d has no id", i+1)
		}
		if seen[mi.MaterialID] {
			return model.MultiMaterialResult{}, invalid("duplicate material id %q", mi.MaterialID)
		}
		seen[mi.MaterialID] = true
	}

	results := make([]model.OptimizationResult, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	workers := o.Settings.Workers
	if workers <= 0 {
		workers = len(inputs)
	}
	if workers > 0 {
		g.SetLimit(workers)
	}

	for i, mi := range inputs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := o.Optimize(mi.Input)
			if err != nil {
				return fmt.Errorf("material %q: %w", mi.MaterialID, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return model.MultiMaterialResult{}, err
	}

	out := model.MultiMaterialResult{Groups: make([]model.MaterialGroupResult, len(inputs))}
	for i, mi := range inputs {
		res := results[i]
		out.Groups[i] = model.MaterialGroupResult{MaterialID: mi.MaterialID, Result: res}
		out.TotalSlabs += res.TotalSlabs
		out.TotalUsedArea += res.TotalUsedArea
		out.TotalWasteArea += res.TotalWasteArea
		out.UnplacedCount += len(res.UnplacedPieces)
	}
	out.WastePercent = model.WastePercentOf(out.TotalUsedArea, out.TotalWasteArea)

	o.logger.Debug("multi-material optimization complete",
		zap.Int("groups", len(inputs)),
		zap.Int("workers", workers),
		zap.Int("slabs", out.TotalSlabs),
		zap.Float64("waste_percent", out.WastePercent),
	)
	return out, nil
}

package engine

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/piwi3910/SlabNest/internal/model"
)

// ComparisonScenario is a named what-if run: shop settings plus the request
// to nest with them.
type ComparisonScenario struct {
	Name     string
	Settings model.NestSettings
	Input    model.OptimizationInput
}

// ComparisonResult holds the optimization result and computed statistics
// for a single scenario.
type ComparisonResult struct {
	Scenario      ComparisonScenario
	Result        model.OptimizationResult
	SlabsUsed     int
	Placements    int
	Splits        int
	Strips        int
	WastePercent  float64
	UnplacedCount int
}

// CompareScenarios runs optimization for each scenario and returns the results
// in scenario order. An invalid scenario aborts the comparison.
func CompareScenarios(scenarios []ComparisonScenario, logger *zap.Logger) ([]ComparisonResult, error) {
	results := make([]ComparisonResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		opt := New(scenario.Settings, logger)
		result, err := opt.Optimize(scenario.Input)
		if err != nil {
			return nil, fmt.Errorf("scenario %q: %w", scenario.Name, err)
		}

		strips := 0
		if result.LaminationSummary != nil {
			strips = result.LaminationSummary.TotalStrips
		}

		results = append(results, ComparisonResult{
			Scenario:      scenario,
			Result:        result,
			SlabsUsed:     result.TotalSlabs,
			Placements:    len(result.Placements),
			Splits:        len(result.Splits),
			Strips:        strips,
			WastePercent:  result.WastePercent,
			UnplacedCount: len(result.UnplacedPieces),
		})
	}

	return results, nil
}

// BuildDefaultScenarios generates a set of comparison scenarios based on
// the current request, varying key parameters to show what-if alternatives.
func BuildDefaultScenarios(settings model.NestSettings, in model.OptimizationInput) []ComparisonScenario {
	scenarios := []ComparisonScenario{
		{
			Name:     "Current Settings",
			Settings: settings,
			Input:    in,
		},
	}

	// Scenario: let every piece turn (ignores veining constraints)
	if !in.AllowRotation {
		rotate := in
		rotate.AllowRotation = true
		scenarios = append(scenarios, ComparisonScenario{
			Name:     "Rotation Allowed",
			Settings: settings,
			Input:    rotate,
		})
	}

	// Scenario: Tighter kerf (simulate thinner blade)
	if in.KerfWidth > 1 {
		tight := in
		tight.KerfWidth = in.KerfWidth / 2
		scenarios = append(scenarios, ComparisonScenario{
			Name:     fmt.Sprintf("Kerf %dmm (half)", tight.KerfWidth),
			Settings: settings,
			Input:    tight,
		})
	}

	// Scenario: No edge allowance
	if in.EdgeAllowanceMm > 0 {
		noTrim := in
		noTrim.EdgeAllowanceMm = 0
		scenarios = append(scenarios, ComparisonScenario{
			Name:     "No Edge Allowance",
			Settings: settings,
			Input:    noTrim,
		})
	}

	// Scenario: allow cross joints on every piece
	if settings.GridSplit != model.GridSplitAlways {
		grid := settings
		grid.GridSplit = model.GridSplitAlways
		scenarios = append(scenarios, ComparisonScenario{
			Name:     "Cross Joints Allowed",
			Settings: grid,
			Input:    in,
		})
	}

	return scenarios
}

package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/piwi3910/SlabNest/internal/engine"
	"github.com/piwi3910/SlabNest/internal/model"
)

func newCompareCmd(a *app) *cobra.Command {
	var (
		in       inputFlags
		material string
	)

	cmd := &cobra.Command{
		Use:   "compare <pieces.csv|pieces.xlsx|request.json>",
		Short: "Compare slab usage under alternative settings",
		Long: `Run one material's pieces under the current settings and a set of
what-if variations (rotation, thinner blade, no edge allowance, cross joints).`,
		Args: requireArgs(1, "an input file"),
		RunE: func(cmd *cobra.Command, args []string) error {
			materials, _, err := a.loadMaterials(cmd, args[0], &in)
			if err != nil {
				return err
			}
			group, err := pickMaterial(materials, material)
			if err != nil {
				return err
			}

			scenarios := engine.BuildDefaultScenarios(a.cfg.NestSettings(), group.Input)
			results, err := engine.CompareScenarios(scenarios, a.logger)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Material %s, %d piece(s)\n\n", group.MaterialID, len(group.Input.Pieces))
			tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "SCENARIO\tSLABS\tWASTE\tPLACED\tSPLITS\tSTRIPS\tUNPLACED")
			for _, r := range results {
				fmt.Fprintf(tw, "%s\t%d\t%.1f%%\t%d\t%d\t%d\t%d\n",
					r.Scenario.Name, r.SlabsUsed, r.WastePercent, r.Placements,
					r.Splits, r.Strips, r.UnplacedCount)
			}
			return tw.Flush()
		},
	}

	in.register(cmd)
	cmd.Flags().StringVar(&material, "only", "", "material to compare when the input has several")
	return cmd
}

// pickMaterial selects one group; with no name the input must hold exactly one.
func pickMaterial(materials []model.MaterialInput, name string) (model.MaterialInput, error) {
	if name == "" {
		if len(materials) != 1 {
			return model.MaterialInput{}, fmt.Errorf("input has %d materials; choose one with --only", len(materials))
		}
		return materials[0], nil
	}
	for _, m := range materials {
		if m.MaterialID == name {
			return m, nil
		}
	}
	return model.MaterialInput{}, fmt.Errorf("material %q not found in input", name)
}

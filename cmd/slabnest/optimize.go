package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/piwi3910/SlabNest/internal/project"
)

func newOptimizeCmd(a *app) *cobra.Command {
	var (
		in      inputFlags
		out     exportFlags
		asJSON  bool
		outFile string
		save    string
	)

	cmd := &cobra.Command{
		Use:   "optimize <pieces.csv|pieces.xlsx|request.json>",
		Short: "Nest a piece list onto slabs",
		Long: `Nest every piece of the input onto as few slabs as possible. Pieces are
grouped by material and each material is nested on its own slabs.`,
		Args: requireArgs(1, "an input file"),
		RunE: func(cmd *cobra.Command, args []string) error {
			materials, name, err := a.loadMaterials(cmd, args[0], &in)
			if err != nil {
				return err
			}

			res, err := a.optimizer().OptimizeMaterials(cmd.Context(), materials)
			if err != nil {
				return err
			}
			a.logger.Info("optimization finished",
				zap.Int("materials", len(res.Groups)),
				zap.Int("slabs", res.TotalSlabs),
				zap.Int("unplaced", res.UnplacedCount))

			if outFile != "" {
				f, err := os.Create(outFile)
				if err != nil {
					return fmt.Errorf("create %s: %w", outFile, err)
				}
				err = writeJSON(f, res)
				if cerr := f.Close(); err == nil {
					err = cerr
				}
				if err != nil {
					return fmt.Errorf("write %s: %w", outFile, err)
				}
			}
			if asJSON {
				if err := writeJSON(cmd.OutOrStdout(), res); err != nil {
					return err
				}
			} else {
				printResult(cmd.OutOrStdout(), materials, res)
			}

			if out.any() {
				if _, err := out.write(a.document(name, materials, res), a.logger); err != nil {
					return err
				}
			}

			if save != "" {
				store, err := a.store()
				if err != nil {
					return err
				}
				job := project.NewJob(save, a.cfg.NestSettings(), materials)
				job.Result = &res
				job, err = store.Save(job)
				if err != nil {
					return err
				}
				if !asJSON {
					fmt.Fprintf(cmd.OutOrStdout(), "saved job %s\n", job.ID)
				}
			}
			return nil
		},
	}

	in.register(cmd)
	out.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	cmd.Flags().StringVarP(&outFile, "output", "o", "", "also write the JSON result to this file")
	cmd.Flags().StringVar(&save, "save", "", "save the job under this name")
	return cmd
}

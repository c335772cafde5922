package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func newExportCmd(a *app) *cobra.Command {
	var out exportFlags

	cmd := &cobra.Command{
		Use:   "export <job-id>",
		Short: "Write shop documents for a saved job",
		Long: `Write PDF slab sheets, QR labels, an XLSX cut list or DXF layouts for a
saved job. A job saved without a result is optimized first and saved again.`,
		Args: requireArgs(1, "a job id"),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !out.any() {
				return errors.New("nothing to export: pass --pdf, --labels, --xlsx or --dxf-dir")
			}
			store, err := a.store()
			if err != nil {
				return err
			}
			job, err := store.Load(args[0])
			if err != nil {
				return err
			}

			if job.Result == nil {
				res, err := a.optimizer().OptimizeMaterials(cmd.Context(), job.Materials)
				if err != nil {
					return err
				}
				job.Result = &res
				if job, err = store.Save(job); err != nil {
					return err
				}
			}

			written, err := out.write(a.document(job.Name, job.Materials, *job.Result), a.logger)
			for _, p := range written {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return err
		},
	}
	out.register(cmd)
	return cmd
}

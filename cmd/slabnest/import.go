package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/piwi3910/SlabNest/internal/project"
)

func newImportCmd(a *app) *cobra.Command {
	var (
		in     inputFlags
		asJSON bool
		save   string
	)

	cmd := &cobra.Command{
		Use:   "import <pieces.csv|pieces.xlsx>",
		Short: "Check a piece list and optionally save it as a job",
		Args:  requireArgs(1, "a piece list"),
		RunE: func(cmd *cobra.Command, args []string) error {
			materials, name, err := a.loadMaterials(cmd, args[0], &in)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if asJSON {
				if err := writeJSON(w, materials); err != nil {
					return err
				}
			} else {
				tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "MATERIAL\tID\tLABEL\tSIZE\tTHICK\tEDGES\tROTATE")
				for _, m := range materials {
					for _, p := range m.Input.Pieces {
						fmt.Fprintf(tw, "%s\t%s\t%s\t%dx%d\t%d\t%s\t%t\n",
							m.MaterialID, p.ID, p.DisplayLabel(), p.Width, p.Height,
							p.Thickness, p.FinishedEdges, p.Rotatable())
					}
				}
				tw.Flush()
			}

			if save != "" {
				if save == "-" {
					save = name
				}
				store, err := a.store()
				if err != nil {
					return err
				}
				job, err := store.Save(project.NewJob(save, a.cfg.NestSettings(), materials))
				if err != nil {
					return err
				}
				if !asJSON {
					fmt.Fprintf(w, "saved job %s\n", job.ID)
				}
			}
			return nil
		},
	}

	in.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the material groups as JSON")
	cmd.Flags().StringVar(&save, "save", "", `save as a job under this name ("-" uses the file name)`)
	return cmd
}

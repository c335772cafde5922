package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/piwi3910/SlabNest/internal/project"
)

func newJobsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Manage saved jobs",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List saved jobs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.store()
			if err != nil {
				return err
			}
			jobs, err := store.List()
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tUPDATED\tMATERIALS\tPIECES\tSLABS")
			for _, j := range jobs {
				slabs := "-"
				if j.Slabs > 0 {
					slabs = fmt.Sprint(j.Slabs)
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%s\n",
					j.ID, j.Name, j.UpdatedAt.Local().Format("2006-01-02 15:04"), j.Materials, j.Pieces, slabs)
			}
			return tw.Flush()
		},
	}

	show := &cobra.Command{
		Use:   "show <job-id>",
		Short: "Print a saved job as JSON",
		Args:  requireArgs(1, "a job id"),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.store()
			if err != nil {
				return err
			}
			job, err := store.Load(args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), job)
		},
	}

	del := &cobra.Command{
		Use:   "delete <job-id>",
		Short: "Delete a saved job",
		Args:  requireArgs(1, "a job id"),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.store()
			if err != nil {
				return err
			}
			if err := store.Delete(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted job %s\n", args[0])
			return nil
		},
	}

	backup := &cobra.Command{
		Use:   "backup <file>",
		Short: "Write every saved job to one archive file",
		Args:  requireArgs(1, "an archive path"),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.store()
			if err != nil {
				return err
			}
			n, err := store.ExportAllData(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "backed up %d job(s) to %s\n", n, args[0])
			return nil
		},
	}

	restore := &cobra.Command{
		Use:   "restore <file>",
		Short: "Restore jobs from an archive file",
		Args:  requireArgs(1, "an archive path"),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.store()
			if err != nil {
				return err
			}
			backup, err := project.ImportAllData(args[0])
			if err != nil {
				return err
			}
			n, err := store.Restore(backup)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "restored %d job(s)\n", n)
			return nil
		},
	}

	cmd.AddCommand(list, show, del, backup, restore)
	return cmd
}

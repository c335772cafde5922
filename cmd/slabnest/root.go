package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/piwi3910/SlabNest/internal/config"
	"github.com/piwi3910/SlabNest/internal/engine"
	"github.com/piwi3910/SlabNest/internal/observability"
	"github.com/piwi3910/SlabNest/internal/project"
)

// app carries what every subcommand needs once configuration is loaded.
type app struct {
	cfgFile string
	cfg     *config.Config
	logger  *zap.Logger
}

func (a *app) optimizer() *engine.Optimizer {
	return engine.New(a.cfg.NestSettings(), a.logger)
}

func (a *app) store() (*project.Store, error) {
	dir, err := a.cfg.JobDir()
	if err != nil {
		return nil, err
	}
	return project.NewStore(dir), nil
}

// newRootCmd builds the command tree. Each call returns an independent tree
// so tests can execute commands in isolation.
func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "slabnest",
		Short: "SlabNest nests stone benchtop pieces onto slabs.",
		Long: `SlabNest lays out benchtops, splashbacks and lamination strips on stone
slabs, splitting oversize pieces at joins and reporting slab count and waste.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.cfgFile)
			if err != nil {
				return err
			}
			a.cfg = cfg
			observability.InitializeLogger(cfg.Logger)
			a.logger = observability.GetLogger()
			a.logger.Debug("configuration loaded",
				zap.String("version", Version),
				zap.String("grid_split", cfg.Nesting.GridSplit),
				zap.Int("workers", cfg.Engine.Workers))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			observability.Sync()
		},
	}

	root.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "", "config file (default ./slabnest.yaml or ~/.slabnest/config.yaml)")
	root.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	root.AddCommand(
		newOptimizeCmd(a),
		newImportCmd(a),
		newCompareCmd(a),
		newExportCmd(a),
		newJobsCmd(a),
		newVersionCmd(),
	)
	return root
}

// requireArgs wraps cobra.ExactArgs with a friendlier message.
func requireArgs(n int, what string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return fmt.Errorf("%s requires %s", cmd.CommandPath(), what)
		}
		return nil
	}
}

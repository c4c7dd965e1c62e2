package main

import (
	"github.com/spf13/cobra"

	"github.com/toyz/ifacegen/internal/cli"
)

func (a *app) cleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean [directory...]",
		Short: "Delete generated interface files",
		Long: "Removes *.g.<extension> files whose first line is the auto-generated marker.\n" +
			"A directory ending in /... is cleaned recursively. Without arguments the\n" +
			"configured output directory is cleaned.",
		Example: "  ifacegen clean\n  ifacegen clean ./src/...",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{a.cfg.Generation.OutputDir}
			}

			a.diagnostics.Section("ifacegen: cleaning generated files")
			a.diagnostics.Indent()
			removed, err := cli.NewCleaner(a.cfg.Generation.Extension, a.logger).CleanGeneratedFiles(args)
			for _, path := range removed {
				a.diagnostics.FileWritten("Removed", path)
			}
			a.diagnostics.Unindent()
			if err != nil {
				return err
			}

			a.diagnostics.Success("Removed %d generated file(s)", len(removed))
			return nil
		},
	}
}

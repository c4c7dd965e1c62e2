package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/toyz/ifacegen/internal/cli"
)

func (a *app) generateCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "generate <manifest...>",
		Short: "Generate one interface file per class in the manifests",
		Long: "All manifests given to one invocation form a single generation unit: a class in\n" +
			"one manifest is rewritten to its interface wherever another manifest refers to it.",
		Example: "  ifacegen generate classes.yaml\n" +
			"  ifacegen generate -o Generated models.yaml services.yaml\n" +
			"  ifacegen generate --dry-run --verbose classes.yaml",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			generator, err := cli.NewGenerator(cli.OptionsFromConfig(a.cfg.Generation), a.logger, a.diagnostics)
			if err != nil {
				return err
			}

			a.diagnostics.Section("ifacegen: generating interfaces")
			a.diagnostics.Indent()
			err = generator.Generate(cmd.Context(), cli.Config{
				Manifests: args,
				DryRun:    dryRun,
				Verbose:   a.verbose,
			}, a.cfg.Generation.OutputDir)
			a.diagnostics.Unindent()
			if err != nil {
				return err
			}

			summary := generator.GetSummary()
			a.diagnostics.Summary("Generation complete", map[string]interface{}{
				"pass":            summary.Pass,
				"manifests":       summary.ManifestsProcessed,
				"interfaces":      summary.InterfacesGenerated,
				"written":         len(summary.GeneratedFiles),
				"unchanged":       len(summary.UnchangedFiles),
				"skipped members": summary.MembersSkipped,
				"elapsed":         summary.Duration.Round(time.Millisecond),
			})
			return nil
		},
	}

	cmd.Flags().StringP("output", "o", "", "output directory (overrides generation.output_dir)")
	cmd.Flags().Int("workers", 0, "classes projected in parallel (overrides generation.workers)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "render every interface but write nothing")
	a.bindFlag(cmd, "generation.output_dir", "output")
	a.bindFlag(cmd, "generation.workers", "workers")
	return cmd
}

package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/toyz/ifacegen/internal/errors"
	"github.com/toyz/ifacegen/internal/manifest"
	"github.com/toyz/ifacegen/internal/models"
	"github.com/toyz/ifacegen/internal/projector"
	"github.com/toyz/ifacegen/internal/rewriter"
	"github.com/toyz/ifacegen/internal/templates"
	"github.com/toyz/ifacegen/internal/utils"
)

// Generator coordinates generation passes
type Generator struct {
	opts        Options
	renderer    *templates.Renderer
	logger      *zap.Logger
	diagnostics *utils.DiagnosticSystem
	summary     GenerationSummary
}

// PassResult is the outcome of one generation pass
type PassResult struct {
	ID             uuid.UUID
	Units          []*models.GeneratedUnit // in manifest class order
	SkippedMembers int
}

// GenerationSummary contains information about a completed CLI run
type GenerationSummary struct {
	Pass                string
	ManifestsProcessed  int
	InterfacesGenerated int
	MembersSkipped      int
	GeneratedFiles      []string
	UnchangedFiles      []string
	Duration            time.Duration
}

// NewGenerator creates a generator. A nil logger or diagnostics disables that output.
func NewGenerator(opts Options, logger *zap.Logger, diagnostics *utils.DiagnosticSystem) (*Generator, error) {
	renderer, err := templates.NewRenderer(opts.Templates)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if diagnostics == nil {
		diagnostics = utils.NewDiagnosticSystem(utils.DiagnosticSilent)
	}

	return &Generator{
		opts:        opts,
		renderer:    renderer,
		logger:      logger.Named("generator"),
		diagnostics: diagnostics,
	}, nil
}

// GetSummary returns the summary of the last Generate call
func (g *Generator) GetSummary() GenerationSummary {
	return g.summary
}

// Pass runs one generation pass over manifests. The interface name map is built once
// and shared read-only by every projection; classes are projected concurrently and
// the first failure cancels the rest.
func (g *Generator) Pass(ctx context.Context, manifests ...*manifest.Manifest) (*PassResult, error) {
	id := uuid.New()
	logger := g.logger.With(zap.String("pass", id.String()))
	start := time.Now()

	unit, err := manifest.NewResolver(logger, g.opts.Manifest).Resolve(manifests...)
	if err != nil {
		return nil, err
	}

	proj := projector.New(rewriter.New(unit.Names), g.opts.Projector)
	units := make([]*models.GeneratedUnit, len(unit.Classes))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(g.workers())
	for i, class := range unit.Classes {
		i, class := i, class
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}

			spec, err := proj.Project(class)
			if err != nil {
				return err
			}
			generated, err := g.renderer.Unit(spec)
			if err != nil {
				return err
			}

			logger.Debug("interface projected",
				zap.String("class", class.DisplayName()),
				zap.String("interface", generated.InterfaceName),
				zap.Int("members", len(spec.Members)))
			units[i] = generated
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		logger.Warn("pass failed", zap.Error(err))
		return nil, err
	}

	if err := checkHintNames(units); err != nil {
		return nil, err
	}

	logger.Info("pass finished",
		zap.Int("interfaces", len(units)),
		zap.Int("skipped_members", unit.Skipped),
		zap.Duration("elapsed", time.Since(start)))
	return &PassResult{ID: id, Units: units, SkippedMembers: unit.Skipped}, nil
}

// Generate loads cfg.Manifests as one unit, runs a pass and writes the generated
// files to outputDir unless cfg.OutputDir overrides it.
func (g *Generator) Generate(ctx context.Context, cfg Config, outputDir string) error {
	start := time.Now()
	g.summary = GenerationSummary{}

	if len(cfg.Manifests) == 0 {
		return errors.NewValidationError("manifests", cfg.Manifests, "at least one manifest is required").
			WithSuggestion("Pass one or more manifest files, e.g. 'ifacegen generate classes.yaml'")
	}
	if cfg.OutputDir != "" {
		outputDir = cfg.OutputDir
	}

	manifests, err := g.loadManifests(cfg.Manifests)
	if err != nil {
		return err
	}
	g.summary.ManifestsProcessed = len(manifests)
	g.diagnostics.PhaseItem("Loaded %d manifest(s)", len(manifests))

	result, err := g.Pass(ctx, manifests...)
	if err != nil {
		return err
	}
	g.summary.Pass = result.ID.String()
	g.summary.InterfacesGenerated = len(result.Units)
	g.summary.MembersSkipped = result.SkippedMembers
	g.diagnostics.PhaseItem("Projected %d interface(s)", len(result.Units))
	g.diagnostics.Verbose("Pass %s skipped %d ineligible member(s)", result.ID, result.SkippedMembers)

	if cfg.DryRun {
		for _, unit := range result.Units {
			path := filepath.Join(outputDir, unit.HintName)
			g.summary.GeneratedFiles = append(g.summary.GeneratedFiles, path)
			g.diagnostics.FileWritten("Would write", path)
		}
		g.summary.Duration = time.Since(start)
		return nil
	}

	writer := NewWriter(outputDir, g.logger.With(zap.String("pass", result.ID.String())))
	for _, unit := range result.Units {
		if err := ctx.Err(); err != nil {
			return err
		}

		path, changed, err := writer.Write(unit)
		if err != nil {
			return err
		}
		if changed {
			g.summary.GeneratedFiles = append(g.summary.GeneratedFiles, path)
			g.diagnostics.FileWritten("Wrote", path)
		} else {
			g.summary.UnchangedFiles = append(g.summary.UnchangedFiles, path)
			g.diagnostics.Verbose("Unchanged %s", path)
		}
	}

	g.summary.Duration = time.Since(start)
	return nil
}

func (g *Generator) loadManifests(paths []string) ([]*manifest.Manifest, error) {
	var errs *errors.MultipleErrors
	manifests := make([]*manifest.Manifest, 0, len(paths))

	for _, path := range paths {
		g.diagnostics.Debug("Loading manifest %s", path)
		m, err := manifest.Load(path)
		if err != nil {
			var ifaceErr errors.IfaceError
			if !errors.As(err, &ifaceErr) {
				ifaceErr = errors.WrapManifestError(path, "load", err)
			}
			errors.AddToMultiple(&errs, ifaceErr)
			continue
		}
		manifests = append(manifests, m)
	}

	if errs != nil {
		return nil, errs.ErrOrNil()
	}
	return manifests, nil
}

func (g *Generator) workers() int {
	if g.opts.Workers > 0 {
		return g.opts.Workers
	}
	return runtime.NumCPU()
}

// checkHintNames rejects two classes that would be written to the same file
func checkHintNames(units []*models.GeneratedUnit) error {
	seen := make(map[string]string, len(units))
	for _, unit := range units {
		if prev, dup := seen[unit.HintName]; dup {
			return errors.New(errors.GenerationErrorCode,
				fmt.Sprintf("classes %s and %s both generate %s", prev, unit.SourceClass, unit.HintName)).
				WithContext("file", unit.HintName).
				WithSuggestion("Opt one of the classes out with 'generate: false' or rename it")
		}
		seen[unit.HintName] = unit.SourceClass
	}
	return nil
}

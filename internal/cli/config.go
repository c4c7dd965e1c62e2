package cli

import (
	"github.com/toyz/ifacegen/internal/config"
	"github.com/toyz/ifacegen/internal/manifest"
	"github.com/toyz/ifacegen/internal/models"
	"github.com/toyz/ifacegen/internal/projector"
	"github.com/toyz/ifacegen/internal/templates"
)

// Config holds the configuration for one CLI generation run
type Config struct {
	// Manifests is the list of manifest files forming one generation unit
	Manifests []string

	// OutputDir overrides generation.output_dir when set
	OutputDir string

	// DryRun renders every unit but writes nothing
	DryRun bool

	// Verbose enables detailed logging and error reporting
	Verbose bool
}

// Options splits the generation settings into the options of each stage
type Options struct {
	Workers   int
	Manifest  manifest.Options
	Projector projector.Options
	Templates templates.Options
}

// OptionsFromConfig maps generation settings onto stage options
func OptionsFromConfig(cfg config.GenerationConfig) Options {
	nullDefault := models.DefaultLiteralDefault
	if cfg.NullableReferenceDefault == "null" {
		nullDefault = models.DefaultLiteralNull
	}

	return Options{
		Workers: cfg.Workers,
		Manifest: manifest.Options{
			EscapeKeywords: cfg.EscapeKeywords,
			ValueTypes:     cfg.ValueTypes,
		},
		Projector: projector.Options{NullableReferenceDefault: nullDefault},
		Templates: templates.Options{
			Accessibility: cfg.Accessibility,
			Partial:       cfg.Partial,
			Extension:     cfg.Extension,
		},
	}
}

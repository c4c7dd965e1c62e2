package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/tools/txtar"

	"github.com/toyz/ifacegen/internal/config"
	"github.com/toyz/ifacegen/internal/errors"
	"github.com/toyz/ifacegen/internal/manifest"
	"github.com/toyz/ifacegen/internal/models"
	"github.com/toyz/ifacegen/internal/utils"
)

// fixture extracts the manifests of testdata/generate.txtar into a temporary
// directory and returns their paths plus the expected output files.
func fixture(t *testing.T) ([]string, map[string]string) {
	t.Helper()
	archive, err := txtar.ParseFile("testdata/generate.txtar")
	require.NoError(t, err)

	dir := t.TempDir()
	var manifests []string
	expected := make(map[string]string)
	for _, f := range archive.Files {
		switch {
		case strings.HasPrefix(f.Name, "manifest/"):
			path := filepath.Join(dir, strings.TrimPrefix(f.Name, "manifest/"))
			require.NoError(t, os.WriteFile(path, f.Data, 0o644))
			manifests = append(manifests, path)
		case strings.HasPrefix(f.Name, "out/"):
			expected[strings.TrimPrefix(f.Name, "out/")] = string(f.Data)
		}
	}
	return manifests, expected
}

func newTestGenerator(t *testing.T, cfg config.GenerationConfig) (*Generator, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	diagnostics := utils.NewDiagnosticSystemWithWriters(utils.DiagnosticVerbose, &out, &out)
	diagnostics.SetColors(false)

	g, err := NewGenerator(OptionsFromConfig(cfg), zaptest.NewLogger(t), diagnostics)
	require.NoError(t, err)
	return g, &out
}

func defaultGeneration() config.GenerationConfig {
	return config.NewDefaultConfig().Generation
}

func parseManifest(t *testing.T, text string) *manifest.Manifest {
	t.Helper()
	m, err := manifest.Parse([]byte(text), "inline.yaml")
	require.NoError(t, err)
	return m
}

func TestGenerateGolden(t *testing.T) {
	manifests, expected := fixture(t)
	outDir := filepath.Join(t.TempDir(), "Generated")

	g, out := newTestGenerator(t, defaultGeneration())
	require.NoError(t, g.Generate(context.Background(), Config{Manifests: manifests}, outDir))

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	var want []string
	for name := range expected {
		want = append(want, name)
	}
	sort.Strings(want)
	assert.Equal(t, want, names)

	for name, content := range expected {
		got, err := os.ReadFile(filepath.Join(outDir, name))
		require.NoError(t, err)
		assert.Equal(t, content, string(got), name)
	}

	summary := g.GetSummary()
	assert.Equal(t, 2, summary.ManifestsProcessed)
	assert.Equal(t, 3, summary.InterfacesGenerated)
	assert.Equal(t, 3, summary.MembersSkipped)
	assert.Len(t, summary.GeneratedFiles, 3)
	assert.NotEmpty(t, summary.Pass)
	assert.Contains(t, out.String(), "✓ Projected 3 interface(s)")
	assert.Contains(t, out.String(), "✏ Wrote "+filepath.Join(outDir, "IOrder.g.cs"))
}

func TestGenerateSecondRunIsUnchanged(t *testing.T) {
	manifests, _ := fixture(t)
	outDir := t.TempDir()
	g, _ := newTestGenerator(t, defaultGeneration())

	require.NoError(t, g.Generate(context.Background(), Config{Manifests: manifests}, outDir))
	first := g.GetSummary()

	require.NoError(t, g.Generate(context.Background(), Config{Manifests: manifests}, outDir))
	second := g.GetSummary()

	assert.Len(t, first.GeneratedFiles, 3)
	assert.Empty(t, second.GeneratedFiles)
	assert.ElementsMatch(t, first.GeneratedFiles, second.UnchangedFiles)
	assert.NotEqual(t, first.Pass, second.Pass)
}

func TestGenerateDryRun(t *testing.T) {
	manifests, _ := fixture(t)
	outDir := filepath.Join(t.TempDir(), "Generated")
	g, out := newTestGenerator(t, defaultGeneration())

	require.NoError(t, g.Generate(context.Background(), Config{Manifests: manifests, DryRun: true}, outDir))

	assert.NoDirExists(t, outDir)
	assert.Len(t, g.GetSummary().GeneratedFiles, 3)
	assert.Contains(t, out.String(), "Would write")
}

func TestGenerateOutputDirOverride(t *testing.T) {
	manifests, _ := fixture(t)
	override := t.TempDir()
	g, _ := newTestGenerator(t, defaultGeneration())

	require.NoError(t, g.Generate(context.Background(), Config{Manifests: manifests, OutputDir: override}, "ignored"))
	assert.FileExists(t, filepath.Join(override, "IOrder.g.cs"))
}

func TestGenerateExtension(t *testing.T) {
	manifests, _ := fixture(t)
	outDir := t.TempDir()
	cfg := defaultGeneration()
	cfg.Extension = ".generated.cs"
	g, _ := newTestGenerator(t, cfg)

	require.NoError(t, g.Generate(context.Background(), Config{Manifests: manifests}, outDir))
	assert.FileExists(t, filepath.Join(outDir, "IOrder.g.generated.cs"))
}

func TestGenerateReportsEveryMissingManifest(t *testing.T) {
	dir := t.TempDir()
	g, _ := newTestGenerator(t, defaultGeneration())

	err := g.Generate(context.Background(), Config{
		Manifests: []string{filepath.Join(dir, "a.yaml"), filepath.Join(dir, "b.yaml")},
	}, dir)
	require.Error(t, err)

	var multi *errors.MultipleErrors
	require.True(t, errors.As(err, &multi))
	assert.Equal(t, 2, multi.Count())
	assert.True(t, multi.HasCode(errors.FileSystemErrorCode))
}

func TestGenerateRequiresManifests(t *testing.T) {
	g, _ := newTestGenerator(t, defaultGeneration())
	err := g.Generate(context.Background(), Config{}, t.TempDir())

	var ifaceErr errors.IfaceError
	require.True(t, errors.As(err, &ifaceErr))
	assert.Equal(t, errors.ValidationErrorCode, ifaceErr.ErrorCode())
}

const manyClasses = `
classes:
  - {name: A, namespace: N, members: [{kind: method, name: Next, accessibility: public, returns: N.B}]}
  - {name: B, namespace: N, members: [{kind: method, name: Next, accessibility: public, returns: N.C}]}
  - {name: C, namespace: N, members: [{kind: method, name: Next, accessibility: public, returns: N.D}]}
  - {name: D, namespace: N, members: [{kind: method, name: Next, accessibility: public, returns: N.A}]}
  - {name: E, namespace: N, members: [{kind: property, name: All, accessibility: public, type: "N.A[]"}]}
`

func TestPassOrderIsDeterministic(t *testing.T) {
	m := parseManifest(t, manyClasses)

	var runs [][]string
	for _, workers := range []int{1, 2, 8} {
		cfg := defaultGeneration()
		cfg.Workers = workers
		g, _ := newTestGenerator(t, cfg)

		result, err := g.Pass(context.Background(), m)
		require.NoError(t, err)

		var names []string
		for _, u := range result.Units {
			names = append(names, u.HintName)
		}
		runs = append(runs, names)
	}

	want := []string{"IA.g.cs", "IB.g.cs", "IC.g.cs", "ID.g.cs", "IE.g.cs"}
	for _, run := range runs {
		assert.Equal(t, want, run)
	}
}

func TestPassRewritesAcrossClasses(t *testing.T) {
	g, _ := newTestGenerator(t, defaultGeneration())
	result, err := g.Pass(context.Background(), parseManifest(t, manyClasses))
	require.NoError(t, err)

	byName := make(map[string]*models.GeneratedUnit)
	for _, u := range result.Units {
		byName[u.InterfaceName] = u
	}
	assert.Contains(t, string(byName["N.ID"].Content), "    N.IA Next();\n")
	assert.Contains(t, string(byName["N.IE"].Content), "    N.IA[] All { get; }\n")
}

func TestPassCancelled(t *testing.T) {
	g, _ := newTestGenerator(t, defaultGeneration())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.Pass(ctx, parseManifest(t, manyClasses))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPassStopsOnProjectionError(t *testing.T) {
	g, _ := newTestGenerator(t, defaultGeneration())
	_, err := g.Pass(context.Background(), parseManifest(t, `
classes:
  - name: Reader
    namespace: IO
    members:
      - kind: method
        name: Read
        accessibility: public
        returns: int
        parameters:
          - {name: class, type: string}
`))
	require.Error(t, err)

	var collision *errors.KeywordCollisionError
	require.True(t, errors.As(err, &collision))
	assert.Equal(t, "class", collision.Identifier)
}

func TestPassEscapesKeywordsWhenEnabled(t *testing.T) {
	cfg := defaultGeneration()
	cfg.EscapeKeywords = true
	g, _ := newTestGenerator(t, cfg)

	result, err := g.Pass(context.Background(), parseManifest(t, `
classes:
  - name: Reader
    namespace: IO
    members:
      - kind: method
        name: Read
        accessibility: public
        returns: int
        parameters:
          - {name: class, type: string}
`))
	require.NoError(t, err)
	require.Len(t, result.Units, 1)
	assert.Contains(t, string(result.Units[0].Content), "    int Read(string @class);\n")
}

func TestPassRejectsHintNameCollision(t *testing.T) {
	g, _ := newTestGenerator(t, defaultGeneration())
	_, err := g.Pass(context.Background(), parseManifest(t, `
classes:
  - {name: Order, namespace: Shop}
  - {name: Order, namespace: Billing}
`))
	require.Error(t, err)

	var ifaceErr errors.IfaceError
	require.True(t, errors.As(err, &ifaceErr))
	assert.Equal(t, errors.GenerationErrorCode, ifaceErr.ErrorCode())
	assert.Contains(t, err.Error(), "IOrder.g.cs")
}

func TestNewGeneratorRejectsAccessibility(t *testing.T) {
	cfg := defaultGeneration()
	cfg.Accessibility = "private"
	_, err := NewGenerator(OptionsFromConfig(cfg), nil, nil)
	assert.Error(t, err)
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := config.GenerationConfig{
		Workers:                  3,
		Partial:                  true,
		Accessibility:            "internal",
		Extension:                "cs",
		NullableReferenceDefault: "null",
		EscapeKeywords:           true,
		ValueTypes:               []string{"Demo.Point"},
	}

	opts := OptionsFromConfig(cfg)
	assert.Equal(t, 3, opts.Workers)
	assert.Equal(t, models.DefaultLiteralNull, opts.Projector.NullableReferenceDefault)
	assert.True(t, opts.Manifest.EscapeKeywords)
	assert.Equal(t, []string{"Demo.Point"}, opts.Manifest.ValueTypes)
	assert.Equal(t, "internal", opts.Templates.Accessibility)
	assert.True(t, opts.Templates.Partial)

	cfg.NullableReferenceDefault = "default"
	assert.Equal(t, models.DefaultLiteralDefault, OptionsFromConfig(cfg).Projector.NullableReferenceDefault)
}

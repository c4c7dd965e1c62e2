package templates

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"

	"github.com/toyz/ifacegen/internal/models"
	"github.com/toyz/ifacegen/internal/projector"
	"github.com/toyz/ifacegen/internal/rewriter"
	"github.com/toyz/ifacegen/internal/typeref"
)

func loadGolden(t *testing.T) map[string]string {
	t.Helper()
	archive, err := txtar.ParseFile("testdata/render.txtar")
	require.NoError(t, err)

	golden := make(map[string]string, len(archive.Files))
	for _, f := range archive.Files {
		golden[f.Name] = string(f.Data)
	}
	return golden
}

func class1Spec(t *testing.T, entries map[string]string) *models.InterfaceSpec {
	t.Helper()
	parse := typeref.MustParse
	class := &models.ClassDescriptor{
		Name:      "Class1",
		Namespace: "Demo",
		Members: []models.ClassMember{
			&models.Method{Name: "Method1", ReturnType: parse("void")},
			&models.Method{Name: "Test", ReturnType: parse("Demo.Models.TestModel")},
			&models.Method{
				Name:           "Test2",
				ReturnType:     parse("void"),
				TypeParameters: []string{"T"},
				Parameters:     []models.Parameter{{Name: "data", Type: parse("T")}},
			},
			&models.Method{
				Name:           "Test3",
				ReturnType:     parse("void"),
				TypeParameters: []string{"T"},
				Parameters:     []models.Parameter{{Name: "data", Type: parse("T")}},
				Constraints: []models.TypeConstraint{
					{Parameter: "T", Types: []*models.TypeReference{parse("Demo.Models.TestModel")}},
				},
			},
			&models.Property{Name: "Property1", Type: parse("string"), HasSetter: true},
		},
	}

	names, err := rewriter.NewNameMap(entries)
	require.NoError(t, err)
	spec, err := projector.New(rewriter.New(names), projector.DefaultOptions()).Project(class)
	require.NoError(t, err)
	return spec
}

func repositorySpec() *models.InterfaceSpec {
	parse := typeref.MustParse
	literal := func(d models.DefaultLiteral) *models.DefaultLiteral { return &d }

	return &models.InterfaceSpec{
		Name:           "IRepository",
		Namespace:      "Demo.Data",
		SourceClass:    "Demo.Data.Repository<TEntity, TKey>",
		TypeParameters: []string{"TEntity", "TKey"},
		Constraints: []models.ConstraintClause{
			{Parameter: "TEntity", Constraints: []string{"class", "Demo.Data.IEntity<TKey>", "new()"}},
			{Parameter: "TKey", Constraints: []string{"notnull"}},
		},
		Members: []models.InterfaceMember{
			&models.InterfaceMethod{
				Name:       "Related",
				ReturnType: parse("System.Collections.Generic.List<Demo.Data.IRepository<TEntity, TKey>>?"),
			},
			&models.InterfaceMethod{
				Name:       "TryGet",
				ReturnType: parse("bool"),
				Parameters: []models.InterfaceParameter{
					{Name: "key", Type: parse("TKey"), Modifier: models.ModifierIn},
					{Name: "entity", Type: parse("TEntity?"), Modifier: models.ModifierOut},
				},
			},
			&models.InterfaceMethod{
				Name:       "Update",
				ReturnType: parse("void"),
				Parameters: []models.InterfaceParameter{
					{Name: "entity", Type: parse("TEntity"), Modifier: models.ModifierRef},
					{Name: "version", Type: parse("int?"), Default: literal(models.DefaultLiteralNull)},
					{Name: "reason", Type: parse("string?"), Default: literal(models.DefaultLiteralDefault)},
					{Name: "tags", Type: parse("object[]"), Modifier: models.ModifierParams},
				},
			},
			&models.InterfaceProperty{Name: "Count", Type: parse("int")},
		},
	}
}

func TestRenderGolden(t *testing.T) {
	golden := loadGolden(t)

	tests := []struct {
		name string
		opts Options
		spec func(t *testing.T) *models.InterfaceSpec
	}{
		{
			name: "class1.cs",
			opts: DefaultOptions(),
			spec: func(t *testing.T) *models.InterfaceSpec {
				return class1Spec(t, map[string]string{"Demo.Class1": "Demo.IClass1"})
			},
		},
		{
			name: "class1_model.cs",
			opts: DefaultOptions(),
			spec: func(t *testing.T) *models.InterfaceSpec {
				return class1Spec(t, map[string]string{
					"Demo.Class1":           "Demo.IClass1",
					"Demo.Models.TestModel": "Demo.Models.ITestModel",
				})
			},
		},
		{
			name: "partial_internal.cs",
			opts: Options{Accessibility: "internal", Partial: true},
			spec: func(*testing.T) *models.InterfaceSpec { return repositorySpec() },
		},
		{
			name: "global.cs",
			opts: DefaultOptions(),
			spec: func(*testing.T) *models.InterfaceSpec { return &models.InterfaceSpec{Name: "IEmpty"} },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want, ok := golden[tt.name]
			require.True(t, ok, "missing golden file %s", tt.name)

			r, err := NewRenderer(tt.opts)
			require.NoError(t, err)

			got, err := r.Render(tt.spec(t))
			require.NoError(t, err)
			if diff := cmp.Diff(want, string(got)); diff != "" {
				t.Errorf("rendered output mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestUnit(t *testing.T) {
	r, err := NewRenderer(Options{Extension: ".generated.cs"})
	require.NoError(t, err)

	unit, err := r.Unit(repositorySpec())
	require.NoError(t, err)

	assert.Equal(t, "IRepository.g.generated.cs", unit.HintName)
	assert.Equal(t, "Demo.Data.IRepository", unit.InterfaceName)
	assert.Equal(t, "Demo.Data.Repository<TEntity, TKey>", unit.SourceClass)
	assert.True(t, strings.HasPrefix(string(unit.Content), AutoGeneratedMarker+"\n"))
}

func TestNewRendererRejectsAccessibility(t *testing.T) {
	_, err := NewRenderer(Options{Accessibility: "private"})
	assert.Error(t, err)
}

func TestRenderNil(t *testing.T) {
	r, err := NewRenderer(DefaultOptions())
	require.NoError(t, err)

	_, err = r.Render(nil)
	assert.Error(t, err)
	_, err = r.Unit(nil)
	assert.Error(t, err)
}

func TestHintName(t *testing.T) {
	assert.Equal(t, "IClass1.g.cs", HintName("IClass1", "cs"))
	assert.Equal(t, "IClass1.g.cs", HintName("IClass1", ".cs"))
}

func TestTemplateUtils(t *testing.T) {
	tu := NewTemplateUtils()
	parse := typeref.MustParse
	literal := models.DefaultLiteralNull

	assert.Equal(t, "", tu.TypeParameterList(nil))
	assert.Equal(t, "<T, U>", tu.TypeParameterList([]string{"T", "U"}))
	assert.Equal(t, "ref int count", tu.Parameter(models.InterfaceParameter{Name: "count", Type: parse("int"), Modifier: models.ModifierRef}))
	assert.Equal(t, "int? n = null", tu.Parameter(models.InterfaceParameter{Name: "n", Type: parse("int?"), Default: &literal}))
	assert.Equal(t, "()", tu.ParameterList(nil))
	assert.Equal(t, "where T : struct", tu.ConstraintClause(models.ConstraintClause{Parameter: "T", Constraints: []string{"struct"}}))
	assert.Nil(t, tu.ConstraintClauses(nil))
	assert.Equal(t, "int Count { get; }", tu.PropertySignature(&models.InterfaceProperty{Name: "Count", Type: parse("int")}))
}

func TestTemplateRegistry(t *testing.T) {
	registry := NewTemplateRegistry()

	for _, name := range []string{"header", "unit", "interface", "method", "property"} {
		_, ok := registry.Get(name)
		assert.True(t, ok, name)
	}
	assert.True(t, strings.HasPrefix(registry.MustGet("header"), AutoGeneratedMarker))
	assert.Panics(t, func() { registry.MustGet("missing") })
}

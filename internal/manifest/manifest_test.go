package manifest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/toyz/ifacegen/internal/errors"
	"github.com/toyz/ifacegen/internal/models"
	"github.com/toyz/ifacegen/internal/typeref"
)

func TestLoad(t *testing.T) {
	m, err := Load("testdata/class1.yaml")
	require.NoError(t, err)

	assert.Equal(t, "testdata/class1.yaml", m.Path)
	assert.Equal(t, "v1.0.0", m.Schema)
	assert.Equal(t, map[string]string{"Vendor.Billing.Invoice": "Vendor.Billing.IInvoice"}, m.Interfaces)
	require.Len(t, m.Classes, 3)

	assert.Equal(t, "Class1", m.Classes[0].Name)
	assert.Equal(t, 7, m.Classes[0].Line)
	assert.True(t, m.Classes[0].ShouldGenerate())
	assert.False(t, m.Classes[2].ShouldGenerate())
	assert.Equal(t, KindConstructor, m.Classes[0].Members[0].Kind)
	assert.Equal(t, 10, m.Classes[0].Members[0].Line)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("testdata/missing.yaml")
	require.Error(t, err)

	var iface errors.IfaceError
	require.True(t, errors.As(err, &iface))
	assert.Equal(t, errors.FileSystemErrorCode, iface.ErrorCode())
}

func TestParseJSON(t *testing.T) {
	m, err := Parse([]byte(`{
  "schema": "1.0",
  "classes": [
    {"name": "Svc", "namespace": "Demo", "members": [
      {"kind": "method", "name": "Run", "accessibility": "public", "returns": "int"}
    ]}
  ]
}`), "inline.json")
	require.NoError(t, err)
	require.Len(t, m.Classes, 1)
	assert.Equal(t, "Run", m.Classes[0].Members[0].Name)
}

func TestParseSchema(t *testing.T) {
	tests := []struct {
		schema  string
		wantErr bool
	}{
		{"", false},
		{"v1.0.0", false},
		{"1.4", false},
		{"v1.9.3", false},
		{"v2.0.0", true},
		{"0.9", true},
		{"latest", true},
	}

	for _, tt := range tests {
		t.Run(tt.schema, func(t *testing.T) {
			_, err := Parse([]byte("schema: \""+tt.schema+"\"\n"), "schema.yaml")
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)

			var iface errors.IfaceError
			require.True(t, errors.As(err, &iface))
			assert.Equal(t, errors.ManifestErrorCode, iface.ErrorCode())
			assert.Equal(t, "schema.yaml", iface.Location().File)
		})
	}
}

func TestParseRejectsUnknownFields(t *testing.T) {
	tests := []struct {
		name     string
		manifest string
		field    string
	}{
		{"top level", "schema: v1.0.0\nclasess: []\n", "clasess"},
		{"class", `classes:
  - name: Order
    genrate: false
`, "genrate"},
		{"member", `classes:
  - name: Order
    members:
      - kind: property
        name: Total
        accessibility: public
        type: decimal
        seter: public
`, "seter"},
		{"parameter", `classes:
  - name: Order
    members:
      - kind: method
        name: Find
        accessibility: public
        parameters:
          - {name: id, type: int, optinal: true}
`, "optinal"},
		{"type parameter", `classes:
  - name: Order
    typeParameters:
      - {name: T, constrains: [Demo.Base]}
`, "constrains"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.manifest), "typo.yaml")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.field)

			var iface errors.IfaceError
			require.True(t, errors.As(err, &iface))
			assert.Equal(t, errors.ManifestErrorCode, iface.ErrorCode())
		})
	}
}

func TestParseRecordsLines(t *testing.T) {
	m, err := Parse([]byte(`{
  "classes": [
    {"name": "A", "members": [
      {"kind": "method", "name": "Run"},
      {"kind": "property", "name": "Size"}
    ]},
    {"name": "B"}
  ]
}`), "inline.json")
	require.NoError(t, err)
	require.Len(t, m.Classes, 2)

	assert.Equal(t, 3, m.Classes[0].Line)
	assert.Equal(t, 4, m.Classes[0].Members[0].Line)
	assert.Equal(t, 5, m.Classes[0].Members[1].Line)
	assert.Equal(t, 7, m.Classes[1].Line)
}

func TestNormalizeSchema(t *testing.T) {
	assert.Equal(t, SchemaVersion, NormalizeSchema(""))
	assert.Equal(t, "v1.2.0", NormalizeSchema("1.2"))
	assert.Equal(t, "", NormalizeSchema("one"))
}

func TestEligible(t *testing.T) {
	tests := []struct {
		name   string
		member Member
		want   bool
		reason string
	}{
		{"public method", Member{Kind: KindMethod, Accessibility: "public"}, true, ""},
		{"public property", Member{Kind: KindProperty, Accessibility: "public"}, true, ""},
		{"implicit private", Member{Kind: KindMethod}, false, "accessibility is private"},
		{"internal", Member{Kind: KindProperty, Accessibility: "internal"}, false, "accessibility is internal"},
		{"static", Member{Kind: KindMethod, Accessibility: "public", Static: true}, false, "member is static"},
		{"constructor", Member{Kind: KindConstructor, Accessibility: "public"}, false, "constructor members are not projected"},
		{"operator", Member{Kind: KindOperator, Accessibility: "public", Static: true}, false, "operator members are not projected"},
		{"indexer", Member{Kind: KindIndexer, Accessibility: "public"}, false, "indexer members are not projected"},
		{"no kind", Member{Accessibility: "public"}, false, "untyped members are not projected"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, reason := Eligible(tt.member)
			assert.Equal(t, tt.want, ok)
			assert.Equal(t, tt.reason, reason)
		})
	}
}

func TestResolve(t *testing.T) {
	m, err := Load("testdata/class1.yaml")
	require.NoError(t, err)

	core, logs := observer.New(zap.DebugLevel)
	unit, err := NewResolver(zap.New(core), Options{}).Resolve(m)
	require.NoError(t, err)

	require.Len(t, unit.Classes, 2)
	assert.Equal(t, "Demo.Class1", unit.Classes[0].QualifiedName())
	assert.Equal(t, "Demo.Models.TestModel", unit.Classes[1].QualifiedName())
	assert.Equal(t, 4, unit.Skipped)
	assert.Equal(t, 4, logs.FilterMessage("skipping ineligible member").Len())

	assert.Equal(t, []string{"Demo.Class1", "Demo.Models.TestModel", "Vendor.Billing.Invoice"}, unit.Names.Keys())
	resolved := logs.FilterMessage("manifests resolved").All()
	require.Len(t, resolved, 1)
	assert.Equal(t, []interface{}{"Demo.Class1", "Demo.Models.TestModel", "Vendor.Billing.Invoice"},
		resolved[0].ContextMap()["mapped_classes"])

	var names []string
	for _, member := range unit.Classes[0].Members {
		names = append(names, member.MemberName())
	}
	assert.Equal(t, []string{"Method1", "Test", "Test2", "Test3", "Property1", "Location", "Bill"}, names)

	test3 := unit.Classes[0].Members[3].(*models.Method)
	require.Len(t, test3.Constraints, 1)
	assert.Equal(t, "Demo.Models.TestModel", test3.Constraints[0].Types[0].String())

	location := unit.Classes[0].Members[5].(*models.Property)
	assert.False(t, location.HasSetter)
	assert.True(t, location.Type.IsNullableValueType())

	bill := unit.Classes[0].Members[6].(*models.Method)
	name, ok := unit.Names.Lookup(bill.ReturnType)
	require.True(t, ok)
	assert.Equal(t, "Vendor.Billing.IInvoice", name)
}

func TestResolveReportsAllProblems(t *testing.T) {
	m, err := Parse([]byte(`
classes:
  - name: Broken
    namespace: Demo
    members:
      - kind: method
        name: Run
        accessibility: public
        returns: "List<"
        parameters:
          - name: x
            type: int
            modifier: byref
          - name: y
            type: int
            optional: true
            default: zero
      - kind: property
        name: Value
        accessibility: public
  - name: Broken
    namespace: Demo
`), "broken.yaml")
	require.NoError(t, err)

	_, err = NewResolver(nil, Options{}).Resolve(m)
	require.Error(t, err)

	var multi *errors.MultipleErrors
	require.True(t, errors.As(err, &multi))
	assert.Equal(t, 5, multi.Count())
	assert.True(t, multi.HasCode(errors.SyntaxErrorCode))
	assert.True(t, multi.HasCode(errors.ValidationErrorCode))
	assert.True(t, multi.HasCode(errors.ManifestErrorCode))

	var syntaxErr *errors.SyntaxError
	require.True(t, errors.As(err, &syntaxErr))
	assert.Equal(t, "broken.yaml", syntaxErr.Location().File)
	assert.Equal(t, "Demo.Broken.Run", syntaxErr.Location().Symbol)
	assert.Equal(t, 6, syntaxErr.Location().Line)
}

func TestResolveConflictingInterfaces(t *testing.T) {
	a := &Manifest{Interfaces: map[string]string{"Demo.Model": "Demo.IModel"}}
	b := &Manifest{Interfaces: map[string]string{"Demo.Model": "Other.IModel"}}

	_, err := NewResolver(nil, Options{}).Resolve(a, b)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mapped to both")
}

func TestResolveEscapeKeywords(t *testing.T) {
	m := &Manifest{Classes: []Class{{
		Name:      "Events",
		Namespace: "Demo",
		Members: []Member{{
			Kind:          KindMethod,
			Name:          "Raise",
			Accessibility: "public",
			Returns:       "void",
			Parameters:    []Parameter{{Name: "event", Type: "string"}},
		}},
	}}}

	unit, err := NewResolver(nil, Options{EscapeKeywords: true}).Resolve(m)
	require.NoError(t, err)
	assert.Equal(t, "@event", unit.Classes[0].Members[0].(*models.Method).Parameters[0].Name)

	unit, err = NewResolver(nil, Options{}).Resolve(m)
	require.NoError(t, err)
	assert.Equal(t, "event", unit.Classes[0].Members[0].(*models.Method).Parameters[0].Name)
}

func TestResolveValueTypesOption(t *testing.T) {
	m := &Manifest{Classes: []Class{{
		Name: "Clock",
		Members: []Member{{
			Kind:          KindProperty,
			Name:          "Now",
			Accessibility: "public",
			Type:          "Demo.Instant?",
		}},
	}}}

	unit, err := NewResolver(nil, Options{ValueTypes: []string{"Demo.Instant"}}).Resolve(m)
	require.NoError(t, err)
	assert.True(t, unit.Classes[0].Members[0].(*models.Property).Type.IsNullableValueType())
	assert.False(t, typeref.MustParse("Demo.Instant?").IsNullableValueType())
}

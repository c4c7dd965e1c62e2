package projector

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/ifacegen/internal/errors"
	"github.com/toyz/ifacegen/internal/models"
)

func method(name string, params ...models.Parameter) *models.Method {
	return &models.Method{Name: name, ReturnType: parse("void"), Parameters: params}
}

func withMembers(members ...models.ClassMember) *models.ClassDescriptor {
	return &models.ClassDescriptor{Name: "Service", Namespace: "Demo", Members: members}
}

func TestValidateAcceptsValidClass(t *testing.T) {
	assert.NoError(t, Validate(class1()))
	assert.NoError(t, Validate(withMembers(
		method("Escaped", models.Parameter{Name: "@class", Type: parse("string")}),
		method("Tail",
			models.Parameter{Name: "a", Type: parse("int")},
			models.Parameter{Name: "b", Type: parse("int"), Optional: true},
			models.Parameter{Name: "rest", Type: parse("int[]"), Modifier: models.ModifierParams},
		),
		method("InDefault", models.Parameter{Name: "p", Type: parse("int"), Modifier: models.ModifierIn, Optional: true}),
	)))
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name     string
		class    *models.ClassDescriptor
		contains string
		symbol   string
	}{
		{
			name:     "empty class name",
			class:    &models.ClassDescriptor{Namespace: "Demo"},
			contains: "class name",
			symbol:   "Demo.",
		},
		{
			name:     "bad namespace",
			class:    &models.ClassDescriptor{Name: "A", Namespace: "Demo..Models"},
			contains: "namespace",
			symbol:   "Demo..Models.A",
		},
		{
			name:     "missing return type",
			class:    withMembers(&models.Method{Name: "Run"}),
			contains: "return type",
			symbol:   "Demo.Service.Run",
		},
		{
			name:     "missing property type",
			class:    withMembers(&models.Property{Name: "Value"}),
			contains: "property type",
			symbol:   "Demo.Service.Value",
		},
		{
			name:     "missing parameter type",
			class:    withMembers(method("Run", models.Parameter{Name: "x"})),
			contains: "parameter type",
			symbol:   "Demo.Service.Run",
		},
		{
			name:     "invalid identifier",
			class:    withMembers(method("Run", models.Parameter{Name: "1x", Type: parse("int")})),
			contains: "not a valid identifier",
			symbol:   "Demo.Service.Run",
		},
		{
			name: "duplicate parameter",
			class: withMembers(method("Run",
				models.Parameter{Name: "x", Type: parse("int")},
				models.Parameter{Name: "x", Type: parse("int")},
			)),
			contains: "declared more than once",
			symbol:   "Demo.Service.Run",
		},
		{
			name: "params not last",
			class: withMembers(method("Run",
				models.Parameter{Name: "rest", Type: parse("int[]"), Modifier: models.ModifierParams},
				models.Parameter{Name: "x", Type: parse("int")},
			)),
			contains: "params must be the last parameter",
			symbol:   "Demo.Service.Run",
		},
		{
			name:     "optional ref",
			class:    withMembers(method("Run", models.Parameter{Name: "x", Type: parse("int"), Modifier: models.ModifierRef, Optional: true})),
			contains: "a ref parameter cannot have a default value",
			symbol:   "Demo.Service.Run",
		},
		{
			name: "required after optional",
			class: withMembers(method("Run",
				models.Parameter{Name: "x", Type: parse("int"), Optional: true},
				models.Parameter{Name: "y", Type: parse("int")},
			)),
			contains: "required parameters cannot follow optional parameters",
			symbol:   "Demo.Service.Run",
		},
		{
			name: "undeclared constraint parameter",
			class: withMembers(&models.Method{
				Name:           "Run",
				ReturnType:     parse("void"),
				TypeParameters: []string{"T"},
				Constraints: []models.TypeConstraint{
					{Parameter: "U", Special: []models.SpecialConstraint{models.ConstraintClass}},
				},
			}),
			contains: "type parameter 'U' is not declared",
			symbol:   "Demo.Service.Run",
		},
		{
			name: "duplicate type parameter",
			class: withMembers(&models.Method{
				Name: "Run", ReturnType: parse("void"), TypeParameters: []string{"T", "T"},
			}),
			contains: "declared more than once",
			symbol:   "Demo.Service.Run",
		},
		{
			name: "two primary constraints",
			class: withMembers(&models.Method{
				Name:           "Run",
				ReturnType:     parse("void"),
				TypeParameters: []string{"T"},
				Constraints: []models.TypeConstraint{
					{Parameter: "T", Special: []models.SpecialConstraint{models.ConstraintClass, models.ConstraintStruct}},
				},
			}),
			contains: "at most one of class",
			symbol:   "Demo.Service.Run",
		},
		{
			name: "class constraint on undeclared parameter",
			class: &models.ClassDescriptor{
				Name:        "Box",
				Constraints: []models.TypeConstraint{{Parameter: "T", Special: []models.SpecialConstraint{models.ConstraintNew}}},
			},
			contains: "type parameter 'T' is not declared",
			symbol:   "Box",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.class)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)

			var validationErr *errors.ValidationError
			require.True(t, stderrors.As(err, &validationErr))
			assert.Equal(t, tt.symbol, validationErr.Location().Symbol)
		})
	}
}

func TestValidateKeywordCollision(t *testing.T) {
	err := Validate(withMembers(
		method("Run", models.Parameter{Name: "class", Type: parse("string")}),
		&models.Property{Name: "event", Type: parse("int")},
	))
	require.Error(t, err)

	var keywordErr *errors.KeywordCollisionError
	require.True(t, stderrors.As(err, &keywordErr))
	assert.Equal(t, "class", keywordErr.Identifier)
	assert.Equal(t, "parameter", keywordErr.Role)
	assert.Equal(t, "Demo.Service.Run", keywordErr.Location().Symbol)

	var multi *errors.MultipleErrors
	require.True(t, stderrors.As(err, &multi))
	assert.Equal(t, 2, multi.Count())
	assert.True(t, multi.HasCode(errors.KeywordCollisionErrorCode))
}

func TestValidateNil(t *testing.T) {
	assert.Error(t, Validate(nil))
}

func TestEscapeIdentifier(t *testing.T) {
	assert.Equal(t, "@class", EscapeIdentifier("class"))
	assert.Equal(t, "@params", EscapeIdentifier("params"))
	assert.Equal(t, "value", EscapeIdentifier("value"))
	assert.True(t, IsReservedKeyword("namespace"))
	assert.False(t, IsReservedKeyword("var"))
}

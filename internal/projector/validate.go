package projector

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/toyz/ifacegen/internal/errors"
	"github.com/toyz/ifacegen/internal/models"
)

var identifierPattern = regexp.MustCompile(`^@?[\p{L}_][\p{L}\p{N}_]*$`)

// reservedKeywords are the C# keywords that cannot be used as identifiers unescaped
var reservedKeywords = map[string]bool{
	"abstract": true, "as": true, "base": true, "bool": true, "break": true, "byte": true,
	"case": true, "catch": true, "char": true, "checked": true, "class": true, "const": true,
	"continue": true, "decimal": true, "default": true, "delegate": true, "do": true,
	"double": true, "else": true, "enum": true, "event": true, "explicit": true,
	"extern": true, "false": true, "finally": true, "fixed": true, "float": true, "for": true,
	"foreach": true, "goto": true, "if": true, "implicit": true, "in": true, "int": true,
	"interface": true, "internal": true, "is": true, "lock": true, "long": true,
	"namespace": true, "new": true, "null": true, "object": true, "operator": true,
	"out": true, "override": true, "params": true, "private": true, "protected": true,
	"public": true, "readonly": true, "ref": true, "return": true, "sbyte": true,
	"sealed": true, "short": true, "sizeof": true, "stackalloc": true, "static": true,
	"string": true, "struct": true, "switch": true, "this": true, "throw": true, "true": true,
	"try": true, "typeof": true, "uint": true, "ulong": true, "unchecked": true,
	"unsafe": true, "ushort": true, "using": true, "virtual": true, "void": true,
	"volatile": true, "while": true,
}

// IsReservedKeyword reports whether name collides with a C# keyword
func IsReservedKeyword(name string) bool {
	return reservedKeywords[name]
}

// EscapeIdentifier prefixes a reserved keyword with '@'; other names are returned as-is
func EscapeIdentifier(name string) string {
	if IsReservedKeyword(name) {
		return "@" + name
	}
	return name
}

// Validate checks that class can be projected into a compilable interface. All problems
// are reported together.
func Validate(class *models.ClassDescriptor) error {
	if class == nil {
		return errors.NewValidationError("class", nil, "class descriptor is nil")
	}

	v := &validator{class: class}
	v.identifier("class", class.Name, "")
	if class.Namespace != "" {
		for _, part := range strings.Split(class.Namespace, ".") {
			if !identifierPattern.MatchString(part) {
				v.fail("", errors.NewValidationError("namespace", class.Namespace, "not a valid qualified name"))
				break
			}
		}
	}
	v.typeParameters("", class.TypeParameters, class.Constraints)

	for i, member := range class.Members {
		switch m := member.(type) {
		case *models.Method:
			v.method(m)
		case *models.Property:
			v.property(m)
		default:
			v.fail("", errors.NewValidationError("member", i, fmt.Sprintf("unsupported member %T", member)))
		}
	}

	if v.errs == nil {
		return nil
	}
	return v.errs.ErrOrNil()
}

type validator struct {
	class *models.ClassDescriptor
	errs  *errors.MultipleErrors
}

func (v *validator) fail(member string, err errors.IfaceError) {
	switch e := err.(type) {
	case *errors.ValidationError:
		e.WithLocation(location(v.class, member))
	case *errors.KeywordCollisionError:
		e.WithLocation(location(v.class, member))
	}
	errors.AddToMultiple(&v.errs, err)
}

func (v *validator) identifier(role, name, member string) {
	switch {
	case name == "":
		v.fail(member, errors.NewValidationError(role+" name", name, "must not be empty"))
	case IsReservedKeyword(name):
		v.fail(member, errors.NewKeywordCollisionError(role, name))
	case !identifierPattern.MatchString(name):
		v.fail(member, errors.NewValidationError(role+" name", name, "not a valid identifier"))
	}
}

func (v *validator) typeParameters(member string, params []string, constraints []models.TypeConstraint) {
	declared := make(map[string]bool, len(params))
	for _, tp := range params {
		v.identifier("type parameter", tp, member)
		if declared[tp] {
			v.fail(member, errors.NewValidationError("type parameter", tp, "declared more than once"))
		}
		declared[tp] = true
	}

	seen := make(map[string]bool, len(constraints))
	for _, c := range constraints {
		if !declared[c.Parameter] {
			v.fail(member, errors.NewValidationError("constraint", c.Parameter,
				fmt.Sprintf("type parameter '%s' is not declared", c.Parameter)).
				WithSuggestion("Constraints may only reference the member's own type parameters"))
			continue
		}
		if seen[c.Parameter] {
			v.fail(member, errors.NewValidationError("constraint", c.Parameter, "constraints listed more than once"))
		}
		seen[c.Parameter] = true

		primary := 0
		for _, s := range c.Special {
			if s.IsPrimary() {
				primary++
			}
		}
		if primary > 1 {
			v.fail(member, errors.NewValidationError("constraint", c.Parameter,
				"at most one of class, struct, notnull and unmanaged may be used"))
		}
		for _, t := range c.Types {
			if t == nil {
				v.fail(member, errors.NewValidationError("constraint", c.Parameter, "constraint type is missing"))
			}
		}
	}
}

func (v *validator) method(m *models.Method) {
	v.identifier("method", m.Name, m.Name)
	if m.ReturnType == nil {
		v.fail(m.Name, errors.NewValidationError("return type", m.Name, "is missing"))
	}
	v.typeParameters(m.Name, m.TypeParameters, m.Constraints)

	names := make(map[string]bool, len(m.Parameters))
	seenOptional := false
	for i, param := range m.Parameters {
		v.identifier("parameter", param.Name, m.Name)
		if names[param.Name] {
			v.fail(m.Name, errors.NewValidationError("parameter", param.Name, "declared more than once"))
		}
		names[param.Name] = true

		if param.Type == nil {
			v.fail(m.Name, errors.NewValidationError("parameter type", param.Name, "is missing"))
		}

		switch {
		case param.Modifier == models.ModifierParams && i != len(m.Parameters)-1:
			v.fail(m.Name, errors.NewValidationError("parameter", param.Name, "params must be the last parameter"))
		case param.Optional && (param.Modifier == models.ModifierParams || param.Modifier == models.ModifierRef || param.Modifier == models.ModifierOut):
			v.fail(m.Name, errors.NewValidationError("parameter", param.Name,
				fmt.Sprintf("a %s parameter cannot have a default value", param.Modifier.Keyword())))
		}

		if param.Optional {
			seenOptional = true
		} else if seenOptional && param.Modifier != models.ModifierParams {
			v.fail(m.Name, errors.NewValidationError("parameter", param.Name,
				"required parameters cannot follow optional parameters"))
		}
	}
}

func (v *validator) property(p *models.Property) {
	v.identifier("property", p.Name, p.Name)
	if p.Type == nil {
		v.fail(p.Name, errors.NewValidationError("property type", p.Name, "is missing"))
	}
}

// Package projector derives interface declarations from the public members of a class.
package projector

import (
	"github.com/toyz/ifacegen/internal/errors"
	"github.com/toyz/ifacegen/internal/models"
	"github.com/toyz/ifacegen/internal/rewriter"
)

// Options controls projection choices that the class metadata leaves open
type Options struct {
	// NullableReferenceDefault is the literal used for an optional parameter whose type
	// is a nullable reference type. Nullable value types always use null.
	NullableReferenceDefault models.DefaultLiteral
}

// DefaultOptions returns the options matching the observed generator behaviour
func DefaultOptions() Options {
	return Options{NullableReferenceDefault: models.DefaultLiteralDefault}
}

// Projector builds InterfaceSpecs. It is stateless apart from its read-only rewriter
// and can project many classes concurrently.
type Projector struct {
	rewriter *rewriter.Rewriter
	opts     Options
}

// New creates a projector that rewrites return and property types with rw
func New(rw *rewriter.Rewriter, opts Options) *Projector {
	if opts.NullableReferenceDefault == models.DefaultLiteralAuto {
		opts.NullableReferenceDefault = models.DefaultLiteralDefault
	}
	return &Projector{rewriter: rw, opts: opts}
}

// Project validates class and returns its interface specification. Members keep their
// declaration order; overloads are projected independently.
func (p *Projector) Project(class *models.ClassDescriptor) (*models.InterfaceSpec, error) {
	if err := Validate(class); err != nil {
		return nil, err
	}

	spec := &models.InterfaceSpec{
		Name:           class.InterfaceName(),
		Namespace:      class.Namespace,
		SourceClass:    class.DisplayName(),
		TypeParameters: append([]string(nil), class.TypeParameters...),
		Constraints:    constraintClauses(class.TypeParameters, class.Constraints),
		Members:        make([]models.InterfaceMember, 0, len(class.Members)),
	}

	for _, member := range class.Members {
		switch m := member.(type) {
		case *models.Method:
			spec.Members = append(spec.Members, p.ProjectMethod(m))
		case *models.Property:
			spec.Members = append(spec.Members, p.ProjectProperty(m))
		}
	}
	return spec, nil
}

// ProjectMethod builds the interface signature of m. The return type is rewritten;
// parameter types and constraint types keep their original display form.
func (p *Projector) ProjectMethod(m *models.Method) *models.InterfaceMethod {
	method := &models.InterfaceMethod{
		Name:       m.Name,
		ReturnType: p.rewriter.Rewrite(m.ReturnType),
		Parameters: make([]models.InterfaceParameter, 0, len(m.Parameters)),
	}

	for _, param := range m.Parameters {
		method.Parameters = append(method.Parameters, p.projectParameter(param))
	}

	if m.IsGeneric() {
		method.TypeParameters = append([]string(nil), m.TypeParameters...)
		method.Constraints = constraintClauses(m.TypeParameters, m.Constraints)
	}
	return method
}

// ProjectProperty builds the interface property of prop: always a getter, a setter only
// when the source has one, and the property type rewritten.
func (p *Projector) ProjectProperty(prop *models.Property) *models.InterfaceProperty {
	return &models.InterfaceProperty{
		Name:      prop.Name,
		Type:      p.rewriter.Rewrite(prop.Type),
		HasSetter: prop.HasSetter,
	}
}

func (p *Projector) projectParameter(param models.Parameter) models.InterfaceParameter {
	out := models.InterfaceParameter{
		Name:     param.Name,
		Type:     param.Type.Clone(),
		Modifier: param.Modifier,
	}
	if param.Optional {
		literal := p.defaultLiteral(param)
		out.Default = &literal
	}
	return out
}

func (p *Projector) defaultLiteral(param models.Parameter) models.DefaultLiteral {
	switch {
	case param.Default != models.DefaultLiteralAuto:
		return param.Default
	case param.Type.IsNullableValueType():
		return models.DefaultLiteralNull
	case param.Type.Nullable:
		return p.opts.NullableReferenceDefault
	default:
		return models.DefaultLiteralDefault
	}
}

// constraintClauses renders one clause per constrained type parameter, in type parameter
// order. Primary constraints come first, then constraint types, then new(). It returns
// nil when no type parameter is constrained.
func constraintClauses(typeParams []string, constraints []models.TypeConstraint) []models.ConstraintClause {
	byParam := make(map[string]models.TypeConstraint, len(constraints))
	for _, c := range constraints {
		byParam[c.Parameter] = c
	}

	var clauses []models.ConstraintClause
	for _, tp := range typeParams {
		c, ok := byParam[tp]
		if !ok || c.IsEmpty() {
			continue
		}

		clause := models.ConstraintClause{Parameter: tp}
		hasNew := false
		for _, s := range c.Special {
			if s.IsPrimary() {
				clause.Constraints = append(clause.Constraints, s.Keyword())
			} else {
				hasNew = true
			}
		}
		for _, t := range c.Types {
			clause.Constraints = append(clause.Constraints, t.String())
		}
		if hasNew {
			clause.Constraints = append(clause.Constraints, models.ConstraintNew.Keyword())
		}
		clauses = append(clauses, clause)
	}
	return clauses
}

// location returns the error location of a class member
func location(class *models.ClassDescriptor, member string) errors.SourceLocation {
	symbol := class.QualifiedName()
	if member != "" {
		symbol += "." + member
	}
	return errors.SourceLocation{Symbol: symbol}
}

package templates

import (
	"strings"

	"github.com/toyz/ifacegen/internal/models"
)

// TemplateUtils renders the individual pieces of a C# declaration
type TemplateUtils struct{}

// NewTemplateUtils creates a new template utilities instance
func NewTemplateUtils() *TemplateUtils {
	return &TemplateUtils{}
}

// TypeParameterList renders "<T, U>", or "" when there are no type parameters
func (tu *TemplateUtils) TypeParameterList(typeParams []string) string {
	if len(typeParams) == 0 {
		return ""
	}
	return "<" + strings.Join(typeParams, ", ") + ">"
}

// Parameter renders one parameter, e.g. "ref int count" or "string? name = default"
func (tu *TemplateUtils) Parameter(param models.InterfaceParameter) string {
	var b strings.Builder
	if kw := param.Modifier.Keyword(); kw != "" {
		b.WriteString(kw)
		b.WriteByte(' ')
	}
	b.WriteString(param.Type.String())
	b.WriteByte(' ')
	b.WriteString(param.Name)
	if param.Default != nil {
		b.WriteString(" = ")
		b.WriteString(param.Default.Text())
	}
	return b.String()
}

// ParameterList renders the parenthesized parameter list of a method
func (tu *TemplateUtils) ParameterList(params []models.InterfaceParameter) string {
	rendered := make([]string, len(params))
	for i, param := range params {
		rendered[i] = tu.Parameter(param)
	}
	return "(" + strings.Join(rendered, ", ") + ")"
}

// ConstraintClause renders "where T : A, B"
func (tu *TemplateUtils) ConstraintClause(clause models.ConstraintClause) string {
	return "where " + clause.Parameter + " : " + strings.Join(clause.Constraints, ", ")
}

// ConstraintClauses renders each clause in order
func (tu *TemplateUtils) ConstraintClauses(clauses []models.ConstraintClause) []string {
	if len(clauses) == 0 {
		return nil
	}
	rendered := make([]string, len(clauses))
	for i, clause := range clauses {
		rendered[i] = tu.ConstraintClause(clause)
	}
	return rendered
}

// MethodSignature renders a method declaration without constraints or terminator
func (tu *TemplateUtils) MethodSignature(m *models.InterfaceMethod) string {
	return m.ReturnType.String() + " " + m.Name + tu.TypeParameterList(m.TypeParameters) + tu.ParameterList(m.Parameters)
}

// PropertySignature renders a property declaration with its accessor list
func (tu *TemplateUtils) PropertySignature(p *models.InterfaceProperty) string {
	accessors := "{ get; }"
	if p.HasSetter {
		accessors = "{ get; set; }"
	}
	return p.Type.String() + " " + p.Name + " " + accessors
}

// Declaration renders the interface head, e.g. "public partial interface IRepository<T>"
func (tu *TemplateUtils) Declaration(spec *models.InterfaceSpec, accessibility string, partial bool) string {
	var b strings.Builder
	if accessibility != "" {
		b.WriteString(accessibility)
		b.WriteByte(' ')
	}
	if partial {
		b.WriteString("partial ")
	}
	b.WriteString("interface ")
	b.WriteString(spec.Name)
	b.WriteString(tu.TypeParameterList(spec.TypeParameters))
	return b.String()
}

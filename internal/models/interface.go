package models

// InterfaceMember is one declaration inside a generated interface: either an
// *InterfaceMethod or an *InterfaceProperty.
type InterfaceMember interface {
	MemberName() string
	interfaceMember()
}

// ConstraintClause is a rendered "where T : A, B" clause
type ConstraintClause struct {
	Parameter   string
	Constraints []string // constraint tokens in emission order
}

// InterfaceParameter is a parameter of an interface method
type InterfaceParameter struct {
	Name     string
	Type     *TypeReference
	Modifier ParameterModifier
	Default  *DefaultLiteral // nil when the parameter is required
}

// InterfaceMethod is a method signature without a body
type InterfaceMethod struct {
	Name           string
	ReturnType     *TypeReference
	TypeParameters []string
	Parameters     []InterfaceParameter
	Constraints    []ConstraintClause // nil when no type parameter is constrained
}

// MemberName returns the method name
func (m *InterfaceMethod) MemberName() string { return m.Name }

func (*InterfaceMethod) interfaceMember() {}

// InterfaceProperty is a property with accessor signatures only
type InterfaceProperty struct {
	Name      string
	Type      *TypeReference
	HasSetter bool
}

// MemberName returns the property name
func (p *InterfaceProperty) MemberName() string { return p.Name }

func (*InterfaceProperty) interfaceMember() {}

// InterfaceSpec is the projection of one class, ready for emission
type InterfaceSpec struct {
	Name           string // "I" + class simple name
	Namespace      string
	SourceClass    string // display name of the projected class
	TypeParameters []string
	Constraints    []ConstraintClause
	Members        []InterfaceMember
}

// QualifiedName returns the namespace-qualified interface name without type parameters
func (s *InterfaceSpec) QualifiedName() string {
	if s.Namespace == "" {
		return s.Name
	}
	return s.Namespace + "." + s.Name
}

// GeneratedUnit is a rendered source file keyed by its hint name
type GeneratedUnit struct {
	HintName      string // "<InterfaceName>.g.<extension>"
	InterfaceName string
	SourceClass   string
	Content       []byte
}

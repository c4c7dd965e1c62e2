package models

// ClassMember is a public instance member of a class: either a *Method or a *Property.
type ClassMember interface {
	MemberName() string
	classMember()
}

// ParameterModifier is the passing mode of a parameter
type ParameterModifier int

const (
	ModifierNone ParameterModifier = iota
	ModifierRef
	ModifierOut
	ModifierIn
	ModifierParams
)

// Keyword returns the C# keyword for the modifier, or "" for ModifierNone
func (m ParameterModifier) Keyword() string {
	switch m {
	case ModifierRef:
		return "ref"
	case ModifierOut:
		return "out"
	case ModifierIn:
		return "in"
	case ModifierParams:
		return "params"
	default:
		return ""
	}
}

// ParseParameterModifier converts a keyword into a ParameterModifier
func ParseParameterModifier(s string) (ParameterModifier, bool) {
	switch s {
	case "", "none":
		return ModifierNone, true
	case "ref":
		return ModifierRef, true
	case "out":
		return ModifierOut, true
	case "in":
		return ModifierIn, true
	case "params":
		return ModifierParams, true
	default:
		return ModifierNone, false
	}
}

// DefaultLiteral selects the placeholder emitted for an optional parameter
type DefaultLiteral int

const (
	DefaultLiteralAuto    DefaultLiteral = iota // derive from the parameter type
	DefaultLiteralDefault                       // = default
	DefaultLiteralNull                          // = null
)

// Text returns the literal as it appears in source
func (d DefaultLiteral) Text() string {
	if d == DefaultLiteralNull {
		return "null"
	}
	return "default"
}

// Parameter describes one method parameter
type Parameter struct {
	Name     string
	Type     *TypeReference
	Modifier ParameterModifier
	Optional bool
	Default  DefaultLiteral // only meaningful when Optional
}

// SpecialConstraint is a non-type generic constraint
type SpecialConstraint int

const (
	ConstraintClass SpecialConstraint = iota
	ConstraintStruct
	ConstraintNotNull
	ConstraintUnmanaged
	ConstraintNew
)

// Keyword returns the constraint as written in source
func (c SpecialConstraint) Keyword() string {
	switch c {
	case ConstraintClass:
		return "class"
	case ConstraintStruct:
		return "struct"
	case ConstraintNotNull:
		return "notnull"
	case ConstraintUnmanaged:
		return "unmanaged"
	default:
		return "new()"
	}
}

// IsPrimary reports whether the constraint must come before constraint types
func (c SpecialConstraint) IsPrimary() bool {
	return c != ConstraintNew
}

// ParseSpecialConstraint converts a keyword into a SpecialConstraint
func ParseSpecialConstraint(s string) (SpecialConstraint, bool) {
	switch s {
	case "class":
		return ConstraintClass, true
	case "struct":
		return ConstraintStruct, true
	case "notnull":
		return ConstraintNotNull, true
	case "unmanaged":
		return ConstraintUnmanaged, true
	case "new()", "new":
		return ConstraintNew, true
	default:
		return 0, false
	}
}

// TypeConstraint lists the constraints carried by one type parameter
type TypeConstraint struct {
	Parameter string
	Types     []*TypeReference
	Special   []SpecialConstraint
}

// IsEmpty reports whether the type parameter carries no constraint at all
func (c TypeConstraint) IsEmpty() bool {
	return len(c.Types) == 0 && len(c.Special) == 0
}

// Method is a projectable class method
type Method struct {
	Name           string
	Parameters     []Parameter
	ReturnType     *TypeReference
	TypeParameters []string
	Constraints    []TypeConstraint // only type parameters with at least one constraint
}

// MemberName returns the method name
func (m *Method) MemberName() string { return m.Name }

func (*Method) classMember() {}

// IsGeneric reports whether the method declares type parameters
func (m *Method) IsGeneric() bool { return len(m.TypeParameters) > 0 }

// Property is a projectable class property
type Property struct {
	Name      string
	Type      *TypeReference
	HasSetter bool // true only when the source exposes a public setter
}

// MemberName returns the property name
func (p *Property) MemberName() string { return p.Name }

func (*Property) classMember() {}

// ClassDescriptor is the already-resolved surface of one class handed to the projector
type ClassDescriptor struct {
	Name           string // simple name
	Namespace      string
	TypeParameters []string
	Constraints    []TypeConstraint
	Members        []ClassMember // eligible members in declaration order
}

// QualifiedName returns the namespace-qualified class name without type parameters
func (c *ClassDescriptor) QualifiedName() string {
	if c.Namespace == "" {
		return c.Name
	}
	return c.Namespace + "." + c.Name
}

// DisplayName returns the class display name, e.g. "Demo.Repository<T>"
func (c *ClassDescriptor) DisplayName() string {
	return c.Reference().String()
}

// Reference returns the class as a type reference using its own type parameters
func (c *ClassDescriptor) Reference() *TypeReference {
	ref := Named(c.QualifiedName())
	for _, tp := range c.TypeParameters {
		ref.Arguments = append(ref.Arguments, Named(tp))
	}
	return ref
}

// InterfaceName returns the name of the interface generated for the class
func (c *ClassDescriptor) InterfaceName() string {
	return "I" + c.Name
}

package models

import (
	"strconv"
	"strings"
)

// TypeKind distinguishes the shapes a TypeReference can take
type TypeKind int

const (
	NamedType TypeKind = iota // Ns.Name or Ns.Name<Args...>, including keywords and type parameters
	ArrayType                 // Element[], Element[,]
	TupleType                 // (A, B) or (A first, B second)
)

// TypeReference is a structural, already-resolved type reference. Names are fully
// qualified; rendering happens only through String.
type TypeReference struct {
	Kind         TypeKind
	Name         string           // qualified name without type arguments (NamedType)
	Container    *TypeReference   // constructed generic type declaring a nested type, e.g. Ns.Outer<int> in Ns.Outer<int>.Inner
	Global       bool             // written with the global:: alias qualifier
	Arguments    []*TypeReference // type arguments (NamedType) or elements (TupleType)
	ElementNames []string         // tuple element names, "" when unnamed
	Element      *TypeReference   // element type (ArrayType)
	Rank         int              // number of array dimensions (ArrayType)
	Nullable     bool             // trailing '?' annotation
	ValueType    bool             // referenced type is a value type
}

// Named creates a named type reference
func Named(name string, args ...*TypeReference) *TypeReference {
	return &TypeReference{Kind: NamedType, Name: name, Arguments: args}
}

// Array creates an array type reference of the given rank
func Array(element *TypeReference, rank int) *TypeReference {
	if rank < 1 {
		rank = 1
	}
	return &TypeReference{Kind: ArrayType, Element: element, Rank: rank}
}

// Tuple creates an unnamed tuple type reference
func Tuple(elements ...*TypeReference) *TypeReference {
	return &TypeReference{Kind: TupleType, Arguments: elements, ElementNames: make([]string, len(elements)), ValueType: true}
}

// AsNullable returns a copy of t annotated as nullable
func (t *TypeReference) AsNullable() *TypeReference {
	c := t.Clone()
	c.Nullable = true
	return c
}

// Arity returns the number of type arguments of a named type
func (t *TypeReference) Arity() int {
	if t == nil || t.Kind != NamedType {
		return 0
	}
	return len(t.Arguments)
}

// IsGeneric reports whether t is a constructed generic named type
func (t *TypeReference) IsGeneric() bool {
	return t.Arity() > 0
}

// IsNullableValueType reports whether t is a value type annotated as nullable, either
// as "T?" or spelled out as System.Nullable<T>.
func (t *TypeReference) IsNullableValueType() bool {
	if t == nil {
		return false
	}
	if t.Kind == NamedType && len(t.Arguments) == 1 && (t.Name == "System.Nullable" || t.Name == "Nullable") {
		return true
	}
	return t.Nullable && t.ValueType
}

// DefinitionKey identifies the generic definition of a named type: the qualified name,
// plus a backtick and the arity for generic types ("Ns.Repo`1"). A nested type is keyed
// under its container ("Ns.Outer`1.Inner"). The global:: qualifier is not part of the
// key. Arrays and tuples have no definition key.
func (t *TypeReference) DefinitionKey() string {
	if t == nil || t.Kind != NamedType {
		return ""
	}
	key := t.Name
	if t.Container != nil {
		key = t.Container.DefinitionKey() + "." + t.Name
	}
	if len(t.Arguments) == 0 {
		return key
	}
	return key + "`" + strconv.Itoa(len(t.Arguments))
}

// IsGlobal reports whether the outermost qualifier of t is global::
func (t *TypeReference) IsGlobal() bool {
	for t != nil && t.Container != nil {
		t = t.Container
	}
	return t != nil && t.Global
}

// Clone returns a deep copy of t
func (t *TypeReference) Clone() *TypeReference {
	if t == nil {
		return nil
	}
	c := *t
	if t.Arguments != nil {
		c.Arguments = make([]*TypeReference, len(t.Arguments))
		for i, arg := range t.Arguments {
			c.Arguments[i] = arg.Clone()
		}
	}
	if t.ElementNames != nil {
		c.ElementNames = append([]string(nil), t.ElementNames...)
	}
	c.Element = t.Element.Clone()
	c.Container = t.Container.Clone()
	return &c
}

// Equal reports structural equality
func (t *TypeReference) Equal(other *TypeReference) bool {
	if t == nil || other == nil {
		return t == other
	}
	if t.Kind != other.Kind || t.Name != other.Name || t.Rank != other.Rank ||
		t.Nullable != other.Nullable || t.Global != other.Global ||
		len(t.Arguments) != len(other.Arguments) || len(t.ElementNames) != len(other.ElementNames) {
		return false
	}
	for i := range t.Arguments {
		if !t.Arguments[i].Equal(other.Arguments[i]) {
			return false
		}
	}
	for i := range t.ElementNames {
		if t.ElementNames[i] != other.ElementNames[i] {
			return false
		}
	}
	return t.Element.Equal(other.Element) && t.Container.Equal(other.Container)
}

// String renders the type as C# display text
func (t *TypeReference) String() string {
	if t == nil {
		return ""
	}
	var b strings.Builder
	t.write(&b)
	return b.String()
}

func (t *TypeReference) write(b *strings.Builder) {
	switch t.Kind {
	case ArrayType:
		t.Element.write(b)
		b.WriteByte('[')
		b.WriteString(strings.Repeat(",", t.Rank-1))
		b.WriteByte(']')
	case TupleType:
		b.WriteByte('(')
		for i, el := range t.Arguments {
			if i > 0 {
				b.WriteString(", ")
			}
			el.write(b)
			if i < len(t.ElementNames) && t.ElementNames[i] != "" {
				b.WriteByte(' ')
				b.WriteString(t.ElementNames[i])
			}
		}
		b.WriteByte(')')
	default:
		if t.Container != nil {
			t.Container.write(b)
			b.WriteByte('.')
		} else if t.Global {
			b.WriteString("global::")
		}
		b.WriteString(t.Name)
		if len(t.Arguments) > 0 {
			b.WriteByte('<')
			for i, arg := range t.Arguments {
				if i > 0 {
					b.WriteString(", ")
				}
				arg.write(b)
			}
			b.WriteByte('>')
		}
	}
	if t.Nullable {
		b.WriteByte('?')
	}
}

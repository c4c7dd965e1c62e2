// Package rewriter substitutes classes that have a generated interface with that
// interface, anywhere they occur inside a type reference.
package rewriter

import "github.com/toyz/ifacegen/internal/models"

// Rewriter rewrites type references against a NameMap snapshot. It holds no mutable
// state and may be shared between goroutines.
type Rewriter struct {
	names NameMap
}

// New creates a rewriter over the given snapshot
func New(names NameMap) *Rewriter {
	return &Rewriter{names: names}
}

// Names returns the snapshot the rewriter resolves against
func (r *Rewriter) Names() NameMap {
	return r.names
}

// Rewrite returns a new reference in which every mapped class, at any depth, is replaced
// by its interface. Type arguments, array elements and tuple elements are rewritten
// before the outer type; the outer type is then looked up by its original definition.
// Nullable annotations and the global:: qualifier are kept as they were. ref itself is
// never modified.
func (r *Rewriter) Rewrite(ref *models.TypeReference) *models.TypeReference {
	return r.rewrite(ref, true)
}

// rewrite copies ref with its arguments rewritten. The container of a nested type only
// has its arguments rewritten: the nested type belongs to the class, not its interface.
func (r *Rewriter) rewrite(ref *models.TypeReference, lookup bool) *models.TypeReference {
	if ref == nil {
		return nil
	}

	out := *ref
	out.Container = r.rewrite(ref.Container, false)
	out.Element = r.Rewrite(ref.Element)
	if ref.Arguments != nil {
		out.Arguments = make([]*models.TypeReference, len(ref.Arguments))
		for i, arg := range ref.Arguments {
			out.Arguments[i] = r.Rewrite(arg)
		}
	}
	if ref.ElementNames != nil {
		out.ElementNames = append([]string(nil), ref.ElementNames...)
	}

	if !lookup {
		return &out
	}
	if name, ok := r.names.Lookup(ref); ok {
		out.Name = name
		out.Global = ref.IsGlobal()
		out.Container = nil
		// interfaces are reference types
		out.ValueType = false
	}
	return &out
}

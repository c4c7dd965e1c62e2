package rewriter

import (
	"fmt"
	"sort"

	"github.com/toyz/ifacegen/internal/errors"
	"github.com/toyz/ifacegen/internal/models"
	"github.com/toyz/ifacegen/internal/typeref"
)

// NameMap is an immutable snapshot mapping a class to the interface generated for it.
// Entries are keyed by generic definition (qualified name plus arity), so a mapped
// generic class is substituted whatever its type arguments are. The zero value is an
// empty map.
type NameMap struct {
	entries map[string]string // definition key -> interface qualified name
	display map[string]struct{} // class display names
}

// Lookup returns the interface name for the definition of ref
func (m NameMap) Lookup(ref *models.TypeReference) (string, bool) {
	key := ref.DefinitionKey()
	if key == "" || m.entries == nil {
		return "", false
	}
	name, ok := m.entries[key]
	return name, ok
}

// Len returns the number of entries
func (m NameMap) Len() int {
	return len(m.entries)
}

// Keys returns the mapped class display names in sorted order, e.g. "Demo.Repository<T>"
func (m NameMap) Keys() []string {
	keys := make([]string, 0, len(m.display))
	for k := range m.display {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Builder accumulates NameMap entries. A Builder is not safe for concurrent use; the
// NameMap it builds is.
type Builder struct {
	parser  *typeref.Parser
	entries map[string]string
	display map[string]struct{}
	errs    *errors.MultipleErrors
}

// NewBuilder creates an empty builder. A nil parser selects the default one.
func NewBuilder(parser *typeref.Parser) *Builder {
	if parser == nil {
		parser = typeref.NewParser()
	}
	return &Builder{
		parser:  parser,
		entries: make(map[string]string),
		display: make(map[string]struct{}),
	}
}

// AddClass registers the interface generated for class under the naming rule
// I + simple name, in the class namespace.
func (b *Builder) AddClass(class *models.ClassDescriptor) *Builder {
	classRef := class.Reference()
	ifaceRef := classRef.Clone()
	ifaceRef.Name = qualify(class.Namespace, class.InterfaceName())
	b.put(classRef, ifaceRef)
	return b
}

// Add registers a mapping given as display text, e.g. "Demo.Repo<T>" -> "Demo.IRepo<T>".
// Both sides must be named types of the same arity.
func (b *Builder) Add(classDisplay, interfaceDisplay string) *Builder {
	classRef, err := b.parser.Parse(classDisplay)
	if err != nil {
		errors.AddToMultiple(&b.errs, errors.WrapParseError(classDisplay, err))
		return b
	}
	ifaceRef, err := b.parser.Parse(interfaceDisplay)
	if err != nil {
		errors.AddToMultiple(&b.errs, errors.WrapParseError(interfaceDisplay, err))
		return b
	}

	switch {
	case classRef.Kind != models.NamedType || ifaceRef.Kind != models.NamedType:
		errors.AddToMultiple(&b.errs, errors.NewValidationError("interface map entry",
			classDisplay+" -> "+interfaceDisplay, "both sides must be named types"))
	case ifaceRef.Container != nil:
		errors.AddToMultiple(&b.errs, errors.NewValidationError("interface map entry",
			classDisplay+" -> "+interfaceDisplay, "the interface cannot be nested in a generic type"))
	case classRef.Nullable || ifaceRef.Nullable:
		errors.AddToMultiple(&b.errs, errors.NewValidationError("interface map entry",
			classDisplay+" -> "+interfaceDisplay, "entries cannot be nullable-annotated"))
	case classRef.Arity() != ifaceRef.Arity():
		errors.AddToMultiple(&b.errs, errors.NewValidationError("interface map entry",
			classDisplay+" -> "+interfaceDisplay,
			fmt.Sprintf("arity mismatch: class has %d type arguments, interface has %d", classRef.Arity(), ifaceRef.Arity())))
	default:
		b.put(classRef, ifaceRef)
	}
	return b
}

func (b *Builder) put(classRef, ifaceRef *models.TypeReference) {
	key := classRef.DefinitionKey()
	if existing, ok := b.entries[key]; ok && existing != ifaceRef.Name {
		errors.AddToMultiple(&b.errs, errors.NewValidationError("interface map entry", classRef.String(),
			fmt.Sprintf("mapped to both %s and %s", existing, ifaceRef.Name)))
		return
	}
	b.entries[key] = ifaceRef.Name
	b.display[classRef.String()] = struct{}{}
}

// Build returns the snapshot, or the collected errors when any entry was rejected
func (b *Builder) Build() (NameMap, error) {
	if b.errs != nil {
		if err := b.errs.ErrOrNil(); err != nil {
			return NameMap{}, err
		}
	}
	m := NameMap{
		entries: make(map[string]string, len(b.entries)),
		display: make(map[string]struct{}, len(b.display)),
	}
	for k, v := range b.entries {
		m.entries[k] = v
	}
	for k := range b.display {
		m.display[k] = struct{}{}
	}
	return m, nil
}

// NewNameMap builds a snapshot from display-text entries
func NewNameMap(entries map[string]string) (NameMap, error) {
	b := NewBuilder(nil)
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.Add(k, entries[k])
	}
	return b.Build()
}

// MustNameMap is like NewNameMap but panics on invalid entries
func MustNameMap(entries map[string]string) NameMap {
	m, err := NewNameMap(entries)
	if err != nil {
		panic(err)
	}
	return m
}

func qualify(namespace, name string) string {
	if namespace == "" {
		return name
	}
	return namespace + "." + name
}

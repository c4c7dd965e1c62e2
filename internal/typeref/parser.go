// Package typeref parses C# type display text into structural type references.
package typeref

import (
	stderrors "errors"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/toyz/ifacegen/internal/errors"
	"github.com/toyz/ifacegen/internal/models"
	"github.com/toyz/ifacegen/internal/utils"
)

// typeExpr is the root of a parsed type: a named type or tuple followed by any number
// of nullable and array suffixes, applied left to right.
type typeExpr struct {
	Tuple    *tupleExpr  `parser:"(  @@"`
	Named    *namedExpr  `parser:" | @@ )"`
	Suffixes []*suffixes `parser:"@@*"`
}

// namedExpr is a dotted name in which any segment may carry type arguments, so types
// nested in a constructed generic (Ns.Outer<int>.Inner) parse too.
type namedExpr struct {
	Global   bool           `parser:"@Global?"`
	Segments []*nameSegment `parser:"@@ ( '.' @@ )*"`
}

type nameSegment struct {
	Name      string      `parser:"@Ident"`
	Arguments []*typeExpr `parser:"( '<' @@ ( ',' @@ )* '>' )?"`
}

type tupleExpr struct {
	Elements []*tupleElement `parser:"'(' @@ ( ',' @@ )+ ')'"`
}

type tupleElement struct {
	Type *typeExpr `parser:"@@"`
	Name string    `parser:"@Ident?"`
}

type suffixes struct {
	Nullable bool      `parser:"  @'?'"`
	Rank     *rankSpec `parser:"| @@"`
}

type rankSpec struct {
	Commas []string `parser:"'[' @','* ']'"`
}

// Parser turns display text into *models.TypeReference values
type Parser struct {
	parser     *participle.Parser[typeExpr]
	valueTypes map[string]bool
	parsed     *utils.Cache[string, *models.TypeReference]
}

// Option configures a Parser
type Option func(*Parser)

// WithValueTypes marks additional qualified names (structs, enums) as value types
func WithValueTypes(names ...string) Option {
	return func(p *Parser) {
		for _, name := range names {
			p.valueTypes[strings.TrimPrefix(name, "global::")] = true
		}
	}
}

// NewParser creates a new type reference parser
func NewParser(opts ...Option) *Parser {
	lex := lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Global", Pattern: `global::`},
		{Name: "Ident", Pattern: `@?[\p{L}_][\p{L}\p{N}_]*`},
		{Name: "Punct", Pattern: `[.,<>()\[\]?]`},
		{Name: "Whitespace", Pattern: `\s+`},
	})

	p := &Parser{
		parser: participle.MustBuild[typeExpr](
			participle.Lexer(lex),
			participle.Elide("Whitespace"),
			participle.UseLookahead(2),
		),
		valueTypes: make(map[string]bool, len(builtinValueTypes)),
		parsed:     utils.NewCache[string, *models.TypeReference](),
	}
	for name := range builtinValueTypes {
		p.valueTypes[name] = true
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var defaultParser = NewParser()

// Parse parses display text with the default parser
func Parse(text string) (*models.TypeReference, error) {
	return defaultParser.Parse(text)
}

// MustParse is like Parse but panics on malformed input
func MustParse(text string) *models.TypeReference {
	ref, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return ref
}

// Parse parses a single type reference such as
// "System.Collections.Generic.Dictionary<string, Demo.Model?>?".
func (p *Parser) Parse(text string) (*models.TypeReference, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, errors.NewSyntaxErrorWithInput("empty type reference", text, 0).
			WithSuggestion("Provide a fully-qualified type name such as 'System.String'")
	}

	ref, err := p.parsed.GetOrCompute(trimmed, func() (*models.TypeReference, error) {
		expr, err := p.parser.ParseString("", trimmed)
		if err != nil {
			offset := 0
			var perr participle.Error
			if stderrors.As(err, &perr) {
				offset = perr.Position().Offset
			}
			return nil, errors.NewSyntaxErrorWithInput(err.Error(), text, offset).
				WithSuggestion("Type references use C# display syntax: Ns.Name, Ns.Name<Arg>, T?, T[], (A, B)")
		}
		return p.convert(expr), nil
	})
	if err != nil {
		return nil, err
	}
	// callers own the returned tree
	return ref.Clone(), nil
}

// CacheStats reports how often display text was served from the parse cache
func (p *Parser) CacheStats() utils.CacheStats {
	return p.parsed.GetStats()
}

func (p *Parser) convert(expr *typeExpr) *models.TypeReference {
	var ref *models.TypeReference
	if expr.Tuple != nil {
		ref = &models.TypeReference{Kind: models.TupleType, ValueType: true}
		for _, el := range expr.Tuple.Elements {
			ref.Arguments = append(ref.Arguments, p.convert(el.Type))
			ref.ElementNames = append(ref.ElementNames, el.Name)
		}
	} else {
		ref = p.convertNamed(expr.Named)
	}

	for _, s := range expr.Suffixes {
		if s.Nullable {
			ref.Nullable = true
			continue
		}
		ref = models.Array(ref, len(s.Rank.Commas)+1)
	}
	return ref
}

// convertNamed folds dotted segments into one name until a segment carries type
// arguments; that constructed type becomes the container of whatever follows.
func (p *Parser) convertNamed(expr *namedExpr) *models.TypeReference {
	var ref *models.TypeReference
	var parts []string

	for i, seg := range expr.Segments {
		parts = append(parts, seg.Name)
		if len(seg.Arguments) == 0 && i < len(expr.Segments)-1 {
			continue
		}

		next := &models.TypeReference{
			Kind:      models.NamedType,
			Name:      strings.Join(parts, "."),
			Container: ref,
		}
		if ref == nil {
			next.Global = expr.Global
			next.ValueType = p.valueTypes[next.Name]
		}
		for _, arg := range seg.Arguments {
			next.Arguments = append(next.Arguments, p.convert(arg))
		}
		if next.IsNullableValueType() {
			next.ValueType = true
		}
		ref = next
		parts = nil
	}
	return ref
}

// builtinValueTypes are the C# keyword and System aliases that denote value types
var builtinValueTypes = map[string]bool{
	"bool": true, "byte": true, "sbyte": true, "char": true, "decimal": true,
	"double": true, "float": true, "int": true, "uint": true, "nint": true,
	"nuint": true, "long": true, "ulong": true, "short": true, "ushort": true,
	"System.Boolean": true, "System.Byte": true, "System.SByte": true, "System.Char": true,
	"System.Decimal": true, "System.Double": true, "System.Single": true, "System.Int32": true,
	"System.UInt32": true, "System.IntPtr": true, "System.UIntPtr": true, "System.Int64": true,
	"System.UInt64": true, "System.Int16": true, "System.UInt16": true,
	"System.DateTime": true, "System.DateTimeOffset": true, "System.TimeSpan": true,
	"System.Guid": true,
}

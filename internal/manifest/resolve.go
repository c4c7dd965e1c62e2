package manifest

import (
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/toyz/ifacegen/internal/errors"
	"github.com/toyz/ifacegen/internal/models"
	"github.com/toyz/ifacegen/internal/projector"
	"github.com/toyz/ifacegen/internal/rewriter"
	"github.com/toyz/ifacegen/internal/typeref"
)

// Options controls how manifests are resolved
type Options struct {
	// EscapeKeywords prefixes identifiers that are C# keywords with '@' instead of
	// letting projection reject them.
	EscapeKeywords bool
	// ValueTypes are additional struct or enum names, on top of those in the manifests
	ValueTypes []string
}

// Unit is everything one generation pass needs
type Unit struct {
	Classes []*models.ClassDescriptor // classes to generate, in manifest order
	Names   rewriter.NameMap
	Skipped int // members dropped as ineligible
}

// Resolver converts manifests into a Unit
type Resolver struct {
	logger *zap.Logger
	opts   Options
}

// NewResolver creates a resolver; a nil logger disables logging
func NewResolver(logger *zap.Logger, opts Options) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{logger: logger.Named("manifest"), opts: opts}
}

// Resolve builds the generation unit for manifests. Classes that opt out of generation
// are neither mapped nor returned. All problems are reported together.
func (r *Resolver) Resolve(manifests ...*Manifest) (*Unit, error) {
	valueTypes := append([]string(nil), r.opts.ValueTypes...)
	for _, m := range manifests {
		valueTypes = append(valueTypes, m.ValueTypes...)
	}
	parser := typeref.NewParser(typeref.WithValueTypes(valueTypes...))

	var errs *errors.MultipleErrors
	unit := &Unit{}
	names := rewriter.NewBuilder(parser)
	seen := make(map[string]errors.SourceLocation)

	for _, m := range manifests {
		if semverNewer(m.Schema) {
			r.logger.Warn("manifest schema is newer than supported",
				zap.String("file", m.Path), zap.String("schema", m.Schema))
		}

		for i := range m.Classes {
			c := &m.Classes[i]
			loc := errors.SourceLocation{File: m.Path, Line: c.Line, Symbol: qualify(c.Namespace, c.Name)}

			if prev, dup := seen[loc.Symbol]; dup {
				errors.AddToMultiple(&errs, errors.ManifestError(loc, "class %s is already declared at %s", loc.Symbol, prev))
				continue
			}
			seen[loc.Symbol] = loc

			if !c.ShouldGenerate() {
				r.logger.Debug("class opted out of generation", zap.String("class", loc.Symbol))
				continue
			}

			class, skipped, err := r.classDescriptor(parser, m.Path, c)
			unit.Skipped += skipped
			if err != nil {
				addAll(&errs, err)
				continue
			}
			unit.Classes = append(unit.Classes, class)
			names.AddClass(class)
		}

		classes := make([]string, 0, len(m.Interfaces))
		for class := range m.Interfaces {
			classes = append(classes, class)
		}
		slices.Sort(classes)
		for _, class := range classes {
			names.Add(class, m.Interfaces[class])
		}
	}

	built, err := names.Build()
	if err != nil {
		addAll(&errs, err)
	}
	if errs != nil {
		return nil, errs.ErrOrNil()
	}
	unit.Names = built

	r.logger.Debug("manifests resolved",
		zap.Int("manifests", len(manifests)),
		zap.Int("classes", len(unit.Classes)),
		zap.Int("mapped", built.Len()),
		zap.Strings("mapped_classes", built.Keys()),
		zap.Int("skipped_members", unit.Skipped),
		zap.Int64("type_cache_hits", parser.CacheStats().Hits))
	return unit, nil
}

func (r *Resolver) classDescriptor(parser *typeref.Parser, path string, c *Class) (*models.ClassDescriptor, int, error) {
	var errs *errors.MultipleErrors
	loc := errors.SourceLocation{File: path, Line: c.Line, Symbol: qualify(c.Namespace, c.Name)}

	class := &models.ClassDescriptor{
		Name:      c.Name,
		Namespace: c.Namespace,
	}
	class.TypeParameters, class.Constraints = r.typeParameters(parser, loc, c.TypeParameters, &errs)

	skipped := 0
	for _, member := range c.Members {
		memberLoc := errors.SourceLocation{File: path, Line: member.Line, Symbol: loc.Symbol + "." + member.Name}

		if ok, reason := Eligible(member); !ok {
			skipped++
			r.logger.Debug("skipping ineligible member",
				zap.String("class", loc.Symbol),
				zap.String("member", member.Name),
				zap.String("reason", reason))
			continue
		}

		switch member.Kind {
		case KindMethod:
			if m := r.method(parser, memberLoc, member, &errs); m != nil {
				class.Members = append(class.Members, m)
			}
		case KindProperty:
			if p := r.property(parser, memberLoc, member, &errs); p != nil {
				class.Members = append(class.Members, p)
			}
		}
	}

	if errs != nil {
		return nil, skipped, errs.ErrOrNil()
	}
	return class, skipped, nil
}

func (r *Resolver) method(parser *typeref.Parser, loc errors.SourceLocation, member Member, errs **errors.MultipleErrors) *models.Method {
	m := &models.Method{Name: r.ident(member.Name)}
	ok := true

	returns := member.Returns
	if returns == "" {
		returns = "void"
	}
	m.ReturnType, ok = parseType(parser, loc, "return type", returns, errs)

	m.TypeParameters, m.Constraints = r.typeParameters(parser, loc, member.TypeParameters, errs)

	for _, p := range member.Parameters {
		param := models.Parameter{Name: r.ident(p.Name), Optional: p.Optional}

		typ, parsed := parseType(parser, loc, "parameter "+p.Name, p.Type, errs)
		param.Type = typ
		ok = ok && parsed

		modifier, valid := models.ParseParameterModifier(p.Modifier)
		if !valid {
			ok = false
			errors.AddToMultiple(errs, errors.NewValidationError("parameter modifier", p.Modifier,
				"must be one of ref, out, in or params").WithLocation(loc))
		}
		param.Modifier = modifier

		switch p.Default {
		case "":
		case "default":
			param.Default = models.DefaultLiteralDefault
		case "null":
			param.Default = models.DefaultLiteralNull
		default:
			ok = false
			errors.AddToMultiple(errs, errors.NewValidationError("parameter default", p.Default,
				"must be 'default' or 'null'").WithLocation(loc))
		}
		m.Parameters = append(m.Parameters, param)
	}

	if !ok {
		return nil
	}
	return m
}

func (r *Resolver) property(parser *typeref.Parser, loc errors.SourceLocation, member Member, errs **errors.MultipleErrors) *models.Property {
	typ, ok := parseType(parser, loc, "property type", member.Type, errs)
	if !ok {
		return nil
	}
	return &models.Property{
		Name:      r.ident(member.Name),
		Type:      typ,
		HasSetter: member.Setter == "public",
	}
}

func (r *Resolver) typeParameters(parser *typeref.Parser, loc errors.SourceLocation, params []TypeParameter, errs **errors.MultipleErrors) ([]string, []models.TypeConstraint) {
	var names []string
	var constraints []models.TypeConstraint

	for _, tp := range params {
		name := r.ident(tp.Name)
		names = append(names, name)

		constraint := models.TypeConstraint{Parameter: name}
		for _, text := range tp.Constraints {
			if typ, ok := parseType(parser, loc, "constraint of "+tp.Name, text, errs); ok {
				constraint.Types = append(constraint.Types, typ)
			}
		}
		for _, s := range tp.Special {
			special, ok := models.ParseSpecialConstraint(s)
			if !ok {
				errors.AddToMultiple(errs, errors.NewValidationError("special constraint", s,
					"must be one of class, struct, notnull, unmanaged or new()").WithLocation(loc))
				continue
			}
			constraint.Special = append(constraint.Special, special)
		}
		if !constraint.IsEmpty() {
			constraints = append(constraints, constraint)
		}
	}
	return names, constraints
}

func (r *Resolver) ident(name string) string {
	if r.opts.EscapeKeywords {
		return projector.EscapeIdentifier(name)
	}
	return name
}

// Eligible reports whether a member is projected onto the interface, and why not
func Eligible(m Member) (bool, string) {
	switch {
	case m.Kind != KindMethod && m.Kind != KindProperty:
		return false, fmt.Sprintf("%s members are not projected", kindName(m.Kind))
	case m.Accessibility != "public":
		return false, fmt.Sprintf("accessibility is %s", accessibilityName(m.Accessibility))
	case m.Static:
		return false, "member is static"
	}
	return true, ""
}

func kindName(kind string) string {
	if kind == "" {
		return "untyped"
	}
	return kind
}

func accessibilityName(accessibility string) string {
	if accessibility == "" {
		return "private"
	}
	return accessibility
}

func parseType(parser *typeref.Parser, loc errors.SourceLocation, what, text string, errs **errors.MultipleErrors) (*models.TypeReference, bool) {
	if text == "" {
		errors.AddToMultiple(errs, errors.NewValidationError(what, text, "is missing").WithLocation(loc))
		return nil, false
	}
	typ, err := parser.Parse(text)
	if err != nil {
		var syntaxErr *errors.SyntaxError
		if errors.As(err, &syntaxErr) {
			syntaxErr.WithLocation(loc)
			errors.AddToMultiple(errs, syntaxErr)
		} else {
			errors.AddToMultiple(errs, errors.WrapParseError(what, err))
		}
		return nil, false
	}
	return typ, true
}

func qualify(namespace, name string) string {
	if namespace == "" {
		return name
	}
	return namespace + "." + name
}

// addAll flattens err into errs
func addAll(errs **errors.MultipleErrors, err error) {
	var multi *errors.MultipleErrors
	if errors.As(err, &multi) {
		for _, e := range multi.Errors {
			errors.AddToMultiple(errs, e)
		}
		return
	}
	var iface errors.IfaceError
	if errors.As(err, &iface) {
		errors.AddToMultiple(errs, iface)
		return
	}
	errors.AddToMultiple(errs, errors.Wrap(errors.ManifestErrorCode, "manifest resolution failed", err))
}

// Package templates renders interface specifications as C# source files.
package templates

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/toyz/ifacegen/internal/errors"
	"github.com/toyz/ifacegen/internal/models"
)

// AutoGeneratedMarker is the first line of every generated unit
const AutoGeneratedMarker = "// <auto-generated/>"

// Options controls the shape of the emitted declaration
type Options struct {
	Accessibility string // "public" or "internal"
	Partial       bool
	Extension     string // file extension without the dot
}

// DefaultOptions returns the options used when nothing is configured
func DefaultOptions() Options {
	return Options{Accessibility: "public", Extension: "cs"}
}

// InterfaceData represents data needed for interface generation
type InterfaceData struct {
	Namespace   string
	Declaration string
	Constraints []string
	Members     []MemberData
}

// MemberData represents one member line in the interface body
type MemberData struct {
	Signature   string
	Constraints []string
	Property    bool
}

// Renderer turns InterfaceSpecs into source text. Templates are parsed once; a
// Renderer is safe for concurrent use.
type Renderer struct {
	tmpl  *template.Template
	utils *TemplateUtils
	opts  Options
}

// NewRenderer parses the registered templates and validates opts
func NewRenderer(opts Options) (*Renderer, error) {
	if opts.Accessibility == "" {
		opts.Accessibility = "public"
	}
	if opts.Accessibility != "public" && opts.Accessibility != "internal" {
		return nil, errors.NewValidationError("accessibility", opts.Accessibility, "must be 'public' or 'internal'")
	}
	opts.Extension = strings.TrimPrefix(opts.Extension, ".")
	if opts.Extension == "" {
		opts.Extension = "cs"
	}

	registry := NewTemplateRegistry()
	root := template.New("unit")
	for _, name := range registry.Names() {
		t := root
		if name != root.Name() {
			t = root.New(name)
		}
		if _, err := t.Parse(registry.MustGet(name)); err != nil {
			return nil, errors.WrapTemplateError(name, "parse", err)
		}
	}

	return &Renderer{tmpl: root, utils: NewTemplateUtils(), opts: opts}, nil
}

// Options returns the effective renderer options
func (r *Renderer) Options() Options {
	return r.opts
}

// Render emits the complete source text for spec
func (r *Renderer) Render(spec *models.InterfaceSpec) ([]byte, error) {
	if spec == nil {
		return nil, errors.NewValidationError("interface", nil, "specification is nil")
	}

	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "unit", r.interfaceData(spec)); err != nil {
		return nil, errors.WrapTemplateError("unit", "execute", err)
	}
	return buf.Bytes(), nil
}

// Unit renders spec into a generated unit named after the interface
func (r *Renderer) Unit(spec *models.InterfaceSpec) (*models.GeneratedUnit, error) {
	content, err := r.Render(spec)
	if err != nil {
		if spec == nil {
			return nil, err
		}
		return nil, errors.WrapGenerateError("render", spec.Name, err)
	}
	return &models.GeneratedUnit{
		HintName:      HintName(spec.Name, r.opts.Extension),
		InterfaceName: spec.QualifiedName(),
		SourceClass:   spec.SourceClass,
		Content:       content,
	}, nil
}

func (r *Renderer) interfaceData(spec *models.InterfaceSpec) InterfaceData {
	data := InterfaceData{
		Namespace:   spec.Namespace,
		Declaration: r.utils.Declaration(spec, r.opts.Accessibility, r.opts.Partial),
		Constraints: r.utils.ConstraintClauses(spec.Constraints),
		Members:     make([]MemberData, 0, len(spec.Members)),
	}

	for _, member := range spec.Members {
		switch m := member.(type) {
		case *models.InterfaceMethod:
			data.Members = append(data.Members, MemberData{
				Signature:   r.utils.MethodSignature(m),
				Constraints: r.utils.ConstraintClauses(m.Constraints),
			})
		case *models.InterfaceProperty:
			data.Members = append(data.Members, MemberData{
				Signature: r.utils.PropertySignature(m),
				Property:  true,
			})
		}
	}
	return data
}

// HintName returns the unit name for an interface, e.g. "IClass1.g.cs"
func HintName(interfaceName, extension string) string {
	return fmt.Sprintf("%s.g.%s", interfaceName, strings.TrimPrefix(extension, "."))
}

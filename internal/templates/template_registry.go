package templates

// TemplateRegistry provides a centralized way to access all templates
type TemplateRegistry struct {
	templates map[string]string
}

// NewTemplateRegistry creates a new template registry with all templates
func NewTemplateRegistry() *TemplateRegistry {
	registry := &TemplateRegistry{
		templates: make(map[string]string),
	}

	registry.registerUnitTemplates()
	registry.registerMemberTemplates()

	return registry
}

// Get retrieves a template by name
func (tr *TemplateRegistry) Get(name string) (string, bool) {
	template, exists := tr.templates[name]
	return template, exists
}

// MustGet retrieves a template by name, panics if not found
func (tr *TemplateRegistry) MustGet(name string) string {
	template, exists := tr.templates[name]
	if !exists {
		panic("template not found: " + name)
	}
	return template
}

// Names returns the registered template names
func (tr *TemplateRegistry) Names() []string {
	names := make([]string, 0, len(tr.templates))
	for name := range tr.templates {
		names = append(names, name)
	}
	return names
}

// registerUnitTemplates registers the file level templates
func (tr *TemplateRegistry) registerUnitTemplates() {
	// Trivia that marks the file as generated and silences analyzers
	tr.templates["header"] = `// <auto-generated/>
#pragma warning disable
#nullable enable
`

	tr.templates["unit"] = `{{template "header" .}}{{if .Namespace}}namespace {{.Namespace}};
{{end}}{{template "interface" .}}`

	tr.templates["interface"] = `{{.Declaration}}{{range .Constraints}}
    {{.}}{{end}}
{
{{range .Members}}{{if .Property}}{{template "property" .}}{{else}}{{template "method" .}}{{end}}{{end}}}
`
}

// registerMemberTemplates registers the member declaration templates
func (tr *TemplateRegistry) registerMemberTemplates() {
	tr.templates["method"] = `    {{.Signature}}{{range .Constraints}}
        {{.}}{{end}};
`

	tr.templates["property"] = `    {{.Signature}}
`
}

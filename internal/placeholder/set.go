package placeholder

import (
	"fmt"
	"sort"
	"text/template"

	"github.com/projectkit/projectkit/internal/manifest"
)

// Well-known placeholder names used by the built-in templates.
const (
	ProjectName       = "ProjectName"
	BundleIdentifier  = "BundleIdentifier"
	FeatureModuleName = "FeatureModuleName"
)

// Placeholder is one token in a template and the rules for its value.
type Placeholder struct {
	Name     string // symbolic name, e.g., "ProjectName"
	Token    string // literal text in the template, e.g., "MyProject"
	Format   string // manifest.FormatIdentifier, FormatReverseDNS or FormatText
	Required bool
	Default  string // text/template expression over earlier values and BundlePrefix

	Description string

	defaultTmpl *template.Template
}

// Set is an ordered, validated collection of placeholders.
type Set struct {
	placeholders []Placeholder
	byName       map[string]int
}

// DefaultSet returns the placeholders of the iOS app template.
func DefaultSet() *Set {
	s, err := NewSet([]Placeholder{
		{Name: ProjectName, Token: "MyProject", Format: manifest.FormatIdentifier, Required: true},
		{Name: BundleIdentifier, Token: "com.example.MyProject", Format: manifest.FormatReverseDNS,
			Default: "{{.BundlePrefix}}.{{bundleSafe .ProjectName}}"},
		{Name: FeatureModuleName, Token: "MyProjectFeature", Format: manifest.FormatIdentifier,
			Default: "{{.ProjectName}}Feature"},
	})
	if err != nil {
		panic(err)
	}
	return s
}

// SetFromManifest builds the placeholder set a manifest declares. A nil
// manifest yields DefaultSet.
func SetFromManifest(m *manifest.TemplateManifest) (*Set, error) {
	if m == nil || len(m.Placeholders) == 0 {
		return DefaultSet(), nil
	}
	ps := make([]Placeholder, 0, len(m.Placeholders))
	for _, spec := range m.Placeholders {
		ps = append(ps, Placeholder{
			Name:     spec.Name,
			Token:    spec.Token,
			Format:   spec.Format,
			Required: spec.Required,
			Default:  spec.Default,

			Description: spec.Description,
		})
	}
	s, err := NewSet(ps)
	if err != nil {
		return nil, fmt.Errorf("template %s: %w", m.Name, err)
	}
	return s, nil
}

// NewSet validates the set invariants: names and tokens are non-empty and
// pairwise distinct, formats are known and defaults parse.
func NewSet(ps []Placeholder) (*Set, error) {
	s := &Set{byName: make(map[string]int, len(ps))}
	tokens := make(map[string]string, len(ps))

	for i, p := range ps {
		if p.Name == "" {
			return nil, fmt.Errorf("placeholder %d has no name", i)
		}
		if p.Token == "" {
			return nil, fmt.Errorf("placeholder %s has an empty token", p.Name)
		}
		if _, dup := s.byName[p.Name]; dup {
			return nil, fmt.Errorf("placeholder %s is declared twice", p.Name)
		}
		if other, dup := tokens[p.Token]; dup {
			return nil, fmt.Errorf("placeholders %s and %s share the token %q", other, p.Name, p.Token)
		}
		if p.Format == "" {
			p.Format = manifest.FormatText
		}
		if !knownFormat(p.Format) {
			return nil, fmt.Errorf("placeholder %s has unknown format %q", p.Name, p.Format)
		}
		if p.Default != "" {
			tmpl, err := template.New(p.Name).Funcs(defaultFuncs).Option("missingkey=error").Parse(p.Default)
			if err != nil {
				return nil, fmt.Errorf("placeholder %s: parsing default: %w", p.Name, err)
			}
			p.defaultTmpl = tmpl
		}

		tokens[p.Token] = p.Name
		s.byName[p.Name] = len(s.placeholders)
		s.placeholders = append(s.placeholders, p)
	}

	if len(s.placeholders) == 0 {
		return nil, fmt.Errorf("placeholder set is empty")
	}
	return s, nil
}

// Placeholders returns the placeholders in declaration order.
func (s *Set) Placeholders() []Placeholder {
	out := make([]Placeholder, len(s.placeholders))
	copy(out, s.placeholders)
	return out
}

// Lookup returns the placeholder with the given name.
func (s *Set) Lookup(name string) (Placeholder, bool) {
	i, ok := s.byName[name]
	if !ok {
		return Placeholder{}, false
	}
	return s.placeholders[i], true
}

// Tokens returns every token, longest first. Ties keep declaration order.
func (s *Set) Tokens() []string {
	ps := s.byTokenLength()
	tokens := make([]string, len(ps))
	for i, p := range ps {
		tokens[i] = p.Token
	}
	return tokens
}

func (s *Set) byTokenLength() []Placeholder {
	ps := s.Placeholders()
	sort.SliceStable(ps, func(i, j int) bool {
		return len(ps[i].Token) > len(ps[j].Token)
	})
	return ps
}

package manifest

// FileName is the manifest file expected at the root of every template.
const FileName = "template.yaml"

// Placeholder formats understood by the resolver.
const (
	FormatIdentifier = "identifier"
	FormatReverseDNS = "reverse-dns"
	FormatText       = "text"
)

// TemplateManifest describes a template tree.
type TemplateManifest struct {
	Name             string            `yaml:"name" json:"name"`
	Version          string            `yaml:"version" json:"version"`
	Description      string            `yaml:"description,omitempty" json:"description,omitempty"`
	MinCLIVersion    string            `yaml:"min_cli_version,omitempty" json:"min_cli_version,omitempty"`
	Placeholders     []PlaceholderSpec `yaml:"placeholders" json:"placeholders"`
	BinaryExtensions []string          `yaml:"binary_extensions,omitempty" json:"binary_extensions,omitempty"`
	Exclude          []string          `yaml:"exclude,omitempty" json:"exclude,omitempty"`
	Executable       []string          `yaml:"executable,omitempty" json:"executable,omitempty"`
}

// PlaceholderSpec declares one token in the template and how the value that
// replaces it is validated and defaulted.
type PlaceholderSpec struct {
	Name        string `yaml:"name" json:"name"`
	Token       string `yaml:"token" json:"token"`
	Format      string `yaml:"format,omitempty" json:"format,omitempty"`
	Required    bool   `yaml:"required,omitempty" json:"required,omitempty"`
	Default     string `yaml:"default,omitempty" json:"default,omitempty"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

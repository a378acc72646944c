// Package templates provides read-only, ordered access to template trees.
// A template is a directory whose files and paths contain placeholder tokens,
// optionally described by a template.yaml manifest at its root. Templates are
// either built into the binary (see BuiltinNames) or discovered in user template
// directories (see Discover).
package templates

// Package manifest handles parsing and validation of template manifests
// (template.yaml). A manifest names a template, declares its placeholder
// tokens and how they are validated, lists file extensions that must be
// copied byte-for-byte, and lists paths excluded from output. Manifests are
// validated against an embedded JSON Schema before use.
package manifest

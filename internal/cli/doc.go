// Package cli defines the Cobra command tree for the projectkit CLI. Each
// file registers one top-level command (create, templates, config, version)
// with the root command. Commands delegate to internal packages and only
// handle flags, output formatting and error reporting.
package cli

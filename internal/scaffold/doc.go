// Package scaffold materializes a new project from a template. It rewrites
// every placeholder token in path names and text file contents, copies
// binary files verbatim, and writes the result under an output directory.
// It powers the "projectkit create" command.
package scaffold

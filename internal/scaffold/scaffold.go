package scaffold

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/projectkit/projectkit/internal/logging"
	"github.com/projectkit/projectkit/internal/placeholder"
	"github.com/projectkit/projectkit/internal/platform"
	"github.com/projectkit/projectkit/internal/templates"
)

// PlannedEntry is a template entry and the output path it will be written to.
type PlannedEntry struct {
	templates.Entry
	OutputPath string // slash-separated, relative to the output directory
}

// Result holds the outcome of a scaffold generation.
type Result struct {
	Template     string
	OutputDir    string
	Files        []string       // output paths of written files, in template order
	Dirs         int            // directories created below OutputDir
	Substituted  int            // text files whose content changed
	Binary       int            // files copied verbatim
	Replacements map[string]int // token → occurrences replaced in names and contents
	DryRun       bool

	// Resolved holds the values the output was generated with.
	Resolved *placeholder.Resolved
}

// Plan maps every template entry to its output path without writing
// anything. It fails if a substituted path is invalid or if two entries
// would land on the same output path.
func Plan(store templates.Store, resolved *placeholder.Resolved) ([]PlannedEntry, error) {
	return plan(store, newSubstituter(resolved.Pairs()))
}

func plan(store templates.Store, sub *substituter) ([]PlannedEntry, error) {
	entries, err := store.ListEntries()
	if err != nil {
		return nil, err
	}

	planned := make([]PlannedEntry, 0, len(entries))
	seen := make(map[string]string, len(entries))
	for _, e := range entries {
		out, err := sub.rewritePath(e.Path)
		if err != nil {
			return nil, err
		}
		if prev, dup := seen[out]; dup {
			return nil, fmt.Errorf("%w: %s and %s both become %s", ErrPathCollision, prev, e.Path, out)
		}
		seen[out] = e.Path
		planned = append(planned, PlannedEntry{Entry: e, OutputPath: out})
	}
	return planned, nil
}

// Generate writes the substituted template into outputDir, which must be
// absent or an empty directory. Entries are written in store order. The
// first failure aborts with a *WriteError; nothing is rolled back.
func Generate(ctx context.Context, store templates.Store, resolved *placeholder.Resolved, outputDir string) (*Result, error) {
	log := logging.FromContext(ctx)
	sub := newSubstituter(resolved.Pairs())

	planned, err := plan(store, sub)
	if err != nil {
		return nil, err
	}

	if err := checkOutputDir(outputDir); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(outputDir, platform.DirMode); err != nil {
		return nil, &WriteError{Path: outputDir, OutputDir: outputDir, Err: err}
	}

	result := &Result{
		Template:  store.Name(),
		OutputDir: outputDir,
		Resolved:  resolved,
	}

	for _, p := range planned {
		if err := ctx.Err(); err != nil {
			return nil, &WriteError{Path: p.OutputPath, OutputDir: outputDir, Partial: true, Err: err}
		}

		dst := filepath.Join(outputDir, filepath.FromSlash(p.OutputPath))

		if p.IsDir {
			if err := os.MkdirAll(dst, p.Mode); err != nil {
				return nil, &WriteError{Path: dst, OutputDir: outputDir, Partial: true, Err: err}
			}
			result.Dirs++
			continue
		}

		data := p.Content
		if p.IsBinary {
			result.Binary++
		} else {
			text := sub.Replace(string(p.Content))
			if text != string(p.Content) {
				result.Substituted++
			}
			data = []byte(text)
		}

		if err := writeFile(dst, data, p.Mode); err != nil {
			return nil, &WriteError{Path: dst, OutputDir: outputDir, Partial: true, Err: err}
		}
		log.Debug("wrote file", "template_path", p.Path, "path", p.OutputPath, "binary", p.IsBinary)
		result.Files = append(result.Files, p.OutputPath)
	}

	result.Replacements = sub.Counts()
	log.Info("scaffold complete", "template", result.Template, "output", outputDir,
		"files", len(result.Files), "substituted", result.Substituted, "binary", result.Binary)
	return result, nil
}

// checkOutputDir rejects an output path that exists and is not an empty directory.
func checkOutputDir(outputDir string) error {
	info, err := os.Stat(outputDir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return &WriteError{Path: outputDir, OutputDir: outputDir, Err: err}
	}
	if !info.IsDir() {
		return &WriteError{Path: outputDir, OutputDir: outputDir, Err: errors.New("exists and is not a directory")}
	}
	entries, err := os.ReadDir(outputDir)
	if err != nil {
		return &WriteError{Path: outputDir, OutputDir: outputDir, Err: err}
	}
	if len(entries) > 0 {
		return &WriteError{Path: outputDir, OutputDir: outputDir,
			Err: fmt.Errorf("output directory is not empty; remove existing files first")}
	}
	return nil
}

// writeFile writes data and then applies mode explicitly, since the mode
// passed to os.WriteFile is filtered by the umask.
func writeFile(dst string, data []byte, mode fs.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(dst), platform.DirMode); err != nil {
		return err
	}
	if err := os.WriteFile(dst, data, mode); err != nil {
		return err
	}
	return platform.Chmod(dst, mode)
}

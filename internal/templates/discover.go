package templates

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/projectkit/projectkit/internal/manifest"
)

// SourceBuiltin marks templates compiled into the binary.
const SourceBuiltin = "builtin"

// Info describes an available template.
type Info struct {
	Name        string
	Version     string
	Description string
	Source      string // SourceBuiltin or the directory it was found in
	Root        string // template root as shown to users
}

// Discover lists the built-in templates followed by templates found as
// <dir>/<name>/template.yaml in each of dirs. Built-ins take priority, then
// earlier directories; later duplicates are skipped. Inaccessible directories
// are ignored.
func Discover(dirs []string) []Info {
	seen := make(map[string]bool)
	var result []Info

	for _, name := range BuiltinNames() {
		seen[name] = true
		info := Info{Name: name, Source: SourceBuiltin, Root: "builtin:" + name}
		if s, err := OpenBuiltin(name); err == nil {
			enrich(&info, s)
		}
		result = append(result, info)
	}

	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if !e.IsDir() || seen[e.Name()] {
				continue
			}
			root := filepath.Join(dir, e.Name())
			if !hasManifest(root) {
				continue
			}
			seen[e.Name()] = true
			info := Info{Name: e.Name(), Source: dir, Root: root}
			enrich(&info, NewDirStore(root))
			result = append(result, info)
		}
	}

	return result
}

// Open returns the store for the named template, searching built-ins first
// and then dirs in order. As in Discover, a user template directory counts
// only if it has a template.yaml.
func Open(name string, dirs []string) (Store, error) {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return nil, &NotFoundError{Template: name}
	}
	if s, err := OpenBuiltin(name); err == nil {
		return s, nil
	}

	var bare string
	for _, dir := range dirs {
		root := filepath.Join(dir, name)
		if hasManifest(root) {
			return NewDirStore(root), nil
		}
		if info, err := os.Stat(root); err == nil && info.IsDir() && bare == "" {
			bare = root
		}
	}
	if bare != "" {
		return nil, &NotFoundError{Template: name, Root: bare, Err: fmt.Errorf("no %s", manifest.FileName)}
	}
	return nil, &NotFoundError{Template: name}
}

func hasManifest(root string) bool {
	info, err := os.Stat(filepath.Join(root, manifest.FileName))
	return err == nil && info.Mode().IsRegular()
}

// enrich fills metadata from the template manifest when it parses.
func enrich(info *Info, s Store) {
	m, err := s.Manifest()
	if err != nil || m == nil {
		return
	}
	info.Version = m.Version
	info.Description = m.Description
}

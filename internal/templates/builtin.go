package templates

import (
	"embed"
	"io/fs"
	"path"
	"sort"
)

//go:embed all:builtin
var builtinFS embed.FS

const builtinRoot = "builtin"

// BuiltinNames returns the names of the templates compiled into the binary,
// sorted.
func BuiltinNames() []string {
	entries, err := fs.ReadDir(builtinFS, builtinRoot)
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names
}

// OpenBuiltin returns the store for a built-in template.
func OpenBuiltin(name string) (*FSStore, error) {
	root := path.Join(builtinRoot, name)
	if info, err := fs.Stat(builtinFS, root); err != nil || !info.IsDir() {
		return nil, &NotFoundError{Template: name}
	}
	s := NewFSStore(name, builtinFS, root)
	s.displayRoot = "builtin:" + name
	return s, nil
}

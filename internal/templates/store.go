package templates

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/projectkit/projectkit/internal/manifest"
	"github.com/projectkit/projectkit/internal/platform"
)

// excludedNames are never listed, whatever the manifest says.
var excludedNames = map[string]bool{
	".DS_Store":  true,
	".git":       true,
	"xcuserdata": true,
}

// Entry is one file or directory of a template tree.
type Entry struct {
	Path     string      // slash-separated, relative to the template root
	IsDir    bool        // directory entries carry no content
	Content  []byte      // file bytes, exactly as stored
	Mode     fs.FileMode // 0755 for directories and executables, else 0644
	IsBinary bool        // binary files are never substituted
}

// Store gives ordered, read-only access to a template tree.
type Store interface {
	// Name identifies the template (e.g., "ios-app").
	Name() string
	// Manifest returns the template's manifest, or nil if it has none.
	Manifest() (*manifest.TemplateManifest, error)
	// ListEntries returns every entry below the root in lexical path order;
	// a directory always precedes its contents.
	ListEntries() ([]Entry, error)
}

// FSStore is a Store over an fs.FS rooted at a directory inside it.
type FSStore struct {
	name        string
	fsys        fs.FS
	root        string
	displayRoot string

	manifest       *manifest.TemplateManifest
	manifestLoaded bool
	manifestErr    error
}

// NewFSStore returns a store for the template at root inside fsys. No I/O
// happens until Manifest or ListEntries is called.
func NewFSStore(name string, fsys fs.FS, root string) *FSStore {
	return &FSStore{
		name:        name,
		fsys:        fsys,
		root:        root,
		displayRoot: root,
	}
}

// NewDirStore returns a store for the template directory dir on disk.
func NewDirStore(dir string) *FSStore {
	s := NewFSStore(filepath.Base(dir), os.DirFS(dir), ".")
	s.displayRoot = dir
	return s
}

// Name implements Store.
func (s *FSStore) Name() string { return s.name }

// Root returns the template root as shown to users.
func (s *FSStore) Root() string { return s.displayRoot }

// Manifest implements Store. A template without template.yaml has a nil
// manifest; a malformed template.yaml is an error.
func (s *FSStore) Manifest() (*manifest.TemplateManifest, error) {
	if s.manifestLoaded {
		return s.manifest, s.manifestErr
	}
	s.manifestLoaded = true

	if err := s.checkRoot(); err != nil {
		s.manifestErr = err
		return nil, err
	}

	name := path.Join(s.root, manifest.FileName)
	if _, err := fs.Stat(s.fsys, name); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		s.manifestErr = fmt.Errorf("reading manifest for template %s: %w", s.name, err)
		return nil, s.manifestErr
	}

	s.manifest, s.manifestErr = manifest.LoadFS(s.fsys, name)
	return s.manifest, s.manifestErr
}

// ListEntries implements Store.
func (s *FSStore) ListEntries() ([]Entry, error) {
	m, err := s.Manifest()
	if err != nil {
		return nil, err
	}

	var binaryExts, excludes, executables []string
	if m != nil {
		binaryExts = m.BinaryExtensions
		excludes = m.Exclude
		executables = m.Executable
	}
	exts := BinaryExtensionSet(binaryExts)

	var entries []Entry
	err = fs.WalkDir(s.fsys, s.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == s.root {
			return nil
		}

		rel := relPath(s.root, p)
		if rel == manifest.FileName || isExcluded(rel, d.Name(), excludes) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			entries = append(entries, Entry{Path: rel, IsDir: true, Mode: platform.DirMode})
			return nil
		}
		// Skip symlinks and other special files.
		if !d.Type().IsRegular() {
			return nil
		}

		content, err := fs.ReadFile(s.fsys, p)
		if err != nil {
			return fmt.Errorf("reading %s: %w", rel, err)
		}
		info, err := d.Info()
		if err != nil {
			return fmt.Errorf("stat %s: %w", rel, err)
		}

		mode := platform.OutputMode(info.Mode(), matchesAny(rel, d.Name(), executables))

		entries = append(entries, Entry{
			Path:     rel,
			Content:  content,
			Mode:     mode,
			IsBinary: IsBinary(rel, content, exts),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing template %s: %w", s.name, err)
	}

	return entries, nil
}

func (s *FSStore) checkRoot() error {
	info, err := fs.Stat(s.fsys, s.root)
	if err != nil {
		return &NotFoundError{Template: s.name, Root: s.displayRoot, Err: err}
	}
	if !info.IsDir() {
		return &NotFoundError{Template: s.name, Root: s.displayRoot, Err: errors.New("not a directory")}
	}
	return nil
}

// relPath returns p relative to root; both are slash-separated fs.FS paths.
func relPath(root, p string) string {
	if root == "." {
		return p
	}
	return p[len(root)+1:]
}

func isExcluded(rel, base string, patterns []string) bool {
	if excludedNames[base] {
		return true
	}
	return matchesAny(rel, base, patterns)
}

// matchesAny matches patterns against both the base name and the full
// relative path, so "*.orig" and "scripts/*.sh" both work.
func matchesAny(rel, base string, patterns []string) bool {
	for _, pattern := range patterns {
		if ok, _ := path.Match(pattern, base); ok {
			return true
		}
		if ok, _ := path.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

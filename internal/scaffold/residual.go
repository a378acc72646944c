package scaffold

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/projectkit/projectkit/internal/placeholder"
	"github.com/projectkit/projectkit/internal/templates"
)

// ResidualHit is a template token still present in generated output.
type ResidualHit struct {
	Path   string // slash-separated, relative to the output directory
	Token  string
	InName bool // the token is in the path rather than the content
}

// Residual scans a generated tree for template tokens that survived
// substitution. Binary files are skipped, and so are tokens that occur
// inside a supplied value (for project "MyProjectPro", "MyProject" is
// expected to remain). binaryExts are the template's extra binary
// extensions, the manifest's binary_extensions.
func Residual(outputDir string, resolved *placeholder.Resolved, binaryExts []string) ([]ResidualHit, error) {
	var tokens []string
	for _, p := range resolved.Pairs() {
		if !containedInAnyValue(p.Token, resolved) {
			tokens = append(tokens, p.Token)
		}
	}
	if len(tokens) == 0 {
		return nil, nil
	}

	exts := templates.BinaryExtensionSet(binaryExts)
	var hits []ResidualHit
	err := filepath.WalkDir(outputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == outputDir {
			return nil
		}
		rel, err := filepath.Rel(outputDir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		for _, tok := range tokens {
			if strings.Contains(d.Name(), tok) {
				hits = append(hits, ResidualHit{Path: rel, Token: tok, InName: true})
			}
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", rel, err)
		}
		if templates.IsBinary(rel, content, exts) {
			return nil
		}
		for _, tok := range tokens {
			if strings.Contains(string(content), tok) {
				hits = append(hits, ResidualHit{Path: rel, Token: tok})
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", outputDir, err)
	}
	return hits, nil
}

func containedInAnyValue(token string, resolved *placeholder.Resolved) bool {
	for _, v := range resolved.Values() {
		if strings.Contains(v, token) {
			return true
		}
	}
	return false
}

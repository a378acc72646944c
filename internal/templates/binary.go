package templates

import (
	"bytes"
	"path"
	"strings"
	"unicode/utf8"
)

// sniffLen bounds how much content is scanned for NUL bytes.
const sniffLen = 8000

// DefaultBinaryExtensions are always copied verbatim, in addition to any
// extensions a manifest lists.
var DefaultBinaryExtensions = []string{
	".png", ".jpg", ".jpeg", ".gif", ".pdf", ".ico", ".icns", ".zip", ".car",
	".ttf", ".otf", ".mp3", ".mp4", ".mov", ".heic", ".webp",
}

// IsBinary reports whether a file must be copied without text substitution.
// A file is binary when its extension is listed in exts, or when its content
// is not valid UTF-8 or has a NUL byte near the start.
func IsBinary(name string, content []byte, exts map[string]bool) bool {
	if exts[strings.ToLower(path.Ext(name))] {
		return true
	}
	sniff := content
	if len(sniff) > sniffLen {
		sniff = sniff[:sniffLen]
	}
	if bytes.IndexByte(sniff, 0) >= 0 {
		return true
	}
	return !utf8.Valid(content)
}

// BinaryExtensionSet returns DefaultBinaryExtensions plus extra, lowercased,
// in the form IsBinary expects.
func BinaryExtensionSet(extra []string) map[string]bool {
	set := make(map[string]bool, len(DefaultBinaryExtensions)+len(extra))
	for _, ext := range DefaultBinaryExtensions {
		set[ext] = true
	}
	for _, ext := range extra {
		set[strings.ToLower(ext)] = true
	}
	return set
}

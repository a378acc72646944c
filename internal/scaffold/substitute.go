package scaffold

import (
	"fmt"
	"strings"

	"github.com/projectkit/projectkit/internal/placeholder"
)

// substituter replaces tokens in a single left-to-right pass. At each
// position the longest matching token wins, so "com.example.MyProject" is
// never split into a "MyProject" match, and replaced text is never rescanned.
type substituter struct {
	pairs  []placeholder.Pair // longest token first
	first  [256]bool          // first bytes of all tokens
	counts map[string]int     // replacements per token
}

func newSubstituter(pairs []placeholder.Pair) *substituter {
	s := &substituter{pairs: pairs, counts: make(map[string]int, len(pairs))}
	for _, p := range pairs {
		if p.Token != "" {
			s.first[p.Token[0]] = true
		}
	}
	return s
}

// Replace returns text with every token occurrence replaced.
func (s *substituter) Replace(text string) string {
	var b strings.Builder
	last := 0
	for i := 0; i < len(text); {
		if !s.first[text[i]] {
			i++
			continue
		}
		p, ok := s.match(text[i:])
		if !ok {
			i++
			continue
		}
		if b.Len() == 0 {
			b.Grow(len(text))
		}
		b.WriteString(text[last:i])
		b.WriteString(p.Value)
		s.counts[p.Token]++
		i += len(p.Token)
		last = i
	}
	if last == 0 {
		return text
	}
	b.WriteString(text[last:])
	return b.String()
}

func (s *substituter) match(rest string) (placeholder.Pair, bool) {
	for _, p := range s.pairs {
		if strings.HasPrefix(rest, p.Token) {
			return p, true
		}
	}
	return placeholder.Pair{}, false
}

// Counts returns a copy of the per-token replacement counts.
func (s *substituter) Counts() map[string]int {
	out := make(map[string]int, len(s.counts))
	for k, v := range s.counts {
		out[k] = v
	}
	return out
}

// rewritePath substitutes each slash-separated segment of rel.
func (s *substituter) rewritePath(rel string) (string, error) {
	segments := strings.Split(rel, "/")
	for i, seg := range segments {
		out := s.Replace(seg)
		if out == "" || out == "." || out == ".." || strings.ContainsAny(out, `/\`) {
			return "", fmt.Errorf("%w: template path %q rewrites to segment %q", ErrInvalidPath, rel, out)
		}
		segments[i] = out
	}
	return strings.Join(segments, "/"), nil
}

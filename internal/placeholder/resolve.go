package placeholder

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/projectkit/projectkit/internal/branding"
	"golang.org/x/text/unicode/norm"
)

// BundlePrefixName is the pseudo-placeholder name used when the bundle
// prefix itself is malformed.
const BundlePrefixName = "BundlePrefix"

// ValidationError names the placeholder whose value is missing or malformed.
type ValidationError struct {
	Placeholder string
	Value       string
	Reason      string
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s: %s", e.Placeholder, e.Reason)
	}
	return fmt.Sprintf("invalid %s %q: %s", e.Placeholder, e.Value, e.Reason)
}

// Options tune how defaults are derived.
type Options struct {
	// BundlePrefix is available to default expressions as .BundlePrefix.
	// Empty means the branding default (com.example).
	BundlePrefix string
}

// Pair is one token and the value that replaces it.
type Pair struct {
	Name  string
	Token string
	Value string
}

// Resolved is a complete, validated value set for a placeholder set.
type Resolved struct {
	set    *Set
	values map[string]string
	pairs  []Pair
}

// Resolve completes values with defaults and validates every placeholder in
// set order. Supplied values are trimmed and NFC-normalized. Keys that name
// no placeholder are rejected.
func Resolve(set *Set, values map[string]string, opts Options) (*Resolved, error) {
	var unknown []string
	for name := range values {
		if _, ok := set.Lookup(name); !ok {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, &ValidationError{Placeholder: unknown[0], Reason: "is not a placeholder of this template"}
	}

	prefix := normalize(opts.BundlePrefix)
	if prefix == "" {
		prefix = branding.DefaultBundlePrefix()
	}
	if err := check(BundlePrefixName, prefix, tagDNSPrefix); err != nil {
		return nil, err
	}

	data := map[string]string{BundlePrefixName: prefix}
	r := &Resolved{set: set, values: make(map[string]string, len(set.placeholders))}

	for _, p := range set.placeholders {
		v := normalize(values[p.Name])
		if v == "" && p.defaultTmpl != nil {
			derived, err := derive(p, data)
			if err != nil {
				return nil, err
			}
			v = derived
		}
		if err := check(p.Name, v, "required,"+formatTag(p.Format)); err != nil {
			return nil, err
		}
		r.values[p.Name] = v
		data[p.Name] = v
	}

	for _, p := range set.byTokenLength() {
		r.pairs = append(r.pairs, Pair{Name: p.Name, Token: p.Token, Value: r.values[p.Name]})
	}
	return r, nil
}

// CheckBundlePrefix validates a bundle prefix the way Resolve does.
func CheckBundlePrefix(prefix string) error {
	return check(BundlePrefixName, normalize(prefix), "required,"+tagDNSPrefix)
}

// Value returns the resolved value for a placeholder name.
func (r *Resolved) Value(name string) string {
	return r.values[name]
}

// Values returns a copy of the name → value mapping.
func (r *Resolved) Values() map[string]string {
	out := make(map[string]string, len(r.values))
	for k, v := range r.values {
		out[k] = v
	}
	return out
}

// Pairs returns token/value pairs ordered longest token first, the order in
// which substitution must try them.
func (r *Resolved) Pairs() []Pair {
	out := make([]Pair, len(r.pairs))
	copy(out, r.pairs)
	return out
}

// Set returns the placeholder set the values were resolved against.
func (r *Resolved) Set() *Set {
	return r.set
}

func normalize(v string) string {
	return norm.NFC.String(strings.TrimSpace(v))
}

func derive(p Placeholder, data map[string]string) (string, error) {
	var buf bytes.Buffer
	if err := p.defaultTmpl.Execute(&buf, data); err != nil {
		var nbs *notBundleSafeError
		if errors.As(err, &nbs) {
			return "", &ValidationError{Placeholder: p.Name,
				Reason: fmt.Sprintf("default could not be derived: %v; set %s explicitly", nbs, p.Name)}
		}
		return "", &ValidationError{Placeholder: p.Name, Reason: fmt.Sprintf("cannot derive default from %q: %v", p.Default, err)}
	}
	return strings.TrimSpace(buf.String()), nil
}

func check(name, value, tags string) error {
	err := validate.Var(value, tags)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return &ValidationError{Placeholder: name, Value: value, Reason: describe(fieldErrs[0].Tag())}
	}
	return &ValidationError{Placeholder: name, Value: value, Reason: err.Error()}
}

package placeholder

import (
	"fmt"
	"regexp"
	"strings"
	"text/template"

	"github.com/go-playground/validator/v10"
	"github.com/projectkit/projectkit/internal/manifest"
)

var (
	identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	reverseDNSPattern = regexp.MustCompile(`^[A-Za-z]([A-Za-z0-9-]*[A-Za-z0-9])?(\.[A-Za-z0-9]([A-Za-z0-9-]*[A-Za-z0-9])?)+$`)
	dnsPrefixPattern  = regexp.MustCompile(`^[A-Za-z]([A-Za-z0-9-]*[A-Za-z0-9])?(\.[A-Za-z0-9]([A-Za-z0-9-]*[A-Za-z0-9])?)*$`)
	bundleUnsafe      = regexp.MustCompile(`[^A-Za-z0-9-]+`)
)

// Validation tags registered on the shared validator.
const (
	tagIdentifier = "identifier"
	tagReverseDNS = "reversedns"
	tagDNSPrefix  = "dnsprefix"
	tagSingleLine = "singleline"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	mustRegister(v, tagIdentifier, identifierPattern)
	mustRegister(v, tagReverseDNS, reverseDNSPattern)
	mustRegister(v, tagDNSPrefix, dnsPrefixPattern)
	if err := v.RegisterValidation(tagSingleLine, func(fl validator.FieldLevel) bool {
		return !strings.ContainsAny(fl.Field().String(), "\r\n")
	}); err != nil {
		panic(err)
	}
	return v
}

func mustRegister(v *validator.Validate, tag string, re *regexp.Regexp) {
	if err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
}

// Validator returns the validator instance with the placeholder format tags
// (identifier, reversedns, dnsprefix, singleline) registered.
func Validator() *validator.Validate {
	return validate
}

func knownFormat(format string) bool {
	switch format {
	case manifest.FormatIdentifier, manifest.FormatReverseDNS, manifest.FormatText:
		return true
	}
	return false
}

// formatTag maps a placeholder format to its validator tag.
func formatTag(format string) string {
	switch format {
	case manifest.FormatIdentifier:
		return tagIdentifier
	case manifest.FormatReverseDNS:
		return tagReverseDNS
	default:
		return tagSingleLine
	}
}

// describe turns a failed tag into the reason shown to users.
func describe(tag string) string {
	switch tag {
	case "required":
		return "is required"
	case tagIdentifier:
		return "must start with a letter or underscore and contain only letters, digits and underscores"
	case tagReverseDNS:
		return "must be reverse-DNS (e.g., com.example.App): two or more dot-separated labels of letters, digits and hyphens"
	case tagDNSPrefix:
		return "must be dot-separated labels of letters, digits and hyphens (e.g., com.example)"
	case tagSingleLine:
		return "must not contain line breaks"
	default:
		return "failed " + tag + " check"
	}
}

// defaultFuncs are available inside placeholder default expressions.
var defaultFuncs = template.FuncMap{
	"bundleSafe": bundleSafeFunc,
	"lower":      strings.ToLower,
}

// notBundleSafeError means a default used bundleSafe on a value with no
// characters a bundle label allows.
type notBundleSafeError struct {
	input string
}

func (e *notBundleSafeError) Error() string {
	return fmt.Sprintf("%q has no characters allowed in a bundle identifier", e.input)
}

func bundleSafeFunc(s string) (string, error) {
	out := BundleSafe(s)
	if out == "" {
		return "", &notBundleSafeError{input: s}
	}
	return out, nil
}

// BundleSafe replaces runs of characters not allowed in a bundle identifier
// label with a single hyphen and trims hyphens from both ends.
func BundleSafe(s string) string {
	return strings.Trim(bundleUnsafe.ReplaceAllString(s, "-"), "-")
}

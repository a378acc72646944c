package scaffold

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/projectkit/projectkit/internal/manifest"
	"github.com/projectkit/projectkit/internal/placeholder"
	"github.com/projectkit/projectkit/internal/templates"
)

// Request is one invocation's input: placeholder values keyed by name and
// the directory to write to.
type Request struct {
	OutputDir    string `validate:"required"`
	Values       map[string]string
	BundlePrefix string
	CLIVersion   string `validate:"omitempty,printascii"`
	DryRun       bool
}

// Create runs a full scaffold: it validates the request, checks the
// template's version requirements, resolves placeholder values and then
// either plans (DryRun) or generates the output. Every validation happens
// before the first write.
func Create(ctx context.Context, store templates.Store, req Request) (*Result, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	m, err := store.Manifest()
	if err != nil {
		return nil, err
	}
	if m != nil {
		if err := manifest.CheckCompatibility(m, req.CLIVersion); err != nil {
			return nil, err
		}
	}

	set, err := placeholder.SetFromManifest(m)
	if err != nil {
		return nil, err
	}
	resolved, err := placeholder.Resolve(set, req.Values, placeholder.Options{BundlePrefix: req.BundlePrefix})
	if err != nil {
		return nil, err
	}

	if req.DryRun {
		return dryRun(store, resolved, req.OutputDir)
	}
	return Generate(ctx, store, resolved, req.OutputDir)
}

func dryRun(store templates.Store, resolved *placeholder.Resolved, outputDir string) (*Result, error) {
	sub := newSubstituter(resolved.Pairs())
	planned, err := plan(store, sub)
	if err != nil {
		return nil, err
	}
	if err := checkOutputDir(outputDir); err != nil {
		return nil, err
	}

	result := &Result{Template: store.Name(), OutputDir: outputDir, DryRun: true, Resolved: resolved}
	for _, p := range planned {
		switch {
		case p.IsDir:
			result.Dirs++
		case p.IsBinary:
			result.Binary++
			result.Files = append(result.Files, p.OutputPath)
		default:
			if sub.Replace(string(p.Content)) != string(p.Content) {
				result.Substituted++
			}
			result.Files = append(result.Files, p.OutputPath)
		}
	}
	result.Replacements = sub.Counts()
	return result, nil
}

// validateRequest reports the first invalid field as a placeholder
// validation error so callers handle request and value problems alike.
func validateRequest(req Request) error {
	err := placeholder.Validator().Struct(req)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		reason := "is required"
		if fe.Tag() != "required" {
			reason = "failed " + fe.Tag() + " check"
		}
		value, _ := fe.Value().(string)
		return &placeholder.ValidationError{Placeholder: fe.Field(), Value: value, Reason: reason}
	}
	return err
}

package cli

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"

	"github.com/projectkit/projectkit/internal/config"
	"github.com/projectkit/projectkit/internal/logging"
	"github.com/projectkit/projectkit/internal/placeholder"
	"github.com/projectkit/projectkit/internal/scaffold"
	"github.com/projectkit/projectkit/internal/templates"
	"github.com/spf13/cobra"
)

var (
	createOutputDir     string
	createBundleID      string
	createFeatureModule string
	createTemplate      string
	createSet           map[string]string
	createDryRun        bool
	createVerify        bool
	createForceClean    bool
)

func init() {
	createCmd.Flags().StringVar(&createOutputDir, "output-dir", "", "Output directory (default: ./<ProjectName>)")
	createCmd.Flags().StringVar(&createBundleID, "bundle-id", "", "Bundle identifier (default: <bundle_prefix>.<ProjectName>)")
	createCmd.Flags().StringVar(&createFeatureModule, "feature-module", "", "Feature module name (default: <ProjectName>Feature)")
	createCmd.Flags().StringVar(&createTemplate, "template", "", "Template to instantiate (default from config)")
	createCmd.Flags().StringToStringVar(&createSet, "set", nil, "Extra placeholder values as Name=Value")
	createCmd.Flags().BoolVar(&createDryRun, "dry-run", false, "Show what would be written without writing")
	createCmd.Flags().BoolVar(&createVerify, "verify", false, "Fail if template tokens remain in the output")
	createCmd.Flags().BoolVar(&createForceClean, "force-clean", false, "Remove partial output when generation fails")
	rootCmd.AddCommand(createCmd)
}

var createCmd = &cobra.Command{
	Use:   "create <ProjectName>",
	Short: "Create a new project from a template",
	Long: `Create a new project by copying a template and replacing its placeholder
tokens in file names and file contents.

Examples:
  projectkit create Acme
  projectkit create Acme --bundle-id io.acme.app --feature-module AcmeKit
  projectkit create Acme --template my-template --set Author=Jane`,
	Args: cobra.ExactArgs(1),
	RunE: runCreate,
}

func runCreate(cmd *cobra.Command, args []string) error {
	projectName := args[0]
	log := logging.FromContext(cmd.Context())

	templateName := createTemplate
	if templateName == "" {
		templateName = config.DefaultTemplate()
	}
	store, err := templates.Open(templateName, config.TemplateDirs())
	if err != nil {
		return err
	}
	log.Debug("using template", "template", templateName)

	req := scaffold.Request{
		OutputDir:    resolveOutputDir(projectName),
		Values:       createValues(projectName),
		BundlePrefix: config.BundlePrefix(),
		CLIVersion:   buildVersion,
		DryRun:       createDryRun,
	}

	result, err := scaffold.Create(cmd.Context(), store, req)
	if err != nil {
		return handleCreateError(cmd.ErrOrStderr(), err)
	}

	printCreateResult(cmd.OutOrStdout(), result)

	if createVerify && !result.DryRun {
		return verifyOutput(cmd.OutOrStdout(), store, result)
	}
	return nil
}

// createValues collects placeholder values from the argument and flags.
// Dedicated flags win over --set.
func createValues(projectName string) map[string]string {
	values := make(map[string]string, len(createSet)+3)
	for k, v := range createSet {
		values[k] = v
	}
	values[placeholder.ProjectName] = projectName
	if createBundleID != "" {
		values[placeholder.BundleIdentifier] = createBundleID
	}
	if createFeatureModule != "" {
		values[placeholder.FeatureModuleName] = createFeatureModule
	}
	return values
}

func resolveOutputDir(projectName string) string {
	if createOutputDir != "" {
		return createOutputDir
	}
	return filepath.Join(".", projectName)
}

// handleCreateError reports where partial output was left, removing it
// first when --force-clean is set.
func handleCreateError(w io.Writer, err error) error {
	var we *scaffold.WriteError
	if !errors.As(err, &we) || !we.Partial {
		return err
	}
	if !createForceClean {
		fmt.Fprintf(w, "Partial output left at %s/ (rerun with --force-clean to remove it)\n", we.OutputDir)
		return err
	}
	if rmErr := scaffold.RemovePartial(err); rmErr != nil {
		return errors.Join(err, rmErr)
	}
	fmt.Fprintf(w, "Removed partial output at %s/\n", we.OutputDir)
	return err
}

func printCreateResult(w io.Writer, result *scaffold.Result) {
	verb := "Created"
	if result.DryRun {
		verb = "Would create"
	}
	fmt.Fprintf(w, "%s %s project at %s/\n", verb, result.Template, result.OutputDir)
	for _, f := range result.Files {
		fmt.Fprintf(w, "  %s\n", f)
	}
	fmt.Fprintf(w, "\n%d files (%d substituted, %d binary), %d directories\n",
		len(result.Files), result.Substituted, result.Binary, result.Dirs)

	if len(result.Replacements) == 0 {
		return
	}
	tokens := make([]string, 0, len(result.Replacements))
	for tok := range result.Replacements {
		tokens = append(tokens, tok)
	}
	sort.Strings(tokens)
	fmt.Fprintln(w, "\nReplacements:")
	for _, tok := range tokens {
		fmt.Fprintf(w, "  %s → %s (%d)\n", tok, replacementValue(result.Resolved, tok), result.Replacements[tok])
	}
}

func replacementValue(resolved *placeholder.Resolved, token string) string {
	if resolved == nil {
		return "?"
	}
	for _, p := range resolved.Pairs() {
		if p.Token == token {
			return p.Value
		}
	}
	return "?"
}

func verifyOutput(w io.Writer, store templates.Store, result *scaffold.Result) error {
	m, err := store.Manifest()
	if err != nil {
		return err
	}
	var binaryExts []string
	if m != nil {
		binaryExts = m.BinaryExtensions
	}
	hits, err := scaffold.Residual(result.OutputDir, result.Resolved, binaryExts)
	if err != nil {
		return err
	}
	if len(hits) == 0 {
		fmt.Fprintln(w, "\nVerified: no template tokens remain.")
		return nil
	}
	fmt.Fprintln(w, "\nTemplate tokens remain:")
	for _, h := range hits {
		where := "content"
		if h.InName {
			where = "name"
		}
		fmt.Fprintf(w, "  %s: %q in %s\n", h.Path, h.Token, where)
	}
	return fmt.Errorf("verification failed: %d leftover token occurrences in %s", len(hits), result.OutputDir)
}

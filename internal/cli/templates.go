package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"text/tabwriter"

	"github.com/projectkit/projectkit/internal/config"
	"github.com/projectkit/projectkit/internal/manifest"
	"github.com/projectkit/projectkit/internal/placeholder"
	"github.com/projectkit/projectkit/internal/templates"
	"github.com/spf13/cobra"
)

var templatesJSON bool

func init() {
	templatesListCmd.Flags().BoolVar(&templatesJSON, "json", false, "Output in JSON format")
	templatesCmd.AddCommand(templatesListCmd)
	templatesCmd.AddCommand(templatesShowCmd)
	templatesCmd.AddCommand(templatesValidateCmd)
	rootCmd.AddCommand(templatesCmd)
}

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List, inspect and validate templates",
	Long: `Templates are either built into the binary or live in a directory listed in
the template_dirs config key (plus ~/.projectkit/templates). A template is a
directory with a template.yaml manifest next to the files to copy.`,
}

// ─── templates list ────────────────────────────────────────────────

// templateEntry is one row of "templates list".
type templateEntry struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Source      string `json:"source"`
	Description string `json:"description"`
}

var templatesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available templates",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		infos := templates.Discover(config.TemplateDirs())
		entries := make([]templateEntry, 0, len(infos))
		for _, info := range infos {
			entries = append(entries, templateEntry{
				Name:        info.Name,
				Version:     info.Version,
				Source:      info.Source,
				Description: info.Description,
			})
		}

		if templatesJSON {
			data, err := json.MarshalIndent(entries, "", "  ")
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		}
		return printTemplateTable(cmd.OutOrStdout(), entries)
	},
}

func printTemplateTable(out io.Writer, entries []templateEntry) error {
	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "NAME\tVERSION\tSOURCE\tDESCRIPTION")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.Name, orDash(e.Version), e.Source, orDash(e.Description))
	}
	return w.Flush()
}

// ─── templates show ────────────────────────────────────────────────

var templatesShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a template's placeholders",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := templates.Open(args[0], config.TemplateDirs())
		if err != nil {
			return err
		}
		m, err := store.Manifest()
		if err != nil {
			return err
		}
		set, err := placeholder.SetFromManifest(m)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Template: %s\n", store.Name())
		if m != nil {
			fmt.Fprintf(out, "Version:  %s\n", m.Version)
			if m.Description != "" {
				fmt.Fprintf(out, "About:    %s\n", m.Description)
			}
			if m.MinCLIVersion != "" {
				fmt.Fprintf(out, "Requires: %s %s or newer\n", rootCmd.Name(), m.MinCLIVersion)
			}
		}
		fmt.Fprintln(out)
		return printPlaceholderTable(out, set)
	},
}

func printPlaceholderTable(out io.Writer, set *placeholder.Set) error {
	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "PLACEHOLDER\tTOKEN\tFORMAT\tREQUIRED\tDEFAULT")
	for _, p := range set.Placeholders() {
		required := "no"
		if p.Required {
			required = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", p.Name, p.Token, p.Format, required, orDash(p.Default))
	}
	return w.Flush()
}

// ─── templates validate ────────────────────────────────────────────

var templatesValidateCmd = &cobra.Command{
	Use:   "validate <dir>",
	Short: "Validate a template directory",
	Long: `Check a template directory's template.yaml against the manifest schema and
the placeholder rules, then list its files.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return validateTemplateDir(cmd.OutOrStdout(), args[0])
	},
}

func validateTemplateDir(out io.Writer, dir string) error {
	manifestPath := filepath.Join(dir, manifest.FileName)
	res, err := manifest.ValidateFile(manifestPath)
	if err != nil {
		return fmt.Errorf("validating %s: %w", manifestPath, err)
	}
	if !res.Valid {
		fmt.Fprintf(out, "%s is invalid:\n", manifestPath)
		for _, issue := range res.Issues {
			fmt.Fprintf(out, "  - %s\n", issue)
		}
		return fmt.Errorf("%s: %d schema violations", manifestPath, len(res.Issues))
	}

	store := templates.NewDirStore(dir)
	m, err := store.Manifest()
	if err != nil {
		return err
	}
	set, err := placeholder.SetFromManifest(m)
	if err != nil {
		return err
	}
	entries, err := store.ListEntries()
	if err != nil {
		return err
	}

	files, binary := 0, 0
	for _, e := range entries {
		if e.IsDir {
			continue
		}
		files++
		if e.IsBinary {
			binary++
		}
	}
	fmt.Fprintf(out, "%s %s is valid: %d placeholders, %d files (%d binary)\n",
		m.Name, m.Version, len(set.Placeholders()), files, binary)
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

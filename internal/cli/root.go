package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/projectkit/projectkit/internal/branding"
	"github.com/projectkit/projectkit/internal/config"
	"github.com/projectkit/projectkit/internal/logging"
	"github.com/projectkit/projectkit/internal/placeholder"
	"github.com/projectkit/projectkit/internal/scaffold"
	"github.com/projectkit/projectkit/internal/templates"
	"github.com/spf13/cobra"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string

	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` creates new projects from templates by replacing placeholder
tokens in file names and file contents.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config.Load()

		level := logLevel
		if level == "" {
			level = config.LogLevel()
		}
		logger, err := logging.New(cmd.ErrOrStderr(), level)
		if err != nil {
			return err
		}
		cmd.SetContext(logging.WithLogger(cmd.Context(), logger))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn or error (default from config)")
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	err := rootCmd.ExecuteContext(context.Background())
	if err != nil {
		fmt.Fprintln(os.Stderr, describeError(err))
	}
	return err
}

// describeError prefixes err with its kind so users can tell a missing
// template from a bad value or a failed write.
func describeError(err error) string {
	var (
		notFound *templates.NotFoundError
		invalid  *placeholder.ValidationError
		write    *scaffold.WriteError
	)
	switch {
	case errors.As(err, &notFound):
		return "Error (not found): " + err.Error()
	case errors.As(err, &invalid):
		return "Error (validation): " + err.Error()
	case errors.Is(err, scaffold.ErrPathCollision), errors.Is(err, scaffold.ErrInvalidPath):
		return "Error (validation): " + err.Error()
	case errors.As(err, &write):
		return "Error (write): " + err.Error()
	default:
		return "Error: " + err.Error()
	}
}

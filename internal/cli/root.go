// Package cli provides the command-line interface for chatmill.
package cli

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/chatmill/chatmill/internal/cli/commands"
)

// Execute runs the root command and returns the exit code.
func Execute() int {
	rootCmd := NewRootCommand()

	if err := rootCmd.Execute(); err != nil {
		// Print error to stderr (SilenceErrors prevents Cobra from doing this)
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2 // Configuration or runtime error
	}
	return commands.ExitCode
}

// NewRootCommand creates the root cobra command.
func NewRootCommand() *cobra.Command {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:   "chatmill",
		Short: "Parse and generate WhatsApp-style chat exports",
		Long: `chatmill converts exported chat-log text files into structured message
records, and generates synthetic exports in the same locale-varying format
for testing.

It understands:
  - Locale-specific header lines carrying timestamp and sender
  - Multi-line message bodies (continuation lines)
  - Media placeholders ("<Image omitted>", "imagen omitida", ...)
  - Quoted-reply markers

Parsing and generation are format-compatible inverses: parsing a generated
export reproduces the generated message sequence.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logrus.SetOutput(os.Stderr)
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			} else {
				logrus.SetLevel(logrus.WarnLevel)
			}
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose diagnostics on stderr")

	// Add subcommands
	rootCmd.AddCommand(commands.NewGenerateCommand())
	rootCmd.AddCommand(commands.NewParseCommand())
	rootCmd.AddCommand(commands.NewDetectCommand())
	rootCmd.AddCommand(commands.NewLocalesCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	return rootCmd
}

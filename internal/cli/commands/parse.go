package commands

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/chatmill/chatmill/pkg/locale"
	"github.com/chatmill/chatmill/pkg/output"
	"github.com/chatmill/chatmill/pkg/parser"
)

// ParseOptions holds command-line options for the parse command.
type ParseOptions struct {
	Locale string
	Output string
	Quiet  bool
}

// NewParseCommand creates the parse command.
func NewParseCommand() *cobra.Command {
	opts := &ParseOptions{}

	cmd := &cobra.Command{
		Use:   "parse <chat-file>...",
		Short: "Parse chat exports into structured messages",
		Long: `Parse exported chat text files into structured message records.

Without --locale the export format is auto-detected per file. Stray lines
that precede the first recognized header are reported as warnings, never
as errors.

Exit codes:
  0 - All files parsed
  1 - One or more files contained no messages
  2 - Configuration or read error

Example:
  chatmill parse chat.txt
  chatmill parse --locale es --output json exports/*.txt`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Locale, "locale", "l", "", "Export format locale (default: auto-detect)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Summary only, no details")

	return cmd
}

func runParse(cmd *cobra.Command, args []string, opts *ParseOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	verbose, _ := cmd.Flags().GetBool("verbose")

	files, err := expandGlobs(args)
	if err != nil {
		return err
	}

	// Resolve a fixed profile up front so an unknown locale fails before
	// any file is read.
	var fixed *locale.Profile
	if opts.Locale != "" {
		fixed, err = locale.Get(opts.Locale)
		if err != nil {
			return err
		}
	}

	reports := make([]output.FileReport, 0, len(files))
	for _, file := range files {
		fr, err := parseFile(file, fixed)
		if err != nil {
			return err
		}
		reports = append(reports, fr)
	}

	report := output.NewReport(reports)

	formatter, err := createFormatter(opts, verbose)
	if err != nil {
		return err
	}
	if err := formatter.Format(ctx, report, os.Stdout); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	if report.HasEmptyFiles() {
		ExitCode = 1
	}
	return nil
}

// parseFile reads one export and parses it, auto-detecting the locale when
// no fixed profile was given. A file with zero messages is a recoverable
// result, not an error.
func parseFile(file string, fixed *locale.Profile) (output.FileReport, error) {
	data, err := os.ReadFile(file) // #nosec G304 -- user-provided paths are expected
	if err != nil {
		return output.FileReport{}, fmt.Errorf("reading %s: %w", file, err)
	}

	profile := fixed
	detected := false
	if profile == nil {
		profile, err = locale.DetectProfile(bytes.NewReader(data))
		if err != nil {
			if errors.Is(err, locale.ErrUnknownLocale) {
				// Nothing matched; report the file as empty rather
				// than aborting the remaining files.
				logrus.WithField("file", file).Warn("no locale profile matches, skipping")
				return output.FileReport{File: file, Empty: true}, nil
			}
			return output.FileReport{}, err
		}
		detected = true
		logrus.WithFields(logrus.Fields{
			"file":   file,
			"locale": profile.Locale,
		}).Debug("locale detected")
	}

	res, err := parser.New(profile).Parse(bytes.NewReader(data))
	if err != nil && !errors.Is(err, parser.ErrNoMessages) {
		return output.FileReport{}, fmt.Errorf("parsing %s: %w", file, err)
	}

	return output.FileReport{
		File:     file,
		Locale:   profile.Locale,
		Detected: detected,
		Empty:    errors.Is(err, parser.ErrNoMessages),
		Messages: res.Messages,
		Warnings: res.Warnings,
		Stats:    res.Stats,
	}, nil
}

// expandGlobs resolves glob patterns in arguments. Non-pattern arguments
// pass through untouched so missing files surface as read errors.
func expandGlobs(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		matches, err := filepath.Glob(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", arg, err)
		}
		if len(matches) == 0 {
			files = append(files, arg)
			continue
		}
		sort.Strings(matches)
		files = append(files, matches...)
	}
	return files, nil
}

func createFormatter(opts *ParseOptions, verbose bool) (output.Formatter, error) {
	formatOpts := output.FormatOptions{
		Verbose: verbose,
		Quiet:   opts.Quiet,
	}

	switch opts.Output {
	case "text":
		return output.NewTextFormatter(formatOpts), nil
	case "json":
		return output.NewJSONFormatter(formatOpts), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (use text or json)", opts.Output)
	}
}

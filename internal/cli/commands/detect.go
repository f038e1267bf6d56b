package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chatmill/chatmill/pkg/locale"
)

// DetectOptions holds command-line options for the detect command.
type DetectOptions struct {
	Output     string
	SampleSize int
	ShowAll    bool
}

// NewDetectCommand creates the detect command.
func NewDetectCommand() *cobra.Command {
	opts := &DetectOptions{}

	cmd := &cobra.Command{
		Use:   "detect <chat-file>",
		Short: "Detect the export locale of a chat file",
		Long: `Analyze a chat file to detect which registered locale profile it uses.

Samples lines from the file and scores every registered profile by how
many lines it recognizes as message headers. Continuation lines of
multi-line messages count against the score, so confidence below 100%
is normal.

Example:
  chatmill detect chat.txt
  chatmill detect --sample 500 big-export.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDetect(args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().IntVarP(&opts.SampleSize, "sample", "n", locale.DefaultSampleSize, "Number of lines to sample")
	cmd.Flags().BoolVar(&opts.ShowAll, "all", false, "Show all matching locales, not just the best")

	return cmd
}

func runDetect(args []string, opts *DetectOptions) error {
	chatFile := args[0]

	f, err := os.Open(chatFile) // #nosec G304 -- user-provided paths are expected
	if err != nil {
		return fmt.Errorf("opening chat file: %w", err)
	}
	defer f.Close()

	result, err := locale.Detect(f, opts.SampleSize)
	if err != nil {
		return fmt.Errorf("detection failed: %w", err)
	}

	switch opts.Output {
	case "json":
		return outputDetectJSON(result, chatFile, opts)
	default:
		return outputDetectText(result, chatFile, opts)
	}
}

func outputDetectText(result *locale.Detection, chatFile string, opts *DetectOptions) error {
	fmt.Println("=== Locale Detection ===")
	fmt.Println()
	fmt.Printf("File: %s\n", chatFile)
	fmt.Printf("Lines sampled: %d\n", result.SampledLines)
	fmt.Println()

	if !result.HasMatch() {
		fmt.Println("No registered locale matches this file.")
		fmt.Println()
		fmt.Printf("Registered locales: %v\n", locale.Locales())
		fmt.Println("Check the first few lines manually, or register a new profile.")
		ExitCode = 1
		return nil
	}

	matches := result.Matches
	if !opts.ShowAll {
		matches = matches[:1]
	}

	for _, m := range matches {
		fmt.Printf("Locale: %s\n", m.Profile.Locale)
		fmt.Printf("Confidence: %.1f%% (%d/%d lines matched)\n",
			m.Confidence*100, m.MatchCount, result.SampledLines)
		fmt.Printf("Sample match:\n  %s\n", m.SampleLine)
		fmt.Println()
	}

	return nil
}

func outputDetectJSON(result *locale.Detection, chatFile string, opts *DetectOptions) error {
	type jsonMatch struct {
		Locale     string  `json:"locale"`
		Confidence float64 `json:"confidence"`
		MatchCount int     `json:"match_count"`
		SampleLine string  `json:"sample_line"`
	}
	out := struct {
		File         string      `json:"file"`
		SampledLines int         `json:"sampled_lines"`
		Matches      []jsonMatch `json:"matches"`
	}{
		File:         chatFile,
		SampledLines: result.SampledLines,
	}

	matches := result.Matches
	if !opts.ShowAll && len(matches) > 1 {
		matches = matches[:1]
	}
	for _, m := range matches {
		out.Matches = append(out.Matches, jsonMatch{
			Locale:     m.Profile.Locale,
			Confidence: m.Confidence,
			MatchCount: m.MatchCount,
			SampleLine: m.SampleLine,
		})
	}

	if !result.HasMatch() {
		ExitCode = 1
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

package commands

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/chatmill/chatmill/pkg/config"
	"github.com/chatmill/chatmill/pkg/generator"
	"github.com/chatmill/chatmill/pkg/locale"
)

// ExitCode is set by commands to indicate the result
var ExitCode = 0

// GenerateOptions holds command-line options for the generate command.
type GenerateOptions struct {
	Config            string
	Locale            string
	Users             []string
	StartDate         string
	Days              int
	AvgMessagesPerDay float64
	Seed              int64
	Output            string
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand() *cobra.Command {
	opts := &GenerateOptions{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a synthetic chat export",
		Long: `Generate a synthetic chat export for testing.

Participants are given behavioral archetypes (talker, media_sender,
balanced, lurker) that control how often they post, how much media they
send and at which hours they are active. Generation is deterministic for
a given seed.

A scenario can come from a YAML file (--config), from flags, or both;
flags override file values. Environment variables with the CHATMILL_
prefix override both.

Example:
  chatmill generate --users Alice,Bob --days 7 --seed 42 -o chat.txt
  chatmill generate --config scenario.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Config, "config", "c", "", "Scenario YAML file")
	cmd.Flags().StringVarP(&opts.Locale, "locale", "l", config.DefaultLocale, "Export format locale")
	cmd.Flags().StringSliceVarP(&opts.Users, "users", "u", nil, "Chat participants (minimum 2)")
	cmd.Flags().StringVar(&opts.StartDate, "start-date", config.DefaultStartDate, "Chat start date (YYYY-MM-DD)")
	cmd.Flags().IntVarP(&opts.Days, "days", "d", config.DefaultDays, "Number of days to generate")
	cmd.Flags().Float64Var(&opts.AvgMessagesPerDay, "avg-messages-per-day", config.DefaultAvgMessagesPerDay, "Average messages per day")
	cmd.Flags().Int64VarP(&opts.Seed, "seed", "s", 0, "Random seed (0 = derive from the clock)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Output file (default: stdout)")

	return cmd
}

func runGenerate(cmd *cobra.Command, opts *GenerateOptions) error {
	scenario, err := resolveScenario(cmd, opts)
	if err != nil {
		return err
	}

	profile, err := locale.Get(scenario.Locale)
	if err != nil {
		return err
	}

	start, err := scenario.Start()
	if err != nil {
		return fmt.Errorf("invalid start date %q (use YYYY-MM-DD): %w", scenario.StartDate, err)
	}

	seed := scenario.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
		logrus.WithField("seed", seed).Debug("derived seed from the clock")
	}

	pinned := make(map[string]generator.Archetype)
	for _, u := range scenario.Users {
		if u.Archetype != "" {
			pinned[u.Name] = generator.Archetype(u.Archetype)
		}
	}

	gen, err := generator.New(profile, generator.Config{
		Users:             scenario.Names(),
		PinnedArchetypes:  pinned,
		StartDate:         start,
		Days:              scenario.Days,
		AvgMessagesPerDay: scenario.AvgMessagesPerDay,
		Seed:              seed,
	})
	if err != nil {
		return err
	}

	out, err := gen.Generate()
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"messages": len(out.Messages),
		"days":     scenario.Days,
		"locale":   scenario.Locale,
	}).Debug("chat generated")

	if scenario.Output == "" || scenario.Output == "-" {
		fmt.Print(out.Text)
		return nil
	}

	if err := os.WriteFile(scenario.Output, []byte(out.Text), 0o644); err != nil { // #nosec G306 -- chat exports are not secrets
		return fmt.Errorf("writing output: %w", err)
	}

	printGenerateSummary(scenario, seed, len(out.Messages))
	return nil
}

// resolveScenario merges the scenario file (if any) with flag overrides.
func resolveScenario(cmd *cobra.Command, opts *GenerateOptions) (*config.Scenario, error) {
	var scenario *config.Scenario
	if opts.Config != "" {
		loaded, err := config.Load(opts.Config)
		if err != nil {
			return nil, fmt.Errorf("loading scenario: %w", err)
		}
		scenario = loaded
	} else {
		scenario = config.DefaultScenario()
	}

	flags := cmd.Flags()
	if flags.Changed("locale") {
		scenario.Locale = opts.Locale
	}
	if flags.Changed("users") {
		scenario.Users = make([]config.UserSpec, len(opts.Users))
		for i, name := range opts.Users {
			scenario.Users[i] = config.UserSpec{Name: name}
		}
	}
	if flags.Changed("start-date") {
		scenario.StartDate = opts.StartDate
	}
	if flags.Changed("days") {
		scenario.Days = opts.Days
	}
	if flags.Changed("avg-messages-per-day") {
		scenario.AvgMessagesPerDay = opts.AvgMessagesPerDay
	}
	if flags.Changed("seed") {
		scenario.Seed = opts.Seed
	}
	if flags.Changed("output") {
		scenario.Output = opts.Output
	}

	// Re-validate after flag overrides; Load's validation covers only
	// the file contents.
	if err := config.Validate(scenario); err != nil {
		return nil, err
	}
	return scenario, nil
}

// printGenerateSummary mirrors the file-written case on stderr so stdout
// stays clean for piped use.
func printGenerateSummary(s *config.Scenario, seed int64, messages int) {
	w := os.Stderr
	fmt.Fprintln(w, "Chat generated")
	fmt.Fprintln(w, strings.Repeat("-", 40))
	fmt.Fprintf(w, "Users: %s\n", strings.Join(s.Names(), ", "))
	fmt.Fprintf(w, "Days: %d\n", s.Days)
	fmt.Fprintf(w, "Average messages/day: %v\n", s.AvgMessagesPerDay)
	fmt.Fprintf(w, "Messages: %d\n", messages)
	fmt.Fprintf(w, "Locale: %s\n", s.Locale)
	fmt.Fprintf(w, "Seed: %d\n", seed)
	fmt.Fprintf(w, "Output: %s\n", s.Output)
	fmt.Fprintln(w, strings.Repeat("-", 40))
}

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/chatmill/chatmill/pkg/generator"
	"github.com/chatmill/chatmill/pkg/locale"
)

// Load reads a scenario file, applies environment overrides and validates
// the result.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided config path is expected
	if err != nil {
		return nil, fmt.Errorf("reading scenario file: %w", err)
	}

	s := DefaultScenario()
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parsing scenario file: %w", err)
	}

	if err := envconfig.Process(EnvPrefix, s); err != nil {
		return nil, fmt.Errorf("applying environment overrides: %w", err)
	}

	if err := Validate(s); err != nil {
		return nil, fmt.Errorf("validating scenario: %w", err)
	}

	return s, nil
}

// Validate checks a scenario before it reaches the generator. Roster size,
// day range and message rate are re-checked by generator.New; validating
// here gives file-oriented error messages up front.
func Validate(s *Scenario) error {
	if _, err := locale.Get(s.Locale); err != nil {
		return err
	}

	if len(s.Users) < 2 {
		return fmt.Errorf("need at least 2 users, got %d", len(s.Users))
	}
	for i, u := range s.Users {
		if u.Name == "" {
			return fmt.Errorf("user %d: name is required", i+1)
		}
		if strings.ContainsAny(u.Name, ":\n\r") {
			return fmt.Errorf("user %q: name must not contain a colon or line break", u.Name)
		}
		if u.Archetype == "" {
			continue
		}
		if _, err := generator.NewUserProfile(u.Name, generator.Archetype(u.Archetype)); err != nil {
			return fmt.Errorf("user %q: %w", u.Name, err)
		}
	}

	if _, err := s.Start(); err != nil {
		return fmt.Errorf("invalid start_date %q (use YYYY-MM-DD): %w", s.StartDate, err)
	}
	if s.Days < 0 {
		return fmt.Errorf("days must be non-negative, got %d", s.Days)
	}
	if s.AvgMessagesPerDay <= 0 {
		return fmt.Errorf("avg_messages_per_day must be positive, got %v", s.AvgMessagesPerDay)
	}

	return nil
}

// Package config provides scenario configuration loading and validation
// for chat generation.
package config

import "time"

// Scenario is the root generation configuration loaded from YAML.
// Environment variables with the CHATMILL_ prefix override file values.
type Scenario struct {
	// Locale selects the registered export format profile.
	Locale string `yaml:"locale" envconfig:"LOCALE"`

	// Users is the participant roster with optional archetypes.
	Users []UserSpec `yaml:"users" ignored:"true"`

	// StartDate is the first day of the range, YYYY-MM-DD.
	StartDate string `yaml:"start_date" envconfig:"START_DATE"`

	// Days is the number of days to generate.
	Days int `yaml:"days" envconfig:"DAYS"`

	// AvgMessagesPerDay is the target message rate.
	AvgMessagesPerDay float64 `yaml:"avg_messages_per_day" envconfig:"AVG_MESSAGES_PER_DAY"`

	// Seed drives all sampling. Zero means derive a seed from the clock.
	Seed int64 `yaml:"seed" envconfig:"SEED"`

	// Output is the file to write; empty means stdout.
	Output string `yaml:"output,omitempty" envconfig:"OUTPUT"`
}

// UserSpec names one participant and optionally pins an archetype.
// Without an archetype the generator assigns one from the seed.
type UserSpec struct {
	Name      string `yaml:"name"`
	Archetype string `yaml:"archetype,omitempty"`
}

// Names returns the roster names in order.
func (s *Scenario) Names() []string {
	names := make([]string, len(s.Users))
	for i, u := range s.Users {
		names[i] = u.Name
	}
	return names
}

// Start parses the configured start date.
func (s *Scenario) Start() (time.Time, error) {
	return time.Parse("2006-01-02", s.StartDate)
}

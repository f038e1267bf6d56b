package config

// Default values for generation scenarios.
const (
	DefaultLocale            = "en"
	DefaultStartDate         = "2023-01-01"
	DefaultDays              = 30
	DefaultAvgMessagesPerDay = 120.0
)

// EnvPrefix is the environment variable prefix for scenario overrides
// (e.g. CHATMILL_SEED, CHATMILL_LOCALE).
const EnvPrefix = "chatmill"

// DefaultScenario returns a scenario with sensible defaults and an empty
// roster.
func DefaultScenario() *Scenario {
	return &Scenario{
		Locale:            DefaultLocale,
		StartDate:         DefaultStartDate,
		Days:              DefaultDays,
		AvgMessagesPerDay: DefaultAvgMessagesPerDay,
	}
}

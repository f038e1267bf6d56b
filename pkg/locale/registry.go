package locale

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"sync"
)

// ErrUnknownLocale is returned when a locale key has no registered profile.
var ErrUnknownLocale = errors.New("unknown locale")

var (
	registryMu sync.RWMutex
	registry   = make(map[string]*Profile)
)

func init() {
	for _, p := range builtinProfiles() {
		if err := Register(p); err != nil {
			panic(fmt.Sprintf("locale: invalid builtin profile %q: %v", p.Locale, err))
		}
	}
}

// Register validates a profile and adds it to the registry. Registering an
// already-present locale key is an error; profiles are never replaced.
func Register(p *Profile) error {
	if err := validate(p); err != nil {
		return fmt.Errorf("profile %q: %w", p.Locale, err)
	}

	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[p.Locale]; exists {
		return fmt.Errorf("profile %q: already registered", p.Locale)
	}
	registry[p.Locale] = p
	return nil
}

// Get returns the profile registered for a locale key.
func Get(key string) (*Profile, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	p, ok := registry[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownLocale, key, lockedKeys())
	}
	return p, nil
}

// Locales returns the registered locale keys in sorted order.
func Locales() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return lockedKeys()
}

func lockedKeys() []string {
	keys := make([]string, 0, len(registry))
	for k := range registry {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// validate checks profile completeness and the no-ambiguity invariant:
// the header pattern must never match a line that is itself a media
// placeholder or a quote-marked body.
func validate(p *Profile) error {
	if p.Locale == "" {
		return errors.New("empty locale key")
	}
	if p.Layout == "" {
		return errors.New("empty timestamp layout")
	}
	if p.Resolution <= 0 {
		return errors.New("resolution must be positive")
	}

	pattern, err := regexp.Compile(p.PatternStr)
	if err != nil {
		return fmt.Errorf("compiling header pattern: %w", err)
	}
	if pattern.NumSubexp() != 3 {
		return fmt.Errorf("header pattern has %d capture groups, want 3 (timestamp, sender, body)", pattern.NumSubexp())
	}
	p.pattern = pattern

	for _, m := range p.Markers {
		if m.Text == "" {
			return errors.New("empty media marker")
		}
		if pattern.MatchString(m.Text) {
			return fmt.Errorf("header pattern matches media marker %q", m.Text)
		}
	}
	if p.QuoteMarker != "" && pattern.MatchString(p.QuoteMarker) {
		return fmt.Errorf("header pattern matches quote marker %q", p.QuoteMarker)
	}

	for _, ex := range p.Examples {
		if _, ok := p.MatchHeader(ex); !ok {
			return fmt.Errorf("header pattern does not match example %q", ex)
		}
	}

	return nil
}

package tui

import "github.com/google/uuid"

// Theme captures the prefixes printed in front of dashboard messages.
type Theme struct {
	InfoPrefix    string
	SuccessPrefix string
	ErrorPrefix   string
}

// DefaultTheme is used when no theme option is given.
var DefaultTheme = Theme{
	InfoPrefix:    "",
	SuccessPrefix: "✔ ",
	ErrorPrefix:   "✘ ",
}

// Option configures the dashboard.
type Option func(*Dashboard)

// WithPromptDriver overrides the prompt driver.
func WithPromptDriver(driver PromptDriver) Option {
	return func(d *Dashboard) {
		if driver != nil {
			d.driver = driver
		}
	}
}

// WithTheme applies message prefixes.
func WithTheme(theme Theme) Option {
	return func(d *Dashboard) {
		d.theme = theme
	}
}

// WithPageSize limits how many options a menu shows at once.
func WithPageSize(n int) Option {
	return func(d *Dashboard) {
		if n > 0 {
			d.pageSize = n
		}
	}
}

// WithRequestIDs replaces the request ID generator. Tests use it to get
// deterministic IDs.
func WithRequestIDs(next func() string) Option {
	return func(d *Dashboard) {
		if next != nil {
			d.nextID = next
		}
	}
}

func defaultRequestID() string {
	return uuid.NewString()
}

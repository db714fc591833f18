// Copyright © 2024 The ELPS authors

package formatter

// Config holds formatting configuration.
type Config struct {
	IndentSize     int             // spaces per nesting level (default: 3)
	MaxInlineAtoms int             // largest atom count printed on one line (default: 12)
	HeaderForms    map[string]bool // forms keeping their first argument on the opening line
}

// DefaultConfig returns the default formatting configuration.
func DefaultConfig() *Config {
	return &Config{
		IndentSize:     3,
		MaxInlineAtoms: 12,
		HeaderForms:    DefaultHeaderForms(),
	}
}

// DefaultHeaderForms returns the forms whose first argument stays on the
// line of the operator when the form is broken across lines.
func DefaultHeaderForms() map[string]bool {
	return map[string]bool{
		"if":       true,
		"define":   true,
		"defmacro": true,
		"lambda":   true,
	}
}

// keepsHeader reports whether the list headed by v prints its first argument
// on the opening line.
func (c *Config) keepsHeader(head string) bool {
	return c.HeaderForms[head]
}

package theme

import "fmt"

// Theme is the display palette of the page.
type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

// Default is the theme of a new session.
const Default = Light

// Parse converts a stored value back into a Theme. The empty string
// yields the default theme.
func Parse(s string) (Theme, error) {
	switch Theme(s) {
	case "":
		return Default, nil
	case Light, Dark:
		return Theme(s), nil
	}
	return "", fmt.Errorf("unknown theme %q", s)
}

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

// Label is the text of the toggle button, naming the theme it switches to.
func (t Theme) Label() string {
	if t == Dark {
		return "☀️ Light"
	}
	return "🌙 Dark"
}

// AriaLabel describes the toggle button for screen readers.
func (t Theme) AriaLabel() string {
	return fmt.Sprintf("Switch to %s mode", t.Toggle())
}

package output

import (
	"github.com/fatih/color"
)

// ColorScheme defines the colors used for different elements in the output
type ColorScheme struct {
	Banner   *color.Color
	Phase    *color.Color
	Progress *color.Color
	Variant  *color.Color
	Label    *color.Color
	Value    *color.Color
	Dim      *color.Color
	Success  *color.Color
	Warning  *color.Color
}

// DefaultColorScheme returns the default color scheme
func DefaultColorScheme() *ColorScheme {
	return &ColorScheme{
		Banner:   color.New(color.FgCyan, color.Bold),
		Phase:    color.New(color.FgMagenta),
		Progress: color.New(color.FgGreen),
		Variant:  color.New(color.FgBlue, color.Bold),
		Label:    color.New(color.FgYellow),
		Value:    color.New(color.FgCyan),
		Dim:      color.New(color.Faint),
		Success:  color.New(color.FgGreen, color.Bold),
		Warning:  color.New(color.FgYellow, color.Bold),
	}
}

// NoColorScheme returns a color scheme with all colors disabled
func NoColorScheme() *ColorScheme {
	scheme := DefaultColorScheme()
	for _, c := range scheme.all() {
		c.DisableColor()
	}
	return scheme
}

// ForceColorScheme returns a color scheme that emits ANSI codes even when
// fatih/color would disable them for a non-terminal writer.
func ForceColorScheme() *ColorScheme {
	scheme := DefaultColorScheme()
	for _, c := range scheme.all() {
		c.EnableColor()
	}
	return scheme
}

func (s *ColorScheme) all() []*color.Color {
	return []*color.Color{
		s.Banner, s.Phase, s.Progress, s.Variant,
		s.Label, s.Value, s.Dim, s.Success, s.Warning,
	}
}

// SuccessIcon returns a checkmark symbol with appropriate color
func SuccessIcon(noColor bool) string {
	if noColor {
		return "✓"
	}
	return color.New(color.FgGreen).Sprint("✓")
}

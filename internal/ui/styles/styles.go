// Package styles contains Lip Gloss style definitions.
package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	// Text hierarchy
	TextPrimaryColor     = lipgloss.AdaptiveColor{Light: "#1F2328", Dark: "#CCCCCC"}
	TextSecondaryColor   = lipgloss.AdaptiveColor{Light: "#57606A", Dark: "#BBBBBB"}
	TextMutedColor       = lipgloss.AdaptiveColor{Light: "#8C959F", Dark: "#696969"} // Hints, help text, footers
	TextDescriptionColor = lipgloss.AdaptiveColor{Light: "#666666", Dark: "#999999"} // Record abstracts
	TextPlaceholderColor = lipgloss.AdaptiveColor{Light: "#666666", Dark: "#777777"}

	BorderDefaultColor        = lipgloss.AdaptiveColor{Light: "#D0D7DE", Dark: "#696969"}
	BorderHighlightFocusColor = lipgloss.AdaptiveColor{Light: "#54A0FF", Dark: "#54A0FF"}
	OverlayTitleColor         = lipgloss.AdaptiveColor{Light: "#1F2328", Dark: "#C9C9C9"}
	OverlayBorderColor        = lipgloss.AdaptiveColor{Light: "#D0D7DE", Dark: "#8C8C8C"}

	StatusSuccessColor = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	StatusWarningColor = lipgloss.AdaptiveColor{Light: "#FECA57", Dark: "#FECA57"}
	StatusErrorColor   = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF8787"}
	StatusInfoColor    = lipgloss.AdaptiveColor{Light: "#54A0FF", Dark: "#54A0FF"}

	SelectionIndicatorColor = lipgloss.AdaptiveColor{Light: "#1F2328", Dark: "#FFFFFF"}
	SpinnerColor            = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#FFFFFF"}

	// Service type badges
	TypeCSWColor  = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	TypeWMSColor  = lipgloss.AdaptiveColor{Light: "#179299", Dark: "#94E2D5"}
	TypeWMTSColor = lipgloss.AdaptiveColor{Light: "#DF8E1D", Dark: "#F9E2AF"}

	// Buttons
	ButtonTextColor             = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#FFFFFF"}
	ButtonPrimaryBgColor        = lipgloss.AdaptiveColor{Light: "#1A5276", Dark: "#1A5276"}
	ButtonPrimaryFocusBgColor   = lipgloss.AdaptiveColor{Light: "#3498DB", Dark: "#3498DB"}
	ButtonSecondaryBgColor      = lipgloss.AdaptiveColor{Light: "#2D3436", Dark: "#2D3436"}
	ButtonSecondaryFocusBgColor = lipgloss.AdaptiveColor{Light: "#636E72", Dark: "#636E72"}
	ButtonDangerBgColor         = lipgloss.AdaptiveColor{Light: "#922B21", Dark: "#922B21"}
	ButtonDangerFocusBgColor    = lipgloss.AdaptiveColor{Light: "#E74C3C", Dark: "#E74C3C"}
	ButtonDisabledBgColor       = lipgloss.AdaptiveColor{Light: "#BBBBBB", Dark: "#2D2D2D"}
	ButtonDisabledTextColor     = lipgloss.AdaptiveColor{Light: "#666666", Dark: "#777777"}

	// Form inputs
	FormLabelColor        = lipgloss.AdaptiveColor{Light: "#57606A", Dark: "#8C8C8C"}
	FormFocusedLabelColor = lipgloss.AdaptiveColor{Light: "#1F2328", Dark: "#FFFFFF"}

	SelectionIndicatorStyle = lipgloss.NewStyle().Bold(true).Foreground(SelectionIndicatorColor)

	baseButtonStyle = lipgloss.NewStyle().Padding(0, 2).Bold(true)

	PrimaryButtonStyle = baseButtonStyle.
				Foreground(ButtonTextColor).
				Background(ButtonPrimaryBgColor)

	PrimaryButtonFocusedStyle = baseButtonStyle.
					Foreground(ButtonTextColor).
					Background(ButtonPrimaryFocusBgColor).
					Underline(true).
					UnderlineSpaces(true)

	SecondaryButtonStyle = baseButtonStyle.
				Foreground(ButtonTextColor).
				Background(ButtonSecondaryBgColor)

	SecondaryButtonFocusedStyle = baseButtonStyle.
					Foreground(ButtonTextColor).
					Background(ButtonSecondaryFocusBgColor).
					Underline(true).
					UnderlineSpaces(true)

	DangerButtonStyle = baseButtonStyle.
				Foreground(ButtonTextColor).
				Background(ButtonDangerBgColor)

	DangerButtonFocusedStyle = baseButtonStyle.
					Foreground(ButtonTextColor).
					Background(ButtonDangerFocusBgColor).
					Underline(true).
					UnderlineSpaces(true)

	DisabledButtonStyle = baseButtonStyle.
				Foreground(ButtonDisabledTextColor).
				Background(ButtonDisabledBgColor)

	RecordTitleStyle    = lipgloss.NewStyle().Bold(true).Foreground(TextPrimaryColor)
	RecordAbstractStyle = lipgloss.NewStyle().Foreground(TextDescriptionColor)
	HintStyle           = lipgloss.NewStyle().Foreground(TextMutedColor)
	ErrorTextStyle      = lipgloss.NewStyle().Foreground(StatusErrorColor).Bold(true)

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(TextSecondaryColor).
			Padding(0, 1)
)

// ButtonKind selects a button palette.
type ButtonKind int

const (
	ButtonPrimary ButtonKind = iota
	ButtonSecondary
	ButtonDanger
)

// Button renders label as a button. Disabled buttons ignore focus.
func Button(label string, kind ButtonKind, focused, disabled bool) string {
	if disabled {
		return DisabledButtonStyle.Render(label)
	}
	switch kind {
	case ButtonDanger:
		if focused {
			return DangerButtonFocusedStyle.Render(label)
		}
		return DangerButtonStyle.Render(label)
	case ButtonSecondary:
		if focused {
			return SecondaryButtonFocusedStyle.Render(label)
		}
		return SecondaryButtonStyle.Render(label)
	default:
		if focused {
			return PrimaryButtonFocusedStyle.Render(label)
		}
		return PrimaryButtonStyle.Render(label)
	}
}

// TypeBadge renders a colored service type tag such as "CSW".
func TypeBadge(serviceType string) string {
	var color lipgloss.TerminalColor = TextSecondaryColor
	switch serviceType {
	case "csw":
		color = TypeCSWColor
	case "wms":
		color = TypeWMSColor
	case "wmts":
		color = TypeWMTSColor
	}
	return lipgloss.NewStyle().Foreground(color).Bold(true).Render("[" + strings.ToUpper(serviceType) + "]")
}

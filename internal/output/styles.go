package output

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/vburojevic/eccstat/internal/domain"
)

// Styles holds all lipgloss styles for text output
var Styles = struct {
	// Messages
	Info    lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Danger  lipgloss.Style

	// Report
	Header lipgloss.Style
	Label  lipgloss.Style
	Value  lipgloss.Style

	// ECC schemes
	NoECC    lipgloss.Style
	SECDED   lipgloss.Style
	ChipKill lipgloss.Style
	OtherECC lipgloss.Style

	// TUI
	Title     lipgloss.Style
	StatusBar lipgloss.Style
	Selected  lipgloss.Style
	Help      lipgloss.Style
}{
	Info:    lipgloss.NewStyle().Foreground(lipgloss.Color("39")),            // Cyan
	Success: lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),  // Green
	Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true), // Orange
	Danger:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true), // Red

	Header: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).BorderStyle(lipgloss.NormalBorder()).BorderBottom(true).BorderForeground(lipgloss.Color("239")),
	Label:  lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
	Value:  lipgloss.NewStyle().Bold(true),

	// Same hues as the chart palette
	NoECC:    lipgloss.NewStyle().Foreground(lipgloss.Color("#d62728")),
	SECDED:   lipgloss.NewStyle().Foreground(lipgloss.Color("#1f77b4")),
	ChipKill: lipgloss.NewStyle().Foreground(lipgloss.Color("#2ca02c")),
	OtherECC: lipgloss.NewStyle().Foreground(lipgloss.Color("252")),

	Title:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).Padding(0, 1),
	StatusBar: lipgloss.NewStyle().Background(lipgloss.Color("236")).Foreground(lipgloss.Color("252")).Padding(0, 1),
	Selected:  lipgloss.NewStyle().Background(lipgloss.Color("236")).Foreground(lipgloss.Color("39")),
	Help:      lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
}

// ECCStyle returns the style for an ECC scheme
func ECCStyle(ecc domain.ECCType) lipgloss.Style {
	switch ecc {
	case domain.ECCNone:
		return Styles.NoECC
	case domain.ECCSECDED:
		return Styles.SECDED
	case domain.ECCChipKill:
		return Styles.ChipKill
	default:
		return Styles.OtherECC
	}
}

// RateStyle colors a critical error rate: red above 1%, orange above 0.01%
func RateStyle(rate float64) lipgloss.Style {
	switch {
	case rate > 1e-2:
		return Styles.Danger
	case rate > 1e-4:
		return Styles.Warning
	default:
		return Styles.Success
	}
}

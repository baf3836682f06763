package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/rummi-companion/internal/turntimer"
)

// Palette
var (
	colorGreen  = lipgloss.Color("2")
	colorOrange = lipgloss.Color("208")
	colorRed    = lipgloss.Color("9")
	colorGray   = lipgloss.Color("245")
	colorAccent = lipgloss.Color("57")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229")).
			Background(colorAccent).
			Padding(0, 2)
	subtleStyle   = lipgloss.NewStyle().Foreground(colorGray)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Bold(true)
	winnerStyle   = lipgloss.NewStyle().Foreground(colorOrange).Bold(true)
	errorStyle    = lipgloss.NewStyle().Foreground(colorRed)
	infoStyle     = lipgloss.NewStyle().Foreground(colorGreen)
	boxStyle      = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)

// bandColors maps the remaining-time band to its colour.
var bandColors = map[turntimer.Band]lipgloss.Color{
	turntimer.BandCalm:     colorGreen,
	turntimer.BandWarning:  colorOrange,
	turntimer.BandCritical: colorRed,
}

func bandStyle(b turntimer.Band) lipgloss.Style {
	c, ok := bandColors[b]
	if !ok {
		c = colorGreen
	}
	return lipgloss.NewStyle().Foreground(c).Bold(true)
}

// scoreStyle colours a signed score: positive green, negative red, zero gray.
func scoreStyle(v int) lipgloss.Style {
	switch {
	case v > 0:
		return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
	case v < 0:
		return lipgloss.NewStyle().Foreground(colorRed).Bold(true)
	default:
		return lipgloss.NewStyle().Foreground(colorGray)
	}
}

// signed formats v with an explicit plus sign.
func signed(v int) string {
	if v > 0 {
		return fmt.Sprintf("+%d", v)
	}
	return fmt.Sprintf("%d", v)
}

// clock formats seconds as M:SS.
func clock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

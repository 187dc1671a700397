package hud

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title     lipgloss.Style
	header    lipgloss.Style
	system    lipgloss.Style
	detail    lipgloss.Style
	warning   lipgloss.Style
	alert     lipgloss.Style
	section   lipgloss.Style
	heading   lipgloss.Style
	empty     lipgloss.Style
	highValue lipgloss.Style
	value     lipgloss.Style
	meta      lipgloss.Style
	barFill   lipgloss.Style
	barEmpty  lipgloss.Style
	barEdge   lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:     lipgloss.NewStyle().Bold(true),
		header:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		system:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		detail:    lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		warning:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
		alert:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		section:   lipgloss.NewStyle().MarginTop(1),
		heading:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("250")),
		empty:     lipgloss.NewStyle().Faint(true),
		highValue: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220")),
		value:     lipgloss.NewStyle().Foreground(lipgloss.Color("159")),
		meta:      lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		barFill:   lipgloss.NewStyle().Foreground(lipgloss.Color("159")),
		barEmpty:  lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
		barEdge:   lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
	}
}

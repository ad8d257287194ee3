package tui

import (
	"stockview/internal/viewer"

	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	title       lipgloss.Style
	meta        lipgloss.Style
	metaValue   lipgloss.Style
	tab         lipgloss.Style
	activeTab   lipgloss.Style
	header      lipgloss.Style
	cell        lipgloss.Style
	selectedRow lipgloss.Style
	tiers       map[viewer.Tier]lipgloss.Style
	empty       lipgloss.Style
	loadError   lipgloss.Style
	prompt      lipgloss.Style
	status      lipgloss.Style
	picker      lipgloss.Style
	pickerItem  lipgloss.Style
	pickerPick  lipgloss.Style
	modal       lipgloss.Style
	modalError  lipgloss.Style
}

func defaultStyles() styles {
	border := lipgloss.RoundedBorder()
	return styles{
		title:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4")),
		meta:        lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		metaValue:   lipgloss.NewStyle().Bold(true),
		tab:         lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("250")),
		activeTab:   lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(lipgloss.Color("230")).Background(lipgloss.Color("#7D56F4")),
		header:      lipgloss.NewStyle().Bold(true).Padding(0, 1).Foreground(lipgloss.Color("230")).Background(lipgloss.Color("238")),
		cell:        lipgloss.NewStyle().Padding(0, 1),
		selectedRow: lipgloss.NewStyle().Padding(0, 1).Background(lipgloss.Color("236")),
		tiers: map[viewer.Tier]lipgloss.Style{
			viewer.TierExpired: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#C62828")),
			viewer.TierLow:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF5252")),
			viewer.TierMedium:  lipgloss.NewStyle().Foreground(lipgloss.Color("#FFB300")),
		},
		empty:      lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("#FFB300")).Padding(1, 2),
		loadError:  lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5252")).Padding(1, 2),
		prompt:     lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4")),
		status:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		picker:     lipgloss.NewStyle().Border(border).BorderForeground(lipgloss.Color("#7D56F4")).Padding(0, 1),
		pickerItem: lipgloss.NewStyle().PaddingLeft(2),
		pickerPick: lipgloss.NewStyle().PaddingLeft(0).Bold(true).Foreground(lipgloss.Color("#7D56F4")),
		modal:      lipgloss.NewStyle().Border(border).BorderForeground(lipgloss.Color("#43A047")).Padding(1, 3),
		modalError: lipgloss.NewStyle().Border(border).BorderForeground(lipgloss.Color("#C62828")).Padding(1, 3),
	}
}

// tierStyle layers the severity colors over base
func (s styles) tierStyle(base lipgloss.Style, tier viewer.Tier) lipgloss.Style {
	if t, ok := s.tiers[tier]; ok {
		return base.Inherit(t)
	}
	return base
}

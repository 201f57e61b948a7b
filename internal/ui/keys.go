package ui

import tea "github.com/charmbracelet/bubbletea"

func isQuit(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "q", "ctrl+c":
		return true
	}
	return false
}

func helpText() string {
	return "↑/↓ station  enter play  space pause  L live  +/- volume  t theme  q quit"
}

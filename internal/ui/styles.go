package ui

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/palemoky/uno-arena/internal/game/card"
)

// Icon constants
const (
	HostIcon    = "👑"
	OnlineIcon  = "🟢"
	OfflineIcon = "🔴"
)

// Lipgloss Styles
var (
	docStyle      = lipgloss.NewStyle().Margin(1, 2)
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("228")).Bold(true).Render
	boxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	promptStyle   = lipgloss.NewStyle().MarginTop(1)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	bannerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("11")).Bold(true).Padding(0, 1)
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	selectedStyle = lipgloss.NewStyle().Underline(true).Bold(true)

	colorStyles = map[string]lipgloss.Style{
		string(card.ColorRed):    lipgloss.NewStyle().Foreground(lipgloss.Color("#CD0000")).Bold(true),
		string(card.ColorBlue):   lipgloss.NewStyle().Foreground(lipgloss.Color("#0087FF")).Bold(true),
		string(card.ColorGreen):  lipgloss.NewStyle().Foreground(lipgloss.Color("#00AF00")).Bold(true),
		string(card.ColorYellow): lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD700")).Bold(true),
		string(card.ColorNone):   lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true),
	}
)

// cardLabel 牌面文字
func cardLabel(info cardFace) string {
	switch card.Type(info.Type) {
	case card.TypeNumber:
		return strconv.Itoa(info.Value)
	case card.TypeSkip:
		return "🚫"
	case card.TypeReverse:
		return "🔄"
	case card.TypePlus2:
		return "+2"
	case card.TypePlus4:
		return "+4"
	case card.TypePlus20:
		return "+20"
	case card.TypeWild:
		return "🌈"
	}
	return "?"
}

// cardFace 渲染牌面所需的最小字段
type cardFace struct {
	Type        string
	Color       string
	Value       int
	ChosenColor string
}

// renderCard 按颜色渲染一张牌
func renderCard(face cardFace, selected bool) string {
	color := face.Color
	if face.ChosenColor != "" {
		color = face.ChosenColor
	}
	style, ok := colorStyles[color]
	if !ok {
		style = colorStyles[string(card.ColorNone)]
	}

	text := "[" + cardLabel(face) + "]"
	if selected {
		return selectedStyle.Inherit(style).Render(text)
	}
	return style.Render(text)
}

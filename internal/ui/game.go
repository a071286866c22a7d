package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/palemoky/uno-arena/internal/game/card"
	"github.com/palemoky/uno-arena/internal/game/rules"
	"github.com/palemoky/uno-arena/internal/protocol"
	"github.com/palemoky/uno-arena/internal/protocol/convert"
)

// refreshPlayable 用与服务端完全相同的判定刷新出牌提示
func (m *Model) refreshPlayable() {
	m.playable = make(map[int]bool)
	if m.state == nil || m.state.TopCard == nil || m.state.Status != "playing" {
		return
	}

	top, ok := convert.CardFromInfo(*m.state.TopCard)
	if !ok {
		return
	}

	hand := make([]card.Card, 0, len(m.state.Hand))
	for _, info := range m.state.Hand {
		c, ok := convert.CardFromInfo(info)
		if !ok {
			return
		}
		hand = append(hand, c)
	}

	st := rules.State{
		PendingDraws:      m.state.PendingDraws,
		ReverseStackCount: m.state.ReverseStackCount,
		LastPlayedColor:   card.Color(m.state.LastPlayedColor),
	}
	for _, idx := range rules.PlayableIndexes(hand, top, st) {
		m.playable[idx] = true
	}
}

// myTurn 是否轮到自己
func (m *Model) myTurn() bool {
	return m.state != nil && m.state.CurrentPlayerID == m.playerID
}

// handleGameKey 对局中的按键
func (m *Model) handleGameKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "left", "h":
		if m.selectedIndex > 0 {
			m.selectedIndex--
		}
	case "right", "l":
		if m.state != nil && m.selectedIndex < len(m.state.Hand)-1 {
			m.selectedIndex++
		}
	case "enter", " ":
		m.tryPlaySelected()
	case "d":
		if m.client != nil && m.myTurn() {
			m.lastDrawn = nil
			_ = m.client.Draw()
		}
	case "q":
		return m.leaveAndQuit()
	}
	return m, nil
}

// tryPlaySelected 打出选中的牌，万能牌先进入选色阶段
func (m *Model) tryPlaySelected() {
	if m.client == nil || m.state == nil || !m.myTurn() {
		return
	}
	if m.selectedIndex >= len(m.state.Hand) {
		return
	}

	info := m.state.Hand[m.selectedIndex]
	if card.Type(info.Type) == card.TypeWild {
		m.phase = PhaseChooseColor
		return
	}
	_ = m.client.Play(m.selectedIndex, "")
}

// handleColorKey 万能牌选色
func (m *Model) handleColorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var chosen card.Color
	switch msg.String() {
	case "r":
		chosen = card.ColorRed
	case "b":
		chosen = card.ColorBlue
	case "g":
		chosen = card.ColorGreen
	case "y":
		chosen = card.ColorYellow
	case "esc":
		m.phase = PhasePlaying
		return m, nil
	default:
		return m, nil
	}

	m.phase = PhasePlaying
	if m.client != nil {
		_ = m.client.Play(m.selectedIndex, string(chosen))
	}
	return m, nil
}

// playerByID 在投影中找玩家
func (m *Model) playerByID(id string) *protocol.PlayerInfo {
	if m.state == nil {
		return nil
	}
	for i := range m.state.Players {
		if m.state.Players[i].ID == id {
			return &m.state.Players[i]
		}
	}
	return nil
}

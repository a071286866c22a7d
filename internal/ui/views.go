package ui

import (
	"fmt"
	"strings"

	"github.com/palemoky/uno-arena/internal/client"
)

func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle("🎴 UNO Arena"))
	b.WriteString("\n\n")

	if banner := m.reconnectBanner(); banner != "" {
		b.WriteString(banner)
		b.WriteString("\n\n")
	}

	switch m.phase {
	case PhaseName:
		b.WriteString("请输入昵称：\n")
		b.WriteString(m.input.View())
		b.WriteString(promptStyle.Render("\n回车确认 · Ctrl+C 退出"))

	case PhaseMenu:
		b.WriteString(fmt.Sprintf("你好，%s！\n\n", m.playerName))
		b.WriteString("[c] 创建房间\n")
		b.WriteString("[j] 加入房间\n")
		b.WriteString("[q] 退出\n")

	case PhaseJoinInput:
		b.WriteString("请输入房间号：\n")
		b.WriteString(m.input.View())
		b.WriteString(promptStyle.Render("\n回车加入 · Esc 返回"))

	case PhaseWaiting:
		b.WriteString(m.waitingView())

	case PhasePlaying, PhaseChooseColor:
		b.WriteString(m.gameView())

	case PhaseGameOver:
		b.WriteString(m.gameOverView())

	case PhaseFailed:
		b.WriteString(errorStyle.Render("连接已丢失，重连失败。\n"))
		b.WriteString("[q] 退出\n")
	}

	if m.errText != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("⚠ " + m.errText))
	}

	return docStyle.Render(b.String())
}

// reconnectBanner 重连状态横幅
func (m *Model) reconnectBanner() string {
	switch m.connState {
	case client.StateReconnecting:
		return bannerStyle.Render(fmt.Sprintf("🔄 连接断开，正在重连 (%d/5)...", m.reconnectAttempt))
	case client.StateFailed:
		return errorStyle.Render("❌ 重连失败")
	}
	return ""
}

// waitingView 开局前的房间等待界面
func (m *Model) waitingView() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("房间号: %s\n\n", titleStyle(m.roomCode)))

	if m.state != nil {
		for _, p := range m.state.Players {
			icon := OnlineIcon
			if !p.Connected {
				icon = OfflineIcon
			}
			host := ""
			if p.IsHost {
				host = " " + HostIcon
			}
			you := ""
			if p.ID == m.playerID {
				you = dimStyle.Render(" (你)")
			}
			b.WriteString(fmt.Sprintf("  %s %s%s%s\n", icon, p.Name, host, you))
		}
	}

	b.WriteString(promptStyle.Render("\n等待开局..."))
	if p := m.playerByID(m.playerID); p != nil && p.IsHost {
		b.WriteString("\n[s] 开始游戏")
	}
	b.WriteString("\n[q] 离开房间")
	return b.String()
}

// gameView 对局界面
func (m *Model) gameView() string {
	if m.state == nil {
		return "加载中..."
	}

	var b strings.Builder

	// 座位与手牌数
	for _, p := range m.state.Players {
		marker := "  "
		if p.ID == m.state.CurrentPlayerID {
			marker = "▶ "
		}
		icon := OnlineIcon
		if !p.Connected {
			icon = OfflineIcon
		}
		b.WriteString(fmt.Sprintf("%s%s %s · %d 张\n", marker, icon, p.Name, p.CardCount))
	}
	b.WriteString("\n")

	// 顶牌与局面
	if m.state.TopCard != nil {
		top := *m.state.TopCard
		b.WriteString("顶牌: " + renderCard(cardFace(top), false))
		if top.ChosenColor != "" {
			b.WriteString(dimStyle.Render(" (指定 " + top.ChosenColor + ")"))
		}
		b.WriteString("\n")
	}
	dir := "→"
	if m.state.Direction < 0 {
		dir = "←"
	}
	b.WriteString(fmt.Sprintf("方向: %s · 抽牌堆: %d\n", dir, m.state.DrawPileCount))
	if m.state.PendingDraws > 0 {
		b.WriteString(errorStyle.Render(fmt.Sprintf("💥 罚牌堆积: %d 张\n", m.state.PendingDraws)))
	}
	b.WriteString("\n")

	// 自己的手牌，可出的牌高亮提示
	var hand strings.Builder
	for i, info := range m.state.Hand {
		face := renderCard(cardFace(info), i == m.selectedIndex)
		if m.playable[i] && m.myTurn() {
			hand.WriteString(face + "✦ ")
		} else {
			hand.WriteString(face + "  ")
		}
	}
	b.WriteString(boxStyle.Render(hand.String()))
	b.WriteString("\n")

	if len(m.lastDrawn) > 0 {
		b.WriteString(dimStyle.Render(fmt.Sprintf("刚摸了 %d 张\n", len(m.lastDrawn))))
	}

	if m.phase == PhaseChooseColor {
		b.WriteString(promptStyle.Render("\n万能牌选色: [r]红 [b]蓝 [g]绿 [y]黄 · Esc 取消"))
	} else if m.myTurn() {
		b.WriteString(promptStyle.Render("\n轮到你了！ ←/→ 选牌 · 回车出牌 · [d] 摸牌 · [q] 离开"))
	} else {
		b.WriteString(promptStyle.Render("\n等待其他玩家..."))
	}
	return b.String()
}

// gameOverView 结算界面
func (m *Model) gameOverView() string {
	var b strings.Builder
	b.WriteString(titleStyle("🏁 对局结束"))
	b.WriteString("\n\n")

	if m.state != nil && m.state.Winner != "" {
		if p := m.playerByID(m.state.Winner); p != nil {
			b.WriteString(fmt.Sprintf("🏆 胜者: %s\n", p.Name))
		}
	} else {
		b.WriteString("对局被终止，无胜者\n")
	}

	if len(m.leaderboard) > 0 {
		b.WriteString("\n排行榜:\n")
		for _, e := range m.leaderboard {
			b.WriteString(fmt.Sprintf("  %2d. %s · %d 胜\n", e.Rank, e.Name, e.Wins))
		}
	}

	b.WriteString(promptStyle.Render("\n[l] 排行榜 · [q] 退出"))
	return b.String()
}

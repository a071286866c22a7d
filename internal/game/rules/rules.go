// Package rules 出牌合法性判定的唯一实现
// 服务端校验与客户端提示都只能调用这里，绝不允许第二份实现
package rules

import (
	"github.com/palemoky/uno-arena/internal/game/card"
)

// ReverseCap 同一未结算连锁内反转牌的最大连出次数
const ReverseCap = 4

// State 判定所需的房间状态切片
type State struct {
	PendingDraws      int        // 未结算的罚牌总数
	ReverseStackCount int        // 当前连锁内已连出的反转牌数
	LastPlayedColor   card.Color // 顶牌为万能牌时的生效颜色
}

// EffectiveColor 当前需要跟的颜色：顶牌本身的颜色，顶牌为万能牌时取 LastPlayedColor
func EffectiveColor(top card.Card, st State) card.Color {
	if top.IsWild() {
		return st.LastPlayedColor
	}
	return top.Color
}

// IsPlayable 判定一张牌当前是否可出
func IsPlayable(c card.Card, top card.Card, st State) bool {
	// 有未结算罚牌时只能继续叠加罚牌牌
	if st.PendingDraws > 0 {
		return c.IsDraw()
	}

	// 万能牌永远可出
	if c.IsWild() {
		return true
	}

	// 罚牌类可以无视颜色压在任意罚牌类上
	if c.IsDraw() && top.IsDraw() {
		return true
	}

	// 反转牌连出达到上限后禁止继续反转
	if c.Type == card.TypeReverse && st.ReverseStackCount >= ReverseCap {
		return false
	}

	// 颜色相同，或双方都是数字牌且点数相同
	if c.Color == EffectiveColor(top, st) {
		return true
	}
	return c.Type == card.TypeNumber && top.Type == card.TypeNumber && c.Value == top.Value
}

// PlayableIndexes 返回手牌中当前可出的下标集合（客户端提示用）
func PlayableIndexes(hand []card.Card, top card.Card, st State) []int {
	var idx []int
	for i, c := range hand {
		if IsPlayable(c, top, st) {
			idx = append(idx, i)
		}
	}
	return idx
}

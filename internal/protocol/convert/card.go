// Package convert 协议 DTO 与领域类型之间的转换
package convert

import (
	"github.com/palemoky/uno-arena/internal/game/card"
	"github.com/palemoky/uno-arena/internal/protocol"
)

// CardToInfo 领域牌转协议牌
func CardToInfo(c card.Card) protocol.CardInfo {
	return protocol.CardInfo{
		Type:        string(c.Type),
		Color:       string(c.Color),
		Value:       c.Value,
		ChosenColor: string(c.ChosenColor),
	}
}

// CardsToInfo 批量转换
func CardsToInfo(cards []card.Card) []protocol.CardInfo {
	infos := make([]protocol.CardInfo, len(cards))
	for i, c := range cards {
		infos[i] = CardToInfo(c)
	}
	return infos
}

// CardFromInfo 协议牌转领域牌并校验数据模型，来自不可信输入时必须走这里
func CardFromInfo(info protocol.CardInfo) (card.Card, bool) {
	c := card.Card{
		Type:        card.Type(info.Type),
		Color:       card.Color(info.Color),
		Value:       info.Value,
		ChosenColor: card.Color(info.ChosenColor),
	}
	if !c.Valid() {
		return card.Card{}, false
	}
	return c, true
}

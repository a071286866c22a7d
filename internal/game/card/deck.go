package card

import (
	"errors"
	"math/rand/v2"
)

// ErrDeckExhausted 两堆同时为空；牌面守恒下正常对局不可达
var ErrDeckExhausted = errors.New("deck exhausted")

// DeckSize 整副牌的固定张数，游戏全程守恒
// 每色 25 张（一张 0、两套 1-9、各两张 skip/reverse/+2）
// 加每色一张 +4、一张 +20，再加四张万能牌
const DeckSize = 25*4 + 4 + 4 + 4

// Deck 定义一副牌
type Deck []Card

// NewDeck 按固定牌面组成生成一副未洗的牌
func NewDeck() Deck {
	deck := make(Deck, 0, DeckSize)
	for _, color := range Colors {
		deck = append(deck, Card{Type: TypeNumber, Color: color, Value: 0})
		for v := 1; v <= 9; v++ {
			deck = append(deck,
				Card{Type: TypeNumber, Color: color, Value: v},
				Card{Type: TypeNumber, Color: color, Value: v},
			)
		}
		deck = append(deck,
			Card{Type: TypeSkip, Color: color},
			Card{Type: TypeSkip, Color: color},
			Card{Type: TypeReverse, Color: color},
			Card{Type: TypeReverse, Color: color},
			Card{Type: TypePlus2, Color: color},
			Card{Type: TypePlus2, Color: color},
			Card{Type: TypePlus4, Color: color},
			Card{Type: TypePlus20, Color: color},
		)
	}
	for i := 0; i < 4; i++ {
		deck = append(deck, Card{Type: TypeWild})
	}
	return deck
}

// Shuffle 洗牌
func (d Deck) Shuffle() {
	rand.Shuffle(len(d), func(i, j int) {
		d[i], d[j] = d[j], d[i]
	})
}

// Pile 抽牌堆与弃牌堆，弃牌堆末位即当前顶牌
type Pile struct {
	draw    []Card
	discard []Card
}

// NewPile 用洗好的整副牌初始化抽牌堆
func NewPile(deck Deck) *Pile {
	p := &Pile{draw: make([]Card, len(deck))}
	copy(p.draw, deck)
	return p
}

// Draw 摸出最多 n 张牌；两堆同时耗尽时返回 ErrDeckExhausted
func (p *Pile) Draw(n int) ([]Card, error) {
	cards := make([]Card, 0, n)
	for i := 0; i < n; i++ {
		if len(p.draw) == 0 {
			p.recycle()
		}
		if len(p.draw) == 0 {
			if len(cards) == 0 {
				return nil, ErrDeckExhausted
			}
			return cards, ErrDeckExhausted
		}
		cards = append(cards, p.draw[len(p.draw)-1])
		p.draw = p.draw[:len(p.draw)-1]
	}
	return cards, nil
}

// Discard 弃牌，成为新的顶牌
func (p *Pile) Discard(c Card) {
	p.discard = append(p.discard, c)
}

// Top 当前顶牌，弃牌堆为空时返回 false
func (p *Pile) Top() (Card, bool) {
	if len(p.discard) == 0 {
		return Card{}, false
	}
	return p.discard[len(p.discard)-1], true
}

// SetTop 直接替换顶牌（管理命令用）；被换下的牌回到弃牌堆中
func (p *Pile) SetTop(c Card) {
	p.discard = append(p.discard, c)
}

// Bury 把一张牌压入弃牌堆底（顶牌不变），等待下次回收洗入抽牌堆
func (p *Pile) Bury(c Card) {
	p.discard = append([]Card{c}, p.discard...)
}

// recycle 抽牌堆耗尽时，把顶牌以外的弃牌洗回抽牌堆
func (p *Pile) recycle() {
	if len(p.discard) <= 1 {
		return
	}
	top := p.discard[len(p.discard)-1]
	recycled := p.discard[:len(p.discard)-1]
	for i := range recycled {
		// 万能牌回堆时恢复未定色状态
		recycled[i].ChosenColor = ColorNone
	}
	p.draw = append(p.draw, recycled...)
	Deck(p.draw).Shuffle()
	p.discard = []Card{top}
}

// Counts 返回（抽牌堆张数, 弃牌堆张数），用于守恒校验与状态展示
func (p *Pile) Counts() (int, int) {
	return len(p.draw), len(p.discard)
}

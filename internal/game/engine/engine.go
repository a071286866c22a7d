// Package engine 单个房间的权威规则状态机
// 玩家操作与管理命令都通过同一组状态变更原语落地，
// 调用方（room）负责串行化，引擎本身不加锁
package engine

import (
	"math/rand/v2"

	"github.com/palemoky/uno-arena/internal/apperrors"
	"github.com/palemoky/uno-arena/internal/game/card"
	"github.com/palemoky/uno-arena/internal/game/rules"
)

// Status 对局状态
type Status string

const (
	StatusLobby    Status = "lobby"
	StatusPlaying  Status = "playing"
	StatusFinished Status = "finished"
)

// Player 座位上的玩家，ID 跨重连稳定，掉线不摘座
type Player struct {
	ID        string
	Name      string
	Avatar    string
	Connected bool
	IsHost    bool
	Hand      []card.Card
}

// Options 开局参数
type Options struct {
	MinPlayers       int
	StartingHand     int
	SkipDisconnected bool // 回合推进是否跳过掉线座位
}

// Game 房间规则状态机，Players 顺序即出牌顺序
type Game struct {
	Players            []*Player
	CurrentPlayerIndex int
	Direction          int // +1 顺时针 / -1 逆时针
	PendingDraws       int
	ReverseStackCount  int
	LastPlayedColor    card.Color
	Status             Status
	WinnerID           string

	pile *card.Pile
	opts Options
}

// NewGame 创建处于大厅状态的对局
func NewGame(opts Options) *Game {
	return &Game{
		Direction: 1,
		Status:    StatusLobby,
		opts:      opts,
	}
}

// AddPlayer 入座，第一位入座者为房主
func (g *Game) AddPlayer(id, name, avatar string) (*Player, error) {
	if g.Status != StatusLobby {
		return nil, apperrors.ErrGameStarted
	}
	p := &Player{
		ID:        id,
		Name:      name,
		Avatar:    avatar,
		Connected: false,
		IsHost:    len(g.Players) == 0,
	}
	g.Players = append(g.Players, p)
	return p, nil
}

// PlayerByID 按 ID 找座位，不存在返回 nil
func (g *Game) PlayerByID(id string) *Player {
	for _, p := range g.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// CurrentPlayer 当前回合玩家，空房间返回 nil
func (g *Game) CurrentPlayer() *Player {
	if len(g.Players) == 0 || g.CurrentPlayerIndex >= len(g.Players) {
		return nil
	}
	return g.Players[g.CurrentPlayerIndex]
}

// RulesState 构造合法性判定所需的状态切片
func (g *Game) RulesState() rules.State {
	return rules.State{
		PendingDraws:      g.PendingDraws,
		ReverseStackCount: g.ReverseStackCount,
		LastPlayedColor:   g.LastPlayedColor,
	}
}

// TopCard 当前顶牌
func (g *Game) TopCard() (card.Card, bool) {
	if g.pile == nil {
		return card.Card{}, false
	}
	return g.pile.Top()
}

// PileCounts 返回（抽牌堆张数, 弃牌堆张数）
func (g *Game) PileCounts() (int, int) {
	if g.pile == nil {
		return 0, 0
	}
	return g.pile.Counts()
}

// TotalCards 全场牌数（守恒校验用）
func (g *Game) TotalCards() int {
	draw, discard := g.PileCounts()
	total := draw + discard
	for _, p := range g.Players {
		total += len(p.Hand)
	}
	return total
}

// Start 正常开局，人数不足返回错误
func (g *Game) Start() error {
	return g.start(false)
}

// ForceStart 管理命令开局，绕过最少人数门槛
func (g *Game) ForceStart() error {
	return g.start(true)
}

func (g *Game) start(force bool) error {
	if g.Status != StatusLobby {
		return apperrors.ErrGameStarted
	}
	if !force && len(g.Players) < g.opts.MinPlayers {
		return apperrors.ErrNotEnoughPlayers
	}

	deck := card.NewDeck()
	deck.Shuffle()
	g.pile = card.NewPile(deck)

	for _, p := range g.Players {
		cards, err := g.pile.Draw(g.opts.StartingHand)
		if err != nil {
			return apperrors.ErrDeckExhausted
		}
		p.Hand = cards
	}

	// 翻出首张顶牌；特殊牌不生效，一直翻到数字牌为止
	for {
		cards, err := g.pile.Draw(1)
		if err != nil {
			return apperrors.ErrDeckExhausted
		}
		g.pile.Discard(cards[0])
		if cards[0].Type == card.TypeNumber {
			g.LastPlayedColor = cards[0].Color
			break
		}
	}

	g.Status = StatusPlaying
	g.CurrentPlayerIndex = 0
	g.Direction = 1
	return nil
}

// Play 玩家出牌；校验失败时状态不发生任何变化
func (g *Game) Play(playerID string, cardIndex int, chosenColor card.Color) error {
	if g.Status != StatusPlaying {
		return apperrors.ErrGameNotStart
	}
	current := g.CurrentPlayer()
	if current == nil || current.ID != playerID {
		return apperrors.ErrNotYourTurn
	}
	if cardIndex < 0 || cardIndex >= len(current.Hand) {
		return apperrors.ErrInvalidCardIndex
	}

	c := current.Hand[cardIndex]
	if c.IsWild() && !card.ValidColor(chosenColor) {
		return apperrors.ErrMissingColorChoice
	}
	top, ok := g.pile.Top()
	if !ok {
		return apperrors.ErrGameNotStart
	}
	if !rules.IsPlayable(c, top, g.RulesState()) {
		return apperrors.ErrIllegalPlay
	}

	// 牌离手成为顶牌
	current.Hand = append(current.Hand[:cardIndex], current.Hand[cardIndex+1:]...)
	if c.IsWild() {
		c.ChosenColor = chosenColor
	}
	g.pile.Discard(c)
	g.LastPlayedColor = c.EffectiveColor()
	if c.Type != card.TypeReverse {
		g.ReverseStackCount = 0
	}

	// 胜负判定先于回合推进
	if len(current.Hand) == 0 {
		g.Status = StatusFinished
		g.WinnerID = current.ID
		return nil
	}

	switch c.Type {
	case card.TypeSkip:
		g.advance(2)
	case card.TypeReverse:
		g.Direction = -g.Direction
		g.ReverseStackCount++
		g.advance(1)
	case card.TypePlus2, card.TypePlus4, card.TypePlus20:
		g.PendingDraws += c.DrawAmount()
		g.advance(1)
	default:
		g.advance(1)
	}
	return nil
}

// Draw 玩家摸牌：有罚牌堆则全额结算，否则摸一张；摸完回合即结束
func (g *Game) Draw(playerID string) ([]card.Card, bool, error) {
	if g.Status != StatusPlaying {
		return nil, false, apperrors.ErrGameNotStart
	}
	current := g.CurrentPlayer()
	if current == nil || current.ID != playerID {
		return nil, false, apperrors.ErrNotYourTurn
	}

	n, forced := 1, false
	if g.PendingDraws > 0 {
		n, forced = g.PendingDraws, true
	}

	cards, err := g.pile.Draw(n)
	if err != nil && len(cards) == 0 {
		return nil, false, apperrors.ErrDeckExhausted
	}
	current.Hand = append(current.Hand, cards...)
	g.PendingDraws = 0
	g.advance(1)
	return cards, forced, nil
}

// advance 按方向推进 steps 个座位
func (g *Game) advance(steps int) {
	if len(g.Players) == 0 {
		return
	}
	for i := 0; i < steps; i++ {
		g.step()
	}
}

// step 前进一个座位，按策略跳过掉线座位
func (g *Game) step() {
	n := len(g.Players)
	for tried := 0; tried < n; tried++ {
		g.CurrentPlayerIndex = (g.CurrentPlayerIndex + g.Direction + n) % n
		if !g.opts.SkipDisconnected || g.Players[g.CurrentPlayerIndex].Connected {
			return
		}
	}
	// 全员掉线时落在推进后的座位上，等待重连
}

// --- 管理命令复用的状态变更原语 ---

// GiveCard 向指定玩家手牌注入一张牌
func (g *Game) GiveCard(playerID string, c card.Card) error {
	p := g.PlayerByID(playerID)
	if p == nil {
		return apperrors.ErrPlayerNotFound
	}
	p.Hand = append(p.Hand, c)
	return nil
}

// RemoveCard 按下标移除指定玩家的一张手牌，移除的牌埋回弃牌堆底
func (g *Game) RemoveCard(playerID string, cardIndex int) (card.Card, error) {
	p := g.PlayerByID(playerID)
	if p == nil {
		return card.Card{}, apperrors.ErrPlayerNotFound
	}
	if cardIndex < 0 || cardIndex >= len(p.Hand) {
		return card.Card{}, apperrors.ErrInvalidCardIndex
	}
	c := p.Hand[cardIndex]
	p.Hand = append(p.Hand[:cardIndex], p.Hand[cardIndex+1:]...)
	if g.pile != nil {
		g.pile.Bury(c)
	}
	return c, nil
}

// SetTopCard 强制设置顶牌；万能牌可带未定色，生效颜色同步更新
func (g *Game) SetTopCard(c card.Card) error {
	if g.pile == nil {
		return apperrors.ErrGameNotStart
	}
	g.pile.SetTop(c)
	g.LastPlayedColor = c.EffectiveColor()
	return nil
}

// SkipTurn 不出牌直接跳过当前回合
func (g *Game) SkipTurn() error {
	if g.Status != StatusPlaying {
		return apperrors.ErrGameNotStart
	}
	g.advance(1)
	return nil
}

// FlipDirection 翻转出牌方向
func (g *Game) FlipDirection() error {
	if g.Status != StatusPlaying {
		return apperrors.ErrGameNotStart
	}
	g.Direction = -g.Direction
	return nil
}

// ForceDraw 强制指定玩家立即摸 count 张，不影响回合归属
func (g *Game) ForceDraw(playerID string, count int) ([]card.Card, error) {
	if g.Status != StatusPlaying {
		return nil, apperrors.ErrGameNotStart
	}
	p := g.PlayerByID(playerID)
	if p == nil {
		return nil, apperrors.ErrPlayerNotFound
	}
	cards, err := g.pile.Draw(count)
	if err != nil && len(cards) == 0 {
		return nil, apperrors.ErrDeckExhausted
	}
	p.Hand = append(p.Hand, cards...)
	return cards, nil
}

// SetCurrentPlayer 把回合指给任意座位
func (g *Game) SetCurrentPlayer(playerID string) error {
	for i, p := range g.Players {
		if p.ID == playerID {
			g.CurrentPlayerIndex = i
			return nil
		}
	}
	return apperrors.ErrPlayerNotFound
}

// RemovePlayer 摘除座位并重排回合下标，绝不让下标悬空
func (g *Game) RemovePlayer(playerID string) error {
	idx := -1
	for i, p := range g.Players {
		if p.ID == playerID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return apperrors.ErrPlayerNotFound
	}

	removed := g.Players[idx]
	g.Players = append(g.Players[:idx], g.Players[idx+1:]...)

	// 手牌埋回弃牌堆底，保持全场牌数守恒
	if g.pile != nil {
		for _, c := range removed.Hand {
			c.ChosenColor = card.ColorNone
			g.pile.Bury(c)
		}
	}

	// 房主离开时顺延给下一位
	if removed.IsHost && len(g.Players) > 0 {
		g.Players[0].IsHost = true
	}

	if len(g.Players) == 0 {
		g.CurrentPlayerIndex = 0
		return nil
	}
	if idx < g.CurrentPlayerIndex {
		g.CurrentPlayerIndex--
	}
	if g.CurrentPlayerIndex >= len(g.Players) {
		g.CurrentPlayerIndex = 0
	}
	return nil
}

// EndGame 管理命令直接结束对局，无胜者
func (g *Game) EndGame() {
	g.Status = StatusFinished
	g.WinnerID = ""
}

// RandomCard 从固定牌面组成中随机取一张（管理命令塞牌用）
func RandomCard() card.Card {
	deck := card.NewDeck()
	return deck[rand.IntN(len(deck))]
}

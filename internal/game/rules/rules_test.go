package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/palemoky/uno-arena/internal/game/card"
)

func TestIsPlayable_ColorAndValueMatch(t *testing.T) {
	top := card.Card{Type: card.TypeNumber, Color: card.ColorRed, Value: 5}
	st := State{}

	// Same color always works
	assert.True(t, IsPlayable(card.Card{Type: card.TypeNumber, Color: card.ColorRed, Value: 9}, top, st))
	assert.True(t, IsPlayable(card.Card{Type: card.TypeSkip, Color: card.ColorRed}, top, st))

	// Same value across colors works for number cards
	assert.True(t, IsPlayable(card.Card{Type: card.TypeNumber, Color: card.ColorBlue, Value: 5}, top, st))

	// Different color and value does not
	assert.False(t, IsPlayable(card.Card{Type: card.TypeNumber, Color: card.ColorBlue, Value: 6}, top, st))
	assert.False(t, IsPlayable(card.Card{Type: card.TypeSkip, Color: card.ColorBlue}, top, st))
}

func TestIsPlayable_WildAlwaysPlayable(t *testing.T) {
	top := card.Card{Type: card.TypeNumber, Color: card.ColorGreen, Value: 2}
	wild := card.Card{Type: card.TypeWild}

	assert.True(t, IsPlayable(wild, top, State{}))
	assert.False(t, IsPlayable(wild, top, State{PendingDraws: 6}), "wild is not a draw card and cannot answer a pending stack")
}

func TestIsPlayable_WildAndPendingDraws(t *testing.T) {
	// With pending draws only draw cards may be played
	top := card.Card{Type: card.TypePlus2, Color: card.ColorRed}
	st := State{PendingDraws: 2}

	assert.True(t, IsPlayable(card.Card{Type: card.TypePlus4, Color: card.ColorBlue}, top, st))
	assert.True(t, IsPlayable(card.Card{Type: card.TypePlus20, Color: card.ColorGreen}, top, st))
	assert.False(t, IsPlayable(card.Card{Type: card.TypeNumber, Color: card.ColorRed, Value: 2}, top, st))
	assert.False(t, IsPlayable(card.Card{Type: card.TypeSkip, Color: card.ColorRed}, top, st))
}

func TestIsPlayable_DrawOnDrawIgnoresColor(t *testing.T) {
	// A settled +2 on top (no pending draws): any draw card may still pile on
	top := card.Card{Type: card.TypePlus2, Color: card.ColorRed}
	st := State{}

	assert.True(t, IsPlayable(card.Card{Type: card.TypePlus20, Color: card.ColorYellow}, top, st))
	assert.True(t, IsPlayable(card.Card{Type: card.TypePlus2, Color: card.ColorBlue}, top, st))
}

func TestIsPlayable_ReverseCap(t *testing.T) {
	top := card.Card{Type: card.TypeReverse, Color: card.ColorRed}
	reverse := card.Card{Type: card.TypeReverse, Color: card.ColorRed}

	assert.True(t, IsPlayable(reverse, top, State{ReverseStackCount: ReverseCap - 1}))
	assert.False(t, IsPlayable(reverse, top, State{ReverseStackCount: ReverseCap}))
	assert.False(t, IsPlayable(reverse, top, State{ReverseStackCount: ReverseCap + 1}))

	// The cap only blocks reverse cards, not other same-color plays
	assert.True(t, IsPlayable(card.Card{Type: card.TypeNumber, Color: card.ColorRed, Value: 1}, top, State{ReverseStackCount: ReverseCap}))
}

func TestEffectiveColor_WildTop(t *testing.T) {
	wildTop := card.Card{Type: card.TypeWild, ChosenColor: card.ColorBlue}
	st := State{LastPlayedColor: card.ColorBlue}

	assert.Equal(t, card.ColorBlue, EffectiveColor(wildTop, st))
	assert.True(t, IsPlayable(card.Card{Type: card.TypeNumber, Color: card.ColorBlue, Value: 7}, wildTop, st))
	assert.False(t, IsPlayable(card.Card{Type: card.TypeNumber, Color: card.ColorRed, Value: 7}, wildTop, st))
}

func TestPlayableIndexes(t *testing.T) {
	top := card.Card{Type: card.TypeNumber, Color: card.ColorRed, Value: 5}
	hand := []card.Card{
		{Type: card.TypeNumber, Color: card.ColorBlue, Value: 5}, // value match
		{Type: card.TypeNumber, Color: card.ColorBlue, Value: 6}, // no match
		{Type: card.TypeWild},                                    // always
		{Type: card.TypeSkip, Color: card.ColorRed},              // color match
	}

	assert.Equal(t, []int{0, 2, 3}, PlayableIndexes(hand, top, State{}))
}

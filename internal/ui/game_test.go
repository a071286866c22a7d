package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/palemoky/uno-arena/internal/game/rules"
	"github.com/palemoky/uno-arena/internal/protocol"
)

func hintModel(state *protocol.GameStateDTO) *Model {
	m := NewModel("localhost:1789")
	m.state = state
	m.refreshPlayable()
	return m
}

func TestRefreshPlayable_MatchesServerRule(t *testing.T) {
	top := protocol.CardInfo{Type: "number", Color: "red", Value: 5}
	m := hintModel(&protocol.GameStateDTO{
		Status:  "playing",
		TopCard: &top,
		Hand: []protocol.CardInfo{
			{Type: "number", Color: "red", Value: 9},  // color match
			{Type: "number", Color: "blue", Value: 6}, // no match
			{Type: "wild"},                            // always
		},
		LastPlayedColor: "red",
	})

	assert.True(t, m.playable[0])
	assert.False(t, m.playable[1])
	assert.True(t, m.playable[2])
}

func TestRefreshPlayable_ReverseCapHint(t *testing.T) {
	// The hint must reject the 5th consecutive reverse exactly like the server does
	top := protocol.CardInfo{Type: "reverse", Color: "red"}
	hand := []protocol.CardInfo{
		{Type: "reverse", Color: "red"},
		{Type: "number", Color: "red", Value: 3},
	}

	capped := hintModel(&protocol.GameStateDTO{
		Status:            "playing",
		TopCard:           &top,
		Hand:              hand,
		LastPlayedColor:   "red",
		ReverseStackCount: rules.ReverseCap,
	})
	assert.False(t, capped.playable[0], "a reverse at the cap must not be hinted")
	assert.True(t, capped.playable[1], "other same-color plays stay hinted")

	belowCap := hintModel(&protocol.GameStateDTO{
		Status:            "playing",
		TopCard:           &top,
		Hand:              hand,
		LastPlayedColor:   "red",
		ReverseStackCount: rules.ReverseCap - 1,
	})
	assert.True(t, belowCap.playable[0])
}

func TestRefreshPlayable_PendingDrawsHint(t *testing.T) {
	top := protocol.CardInfo{Type: "plus2", Color: "red"}
	m := hintModel(&protocol.GameStateDTO{
		Status:          "playing",
		TopCard:         &top,
		Hand:            []protocol.CardInfo{{Type: "plus4", Color: "blue"}, {Type: "number", Color: "red", Value: 2}},
		LastPlayedColor: "red",
		PendingDraws:    2,
	})

	assert.True(t, m.playable[0], "draw cards answer a pending stack")
	assert.False(t, m.playable[1], "non-draw cards cannot answer a pending stack")
}

func TestRefreshPlayable_NotPlaying(t *testing.T) {
	m := hintModel(&protocol.GameStateDTO{Status: "lobby"})
	assert.Empty(t, m.playable)
}

package card

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDeck_Composition(t *testing.T) {
	deck := NewDeck()
	require.Len(t, deck, DeckSize)

	typeCount := make(map[Type]int)
	colorCount := make(map[Color]int)
	valueCount := make(map[int]int)
	for _, c := range deck {
		typeCount[c.Type]++
		colorCount[c.Color]++
		if c.Type == TypeNumber {
			valueCount[c.Value]++
		}
	}

	// Per color: one 0, two of each 1-9, two skip, two reverse, two +2, one +4, one +20
	assert.Equal(t, 4*19, typeCount[TypeNumber])
	assert.Equal(t, 8, typeCount[TypeSkip])
	assert.Equal(t, 8, typeCount[TypeReverse])
	assert.Equal(t, 8, typeCount[TypePlus2])
	assert.Equal(t, 4, typeCount[TypePlus4])
	assert.Equal(t, 4, typeCount[TypePlus20])
	assert.Equal(t, 4, typeCount[TypeWild])

	// Wilds are the only colorless cards
	assert.Equal(t, 4, colorCount[ColorNone])
	for _, color := range Colors {
		assert.Equal(t, 27, colorCount[color], "color %s", color)
	}

	assert.Equal(t, 4, valueCount[0])
	for v := 1; v <= 9; v++ {
		assert.Equal(t, 8, valueCount[v], "value %d", v)
	}
}

func TestCard_DrawAmounts(t *testing.T) {
	assert.Equal(t, 2, Card{Type: TypePlus2, Color: ColorRed}.DrawAmount())
	assert.Equal(t, 4, Card{Type: TypePlus4, Color: ColorRed}.DrawAmount())
	assert.Equal(t, 20, Card{Type: TypePlus20, Color: ColorRed}.DrawAmount())
	assert.Equal(t, 0, Card{Type: TypeNumber, Color: ColorRed, Value: 5}.DrawAmount())

	assert.True(t, Card{Type: TypePlus20, Color: ColorBlue}.IsDraw())
	assert.False(t, Card{Type: TypeWild}.IsDraw())
}

func TestCard_EffectiveColor(t *testing.T) {
	assert.Equal(t, ColorRed, Card{Type: TypeNumber, Color: ColorRed, Value: 3}.EffectiveColor())
	assert.Equal(t, ColorBlue, Card{Type: TypeWild, ChosenColor: ColorBlue}.EffectiveColor())
	assert.Equal(t, ColorNone, Card{Type: TypeWild}.EffectiveColor())
}

func TestCard_Valid(t *testing.T) {
	tests := []struct {
		name string
		card Card
		want bool
	}{
		{"number in range", Card{Type: TypeNumber, Color: ColorRed, Value: 9}, true},
		{"number out of range", Card{Type: TypeNumber, Color: ColorRed, Value: 10}, false},
		{"colored draw card", Card{Type: TypePlus20, Color: ColorGreen}, true},
		{"draw card without color", Card{Type: TypePlus2}, false},
		{"wild without color", Card{Type: TypeWild}, true},
		{"wild with chosen color", Card{Type: TypeWild, ChosenColor: ColorYellow}, true},
		{"wild with own color", Card{Type: TypeWild, Color: ColorRed}, false},
		{"non-wild with chosen color", Card{Type: TypeSkip, Color: ColorRed, ChosenColor: ColorRed}, false},
		{"unknown type", Card{Type: Type("bomb"), Color: ColorRed}, false},
		{"skip with value", Card{Type: TypeSkip, Color: ColorRed, Value: 3}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.card.Valid())
		})
	}
}

func TestPile_DrawAndConservation(t *testing.T) {
	deck := NewDeck()
	deck.Shuffle()
	pile := NewPile(deck)

	cards, err := pile.Draw(7)
	require.NoError(t, err)
	assert.Len(t, cards, 7)

	draw, discard := pile.Counts()
	assert.Equal(t, DeckSize-7, draw+discard)
}

func TestPile_RecycleKeepsTopAndTotal(t *testing.T) {
	deck := NewDeck()
	pile := NewPile(deck)

	// Move everything but one card into the discard pile
	cards, err := pile.Draw(DeckSize - 1)
	require.NoError(t, err)
	for _, c := range cards {
		pile.Discard(c)
	}
	top, ok := pile.Top()
	require.True(t, ok)

	// Drawing past the empty draw pile must trigger a recycle
	more, err := pile.Draw(5)
	require.NoError(t, err)
	assert.Len(t, more, 5)

	newTop, ok := pile.Top()
	require.True(t, ok)
	assert.Equal(t, top, newTop, "recycle must keep the top card in place")

	draw, discard := pile.Counts()
	assert.Equal(t, DeckSize, draw+discard+len(more))
}

func TestPile_RecycleClearsChosenColor(t *testing.T) {
	pile := NewPile(Deck{})
	pile.Discard(Card{Type: TypeWild, ChosenColor: ColorRed})
	pile.Discard(Card{Type: TypeNumber, Color: ColorBlue, Value: 1})

	cards, err := pile.Draw(1)
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, ColorNone, cards[0].ChosenColor, "recycled wild must return to undecided color")
}

func TestPile_Exhausted(t *testing.T) {
	pile := NewPile(Deck{})
	_, err := pile.Draw(1)
	assert.ErrorIs(t, err, ErrDeckExhausted)
}

func TestPile_BuryKeepsTop(t *testing.T) {
	pile := NewPile(Deck{})
	top := Card{Type: TypeNumber, Color: ColorRed, Value: 5}
	pile.Discard(top)

	pile.Bury(Card{Type: TypeSkip, Color: ColorBlue})

	got, ok := pile.Top()
	require.True(t, ok)
	assert.Equal(t, top, got)

	_, discard := pile.Counts()
	assert.Equal(t, 2, discard)
}

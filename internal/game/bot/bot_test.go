package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lastcard/internal/game/card"
	"lastcard/internal/game/engine"
)

func c(rank card.Rank, suit card.Suit) card.Card {
	return card.Card{Rank: rank, Suit: suit}
}

func newState(hand []card.Card, top card.Card, pressure int) engine.State {
	return engine.State{
		Deck:           card.Deck{c(card.Rank9, card.Club)},
		DiscardPile:    []card.Card{top},
		Hands:          [][]card.Card{hand, {c(card.Rank3, card.Diamond)}},
		CurrentPlayer:  0,
		Direction:      1,
		LastCardCalled: []bool{false, false},
		DrawPressure:   pressure,
		HasPlayed:      []bool{false, false},
	}
}

func TestChooseDrawsWithoutLegalMove(t *testing.T) {
	t.Parallel()

	s := newState([]card.Card{c(card.Rank5, card.Club)}, c(card.Rank7, card.Heart), 0)
	for _, d := range []Difficulty{Easy, Medium, Hard} {
		move := Choose(s, d)
		assert.True(t, move.Draw, "difficulty %s", d)
		assert.Empty(t, move.Cards)
	}
}

func TestChoosePrefersFunctionCards(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		hand []card.Card
		top  card.Card
		want card.Card
	}{
		{
			name: "a two beats a plain match",
			hand: []card.Card{c(card.Rank5, card.Heart), c(card.Rank2, card.Heart)},
			top:  c(card.Rank7, card.Heart),
			want: c(card.Rank2, card.Heart),
		},
		{
			name: "black jack over a red jack",
			hand: []card.Card{c(card.RankJ, card.Spade), c(card.RankJ, card.Heart)},
			top:  c(card.RankJ, card.Diamond),
			want: c(card.RankJ, card.Spade),
		},
		{
			name: "ace before a plain card",
			hand: []card.Card{c(card.Rank5, card.Heart), c(card.RankA, card.Heart)},
			top:  c(card.Rank7, card.Heart),
			want: c(card.RankA, card.Heart),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := newState(tt.hand, tt.top, 0)
			move := Choose(s, Medium)
			require.False(t, move.Draw)
			assert.Equal(t, tt.want, move.Cards[len(move.Cards)-1])
		})
	}
}

func TestChooseHardMaximizesDrawValue(t *testing.T) {
	t.Parallel()

	// Under pressure both twos and the black jack stack; hard picks the
	// heaviest combination available
	hand := []card.Card{c(card.Rank2, card.Heart), c(card.Rank2, card.Spade), c(card.RankJ, card.Club)}
	s := newState(hand, c(card.Rank7, card.Heart), 2)

	move := Choose(s, Hard)
	require.False(t, move.Draw)

	sum := 0
	for _, played := range move.Cards {
		sum += played.DrawWeight()
	}
	assert.Equal(t, 9, sum, "2+2+J stacks the full nine")
}

func TestChooseAlwaysReturnsLegalMove(t *testing.T) {
	t.Parallel()

	for i := 0; i < 50; i++ {
		s := engine.NewRound(2, engine.DefaultHandSize)
		for _, d := range []Difficulty{Easy, Medium, Hard} {
			move := Choose(s, d)
			if move.Draw {
				continue
			}
			require.NotEmpty(t, move.Cards)
			for _, played := range move.Cards {
				assert.Contains(t, s.Hands[s.CurrentPlayer], played)
			}
		}
	}
}

func TestTurnDelay(t *testing.T) {
	t.Parallel()

	assert.Greater(t, TurnDelay(Easy), TurnDelay(Medium))
	assert.Greater(t, TurnDelay(Medium), TurnDelay(Hard))
}

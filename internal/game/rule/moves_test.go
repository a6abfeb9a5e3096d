package rule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lastcard/internal/game/card"
)

func c(rank card.Rank, suit card.Suit) card.Card {
	return card.Card{Rank: rank, Suit: suit}
}

func hasSingle(m Moves, want card.Card) bool {
	for _, s := range m.Singles {
		if s == want {
			return true
		}
	}
	return false
}

func hasRun(m Moves, want []card.Card) bool {
	for _, run := range m.Runs {
		if len(run) != len(want) {
			continue
		}
		match := true
		for i := range run {
			if run[i] != want[i] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

func TestLegalMovesMatchingRule(t *testing.T) {
	t.Parallel()

	top := c(card.Rank7, card.Heart)

	tests := []struct {
		name  string
		card  card.Card
		legal bool
	}{
		{"same suit", c(card.Rank5, card.Heart), true},
		{"same rank", c(card.Rank7, card.Club), true},
		{"no match", c(card.Rank5, card.Club), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			moves := LegalMoves([]card.Card{tt.card}, top, 0)
			assert.Equal(t, tt.legal, hasSingle(moves, tt.card))
		})
	}
}

func TestLegalMovesQueenOnTopIsWild(t *testing.T) {
	t.Parallel()

	hand := []card.Card{
		c(card.Rank5, card.Club),
		c(card.RankK, card.Diamond),
		c(card.Rank9, card.Heart),
	}
	moves := LegalMoves(hand, c(card.RankQ, card.Spade), 0)

	for _, hc := range hand {
		assert.True(t, hasSingle(moves, hc), "%s should be playable on a Queen", hc)
	}
}

func TestLegalMovesUnderDrawPressure(t *testing.T) {
	t.Parallel()

	hand := []card.Card{
		c(card.Rank2, card.Spade),  // draw card, stacks
		c(card.RankJ, card.Club),   // black Jack, stacks
		c(card.RankJ, card.Heart),  // red Jack, shields
		c(card.Rank7, card.Spade),  // suit match but suspended under pressure
		c(card.Rank10, card.Heart), // no match at all
	}
	top := c(card.Rank7, card.Heart)
	moves := LegalMoves(hand, top, 2)

	assert.True(t, hasSingle(moves, c(card.Rank2, card.Spade)))
	assert.True(t, hasSingle(moves, c(card.RankJ, card.Club)))
	assert.True(t, hasSingle(moves, c(card.RankJ, card.Heart)))
	assert.False(t, hasSingle(moves, c(card.Rank7, card.Spade)), "normal matching is suspended")
	assert.False(t, hasSingle(moves, c(card.Rank10, card.Heart)))
}

func TestLegalMovesPressureRunRules(t *testing.T) {
	t.Parallel()

	t.Run("red jack only follows a draw card and terminates the run", func(t *testing.T) {
		t.Parallel()

		hand := []card.Card{
			c(card.Rank2, card.Spade),
			c(card.RankJ, card.Heart),
			c(card.Rank2, card.Club),
		}
		moves := LegalMoves(hand, c(card.Rank5, card.Heart), 2)

		assert.True(t, hasRun(moves, []card.Card{c(card.Rank2, card.Spade), c(card.RankJ, card.Heart)}))
		// Nothing may follow a red Jack
		assert.False(t, hasRun(moves, []card.Card{
			c(card.Rank2, card.Spade), c(card.RankJ, card.Heart), c(card.Rank2, card.Club),
		}))
		// A red Jack cannot start a run that continues
		assert.False(t, hasRun(moves, []card.Card{c(card.RankJ, card.Heart), c(card.Rank2, card.Spade)}))
	})

	t.Run("draw cards stack regardless of suit", func(t *testing.T) {
		t.Parallel()

		hand := []card.Card{c(card.Rank2, card.Spade), c(card.Rank2, card.Heart), c(card.RankJ, card.Club)}
		moves := LegalMoves(hand, c(card.Rank9, card.Diamond), 4)

		assert.True(t, hasRun(moves, []card.Card{
			c(card.Rank2, card.Spade), c(card.Rank2, card.Heart), c(card.RankJ, card.Club),
		}))
	})
}

func TestLegalMovesRunStepping(t *testing.T) {
	t.Parallel()

	top := c(card.Rank5, card.Heart)

	t.Run("adjacent same-suit steps in one direction", func(t *testing.T) {
		t.Parallel()

		hand := []card.Card{c(card.Rank5, card.Spade), c(card.Rank6, card.Spade), c(card.Rank7, card.Spade)}
		moves := LegalMoves(hand, top, 0)

		assert.True(t, hasRun(moves, []card.Card{
			c(card.Rank5, card.Spade), c(card.Rank6, card.Spade), c(card.Rank7, card.Spade),
		}))
	})

	t.Run("direction locks after the first step", func(t *testing.T) {
		t.Parallel()

		// 5-6-5 would need +1 then -1: illegal
		hand := []card.Card{c(card.Rank5, card.Heart), c(card.Rank6, card.Heart), c(card.Rank7, card.Heart), c(card.Rank4, card.Heart)}
		moves := LegalMoves(hand, top, 0)

		assert.True(t, hasRun(moves, []card.Card{
			c(card.Rank5, card.Heart), c(card.Rank6, card.Heart), c(card.Rank7, card.Heart),
		}))
		assert.False(t, hasRun(moves, []card.Card{
			c(card.Rank5, card.Heart), c(card.Rank6, card.Heart), c(card.Rank5, card.Heart),
		}))
		assert.False(t, hasRun(moves, []card.Card{
			c(card.Rank5, card.Heart), c(card.Rank4, card.Heart), c(card.Rank5, card.Heart),
		}))
		// 5-6 then back down through 5-4 mixes directions
		assert.False(t, hasRun(moves, []card.Card{
			c(card.Rank5, card.Heart), c(card.Rank6, card.Heart), c(card.Rank7, card.Heart), c(card.Rank4, card.Heart),
		}))
	})

	t.Run("adjacent step requires same suit", func(t *testing.T) {
		t.Parallel()

		hand := []card.Card{c(card.Rank5, card.Heart), c(card.Rank6, card.Spade)}
		moves := LegalMoves(hand, top, 0)

		assert.False(t, hasRun(moves, []card.Card{c(card.Rank5, card.Heart), c(card.Rank6, card.Spade)}))
	})

	t.Run("same-rank hop pivots to a new suit", func(t *testing.T) {
		t.Parallel()

		hand := []card.Card{c(card.Rank5, card.Heart), c(card.Rank5, card.Spade), c(card.Rank6, card.Spade)}
		moves := LegalMoves(hand, top, 0)

		assert.True(t, hasRun(moves, []card.Card{
			c(card.Rank5, card.Heart), c(card.Rank5, card.Spade), c(card.Rank6, card.Spade),
		}))
	})

	t.Run("hop keeps the established direction", func(t *testing.T) {
		t.Parallel()

		// 6♥5♥5♠6♠ would resume +1 after a -1 start
		hand := []card.Card{
			c(card.Rank6, card.Heart), c(card.Rank5, card.Heart),
			c(card.Rank5, card.Spade), c(card.Rank6, card.Spade),
		}
		moves := LegalMoves(hand, c(card.Rank6, card.Diamond), 0)

		assert.False(t, hasRun(moves, []card.Card{
			c(card.Rank6, card.Heart), c(card.Rank5, card.Heart),
			c(card.Rank5, card.Spade), c(card.Rank6, card.Spade),
		}))
		assert.True(t, hasRun(moves, []card.Card{
			c(card.Rank6, card.Heart), c(card.Rank5, card.Heart),
			c(card.Rank5, card.Spade),
		}))
	})

	t.Run("a card is never reused within one run", func(t *testing.T) {
		t.Parallel()

		hand := []card.Card{c(card.Rank5, card.Heart), c(card.Rank6, card.Heart)}
		moves := LegalMoves(hand, top, 0)

		for _, run := range moves.Runs {
			seen := make(map[card.Card]bool)
			for _, rc := range run {
				assert.False(t, seen[rc], "card %s reused in run %v", rc, run)
				seen[rc] = true
			}
		}
	})
}

func TestLegalMovesAceWrap(t *testing.T) {
	t.Parallel()

	t.Run("king ace two wraps once", func(t *testing.T) {
		t.Parallel()

		hand := []card.Card{c(card.RankK, card.Spade), c(card.RankA, card.Spade), c(card.Rank2, card.Spade)}
		moves := LegalMoves(hand, c(card.RankK, card.Heart), 0)

		// K→A is an ordinary +1 step, A→2 consumes the single allowed wrap
		assert.True(t, hasRun(moves, []card.Card{
			c(card.RankK, card.Spade), c(card.RankA, card.Spade), c(card.Rank2, card.Spade),
		}))
	})

	t.Run("second wrap is rejected", func(t *testing.T) {
		t.Parallel()

		// 2→A uses the wrap, A→K continues; K cannot wrap back to A
		hand := []card.Card{
			c(card.Rank2, card.Spade), c(card.RankA, card.Spade),
			c(card.RankK, card.Spade), c(card.Rank2, card.Heart),
		}
		moves := LegalMoves(hand, c(card.Rank2, card.Diamond), 0)

		assert.True(t, hasRun(moves, []card.Card{
			c(card.Rank2, card.Spade), c(card.RankA, card.Spade), c(card.RankK, card.Spade),
		}))
		// Wrapping a second time through A is not offered anywhere
		for _, run := range moves.Runs {
			wraps := 0
			for i := 1; i < len(run); i++ {
				last, next := run[i-1], run[i]
				if (last.Rank == card.RankA && next.Rank == card.Rank2) ||
					(last.Rank == card.Rank2 && next.Rank == card.RankA) {
					wraps++
				}
			}
			assert.LessOrEqual(t, wraps, 1, "run %v wraps twice", run)
		}
	})
}

func TestLegalMovesQueenPivot(t *testing.T) {
	t.Parallel()

	t.Run("queen follows only a same-suit jack or king", func(t *testing.T) {
		t.Parallel()

		hand := []card.Card{c(card.RankJ, card.Heart), c(card.RankQ, card.Heart)}
		moves := LegalMoves(hand, c(card.RankJ, card.Spade), 0)
		assert.True(t, hasRun(moves, []card.Card{c(card.RankJ, card.Heart), c(card.RankQ, card.Heart)}))

		hand = []card.Card{c(card.RankK, card.Club), c(card.RankQ, card.Club)}
		moves = LegalMoves(hand, c(card.RankK, card.Spade), 0)
		assert.True(t, hasRun(moves, []card.Card{c(card.RankK, card.Club), c(card.RankQ, card.Club)}))

		hand = []card.Card{c(card.RankJ, card.Heart), c(card.RankQ, card.Spade)}
		moves = LegalMoves(hand, c(card.RankJ, card.Spade), 0)
		assert.False(t, hasRun(moves, []card.Card{c(card.RankJ, card.Heart), c(card.RankQ, card.Spade)}),
			"queen pivot requires matching suit")

		hand = []card.Card{c(card.Rank10, card.Heart), c(card.RankQ, card.Heart)}
		moves = LegalMoves(hand, c(card.Rank10, card.Spade), 0)
		assert.False(t, hasRun(moves, []card.Card{c(card.Rank10, card.Heart), c(card.RankQ, card.Heart)}),
			"queen cannot follow a ten")
	})

	t.Run("anything may follow a queen", func(t *testing.T) {
		t.Parallel()

		hand := []card.Card{
			c(card.RankJ, card.Heart), c(card.RankQ, card.Heart), c(card.Rank3, card.Club),
		}
		moves := LegalMoves(hand, c(card.RankJ, card.Spade), 0)

		assert.True(t, hasRun(moves, []card.Card{
			c(card.RankJ, card.Heart), c(card.RankQ, card.Heart), c(card.Rank3, card.Club),
		}))
	})
}

func TestLegalMovesExploresAllBranches(t *testing.T) {
	t.Parallel()

	// 5♠ can be extended by either 6♠ (up) or 4♠ (down)
	hand := []card.Card{c(card.Rank5, card.Spade), c(card.Rank6, card.Spade), c(card.Rank4, card.Spade)}
	moves := LegalMoves(hand, c(card.Rank5, card.Heart), 0)

	assert.True(t, hasRun(moves, []card.Card{c(card.Rank5, card.Spade), c(card.Rank6, card.Spade)}))
	assert.True(t, hasRun(moves, []card.Card{c(card.Rank5, card.Spade), c(card.Rank4, card.Spade)}))
}

func TestLegalMovesEmptyHand(t *testing.T) {
	t.Parallel()

	moves := LegalMoves(nil, c(card.Rank5, card.Heart), 0)
	assert.Empty(t, moves.Singles)
	assert.Empty(t, moves.Runs)
}

func TestLegalMovesDoesNotMutateHand(t *testing.T) {
	t.Parallel()

	hand := []card.Card{c(card.Rank9, card.Heart), c(card.Rank5, card.Heart), c(card.Rank6, card.Heart)}
	original := append([]card.Card{}, hand...)

	_ = LegalMoves(hand, c(card.Rank5, card.Spade), 0)
	require.Equal(t, original, hand)
}

// Package engine 实现规则引擎的状态机部分：发牌、出牌结算、罚抽、
// 回合结束判定与报上牌声明。
//
// 引擎是纯同步、无 I/O 的：每个操作都是 (State, 输入) → 新 State 的
// 纯函数，State 一经返回不再被引擎修改。单机模式和服务器权威模式
// 共用这里的唯一一份实现，两端结算逐位一致
package engine

import (
	"lastcard/internal/game/card"
)

// DefaultHandSize 默认起手牌数
const DefaultHandSize = 5

// State 一局游戏的完整快照。每次结算都返回全新的 State，
// 持有方不得原地修改
type State struct {
	Deck        card.Deck
	DiscardPile []card.Card
	Hands       [][]card.Card
	// CurrentPlayer 当前行动的玩家下标
	CurrentPlayer int
	// Direction 行动顺序，+1 或 -1
	Direction int
	// Message 最近一次状态变化的描述，仅供 UI 展示
	Message string
	// LastCardCalled 各玩家是否有生效中的报上牌声明
	LastCardCalled []bool
	// DrawPressure 当前玩家必须消化的罚抽数，0 表示无压力
	DrawPressure int
	// HasPlayed 各玩家本局是否已完成过至少一个回合，只增不减
	HasPlayed []bool
}

// TopCard 弃牌堆顶牌，决定下一手的合法出牌
func (s State) TopCard() card.Card {
	return s.DiscardPile[len(s.DiscardPile)-1]
}

// clone 深拷贝快照，作为所有结算函数的起点
func (s State) clone() State {
	n := State{
		Deck:           make(card.Deck, len(s.Deck)),
		DiscardPile:    make([]card.Card, len(s.DiscardPile)),
		Hands:          make([][]card.Card, len(s.Hands)),
		CurrentPlayer:  s.CurrentPlayer,
		Direction:      s.Direction,
		Message:        s.Message,
		LastCardCalled: make([]bool, len(s.LastCardCalled)),
		DrawPressure:   s.DrawPressure,
		HasPlayed:      make([]bool, len(s.HasPlayed)),
	}
	copy(n.Deck, s.Deck)
	copy(n.DiscardPile, s.DiscardPile)
	for i, h := range s.Hands {
		n.Hands[i] = make([]card.Card, len(h))
		copy(n.Hands[i], h)
	}
	copy(n.LastCardCalled, s.LastCardCalled)
	copy(n.HasPlayed, s.HasPlayed)
	return n
}

// NewRound 开始新的一局：洗牌、发牌、翻一张起始牌。
// 单机与服务器两端都从这里建局，不各自造副本
func NewRound(playerCount, handSize int) State {
	deck := card.Shuffle(card.NewDeck())
	hands, remaining := card.Deal(deck, playerCount, handSize)

	starter := remaining[0]
	remaining = remaining[1:]

	return State{
		Deck:           remaining,
		DiscardPile:    []card.Card{starter},
		Hands:          hands,
		CurrentPlayer:  0,
		Direction:      1,
		Message:        "游戏开始！",
		LastCardCalled: make([]bool, playerCount),
		DrawPressure:   0,
		HasPlayed:      make([]bool, playerCount),
	}
}

// nextPlayerIndex 沿 direction 前进一个座位
func nextPlayerIndex(current, direction, total int) int {
	return (current + direction + total) % total
}

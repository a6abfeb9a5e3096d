package engine

import (
	"fmt"

	"lastcard/internal/game/card"
)

// ApplyCardEffect 结算一次出牌，返回新状态。
//
// 前置条件由调用方负责：playedCards 非空、全部来自当前玩家手牌、
// 且通过 rule.LegalMoves 校验。结算器信任输入以保持精简，
// 网络侧必须在调用前重新做服务端校验。
//
// 效果只由最后一张牌的点数决定，整条 run 在末尾一次性结算；
// 罚抽数则按 run 中所有 2 与黑 J 累加
func ApplyCardEffect(state State, playedCards []card.Card) State {
	if len(playedCards) == 0 {
		return state
	}

	s := state.clone()
	player := s.CurrentPlayer
	total := len(s.Hands)

	s.Hands[player] = removeCards(s.Hands[player], playedCards)
	s.DiscardPile = append(s.DiscardPile, playedCards...)
	s.HasPlayed[player] = true

	last := playedCards[len(playedCards)-1]
	drawWeight := 0
	for _, c := range playedCards {
		drawWeight += c.DrawWeight()
	}

	switch {
	case last.Rank == card.Rank2:
		s.DrawPressure += drawWeight
		s.CurrentPlayer = nextPlayerIndex(player, s.Direction, total)
		s.LastCardCalled[s.CurrentPlayer] = false
		s.Message = fmt.Sprintf("罚抽压力增加到 %d", s.DrawPressure)

	case last.IsDrawCard(): // 黑 J
		s.DrawPressure += drawWeight
		s.CurrentPlayer = nextPlayerIndex(player, s.Direction, total)
		s.LastCardCalled[s.CurrentPlayer] = false
		s.Message = fmt.Sprintf("罚抽压力增加到 %d", s.DrawPressure)

	case last.IsRedJack():
		// 红 J 无条件清空压力，本回合到此为止
		if state.DrawPressure > 0 {
			s.Message = "红 J 抵消了罚抽压力"
		} else {
			s.Message = "红 J 抵消效果"
		}
		s.DrawPressure = 0
		s.CurrentPlayer = nextPlayerIndex(player, s.Direction, total)

	case last.Rank == card.Rank8:
		// 跳过下家：视作其已完成回合但不行动
		skipped := nextPlayerIndex(player, s.Direction, total)
		s.HasPlayed[skipped] = true
		s.LastCardCalled[skipped] = false
		s.Message = fmt.Sprintf("玩家 %d 被跳过", skipped+1)
		s.CurrentPlayer = nextPlayerIndex(skipped, s.Direction, total)

	case last.Rank == card.RankK:
		s.Direction *= -1
		s.Message = "出牌顺序反转"
		s.CurrentPlayer = nextPlayerIndex(player, s.Direction, total)

	case last.Rank == card.RankA:
		// A 只改变后续匹配用的花色，花色信息就在堆顶牌本身，无需额外字段
		s.Message = fmt.Sprintf("花色变为 %s", last.Suit)
		s.CurrentPlayer = nextPlayerIndex(player, s.Direction, total)

	case last.Rank == card.RankQ:
		if len(playedCards) > 1 {
			// Q 已被同一条 run 中的牌盖过，不追加惩罚
			s.Message = "Q 已被盖牌"
			s.CurrentPlayer = nextPlayerIndex(player, s.Direction, total)
		} else {
			// 单出 Q 没盖住，自己罚抽 1 张
			var drawn []card.Card
			s.Deck, s.DiscardPile, drawn = card.Draw(s.Deck, s.DiscardPile, 1)
			s.Hands[player] = append(s.Hands[player], drawn...)
			s.LastCardCalled[player] = false
			s.Message = fmt.Sprintf("玩家 %d 没盖住 Q，罚抽 %d 张", player+1, len(drawn))
			s.CurrentPlayer = nextPlayerIndex(player, s.Direction, total)
		}

	default:
		s.CurrentPlayer = nextPlayerIndex(player, s.Direction, total)
		s.Message = fmt.Sprintf("玩家 %d 打出 %s", player+1, last)
	}

	// 报上牌惩罚：手牌打空但事先没有声明，立刻罚抽 1 张。
	// 这一步必须发生在回合结束判定之前——顺序改变就改变了谁能赢。
	// 牌堆与弃牌堆同时耗尽时抽不到牌，惩罚照样执行以保持规则一致
	if len(s.Hands[player]) == 0 && !state.LastCardCalled[player] {
		var drawn []card.Card
		s.Deck, s.DiscardPile, drawn = card.Draw(s.Deck, s.DiscardPile, 1)
		s.Hands[player] = append(s.Hands[player], drawn...)
		s.LastCardCalled[player] = false
		penalty := fmt.Sprintf("玩家 %d 没报上牌，罚抽 %d 张", player+1, len(drawn))
		if s.Message != "" {
			s.Message += " " + penalty
		} else {
			s.Message = penalty
		}
	} else if len(s.Hands[player]) > 0 {
		// 声明不跨回合：回合结束手牌未清空即失效
		s.LastCardCalled[player] = false
	}

	return s
}

// ApplyDraw 结算一次主动抽牌：有罚抽压力时抽满压力数并清零，
// 否则抽 1 张；回合随即交给下家
func ApplyDraw(state State, player int) State {
	s := state.clone()
	total := len(s.Hands)

	count := 1
	if s.DrawPressure > 0 {
		count = s.DrawPressure
	}

	var drawn []card.Card
	s.Deck, s.DiscardPile, drawn = card.Draw(s.Deck, s.DiscardPile, count)
	s.Hands[player] = append(s.Hands[player], drawn...)
	s.DrawPressure = 0
	s.HasPlayed[player] = true
	s.LastCardCalled[player] = false
	s.CurrentPlayer = nextPlayerIndex(player, s.Direction, total)
	s.Message = fmt.Sprintf("玩家 %d 抽了 %d 张牌", player+1, len(drawn))

	return s
}

// Penalty 违规罚抽的牌数构成
type Penalty struct {
	// Exposure 亮牌罚抽
	Exposure int
	// Misplay 错出罚抽
	Misplay int
}

// DefaultPenalty 默认罚则：错出 2 张 + 亮牌 1 张
func DefaultPenalty() Penalty {
	return Penalty{Exposure: 1, Misplay: 2}
}

// ApplyPenalty 对违规玩家执行罚抽。违规由外围游戏检测，
// 引擎不做自动判定；罚抽后回合直接交给下家
func ApplyPenalty(state State, player int, p Penalty) State {
	s := state.clone()
	total := len(s.Hands)

	var drawn []card.Card
	s.Deck, s.DiscardPile, drawn = card.Draw(s.Deck, s.DiscardPile, p.Exposure+p.Misplay)
	s.Hands[player] = append(s.Hands[player], drawn...)
	s.LastCardCalled[player] = false
	s.HasPlayed[player] = true

	exposureDrawn := min(p.Exposure, len(drawn))
	misplayDrawn := len(drawn) - exposureDrawn
	s.Message = fmt.Sprintf("违规出牌：错出罚抽 %d 张，亮牌罚抽 %d 张", misplayDrawn, exposureDrawn)

	s.CurrentPlayer = nextPlayerIndex(player, s.Direction, total)
	return s
}

// removeCards 从手牌中移除指定的牌（按唯一标识匹配）
func removeCards(hand, toRemove []card.Card) []card.Card {
	result := make([]card.Card, 0, len(hand))
	for _, c := range hand {
		removed := false
		for _, r := range toRemove {
			if c == r {
				removed = true
				break
			}
		}
		if !removed {
			result = append(result, c)
		}
	}
	return result
}

package engine

import (
	"fmt"

	"lastcard/internal/game/rule"
)

// DeclareLastCard 处理玩家的报上牌声明。全部条件满足才生效：
//  1. player 下标有效
//  2. 本局尚未结束
//  3. 所有玩家都已完成过至少一个回合（开局第一圈不允许声明）
//  4. 不在自己的回合内（声明必须抢在行动之前）
//  5. 手牌非空
//  6. 手牌当前就能一手打空：单张在 Singles 中，
//     多张则存在长度恰等于手牌数的 run
//
// 任一条件不满足则原样返回状态——静默无操作而非错误，
// 需要反馈的调用方只能自行复查原因
func DeclareLastCard(state State, player int) State {
	if player < 0 || player >= len(state.Hands) {
		return state
	}
	if IsRoundOver(state).Over {
		return state
	}
	for _, played := range state.HasPlayed {
		if !played {
			return state
		}
	}
	if state.CurrentPlayer == player {
		return state
	}

	hand := state.Hands[player]
	if len(hand) == 0 {
		return state
	}

	moves := rule.LegalMoves(hand, state.TopCard(), state.DrawPressure)
	canGoOut := false
	if len(hand) == 1 {
		for _, c := range moves.Singles {
			if c == hand[0] {
				canGoOut = true
				break
			}
		}
	} else {
		for _, run := range moves.Runs {
			if len(run) == len(hand) {
				canGoOut = true
				break
			}
		}
	}
	if !canGoOut {
		return state
	}

	s := state.clone()
	s.LastCardCalled[player] = true
	s.Message = fmt.Sprintf("玩家 %d 报上牌！", player+1)
	return s
}

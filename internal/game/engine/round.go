package engine

// NoWinner 表示本局没有胜者（僵局收场）
const NoWinner = -1

// RoundResult 回合结束判定结果
type RoundResult struct {
	Over bool
	// Winner 获胜玩家下标，僵局时为 NoWinner
	Winner int
}

// IsRoundOver 判定本局是否结束。
// 胜者：按下标扫描，第一个手牌为空且声明生效的玩家。
// 僵局：有人手牌为空但没有生效声明，且无人满足胜利条件——
// 报上牌惩罚的设计让这种情况很少见，这里是兜底
// （例如牌堆和弃牌堆同时耗尽、罚抽无牌可抽时）
func IsRoundOver(state State) RoundResult {
	winner := NoWinner
	stalemate := false

	for i, hand := range state.Hands {
		if len(hand) != 0 {
			continue
		}
		if state.LastCardCalled[i] {
			if winner == NoWinner {
				winner = i
			}
		} else {
			stalemate = true
		}
	}

	if winner != NoWinner {
		return RoundResult{Over: true, Winner: winner}
	}
	if stalemate {
		return RoundResult{Over: true, Winner: NoWinner}
	}
	return RoundResult{Over: false, Winner: NoWinner}
}

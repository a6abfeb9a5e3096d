// Package bot 实现人机对战的出牌策略。策略只是消费
// rule.LegalMoves 的一个简单优先级列表，不属于规则引擎
package bot

import (
	"math/rand/v2"
	"sort"
	"time"

	"lastcard/internal/game/card"
	"lastcard/internal/game/engine"
	"lastcard/internal/game/rule"
)

// Difficulty 机器人难度
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// Move 机器人的选择：出牌或抽牌，二选一
type Move struct {
	Cards []card.Card
	Draw  bool
}

// Choose 为当前玩家选一手牌。
//   - easy: 30% 概率随机出一手合法牌，其余走 medium 逻辑
//   - medium: 按 2 → 黑 J → 红 J → A 的优先级找功能牌
//   - hard: 在 medium 基础上优先打罚抽数最大的组合
//
// 没有合法出牌时选择抽牌
func Choose(state engine.State, difficulty Difficulty) Move {
	hand := state.Hands[state.CurrentPlayer]
	moves := rule.LegalMoves(hand, state.TopCard(), state.DrawPressure)

	valid := make([][]card.Card, 0, len(moves.Singles)+len(moves.Runs))
	for _, c := range moves.Singles {
		valid = append(valid, []card.Card{c})
	}
	valid = append(valid, moves.Runs...)

	if len(valid) == 0 {
		return Move{Draw: true}
	}

	if difficulty == Easy && rand.Float64() < 0.3 {
		return Move{Cards: valid[rand.IntN(len(valid))]}
	}

	if difficulty == Hard {
		drawMoves := make([][]card.Card, 0, len(valid))
		for _, run := range valid {
			if drawValue(run) > 0 {
				drawMoves = append(drawMoves, run)
			}
		}
		if len(drawMoves) > 0 {
			sort.SliceStable(drawMoves, func(i, j int) bool {
				return drawValue(drawMoves[i]) > drawValue(drawMoves[j])
			})
			return Move{Cards: drawMoves[0]}
		}
	}

	priorities := []func(last card.Card) bool{
		func(last card.Card) bool { return last.Rank == card.Rank2 },
		func(last card.Card) bool { return last.IsDrawCard() && last.Rank == card.RankJ },
		func(last card.Card) bool { return last.IsRedJack() },
		func(last card.Card) bool { return last.Rank == card.RankA },
	}

	for _, matches := range priorities {
		choices := make([][]card.Card, 0, len(valid))
		for _, run := range valid {
			if matches(run[len(run)-1]) {
				choices = append(choices, run)
			}
		}
		if len(choices) > 0 {
			sort.SliceStable(choices, func(i, j int) bool {
				return drawValue(choices[i]) > drawValue(choices[j])
			})
			return Move{Cards: choices[0]}
		}
	}

	return Move{Cards: valid[0]}
}

// TurnDelay 机器人"思考"时长，难度越高反应越快
func TurnDelay(difficulty Difficulty) time.Duration {
	switch difficulty {
	case Easy:
		return 2 * time.Second
	case Hard:
		return time.Second
	default:
		return 1500 * time.Millisecond
	}
}

// drawValue 整条 run 叠加的罚抽数
func drawValue(run []card.Card) int {
	sum := 0
	for _, c := range run {
		sum += c.DrawWeight()
	}
	return sum
}

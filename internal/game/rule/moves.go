// Package rule 实现出牌合法性枚举：单张与连打序列（run）。
//
// 连打规则是整个游戏里最精细的部分，所有分支都有对应测试：
//   - 同花色 ±1 步进，首次步进后方向锁定
//   - 同点数换花色（hop）
//   - K↔A↔2 的 Ace 回绕，每条 run 至多一次
//   - Q 只能紧跟同花色的 J/K 之后（pivot），Q 之后约束重置
//   - 罚抽压力下只有罚抽牌可接，红 J 只能作为终结牌
package rule

import (
	"sort"

	"lastcard/internal/game/card"
)

// Moves 枚举结果：可出的单张与长度 ≥2 的连打序列
type Moves struct {
	Singles []card.Card
	Runs    [][]card.Card
}

// LegalMoves 枚举手牌面对 topCard 和当前罚抽压力时的全部合法出法。
// 纯函数，不修改入参；既用于出牌校验，也驱动机器人和 UI 高亮
func LegalMoves(hand []card.Card, topCard card.Card, drawPressure int) Moves {
	sorted := make([]card.Card, len(hand))
	copy(sorted, hand)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Rank < sorted[j].Rank
	})

	e := &enumerator{
		hand:         sorted,
		topCard:      topCard,
		drawPressure: drawPressure,
	}

	for i, c := range sorted {
		if e.canStart(c) {
			e.extend([]card.Card{c}, 1<<i, 0, 0)
		}
	}

	return Moves{Singles: e.singles, Runs: e.runs}
}

// enumerator 深度优先搜索的上下文。used 位掩码按值传递，
// 避免闭包共享可变切片带来的别名问题
type enumerator struct {
	hand         []card.Card
	topCard      card.Card
	drawPressure int

	singles []card.Card
	runs    [][]card.Card
}

// canStart 判断一张牌能否作为序列的第一张
func (e *enumerator) canStart(c card.Card) bool {
	if e.drawPressure > 0 {
		return c.IsDrawCard() || c.IsRedJack()
	}
	// 弃牌堆顶是 Q 时任意牌可出
	if e.topCard.Rank == card.RankQ {
		return true
	}
	return c.Suit == e.topCard.Suit || c.Rank == e.topCard.Rank
}

// rankStep 计算 last→next 的步进值。K→A、A→2 视作 +1，
// 镜像方向视作 -1；其余按点数下标差
func rankStep(last, next card.Card) int {
	switch {
	case last.Rank == card.RankK && next.Rank == card.RankA:
		return 1
	case last.Rank == card.RankA && next.Rank == card.Rank2:
		return 1
	case last.Rank == card.Rank2 && next.Rank == card.RankA:
		return -1
	case last.Rank == card.RankA && next.Rank == card.RankK:
		return -1
	}
	return int(next.Rank) - int(last.Rank)
}

// isWrap 该步进是否穿过 A 的回绕（A↔2 一侧；K↔A 已是普通 ±1 下标差之外的情形）
func isWrap(last, next card.Card) bool {
	return (last.Rank == card.RankA && next.Rank == card.Rank2) ||
		(last.Rank == card.Rank2 && next.Rank == card.RankA)
}

// canFollow 判断 next 能否接在当前 run 末尾。direction 为 0 表示尚未定向
func (e *enumerator) canFollow(last, next card.Card, direction int) bool {
	if e.drawPressure > 0 {
		// 压力下：红 J 只能接在罚抽牌之后，其余必须继续叠罚抽牌
		if next.IsRedJack() {
			return last.IsDrawCard()
		}
		return next.IsDrawCard()
	}

	// Q 之后约束重置，什么都能接
	if last.Rank == card.RankQ {
		return true
	}
	// Q 只能紧跟同花色的 J 或 K
	if next.Rank == card.RankQ {
		return (last.Rank == card.RankJ || last.Rank == card.RankK) && last.Suit == next.Suit
	}

	step := rankStep(last, next)
	if step == 1 || step == -1 {
		if last.Suit != next.Suit {
			return false
		}
		// 方向一经确立不可反转
		if direction != 0 && direction != step {
			return false
		}
		return true
	}
	// 同点数换花色
	return step == 0
}

// nextDirection 更新 run 的方向。Q 前后方向清零，同点数 hop 保持原方向
func (e *enumerator) nextDirection(last, next card.Card, direction int) int {
	if e.drawPressure > 0 {
		return 0
	}
	if last.Rank == card.RankQ || next.Rank == card.RankQ {
		return 0
	}
	step := rankStep(last, next)
	if step == 1 || step == -1 {
		return step
	}
	return direction
}

// extend 从当前 run 出发探索所有可行的后继。长度 1 记入 Singles，
// 长度 ≥2 记入 Runs；同一张牌在一条 run 中只能用一次
func (e *enumerator) extend(run []card.Card, used uint64, direction, wraps int) {
	if len(run) == 1 {
		e.singles = append(e.singles, run[0])
	} else {
		e.runs = append(e.runs, run)
	}

	last := run[len(run)-1]
	// 压力下红 J 是终结牌，后面不能再接
	if e.drawPressure > 0 && last.IsRedJack() {
		return
	}

	for i, next := range e.hand {
		if used&(1<<i) != 0 {
			continue
		}
		if !e.canFollow(last, next, direction) {
			continue
		}

		nwraps := wraps
		if e.drawPressure == 0 && isWrap(last, next) {
			nwraps++
		}
		// Ace 回绕每条 run 至多一次
		if nwraps > 1 {
			continue
		}

		// 每个分支独立复制，避免 append 复用底层数组造成串扰
		branch := make([]card.Card, len(run)+1)
		copy(branch, run)
		branch[len(run)] = next
		e.extend(branch, used|1<<i, e.nextDirection(last, next, direction), nwraps)
	}
}

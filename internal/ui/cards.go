package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"lastcard/internal/game/card"
)

// renderCardFace 单张牌面，如 " Q♠ "
func renderCardFace(c card.Card, legal bool) string {
	face := fmt.Sprintf(" %s%s ", c.Rank, c.Suit)

	if !legal {
		return dimCardStyle.Render(face)
	}
	if c.Suit.IsRed() {
		return redCardStyle.Render(face)
	}
	return blackCardStyle.Render(face)
}

// renderHand 渲染一排手牌。cursor 指向当前牌，selection 是已选下标
// （按选择顺序，连出时这个顺序就是出牌顺序），legal 标记哪些牌当前
// 可出，不可出的显示为灰色
func renderHand(hand []card.Card, cursor int, selection []int, legal map[int]bool) string {
	if len(hand) == 0 {
		return promptStyle.Render("（手牌已空）")
	}

	order := make(map[int]int, len(selection))
	for pos, idx := range selection {
		order[idx] = pos + 1
	}

	var top, mid, bottom []string
	for i, c := range hand {
		marker := "  "
		if i == cursor {
			marker = cursorStyle.Render("▼ ")
		}
		top = append(top, marker)

		mid = append(mid, renderCardFace(c, legal == nil || legal[i]))

		if pos, ok := order[i]; ok {
			bottom = append(bottom, selectedStyle.Render(fmt.Sprintf("[%d]", pos)))
		} else {
			bottom = append(bottom, "   ")
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		strings.Join(top, " "),
		strings.Join(mid, " "),
		strings.Join(bottom, " "),
	)
}

// renderTopCard 弃牌堆顶
func renderTopCard(c card.Card) string {
	return boxStyle.Render("堆顶 " + renderCardFace(c, true))
}

// renderCards 一排牌面（展示用，不带光标）
func renderCards(cards []card.Card) string {
	if len(cards) == 0 {
		return ""
	}
	faces := make([]string, len(cards))
	for i, c := range cards {
		faces[i] = renderCardFace(c, true)
	}
	return strings.Join(faces, " ")
}

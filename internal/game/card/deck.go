package card

import (
	"log"
	"math/rand/v2"
)

// Deck 定义一副牌
type Deck []Card

// NewDeck 生成标准 52 张牌（无大小王），顺序固定
func NewDeck() Deck {
	deck := make(Deck, 0, 52)
	for s := Spade; s <= Club; s++ {
		for r := RankA; r <= RankK; r++ {
			deck = append(deck, Card{Suit: s, Rank: r})
		}
	}
	return deck
}

// Shuffle 返回洗好的新牌堆，不修改入参
func Shuffle(d Deck) Deck {
	shuffled := make(Deck, len(d))
	copy(shuffled, d)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled
}

// Deal 从牌堆头部连续发牌：前 handSize 张给 0 号玩家，依此类推。
// 返回各玩家手牌和剩余牌堆
func Deal(d Deck, players, handSize int) (hands [][]Card, remaining Deck) {
	remaining = make(Deck, len(d))
	copy(remaining, d)

	hands = make([][]Card, players)
	for i := range players {
		hand := make([]Card, handSize)
		copy(hand, remaining[:handSize])
		hands[i] = hand
		remaining = remaining[handSize:]
	}
	return hands, remaining
}

// Draw 从牌堆头部抽最多 count 张。牌堆抽空时把弃牌堆（保留顶牌）重洗补充；
// 补充后仍无牌可抽则提前返回，抽到的数量可能少于 count。
// 残局时发生这种短抽是正常情况，仅记录警告
func Draw(deck Deck, discard []Card, count int) (Deck, []Card, []Card) {
	newDeck := make(Deck, len(deck))
	copy(newDeck, deck)
	newDiscard := make([]Card, len(discard))
	copy(newDiscard, discard)

	drawn := make([]Card, 0, count)
	for range count {
		if len(newDeck) == 0 {
			if len(newDiscard) <= 1 {
				break
			}
			top := newDiscard[len(newDiscard)-1]
			newDeck = Shuffle(Deck(newDiscard[:len(newDiscard)-1]))
			newDiscard = []Card{top}
		}
		drawn = append(drawn, newDeck[0])
		newDeck = newDeck[1:]
	}

	if len(drawn) < count {
		log.Printf("⚠️ 牌堆耗尽：请求抽 %d 张，实际只抽到 %d 张", count, len(drawn))
	}

	return newDeck, newDiscard, drawn
}

package convert

import (
	"lastcard/internal/game/engine"
	"lastcard/internal/protocol"
)

// Seat 座位上的玩家标识，由房间层提供
type Seat struct {
	ID     string
	Name   string
	Online bool
}

// StateToPublicView 将引擎状态映射为公共视图。
// 脱敏发生在这里而不是引擎里：其他玩家的手牌只保留数量
func StateToPublicView(s engine.State, seats []Seat) protocol.PublicView {
	players := make([]protocol.PlayerInfo, len(seats))
	for i, seat := range seats {
		players[i] = protocol.PlayerInfo{
			ID:         seat.ID,
			Name:       seat.Name,
			Seat:       i,
			CardsCount: len(s.Hands[i]),
			Declared:   s.LastCardCalled[i],
			Online:     seat.Online,
		}
	}

	currentTurn := ""
	if s.CurrentPlayer >= 0 && s.CurrentPlayer < len(seats) {
		currentTurn = seats[s.CurrentPlayer].ID
	}

	return protocol.PublicView{
		Players:      players,
		TopCard:      CardToInfo(s.TopCard()),
		DeckCount:    len(s.Deck),
		DiscardCount: len(s.DiscardPile),
		CurrentTurn:  currentTurn,
		Direction:    s.Direction,
		DrawPressure: s.DrawPressure,
		Message:      s.Message,
	}
}

// StateToHand 提取某个座位的私有手牌
func StateToHand(s engine.State, seat int) protocol.HandPayload {
	return protocol.HandPayload{Cards: CardsToInfos(s.Hands[seat])}
}

// StateToPlayerHands 结算时亮出所有玩家的手牌
func StateToPlayerHands(s engine.State, seats []Seat) []protocol.PlayerHand {
	hands := make([]protocol.PlayerHand, len(seats))
	for i, seat := range seats {
		hands[i] = protocol.PlayerHand{
			PlayerID:   seat.ID,
			PlayerName: seat.Name,
			Cards:      CardsToInfos(s.Hands[i]),
		}
	}
	return hands
}

package session

import (
	"log"

	"lastcard/internal/apperrors"
	"lastcard/internal/game/card"
	"lastcard/internal/game/engine"
	"lastcard/internal/game/rule"
	"lastcard/internal/protocol"
	"lastcard/internal/protocol/convert"
)

// HandlePlayCards 处理出牌请求：单张或一条连出
func (gs *GameSession) HandlePlayCards(playerID string, infos []protocol.CardInfo) error {
	gs.mu.Lock()

	if !gs.active {
		gs.mu.Unlock()
		return apperrors.ErrGameNotStart
	}
	seat := gs.seatOf(playerID)
	if seat < 0 {
		gs.mu.Unlock()
		return apperrors.ErrNotInRoom
	}
	if gs.state.CurrentPlayer != seat {
		gs.mu.Unlock()
		return apperrors.ErrNotYourTurn
	}
	if len(infos) == 0 {
		gs.mu.Unlock()
		return apperrors.ErrInvalidCards
	}

	cards := convert.InfosToCards(infos)
	hand := gs.state.Hands[seat]

	if !ownsCards(hand, cards) {
		gs.mu.Unlock()
		return apperrors.ErrNotYourCards
	}

	moves := rule.LegalMoves(hand, gs.state.TopCard(), gs.state.DrawPressure)
	if !movesContain(moves, cards) {
		gs.mu.Unlock()
		return apperrors.ErrInvalidCards
	}

	gs.stopTurnTimer()
	gs.state = engine.ApplyCardEffect(gs.state, cards)

	player := gs.seats[seat]
	cardsLeft := len(gs.state.Hands[seat])
	result := engine.IsRoundOver(gs.state)
	gs.mu.Unlock()

	log.Printf("🃏 %s 出牌 %d 张，剩余 %d 张", player.Name, len(cards), cardsLeft)

	gs.room.Broadcast(protocol.MustNewMessage(protocol.MsgCardPlayed, protocol.CardPlayedPayload{
		PlayerID:   player.ID,
		PlayerName: player.Name,
		Cards:      infos,
		CardsLeft:  cardsLeft,
	}))

	if result.Over {
		gs.endGame(result)
		return nil
	}

	gs.syncState()
	gs.notifyTurn()
	return nil
}

// HandleDrawCard 处理抽牌请求
func (gs *GameSession) HandleDrawCard(playerID string) error {
	gs.mu.Lock()

	if !gs.active {
		gs.mu.Unlock()
		return apperrors.ErrGameNotStart
	}
	seat := gs.seatOf(playerID)
	if seat < 0 {
		gs.mu.Unlock()
		return apperrors.ErrNotInRoom
	}
	if gs.state.CurrentPlayer != seat {
		gs.mu.Unlock()
		return apperrors.ErrNotYourTurn
	}

	gs.stopTurnTimer()

	before := len(gs.state.Hands[seat])
	gs.state = engine.ApplyDraw(gs.state, seat)
	after := len(gs.state.Hands[seat])

	player := gs.seats[seat]
	gs.mu.Unlock()

	log.Printf("🂠 %s 抽了 %d 张牌", player.Name, after-before)

	gs.room.Broadcast(protocol.MustNewMessage(protocol.MsgPlayerDrew, protocol.PlayerDrewPayload{
		PlayerID:   player.ID,
		PlayerName: player.Name,
		Count:      after - before,
		CardsLeft:  after,
	}))

	gs.syncState()
	gs.notifyTurn()
	return nil
}

// HandleDeclareLastCard 处理报上牌声明。
// 引擎对不满足条件的声明静默忽略，这里转成明确错误反馈给玩家
func (gs *GameSession) HandleDeclareLastCard(playerID string) error {
	gs.mu.Lock()

	if !gs.active {
		gs.mu.Unlock()
		return apperrors.ErrGameNotStart
	}
	seat := gs.seatOf(playerID)
	if seat < 0 {
		gs.mu.Unlock()
		return apperrors.ErrNotInRoom
	}

	next := engine.DeclareLastCard(gs.state, seat)
	if !next.LastCardCalled[seat] {
		gs.mu.Unlock()
		return apperrors.ErrCannotDeclare
	}

	gs.state = next
	player := gs.seats[seat]
	gs.mu.Unlock()

	log.Printf("📣 %s 报上牌！", player.Name)

	gs.room.Broadcast(protocol.MustNewMessage(protocol.MsgLastCardCall, protocol.LastCardCallPayload{
		PlayerID:   player.ID,
		PlayerName: player.Name,
	}))

	gs.syncState()
	return nil
}

// ownsCards 检查出的牌都在手里且没有重复
func ownsCards(hand, played []card.Card) bool {
	seen := make(map[card.Card]bool, len(played))
	for _, c := range played {
		if seen[c] {
			return false
		}
		seen[c] = true

		found := false
		for _, h := range hand {
			if h == c {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// movesContain 检查出牌是否在合法着法集合里。
// 连出的顺序有意义，必须和枚举出的 run 完全一致
func movesContain(m rule.Moves, played []card.Card) bool {
	if len(played) == 1 {
		for _, c := range m.Singles {
			if c == played[0] {
				return true
			}
		}
		return false
	}

	for _, run := range m.Runs {
		if len(run) != len(played) {
			continue
		}
		match := true
		for i := range run {
			if run[i] != played[i] {
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

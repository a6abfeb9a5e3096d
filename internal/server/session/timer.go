package session

import (
	"log"
	"time"

	"lastcard/internal/game/engine"
	"lastcard/internal/protocol"
)

// startTurnTimer 启动回合倒计时，超时替当前玩家自动抽牌
func (gs *GameSession) startTurnTimer(playerID string) {
	gs.timerMu.Lock()
	defer gs.timerMu.Unlock()

	if gs.turnTimer != nil {
		gs.turnTimer.Stop()
	}
	gs.timerPaused = false
	gs.pausedDeadline = time.Now().Add(gs.turnTimeout)
	gs.turnTimer = time.AfterFunc(gs.turnTimeout, func() {
		gs.onTurnTimeout(playerID)
	})
}

// stopTurnTimer 停止回合倒计时
func (gs *GameSession) stopTurnTimer() {
	gs.timerMu.Lock()
	defer gs.timerMu.Unlock()

	if gs.turnTimer != nil {
		gs.turnTimer.Stop()
		gs.turnTimer = nil
	}
	gs.timerPaused = false
}

// pauseTurnTimer 暂停倒计时（当前回合玩家掉线时）
func (gs *GameSession) pauseTurnTimer() {
	gs.timerMu.Lock()
	defer gs.timerMu.Unlock()

	if gs.turnTimer != nil {
		gs.turnTimer.Stop()
		gs.turnTimer = nil
		gs.timerPaused = true
	}
}

// resumeTurnTimer 恢复倒计时，剩余时间不足 5 秒时补到 5 秒
func (gs *GameSession) resumeTurnTimer(playerID string) {
	gs.timerMu.Lock()
	defer gs.timerMu.Unlock()

	if !gs.timerPaused {
		return
	}
	gs.timerPaused = false

	remain := time.Until(gs.pausedDeadline)
	if remain < 5*time.Second {
		remain = 5 * time.Second
	}
	gs.turnTimer = time.AfterFunc(remain, func() {
		gs.onTurnTimeout(playerID)
	})
}

// onTurnTimeout 回合超时：替玩家抽一次牌继续游戏
func (gs *GameSession) onTurnTimeout(playerID string) {
	gs.mu.Lock()

	if !gs.active {
		gs.mu.Unlock()
		return
	}
	seat := gs.seatOf(playerID)
	if seat < 0 || gs.state.CurrentPlayer != seat {
		// 超时回调和正常出牌赛跑输了，忽略
		gs.mu.Unlock()
		return
	}

	before := len(gs.state.Hands[seat])
	gs.state = engine.ApplyDraw(gs.state, seat)
	after := len(gs.state.Hands[seat])

	player := gs.seats[seat]
	gs.mu.Unlock()

	log.Printf("⏰ %s 回合超时，自动抽牌 %d 张", player.Name, after-before)

	gs.room.Broadcast(protocol.MustNewMessage(protocol.MsgPlayerDrew, protocol.PlayerDrewPayload{
		PlayerID:   player.ID,
		PlayerName: player.Name,
		Count:      after - before,
		CardsLeft:  after,
	}))

	gs.syncState()
	gs.notifyTurn()
}

package session

import (
	"context"
	"fmt"
	"log"
	"time"

	"lastcard/internal/game/engine"
	"lastcard/internal/game/room"
	"lastcard/internal/protocol"
	"lastcard/internal/protocol/convert"
	"lastcard/internal/types"
)

const resultRecordTimeout = 5 * time.Second

// endGame 结算对局：公布结果和所有手牌，记录战绩，通知管理器
func (gs *GameSession) endGame(result engine.RoundResult) {
	gs.mu.Lock()
	if !gs.active {
		gs.mu.Unlock()
		return
	}
	gs.active = false
	gs.stopTurnTimer()

	seats := gs.currentSeats()
	hands := convert.StateToPlayerHands(gs.state, seats)

	payload := protocol.GameOverPayload{PlayerHands: hands}
	if result.Winner == engine.NoWinner {
		payload.Message = "僵局，本局无人获胜"
	} else {
		winner := gs.seats[result.Winner]
		payload.WinnerID = winner.ID
		payload.WinnerName = winner.Name
		payload.Message = fmt.Sprintf("%s 获胜！", winner.Name)
	}
	gs.mu.Unlock()

	log.Printf("🏁 房间 %s 对局结束: %s", gs.room.Code, payload.Message)

	gs.room.Broadcast(protocol.MustNewMessage(protocol.MsgGameOver, payload))

	gs.recordResults(result)

	gs.room.ResetReady()
	if gs.onEnd != nil {
		gs.onEnd(gs.room.Code)
	}
}

// recordResults 把每名玩家的胜负写入排行榜
func (gs *GameSession) recordResults(result engine.RoundResult) {
	if gs.leaderboard == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), resultRecordTimeout)
	defer cancel()

	draw := result.Winner == engine.NoWinner
	for i, s := range gs.seats {
		won := !draw && i == result.Winner
		if err := gs.leaderboard.RecordResult(ctx, s.ID, s.Name, won, draw); err != nil {
			log.Printf("⚠️ 记录 %s 战绩失败: %v", s.Name, err)
		}
	}
}

// HandlePlayerOffline 玩家掉线：通知其他人并暂停回合计时
func (gs *GameSession) HandlePlayerOffline(playerID string, graceSeconds int) {
	gs.mu.Lock()
	if !gs.active {
		gs.mu.Unlock()
		return
	}
	seat := gs.seatOf(playerID)
	if seat < 0 {
		gs.mu.Unlock()
		return
	}
	player := gs.seats[seat]
	isCurrent := gs.state.CurrentPlayer == seat
	gs.mu.Unlock()

	gs.room.SetPlayerOnline(playerID, false, nil)
	gs.room.BroadcastExcept(playerID, protocol.MustNewMessage(protocol.MsgPlayerOffline, protocol.PlayerOfflinePayload{
		PlayerID:   player.ID,
		PlayerName: player.Name,
		Timeout:    graceSeconds,
	}))

	// 轮到掉线玩家时暂停计时，等他回来
	if isCurrent {
		gs.pauseTurnTimer()
	}

	log.Printf("📴 %s 掉线（房间 %s）", player.Name, gs.room.Code)
}

// HandlePlayerOnline 玩家重连：恢复连接、补发状态、恢复计时
func (gs *GameSession) HandlePlayerOnline(playerID string, client types.ClientInterface) {
	gs.mu.Lock()
	if !gs.active {
		gs.mu.Unlock()
		return
	}
	seat := gs.seatOf(playerID)
	if seat < 0 {
		gs.mu.Unlock()
		return
	}
	player := gs.seats[seat]
	isCurrent := gs.state.CurrentPlayer == seat
	gs.mu.Unlock()

	gs.room.SetPlayerOnline(playerID, true, client)
	gs.room.BroadcastExcept(playerID, protocol.MustNewMessage(protocol.MsgPlayerOnline, protocol.PlayerOnlinePayload{
		PlayerID:   player.ID,
		PlayerName: player.Name,
	}))

	gs.syncState()
	if isCurrent {
		gs.resumeTurnTimer(playerID)
	}

	log.Printf("📳 %s 重连成功（房间 %s）", player.Name, gs.room.Code)
}

// HandlePlayerQuit 玩家彻底退出（超过重连宽限期）。
// 对局无法继续，按僵局收场
func (gs *GameSession) HandlePlayerQuit(playerID string) {
	gs.mu.Lock()
	if !gs.active {
		gs.mu.Unlock()
		return
	}
	seat := gs.seatOf(playerID)
	if seat < 0 {
		gs.mu.Unlock()
		return
	}
	player := gs.seats[seat]
	gs.mu.Unlock()

	log.Printf("🚪 %s 退出对局，房间 %s 提前结束", player.Name, gs.room.Code)

	gs.room.RemovePlayer(playerID)
	gs.endGame(engine.RoundResult{Over: true, Winner: engine.NoWinner})
}

// Close 强制终止对局（服务器关闭等），不记战绩
func (gs *GameSession) Close() {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	if !gs.active {
		return
	}
	gs.active = false
	gs.stopTurnTimer()
	gs.room.SetState(room.StateEnded)
}

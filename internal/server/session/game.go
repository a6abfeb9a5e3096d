package session

import (
	"log"
	"sync"
	"time"

	"lastcard/internal/game/engine"
	"lastcard/internal/game/room"
	"lastcard/internal/protocol"
	"lastcard/internal/protocol/convert"
	"lastcard/internal/server/storage"
)

// GameSession 一局对局的服务端权威状态。
// 所有规则判定都在这里完成，客户端只展示
type GameSession struct {
	mu sync.Mutex

	room  *room.Room
	seats []convert.Seat // 开局时固化的座位表
	state engine.State

	active   bool
	handSize int

	turnTimeout time.Duration

	leaderboard *storage.LeaderboardManager

	// onEnd 对局结束时回调（用于管理器移除自己）
	onEnd func(roomCode string)

	timerMu     sync.Mutex
	turnTimer   *time.Timer
	timerPaused bool
	// pausedRemain 暂停时剩余的秒数（离线暂停恢复用）
	pausedDeadline time.Time
}

// NewGameSession 创建对局
func NewGameSession(r *room.Room, handSize int, turnTimeout time.Duration, lb *storage.LeaderboardManager, onEnd func(roomCode string)) *GameSession {
	return &GameSession{
		room:        r,
		handSize:    handSize,
		turnTimeout: turnTimeout,
		leaderboard: lb,
		onEnd:       onEnd,
	}
}

// Start 发牌开局并通知所有玩家
func (gs *GameSession) Start() {
	gs.mu.Lock()

	gs.room.SetState(room.StatePlaying)
	gs.seats = gs.room.Seats()
	gs.state = engine.NewRound(len(gs.seats), gs.handSize)
	gs.active = true

	log.Printf("🎮 房间 %s 开局: %d 名玩家，每人 %d 张", gs.room.Code, len(gs.seats), gs.handSize)

	view := convert.StateToPublicView(gs.state, gs.seats)
	gs.mu.Unlock()

	gs.room.Broadcast(protocol.MustNewMessage(protocol.MsgGameStart, protocol.GameStartPayload{
		Players: view.Players,
	}))

	gs.syncState()
	gs.notifyTurn()
}

// IsActive 对局是否进行中
func (gs *GameSession) IsActive() bool {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return gs.active
}

// RoomCode 所属房间号
func (gs *GameSession) RoomCode() string {
	return gs.room.Code
}

// seatOf 玩家的座位号，不在局内返回 -1
func (gs *GameSession) seatOf(playerID string) int {
	for i, s := range gs.seats {
		if s.ID == playerID {
			return i
		}
	}
	return -1
}

// currentSeats 座位表，在线状态取房间实时值
func (gs *GameSession) currentSeats() []convert.Seat {
	live := gs.room.Seats()
	out := make([]convert.Seat, len(gs.seats))
	copy(out, gs.seats)
	for i := range out {
		for _, l := range live {
			if l.ID == out[i].ID {
				out[i].Online = l.Online
				break
			}
		}
	}
	return out
}

// syncState 广播公共视图并给每个玩家单独发送手牌。
// 手牌只走单播，公共视图里只有数量
func (gs *GameSession) syncState() {
	gs.mu.Lock()
	if !gs.active {
		gs.mu.Unlock()
		return
	}
	seats := gs.currentSeats()
	view := convert.StateToPublicView(gs.state, seats)
	hands := make([]protocol.HandPayload, len(seats))
	for i := range seats {
		hands[i] = convert.StateToHand(gs.state, i)
	}
	gs.mu.Unlock()

	gs.room.Broadcast(protocol.MustNewMessage(protocol.MsgStateUpdate, view))
	for i, s := range seats {
		gs.room.SendTo(s.ID, protocol.MustNewMessage(protocol.MsgHandUpdate, hands[i]))
	}
}

// notifyTurn 通知当前回合玩家并启动回合计时器
func (gs *GameSession) notifyTurn() {
	gs.mu.Lock()
	if !gs.active {
		gs.mu.Unlock()
		return
	}
	current := gs.seats[gs.state.CurrentPlayer]
	gs.mu.Unlock()

	gs.room.Broadcast(protocol.MustNewMessage(protocol.MsgPlayTurn, protocol.PlayTurnPayload{
		PlayerID: current.ID,
		Timeout:  int(gs.turnTimeout.Seconds()),
	}))

	gs.startTurnTimer(current.ID)
}

// ReconnectView 重连时给玩家重建的视图和手牌
func (gs *GameSession) ReconnectView(playerID string) (*protocol.PublicView, []protocol.CardInfo) {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	if !gs.active {
		return nil, nil
	}
	seat := gs.seatOf(playerID)
	if seat < 0 {
		return nil, nil
	}

	view := convert.StateToPublicView(gs.state, gs.currentSeats())
	hand := convert.StateToHand(gs.state, seat)
	return &view, hand.Cards
}

// PlayerCardsCount 玩家当前手牌数
func (gs *GameSession) PlayerCardsCount(playerID string) int {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	seat := gs.seatOf(playerID)
	if seat < 0 {
		return 0
	}
	return len(gs.state.Hands[seat])
}

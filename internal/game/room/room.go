package room

import (
	"sync"
	"time"

	"lastcard/internal/apperrors"
	"lastcard/internal/protocol"
	"lastcard/internal/protocol/convert"
	"lastcard/internal/types"
)

const (
	// MinPlayers 开局最少人数
	MinPlayers = 2
	// MaxPlayers 房间最多人数
	MaxPlayers = 4
)

// Player 房间内的玩家
type Player struct {
	ID       string
	Name     string
	Seat     int
	Ready    bool
	IsOnline bool
	Client   types.ClientInterface
}

// Room 游戏房间
type Room struct {
	mu sync.RWMutex

	Code      string
	State     State
	CreatedAt time.Time

	players map[string]*Player // playerID -> player
	order   []string           // 按座位顺序排列的 playerID
}

// NewRoom 创建房间
func NewRoom(code string) *Room {
	return &Room{
		Code:      code,
		State:     StateWaiting,
		CreatedAt: time.Now(),
		players:   make(map[string]*Player),
	}
}

// AddPlayer 加入玩家，座位号按加入顺序分配
func (r *Room) AddPlayer(client types.ClientInterface) (*Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.State != StateWaiting {
		return nil, apperrors.ErrGameStarted
	}
	if len(r.players) >= MaxPlayers {
		return nil, apperrors.ErrRoomFull
	}

	p := &Player{
		ID:       client.GetID(),
		Name:     client.GetName(),
		Seat:     len(r.order),
		IsOnline: true,
		Client:   client,
	}
	r.players[p.ID] = p
	r.order = append(r.order, p.ID)
	return p, nil
}

// RemovePlayer 移除玩家并压缩座位号
func (r *Room) RemovePlayer(playerID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.players[playerID]; !ok {
		return false
	}
	delete(r.players, playerID)

	for i, id := range r.order {
		if id == playerID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	for i, id := range r.order {
		r.players[id].Seat = i
	}
	return true
}

// GetPlayer 查询玩家
func (r *Room) GetPlayer(playerID string) (*Player, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.players[playerID]
	return p, ok
}

// PlayerCount 当前人数
func (r *Room) PlayerCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.players)
}

// SetReady 设置准备状态，返回是否已全员准备且达到开局人数
func (r *Room) SetReady(playerID string, ready bool) (allReady bool, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, exists := r.players[playerID]
	if !exists || r.State != StateWaiting {
		return false, false
	}
	p.Ready = ready

	if len(r.players) < MinPlayers {
		return false, true
	}
	for _, pl := range r.players {
		if !pl.Ready {
			return false, true
		}
	}
	return true, true
}

// ResetReady 清空所有准备标记（对局结束后回到等待态）
func (r *Room) ResetReady() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.State = StateWaiting
	for _, p := range r.players {
		p.Ready = false
	}
}

// SetState 设置房间状态
func (r *Room) SetState(s State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.State = s
}

// GetState 读取房间状态
func (r *Room) GetState() State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.State
}

// SetPlayerOnline 更新在线状态；重连时同时替换底层连接
func (r *Room) SetPlayerOnline(playerID string, online bool, client types.ClientInterface) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.players[playerID]
	if !ok {
		return
	}
	p.IsOnline = online
	if client != nil {
		p.Client = client
	}
}

// Seats 按座位顺序返回玩家（用于视图转换）
func (r *Room) Seats() []convert.Seat {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seats := make([]convert.Seat, len(r.order))
	for i, id := range r.order {
		p := r.players[id]
		seats[i] = convert.Seat{ID: p.ID, Name: p.Name, Online: p.IsOnline}
	}
	return seats
}

// PlayerInfos 房间内玩家信息（大厅视角，不含手牌数）
func (r *Room) PlayerInfos() []protocol.PlayerInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := make([]protocol.PlayerInfo, len(r.order))
	for i, id := range r.order {
		p := r.players[id]
		infos[i] = protocol.PlayerInfo{
			ID:     p.ID,
			Name:   p.Name,
			Seat:   p.Seat,
			Ready:  p.Ready,
			Online: p.IsOnline,
		}
	}
	return infos
}

// Players 返回所有玩家的快照
func (r *Room) Players() []*Player {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Player, len(r.order))
	for i, id := range r.order {
		out[i] = r.players[id]
	}
	return out
}

// SeatOf 返回玩家的座位号，不在房间返回 -1
func (r *Room) SeatOf(playerID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if p, ok := r.players[playerID]; ok {
		return p.Seat
	}
	return -1
}

// Broadcast 向房间内所有在线玩家广播消息
func (r *Room) Broadcast(msg *protocol.Message) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.players {
		if p.IsOnline && p.Client != nil {
			p.Client.SendMessage(msg)
		}
	}
}

// BroadcastExcept 向除指定玩家外的在线玩家广播
func (r *Room) BroadcastExcept(excludeID string, msg *protocol.Message) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.players {
		if p.ID == excludeID {
			continue
		}
		if p.IsOnline && p.Client != nil {
			p.Client.SendMessage(msg)
		}
	}
}

// SendTo 向指定玩家发送消息
func (r *Room) SendTo(playerID string, msg *protocol.Message) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if p, ok := r.players[playerID]; ok && p.IsOnline && p.Client != nil {
		p.Client.SendMessage(msg)
	}
}

// IsEmpty 房间是否已空
func (r *Room) IsEmpty() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.players) == 0
}

// AllOffline 是否所有玩家都已离线
func (r *Room) AllOffline() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.players {
		if p.IsOnline {
			return false
		}
	}
	return len(r.players) > 0
}

package room

import (
	"crypto/rand"
	"log"
	"math/big"
	"sync"
	"time"

	"lastcard/internal/apperrors"
	"lastcard/internal/types"
)

const (
	roomCodeLength  = 6
	roomCodeCharset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789" // 去掉易混淆的 I O 0 1

	cleanupInterval = 5 * time.Minute
)

// Manager 房间管理器
type Manager struct {
	mu    sync.RWMutex
	rooms map[string]*Room // code -> room

	roomTimeout time.Duration
	stopCh      chan struct{}
}

// NewManager 创建房间管理器并启动清理协程
func NewManager(roomTimeout time.Duration) *Manager {
	m := &Manager{
		rooms:       make(map[string]*Room),
		roomTimeout: roomTimeout,
		stopCh:      make(chan struct{}),
	}
	go m.cleanupLoop()
	return m
}

// generateRoomCode 生成不重复的房间号
func (m *Manager) generateRoomCode() string {
	for {
		b := make([]byte, roomCodeLength)
		for i := range b {
			n, err := rand.Int(rand.Reader, big.NewInt(int64(len(roomCodeCharset))))
			if err != nil {
				n = big.NewInt(time.Now().UnixNano() % int64(len(roomCodeCharset)))
			}
			b[i] = roomCodeCharset[n.Int64()]
		}
		code := string(b)
		if _, exists := m.rooms[code]; !exists {
			return code
		}
	}
}

// CreateRoom 创建房间并让创建者入座
func (m *Manager) CreateRoom(client types.ClientInterface) (*Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	code := m.generateRoomCode()
	r := NewRoom(code)
	if _, err := r.AddPlayer(client); err != nil {
		return nil, err
	}
	m.rooms[code] = r
	client.SetRoom(code)

	log.Printf("🏠 房间已创建: %s (房主: %s)", code, client.GetName())
	return r, nil
}

// JoinRoom 加入房间
func (m *Manager) JoinRoom(code string, client types.ClientInterface) (*Room, error) {
	m.mu.RLock()
	r, ok := m.rooms[code]
	m.mu.RUnlock()

	if !ok {
		return nil, apperrors.ErrRoomNotFound
	}
	if _, err := r.AddPlayer(client); err != nil {
		return nil, err
	}
	client.SetRoom(code)

	log.Printf("🚪 %s 加入房间 %s (%d/%d)", client.GetName(), code, r.PlayerCount(), MaxPlayers)
	return r, nil
}

// LeaveRoom 离开房间，房间空了就销毁
func (m *Manager) LeaveRoom(client types.ClientInterface) (*Room, error) {
	code := client.GetRoom()
	if code == "" {
		return nil, apperrors.ErrNotInRoom
	}

	m.mu.Lock()
	r, ok := m.rooms[code]
	m.mu.Unlock()

	if !ok {
		client.SetRoom("")
		return nil, apperrors.ErrRoomNotFound
	}

	r.RemovePlayer(client.GetID())
	client.SetRoom("")

	if r.IsEmpty() {
		m.removeRoom(code)
	}

	log.Printf("👋 %s 离开房间 %s", client.GetName(), code)
	return r, nil
}

// GetRoom 查询房间
func (m *Manager) GetRoom(code string) (*Room, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.rooms[code]
	return r, ok
}

// RoomOf 查询客户端所在房间
func (m *Manager) RoomOf(client types.ClientInterface) (*Room, error) {
	code := client.GetRoom()
	if code == "" {
		return nil, apperrors.ErrNotInRoom
	}
	r, ok := m.GetRoom(code)
	if !ok {
		return nil, apperrors.ErrRoomNotFound
	}
	return r, nil
}

// RoomCount 当前房间数
func (m *Manager) RoomCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rooms)
}

// RemoveRoom 销毁房间
func (m *Manager) RemoveRoom(code string) {
	m.removeRoom(code)
}

func (m *Manager) removeRoom(code string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.rooms[code]; ok {
		delete(m.rooms, code)
		log.Printf("🗑️ 房间已销毁: %s", code)
	}
}

// Stop 停止清理协程
func (m *Manager) Stop() {
	close(m.stopCh)
}

// cleanupLoop 定期清理空房间和全员离线超时的房间
func (m *Manager) cleanupLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.cleanupStale()
		case <-m.stopCh:
			return
		}
	}
}

func (m *Manager) cleanupStale() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	for code, r := range m.rooms {
		stale := r.IsEmpty() || r.AllOffline()
		expired := r.GetState() == StateWaiting && now.Sub(r.CreatedAt) > m.roomTimeout
		if stale || (expired && r.IsEmpty()) {
			delete(m.rooms, code)
			log.Printf("🧹 清理闲置房间: %s", code)
		}
	}
}

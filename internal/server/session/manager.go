package session

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"sync"
	"time"
)

const (
	// 断线重连宽限期，超过后视为放弃
	reconnectTimeout = 2 * time.Minute

	// 会话过期时间
	sessionExpireTime = 10 * time.Minute

	cleanupInterval = time.Minute
)

// PlayerSession 玩家会话（跨连接的身份）
type PlayerSession struct {
	PlayerID       string
	PlayerName     string
	ReconnectToken string
	RoomCode       string
	IsOnline       bool
	DisconnectedAt time.Time
	LastActiveAt   time.Time
}

// Manager 会话管理器，负责断线重连令牌的生命周期
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*PlayerSession // playerID -> session
	tokens   map[string]string         // token -> playerID

	stopCh chan struct{}
}

// NewManager 创建会话管理器并启动清理协程
func NewManager() *Manager {
	m := &Manager{
		sessions: make(map[string]*PlayerSession),
		tokens:   make(map[string]string),
		stopCh:   make(chan struct{}),
	}
	go m.cleanupLoop()
	return m
}

// generateToken 生成重连令牌
func generateToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		// 退化为时间戳，足够测试环境使用
		return hex.EncodeToString([]byte(time.Now().String()))
	}
	return hex.EncodeToString(b)
}

// CreateSession 为新连接的玩家创建会话，返回重连令牌
func (m *Manager) CreateSession(playerID, playerName string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	token := generateToken()
	m.sessions[playerID] = &PlayerSession{
		PlayerID:       playerID,
		PlayerName:     playerName,
		ReconnectToken: token,
		IsOnline:       true,
		LastActiveAt:   time.Now(),
	}
	m.tokens[token] = playerID
	return token
}

// GetSession 按玩家 ID 查询会话
func (m *Manager) GetSession(playerID string) (*PlayerSession, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[playerID]
	return s, ok
}

// GetSessionByToken 按令牌查询会话
func (m *Manager) GetSessionByToken(token string) (*PlayerSession, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	playerID, ok := m.tokens[token]
	if !ok {
		return nil, false
	}
	s, ok := m.sessions[playerID]
	return s, ok
}

// CanReconnect 判断令牌是否还在重连宽限期内
func (m *Manager) CanReconnect(token string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	playerID, ok := m.tokens[token]
	if !ok {
		return false
	}
	s, ok := m.sessions[playerID]
	if !ok {
		return false
	}
	if s.IsOnline {
		return false
	}
	return time.Since(s.DisconnectedAt) <= reconnectTimeout
}

// SetOffline 标记玩家离线，开始计算宽限期
func (m *Manager) SetOffline(playerID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[playerID]; ok {
		s.IsOnline = false
		s.DisconnectedAt = time.Now()
	}
}

// SetOnline 标记玩家重新上线
func (m *Manager) SetOnline(playerID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[playerID]; ok {
		s.IsOnline = true
		s.DisconnectedAt = time.Time{}
		s.LastActiveAt = time.Now()
	}
}

// SetRoom 记录玩家所在房间
func (m *Manager) SetRoom(playerID, roomCode string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[playerID]; ok {
		s.RoomCode = roomCode
	}
}

// Touch 更新活跃时间
func (m *Manager) Touch(playerID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[playerID]; ok {
		s.LastActiveAt = time.Now()
	}
}

// DeleteSession 删除会话和令牌
func (m *Manager) DeleteSession(playerID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[playerID]; ok {
		delete(m.tokens, s.ReconnectToken)
		delete(m.sessions, playerID)
	}
}

// Count 当前会话数
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Stop 停止清理协程
func (m *Manager) Stop() {
	close(m.stopCh)
}

// cleanupLoop 定期清理过期会话
func (m *Manager) cleanupLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.cleanupExpired()
		case <-m.stopCh:
			return
		}
	}
}

func (m *Manager) cleanupExpired() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	for id, s := range m.sessions {
		if s.IsOnline {
			continue
		}
		if now.Sub(s.DisconnectedAt) > sessionExpireTime {
			log.Printf("🧹 清理过期会话: %s (%s)", s.PlayerName, id)
			delete(m.tokens, s.ReconnectToken)
			delete(m.sessions, id)
		}
	}
}

package server

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"lastcard/internal/protocol"
)

// handleWebSocket 新连接的准入关卡：
// 维护模式 → 连接数上限 → IP 黑名单 → 来源校验 → 速率限制 → 升级协议
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.maintenance.Load() {
		http.Error(w, "服务器维护中", http.StatusServiceUnavailable)
		return
	}

	select {
	case s.semaphore <- struct{}{}:
	default:
		http.Error(w, "服务器已满", http.StatusServiceUnavailable)
		return
	}

	ip := GetClientIP(r)

	if s.ipFilter.IsBlocked(ip) {
		<-s.semaphore
		http.Error(w, "拒绝访问", http.StatusForbidden)
		return
	}

	if !s.origins.Check(r) {
		<-s.semaphore
		http.Error(w, "来源不被允许", http.StatusForbidden)
		return
	}

	if !s.rateLimiter.Allow(ip) {
		<-s.semaphore
		http.Error(w, "连接过于频繁", http.StatusTooManyRequests)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		<-s.semaphore
		logrus.WithError(err).WithField("ip", ip).Warn("协议升级失败")
		return
	}

	playerID := uuid.NewString()
	playerName := GenerateNickname()

	client := NewClient(playerID, playerName, conn, s)
	s.RegisterClient(playerID, client)
	token := s.sessions.CreateSession(playerID, playerName)

	logrus.WithFields(logrus.Fields{
		"player": playerID,
		"name":   playerName,
		"ip":     ip,
		"online": s.GetOnlineCount(),
	}).Info("✅ 新玩家连接")

	go client.writePump()
	go client.readPump()

	client.SendMessage(protocol.MustNewMessage(protocol.MsgConnected, protocol.ConnectedPayload{
		PlayerID:       playerID,
		PlayerName:     playerName,
		ReconnectToken: token,
	}))

	s.broadcastOnlineCount()
}

// handleClientDisconnect 连接断开善后，由 readPump 退出时调用
func (s *Server) handleClientDisconnect(c *Client) {
	<-s.semaphore

	s.UnregisterClient(c.id)
	c.Close()
	s.handler.HandleDisconnect(c)

	logrus.WithFields(logrus.Fields{
		"player": c.id,
		"name":   c.name,
		"online": s.GetOnlineCount(),
	}).Info("👋 玩家断开")

	s.broadcastOnlineCount()
}

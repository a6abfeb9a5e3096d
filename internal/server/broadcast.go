package server

import (
	"time"

	"github.com/sirupsen/logrus"

	"lastcard/internal/protocol"
)

const statsInterval = 5 * time.Minute

// broadcastAll 向所有在线客户端广播
func (s *Server) broadcastAll(msg *protocol.Message) {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()

	for _, c := range s.clients {
		c.SendMessage(msg)
	}
}

// broadcastOnlineCount 推送在线人数
func (s *Server) broadcastOnlineCount() {
	s.broadcastAll(protocol.MustNewMessage(protocol.MsgOnlineCount, protocol.OnlineCountPayload{
		Count: s.GetOnlineCount(),
	}))
}

// SetMaintenanceMode 切换维护模式并推送给所有客户端
func (s *Server) SetMaintenanceMode(on bool) {
	s.maintenance.Store(on)
	s.broadcastAll(protocol.MustNewMessage(protocol.MsgMaintenancePush, protocol.MaintenancePayload{
		Maintenance: on,
	}))
	logrus.WithField("maintenance", on).Warn("🔧 维护模式切换")
}

// monitorStats 周期性输出运行统计
func (s *Server) monitorStats() {
	ticker := time.NewTicker(statsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			logrus.WithFields(logrus.Fields{
				"online":   s.GetOnlineCount(),
				"rooms":    s.rooms.RoomCount(),
				"sessions": s.sessions.Count(),
			}).Info("📊 运行统计")
		case <-s.stopCh:
			return
		}
	}
}

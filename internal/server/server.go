package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"lastcard/internal/config"
	"lastcard/internal/game/room"
	"lastcard/internal/server/handler"
	"lastcard/internal/server/session"
	"lastcard/internal/server/storage"
	"lastcard/internal/types"
)

// Server WebSocket 中转服务器
type Server struct {
	cfg *config.Config

	upgrader websocket.Upgrader

	clientsMu sync.RWMutex
	clients   map[string]types.ClientInterface

	// semaphore 限制并发连接数
	semaphore chan struct{}

	maintenance atomic.Bool

	rateLimiter *RateLimiter
	origins     *OriginChecker
	ipFilter    *IPFilter

	redis       *redis.Client
	store       *storage.RedisStore
	leaderboard *storage.LeaderboardManager

	rooms    *room.Manager
	sessions *session.Manager
	handler  *handler.Handler

	httpServer *http.Server
	stopCh     chan struct{}
}

// New 创建服务器并组装全部依赖
func New(cfg *config.Config) (*Server, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("连接 Redis 失败: %w", err)
	}

	s := &Server{
		cfg:         cfg,
		clients:     make(map[string]types.ClientInterface),
		semaphore:   make(chan struct{}, cfg.Server.MaxConnections),
		rateLimiter: NewRateLimiter(cfg.Security.RateLimit.MaxPerSecond, cfg.Security.RateLimit.MaxPerMinute, cfg.Security.RateLimit.BanDurationTime()),
		origins:     NewOriginChecker(cfg.Security.AllowedOrigins),
		ipFilter:    NewIPFilter(),
		redis:       rdb,
		store:       storage.NewRedisStore(rdb),
		leaderboard: storage.NewLeaderboardManager(rdb),
		rooms:       room.NewManager(cfg.Game.RoomTimeoutDuration()),
		sessions:    session.NewManager(),
		stopCh:      make(chan struct{}),
	}

	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.origins.Check,
	}

	s.handler = handler.New(handler.Deps{
		Server:      s,
		Rooms:       s.rooms,
		Sessions:    s.sessions,
		Store:       s.store,
		Leaderboard: s.leaderboard,
		Config:      cfg,
	})

	return s, nil
}

// Start 启动服务器，阻塞直到 Shutdown
func (s *Server) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)

	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.monitorStats()

	logrus.WithField("addr", addr).Info("🚀 服务器启动")
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown 优雅停机：关对局、断连接、释放资源
func (s *Server) Shutdown(ctx context.Context) error {
	logrus.Info("🛑 服务器停机中…")
	close(s.stopCh)

	s.handler.CloseAllGames()

	s.clientsMu.Lock()
	for _, c := range s.clients {
		c.Close()
	}
	s.clients = make(map[string]types.ClientInterface)
	s.clientsMu.Unlock()

	s.rooms.Stop()
	s.sessions.Stop()
	s.rateLimiter.Stop()

	if err := s.redis.Close(); err != nil {
		logrus.WithError(err).Warn("关闭 Redis 连接失败")
	}

	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// handleHealth 健康检查
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	if s.maintenance.Load() {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("maintenance"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// --- types.ServerInterface ---

// IsMaintenanceMode 是否处于维护模式
func (s *Server) IsMaintenanceMode() bool {
	return s.maintenance.Load()
}

// GetOnlineCount 当前在线人数
func (s *Server) GetOnlineCount() int {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	return len(s.clients)
}

// GetClientByID 按 ID 查客户端
func (s *Server) GetClientByID(id string) types.ClientInterface {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	return s.clients[id]
}

// RegisterClient 登记客户端
func (s *Server) RegisterClient(id string, client types.ClientInterface) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	s.clients[id] = client
}

// UnregisterClient 注销客户端
func (s *Server) UnregisterClient(id string) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	delete(s.clients, id)
}

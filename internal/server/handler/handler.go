package handler

import (
	"errors"
	"log"
	"sync"

	"lastcard/internal/apperrors"
	"lastcard/internal/config"
	"lastcard/internal/game/room"
	"lastcard/internal/protocol"
	"lastcard/internal/server/session"
	"lastcard/internal/server/storage"
	"lastcard/internal/types"
)

// handlerFunc 单条消息的处理函数
type handlerFunc func(client types.ClientInterface, msg *protocol.Message) error

// Deps 处理器的依赖集合
type Deps struct {
	Server      types.ServerInterface
	Rooms       *room.Manager
	Sessions    *session.Manager
	Store       *storage.RedisStore
	Leaderboard *storage.LeaderboardManager
	Config      *config.Config
}

// Handler 消息分发器
type Handler struct {
	deps Deps

	handlers map[protocol.MessageType]handlerFunc

	gamesMu sync.RWMutex
	games   map[string]*session.GameSession // roomCode -> game
}

// New 创建处理器并注册所有消息路由
func New(deps Deps) *Handler {
	h := &Handler{
		deps:  deps,
		games: make(map[string]*session.GameSession),
	}

	h.handlers = map[protocol.MessageType]handlerFunc{
		// 连接管理
		protocol.MsgPing:      h.handlePing,
		protocol.MsgReconnect: h.handleReconnect,

		// 房间管理
		protocol.MsgCreateRoom:  h.handleCreateRoom,
		protocol.MsgJoinRoom:    h.handleJoinRoom,
		protocol.MsgLeaveRoom:   h.handleLeaveRoom,
		protocol.MsgReady:       h.handleReady,
		protocol.MsgCancelReady: h.handleCancelReady,

		// 对局操作
		protocol.MsgPlayCards:       h.handlePlayCards,
		protocol.MsgDrawCard:        h.handleDrawCard,
		protocol.MsgDeclareLastCard: h.handleDeclareLastCard,

		// 查询
		protocol.MsgGetStats:             h.handleGetStats,
		protocol.MsgGetLeaderboard:       h.handleGetLeaderboard,
		protocol.MsgGetOnlineCount:       h.handleGetOnlineCount,
		protocol.MsgGetMaintenanceStatus: h.handleGetMaintenanceStatus,
	}
	return h
}

// Dispatch 分发消息。业务错误转成错误消息回给客户端
func (h *Handler) Dispatch(client types.ClientInterface, msg *protocol.Message) {
	fn, ok := h.handlers[msg.Type]
	if !ok {
		log.Printf("⚠️ 未知消息类型: %s (来自 %s)", msg.Type, client.GetID())
		client.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	if err := fn(client, msg); err != nil {
		h.replyError(client, err)
	}
}

// replyError 把错误转成协议错误消息
func (h *Handler) replyError(client types.ClientInterface, err error) {
	var gameErr *apperrors.GameError
	if errors.As(err, &gameErr) {
		client.SendMessage(protocol.NewErrorMessageWithText(gameErr.Code, gameErr.Message))
		return
	}

	log.Printf("❌ 处理消息出错 (玩家 %s): %v", client.GetID(), err)
	client.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeUnknown))
}

// gameOf 查找客户端所在房间的对局
func (h *Handler) gameOf(client types.ClientInterface) (*session.GameSession, error) {
	code := client.GetRoom()
	if code == "" {
		return nil, apperrors.ErrNotInRoom
	}

	h.gamesMu.RLock()
	defer h.gamesMu.RUnlock()

	g, ok := h.games[code]
	if !ok {
		return nil, apperrors.ErrGameNotStart
	}
	return g, nil
}

// GameByRoom 按房间号查对局
func (h *Handler) GameByRoom(code string) (*session.GameSession, bool) {
	h.gamesMu.RLock()
	defer h.gamesMu.RUnlock()
	g, ok := h.games[code]
	return g, ok
}

// removeGame 对局结束后的清理回调
func (h *Handler) removeGame(roomCode string) {
	h.gamesMu.Lock()
	defer h.gamesMu.Unlock()
	delete(h.games, roomCode)
}

// CloseAllGames 关闭所有进行中的对局（服务器停机）
func (h *Handler) CloseAllGames() {
	h.gamesMu.Lock()
	defer h.gamesMu.Unlock()

	for code, g := range h.games {
		g.Close()
		delete(h.games, code)
	}
}

package handler

import (
	"context"
	"log"

	"lastcard/internal/protocol"
	"lastcard/internal/server/session"
	"lastcard/internal/types"
)

// handleCreateRoom 创建房间
func (h *Handler) handleCreateRoom(client types.ClientInterface, _ *protocol.Message) error {
	r, err := h.deps.Rooms.CreateRoom(client)
	if err != nil {
		return err
	}

	h.deps.Sessions.SetRoom(client.GetID(), r.Code)
	h.persistRoom(r.Code)

	player, _ := r.GetPlayer(client.GetID())
	client.SendMessage(protocol.MustNewMessage(protocol.MsgRoomCreated, protocol.RoomCreatedPayload{
		RoomCode: r.Code,
		Player: protocol.PlayerInfo{
			ID:     player.ID,
			Name:   player.Name,
			Seat:   player.Seat,
			Online: true,
		},
	}))
	return nil
}

// handleJoinRoom 加入房间
func (h *Handler) handleJoinRoom(client types.ClientInterface, msg *protocol.Message) error {
	payload, err := protocol.ParsePayload[protocol.JoinRoomPayload](msg)
	if err != nil {
		return err
	}

	r, err := h.deps.Rooms.JoinRoom(payload.RoomCode, client)
	if err != nil {
		return err
	}

	h.deps.Sessions.SetRoom(client.GetID(), r.Code)
	h.persistRoom(r.Code)

	player, _ := r.GetPlayer(client.GetID())
	info := protocol.PlayerInfo{
		ID:     player.ID,
		Name:   player.Name,
		Seat:   player.Seat,
		Online: true,
	}

	client.SendMessage(protocol.MustNewMessage(protocol.MsgRoomJoined, protocol.RoomJoinedPayload{
		RoomCode: r.Code,
		Player:   info,
		Players:  r.PlayerInfos(),
	}))

	r.BroadcastExcept(client.GetID(), protocol.MustNewMessage(protocol.MsgPlayerJoined, protocol.PlayerJoinedPayload{
		Player: info,
	}))
	return nil
}

// handleLeaveRoom 离开房间
func (h *Handler) handleLeaveRoom(client types.ClientInterface, _ *protocol.Message) error {
	code := client.GetRoom()

	// 对局中离开直接判退出
	if g, ok := h.GameByRoom(code); ok && g.IsActive() {
		g.HandlePlayerQuit(client.GetID())
	}

	r, err := h.deps.Rooms.LeaveRoom(client)
	if err != nil {
		return err
	}

	h.deps.Sessions.SetRoom(client.GetID(), "")

	r.Broadcast(protocol.MustNewMessage(protocol.MsgPlayerLeft, protocol.PlayerLeftPayload{
		PlayerID:   client.GetID(),
		PlayerName: client.GetName(),
	}))
	h.persistRoom(code)
	return nil
}

// handleReady 准备就绪；全员准备即开局
func (h *Handler) handleReady(client types.ClientInterface, _ *protocol.Message) error {
	return h.setReady(client, true)
}

// handleCancelReady 取消准备
func (h *Handler) handleCancelReady(client types.ClientInterface, _ *protocol.Message) error {
	return h.setReady(client, false)
}

func (h *Handler) setReady(client types.ClientInterface, ready bool) error {
	r, err := h.deps.Rooms.RoomOf(client)
	if err != nil {
		return err
	}

	allReady, ok := r.SetReady(client.GetID(), ready)
	if !ok {
		return nil
	}

	r.Broadcast(protocol.MustNewMessage(protocol.MsgPlayerReady, protocol.PlayerReadyPayload{
		PlayerID: client.GetID(),
		Ready:    ready,
	}))

	if allReady {
		h.startGame(r.Code)
	}
	return nil
}

// startGame 全员准备后开局
func (h *Handler) startGame(roomCode string) {
	r, ok := h.deps.Rooms.GetRoom(roomCode)
	if !ok {
		return
	}

	h.gamesMu.Lock()
	if _, exists := h.games[roomCode]; exists {
		h.gamesMu.Unlock()
		return
	}
	g := session.NewGameSession(
		r,
		h.deps.Config.Game.HandSize,
		h.deps.Config.Game.TurnTimeoutDuration(),
		h.deps.Leaderboard,
		h.removeGame,
	)
	h.games[roomCode] = g
	h.gamesMu.Unlock()

	g.Start()
	h.persistRoom(roomCode)
}

// persistRoom 异步把房间快照写入 Redis
func (h *Handler) persistRoom(code string) {
	if h.deps.Store == nil || code == "" {
		return
	}
	r, ok := h.deps.Rooms.GetRoom(code)
	if !ok {
		_ = h.deps.Store.DeleteRoom(context.Background(), code)
		return
	}

	go func() {
		if err := h.deps.Store.SaveRoom(context.Background(), code, r.ToData()); err != nil {
			log.Printf("⚠️ 保存房间 %s 失败: %v", code, err)
		}
	}()
}

package handler

import (
	"log"
	"time"

	"lastcard/internal/protocol"
	"lastcard/internal/types"
)

// handlePing 心跳响应，带双端时间戳用于测延迟
func (h *Handler) handlePing(client types.ClientInterface, msg *protocol.Message) error {
	payload, err := protocol.ParsePayload[protocol.PingPayload](msg)
	if err != nil {
		return err
	}

	h.deps.Sessions.Touch(client.GetID())

	client.SendMessage(protocol.MustNewMessage(protocol.MsgPong, protocol.PongPayload{
		ClientTimestamp: payload.Timestamp,
		ServerTimestamp: time.Now().UnixMilli(),
	}))
	return nil
}

// handleReconnect 断线重连：核对令牌后恢复身份、房间和对局视图
func (h *Handler) handleReconnect(client types.ClientInterface, msg *protocol.Message) error {
	payload, err := protocol.ParsePayload[protocol.ReconnectPayload](msg)
	if err != nil {
		return err
	}

	sess, ok := h.deps.Sessions.GetSessionByToken(payload.Token)
	if !ok || sess.PlayerID != payload.PlayerID {
		client.SendMessage(protocol.NewErrorMessageWithText(protocol.ErrCodeUnknown, "重连令牌无效或已过期"))
		return nil
	}

	h.deps.Sessions.SetOnline(sess.PlayerID)

	resp := protocol.ReconnectedPayload{
		PlayerID:   sess.PlayerID,
		PlayerName: sess.PlayerName,
	}

	// 还在房间里就恢复房间和对局状态
	if sess.RoomCode != "" {
		if r, exists := h.deps.Rooms.GetRoom(sess.RoomCode); exists {
			client.SetRoom(sess.RoomCode)
			resp.RoomCode = sess.RoomCode

			if g, playing := h.GameByRoom(sess.RoomCode); playing {
				g.HandlePlayerOnline(sess.PlayerID, client)
				view, hand := g.ReconnectView(sess.PlayerID)
				resp.View = view
				resp.Hand = hand
			} else {
				r.SetPlayerOnline(sess.PlayerID, true, client)
				r.BroadcastExcept(sess.PlayerID, protocol.MustNewMessage(protocol.MsgPlayerOnline, protocol.PlayerOnlinePayload{
					PlayerID:   sess.PlayerID,
					PlayerName: sess.PlayerName,
				}))
			}
		} else {
			h.deps.Sessions.SetRoom(sess.PlayerID, "")
		}
	}

	client.SendMessage(protocol.MustNewMessage(protocol.MsgReconnected, resp))
	log.Printf("🔄 %s 重连成功", sess.PlayerName)
	return nil
}

// HandleDisconnect 连接断开时的善后：通知房间并启动重连宽限
func (h *Handler) HandleDisconnect(client types.ClientInterface) {
	playerID := client.GetID()
	h.deps.Sessions.SetOffline(playerID)

	code := client.GetRoom()
	if code == "" {
		return
	}

	grace := int(h.deps.Config.Game.ReconnectGraceDuration().Seconds())

	if g, ok := h.GameByRoom(code); ok && g.IsActive() {
		g.HandlePlayerOffline(playerID, grace)
		return
	}

	// 还在等待阶段就直接离开房间
	if r, ok := h.deps.Rooms.GetRoom(code); ok {
		r.BroadcastExcept(playerID, protocol.MustNewMessage(protocol.MsgPlayerLeft, protocol.PlayerLeftPayload{
			PlayerID:   playerID,
			PlayerName: client.GetName(),
		}))
	}
	_, _ = h.deps.Rooms.LeaveRoom(client)
	h.deps.Sessions.SetRoom(playerID, "")
}

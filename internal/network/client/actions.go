package client

import (
	"lastcard/internal/protocol"
)

// CreateRoom 请求创建房间
func (c *Client) CreateRoom() error {
	return c.Send(protocol.MustNewMessage(protocol.MsgCreateRoom, nil))
}

// JoinRoom 请求加入房间
func (c *Client) JoinRoom(code string) error {
	return c.Send(protocol.MustNewMessage(protocol.MsgJoinRoom, protocol.JoinRoomPayload{
		RoomCode: code,
	}))
}

// LeaveRoom 请求离开房间
func (c *Client) LeaveRoom() error {
	return c.Send(protocol.MustNewMessage(protocol.MsgLeaveRoom, nil))
}

// Ready 准备就绪
func (c *Client) Ready() error {
	return c.Send(protocol.MustNewMessage(protocol.MsgReady, nil))
}

// CancelReady 取消准备
func (c *Client) CancelReady() error {
	return c.Send(protocol.MustNewMessage(protocol.MsgCancelReady, nil))
}

// PlayCards 出牌，单张或一条连出
func (c *Client) PlayCards(cards []protocol.CardInfo) error {
	return c.Send(protocol.MustNewMessage(protocol.MsgPlayCards, protocol.PlayCardsPayload{
		Cards: cards,
	}))
}

// DrawCard 抽牌
func (c *Client) DrawCard() error {
	return c.Send(protocol.MustNewMessage(protocol.MsgDrawCard, nil))
}

// DeclareLastCard 报上牌
func (c *Client) DeclareLastCard() error {
	return c.Send(protocol.MustNewMessage(protocol.MsgDeclareLastCard, nil))
}

// GetStats 查询个人战绩
func (c *Client) GetStats() error {
	return c.Send(protocol.MustNewMessage(protocol.MsgGetStats, nil))
}

// GetLeaderboard 查询排行榜
func (c *Client) GetLeaderboard(offset, limit int) error {
	return c.Send(protocol.MustNewMessage(protocol.MsgGetLeaderboard, protocol.GetLeaderboardPayload{
		Offset: offset,
		Limit:  limit,
	}))
}

// GetOnlineCount 查询在线人数
func (c *Client) GetOnlineCount() error {
	return c.Send(protocol.MustNewMessage(protocol.MsgGetOnlineCount, nil))
}

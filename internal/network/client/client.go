package client

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"lastcard/internal/protocol"
	"lastcard/internal/protocol/codec"
)

const (
	writeWait         = 10 * time.Second
	heartbeatInterval = 15 * time.Second
)

// Client 游戏客户端的 WebSocket 连接
type Client struct {
	url string

	mu   sync.Mutex
	conn *websocket.Conn

	// 服务器分配的身份
	identityMu sync.RWMutex
	playerID   string
	playerName string
	token      string

	// 最近一次心跳往返延迟（毫秒）
	latency atomic.Int64

	// OnMessage 收到服务器消息时回调（读协程串行调用），连接前设置
	OnMessage func(*protocol.Message)

	// OnDisconnect 连接断开时回调
	OnDisconnect func(error)

	done     chan struct{}
	doneOnce sync.Once
}

// New 创建客户端
func New(url string) *Client {
	return &Client{url: url}
}

// Connect 建立连接并启动读取与心跳协程
func (c *Client) Connect(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return fmt.Errorf("连接服务器失败: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
	c.done = make(chan struct{})
	c.doneOnce = sync.Once{}

	go c.readLoop()
	go c.heartbeatLoop()
	return nil
}

// Reconnect 用重连令牌恢复会话
func (c *Client) Reconnect(ctx context.Context) error {
	c.identityMu.RLock()
	token, playerID := c.token, c.playerID
	c.identityMu.RUnlock()

	if token == "" {
		return fmt.Errorf("没有可用的重连令牌")
	}

	if err := c.Connect(ctx); err != nil {
		return err
	}

	return c.Send(protocol.MustNewMessage(protocol.MsgReconnect, protocol.ReconnectPayload{
		Token:    token,
		PlayerID: playerID,
	}))
}

// Close 主动关闭连接
func (c *Client) Close() {
	c.closeWith(nil)
}

func (c *Client) closeWith(err error) {
	c.doneOnce.Do(func() {
		close(c.done)

		c.mu.Lock()
		if c.conn != nil {
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second))
			_ = c.conn.Close()
		}
		c.mu.Unlock()

		if c.OnDisconnect != nil {
			c.OnDisconnect(err)
		}
	})
}

// Send 发送一条消息，写操作串行化
func (c *Client) Send(msg *protocol.Message) error {
	data, err := codec.Encode(msg)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return fmt.Errorf("连接未建立")
	}
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// PlayerID 服务器分配的玩家 ID
func (c *Client) PlayerID() string {
	c.identityMu.RLock()
	defer c.identityMu.RUnlock()
	return c.playerID
}

// PlayerName 服务器分配的昵称
func (c *Client) PlayerName() string {
	c.identityMu.RLock()
	defer c.identityMu.RUnlock()
	return c.playerName
}

// Latency 最近一次心跳延迟
func (c *Client) Latency() time.Duration {
	return time.Duration(c.latency.Load()) * time.Millisecond
}

// readLoop 读取循环，身份和心跳消息在这里拦截处理
func (c *Client) readLoop() {
	for {
		c.mu.Lock()
		conn := c.conn
		c.mu.Unlock()
		if conn == nil {
			return
		}

		_, data, err := conn.ReadMessage()
		if err != nil {
			c.closeWith(err)
			return
		}

		msg, err := codec.Decode(data)
		if err != nil {
			continue
		}

		c.intercept(msg)
		if c.OnMessage != nil {
			c.OnMessage(msg)
		}
		codec.PutMessage(msg)
	}
}

// intercept 处理客户端自身关心的消息
func (c *Client) intercept(msg *protocol.Message) {
	switch msg.Type {
	case protocol.MsgConnected:
		if p, err := protocol.ParsePayload[protocol.ConnectedPayload](msg); err == nil {
			c.identityMu.Lock()
			c.playerID = p.PlayerID
			c.playerName = p.PlayerName
			c.token = p.ReconnectToken
			c.identityMu.Unlock()
		}
	case protocol.MsgReconnected:
		if p, err := protocol.ParsePayload[protocol.ReconnectedPayload](msg); err == nil {
			c.identityMu.Lock()
			c.playerID = p.PlayerID
			c.playerName = p.PlayerName
			c.identityMu.Unlock()
		}
	case protocol.MsgPong:
		if p, err := protocol.ParsePayload[protocol.PongPayload](msg); err == nil {
			c.latency.Store(time.Now().UnixMilli() - p.ClientTimestamp)
		}
	}
}

// heartbeatLoop 定期发 ping 测延迟
func (c *Client) heartbeatLoop() {
	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			_ = c.Send(protocol.MustNewMessage(protocol.MsgPing, protocol.PingPayload{
				Timestamp: time.Now().UnixMilli(),
			}))
		case <-c.done:
			return
		}
	}
}

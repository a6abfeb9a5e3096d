package server

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"lastcard/internal/protocol"
	"lastcard/internal/protocol/codec"
)

const (
	// 单条消息写超时
	writeWait = 10 * time.Second

	// pong 超时，超过视为掉线
	pongWait = 60 * time.Second

	// ping 间隔，必须小于 pongWait
	pingPeriod = (pongWait * 9) / 10

	// 单条消息大小上限
	maxMessageSize = 4096

	// 发送队列长度，满了视为消费不过来直接断开
	sendQueueSize = 256
)

// Client 一条 WebSocket 连接上的玩家
type Client struct {
	id   string
	name string

	conn   *websocket.Conn
	server *Server

	send chan []byte

	mu       sync.RWMutex
	roomCode string

	msgLimiter *MessageRateLimiter

	closeOnce sync.Once
}

// NewClient 创建客户端
func NewClient(id, name string, conn *websocket.Conn, srv *Server) *Client {
	return &Client{
		id:         id,
		name:       name,
		conn:       conn,
		server:     srv,
		send:       make(chan []byte, sendQueueSize),
		msgLimiter: NewMessageRateLimiter(srv.cfg.Security.RateLimit.MaxPerSecond),
	}
}

// GetID 玩家 ID
func (c *Client) GetID() string { return c.id }

// GetName 玩家昵称
func (c *Client) GetName() string { return c.name }

// GetRoom 所在房间号
func (c *Client) GetRoom() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.roomCode
}

// SetRoom 设置所在房间号
func (c *Client) SetRoom(code string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.roomCode = code
}

// SendMessage 异步发送消息，队列满则丢弃并断开
func (c *Client) SendMessage(msg *protocol.Message) {
	data, err := codec.Encode(msg)
	if err != nil {
		logrus.WithError(err).WithField("type", msg.Type).Error("编码消息失败")
		return
	}

	select {
	case c.send <- data:
	default:
		logrus.WithField("player", c.id).Warn("发送队列已满，断开连接")
		c.Close()
	}
}

// Close 关闭连接
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.send)
	})
}

// readPump 读取循环。每条连接一个协程，串行分发消息
func (c *Client) readPump() {
	defer func() {
		c.server.handleClientDisconnect(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logrus.WithError(err).WithField("player", c.id).Debug("连接异常关闭")
			}
			return
		}

		if !c.msgLimiter.Allow() {
			c.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeRateLimit))
			continue
		}

		// 应用层消息也会刷新读超时
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))

		msg, err := codec.Decode(data)
		if err != nil {
			c.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
			continue
		}

		c.server.handler.Dispatch(c, msg)
		codec.PutMessage(msg)
	}
}

// writePump 写入循环。send 通道关闭即下发 close 帧退出
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

package testutil

import (
	"sync"

	"lastcard/internal/protocol"
)

// MockClient 测试用客户端，记录收到的所有消息
type MockClient struct {
	mu       sync.Mutex
	id       string
	name     string
	roomCode string
	closed   bool
	messages []*protocol.Message
}

// NewMockClient 创建测试客户端
func NewMockClient(id, name string) *MockClient {
	return &MockClient{id: id, name: name}
}

func (c *MockClient) GetID() string   { return c.id }
func (c *MockClient) GetName() string { return c.name }

func (c *MockClient) GetRoom() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.roomCode
}

func (c *MockClient) SetRoom(code string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.roomCode = code
}

func (c *MockClient) SendMessage(msg *protocol.Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, msg)
}

func (c *MockClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

// Closed 连接是否已关闭
func (c *MockClient) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Messages 返回收到的消息快照
func (c *MockClient) Messages() []*protocol.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*protocol.Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// MessagesOfType 按类型过滤消息
func (c *MockClient) MessagesOfType(t protocol.MessageType) []*protocol.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []*protocol.Message
	for _, m := range c.messages {
		if m.Type == t {
			out = append(out, m)
		}
	}
	return out
}

// LastMessage 最后一条消息，没有则返回 nil
func (c *MockClient) LastMessage() *protocol.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.messages) == 0 {
		return nil
	}
	return c.messages[len(c.messages)-1]
}

// ClearMessages 清空已记录的消息
func (c *MockClient) ClearMessages() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = nil
}

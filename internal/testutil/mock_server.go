package testutil

import (
	"sync"

	"lastcard/internal/types"
)

// MockServer 测试用服务器
type MockServer struct {
	mu          sync.Mutex
	maintenance bool
	clients     map[string]types.ClientInterface
}

// NewMockServer 创建测试服务器
func NewMockServer() *MockServer {
	return &MockServer{clients: make(map[string]types.ClientInterface)}
}

func (s *MockServer) IsMaintenanceMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.maintenance
}

// SetMaintenanceMode 切换维护模式
func (s *MockServer) SetMaintenanceMode(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.maintenance = on
}

func (s *MockServer) GetOnlineCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

func (s *MockServer) GetClientByID(id string) types.ClientInterface {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clients[id]
}

func (s *MockServer) RegisterClient(id string, client types.ClientInterface) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[id] = client
}

func (s *MockServer) UnregisterClient(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.clients, id)
}

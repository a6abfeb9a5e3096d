//go:build ci

package sound

// 音效事件名
const (
	CardPlayed = "play"
	CardDrawn  = "draw"
	LastCall   = "call"
	GameOver   = "over"
	YourTurn   = "turn"
)

// Manager CI 环境下的空实现，没有音频设备
type Manager struct{}

func NewManager() *Manager { return &Manager{} }

func (m *Manager) Init() error { return nil }

func (m *Manager) Play(name string) {}

func (m *Manager) Close() {}

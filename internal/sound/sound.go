//go:build !ci

package sound

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"
)

// 音效事件名，对应 assets/sounds/ 下的文件名（不含扩展名）
const (
	CardPlayed = "play"
	CardDrawn  = "draw"
	LastCall   = "call"
	GameOver   = "over"
	YourTurn   = "turn"
)

const soundDir = "assets/sounds"

// Manager 音效管理器，找不到音效文件就静默跳过
type Manager struct {
	buffers map[string]*beep.Buffer
	enabled bool
}

// NewManager 创建音效管理器，Init 之前不发声
func NewManager() *Manager {
	return &Manager{buffers: make(map[string]*beep.Buffer)}
}

// Init 初始化音频设备并预载所有音效
func (m *Manager) Init() error {
	sampleRate := beep.SampleRate(44100)
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return fmt.Errorf("初始化音频设备失败: %w", err)
	}
	m.enabled = true
	return m.preload(sampleRate)
}

// preload 预载音效目录里的 mp3/wav 文件
func (m *Manager) preload(sampleRate beep.SampleRate) error {
	entries, err := os.ReadDir(soundDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // 没有音效目录也能玩
		}
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if ext != ".mp3" && ext != ".wav" {
			continue
		}

		buf, err := m.decode(filepath.Join(soundDir, name), ext, sampleRate)
		if err != nil {
			continue // 单个文件坏了不影响其他
		}
		m.buffers[strings.TrimSuffix(name, filepath.Ext(name))] = buf
	}
	return nil
}

func (m *Manager) decode(path, ext string, sampleRate beep.SampleRate) (*beep.Buffer, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var streamer beep.StreamSeekCloser
	var format beep.Format
	switch ext {
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".wav":
		streamer, format, err = wav.Decode(f)
	}
	if err != nil {
		return nil, err
	}
	defer func() { _ = streamer.Close() }()

	var src beep.Streamer = streamer
	if format.SampleRate != sampleRate {
		src = beep.Resample(4, format.SampleRate, sampleRate, streamer)
	}

	buf := beep.NewBuffer(beep.Format{SampleRate: sampleRate, NumChannels: 2, Precision: 4})
	buf.Append(src)
	return buf, nil
}

// Play 播放音效。未初始化、名字不存在都静默返回
func (m *Manager) Play(name string) {
	if m == nil || !m.enabled {
		return
	}
	buf, ok := m.buffers[name]
	if !ok {
		return
	}
	speaker.Play(buf.Streamer(0, buf.Len()))
}

// Close 关闭音效
func (m *Manager) Close() {
	if m != nil {
		m.enabled = false
	}
}

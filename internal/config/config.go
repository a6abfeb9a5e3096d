package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// 默认值
const (
	defaultHost           = "0.0.0.0"
	defaultPort           = 2180
	defaultMaxConnections = 10000
	defaultRedisAddr      = "localhost:6379"
	defaultHandSize       = 5
	defaultTurnTimeout    = 30
	defaultReconnectGrace = 60
	defaultRoomTimeout    = 10
)

// Config 服务端配置
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Redis    RedisConfig    `yaml:"redis"`
	Game     GameConfig     `yaml:"game"`
	Security SecurityConfig `yaml:"security"`
}

// ServerConfig WebSocket 服务器配置
type ServerConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	MaxConnections int    `yaml:"max_connections"` // 并发连接上限
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// GameConfig 游戏配置
type GameConfig struct {
	HandSize       int `yaml:"hand_size"`       // 起手牌数
	TurnTimeout    int `yaml:"turn_timeout"`    // 出牌超时（秒），超时自动抽牌
	ReconnectGrace int `yaml:"reconnect_grace"` // 掉线重连宽限（秒）
	RoomTimeout    int `yaml:"room_timeout"`    // 房间等待超时（分钟）
}

// SecurityConfig 安全配置
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins"`
	RateLimit      RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig 速率限制配置
type RateLimitConfig struct {
	MaxPerSecond int `yaml:"max_per_second"` // 每秒消息上限
	MaxPerMinute int `yaml:"max_per_minute"` // 每分钟消息上限
	BanDuration  int `yaml:"ban_duration"`   // 封禁时长（秒）
}

// TurnTimeoutDuration 返回出牌超时时长
func (c *GameConfig) TurnTimeoutDuration() time.Duration {
	return time.Duration(c.TurnTimeout) * time.Second
}

// ReconnectGraceDuration 返回重连宽限时长
func (c *GameConfig) ReconnectGraceDuration() time.Duration {
	return time.Duration(c.ReconnectGrace) * time.Second
}

// RoomTimeoutDuration 返回房间等待超时时长
func (c *GameConfig) RoomTimeoutDuration() time.Duration {
	return time.Duration(c.RoomTimeout) * time.Minute
}

// BanDurationTime 返回封禁时长
func (c *RateLimitConfig) BanDurationTime() time.Duration {
	return time.Duration(c.BanDuration) * time.Second
}

// Load 加载配置文件，环境变量优先于文件内容
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	return &cfg, nil
}

// Default 返回默认配置
func Default() *Config {
	cfg := &Config{}
	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg
}

// applyEnv 读取环境变量覆盖（.env 由 godotenv autoload 注入）
func (c *Config) applyEnv() {
	if v := os.Getenv("SERVER_HOST"); v != "" {
		c.Server.Host = v
	}
	if v := os.Getenv("SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
	if v := os.Getenv("GAME_TURN_TIMEOUT"); v != "" {
		if timeout, err := strconv.Atoi(v); err == nil {
			c.Game.TurnTimeout = timeout
		}
	}
	if v := os.Getenv("SECURITY_ALLOWED_ORIGINS"); v != "" {
		c.Security.AllowedOrigins = strings.Split(v, ",")
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = defaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = defaultPort
	}
	if c.Server.MaxConnections == 0 {
		c.Server.MaxConnections = defaultMaxConnections
	}
	if c.Redis.Addr == "" {
		c.Redis.Addr = defaultRedisAddr
	}
	if c.Game.HandSize == 0 {
		c.Game.HandSize = defaultHandSize
	}
	if c.Game.TurnTimeout == 0 {
		c.Game.TurnTimeout = defaultTurnTimeout
	}
	if c.Game.ReconnectGrace == 0 {
		c.Game.ReconnectGrace = defaultReconnectGrace
	}
	if c.Game.RoomTimeout == 0 {
		c.Game.RoomTimeout = defaultRoomTimeout
	}
	if len(c.Security.AllowedOrigins) == 0 {
		c.Security.AllowedOrigins = []string{"*"}
	}
	if c.Security.RateLimit.MaxPerSecond == 0 {
		c.Security.RateLimit.MaxPerSecond = 10
	}
	if c.Security.RateLimit.MaxPerMinute == 0 {
		c.Security.RateLimit.MaxPerMinute = 120
	}
	if c.Security.RateLimit.BanDuration == 0 {
		c.Security.RateLimit.BanDuration = 60
	}
}

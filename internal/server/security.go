package server

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// RateLimiter 连接速率限制器，按 IP 统计
type RateLimiter struct {
	mu sync.Mutex

	perSecond map[string]int
	perMinute map[string]int
	banned    map[string]time.Time

	maxPerSecond int
	maxPerMinute int
	banDuration  time.Duration

	stopCh chan struct{}
}

// NewRateLimiter 创建速率限制器
func NewRateLimiter(maxPerSecond, maxPerMinute int, banDuration time.Duration) *RateLimiter {
	rl := &RateLimiter{
		perSecond:    make(map[string]int),
		perMinute:    make(map[string]int),
		banned:       make(map[string]time.Time),
		maxPerSecond: maxPerSecond,
		maxPerMinute: maxPerMinute,
		banDuration:  banDuration,
		stopCh:       make(chan struct{}),
	}
	go rl.resetLoop()
	return rl
}

// Allow 判断该 IP 是否允许建立新连接
func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if until, ok := rl.banned[ip]; ok {
		if time.Now().Before(until) {
			return false
		}
		delete(rl.banned, ip)
	}

	rl.perSecond[ip]++
	rl.perMinute[ip]++

	if rl.perSecond[ip] > rl.maxPerSecond || rl.perMinute[ip] > rl.maxPerMinute {
		rl.banned[ip] = time.Now().Add(rl.banDuration)
		logrus.WithFields(logrus.Fields{
			"ip":  ip,
			"ban": rl.banDuration,
		}).Warn("🚫 连接频率超限，临时封禁")
		return false
	}
	return true
}

// Stop 停止计数重置协程
func (rl *RateLimiter) Stop() {
	close(rl.stopCh)
}

func (rl *RateLimiter) resetLoop() {
	secTicker := time.NewTicker(time.Second)
	minTicker := time.NewTicker(time.Minute)
	defer secTicker.Stop()
	defer minTicker.Stop()

	for {
		select {
		case <-secTicker.C:
			rl.mu.Lock()
			rl.perSecond = make(map[string]int)
			rl.mu.Unlock()
		case <-minTicker.C:
			rl.mu.Lock()
			rl.perMinute = make(map[string]int)
			rl.mu.Unlock()
		case <-rl.stopCh:
			return
		}
	}
}

// OriginChecker 校验 WebSocket 握手的 Origin 头
type OriginChecker struct {
	allowed map[string]bool
	openAll bool
}

// NewOriginChecker 创建 Origin 校验器，列表含 "*" 时放行所有来源
func NewOriginChecker(origins []string) *OriginChecker {
	oc := &OriginChecker{allowed: make(map[string]bool)}
	for _, o := range origins {
		if o == "*" {
			oc.openAll = true
		}
		oc.allowed[strings.TrimRight(o, "/")] = true
	}
	return oc
}

// Check 校验请求来源。无 Origin 头的（原生客户端）放行
func (oc *OriginChecker) Check(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	if oc.openAll {
		return true
	}
	return oc.allowed[strings.TrimRight(origin, "/")]
}

// MessageRateLimiter 单连接消息速率限制（滑动窗口）
type MessageRateLimiter struct {
	mu         sync.Mutex
	timestamps []time.Time
	maxPerSec  int
}

// NewMessageRateLimiter 创建消息速率限制器
func NewMessageRateLimiter(maxPerSec int) *MessageRateLimiter {
	return &MessageRateLimiter{maxPerSec: maxPerSec}
}

// Allow 当前消息是否放行
func (ml *MessageRateLimiter) Allow() bool {
	ml.mu.Lock()
	defer ml.mu.Unlock()

	now := time.Now()
	cutoff := now.Add(-time.Second)

	kept := ml.timestamps[:0]
	for _, ts := range ml.timestamps {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	ml.timestamps = kept

	if len(ml.timestamps) >= ml.maxPerSec {
		return false
	}
	ml.timestamps = append(ml.timestamps, now)
	return true
}

// IPFilter IP 黑名单
type IPFilter struct {
	mu      sync.RWMutex
	blocked map[string]bool
}

// NewIPFilter 创建 IP 过滤器
func NewIPFilter() *IPFilter {
	return &IPFilter{blocked: make(map[string]bool)}
}

// Block 拉黑 IP
func (f *IPFilter) Block(ip string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.blocked[ip] = true
}

// Unblock 解除拉黑
func (f *IPFilter) Unblock(ip string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.blocked, ip)
}

// IsBlocked 是否在黑名单中
func (f *IPFilter) IsBlocked(ip string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.blocked[ip]
}

// GetClientIP 解析客户端真实 IP，优先反向代理头
func GetClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		return strings.TrimSpace(parts[0])
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

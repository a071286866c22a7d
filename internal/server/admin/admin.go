// Package admin 管理通道的会话与能力开关
package admin

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// 能力开关名称，默认全部关闭，每次启用都是显式操作
const (
	PowerSeeAllHands     = "seeAllHands"
	PowerManipulateCards = "manipulateCards"
	PowerControlTurns    = "controlTurns"
	PowerRoomControl     = "roomControl"
)

// 会话过期时间
const sessionExpireTime = 30 * time.Minute

var validPowers = map[string]bool{
	PowerSeeAllHands:     true,
	PowerManipulateCards: true,
	PowerControlTurns:    true,
	PowerRoomControl:     true,
}

// ValidPower 检查能力名是否合法
func ValidPower(name string) bool {
	return validPowers[name]
}

// Session 管理会话：一个已通过令牌校验的管理连接
type Session struct {
	ID string

	watchingRoom string
	powers       map[string]bool
	lastSeen     time.Time

	mu sync.RWMutex
}

// Watch 开始观察某个房间（同一会话同时只观察一个）
func (s *Session) Watch(roomCode string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watchingRoom = roomCode
}

// Unwatch 停止观察
func (s *Session) Unwatch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watchingRoom = ""
}

// Watching 当前观察的房间号，未观察时为空串
func (s *Session) Watching() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.watchingRoom
}

// TogglePower 翻转能力开关，返回翻转后的状态
func (s *Session) TogglePower(name string) (enabled bool, ok bool) {
	if !ValidPower(name) {
		return false, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.powers[name] = !s.powers[name]
	return s.powers[name], true
}

// HasPower 检查能力是否已开启
func (s *Session) HasPower(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.powers[name]
}

// Powers 当前已开启的能力快照
func (s *Session) Powers() map[string]bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := make(map[string]bool, len(s.powers))
	for name, on := range s.powers {
		if on {
			snapshot[name] = true
		}
	}
	return snapshot
}

// Touch 刷新会话活跃时间
func (s *Session) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = time.Now()
}

// Manager 管理会话管理器
type Manager struct {
	sessions map[string]*Session // sessionID -> session
	mu       sync.RWMutex
}

// NewManager 创建管理会话管理器
func NewManager() *Manager {
	m := &Manager{
		sessions: make(map[string]*Session),
	}

	go m.cleanupLoop()

	return m
}

// CreateSession 创建新的管理会话
func (m *Manager) CreateSession() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := &Session{
		ID:       uuid.New().String(),
		powers:   make(map[string]bool),
		lastSeen: time.Now(),
	}
	m.sessions[s.ID] = s
	return s
}

// GetSession 获取管理会话
func (m *Manager) GetSession(id string) *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[id]
}

// DeleteSession 删除管理会话
func (m *Manager) DeleteSession(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// SessionsWatching 所有正在观察指定房间的管理会话
func (m *Manager) SessionsWatching(roomCode string) []*Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var watching []*Session
	for _, s := range m.sessions {
		if s.Watching() == roomCode {
			watching = append(watching, s)
		}
	}
	return watching
}

// cleanupLoop 定期清理长时间不活跃的管理会话
func (m *Manager) cleanupLoop() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		m.cleanup()
	}
}

func (m *Manager) cleanup() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	for id, s := range m.sessions {
		s.mu.RLock()
		expired := now.Sub(s.lastSeen) > sessionExpireTime
		s.mu.RUnlock()

		if expired {
			delete(m.sessions, id)
		}
	}
}

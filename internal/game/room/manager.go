package room

import (
	"context"
	"log"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/palemoky/uno-arena/internal/apperrors"
	"github.com/palemoky/uno-arena/internal/game/engine"
	"github.com/palemoky/uno-arena/internal/protocol"
)

// CreateRoom 创建房间并让创建者入座为房主，返回房间与新玩家 ID
func (m *Manager) CreateRoom(name, avatar string) (*Room, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// 生成唯一房间号
	code := m.generateRoomCode()

	r := NewRoom(code, m.opts)

	playerID := uuid.New().String()
	if _, err := r.Game.AddPlayer(playerID, name, avatar); err != nil {
		return nil, "", err
	}

	m.rooms[code] = r

	m.persist(r)

	log.Printf("🏠 房间 %s 已创建，房主 %s", code, name)

	return r, playerID, nil
}

// JoinRoom 给已存在的房间分配一个座位，返回新玩家 ID
func (m *Manager) JoinRoom(code, name, avatar string) (string, error) {
	m.mu.RLock()
	r, exists := m.rooms[code]
	m.mu.RUnlock()
	if !exists {
		return "", apperrors.ErrRoomNotFound
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.Game.Players) >= m.maxPlayers {
		return "", apperrors.ErrRoomFull
	}

	playerID := uuid.New().String()
	if _, err := r.Game.AddPlayer(playerID, name, avatar); err != nil {
		return "", err
	}

	log.Printf("👤 玩家 %s 入座房间 %s (座位 %d)", name, code, len(r.Game.Players)-1)

	m.persist(r)

	return playerID, nil
}

// GetRoom 获取房间
func (m *Manager) GetRoom(code string) *Room {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rooms[code]
}

// RemoveRoom 摘除房间（空房或管理命令清场）
func (m *Manager) RemoveRoom(code string) {
	m.mu.Lock()
	delete(m.rooms, code)
	m.mu.Unlock()

	if m.store != nil {
		go func() { _ = m.store.DeleteRoom(context.Background(), code) }()
	}
	log.Printf("🏠 房间 %s 已解散", code)
}

// ListRooms 所有活跃房间的摘要（绝不携带手牌）
func (m *Manager) ListRooms() []protocol.RoomSummary {
	m.mu.RLock()
	defer m.mu.RUnlock()

	summaries := make([]protocol.RoomSummary, 0, len(m.rooms))
	for _, r := range m.rooms {
		summaries = append(summaries, r.Summary())
	}
	return summaries
}

// ActiveGamesCount 进行中的对局数（优雅关闭时轮询用）
func (m *Manager) ActiveGamesCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, r := range m.rooms {
		r.mu.RLock()
		if r.Game.Status == engine.StatusPlaying {
			count++
		}
		r.mu.RUnlock()
	}
	return count
}

// Persist 把房间快照镜像到 Redis（尽力而为，失败不影响对局）
func (m *Manager) Persist(r *Room) {
	m.persist(r)
}

func (m *Manager) persist(r *Room) {
	if m.store == nil {
		return
	}
	data := r.SnapshotData()
	go func() { _ = m.store.SaveRoom(context.Background(), data.Code, data) }()
}

// generateRoomCode 生成活跃房间中唯一的 4 位大写字母房间号
func (m *Manager) generateRoomCode() string {
	for {
		code := make([]byte, roomCodeLength)
		for i := range code {
			code[i] = roomCodeChars[rand.IntN(len(roomCodeChars))]
		}
		codeStr := string(code)
		if _, exists := m.rooms[codeStr]; !exists {
			return codeStr
		}
	}
}

// cleanupLoop 定期清理超时房间
func (m *Manager) cleanupLoop() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		m.cleanup()
	}
}

// cleanup 清理长时间无人在线的大厅/已结束房间
func (m *Manager) cleanup() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()

	for code, r := range m.rooms {
		r.mu.RLock()
		idle := r.ConnectedCountLocked() == 0 && now.Sub(r.CreatedAt) > m.roomTimeout
		stale := idle && r.Game.Status != engine.StatusPlaying
		r.mu.RUnlock()

		if stale {
			delete(m.rooms, code)
			if m.store != nil {
				go func(c string) { _ = m.store.DeleteRoom(context.Background(), c) }(code)
			}
			log.Printf("🧹 房间 %s 超时已清理", code)
		}
	}
}

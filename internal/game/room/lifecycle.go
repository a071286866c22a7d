package room

import (
	"log"
	"time"

	"github.com/palemoky/uno-arena/internal/apperrors"
	"github.com/palemoky/uno-arena/internal/game/card"
	"github.com/palemoky/uno-arena/internal/game/engine"
	"github.com/palemoky/uno-arena/internal/types"
)

// NewRoom 创建房间
func NewRoom(code string, opts engine.Options) *Room {
	return &Room{
		Code:      code,
		Game:      engine.NewGame(opts),
		CreatedAt: time.Now(),
		clients:   make(map[string]types.ClientInterface),
	}
}

// Bind 把一条新连接绑定到已有座位上；座位不存在则拒绝
// 同一玩家重连时旧连接被顶替
func (r *Room) Bind(playerID string, client types.ClientInterface) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := r.Game.PlayerByID(playerID)
	if p == nil {
		return apperrors.ErrNotInRoom
	}

	if old, ok := r.clients[playerID]; ok && old != client {
		old.Close()
	}
	r.clients[playerID] = client
	p.Connected = true
	client.SetRoom(r.Code)

	log.Printf("📶 玩家 %s 绑定到房间 %s", p.Name, r.Code)
	return nil
}

// Unbind 连接断开：座位保留，只翻转在线标记
func (r *Room) Unbind(playerID string, client types.ClientInterface) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cur, ok := r.clients[playerID]; !ok || cur != client {
		return // 已被新连接顶替
	}
	delete(r.clients, playerID)
	if p := r.Game.PlayerByID(playerID); p != nil {
		p.Connected = false
		log.Printf("📴 玩家 %s 在房间 %s 中掉线（座位保留）", p.Name, r.Code)
	}
}

// StartGame 房主开局
func (r *Room) StartGame(playerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := r.Game.PlayerByID(playerID)
	if p == nil {
		return apperrors.ErrNotInRoom
	}
	if !p.IsHost {
		return apperrors.ErrNotHost
	}
	if err := r.Game.Start(); err != nil {
		return err
	}
	log.Printf("🎮 房间 %s 开局，%d 名玩家", r.Code, len(r.Game.Players))
	return nil
}

// Play 玩家出牌
func (r *Room) Play(playerID string, cardIndex int, chosenColor card.Color) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Game.Play(playerID, cardIndex, chosenColor)
}

// Draw 玩家摸牌
func (r *Room) Draw(playerID string) ([]card.Card, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Game.Draw(playerID)
}

// RemovePlayer 摘座（主动离开或被踢），返回房间是否已空
func (r *Room) RemovePlayer(playerID string) (empty bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.Game.RemovePlayer(playerID); err != nil {
		return false, err
	}
	if client, ok := r.clients[playerID]; ok {
		delete(r.clients, playerID)
		client.SetRoom("")
	}
	return len(r.Game.Players) == 0, nil
}

// PlayerName 座位上玩家的昵称，座位不存在返回空串
func (r *Room) PlayerName(playerID string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if p := r.Game.PlayerByID(playerID); p != nil {
		return p.Name
	}
	return ""
}

// ConnectedCountLocked 在线连接数，调用方需持有锁
func (r *Room) ConnectedCountLocked() int {
	return len(r.clients)
}

// Mutate 在房间写锁下执行任意引擎变更（管理命令用），
// 保证管理命令与玩家操作走同一把锁、同一组原语
func (r *Room) Mutate(fn func(g *engine.Game) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return fn(r.Game)
}

// BroadcastState 给每个在线玩家推送按其裁剪的状态快照
func (r *Room) BroadcastState() {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for playerID, client := range r.clients {
		client.SendMessage(r.stateMessageLocked(playerID))
	}
}

// SendStateTo 给单个玩家推送状态（重连后立即同步用）
func (r *Room) SendStateTo(playerID string) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if client, ok := r.clients[playerID]; ok {
		client.SendMessage(r.stateMessageLocked(playerID))
	}
}

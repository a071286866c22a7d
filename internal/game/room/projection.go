package room

import (
	"github.com/palemoky/uno-arena/internal/game/engine"
	"github.com/palemoky/uno-arena/internal/protocol"
	"github.com/palemoky/uno-arena/internal/protocol/convert"
	"github.com/palemoky/uno-arena/internal/server/storage"
)

// stateMessageLocked 组装发给 recipient 的 state 消息，调用方需持有读锁
func (r *Room) stateMessageLocked(recipientID string) *protocol.Message {
	return protocol.MustNewMessage(protocol.MsgState, protocol.StatePayload{
		GameState:    r.scopedStateLocked(recipientID),
		YourPlayerID: recipientID,
	})
}

// ScopedState 按接收者裁剪的房间投影：
// 自己的手牌原样给出，其他玩家只暴露 cardCount
func (r *Room) ScopedState(recipientID string) *protocol.GameStateDTO {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.scopedStateLocked(recipientID)
}

func (r *Room) scopedStateLocked(recipientID string) *protocol.GameStateDTO {
	g := r.Game
	draw, discard := g.PileCounts()

	dto := &protocol.GameStateDTO{
		RoomCode:          r.Code,
		Status:            string(g.Status),
		Players:           r.playerInfosLocked(),
		Hand:              []protocol.CardInfo{},
		LastPlayedColor:   string(g.LastPlayedColor),
		PendingDraws:      g.PendingDraws,
		ReverseStackCount: g.ReverseStackCount,
		Direction:         g.Direction,
		Winner:            g.WinnerID,
		DrawPileCount:     draw,
		DiscardCount:      discard,
	}
	if top, ok := g.TopCard(); ok {
		info := convert.CardToInfo(top)
		dto.TopCard = &info
	}
	if current := g.CurrentPlayer(); current != nil && g.Status == engine.StatusPlaying {
		dto.CurrentPlayerID = current.ID
	}
	if p := g.PlayerByID(recipientID); p != nil {
		dto.Hand = convert.CardsToInfo(p.Hand)
	}
	return dto
}

// playerInfosLocked 座位列表投影，任何人都拿不到别人的手牌
func (r *Room) playerInfosLocked() []protocol.PlayerInfo {
	infos := make([]protocol.PlayerInfo, len(r.Game.Players))
	for i, p := range r.Game.Players {
		infos[i] = protocol.PlayerInfo{
			ID:        p.ID,
			Name:      p.Name,
			Avatar:    p.Avatar,
			Seat:      i,
			Connected: p.Connected,
			IsHost:    p.IsHost,
			CardCount: len(p.Hand),
		}
	}
	return infos
}

// AdminState 管理端观察视图，含连锁计数，仍然不含手牌
func (r *Room) AdminState() *protocol.AdminRoomState {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g := r.Game
	draw, discard := g.PileCounts()

	state := &protocol.AdminRoomState{
		RoomCode:          r.Code,
		Status:            string(g.Status),
		Players:           r.playerInfosLocked(),
		LastPlayedColor:   string(g.LastPlayedColor),
		PendingDraws:      g.PendingDraws,
		ReverseStackCount: g.ReverseStackCount,
		Direction:         g.Direction,
		Winner:            g.WinnerID,
		DrawPileCount:     draw,
		DiscardCount:      discard,
	}
	if top, ok := g.TopCard(); ok {
		info := convert.CardToInfo(top)
		state.TopCard = &info
	}
	if current := g.CurrentPlayer(); current != nil && g.Status == engine.StatusPlaying {
		state.CurrentPlayerID = current.ID
	}
	return state
}

// AllHands 全量手牌视图，只有开启 seeAllHands 的管理会话才被允许索取
func (r *Room) AllHands() map[string][]protocol.CardInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	hands := make(map[string][]protocol.CardInfo, len(r.Game.Players))
	for _, p := range r.Game.Players {
		hands[p.ID] = convert.CardsToInfo(p.Hand)
	}
	return hands
}

// Summary 房间摘要（房间列表用，绝不携带手牌）
func (r *Room) Summary() protocol.RoomSummary {
	r.mu.RLock()
	defer r.mu.RUnlock()

	avatars := make([]string, 0, len(r.Game.Players))
	for _, p := range r.Game.Players {
		avatars = append(avatars, p.Avatar)
	}
	return protocol.RoomSummary{
		RoomCode:    r.Code,
		Status:      string(r.Game.Status),
		PlayerCount: len(r.Game.Players),
		Avatars:     avatars,
	}
}

// SnapshotData 组装 Redis 镜像快照
func (r *Room) SnapshotData() *storage.RoomData {
	r.mu.RLock()
	defer r.mu.RUnlock()

	data := &storage.RoomData{
		Code:      r.Code,
		Status:    string(r.Game.Status),
		Winner:    r.Game.WinnerID,
		CreatedAt: r.CreatedAt.Unix(),
	}
	for i, p := range r.Game.Players {
		data.Players = append(data.Players, storage.PlayerData{
			ID:        p.ID,
			Name:      p.Name,
			Avatar:    p.Avatar,
			Seat:      i,
			IsHost:    p.IsHost,
			CardCount: len(p.Hand),
		})
	}
	return data
}

package handler

import (
	"context"
	"log"
	"time"

	"github.com/palemoky/uno-arena/internal/game/card"
	"github.com/palemoky/uno-arena/internal/game/engine"
	"github.com/palemoky/uno-arena/internal/game/room"
	"github.com/palemoky/uno-arena/internal/protocol"
	"github.com/palemoky/uno-arena/internal/protocol/convert"
	"github.com/palemoky/uno-arena/internal/types"
)

// handlePing 心跳
func (h *Handler) handlePing(client types.ClientInterface, msg *protocol.Message) {
	payload, err := protocol.ParsePayload[protocol.PingPayload](msg)
	if err != nil {
		client.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	client.SendMessage(protocol.MustNewMessage(protocol.MsgPong, protocol.PongPayload{
		ClientTimestamp: payload.Timestamp,
		ServerTimestamp: time.Now().UnixMilli(),
	}))
}

// handlePlay 出牌
func (h *Handler) handlePlay(client types.ClientInterface, msg *protocol.Message) {
	payload, err := protocol.ParsePayload[protocol.PlayPayload](msg)
	if err != nil {
		client.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	r, err := h.clientRoom(client)
	if err != nil {
		sendError(client, err)
		return
	}

	if err := r.Play(client.GetID(), payload.CardIndex, card.Color(payload.ChosenColor)); err != nil {
		sendError(client, err)
		return
	}

	h.recordWinIfFinished(r)
	h.syncRoom(r)
}

// handleDraw 摸牌：有罚牌堆则全额结算，否则摸一张
func (h *Handler) handleDraw(client types.ClientInterface) {
	r, err := h.clientRoom(client)
	if err != nil {
		sendError(client, err)
		return
	}

	cards, forced, err := r.Draw(client.GetID())
	if err != nil {
		sendError(client, err)
		return
	}

	// 摸到的牌只发给摸牌者本人
	client.SendMessage(protocol.MustNewMessage(protocol.MsgCardDrawn, protocol.CardDrawnPayload{
		Cards:  convert.CardsToInfo(cards),
		Forced: forced,
	}))

	h.syncRoom(r)
}

// handleStartGame 房主开局
func (h *Handler) handleStartGame(client types.ClientInterface) {
	r, err := h.clientRoom(client)
	if err != nil {
		sendError(client, err)
		return
	}

	if err := r.StartGame(client.GetID()); err != nil {
		sendError(client, err)
		return
	}

	h.syncRoom(r)
}

// handleLeaveRoom 主动离开房间，座位被摘除
func (h *Handler) handleLeaveRoom(client types.ClientInterface) {
	r, err := h.clientRoom(client)
	if err != nil {
		sendError(client, err)
		return
	}

	empty, err := r.RemovePlayer(client.GetID())
	if err != nil {
		sendError(client, err)
		return
	}

	client.SetRoom("")
	log.Printf("👋 玩家 %s 离开房间 %s", client.GetName(), r.Code)

	if empty {
		h.roomManager.RemoveRoom(r.Code)
		return
	}
	h.syncRoom(r)
}

// handleGetLeaderboard 查询胜场排行榜
func (h *Handler) handleGetLeaderboard(client types.ClientInterface, msg *protocol.Message) {
	limit := 0
	if len(msg.Payload) > 0 {
		if payload, err := protocol.ParsePayload[protocol.GetLeaderboardPayload](msg); err == nil {
			limit = payload.Limit
		}
	}

	entries := []protocol.LeaderboardEntry{}
	if h.leaderboard != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()

		results, err := h.leaderboard.TopWins(ctx, limit)
		if err != nil {
			log.Printf("❌ 排行榜查询失败: %v", err)
			client.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeUnknown))
			return
		}
		for _, e := range results {
			entries = append(entries, protocol.LeaderboardEntry{
				Rank: e.Rank,
				Name: e.Name,
				Wins: e.Wins,
			})
		}
	}

	client.SendMessage(protocol.MustNewMessage(protocol.MsgLeaderboard, protocol.LeaderboardPayload{
		Entries: entries,
	}))
}

// recordWinIfFinished 对局刚结束时给胜者累计胜场
func (h *Handler) recordWinIfFinished(r *room.Room) {
	var winnerName string
	_ = r.Mutate(func(g *engine.Game) error {
		if g.Status == engine.StatusFinished && g.WinnerID != "" {
			if p := g.PlayerByID(g.WinnerID); p != nil {
				winnerName = p.Name
			}
		}
		return nil
	})

	if winnerName == "" || h.leaderboard == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := h.leaderboard.RecordWin(ctx, winnerName); err != nil {
			log.Printf("❌ 胜场记录失败: %v", err)
		}
	}()
	log.Printf("🏆 玩家 %s 获胜 (房间 %s)", winnerName, r.Code)
}

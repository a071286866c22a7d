package handler

import (
	"fmt"
	"log"

	"github.com/palemoky/uno-arena/internal/game/engine"
	"github.com/palemoky/uno-arena/internal/game/room"
	"github.com/palemoky/uno-arena/internal/protocol"
	"github.com/palemoky/uno-arena/internal/protocol/convert"
	"github.com/palemoky/uno-arena/internal/server/admin"
	"github.com/palemoky/uno-arena/internal/types"
)

// adminSession 解析客户端对应的管理会话
func (h *Handler) adminSession(client types.ClientInterface) *admin.Session {
	s := h.adminManager.GetSession(client.GetID())
	if s == nil {
		client.SendMessage(protocol.NewAdminResult(false, "管理会话已失效"))
		return nil
	}
	s.Touch()
	return s
}

// watchedRoom 解析会话正在观察的房间，未观察或房间已消失时回复失败
func (h *Handler) watchedRoom(client types.ClientInterface, s *admin.Session) *room.Room {
	code := s.Watching()
	if code == "" {
		client.SendMessage(protocol.NewAdminResult(false, "请先观察一个房间"))
		return nil
	}
	r := h.roomManager.GetRoom(code)
	if r == nil {
		s.Unwatch()
		client.SendMessage(protocol.NewAdminResult(false, "房间已不存在"))
		return nil
	}
	return r
}

// requirePower 能力开关检查，未开启时回复带错误码的失败结果
func (h *Handler) requirePower(client types.ClientInterface, s *admin.Session, power string) bool {
	if !s.HasPower(power) {
		client.SendMessage(protocol.NewAdminResultWithCode(
			protocol.ErrCodePowerNotEnabled, fmt.Sprintf("权限 %s 未开启", power)))
		return false
	}
	return true
}

// handleAdminListRooms 列出所有活跃房间的摘要
func (h *Handler) handleAdminListRooms(client types.ClientInterface) {
	if h.adminSession(client) == nil {
		return
	}
	client.SendMessage(protocol.MustNewMessage(protocol.MsgAdminRoomList, protocol.AdminRoomListPayload{
		Rooms: h.roomManager.ListRooms(),
	}))
}

// handleAdminWatchRoom 开始观察房间并立即推送一次观察视图
func (h *Handler) handleAdminWatchRoom(client types.ClientInterface, msg *protocol.Message) {
	s := h.adminSession(client)
	if s == nil {
		return
	}

	payload, err := protocol.ParsePayload[protocol.AdminWatchRoomPayload](msg)
	if err != nil {
		client.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	r := h.roomManager.GetRoom(payload.RoomCode)
	if r == nil {
		client.SendMessage(protocol.NewAdminResult(false, "房间不存在"))
		return
	}

	s.Watch(r.Code)
	log.Printf("👁️  管理会话 %s 开始观察房间 %s", s.ID, r.Code)

	client.SendMessage(protocol.MustNewMessage(protocol.MsgAdminRoomState, protocol.AdminRoomStatePayload{
		Room: r.AdminState(),
	}))
	if s.HasPower(admin.PowerSeeAllHands) {
		h.sendAllHands(client, r)
	}
}

// handleAdminUnwatchRoom 停止观察
func (h *Handler) handleAdminUnwatchRoom(client types.ClientInterface) {
	s := h.adminSession(client)
	if s == nil {
		return
	}
	s.Unwatch()
	client.SendMessage(protocol.NewAdminResult(true, "已停止观察"))
}

// handleAdminTogglePower 翻转能力开关
// 开启 seeAllHands 且正在观察房间时，立即补推一次全量手牌
func (h *Handler) handleAdminTogglePower(client types.ClientInterface, msg *protocol.Message) {
	s := h.adminSession(client)
	if s == nil {
		return
	}

	payload, err := protocol.ParsePayload[protocol.AdminTogglePowerPayload](msg)
	if err != nil {
		client.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	enabled, ok := s.TogglePower(payload.Power)
	if !ok {
		client.SendMessage(protocol.NewAdminResult(false, "未知权限: "+payload.Power))
		return
	}

	state := "已关闭"
	if enabled {
		state = "已开启"
	}
	log.Printf("🔑 管理会话 %s 权限 %s %s", s.ID, payload.Power, state)
	client.SendMessage(protocol.NewAdminResult(true, payload.Power+" "+state))

	if enabled && payload.Power == admin.PowerSeeAllHands {
		if code := s.Watching(); code != "" {
			if r := h.roomManager.GetRoom(code); r != nil {
				h.sendAllHands(client, r)
			}
		}
	}
}

// handleAdminGetAllHands 按需索取被观察房间的全量手牌
func (h *Handler) handleAdminGetAllHands(client types.ClientInterface) {
	s := h.adminSession(client)
	if s == nil {
		return
	}
	if !h.requirePower(client, s, admin.PowerSeeAllHands) {
		return
	}
	r := h.watchedRoom(client, s)
	if r == nil {
		return
	}
	h.sendAllHands(client, r)
}

// handleAdminGiveCard 给玩家塞牌，未指定牌面时随机
func (h *Handler) handleAdminGiveCard(client types.ClientInterface, msg *protocol.Message) {
	s := h.adminSession(client)
	if s == nil || !h.requirePower(client, s, admin.PowerManipulateCards) {
		return
	}
	r := h.watchedRoom(client, s)
	if r == nil {
		return
	}

	payload, err := protocol.ParsePayload[protocol.AdminGiveCardPayload](msg)
	if err != nil {
		client.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	c := engine.RandomCard()
	if payload.Card != nil {
		parsed, ok := convert.CardFromInfo(*payload.Card)
		if !ok {
			client.SendMessage(protocol.NewAdminResult(false, "非法牌面"))
			return
		}
		c = parsed
	}

	if err := r.Mutate(func(g *engine.Game) error { return g.GiveCard(payload.PlayerID, c) }); err != nil {
		client.SendMessage(protocol.NewAdminResult(false, err.Error()))
		return
	}

	client.SendMessage(protocol.NewAdminResult(true, fmt.Sprintf("已给 %s 塞入 %s", payload.PlayerID, c)))
	h.syncRoom(r)
}

// handleAdminRemoveCard 按下标移除玩家的一张手牌
func (h *Handler) handleAdminRemoveCard(client types.ClientInterface, msg *protocol.Message) {
	s := h.adminSession(client)
	if s == nil || !h.requirePower(client, s, admin.PowerManipulateCards) {
		return
	}
	r := h.watchedRoom(client, s)
	if r == nil {
		return
	}

	payload, err := protocol.ParsePayload[protocol.AdminRemoveCardPayload](msg)
	if err != nil {
		client.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	var removed string
	if err := r.Mutate(func(g *engine.Game) error {
		c, err := g.RemoveCard(payload.PlayerID, payload.CardIndex)
		removed = c.String()
		return err
	}); err != nil {
		client.SendMessage(protocol.NewAdminResult(false, err.Error()))
		return
	}

	client.SendMessage(protocol.NewAdminResult(true, fmt.Sprintf("已移除 %s 的 %s", payload.PlayerID, removed)))
	h.syncRoom(r)
}

// handleAdminSetTopCard 强制设置顶牌
func (h *Handler) handleAdminSetTopCard(client types.ClientInterface, msg *protocol.Message) {
	s := h.adminSession(client)
	if s == nil || !h.requirePower(client, s, admin.PowerManipulateCards) {
		return
	}
	r := h.watchedRoom(client, s)
	if r == nil {
		return
	}

	payload, err := protocol.ParsePayload[protocol.AdminSetTopCardPayload](msg)
	if err != nil {
		client.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	c, ok := convert.CardFromInfo(payload.Card)
	if !ok {
		client.SendMessage(protocol.NewAdminResult(false, "非法牌面"))
		return
	}

	if err := r.Mutate(func(g *engine.Game) error { return g.SetTopCard(c) }); err != nil {
		client.SendMessage(protocol.NewAdminResult(false, err.Error()))
		return
	}

	client.SendMessage(protocol.NewAdminResult(true, "顶牌已设置为 "+c.String()))
	h.syncRoom(r)
}

// handleAdminForceDraw 强制指定玩家立即摸牌，属回合控制类能力
func (h *Handler) handleAdminForceDraw(client types.ClientInterface, msg *protocol.Message) {
	s := h.adminSession(client)
	if s == nil || !h.requirePower(client, s, admin.PowerControlTurns) {
		return
	}
	r := h.watchedRoom(client, s)
	if r == nil {
		return
	}

	payload, err := protocol.ParsePayload[protocol.AdminForceDrawPayload](msg)
	if err != nil {
		client.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}
	if payload.Count <= 0 {
		client.SendMessage(protocol.NewAdminResult(false, "摸牌数量必须大于 0"))
		return
	}

	if err := r.Mutate(func(g *engine.Game) error {
		_, err := g.ForceDraw(payload.PlayerID, payload.Count)
		return err
	}); err != nil {
		client.SendMessage(protocol.NewAdminResult(false, err.Error()))
		return
	}

	client.SendMessage(protocol.NewAdminResult(true, fmt.Sprintf("%s 已被强制摸 %d 张", payload.PlayerID, payload.Count)))
	h.syncRoom(r)
}

// handleAdminSkipTurn 跳过当前回合
func (h *Handler) handleAdminSkipTurn(client types.ClientInterface) {
	s := h.adminSession(client)
	if s == nil || !h.requirePower(client, s, admin.PowerControlTurns) {
		return
	}
	r := h.watchedRoom(client, s)
	if r == nil {
		return
	}

	if err := r.Mutate(func(g *engine.Game) error { return g.SkipTurn() }); err != nil {
		client.SendMessage(protocol.NewAdminResult(false, err.Error()))
		return
	}

	client.SendMessage(protocol.NewAdminResult(true, "已跳过当前回合"))
	h.syncRoom(r)
}

// handleAdminReverseDirection 翻转出牌方向
func (h *Handler) handleAdminReverseDirection(client types.ClientInterface) {
	s := h.adminSession(client)
	if s == nil || !h.requirePower(client, s, admin.PowerControlTurns) {
		return
	}
	r := h.watchedRoom(client, s)
	if r == nil {
		return
	}

	if err := r.Mutate(func(g *engine.Game) error { return g.FlipDirection() }); err != nil {
		client.SendMessage(protocol.NewAdminResult(false, err.Error()))
		return
	}

	client.SendMessage(protocol.NewAdminResult(true, "出牌方向已翻转"))
	h.syncRoom(r)
}

// handleAdminSetCurrentPlayer 把回合指给任意玩家
func (h *Handler) handleAdminSetCurrentPlayer(client types.ClientInterface, msg *protocol.Message) {
	s := h.adminSession(client)
	if s == nil || !h.requirePower(client, s, admin.PowerControlTurns) {
		return
	}
	r := h.watchedRoom(client, s)
	if r == nil {
		return
	}

	payload, err := protocol.ParsePayload[protocol.AdminSetCurrentPlayerPayload](msg)
	if err != nil {
		client.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	if err := r.Mutate(func(g *engine.Game) error { return g.SetCurrentPlayer(payload.PlayerID) }); err != nil {
		client.SendMessage(protocol.NewAdminResult(false, err.Error()))
		return
	}

	client.SendMessage(protocol.NewAdminResult(true, "当前回合已指给 "+payload.PlayerID))
	h.syncRoom(r)
}

// handleAdminKickPlayer 把玩家踢出房间，其连接被关闭
func (h *Handler) handleAdminKickPlayer(client types.ClientInterface, msg *protocol.Message) {
	s := h.adminSession(client)
	if s == nil || !h.requirePower(client, s, admin.PowerRoomControl) {
		return
	}
	r := h.watchedRoom(client, s)
	if r == nil {
		return
	}

	payload, err := protocol.ParsePayload[protocol.AdminKickPlayerPayload](msg)
	if err != nil {
		client.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	empty, err := r.RemovePlayer(payload.PlayerID)
	if err != nil {
		client.SendMessage(protocol.NewAdminResult(false, err.Error()))
		return
	}

	// 通知并断开被踢玩家
	if kicked := h.server.GetClientByID(payload.PlayerID); kicked != nil {
		kicked.SendMessage(protocol.NewErrorMessageWithText(protocol.ErrCodeNotInRoom, "您已被移出房间"))
		kicked.Close()
	}

	log.Printf("🥾 玩家 %s 被管理会话 %s 移出房间 %s", payload.PlayerID, s.ID, r.Code)
	client.SendMessage(protocol.NewAdminResult(true, "已踢出 "+payload.PlayerID))

	if empty {
		h.roomManager.RemoveRoom(r.Code)
		return
	}
	h.syncRoom(r)
}

// handleAdminForceStart 绕过最少人数门槛强制开局
func (h *Handler) handleAdminForceStart(client types.ClientInterface) {
	s := h.adminSession(client)
	if s == nil || !h.requirePower(client, s, admin.PowerRoomControl) {
		return
	}
	r := h.watchedRoom(client, s)
	if r == nil {
		return
	}

	if err := r.Mutate(func(g *engine.Game) error { return g.ForceStart() }); err != nil {
		client.SendMessage(protocol.NewAdminResult(false, err.Error()))
		return
	}

	client.SendMessage(protocol.NewAdminResult(true, "对局已强制开始"))
	h.syncRoom(r)
}

// handleAdminEndGame 直接结束对局，无胜者
func (h *Handler) handleAdminEndGame(client types.ClientInterface) {
	s := h.adminSession(client)
	if s == nil || !h.requirePower(client, s, admin.PowerRoomControl) {
		return
	}
	r := h.watchedRoom(client, s)
	if r == nil {
		return
	}

	_ = r.Mutate(func(g *engine.Game) error {
		g.EndGame()
		return nil
	})

	client.SendMessage(protocol.NewAdminResult(true, "对局已结束"))
	h.syncRoom(r)
}

// sendAllHands 推送全量手牌视图
func (h *Handler) sendAllHands(client types.ClientInterface, r *room.Room) {
	client.SendMessage(protocol.MustNewMessage(protocol.MsgAdminAllHands, protocol.AdminAllHandsPayload{
		RoomCode: r.Code,
		Hands:    r.AllHands(),
	}))
}

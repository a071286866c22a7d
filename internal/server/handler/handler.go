// Package handler WebSocket 消息分发与处理
package handler

import (
	"errors"
	"log"

	"github.com/palemoky/uno-arena/internal/apperrors"
	"github.com/palemoky/uno-arena/internal/game/room"
	"github.com/palemoky/uno-arena/internal/protocol"
	"github.com/palemoky/uno-arena/internal/server/admin"
	"github.com/palemoky/uno-arena/internal/server/storage"
	"github.com/palemoky/uno-arena/internal/types"
)

// Deps 处理器依赖
type Deps struct {
	Server       types.ServerInterface
	RoomManager  *room.Manager
	AdminManager *admin.Manager
	Leaderboard  *storage.LeaderboardManager // 可为 nil（测试）
}

// Handler 消息处理器
type Handler struct {
	server        types.ServerInterface
	roomManager   *room.Manager
	adminManager  *admin.Manager
	leaderboard   *storage.LeaderboardManager
	handlers      map[protocol.MessageType]handlerFunc
	adminHandlers map[protocol.MessageType]handlerFunc
}

// handlerFunc 统一的处理器函数签名
type handlerFunc func(client types.ClientInterface, msg *protocol.Message)

// NewHandler 创建处理器
func NewHandler(deps Deps) *Handler {
	h := &Handler{
		server:       deps.Server,
		roomManager:  deps.RoomManager,
		adminManager: deps.AdminManager,
		leaderboard:  deps.Leaderboard,
	}
	h.initHandlers()
	return h
}

// initHandlers 初始化消息处理器映射
func (h *Handler) initHandlers() {
	h.handlers = map[protocol.MessageType]handlerFunc{
		// 连接操作
		protocol.MsgPing: h.handlePing,

		// 游戏操作
		protocol.MsgPlay:      h.handlePlay,
		protocol.MsgDraw:      func(c types.ClientInterface, _ *protocol.Message) { h.handleDraw(c) },
		protocol.MsgStartGame: func(c types.ClientInterface, _ *protocol.Message) { h.handleStartGame(c) },
		protocol.MsgLeaveRoom: func(c types.ClientInterface, _ *protocol.Message) { h.handleLeaveRoom(c) },

		// 信息查询
		protocol.MsgGetLeaderboard: h.handleGetLeaderboard,
	}

	// 管理命令单独成表，普通连接永远进不来
	h.adminHandlers = map[protocol.MessageType]handlerFunc{
		protocol.MsgAdminListRooms:        func(c types.ClientInterface, _ *protocol.Message) { h.handleAdminListRooms(c) },
		protocol.MsgAdminWatchRoom:        h.handleAdminWatchRoom,
		protocol.MsgAdminUnwatchRoom:      func(c types.ClientInterface, _ *protocol.Message) { h.handleAdminUnwatchRoom(c) },
		protocol.MsgAdminTogglePower:      h.handleAdminTogglePower,
		protocol.MsgAdminGiveCard:         h.handleAdminGiveCard,
		protocol.MsgAdminSetTopCard:       h.handleAdminSetTopCard,
		protocol.MsgAdminSkipTurn:         func(c types.ClientInterface, _ *protocol.Message) { h.handleAdminSkipTurn(c) },
		protocol.MsgAdminReverseDirection: func(c types.ClientInterface, _ *protocol.Message) { h.handleAdminReverseDirection(c) },
		protocol.MsgAdminForceDraw:        h.handleAdminForceDraw,
		protocol.MsgAdminSetCurrentPlayer: h.handleAdminSetCurrentPlayer,
		protocol.MsgAdminKickPlayer:       h.handleAdminKickPlayer,
		protocol.MsgAdminForceStart:       func(c types.ClientInterface, _ *protocol.Message) { h.handleAdminForceStart(c) },
		protocol.MsgAdminEndGame:          func(c types.ClientInterface, _ *protocol.Message) { h.handleAdminEndGame(c) },
		protocol.MsgAdminRemoveCard:       h.handleAdminRemoveCard,
		protocol.MsgAdminGetAllHands:      func(c types.ClientInterface, _ *protocol.Message) { h.handleAdminGetAllHands(c) },
	}
}

// Handle 处理消息
func (h *Handler) Handle(client types.ClientInterface, msg *protocol.Message) {
	if handler, ok := h.adminHandlers[msg.Type]; ok {
		if !client.IsAdmin() {
			log.Printf("🚫 普通连接 %s 尝试管理命令 '%s'", client.GetID(), msg.Type)
			client.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
			return
		}
		handler(client, msg)
		return
	}

	if handler, ok := h.handlers[msg.Type]; ok {
		handler(client, msg)
		return
	}

	log.Printf("⚠️  未知消息类型: '%s' (来自: %s, ID: %s)", msg.Type, client.GetName(), client.GetID())
	client.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
}

// sendError 把领域错误映射为协议错误消息
func sendError(client types.ClientInterface, err error) {
	var ge *apperrors.GameError
	if errors.As(err, &ge) {
		client.SendMessage(protocol.NewErrorMessageWithText(ge.Code, ge.Message))
		return
	}
	client.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeUnknown))
}

// clientRoom 解析客户端所在房间
func (h *Handler) clientRoom(client types.ClientInterface) (*room.Room, error) {
	code := client.GetRoom()
	if code == "" {
		return nil, apperrors.ErrNotInRoom
	}
	r := h.roomManager.GetRoom(code)
	if r == nil {
		return nil, apperrors.ErrRoomNotFound
	}
	return r, nil
}

// syncRoom 一次状态变更后的统一扇出：
// 玩家各自的裁剪投影、观察中的管理会话、Redis 镜像
func (h *Handler) syncRoom(r *room.Room) {
	r.BroadcastState()
	h.notifyWatchers(r)
	h.roomManager.Persist(r)
}

// notifyWatchers 给观察该房间的管理会话推送观察视图，
// 只有开启 seeAllHands 的会话才收到手牌
func (h *Handler) notifyWatchers(r *room.Room) {
	sessions := h.adminManager.SessionsWatching(r.Code)
	if len(sessions) == 0 {
		return
	}

	stateMsg := protocol.MustNewMessage(protocol.MsgAdminRoomState, protocol.AdminRoomStatePayload{
		Room: r.AdminState(),
	})

	var handsMsg *protocol.Message
	for _, s := range sessions {
		client := h.server.GetClientByID(s.ID)
		if client == nil {
			continue
		}
		client.SendMessage(stateMsg)
		if s.HasPower(admin.PowerSeeAllHands) {
			if handsMsg == nil {
				handsMsg = protocol.MustNewMessage(protocol.MsgAdminAllHands, protocol.AdminAllHandsPayload{
					RoomCode: r.Code,
					Hands:    r.AllHands(),
				})
			}
			client.SendMessage(handsMsg)
		}
	}
}

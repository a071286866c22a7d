package protocol

import "encoding/json"

// Message 基础消息结构
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// MessageType 消息类型
type MessageType string

// 客户端 → 服务端 消息类型
const (
	// 连接操作
	MsgPing MessageType = "ping" // 心跳 ping

	// 游戏操作
	MsgPlay      MessageType = "play"      // 出牌
	MsgDraw      MessageType = "draw"      // 摸牌
	MsgStartGame MessageType = "startGame" // 房主开始游戏
	MsgLeaveRoom MessageType = "leaveRoom" // 离开房间

	// 排行榜
	MsgGetLeaderboard MessageType = "getLeaderboard" // 获取胜场排行榜

	// 管理员操作
	MsgAdminListRooms        MessageType = "adminListRooms"        // 列出所有房间
	MsgAdminWatchRoom        MessageType = "adminWatchRoom"        // 观察指定房间
	MsgAdminUnwatchRoom      MessageType = "adminUnwatchRoom"      // 停止观察
	MsgAdminTogglePower      MessageType = "adminTogglePower"      // 切换权限开关
	MsgAdminGiveCard         MessageType = "adminGiveCard"         // 给玩家塞牌
	MsgAdminSetTopCard       MessageType = "adminSetTopCard"       // 强制设置顶牌
	MsgAdminSkipTurn         MessageType = "adminSkipTurn"         // 跳过当前回合
	MsgAdminReverseDirection MessageType = "adminReverseDirection" // 翻转出牌方向
	MsgAdminForceDraw        MessageType = "adminForceDraw"        // 强制玩家摸牌
	MsgAdminSetCurrentPlayer MessageType = "adminSetCurrentPlayer" // 指定当前玩家
	MsgAdminKickPlayer       MessageType = "adminKickPlayer"       // 踢出玩家
	MsgAdminForceStart       MessageType = "adminForceStart"       // 强制开始游戏
	MsgAdminEndGame          MessageType = "adminEndGame"          // 强制结束游戏
	MsgAdminRemoveCard       MessageType = "adminRemoveCard"       // 移除玩家手牌
	MsgAdminGetAllHands      MessageType = "adminGetAllHands"      // 获取全部手牌
)

// 服务端 → 客户端 消息类型
const (
	// 连接相关
	MsgPong MessageType = "pong" // 心跳 pong

	// 游戏状态
	MsgState     MessageType = "state"     // 作用域投影后的房间状态
	MsgCardDrawn MessageType = "cardDrawn" // 摸牌结果（仅发给摸牌者）

	// 排行榜
	MsgLeaderboard MessageType = "leaderboard" // 排行榜结果

	// 管理员
	MsgAdminRoomList  MessageType = "adminRoomList"  // 房间摘要列表
	MsgAdminRoomState MessageType = "adminRoomState" // 被观察房间状态
	MsgAdminAllHands  MessageType = "adminAllHands"  // 全部手牌视图
	MsgAdminResult    MessageType = "adminResult"    // 管理命令执行结果

	// 错误
	MsgError MessageType = "error" // 错误消息
)

package protocol

// --- 客户端请求 Payloads ---

// PingPayload 心跳请求
type PingPayload struct {
	Timestamp int64 `json:"timestamp"` // 客户端时间戳（毫秒）
}

// PlayPayload 出牌请求
type PlayPayload struct {
	CardIndex   int    `json:"cardIndex"`             // 手牌下标
	ChosenColor string `json:"chosenColor,omitempty"` // 万能牌指定的颜色
}

// GetLeaderboardPayload 获取排行榜请求
type GetLeaderboardPayload struct {
	Limit int `json:"limit"` // 数量，0 表示默认
}

// AdminWatchRoomPayload 观察房间请求
type AdminWatchRoomPayload struct {
	RoomCode string `json:"roomCode"`
}

// AdminTogglePowerPayload 权限开关请求
type AdminTogglePowerPayload struct {
	Power string `json:"power"` // seeAllHands/manipulateCards/controlTurns/roomControl
}

// AdminGiveCardPayload 塞牌请求，Card 为空则随机
type AdminGiveCardPayload struct {
	PlayerID string    `json:"playerId"`
	Card     *CardInfo `json:"card,omitempty"`
}

// AdminSetTopCardPayload 强制设置顶牌请求
type AdminSetTopCardPayload struct {
	Card CardInfo `json:"card"`
}

// AdminForceDrawPayload 强制摸牌请求
type AdminForceDrawPayload struct {
	PlayerID string `json:"playerId"`
	Count    int    `json:"count"`
}

// AdminSetCurrentPlayerPayload 指定当前玩家请求
type AdminSetCurrentPlayerPayload struct {
	PlayerID string `json:"playerId"`
}

// AdminKickPlayerPayload 踢人请求
type AdminKickPlayerPayload struct {
	PlayerID string `json:"playerId"`
}

// AdminRemoveCardPayload 移除手牌请求
type AdminRemoveCardPayload struct {
	PlayerID  string `json:"playerId"`
	CardIndex int    `json:"cardIndex"`
}

// --- 服务端响应 Payloads ---

// PongPayload 心跳响应
type PongPayload struct {
	ClientTimestamp int64 `json:"clientTimestamp"` // 客户端发送的时间戳
	ServerTimestamp int64 `json:"serverTimestamp"` // 服务器时间戳（毫秒）
}

// StatePayload 房间状态推送（按接收者裁剪）
type StatePayload struct {
	GameState    *GameStateDTO `json:"gameState"`
	YourPlayerID string        `json:"yourPlayerId"`
}

// CardDrawnPayload 摸牌结果
type CardDrawnPayload struct {
	Cards  []CardInfo `json:"cards"`
	Forced bool       `json:"forced"` // 是否为被迫结算罚牌堆
}

// ErrorPayload 错误响应
type ErrorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// LeaderboardPayload 排行榜结果
type LeaderboardPayload struct {
	Entries []LeaderboardEntry `json:"entries"`
}

// LeaderboardEntry 排行榜条目
type LeaderboardEntry struct {
	Rank int    `json:"rank"`
	Name string `json:"name"`
	Wins int    `json:"wins"`
}

// AdminRoomListPayload 房间摘要列表（绝不包含手牌）
type AdminRoomListPayload struct {
	Rooms []RoomSummary `json:"rooms"`
}

// AdminRoomStatePayload 被观察房间的完整状态（不含手牌）
type AdminRoomStatePayload struct {
	Room *AdminRoomState `json:"room"`
}

// AdminAllHandsPayload 全部手牌视图（仅 seeAllHands 开启时推送）
type AdminAllHandsPayload struct {
	RoomCode string                `json:"roomCode"`
	Hands    map[string][]CardInfo `json:"hands"` // playerID -> 手牌
}

// AdminResultPayload 管理命令执行结果
type AdminResultPayload struct {
	Success bool   `json:"success"`
	Code    int    `json:"code,omitempty"` // 失败原因的错误码
	Message string `json:"message"`
}

// --- 通用数据结构 ---

// CardInfo 牌信息
type CardInfo struct {
	Type        string `json:"type"`                  // number/skip/reverse/plus2/plus4/plus20/wild
	Color       string `json:"color,omitempty"`       // red/blue/green/yellow，万能牌为空
	Value       int    `json:"value"`                 // 仅 number 有意义，0-9
	ChosenColor string `json:"chosenColor,omitempty"` // 已打出的万能牌所选颜色
}

// PlayerInfo 玩家信息（对非本人绝不携带手牌）
type PlayerInfo struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Avatar    string `json:"avatar,omitempty"`
	Seat      int    `json:"seat"`      // 座位号，即出牌顺序
	Connected bool   `json:"connected"` // 是否在线
	IsHost    bool   `json:"isHost"`    // 是否房主
	CardCount int    `json:"cardCount"` // 手牌数量
}

// GameStateDTO 房间状态投影，Hand 只包含接收者自己的手牌
// ReverseStackCount 必须下发：客户端出牌提示与服务端共用同一份判定输入
type GameStateDTO struct {
	RoomCode          string       `json:"roomCode"`
	Status            string       `json:"status"` // lobby/playing/finished
	Players           []PlayerInfo `json:"players"`
	Hand              []CardInfo   `json:"hand"`
	TopCard           *CardInfo    `json:"topCard,omitempty"`
	LastPlayedColor   string       `json:"lastPlayedColor,omitempty"`
	PendingDraws      int          `json:"pendingDraws"`
	ReverseStackCount int          `json:"reverseStackCount"`
	Direction         int          `json:"direction"` // +1 / -1
	CurrentPlayerID   string       `json:"currentPlayerId,omitempty"`
	Winner            string       `json:"winner,omitempty"`
	DrawPileCount     int          `json:"drawPileCount"`
	DiscardCount      int          `json:"discardCount"`
}

// AdminRoomState 管理端观察视图，仍然不含手牌
type AdminRoomState struct {
	RoomCode          string       `json:"roomCode"`
	Status            string       `json:"status"`
	Players           []PlayerInfo `json:"players"`
	TopCard           *CardInfo    `json:"topCard,omitempty"`
	LastPlayedColor   string       `json:"lastPlayedColor,omitempty"`
	PendingDraws      int          `json:"pendingDraws"`
	ReverseStackCount int          `json:"reverseStackCount"`
	Direction         int          `json:"direction"`
	CurrentPlayerID   string       `json:"currentPlayerId,omitempty"`
	Winner            string       `json:"winner,omitempty"`
	DrawPileCount     int          `json:"drawPileCount"`
	DiscardCount      int          `json:"discardCount"`
}

// RoomSummary 房间摘要（房间列表用）
type RoomSummary struct {
	RoomCode    string   `json:"roomCode"`
	Status      string   `json:"status"`
	PlayerCount int      `json:"playerCount"`
	Avatars     []string `json:"avatars,omitempty"`
}

package protocol

// 错误码
const (
	ErrCodeUnknown            = 1000
	ErrCodeInvalidMsg         = 1001
	ErrCodeRoomNotFound       = 2001
	ErrCodeRoomFull           = 2002
	ErrCodeNotInRoom          = 2003
	ErrCodeGameStarted        = 2004 // 游戏已开始，无法入座
	ErrCodeNotHost            = 2005
	ErrCodeNotEnoughPlayers   = 2006
	ErrCodeGameNotStart       = 3001
	ErrCodeNotYourTurn        = 3002
	ErrCodeInvalidCardIndex   = 3003
	ErrCodeIllegalPlay        = 3004
	ErrCodeMissingColorChoice = 3005
	ErrCodeDeckExhausted      = 3006 // 理论上不可达
	ErrCodePowerNotEnabled    = 4001 // 管理权限未开启
)

// ErrorMessages 错误码对应的消息
var ErrorMessages = map[int]string{
	ErrCodeUnknown:            "未知错误",
	ErrCodeInvalidMsg:         "无效的消息格式",
	ErrCodeRoomNotFound:       "房间不存在",
	ErrCodeRoomFull:           "房间已满",
	ErrCodeNotInRoom:          "您不在房间中",
	ErrCodeGameStarted:        "游戏已开始",
	ErrCodeNotHost:            "只有房主可以开始游戏",
	ErrCodeNotEnoughPlayers:   "人数不足，无法开始",
	ErrCodeGameNotStart:       "游戏尚未开始",
	ErrCodeNotYourTurn:        "还没轮到您",
	ErrCodeInvalidCardIndex:   "手牌下标无效",
	ErrCodeIllegalPlay:        "这张牌现在不能出",
	ErrCodeMissingColorChoice: "万能牌必须指定颜色",
	ErrCodeDeckExhausted:      "牌堆已耗尽",
	ErrCodePowerNotEnabled:    "对应的管理权限未开启",
}

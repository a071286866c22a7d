package apperrors

import (
	"github.com/palemoky/uno-arena/internal/protocol"
)

// GameError 游戏错误（引擎和房间共享），Code 与协议错误码一一对应
type GameError struct {
	Code    int
	Message string
}

func (e *GameError) Error() string {
	return e.Message
}

// 预定义错误
var (
	ErrRoomNotFound       = &GameError{Code: protocol.ErrCodeRoomNotFound, Message: "房间不存在"}
	ErrRoomFull           = &GameError{Code: protocol.ErrCodeRoomFull, Message: "房间已满"}
	ErrNotInRoom          = &GameError{Code: protocol.ErrCodeNotInRoom, Message: "您不在房间中"}
	ErrGameStarted        = &GameError{Code: protocol.ErrCodeGameStarted, Message: "游戏已开始"}
	ErrGameNotStart       = &GameError{Code: protocol.ErrCodeGameNotStart, Message: "游戏尚未开始"}
	ErrNotHost            = &GameError{Code: protocol.ErrCodeNotHost, Message: "只有房主可以开始游戏"}
	ErrNotEnoughPlayers   = &GameError{Code: protocol.ErrCodeNotEnoughPlayers, Message: "人数不足，无法开始"}
	ErrNotYourTurn        = &GameError{Code: protocol.ErrCodeNotYourTurn, Message: "还没轮到您"}
	ErrInvalidCardIndex   = &GameError{Code: protocol.ErrCodeInvalidCardIndex, Message: "手牌下标无效"}
	ErrIllegalPlay        = &GameError{Code: protocol.ErrCodeIllegalPlay, Message: "这张牌现在不能出"}
	ErrMissingColorChoice = &GameError{Code: protocol.ErrCodeMissingColorChoice, Message: "万能牌必须指定颜色"}
	ErrDeckExhausted      = &GameError{Code: protocol.ErrCodeDeckExhausted, Message: "牌堆已耗尽"}
	ErrPlayerNotFound     = &GameError{Code: protocol.ErrCodeUnknown, Message: "玩家不存在"}
)

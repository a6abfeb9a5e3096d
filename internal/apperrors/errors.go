package apperrors

import (
	"lastcard/internal/protocol"
)

// GameError 游戏错误（房间和会话共享）
type GameError struct {
	Code    int
	Message string
}

func (e *GameError) Error() string {
	return e.Message
}

// 预定义错误
var (
	ErrRoomNotFound  = &GameError{Code: protocol.ErrCodeRoomNotFound, Message: "房间不存在"}
	ErrRoomFull      = &GameError{Code: protocol.ErrCodeRoomFull, Message: "房间已满"}
	ErrNotInRoom     = &GameError{Code: protocol.ErrCodeNotInRoom, Message: "您不在房间中"}
	ErrGameStarted   = &GameError{Code: protocol.ErrCodeGameStarted, Message: "游戏已开始"}
	ErrGameNotStart  = &GameError{Code: protocol.ErrCodeGameNotStart, Message: "游戏尚未开始"}
	ErrNotYourTurn   = &GameError{Code: protocol.ErrCodeNotYourTurn, Message: "还没轮到您"}
	ErrInvalidCards  = &GameError{Code: protocol.ErrCodeInvalidCards, Message: "这手牌不符合出牌规则"}
	ErrNotYourCards  = &GameError{Code: protocol.ErrCodeNotYourCards, Message: "您没有这些牌"}
	ErrCannotDeclare = &GameError{Code: protocol.ErrCodeCannotDeclare, Message: "现在不能报上牌"}
)

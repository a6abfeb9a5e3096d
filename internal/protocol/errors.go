package protocol

// 错误码
const (
	ErrCodeUnknown           = 1000
	ErrCodeInvalidMsg        = 1001
	ErrCodeRateLimit         = 1002 // 速率限制
	ErrCodeRoomNotFound      = 2001
	ErrCodeRoomFull          = 2002
	ErrCodeNotInRoom         = 2003
	ErrCodeGameStarted       = 2004 // 游戏已开始
	ErrCodeGameNotStart      = 3001
	ErrCodeNotYourTurn       = 3002
	ErrCodeInvalidCards      = 3003
	ErrCodeNotYourCards      = 3004 // 出了不在手里的牌
	ErrCodeCannotDeclare     = 3005 // 报上牌条件不满足
	ErrCodeServerMaintenance = 5003 // 服务器维护中
)

// ErrorMessages 错误码对应的消息
var ErrorMessages = map[int]string{
	ErrCodeUnknown:           "未知错误",
	ErrCodeInvalidMsg:        "无效的消息格式",
	ErrCodeRateLimit:         "请求过于频繁",
	ErrCodeRoomNotFound:      "房间不存在",
	ErrCodeRoomFull:          "房间已满",
	ErrCodeNotInRoom:         "您不在房间中",
	ErrCodeGameStarted:       "游戏已开始",
	ErrCodeGameNotStart:      "游戏尚未开始",
	ErrCodeNotYourTurn:       "还没轮到您",
	ErrCodeInvalidCards:      "这手牌不符合出牌规则",
	ErrCodeNotYourCards:      "您没有这些牌",
	ErrCodeCannotDeclare:     "现在不能报上牌",
	ErrCodeServerMaintenance: "服务器维护中",
}

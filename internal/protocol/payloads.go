package protocol

// --- 客户端请求 Payloads ---

// ReconnectPayload 断线重连请求
type ReconnectPayload struct {
	Token    string `json:"token"`     // 重连令牌
	PlayerID string `json:"player_id"` // 玩家 ID
}

// PingPayload 心跳请求
type PingPayload struct {
	Timestamp int64 `json:"timestamp"` // 客户端时间戳（毫秒）
}

// JoinRoomPayload 加入房间请求
type JoinRoomPayload struct {
	RoomCode string `json:"room_code"`
}

// PlayCardsPayload 出牌请求，一张或一条连出
type PlayCardsPayload struct {
	Cards []CardInfo `json:"cards"`
}

// GetLeaderboardPayload 获取排行榜请求
type GetLeaderboardPayload struct {
	Offset int `json:"offset"` // 偏移量
	Limit  int `json:"limit"`  // 数量
}

// --- 服务端响应 Payloads ---

// ConnectedPayload 连接成功响应
type ConnectedPayload struct {
	PlayerID       string `json:"player_id"`
	PlayerName     string `json:"player_name"`
	ReconnectToken string `json:"reconnect_token"` // 重连令牌
}

// ReconnectedPayload 重连成功响应
type ReconnectedPayload struct {
	PlayerID   string      `json:"player_id"`
	PlayerName string      `json:"player_name"`
	RoomCode   string      `json:"room_code,omitempty"` // 如果在房间中
	View       *PublicView `json:"view,omitempty"`      // 如果在游戏中
	Hand       []CardInfo  `json:"hand,omitempty"`      // 自己的手牌
}

// PongPayload 心跳响应
type PongPayload struct {
	ClientTimestamp int64 `json:"client_timestamp"` // 客户端发送的时间戳
	ServerTimestamp int64 `json:"server_timestamp"` // 服务器时间戳（毫秒）
}

// PlayerOfflinePayload 玩家掉线通知
type PlayerOfflinePayload struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
	Timeout    int    `json:"timeout"` // 等待重连超时（秒）
}

// PlayerOnlinePayload 玩家上线通知
type PlayerOnlinePayload struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
}

// OnlineCountPayload 在线人数更新
type OnlineCountPayload struct {
	Count int `json:"count"` // 当前在线人数
}

// RoomCreatedPayload 房间创建成功响应
type RoomCreatedPayload struct {
	RoomCode string     `json:"room_code"`
	Player   PlayerInfo `json:"player"`
}

// RoomJoinedPayload 加入房间成功响应
type RoomJoinedPayload struct {
	RoomCode string       `json:"room_code"`
	Player   PlayerInfo   `json:"player"`
	Players  []PlayerInfo `json:"players"` // 房间内所有玩家
}

// PlayerJoinedPayload 其他玩家加入通知
type PlayerJoinedPayload struct {
	Player PlayerInfo `json:"player"`
}

// PlayerLeftPayload 玩家离开通知
type PlayerLeftPayload struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
}

// PlayerReadyPayload 玩家准备通知
type PlayerReadyPayload struct {
	PlayerID string `json:"player_id"`
	Ready    bool   `json:"ready"`
}

// GameStartPayload 游戏开始通知
type GameStartPayload struct {
	Players []PlayerInfo `json:"players"` // 按座位顺序排列
}

// PublicView 对局公共视图：对所有人可见的信息。
// 其他玩家的手牌只含数量，具体牌面绝不进入该结构
type PublicView struct {
	Players      []PlayerInfo `json:"players"`       // 按座位顺序排列
	TopCard      CardInfo     `json:"top_card"`      // 弃牌堆顶
	DeckCount    int          `json:"deck_count"`    // 牌堆剩余
	DiscardCount int          `json:"discard_count"` // 弃牌堆张数
	CurrentTurn  string       `json:"current_turn"`  // 当前回合玩家 ID
	Direction    int          `json:"direction"`     // 1 顺时针 / -1 逆时针
	DrawPressure int          `json:"draw_pressure"` // 累计罚抽数
	Message      string       `json:"message"`       // 最近一次结算说明
}

// HandPayload 私有手牌，只发给所属玩家
type HandPayload struct {
	Cards []CardInfo `json:"cards"`
}

// PlayTurnPayload 轮到出牌通知
type PlayTurnPayload struct {
	PlayerID string `json:"player_id"`
	Timeout  int    `json:"timeout"` // 超时时间（秒），超时自动抽牌
}

// CardPlayedPayload 出牌通知
type CardPlayedPayload struct {
	PlayerID   string     `json:"player_id"`
	PlayerName string     `json:"player_name"`
	Cards      []CardInfo `json:"cards"`
	CardsLeft  int        `json:"cards_left"` // 剩余手牌数
}

// PlayerDrewPayload 抽牌通知，牌面不公开
type PlayerDrewPayload struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
	Count      int    `json:"count"`      // 抽了几张
	CardsLeft  int    `json:"cards_left"` // 抽完后的手牌数
}

// LastCardCallPayload 报上牌通知
type LastCardCallPayload struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
}

// GameOverPayload 游戏结束通知。
// 无人合法获胜（僵局）时 WinnerID 为空字符串
type GameOverPayload struct {
	WinnerID    string       `json:"winner_id"`
	WinnerName  string       `json:"winner_name"`
	Message     string       `json:"message"`
	PlayerHands []PlayerHand `json:"player_hands"` // 结算时亮出所有手牌
}

// PlayerHand 玩家手牌信息（用于游戏结束展示）
type PlayerHand struct {
	PlayerID   string     `json:"player_id"`
	PlayerName string     `json:"player_name"`
	Cards      []CardInfo `json:"cards"`
}

// MaintenancePayload 维护模式通知
type MaintenancePayload struct {
	Maintenance bool `json:"maintenance"` // 是否在维护模式
}

// ErrorPayload 错误响应
type ErrorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// StatsResultPayload 个人统计结果
type StatsResultPayload struct {
	PlayerID   string  `json:"player_id"`
	PlayerName string  `json:"player_name"`
	TotalGames int     `json:"total_games"`
	Wins       int     `json:"wins"`
	Losses     int     `json:"losses"`
	WinRate    float64 `json:"win_rate"`
	Rank       int     `json:"rank"`
}

// LeaderboardResultPayload 排行榜结果
type LeaderboardResultPayload struct {
	Entries []LeaderboardEntry `json:"entries"`
}

// LeaderboardEntry 排行榜条目
type LeaderboardEntry struct {
	Rank       int    `json:"rank"`
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
	Wins       int    `json:"wins"`
}

// --- 通用数据结构 ---

// PlayerInfo 玩家信息
type PlayerInfo struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Seat       int    `json:"seat"`        // 座位号 0-3
	Ready      bool   `json:"ready"`       // 是否准备
	CardsCount int    `json:"cards_count"` // 手牌数量
	Declared   bool   `json:"declared"`    // 是否已报上牌
	Online     bool   `json:"online"`      // 是否在线
}

// CardInfo 牌信息
type CardInfo struct {
	Suit int    `json:"suit"`  // 花色: 0=黑桃, 1=红心, 2=方块, 3=梅花
	Rank int    `json:"rank"`  // 点数: 0=A, 1=2, …, 12=K
	ID   string `json:"id"`    // 展示用标识，如 "Q♠"
}

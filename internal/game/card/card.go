package card

import "strconv"

// Suit 定义花色
type Suit int

// Rank 定义点数
type Rank int

const (
	Spade   Suit = iota // 黑桃
	Heart               // 红心
	Diamond             // 方块
	Club                // 梅花
)

// suitSymbols 花色符号映射表
var suitSymbols = map[Suit]string{
	Spade:   "♠",
	Heart:   "♥",
	Diamond: "♦",
	Club:    "♣",
}

func (s Suit) String() string {
	if symbol, ok := suitSymbols[s]; ok {
		return symbol
	}
	return ""
}

// IsRed 红色花色（红心、方块）
func (s Suit) IsRed() bool {
	return s == Heart || s == Diamond
}

// 点数顺序固定为 A,2,...,10,J,Q,K，下标即顺子步进时的距离
const (
	RankA Rank = iota
	Rank2
	Rank3
	Rank4
	Rank5
	Rank6
	Rank7
	Rank8
	Rank9
	Rank10
	RankJ
	RankQ
	RankK
)

// rankNames 牌面值字符串映射表
var rankNames = map[Rank]string{
	RankA:  "A",
	Rank2:  "2",
	Rank3:  "3",
	Rank4:  "4",
	Rank5:  "5",
	Rank6:  "6",
	Rank7:  "7",
	Rank8:  "8",
	Rank9:  "9",
	Rank10: "10",
	RankJ:  "J",
	RankQ:  "Q",
	RankK:  "K",
}

func (r Rank) String() string {
	if name, ok := rankNames[r]; ok {
		return name
	}
	return strconv.Itoa(int(r))
}

// Card 定义一张牌。点数+花色即唯一标识，整局不存在重复牌
type Card struct {
	Suit Suit
	Rank Rank
}

// ID 返回稳定唯一标识，如 "Q♠"
func (c Card) ID() string {
	return c.Rank.String() + c.Suit.String()
}

func (c Card) String() string {
	return c.ID()
}

// IsDrawCard 是否为罚抽牌（2 或黑色 J）
func (c Card) IsDrawCard() bool {
	if c.Rank == Rank2 {
		return true
	}
	return c.Rank == RankJ && !c.Suit.IsRed()
}

// IsRedJack 是否为红 J（护盾牌，清空罚抽压力）
func (c Card) IsRedJack() bool {
	return c.Rank == RankJ && c.Suit.IsRed()
}

// DrawWeight 返回该牌叠加的罚抽数：2 计 2 张，黑 J 计 5 张，其余为 0
func (c Card) DrawWeight() int {
	switch {
	case c.Rank == Rank2:
		return 2
	case c.Rank == RankJ && !c.Suit.IsRed():
		return 5
	default:
		return 0
	}
}

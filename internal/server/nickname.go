package server

import (
	"fmt"
	"math/rand"
)

// 随机昵称词表：形容词 + 名词
var nicknameAdjectives = []string{
	"快乐的", "狡猾的", "沉稳的", "莽撞的", "神秘的", "悠闲的",
	"机灵的", "迷糊的", "骄傲的", "害羞的", "暴躁的", "优雅的",
	"勇敢的", "慵懒的", "精明的", "呆萌的",
}

var nicknameNouns = []string{
	"熊猫", "狐狸", "老虎", "兔子", "猫头鹰", "刺猬",
	"海豚", "松鼠", "企鹅", "柴犬", "鹦鹉", "水獭",
	"麋鹿", "浣熊", "仓鼠", "白鹭",
}

// GenerateNickname 生成随机昵称，如"狡猾的狐狸#42"
func GenerateNickname() string {
	adj := nicknameAdjectives[rand.Intn(len(nicknameAdjectives))]
	noun := nicknameNouns[rand.Intn(len(nicknameNouns))]
	return fmt.Sprintf("%s%s#%02d", adj, noun, rand.Intn(100))
}

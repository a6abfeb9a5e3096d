package room

// State 房间状态
type State int

const (
	// StateWaiting 等待玩家准备
	StateWaiting State = iota
	// StatePlaying 对局进行中
	StatePlaying
	// StateEnded 对局已结束
	StateEnded
)

func (s State) String() string {
	switch s {
	case StateWaiting:
		return "waiting"
	case StatePlaying:
		return "playing"
	case StateEnded:
		return "ended"
	default:
		return "unknown"
	}
}

package local

import (
	"context"
	"sync"
	"time"

	"lastcard/internal/game/bot"
	"lastcard/internal/game/card"
	"lastcard/internal/game/engine"
	"lastcard/internal/game/rule"
)

// 人类玩家和机器人的固定座位
const (
	HumanSeat = 0
	BotSeat   = 1
)

// Event 单机对局的一次状态变更
type Event struct {
	State  engine.State
	Result engine.RoundResult
	// BotMove 机器人刚出的牌，抽牌时为空
	BotMove []card.Card
	BotDrew bool
}

// Session 单机对局：人类对阵机器人。
// 引擎状态只在这里持有，UI 通过事件通道拿快照
type Session struct {
	mu sync.Mutex

	state      engine.State
	difficulty bot.Difficulty
	handSize   int

	events chan Event

	cancel context.CancelFunc
	ctx    context.Context
}

// NewSession 创建单机对局并发牌
func NewSession(handSize int, difficulty bot.Difficulty) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		state:      engine.NewRound(2, handSize),
		difficulty: difficulty,
		handSize:   handSize,
		events:     make(chan Event, 8),
		ctx:        ctx,
		cancel:     cancel,
	}
	s.emitLocked()
	return s
}

// Events 状态变更通道，UI 订阅
func (s *Session) Events() <-chan Event {
	return s.events
}

// Close 终止对局，取消排队中的机器人回合
func (s *Session) Close() {
	s.cancel()
}

// State 当前状态快照
func (s *Session) State() engine.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// LegalMoves 人类玩家当前的合法着法
func (s *Session) LegalMoves() rule.Moves {
	s.mu.Lock()
	defer s.mu.Unlock()
	return rule.LegalMoves(s.state.Hands[HumanSeat], s.state.TopCard(), s.state.DrawPressure)
}

// PlayCards 人类出牌。非法出牌返回 false，状态不变
func (s *Session) PlayCards(cards []card.Card) bool {
	s.mu.Lock()

	if s.state.CurrentPlayer != HumanSeat {
		s.mu.Unlock()
		return false
	}
	moves := rule.LegalMoves(s.state.Hands[HumanSeat], s.state.TopCard(), s.state.DrawPressure)
	if !legalPlay(moves, cards) {
		s.mu.Unlock()
		return false
	}

	s.state = engine.ApplyCardEffect(s.state, cards)
	s.emitLocked()
	botTurn := s.state.CurrentPlayer == BotSeat && !engine.IsRoundOver(s.state).Over
	s.mu.Unlock()

	if botTurn {
		go s.botTurn()
	}
	return true
}

// Draw 人类抽牌
func (s *Session) Draw() bool {
	s.mu.Lock()

	if s.state.CurrentPlayer != HumanSeat {
		s.mu.Unlock()
		return false
	}

	s.state = engine.ApplyDraw(s.state, HumanSeat)
	s.emitLocked()
	botTurn := s.state.CurrentPlayer == BotSeat
	s.mu.Unlock()

	if botTurn {
		go s.botTurn()
	}
	return true
}

// Declare 人类报上牌。条件不满足返回 false
func (s *Session) Declare() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := engine.DeclareLastCard(s.state, HumanSeat)
	if !next.LastCardCalled[HumanSeat] {
		return false
	}
	s.state = next
	s.emitLocked()
	return true
}

// botTurn 机器人回合：装作思考一会再行动，可能连续行动多次
// （罚抽后仍轮到它时）
func (s *Session) botTurn() {
	for {
		select {
		case <-s.ctx.Done():
			return
		case <-time.After(bot.TurnDelay(s.difficulty)):
		}

		s.mu.Lock()
		if s.state.CurrentPlayer != BotSeat || engine.IsRoundOver(s.state).Over {
			s.mu.Unlock()
			return
		}

		move := bot.Choose(s.state, s.difficulty)
		var ev Event
		if move.Draw {
			s.state = engine.ApplyDraw(s.state, BotSeat)
			ev = Event{BotDrew: true}
		} else {
			s.state = engine.ApplyCardEffect(s.state, move.Cards)
			ev = Event{BotMove: move.Cards}
		}
		// 行动完轮到人类时趁机声明：机器人不会忘记报上牌
		if s.state.CurrentPlayer != BotSeat {
			if declared := engine.DeclareLastCard(s.state, BotSeat); declared.LastCardCalled[BotSeat] {
				s.state = declared
			}
		}

		ev.State = s.state
		ev.Result = engine.IsRoundOver(s.state)
		s.pushLocked(ev)

		again := s.state.CurrentPlayer == BotSeat && !ev.Result.Over
		s.mu.Unlock()

		if !again {
			return
		}
	}
}

// NewRound 开下一局
func (s *Session) NewRound() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = engine.NewRound(2, s.handSize)
	s.emitLocked()
}

// emitLocked 推送当前状态，调用方持有 s.mu
func (s *Session) emitLocked() {
	s.pushLocked(Event{
		State:  s.state,
		Result: engine.IsRoundOver(s.state),
	})
}

// pushLocked 非阻塞推送，UI 消费不及时就丢最旧的
func (s *Session) pushLocked(ev Event) {
	for {
		select {
		case s.events <- ev:
			return
		default:
			select {
			case <-s.events:
			default:
			}
		}
	}
}

// legalPlay 出牌是否在合法着法集合中
func legalPlay(m rule.Moves, played []card.Card) bool {
	if len(played) == 0 {
		return false
	}
	if len(played) == 1 {
		for _, c := range m.Singles {
			if c == played[0] {
				return true
			}
		}
		return false
	}
	for _, run := range m.Runs {
		if len(run) != len(played) {
			continue
		}
		ok := true
		for i := range run {
			if run[i] != played[i] {
				ok = false
				break
			}
		}
		if ok {
			return true
		}
	}
	return false
}

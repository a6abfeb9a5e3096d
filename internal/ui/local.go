package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"lastcard/internal/game/bot"
	"lastcard/internal/game/card"
	"lastcard/internal/game/engine"
	"lastcard/internal/local"
	"lastcard/internal/sound"
)

// localEventMsg 单机引擎推来的状态变更
type localEventMsg struct {
	ev local.Event
}

// LocalModel 单机对战界面
type LocalModel struct {
	session *local.Session
	sounds  *sound.Manager

	state  engine.State
	result engine.RoundResult

	cursor    int
	selection []int // 已选手牌下标，顺序即出牌顺序

	status string
}

// NewLocalModel 创建单机对局界面
func NewLocalModel(difficulty bot.Difficulty, sounds *sound.Manager) *LocalModel {
	s := local.NewSession(5, difficulty)
	return &LocalModel{
		session: s,
		sounds:  sounds,
		state:   s.State(),
	}
}

func (m *LocalModel) Init() tea.Cmd {
	return m.waitForEvent()
}

// Cleanup 退出时停掉引擎协程
func (m *LocalModel) Cleanup() {
	m.session.Close()
}

func (m *LocalModel) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.session.Events()
		if !ok {
			return nil
		}
		return localEventMsg{ev}
	}
}

func (m *LocalModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case localEventMsg:
		m.state = msg.ev.State
		m.result = msg.ev.Result
		m.clampCursor()

		switch {
		case msg.ev.Result.Over:
			m.sounds.Play(sound.GameOver)
		case len(msg.ev.BotMove) > 0:
			m.status = fmt.Sprintf("%s 机器人打出 %s", BotIcon, renderCards(msg.ev.BotMove))
			m.sounds.Play(sound.CardPlayed)
		case msg.ev.BotDrew:
			m.status = fmt.Sprintf("%s 机器人抽了牌", BotIcon)
			m.sounds.Play(sound.CardDrawn)
		}
		return m, m.waitForEvent()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *LocalModel) handleKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.result.Over {
		switch key.String() {
		case "n":
			m.selection = nil
			m.cursor = 0
			m.status = ""
			m.session.NewRound()
			return m, nil
		case "q", "esc":
			return m, func() tea.Msg { return backToMenuMsg{} }
		}
		return m, nil
	}

	hand := m.state.Hands[local.HumanSeat]

	switch key.String() {
	case "left", "h":
		if m.cursor > 0 {
			m.cursor--
		}
	case "right", "l":
		if m.cursor < len(hand)-1 {
			m.cursor++
		}
	case " ":
		m.toggleSelect()
	case "enter":
		m.playSelection(hand)
	case "d":
		if m.session.Draw() {
			m.selection = nil
			m.status = "你抽了牌"
			m.sounds.Play(sound.CardDrawn)
		} else {
			m.status = errorStyle.Render("还没轮到你")
		}
	case "c":
		if m.session.Declare() {
			m.status = goodStyle.Render(CallIcon + " 报上牌！")
			m.sounds.Play(sound.LastCall)
		} else {
			m.status = errorStyle.Render("现在不能报上牌")
		}
	case "q", "esc":
		return m, func() tea.Msg { return backToMenuMsg{} }
	}
	return m, nil
}

func (m *LocalModel) toggleSelect() {
	for i, idx := range m.selection {
		if idx == m.cursor {
			m.selection = append(m.selection[:i], m.selection[i+1:]...)
			return
		}
	}
	m.selection = append(m.selection, m.cursor)
}

func (m *LocalModel) playSelection(hand []card.Card) {
	if len(m.selection) == 0 {
		m.status = errorStyle.Render("先用空格选牌")
		return
	}

	cards := make([]card.Card, len(m.selection))
	for i, idx := range m.selection {
		if idx >= len(hand) {
			m.status = errorStyle.Render("选择已失效，请重选")
			m.selection = nil
			return
		}
		cards[i] = hand[idx]
	}

	if m.session.PlayCards(cards) {
		m.selection = nil
		m.status = "你打出 " + renderCards(cards)
		m.sounds.Play(sound.CardPlayed)
	} else {
		m.status = errorStyle.Render("这手牌不符合出牌规则")
	}
}

func (m *LocalModel) clampCursor() {
	n := len(m.state.Hands[local.HumanSeat])
	if m.cursor >= n && n > 0 {
		m.cursor = n - 1
	}

	// 手牌变化后清掉越界的选择
	kept := m.selection[:0]
	for _, idx := range m.selection {
		if idx < n {
			kept = append(kept, idx)
		}
	}
	m.selection = kept
}

// legalIndexes 手牌里当前能出的下标（单出或任一连出的起点成员）
func (m *LocalModel) legalIndexes() map[int]bool {
	moves := m.session.LegalMoves()
	hand := m.state.Hands[local.HumanSeat]

	playable := make(map[card.Card]bool)
	for _, c := range moves.Singles {
		playable[c] = true
	}
	for _, run := range moves.Runs {
		for _, c := range run {
			playable[c] = true
		}
	}

	out := make(map[int]bool, len(hand))
	for i, c := range hand {
		out[i] = playable[c]
	}
	return out
}

func (m *LocalModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("🃏 报上牌 · 单机对战") + "\n\n")

	// 对手区
	botLine := fmt.Sprintf("%s 机器人 · %d 张", BotIcon, len(m.state.Hands[local.BotSeat]))
	if m.state.LastCardCalled[local.BotSeat] {
		botLine += " " + warnStyle.Render(CallIcon+"已报上牌")
	}
	if m.state.CurrentPlayer == local.BotSeat && !m.result.Over {
		botLine = TurnIcon + " " + botLine
	}
	b.WriteString(botLine + "\n\n")

	// 场面
	b.WriteString(renderTopCard(m.state.TopCard()) + "\n")
	b.WriteString(fmt.Sprintf("牌堆 %d 张 · 弃牌 %d 张", len(m.state.Deck), len(m.state.DiscardPile)))
	if m.state.DrawPressure > 0 {
		b.WriteString(warnStyle.Render(fmt.Sprintf(" · 罚抽 +%d", m.state.DrawPressure)))
	}
	if m.state.Direction < 0 {
		b.WriteString(" · 逆向")
	}
	b.WriteString("\n")
	if m.state.Message != "" {
		b.WriteString(infoStyle.Render(m.state.Message) + "\n")
	}
	b.WriteString("\n")

	// 自己
	youLine := fmt.Sprintf("%s 你", HumanIcon)
	if m.state.LastCardCalled[local.HumanSeat] {
		youLine += " " + goodStyle.Render(CallIcon + "已报上牌")
	}
	if m.state.CurrentPlayer == local.HumanSeat && !m.result.Over {
		youLine = TurnIcon + " " + youLine
	}
	b.WriteString(youLine + "\n")
	b.WriteString(renderHand(m.state.Hands[local.HumanSeat], m.cursor, m.selection, m.legalIndexes()) + "\n")

	if m.status != "" {
		b.WriteString("\n" + m.status + "\n")
	}

	if m.result.Over {
		if m.result.Winner == local.HumanSeat {
			b.WriteString("\n" + goodStyle.Render("🎉 你赢了！"))
		} else if m.result.Winner == engine.NoWinner {
			b.WriteString("\n" + warnStyle.Render("本局僵局，无人获胜"))
		} else {
			b.WriteString("\n" + errorStyle.Render("机器人获胜，再接再厉"))
		}
		b.WriteString(promptStyle.Render("\nn 再来一局 · q 返回菜单"))
	} else {
		b.WriteString(promptStyle.Render("\n←/→ 移动 · 空格选牌 · 回车出牌 · d 抽牌 · c 报上牌 · q 返回"))
	}

	return docStyle.Render(b.String())
}

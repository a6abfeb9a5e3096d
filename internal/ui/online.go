package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"lastcard/internal/game/card"
	"lastcard/internal/game/rule"
	netclient "lastcard/internal/network/client"
	"lastcard/internal/protocol"
	"lastcard/internal/protocol/convert"
	"lastcard/internal/sound"
)

// phase 联机界面所处阶段
type phase int

const (
	phaseConnecting phase = iota
	phaseLobby
	phaseEnterCode
	phaseWaiting
	phasePlaying
	phaseOver
)

// serverMsg 服务器消息的 tea 封装
type serverMsg struct {
	msg *protocol.Message
}

// connectedMsg 连接建立结果
type connectedMsg struct {
	err error
}

// OnlineModel 联机对战界面
type OnlineModel struct {
	client *netclient.Client
	sounds *sound.Manager

	phase  phase
	status string

	// 服务器消息经由通道进入 Update 循环
	msgCh chan *protocol.Message

	roomCode string
	players  []protocol.PlayerInfo
	ready    bool

	view protocol.PublicView
	hand []protocol.CardInfo

	cursor    int
	selection []int

	gameOver protocol.GameOverPayload

	lobbyCursor int
	codeInput   textinput.Model
}

// NewOnlineModel 创建联机界面
func NewOnlineModel(serverURL string, sounds *sound.Manager) *OnlineModel {
	input := textinput.New()
	input.Placeholder = "房间号，如 AB3K9X"
	input.CharLimit = 6
	input.Width = 12

	m := &OnlineModel{
		client:    netclient.New(serverURL),
		sounds:    sounds,
		phase:     phaseConnecting,
		msgCh:     make(chan *protocol.Message, 64),
		codeInput: input,
	}

	m.client.OnMessage = func(msg *protocol.Message) {
		// 回调里的 msg 会回池，这里存一份拷贝
		clone := &protocol.Message{Type: msg.Type}
		if msg.Payload != nil {
			clone.Payload = append([]byte(nil), msg.Payload...)
		}
		select {
		case m.msgCh <- clone:
		default:
		}
	}

	return m
}

func (m *OnlineModel) Init() tea.Cmd {
	return tea.Batch(m.connect(), m.waitForServer())
}

// Cleanup 断开连接
func (m *OnlineModel) Cleanup() {
	m.client.Close()
}

func (m *OnlineModel) connect() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return connectedMsg{err: m.client.Connect(ctx)}
	}
}

func (m *OnlineModel) waitForServer() tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-m.msgCh
		if !ok {
			return nil
		}
		return serverMsg{msg}
	}
}

func (m *OnlineModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case connectedMsg:
		if msg.err != nil {
			m.status = errorStyle.Render("连接失败: " + msg.err.Error())
			return m, nil
		}
		m.phase = phaseLobby
		return m, nil

	case serverMsg:
		m.applyServer(msg.msg)
		return m, m.waitForServer()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.phase == phaseEnterCode {
		var cmd tea.Cmd
		m.codeInput, cmd = m.codeInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

// applyServer 处理服务器推送
func (m *OnlineModel) applyServer(msg *protocol.Message) {
	switch msg.Type {
	case protocol.MsgRoomCreated:
		if p, err := protocol.ParsePayload[protocol.RoomCreatedPayload](msg); err == nil {
			m.roomCode = p.RoomCode
			m.players = []protocol.PlayerInfo{p.Player}
			m.phase = phaseWaiting
			m.ready = false
		}

	case protocol.MsgRoomJoined:
		if p, err := protocol.ParsePayload[protocol.RoomJoinedPayload](msg); err == nil {
			m.roomCode = p.RoomCode
			m.players = p.Players
			m.phase = phaseWaiting
			m.ready = false
		}

	case protocol.MsgPlayerJoined:
		if p, err := protocol.ParsePayload[protocol.PlayerJoinedPayload](msg); err == nil {
			m.players = append(m.players, p.Player)
			m.status = infoStyle.Render(p.Player.Name + " 加入了房间")
		}

	case protocol.MsgPlayerLeft:
		if p, err := protocol.ParsePayload[protocol.PlayerLeftPayload](msg); err == nil {
			kept := m.players[:0]
			for _, pl := range m.players {
				if pl.ID != p.PlayerID {
					kept = append(kept, pl)
				}
			}
			m.players = kept
			m.status = infoStyle.Render(p.PlayerName + " 离开了房间")
		}

	case protocol.MsgPlayerReady:
		if p, err := protocol.ParsePayload[protocol.PlayerReadyPayload](msg); err == nil {
			for i := range m.players {
				if m.players[i].ID == p.PlayerID {
					m.players[i].Ready = p.Ready
				}
			}
			if p.PlayerID == m.client.PlayerID() {
				m.ready = p.Ready
			}
		}

	case protocol.MsgGameStart:
		m.phase = phasePlaying
		m.selection = nil
		m.cursor = 0
		m.status = goodStyle.Render("对局开始！")

	case protocol.MsgStateUpdate:
		if p, err := protocol.ParsePayload[protocol.PublicView](msg); err == nil {
			m.view = *p
		}

	case protocol.MsgHandUpdate:
		if p, err := protocol.ParsePayload[protocol.HandPayload](msg); err == nil {
			m.hand = p.Cards
			m.clampCursor()
		}

	case protocol.MsgPlayTurn:
		if p, err := protocol.ParsePayload[protocol.PlayTurnPayload](msg); err == nil {
			if p.PlayerID == m.client.PlayerID() {
				m.status = warnStyle.Render(fmt.Sprintf("轮到你了（%d 秒超时自动抽牌）", p.Timeout))
				m.sounds.Play(sound.YourTurn)
			}
		}

	case protocol.MsgCardPlayed:
		if p, err := protocol.ParsePayload[protocol.CardPlayedPayload](msg); err == nil {
			if p.PlayerID != m.client.PlayerID() {
				m.status = fmt.Sprintf("%s 打出 %s", p.PlayerName, renderCards(convert.InfosToCards(p.Cards)))
			}
			m.sounds.Play(sound.CardPlayed)
		}

	case protocol.MsgPlayerDrew:
		if p, err := protocol.ParsePayload[protocol.PlayerDrewPayload](msg); err == nil {
			if p.PlayerID != m.client.PlayerID() {
				m.status = fmt.Sprintf("%s 抽了 %d 张牌", p.PlayerName, p.Count)
			}
			m.sounds.Play(sound.CardDrawn)
		}

	case protocol.MsgLastCardCall:
		if p, err := protocol.ParsePayload[protocol.LastCardCallPayload](msg); err == nil {
			m.status = warnStyle.Render(fmt.Sprintf("%s %s 报上牌！", CallIcon, p.PlayerName))
			m.sounds.Play(sound.LastCall)
		}

	case protocol.MsgGameOver:
		if p, err := protocol.ParsePayload[protocol.GameOverPayload](msg); err == nil {
			m.gameOver = *p
			m.phase = phaseOver
			m.sounds.Play(sound.GameOver)
		}

	case protocol.MsgPlayerOffline:
		if p, err := protocol.ParsePayload[protocol.PlayerOfflinePayload](msg); err == nil {
			m.status = warnStyle.Render(fmt.Sprintf("%s 掉线了，等待重连（%d 秒）", p.PlayerName, p.Timeout))
		}

	case protocol.MsgPlayerOnline:
		if p, err := protocol.ParsePayload[protocol.PlayerOnlinePayload](msg); err == nil {
			m.status = infoStyle.Render(p.PlayerName + " 重新连接")
		}

	case protocol.MsgMaintenancePush:
		m.status = errorStyle.Render("服务器进入维护模式")

	case protocol.MsgError:
		if p, err := protocol.ParsePayload[protocol.ErrorPayload](msg); err == nil {
			m.status = errorStyle.Render(p.Message)
		}
	}
}

func (m *OnlineModel) handleKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.phase {
	case phaseLobby:
		return m.handleLobbyKey(key)
	case phaseEnterCode:
		return m.handleCodeKey(key)
	case phaseWaiting:
		return m.handleWaitingKey(key)
	case phasePlaying:
		return m.handlePlayingKey(key)
	case phaseOver:
		switch key.String() {
		case "q", "esc":
			return m, func() tea.Msg { return backToMenuMsg{} }
		case "r":
			// 回到等待界面准备下一局
			m.phase = phaseWaiting
			m.ready = false
			for i := range m.players {
				m.players[i].Ready = false
			}
		}
	default:
		if key.String() == "q" || key.String() == "esc" {
			return m, func() tea.Msg { return backToMenuMsg{} }
		}
	}
	return m, nil
}

func (m *OnlineModel) handleLobbyKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "up", "k":
		if m.lobbyCursor > 0 {
			m.lobbyCursor--
		}
	case "down", "j":
		if m.lobbyCursor < 1 {
			m.lobbyCursor++
		}
	case "enter":
		if m.lobbyCursor == 0 {
			_ = m.client.CreateRoom()
		} else {
			m.phase = phaseEnterCode
			m.codeInput.Reset()
			return m, m.codeInput.Focus()
		}
	case "q", "esc":
		return m, func() tea.Msg { return backToMenuMsg{} }
	}
	return m, nil
}

func (m *OnlineModel) handleCodeKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "enter":
		code := strings.ToUpper(strings.TrimSpace(m.codeInput.Value()))
		if len(code) == 6 {
			_ = m.client.JoinRoom(code)
		} else {
			m.status = errorStyle.Render("房间号是 6 位字符")
		}
		return m, nil
	case "esc":
		m.phase = phaseLobby
		return m, nil
	}

	var cmd tea.Cmd
	m.codeInput, cmd = m.codeInput.Update(key)
	return m, cmd
}

func (m *OnlineModel) handleWaitingKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case " ", "enter":
		if m.ready {
			_ = m.client.CancelReady()
		} else {
			_ = m.client.Ready()
		}
	case "q", "esc":
		_ = m.client.LeaveRoom()
		m.phase = phaseLobby
		m.roomCode = ""
		m.players = nil
	}
	return m, nil
}

func (m *OnlineModel) handlePlayingKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "left", "h":
		if m.cursor > 0 {
			m.cursor--
		}
	case "right", "l":
		if m.cursor < len(m.hand)-1 {
			m.cursor++
		}
	case " ":
		m.toggleSelect()
	case "enter":
		m.playSelection()
	case "d":
		_ = m.client.DrawCard()
		m.selection = nil
	case "c":
		_ = m.client.DeclareLastCard()
	case "q", "esc":
		_ = m.client.LeaveRoom()
		return m, func() tea.Msg { return backToMenuMsg{} }
	}
	return m, nil
}

func (m *OnlineModel) toggleSelect() {
	for i, idx := range m.selection {
		if idx == m.cursor {
			m.selection = append(m.selection[:i], m.selection[i+1:]...)
			return
		}
	}
	m.selection = append(m.selection, m.cursor)
}

func (m *OnlineModel) playSelection() {
	if len(m.selection) == 0 {
		m.status = errorStyle.Render("先用空格选牌")
		return
	}

	cards := make([]protocol.CardInfo, len(m.selection))
	for i, idx := range m.selection {
		if idx >= len(m.hand) {
			m.selection = nil
			return
		}
		cards[i] = m.hand[idx]
	}

	_ = m.client.PlayCards(cards)
	m.selection = nil
}

func (m *OnlineModel) clampCursor() {
	if n := len(m.hand); m.cursor >= n && n > 0 {
		m.cursor = n - 1
	}
	kept := m.selection[:0]
	for _, idx := range m.selection {
		if idx < len(m.hand) {
			kept = append(kept, idx)
		}
	}
	m.selection = kept
}

// legalIndexes 本地预判哪些手牌当前能出，出牌合法性最终由服务器裁定
func (m *OnlineModel) legalIndexes() map[int]bool {
	if m.view.TopCard.ID == "" && len(m.hand) == 0 {
		return nil
	}

	hand := convert.InfosToCards(m.hand)
	top := convert.InfoToCard(m.view.TopCard)
	moves := rule.LegalMoves(hand, top, m.view.DrawPressure)

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

func (m *OnlineModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("🃏 报上牌 · 联机对战") + "\n\n")

	switch m.phase {
	case phaseConnecting:
		b.WriteString("连接服务器中…\n")

	case phaseLobby:
		options := []string{"创建房间", "加入房间"}
		for i, opt := range options {
			cursor := "  "
			if i == m.lobbyCursor {
				cursor = cursorStyle.Render("❯ ")
				opt = selectedStyle.Render(opt)
			}
			b.WriteString(cursor + opt + "\n")
		}
		b.WriteString(promptStyle.Render("\n你是 " + m.client.PlayerName()))

	case phaseEnterCode:
		b.WriteString("输入房间号:\n\n")
		b.WriteString(m.codeInput.View() + "\n")
		b.WriteString(promptStyle.Render("\n回车加入 · esc 返回"))

	case phaseWaiting:
		b.WriteString(boxStyle.Render("房间号 "+selectedStyle.Render(m.roomCode)) + "\n\n")
		for _, p := range m.players {
			line := "  " + p.Name
			if p.ID == m.client.PlayerID() {
				line += "（你）"
			}
			if p.Ready {
				line += " " + goodStyle.Render("✓ 已准备")
			}
			b.WriteString(line + "\n")
		}
		hint := "空格准备"
		if m.ready {
			hint = "空格取消准备"
		}
		b.WriteString(promptStyle.Render("\n" + hint + " · 全员准备后自动开局 · q 离开房间"))

	case phasePlaying:
		b.WriteString(m.renderGame())

	case phaseOver:
		b.WriteString(m.renderGameOver())
	}

	if m.status != "" {
		b.WriteString("\n\n" + m.status)
	}
	return docStyle.Render(b.String())
}

func (m *OnlineModel) renderGame() string {
	var b strings.Builder

	// 其他玩家
	for _, p := range m.view.Players {
		if p.ID == m.client.PlayerID() {
			continue
		}
		line := fmt.Sprintf("%s · %d 张", p.Name, p.CardsCount)
		if p.Declared {
			line += " " + warnStyle.Render(CallIcon+"已报上牌")
		}
		if !p.Online {
			line += " " + errorStyle.Render("（离线）")
		}
		if p.ID == m.view.CurrentTurn {
			line = TurnIcon + " " + line
		} else {
			line = "   " + line
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n")

	// 场面
	b.WriteString(renderTopCard(convert.InfoToCard(m.view.TopCard)) + "\n")
	b.WriteString(fmt.Sprintf("牌堆 %d 张 · 弃牌 %d 张", m.view.DeckCount, m.view.DiscardCount))
	if m.view.DrawPressure > 0 {
		b.WriteString(warnStyle.Render(fmt.Sprintf(" · 罚抽 +%d", m.view.DrawPressure)))
	}
	if m.view.Direction < 0 {
		b.WriteString(" · 逆向")
	}
	b.WriteString("\n")
	if m.view.Message != "" {
		b.WriteString(infoStyle.Render(m.view.Message) + "\n")
	}
	b.WriteString("\n")

	// 自己
	youLine := fmt.Sprintf("%s %s", HumanIcon, m.client.PlayerName())
	if m.view.CurrentTurn == m.client.PlayerID() {
		youLine = TurnIcon + " " + youLine
	}
	for _, p := range m.view.Players {
		if p.ID == m.client.PlayerID() && p.Declared {
			youLine += " " + goodStyle.Render(CallIcon + "已报上牌")
		}
	}
	b.WriteString(youLine + "\n")
	b.WriteString(renderHand(convert.InfosToCards(m.hand), m.cursor, m.selection, m.legalIndexes()) + "\n")

	b.WriteString(promptStyle.Render("\n←/→ 移动 · 空格选牌 · 回车出牌 · d 抽牌 · c 报上牌 · q 退出"))
	return b.String()
}

func (m *OnlineModel) renderGameOver() string {
	var b strings.Builder

	if m.gameOver.WinnerID == "" {
		b.WriteString(warnStyle.Render("本局僵局，无人获胜") + "\n\n")
	} else if m.gameOver.WinnerID == m.client.PlayerID() {
		b.WriteString(goodStyle.Render("🎉 你赢了！") + "\n\n")
	} else {
		b.WriteString(errorStyle.Render(m.gameOver.WinnerName+" 获胜") + "\n\n")
	}

	// 结算亮牌
	for _, ph := range m.gameOver.PlayerHands {
		cards := convert.InfosToCards(ph.Cards)
		line := ph.PlayerName + ": "
		if len(cards) == 0 {
			line += "（打空了）"
		} else {
			line += renderCards(cards)
		}
		b.WriteString(line + "\n")
	}

	b.WriteString(promptStyle.Render("\nr 再来一局 · q 返回菜单"))
	return b.String()
}

package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lastcard/internal/game/card"
	"lastcard/internal/protocol"
)

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestMenuModel_Navigation(t *testing.T) {
	m := NewMenuModel()
	assert.Equal(t, 0, m.cursor)

	m.Update(keyMsg("down"))
	assert.Equal(t, 1, m.cursor)

	m.Update(keyMsg("j"))
	m.Update(keyMsg("j"))
	assert.Equal(t, 3, m.cursor)

	// 不越界
	m.Update(keyMsg("up"))
	m.Update(keyMsg("up"))
	m.Update(keyMsg("up"))
	m.Update(keyMsg("k"))
	assert.Equal(t, 0, m.cursor)
}

func TestMenuModel_EnterEmitsAction(t *testing.T) {
	m := NewMenuModel()

	// 第 4 项是联机对战
	m.cursor = 3
	_, cmd := m.Update(keyMsg("enter"))
	require.NotNil(t, cmd)
	assert.IsType(t, startOnlineMsg{}, cmd())
}

func TestMenuModel_ViewMarksCursor(t *testing.T) {
	m := NewMenuModel()
	m.cursor = 1

	view := m.View()
	assert.Contains(t, view, "单机对战")
	assert.Contains(t, view, "联机对战")
	assert.Contains(t, view, "❯")
}

func TestRenderHand_SelectionOrder(t *testing.T) {
	hand := []card.Card{
		{Suit: card.Spade, Rank: card.Rank3},
		{Suit: card.Heart, Rank: card.Rank4},
		{Suit: card.Club, Rank: card.Rank5},
	}

	// 先选第 2 张再选第 0 张，角标顺序要体现出牌顺序
	out := renderHand(hand, 0, []int{2, 0}, nil)
	assert.Contains(t, out, "[1]")
	assert.Contains(t, out, "[2]")
	assert.True(t, strings.Index(out, "[2]") < strings.Index(out, "[1]"),
		"先选的牌排在后面时，[2] 应出现在 [1] 之前")
}

func TestRenderHand_Empty(t *testing.T) {
	out := renderHand(nil, 0, nil, nil)
	assert.Contains(t, out, "手牌已空")
}

func TestRenderCardFace(t *testing.T) {
	red := renderCardFace(card.Card{Suit: card.Heart, Rank: card.RankQ}, true)
	assert.Contains(t, red, "Q")
	assert.Contains(t, red, "♥")

	black := renderCardFace(card.Card{Suit: card.Spade, Rank: card.RankA}, true)
	assert.Contains(t, black, "A")
	assert.Contains(t, black, "♠")
}

func TestOnlineModel_ToggleSelect(t *testing.T) {
	m := &OnlineModel{
		hand: []protocol.CardInfo{
			{Suit: 0, Rank: 2, ID: "3♠"},
			{Suit: 1, Rank: 3, ID: "4♥"},
		},
	}

	m.cursor = 1
	m.toggleSelect()
	m.cursor = 0
	m.toggleSelect()
	assert.Equal(t, []int{1, 0}, m.selection)

	// 再按一次取消选择
	m.cursor = 1
	m.toggleSelect()
	assert.Equal(t, []int{0}, m.selection)
}

func TestOnlineModel_ClampCursorDropsStaleSelection(t *testing.T) {
	m := &OnlineModel{
		hand:      []protocol.CardInfo{{ID: "3♠"}, {ID: "4♥"}, {ID: "5♣"}},
		cursor:    2,
		selection: []int{2, 0},
	}

	// 手牌变少后，越界的光标和选择都要收回
	m.hand = m.hand[:2]
	m.clampCursor()
	assert.Equal(t, 1, m.cursor)
	assert.Equal(t, []int{0}, m.selection)
}

func TestOnlineModel_ApplyServer_RoomFlow(t *testing.T) {
	m := NewOnlineModel("ws://example", nil)
	m.phase = phaseLobby

	created, err := protocol.NewMessage(protocol.MsgRoomCreated, protocol.RoomCreatedPayload{
		RoomCode: "AB3K9X",
		Player:   protocol.PlayerInfo{ID: "p1", Name: "测试玩家"},
	})
	require.NoError(t, err)
	m.applyServer(created)

	assert.Equal(t, phaseWaiting, m.phase)
	assert.Equal(t, "AB3K9X", m.roomCode)
	require.Len(t, m.players, 1)

	joined, err := protocol.NewMessage(protocol.MsgPlayerJoined, protocol.PlayerJoinedPayload{
		Player: protocol.PlayerInfo{ID: "p2", Name: "对手"},
	})
	require.NoError(t, err)
	m.applyServer(joined)
	assert.Len(t, m.players, 2)

	left, err := protocol.NewMessage(protocol.MsgPlayerLeft, protocol.PlayerLeftPayload{
		PlayerID: "p2", PlayerName: "对手",
	})
	require.NoError(t, err)
	m.applyServer(left)
	require.Len(t, m.players, 1)
	assert.Equal(t, "p1", m.players[0].ID)
}

func TestOnlineModel_ApplyServer_GameFlow(t *testing.T) {
	m := NewOnlineModel("ws://example", nil)
	m.phase = phaseWaiting

	start, err := protocol.NewMessage(protocol.MsgGameStart, protocol.GameStartPayload{})
	require.NoError(t, err)
	m.applyServer(start)
	assert.Equal(t, phasePlaying, m.phase)

	state, err := protocol.NewMessage(protocol.MsgStateUpdate, protocol.PublicView{
		TopCard:      protocol.CardInfo{Suit: 1, Rank: 5, ID: "6♥"},
		DeckCount:    30,
		DrawPressure: 2,
	})
	require.NoError(t, err)
	m.applyServer(state)
	assert.Equal(t, 30, m.view.DeckCount)
	assert.Equal(t, 2, m.view.DrawPressure)

	hand, err := protocol.NewMessage(protocol.MsgHandUpdate, protocol.HandPayload{
		Cards: []protocol.CardInfo{{Suit: 0, Rank: 5, ID: "6♠"}},
	})
	require.NoError(t, err)
	m.applyServer(hand)
	assert.Len(t, m.hand, 1)

	over, err := protocol.NewMessage(protocol.MsgGameOver, protocol.GameOverPayload{
		WinnerID: "p9", WinnerName: "对手",
	})
	require.NoError(t, err)
	m.applyServer(over)
	assert.Equal(t, phaseOver, m.phase)
	assert.Equal(t, "p9", m.gameOver.WinnerID)
}

func TestOnlineModel_LegalIndexes(t *testing.T) {
	m := NewOnlineModel("ws://example", nil)
	m.view.TopCard = protocol.CardInfo{Suit: 1, Rank: 5, ID: "6♥"}
	m.hand = []protocol.CardInfo{
		{Suit: 0, Rank: 5, ID: "6♠"}, // 同点数，可出
		{Suit: 1, Rank: 9, ID: "10♥"}, // 同花色，可出
		{Suit: 3, Rank: 0, ID: "A♣"}, // 不匹配
	}

	legal := m.legalIndexes()
	assert.True(t, legal[0])
	assert.True(t, legal[1])
	assert.False(t, legal[2])
}

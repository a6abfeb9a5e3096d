package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"lastcard/internal/game/bot"
	"lastcard/internal/sound"
)

// screen 当前所在界面
type screen int

const (
	screenMenu screen = iota
	screenLocal
	screenOnline
)

// App 根模型，负责界面切换
type App struct {
	screen screen

	menu   *MenuModel
	local  *LocalModel
	online *OnlineModel

	serverURL string
	sounds    *sound.Manager

	width  int
	height int
}

// NewApp 创建应用根模型
func NewApp(serverURL string, sounds *sound.Manager) *App {
	return &App{
		screen:    screenMenu,
		menu:      NewMenuModel(),
		serverURL: serverURL,
		sounds:    sounds,
	}
}

// Run 启动终端界面，阻塞到退出
func Run(serverURL string, sounds *sound.Manager) error {
	p := tea.NewProgram(NewApp(serverURL, sounds), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (a *App) Init() tea.Cmd {
	return nil
}

// 界面切换消息
type (
	startLocalMsg  struct{ difficulty bot.Difficulty }
	startOnlineMsg struct{}
	backToMenuMsg  struct{}
)

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height

	case startLocalMsg:
		a.local = NewLocalModel(msg.difficulty, a.sounds)
		a.screen = screenLocal
		return a, a.local.Init()

	case startOnlineMsg:
		a.online = NewOnlineModel(a.serverURL, a.sounds)
		a.screen = screenOnline
		return a, a.online.Init()

	case backToMenuMsg:
		if a.local != nil {
			a.local.Cleanup()
			a.local = nil
		}
		if a.online != nil {
			a.online.Cleanup()
			a.online = nil
		}
		a.screen = screenMenu
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			if a.local != nil {
				a.local.Cleanup()
			}
			if a.online != nil {
				a.online.Cleanup()
			}
			return a, tea.Quit
		}
	}

	switch a.screen {
	case screenLocal:
		return a.delegate(a.local, msg)
	case screenOnline:
		return a.delegate(a.online, msg)
	default:
		return a.delegate(a.menu, msg)
	}
}

func (a *App) delegate(m tea.Model, msg tea.Msg) (tea.Model, tea.Cmd) {
	_, cmd := m.Update(msg)
	return a, cmd
}

func (a *App) View() string {
	switch a.screen {
	case screenLocal:
		return a.local.View()
	case screenOnline:
		return a.online.View()
	default:
		return a.menu.View()
	}
}

// MenuModel 主菜单
type MenuModel struct {
	cursor  int
	options []menuOption
}

type menuOption struct {
	label  string
	action func() tea.Msg
}

// NewMenuModel 创建主菜单
func NewMenuModel() *MenuModel {
	return &MenuModel{
		options: []menuOption{
			{"单机对战 · 简单", func() tea.Msg { return startLocalMsg{bot.Easy} }},
			{"单机对战 · 普通", func() tea.Msg { return startLocalMsg{bot.Medium} }},
			{"单机对战 · 困难", func() tea.Msg { return startLocalMsg{bot.Hard} }},
			{"联机对战", func() tea.Msg { return startOnlineMsg{} }},
			{"退出", func() tea.Msg { return tea.Quit() }},
		},
	}
}

func (m *MenuModel) Init() tea.Cmd { return nil }

func (m *MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.options)-1 {
				m.cursor++
			}
		case "enter", " ":
			action := m.options[m.cursor].action
			return m, func() tea.Msg { return action() }
		case "q", "esc":
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *MenuModel) View() string {
	s := titleStyle.Render("🃏 报上牌") + "\n\n"
	for i, opt := range m.options {
		cursor := "  "
		label := opt.label
		if i == m.cursor {
			cursor = cursorStyle.Render("❯ ")
			label = selectedStyle.Render(label)
		}
		s += fmt.Sprintf("%s%s\n", cursor, label)
	}
	s += promptStyle.Render("\n↑/↓ 选择 · 回车确认 · q 退出")
	return docStyle.Render(s)
}

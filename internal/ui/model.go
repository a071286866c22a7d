// Package ui 终端客户端的 Bubble Tea 界面
package ui

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/palemoky/uno-arena/internal/client"
	"github.com/palemoky/uno-arena/internal/protocol"
)

// 游戏阶段
type GamePhase int

const (
	PhaseName GamePhase = iota
	PhaseMenu
	PhaseJoinInput
	PhaseWaiting
	PhasePlaying
	PhaseChooseColor
	PhaseGameOver
	PhaseFailed
)

// ServerMessage 服务器消息（用于 tea.Msg）
type ServerMessage struct {
	Msg *protocol.Message
}

// ConnStateMsg 连接状态变更消息
type ConnStateMsg struct {
	State   client.ConnState
	Attempt int
}

// SeatMsg 大厅接口返回的座位
type SeatMsg struct {
	RoomCode string
	PlayerID string
	Err      error
}

// ClearErrorMsg 清除错误提示
type ClearErrorMsg struct{}

// Model 客户端界面 model
type Model struct {
	serverAddr string
	client     *client.Client
	phase      GamePhase
	errText    string

	playerName string
	playerID   string
	roomCode   string

	// 最近一次收到的投影
	state *protocol.GameStateDTO

	// 游戏界面状态
	selectedIndex int
	playable      map[int]bool
	lastDrawn     []protocol.CardInfo
	leaderboard   []protocol.LeaderboardEntry

	// 重连横幅
	connState        client.ConnState
	reconnectAttempt int

	// 消息通道：网络回调 -> Bubble Tea
	events chan tea.Msg

	input  textinput.Model
	width  int
	height int
}

// NewModel 创建客户端 model，serverAddr 形如 host:port
func NewModel(serverAddr string) *Model {
	ti := textinput.New()
	ti.Placeholder = "输入昵称..."
	ti.CharLimit = 24
	ti.Width = 24
	ti.Focus()

	return &Model{
		serverAddr: serverAddr,
		phase:      PhaseName,
		connState:  client.StateConnected,
		events:     make(chan tea.Msg, 32),
		input:      ti,
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.listenEvents())
}

// listenEvents 把网络回调的消息泵进 Bubble Tea
func (m *Model) listenEvents() tea.Cmd {
	return func() tea.Msg {
		return <-m.events
	}
}

// --- 大厅 HTTP 接口 ---

func (m *Model) apiURL(path string) string {
	return fmt.Sprintf("http://%s%s", m.serverAddr, path)
}

func (m *Model) wsURL() string {
	return fmt.Sprintf("ws://%s/ws", m.serverAddr)
}

// createRoomCmd 创建房间拿座位
func (m *Model) createRoomCmd() tea.Cmd {
	name := m.playerName
	return func() tea.Msg {
		return postSeat(m.apiURL("/api/rooms"), map[string]string{"name": name})
	}
}

// joinRoomCmd 加入房间拿座位
func (m *Model) joinRoomCmd(code string) tea.Cmd {
	name := m.playerName
	return func() tea.Msg {
		return postSeat(m.apiURL("/api/rooms/join"), map[string]string{
			"roomCode": code,
			"name":     name,
		})
	}
}

func postSeat(url string, body map[string]string) tea.Msg {
	data, _ := json.Marshal(body)
	httpClient := &http.Client{Timeout: 5 * time.Second}
	resp, err := httpClient.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		return SeatMsg{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		var e struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		if e.Message == "" {
			e.Message = resp.Status
		}
		return SeatMsg{Err: fmt.Errorf("%s", e.Message)}
	}

	var seat struct {
		RoomCode string `json:"roomCode"`
		PlayerID string `json:"playerId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&seat); err != nil {
		return SeatMsg{Err: err}
	}
	return SeatMsg{RoomCode: seat.RoomCode, PlayerID: seat.PlayerID}
}

// connectCmd 用座位凭据建立 WebSocket 连接
func (m *Model) connectCmd() tea.Cmd {
	return func() tea.Msg {
		c := client.NewClient(m.wsURL(), m.roomCode, m.playerID)
		c.OnMessage = func(msg *protocol.Message) {
			select {
			case m.events <- ServerMessage{Msg: msg}:
			default:
			}
		}
		c.OnStateChange = func(s client.ConnState, attempt int) {
			select {
			case m.events <- ConnStateMsg{State: s, Attempt: attempt}:
			default:
			}
		}
		if err := c.Connect(); err != nil {
			return SeatMsg{Err: err}
		}
		c.StartHeartbeat()
		m.client = c
		return ConnStateMsg{State: client.StateConnected}
	}
}

// clearErrorLater 错误提示展示几秒后自动消失
func clearErrorLater() tea.Cmd {
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg {
		return ClearErrorMsg{}
	})
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case SeatMsg:
		if msg.Err != nil {
			m.errText = msg.Err.Error()
			return m, clearErrorLater()
		}
		m.roomCode = msg.RoomCode
		m.playerID = msg.PlayerID
		m.phase = PhaseWaiting
		return m, tea.Batch(m.connectCmd(), m.listenEvents())

	case ServerMessage:
		return m.handleServerMessage(msg.Msg)

	case ConnStateMsg:
		m.connState = msg.State
		m.reconnectAttempt = msg.Attempt
		if msg.State == client.StateFailed && m.phase > PhaseMenu {
			m.phase = PhaseFailed
		}
		return m, m.listenEvents()

	case ClearErrorMsg:
		m.errText = ""
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleServerMessage 处理服务器推送
func (m *Model) handleServerMessage(msg *protocol.Message) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case protocol.MsgState:
		if payload, err := protocol.ParsePayload[protocol.StatePayload](msg); err == nil {
			m.applyState(payload.GameState)
		}

	case protocol.MsgCardDrawn:
		if payload, err := protocol.ParsePayload[protocol.CardDrawnPayload](msg); err == nil {
			m.lastDrawn = payload.Cards
		}

	case protocol.MsgLeaderboard:
		if payload, err := protocol.ParsePayload[protocol.LeaderboardPayload](msg); err == nil {
			m.leaderboard = payload.Entries
		}

	case protocol.MsgError:
		if payload, err := protocol.ParsePayload[protocol.ErrorPayload](msg); err == nil {
			m.errText = payload.Message
			return m, tea.Batch(m.listenEvents(), clearErrorLater())
		}
	}

	return m, m.listenEvents()
}

// applyState 套用新投影并刷新出牌提示
func (m *Model) applyState(state *protocol.GameStateDTO) {
	if state == nil {
		return
	}
	m.state = state

	switch state.Status {
	case "lobby":
		m.phase = PhaseWaiting
	case "playing":
		if m.phase != PhaseChooseColor {
			m.phase = PhasePlaying
		}
	case "finished":
		m.phase = PhaseGameOver
	}

	if m.selectedIndex >= len(state.Hand) {
		m.selectedIndex = max(0, len(state.Hand)-1)
	}
	m.refreshPlayable()
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		if m.client != nil {
			m.client.Close()
		}
		return m, tea.Quit
	}

	switch m.phase {
	case PhaseName:
		if msg.Type == tea.KeyEnter {
			name := strings.TrimSpace(m.input.Value())
			if name == "" {
				return m, nil
			}
			m.playerName = name
			m.phase = PhaseMenu
			return m, nil
		}

	case PhaseMenu:
		switch msg.String() {
		case "c":
			return m, m.createRoomCmd()
		case "j":
			m.input.SetValue("")
			m.input.Placeholder = "输入房间号..."
			m.phase = PhaseJoinInput
			return m, nil
		case "q":
			return m, tea.Quit
		}

	case PhaseJoinInput:
		switch msg.Type {
		case tea.KeyEnter:
			code := strings.ToUpper(strings.TrimSpace(m.input.Value()))
			if code == "" {
				return m, nil
			}
			return m, m.joinRoomCmd(code)
		case tea.KeyEsc:
			m.phase = PhaseMenu
			return m, nil
		}

	case PhaseWaiting:
		switch msg.String() {
		case "s":
			if m.client != nil {
				_ = m.client.StartGame()
			}
			return m, nil
		case "q":
			return m.leaveAndQuit()
		}

	case PhasePlaying:
		return m.handleGameKey(msg)

	case PhaseChooseColor:
		return m.handleColorKey(msg)

	case PhaseGameOver:
		switch msg.String() {
		case "l":
			if m.client != nil {
				_ = m.client.GetLeaderboard(10)
			}
			return m, nil
		case "q":
			return m.leaveAndQuit()
		}

	case PhaseFailed:
		if msg.String() == "q" {
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) leaveAndQuit() (tea.Model, tea.Cmd) {
	if m.client != nil {
		_ = m.client.LeaveRoom()
		m.client.Close()
	}
	return m, tea.Quit
}

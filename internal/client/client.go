// Package client WebSocket 客户端传输层，带断线重连状态机
package client

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/palemoky/uno-arena/internal/protocol"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// 心跳检测间隔
	heartbeatInterval = 5 * time.Second
	// 最大重连次数
	maxReconnectAttempts = 5
	// 重连退避基数与上限
	reconnectBaseDelay = 1 * time.Second
	reconnectMaxDelay  = 10 * time.Second
)

// ConnState 连接状态机：Connected -> Reconnecting(attempt) -> Connected | Failed
type ConnState int

const (
	StateConnected ConnState = iota
	StateReconnecting
	StateFailed
)

func (s ConnState) String() string {
	switch s {
	case StateConnected:
		return "connected"
	case StateReconnecting:
		return "reconnecting"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// nextBackoff 第 attempt 次重连前的等待时长（attempt 从 0 起）
// 依次为 2s, 4s, 8s, 10s, 10s
func nextBackoff(attempt int) time.Duration {
	delay := reconnectBaseDelay << uint(attempt+1)
	if delay > reconnectMaxDelay {
		delay = reconnectMaxDelay
	}
	return delay
}

// Client WebSocket 客户端
// 座位凭据（房间号 + 玩家 ID）在握手 URL 中携带，
// 重连复用同一凭据，服务端重新绑定座位后会立即推送全量状态
type Client struct {
	serverURL string
	roomCode  string
	playerID  string

	conn    *websocket.Conn
	send    chan []byte
	receive chan *protocol.Message
	done    chan struct{}

	// 网络延迟（毫秒）
	Latency int64

	// 回调
	OnMessage       func(*protocol.Message) // 消息回调
	OnError         func(error)             // 错误回调
	OnStateChange   func(ConnState, int)    // 连接状态变更回调（状态, 重连尝试次数）
	OnLatencyUpdate func(int64)             // 延迟更新回调

	mu           sync.RWMutex
	closed       bool
	state        ConnState
	reconnecting atomic.Bool
}

// NewClient 创建客户端
func NewClient(serverURL, roomCode, playerID string) *Client {
	return &Client{
		serverURL: serverURL,
		roomCode:  roomCode,
		playerID:  playerID,
		send:      make(chan []byte, 256),
		receive:   make(chan *protocol.Message, 256),
		done:      make(chan struct{}),
		state:     StateFailed,
	}
}

// dialURL 组装带座位凭据的握手地址
func (c *Client) dialURL() string {
	q := url.Values{}
	q.Set("room", c.roomCode)
	q.Set("player", c.playerID)
	return fmt.Sprintf("%s?%s", c.serverURL, q.Encode())
}

// Connect 连接服务器
func (c *Client) Connect() error {
	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	conn, _, err := dialer.Dial(c.dialURL(), nil)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.conn = conn
	c.closed = false
	c.mu.Unlock()
	c.setState(StateConnected, 0)

	// 启动读写协程
	go c.readPump()
	go c.writePump()

	return nil
}

// State 当前连接状态
func (c *Client) State() ConnState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// PlayerID 本端座位的玩家 ID
func (c *Client) PlayerID() string {
	return c.playerID
}

// RoomCode 本端所在房间号
func (c *Client) RoomCode() string {
	return c.roomCode
}

func (c *Client) setState(s ConnState, attempt int) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()

	if c.OnStateChange != nil {
		c.OnStateChange(s, attempt)
	}
}

// readPump 从服务器读取消息
func (c *Client) readPump() {
	defer func() {
		if !c.isClosed() && !c.reconnecting.Load() {
			go c.tryReconnect()
		}
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				if c.OnError != nil {
					c.OnError(err)
				}
			}
			return
		}

		msg, err := protocol.Decode(message)
		if err != nil {
			log.Printf("消息解析错误: %v", err)
			continue
		}

		// 处理 pong 消息计算延迟
		if msg.Type == protocol.MsgPong {
			if payload, err := protocol.ParsePayload[protocol.PongPayload](msg); err == nil {
				latency := time.Now().UnixMilli() - payload.ClientTimestamp
				atomic.StoreInt64(&c.Latency, latency)
				if c.OnLatencyUpdate != nil {
					c.OnLatencyUpdate(latency)
				}
			}
		}

		// 回调处理
		if c.OnMessage != nil {
			c.OnMessage(msg)
		}

		// 同时发送到 channel
		select {
		case c.receive <- msg:
		default:
		}
	}
}

// writePump 向服务器写入消息
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			return
		}
	}
}

// SendMessage 发送消息
func (c *Client) SendMessage(msg *protocol.Message) error {
	c.mu.RLock()
	if c.closed {
		c.mu.RUnlock()
		return errors.New("connection closed")
	}
	c.mu.RUnlock()

	data, err := msg.Encode()
	if err != nil {
		return err
	}

	select {
	case c.send <- data:
		return nil
	default:
		return errors.New("send buffer full")
	}
}

// Receive 接收消息 (阻塞)
func (c *Client) Receive() (*protocol.Message, error) {
	select {
	case msg := <-c.receive:
		return msg, nil
	case <-c.done:
		return nil, errors.New("connection closed")
	}
}

// ReceiveWithTimeout 带超时接收消息
func (c *Client) ReceiveWithTimeout(timeout time.Duration) (*protocol.Message, error) {
	select {
	case msg := <-c.receive:
		return msg, nil
	case <-time.After(timeout):
		return nil, errors.New("receive timeout")
	case <-c.done:
		return nil, errors.New("connection closed")
	}
}

// Close 关闭连接
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.done)
		if c.conn != nil {
			c.conn.Close()
		}
	}
}

func (c *Client) isClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

// IsConnected 是否已连接
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return !c.closed && c.conn != nil && c.state == StateConnected
}

// tryReconnect 断线重连：指数退避，最多 5 次，全部失败进入 Failed
func (c *Client) tryReconnect() {
	if !c.reconnecting.CompareAndSwap(false, true) {
		return
	}
	defer c.reconnecting.Store(false)

	for attempt := 0; attempt < maxReconnectAttempts; attempt++ {
		delay := nextBackoff(attempt)
		c.setState(StateReconnecting, attempt+1)
		log.Printf("🔄 %v 后尝试重连 (%d/%d)...", delay, attempt+1, maxReconnectAttempts)

		select {
		case <-time.After(delay):
		case <-c.done:
			return
		}

		dialer := websocket.Dialer{
			HandshakeTimeout: 10 * time.Second,
		}
		conn, _, err := dialer.Dial(c.dialURL(), nil)
		if err != nil {
			log.Printf("重连失败: %v", err)
			continue
		}

		// 重置传输状态，服务端绑定座位后会立即推送全量状态
		c.mu.Lock()
		c.conn = conn
		c.closed = false
		c.send = make(chan []byte, 256)
		c.mu.Unlock()

		go c.readPump()
		go c.writePump()

		c.setState(StateConnected, 0)
		log.Printf("✅ 重连成功")
		return
	}

	log.Printf("❌ 重连失败，已达最大尝试次数")
	c.setState(StateFailed, maxReconnectAttempts)
	c.Close()
}

// --- 便捷方法 ---

// Play 出牌
func (c *Client) Play(cardIndex int, chosenColor string) error {
	return c.SendMessage(protocol.MustNewMessage(protocol.MsgPlay, protocol.PlayPayload{
		CardIndex:   cardIndex,
		ChosenColor: chosenColor,
	}))
}

// Draw 摸牌
func (c *Client) Draw() error {
	return c.SendMessage(protocol.MustNewMessage(protocol.MsgDraw, nil))
}

// StartGame 房主开局
func (c *Client) StartGame() error {
	return c.SendMessage(protocol.MustNewMessage(protocol.MsgStartGame, nil))
}

// LeaveRoom 离开房间
func (c *Client) LeaveRoom() error {
	return c.SendMessage(protocol.MustNewMessage(protocol.MsgLeaveRoom, nil))
}

// GetLeaderboard 获取排行榜
func (c *Client) GetLeaderboard(limit int) error {
	return c.SendMessage(protocol.MustNewMessage(protocol.MsgGetLeaderboard, protocol.GetLeaderboardPayload{
		Limit: limit,
	}))
}

// Ping 发送心跳
func (c *Client) Ping() error {
	return c.SendMessage(protocol.MustNewMessage(protocol.MsgPing, protocol.PingPayload{
		Timestamp: time.Now().UnixMilli(),
	}))
}

// StartHeartbeat 启动心跳检测
func (c *Client) StartHeartbeat() {
	go func() {
		ticker := time.NewTicker(heartbeatInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if c.IsConnected() {
					_ = c.Ping()
				}
			case <-c.done:
				return
			}
		}
	}()
}

// GetLatency 获取当前延迟（毫秒）
func (c *Client) GetLatency() int64 {
	return atomic.LoadInt64(&c.Latency)
}

// IsReconnecting 是否正在重连
func (c *Client) IsReconnecting() bool {
	return c.reconnecting.Load()
}

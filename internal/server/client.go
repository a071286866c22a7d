package server

import (
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/palemoky/uno-arena/internal/protocol"
)

const (
	// 写入超时
	writeWait = 10 * time.Second

	// 读取超时（pong 等待时间）
	pongWait = 60 * time.Second

	// ping 发送间隔（必须小于 pongWait）
	pingPeriod = (pongWait * 9) / 10

	// 消息最大大小
	maxMessageSize = 4096
)

// Client 代表一条已握手的连接（玩家或管理会话）
type Client struct {
	ID       string // 玩家 ID，管理连接为会话 ID
	Name     string // 玩家昵称，管理连接为 "admin"
	RoomCode string // 当前所在房间号

	server *Server
	conn   *websocket.Conn
	send   chan []byte
	admin  bool

	mu     sync.RWMutex
	closed bool
}

// NewClient 创建玩家连接
func NewClient(s *Server, conn *websocket.Conn, playerID, name string) *Client {
	return &Client{
		ID:     playerID,
		Name:   name,
		server: s,
		conn:   conn,
		send:   make(chan []byte, 256),
	}
}

// NewAdminClient 创建管理连接
func NewAdminClient(s *Server, conn *websocket.Conn, sessionID string) *Client {
	return &Client{
		ID:     sessionID,
		Name:   "admin",
		server: s,
		conn:   conn,
		send:   make(chan []byte, 256),
		admin:  true,
	}
}

// ReadPump 从 WebSocket 读取消息
func (c *Client) ReadPump() {
	defer func() {
		c.handleDisconnect()
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("读取错误: %v", err)
			}
			break
		}

		// 畸形消息只回错误，不断开连接，也绝不动房间状态
		msg, err := protocol.Decode(message)
		if err != nil {
			log.Printf("消息解析错误: %v", err)
			c.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
			continue
		}

		c.server.handler.Handle(c, msg)
	}
}

// WritePump 向 WebSocket 写入消息
func (c *Client) WritePump() {
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
				// 通道已关闭
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendMessage 发送消息给客户端
func (c *Client) SendMessage(msg *protocol.Message) {
	c.mu.RLock()
	if c.closed {
		c.mu.RUnlock()
		return
	}
	c.mu.RUnlock()

	data, err := msg.Encode()
	if err != nil {
		log.Printf("消息编码错误: %v", err)
		return
	}

	select {
	case c.send <- data:
	default:
		// 发送缓冲区已满，关闭连接
		log.Printf("客户端 %s 发送缓冲区已满", c.ID)
		c.Close()
	}
}

// handleDisconnect 处理断开连接：座位保留，只翻转在线标记
func (c *Client) handleDisconnect() {
	if c.admin {
		c.server.adminManager.DeleteSession(c.ID)
		c.server.unregisterClient(c)
		log.Printf("📴 管理会话 %s 已断开", c.ID)
		return
	}

	if code := c.GetRoom(); code != "" {
		if r := c.server.roomManager.GetRoom(code); r != nil {
			r.Unbind(c.ID, c)
			r.BroadcastState()
		}
	}

	c.server.unregisterClient(c)
	log.Printf("❌ 玩家 %s (%s) 已断开", c.Name, c.ID)
}

// Close 关闭客户端连接
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// GetID 玩家 ID
func (c *Client) GetID() string {
	return c.ID
}

// GetName 玩家昵称
func (c *Client) GetName() string {
	return c.Name
}

// IsAdmin 是否为管理连接
func (c *Client) IsAdmin() bool {
	return c.admin
}

// SetRoom 设置客户端所在房间
func (c *Client) SetRoom(code string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.RoomCode = code
}

// GetRoom 获取客户端所在房间
func (c *Client) GetRoom() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.RoomCode
}

package server

import (
	"crypto/subtle"
	"log"
	"net/http"

	"github.com/palemoky/uno-arena/internal/protocol"
)

// handleWebSocket 处理 WebSocket 连接
// 玩家握手: /ws?room=CODE&player=ID （座位必须先通过大厅接口分配）
// 管理握手: /ws?admin=true&token=TOKEN
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	// 连接数限制检查
	select {
	case s.semaphore <- struct{}{}:
		defer func() { <-s.semaphore }()
	default:
		log.Printf("🚫 达到最大连接数限制 (%d)", s.maxConnections)
		http.Error(w, "Server Full", http.StatusServiceUnavailable)
		return
	}

	query := r.URL.Query()
	if query.Get("admin") == "true" {
		s.handleAdminHandshake(w, r)
		return
	}

	roomCode := query.Get("room")
	playerID := query.Get("player")
	if roomCode == "" || playerID == "" {
		http.Error(w, "missing room or player", http.StatusBadRequest)
		return
	}

	// 没有座位就没有连接，先走大厅接口
	gameRoom := s.roomManager.GetRoom(roomCode)
	if gameRoom == nil {
		http.Error(w, "room not found", http.StatusNotFound)
		return
	}
	name := gameRoom.PlayerName(playerID)
	if name == "" {
		http.Error(w, "player not seated", http.StatusForbidden)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket 升级失败: %v", err)
		return
	}

	client := NewClient(s, conn, playerID, name)
	s.registerClient(client)

	go client.ReadPump()
	go client.WritePump()

	// 绑定座位：重连时旧连接被顶替
	if err := gameRoom.Bind(playerID, client); err != nil {
		client.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeNotInRoom))
		client.Close()
		return
	}

	log.Printf("✅ 玩家 %s (%s) 已连接到房间 %s", name, playerID, roomCode)

	// 连接建立即同步一次全量投影，重连者由此追上进度
	gameRoom.BroadcastState()
}

// handleAdminHandshake 管理通道握手：令牌校验通过才建立会话
func (s *Server) handleAdminHandshake(w http.ResponseWriter, r *http.Request) {
	token := s.config.Admin.Token
	if token == "" {
		http.Error(w, "admin channel disabled", http.StatusForbidden)
		return
	}
	provided := r.URL.Query().Get("token")
	if subtle.ConstantTimeCompare([]byte(provided), []byte(token)) != 1 {
		log.Printf("🚫 管理握手令牌校验失败")
		http.Error(w, "invalid admin token", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket 升级失败: %v", err)
		return
	}

	session := s.adminManager.CreateSession()
	client := NewAdminClient(s, conn, session.ID)
	s.registerClient(client)

	go client.ReadPump()
	go client.WritePump()

	log.Printf("🛡️  管理会话 %s 已建立", session.ID)
	client.SendMessage(protocol.NewAdminResult(true, "管理会话已建立"))
}

// handleHealth 健康检查接口
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

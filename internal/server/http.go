package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/palemoky/uno-arena/internal/apperrors"
	"github.com/palemoky/uno-arena/internal/protocol"
)

// 昵称长度上限
const maxNameLength = 24

type createRoomRequest struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

type joinRoomRequest struct {
	RoomCode string `json:"roomCode"`
	Name     string `json:"name"`
	Avatar   string `json:"avatar"`
}

type seatResponse struct {
	RoomCode string `json:"roomCode"`
	PlayerID string `json:"playerId"`
}

type httpError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// handleCreateRoom 创建房间并给创建者分配座位
// POST /api/rooms {"name": "...", "avatar": "..."}
func (s *Server) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	var req createRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, protocol.ErrCodeInvalidMsg, "请求体格式错误")
		return
	}

	name, ok := sanitizeName(req.Name)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, protocol.ErrCodeInvalidMsg, "昵称不合法")
		return
	}

	gameRoom, playerID, err := s.roomManager.CreateRoom(name, req.Avatar)
	if err != nil {
		writeGameError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, seatResponse{
		RoomCode: gameRoom.Code,
		PlayerID: playerID,
	})
}

// handleJoinRoom 在已有房间分配座位
// POST /api/rooms/join {"roomCode": "...", "name": "...", "avatar": "..."}
func (s *Server) handleJoinRoom(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	var req joinRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, protocol.ErrCodeInvalidMsg, "请求体格式错误")
		return
	}

	name, ok := sanitizeName(req.Name)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, protocol.ErrCodeInvalidMsg, "昵称不合法")
		return
	}

	code := strings.ToUpper(strings.TrimSpace(req.RoomCode))
	playerID, err := s.roomManager.JoinRoom(code, name, req.Avatar)
	if err != nil {
		writeGameError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, seatResponse{
		RoomCode: code,
		PlayerID: playerID,
	})
}

// sanitizeName 校验并整理昵称
func sanitizeName(name string) (string, bool) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > maxNameLength {
		return "", false
	}
	return name, true
}

// writeGameError 把领域错误映射为 HTTP 响应
func writeGameError(w http.ResponseWriter, err error) {
	var ge *apperrors.GameError
	if !errors.As(err, &ge) {
		log.Printf("❌ 大厅接口内部错误: %v", err)
		writeJSONError(w, http.StatusInternalServerError, protocol.ErrCodeUnknown, "内部错误")
		return
	}

	status := http.StatusBadRequest
	switch ge.Code {
	case protocol.ErrCodeRoomNotFound:
		status = http.StatusNotFound
	case protocol.ErrCodeRoomFull, protocol.ErrCodeGameStarted:
		status = http.StatusConflict
	}
	writeJSONError(w, status, ge.Code, ge.Message)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status, code int, message string) {
	writeJSON(w, status, httpError{Code: code, Message: message})
}

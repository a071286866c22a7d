package types

import (
	"github.com/palemoky/uno-arena/internal/protocol"
)

// ServerInterface 定义服务器接口（用于打破循环依赖）
type ServerInterface interface {
	GetOnlineCount() int
	GetClientByID(id string) ClientInterface
	UnregisterClient(id string)
}

// ClientInterface 定义客户端连接接口（房间只关心能否投递消息）
type ClientInterface interface {
	GetID() string
	GetName() string
	GetRoom() string
	IsAdmin() bool
	SetRoom(code string)
	SendMessage(msg *protocol.Message)
	Close()
}

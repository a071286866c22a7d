package testutil

import (
	"github.com/palemoky/uno-arena/internal/protocol"
)

// SimpleClient 简单的 mock 客户端，实现 types.ClientInterface，
// 投递的消息被记录下来供断言
type SimpleClient struct {
	ID       string
	Name     string
	RoomCode string
	Admin    bool
	Closed   bool
	Messages []*protocol.Message
}

func (m *SimpleClient) GetID() string                     { return m.ID }
func (m *SimpleClient) GetName() string                   { return m.Name }
func (m *SimpleClient) GetRoom() string                   { return m.RoomCode }
func (m *SimpleClient) IsAdmin() bool                     { return m.Admin }
func (m *SimpleClient) SetRoom(code string)               { m.RoomCode = code }
func (m *SimpleClient) SendMessage(msg *protocol.Message) { m.Messages = append(m.Messages, msg) }
func (m *SimpleClient) Close()                            { m.Closed = true }

// LastMessage 最后一条投递的消息，没有则返回 nil
func (m *SimpleClient) LastMessage() *protocol.Message {
	if len(m.Messages) == 0 {
		return nil
	}
	return m.Messages[len(m.Messages)-1]
}

// MessagesOfType 按类型过滤投递的消息
func (m *SimpleClient) MessagesOfType(t protocol.MessageType) []*protocol.Message {
	var out []*protocol.Message
	for _, msg := range m.Messages {
		if msg.Type == t {
			out = append(out, msg)
		}
	}
	return out
}

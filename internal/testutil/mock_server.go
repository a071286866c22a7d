package testutil

import (
	"github.com/palemoky/uno-arena/internal/types"
)

// SimpleServer 简单的 mock 服务器，实现 types.ServerInterface
type SimpleServer struct {
	Clients map[string]types.ClientInterface
}

func NewSimpleServer() *SimpleServer {
	return &SimpleServer{Clients: make(map[string]types.ClientInterface)}
}

func (s *SimpleServer) GetOnlineCount() int { return len(s.Clients) }

func (s *SimpleServer) GetClientByID(id string) types.ClientInterface {
	if c, ok := s.Clients[id]; ok {
		return c
	}
	return nil
}

func (s *SimpleServer) UnregisterClient(id string) { delete(s.Clients, id) }

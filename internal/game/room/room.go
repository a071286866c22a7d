package room

import (
	"sync"
	"time"

	"github.com/palemoky/uno-arena/internal/game/engine"
	"github.com/palemoky/uno-arena/internal/server/storage"
	"github.com/palemoky/uno-arena/internal/types"
)

const (
	roomCodeLength = 4                            // 房间号长度
	roomCodeChars  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ" // 房间号字符集
)

// Room 游戏房间：一个引擎实例加上在线连接的绑定
// 所有写操作持有 mu 写锁，同一房间的变更因此全序化
type Room struct {
	Code      string
	Game      *engine.Game
	CreatedAt time.Time

	clients map[string]types.ClientInterface // playerID -> 在线连接

	mu sync.RWMutex
}

// Manager 房间管理器
type Manager struct {
	store       *storage.RedisStore // 可为 nil（测试）
	opts        engine.Options
	maxPlayers  int
	roomTimeout time.Duration
	rooms       map[string]*Room
	mu          sync.RWMutex
}

// NewManager 创建房间管理器并启动清理协程
func NewManager(store *storage.RedisStore, opts engine.Options, maxPlayers int, roomTimeout time.Duration) *Manager {
	m := &Manager{
		store:       store,
		opts:        opts,
		maxPlayers:  maxPlayers,
		roomTimeout: roomTimeout,
		rooms:       make(map[string]*Room),
	}

	go m.cleanupLoop()

	return m
}

package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config 服务端配置
type Config struct {
	Server ServerConfig `yaml:"server"`
	Redis  RedisConfig  `yaml:"redis"`
	Game   GameConfig   `yaml:"game"`
	Admin  AdminConfig  `yaml:"admin"`
}

// ServerConfig WebSocket 服务器配置
type ServerConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	MaxConnections int    `yaml:"max_connections"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// GameConfig 游戏配置
type GameConfig struct {
	MinPlayers       int  `yaml:"min_players"`       // 正常开局的最少人数
	MaxPlayers       int  `yaml:"max_players"`       // 单房间最多人数
	StartingHand     int  `yaml:"starting_hand"`     // 开局手牌数
	SkipDisconnected bool `yaml:"skip_disconnected"` // 回合是否跳过掉线座位
	RoomTimeout      int  `yaml:"room_timeout"`      // 空闲房间清理超时（分钟）
}

// AdminConfig 管理通道配置
type AdminConfig struct {
	Token string `yaml:"token"` // 为空时管理通道整体关闭
}

// RoomTimeoutDuration 返回空闲房间清理超时时长
func (c *GameConfig) RoomTimeoutDuration() time.Duration {
	return time.Duration(c.RoomTimeout) * time.Minute
}

// Load 加载配置文件
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// Default 返回默认配置
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults 填充缺省值
func (cfg *Config) applyDefaults() {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 1789
	}
	if cfg.Server.MaxConnections == 0 {
		cfg.Server.MaxConnections = 1024
	}
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = "localhost:6379"
	}
	if cfg.Game.MinPlayers == 0 {
		cfg.Game.MinPlayers = 2
	}
	if cfg.Game.MaxPlayers == 0 {
		cfg.Game.MaxPlayers = 8
	}
	if cfg.Game.StartingHand == 0 {
		cfg.Game.StartingHand = 7
	}
	if cfg.Game.RoomTimeout == 0 {
		cfg.Game.RoomTimeout = 30
	}
}

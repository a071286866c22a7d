package storage

import (
	"context"

	"github.com/redis/go-redis/v9"
)

const (
	// Redis key
	winsLeaderboardKey = "leaderboard:wins"

	// 默认返回条数
	defaultLeaderboardSize = 10
)

// LeaderboardEntry 排行榜条目
type LeaderboardEntry struct {
	Rank int
	Name string
	Wins int
}

// LeaderboardManager 胜场排行榜（ZSet，按玩家昵称累计）
type LeaderboardManager struct {
	redis *redis.Client
}

// NewLeaderboardManager 创建排行榜管理器
func NewLeaderboardManager(client *redis.Client) *LeaderboardManager {
	return &LeaderboardManager{redis: client}
}

// RecordWin 给获胜者累计一场胜利
func (lm *LeaderboardManager) RecordWin(ctx context.Context, playerName string) error {
	if playerName == "" {
		return nil
	}
	return lm.redis.ZIncrBy(ctx, winsLeaderboardKey, 1, playerName).Err()
}

// TopWins 返回胜场前 limit 名
func (lm *LeaderboardManager) TopWins(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = defaultLeaderboardSize
	}

	results, err := lm.redis.ZRevRangeWithScores(ctx, winsLeaderboardKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(results))
	for i, z := range results {
		name, _ := z.Member.(string)
		entries = append(entries, LeaderboardEntry{
			Rank: i + 1,
			Name: name,
			Wins: int(z.Score),
		})
	}
	return entries, nil
}

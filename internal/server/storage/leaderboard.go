package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
)

const (
	// 排行榜 key（按胜场数排序）
	leaderboardKey = "leaderboard:wins"

	// 玩家战绩 key 前缀
	statsKeyPrefix = "stats:"
)

// PlayerStats 玩家战绩
type PlayerStats struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
	TotalGames int    `json:"total_games"`
	Wins       int    `json:"wins"`
	Losses     int    `json:"losses"`
	Draws      int    `json:"draws"`
}

// LeaderboardEntry 排行榜条目
type LeaderboardEntry struct {
	Rank       int    `json:"rank"`
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
	Wins       int    `json:"wins"`
	TotalGames int    `json:"total_games"`
}

// LeaderboardManager 排行榜管理器
type LeaderboardManager struct {
	client *redis.Client
}

// NewLeaderboardManager 创建排行榜管理器
func NewLeaderboardManager(client *redis.Client) *LeaderboardManager {
	return &LeaderboardManager{client: client}
}

// RecordResult 记录一局结果。won 表示该玩家是否获胜，draw 表示流局。
func (lm *LeaderboardManager) RecordResult(ctx context.Context, playerID, playerName string, won, draw bool) error {
	stats, err := lm.GetPlayerStats(ctx, playerID)
	if err != nil {
		return err
	}
	if stats == nil {
		stats = &PlayerStats{PlayerID: playerID}
	}

	stats.PlayerName = playerName
	stats.TotalGames++
	switch {
	case draw:
		stats.Draws++
	case won:
		stats.Wins++
	default:
		stats.Losses++
	}

	if err := lm.savePlayerStats(ctx, stats); err != nil {
		return err
	}

	// 按胜场数更新排行榜
	if won {
		if err := lm.client.ZIncrBy(ctx, leaderboardKey, 1, playerID).Err(); err != nil {
			return fmt.Errorf("更新排行榜失败: %w", err)
		}
	} else {
		// 保证玩家出现在榜上（零胜场也占位）
		if err := lm.client.ZAddNX(ctx, leaderboardKey, redis.Z{Score: 0, Member: playerID}).Err(); err != nil {
			return fmt.Errorf("更新排行榜失败: %w", err)
		}
	}

	return nil
}

// GetPlayerStats 获取玩家战绩
func (lm *LeaderboardManager) GetPlayerStats(ctx context.Context, playerID string) (*PlayerStats, error) {
	key := statsKeyPrefix + playerID
	data, err := lm.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var stats PlayerStats
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, fmt.Errorf("反序列化战绩失败: %w", err)
	}
	return &stats, nil
}

// savePlayerStats 保存玩家战绩
func (lm *LeaderboardManager) savePlayerStats(ctx context.Context, stats *PlayerStats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("序列化战绩失败: %w", err)
	}

	key := statsKeyPrefix + stats.PlayerID
	return lm.client.Set(ctx, key, data, 0).Err()
}

// GetLeaderboard 获取排行榜（按胜场数降序）
func (lm *LeaderboardManager) GetLeaderboard(ctx context.Context, offset, limit int64) ([]*LeaderboardEntry, error) {
	results, err := lm.client.ZRevRangeWithScores(ctx, leaderboardKey, offset, offset+limit-1).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]*LeaderboardEntry, 0, len(results))
	for i, z := range results {
		playerID, ok := z.Member.(string)
		if !ok {
			continue
		}

		entry := &LeaderboardEntry{
			Rank:     int(offset) + i + 1,
			PlayerID: playerID,
			Wins:     int(z.Score),
		}

		// 补充玩家名和总场次
		stats, err := lm.GetPlayerStats(ctx, playerID)
		if err != nil {
			log.Printf("⚠️ 读取玩家 %s 战绩失败: %v", playerID, err)
		} else if stats != nil {
			entry.PlayerName = stats.PlayerName
			entry.TotalGames = stats.TotalGames
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

// GetPlayerRank 获取玩家排名（从 1 开始，未上榜返回 0）
func (lm *LeaderboardManager) GetPlayerRank(ctx context.Context, playerID string) (int64, error) {
	rank, err := lm.client.ZRevRank(ctx, leaderboardKey, playerID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, err
	}
	return rank + 1, nil
}

// GetTotalPlayers 获取上榜玩家总数
func (lm *LeaderboardManager) GetTotalPlayers(ctx context.Context) (int64, error) {
	return lm.client.ZCard(ctx, leaderboardKey).Result()
}

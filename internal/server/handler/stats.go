package handler

import (
	"context"
	"time"

	"lastcard/internal/protocol"
	"lastcard/internal/types"
)

const statsQueryTimeout = 3 * time.Second

// handleGetStats 查询个人战绩
func (h *Handler) handleGetStats(client types.ClientInterface, _ *protocol.Message) error {
	ctx, cancel := context.WithTimeout(context.Background(), statsQueryTimeout)
	defer cancel()

	result := protocol.StatsResultPayload{
		PlayerID:   client.GetID(),
		PlayerName: client.GetName(),
	}

	stats, err := h.deps.Leaderboard.GetPlayerStats(ctx, client.GetID())
	if err != nil {
		return err
	}
	if stats != nil {
		result.TotalGames = stats.TotalGames
		result.Wins = stats.Wins
		result.Losses = stats.Losses
		if stats.TotalGames > 0 {
			result.WinRate = float64(stats.Wins) / float64(stats.TotalGames)
		}

		rank, err := h.deps.Leaderboard.GetPlayerRank(ctx, client.GetID())
		if err != nil {
			return err
		}
		result.Rank = int(rank)
	}

	client.SendMessage(protocol.MustNewMessage(protocol.MsgStatsResult, result))
	return nil
}

// handleGetLeaderboard 查询排行榜
func (h *Handler) handleGetLeaderboard(client types.ClientInterface, msg *protocol.Message) error {
	payload, err := protocol.ParsePayload[protocol.GetLeaderboardPayload](msg)
	if err != nil {
		return err
	}

	limit := payload.Limit
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	offset := payload.Offset
	if offset < 0 {
		offset = 0
	}

	ctx, cancel := context.WithTimeout(context.Background(), statsQueryTimeout)
	defer cancel()

	entries, err := h.deps.Leaderboard.GetLeaderboard(ctx, int64(offset), int64(limit))
	if err != nil {
		return err
	}

	result := protocol.LeaderboardResultPayload{
		Entries: make([]protocol.LeaderboardEntry, len(entries)),
	}
	for i, e := range entries {
		result.Entries[i] = protocol.LeaderboardEntry{
			Rank:       e.Rank,
			PlayerID:   e.PlayerID,
			PlayerName: e.PlayerName,
			Wins:       e.Wins,
		}
	}

	client.SendMessage(protocol.MustNewMessage(protocol.MsgLeaderboardResult, result))
	return nil
}

// handleGetOnlineCount 查询在线人数
func (h *Handler) handleGetOnlineCount(client types.ClientInterface, _ *protocol.Message) error {
	client.SendMessage(protocol.MustNewMessage(protocol.MsgOnlineCount, protocol.OnlineCountPayload{
		Count: h.deps.Server.GetOnlineCount(),
	}))
	return nil
}

// handleGetMaintenanceStatus 查询维护状态
func (h *Handler) handleGetMaintenanceStatus(client types.ClientInterface, _ *protocol.Message) error {
	client.SendMessage(protocol.MustNewMessage(protocol.MsgMaintenancePull, protocol.MaintenancePayload{
		Maintenance: h.deps.Server.IsMaintenanceMode(),
	}))
	return nil
}

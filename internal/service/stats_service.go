package service

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"quizclash_backend/internal/repository"
	"quizclash_backend/internal/util"
	"quizclash_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	leaderboardCacheTTL     = 5 * time.Minute
	leaderboardKeyOverall   = "leaderboard:overall"
	leaderboardKeyWeekly    = "leaderboard:weekly"
	leaderboardKeyMonthly   = "leaderboard:monthly"
	defaultLeaderboardLimit = 10
)

// StatsService 个人统计与排行榜。redisClient 可以为 nil，
// 此时排行榜直接查库，不走缓存。
type StatsService struct {
	statsRepo   *repository.StatsRepository
	sessionRepo *repository.GameSessionRepository
	roundRepo   *repository.RoundRepository
	userRepo    *repository.UserRepository
	redisClient *redis.Client
}

func NewStatsService(
	statsRepo *repository.StatsRepository,
	sessionRepo *repository.GameSessionRepository,
	roundRepo *repository.RoundRepository,
	userRepo *repository.UserRepository,
	redisClient *redis.Client,
) *StatsService {
	return &StatsService{
		statsRepo:   statsRepo,
		sessionRepo: sessionRepo,
		roundRepo:   roundRepo,
		userRepo:    userRepo,
		redisClient: redisClient,
	}
}

func (s *StatsService) GetUserStats(userID uint) (*repository.UserStatsRow, error) {
	row, err := s.statsRepo.FindByUserID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return row, nil
}

// GetLeaderboard 总榜，按 XP 降序
func (s *StatsService) GetLeaderboard() ([]repository.LeaderboardEntry, error) {
	if cached, ok := s.cacheGet(leaderboardKeyOverall); ok {
		return cached, nil
	}

	entries, err := s.statsRepo.FindTopByXP(defaultLeaderboardLimit)
	if err != nil {
		return nil, err
	}

	s.cacheSet(leaderboardKeyOverall, entries)
	return entries, nil
}

// GetWeeklyLeaderboard 近 7 天结束对局的滚动榜
func (s *StatsService) GetWeeklyLeaderboard() ([]repository.LeaderboardEntry, error) {
	return s.periodLeaderboard(leaderboardKeyWeekly, 7*24*time.Hour)
}

// GetMonthlyLeaderboard 近 30 天结束对局的滚动榜
func (s *StatsService) GetMonthlyLeaderboard() ([]repository.LeaderboardEntry, error) {
	return s.periodLeaderboard(leaderboardKeyMonthly, 30*24*time.Hour)
}

// periodLeaderboard 窗口榜无法直接读 user_stats 的累计值，
// 改为对窗口内已结束的对局重放计分：每局按总分判胜者，
// XP 规则与终局累计一致（每分 10 XP，胜者 +50）。
func (s *StatsService) periodLeaderboard(cacheKey string, window time.Duration) ([]repository.LeaderboardEntry, error) {
	if cached, ok := s.cacheGet(cacheKey); ok {
		return cached, nil
	}

	sessions, err := s.sessionRepo.FindEndedSince(time.Now().Add(-window))
	if err != nil {
		return nil, err
	}

	type tally struct {
		xp        int
		winCount  int
		gameCount int
	}
	tallies := make(map[uint]*tally)
	bump := func(userID uint) *tally {
		t, ok := tallies[userID]
		if !ok {
			t = &tally{}
			tallies[userID] = t
		}
		return t
	}

	for i := range sessions {
		session := &sessions[i]
		rounds, err := s.roundRepo.FindBySession(session.ID)
		if err != nil {
			return nil, err
		}
		score1, score2 := aggregateScores(rounds, session)

		t1, t2 := bump(session.Player1ID), bump(session.Player2ID)
		t1.gameCount++
		t2.gameCount++
		t1.xp += score1 * 10
		t2.xp += score2 * 10
		switch {
		case score1 > score2:
			t1.winCount++
			t1.xp += 50
		case score2 > score1:
			t2.winCount++
			t2.xp += 50
		}
	}

	entries := make([]repository.LeaderboardEntry, 0, len(tallies))
	for userID, t := range tallies {
		user, err := s.userRepo.FindByID(userID)
		if err != nil {
			return nil, err
		}
		entries = append(entries, repository.LeaderboardEntry{
			Username:  user.Username,
			XP:        t.xp,
			WinCount:  t.winCount,
			GameCount: t.gameCount,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].XP != entries[j].XP {
			return entries[i].XP > entries[j].XP
		}
		return entries[i].Username < entries[j].Username
	})
	if len(entries) > defaultLeaderboardLimit {
		entries = entries[:defaultLeaderboardLimit]
	}

	s.cacheSet(cacheKey, entries)
	return entries, nil
}

// InvalidateLeaderboards 对局终局后清掉三块榜单缓存
func (s *StatsService) InvalidateLeaderboards() {
	if s.redisClient == nil {
		return
	}
	ctx := context.Background()
	if err := s.redisClient.Del(ctx,
		leaderboardKeyOverall, leaderboardKeyWeekly, leaderboardKeyMonthly).Err(); err != nil {
		logger.Log.Warn("failed to invalidate leaderboard cache", zap.Error(err))
	}
}

func (s *StatsService) cacheGet(key string) ([]repository.LeaderboardEntry, bool) {
	if s.redisClient == nil {
		return nil, false
	}
	raw, err := s.redisClient.Get(context.Background(), key).Result()
	if err != nil {
		if err != redis.Nil {
			logger.Log.Warn("leaderboard cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	var entries []repository.LeaderboardEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, false
	}
	return entries, true
}

func (s *StatsService) cacheSet(key string, entries []repository.LeaderboardEntry) {
	if s.redisClient == nil {
		return
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		return
	}
	if err := s.redisClient.Set(context.Background(), key, raw, leaderboardCacheTTL).Err(); err != nil {
		logger.Log.Warn("leaderboard cache write failed", zap.String("key", key), zap.Error(err))
	}
}

package service

import (
	"time"

	"quizclash_backend/internal/model"
	"quizclash_backend/internal/repository"
	"quizclash_backend/internal/util"
)

// ResultService 结果读取。胜者不落库，每次读取时
// 从提交记录聚合总分惰性推导。
type ResultService struct {
	sessionRepo *repository.GameSessionRepository
	roundRepo   *repository.RoundRepository
	userRepo    *repository.UserRepository
}

func NewResultService(
	sessionRepo *repository.GameSessionRepository,
	roundRepo *repository.RoundRepository,
	userRepo *repository.UserRepository,
) *ResultService {
	return &ResultService{
		sessionRepo: sessionRepo,
		roundRepo:   roundRepo,
		userRepo:    userRepo,
	}
}

type RoundScore struct {
	RoundNumber  int  `json:"round_number"`
	Player1Score *int `json:"player1_score"`
	Player2Score *int `json:"player2_score"`
}

type GameResult struct {
	SessionID    uint         `json:"s_id"`
	Player1      PlayerInfo   `json:"player1"`
	Player2      PlayerInfo   `json:"player2"`
	GameStatus   string       `json:"game_status"`
	StartTime    time.Time    `json:"start_time"`
	EndTime      *time.Time   `json:"end_time"`
	RoundScores  []RoundScore `json:"round_scores"`
	Player1Total int          `json:"player1_total"`
	Player2Total int          `json:"player2_total"`
	Winner       *PlayerInfo  `json:"winner"`
}

// GetResult 对局结果：逐回合得分、双方总分、胜者。
// 未提交的回合得分为 null。胜者只在对局已结束且总分不等时给出，
// 平局或进行中都是 null。
func (s *ResultService) GetResult(sessionID uint) (*GameResult, error) {
	session, err := s.sessionRepo.FindByID(sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, util.ErrSessionNotFound
	}

	player1, err := s.userRepo.FindByID(session.Player1ID)
	if err != nil {
		return nil, err
	}
	player2, err := s.userRepo.FindByID(session.Player2ID)
	if err != nil {
		return nil, err
	}

	rounds, err := s.roundRepo.FindBySession(sessionID)
	if err != nil {
		return nil, err
	}

	result := &GameResult{
		SessionID:   session.ID,
		Player1:     PlayerInfo{ID: session.Player1ID, Name: player1.Username},
		Player2:     PlayerInfo{ID: session.Player2ID, Name: player2.Username},
		GameStatus:  session.Status,
		StartTime:   session.StartTime,
		EndTime:     session.EndTime,
		RoundScores: make([]RoundScore, 0, len(rounds)),
	}

	for i := range rounds {
		score := RoundScore{RoundNumber: rounds[i].RoundNumber}
		for _, sub := range rounds[i].Submissions {
			v := sub.Score
			switch sub.PlayerID {
			case session.Player1ID:
				score.Player1Score = &v
				result.Player1Total += v
			case session.Player2ID:
				score.Player2Score = &v
				result.Player2Total += v
			}
		}
		result.RoundScores = append(result.RoundScores, score)
	}

	if session.Status == model.GameStatusEnded {
		switch {
		case result.Player1Total > result.Player2Total:
			result.Winner = &result.Player1
		case result.Player2Total > result.Player1Total:
			result.Winner = &result.Player2
		}
	}

	return result, nil
}

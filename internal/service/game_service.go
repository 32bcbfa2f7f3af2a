package service

import (
	"encoding/json"
	"math/rand/v2"
	"strconv"
	"sync"
	"time"

	"quizclash_backend/internal/model"
	"quizclash_backend/internal/repository"
	"quizclash_backend/internal/util"
	"quizclash_backend/pkg/logger"
	"quizclash_backend/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const questionsPerRound = 3

// GameService 对局/回合状态机：
// 建局（随机或指定对手）→ 至多 5 个回合开局/答题 → 全部完成后终局。
// 所有写操作在会话级互斥锁内执行，读操作不加锁。
type GameService struct {
	sessionRepo  *repository.GameSessionRepository
	roundRepo    *repository.RoundRepository
	userRepo     *repository.UserRepository
	questionRepo *repository.QuestionRepository
	statsRepo    *repository.StatsRepository
	stats        *StatsService
	db           *gorm.DB

	// 按 session id 串行化写操作，避免并发开局算出相同回合号
	// 或并发提交互相覆盖
	sessionLocks sync.Map
}

func NewGameService(
	sessionRepo *repository.GameSessionRepository,
	roundRepo *repository.RoundRepository,
	userRepo *repository.UserRepository,
	questionRepo *repository.QuestionRepository,
	statsRepo *repository.StatsRepository,
	stats *StatsService,
	db *gorm.DB,
) *GameService {
	return &GameService{
		sessionRepo:  sessionRepo,
		roundRepo:    roundRepo,
		userRepo:     userRepo,
		questionRepo: questionRepo,
		statsRepo:    statsRepo,
		stats:        stats,
		db:           db,
	}
}

func (s *GameService) lockSession(sessionID uint) func() {
	v, _ := s.sessionLocks.LoadOrStore(sessionID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// CreateSessionWithRandomOpponent 在非封禁用户中均匀随机配对
func (s *GameService) CreateSessionWithRandomOpponent(player1ID uint) (*model.GameSession, error) {
	if err := s.checkInitiator(player1ID); err != nil {
		return nil, err
	}

	opponent, err := s.userRepo.FindRandomOpponent(player1ID)
	if err != nil {
		return nil, err
	}
	if opponent == nil {
		return nil, util.ErrNoOpponentAvailable
	}

	return s.createSession(player1ID, opponent.ID)
}

// CreateSessionWithSelectedOpponent 按用户名指定对手。
// 对手不存在、被封禁或就是发起者本人都视为不可用。
func (s *GameService) CreateSessionWithSelectedOpponent(player1ID uint, opponentUsername string) (*model.GameSession, error) {
	if err := s.checkInitiator(player1ID); err != nil {
		return nil, err
	}

	opponent, err := s.userRepo.FindOpponentByUsername(opponentUsername, player1ID)
	if err != nil {
		return nil, err
	}
	if opponent == nil {
		return nil, util.ErrOpponentNotFound
	}

	return s.createSession(player1ID, opponent.ID)
}

func (s *GameService) checkInitiator(playerID uint) error {
	if _, err := s.userRepo.FindByID(playerID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return util.ErrUserNotFound
		}
		return err
	}
	banned, err := s.userRepo.IsBanned(playerID)
	if err != nil {
		return err
	}
	if banned {
		return util.ErrUserBanned
	}
	return nil
}

func (s *GameService) createSession(player1ID, player2ID uint) (*model.GameSession, error) {
	session := &model.GameSession{
		Player1ID: player1ID,
		Player2ID: player2ID,
		Status:    model.GameStatusOngoing,
		StartTime: time.Now(),
	}
	if err := s.sessionRepo.Create(session); err != nil {
		return nil, err
	}

	logger.Log.Info("game session created",
		zap.Uint("session_id", session.ID),
		zap.Uint("player1", player1ID),
		zap.Uint("player2", player2ID))

	return session, nil
}

type StartRoundResult struct {
	RoundID     uint                     `json:"r_id"`
	RoundNumber int                      `json:"round_number"`
	Questions   []model.QuestionSnapshot `json:"questions"`
	CategoryID  uint                     `json:"category_id"`
}

// StartRound 为对局开启下一回合：校验对局进行中、请求者是参与者、
// 回合数未满 5，然后从分类题库均匀抽 3 题做逐字快照。
// 开局响应保留正确答案标记；对战作答视图见 GetCurrentRoundForQuiz。
func (s *GameService) StartRound(sessionID, requesterID, categoryID uint) (*StartRoundResult, error) {
	unlock := s.lockSession(sessionID)
	defer unlock()

	session, err := s.sessionRepo.FindByID(sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, util.ErrSessionNotFound
	}
	if session.Status != model.GameStatusOngoing {
		return nil, util.ErrSessionNotOngoing
	}
	if !session.IsParticipant(requesterID) {
		return nil, util.ErrNotParticipant
	}

	count, err := s.roundRepo.CountBySession(sessionID)
	if err != nil {
		return nil, err
	}
	if count >= model.RoundsPerGame {
		return nil, util.ErrRoundLimitReached
	}

	candidates, err := s.questionRepo.FindConfirmedByCategory(categoryID, 100)
	if err != nil {
		return nil, err
	}
	if len(candidates) < questionsPerRound {
		return nil, util.ErrNotEnoughQuestions
	}

	snapshots := sampleQuestions(candidates, questionsPerRound)
	questionsJSON, err := json.Marshal(snapshots)
	if err != nil {
		return nil, err
	}

	round := &model.Round{
		SessionID:   sessionID,
		RoundNumber: int(count) + 1,
		CategoryID:  categoryID,
		StarterID:   requesterID,
		Questions:   questionsJSON,
	}

	if err := s.roundRepo.Create(s.db, round); err != nil {
		return nil, err
	}

	return &StartRoundResult{
		RoundID:     round.ID,
		RoundNumber: round.RoundNumber,
		Questions:   snapshots,
		CategoryID:  categoryID,
	}, nil
}

// sampleQuestions 均匀无放回抽样并做快照
func sampleQuestions(questions []model.Question, n int) []model.QuestionSnapshot {
	perm := rand.Perm(len(questions))
	snapshots := make([]model.QuestionSnapshot, 0, n)
	for _, i := range perm[:n] {
		q := questions[i]
		snapshots = append(snapshots, model.QuestionSnapshot{
			QuestionID:      q.ID,
			Text:            q.Text,
			OptionA:         q.OptionA,
			OptionB:         q.OptionB,
			OptionC:         q.OptionC,
			OptionD:         q.OptionD,
			CorrectAnswer:   q.CorrectAnswer,
			DifficultyLevel: q.DifficultyLevel,
		})
	}
	return snapshots
}

type SubmitResult struct {
	Score         int  `json:"score"`
	RoundComplete bool `json:"round_complete"`
	GameComplete  bool `json:"game_complete"`
}

// SubmitAnswers 把玩家的作答写入当前（回合号最高的）回合。
// 得分按客户端自报的 is_correct 计数，与既有行为保持一致——
// 快照里保留权威答案标记，服务端重算仍然可行。
// 重复提交整条覆盖。写入后同步判定回合/对局完成；
// 对局完成时在同一事务内终局并累加双方统计。
func (s *GameService) SubmitAnswers(sessionID, playerID uint, answers []model.SubmittedAnswer) (*SubmitResult, error) {
	unlock := s.lockSession(sessionID)
	defer unlock()

	session, err := s.sessionRepo.FindByID(sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, util.ErrSessionNotFound
	}
	if session.Status != model.GameStatusOngoing {
		return nil, util.ErrSessionNotOngoing
	}
	if !session.IsParticipant(playerID) {
		return nil, util.ErrNotParticipant
	}

	current, err := s.roundRepo.FindCurrent(sessionID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, util.ErrRoundNotFound
	}

	score := 0
	for _, a := range answers {
		if a.IsCorrect {
			score++
		}
	}

	answersJSON, err := json.Marshal(answers)
	if err != nil {
		return nil, err
	}

	result := &SubmitResult{Score: score}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		submission := &model.RoundSubmission{
			RoundID:     current.ID,
			PlayerID:    playerID,
			Answers:     answersJSON,
			Score:       score,
			SubmittedAt: time.Now(),
		}
		if err := s.roundRepo.UpsertSubmission(tx, submission); err != nil {
			return err
		}

		rounds, err := s.roundRepo.FindBySessionTx(tx, sessionID)
		if err != nil {
			return err
		}

		for _, r := range rounds {
			if r.ID == current.ID {
				result.RoundComplete = roundComplete(&r, session)
			}
		}
		result.GameComplete = gameComplete(rounds, session)

		if result.GameComplete && session.Status == model.GameStatusOngoing {
			if err := s.finalize(tx, session, rounds); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.GameComplete {
		// 终局后移除锁条目，注册表不随历史对局无限增长。
		// ended 会话的写操作都被状态校验拒绝，重建的锁不会保护到并发写。
		s.sessionLocks.Delete(sessionID)
		monitoring.GamesFinished.Inc()
		if s.stats != nil {
			s.stats.InvalidateLeaderboards()
		}
	}

	return result, nil
}

// finalize 终局：status→ended、写结束时间、累加双方统计。
// 胜者不在这里落库，结果读取时惰性推导。
func (s *GameService) finalize(tx *gorm.DB, session *model.GameSession, rounds []model.Round) error {
	now := time.Now()
	if err := s.sessionRepo.End(tx, session.ID, now); err != nil {
		return err
	}

	score1, score2 := aggregateScores(rounds, session)
	totalQuestions := float64(model.RoundsPerGame * questionsPerRound)

	apply := func(userID uint, score, opponentScore int) error {
		won := score > opponentScore
		xp := score * 10
		if won {
			xp += 50
		}
		return s.statsRepo.ApplyGameResult(tx, userID, won, xp, float64(score)/totalQuestions)
	}

	if err := apply(session.Player1ID, score1, score2); err != nil {
		return err
	}
	if err := apply(session.Player2ID, score2, score1); err != nil {
		return err
	}

	logger.Log.Info("game session ended",
		zap.Uint("session_id", session.ID),
		zap.Int("player1_score", score1),
		zap.Int("player2_score", score2))

	return nil
}

func roundComplete(round *model.Round, session *model.GameSession) bool {
	var p1, p2 bool
	for _, sub := range round.Submissions {
		switch sub.PlayerID {
		case session.Player1ID:
			p1 = true
		case session.Player2ID:
			p2 = true
		}
	}
	return p1 && p2
}

func gameComplete(rounds []model.Round, session *model.GameSession) bool {
	if len(rounds) < model.RoundsPerGame {
		return false
	}
	for i := range rounds[:model.RoundsPerGame] {
		if !roundComplete(&rounds[i], session) {
			return false
		}
	}
	return true
}

func aggregateScores(rounds []model.Round, session *model.GameSession) (int, int) {
	var score1, score2 int
	for _, r := range rounds {
		for _, sub := range r.Submissions {
			switch sub.PlayerID {
			case session.Player1ID:
				score1 += sub.Score
			case session.Player2ID:
				score2 += sub.Score
			}
		}
	}
	return score1, score2
}

type PlayerInfo struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type SessionRoundAnswers struct {
	Player1Answers []model.SubmittedAnswer `json:"player1_answers"`
	Player2Answers []model.SubmittedAnswer `json:"player2_answers"`
}

type SessionDetail struct {
	SessionID     uint                  `json:"s_id"`
	Player1       PlayerInfo            `json:"player1"`
	Player2       PlayerInfo            `json:"player2"`
	GameStatus    string                `json:"game_status"`
	StartTime     time.Time             `json:"start_time"`
	EndTime       *time.Time            `json:"end_time"`
	WinnerID      *uint                 `json:"winner_id"`
	Rounds        []SessionRoundAnswers `json:"rounds"`
	IsPlayer1Turn bool                  `json:"is_player1_turn"`
	CurrentRound  int                   `json:"current_round"`
}

// GetSessionDetail 对局详情视图：双方名字、逐回合双方作答、
// 简单的回合奇偶出手指示（回合数为偶数时轮到玩家一）
func (s *GameService) GetSessionDetail(sessionID uint) (*SessionDetail, error) {
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

	roundViews := make([]SessionRoundAnswers, 0, len(rounds))
	for i := range rounds {
		view := SessionRoundAnswers{
			Player1Answers: []model.SubmittedAnswer{},
			Player2Answers: []model.SubmittedAnswer{},
		}
		for _, sub := range rounds[i].Submissions {
			answers, err := sub.DecodeAnswers()
			if err != nil {
				return nil, err
			}
			switch sub.PlayerID {
			case session.Player1ID:
				view.Player1Answers = answers
			case session.Player2ID:
				view.Player2Answers = answers
			}
		}
		roundViews = append(roundViews, view)
	}

	return &SessionDetail{
		SessionID:     session.ID,
		Player1:       PlayerInfo{ID: session.Player1ID, Name: player1.Username},
		Player2:       PlayerInfo{ID: session.Player2ID, Name: player2.Username},
		GameStatus:    session.Status,
		StartTime:     session.StartTime,
		EndTime:       session.EndTime,
		WinnerID:      session.WinnerID,
		Rounds:        roundViews,
		IsPlayer1Turn: len(roundViews)%2 == 0,
		CurrentRound:  len(roundViews),
	}, nil
}

type ActiveGameRow struct {
	SessionID uint      `json:"s_id"`
	Player1   uint      `json:"player1"`
	Player2   uint      `json:"player2"`
	StartTime time.Time `json:"start_time"`
}

func (s *GameService) GetActiveSessions(userID uint) ([]ActiveGameRow, error) {
	sessions, err := s.sessionRepo.FindActiveByUser(userID)
	if err != nil {
		return nil, err
	}
	rows := make([]ActiveGameRow, 0, len(sessions))
	for _, g := range sessions {
		rows = append(rows, ActiveGameRow{
			SessionID: g.ID,
			Player1:   g.Player1ID,
			Player2:   g.Player2ID,
			StartTime: g.StartTime,
		})
	}
	return rows, nil
}

type SubmissionView struct {
	Answers     []model.SubmittedAnswer `json:"answers"`
	Score       int                     `json:"score"`
	SubmittedAt time.Time               `json:"submitted_at"`
}

type RoundView struct {
	RoundID        uint                      `json:"r_id"`
	SessionID      uint                      `json:"s_id"`
	RoundNumber    int                       `json:"round_number"`
	RoundStarter   uint                      `json:"round_starter"`
	CategoryID     uint                      `json:"category_id"`
	Questions      []model.QuestionSnapshot  `json:"questions"`
	PlayersAnswers map[string]SubmissionView `json:"players_answers"`
	CreatedAt      time.Time                 `json:"created_at"`
}

func buildRoundView(round *model.Round, stripAnswers bool) (*RoundView, error) {
	questions, err := round.DecodeQuestions()
	if err != nil {
		return nil, err
	}
	if stripAnswers {
		for i := range questions {
			questions[i].CorrectAnswer = ""
		}
	}

	playersAnswers := make(map[string]SubmissionView, len(round.Submissions))
	for _, sub := range round.Submissions {
		answers, err := sub.DecodeAnswers()
		if err != nil {
			return nil, err
		}
		playersAnswers[strconv.FormatUint(uint64(sub.PlayerID), 10)] = SubmissionView{
			Answers:     answers,
			Score:       sub.Score,
			SubmittedAt: sub.SubmittedAt,
		}
	}

	return &RoundView{
		RoundID:        round.ID,
		SessionID:      round.SessionID,
		RoundNumber:    round.RoundNumber,
		RoundStarter:   round.StarterID,
		CategoryID:     round.CategoryID,
		Questions:      questions,
		PlayersAnswers: playersAnswers,
		CreatedAt:      round.CreatedAt,
	}, nil
}

// GetCurrentRound 当前回合完整视图，保留答案标记
func (s *GameService) GetCurrentRound(sessionID uint) (*RoundView, error) {
	return s.currentRound(sessionID, false)
}

// GetCurrentRoundForQuiz 对战作答视图，剥离正确答案标记
func (s *GameService) GetCurrentRoundForQuiz(sessionID uint) (*RoundView, error) {
	return s.currentRound(sessionID, true)
}

func (s *GameService) currentRound(sessionID uint, stripAnswers bool) (*RoundView, error) {
	round, err := s.roundRepo.FindCurrent(sessionID)
	if err != nil {
		return nil, err
	}
	if round == nil {
		return nil, util.ErrRoundNotFound
	}
	return buildRoundView(round, stripAnswers)
}

func (s *GameService) GetRounds(sessionID uint) ([]RoundView, error) {
	rounds, err := s.roundRepo.FindBySession(sessionID)
	if err != nil {
		return nil, err
	}
	views := make([]RoundView, 0, len(rounds))
	for i := range rounds {
		view, err := buildRoundView(&rounds[i], false)
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return views, nil
}

func (s *GameService) GetRoundByID(roundID uint) (*RoundView, error) {
	round, err := s.roundRepo.FindByID(roundID)
	if err != nil {
		return nil, err
	}
	if round == nil {
		return nil, util.ErrRoundNotFound
	}
	return buildRoundView(round, false)
}

func (s *GameService) GetRoundQuestions(roundID uint) ([]model.QuestionSnapshot, error) {
	round, err := s.roundRepo.FindByID(roundID)
	if err != nil {
		return nil, err
	}
	if round == nil {
		return nil, util.ErrRoundNotFound
	}
	return round.DecodeQuestions()
}

type RoundStatus struct {
	RoundNumber     int  `json:"round_number"`
	Player1Answered bool `json:"player1_answered"`
	Player2Answered bool `json:"player2_answered"`
	RoundComplete   bool `json:"round_complete"`
}

// GetRoundStatus 某一回合双方是否已提交。
// 同一玩家重复提交只计一次——提交是覆盖而非追加。
func (s *GameService) GetRoundStatus(sessionID uint, roundNumber int) (*RoundStatus, error) {
	session, err := s.sessionRepo.FindByID(sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, util.ErrSessionNotFound
	}

	round, err := s.roundRepo.FindBySessionAndNumber(sessionID, roundNumber)
	if err != nil {
		return nil, err
	}
	if round == nil {
		return nil, util.ErrRoundNotFound
	}

	status := &RoundStatus{RoundNumber: roundNumber}
	for _, sub := range round.Submissions {
		switch sub.PlayerID {
		case session.Player1ID:
			status.Player1Answered = true
		case session.Player2ID:
			status.Player2Answered = true
		}
	}
	status.RoundComplete = status.Player1Answered && status.Player2Answered

	return status, nil
}

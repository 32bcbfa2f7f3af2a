package service

import (
	"errors"

	"quizclash_backend/internal/model"
	"quizclash_backend/internal/repository"
	"quizclash_backend/internal/util"

	"gorm.io/gorm"
)

type AdminService struct {
	adminRepo    *repository.AdminRepository
	userRepo     *repository.UserRepository
	questionRepo *repository.QuestionRepository
	sessionRepo  *repository.GameSessionRepository
}

func NewAdminService(
	adminRepo *repository.AdminRepository,
	userRepo *repository.UserRepository,
	questionRepo *repository.QuestionRepository,
	sessionRepo *repository.GameSessionRepository,
) *AdminService {
	return &AdminService{
		adminRepo:    adminRepo,
		userRepo:     userRepo,
		questionRepo: questionRepo,
		sessionRepo:  sessionRepo,
	}
}

// BanUser 封禁用户。封禁不影响进行中的对局，
// 只阻止建新局和登录。
func (s *AdminService) BanUser(userID uint, reason string) error {
	if _, err := s.userRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrUserNotFound
		}
		return err
	}

	banned, err := s.userRepo.IsBanned(userID)
	if err != nil {
		return err
	}
	if banned {
		return util.ErrAlreadyBanned
	}

	return s.adminRepo.Ban(userID, reason)
}

func (s *AdminService) UnbanUser(userID uint) error {
	banned, err := s.userRepo.IsBanned(userID)
	if err != nil {
		return err
	}
	if !banned {
		return util.ErrUserNotFound
	}
	return s.adminRepo.Unban(userID)
}

func (s *AdminService) GetBannedUsers() ([]repository.BannedUserRow, error) {
	return s.adminRepo.FindBanned()
}

func (s *AdminService) IsAdmin(userID uint) (bool, error) {
	return s.userRepo.IsAdmin(userID)
}

type DashboardStats struct {
	UserCount        int64 `json:"user_count"`
	BannedCount      int64 `json:"banned_count"`
	PendingQuestions int64 `json:"pending_questions"`
	OngoingGames     int64 `json:"ongoing_games"`
}

func (s *AdminService) GetDashboard() (*DashboardStats, error) {
	users, err := s.userRepo.FindAll()
	if err != nil {
		return nil, err
	}
	bannedCount, err := s.adminRepo.CountBanned()
	if err != nil {
		return nil, err
	}
	pendingCount, err := s.questionRepo.CountPending()
	if err != nil {
		return nil, err
	}
	ongoing, err := s.sessionRepo.CountByStatus(model.GameStatusOngoing)
	if err != nil {
		return nil, err
	}
	return &DashboardStats{
		UserCount:        int64(len(users)),
		BannedCount:      bannedCount,
		PendingQuestions: pendingCount,
		OngoingGames:     ongoing,
	}, nil
}

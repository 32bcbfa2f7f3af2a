package service

import (
	"errors"

	"quizclash_backend/internal/config"
	"quizclash_backend/internal/model"
	"quizclash_backend/internal/repository"
	"quizclash_backend/internal/util"
	"quizclash_backend/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	userRepo *repository.UserRepository
	cfg      *config.Config
}

func NewAuthService(userRepo *repository.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{userRepo: userRepo, cfg: cfg}
}

// Register 注册用户，密码 bcrypt 加密，user_stats 行随用户一并建好
func (s *AuthService) Register(username, email, password string) (*model.User, error) {
	if _, err := s.userRepo.FindByUsername(username); err == nil {
		return nil, util.ErrUserExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username: username,
		Email:    email,
		Password: string(hashed),
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	logger.Log.Info("user registered", zap.Uint("user_id", user.ID), zap.String("username", username))
	return user, nil
}

type LoginResult struct {
	Token   string `json:"token"`
	UserID  uint   `json:"u_id"`
	IsAdmin bool   `json:"is_admin"`
}

// Login 校验凭证并签发 JWT。被封禁的用户拒绝登录。
func (s *AuthService) Login(username, password string) (*LoginResult, error) {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, util.ErrInvalidCredentials
	}

	banned, err := s.userRepo.IsBanned(user.ID)
	if err != nil {
		return nil, err
	}
	if banned {
		return nil, util.ErrUserBanned
	}

	token, err := util.GenerateJWT(user.ID, user.Username, s.cfg.JWT.Secret, s.cfg.JWT.ExpireTime)
	if err != nil {
		return nil, err
	}

	isAdmin, err := s.userRepo.IsAdmin(user.ID)
	if err != nil {
		return nil, err
	}

	return &LoginResult{Token: token, UserID: user.ID, IsAdmin: isAdmin}, nil
}

func (s *AuthService) ListUsers() ([]model.User, error) {
	return s.userRepo.FindAll()
}

func (s *AuthService) IsAdmin(userID uint) (bool, error) {
	return s.userRepo.IsAdmin(userID)
}

func (s *AuthService) GetUser(userID uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

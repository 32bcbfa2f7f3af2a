package util

import "errors"

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrUserExists          = errors.New("username or email already exists")
	ErrUserBanned          = errors.New("user is banned")
	ErrInvalidCredentials  = errors.New("invalid username or password")
	ErrPermissionDenied    = errors.New("permission denied")
	ErrSessionNotFound     = errors.New("game session not found")
	ErrSessionNotOngoing   = errors.New("game not found or not ongoing")
	ErrNotParticipant      = errors.New("user is not part of this game")
	ErrRoundNotFound       = errors.New("round not found")
	ErrRoundLimitReached   = errors.New("game already has 5 rounds")
	ErrNoOpponentAvailable = errors.New("no available opponent found")
	ErrOpponentNotFound    = errors.New("opponent not found or unavailable")
	ErrNotEnoughQuestions  = errors.New("not enough questions in category")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrInvalidAnswerOption = errors.New("correct answer must be one of A, B, C, D")
	ErrQuestionNotFound    = errors.New("question not found")
	ErrAlreadyBanned       = errors.New("user already banned")
)

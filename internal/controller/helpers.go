package controller

import (
	"errors"
	"net/http"
	"strconv"

	"quizclash_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// handleServiceError 把服务层哨兵错误翻译成 HTTP 状态码，
// 未识别的错误一律 500 并只记日志
func handleServiceError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrUserNotFound),
		errors.Is(err, util.ErrOpponentNotFound),
		errors.Is(err, util.ErrSessionNotFound),
		errors.Is(err, util.ErrSessionNotOngoing),
		errors.Is(err, util.ErrRoundNotFound),
		errors.Is(err, util.ErrCategoryNotFound),
		errors.Is(err, util.ErrQuestionNotFound):
		util.NotFound(ctx, err.Error())
	case errors.Is(err, util.ErrUserBanned),
		errors.Is(err, util.ErrNotParticipant),
		errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx, err.Error())
	case errors.Is(err, util.ErrRoundLimitReached),
		errors.Is(err, util.ErrNotEnoughQuestions),
		errors.Is(err, util.ErrNoOpponentAvailable),
		errors.Is(err, util.ErrInvalidAnswerOption):
		util.BadRequest(ctx, err.Error())
	case errors.Is(err, util.ErrUserExists),
		errors.Is(err, util.ErrAlreadyBanned):
		util.Conflict(ctx, err.Error())
	case errors.Is(err, util.ErrInvalidCredentials):
		util.Error(ctx, http.StatusUnauthorized, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}

func parseUintParam(ctx *gin.Context, name string) (uint, bool) {
	value, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "invalid "+name)
		return 0, false
	}
	return uint(value), true
}

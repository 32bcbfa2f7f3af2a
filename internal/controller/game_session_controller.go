package controller

import (
	"quizclash_backend/internal/service"
	"quizclash_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// GameSessionController 处理对局生命周期相关请求
type GameSessionController struct {
	GameService   *service.GameService
	ResultService *service.ResultService
}

func NewGameSessionController(gameService *service.GameService, resultService *service.ResultService) *GameSessionController {
	return &GameSessionController{GameService: gameService, ResultService: resultService}
}

type CreateSessionRequest struct {
	Player1ID        uint   `json:"player1_id" binding:"required"`
	OpponentUsername string `json:"opponent_username"`
}

// CreateSession godoc
// @Summary 创建对局
// @Description 创建新对局。不指定 opponent_username 时随机配对，指定时与该用户对战。
// @Tags 对局
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body CreateSessionRequest true "建局参数"
// @Success 201 {object} util.Response{data=model.GameSession} "创建成功"
// @Failure 400 {object} util.Response "没有可用对手"
// @Failure 403 {object} util.Response "用户已被封禁"
// @Failure 404 {object} util.Response "用户或对手不存在"
// @Router /api/games [post]
func (c *GameSessionController) CreateSession(ctx *gin.Context) {
	var req CreateSessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	var session interface{}
	var err error
	if req.OpponentUsername != "" {
		session, err = c.GameService.CreateSessionWithSelectedOpponent(req.Player1ID, req.OpponentUsername)
	} else {
		session, err = c.GameService.CreateSessionWithRandomOpponent(req.Player1ID)
	}
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Created(ctx, session)
}

// GetSession godoc
// @Summary 对局详情
// @Description 返回双方信息、逐回合双方作答与出手指示
// @Tags 对局
// @Produce  json
// @Security ApiKeyAuth
// @Param   session_id path int true "对局ID"
// @Success 200 {object} util.Response{data=service.SessionDetail} "成功"
// @Failure 404 {object} util.Response "对局不存在"
// @Router /api/games/{session_id} [get]
func (c *GameSessionController) GetSession(ctx *gin.Context) {
	sessionID, ok := parseUintParam(ctx, "session_id")
	if !ok {
		return
	}

	detail, err := c.GameService.GetSessionDetail(sessionID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, detail)
}

// GetActiveSessions godoc
// @Summary 用户进行中的对局
// @Tags 对局
// @Produce  json
// @Security ApiKeyAuth
// @Param   user_id path int true "用户ID"
// @Success 200 {object} util.Response{data=[]service.ActiveGameRow} "成功"
// @Router /api/games/active/{user_id} [get]
func (c *GameSessionController) GetActiveSessions(ctx *gin.Context) {
	userID, ok := parseUintParam(ctx, "user_id")
	if !ok {
		return
	}

	rows, err := c.GameService.GetActiveSessions(userID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, rows)
}

// GetResult godoc
// @Summary 对局结果
// @Description 逐回合得分、双方总分与胜者。胜者在对局结束且总分不等时才给出，平局为 null。
// @Tags 对局
// @Produce  json
// @Security ApiKeyAuth
// @Param   session_id path int true "对局ID"
// @Success 200 {object} util.Response{data=service.GameResult} "成功"
// @Failure 404 {object} util.Response "对局不存在"
// @Router /api/games/{session_id}/result [get]
func (c *GameSessionController) GetResult(ctx *gin.Context) {
	sessionID, ok := parseUintParam(ctx, "session_id")
	if !ok {
		return
	}

	result, err := c.ResultService.GetResult(sessionID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, result)
}

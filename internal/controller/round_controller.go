package controller

import (
	"strconv"

	"quizclash_backend/internal/model"
	"quizclash_backend/internal/service"
	"quizclash_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// RoundController 处理回合开启、作答与回合状态查询
type RoundController struct {
	GameService *service.GameService
}

func NewRoundController(gameService *service.GameService) *RoundController {
	return &RoundController{GameService: gameService}
}

type StartRoundRequest struct {
	UserID     uint `json:"user_id" binding:"required"`
	CategoryID uint `json:"category_id" binding:"required"`
}

// StartRound godoc
// @Summary 开启回合
// @Description 为对局开启下一回合并从所选分类随机抽取 3 道题。每局至多 5 个回合。
// @Tags 回合
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   session_id path int true "对局ID"
// @Param   body body StartRoundRequest true "开局参数"
// @Success 201 {object} util.Response{data=service.StartRoundResult} "回合已创建"
// @Failure 400 {object} util.Response "回合已满或分类题目不足"
// @Failure 403 {object} util.Response "非对局参与者"
// @Failure 404 {object} util.Response "对局不存在或已结束"
// @Router /api/games/{session_id}/rounds [post]
func (c *RoundController) StartRound(ctx *gin.Context) {
	sessionID, ok := parseUintParam(ctx, "session_id")
	if !ok {
		return
	}

	var req StartRoundRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.GameService.StartRound(sessionID, req.UserID, req.CategoryID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Created(ctx, result)
}

type SubmitAnswersRequest struct {
	UserID  uint                    `json:"user_id" binding:"required"`
	Answers []model.SubmittedAnswer `json:"answers" binding:"required"`
}

// SubmitAnswers godoc
// @Summary 提交作答
// @Description 把玩家作答写入当前回合。重复提交整条覆盖。双方都交齐且满 5 回合时对局自动终局。
// @Tags 回合
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   session_id path int true "对局ID"
// @Param   body body SubmitAnswersRequest true "作答内容"
// @Success 200 {object} util.Response{data=service.SubmitResult} "提交成功"
// @Failure 403 {object} util.Response "非对局参与者"
// @Failure 404 {object} util.Response "对局或回合不存在"
// @Router /api/games/{session_id}/answers [post]
func (c *RoundController) SubmitAnswers(ctx *gin.Context) {
	sessionID, ok := parseUintParam(ctx, "session_id")
	if !ok {
		return
	}

	var req SubmitAnswersRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.GameService.SubmitAnswers(sessionID, req.UserID, req.Answers)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, result)
}

// GetCurrentRound godoc
// @Summary 当前回合
// @Description 回合号最高的回合。for_play=true 时剥离正确答案标记，供作答界面使用。
// @Tags 回合
// @Produce  json
// @Security ApiKeyAuth
// @Param   session_id path int true "对局ID"
// @Param   for_play query bool false "是否剥离答案" default(false)
// @Success 200 {object} util.Response{data=service.RoundView} "成功"
// @Failure 404 {object} util.Response "尚无回合"
// @Router /api/games/{session_id}/rounds/current [get]
func (c *RoundController) GetCurrentRound(ctx *gin.Context) {
	sessionID, ok := parseUintParam(ctx, "session_id")
	if !ok {
		return
	}

	forPlay, _ := strconv.ParseBool(ctx.DefaultQuery("for_play", "false"))

	var view *service.RoundView
	var err error
	if forPlay {
		view, err = c.GameService.GetCurrentRoundForQuiz(sessionID)
	} else {
		view, err = c.GameService.GetCurrentRound(sessionID)
	}
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, view)
}

// GetRounds godoc
// @Summary 对局全部回合
// @Tags 回合
// @Produce  json
// @Security ApiKeyAuth
// @Param   session_id path int true "对局ID"
// @Success 200 {object} util.Response{data=[]service.RoundView} "成功"
// @Router /api/games/{session_id}/rounds [get]
func (c *RoundController) GetRounds(ctx *gin.Context) {
	sessionID, ok := parseUintParam(ctx, "session_id")
	if !ok {
		return
	}

	views, err := c.GameService.GetRounds(sessionID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, views)
}

// GetRoundStatus godoc
// @Summary 回合提交状态
// @Description 某一回合双方是否已提交
// @Tags 回合
// @Produce  json
// @Security ApiKeyAuth
// @Param   session_id path int true "对局ID"
// @Param   round_number path int true "回合号"
// @Success 200 {object} util.Response{data=service.RoundStatus} "成功"
// @Failure 404 {object} util.Response "对局或回合不存在"
// @Router /api/games/{session_id}/rounds/{round_number}/status [get]
func (c *RoundController) GetRoundStatus(ctx *gin.Context) {
	sessionID, ok := parseUintParam(ctx, "session_id")
	if !ok {
		return
	}

	roundNumber, err := strconv.Atoi(ctx.Param("round_number"))
	if err != nil {
		util.BadRequest(ctx, "invalid round_number")
		return
	}

	status, err := c.GameService.GetRoundStatus(sessionID, roundNumber)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, status)
}

// GetRound godoc
// @Summary 回合详情
// @Tags 回合
// @Produce  json
// @Security ApiKeyAuth
// @Param   round_id path int true "回合ID"
// @Success 200 {object} util.Response{data=service.RoundView} "成功"
// @Failure 404 {object} util.Response "回合不存在"
// @Router /api/rounds/{round_id} [get]
func (c *RoundController) GetRound(ctx *gin.Context) {
	roundID, ok := parseUintParam(ctx, "round_id")
	if !ok {
		return
	}

	view, err := c.GameService.GetRoundByID(roundID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, view)
}

// GetRoundQuestions godoc
// @Summary 回合题目快照
// @Tags 回合
// @Produce  json
// @Security ApiKeyAuth
// @Param   round_id path int true "回合ID"
// @Success 200 {object} util.Response{data=[]model.QuestionSnapshot} "成功"
// @Failure 404 {object} util.Response "回合不存在"
// @Router /api/rounds/{round_id}/questions [get]
func (c *RoundController) GetRoundQuestions(ctx *gin.Context) {
	roundID, ok := parseUintParam(ctx, "round_id")
	if !ok {
		return
	}

	questions, err := c.GameService.GetRoundQuestions(roundID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, questions)
}

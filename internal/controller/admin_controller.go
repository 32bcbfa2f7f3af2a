package controller

import (
	"quizclash_backend/internal/service"
	"quizclash_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// AdminController 处理封禁管理、题目审核与后台概览
type AdminController struct {
	AdminService    *service.AdminService
	QuestionService *service.QuestionService
}

func NewAdminController(adminService *service.AdminService, questionService *service.QuestionService) *AdminController {
	return &AdminController{AdminService: adminService, QuestionService: questionService}
}

type BanRequest struct {
	UserID    uint   `json:"user_id" binding:"required"`
	BanReason string `json:"ban_reason" binding:"required"`
}

// BanUser godoc
// @Summary 封禁用户
// @Description 封禁后用户无法登录和建新局，已进行中的对局不受影响
// @Tags 管理
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body BanRequest true "封禁参数"
// @Success 200 {object} util.Response "封禁成功"
// @Failure 404 {object} util.Response "用户不存在"
// @Failure 409 {object} util.Response "用户已被封禁"
// @Router /api/admin/ban [post]
func (c *AdminController) BanUser(ctx *gin.Context) {
	var req BanRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.AdminService.BanUser(req.UserID, req.BanReason); err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"u_id": req.UserID})
}

type UnbanRequest struct {
	UserID uint `json:"user_id" binding:"required"`
}

// UnbanUser godoc
// @Summary 解除封禁
// @Tags 管理
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body UnbanRequest true "解封参数"
// @Success 200 {object} util.Response "解封成功"
// @Failure 404 {object} util.Response "用户未被封禁"
// @Router /api/admin/unban [post]
func (c *AdminController) UnbanUser(ctx *gin.Context) {
	var req UnbanRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.AdminService.UnbanUser(req.UserID); err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"u_id": req.UserID})
}

// GetBannedUsers godoc
// @Summary 封禁列表
// @Tags 管理
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]repository.BannedUserRow} "成功"
// @Router /api/admin/banned [get]
func (c *AdminController) GetBannedUsers(ctx *gin.Context) {
	rows, err := c.AdminService.GetBannedUsers()
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, rows)
}

// GetPendingQuestions godoc
// @Summary 待审核题目
// @Tags 管理
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]repository.PendingQuestionRow} "成功"
// @Router /api/admin/questions/pending [get]
func (c *AdminController) GetPendingQuestions(ctx *gin.Context) {
	rows, err := c.QuestionService.GetPending()
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, rows)
}

type ReviewQuestionRequest struct {
	Approve *bool `json:"approve" binding:"required"`
}

// ReviewQuestion godoc
// @Summary 审核题目
// @Description approve=true 过审入库，approve=false 删除投稿
// @Tags 管理
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   question_id path int true "题目ID"
// @Param   body body ReviewQuestionRequest true "审核结论"
// @Success 200 {object} util.Response "审核完成"
// @Failure 404 {object} util.Response "题目不存在"
// @Router /api/admin/questions/{question_id}/review [post]
func (c *AdminController) ReviewQuestion(ctx *gin.Context) {
	questionID, ok := parseUintParam(ctx, "question_id")
	if !ok {
		return
	}

	var req ReviewQuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.QuestionService.Review(questionID, *req.Approve); err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"q_id": questionID, "approved": *req.Approve})
}

// GetDashboard godoc
// @Summary 后台概览
// @Description 用户数、封禁数与待审核题目数
// @Tags 管理
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.DashboardStats} "成功"
// @Router /api/admin/dashboard [get]
func (c *AdminController) GetDashboard(ctx *gin.Context) {
	stats, err := c.AdminService.GetDashboard()
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}

package controller

import (
	"quizclash_backend/internal/service"
	"quizclash_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// UserController 处理注册、登录等用户相关请求
type UserController struct {
	AuthService *service.AuthService
}

func NewUserController(authService *service.AuthService) *UserController {
	return &UserController{AuthService: authService}
}

type RegisterRequest struct {
	Username string `json:"user_name" binding:"required,min=3,max=32"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// Register godoc
// @Summary 用户注册
// @Description 注册新用户并初始化统计数据
// @Tags 用户
// @Accept  json
// @Produce  json
// @Param   body body RegisterRequest true "注册信息"
// @Success 201 {object} util.Response "创建成功"
// @Failure 400 {object} util.Response "参数错误"
// @Failure 409 {object} util.Response "用户名或邮箱已存在"
// @Router /api/users/register [post]
func (c *UserController) Register(ctx *gin.Context) {
	var req RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.AuthService.Register(req.Username, req.Email, req.Password)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Created(ctx, gin.H{"u_id": user.ID, "user_name": user.Username})
}

type LoginRequest struct {
	Username string `json:"user_name" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login godoc
// @Summary 用户登录
// @Description 校验凭证并返回 JWT，被封禁用户拒绝登录
// @Tags 用户
// @Accept  json
// @Produce  json
// @Param   body body LoginRequest true "登录信息"
// @Success 200 {object} util.Response{data=service.LoginResult} "登录成功"
// @Failure 401 {object} util.Response "凭证无效"
// @Failure 403 {object} util.Response "用户已被封禁"
// @Router /api/users/login [post]
func (c *UserController) Login(ctx *gin.Context) {
	var req LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.AuthService.Login(req.Username, req.Password)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, result)
}

// GetUsers godoc
// @Summary 用户列表
// @Tags 用户
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response "成功"
// @Router /api/users [get]
func (c *UserController) GetUsers(ctx *gin.Context) {
	users, err := c.AuthService.ListUsers()
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	rows := make([]gin.H, 0, len(users))
	for _, u := range users {
		rows = append(rows, gin.H{"u_id": u.ID, "user_name": u.Username})
	}
	util.Success(ctx, rows)
}

// GetAdminStatus godoc
// @Summary 查询用户管理员身份
// @Tags 用户
// @Produce  json
// @Security ApiKeyAuth
// @Param   user_id path int true "用户ID"
// @Success 200 {object} util.Response "成功"
// @Router /api/users/{user_id}/admin-status [get]
func (c *UserController) GetAdminStatus(ctx *gin.Context) {
	userID, ok := parseUintParam(ctx, "user_id")
	if !ok {
		return
	}

	isAdmin, err := c.AuthService.IsAdmin(userID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"u_id": userID, "is_admin": isAdmin})
}

// GetUser godoc
// @Summary 查询用户
// @Tags 用户
// @Produce  json
// @Security ApiKeyAuth
// @Param   user_id path int true "用户ID"
// @Success 200 {object} util.Response "成功"
// @Failure 404 {object} util.Response "用户不存在"
// @Router /api/users/{user_id} [get]
func (c *UserController) GetUser(ctx *gin.Context) {
	userID, ok := parseUintParam(ctx, "user_id")
	if !ok {
		return
	}

	user, err := c.AuthService.GetUser(userID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"u_id":      user.ID,
		"user_name": user.Username,
		"email":     user.Email,
	})
}

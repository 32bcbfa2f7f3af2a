package controller

import (
	"quizclash_backend/internal/service"
	"quizclash_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// StatsController 处理个人统计与排行榜请求
type StatsController struct {
	StatsService *service.StatsService
}

func NewStatsController(statsService *service.StatsService) *StatsController {
	return &StatsController{StatsService: statsService}
}

// GetUserStats godoc
// @Summary 个人统计
// @Description 局数、胜场、胜率、平均正确率与经验值
// @Tags 统计
// @Produce  json
// @Security ApiKeyAuth
// @Param   user_id path int true "用户ID"
// @Success 200 {object} util.Response{data=repository.UserStatsRow} "成功"
// @Failure 404 {object} util.Response "用户不存在"
// @Router /api/stats/{user_id} [get]
func (c *StatsController) GetUserStats(ctx *gin.Context) {
	userID, ok := parseUintParam(ctx, "user_id")
	if !ok {
		return
	}

	row, err := c.StatsService.GetUserStats(userID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, row)
}

// GetLeaderboard godoc
// @Summary 总排行榜
// @Description 按累计经验值降序的前十名
// @Tags 统计
// @Produce  json
// @Success 200 {object} util.Response{data=[]repository.LeaderboardEntry} "成功"
// @Router /api/leaderboard [get]
func (c *StatsController) GetLeaderboard(ctx *gin.Context) {
	entries, err := c.StatsService.GetLeaderboard()
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, entries)
}

// GetWeeklyLeaderboard godoc
// @Summary 周榜
// @Description 近 7 天结束对局的滚动排行榜
// @Tags 统计
// @Produce  json
// @Success 200 {object} util.Response{data=[]repository.LeaderboardEntry} "成功"
// @Router /api/leaderboard/weekly [get]
func (c *StatsController) GetWeeklyLeaderboard(ctx *gin.Context) {
	entries, err := c.StatsService.GetWeeklyLeaderboard()
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, entries)
}

// GetMonthlyLeaderboard godoc
// @Summary 月榜
// @Description 近 30 天结束对局的滚动排行榜
// @Tags 统计
// @Produce  json
// @Success 200 {object} util.Response{data=[]repository.LeaderboardEntry} "成功"
// @Router /api/leaderboard/monthly [get]
func (c *StatsController) GetMonthlyLeaderboard(ctx *gin.Context) {
	entries, err := c.StatsService.GetMonthlyLeaderboard()
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, entries)
}

package controller

import (
	"quizclash_backend/internal/service"
	"quizclash_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// QuestionController 处理玩家题目投稿
type QuestionController struct {
	QuestionService *service.QuestionService
}

func NewQuestionController(questionService *service.QuestionService) *QuestionController {
	return &QuestionController{QuestionService: questionService}
}

// SubmitQuestion godoc
// @Summary 投稿题目
// @Description 玩家投稿的题目进入待审核池，管理员投稿直接过审
// @Tags 题目
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.SubmitQuestionInput true "题目内容"
// @Success 201 {object} util.Response "投稿成功"
// @Failure 400 {object} util.Response "参数错误"
// @Failure 404 {object} util.Response "分类不存在"
// @Router /api/questions [post]
func (c *QuestionController) SubmitQuestion(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var input service.SubmitQuestionInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	question, err := c.QuestionService.Submit(claims.UserID, &input)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Created(ctx, gin.H{"q_id": question.ID, "confirmed": question.Confirmed})
}

// GetByCategory godoc
// @Summary 分类题目列表
// @Description 某分类下全部已审核题目，随机顺序，不含正确答案
// @Tags 题目
// @Produce  json
// @Security ApiKeyAuth
// @Param   category_id path int true "分类ID"
// @Success 200 {object} util.Response{data=[]service.QuestionView} "成功"
// @Failure 404 {object} util.Response "分类不存在"
// @Router /api/questions/category/{category_id} [get]
func (c *QuestionController) GetByCategory(ctx *gin.Context) {
	categoryID, ok := parseUintParam(ctx, "category_id")
	if !ok {
		return
	}

	questions, err := c.QuestionService.GetConfirmedByCategory(categoryID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, questions)
}

// CountByCategory godoc
// @Summary 分类已审核题量
// @Tags 题目
// @Produce  json
// @Security ApiKeyAuth
// @Param   category_id path int true "分类ID"
// @Success 200 {object} util.Response "成功"
// @Router /api/questions/category/{category_id}/count [get]
func (c *QuestionController) CountByCategory(ctx *gin.Context) {
	categoryID, ok := parseUintParam(ctx, "category_id")
	if !ok {
		return
	}

	count, err := c.QuestionService.CountConfirmedByCategory(categoryID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"category_id": categoryID, "question_count": count})
}

// GetRandomByCategory godoc
// @Summary 分类随机抽题
// @Description 从分类中随机抽取指定数量的已审核题目
// @Tags 题目
// @Produce  json
// @Security ApiKeyAuth
// @Param   category_id path int true "分类ID"
// @Param   count path int true "题目数量"
// @Success 200 {object} util.Response{data=[]model.Question} "成功"
// @Failure 400 {object} util.Response "分类题目不足"
// @Failure 404 {object} util.Response "分类不存在"
// @Router /api/questions/category/{category_id}/random/{count} [get]
func (c *QuestionController) GetRandomByCategory(ctx *gin.Context) {
	categoryID, ok := parseUintParam(ctx, "category_id")
	if !ok {
		return
	}
	count, ok := parseUintParam(ctx, "count")
	if !ok {
		return
	}

	questions, err := c.QuestionService.GetRandomQuestions(categoryID, int(count))
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, questions)
}

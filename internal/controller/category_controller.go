package controller

import (
	"strconv"

	"quizclash_backend/internal/service"
	"quizclash_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// CategoryController 处理题目分类相关请求
type CategoryController struct {
	CategoryService *service.CategoryService
}

func NewCategoryController(categoryService *service.CategoryService) *CategoryController {
	return &CategoryController{CategoryService: categoryService}
}

// GetCategories godoc
// @Summary 分类列表
// @Description 全部分类及各自已审核题量
// @Tags 分类
// @Produce  json
// @Success 200 {object} util.Response{data=[]service.CategoryView} "成功"
// @Router /api/categories [get]
func (c *CategoryController) GetCategories(ctx *gin.Context) {
	views, err := c.CategoryService.GetAll()
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, views)
}

// GetCategory godoc
// @Summary 查询分类
// @Tags 分类
// @Produce  json
// @Param   category_id path int true "分类ID"
// @Success 200 {object} util.Response{data=model.Category} "成功"
// @Failure 404 {object} util.Response "分类不存在"
// @Router /api/categories/{category_id} [get]
func (c *CategoryController) GetCategory(ctx *gin.Context) {
	categoryID, ok := parseUintParam(ctx, "category_id")
	if !ok {
		return
	}

	category, err := c.CategoryService.Get(categoryID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, category)
}

type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required,min=2,max=64"`
}

// CreateCategory godoc
// @Summary 创建分类
// @Tags 分类
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body CreateCategoryRequest true "分类名称"
// @Success 201 {object} util.Response{data=model.Category} "创建成功"
// @Failure 403 {object} util.Response "需要管理员权限"
// @Router /api/admin/categories [post]
func (c *CategoryController) CreateCategory(ctx *gin.Context) {
	var req CreateCategoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	category, err := c.CategoryService.Create(req.Name)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Created(ctx, category)
}

// GetPopularCategories godoc
// @Summary 热门分类
// @Description 按被回合选用次数排序
// @Tags 分类
// @Produce  json
// @Param   limit query int false "返回条数" default(5)
// @Success 200 {object} util.Response{data=[]repository.PopularCategoryRow} "成功"
// @Router /api/categories/popular [get]
func (c *CategoryController) GetPopularCategories(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "5"))

	rows, err := c.CategoryService.GetMostPopular(limit)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, rows)
}

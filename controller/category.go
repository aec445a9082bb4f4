package controller

import (
	"errors"
	"net/http"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/response"
	"github.com/gin-gonic/gin"

	"github.com/Xushengqwer/feed_service/models/dto"
	"github.com/Xushengqwer/feed_service/service"
)

// CategoryController 定义分类控制器的结构体
type CategoryController struct {
	categoryService service.CategoryService
}

// NewCategoryController 构造函数，用于创建 CategoryController 实例
func NewCategoryController(categoryService service.CategoryService) *CategoryController {
	return &CategoryController{categoryService: categoryService}
}

// CreateCategory 创建分类
// @Summary      创建分类
// @Description  创建一个新的帖子分类，分类名全局唯一。
// @Tags         categories (分类)
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateCategoryRequest true "分类信息"
// @Success      200 {object} vo.CategoryVOWrapper "成功响应，包含新分类信息"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的请求参数"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/feed/categories [post]
func (ctrl *CategoryController) CreateCategory(c *gin.Context) {
	var reqDTO dto.CreateCategoryRequest
	if err := c.ShouldBindJSON(&reqDTO); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的请求体: "+err.Error())
		return
	}

	categoryVO, err := ctrl.categoryService.CreateCategory(c.Request.Context(), &reqDTO)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "创建分类失败: "+err.Error())
		return
	}
	response.RespondSuccess(c, categoryVO, "分类创建成功")
}

// ListCategories 获取全部分类
// @Summary      获取分类列表
// @Description  获取全部帖子分类。
// @Tags         categories (分类)
// @Produce      json
// @Success      200 {object} vo.ListCategoriesVOWrapper "成功响应，包含分类列表"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/feed/categories [get]
func (ctrl *CategoryController) ListCategories(c *gin.Context) {
	categories, err := ctrl.categoryService.ListCategories(c.Request.Context())
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "获取分类列表失败: "+err.Error())
		return
	}
	response.RespondSuccess(c, categories, "分类列表获取成功")
}

// DeleteCategory 删除分类
// @Summary      删除分类
// @Description  删除指定分类，其下帖子自动改挂到兜底分类。兜底分类自身不可删除。
// @Tags         categories (分类)
// @Produce      json
// @Param        category_id path uint64 true "分类ID" format(uint64) minimum(1)
// @Success      200 {object} vo.BaseResponseWrapper "删除成功"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的路径参数或尝试删除兜底分类"
// @Failure      404 {object} vo.BaseResponseWrapper "分类不存在"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/feed/categories/{category_id} [delete]
func (ctrl *CategoryController) DeleteCategory(c *gin.Context) {
	categoryID, ok := parseUintParam(c, "category_id")
	if !ok {
		return
	}

	if err := ctrl.categoryService.DeleteCategory(c.Request.Context(), categoryID); err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			response.RespondError(c, http.StatusNotFound, response.ErrCodeClientResourceNotFound, "分类不存在")
			return
		}
		// 含兜底分类不可删除的场景
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "删除分类失败: "+err.Error())
		return
	}
	response.RespondSuccess[any](c, nil, "分类删除成功")
}

// RegisterRoutes 注册 CategoryController 的路由
func (ctrl *CategoryController) RegisterRoutes(group *gin.RouterGroup) {
	categories := group.Group("/categories")
	{
		categories.POST("", ctrl.CreateCategory)               // POST   /api/v1/feed/categories
		categories.GET("", ctrl.ListCategories)                // GET    /api/v1/feed/categories
		categories.DELETE("/:category_id", ctrl.DeleteCategory) // DELETE /api/v1/feed/categories/:category_id
	}
}

package controller

import (
	"context"
	"errors"
	"net/http"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/response"
	"github.com/gin-gonic/gin"

	"github.com/Xushengqwer/feed_service/cachekey"
	"github.com/Xushengqwer/feed_service/constant"
	"github.com/Xushengqwer/feed_service/models/dto"
	"github.com/Xushengqwer/feed_service/myErrors"
	"github.com/Xushengqwer/feed_service/service"
)

// CommentController 定义评论控制器的结构体
type CommentController struct {
	commentService   service.CommentService
	feedQueryService service.FeedQueryService
}

// NewCommentController 构造函数，用于创建 CommentController 实例
func NewCommentController(commentService service.CommentService, feedQueryService service.FeedQueryService) *CommentController {
	return &CommentController{
		commentService:   commentService,
		feedQueryService: feedQueryService,
	}
}

// CreateComment 发表评论
// @Summary      发表评论
// @Description  在指定帖子下创建评论，作者 ID 从请求上下文获取。
// @Tags         comments (评论)
// @Accept       json
// @Produce      json
// @Param        post_id path uint64 true "帖子ID" format(uint64) minimum(1)
// @Param        request body dto.CreateCommentRequest true "评论内容"
// @Success      200 {object} vo.CommentVOWrapper "成功响应，包含新评论信息"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的请求参数"
// @Failure      401 {object} vo.BaseResponseWrapper "用户未授权"
// @Failure      404 {object} vo.BaseResponseWrapper "帖子不存在"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/feed/posts/{post_id}/comments [post]
func (ctrl *CommentController) CreateComment(c *gin.Context) {
	postID, ok := parseUintParam(c, "post_id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var reqDTO dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&reqDTO); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的请求体: "+err.Error())
		return
	}

	commentVO, err := ctrl.commentService.CreateComment(c.Request.Context(), postID, userID, &reqDTO)
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			response.RespondError(c, http.StatusNotFound, response.ErrCodeClientResourceNotFound, "帖子不存在")
			return
		}
		response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "创建评论失败: "+err.Error())
		return
	}
	response.RespondSuccess(c, commentVO, "评论创建成功")
}

// DeleteComment 删除评论
// @Summary      删除评论
// @Description  软删除指定评论，仅评论作者本人可操作。
// @Tags         comments (评论)
// @Produce      json
// @Param        post_id path uint64 true "帖子ID" format(uint64) minimum(1)
// @Param        comment_id path uint64 true "评论ID" format(uint64) minimum(1)
// @Success      200 {object} vo.BaseResponseWrapper "删除成功"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的路径参数"
// @Failure      401 {object} vo.BaseResponseWrapper "用户未授权"
// @Failure      403 {object} vo.BaseResponseWrapper "非评论作者"
// @Failure      404 {object} vo.BaseResponseWrapper "评论不存在"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/feed/posts/{post_id}/comments/{comment_id} [delete]
func (ctrl *CommentController) DeleteComment(c *gin.Context) {
	if _, ok := parseUintParam(c, "post_id"); !ok {
		return
	}
	commentID, ok := parseUintParam(c, "comment_id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := ctrl.commentService.DeleteComment(c.Request.Context(), commentID, userID); err != nil {
		switch {
		case errors.Is(err, commonerrors.ErrRepoNotFound):
			response.RespondError(c, http.StatusNotFound, response.ErrCodeClientResourceNotFound, "评论不存在")
		case errors.Is(err, myErrors.ErrNotOwner):
			response.RespondError(c, http.StatusForbidden, response.ErrCodeClientUnauthorized, "仅评论作者可删除")
		default:
			response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "删除评论失败: "+err.Error())
		}
		return
	}
	response.RespondSuccess[any](c, nil, "评论删除成功")
}

// GetComment 获取单条评论
// @Summary      获取评论详情
// @Description  获取单条活跃评论，经过响应缓存。
// @Tags         comments (评论)
// @Produce      json
// @Param        post_id path uint64 true "帖子ID" format(uint64) minimum(1)
// @Param        comment_id path uint64 true "评论ID" format(uint64) minimum(1)
// @Success      200 {object} vo.CommentVOWrapper "成功响应，包含评论详情"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的路径参数"
// @Failure      404 {object} vo.BaseResponseWrapper "评论不存在"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/feed/posts/{post_id}/comments/{comment_id} [get]
func (ctrl *CommentController) GetComment(c *gin.Context) {
	if _, ok := parseUintParam(c, "post_id"); !ok {
		return
	}
	commentID, ok := parseUintParam(c, "comment_id")
	if !ok {
		return
	}

	key := constant.ResponseCachePrefix + cachekey.FromRequest(c.Request.URL.Path, nil)
	data, err := ctrl.feedQueryService.CachedJSON(c.Request.Context(), key, func(ctx context.Context) (interface{}, error) {
		return ctrl.commentService.GetCommentByID(ctx, commentID)
	})
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			response.RespondError(c, http.StatusNotFound, response.ErrCodeClientResourceNotFound, "评论不存在")
			return
		}
		response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "获取评论失败: "+err.Error())
		return
	}
	response.RespondSuccess(c, data, "评论获取成功")
}

// ListComments 分页获取帖子评论
// @Summary      获取帖子评论列表
// @Description  分页获取指定帖子的活跃评论 (旧的在前)，经过响应缓存。
// @Tags         comments (评论)
// @Produce      json
// @Param        post_id path uint64 true "帖子ID" format(uint64) minimum(1)
// @Param        page query int false "页码 (从1开始)" format(int32) minimum(1) default(1)
// @Param        page_size query int false "每页数量" format(int32) minimum(1) maximum(100) default(20)
// @Success      200 {object} vo.ListCommentsVOWrapper "成功响应，包含评论列表与总数"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的查询参数"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/feed/posts/{post_id}/comments [get]
func (ctrl *CommentController) ListComments(c *gin.Context) {
	postID, ok := parseUintParam(c, "post_id")
	if !ok {
		return
	}

	var reqDTO dto.ListCommentsRequest
	if err := c.ShouldBindQuery(&reqDTO); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的查询参数: "+err.Error())
		return
	}

	key := constant.ResponseCachePrefix + cachekey.FromRequest(c.Request.URL.Path, c.Request.URL.Query())
	data, err := ctrl.feedQueryService.CachedJSON(c.Request.Context(), key, func(ctx context.Context) (interface{}, error) {
		return ctrl.commentService.ListCommentsByPost(ctx, postID, &reqDTO)
	})
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "获取评论列表失败: "+err.Error())
		return
	}
	response.RespondSuccess(c, data, "评论列表获取成功")
}

// RegisterRoutes 注册 CommentController 的路由
// 评论路由挂在帖子资源之下，缓存 Key 因此天然落在所属帖子的命名空间里。
func (ctrl *CommentController) RegisterRoutes(group *gin.RouterGroup) {
	comments := group.Group("/posts/:post_id/comments")
	{
		comments.POST("", ctrl.CreateComment)             // POST   /api/v1/feed/posts/:post_id/comments
		comments.GET("", ctrl.ListComments)               // GET    /api/v1/feed/posts/:post_id/comments
		comments.GET("/:comment_id", ctrl.GetComment)     // GET    /api/v1/feed/posts/:post_id/comments/:comment_id
		comments.DELETE("/:comment_id", ctrl.DeleteComment) // DELETE /api/v1/feed/posts/:post_id/comments/:comment_id
	}
}

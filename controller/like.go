package controller

import (
	"errors"
	"net/http"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/response"
	"github.com/gin-gonic/gin"

	"github.com/Xushengqwer/feed_service/myErrors"
	"github.com/Xushengqwer/feed_service/service"
)

// LikeController 定义点赞控制器的结构体
type LikeController struct {
	likeService service.LikeService
}

// NewLikeController 构造函数，用于创建 LikeController 实例
func NewLikeController(likeService service.LikeService) *LikeController {
	return &LikeController{likeService: likeService}
}

// LikePost 点赞帖子
// @Summary      点赞帖子
// @Description  给指定帖子点赞。同一用户对同一帖子仅一条活跃点赞，重复点赞返回 409。
// @Tags         likes (点赞)
// @Produce      json
// @Param        post_id path uint64 true "帖子ID" format(uint64) minimum(1)
// @Success      200 {object} vo.BaseResponseWrapper "点赞成功"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的路径参数"
// @Failure      401 {object} vo.BaseResponseWrapper "用户未授权"
// @Failure      404 {object} vo.BaseResponseWrapper "帖子不存在"
// @Failure      409 {object} vo.BaseResponseWrapper "已点赞过该帖子"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/feed/posts/{post_id}/like [post]
func (ctrl *LikeController) LikePost(c *gin.Context) {
	postID, ok := parseUintParam(c, "post_id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := ctrl.likeService.LikePost(c.Request.Context(), postID, userID); err != nil {
		switch {
		case errors.Is(err, commonerrors.ErrRepoNotFound):
			response.RespondError(c, http.StatusNotFound, response.ErrCodeClientResourceNotFound, "帖子不存在")
		case errors.Is(err, myErrors.ErrAlreadyLiked):
			response.RespondError(c, http.StatusConflict, response.ErrCodeClientInvalidInput, "已点赞过该帖子")
		default:
			response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "点赞失败: "+err.Error())
		}
		return
	}
	response.RespondSuccess[any](c, nil, "点赞成功")
}

// UnlikePost 取消点赞
// @Summary      取消点赞
// @Description  取消对指定帖子的点赞。没有活跃点赞时幂等返回成功。
// @Tags         likes (点赞)
// @Produce      json
// @Param        post_id path uint64 true "帖子ID" format(uint64) minimum(1)
// @Success      200 {object} vo.BaseResponseWrapper "取消成功"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的路径参数"
// @Failure      401 {object} vo.BaseResponseWrapper "用户未授权"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/feed/posts/{post_id}/like [delete]
func (ctrl *LikeController) UnlikePost(c *gin.Context) {
	postID, ok := parseUintParam(c, "post_id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := ctrl.likeService.UnlikePost(c.Request.Context(), postID, userID); err != nil {
		response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "取消点赞失败: "+err.Error())
		return
	}
	response.RespondSuccess[any](c, nil, "取消点赞成功")
}

// RegisterRoutes 注册 LikeController 的路由
func (ctrl *LikeController) RegisterRoutes(group *gin.RouterGroup) {
	likes := group.Group("/posts/:post_id/like")
	{
		likes.POST("", ctrl.LikePost)     // POST   /api/v1/feed/posts/:post_id/like
		likes.DELETE("", ctrl.UnlikePost) // DELETE /api/v1/feed/posts/:post_id/like
	}
}

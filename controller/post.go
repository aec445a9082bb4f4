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

// PostController 定义帖子控制器的结构体
type PostController struct {
	postService      service.PostService
	feedQueryService service.FeedQueryService
}

// NewPostController 构造函数，用于创建 PostController 实例
func NewPostController(postService service.PostService, feedQueryService service.FeedQueryService) *PostController {
	return &PostController{
		postService:      postService,
		feedQueryService: feedQueryService,
	}
}

// CreatePost 发布新帖子
// @Summary      发布帖子
// @Description  创建新帖子。正文中的话题标签 (#xxx) 由系统自动提取；作者 ID 从请求上下文获取。
// @Tags         posts (帖子)
// @Accept       json
// @Produce      json
// @Param        request body dto.CreatePostRequest true "帖子内容"
// @Success      200 {object} vo.PostVOWrapper "成功响应，包含新帖子信息"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的请求参数"
// @Failure      401 {object} vo.BaseResponseWrapper "用户未授权"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/feed/posts [post]
func (ctrl *PostController) CreatePost(c *gin.Context) {
	var reqDTO dto.CreatePostRequest
	if err := c.ShouldBindJSON(&reqDTO); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的请求体: "+err.Error())
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	postVO, err := ctrl.postService.CreatePost(c.Request.Context(), &reqDTO, userID)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "创建帖子失败: "+err.Error())
		return
	}
	response.RespondSuccess(c, postVO, "帖子创建成功")
}

// DeletePost 删除帖子
// @Summary      删除帖子
// @Description  软删除指定帖子，仅作者本人可操作。
// @Tags         posts (帖子)
// @Produce      json
// @Param        post_id path uint64 true "帖子ID" format(uint64) minimum(1)
// @Success      200 {object} vo.BaseResponseWrapper "删除成功"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的路径参数"
// @Failure      401 {object} vo.BaseResponseWrapper "用户未授权"
// @Failure      403 {object} vo.BaseResponseWrapper "非帖子作者"
// @Failure      404 {object} vo.BaseResponseWrapper "帖子不存在"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/feed/posts/{post_id} [delete]
func (ctrl *PostController) DeletePost(c *gin.Context) {
	postID, ok := parseUintParam(c, "post_id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := ctrl.postService.DeletePost(c.Request.Context(), postID, userID); err != nil {
		switch {
		case errors.Is(err, commonerrors.ErrRepoNotFound):
			response.RespondError(c, http.StatusNotFound, response.ErrCodeClientResourceNotFound, "帖子不存在")
		case errors.Is(err, myErrors.ErrNotOwner):
			response.RespondError(c, http.StatusForbidden, response.ErrCodeClientUnauthorized, "仅帖子作者可删除")
		default:
			response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "删除帖子失败: "+err.Error())
		}
		return
	}
	response.RespondSuccess[any](c, nil, "帖子删除成功")
}

// GetPostDetail 获取帖子详情
// @Summary      获取帖子详情
// @Description  获取单个帖子的详细信息（含统计计数与话题标签），经过响应缓存。
// @Tags         posts (帖子)
// @Produce      json
// @Param        post_id path uint64 true "帖子ID" format(uint64) minimum(1)
// @Success      200 {object} vo.PostVOWrapper "成功响应，包含帖子详情"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的路径参数"
// @Failure      404 {object} vo.BaseResponseWrapper "帖子不存在"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/feed/posts/{post_id} [get]
func (ctrl *PostController) GetPostDetail(c *gin.Context) {
	postID, ok := parseUintParam(c, "post_id")
	if !ok {
		return
	}

	key := constant.ResponseCachePrefix + cachekey.FromRequest(c.Request.URL.Path, nil)
	data, err := ctrl.feedQueryService.CachedJSON(c.Request.Context(), key, func(ctx context.Context) (interface{}, error) {
		return ctrl.postService.GetPostDetail(ctx, postID)
	})
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			response.RespondError(c, http.StatusNotFound, response.ErrCodeClientResourceNotFound, "帖子不存在")
			return
		}
		response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "获取帖子详情失败: "+err.Error())
		return
	}
	response.RespondSuccess(c, data, "帖子详情获取成功")
}

// ListPosts 游标分页获取帖子列表
// @Summary      获取帖子列表 (游标分页)
// @Description  按 ID 倒序游标加载帖子列表，经过响应缓存。
// @Tags         posts (帖子)
// @Produce      json
// @Param        cursor query uint64 false "上一页最后一条帖子的ID" format(uint64)
// @Param        page_size query int true "每页数量" format(int32) minimum(1) maximum(100) default(10)
// @Success      200 {object} vo.ListPostsByCursorVOWrapper "成功响应，包含帖子列表与下一页游标"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的查询参数"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/feed/posts [get]
func (ctrl *PostController) ListPosts(c *gin.Context) {
	var reqDTO dto.ListPostsByCursorRequest
	if err := c.ShouldBindQuery(&reqDTO); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的查询参数: "+err.Error())
		return
	}

	// 列表缓存统一落在 posts:params 命名空间下，视图名并入参数集以区分
	// 同一资源上的不同列表形态 (游标列表 / 搜索)。
	params := c.Request.URL.Query()
	params.Set("view", "timeline")
	key := constant.ResponseCachePrefix + cachekey.Build([]cachekey.Segment{{Resource: "posts"}}, params)

	data, err := ctrl.feedQueryService.CachedJSON(c.Request.Context(), key, func(ctx context.Context) (interface{}, error) {
		return ctrl.postService.ListPostsByCursor(ctx, &reqDTO)
	})
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "获取帖子列表失败: "+err.Error())
		return
	}
	response.RespondSuccess(c, data, "帖子列表获取成功")
}

// SearchPosts 搜索帖子
// @Summary      搜索帖子
// @Description  在搜索索引上按关键词检索帖子，支持白名单排序与地理范围过滤，经过响应缓存。
// @Tags         posts (帖子)
// @Produce      json
// @Param        q query string false "检索词，匹配帖子标题" maxLength(200)
// @Param        ordering query string false "排序字段 (倒序): modified / comments_count / likes_count"
// @Param        latitude query number false "纬度" minimum(-90) maximum(90)
// @Param        longitude query number false "经度" minimum(-180) maximum(180)
// @Param        distance query string false "距离，形如 10km"
// @Param        page query int false "页码 (从1开始)" format(int32) minimum(1) default(1)
// @Param        page_size query int false "每页数量" format(int32) minimum(1) maximum(100) default(20)
// @Success      200 {object} vo.SearchPostsVOWrapper "成功响应，包含命中列表与总数"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的查询参数或排序字段"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/feed/posts/search [get]
func (ctrl *PostController) SearchPosts(c *gin.Context) {
	var reqDTO dto.SearchPostsRequest
	if err := c.ShouldBindQuery(&reqDTO); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的查询参数: "+err.Error())
		return
	}

	params := c.Request.URL.Query()
	params.Set("view", "search")
	key := constant.ResponseCachePrefix + cachekey.Build([]cachekey.Segment{{Resource: "posts"}}, params)

	data, err := ctrl.feedQueryService.CachedJSON(c.Request.Context(), key, func(ctx context.Context) (interface{}, error) {
		return ctrl.feedQueryService.SearchPosts(ctx, &reqDTO)
	})
	if err != nil {
		if errors.Is(err, myErrors.ErrInvalidOrderField) {
			response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "不支持的排序字段: "+reqDTO.Ordering)
			return
		}
		response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "搜索帖子失败: "+err.Error())
		return
	}
	response.RespondSuccess(c, data, "帖子搜索成功")
}

// RegisterRoutes 注册 PostController 的路由
func (ctrl *PostController) RegisterRoutes(group *gin.RouterGroup) {
	posts := group.Group("/posts")
	{
		posts.POST("", ctrl.CreatePost)            // POST   /api/v1/feed/posts
		posts.GET("", ctrl.ListPosts)              // GET    /api/v1/feed/posts
		posts.GET("/search", ctrl.SearchPosts)     // GET    /api/v1/feed/posts/search
		posts.GET("/:post_id", ctrl.GetPostDetail) // GET    /api/v1/feed/posts/:post_id
		posts.DELETE("/:post_id", ctrl.DeletePost) // DELETE /api/v1/feed/posts/:post_id
	}
}

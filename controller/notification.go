package controller

import (
	"net/http"

	"github.com/Xushengqwer/go-common/response"
	"github.com/gin-gonic/gin"

	"github.com/Xushengqwer/feed_service/models/dto"
	"github.com/Xushengqwer/feed_service/service"
)

// NotificationController 定义通知控制器的结构体
type NotificationController struct {
	notificationService service.NotificationService
}

// NewNotificationController 构造函数，用于创建 NotificationController 实例
func NewNotificationController(notificationService service.NotificationService) *NotificationController {
	return &NotificationController{notificationService: notificationService}
}

// ListMyNotifications 获取当前用户的通知列表
// @Summary      获取我的通知
// @Description  分页获取当前登录用户的通知 (新的在前)。UserID 从请求上下文中获取。
// @Tags         notifications (通知)
// @Produce      json
// @Param        page query int false "页码 (从1开始)" format(int32) minimum(1) default(1)
// @Param        page_size query int false "每页数量" format(int32) minimum(1) maximum(100) default(20)
// @Success      200 {object} vo.ListNotificationsVOWrapper "成功响应，包含通知列表与总数"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的查询参数"
// @Failure      401 {object} vo.BaseResponseWrapper "用户未授权"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/feed/notifications [get]
func (ctrl *NotificationController) ListMyNotifications(c *gin.Context) {
	var reqDTO dto.ListNotificationsRequest
	if err := c.ShouldBindQuery(&reqDTO); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的查询参数: "+err.Error())
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	// 通知是强个人数据且读写比低，不经过响应缓存
	result, err := ctrl.notificationService.ListMyNotifications(c.Request.Context(), userID, &reqDTO)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "获取通知列表失败: "+err.Error())
		return
	}
	response.RespondSuccess(c, result, "通知列表获取成功")
}

// RegisterRoutes 注册 NotificationController 的路由
func (ctrl *NotificationController) RegisterRoutes(group *gin.RouterGroup) {
	group.GET("/notifications", ctrl.ListMyNotifications) // GET /api/v1/feed/notifications
}

package service

import (
	"context"
	"fmt"

	"github.com/Xushengqwer/go-common/core"

	"github.com/Xushengqwer/feed_service/models/dto"
	"github.com/Xushengqwer/feed_service/models/vo"
	"github.com/Xushengqwer/feed_service/repo/mysql"
)

// NotificationService 定义了通知的读路径接口。
// 通知的创建在计数消费者的副作用流程里完成，这里只提供查询。
type NotificationService interface {
	// ListMyNotifications 分页获取当前用户的通知 (新的在前)。
	ListMyNotifications(ctx context.Context, userID string, req *dto.ListNotificationsRequest) (*vo.ListNotificationsVO, error)
}

type notificationService struct {
	notificationRepo mysql.NotificationRepository
	logger           *core.ZapLogger
}

// NewNotificationService 是 notificationService 的构造函数。
func NewNotificationService(notificationRepo mysql.NotificationRepository, logger *core.ZapLogger) NotificationService {
	return &notificationService{notificationRepo: notificationRepo, logger: logger}
}

func (s *notificationService) ListMyNotifications(ctx context.Context, userID string, req *dto.ListNotificationsRequest) (*vo.ListNotificationsVO, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}

	notifications, total, err := s.notificationRepo.ListByRecipient(ctx, userID, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, fmt.Errorf("查询通知列表失败: %w", err)
	}

	result := &vo.ListNotificationsVO{
		Notifications: make([]*vo.NotificationVO, 0, len(notifications)),
		Total:         total,
	}
	for _, n := range notifications {
		result.Notifications = append(result.Notifications, &vo.NotificationVO{
			ID:        n.ID,
			Message:   n.Message,
			CreatedAt: n.CreatedAt,
		})
	}
	return result, nil
}

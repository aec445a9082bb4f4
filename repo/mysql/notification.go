package mysql

import (
	"context"

	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/feed_service/models/entities"
)

// NotificationRepository 通知持久化操作接口。
// 通知是追加写记录: 只有 Create 与按接收者分页查询，没有更新。
type NotificationRepository interface {
	CreateNotification(ctx context.Context, notification *entities.Notification) error
	ListByRecipient(ctx context.Context, recipientID string, offset, limit int) ([]*entities.Notification, int64, error)
}

type notificationRepository struct {
	db     *gorm.DB
	logger *core.ZapLogger
}

func NewNotificationRepository(db *gorm.DB, logger *core.ZapLogger) NotificationRepository {
	return &notificationRepository{db: db, logger: logger}
}

func (r *notificationRepository) CreateNotification(ctx context.Context, notification *entities.Notification) error {
	if err := r.db.WithContext(ctx).Create(notification).Error; err != nil {
		r.logger.Error("创建通知失败",
			zap.Error(err),
			zap.String("recipientID", notification.RecipientID),
		)
		return err
	}
	return nil
}

func (r *notificationRepository) ListByRecipient(ctx context.Context, recipientID string, offset, limit int) ([]*entities.Notification, int64, error) {
	var notifications []*entities.Notification
	var total int64

	base := r.db.WithContext(ctx).Model(&entities.Notification{}).Where("recipient_id = ?", recipientID)
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return notifications, 0, nil
	}

	err := r.db.WithContext(ctx).
		Where("recipient_id = ?", recipientID).
		Order("created_at DESC").Order("id DESC").
		Offset(offset).Limit(limit).
		Find(&notifications).Error
	if err != nil {
		return nil, 0, err
	}
	return notifications, total, nil
}

package entities

import (
	"github.com/Xushengqwer/go-common/models/entities"
)

// Notification 通知实体
// - 表名: notifications
// - 追加写: 仅由副作用流程创建（他人点赞/评论时通知帖子作者），创建后不更新
type Notification struct {
	entities.BaseModel

	// 接收者用户ID (UUID)
	RecipientID string `gorm:"type:char(36);not null;index"`

	// 通知文案
	Message string `gorm:"type:text;not null"`
}

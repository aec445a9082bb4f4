package entities

import (
	"github.com/Xushengqwer/go-common/models/entities"
)

// Comment 评论实体
// - 表名: comments
// - 软删除: deleted_at，删除后仍保留行，用于"确实活跃过"的递减校验
type Comment struct {
	entities.BaseModel

	// 评论内容
	Content string `gorm:"type:text;not null"`

	// 评论作者ID (UUID)
	AuthorID string `gorm:"type:char(36);not null;index"`

	// 所属帖子ID，外键
	PostID uint64 `gorm:"type:bigint;not null;index"`
}

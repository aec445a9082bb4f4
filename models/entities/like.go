package entities

import (
	"github.com/Xushengqwer/go-common/models/entities"
)

// Like 点赞实体
// - 表名: likes
// - "同一用户对同一帖子仅一条活跃点赞"由服务层在写入前校验（活跃行查询），
//   软删除后允许重新点赞，故数据库层只建普通联合索引
type Like struct {
	entities.BaseModel

	// 所属帖子ID，外键
	PostID uint64 `gorm:"type:bigint;not null;index:idx_like_post_user"`

	// 点赞用户ID (UUID)
	AuthorID string `gorm:"type:char(36);not null;index:idx_like_post_user"`
}

package entities

import (
	"github.com/Xushengqwer/go-common/models/entities"
)

// Hashtag 话题标签实体
// - 表名: hashtags
// - 由帖子正文提取流程 get-or-create，不提供独立的写接口
type Hashtag struct {
	entities.BaseModel

	// 标签名（不含 # 前缀），唯一
	Name string `gorm:"type:varchar(255);not null;uniqueIndex"`
}

package entities

import (
	"github.com/Xushengqwer/go-common/models/entities"
)

// Category 分类实体
// - 表名: categories
// - 删除分类时不级联删除帖子: 同一事务内先把帖子改挂到兜底分类，
//   再对分类行做软删除
type Category struct {
	entities.BaseModel

	// 分类名称，唯一
	Name string `gorm:"type:varchar(100);not null;uniqueIndex"`
}

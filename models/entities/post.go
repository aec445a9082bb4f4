package entities

import (
	"github.com/Xushengqwer/go-common/models/entities"
)

// Post 帖子实体
// - 使用场景: 信息流的核心内容，列表页与详情页均以此为数据源
// - 表名: posts (GORM 默认使用结构体名复数形式)
// - 软删除: 通过 BaseModel 中的 deleted_at 实现，数据不做物理删除
type Post struct {
	entities.BaseModel // 嵌入自定义的 BaseModel ,包含 ID, CreatedAt, UpdatedAt, DeletedAt，支持软删除

	// 标题，必填且全局唯一，最大长度200个字符
	// - GORM 标签: uniqueIndex 保证标题唯一，not null 表示非空
	Title string `gorm:"type:varchar(200);not null;uniqueIndex"`

	// 正文内容，支持多行文本
	// - 类型: text，帖子正文可能较长并包含话题标签（如 "#golang"）
	// - 话题标签由系统在发布/编辑后从正文中提取，用户不直接维护
	Content string `gorm:"type:text;not null"`

	// 作者ID，关联用户服务，外键语义（用户数据不在本服务）
	// - 类型: char(36)，用户ID为UUID格式
	AuthorID string `gorm:"type:char(36);not null;index"`

	// 作者用户名
	// - 冗余字段，数据来源于用户服务，避免列表页跨服务调用
	// - 同时作为搜索索引文档中的 author 字段
	AuthorUsername string `gorm:"type:varchar(50);not null"`

	// 分类ID，外键，关联 categories 表
	// - 分类被删除时帖子改挂到兜底分类（constant.DefaultCategoryID），
	//   因此该字段始终指向一个有效分类
	CategoryID uint64 `gorm:"type:bigint;not null;index"`

	// 纬度/经度，可选，用于搜索索引中的 geo_distance 过滤
	// - 类型: decimal(19,15)，与经纬度精度需求匹配
	Latitude  float64 `gorm:"type:decimal(19,15);default:0"`
	Longitude float64 `gorm:"type:decimal(19,15);default:0"`

	// 话题标签，多对多关系，中间表 post_hashtags
	// - 由帖子保存后的提取流程维护，整组替换
	Hashtags []*Hashtag `gorm:"many2many:post_hashtags"`
}

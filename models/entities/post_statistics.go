package entities

import (
	"github.com/Xushengqwer/go-common/models/entities"
)

// PostStatistics 帖子统计实体（反范式化计数器）
// - 表名: post_statistics
// - 关系: 与 Post 一对一，通过 PostID 关联；随帖子创建事务一并创建，
//   计数初始为零。除创建外，唯一的写入方是计数更新 Worker 与对账任务。
// - 并发约定: 该行是系统中唯一的共享可变资源，增减必须走
//   PostStatisticsRepository.AtomicIncrement 的单条原子 UPDATE，
//   禁止读-改-写（多 Worker 并发处理同一帖子的事件时会丢失更新）。
type PostStatistics struct {
	entities.BaseModel // 嵌入自定义的 BaseModel ,包含 ID, CreatedAt, UpdatedAt, DeletedAt，支持软删除

	// 帖子ID，外键，唯一约束保证一对一关系
	PostID uint64 `gorm:"type:bigint;unique;not null"`

	// 点赞数，非负
	// - 递减时在 SQL 层钳制到 0（GREATEST），重复投递的 deleted 事件
	//   不会把计数打成负数
	LikesCount int64 `gorm:"type:bigint;not null;default:0;index"`

	// 评论数
	// - 故意不做非负钳制: 出现负值意味着事件流存在缺陷（如幂等失效导致的
	//   重复递减），保留负值作为缺陷信号供对账任务和告警发现
	CommentsCount int64 `gorm:"type:bigint;not null;default:0;index"`
}

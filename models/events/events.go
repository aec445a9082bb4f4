package events

import "time"

// EntityKind 标识变更事件涉及的内容实体类型。
// 路由层不解释该字段，只负责投递；各消费端按标签做多态分发，
// 新增实体类型时只需扩展消费端的映射，不修改路由。
type EntityKind string

const (
	KindPost    EntityKind = "post"
	KindComment EntityKind = "comment"
	KindLike    EntityKind = "like"
)

// Operation 标识对实体的操作类型。
// 删除一律指软删除（填充 deleted_at），本系统不做物理删除。
type Operation string

const (
	OpCreated Operation = "created"
	OpDeleted Operation = "deleted"
)

// MutationEvent 内容变更事件。
// 写路径在存储事务提交后同步发布，经由 Kafka 扇出给计数更新 Worker
// 与缓存失效引擎（两个独立的消费组各收到一份）。
// 事件本身不落库，队列提供 at-least-once 语义；EventID 作为幂等键。
type MutationEvent struct {
	EventID      string     `json:"event_id"`       // 唯一事件ID (UUID)，消费端幂等检测用
	Timestamp    time.Time  `json:"timestamp"`      // 事件产生时间
	EntityKind   EntityKind `json:"entity_kind"`    // 实体类型: post / comment / like
	EntityID     uint64     `json:"entity_id"`      // 实体主键
	Operation    Operation  `json:"operation"`      // created / deleted
	ParentPostID uint64     `json:"parent_post_id"` // 所属帖子ID; 实体为帖子时等于 EntityID
}

// StatisticsChangedEvent 统计变更事件。
// 计数更新 Worker 在计数器成功落库后发布，触发缓存失效引擎（覆盖缓存
// 详情负载中内嵌的计数字段）与搜索索引同步器。
// EntityKind/EntityID 透传触发源，缓存失效引擎据此套用与触发实体相同的
// 失效规则。
type StatisticsChangedEvent struct {
	EventID    string     `json:"event_id"`
	Timestamp  time.Time  `json:"timestamp"`
	PostID     uint64     `json:"post_id"`
	EntityKind EntityKind `json:"entity_kind"` // 触发本次统计变更的实体类型 (comment / like)
	EntityID   uint64     `json:"entity_id"`   // 触发实体的主键
}

// DeadLetterEntry 死信记录。
// 重试预算耗尽的事件连同最后一次错误与尝试次数写入 Redis 死信列表，
// 供运维检视，绝不静默丢弃。
type DeadLetterEntry struct {
	Event     MutationEvent `json:"event"`
	Attempts  int           `json:"attempts"`
	LastError string        `json:"last_error"`
	FailedAt  time.Time     `json:"failed_at"`
}

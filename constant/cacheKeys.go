package constant

import "time"

// Redis Key 相关常量 (导出)
const (
	// ResponseCachePrefix 是响应缓存命名空间的统一前缀。
	// 实际 Key 由 cachekey 包根据请求路径与查询参数生成，形如:
	//   "feed_cache:posts:params:<sha256>"          (帖子列表缓存)
	//   "feed_cache:posts:<sha256(postID)>"         (帖子详情缓存)
	//   "feed_cache:posts:<sha256>:comments:params:<sha256>" (评论列表缓存)
	// Redis 类型: String (序列化后的响应负载)
	ResponseCachePrefix = "feed_cache:"

	// EventDedupPrefix 是事件幂等标记的 Key 前缀。
	// 每个已处理的变更事件会写入一个短期存在的标记 Key，用于 at-least-once
	// 语义下的重复投递检测（尽力而为，进程重启后仍然有效，TTL 到期后失效）。
	// 示例 Key: "feed_event_seen:3f0a..." (UUID)
	// Redis 类型: String
	EventDedupPrefix = "feed_event_seen:"

	// DeadLetterKey 是死信事件列表的 Key 名称。
	// 重试耗尽的事件连同错误信息被追加到该 List，供运维人员排查，绝不静默丢弃。
	// Redis 类型: List (JSON 序列化的 DeadLetterEntry)
	DeadLetterKey = "feed_dead_letter"
)

// 缓存与幂等标记的默认生存时间
const (
	// ResponseCacheTTL 响应缓存的默认 TTL，配置未指定时使用。
	ResponseCacheTTL = 15 * time.Minute

	// EventDedupTTL 幂等标记的保留窗口。
	// 超出该窗口的重复投递不再能被检测到，属于可接受的尽力而为语义。
	EventDedupTTL = 24 * time.Hour
)

package config

// CacheConfig 响应缓存相关配置
type CacheConfig struct {
	// TTLSeconds 响应缓存条目的生存秒数；<=0 时使用 constant.ResponseCacheTTL。
	// TTL 只是兜底——正确性由失效引擎保证，过期只为限制失效消息全部丢失时
	// 的最坏陈旧窗口。
	TTLSeconds int `mapstructure:"ttl_seconds" json:"ttl_seconds" yaml:"ttl_seconds"`
}

package config

// StatsSyncConfig 统计对账任务相关的配置。
// 对账任务周期性地从 likes/comments 源数据重算计数，分批并发修复
// post_statistics 中漂移的行。
type StatsSyncConfig struct {
	// BatchSize 每个数据库更新批次包含的帖子数量。
	// 例如有 20 万帖子需要校验且 BatchSize 为 500 时，任务会拆成 400 个
	// 小批次，每批通过一条 CASE WHEN UPDATE 完成。
	BatchSize int `mapstructure:"batchSize" json:"batchSize" yaml:"batchSize"`

	// ConcurrencyLevel 并发处理批次的 worker (goroutine) 数量。
	// 决定同时向数据库发起更新的并发连接数。
	ConcurrencyLevel int `mapstructure:"concurrencyLevel" json:"concurrencyLevel" yaml:"concurrencyLevel"`
}

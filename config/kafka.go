package config

type KafkaConfig struct {
	Brokers        []string       `mapstructure:"brokers" json:"brokers" yaml:"brokers"`
	Topics         Topics         `mapstructure:"topics" json:"topics" yaml:"topics"`
	ConsumerGroups ConsumerGroups `mapstructure:"consumer_groups" json:"consumer_groups" yaml:"consumer_groups"`
}

type Topics struct {
	FeedMutation      string `mapstructure:"feedMutation" yaml:"feedMutation"`           // 内容变更事件主题
	StatisticsChanged string `mapstructure:"statisticsChanged" yaml:"statisticsChanged"` // 统计变更事件主题
}

// ConsumerGroups 各消费端的消费组 ID。
// 变更主题被计数组与失效组各消费一份，统计主题被失效组与搜索组各消费
// 一份——扇出靠独立消费组实现，而不是在路由层复制消息。
type ConsumerGroups struct {
	Counter      string `mapstructure:"counter" yaml:"counter"`           // 计数更新 Worker
	Invalidation string `mapstructure:"invalidation" yaml:"invalidation"` // 缓存失效引擎
	Search       string `mapstructure:"search" yaml:"search"`             // 搜索索引同步器
}

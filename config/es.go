package config

// ESConfig Elasticsearch 连接配置。
// 搜索索引是外部协作方，本服务只负责同步契约: 统计变更后整篇替换文档。
type ESConfig struct {
	Addresses []string `mapstructure:"addresses" json:"addresses" yaml:"addresses"`
	Username  string   `mapstructure:"username" json:"username" yaml:"username"`
	Password  string   `mapstructure:"password" json:"password" yaml:"password"`
	// PostIndex 帖子文档索引名，默认 "posts"
	PostIndex string `mapstructure:"postIndex" json:"postIndex" yaml:"postIndex"`
}

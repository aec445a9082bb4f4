// dependencies/elasticsearch.go
package dependencies

import (
	"fmt"

	"github.com/Xushengqwer/go-common/core"
	elasticsearch "github.com/elastic/go-elasticsearch/v8"
	"go.uber.org/zap"

	appConfig "github.com/Xushengqwer/feed_service/config"
)

// InitElasticsearch 初始化 Elasticsearch 客户端。
// 搜索引擎是外部协作方，短暂不可用按瞬时错误处理（消费端重试 + 死信），
// 因此这里不做 Ping 阻塞启动。
func InitElasticsearch(cfg *appConfig.ESConfig, logger *core.ZapLogger) (*elasticsearch.Client, error) {
	if len(cfg.Addresses) == 0 {
		return nil, fmt.Errorf("elasticsearch 地址 (es.addresses) 未配置")
	}

	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: cfg.Addresses,
		Username:  cfg.Username,
		Password:  cfg.Password,
	})
	if err != nil {
		logger.Error("初始化 Elasticsearch 客户端失败", zap.Error(err))
		return nil, fmt.Errorf("初始化 Elasticsearch 客户端失败: %w", err)
	}

	logger.Info("Elasticsearch 客户端初始化成功", zap.Strings("addresses", cfg.Addresses))
	return client, nil
}

package consumer

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Xushengqwer/go-common/core"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/Xushengqwer/feed_service/config"
	"github.com/Xushengqwer/feed_service/models/events"
	"github.com/Xushengqwer/feed_service/service"
)

// InvalidationEventHandler 缓存失效消费组的消息处理器。
// - 同时订阅内容变更主题与统计变更主题: 前者由写路径直接发出，
//   后者由计数 Worker 在计数落库后发出 (缓存负载内嵌计数字段，计数变了
//   详情缓存也过期了)。
// - 失效删除是幂等的，因此不做事件去重，重复投递只是多删几次空 Key。
type InvalidationEventHandler struct {
	logger       *core.ZapLogger
	topics       config.Topics
	invalidation service.CacheInvalidationService
}

// NewInvalidationEventHandler 创建缓存失效消费组的消息处理器。
func NewInvalidationEventHandler(logger *core.ZapLogger, topics config.Topics, invalidation service.CacheInvalidationService) *InvalidationEventHandler {
	return &InvalidationEventHandler{
		logger:       logger,
		topics:       topics,
		invalidation: invalidation,
	}
}

func (h *InvalidationEventHandler) Handle(ctx context.Context, msg kafka.Message) error {
	var kind events.EntityKind
	var entityID, parentPostID uint64

	switch msg.Topic {
	case h.topics.FeedMutation:
		var event events.MutationEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			h.logger.Error("InvalidationEventHandler: 反序列化变更事件失败", zap.Error(err), zap.ByteString("value", msg.Value))
			return nil // 不重试无法解析的消息
		}
		kind, entityID, parentPostID = event.EntityKind, event.EntityID, event.ParentPostID
	case h.topics.StatisticsChanged:
		var event events.StatisticsChangedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			h.logger.Error("InvalidationEventHandler: 反序列化统计变更事件失败", zap.Error(err), zap.ByteString("value", msg.Value))
			return nil
		}
		// 统计变更套用与触发实体相同的失效规则。
		kind, entityID, parentPostID = event.EntityKind, event.EntityID, event.PostID
	default:
		h.logger.Warn("InvalidationEventHandler: 收到未订阅主题的消息", zap.String("topic", msg.Topic))
		return nil
	}

	if err := h.invalidation.Invalidate(ctx, kind, entityID, parentPostID); err != nil {
		// 留给 TTL 兜底，不阻塞消费进度。
		return fmt.Errorf("InvalidationEventHandler: 缓存失效失败: %w", err)
	}
	return nil
}

package redis

import (
	"context"
	"fmt"

	"github.com/Xushengqwer/go-common/core"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Xushengqwer/feed_service/constant"
)

// EventDedupRepository 定义了事件去重标记的 Redis 操作接口。
// - 事件总线是 at-least-once 投递，消费者收到重复事件是常态而非异常。
// - 去重是尽力而为 (best-effort): 标记带 TTL，Redis 故障或标记过期后重复事件
//   仍会放行，因此下游处理逻辑本身必须幂等，去重只是减少无谓工作量的优化。
type EventDedupRepository interface {
	// MarkProcessed 尝试为事件 ID 打上"已处理"标记。
	// - 使用 SETNX 保证同一事件只有第一个标记者成功。
	// - 输出: firstTime 为 true 表示首次见到该事件，调用方应继续处理；
	//   为 false 表示事件已被处理过，调用方应跳过。
	MarkProcessed(ctx context.Context, consumerGroup, eventID string) (firstTime bool, err error)
}

// eventDedupRepository 是 EventDedupRepository 接口的 Redis 实现。
type eventDedupRepository struct {
	redisClient *redis.Client
	logger      *core.ZapLogger
}

// NewEventDedupRepository 创建 EventDedupRepository 实例。
func NewEventDedupRepository(redisClient *redis.Client, logger *core.ZapLogger) EventDedupRepository {
	return &eventDedupRepository{redisClient: redisClient, logger: logger}
}

func (r *eventDedupRepository) MarkProcessed(ctx context.Context, consumerGroup, eventID string) (bool, error) {
	// 标记按消费组隔离: 同一事件被计数、失效、搜索三个消费组各处理一次是正确行为。
	key := fmt.Sprintf("%s%s:%s", constant.EventDedupPrefix, consumerGroup, eventID)

	firstTime, err := r.redisClient.SetNX(ctx, key, 1, constant.EventDedupTTL).Result()
	if err != nil {
		r.logger.Error("设置事件去重标记失败",
			zap.Error(err),
			zap.String("consumerGroup", consumerGroup),
			zap.String("eventID", eventID),
		)
		return false, fmt.Errorf("设置事件去重标记失败 (事件: %s): %w", eventID, err)
	}
	if !firstTime {
		r.logger.Debug("事件已处理过，去重标记命中",
			zap.String("consumerGroup", consumerGroup),
			zap.String("eventID", eventID),
		)
	}
	return firstTime, nil
}

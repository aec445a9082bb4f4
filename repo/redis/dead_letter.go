package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Xushengqwer/go-common/core"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Xushengqwer/feed_service/constant"
	"github.com/Xushengqwer/feed_service/models/events"
)

// DeadLetterRepository 定义了死信队列的 Redis 操作接口。
// - 消费者重试耗尽后把事件连同失败上下文落入死信列表，供人工排查或工具回放。
// - 死信入队失败只记录日志不再抛错: 此时事件已经无处可去，报错给调用方没有意义。
type DeadLetterRepository interface {
	// Push 将一条死信记录追加到死信列表尾部。
	Push(ctx context.Context, entry events.DeadLetterEntry) error

	// List 读取死信列表中的记录，用于运维检视。
	// - 输入: offset/limit 控制读取范围，limit <= 0 时读全量。
	List(ctx context.Context, offset, limit int64) ([]events.DeadLetterEntry, error)

	// Len 返回死信列表长度。
	Len(ctx context.Context) (int64, error)
}

// deadLetterRepository 是 DeadLetterRepository 接口的 Redis 实现。
type deadLetterRepository struct {
	redisClient *redis.Client
	logger      *core.ZapLogger
}

// NewDeadLetterRepository 创建 DeadLetterRepository 实例。
func NewDeadLetterRepository(redisClient *redis.Client, logger *core.ZapLogger) DeadLetterRepository {
	return &deadLetterRepository{redisClient: redisClient, logger: logger}
}

func (r *deadLetterRepository) Push(ctx context.Context, entry events.DeadLetterEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		r.logger.Error("序列化死信记录失败", zap.Error(err), zap.String("eventID", entry.Event.EventID))
		return fmt.Errorf("序列化死信记录失败 (事件: %s): %w", entry.Event.EventID, err)
	}

	if err := r.redisClient.RPush(ctx, constant.DeadLetterKey, data).Err(); err != nil {
		r.logger.Error("死信入队失败",
			zap.Error(err),
			zap.String("eventID", entry.Event.EventID),
			zap.String("lastError", entry.LastError),
		)
		return fmt.Errorf("死信入队失败 (事件: %s): %w", entry.Event.EventID, err)
	}

	r.logger.Warn("事件已落入死信队列",
		zap.String("eventID", entry.Event.EventID),
		zap.String("entityKind", string(entry.Event.EntityKind)),
		zap.Uint64("entityID", entry.Event.EntityID),
		zap.Int("attempts", entry.Attempts),
		zap.String("lastError", entry.LastError),
	)
	return nil
}

func (r *deadLetterRepository) List(ctx context.Context, offset, limit int64) ([]events.DeadLetterEntry, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = offset + limit - 1
	}
	raws, err := r.redisClient.LRange(ctx, constant.DeadLetterKey, offset, stop).Result()
	if err != nil {
		r.logger.Error("读取死信列表失败", zap.Error(err))
		return nil, fmt.Errorf("读取死信列表失败: %w", err)
	}

	entries := make([]events.DeadLetterEntry, 0, len(raws))
	for _, raw := range raws {
		var entry events.DeadLetterEntry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			// 损坏的记录跳过，不让单条坏数据挡住整个列表。
			r.logger.Error("反序列化死信记录失败，已跳过。", zap.Error(err), zap.String("raw", raw))
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (r *deadLetterRepository) Len(ctx context.Context) (int64, error) {
	n, err := r.redisClient.LLen(ctx, constant.DeadLetterKey).Result()
	if err != nil {
		return 0, fmt.Errorf("读取死信列表长度失败: %w", err)
	}
	return n, nil
}

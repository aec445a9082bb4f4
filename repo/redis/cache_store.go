package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Xushengqwer/go-common/core"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Xushengqwer/feed_service/constant"
	"github.com/Xushengqwer/feed_service/myErrors"
)

// CacheStore 定义了响应缓存的 Redis 操作接口。
// - 缓存是旁路缓存 (cache-aside): 读路径未命中时回源并写入，写路径只做失效。
// - 所有删除操作都是幂等的: 删除不存在的 Key 视为成功，失效事件重放无害。
type CacheStore interface {
	// Get 读取缓存条目。
	// - 未命中返回 myErrors.ErrCacheMiss，调用方据此回源；其他错误按基础设施故障处理。
	Get(ctx context.Context, key string) ([]byte, error)

	// Set 写入缓存条目并设置过期时间。
	// - ttl <= 0 时使用 constant.ResponseCacheTTL 作为兜底，避免产生永不过期的条目。
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete 删除若干精确 Key。幂等: 不存在的 Key 不报错。
	Delete(ctx context.Context, keys ...string) error

	// DeleteByPattern 删除所有匹配 glob 模式的 Key (如 "feed_cache:posts:params:*")。
	// - 使用 SCAN 分批迭代，避免 KEYS 阻塞 Redis；每批 Key 用一次 DEL 清掉。
	// - 输出: 删除的 Key 数量, error。
	DeleteByPattern(ctx context.Context, pattern string) (int64, error)
}

// cacheStore 是 CacheStore 接口的 Redis 实现。
type cacheStore struct {
	redisClient   *redis.Client
	logger        *core.ZapLogger
	scanBatchSize int64
}

// NewCacheStore 创建 CacheStore 实例。
func NewCacheStore(redisClient *redis.Client, logger *core.ZapLogger) CacheStore {
	return &cacheStore{
		redisClient:   redisClient,
		logger:        logger,
		scanBatchSize: 1000,
	}
}

func (s *cacheStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.redisClient.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, myErrors.ErrCacheMiss
		}
		s.logger.Error("读取缓存失败", zap.Error(err), zap.String("key", key))
		return nil, fmt.Errorf("读取缓存 '%s' 失败: %w", key, err)
	}
	return data, nil
}

func (s *cacheStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = constant.ResponseCacheTTL
	}
	if err := s.redisClient.Set(ctx, key, value, ttl).Err(); err != nil {
		s.logger.Error("写入缓存失败", zap.Error(err), zap.String("key", key))
		return fmt.Errorf("写入缓存 '%s' 失败: %w", key, err)
	}
	return nil
}

func (s *cacheStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	// DEL 对不存在的 Key 返回 0 而非错误，天然幂等。
	if err := s.redisClient.Del(ctx, keys...).Err(); err != nil {
		s.logger.Error("删除缓存 Key 失败", zap.Error(err), zap.Strings("keys", keys))
		return fmt.Errorf("删除缓存 Keys 失败 (%d 个): %w", len(keys), err)
	}
	return nil
}

// DeleteByPattern 使用 SCAN 命令安全地迭代并删除所有匹配的缓存 Key。
// 此方法服务于写路径的缓存失效: 列表类缓存的参数组合无法枚举，只能按前缀模式批量清除。
func (s *cacheStore) DeleteByPattern(ctx context.Context, pattern string) (int64, error) {
	var cursor uint64 = 0
	var deleted int64 = 0
	startTime := time.Now()

	// 使用 for 循环和 SCAN 命令迭代，直到游标返回 0，表示遍历完成。
	for {
		keys, nextCursor, err := s.redisClient.Scan(ctx, cursor, pattern, s.scanBatchSize).Result()
		if err != nil {
			s.logger.Error("执行 Redis SCAN 命令失败",
				zap.Error(err),
				zap.Uint64("cursor", cursor),
				zap.String("pattern", pattern),
			)
			return deleted, fmt.Errorf("扫描 Redis Keys 失败 (模式: %s): %w", pattern, err)
		}

		if len(keys) > 0 {
			count, delErr := s.redisClient.Del(ctx, keys...).Result()
			if delErr != nil {
				s.logger.Error("批量删除缓存 Key 失败",
					zap.Error(delErr),
					zap.Strings("keys_in_batch", keys),
				)
				return deleted, fmt.Errorf("批量删除缓存 Keys 失败 (%d 个): %w", len(keys), delErr)
			}
			deleted += count
		}

		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}

	s.logger.Debug("按模式删除缓存完成",
		zap.String("pattern", pattern),
		zap.Int64("deleted", deleted),
		zap.Duration("duration", time.Since(startTime)),
	)
	return deleted, nil
}

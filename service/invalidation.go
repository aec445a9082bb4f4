package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"

	"github.com/Xushengqwer/feed_service/cachekey"
	"github.com/Xushengqwer/feed_service/constant"
	"github.com/Xushengqwer/feed_service/models/events"
	redisRepo "github.com/Xushengqwer/feed_service/repo/redis"
)

// InvalidationTargets 一次失效操作要清除的缓存目标。
// - ExactKeys: 可以精确构造的单条目 Key (详情缓存)。
// - Patterns: 参数组合无法枚举的列表缓存，只能按 glob 模式批量清。
type InvalidationTargets struct {
	ExactKeys []string
	Patterns  []string
}

// CacheInvalidationService 缓存失效引擎。
// - 按"实体类型 -> 受影响的缓存命名空间"的静态规则表把变更事件翻译成
//   待清除的 Key 集合，宁可多清 (多一次回源) 不可少清 (服务过期数据)。
// - 删除是幂等的，事件重放安全。
type CacheInvalidationService interface {
	// KeysFor 计算事件影响的缓存目标。纯函数，便于对规则表做单元测试。
	KeysFor(kind events.EntityKind, entityID, parentPostID uint64) InvalidationTargets

	// Invalidate 执行失效: 删除精确 Key 并按模式批量清除列表缓存。
	Invalidate(ctx context.Context, kind events.EntityKind, entityID, parentPostID uint64) error
}

type cacheInvalidationService struct {
	cacheStore redisRepo.CacheStore
	logger     *core.ZapLogger
}

// NewCacheInvalidationService 创建缓存失效引擎实例。
func NewCacheInvalidationService(cacheStore redisRepo.CacheStore, logger *core.ZapLogger) CacheInvalidationService {
	return &cacheInvalidationService{cacheStore: cacheStore, logger: logger}
}

// KeysFor 实现失效规则表。
//
// Key 中的实体 ID 与读路径一致，统一经过摘要 (cachekey.HashID)，
// 保证失效端与生成端对同一资源算出同一段。
//
// 规则:
//   - 帖子变更:   所有帖子列表缓存 + 该帖子详情缓存。
//   - 评论变更:   帖子规则 (列表内嵌评论数) + 该帖子的评论列表缓存 + 该评论详情缓存。
//   - 点赞变更:   所有帖子列表缓存 + 该帖子详情缓存 (点赞无独立缓存端点)。
func (s *cacheInvalidationService) KeysFor(kind events.EntityKind, entityID, parentPostID uint64) InvalidationTargets {
	prefix := constant.ResponseCachePrefix
	postHash := cachekey.HashID(strconv.FormatUint(parentPostID, 10))

	postTargets := InvalidationTargets{
		Patterns:  []string{prefix + "posts:params:*"},
		ExactKeys: []string{prefix + "posts:" + postHash},
	}

	switch kind {
	case events.KindPost:
		return postTargets
	case events.KindLike:
		// 点赞只影响帖子负载中的计数字段，失效范围与帖子本身相同。
		return postTargets
	case events.KindComment:
		commentHash := cachekey.HashID(strconv.FormatUint(entityID, 10))
		postTargets.Patterns = append(postTargets.Patterns,
			prefix+"posts:"+postHash+":comments:params:*")
		postTargets.ExactKeys = append(postTargets.ExactKeys,
			prefix+"posts:"+postHash+":comments:"+commentHash)
		return postTargets
	default:
		// 未知实体类型: 不猜测影响范围，记录后跳过，等待规则表扩展。
		s.logger.Warn("失效规则表中没有该实体类型，跳过失效",
			zap.String("entity_kind", string(kind)),
			zap.Uint64("entity_id", entityID))
		return InvalidationTargets{}
	}
}

func (s *cacheInvalidationService) Invalidate(ctx context.Context, kind events.EntityKind, entityID, parentPostID uint64) error {
	targets := s.KeysFor(kind, entityID, parentPostID)
	if len(targets.ExactKeys) == 0 && len(targets.Patterns) == 0 {
		return nil
	}

	var firstErr error
	if err := s.cacheStore.Delete(ctx, targets.ExactKeys...); err != nil {
		firstErr = err
	}

	var deleted int64
	for _, pattern := range targets.Patterns {
		count, err := s.cacheStore.DeleteByPattern(ctx, pattern)
		deleted += count
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if firstErr != nil {
		// 失效失败意味着缓存继续服务过期数据直到 TTL，必须可见。
		s.logger.Error("缓存失效部分失败",
			zap.Error(firstErr),
			zap.String("entity_kind", string(kind)),
			zap.Uint64("parent_post_id", parentPostID))
		return fmt.Errorf("缓存失效失败 (实体: %s/%d): %w", kind, entityID, firstErr)
	}

	s.logger.Debug("缓存失效完成",
		zap.String("entity_kind", string(kind)),
		zap.Uint64("entity_id", entityID),
		zap.Uint64("parent_post_id", parentPostID),
		zap.Int("exact_keys", len(targets.ExactKeys)),
		zap.Int64("pattern_deleted", deleted))
	return nil
}

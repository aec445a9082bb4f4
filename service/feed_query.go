package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"

	"github.com/Xushengqwer/feed_service/config"
	"github.com/Xushengqwer/feed_service/constant"
	"github.com/Xushengqwer/feed_service/models/dto"
	"github.com/Xushengqwer/feed_service/models/vo"
	"github.com/Xushengqwer/feed_service/myErrors"
	"github.com/Xushengqwer/feed_service/repo/es"
	redisRepo "github.com/Xushengqwer/feed_service/repo/redis"
)

// FeedQueryService 信息流读路径: 旁路缓存 + 搜索查询。
//
// 缓存语义:
//   - 命中: 直接返回缓存的 JSON，不触碰数据库。
//   - 未命中: 执行 loader 回源，结果写入缓存后返回。
//   - 缓存故障: 降级为纯回源，读路径的可用性不依赖 Redis。
//
// 缓存条目本身不做主动续期，一致性由失效引擎 (写路径事件驱动的删除)
// 与 TTL 共同保证。
type FeedQueryService interface {
	// CachedJSON 按 Key 读缓存，未命中时执行 loader 并回填。
	// 返回 JSON 原文，控制器直接透传，避免命中路径上的二次编解码。
	CachedJSON(ctx context.Context, key string, loader func(ctx context.Context) (interface{}, error)) (json.RawMessage, error)

	// SearchPosts 在搜索索引上执行帖子检索。
	// 排序字段不在白名单内时返回 myErrors.ErrInvalidOrderField。
	SearchPosts(ctx context.Context, req *dto.SearchPostsRequest) (*vo.SearchPostsVO, error)
}

type feedQueryService struct {
	cacheStore redisRepo.CacheStore
	indexRepo  es.PostIndexRepository
	cacheTTL   time.Duration
	logger     *core.ZapLogger
}

// NewFeedQueryService 是 feedQueryService 的构造函数。
// 缓存 TTL 来自配置 (cacheConfig.ttl_seconds)，未配置或非正数时回退到
// constant.ResponseCacheTTL。
func NewFeedQueryService(cacheStore redisRepo.CacheStore, indexRepo es.PostIndexRepository, cacheCfg config.CacheConfig, logger *core.ZapLogger) FeedQueryService {
	cacheTTL := time.Duration(cacheCfg.TTLSeconds) * time.Second
	if cacheTTL <= 0 {
		cacheTTL = constant.ResponseCacheTTL
	}
	return &feedQueryService{
		cacheStore: cacheStore,
		indexRepo:  indexRepo,
		cacheTTL:   cacheTTL,
		logger:     logger,
	}
}

func (s *feedQueryService) CachedJSON(ctx context.Context, key string, loader func(ctx context.Context) (interface{}, error)) (json.RawMessage, error) {
	cached, err := s.cacheStore.Get(ctx, key)
	if err == nil {
		s.logger.Debug("缓存命中", zap.String("key", key))
		return cached, nil
	}
	if !errors.Is(err, myErrors.ErrCacheMiss) {
		// Redis 故障: 降级回源，不让缓存层故障放大为读路径故障
		s.logger.Warn("读缓存失败，降级为直接回源", zap.Error(err), zap.String("key", key))
	}

	payload, err := loader(ctx)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("序列化响应负载失败: %w", err)
	}

	if setErr := s.cacheStore.Set(ctx, key, data, s.cacheTTL); setErr != nil {
		// 回填失败只影响下一次命中率，不影响本次响应
		s.logger.Warn("缓存回填失败", zap.Error(setErr), zap.String("key", key))
	}
	return data, nil
}

func (s *feedQueryService) SearchPosts(ctx context.Context, req *dto.SearchPostsRequest) (*vo.SearchPostsVO, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}

	query := es.NewPostQuery((page-1)*pageSize, pageSize).
		ApplyTextSearch(req.Query).
		ApplyGeoFilter(req.Latitude, req.Longitude, req.Distance)
	if err := query.ApplyOrdering(req.Ordering); err != nil {
		return nil, err
	}

	result, err := s.indexRepo.SearchPosts(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("执行帖子搜索失败: %w", err)
	}

	response := &vo.SearchPostsVO{
		Posts: make([]*vo.SearchPostVO, 0, len(result.Documents)),
		Total: result.Total,
	}
	for _, doc := range result.Documents {
		response.Posts = append(response.Posts, &vo.SearchPostVO{
			ID:            doc.ID,
			Title:         doc.Title,
			Author:        doc.Author,
			LikesCount:    doc.LikesCount,
			CommentsCount: doc.CommentsCount,
			Created:       doc.Created,
			Modified:      doc.Modified,
		})
	}
	return response, nil
}

package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/core"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/Xushengqwer/feed_service/config"
	"github.com/Xushengqwer/feed_service/models/events"
	"github.com/Xushengqwer/feed_service/repo/es"
	"github.com/Xushengqwer/feed_service/repo/mysql"
)

// SearchSyncEventHandler 搜索索引同步消费组的消息处理器。
//
// 同步策略是"回读重建": 不从事件负载取数据，而是在每次相关事件后
// 从数据库重新读取帖子与统计计数，整体重写索引文档。文档内容因此只
// 取决于重建时刻的数据库状态，乱序或重复事件最多触发一次多余的重建，
// 不会在索引里留下部分旧字段。
type SearchSyncEventHandler struct {
	logger    *core.ZapLogger
	topics    config.Topics
	postRepo  mysql.PostRepository
	statsRepo mysql.PostStatisticsRepository
	indexRepo es.PostIndexRepository
}

// NewSearchSyncEventHandler 创建搜索索引同步消费组的消息处理器。
func NewSearchSyncEventHandler(
	logger *core.ZapLogger,
	topics config.Topics,
	postRepo mysql.PostRepository,
	statsRepo mysql.PostStatisticsRepository,
	indexRepo es.PostIndexRepository,
) *SearchSyncEventHandler {
	return &SearchSyncEventHandler{
		logger:    logger,
		topics:    topics,
		postRepo:  postRepo,
		statsRepo: statsRepo,
		indexRepo: indexRepo,
	}
}

func (h *SearchSyncEventHandler) Handle(ctx context.Context, msg kafka.Message) error {
	var postID uint64

	switch msg.Topic {
	case h.topics.FeedMutation:
		var event events.MutationEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			h.logger.Error("SearchSyncEventHandler: 反序列化变更事件失败", zap.Error(err), zap.ByteString("value", msg.Value))
			return nil // 不重试无法解析的消息
		}
		postID = event.ParentPostID
	case h.topics.StatisticsChanged:
		var event events.StatisticsChangedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			h.logger.Error("SearchSyncEventHandler: 反序列化统计变更事件失败", zap.Error(err), zap.ByteString("value", msg.Value))
			return nil
		}
		postID = event.PostID
	default:
		h.logger.Warn("SearchSyncEventHandler: 收到未订阅主题的消息", zap.String("topic", msg.Topic))
		return nil
	}

	return h.rebuildDocument(ctx, postID)
}

// rebuildDocument 以数据库当前状态重建索引文档。
// 帖子已(软)删除时改为删除文档: "帖子删除"与"帖子查不到"在索引侧
// 是同一个结果，无需区分事件类型。
func (h *SearchSyncEventHandler) rebuildDocument(ctx context.Context, postID uint64) error {
	post, err := h.postRepo.GetPostByID(ctx, postID)
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			if delErr := h.indexRepo.DeletePost(ctx, postID); delErr != nil {
				return fmt.Errorf("SearchSyncEventHandler: 删除索引文档失败: %w", delErr)
			}
			h.logger.Debug("SearchSyncEventHandler: 帖子已删除，索引文档已移除", zap.Uint64("post_id", postID))
			return nil
		}
		return fmt.Errorf("SearchSyncEventHandler: 读取帖子失败 (ID: %d): %w", postID, err)
	}

	// 统计行缺失按零计数处理: 行与帖子同事务创建，缺失只会出现在
	// 极端的主从延迟窗口里，下一次统计变更事件会再次触发重建。
	var likes, comments int64
	stats, err := h.statsRepo.GetByPostID(ctx, postID)
	switch {
	case err == nil:
		likes, comments = stats.LikesCount, stats.CommentsCount
	case errors.Is(err, commonerrors.ErrRepoNotFound):
		h.logger.Warn("SearchSyncEventHandler: 统计行缺失，按零计数重建文档", zap.Uint64("post_id", postID))
	default:
		return fmt.Errorf("SearchSyncEventHandler: 读取统计失败 (PostID: %d): %w", postID, err)
	}

	doc := &es.PostDocument{
		ID:            post.ID,
		Title:         post.Title,
		Author:        post.AuthorUsername,
		LikesCount:    likes,
		CommentsCount: comments,
		Created:       post.CreatedAt,
		Modified:      post.UpdatedAt,
	}
	if post.Latitude != 0 || post.Longitude != 0 {
		doc.Location = &es.GeoPoint{Lat: post.Latitude, Lon: post.Longitude}
	}

	if err := h.indexRepo.UpsertPost(ctx, doc); err != nil {
		return fmt.Errorf("SearchSyncEventHandler: 重建索引文档失败 (PostID: %d): %w", postID, err)
	}
	return nil
}

package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/feed_service/models/entities"
	"github.com/Xushengqwer/feed_service/models/events"
	"github.com/Xushengqwer/feed_service/mq/producer"
	"github.com/Xushengqwer/feed_service/myErrors"
	"github.com/Xushengqwer/feed_service/repo/mysql"
)

// LikeService 定义了处理点赞业务逻辑的接口。
// - "同一用户对同一帖子仅一条活跃点赞"在这里校验 (写前查活跃行)，数据库层
//   不设唯一约束以兼容软删除后的再次点赞。
// - 点赞计数由计数消费者按事件异步维护。
type LikeService interface {
	// LikePost 点赞帖子。已有活跃点赞时返回 myErrors.ErrAlreadyLiked。
	LikePost(ctx context.Context, postID uint64, userID string) error

	// UnlikePost 取消点赞 (软删除活跃点赞行)。无活跃点赞时幂等返回成功。
	UnlikePost(ctx context.Context, postID uint64, userID string) error
}

type likeService struct {
	db        *gorm.DB
	likeRepo  mysql.LikeRepository
	postRepo  mysql.PostRepository
	publisher producer.EventPublisher
	logger    *core.ZapLogger
}

// NewLikeService 是 likeService 的构造函数。
func NewLikeService(
	db *gorm.DB,
	likeRepo mysql.LikeRepository,
	postRepo mysql.PostRepository,
	publisher producer.EventPublisher,
	logger *core.ZapLogger,
) LikeService {
	return &likeService{
		db:        db,
		likeRepo:  likeRepo,
		postRepo:  postRepo,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *likeService) LikePost(ctx context.Context, postID uint64, userID string) error {
	if _, err := s.postRepo.GetPostByID(ctx, postID); err != nil {
		return err
	}

	// 写前校验活跃行。并发双击的极端窗口可能漏过两条，计数会多一，
	// 由统计对账任务按活跃行数收敛。
	if _, err := s.likeRepo.GetActiveLike(ctx, postID, userID); err == nil {
		return myErrors.ErrAlreadyLiked
	} else if !errors.Is(err, commonerrors.ErrRepoNotFound) {
		return fmt.Errorf("校验活跃点赞失败: %w", err)
	}

	like := &entities.Like{PostID: postID, AuthorID: userID}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.likeRepo.CreateLike(ctx, tx, like)
	})
	if err != nil {
		s.logger.Error("创建点赞失败", zap.Error(err), zap.Uint64("post_id", postID))
		return fmt.Errorf("创建点赞失败: %w", err)
	}

	if pubErr := s.publisher.PublishMutationEvent(ctx, events.KindLike, like.ID, events.OpCreated, postID); pubErr != nil {
		s.logger.Error("点赞已落库但变更事件发布失败，点赞计数与缓存将不更新",
			zap.Error(pubErr), zap.Uint64("like_id", like.ID))
		return fmt.Errorf("点赞已创建 (ID: %d) 但变更事件发布失败: %w", like.ID, pubErr)
	}
	return nil
}

func (s *likeService) UnlikePost(ctx context.Context, postID uint64, userID string) error {
	like, err := s.likeRepo.GetActiveLike(ctx, postID, userID)
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			// 无活跃点赞: 取消操作幂等成功，不产生事件
			return nil
		}
		return fmt.Errorf("查询活跃点赞失败: %w", err)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.likeRepo.DeleteLike(ctx, tx, like.ID)
	})
	if err != nil {
		s.logger.Error("取消点赞失败", zap.Error(err), zap.Uint64("like_id", like.ID))
		return fmt.Errorf("取消点赞失败: %w", err)
	}

	if pubErr := s.publisher.PublishMutationEvent(ctx, events.KindLike, like.ID, events.OpDeleted, postID); pubErr != nil {
		s.logger.Error("点赞已取消但变更事件发布失败",
			zap.Error(pubErr), zap.Uint64("like_id", like.ID))
		return fmt.Errorf("点赞已取消 (ID: %d) 但变更事件发布失败: %w", like.ID, pubErr)
	}
	return nil
}

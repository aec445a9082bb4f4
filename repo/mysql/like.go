package mysql

import (
	"context"
	"errors"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/feed_service/models/entities"
)

// LikeRepository 定义了点赞数据在 MySQL 中的持久化操作接口。
type LikeRepository interface {
	// CreateLike 持久化一条新点赞。
	CreateLike(ctx context.Context, db *gorm.DB, like *entities.Like) error

	// GetLikeAnyState 按 ID 检索点赞，包含已软删除的行。
	// - 供计数更新 Worker 做"确实活跃过"校验与通知文案取作者。
	GetLikeAnyState(ctx context.Context, id uint64) (*entities.Like, error)

	// GetActiveLike 查找用户对帖子的活跃点赞；不存在返回 ErrRepoNotFound。
	// - 写路径用它实现"同一用户仅一条活跃点赞"与取消点赞定位。
	GetActiveLike(ctx context.Context, postID uint64, authorID string) (*entities.Like, error)

	// DeleteLike 软删除一条点赞。
	DeleteLike(ctx context.Context, db *gorm.DB, id uint64) error
}

type likeRepository struct {
	db     *gorm.DB
	logger *core.ZapLogger
}

// NewLikeRepository 是 likeRepository 的构造函数。
func NewLikeRepository(db *gorm.DB, logger *core.ZapLogger) LikeRepository {
	return &likeRepository{db: db, logger: logger}
}

func (r *likeRepository) CreateLike(ctx context.Context, db *gorm.DB, like *entities.Like) error {
	return db.WithContext(ctx).Create(like).Error
}

func (r *likeRepository) GetLikeAnyState(ctx context.Context, id uint64) (*entities.Like, error) {
	var like entities.Like
	err := r.db.WithContext(ctx).Unscoped().First(&like, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, commonerrors.ErrRepoNotFound
		}
		r.logger.Error("根据 ID 获取点赞(含已删除)失败", zap.Uint64("likeID", id), zap.Error(err))
		return nil, err
	}
	return &like, nil
}

func (r *likeRepository) GetActiveLike(ctx context.Context, postID uint64, authorID string) (*entities.Like, error) {
	var like entities.Like
	err := r.db.WithContext(ctx).
		Where("post_id = ? AND author_id = ?", postID, authorID).
		First(&like).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, commonerrors.ErrRepoNotFound
		}
		r.logger.Error("查询活跃点赞失败", zap.Error(err), zap.Uint64("postID", postID), zap.String("authorID", authorID))
		return nil, err
	}
	return &like, nil
}

func (r *likeRepository) DeleteLike(ctx context.Context, db *gorm.DB, id uint64) error {
	result := db.WithContext(ctx).Delete(&entities.Like{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return commonerrors.ErrRepoNotFound
	}
	return nil
}

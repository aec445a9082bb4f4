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

// CommentRepository 定义了评论数据在 MySQL 中的持久化操作接口。
type CommentRepository interface {
	// CreateComment 持久化一条新评论。
	CreateComment(ctx context.Context, db *gorm.DB, comment *entities.Comment) error

	// GetCommentByID 按 ID 检索活跃评论；未找到返回 commonerrors.ErrRepoNotFound。
	GetCommentByID(ctx context.Context, id uint64) (*entities.Comment, error)

	// GetCommentAnyState 按 ID 检索评论，包含已软删除的行。
	// - 计数更新 Worker 用它校验 deleted 事件对应的实体"确实活跃过"，以及
	//   读取评论作者用于通知文案。
	GetCommentAnyState(ctx context.Context, id uint64) (*entities.Comment, error)

	// ListCommentsByPost 分页获取帖子下的活跃评论（时间升序）。
	ListCommentsByPost(ctx context.Context, postID uint64, offset, limit int) ([]*entities.Comment, int64, error)

	// DeleteComment 软删除一条评论。
	DeleteComment(ctx context.Context, db *gorm.DB, id uint64) error
}

type commentRepository struct {
	db     *gorm.DB
	logger *core.ZapLogger
}

// NewCommentRepository 是 commentRepository 的构造函数。
func NewCommentRepository(db *gorm.DB, logger *core.ZapLogger) CommentRepository {
	return &commentRepository{db: db, logger: logger}
}

func (r *commentRepository) CreateComment(ctx context.Context, db *gorm.DB, comment *entities.Comment) error {
	return db.WithContext(ctx).Create(comment).Error
}

func (r *commentRepository) GetCommentByID(ctx context.Context, id uint64) (*entities.Comment, error) {
	var comment entities.Comment
	err := r.db.WithContext(ctx).First(&comment, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, commonerrors.ErrRepoNotFound
		}
		r.logger.Error("根据 ID 获取评论失败", zap.Uint64("commentID", id), zap.Error(err))
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) GetCommentAnyState(ctx context.Context, id uint64) (*entities.Comment, error) {
	var comment entities.Comment
	// Unscoped: 软删除行也要能找到
	err := r.db.WithContext(ctx).Unscoped().First(&comment, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, commonerrors.ErrRepoNotFound
		}
		r.logger.Error("根据 ID 获取评论(含已删除)失败", zap.Uint64("commentID", id), zap.Error(err))
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) ListCommentsByPost(ctx context.Context, postID uint64, offset, limit int) ([]*entities.Comment, int64, error) {
	var comments []*entities.Comment
	var total int64

	base := r.db.WithContext(ctx).Model(&entities.Comment{}).Where("post_id = ?", postID)
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return comments, 0, nil
	}

	err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at ASC").Order("id ASC").
		Offset(offset).Limit(limit).
		Find(&comments).Error
	if err != nil {
		r.logger.Error("分页获取帖子评论失败", zap.Error(err), zap.Uint64("postID", postID))
		return nil, 0, err
	}
	return comments, total, nil
}

func (r *commentRepository) DeleteComment(ctx context.Context, db *gorm.DB, id uint64) error {
	result := db.WithContext(ctx).Delete(&entities.Comment{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return commonerrors.ErrRepoNotFound
	}
	return nil
}

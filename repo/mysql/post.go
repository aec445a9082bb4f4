package mysql

import (
	"context"
	"errors"
	"fmt"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/feed_service/models/entities"
)

// PostRepository 定义了帖子数据在 MySQL 中的持久化操作接口。
// 接口的设计旨在将数据访问逻辑与业务逻辑（服务层）解耦。
// 软删除语义: 所有查询默认只命中活跃行（GORM 依据 deleted_at IS NULL 过滤），
// 需要看到已删除行的方法显式使用 Unscoped 并在注释中说明。
type PostRepository interface {
	// CreatePost 持久化一个新的帖子记录。
	// - 接收事务句柄: 帖子与其统计行必须在同一事务中创建。
	CreatePost(ctx context.Context, db *gorm.DB, post *entities.Post) error

	// GetPostByID 根据单个 ID 检索活跃帖子。
	// - 如果未找到帖子，返回 commonerrors.ErrRepoNotFound 错误。
	GetPostByID(ctx context.Context, id uint64) (*entities.Post, error)

	// ListPostsByCursor 游标分页获取活跃帖子列表（ID 降序，越新越前）。
	// - cursor 为 nil 表示首次加载；返回的 nextCursor 为 nil 表示没有更多数据。
	ListPostsByCursor(ctx context.Context, cursor *uint64, pageSize int) ([]*entities.Post, *uint64, error)

	// DeletePost 对指定帖子执行软删除。
	// - GORM 填充 deleted_at，数据仍在库中，下游视图异步收敛。
	DeletePost(ctx context.Context, db *gorm.DB, id uint64) error

	// ReassignCategory 把指定分类下的活跃帖子改挂到目标分类。
	// - 供分类删除事务使用（SET DEFAULT 语义）。
	ReassignCategory(ctx context.Context, db *gorm.DB, fromCategoryID, toCategoryID uint64) error

	// ReplaceHashtags 整组替换帖子的话题标签关联。
	ReplaceHashtags(ctx context.Context, db *gorm.DB, post *entities.Post, tags []*entities.Hashtag) error
}

type postRepository struct {
	db     *gorm.DB
	logger *core.ZapLogger
}

// NewPostRepository 是 postRepository 的构造函数。
func NewPostRepository(db *gorm.DB, logger *core.ZapLogger) PostRepository {
	return &postRepository{db: db, logger: logger}
}

func (r *postRepository) CreatePost(ctx context.Context, db *gorm.DB, post *entities.Post) error {
	if err := db.WithContext(ctx).Create(post).Error; err != nil {
		return err
	}
	return nil
}

func (r *postRepository) GetPostByID(ctx context.Context, id uint64) (*entities.Post, error) {
	var post entities.Post
	err := r.db.WithContext(ctx).Preload("Hashtags").First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.logger.Warn("根据 ID 获取帖子未找到", zap.Uint64("postID", id))
			return nil, commonerrors.ErrRepoNotFound
		}
		r.logger.Error("根据 ID 获取帖子数据库查询失败", zap.Uint64("postID", id), zap.Error(err))
		return nil, err
	}
	return &post, nil
}

// ListPostsByCursor 实现游标方式获取帖子列表。
func (r *postRepository) ListPostsByCursor(ctx context.Context, cursor *uint64, pageSize int) ([]*entities.Post, *uint64, error) {
	var posts []*entities.Post

	query := r.db.WithContext(ctx).Preload("Hashtags").Order("id DESC")
	if cursor != nil {
		query = query.Where("id < ?", *cursor)
	}

	// 查询 pageSize + 1 条记录，用于判断是否还有下一页
	if err := query.Limit(pageSize + 1).Find(&posts).Error; err != nil {
		return nil, nil, err
	}

	var nextCursor *uint64
	if len(posts) > pageSize {
		nextCursor = &posts[pageSize-1].ID
		posts = posts[:pageSize]
	}
	return posts, nextCursor, nil
}

func (r *postRepository) DeletePost(ctx context.Context, db *gorm.DB, id uint64) error {
	result := db.WithContext(ctx).Delete(&entities.Post{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return commonerrors.ErrRepoNotFound
	}
	return nil
}

func (r *postRepository) ReassignCategory(ctx context.Context, db *gorm.DB, fromCategoryID, toCategoryID uint64) error {
	result := db.WithContext(ctx).
		Model(&entities.Post{}).
		Where("category_id = ?", fromCategoryID).
		UpdateColumn("category_id", toCategoryID)
	if result.Error != nil {
		r.logger.Error("批量改挂帖子分类失败",
			zap.Error(result.Error),
			zap.Uint64("fromCategoryID", fromCategoryID),
			zap.Uint64("toCategoryID", toCategoryID),
		)
		return fmt.Errorf("改挂帖子分类失败: %w", result.Error)
	}
	r.logger.Info("帖子分类已改挂",
		zap.Uint64("fromCategoryID", fromCategoryID),
		zap.Uint64("toCategoryID", toCategoryID),
		zap.Int64("rowsAffected", result.RowsAffected),
	)
	return nil
}

func (r *postRepository) ReplaceHashtags(ctx context.Context, db *gorm.DB, post *entities.Post, tags []*entities.Hashtag) error {
	if err := db.WithContext(ctx).Model(post).Association("Hashtags").Replace(tags); err != nil {
		r.logger.Error("替换帖子话题标签失败", zap.Error(err), zap.Uint64("postID", post.ID))
		return fmt.Errorf("替换帖子话题标签失败: %w", err)
	}
	return nil
}

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
	"github.com/Xushengqwer/feed_service/models/events"
)

// StatField 标识可被原子增减的计数列。
type StatField string

const (
	FieldLikesCount    StatField = "likes_count"
	FieldCommentsCount StatField = "comments_count"
)

// StatFieldForKind 把触发实体类型映射到对应的计数列。
// 不认识的实体类型返回 false，调用方据此走忽略/告警分支而不是写错列。
func StatFieldForKind(kind events.EntityKind) (StatField, bool) {
	switch kind {
	case events.KindLike:
		return FieldLikesCount, true
	case events.KindComment:
		return FieldCommentsCount, true
	default:
		return "", false
	}
}

// PostStatisticsRepository 定义了帖子统计行在 MySQL 中的持久化操作接口。
type PostStatisticsRepository interface {
	// CreateStatistics 创建统计行，计数初始为零。
	// - 仅由帖子创建事务调用（与 Post 同事务），这是统计行唯一的创建路径。
	CreateStatistics(ctx context.Context, db *gorm.DB, postID uint64) error

	// AtomicIncrement 对指定计数列做单条原子 UPDATE（增量可为负）。
	// - 并发安全的关键: "SET f = f + ?" 在数据库内完成读改写，多个 Worker
	//   同时处理同一帖子的事件时不会丢失更新；任何形式的先读后写都是缺陷。
	// - likes_count 用 GREATEST 钳制非负；comments_count 不钳制，负值作为
	//   事件流缺陷的信号保留。
	// - 目标行不存在（或已软删除）时返回 commonerrors.ErrRepoNotFound，
	//   由调用方决定重试或死信。
	AtomicIncrement(ctx context.Context, postID uint64, field StatField, delta int64) error

	// GetByPostID 按帖子 ID 获取统计行。
	// - 未找到时返回 commonerrors.ErrRepoNotFound。
	GetByPostID(ctx context.Context, postID uint64) (*entities.PostStatistics, error)
}

type postStatisticsRepository struct {
	db     *gorm.DB
	logger *core.ZapLogger
}

// NewPostStatisticsRepository 是 postStatisticsRepository 的构造函数。
func NewPostStatisticsRepository(db *gorm.DB, logger *core.ZapLogger) PostStatisticsRepository {
	return &postStatisticsRepository{db: db, logger: logger}
}

func (r *postStatisticsRepository) CreateStatistics(ctx context.Context, db *gorm.DB, postID uint64) error {
	stats := &entities.PostStatistics{PostID: postID}
	if err := db.WithContext(ctx).Create(stats).Error; err != nil {
		return fmt.Errorf("创建帖子统计行失败 (PostID: %d): %w", postID, err)
	}
	return nil
}

func (r *postStatisticsRepository) AtomicIncrement(ctx context.Context, postID uint64, field StatField, delta int64) error {
	var expr interface{}
	switch field {
	case FieldLikesCount:
		// 点赞数钳制非负，重复投递的 deleted 事件不会把计数打成负数
		expr = gorm.Expr("GREATEST(likes_count + ?, 0)", delta)
	case FieldCommentsCount:
		expr = gorm.Expr("comments_count + ?", delta)
	default:
		return fmt.Errorf("未知的统计字段: %q", field)
	}

	result := r.db.WithContext(ctx).
		Model(&entities.PostStatistics{}).
		Where("post_id = ?", postID).
		UpdateColumn(string(field), expr)

	if result.Error != nil {
		r.logger.Error("原子更新统计计数失败",
			zap.Error(result.Error),
			zap.Uint64("postID", postID),
			zap.String("field", string(field)),
			zap.Int64("delta", delta),
		)
		return result.Error
	}
	if result.RowsAffected == 0 {
		// 默认协议下驱动报告的是"实际变更"的行数而不是匹配行数:
		// GREATEST 把零值上的递减钳制为原值时行内容不变，同样报告 0。
		// 必须区分"行不存在"与"行存在但值未变"，后者是合法的无操作，
		// 误判成行缺失会让事件白白重试后进死信。
		var count int64
		if err := r.db.WithContext(ctx).
			Model(&entities.PostStatistics{}).
			Where("post_id = ?", postID).
			Count(&count).Error; err != nil {
			r.logger.Error("统计行存在性检查失败",
				zap.Error(err),
				zap.Uint64("postID", postID),
			)
			return err
		}
		if count == 0 {
			// 统计行确实缺失: 多为与帖子创建事务之间的短暂竞态，调用方会重试
			return commonerrors.ErrRepoNotFound
		}
	}
	return nil
}

func (r *postStatisticsRepository) GetByPostID(ctx context.Context, postID uint64) (*entities.PostStatistics, error) {
	var stats entities.PostStatistics
	err := r.db.WithContext(ctx).Where("post_id = ?", postID).First(&stats).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, commonerrors.ErrRepoNotFound
		}
		r.logger.Error("查询帖子统计行失败", zap.Error(err), zap.Uint64("postID", postID))
		return nil, err
	}
	return &stats, nil
}

package mysql

import (
	"context"
	"fmt"

	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Xushengqwer/feed_service/models/entities"
)

// HashtagRepository 话题标签持久化操作接口。
// 标签没有独立写接口，只随帖子正文提取流程 get-or-create。
type HashtagRepository interface {
	// GetOrCreateByNames 按名称批量 get-or-create 标签。
	// - 用 ON CONFLICT DO NOTHING 规避并发发帖对同名标签的插入竞争，
	//   随后统一回查拿到完整实体。
	GetOrCreateByNames(ctx context.Context, db *gorm.DB, names []string) ([]*entities.Hashtag, error)
}

type hashtagRepository struct {
	db     *gorm.DB
	logger *core.ZapLogger
}

func NewHashtagRepository(db *gorm.DB, logger *core.ZapLogger) HashtagRepository {
	return &hashtagRepository{db: db, logger: logger}
}

func (r *hashtagRepository) GetOrCreateByNames(ctx context.Context, db *gorm.DB, names []string) ([]*entities.Hashtag, error) {
	if len(names) == 0 {
		return nil, nil
	}

	toInsert := make([]*entities.Hashtag, 0, len(names))
	for _, name := range names {
		toInsert = append(toInsert, &entities.Hashtag{Name: name})
	}
	if err := db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&toInsert).Error; err != nil {
		r.logger.Error("批量创建话题标签失败", zap.Error(err), zap.Strings("names", names))
		return nil, fmt.Errorf("批量创建话题标签失败: %w", err)
	}

	// 回查: DoNothing 不回填已存在行的 ID
	var tags []*entities.Hashtag
	if err := db.WithContext(ctx).Where("name IN ?", names).Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("回查话题标签失败: %w", err)
	}
	return tags, nil
}

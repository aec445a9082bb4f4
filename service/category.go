package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/feed_service/constant"
	"github.com/Xushengqwer/feed_service/models/dto"
	"github.com/Xushengqwer/feed_service/models/entities"
	"github.com/Xushengqwer/feed_service/models/vo"
	"github.com/Xushengqwer/feed_service/repo/mysql"
)

// errDefaultCategoryImmutable 兜底分类承接被删分类下的帖子，自身不可删除。
var errDefaultCategoryImmutable = errors.New("category: default category cannot be deleted")

// CategoryService 定义了分类管理的业务逻辑接口。
type CategoryService interface {
	// CreateCategory 创建分类。
	CreateCategory(ctx context.Context, req *dto.CreateCategoryRequest) (*vo.CategoryVO, error)

	// ListCategories 获取全部分类。
	ListCategories(ctx context.Context) ([]*vo.CategoryVO, error)

	// DeleteCategory 删除分类，同事务内把其下帖子改挂到兜底分类，
	// 保证任何时刻帖子的 CategoryID 都指向有效分类。
	DeleteCategory(ctx context.Context, categoryID uint64) error
}

type categoryService struct {
	db           *gorm.DB
	categoryRepo mysql.CategoryRepository
	postRepo     mysql.PostRepository
	logger       *core.ZapLogger
}

// NewCategoryService 是 categoryService 的构造函数。
func NewCategoryService(db *gorm.DB, categoryRepo mysql.CategoryRepository, postRepo mysql.PostRepository, logger *core.ZapLogger) CategoryService {
	return &categoryService{
		db:           db,
		categoryRepo: categoryRepo,
		postRepo:     postRepo,
		logger:       logger,
	}
}

func (s *categoryService) CreateCategory(ctx context.Context, req *dto.CreateCategoryRequest) (*vo.CategoryVO, error) {
	category := &entities.Category{Name: req.Name}
	if err := s.categoryRepo.CreateCategory(ctx, category); err != nil {
		s.logger.Error("创建分类失败", zap.Error(err), zap.String("name", req.Name))
		return nil, fmt.Errorf("创建分类失败: %w", err)
	}
	return &vo.CategoryVO{ID: category.ID, Name: category.Name}, nil
}

func (s *categoryService) ListCategories(ctx context.Context) ([]*vo.CategoryVO, error) {
	categories, err := s.categoryRepo.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("查询分类列表失败: %w", err)
	}

	result := make([]*vo.CategoryVO, 0, len(categories))
	for _, category := range categories {
		result = append(result, &vo.CategoryVO{ID: category.ID, Name: category.Name})
	}
	return result, nil
}

func (s *categoryService) DeleteCategory(ctx context.Context, categoryID uint64) error {
	if categoryID == constant.DefaultCategoryID {
		return errDefaultCategoryImmutable
	}
	if _, err := s.categoryRepo.GetCategoryByID(ctx, categoryID); err != nil {
		return err
	}

	// 改挂与删除同事务: 不允许出现挂在已删分类下的帖子
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if repoErr := s.postRepo.ReassignCategory(ctx, tx, categoryID, constant.DefaultCategoryID); repoErr != nil {
			return fmt.Errorf("改挂帖子到兜底分类失败: %w", repoErr)
		}
		return s.categoryRepo.DeleteCategory(ctx, tx, categoryID)
	})
	if err != nil {
		s.logger.Error("删除分类失败", zap.Error(err), zap.Uint64("category_id", categoryID))
		return err
	}

	s.logger.Info("分类已删除，其下帖子改挂到兜底分类",
		zap.Uint64("category_id", categoryID),
		zap.Uint64("default_category_id", constant.DefaultCategoryID))
	return nil
}

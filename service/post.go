package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/feed_service/constant"
	"github.com/Xushengqwer/feed_service/models/dto"
	"github.com/Xushengqwer/feed_service/models/entities"
	"github.com/Xushengqwer/feed_service/models/events"
	"github.com/Xushengqwer/feed_service/models/vo"
	"github.com/Xushengqwer/feed_service/mq/producer"
	"github.com/Xushengqwer/feed_service/myErrors"
	"github.com/Xushengqwer/feed_service/repo/mysql"
)

// PostService 定义了处理帖子核心业务逻辑的接口。
type PostService interface {
	// CreatePost 处理用户发布新帖子的业务流程。
	// - 帖子、统计行 (计数全零)、话题标签在同一事务内落库。
	// - 事务提交后同步发布内容变更事件；发布失败时错误原样返回给调用方，
	//   帖子已存在但衍生数据 (缓存/索引/计数) 不会收到通知，上游必须感知。
	CreatePost(ctx context.Context, req *dto.CreatePostRequest, authorID string) (*vo.PostVO, error)

	// DeletePost 处理用户删除帖子的操作 (软删除)。
	// - 仅帖子作者本人可删除，否则返回 myErrors.ErrNotOwner。
	DeletePost(ctx context.Context, postID uint64, userID string) error

	// GetPostDetail 获取单个帖子的详细信息 (含统计计数与话题标签)。
	GetPostDetail(ctx context.Context, postID uint64) (*vo.PostVO, error)

	// ListPostsByCursor 游标分页获取帖子列表。
	ListPostsByCursor(ctx context.Context, req *dto.ListPostsByCursorRequest) (*vo.ListPostsByCursorVO, error)
}

// postService 是 PostService 接口的具体实现。
type postService struct {
	db           *gorm.DB
	postRepo     mysql.PostRepository
	statsRepo    mysql.PostStatisticsRepository
	hashtagRepo  mysql.HashtagRepository
	categoryRepo mysql.CategoryRepository
	publisher    producer.EventPublisher
	logger       *core.ZapLogger
}

// NewPostService 是 postService 的构造函数，通过依赖注入初始化服务实例。
func NewPostService(
	db *gorm.DB,
	postRepo mysql.PostRepository,
	statsRepo mysql.PostStatisticsRepository,
	hashtagRepo mysql.HashtagRepository,
	categoryRepo mysql.CategoryRepository,
	publisher producer.EventPublisher,
	logger *core.ZapLogger,
) PostService {
	return &postService{
		db:           db,
		postRepo:     postRepo,
		statsRepo:    statsRepo,
		hashtagRepo:  hashtagRepo,
		categoryRepo: categoryRepo,
		publisher:    publisher,
		logger:       logger,
	}
}

// CreatePost 处理用户创建新帖子的请求。
func (s *postService) CreatePost(ctx context.Context, req *dto.CreatePostRequest, authorID string) (*vo.PostVO, error) {
	// 1. 解析分类: 未指定或指向不存在的分类时挂到兜底分类
	categoryID := req.CategoryID
	if categoryID == 0 {
		categoryID = constant.DefaultCategoryID
	} else if _, err := s.categoryRepo.GetCategoryByID(ctx, categoryID); err != nil {
		if !errors.Is(err, commonerrors.ErrRepoNotFound) {
			return nil, fmt.Errorf("校验分类失败: %w", err)
		}
		s.logger.Warn("创建帖子: 指定的分类不存在，挂到兜底分类",
			zap.Uint64("requested_category_id", categoryID))
		categoryID = constant.DefaultCategoryID
	}

	post := &entities.Post{
		Title:          req.Title,
		Content:        req.Content,
		AuthorID:       authorID,
		AuthorUsername: req.AuthorUsername,
		CategoryID:     categoryID,
	}
	if req.Latitude != nil {
		post.Latitude = *req.Latitude
	}
	if req.Longitude != nil {
		post.Longitude = *req.Longitude
	}

	// 2. 帖子 + 统计行 + 话题标签在同一事务内落库。
	//    统计行与帖子同事务创建，计数消费者处理首条评论/点赞事件时
	//    目标行必定存在 (或重试窗口内可见)。
	tagNames := ExtractHashtags(req.Content)
	var tags []*entities.Hashtag
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if repoErr := s.postRepo.CreatePost(ctx, tx, post); repoErr != nil {
			return fmt.Errorf("创建帖子失败: %w", repoErr)
		}
		if repoErr := s.statsRepo.CreateStatistics(ctx, tx, post.ID); repoErr != nil {
			return fmt.Errorf("创建统计行失败: %w", repoErr)
		}

		var repoErr error
		tags, repoErr = s.hashtagRepo.GetOrCreateByNames(ctx, tx, tagNames)
		if repoErr != nil {
			return fmt.Errorf("准备话题标签失败: %w", repoErr)
		}
		if repoErr := s.postRepo.ReplaceHashtags(ctx, tx, post, tags); repoErr != nil {
			return fmt.Errorf("关联话题标签失败: %w", repoErr)
		}
		return nil // 提交事务
	})
	if err != nil {
		s.logger.Error("创建帖子事务失败", zap.Error(err))
		return nil, err
	}

	// 3. 事务提交后同步发布变更事件。发布失败时数据库状态已不可逆，
	//    错误返回给调用方暴露"帖子已建但下游未通知"的事实。
	if pubErr := s.publisher.PublishMutationEvent(ctx, events.KindPost, post.ID, events.OpCreated, post.ID); pubErr != nil {
		s.logger.Error("帖子已落库但变更事件发布失败，衍生数据将不含该帖子",
			zap.Error(pubErr), zap.Uint64("post_id", post.ID))
		return nil, fmt.Errorf("帖子已创建 (ID: %d) 但变更事件发布失败: %w", post.ID, pubErr)
	}

	return buildPostVO(post, 0, 0, tags), nil
}

// DeletePost 实现帖子的软删除逻辑。
func (s *postService) DeletePost(ctx context.Context, postID uint64, userID string) error {
	post, err := s.postRepo.GetPostByID(ctx, postID)
	if err != nil {
		return err // 包含 ErrRepoNotFound，由控制器映射状态码
	}
	if post.AuthorID != userID {
		return myErrors.ErrNotOwner
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.postRepo.DeletePost(ctx, tx, postID)
	})
	if err != nil {
		s.logger.Error("删除帖子失败", zap.Error(err), zap.Uint64("post_id", postID))
		return fmt.Errorf("删除帖子失败: %w", err)
	}

	if pubErr := s.publisher.PublishMutationEvent(ctx, events.KindPost, postID, events.OpDeleted, postID); pubErr != nil {
		s.logger.Error("帖子已删除但变更事件发布失败，缓存与索引将保留过期数据直到 TTL/对账",
			zap.Error(pubErr), zap.Uint64("post_id", postID))
		return fmt.Errorf("帖子已删除 (ID: %d) 但变更事件发布失败: %w", postID, pubErr)
	}
	return nil
}

// GetPostDetail 组装帖子详情: 基础信息 + 统计计数 + 话题标签。
func (s *postService) GetPostDetail(ctx context.Context, postID uint64) (*vo.PostVO, error) {
	post, err := s.postRepo.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	likes, comments := s.loadCounts(ctx, postID)
	return buildPostVO(post, likes, comments, post.Hashtags), nil
}

// ListPostsByCursor 游标分页获取帖子列表。
func (s *postService) ListPostsByCursor(ctx context.Context, req *dto.ListPostsByCursorRequest) (*vo.ListPostsByCursorVO, error) {
	posts, nextCursor, err := s.postRepo.ListPostsByCursor(ctx, req.Cursor, req.PageSize)
	if err != nil {
		return nil, fmt.Errorf("查询帖子列表失败: %w", err)
	}

	result := &vo.ListPostsByCursorVO{
		Posts:      make([]*vo.PostVO, 0, len(posts)),
		NextCursor: nextCursor,
	}
	for _, post := range posts {
		likes, comments := s.loadCounts(ctx, post.ID)
		result.Posts = append(result.Posts, buildPostVO(post, likes, comments, post.Hashtags))
	}
	return result, nil
}

// loadCounts 读取统计计数。统计行缺失按零处理，列表展示不因单行异常失败。
func (s *postService) loadCounts(ctx context.Context, postID uint64) (likes, comments int64) {
	stats, err := s.statsRepo.GetByPostID(ctx, postID)
	if err != nil {
		if !errors.Is(err, commonerrors.ErrRepoNotFound) {
			s.logger.Warn("读取统计行失败，计数按零展示", zap.Error(err), zap.Uint64("post_id", postID))
		}
		return 0, 0
	}
	return stats.LikesCount, stats.CommentsCount
}

// buildPostVO 将帖子实体转换为响应 VO。
func buildPostVO(post *entities.Post, likes, comments int64, tags []*entities.Hashtag) *vo.PostVO {
	tagNames := make([]string, 0, len(tags))
	for _, tag := range tags {
		tagNames = append(tagNames, tag.Name)
	}
	return &vo.PostVO{
		ID:             post.ID,
		Title:          post.Title,
		Content:        post.Content,
		AuthorID:       post.AuthorID,
		AuthorUsername: post.AuthorUsername,
		CategoryID:     post.CategoryID,
		Latitude:       post.Latitude,
		Longitude:      post.Longitude,
		Hashtags:       tagNames,
		LikesCount:     likes,
		CommentsCount:  comments,
		CreatedAt:      post.CreatedAt,
		UpdatedAt:      post.UpdatedAt,
	}
}

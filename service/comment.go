package service

import (
	"context"
	"fmt"

	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/feed_service/models/dto"
	"github.com/Xushengqwer/feed_service/models/entities"
	"github.com/Xushengqwer/feed_service/models/events"
	"github.com/Xushengqwer/feed_service/models/vo"
	"github.com/Xushengqwer/feed_service/mq/producer"
	"github.com/Xushengqwer/feed_service/myErrors"
	"github.com/Xushengqwer/feed_service/repo/mysql"
)

// CommentService 定义了处理评论业务逻辑的接口。
// - 写操作只改评论行本身，帖子的评论计数由计数消费者按事件异步维护，
//   本服务不直接触碰统计行。
type CommentService interface {
	// CreateComment 在帖子下创建评论，事务提交后发布变更事件。
	CreateComment(ctx context.Context, postID uint64, authorID string, req *dto.CreateCommentRequest) (*vo.CommentVO, error)

	// DeleteComment 软删除评论 (仅作者本人)，并发布删除事件。
	DeleteComment(ctx context.Context, commentID uint64, userID string) error

	// GetCommentByID 获取单条活跃评论。
	GetCommentByID(ctx context.Context, commentID uint64) (*vo.CommentVO, error)

	// ListCommentsByPost 分页获取帖子的活跃评论。
	ListCommentsByPost(ctx context.Context, postID uint64, req *dto.ListCommentsRequest) (*vo.ListCommentsVO, error)
}

type commentService struct {
	db          *gorm.DB
	commentRepo mysql.CommentRepository
	postRepo    mysql.PostRepository
	publisher   producer.EventPublisher
	logger      *core.ZapLogger
}

// NewCommentService 是 commentService 的构造函数。
func NewCommentService(
	db *gorm.DB,
	commentRepo mysql.CommentRepository,
	postRepo mysql.PostRepository,
	publisher producer.EventPublisher,
	logger *core.ZapLogger,
) CommentService {
	return &commentService{
		db:          db,
		commentRepo: commentRepo,
		postRepo:    postRepo,
		publisher:   publisher,
		logger:      logger,
	}
}

func (s *commentService) CreateComment(ctx context.Context, postID uint64, authorID string, req *dto.CreateCommentRequest) (*vo.CommentVO, error) {
	// 帖子必须存在且活跃，给已删除帖子评论直接拒绝
	if _, err := s.postRepo.GetPostByID(ctx, postID); err != nil {
		return nil, err
	}

	comment := &entities.Comment{
		Content:  req.Content,
		AuthorID: authorID,
		PostID:   postID,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.commentRepo.CreateComment(ctx, tx, comment)
	})
	if err != nil {
		s.logger.Error("创建评论失败", zap.Error(err), zap.Uint64("post_id", postID))
		return nil, fmt.Errorf("创建评论失败: %w", err)
	}

	if pubErr := s.publisher.PublishMutationEvent(ctx, events.KindComment, comment.ID, events.OpCreated, postID); pubErr != nil {
		s.logger.Error("评论已落库但变更事件发布失败，评论计数与缓存将不更新",
			zap.Error(pubErr), zap.Uint64("comment_id", comment.ID))
		return nil, fmt.Errorf("评论已创建 (ID: %d) 但变更事件发布失败: %w", comment.ID, pubErr)
	}

	return buildCommentVO(comment), nil
}

func (s *commentService) DeleteComment(ctx context.Context, commentID uint64, userID string) error {
	comment, err := s.commentRepo.GetCommentByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.AuthorID != userID {
		return myErrors.ErrNotOwner
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.commentRepo.DeleteComment(ctx, tx, commentID)
	})
	if err != nil {
		s.logger.Error("删除评论失败", zap.Error(err), zap.Uint64("comment_id", commentID))
		return fmt.Errorf("删除评论失败: %w", err)
	}

	if pubErr := s.publisher.PublishMutationEvent(ctx, events.KindComment, commentID, events.OpDeleted, comment.PostID); pubErr != nil {
		s.logger.Error("评论已删除但变更事件发布失败",
			zap.Error(pubErr), zap.Uint64("comment_id", commentID))
		return fmt.Errorf("评论已删除 (ID: %d) 但变更事件发布失败: %w", commentID, pubErr)
	}
	return nil
}

func (s *commentService) GetCommentByID(ctx context.Context, commentID uint64) (*vo.CommentVO, error) {
	comment, err := s.commentRepo.GetCommentByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	return buildCommentVO(comment), nil
}

func (s *commentService) ListCommentsByPost(ctx context.Context, postID uint64, req *dto.ListCommentsRequest) (*vo.ListCommentsVO, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}

	comments, total, err := s.commentRepo.ListCommentsByPost(ctx, postID, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, fmt.Errorf("查询评论列表失败: %w", err)
	}

	result := &vo.ListCommentsVO{
		Comments: make([]*vo.CommentVO, 0, len(comments)),
		Total:    total,
	}
	for _, comment := range comments {
		result.Comments = append(result.Comments, buildCommentVO(comment))
	}
	return result, nil
}

func buildCommentVO(comment *entities.Comment) *vo.CommentVO {
	return &vo.CommentVO{
		ID:        comment.ID,
		PostID:    comment.PostID,
		AuthorID:  comment.AuthorID,
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
	}
}

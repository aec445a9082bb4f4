package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Xushengqwer/go-common/core"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/Xushengqwer/feed_service/constant"
	"github.com/Xushengqwer/feed_service/models/entities"
	"github.com/Xushengqwer/feed_service/models/events"
	"github.com/Xushengqwer/feed_service/mq/producer"
	"github.com/Xushengqwer/feed_service/repo/mysql"
	redisRepo "github.com/Xushengqwer/feed_service/repo/redis"
)

// 通知文案模板。触发者不是帖子作者时才发通知，自己给自己点赞/评论不打扰。
const (
	likedNotificationTemplate   = "Your post titled '%s' was liked."
	commentNotificationTemplate = "Your post titled '%s' has a new comment."
)

// errStaleDelete 表示删除事件指向的实体在数据库中仍是活跃状态。
// 事件与存储状态矛盾 (删除从未真正提交，或事件伪造)，递减会让计数凭空少一，
// 因此按无操作处理。
var errStaleDelete = errors.New("删除事件指向的实体仍处于活跃状态")

// CounterEventHandler 计数更新 Worker: 消费内容变更事件，维护帖子统计计数。
//
// 处理管线:
//  1. 去重: Redis SETNX 幂等标记，重复事件直接跳过 (尽力而为，过期后放行)。
//  2. 实体校验: 从数据库按事件读取触发实体 (含软删除行)，删除事件要求
//     实体"确实活跃过"，否则跳过递减。
//  3. 原子更新: 单条 UPDATE 调整计数列，点赞数在 SQL 层钳制不低于零。
//  4. 有界重试: 每一步的失败重试 constant.CounterMaxAttempts 次 (指数退避)，
//     耗尽后连同失败上下文写入死信列表，绝不静默丢弃。
//  5. 副作用: 计数落库成功后发通知 (触发者 ≠ 帖子作者时) 并发布统计变更事件。
type CounterEventHandler struct {
	logger           *core.ZapLogger
	groupID          string
	dedupRepo        redisRepo.EventDedupRepository
	deadLetterRepo   redisRepo.DeadLetterRepository
	statsRepo        mysql.PostStatisticsRepository
	postRepo         mysql.PostRepository
	commentRepo      mysql.CommentRepository
	likeRepo         mysql.LikeRepository
	notificationRepo mysql.NotificationRepository
	publisher        producer.EventPublisher
}

// NewCounterEventHandler 创建计数更新 Worker 的消息处理器。
func NewCounterEventHandler(
	logger *core.ZapLogger,
	groupID string,
	dedupRepo redisRepo.EventDedupRepository,
	deadLetterRepo redisRepo.DeadLetterRepository,
	statsRepo mysql.PostStatisticsRepository,
	postRepo mysql.PostRepository,
	commentRepo mysql.CommentRepository,
	likeRepo mysql.LikeRepository,
	notificationRepo mysql.NotificationRepository,
	publisher producer.EventPublisher,
) *CounterEventHandler {
	return &CounterEventHandler{
		logger:           logger,
		groupID:          groupID,
		dedupRepo:        dedupRepo,
		deadLetterRepo:   deadLetterRepo,
		statsRepo:        statsRepo,
		postRepo:         postRepo,
		commentRepo:      commentRepo,
		likeRepo:         likeRepo,
		notificationRepo: notificationRepo,
		publisher:        publisher,
	}
}

func (h *CounterEventHandler) Handle(ctx context.Context, msg kafka.Message) error {
	var event events.MutationEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		h.logger.Error("CounterEventHandler: 反序列化变更事件失败", zap.Error(err), zap.ByteString("value", msg.Value))
		return nil // 不重试无法解析的消息
	}

	// 帖子事件不携带计数增量，本消费组只关心评论与点赞。
	field, ok := mysql.StatFieldForKind(event.EntityKind)
	if !ok {
		return nil
	}

	// 去重检测失败时放行事件继续处理: 去重是优化不是正确性保障，
	// 偶发重复计入由统计对账任务兜底收敛。
	firstTime, err := h.dedupRepo.MarkProcessed(ctx, h.groupID, event.EventID)
	if err != nil {
		h.logger.Warn("CounterEventHandler: 去重检测失败，按首次处理放行",
			zap.Error(err), zap.String("event_id", event.EventID))
	} else if !firstTime {
		h.logger.Debug("CounterEventHandler: 重复事件，跳过",
			zap.String("event_id", event.EventID))
		return nil
	}

	// 有界重试: 实体读取与计数更新都可能因为乱序到达暂时失败
	// (统计行尚未创建、实体行尚未可见)，退避后重试给写路径追平的时间。
	var actorID string
	var lastErr error
	for attempt := 1; attempt <= constant.CounterMaxAttempts; attempt++ {
		if attempt > 1 {
			delay := constant.CounterRetryBaseDelay << (attempt - 2)
			select {
			case <-ctx.Done():
				lastErr = ctx.Err()
				return h.pushDeadLetter(ctx, event, attempt-1, lastErr)
			case <-time.After(delay):
			}
		}

		actorID, lastErr = h.applyOnce(ctx, &event, field)
		if lastErr == nil {
			break
		}
		if errors.Is(lastErr, errStaleDelete) {
			h.logger.Warn("CounterEventHandler: 删除事件的实体仍活跃，跳过递减",
				zap.String("event_id", event.EventID),
				zap.String("entity_kind", string(event.EntityKind)),
				zap.Uint64("entity_id", event.EntityID))
			return nil
		}
		h.logger.Warn("CounterEventHandler: 处理事件失败，准备重试",
			zap.Error(lastErr),
			zap.String("event_id", event.EventID),
			zap.Int("attempt", attempt))
	}
	if lastErr != nil {
		return h.pushDeadLetter(ctx, event, constant.CounterMaxAttempts, lastErr)
	}

	// 计数已落库，后续副作用失败只记录不回滚。
	if event.Operation == events.OpCreated {
		h.notifyPostAuthor(ctx, &event, actorID)
	}

	if err := h.publisher.PublishStatisticsChanged(ctx, event.ParentPostID, event.EntityKind, event.EntityID); err != nil {
		h.logger.Error("CounterEventHandler: 发布统计变更事件失败，下游缓存/索引将等待 TTL 或对账收敛",
			zap.Error(err),
			zap.String("source_event_id", event.EventID),
			zap.Uint64("post_id", event.ParentPostID))
	}
	return nil
}

// applyOnce 执行一次实体校验 + 计数更新，返回触发者用户 ID。
func (h *CounterEventHandler) applyOnce(ctx context.Context, event *events.MutationEvent, field mysql.StatField) (string, error) {
	actorID, deleted, err := h.resolveActor(ctx, event)
	if err != nil {
		return "", err
	}

	// 删除事件要求实体确实已被软删除。活跃实体的"删除"是事件流与
	// 存储状态的矛盾，放行会让计数凭空减一。
	if event.Operation == events.OpDeleted && !deleted {
		return "", errStaleDelete
	}

	delta := int64(1)
	if event.Operation == events.OpDeleted {
		delta = -1
	}

	if err := h.statsRepo.AtomicIncrement(ctx, event.ParentPostID, field, delta); err != nil {
		return "", fmt.Errorf("更新统计计数失败 (PostID: %d, 字段: %s): %w", event.ParentPostID, field, err)
	}
	return actorID, nil
}

// resolveActor 读取触发实体 (含软删除行)，返回其作者与软删除状态。
func (h *CounterEventHandler) resolveActor(ctx context.Context, event *events.MutationEvent) (actorID string, deleted bool, err error) {
	switch event.EntityKind {
	case events.KindComment:
		var comment *entities.Comment
		comment, err = h.commentRepo.GetCommentAnyState(ctx, event.EntityID)
		if err != nil {
			return "", false, fmt.Errorf("读取评论实体失败 (ID: %d): %w", event.EntityID, err)
		}
		return comment.AuthorID, comment.DeletedAt.Valid, nil
	case events.KindLike:
		var like *entities.Like
		like, err = h.likeRepo.GetLikeAnyState(ctx, event.EntityID)
		if err != nil {
			return "", false, fmt.Errorf("读取点赞实体失败 (ID: %d): %w", event.EntityID, err)
		}
		return like.AuthorID, like.DeletedAt.Valid, nil
	default:
		return "", false, fmt.Errorf("未知的实体类型: %s", event.EntityKind)
	}
}

// notifyPostAuthor 给帖子作者发通知。失败只记录，不影响已完成的计数更新。
func (h *CounterEventHandler) notifyPostAuthor(ctx context.Context, event *events.MutationEvent, actorID string) {
	post, err := h.postRepo.GetPostByID(ctx, event.ParentPostID)
	if err != nil {
		h.logger.Warn("CounterEventHandler: 读取帖子失败，跳过通知",
			zap.Error(err), zap.Uint64("post_id", event.ParentPostID))
		return
	}

	// 自己给自己点赞/评论不发通知。
	if post.AuthorID == actorID {
		return
	}

	var message string
	switch event.EntityKind {
	case events.KindLike:
		message = fmt.Sprintf(likedNotificationTemplate, post.Title)
	case events.KindComment:
		message = fmt.Sprintf(commentNotificationTemplate, post.Title)
	default:
		return
	}

	notification := &entities.Notification{
		RecipientID: post.AuthorID,
		Message:     message,
	}
	if err := h.notificationRepo.CreateNotification(ctx, notification); err != nil {
		h.logger.Error("CounterEventHandler: 创建通知失败",
			zap.Error(err),
			zap.String("recipient_id", post.AuthorID),
			zap.Uint64("post_id", event.ParentPostID))
	}
}

// pushDeadLetter 将重试耗尽的事件写入死信列表。
func (h *CounterEventHandler) pushDeadLetter(ctx context.Context, event events.MutationEvent, attempts int, lastErr error) error {
	entry := events.DeadLetterEntry{
		Event:     event,
		Attempts:  attempts,
		LastError: lastErr.Error(),
		FailedAt:  time.Now(),
	}
	if err := h.deadLetterRepo.Push(ctx, entry); err != nil {
		// 死信入队也失败: 事件彻底无处可去，只能靠日志与对账任务兜底。
		h.logger.Error("CounterEventHandler: 死信入队失败，事件丢失风险",
			zap.Error(err),
			zap.String("event_id", event.EventID))
		return err
	}
	return nil
}
